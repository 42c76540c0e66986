package medrecord

import (
	"context"
	"net/url"

	"github.com/clinic/portal/internal/platform/backend"
	"github.com/clinic/portal/internal/platform/session"
)

const (
	recordsPath     = "/MedicalRecord"
	internalPath    = "/InternalMedRecords"
	pediatricPath   = "/PediatricRecords"
	dermatologyPath = "/DermatologyRecords"
)

type recordRepoAPI struct {
	api *backend.Client
}

func NewRecordRepo(api *backend.Client) RecordRepository {
	return &recordRepoAPI{api: api}
}

func (r *recordRepoAPI) ByPatient(ctx context.Context, patientID string) ([]*MedicalRecord, error) {
	var page backend.Page[*MedicalRecord]
	path := recordsPath + "/patient/" + url.PathEscape(patientID)
	if err := r.api.Get(ctx, session.TokenFromContext(ctx), path, nil, &page); err != nil {
		return nil, err
	}
	return page.Items, nil
}

func (r *recordRepoAPI) GetByID(ctx context.Context, id string) (*MedicalRecord, error) {
	var one backend.One[*MedicalRecord]
	if err := r.api.Get(ctx, session.TokenFromContext(ctx), recordsPath+"/"+url.PathEscape(id), nil, &one); err != nil {
		return nil, err
	}
	return one.Result()
}

func (r *recordRepoAPI) Create(ctx context.Context, rec *MedicalRecord) error {
	var one backend.One[*MedicalRecord]
	if err := r.api.Post(ctx, session.TokenFromContext(ctx), recordsPath, rec, &one); err != nil {
		return err
	}
	if one.Value != nil && !one.Value.ID.IsZero() {
		*rec = *one.Value
	}
	return nil
}

func (r *recordRepoAPI) Update(ctx context.Context, rec *MedicalRecord) error {
	return r.api.Put(ctx, session.TokenFromContext(ctx), recordsPath+"/"+url.PathEscape(rec.ID.String()), rec, nil)
}

// specialtyRepoAPI serves the three specialty endpoints, which share one
// shape: lookup by medical record, POST to create, PUT by id to update.
type specialtyRepoAPI[T any] struct {
	api  *backend.Client
	path string
	id   func(*T) backend.ID
}

func NewInternalRepo(api *backend.Client) SpecialtyRepository[InternalMedRecord] {
	return &specialtyRepoAPI[InternalMedRecord]{api: api, path: internalPath, id: func(r *InternalMedRecord) backend.ID { return r.ID }}
}

func NewPediatricRepo(api *backend.Client) SpecialtyRepository[PediatricRecord] {
	return &specialtyRepoAPI[PediatricRecord]{api: api, path: pediatricPath, id: func(r *PediatricRecord) backend.ID { return r.ID }}
}

func NewDermatologyRepo(api *backend.Client) SpecialtyRepository[DermatologyRecord] {
	return &specialtyRepoAPI[DermatologyRecord]{api: api, path: dermatologyPath, id: func(r *DermatologyRecord) backend.ID { return r.ID }}
}

func (r *specialtyRepoAPI[T]) ByMedicalRecord(ctx context.Context, medicalRecordID string) (*T, error) {
	var one backend.One[*T]
	path := r.path + "/medicalrecord/" + url.PathEscape(medicalRecordID)
	if err := r.api.Get(ctx, session.TokenFromContext(ctx), path, nil, &one); err != nil {
		return nil, err
	}
	return one.Result()
}

func (r *specialtyRepoAPI[T]) Create(ctx context.Context, rec *T) error {
	var one backend.One[*T]
	if err := r.api.Post(ctx, session.TokenFromContext(ctx), r.path, rec, &one); err != nil {
		return err
	}
	if one.Value != nil && !r.id(one.Value).IsZero() {
		*rec = *one.Value
	}
	return nil
}

func (r *specialtyRepoAPI[T]) Update(ctx context.Context, rec *T) error {
	return r.api.Put(ctx, session.TokenFromContext(ctx), r.path+"/"+url.PathEscape(r.id(rec).String()), rec, nil)
}
