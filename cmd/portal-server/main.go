package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/clinic/portal/internal/config"
	"github.com/clinic/portal/internal/domain/appointment"
	"github.com/clinic/portal/internal/domain/catalog"
	"github.com/clinic/portal/internal/domain/dashboard"
	"github.com/clinic/portal/internal/domain/labresult"
	"github.com/clinic/portal/internal/domain/medrecord"
	"github.com/clinic/portal/internal/domain/notification"
	"github.com/clinic/portal/internal/domain/patient"
	"github.com/clinic/portal/internal/domain/payment"
	"github.com/clinic/portal/internal/domain/prescription"
	"github.com/clinic/portal/internal/domain/staffing"
	"github.com/clinic/portal/internal/platform/aichat"
	"github.com/clinic/portal/internal/platform/audit"
	"github.com/clinic/portal/internal/platform/auth"
	"github.com/clinic/portal/internal/platform/backend"
	"github.com/clinic/portal/internal/platform/db"
	"github.com/clinic/portal/internal/platform/middleware"
	"github.com/clinic/portal/internal/platform/navigation"
	"github.com/clinic/portal/internal/platform/session"
	"github.com/clinic/portal/internal/web"
	"github.com/clinic/portal/migrations"
)

func main() {
	if err := rootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "portal-server",
		Short:        "Clinic portal server",
		SilenceUsage: true,
	}
	root.AddCommand(serveCmd())
	root.AddCommand(migrateCmd())
	root.AddCommand(navCmd())
	return root
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the portal HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the audit store schema",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			pool, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			count, err := db.NewMigrator(pool, migrations.FS).Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Applied %d migration(s).\n", count)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			pool, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			statuses, err := db.NewMigrator(pool, migrations.FS).Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			for _, s := range statuses {
				status, appliedAt := "pending", ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Fprintf(out, "%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	})
	return cmd
}

func navCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nav",
		Short: "Print the sidebar menu of a role",
		RunE: func(cmd *cobra.Command, args []string) error {
			role, _ := cmd.Flags().GetString("role")
			return printNav(cmd.OutOrStdout(), role)
		},
	}
	cmd.Flags().String("role", "", "Staff role (doctor, nurse, reception, manager, admin)")
	_ = cmd.MarkFlagRequired("role")
	return cmd
}

func printNav(w io.Writer, role string) error {
	items := navigation.ForRole(role)
	if len(items) == 0 {
		return fmt.Errorf("unknown role %q", role)
	}
	fmt.Fprintf(w, "%-24s %-16s %s\n", "LABEL", "PATH", "ALLOWED ROLES")
	for _, it := range items {
		fmt.Fprintf(w, "%-24s %-16s %v\n", it.Label, it.Href, auth.RolesForPath(it.Href))
	}
	return nil
}

func openStore(ctx context.Context) (*pgxpool.Pool, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if !cfg.AuditEnabled() {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}
	return db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
}

func newLogger(cfg *config.Config, out io.Writer) zerolog.Logger {
	if cfg.IsDev() {
		out = zerolog.ConsoleWriter{Out: out}
	}
	return zerolog.New(out).Level(cfg.Level()).With().Timestamp().Logger()
}

func runServer() error {
	cfg, err := config.Load()
	if err != nil {
		l := zerolog.New(os.Stderr)
		l.Error().Err(err).Msg("failed to load config")
		return err
	}
	logger := newLogger(cfg, os.Stdout)
	if err := cfg.Validate(); err != nil {
		logger.Error().Err(err).Msg("invalid config")
		return fmt.Errorf("invalid config: %w", err)
	}
	for _, key := range cfg.Deprecated {
		logger.Warn().Str("variable", key).Msg("deprecated environment variable, use the new name")
	}

	var pool *pgxpool.Pool
	if cfg.AuditEnabled() {
		pool, err = db.NewPool(context.Background(), cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to audit store")
		}
		defer pool.Close()
		logger.Info().Msg("connected to audit store")
	}

	e, err := newServer(cfg, logger, pool)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build server")
	}

	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Str("backend", cfg.BackendURL).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}

// newServer wires the pages, the JSON API and the middleware chain. pool may
// be nil, in which case access is only logged.
func newServer(cfg *config.Config, logger zerolog.Logger, pool *pgxpool.Pool) (*echo.Echo, error) {
	api, err := backend.New(backend.Config{
		BaseURL: cfg.BackendURL,
		Timeout: cfg.BackendTimeout,
		Logger:  logger.With().Str("component", "backend").Logger(),
	})
	if err != nil {
		return nil, err
	}
	codec, err := session.NewCodec(cfg.SessionKey(), cfg.SessionTTL)
	if err != nil {
		return nil, err
	}
	cookies := session.CookieOptions{Secure: cfg.SessionCookieSecure}

	var recorder middleware.AuditRecorder
	if pool != nil {
		recorder = audit.NewPGRecorder(pool)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(middleware.BodyLimit("256K", "1M"))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
	}))
	e.Use(session.Middleware(codec, cookies))
	e.Use(middleware.RateLimit(middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}))
	e.Use(middleware.Audit(logger, recorder))
	e.Use(middleware.RequestTimeout(cfg.RequestTimeout))

	// Login and the assistant each get their own stricter limiter.
	strict := func() echo.MiddlewareFunc {
		return middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.AIRateLimitRPS,
			BurstSize:         5,
		})
	}

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	if pool != nil {
		e.GET("/health/db", db.HealthHandler(pool))
	}

	patients := patient.NewService(patient.NewRepo(api))
	appointments := appointment.NewService(appointment.NewRepo(api))
	prescriptions := prescription.NewService(prescription.NewMedicineRepo(api), prescription.NewPrescriptionRepo(api))
	cat := catalog.NewService(catalog.NewServiceRepo(api), catalog.NewTestTypeRepo(api))
	labs := labresult.NewService(labresult.NewRepo(api))
	records := medrecord.NewService(medrecord.NewRecordRepo(api),
		medrecord.NewInternalRepo(api), medrecord.NewPediatricRepo(api), medrecord.NewDermatologyRepo(api))
	notes := notification.NewService(notification.NewRepo(api))
	payments := payment.NewService(payment.NewRepo(api))
	staff := staffing.NewService(staffing.NewRepo(api))
	dash := dashboard.NewService(dashboard.Sources{
		Appointments:  appointments,
		Labs:          labs,
		Prescriptions: prescriptions,
		Notifications: notes,
		Patients:      patients,
		Payments:      payments,
		Staffing:      staff,
		Catalog:       cat,
	}, logger.With().Str("component", "dashboard").Logger())

	// Pages
	renderer, err := web.NewRenderer()
	if err != nil {
		return nil, err
	}
	e.Renderer = renderer
	e.HTTPErrorHandler = web.ErrorHandler(e, logger)
	web.RegisterStatic(e)
	web.NewPages(web.Services{
		Patients:      patients,
		Appointments:  appointments,
		Prescriptions: prescriptions,
		Catalog:       cat,
		Labs:          labs,
		Records:       records,
		Notifications: notes,
		Payments:      payments,
		Staffing:      staff,
		Dashboard:     dash,
	}, logger).RegisterRoutes(e)

	// Login
	login := auth.NewLoginHandler(auth.NewBackendAuthenticator(api), codec, cookies, logger)
	login.RegisterRoutes(e.Group("/auth"), strict())

	// JSON API
	apiV1 := e.Group("/api/v1")
	patient.NewHandler(patients).RegisterRoutes(apiV1)
	appointment.NewHandler(appointments).RegisterRoutes(apiV1)
	prescription.NewHandler(prescriptions).RegisterRoutes(apiV1)
	catalog.NewHandler(cat).RegisterRoutes(apiV1)
	labresult.NewHandler(labs).RegisterRoutes(apiV1)
	medrecord.NewHandler(records).RegisterRoutes(apiV1)
	notification.NewHandler(notes).RegisterRoutes(apiV1)
	payment.NewHandler(payments).RegisterRoutes(apiV1)
	staffing.NewHandler(staff).RegisterRoutes(apiV1)
	dashboard.NewHandler(dash).RegisterRoutes(apiV1)
	apiV1.GET("/navigation", navigationHandler, auth.RequireRole(session.StaffRoles...))

	// AI assistant
	chat := aichat.NewClient(aichat.Config{
		APIKey:  cfg.AIAPIKey,
		Model:   cfg.AIModel,
		BaseURL: cfg.AIBaseURL,
		Timeout: cfg.AITimeout,
		Logger:  logger.With().Str("component", "aichat").Logger(),
	})
	aiGroup := e.Group("/api/ai", auth.RequireRole(session.StaffRoles...), strict())
	aichat.NewHandler(chat).RegisterRoutes(aiGroup)

	return e, nil
}

// navigationHandler returns the signed-in user's sidebar with the item for
// ?path= marked active.
func navigationHandler(c echo.Context) error {
	u := session.Current(c)
	items := navigation.ForRole(u.Role)
	if p := c.QueryParam("path"); p != "" {
		items = navigation.Active(items, p)
	}
	return c.JSON(http.StatusOK, items)
}
