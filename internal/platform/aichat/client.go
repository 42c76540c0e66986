// Package aichat proxies the clinic assistant chat to a generative-language
// API. The proxy is stateless: every call sends the fixed system instruction,
// the history the browser holds and the new message.
package aichat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// SystemInstruction is sent with every conversation.
const SystemInstruction = `Bạn là trợ lý ảo của phòng khám. Hãy trả lời ngắn gọn, lịch sự bằng tiếng Việt.
Bạn hỗ trợ nhân viên y tế tra cứu quy trình, giải thích thuật ngữ và soạn thảo nội dung.
Không đưa ra chẩn đoán hay kê đơn thay bác sĩ. Khi câu hỏi cần thăm khám, hãy khuyên người dùng liên hệ bác sĩ phụ trách.`

var ErrNoAPIKey = errors.New("AI API key is not configured")

// UpstreamError is a non-2xx answer from the model API.
type UpstreamError struct {
	Status  int
	Message string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("ai upstream %d: %s", e.Status, e.Message)
}

// Turn is one message of the conversation as the browser keeps it.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Config struct {
	APIKey     string
	Model      string
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     zerolog.Logger
}

type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

func NewClient(cfg Config) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	model := cfg.Model
	if model == "" {
		model = "gemini-1.5-flash"
	}
	return &Client{
		apiKey:     strings.TrimSpace(cfg.APIKey),
		model:      model,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: hc,
		logger:     cfg.Logger,
	}
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generateRequest struct {
	SystemInstruction content   `json:"systemInstruction"`
	Contents          []content `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// modelRole maps a browser role onto the API's user/model roles.
func modelRole(role string) string {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case "assistant", "model", "bot", "ai":
		return "model"
	}
	return "user"
}

// buildRequest assembles the generateContent body. Empty history turns are
// skipped.
func buildRequest(message string, history []Turn) generateRequest {
	req := generateRequest{
		SystemInstruction: content{Parts: []part{{Text: SystemInstruction}}},
		Contents:          make([]content, 0, len(history)+1),
	}
	for _, t := range history {
		if strings.TrimSpace(t.Content) == "" {
			continue
		}
		req.Contents = append(req.Contents, content{Role: modelRole(t.Role), Parts: []part{{Text: t.Content}}})
	}
	req.Contents = append(req.Contents, content{Role: "user", Parts: []part{{Text: message}}})
	return req
}

// Chat sends one message and returns the model's text reply.
func (c *Client) Chat(ctx context.Context, message string, history []Turn) (string, error) {
	if c.apiKey == "" {
		return "", ErrNoAPIKey
	}
	body, err := json.Marshal(buildRequest(message, history))
	if err != nil {
		return "", fmt.Errorf("encode chat request: %w", err)
	}
	endpoint := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, url.PathEscape(c.model))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &UpstreamError{Status: http.StatusBadGateway, Message: err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", &UpstreamError{Status: http.StatusBadGateway, Message: err.Error()}
	}
	c.logger.Debug().
		Str("model", c.model).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("ai chat")

	var out generateResponse
	decodeErr := json.Unmarshal(raw, &out)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := http.StatusText(resp.StatusCode)
		if decodeErr == nil && out.Error != nil && out.Error.Message != "" {
			msg = out.Error.Message
		}
		return "", &UpstreamError{Status: resp.StatusCode, Message: msg}
	}
	if decodeErr != nil {
		return "", &UpstreamError{Status: http.StatusBadGateway, Message: "invalid response from AI service"}
	}

	var sb strings.Builder
	for _, cand := range out.Candidates {
		for _, p := range cand.Content.Parts {
			sb.WriteString(p.Text)
		}
		if sb.Len() > 0 {
			break
		}
	}
	if sb.Len() == 0 {
		return "", &UpstreamError{Status: http.StatusBadGateway, Message: "AI service returned no reply"}
	}
	return sb.String(), nil
}
