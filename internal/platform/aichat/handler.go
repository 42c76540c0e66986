package aichat

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// Chatter is the model client the handler calls.
type Chatter interface {
	Chat(ctx context.Context, message string, history []Turn) (string, error)
}

type Handler struct {
	chat Chatter
}

func NewHandler(chat Chatter) *Handler {
	return &Handler{chat: chat}
}

type chatRequest struct {
	Message string `json:"message"`
	History []Turn `json:"history"`
}

// RegisterRoutes mounts POST /chat on g. Callers guard g.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/chat", h.Chat)
}

func (h *Handler) Chat(c echo.Context) error {
	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Yêu cầu không hợp lệ"})
	}
	msg := strings.TrimSpace(req.Message)
	if msg == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Vui lòng nhập nội dung tin nhắn"})
	}

	reply, err := h.chat.Chat(c.Request().Context(), msg, req.History)
	if err != nil {
		var up *UpstreamError
		switch {
		case errors.Is(err, ErrNoAPIKey):
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		case errors.As(err, &up):
			return c.JSON(up.Status, echo.Map{"error": up.Message})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"reply": reply})
}
