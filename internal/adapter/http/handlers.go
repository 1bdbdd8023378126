package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type Handler struct{ started time.Time }

func NewHandler() *Handler { return &Handler{started: time.Now().UTC()} }

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "lending-ledger",
		"uptime":  time.Since(h.started).Truncate(time.Second).String(),
	})
}
