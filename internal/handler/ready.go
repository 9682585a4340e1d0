package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/colabri-doc/internal/model"
)

const readinessProbeTimeout = 5 * time.Second

// ReadyCheck is a named dependency probe.
type ReadyCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// ReadyHandler serves GET /api/ready. With no checks configured the service
// is always ready.
type ReadyHandler struct {
	checks  []ReadyCheck
	timeout time.Duration
}

func NewReadyHandler(checks ...ReadyCheck) *ReadyHandler {
	return &ReadyHandler{checks: checks, timeout: readinessProbeTimeout}
}

// Ready runs the checks in order and reports the first failure.
func (h *ReadyHandler) Ready(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	for _, rc := range h.checks {
		if err := rc.Check(ctx); err != nil {
			slog.Warn("Readiness check failed", "check", rc.Name, "error", err)
			return c.JSON(http.StatusServiceUnavailable, model.ReadyResponse{
				Status:      "unavailable",
				Message:     err.Error(),
				FailedCheck: rc.Name,
			})
		}
	}

	return c.JSON(http.StatusOK, model.ReadyResponse{Status: "ready", Message: "Server is ready"})
}
