package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/hr-crm/api/http/presenter"
	"github.com/artem13815/hr-crm/pkg/health"
)

const readyTimeout = 3 * time.Second

// HealthHandler answers liveness and readiness checks.
type HealthHandler struct{ svc health.ReadinessUseCase }

func NewHealthHandler(svc health.ReadinessUseCase) *HealthHandler { return &HealthHandler{svc: svc} }

type statusResponse struct {
	Status  string `json:"status"`
	Details string `json:"details,omitempty"`
}

// Health never touches dependencies.
// @Summary Liveness check
// @Tags    health
// @Produce json
// @Success 200 {object} statusResponse
// @Router  /health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return presenter.JSON(c, fiber.StatusOK, statusResponse{Status: "ok"})
}

// Ready pings postgres, redis and the bucket when they are configured.
// @Summary Readiness check
// @Tags    health
// @Produce json
// @Success 200 {object} statusResponse
// @Failure 503 {object} statusResponse
// @Router  /ready [get]
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), readyTimeout)
	defer cancel()
	if err := h.svc.Ready(ctx); err != nil {
		return presenter.JSON(c, fiber.StatusServiceUnavailable, statusResponse{Status: "not_ready", Details: err.Error()})
	}
	return presenter.JSON(c, fiber.StatusOK, statusResponse{Status: "ready"})
}
