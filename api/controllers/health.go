package controllers

import (
	"net/http"

	"github.com/checklane/register-backend/api/responses"
	"github.com/checklane/register-backend/internal/register"
)

type healthResponse struct {
	Status       string `json:"status"`
	LiveSessions int    `json:"live_sessions"`
}

// HealthController reports process liveness. It deliberately does not probe
// any store database: connections belong to sessions, and a register with no
// cashier logged in has nothing to probe.
type HealthController struct {
	registry *register.Registry
}

// NewHealthController constructs the health controller.
func NewHealthController(registry *register.Registry) *HealthController {
	return &HealthController{registry: registry}
}

// Check responds with process status and the live session count.
func (c *HealthController) Check(w http.ResponseWriter, r *http.Request) {
	sessions := 0
	if c.registry != nil {
		sessions = c.registry.Len()
	}
	responses.WriteSuccess(w, healthResponse{Status: "ok", LiveSessions: sessions})
}
