package handlers

import (
	"context"

	"github.com/gofiber/fiber/v3"

	"densitydesk/internal/jobs"
)

// Pinger is implemented by state backends that can be health-checked.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ProbeHandler handles Kubernetes health probe endpoints.
type ProbeHandler struct {
	backend Pinger
	prober  *jobs.EndpointProber
}

// NewProbeHandler creates a new probe handler. backend and prober may be
// nil when the process has no database or runs without probing.
func NewProbeHandler(backend Pinger, prober *jobs.EndpointProber) *ProbeHandler {
	return &ProbeHandler{backend: backend, prober: prober}
}

// Liveness handles the /healthz endpoint for Kubernetes liveness probes.
// Returns 200 OK if the application is running.
func (h *ProbeHandler) Liveness(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ok",
	})
}

// Readiness handles the /readyz endpoint for Kubernetes readiness probes.
// Returns 200 OK if the state backend is reachable. Remote function
// reachability is reported but does not fail the probe.
func (h *ProbeHandler) Readiness(c fiber.Ctx) error {
	if h.backend != nil {
		if err := h.backend.Ping(c.Context()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "error",
				"error":  "state backend unavailable",
			})
		}
	}

	resp := fiber.Map{"status": "ok"}
	if h.prober != nil {
		remote := fiber.Map{}
		for op, r := range h.prober.Results() {
			remote[op] = r.Reachable
		}
		resp["remote"] = remote
	}
	return c.JSON(resp)
}
