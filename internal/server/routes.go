package server

import (
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"densitydesk/internal/analysis"
	"densitydesk/internal/handlers"
	"densitydesk/internal/handlers/api"
	"densitydesk/internal/inflight"
	"densitydesk/internal/jobs"
	"densitydesk/internal/middleware"
	"densitydesk/internal/state"
)

// Deps are the collaborators the routes are built from.
type Deps struct {
	State   *state.Dispatcher
	Client  *analysis.Client
	Flights *inflight.Group
	// Backend is pinged by /readyz; nil for the in-memory backend.
	Backend handlers.Pinger
	// Prober reports remote function reachability; may be nil.
	Prober *jobs.EndpointProber
}

// RegisterRoutes registers all application routes.
func (s *Server) RegisterRoutes(deps Deps) {
	// Initialize handlers
	analyzerHandler := handlers.NewAnalyzerHandler(deps.State, deps.Client, deps.Flights, s.Cfg)
	generatorHandler := handlers.NewGeneratorHandler(deps.State, deps.Client, deps.Flights, s.Cfg)
	probeHandler := handlers.NewProbeHandler(deps.Backend, deps.Prober)
	textAPI := api.NewTextHandler(s.Cfg)
	stateKey := middleware.NewStateKeyMiddleware(!s.Cfg.IsDev(), s.Cfg.StateTTL).Handle

	// Probes and metrics
	s.App.Get("/healthz", probeHandler.Liveness)
	s.App.Get("/readyz", probeHandler.Readiness)
	s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Stateless JSON API
	apiGroup := s.App.Group("/api")
	apiGroup.Post("/csv/parse", textAPI.ParseCSV)
	apiGroup.Post("/highlight", textAPI.Highlight)
	apiGroup.Post("/stats", textAPI.Stats)
	apiGroup.Post("/occurrences", textAPI.Occurrences)
	apiGroup.Get("/density/:value", textAPI.Density)

	// Analyzer
	s.App.Get("/", stateKey, analyzerHandler.Index)
	s.App.Post("/text", stateKey, analyzerHandler.SaveText)
	s.App.Post("/analyze", stateKey, analyzerHandler.Analyze)
	s.App.Post("/spam-check", stateKey, analyzerHandler.SpamCheck)
	s.App.Post("/share", stateKey, analyzerHandler.Share)
	s.App.Get("/highlight", stateKey, analyzerHandler.Highlight)
	s.App.Get("/export/analysis.csv", stateKey, analyzerHandler.ExportAnalysis)

	// Description generator
	s.App.Get("/generator", stateKey, generatorHandler.Show)
	s.App.Post("/generator/fields", stateKey, generatorHandler.UpdateFields)
	s.App.Post("/generator/generate", stateKey, generatorHandler.Generate)
	s.App.Post("/generator/text", stateKey, generatorHandler.UpdateText)
	s.App.Post("/clean", stateKey, generatorHandler.Clean)
	s.App.Get("/export/state.json", stateKey, generatorHandler.ExportState)

	// Keyword tables
	s.App.Post("/keywords/:table/import", stateKey, generatorHandler.Import)
	s.App.Post("/keywords/:table/rows", stateKey, generatorHandler.AddRow)
	s.App.Put("/keywords/:table/rows/:id", stateKey, generatorHandler.UpdateRow)
	s.App.Delete("/keywords/:table/rows/:id", stateKey, generatorHandler.DeleteRow)
	s.App.Delete("/keywords/:table", stateKey, generatorHandler.ClearTable)
}
