package web

import (
	"github.com/go-chi/chi/v5"
	"github.com/kozaktomas/book-planner/internal/web/handlers"
)

func (s *Server) setupRoutes() {
	// Create handlers
	analyzeHandler := handlers.NewAnalyzeHandler()
	batchHandler := handlers.NewBatchHandler(s.config, s.jobManager)
	pipelineHandler := handlers.NewPipelineHandler(s.config)
	plansHandler := handlers.NewPlansHandler(s.planStore)

	// Health check
	s.router.Get("/api/v1/health", handlers.HealthCheck)

	// API routes
	s.router.Route("/api/v1", func(r chi.Router) {
		// Single photo analysis
		r.Post("/analyze", analyzeHandler.Analyze)
		r.Post("/theme", analyzeHandler.SuggestTheme)

		// Batch analysis (long-running operations)
		r.Post("/batch", batchHandler.Start)
		r.Get("/batch/{jobId}", batchHandler.Status)
		r.Get("/batch/{jobId}/events", batchHandler.Events)
		r.Delete("/batch/{jobId}", batchHandler.Cancel)

		// Curation pipeline
		r.Post("/duplicates", pipelineHandler.FindDuplicates)
		r.Post("/suggest", pipelineHandler.Suggest)

		// Layout plans
		r.Get("/templates", plansHandler.Templates)
		r.Post("/plans", plansHandler.Create)
		r.Get("/plans", plansHandler.List)
		r.Get("/plans/{id}", plansHandler.Get)
		r.Get("/plans/{id}/validate", plansHandler.Validate)
	})
}
