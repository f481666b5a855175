// Package api assembles the HTTP surface of the dashboard.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/dvloznov/finance-dashboard/internal/api/handlers"
	"github.com/dvloznov/finance-dashboard/internal/api/middleware"
	"github.com/dvloznov/finance-dashboard/internal/jobs"
	"github.com/dvloznov/finance-dashboard/internal/pipeline"
	"github.com/dvloznov/finance-dashboard/internal/store"
)

// Deps are the collaborators the router wires into handlers.
type Deps struct {
	Store     store.Store
	Ingestor  *pipeline.Ingestor
	Reviewer  *pipeline.Reviewer
	Publisher jobs.Publisher
	JobStore  jobs.JobStore
	Log       zerolog.Logger
}

// NewRouter builds the chi router with the middleware chain and every route.
func NewRouter(d Deps) http.Handler {
	documents := handlers.NewDocumentsHandler(d.Store, d.Ingestor, d.Publisher)
	transactions := handlers.NewTransactionsHandler(d.Store)
	dashboard := handlers.NewDashboardHandler(d.Store)
	review := handlers.NewReviewHandler(d.Reviewer, d.Store)
	jobsHandler := handlers.NewJobsHandler(d.JobStore)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.EchoRequestID)
	r.Use(middleware.Recovery(d.Log))
	r.Use(middleware.Logger(d.Log))
	r.Use(middleware.CORS)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/documents", func(r chi.Router) {
			r.Get("/", documents.ListDocuments)
			r.Post("/", documents.UploadDocuments)
			r.Get("/{id}", documents.GetDocument)
			r.Delete("/{id}", documents.DeleteDocument)
		})

		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", transactions.ListTransactions)
			r.Post("/", transactions.CreateTransaction)
			r.Put("/{id}", transactions.UpdateTransaction)
			r.Delete("/{id}", transactions.DeleteTransaction)
		})

		r.Get("/metrics", dashboard.GetMetrics)
		r.Get("/cashflow", dashboard.GetCashFlow)
		r.Get("/summary", dashboard.GetSummary)
		r.Get("/rules", dashboard.GetRules)

		r.Post("/validation", review.Validate)
		r.Post("/validation/apply", review.ApplyCorrections)
		r.Get("/statements", review.GetStatements)
		r.Post("/statements/generate", review.GenerateStatements)

		r.Get("/jobs", jobsHandler.ListJobs)
		r.Get("/jobs/{id}", jobsHandler.GetJob)
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteError(w, http.StatusNotFound, "Not found")
	})

	return r
}
