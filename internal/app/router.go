package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/khata-erp/khata-erp/internal/auth"
	"github.com/khata-erp/khata-erp/internal/catalog"
	"github.com/khata-erp/khata-erp/internal/documents"
	"github.com/khata-erp/khata-erp/internal/gstreports"
	"github.com/khata-erp/khata-erp/internal/observability"
	"github.com/khata-erp/khata-erp/internal/parties"
	"github.com/khata-erp/khata-erp/internal/taxrates"
	"github.com/khata-erp/khata-erp/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger           *slog.Logger
	Config           *Config
	AuthHandler      *auth.Handler
	CatalogHandler   *catalog.Handler
	TaxRatesHandler  *taxrates.Handler
	PartiesHandler   *parties.Handler
	DocumentsHandler *documents.Handler
	ReportsHandler   *gstreports.Handler
	JobsHandler      *jobs.Handler
	Metrics          *observability.Metrics
}

// NewRouter constructs the chi.Router with the default stack. Everything
// under /api requires a bearer token; auth, health, and metrics stay open.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	if !params.Config.IsProduction() {
		r.Use(chimw.Logger)
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	params.AuthHandler.MountRoutes(r)

	r.Route("/api", func(api chi.Router) {
		api.Use(params.AuthHandler.RequireAuth)
		params.CatalogHandler.MountRoutes(api)
		params.TaxRatesHandler.MountRoutes(api)
		params.PartiesHandler.MountRoutes(api)
		params.DocumentsHandler.MountRoutes(api)
		params.ReportsHandler.MountRoutes(api)
		if params.JobsHandler != nil {
			params.JobsHandler.MountRoutes(api)
		}
	})

	return r
}
