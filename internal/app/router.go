package app

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"

	"github.com/winside-retail/backoffice/internal/auth"
	"github.com/winside-retail/backoffice/internal/billing"
	"github.com/winside-retail/backoffice/internal/catalog/categories"
	"github.com/winside-retail/backoffice/internal/catalog/products"
	"github.com/winside-retail/backoffice/internal/customers"
	"github.com/winside-retail/backoffice/internal/inventory"
	"github.com/winside-retail/backoffice/internal/observability"
	"github.com/winside-retail/backoffice/internal/shared"
	"github.com/winside-retail/backoffice/internal/users"
	"github.com/winside-retail/backoffice/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *shared.SessionManager
	CSRFManager    *shared.CSRFManager

	AuthHandler       *auth.Handler
	CustomersHandler  *customers.Handler
	ProductsHandler   *products.Handler
	CategoriesHandler *categories.Handler
	BillingHandler    *billing.Handler
	InventoryHandler  *inventory.Handler
	UsersHandler      *users.Handler
	JobHandler        *jobs.Handler

	Metrics *observability.Metrics
}

// NewRouter constructs the chi.Router with the default stack.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		CSRFManager:    params.CSRFManager,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	// Credential endpoints get a tighter per-IP budget than the global one.
	r.Group(func(r chi.Router) {
		r.Use(httprate.Limit(10, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP)))
		r.Route("/auth", params.AuthHandler.MountRoutes)
	})

	r.Route("/customers", params.CustomersHandler.MountRoutes)
	r.Route("/products", params.ProductsHandler.MountRoutes)
	r.Route("/categories", params.CategoriesHandler.MountRoutes)
	r.Route("/invoices", params.BillingHandler.MountRoutes)
	r.Route("/inventory", params.InventoryHandler.MountRoutes)
	r.Route("/users", params.UsersHandler.MountRoutes)
	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}

	return r
}
