package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/stockpoint/stockpoint/internal/customers"
	"github.com/stockpoint/stockpoint/internal/ledger"
	"github.com/stockpoint/stockpoint/internal/masterdata"
	"github.com/stockpoint/stockpoint/internal/observability"
	"github.com/stockpoint/stockpoint/internal/payments"
	"github.com/stockpoint/stockpoint/internal/purchases"
	"github.com/stockpoint/stockpoint/internal/sales"
	"github.com/stockpoint/stockpoint/internal/suppliers"
	"github.com/stockpoint/stockpoint/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger *slog.Logger
	Config *Config

	CustomersHandler  *customers.Handler
	SuppliersHandler  *suppliers.Handler
	MasterDataHandler *masterdata.Handler
	SalesHandler      *sales.Handler
	PurchasesHandler  *purchases.Handler
	PaymentsHandler   *payments.Handler
	LedgerHandler     *ledger.Handler

	JobHandler *jobs.Handler
	Metrics    *observability.Metrics
}

// NewRouter constructs the chi.Router with StockPoint defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {
		params.CustomersHandler.MountRoutes(r)
		params.SuppliersHandler.MountRoutes(r)
		params.MasterDataHandler.MountRoutes(r)
		params.SalesHandler.MountRoutes(r)
		params.PurchasesHandler.MountRoutes(r)
		params.PaymentsHandler.MountRoutes(r)
		params.LedgerHandler.MountRoutes(r)
	})

	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
