// Package masterdata aggregates the reference-data modules (products,
// categories) behind one mount point.
package masterdata

import (
	"github.com/go-chi/chi/v5"

	"github.com/stockpoint/stockpoint/internal/masterdata/categories"
	"github.com/stockpoint/stockpoint/internal/masterdata/products"
)

// Handler bundles the masterdata sub-handlers.
type Handler struct {
	Products   *products.Handler
	Categories *categories.Handler
}

// MountRoutes attaches every masterdata route.
func (h *Handler) MountRoutes(r chi.Router) {
	if h.Products != nil {
		h.Products.MountRoutes(r)
	}
	if h.Categories != nil {
		h.Categories.MountRoutes(r)
	}
}
