package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/arunavsaha123/food-vista/internal/catalog"
	"github.com/arunavsaha123/food-vista/internal/openfoodfacts"
	"github.com/go-chi/chi/v5"
)

// ProductHandler handles product search and barcode lookup requests
type ProductHandler struct {
	catalog *catalog.Service
	logger  *slog.Logger
}

// NewProductHandler creates a new product handler
func NewProductHandler(catalog *catalog.Service, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		catalog: catalog,
		logger:  logger,
	}
}

// SearchProducts handles GET /api/products?query=&category=&sort=
// Returns the normalized, sorted results:
// - 200: successful search (possibly an empty list)
// - 409: superseded by a newer request from the same session
// - 502: upstream search failed after retries, caller may retry
func (h *ProductHandler) SearchProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query().Get("query")
	category := r.URL.Query().Get("category")
	sortKey := catalog.SortKey(r.URL.Query().Get("sort"))
	if sortKey == "" {
		sortKey = catalog.SortNameAsc
	}

	session := sessionID(w, r)

	products, err := h.catalog.Search(ctx, session, query, category, sortKey)
	if err != nil {
		if errors.Is(err, catalog.ErrSuperseded) {
			h.logger.Info("search superseded", "query", query)
			writeError(w, http.StatusConflict, "Superseded by a newer request")
			return
		}
		h.logger.Error("product search failed", "query", query, "category", category, "error", err)
		writeError(w, http.StatusBadGateway, "Search failed, try again")
		return
	}

	writeJSON(w, http.StatusOK, products)
}

// GetByBarcode handles GET /api/products/barcode/{barcode}
// - 200: product found
// - 400: no barcode supplied
// - 404: no product with this barcode (a normal outcome)
// - 409: superseded by a newer request from the same session
// - 502: upstream lookup failed after retries, caller may retry
func (h *ProductHandler) GetByBarcode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	barcode := chi.URLParam(r, "barcode")

	if barcode == "" {
		h.logger.Warn("barcode is required")
		writeError(w, http.StatusBadRequest, "Barcode is required")
		return
	}

	session := sessionID(w, r)

	product, err := h.catalog.LookupBarcode(ctx, session, barcode)
	if err != nil {
		switch {
		case errors.Is(err, openfoodfacts.ErrProductNotFound):
			h.logger.Info("product not found", "barcode", barcode)
			writeError(w, http.StatusNotFound, "No product with this barcode")
		case errors.Is(err, catalog.ErrSuperseded):
			h.logger.Info("barcode lookup superseded", "barcode", barcode)
			writeError(w, http.StatusConflict, "Superseded by a newer request")
		default:
			h.logger.Error("barcode lookup failed", "barcode", barcode, "error", err)
			writeError(w, http.StatusBadGateway, "Lookup failed, try again")
		}
		return
	}

	writeJSON(w, http.StatusOK, product)
}
