package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/arunavsaha123/food-vista/internal/cart"
	"github.com/arunavsaha123/food-vista/internal/models"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// CartHandler handles cart requests. Each session gets its own cart from the
// registry, keyed by the X-Session-ID header.
type CartHandler struct {
	registry *cart.Registry
	validate *validator.Validate
	logger   *slog.Logger
}

// NewCartHandler creates a new cart handler
func NewCartHandler(registry *cart.Registry, logger *slog.Logger) *CartHandler {
	return &CartHandler{
		registry: registry,
		validate: validator.New(),
		logger:   logger,
	}
}

// addItemRequest is the payload for POST /api/cart/items.
type addItemRequest struct {
	Product models.Product `json:"product"`
}

// updateQuantityRequest is the payload for PUT /api/cart/items/{productId}.
// Quantity is a pointer so an explicit 0 (which removes the item) can be
// told apart from an absent field.
type updateQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

// GetCart handles GET /api/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	_, store := h.session(w, r)
	writeJSON(w, http.StatusOK, store.Summary())
}

// AddItem handles POST /api/cart/items
// Adding a product already in the cart increments its quantity.
// - 201: item added, returns the updated cart
// - 400: malformed body or product missing id/name/barcode
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid add item payload", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validate.Struct(req.Product); err != nil {
		h.logger.Warn("incomplete product in add item payload", "error", err)
		writeError(w, http.StatusBadRequest, "Product id, name and barcode are required")
		return
	}

	_, store := h.session(w, r)
	store.Add(req.Product)
	writeJSON(w, http.StatusCreated, store.Summary())
}

// UpdateItem handles PUT /api/cart/items/{productId}
// A quantity below 1 removes the item; an unknown product is a no-op.
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")
	if productID == "" {
		writeError(w, http.StatusBadRequest, "Product ID is required")
		return
	}

	var req updateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid update quantity payload", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.logger.Warn("missing quantity in update payload", "error", err)
		writeError(w, http.StatusBadRequest, "Quantity is required")
		return
	}

	_, store := h.session(w, r)
	store.UpdateQuantity(productID, *req.Quantity)
	writeJSON(w, http.StatusOK, store.Summary())
}

// RemoveItem handles DELETE /api/cart/items/{productId}
// Removing an absent product is a no-op, not an error.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")
	if productID == "" {
		writeError(w, http.StatusBadRequest, "Product ID is required")
		return
	}

	_, store := h.session(w, r)
	store.Remove(productID)
	writeJSON(w, http.StatusOK, store.Summary())
}

// ClearCart handles DELETE /api/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	_, store := h.session(w, r)
	store.Clear()
	writeJSON(w, http.StatusOK, store.Summary())
}

func (h *CartHandler) session(w http.ResponseWriter, r *http.Request) (string, *cart.Store) {
	id, store := h.registry.Session(r.Header.Get(SessionHeader))
	w.Header().Set(SessionHeader, id)
	return id, store
}
