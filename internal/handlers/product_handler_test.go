package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/arunavsaha123/food-vista/internal/catalog"
	"github.com/arunavsaha123/food-vista/internal/models"
	"github.com/arunavsaha123/food-vista/internal/openfoodfacts"
	"github.com/arunavsaha123/food-vista/pkg/logger"
	"github.com/go-chi/chi/v5"
)

// fakeLookup backs the catalog service in handler tests.
type fakeLookup struct {
	products []models.Product
	err      error
	barcode  *models.Product
	bErr     error
}

func (f *fakeLookup) SearchProducts(ctx context.Context, query, category string) ([]models.Product, error) {
	return f.products, f.err
}

func (f *fakeLookup) FetchByBarcode(ctx context.Context, barcode string) (*models.Product, error) {
	return f.barcode, f.bErr
}

func newProductRouter(lookup catalog.Lookup) *chi.Mux {
	log := logger.New("error", "json")
	svc := catalog.NewService(lookup, 0, log)
	handler := NewProductHandler(svc, log)

	r := chi.NewRouter()
	r.Get("/api/products", handler.SearchProducts)
	r.Get("/api/products/barcode/{barcode}", handler.GetByBarcode)
	return r
}

func TestSearchProducts_Success(t *testing.T) {
	r := newProductRouter(&fakeLookup{products: []models.Product{
		{ID: "1", Name: "Waffles", Barcode: "111", NutritionGrade: models.GradeE},
		{ID: "2", Name: "Apple Juice", Barcode: "222", NutritionGrade: models.GradeA},
	}})

	req := httptest.NewRequest(http.MethodGet, "/api/products?query=juice&sort=name-asc", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var products []models.Product
	if err := json.NewDecoder(w.Body).Decode(&products); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(products))
	}
	if products[0].Name != "Apple Juice" {
		t.Errorf("expected Apple Juice first, got %s", products[0].Name)
	}

	if w.Header().Get(SessionHeader) == "" {
		t.Error("expected a session ID to be issued")
	}
}

func TestSearchProducts_EmptyResultIsNotAnError(t *testing.T) {
	r := newProductRouter(&fakeLookup{products: []models.Product{}})

	req := httptest.NewRequest(http.MethodGet, "/api/products?query=nothing", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var products []models.Product
	if err := json.NewDecoder(w.Body).Decode(&products); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(products) != 0 {
		t.Errorf("expected empty list, got %d products", len(products))
	}
}

func TestSearchProducts_UpstreamFailure(t *testing.T) {
	r := newProductRouter(&fakeLookup{err: errors.New("connection refused")})

	req := httptest.NewRequest(http.MethodGet, "/api/products?query=cola", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected status 502, got %d", w.Code)
	}

	var response map[string]string
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	if response["error"] == "" {
		t.Error("expected an error message")
	}
}

func TestGetByBarcode_Success(t *testing.T) {
	r := newProductRouter(&fakeLookup{barcode: &models.Product{
		ID: "1", Name: "Cola", Barcode: "123", NutritionGrade: models.GradeB,
	}})

	req := httptest.NewRequest(http.MethodGet, "/api/products/barcode/123", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var product models.Product
	if err := json.NewDecoder(w.Body).Decode(&product); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if product.Barcode != "123" {
		t.Errorf("expected barcode 123, got %s", product.Barcode)
	}
}

func TestGetByBarcode_NotFound(t *testing.T) {
	r := newProductRouter(&fakeLookup{bErr: openfoodfacts.ErrProductNotFound})

	req := httptest.NewRequest(http.MethodGet, "/api/products/barcode/000", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", w.Code)
	}
}

func TestGetByBarcode_TransportFailure(t *testing.T) {
	r := newProductRouter(&fakeLookup{bErr: errors.New("timeout")})

	req := httptest.NewRequest(http.MethodGet, "/api/products/barcode/123", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected status 502, got %d", w.Code)
	}
}

func TestSearchProducts_EchoesSessionHeader(t *testing.T) {
	r := newProductRouter(&fakeLookup{products: []models.Product{}})

	req := httptest.NewRequest(http.MethodGet, "/api/products?query=cola", nil)
	req.Header.Set(SessionHeader, "my-session")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if got := w.Header().Get(SessionHeader); got != "my-session" {
		t.Errorf("session header = %q, want %q", got, "my-session")
	}
}
