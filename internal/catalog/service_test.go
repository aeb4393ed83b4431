package catalog

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/arunavsaha123/food-vista/internal/models"
	"github.com/arunavsaha123/food-vista/internal/openfoodfacts"
	"github.com/arunavsaha123/food-vista/pkg/logger"
)

// fakeLookup is a scriptable Lookup. When block is set, the first search
// waits on it; started is signaled at the top of every search call.
type fakeLookup struct {
	mu       sync.Mutex
	products []models.Product
	err      error
	barcode  *models.Product
	bErr     error

	searchCalls int
	block       chan struct{}
	started     chan struct{}
}

func (f *fakeLookup) SearchProducts(ctx context.Context, query, category string) ([]models.Product, error) {
	f.mu.Lock()
	f.searchCalls++
	firstCall := f.searchCalls == 1
	block := f.block
	started := f.started
	f.mu.Unlock()

	if started != nil {
		started <- struct{}{}
	}
	if block != nil && firstCall {
		<-block
	}
	return f.products, f.err
}

func (f *fakeLookup) FetchByBarcode(ctx context.Context, barcode string) (*models.Product, error) {
	return f.barcode, f.bErr
}

func (f *fakeLookup) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.searchCalls
}

func newTestService(lookup Lookup, ttl time.Duration) *Service {
	return NewService(lookup, ttl, logger.New("error", "json"))
}

func TestService_SearchSorts(t *testing.T) {
	lookup := &fakeLookup{products: []models.Product{
		product("1", "Waffles", models.GradeE),
		product("2", "Apple Juice", models.GradeA),
	}}
	svc := newTestService(lookup, 0)

	results, err := svc.Search(context.Background(), "s1", "juice", "", SortNameAsc)
	if err != nil {
		t.Fatalf("Search() unexpected error = %v", err)
	}
	if len(results) != 2 || results[0].ID != "2" {
		t.Errorf("results = %v, want Apple Juice first", ids(results))
	}
}

func TestService_SearchErrorPropagates(t *testing.T) {
	wantErr := errors.New("upstream down")
	svc := newTestService(&fakeLookup{err: wantErr}, 0)

	_, err := svc.Search(context.Background(), "s1", "juice", "", SortNameAsc)
	if !errors.Is(err, wantErr) {
		t.Errorf("Search() error = %v, want %v", err, wantErr)
	}
}

func TestService_SearchCacheHit(t *testing.T) {
	lookup := &fakeLookup{products: []models.Product{product("1", "Cola", models.GradeB)}}
	svc := newTestService(lookup, 5*time.Minute)

	for i := 0; i < 3; i++ {
		results, err := svc.Search(context.Background(), "s1", "cola", "Snacks", SortNameAsc)
		if err != nil {
			t.Fatalf("Search() unexpected error = %v", err)
		}
		if len(results) != 1 {
			t.Fatalf("got %d results, want 1", len(results))
		}
	}

	if got := lookup.calls(); got != 1 {
		t.Errorf("upstream called %d times, want 1 (cache hits)", got)
	}

	// A different query must miss the cache.
	if _, err := svc.Search(context.Background(), "s1", "water", "Snacks", SortNameAsc); err != nil {
		t.Fatalf("Search() unexpected error = %v", err)
	}
	if got := lookup.calls(); got != 2 {
		t.Errorf("upstream called %d times, want 2", got)
	}
}

func TestService_SearchCacheExpires(t *testing.T) {
	lookup := &fakeLookup{products: []models.Product{product("1", "Cola", models.GradeB)}}
	svc := newTestService(lookup, 5*time.Minute)

	now := time.Now()
	svc.cache.now = func() time.Time { return now }

	if _, err := svc.Search(context.Background(), "s1", "cola", "", SortNameAsc); err != nil {
		t.Fatalf("Search() unexpected error = %v", err)
	}

	now = now.Add(6 * time.Minute)

	if _, err := svc.Search(context.Background(), "s1", "cola", "", SortNameAsc); err != nil {
		t.Fatalf("Search() unexpected error = %v", err)
	}
	if got := lookup.calls(); got != 2 {
		t.Errorf("upstream called %d times, want 2 (entry expired)", got)
	}
}

func TestService_StaleSearchIsSuperseded(t *testing.T) {
	lookup := &fakeLookup{
		products: []models.Product{product("1", "Cola", models.GradeB)},
		block:    make(chan struct{}),
		started:  make(chan struct{}, 2),
	}
	svc := newTestService(lookup, 0)

	stale := make(chan error, 1)
	go func() {
		_, err := svc.Search(context.Background(), "s1", "old query", "", SortNameAsc)
		stale <- err
	}()

	// Wait for the first search to be in flight, then start a newer one.
	<-lookup.started
	if _, err := svc.Search(context.Background(), "s1", "new query", "", SortNameAsc); err != nil {
		t.Fatalf("newer Search() unexpected error = %v", err)
	}
	<-lookup.started

	// Let the stale response arrive; it must be discarded.
	close(lookup.block)
	if err := <-stale; !errors.Is(err, ErrSuperseded) {
		t.Errorf("stale Search() error = %v, want ErrSuperseded", err)
	}
}

func TestService_SupersedeIsPerSession(t *testing.T) {
	lookup := &fakeLookup{
		products: []models.Product{product("1", "Cola", models.GradeB)},
		block:    make(chan struct{}),
		started:  make(chan struct{}, 2),
	}
	svc := newTestService(lookup, 0)

	inflight := make(chan error, 1)
	go func() {
		_, err := svc.Search(context.Background(), "session-a", "cola", "", SortNameAsc)
		inflight <- err
	}()

	// A search from a different session must not supersede session A.
	<-lookup.started
	if _, err := svc.Search(context.Background(), "session-b", "water", "", SortNameAsc); err != nil {
		t.Fatalf("session B Search() unexpected error = %v", err)
	}
	<-lookup.started

	close(lookup.block)
	if err := <-inflight; err != nil {
		t.Errorf("session A Search() error = %v, want nil", err)
	}
}

func TestService_LookupBarcode(t *testing.T) {
	want := product("1", "Cola", models.GradeB)
	lookup := &fakeLookup{barcode: &want}
	svc := newTestService(lookup, 0)

	got, err := svc.LookupBarcode(context.Background(), "s1", "123")
	if err != nil {
		t.Fatalf("LookupBarcode() unexpected error = %v", err)
	}
	if got.ID != want.ID {
		t.Errorf("product ID = %q, want %q", got.ID, want.ID)
	}
}

func TestService_LookupBarcodeNotFoundPassesThrough(t *testing.T) {
	lookup := &fakeLookup{bErr: openfoodfacts.ErrProductNotFound}
	svc := newTestService(lookup, 0)

	_, err := svc.LookupBarcode(context.Background(), "s1", "123")
	if !errors.Is(err, openfoodfacts.ErrProductNotFound) {
		t.Errorf("LookupBarcode() error = %v, want ErrProductNotFound", err)
	}
}
