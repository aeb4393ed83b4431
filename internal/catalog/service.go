package catalog

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/arunavsaha123/food-vista/internal/models"
)

var (
	// ErrSuperseded reports that a newer lookup started for the same session
	// before this one finished; its results must not be applied.
	ErrSuperseded = errors.New("lookup superseded by a newer request")
)

// Lookup is the product source behind the catalog, implemented by the
// Open Food Facts client.
type Lookup interface {
	SearchProducts(ctx context.Context, query, category string) ([]models.Product, error)
	FetchByBarcode(ctx context.Context, barcode string) (*models.Product, error)
}

// Service answers catalog searches and barcode lookups. Each session carries
// a request generation counter: starting a lookup bumps the counter, and a
// lookup whose ticket is stale by the time its response arrives is discarded
// so an out-of-order late response cannot overwrite newer results.
type Service struct {
	lookup Lookup
	cache  *resultCache
	logger *slog.Logger

	mu          sync.Mutex
	generations map[string]*atomic.Uint64
}

// NewService creates a catalog service. Search results are cached for
// cacheTTL; a non-positive TTL disables caching.
func NewService(lookup Lookup, cacheTTL time.Duration, logger *slog.Logger) *Service {
	return &Service{
		lookup:      lookup,
		cache:       newResultCache(cacheTTL),
		logger:      logger,
		generations: make(map[string]*atomic.Uint64),
	}
}

// Search runs a free-text catalog search for one session and returns the
// results sorted by key. Zero results is a normal outcome, not an error.
func (s *Service) Search(ctx context.Context, sessionID, query, category string, key SortKey) ([]models.Product, error) {
	gen := s.generation(sessionID)
	ticket := gen.Add(1)

	cacheKey := query + "\x00" + category
	if products, ok := s.cache.get(cacheKey); ok {
		s.logger.Debug("search cache hit", "query", query, "category", category)
		return SortProducts(products, key), nil
	}

	products, err := s.lookup.SearchProducts(ctx, query, category)
	if ticket != gen.Load() {
		return nil, ErrSuperseded
	}
	if err != nil {
		return nil, err
	}

	s.cache.set(cacheKey, products)
	return SortProducts(products, key), nil
}

// LookupBarcode fetches a single product by barcode for one session. It
// shares the session's generation counter with Search, so a new search
// supersedes a pending barcode lookup and vice versa.
func (s *Service) LookupBarcode(ctx context.Context, sessionID, barcode string) (*models.Product, error) {
	gen := s.generation(sessionID)
	ticket := gen.Add(1)

	product, err := s.lookup.FetchByBarcode(ctx, barcode)
	if ticket != gen.Load() {
		return nil, ErrSuperseded
	}
	return product, err
}

func (s *Service) generation(sessionID string) *atomic.Uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	gen, ok := s.generations[sessionID]
	if !ok {
		gen = &atomic.Uint64{}
		s.generations[sessionID] = gen
	}
	return gen
}
