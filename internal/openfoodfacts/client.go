package openfoodfacts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/arunavsaha123/food-vista/internal/models"
)

var (
	// ErrProductNotFound means no product exists for the barcode. It is a
	// normal outcome, distinct from a transport failure.
	ErrProductNotFound = errors.New("product not found")

	// errStatusNotFound marks an HTTP 404 from the upstream API so barcode
	// lookups can tell "no such product" apart from a transport error.
	errStatusNotFound = errors.New("upstream returned 404")
)

const (
	searchPath    = "/cgi/search.pl"
	barcodePath   = "/api/v2/product/"
	allCategories = "All Categories"

	retryBackoff = 250 * time.Millisecond
)

// ClientConfig holds the knobs for the Open Food Facts client.
type ClientConfig struct {
	BaseURL    string
	UserAgent  string
	PageSize   int
	MaxRetries int
	Timeout    time.Duration
}

// Client talks to the Open Food Facts HTTP API and feeds every raw record
// through the normalizer. Callers never see unnormalized data.
type Client struct {
	baseURL    string
	userAgent  string
	pageSize   int
	maxRetries int
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new Open Food Facts client.
func NewClient(cfg ClientConfig, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		userAgent:  cfg.UserAgent,
		pageSize:   cfg.PageSize,
		maxRetries: cfg.MaxRetries,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

// SearchProducts runs a free-text search, optionally narrowed to a category,
// and returns the normalized results. Malformed records are dropped and
// logged; a transport or HTTP error is surfaced after the retry budget is
// exhausted, with no partial results.
func (c *Client) SearchProducts(ctx context.Context, query, category string) ([]models.Product, error) {
	params := url.Values{}
	params.Set("action", "process")
	params.Set("json", "1")
	params.Set("page_size", strconv.Itoa(c.pageSize))
	params.Set("search_simple", "1")
	params.Set("search_terms", query)
	if category != "" && category != allCategories {
		params.Set("tagtype_0", "categories")
		params.Set("tag_contains_0", "contains")
		params.Set("tag_0", category)
	}

	body, err := c.get(ctx, c.baseURL+searchPath+"?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("searching products: %w", err)
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decoding search response: %w", err)
	}
	if resp.Products == nil {
		return nil, fmt.Errorf("invalid search response: missing products array")
	}

	return c.normalizeBatch(resp.Products), nil
}

// FetchByBarcode looks up a single product by barcode. A missing product is
// reported as ErrProductNotFound; any other failure is a transport error.
func (c *Client) FetchByBarcode(ctx context.Context, barcode string) (*models.Product, error) {
	body, err := c.get(ctx, c.baseURL+barcodePath+url.PathEscape(barcode)+".json")
	if err != nil {
		if errors.Is(err, errStatusNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("fetching barcode %s: %w", barcode, err)
	}

	var resp barcodeResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decoding barcode response: %w", err)
	}
	if len(resp.Product) == 0 {
		return nil, ErrProductNotFound
	}

	var raw RawProduct
	if err := json.Unmarshal(resp.Product, &raw); err != nil {
		c.logger.Warn("dropping undecodable product record", "barcode", barcode, "error", err)
		return nil, ErrProductNotFound
	}

	product, err := Normalize(&raw)
	if err != nil {
		c.logger.Warn("dropping malformed product record", "barcode", barcode, "error", err)
		return nil, ErrProductNotFound
	}

	return product, nil
}

// get performs a GET with bounded retries. An upstream 404 is returned
// immediately since it is a definitive answer, not a transient failure.
func (c *Client) get(ctx context.Context, reqURL string) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * retryBackoff):
			}
		}

		body, err := c.getOnce(ctx, reqURL)
		if err == nil {
			return body, nil
		}
		if errors.Is(err, errStatusNotFound) {
			return nil, err
		}

		lastErr = err
		c.logger.Warn("open food facts request failed",
			"url", reqURL,
			"attempt", attempt+1,
			"error", err,
		)
	}

	return nil, fmt.Errorf("after %d attempts: %w", c.maxRetries+1, lastErr)
}

func (c *Client) getOnce(ctx context.Context, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, errStatusNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	return body, nil
}

// normalizeBatch normalizes each raw record independently so one bad record
// only shortens the result list instead of failing the whole search.
func (c *Client) normalizeBatch(raws []json.RawMessage) []models.Product {
	products := make([]models.Product, 0, len(raws))
	for _, msg := range raws {
		var raw RawProduct
		if err := json.Unmarshal(msg, &raw); err != nil {
			c.logger.Warn("dropping undecodable product record", "error", err)
			continue
		}

		product, err := Normalize(&raw)
		if err != nil {
			c.logger.Warn("dropping malformed product record", "id", raw.ID, "name", raw.ProductName, "error", err)
			continue
		}
		products = append(products, *product)
	}
	return products
}
