package catalog

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/matst80/slask-catalog/pkg/common/jsoncompat"
	"github.com/matst80/slask-catalog/pkg/types"
)

// HTTPSource reads the catalog from a JSON backend.
type HTTPSource struct {
	BaseURL string
	Client  *http.Client
}

func NewHTTPSource(baseURL string) *HTTPSource {
	return &HTTPSource{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		Client:  &http.Client{},
	}
}

func getJson[T any](ctx context.Context, s *HTTPSource, path string, hint CacheHint) (T, error) {
	var out T
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.BaseURL+path, nil)
	if err != nil {
		return out, err
	}
	req.Header.Set("Accept", "application/json")
	if h := hint.Header(); h != "" {
		req.Header.Set("Cache-Control", h)
	}
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	res, err := client.Do(req)
	if err != nil {
		return out, fmt.Errorf("fetch %s: %w", path, err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return out, fmt.Errorf("fetch %s: unexpected status %d", path, res.StatusCode)
	}
	if err := jsoncompat.NewDecoder(res.Body).Decode(&out); err != nil {
		return out, fmt.Errorf("decode %s: %w", path, err)
	}
	return out, nil
}

func (s *HTTPSource) Products(ctx context.Context, hint CacheHint) ([]types.ProductRecord, error) {
	return getJson[[]types.ProductRecord](ctx, s, "/api/products", hint)
}

func (s *HTTPSource) Brands(ctx context.Context, hint CacheHint) ([]types.Brand, error) {
	return getJson[[]types.Brand](ctx, s, "/api/brands", hint)
}

func (s *HTTPSource) Categories(ctx context.Context, hint CacheHint) ([]types.Category, error) {
	return getJson[[]types.Category](ctx, s, "/api/categories", hint)
}
