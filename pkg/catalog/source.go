// Package catalog is the product fetch boundary of the browsing engine and
// the lifecycle of a mounted catalog view.
package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/matst80/slask-catalog/pkg/types"
)

// CacheHint is passed to every read. A zero hint lets the source decide.
type CacheHint struct {
	MaxAge  time.Duration
	NoCache bool
}

// Header renders the hint as a Cache-Control value.
func (h CacheHint) Header() string {
	parts := make([]string, 0, 2)
	if h.NoCache {
		parts = append(parts, "no-cache")
	}
	if h.MaxAge > 0 {
		parts = append(parts, fmt.Sprintf("max-age=%d", int(h.MaxAge.Seconds())))
	}
	return strings.Join(parts, ", ")
}

// Source reads the catalog. Every read is idempotent.
type Source interface {
	Products(ctx context.Context, hint CacheHint) ([]types.ProductRecord, error)
	Brands(ctx context.Context, hint CacheHint) ([]types.Brand, error)
	Categories(ctx context.Context, hint CacheHint) ([]types.Category, error)
}
