package catalog

import (
	"context"
	_ "embed"
	"slices"
	"sync"

	"github.com/matst80/slask-catalog/pkg/common/jsoncompat"
	"github.com/matst80/slask-catalog/pkg/types"
)

//go:embed fallback.json
var fallbackData []byte

type dataset struct {
	Products   []types.ProductRecord `json:"products"`
	Brands     []types.Brand         `json:"brands"`
	Categories []types.Category      `json:"categories"`
}

var loadFallback = sync.OnceValues(func() (*dataset, error) {
	d := &dataset{}
	if err := jsoncompat.Unmarshal(fallbackData, d); err != nil {
		return nil, err
	}
	return d, nil
})

// FallbackSource serves the static dataset shipped with the binary.
type FallbackSource struct{}

func (FallbackSource) Products(context.Context, CacheHint) ([]types.ProductRecord, error) {
	d, err := loadFallback()
	if err != nil {
		return nil, err
	}
	return slices.Clone(d.Products), nil
}

func (FallbackSource) Brands(context.Context, CacheHint) ([]types.Brand, error) {
	d, err := loadFallback()
	if err != nil {
		return nil, err
	}
	return slices.Clone(d.Brands), nil
}

func (FallbackSource) Categories(context.Context, CacheHint) ([]types.Category, error) {
	d, err := loadFallback()
	if err != nil {
		return nil, err
	}
	return slices.Clone(d.Categories), nil
}
