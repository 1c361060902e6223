package catalog

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/matst80/slask-catalog/pkg/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

var (
	fallbackLoads = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slaskcatalog_fetch_fallback_total",
		Help: "Catalog loads served from the embedded dataset",
	})
	droppedRecords = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "slaskcatalog_dropped_records_total",
		Help: "Records rejected by validation",
	}, []string{"kind"})
)

var validate = validator.New()

// Snapshot is one consistent read of the catalog.
type Snapshot struct {
	Products   []types.ProductRecord
	Brands     []types.Brand
	Categories []types.Category
	Reference  *types.ReferenceData
	Fallback   bool
}

func newSnapshot(products []types.ProductRecord, brands []types.Brand, categories []types.Category) *Snapshot {
	products = validRecords(products, "product")
	brands = validRecords(brands, "brand")
	categories = validRecords(categories, "category")
	for i := range products {
		normalizeProduct(&products[i])
	}
	for i := range brands {
		brands[i].Id = strings.TrimSpace(brands[i].Id)
	}
	for i := range categories {
		categories[i].Id = strings.TrimSpace(categories[i].Id)
	}
	return &Snapshot{
		Products:   products,
		Brands:     brands,
		Categories: categories,
		Reference:  types.NewReferenceData(products, brands, categories),
	}
}

func validRecords[T any](items []T, kind string) []T {
	kept := items[:0:0]
	for _, item := range items {
		if err := validate.Struct(item); err != nil {
			droppedRecords.WithLabelValues(kind).Inc()
			log.Warn().Err(err).Str("kind", kind).Msg("dropping invalid record")
			continue
		}
		kept = append(kept, item)
	}
	return kept
}

// normalizeProduct trims facet values so the index, the reference data and
// the filters all see the same ids. Empty values are dropped.
func normalizeProduct(p *types.ProductRecord) {
	p.BrandId = strings.TrimSpace(p.BrandId)
	p.CategoryId = strings.TrimSpace(p.CategoryId)
	p.Sizes = trimValues(p.Sizes)
	p.Colors = trimValues(p.Colors)
}

func trimValues(values []string) []string {
	if values == nil {
		return nil
	}
	ret := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			ret = append(ret, v)
		}
	}
	return ret
}

func fetch(ctx context.Context, src Source, hint CacheHint) (*Snapshot, error) {
	var (
		products   []types.ProductRecord
		brands     []types.Brand
		categories []types.Category
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		products, err = src.Products(gctx, hint)
		return err
	})
	g.Go(func() (err error) {
		brands, err = src.Brands(gctx, hint)
		return err
	})
	g.Go(func() (err error) {
		categories, err = src.Categories(gctx, hint)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return newSnapshot(products, brands, categories), nil
}

// Load reads products, brands and categories concurrently. Any failure is
// logged and answered with the embedded dataset, so Load always returns a
// usable snapshot.
func Load(ctx context.Context, src Source, hint CacheHint) *Snapshot {
	if src != nil {
		snap, err := fetch(ctx, src, hint)
		if err == nil {
			return snap
		}
		log.Warn().Err(err).Msg("catalog fetch failed, using fallback dataset")
	}
	fallbackLoads.Inc()
	snap, err := fetch(context.Background(), FallbackSource{}, CacheHint{})
	if err != nil {
		log.Error().Err(err).Msg("fallback dataset is unreadable")
		return newSnapshot(nil, nil, nil)
	}
	snap.Fallback = true
	return snap
}
