// Package urlsync maps a FilterState to a shareable query string and back.
package urlsync

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/matst80/slask-catalog/pkg/types"
	"github.com/rs/zerolog/log"
)

// Serialize renders the canonical query string of state, without a leading
// '?'. Keys come in a fixed order, list values are comma joined and every
// value equal to its default is left out, so the default state serializes
// to "".
func Serialize(state types.FilterState, bounds types.PriceRange) string {
	var b strings.Builder
	add := func(key, value string) {
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(key)
		b.WriteByte('=')
		b.WriteString(value)
	}
	list := func(key string, set types.ValueSet) {
		if set.Len() == 0 {
			return
		}
		values := set.Sorted()
		for i, v := range values {
			values[i] = url.QueryEscape(escapeListValue(v))
		}
		add(key, strings.Join(values, ","))
	}
	flag := func(key string, on bool) {
		if on {
			add(key, "true")
		}
	}

	list(KeyCategory, state.Categories)
	list(KeyBrand, state.Brands)
	list(KeySizes, state.Sizes)
	list(KeyColors, state.Colors)
	if state.Price.Min > bounds.Min {
		add(KeyPriceMin, types.FormatPrice(state.Price.Min))
	}
	if state.Price.Max < bounds.Max {
		add(KeyPriceMax, types.FormatPrice(state.Price.Max))
	}
	flag(KeyFeatured, state.FeaturedOnly)
	flag(KeyNew, state.NewOnly)
	flag(KeySale, state.OnSale)
	flag(KeyInStock, state.InStockOnly)
	if q := strings.TrimSpace(state.Query); q != "" {
		add(KeyQuery, url.QueryEscape(q))
	}
	if state.Sort != types.DefaultSort && state.Sort.IsValid() {
		add(KeySort, string(state.Sort))
	}
	if state.Page > 1 {
		add(KeyPage, strconv.Itoa(state.Page))
	}
	return b.String()
}

// Deserialize builds a state from a query string on top of the defaults.
func Deserialize(query string, ref *types.ReferenceData) types.FilterState {
	return Hydrate(types.NewFilterState(ref.PriceBounds()), query, ref)
}

// Hydrate overrides base with the keys named in query. Keys that are absent
// keep the value of base.
func Hydrate(base types.FilterState, query string, ref *types.ReferenceData) types.FilterState {
	values, err := url.ParseQuery(strings.TrimPrefix(query, "?"))
	if err != nil {
		log.Debug().Err(err).Str("query", query).Msg("partially malformed query string")
	}
	return FromValues(values, base, ref)
}

// FromValues is Hydrate for already parsed values. The result is sanitized
// against ref: unknown ids are dropped and the price range is clamped.
func FromValues(values url.Values, base types.FilterState, ref *types.ReferenceData) types.FilterState {
	state := base.Clone()
	bounds := ref.PriceBounds()

	var p Params
	if err := decoder.Decode(&p, values); err != nil {
		log.Debug().Err(err).Msg("query decode")
	}

	lists := []struct {
		key    string
		values []string
		dim    types.Dimension
	}{
		{KeyCategory, p.Category, types.DimensionCategory},
		{KeyBrand, p.Brand, types.DimensionBrand},
		{KeySizes, p.Sizes, types.DimensionSize},
		{KeyColors, p.Colors, types.DimensionColor},
	}
	for _, l := range lists {
		if values.Has(l.key) {
			*state.Selection(l.dim) = types.NewValueSet(splitList(l.values)...)
		}
	}
	if values.Has(KeyPriceMin) {
		state.Price.Min = parsePrice(p.PriceMin, bounds.Min)
	}
	if values.Has(KeyPriceMax) {
		state.Price.Max = parsePrice(p.PriceMax, bounds.Max)
	}
	flags := []struct {
		key   string
		value string
		dim   types.Dimension
	}{
		{KeyFeatured, p.Featured, types.DimensionFeatured},
		{KeyNew, p.New, types.DimensionNew},
		{KeySale, p.Sale, types.DimensionSale},
		{KeyInStock, p.InStock, types.DimensionInStock},
	}
	for _, f := range flags {
		if values.Has(f.key) {
			state.SetFlag(f.dim, parseFlag(f.value))
		}
	}
	if values.Has(KeyQuery) {
		state.Query = strings.TrimSpace(p.Query)
	}
	if values.Has(KeySort) {
		state.Sort, _ = types.ParseSortSpec(strings.TrimSpace(p.Sort))
	}
	if values.Has(KeyPage) {
		state.Page = parsePage(p.Page)
	}
	state.Sanitize(ref)
	return state
}
