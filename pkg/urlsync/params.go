package urlsync

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/gorilla/schema"
)

// Query parameter keys in serialization order.
const (
	KeyCategory = "category"
	KeyBrand    = "brand"
	KeySizes    = "sizes"
	KeyColors   = "colors"
	KeyPriceMin = "price_min"
	KeyPriceMax = "price_max"
	KeyFeatured = "featured"
	KeyNew      = "new"
	KeySale     = "sale"
	KeyInStock  = "in_stock"
	KeyQuery    = "q"
	KeySort     = "sort"
	KeyPage     = "page"
)

// Params is the raw query string. Numbers and flags stay strings so a
// malformed value never fails the whole decode.
type Params struct {
	Category []string `schema:"category"`
	Brand    []string `schema:"brand"`
	Sizes    []string `schema:"sizes"`
	Colors   []string `schema:"colors"`
	PriceMin string   `schema:"price_min"`
	PriceMax string   `schema:"price_max"`
	Featured string   `schema:"featured"`
	New      string   `schema:"new"`
	Sale     string   `schema:"sale"`
	InStock  string   `schema:"in_stock"`
	Query    string   `schema:"q"`
	Sort     string   `schema:"sort"`
	Page     string   `schema:"page"`
}

var decoder = schema.NewDecoder()

func init() {
	decoder.IgnoreUnknownKeys(true)
}

var listEscaper = strings.NewReplacer("%", "%25", ",", "%2C")

// escapeListValue protects the commas of one list value. The result is
// query escaped once more, so the separators are the only literal commas
// left after the query string is parsed.
func escapeListValue(v string) string {
	return listEscaper.Replace(v)
}

// unescapeListValue reverses escapeListValue. Hand written values that are
// not valid escapes are taken as is.
func unescapeListValue(v string) string {
	if ret, err := url.PathUnescape(v); err == nil {
		return ret
	}
	return v
}

// splitList accepts comma joined and repeated values alike.
func splitList(values []string) []string {
	ret := make([]string, 0, len(values))
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(unescapeListValue(part)); part != "" {
				ret = append(ret, part)
			}
		}
	}
	return ret
}

func parseFlag(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "on":
		return true
	}
	return false
}

func parsePrice(s string, fallback float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return v
}

func parsePage(s string) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v < 1 {
		return 1
	}
	return v
}
