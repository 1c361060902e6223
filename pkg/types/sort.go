package types

// SortSpec names an ordering of the filtered products.
type SortSpec string

const (
	SortNameAsc   SortSpec = "name-asc"
	SortPriceAsc  SortSpec = "price-asc"
	SortPriceDesc SortSpec = "price-desc"
	SortNewest    SortSpec = "newest"
	SortRelevance SortSpec = "relevance"
)

const DefaultSort = SortNameAsc

var sortLabels = map[SortSpec]string{
	SortNameAsc:   "name, A to Z",
	SortPriceAsc:  "price, low to high",
	SortPriceDesc: "price, high to low",
	SortNewest:    "newest first",
	SortRelevance: "relevance",
}

// ParseSortSpec returns DefaultSort and false for unknown input.
func ParseSortSpec(s string) (SortSpec, bool) {
	spec := SortSpec(s)
	if _, ok := sortLabels[spec]; ok {
		return spec, true
	}
	return DefaultSort, false
}

func (s SortSpec) IsValid() bool {
	_, ok := sortLabels[s]
	return ok
}

// Effective resolves relevance without a search term to name order.
func (s SortSpec) Effective(query string) SortSpec {
	if !s.IsValid() {
		return DefaultSort
	}
	if s == SortRelevance && query == "" {
		return SortNameAsc
	}
	return s
}

func (s SortSpec) Label() string {
	if l, ok := sortLabels[s]; ok {
		return l
	}
	return string(s)
}
