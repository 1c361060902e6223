package types

// PageResult is one page of the filtered and sorted product set.
type PageResult struct {
	Items      []ProductRecord `json:"items"`
	TotalCount int             `json:"totalCount"`
	TotalPages int             `json:"totalPages"`
	Page       int             `json:"page"`
	PageSize   int             `json:"pageSize"`
}

// FacetOption is one selectable value of a facet with the number of
// products it would show given every other active dimension.
type FacetOption struct {
	Id             string `json:"id"`
	Label          string `json:"label"`
	AvailableCount int    `json:"count"`
	Selected       bool   `json:"selected,omitempty"`
}

func EmptyPageResult(pageSize int) PageResult {
	return PageResult{
		Items:      []ProductRecord{},
		TotalPages: 1,
		Page:       1,
		PageSize:   pageSize,
	}
}
