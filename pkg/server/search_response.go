package server

import (
	"github.com/matst80/slask-catalog/pkg/announce"
	"github.com/matst80/slask-catalog/pkg/facet"
	"github.com/matst80/slask-catalog/pkg/surface"
	"github.com/matst80/slask-catalog/pkg/types"
)

type BrowseResponse struct {
	State         types.FilterState `json:"state"`
	Result        types.PageResult  `json:"result"`
	Facets        []facet.Facet     `json:"facets"`
	Query         string            `json:"query"`
	ActiveFilters int               `json:"activeFilters"`
	Fallback      bool              `json:"fallback,omitempty"`
}

type MountRequest struct {
	Query string `json:"query"`
}

type ViewResponse struct {
	Id       string           `json:"id"`
	Loaded   bool             `json:"loaded"`
	Fallback bool             `json:"fallback,omitempty"`
	View     surface.Snapshot `json:"view"`
}

type IntentRequest struct {
	Surface string         `json:"surface"`
	Intent  surface.Intent `json:"intent"`
	// Flush commits a pending sidebar price edit right away.
	Flush bool `json:"flush,omitempty"`
}

type DrawerResponse struct {
	Accepted bool `json:"accepted"`
	ViewResponse
}

type AnnouncementsResponse struct {
	Messages []announce.Message `json:"messages"`
}
