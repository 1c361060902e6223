package messaging

import "time"

type ChangeTopic string

const (
	CatalogChanged ChangeTopic = "catalog_changed"
	Tracking       ChangeTopic = "tracking"
)

// CatalogChange tells listeners that cached catalog reads are stale.
type CatalogChange struct {
	Country   string    `json:"country,omitempty"`
	Reason    string    `json:"reason,omitempty"`
	ChangedAt time.Time `json:"changedAt"`
}

type RabbitConfig struct {
	Url    string
	Prefix string
}
