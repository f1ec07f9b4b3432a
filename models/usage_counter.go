package models

// Counter names for plan-tier quotas.
const (
	CounterDrafts = "drafts"
	CounterIdeas  = "ideas"
)

// UsageCounter is a per-calendar-month counter gating non-pro generation.
// Collection: usage_counters, unique on (name, month).
type UsageCounter struct {
	Name  string `bson:"name" json:"name"`
	Month string `bson:"month" json:"month"` // "2006-01", UTC
	Count int    `bson:"count" json:"count"`
}
