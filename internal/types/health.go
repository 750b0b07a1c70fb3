package types

import "time"

// HealthStatus describes the validator's operational state as served by
// the read API. Healthy means both tick loops ran recently, Stale means
// data is older than expected, Degraded means consecutive failures are
// elevated.
type HealthStatus string

const (
	StatusHealthy  HealthStatus = "healthy"
	StatusStale    HealthStatus = "stale"
	StatusDegraded HealthStatus = "degraded"
)

func (s HealthStatus) String() string {
	return string(s)
}

// Health is the orchestrator bookkeeping exposed over the read API.
type Health struct {
	Status                      HealthStatus `json:"status"`
	LastIngestionAt             time.Time    `json:"last_ingestion_at"`
	LastPublicationAt           time.Time    `json:"last_publication_at"`
	LastPublishedBlock          uint64       `json:"last_published_block"`
	ConsecutiveIngestionErrors  uint64       `json:"consecutive_ingestion_errors"`
	ConsecutivePublishingErrors uint64       `json:"consecutive_publishing_errors"`
	SnapshotGap                 bool         `json:"snapshot_gap"`
}
