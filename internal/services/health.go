package services

import (
	"context"
	"sync"
	"time"

	"github.com/tao-colosseum/colosseum-validator/internal/types"
)

// degradedErrorThreshold is how many consecutive tick failures of either
// loop flip the reported status to degraded.
const degradedErrorThreshold = 3

// staleTickMultiplier times the polling interval is how old ingestion data
// may get before the status turns stale.
const staleTickMultiplier = 3

// healthState is the orchestrator's mutable bookkeeping. All fields are
// guarded by mu; the tick loops write, the read API reads.
type healthState struct {
	mu sync.RWMutex

	lastIngestionAt             time.Time
	lastPublicationAt           time.Time
	lastPublishedBlock          uint64
	consecutiveIngestionErrors  uint64
	consecutivePublishingErrors uint64
	snapshotGap                 bool
}

func (h *healthState) seedLastPublishedBlock(block uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lastPublishedBlock = block
}

func (h *healthState) recordIngestion(err error, at time.Time) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err != nil {
		h.consecutiveIngestionErrors++
		return
	}
	h.consecutiveIngestionErrors = 0
	h.lastIngestionAt = at
}

func (h *healthState) recordPublication(err error, at time.Time, block uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err != nil {
		h.consecutivePublishingErrors++
		return
	}
	h.consecutivePublishingErrors = 0
	h.lastPublicationAt = at
	h.lastPublishedBlock = block
}

func (h *healthState) markSnapshotGap() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.snapshotGap = true
}

func (h *healthState) lastPublished() uint64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.lastPublishedBlock
}

func (h *healthState) snapshot() types.Health {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return types.Health{
		LastIngestionAt:             h.lastIngestionAt,
		LastPublicationAt:           h.lastPublicationAt,
		LastPublishedBlock:          h.lastPublishedBlock,
		ConsecutiveIngestionErrors:  h.consecutiveIngestionErrors,
		ConsecutivePublishingErrors: h.consecutivePublishingErrors,
		SnapshotGap:                 h.snapshotGap,
	}
}

// Health derives the operational status from the tick bookkeeping. The
// snapshot-gap flag and sustained failures dominate; otherwise the status
// depends on how fresh the last successful ingestion is.
func (s *Service) Health(ctx context.Context) types.Health {
	health := s.health.snapshot()

	switch {
	case health.SnapshotGap,
		health.ConsecutiveIngestionErrors >= degradedErrorThreshold,
		health.ConsecutivePublishingErrors >= degradedErrorThreshold:
		health.Status = types.StatusDegraded
	case health.LastIngestionAt.IsZero(),
		time.Since(health.LastIngestionAt) > staleTickMultiplier*s.cfg.Poller.VolumePollingInterval:
		health.Status = types.StatusStale
	default:
		health.Status = types.StatusHealthy
	}

	if err := s.db.Ping(ctx); err != nil {
		health.Status = types.StatusDegraded
	}
	return health
}
