package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tao-colosseum/colosseum-validator/internal/clients/ledgerclient"
	"github.com/tao-colosseum/colosseum-validator/internal/db"
	"github.com/tao-colosseum/colosseum-validator/internal/db/model"
	"github.com/tao-colosseum/colosseum-validator/internal/observability/metrics"
	"github.com/tao-colosseum/colosseum-validator/internal/queue"
	"github.com/tao-colosseum/colosseum-validator/internal/reward"
	"github.com/tao-colosseum/colosseum-validator/internal/types"
	"github.com/tao-colosseum/colosseum-validator/internal/utils/poller"
)

const (
	submissionOutcomeSuccess     = "success"
	submissionOutcomeRateLimited = "rate_limited"
	submissionOutcomeError       = "error"
)

// StartPublicationPoller starts the publication tick loop.
func (s *Service) StartPublicationPoller(ctx context.Context) {
	publicationPoller := poller.NewPoller(
		"publication",
		s.cfg.Poller.PublicationPollingInterval,
		metrics.RecordPollerDuration("publication", s.publishScores),
	)
	go publicationPoller.Start(ctx)
}

// publishScores runs one publication tick: once the commit interval has
// elapsed on the ledger it recomputes the score vector from the current
// cache generation, submits it and appends a snapshot keyed by the commit
// block. The local interval check only avoids pointless submissions; the
// ledger's own rate limit is authoritative and its rejection is treated as
// a deferral, not a failure.
func (s *Service) publishScores(ctx context.Context) error {
	now := time.Now()

	block, err := s.ledger.CurrentBlock(ctx)
	if err != nil {
		s.health.recordPublication(err, now, 0)
		return fmt.Errorf("failed to get the current ledger block: %w", err)
	}
	metrics.RecordLedgerBlockHeight(block)

	lastPublished := s.health.lastPublished()
	interval := s.cfg.Ledger.CommitIntervalBlocks
	if lastPublished != 0 && block < lastPublished+interval {
		log.Debug().
			Uint64("block", block).
			Uint64("last_published_block", lastPublished).
			Uint64("commit_interval_blocks", interval).
			Msg("Commit interval not elapsed yet, skipping publication")
		return nil
	}

	gen, records := s.CurrentScores()
	if len(records) == 0 {
		log.Debug().Msg("No identities to publish, skipping publication")
		return nil
	}

	weights := make([]ledgerclient.Weight, len(records))
	for i, record := range records {
		weights[i] = ledgerclient.Weight{UID: record.UID, Weight: record.Score}
	}

	if err := s.ledger.SubmitWeights(ctx, weights); err != nil {
		if types.IsRateLimited(err) {
			metrics.RecordLedgerSubmission(submissionOutcomeRateLimited)
			log.Info().
				Uint64("block", block).
				Msg("Ledger rate-limited the submission, deferring to a later tick")
			return nil
		}
		metrics.RecordLedgerSubmission(submissionOutcomeError)
		s.health.recordPublication(err, now, 0)
		return fmt.Errorf("failed to submit the score vector: %w", err)
	}
	metrics.RecordLedgerSubmission(submissionOutcomeSuccess)

	snapshot := buildSnapshot(block, now, records)
	if err := s.db.SaveSnapshot(ctx, snapshot); err != nil && !db.IsDuplicateKeyError(err) {
		// the ledger commit went through, so the publication counts; the
		// gap in the local record is surfaced loudly instead
		metrics.IncSnapshotAppendFailures()
		s.health.markSnapshotGap()
		log.Error().Err(err).
			Uint64("block", block).
			Msg("Failed to append the snapshot for a committed publication")
	}

	s.health.recordPublication(nil, now, block)

	if err := s.queueManager.SendSnapshotCreatedEvent(ctx, &queue.SnapshotCreatedEvent{
		Block:               snapshot.Block,
		Timestamp:           snapshot.Timestamp,
		TotalWeightedVolume: snapshot.TotalWeightedVolume,
		ActiveIdentities:    snapshot.ActiveIdentities,
	}); err != nil {
		metrics.IncQueueSendFailures()
		log.Warn().Err(err).Uint64("block", block).Msg("Failed to publish the snapshot event")
	}

	log.Info().
		Uint64("block", block).
		Uint64("generation", gen.Number).
		Int("identities", len(records)).
		Msg("Score distribution published")
	return nil
}

func buildSnapshot(block uint64, now time.Time, records []reward.ScoreRecord) *model.SnapshotDocument {
	entries := make([]model.SnapshotEntry, len(records))
	for i, record := range records {
		entries[i] = model.SnapshotEntry{
			UID:            record.UID,
			WeightedVolume: record.WeightedVolume,
			Score:          record.Score,
			Rank:           record.Rank,
		}
	}
	return &model.SnapshotDocument{
		Block:               block,
		Timestamp:           now.Unix(),
		TotalWeightedVolume: reward.TotalWeightedVolume(records),
		ActiveIdentities:    reward.ActiveCount(records),
		Entries:             entries,
	}
}
