package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/rs/zerolog/log"

	"github.com/tao-colosseum/colosseum-validator/internal/db/model"
	"github.com/tao-colosseum/colosseum-validator/internal/observability/metrics"
	"github.com/tao-colosseum/colosseum-validator/internal/reward"
	"github.com/tao-colosseum/colosseum-validator/internal/utils/poller"
)

// StartVolumePoller starts the ingestion tick loop.
func (s *Service) StartVolumePoller(ctx context.Context) {
	volumePoller := poller.NewPoller(
		"volume",
		s.cfg.Poller.VolumePollingInterval,
		metrics.RecordPollerDuration("volume", s.refreshVolumes),
	)
	go volumePoller.Start(ctx)
}

// refreshVolumes runs one ingestion tick: it loads the verified wallet
// mappings, pulls per-epoch stake from the betting contract, folds the
// increments into the volume cache and persists the derived per-identity
// state. Any failure leaves both the cache and the persisted state as they
// were; the next tick retries.
func (s *Service) refreshVolumes(ctx context.Context) error {
	start := time.Now()

	mappings, err := s.db.GetAllWalletMappings(ctx)
	if err != nil {
		s.health.recordIngestion(err, start)
		return fmt.Errorf("failed to load wallet mappings: %w", err)
	}

	byUID := make(map[uint64]model.WalletMappingDocument, len(mappings))
	uids := make([]uint64, 0, len(mappings))
	for _, m := range mappings {
		byUID[m.UID] = m
		uids = append(uids, m.UID)
	}

	epoch, err := s.contract.CurrentEpoch(ctx)
	if err != nil {
		s.health.recordIngestion(err, start)
		return fmt.Errorf("failed to get the current game epoch: %w", err)
	}

	fetch := func(ctx context.Context, uid uint64, epoch uint64) (sdkmath.Int, error) {
		mapping, ok := byUID[uid]
		if !ok {
			return sdkmath.Int{}, fmt.Errorf("no wallet mapping for uid %d", uid)
		}
		stake, err := s.contract.GetStakeForEpoch(ctx, mapping.Address, epoch)
		if err != nil {
			return sdkmath.Int{}, err
		}
		return stake.Total(), nil
	}

	gen, err := s.cache.Refresh(ctx, start, epoch, uids, fetch)
	if err != nil {
		s.health.recordIngestion(err, start)
		return fmt.Errorf("failed to refresh the volume cache: %w", err)
	}

	if err := s.persistIdentities(ctx, gen.Epoch, byUID); err != nil {
		s.health.recordIngestion(err, start)
		return err
	}

	_, records := s.CurrentScores()
	metrics.RecordCacheGenerationStats(
		reward.ActiveCount(records),
		reward.TotalWeightedVolume(records),
	)
	s.health.recordIngestion(nil, start)

	log.Info().
		Uint64("generation", gen.Number).
		Uint64("epoch", gen.Epoch).
		Int("identities", len(gen.Histories)).
		Dur("duration", time.Since(start)).
		Msg("Ingestion tick completed")
	return nil
}

// persistIdentities materializes the current generation into the identity
// collection so per-identity detail survives restarts.
func (s *Service) persistIdentities(ctx context.Context, epoch uint64, byUID map[uint64]model.WalletMappingDocument) error {
	gen, records := s.CurrentScores()
	now := time.Now().Unix()

	activeUIDs := make([]uint64, 0, len(records))
	for _, record := range records {
		mapping, hasMapping := byUID[record.UID]
		doc := &model.IdentityDocument{
			UID:            record.UID,
			IdentityKey:    mapping.IdentityKey,
			Address:        strings.ToLower(mapping.Address),
			DailyVolumes:   gen.History(record.UID),
			WeightedVolume: record.WeightedVolume,
			Score:          record.Score,
			LastSeenEpoch:  epoch,
			Active:         hasMapping,
			LastUpdated:    now,
		}
		if err := s.db.UpsertIdentity(ctx, doc); err != nil {
			return fmt.Errorf("failed to upsert identity %d: %w", record.UID, err)
		}
		if doc.Active {
			activeUIDs = append(activeUIDs, record.UID)
		}
	}

	if err := s.db.MarkIdentitiesInactive(ctx, activeUIDs); err != nil {
		return fmt.Errorf("failed to mark unmapped identities inactive: %w", err)
	}
	return nil
}
