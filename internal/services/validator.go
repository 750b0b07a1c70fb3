package services

import (
	"context"
	"fmt"
	"net/http"
	"sort"

	"github.com/tao-colosseum/colosseum-validator/internal/clients/contractclient"
	"github.com/tao-colosseum/colosseum-validator/internal/clients/ledgerclient"
	"github.com/tao-colosseum/colosseum-validator/internal/config"
	"github.com/tao-colosseum/colosseum-validator/internal/db"
	"github.com/tao-colosseum/colosseum-validator/internal/db/model"
	"github.com/tao-colosseum/colosseum-validator/internal/queue"
	"github.com/tao-colosseum/colosseum-validator/internal/reward"
	"github.com/tao-colosseum/colosseum-validator/internal/types"
	"github.com/tao-colosseum/colosseum-validator/internal/verifier"
	"github.com/tao-colosseum/colosseum-validator/internal/volume"
)

type Service struct {
	cfg          *config.Config
	db           db.DbInterface
	contract     contractclient.ContractInterface
	ledger       ledgerclient.LedgerInterface
	queueManager *queue.QueueManager

	cache    *volume.Cache
	engine   *reward.Engine
	verifier *verifier.Verifier

	health healthState
}

func NewService(
	cfg *config.Config,
	database db.DbInterface,
	contract contractclient.ContractInterface,
	ledger ledgerclient.LedgerInterface,
	qm *queue.QueueManager,
) *Service {
	return &Service{
		cfg:          cfg,
		db:           database,
		contract:     contract,
		ledger:       ledger,
		queueManager: qm,
		cache:        volume.NewCache(cfg.Chain.MaxConcurrentQueries),
		engine:       reward.NewEngine(cfg.Reward.Weights()),
		verifier:     verifier.New(database, cfg.Reward.MappingFreshnessWindow),
	}
}

// StartValidatorSync seeds publication state from the snapshot store and
// starts the two tick loops.
func (s *Service) StartValidatorSync(ctx context.Context) error {
	if err := s.seedPublicationState(ctx); err != nil {
		return err
	}
	s.StartVolumePoller(ctx)
	s.StartPublicationPoller(ctx)
	return nil
}

func (s *Service) seedPublicationState(ctx context.Context) error {
	latest, err := s.db.LatestSnapshot(ctx)
	if err != nil {
		if db.IsNotFoundError(err) {
			return nil
		}
		return fmt.Errorf("failed to load the latest snapshot: %w", err)
	}
	s.health.seedLastPublishedBlock(latest.Block)
	return nil
}

// RegisterWalletMapping verifies a dual-signature wallet-mapping request
// and persists the binding.
func (s *Service) RegisterWalletMapping(ctx context.Context, req *verifier.Request) (*model.WalletMappingDocument, error) {
	return s.verifier.Register(ctx, req)
}

// CurrentScores recomputes the score vector from the current cache
// generation. The result is derived state, identical for identical
// generations.
func (s *Service) CurrentScores() (*volume.Generation, []reward.ScoreRecord) {
	gen := s.cache.Current()
	return gen, s.engine.Scores(gen, gen.UIDs())
}

// ScoreForUID returns one identity's score record out of the current
// generation. Unknown identities are a NotFound.
func (s *Service) ScoreForUID(uid uint64) (*reward.ScoreRecord, error) {
	gen, records := s.CurrentScores()
	if _, ok := gen.Histories[uid]; !ok {
		return nil, types.NewErrorWithMsg(
			http.StatusNotFound, types.NotFound, fmt.Sprintf("identity %d not found", uid),
		)
	}
	for i := range records {
		if records[i].UID == uid {
			return &records[i], nil
		}
	}
	return nil, types.NewErrorWithMsg(
		http.StatusNotFound, types.NotFound, fmt.Sprintf("identity %d not found", uid),
	)
}

// Volumes returns the current generation with every identity's rolling
// daily volume window, ordered by uid.
func (s *Service) Volumes() (*volume.Generation, []volume.IdentityHistory) {
	gen := s.cache.Current()
	uids := gen.UIDs()
	histories := make([]volume.IdentityHistory, 0, len(uids))
	for _, uid := range uids {
		histories = append(histories, volume.IdentityHistory{
			UID:          uid,
			DailyVolumes: gen.History(uid),
		})
	}
	return gen, histories
}

// VolumeHistory returns one identity's rolling daily volume window.
func (s *Service) VolumeHistory(uid uint64) (volume.History, error) {
	gen := s.cache.Current()
	if _, ok := gen.Histories[uid]; !ok {
		return volume.History{}, types.NewErrorWithMsg(
			http.StatusNotFound, types.NotFound, fmt.Sprintf("identity %d not found", uid),
		)
	}
	return gen.History(uid), nil
}

// Leaderboard returns the top limit identities by rank.
func (s *Service) Leaderboard(limit int) []reward.ScoreRecord {
	_, records := s.CurrentScores()
	ranked := make([]reward.ScoreRecord, len(records))
	copy(ranked, records)
	sortByRank(ranked)
	if limit > 0 && limit < len(ranked) {
		ranked = ranked[:limit]
	}
	return ranked
}

func (s *Service) LatestSnapshot(ctx context.Context) (*model.SnapshotDocument, error) {
	snapshot, err := s.db.LatestSnapshot(ctx)
	if err != nil {
		return nil, mapDbError(err, "no snapshots recorded yet")
	}
	return snapshot, nil
}

func (s *Service) SnapshotByBlock(ctx context.Context, block uint64) (*model.SnapshotDocument, error) {
	snapshot, err := s.db.GetSnapshotByBlock(ctx, block)
	if err != nil {
		return nil, mapDbError(err, fmt.Sprintf("no snapshot at block %d", block))
	}
	return snapshot, nil
}

func (s *Service) ListSnapshots(ctx context.Context, limit int64) ([]model.SnapshotSummary, error) {
	summaries, err := s.db.ListSnapshots(ctx, limit)
	if err != nil {
		return nil, types.NewInternalServiceError(err)
	}
	return summaries, nil
}

func (s *Service) WalletMappings(ctx context.Context) ([]model.WalletMappingDocument, error) {
	mappings, err := s.db.GetAllWalletMappings(ctx)
	if err != nil {
		return nil, types.NewInternalServiceError(err)
	}
	return mappings, nil
}

func (s *Service) WalletMappingByUID(ctx context.Context, uid uint64) (*model.WalletMappingDocument, error) {
	mapping, err := s.db.GetWalletMappingByUID(ctx, uid)
	if err != nil {
		return nil, mapDbError(err, fmt.Sprintf("no wallet mapping for uid %d", uid))
	}
	return mapping, nil
}

// Identities returns the persisted per-identity state, score-descending.
// Unlike the in-memory score vector this survives restarts, so it has data
// before the first ingestion tick completes.
func (s *Service) Identities(ctx context.Context) ([]model.IdentityDocument, error) {
	docs, err := s.db.GetAllIdentities(ctx)
	if err != nil {
		return nil, types.NewInternalServiceError(err)
	}
	return docs, nil
}

func (s *Service) Identity(ctx context.Context, uid uint64) (*model.IdentityDocument, error) {
	doc, err := s.db.GetIdentity(ctx, uid)
	if err != nil {
		return nil, mapDbError(err, fmt.Sprintf("identity %d not found", uid))
	}
	return doc, nil
}

func sortByRank(records []reward.ScoreRecord) {
	sort.Slice(records, func(i, j int) bool { return records[i].Rank < records[j].Rank })
}

func mapDbError(err error, notFoundMsg string) error {
	if db.IsNotFoundError(err) {
		return types.NewErrorWithMsg(http.StatusNotFound, types.NotFound, notFoundMsg)
	}
	return types.NewInternalServiceError(err)
}
