package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/tao-colosseum/colosseum-validator/internal/observability/metrics"
	"github.com/tao-colosseum/colosseum-validator/internal/reward"
	"github.com/tao-colosseum/colosseum-validator/internal/types"
	"github.com/tao-colosseum/colosseum-validator/internal/verifier"
	"github.com/tao-colosseum/colosseum-validator/internal/volume"
)

type errorResponse struct {
	ErrorCode string `json:"error_code"`
	Message   string `json:"message"`
}

type scoresResponse struct {
	Generation  uint64               `json:"generation"`
	Epoch       uint64               `json:"epoch"`
	RefreshedAt time.Time            `json:"refreshed_at"`
	Scores      []reward.ScoreRecord `json:"scores"`
}

type volumeResponse struct {
	UID          uint64         `json:"uid"`
	DailyVolumes volume.History `json:"daily_volumes"`
}

type volumesResponse struct {
	Generation  uint64                   `json:"generation"`
	Epoch       uint64                   `json:"epoch"`
	RefreshedAt time.Time                `json:"refreshed_at"`
	Volumes     []volume.IdentityHistory `json:"volumes"`
}

type serviceInfoResponse struct {
	Service string `json:"service"`
	Version string `json:"version"`
}

func (s *Server) handleServiceInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, serviceInfoResponse{
		Service: serviceName,
		Version: serviceVersion,
	})
}

func (s *Server) handleHealthcheck(w http.ResponseWriter, r *http.Request) {
	health := s.service.Health(r.Context())
	status := http.StatusOK
	if health.Status == types.StatusDegraded {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, health)
}

func (s *Server) handleScores(w http.ResponseWriter, r *http.Request) {
	gen, records := s.service.CurrentScores()
	writeJSON(w, http.StatusOK, scoresResponse{
		Generation:  gen.Number,
		Epoch:       gen.Epoch,
		RefreshedAt: gen.RefreshedAt,
		Scores:      records,
	})
}

func (s *Server) handleScoreByUID(w http.ResponseWriter, r *http.Request) {
	uid, err := parseUID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	record, err := s.service.ScoreForUID(uid)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (s *Server) handleVolumes(w http.ResponseWriter, r *http.Request) {
	gen, histories := s.service.Volumes()
	writeJSON(w, http.StatusOK, volumesResponse{
		Generation:  gen.Number,
		Epoch:       gen.Epoch,
		RefreshedAt: gen.RefreshedAt,
		Volumes:     histories,
	})
}

func (s *Server) handleVolumeByUID(w http.ResponseWriter, r *http.Request) {
	uid, err := parseUID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	history, err := s.service.VolumeHistory(uid)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, volumeResponse{UID: uid, DailyVolumes: history})
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit, err := s.parseLimit(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.service.Leaderboard(limit))
}

func (s *Server) handleListSnapshots(w http.ResponseWriter, r *http.Request) {
	limit, err := s.parseLimit(r)
	if err != nil {
		writeError(w, err)
		return
	}
	summaries, err := s.service.ListSnapshots(r.Context(), int64(limit))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (s *Server) handleLatestSnapshot(w http.ResponseWriter, r *http.Request) {
	snapshot, err := s.service.LatestSnapshot(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

func (s *Server) handleSnapshotByBlock(w http.ResponseWriter, r *http.Request) {
	block, err := strconv.ParseUint(chi.URLParam(r, "block"), 10, 64)
	if err != nil {
		writeError(w, types.NewErrorWithMsg(
			http.StatusBadRequest, types.BadRequest, "block must be a non-negative integer",
		))
		return
	}
	snapshot, err := s.service.SnapshotByBlock(r.Context(), block)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

func (s *Server) handleListIdentities(w http.ResponseWriter, r *http.Request) {
	docs, err := s.service.Identities(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, docs)
}

func (s *Server) handleIdentityByUID(w http.ResponseWriter, r *http.Request) {
	uid, err := parseUID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	doc, err := s.service.Identity(r.Context(), uid)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleListWalletMappings(w http.ResponseWriter, r *http.Request) {
	mappings, err := s.service.WalletMappings(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mappings)
}

func (s *Server) handleWalletMappingByUID(w http.ResponseWriter, r *http.Request) {
	uid, err := parseUID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	mapping, err := s.service.WalletMappingByUID(r.Context(), uid)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapping)
}

func (s *Server) handleRegisterWalletMapping(w http.ResponseWriter, r *http.Request) {
	var req verifier.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, types.NewErrorWithMsg(
			http.StatusBadRequest, types.BadRequest, "invalid request body",
		))
		return
	}
	mapping, err := s.service.RegisterWalletMapping(r.Context(), &req)
	if err != nil {
		metrics.RecordWalletMappingOutcome(strings.ToLower(types.ErrorCodeOf(err).String()))
		writeError(w, err)
		return
	}
	metrics.RecordWalletMappingOutcome("accepted")
	writeJSON(w, http.StatusCreated, mapping)
}

func parseUID(r *http.Request) (uint64, error) {
	uid, err := strconv.ParseUint(chi.URLParam(r, "uid"), 10, 64)
	if err != nil {
		return 0, types.NewErrorWithMsg(
			http.StatusBadRequest, types.BadRequest, "uid must be a non-negative integer",
		)
	}
	return uid, nil
}

// parseLimit reads the optional limit query parameter and clamps it to the
// configured maximum, which is also the default.
func (s *Server) parseLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return s.cfg.MaxLeaderboardLimit, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return 0, types.NewErrorWithMsg(
			http.StatusBadRequest, types.BadRequest, "limit must be a positive integer",
		)
	}
	if limit > s.cfg.MaxLeaderboardLimit {
		limit = s.cfg.MaxLeaderboardLimit
	}
	return limit, nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, err error) {
	statusCode := http.StatusInternalServerError
	var typed *types.Error
	if errors.As(err, &typed) && typed.StatusCode != 0 {
		statusCode = typed.StatusCode
	}
	if statusCode >= http.StatusInternalServerError {
		log.Error().Err(err).Msg("Request failed")
	}
	writeJSON(w, statusCode, errorResponse{
		ErrorCode: types.ErrorCodeOf(err).String(),
		Message:   err.Error(),
	})
}
