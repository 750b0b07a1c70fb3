package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/tao-colosseum/colosseum-validator/internal/config"
	"github.com/tao-colosseum/colosseum-validator/internal/services"
)

const (
	serviceName    = "colosseum-validator"
	serviceVersion = "0.1.0"
)

// Server is the validator's HTTP surface: read-only views over the score
// state and snapshot history, plus the single wallet-mapping write path.
type Server struct {
	httpServer *http.Server
	service    *services.Service
	cfg        *config.ApiConfig
}

func New(cfg *config.ApiConfig, service *services.Service) *Server {
	srv := &Server{
		service: service,
		cfg:     cfg,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/", srv.handleServiceInfo)
	r.Get("/healthcheck", srv.handleHealthcheck)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/scores", srv.handleScores)
		r.Get("/scores/{uid}", srv.handleScoreByUID)
		r.Get("/volumes", srv.handleVolumes)
		r.Get("/volumes/{uid}", srv.handleVolumeByUID)
		r.Get("/leaderboard", srv.handleLeaderboard)

		r.Get("/snapshots", srv.handleListSnapshots)
		r.Get("/snapshots/latest", srv.handleLatestSnapshot)
		r.Get("/snapshots/{block}", srv.handleSnapshotByBlock)

		r.Get("/identities", srv.handleListIdentities)
		r.Get("/identities/{uid}", srv.handleIdentityByUID)

		r.Get("/wallet-mappings", srv.handleListWalletMappings)
		r.Get("/wallet-mappings/{uid}", srv.handleWalletMappingByUID)
		r.Post("/wallet-mappings", srv.handleRegisterWalletMapping)
	})

	srv.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      r,
		WriteTimeout: cfg.WriteTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return srv
}

// Start blocks serving requests until Shutdown or a listener error.
func (s *Server) Start() error {
	log.Info().Msgf("Starting API server on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("API server failed: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
