package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/tao-colosseum/colosseum-validator/internal/api"
	"github.com/tao-colosseum/colosseum-validator/internal/clients/contractclient"
	"github.com/tao-colosseum/colosseum-validator/internal/clients/ledgerclient"
	"github.com/tao-colosseum/colosseum-validator/internal/config"
	"github.com/tao-colosseum/colosseum-validator/internal/db"
	dbmodel "github.com/tao-colosseum/colosseum-validator/internal/db/model"
	"github.com/tao-colosseum/colosseum-validator/internal/observability/metrics"
	"github.com/tao-colosseum/colosseum-validator/internal/observability/tracing"
	"github.com/tao-colosseum/colosseum-validator/internal/queue"
	"github.com/tao-colosseum/colosseum-validator/internal/services"
)

const shutdownTimeout = 10 * time.Second

func StartServerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start-server",
		Short: "Starts the Colosseum validator",
		Args:  cobra.ExactArgs(0),
		RunE:  startServer,
	}

	return cmd
}

func startServer(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx = tracing.InjectTraceID(ctx)
	log := log.Ctx(ctx)

	// load config
	cfgPath := GetConfigPath()
	cfg, err := config.New(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg(fmt.Sprintf("error while loading config file: %s", cfgPath))
	}

	err = dbmodel.Setup(ctx, &cfg.Db)
	if err != nil {
		log.Fatal().Err(err).Msg("error while setting up validator db model")
	}

	// create new db client
	var dbClient db.DbInterface
	dbClient, err = db.New(ctx, cfg.Db)
	if err != nil {
		log.Fatal().Err(err).Msg("error while creating db client")
	}
	dbClient = db.NewDbWithMetrics(dbClient)

	var contractClient contractclient.ContractInterface
	contractClient, err = contractclient.NewContractClient(ctx, &cfg.Chain)
	if err != nil {
		log.Fatal().Err(err).Msg("error while creating betting contract client")
	}
	contractClient = contractclient.NewContractClientWithMetrics(contractClient)

	var ledgerClient ledgerclient.LedgerInterface = ledgerclient.NewClient(&cfg.Ledger)
	ledgerClient = ledgerclient.NewLedgerClientWithMetrics(ledgerClient)

	var qm *queue.QueueManager
	if cfg.Queue != nil {
		qm, err = queue.NewQueueManager(cfg.Queue)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize queue manager")
		}
		defer qm.Shutdown()
	}

	service := services.NewService(cfg, dbClient, contractClient, ledgerClient, qm)

	// initialize metrics with the metrics port from config
	metricsPort := cfg.Metrics.GetMetricsPort()
	metrics.Init(metricsPort)

	if err := service.StartValidatorSync(ctx); err != nil {
		log.Fatal().Err(err).Msg("error while starting the validator")
	}

	apiServer := api.New(&cfg.Api, service)
	apiErr := make(chan error, 1)
	go func() {
		apiErr <- apiServer.Start()
	}()

	select {
	case err := <-apiErr:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return apiServer.Shutdown(shutdownCtx)
}
