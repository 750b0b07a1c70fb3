package metrics

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

type Outcome string

const (
	Success                  Outcome       = "success"
	Error                    Outcome       = "error"
	MetricRequestTimeout     time.Duration = 5 * time.Second
	MetricRequestIdleTimeout time.Duration = 10 * time.Second
)

func (O Outcome) String() string {
	return string(O)
}

var (
	once                        sync.Once
	metricsRouter               *chi.Mux
	contractClientLatency       *prometheus.HistogramVec
	ledgerClientLatency         *prometheus.HistogramVec
	pollerDurationHistogram     *prometheus.HistogramVec
	ledgerSubmissionCounter     *prometheus.CounterVec
	snapshotAppendErrorCounter  prometheus.Counter
	queueSendErrorCounter       prometheus.Counter
	ledgerBlockHeightGauge      prometheus.Gauge
	activeIdentitiesGauge       prometheus.Gauge
	totalWeightedVolumeGauge    prometheus.Gauge
	walletMappingOutcomeCounter *prometheus.CounterVec
	dbLatency                   *prometheus.HistogramVec
)

// Init initializes the metrics package.
func Init(metricsPort int) {
	once.Do(func() {
		initMetricsRouter(metricsPort)
		registerMetrics()
	})
}

// initMetricsRouter initializes the metrics router.
func initMetricsRouter(metricsPort int) {
	metricsRouter = chi.NewRouter()
	metricsRouter.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})
	// Create a custom server with timeout settings
	metricsAddr := fmt.Sprintf(":%d", metricsPort)
	server := &http.Server{
		Addr:         metricsAddr,
		Handler:      metricsRouter,
		ReadTimeout:  MetricRequestTimeout,
		WriteTimeout: MetricRequestTimeout,
		IdleTimeout:  MetricRequestIdleTimeout,
	}

	// Start the server in a separate goroutine
	go func() {
		log.Printf("Starting metrics server on %s", metricsAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msgf("Error starting metrics server on %s", metricsAddr)
		}
	}()
}

// registerMetrics initializes and register the Prometheus metrics.
func registerMetrics() {
	defaultHistogramBucketsSeconds := []float64{0.1, 0.5, 1, 2.5, 5, 10, 30}

	contractClientLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "contract_client_latency_seconds",
			Help:    "Histogram of betting contract client durations in seconds.",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"method", "status"},
	)

	ledgerClientLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ledger_client_latency_seconds",
			Help:    "Histogram of ledger client durations in seconds.",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"method", "status"},
	)

	pollerDurationHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "poller_duration_seconds",
			Help:    "Histogram of poller durations in seconds.",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"type", "status"},
	)

	ledgerSubmissionCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_submission_count",
			Help: "Weight submissions to the ledger by outcome (success, error, rate_limited).",
		},
		[]string{"outcome"},
	)

	// snapshot append failures risk silent data loss, so they get their own counter
	snapshotAppendErrorCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "snapshot_append_error_count",
			Help: "The total number of failed snapshot appends after an acknowledged publication",
		},
	)

	queueSendErrorCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "queue_send_error_count",
			Help: "The total number of errors when sending messages to the queue",
		},
	)

	ledgerBlockHeightGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "ledger_block_height",
			Help: "Last ledger block height retrieved",
		},
	)

	activeIdentitiesGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "active_identities_count",
			Help: "Number of identities with non-zero weighted volume in the current cache generation",
		},
	)

	totalWeightedVolumeGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "total_weighted_volume",
			Help: "Sum of decay-weighted volume over all identities in the current cache generation",
		},
	)

	walletMappingOutcomeCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wallet_mapping_registration_count",
			Help: "Wallet mapping registration attempts by outcome code.",
		},
		[]string{"outcome"},
	)

	dbLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "db_latency_seconds",
			Help: "DB latency in seconds splitted by method and execution status",
		},
		[]string{"method", "status"},
	)

	prometheus.MustRegister(
		contractClientLatency,
		ledgerClientLatency,
		pollerDurationHistogram,
		ledgerSubmissionCounter,
		snapshotAppendErrorCounter,
		queueSendErrorCounter,
		ledgerBlockHeightGauge,
		activeIdentitiesGauge,
		totalWeightedVolumeGauge,
		walletMappingOutcomeCounter,
		dbLatency,
	)
}

func RecordContractClientLatency(d time.Duration, method string, failure bool) {
	status := Success
	if failure {
		status = Error
	}

	contractClientLatency.WithLabelValues(method, status.String()).Observe(d.Seconds())
}

func RecordLedgerClientLatency(d time.Duration, method string, failure bool) {
	status := Success
	if failure {
		status = Error
	}

	ledgerClientLatency.WithLabelValues(method, status.String()).Observe(d.Seconds())
}

func RecordDbLatency(d time.Duration, method string, failure bool) {
	status := Success
	if failure {
		status = Error
	}

	dbLatency.WithLabelValues(method, status.String()).Observe(d.Seconds())
}

func RecordLedgerSubmission(outcome string) {
	ledgerSubmissionCounter.WithLabelValues(outcome).Inc()
}

func IncSnapshotAppendFailures() {
	snapshotAppendErrorCounter.Inc()
}

func IncQueueSendFailures() {
	queueSendErrorCounter.Inc()
}

func RecordLedgerBlockHeight(height uint64) {
	ledgerBlockHeightGauge.Set(float64(height))
}

func RecordCacheGenerationStats(activeIdentities int, totalWeightedVolume float64) {
	activeIdentitiesGauge.Set(float64(activeIdentities))
	totalWeightedVolumeGauge.Set(totalWeightedVolume)
}

func RecordWalletMappingOutcome(outcome string) {
	walletMappingOutcomeCounter.WithLabelValues(outcome).Inc()
}
