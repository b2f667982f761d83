// Package metric exposes the poll loop and command counters to Prometheus
package metric

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/raykavin/pricewatch/pkg/logger"
)

// Cycle results
const (
	ResultOK             = "ok"
	ResultAskAbsent      = "ask_absent"
	ResultSourceError    = "source_unavailable"
	ResultStructureError = "structure_missing"
	ResultDataNotFound   = "data_not_found"
	ResultStoreError     = "store_error"
	ResultPanic          = "panic"
)

var (
	PollCyclesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricewatch_poll_cycles_total",
			Help: "Total number of poll cycles by result",
		},
		[]string{"result"},
	)

	PollDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pricewatch_poll_duration_seconds",
			Help:    "Time taken to fetch and evaluate one reading",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	AlertsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pricewatch_alerts_total",
			Help: "Total number of target hits reported to the operator",
		},
	)

	TargetsGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pricewatch_targets",
			Help: "Current number of armed targets",
		},
	)

	LastAskGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pricewatch_last_ask_price",
			Help: "Most recent successfully parsed ask price",
		},
	)

	CommandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricewatch_commands_total",
			Help: "Total number of operator commands by kind",
		},
		[]string{"kind"},
	)

	NotificationFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricewatch_notification_failures_total",
			Help: "Total number of notifications that could not be delivered",
		},
		[]string{"channel"},
	)
)

// Handler routes /metrics to the default Prometheus registry
func Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

// Serve exposes Handler on addr until ctx is done
func Serve(ctx context.Context, addr string, log logger.Logger) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	log.WithField("addr", addr).Info("metrics exporter listening")

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
