package worker

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/adjust/rmq/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/travigo/netex-validator/pkg/metrics"
)

// HealthCheck reports whether one backing service is reachable
type HealthCheck func(ctx context.Context) error

func NewStatsMux(connection rmq.Connection, m *metrics.Metrics, checks ...HealthCheck) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/queues/stats", NewStatsHandler(connection, m))
	mux.Handle("/health", NewHealthHandler(checks...))
	mux.Handle("/metrics", promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}))

	return mux
}

func StartStatsServer(address string, handler http.Handler) *http.Server {
	server := &http.Server{
		Addr:              address,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Msgf("Stats server listening on http://localhost%s/queues/stats", address)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("Stats server failed")
		}
	}()

	return server
}

type StatsServerHandler struct {
	redisConnection rmq.Connection
	metrics         *metrics.Metrics
}

func NewStatsHandler(connection rmq.Connection, m *metrics.Metrics) *StatsServerHandler {
	return &StatsServerHandler{redisConnection: connection, metrics: m}
}

func (handler *StatsServerHandler) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	layout := request.FormValue("layout")
	refresh := request.FormValue("refresh")

	stats, err := CollectStats(handler.redisConnection, handler.metrics)
	if err != nil {
		writer.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(writer, err)
		return
	}

	fmt.Fprint(writer, stats.GetHtml(layout, refresh))
}

// CollectStats reads the queue statistics and updates the ready count gauge
func CollectStats(connection rmq.Connection, m *metrics.Metrics) (rmq.Stats, error) {
	queues, err := connection.GetOpenQueues()
	if err != nil {
		return rmq.Stats{}, err
	}

	stats, err := connection.CollectStats(queues)
	if err != nil {
		return rmq.Stats{}, err
	}

	if m != nil {
		for queue, queueStats := range stats.QueueStats {
			m.QueueReadyCount.WithLabelValues(queue).Set(float64(queueStats.ReadyCount))
		}
	}

	return stats, nil
}

type HealthHandler struct {
	checks []HealthCheck
}

func NewHealthHandler(checks ...HealthCheck) *HealthHandler {
	return &HealthHandler{checks: checks}
}

func (handler *HealthHandler) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	for _, check := range handler.checks {
		if err := check(request.Context()); err != nil {
			writer.WriteHeader(http.StatusInternalServerError)
			fmt.Fprint(writer, err)

			return
		}
	}

	writer.WriteHeader(http.StatusOK)
	fmt.Fprint(writer, "OK")
}
