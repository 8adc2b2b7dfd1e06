// Package prometheus exposes pipeline counters as Prometheus metrics.
// Every metric is a func-backed collector reading the live pipeline state,
// so nothing needs updating on the hot path.
package prometheus

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ladderwatch"

// RequestSource reports dispatcher activity.
type RequestSource interface {
	Total() int64
	Pending() int
	Busy() bool
}

// Sizer reports the size of a container.
type Sizer interface {
	Len() int
}

// ThrottleSource reports time spent held back by the per-host ceiling.
type ThrottleSource interface {
	Throttled() time.Duration
}

// LayerSource reports how far the skip-set Bloom filter has grown.
type LayerSource interface {
	FilterLayers() int
}

// Sources groups what Register reads. Nil fields are skipped.
type Sources struct {
	Requests   RequestSource
	Throttle   ThrottleSource
	Queue      Sizer
	Seen       Sizer
	Skip       Sizer
	SkipFilter LayerSource
	Started    time.Time
}

// Register adds the pipeline collectors to reg.
func Register(reg prometheus.Registerer, src Sources) error {
	var collectors []prometheus.Collector

	if src.Requests != nil {
		r := src.Requests
		collectors = append(collectors,
			prometheus.NewCounterFunc(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "upstream_requests_total",
				Help:      "Upstream API requests issued by the dispatcher.",
			}, func() float64 { return float64(r.Total()) }),
			prometheus.NewGaugeFunc(prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "upstream_requests_pending",
				Help:      "Upstream requests waiting for a dispatch slot.",
			}, func() float64 { return float64(r.Pending()) }),
			prometheus.NewGaugeFunc(prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "upstream_busy",
				Help:      "1 while an upstream request is in flight.",
			}, func() float64 {
				if r.Busy() {
					return 1
				}
				return 0
			}),
		)
	}
	if src.Throttle != nil {
		th := src.Throttle
		collectors = append(collectors, prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "host_throttle_seconds_total",
			Help:      "Time upstream requests were held by the per-host ceiling.",
		}, func() float64 { return th.Throttled().Seconds() }))
	}
	if src.Queue != nil {
		collectors = append(collectors, sizeGauge("work_queue_depth", "Characters waiting to be fetched.", src.Queue))
	}
	if src.Seen != nil {
		collectors = append(collectors, sizeGauge("seen_accounts", "Accounts enumerated at least once.", src.Seen))
	}
	if src.Skip != nil {
		collectors = append(collectors, sizeGauge("skipped_characters", "Characters confirmed non-ladder.", src.Skip))
	}
	if src.SkipFilter != nil {
		sf := src.SkipFilter
		collectors = append(collectors, prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "skip_filter_layers",
			Help:      "Layers allocated by the skip-set Bloom filter.",
		}, func() float64 { return float64(sf.FilterLayers()) }))
	}
	if !src.Started.IsZero() {
		started := src.Started
		collectors = append(collectors, prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "start_time_seconds",
			Help:      "Pipeline start time in unix seconds.",
		}, func() float64 { return float64(started.Unix()) }))
	}

	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func sizeGauge(name, help string, s Sizer) prometheus.Collector {
	return prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      name,
		Help:      help,
	}, func() float64 { return float64(s.Len()) })
}

// Handler returns the /metrics handler for g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// Serve exposes g on addr under /metrics until ctx is done.
func Serve(ctx context.Context, addr string, g prometheus.Gatherer, logger *slog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(g))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("metrics server listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
