// Package metrics provides globe runtime metrics.
// It wraps Prometheus collectors on a private registry so that frame timing,
// asset loading, marker construction, and interaction counts can be scraped.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Collector provides globe metrics collection. A nil *Collector is valid and
// records nothing.
type Collector struct {
	registry *prometheus.Registry

	framesTotal   prometheus.Counter
	frameDuration prometheus.Histogram
	textureLoads  *prometheus.CounterVec
	markerBuilds  *prometheus.CounterVec
	markerClicks  prometheus.Counter
	transitions   *prometheus.CounterVec
}

// NewCollector creates a collector under namespace (default "terra").
func NewCollector(namespace string) *Collector {
	if namespace == "" {
		namespace = "terra"
	}

	c := &Collector{registry: prometheus.NewRegistry()}

	c.framesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "render",
		Name:      "frames_total",
		Help:      "Total number of rendered frames",
	})

	c.frameDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "render",
		Name:      "frame_duration_seconds",
		Help:      "Time spent updating and rendering one frame",
		Buckets:   prometheus.ExponentialBuckets(0.001, 2, 10), // 1ms to ~0.5s
	})

	c.textureLoads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "loader",
			Name:      "textures_total",
			Help:      "Texture load attempts by tier and result",
		},
		[]string{"tier", "result"},
	)

	c.markerBuilds = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "markers",
			Name:      "builds_total",
			Help:      "Marker constructions by result",
		},
		[]string{"result"},
	)

	c.markerClicks = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "markers",
		Name:      "clicks_total",
		Help:      "Marker clicks forwarded to the host",
	})

	c.transitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "zoom",
			Name:      "transitions_total",
			Help:      "Zoom mode transitions by target mode",
		},
		[]string{"to"},
	)

	c.registry.MustRegister(
		c.framesTotal,
		c.frameDuration,
		c.textureLoads,
		c.markerBuilds,
		c.markerClicks,
		c.transitions,
	)
	return c
}

// Registry returns the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

// RecordFrame counts one frame and its duration.
func (c *Collector) RecordFrame(d time.Duration) {
	if c == nil {
		return
	}
	c.framesTotal.Inc()
	c.frameDuration.Observe(d.Seconds())
}

// RecordTextureLoad counts one texture load for tier.
func (c *Collector) RecordTextureLoad(tier string, err error) {
	if c == nil {
		return
	}
	c.textureLoads.WithLabelValues(tier, result(err)).Inc()
}

// RecordMarkerBuild counts one marker construction.
func (c *Collector) RecordMarkerBuild(err error) {
	if c == nil {
		return
	}
	c.markerBuilds.WithLabelValues(result(err)).Inc()
}

// RecordMarkerClick counts one dispatched click.
func (c *Collector) RecordMarkerClick() {
	if c == nil {
		return
	}
	c.markerClicks.Inc()
}

// RecordTransition counts a zoom transition into mode.
func (c *Collector) RecordTransition(mode string) {
	if c == nil {
		return
	}
	c.transitions.WithLabelValues(mode).Inc()
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// Handler exposes the registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is done.
func (c *Collector) Serve(ctx context.Context, addr string, log zerolog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", addr).Msg("metrics listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
