package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/navstate/internal/rerr"
	"github.com/vango-dev/navstate/pkg/events"
	"github.com/vango-dev/navstate/pkg/guard"
	"github.com/vango-dev/navstate/pkg/plugin"
)

// Config configures the metrics plugin.
type Config struct {
	// Namespace is the metrics namespace (default: "navstate").
	Namespace string
	// Subsystem is the metrics subsystem (default: "").
	Subsystem string
	// ConstLabels are constant labels added to every metric.
	ConstLabels prometheus.Labels
	// Buckets are the histogram buckets for transition duration.
	// Default: prometheus.DefBuckets.
	Buckets []float64
	// Registry is the Prometheus registerer to use.
	// Default: prometheus.DefaultRegisterer.
	Registry prometheus.Registerer
}

// Option configures the metrics plugin.
type Option func(*Config)

func WithNamespace(ns string) Option        { return func(c *Config) { c.Namespace = ns } }
func WithSubsystem(sub string) Option       { return func(c *Config) { c.Subsystem = sub } }
func WithConstLabels(l prometheus.Labels) Option { return func(c *Config) { c.ConstLabels = l } }
func WithBuckets(b []float64) Option        { return func(c *Config) { c.Buckets = b } }
func WithRegistry(r prometheus.Registerer) Option { return func(c *Config) { c.Registry = r } }

func defaultConfig() Config {
	return Config{
		Namespace: "navstate",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

type collector struct {
	transitionsTotal   *prometheus.CounterVec
	transitionDuration *prometheus.HistogramVec
	transitionErrors   *prometheus.CounterVec
	activeRoute        *prometheus.GaugeVec
}

func newCollector(cfg Config) *collector {
	factory := promauto.With(cfg.Registry)
	return &collector{
		transitionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "transitions_total",
			Help:        "Total number of route transitions attempted",
			ConstLabels: cfg.ConstLabels,
		}, []string{"from", "to", "status"}),

		transitionDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "transition_duration_seconds",
			Help:        "Route transition duration in seconds",
			ConstLabels: cfg.ConstLabels,
			Buckets:     cfg.Buckets,
		}, []string{"to"}),

		transitionErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "transition_errors_total",
			Help:        "Total number of failed route transitions by kind",
			ConstLabels: cfg.ConstLabels,
		}, []string{"kind"}),

		activeRoute: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "active_route",
			Help:        "1 for the currently active route, 0 otherwise",
			ConstLabels: cfg.ConstLabels,
		}, []string{"name"}),
	}
}

type plugin struct {
	col        *collector
	unsubs     []func()
	starts     map[string]time.Time
	lastActive string
}

// Close unsubscribes the plugin from every bus topic it listened on. It
// does not unregister the Prometheus collectors: those are process-wide
// and typically outlive any one router instance.
func (p *plugin) Close() error {
	for _, unsub := range p.unsubs {
		unsub()
	}
	return nil
}

// Factory builds the metrics plugin's events.Bus-observing instance.
func Factory(opts ...Option) plugin.Factory {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	col := newCollector(cfg)

	return func(bus *events.Bus, deps guard.Deps) (plugin.Instance, error) {
		p := &plugin{col: col, starts: make(map[string]time.Time)}

		unsubStart, err := bus.On(events.TransitionStart, func(payload any) {
			pl, ok := payload.(*events.Payload)
			if !ok {
				return
			}
			p.starts[pl.ToName] = time.Now()
		})
		if err != nil {
			return nil, err
		}
		p.unsubs = append(p.unsubs, unsubStart)

		unsubSuccess, err := bus.On(events.TransitionSuccess, func(payload any) {
			pl, ok := payload.(*events.Payload)
			if !ok {
				return
			}
			col.transitionsTotal.WithLabelValues(pl.FromName, pl.ToName, "success").Inc()
			if start, ok := p.starts[pl.ToName]; ok {
				col.transitionDuration.WithLabelValues(pl.ToName).Observe(time.Since(start).Seconds())
				delete(p.starts, pl.ToName)
			}
			if p.lastActive != "" {
				col.activeRoute.WithLabelValues(p.lastActive).Set(0)
			}
			col.activeRoute.WithLabelValues(pl.ToName).Set(1)
			p.lastActive = pl.ToName
		})
		if err != nil {
			return nil, err
		}
		p.unsubs = append(p.unsubs, unsubSuccess)

		unsubError, err := bus.On(events.TransitionError, func(payload any) {
			pl, ok := payload.(*events.Payload)
			if !ok {
				return
			}
			col.transitionsTotal.WithLabelValues(pl.FromName, pl.ToName, "error").Inc()
			kind := "unknown"
			if k, ok := rerr.KindOf(pl.Err); ok {
				kind = string(k)
			}
			col.transitionErrors.WithLabelValues(kind).Inc()
		})
		if err != nil {
			return nil, err
		}
		p.unsubs = append(p.unsubs, unsubError)

		unsubCancel, err := bus.On(events.TransitionCancel, func(payload any) {
			pl, ok := payload.(*events.Payload)
			if !ok {
				return
			}
			col.transitionsTotal.WithLabelValues(pl.FromName, pl.ToName, "cancelled").Inc()
		})
		if err != nil {
			return nil, err
		}
		p.unsubs = append(p.unsubs, unsubCancel)

		return p, nil
	}
}
