package observability

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Prometheus implements every hook interface on top of a Prometheus registry.
type Prometheus struct {
	LayoutDuration *prometheus.HistogramVec
	RendersTotal   *prometheus.CounterVec
	ArcsDrawn      prometheus.Counter
	NodesDrawn     prometheus.Counter

	SnapshotDuration *prometheus.HistogramVec
	SetKTotal        *prometheus.CounterVec
	CurrentK         prometheus.Gauge

	ProposalsTotal *prometheus.CounterVec
	CommandsTotal  *prometheus.CounterVec

	CacheOps *prometheus.CounterVec

	registry *prometheus.Registry
}

// NewPrometheus creates the metrics on a fresh registry.
func NewPrometheus() *Prometheus {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Prometheus{
		registry: reg,

		LayoutDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "afgraph_layout_duration_seconds",
				Help:    "Node placement latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"layouter", "status"},
		),
		RendersTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "afgraph_renders_total",
				Help: "Total number of graph renders",
			},
			[]string{"status"},
		),
		ArcsDrawn: f.NewCounter(prometheus.CounterOpts{
			Name: "afgraph_arcs_drawn_total",
			Help: "Total number of arcs drawn",
		}),
		NodesDrawn: f.NewCounter(prometheus.CounterOpts{
			Name: "afgraph_nodes_drawn_total",
			Help: "Total number of node glyphs drawn",
		}),

		SnapshotDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "afgraph_engine_snapshot_duration_seconds",
				Help:    "Engine graph and index snapshot latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"kind", "status"},
		),
		SetKTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "afgraph_engine_set_k_total",
				Help: "Total number of k changes applied to the engine",
			},
			[]string{"status"},
		),
		CurrentK: f.NewGauge(prometheus.GaugeOpts{
			Name: "afgraph_engine_k",
			Help: "Last k successfully applied to the engine",
		}),

		ProposalsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "afgraph_k_proposals_total",
				Help: "Total number of k proposals by outcome",
			},
			[]string{"state", "reason"},
		),
		CommandsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "afgraph_commands_total",
				Help: "Total number of dispatched commands",
			},
			[]string{"command", "status"},
		),

		CacheOps: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "afgraph_cache_operations_total",
				Help: "Total number of snapshot cache operations",
			},
			[]string{"key_type", "op"},
		),
	}
}

// Registry returns the underlying Prometheus registry.
func (p *Prometheus) Registry() *prometheus.Registry { return p.registry }

// Handler serves the metrics in the Prometheus exposition format.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

// Install registers p for every hook category.
func (p *Prometheus) Install() {
	SetRenderHooks(p)
	SetEngineHooks(p)
	SetControlHooks(p)
	SetCacheHooks(p)
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (p *Prometheus) OnLayoutStart(context.Context, string, int) {}

func (p *Prometheus) OnLayoutComplete(_ context.Context, layouter string, d time.Duration, err error) {
	p.LayoutDuration.WithLabelValues(layouter, status(err)).Observe(d.Seconds())
}

func (p *Prometheus) OnRenderComplete(_ context.Context, nodes, arcs int, _ time.Duration, err error) {
	p.RendersTotal.WithLabelValues(status(err)).Inc()
	if err == nil {
		p.NodesDrawn.Add(float64(nodes))
		p.ArcsDrawn.Add(float64(arcs))
	}
}

func (p *Prometheus) OnSnapshot(_ context.Context, kind string, _ int, d time.Duration, err error) {
	p.SnapshotDuration.WithLabelValues(kind, status(err)).Observe(d.Seconds())
}

func (p *Prometheus) OnSetK(_ context.Context, k int, _ time.Duration, err error) {
	p.SetKTotal.WithLabelValues(status(err)).Inc()
	if err == nil {
		p.CurrentK.Set(float64(k))
	}
}

func (p *Prometheus) OnProposal(_ context.Context, state, reason string) {
	p.ProposalsTotal.WithLabelValues(state, reason).Inc()
}

func (p *Prometheus) OnCommand(_ context.Context, command string, err error) {
	p.CommandsTotal.WithLabelValues(command, status(err)).Inc()
}

func (p *Prometheus) OnCacheHit(_ context.Context, keyType string) {
	p.CacheOps.WithLabelValues(keyType, "hit").Inc()
}

func (p *Prometheus) OnCacheMiss(_ context.Context, keyType string) {
	p.CacheOps.WithLabelValues(keyType, "miss").Inc()
}

func (p *Prometheus) OnCacheSet(_ context.Context, keyType string, _ int) {
	p.CacheOps.WithLabelValues(keyType, "set").Inc()
}
