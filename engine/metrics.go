package engine

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics are the engine's Prometheus collectors
// Updated on the simulation goroutine only
type Metrics struct {
	ActiveBodies       prometheus.Gauge
	Voxels             prometheus.Gauge
	Score              prometheus.Gauge
	Explosions         *prometheus.CounterVec
	VoxelsScored       prometheus.Counter
	ActivationsRefused prometheus.Counter
	BuildsRejected     prometheus.Counter
	LevelsWon          prometheus.Counter
	BufferWrites       prometheus.Counter
	EventsDropped      prometheus.Counter
	TickSeconds        prometheus.Histogram
}

// NewMetrics creates the collectors and registers them on reg
// A nil reg leaves them unregistered but usable
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	m := &Metrics{
		ActiveBodies: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_bodies",
			Help:      "Voxels currently holding a physics body.",
		}),
		Voxels: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "voxels",
			Help:      "Voxel slots in the current level, including removed ones.",
		}),
		Score: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "score",
			Help:      "Running score of the current level.",
		}),
		Explosions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "explosions_total",
			Help:      "Detonations by origin.",
		}, []string{"origin"}),
		VoxelsScored: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "voxels_scored_total",
			Help:      "Voxels that awarded points.",
		}),
		ActivationsRefused: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "activations_refused_total",
			Help:      "Activations refused by the active body cap.",
		}),
		BuildsRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "builds_rejected_total",
			Help:      "Build requests refused for render capacity.",
		}),
		LevelsWon: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "levels_won_total",
			Help:      "Levels completed.",
		}),
		BufferWrites: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "instance_writes_total",
			Help:      "Instance buffer slot writes issued by render sync.",
		}),
		EventsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_dropped_total",
			Help:      "Notifications discarded because a frame overflowed the event queue.",
		}),
		TickSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tick_seconds",
			Help:      "Wall time spent in one engine tick.",
			Buckets:   []float64{.0005, .001, .002, .004, .008, .016, .033, .066},
		}),
	}

	if reg != nil {
		reg.MustRegister(
			m.ActiveBodies, m.Voxels, m.Score, m.Explosions, m.VoxelsScored,
			m.ActivationsRefused, m.BuildsRejected, m.LevelsWon, m.BufferWrites, m.EventsDropped,
			m.TickSeconds,
		)
	}
	return m
}
