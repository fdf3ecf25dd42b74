package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/oshokin/soundlock/internal/events"
)

const namespace = "soundlock"

// Recorder owns a private registry with the puzzle collectors.
type Recorder struct {
	registry    *prometheus.Registry
	presses     *prometheus.CounterVec
	completions prometheus.Counter
	transitions *prometheus.CounterVec
	cursor      prometheus.Gauge
}

// New creates a recorder with every collector registered.
func New() *Recorder {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Recorder{
		registry: registry,
		presses: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "presses_total",
			Help:      "Grid presses by effect on the sequence",
		}, []string{"outcome"}),
		completions: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "completions_total",
			Help:      "Times the secret sequence was entered",
		}),
		transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "actuator_transitions_total",
			Help:      "Unlock actuator phase changes by target phase",
		}, []string{"to"}),
		cursor: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sequence_cursor",
			Help:      "Current position in the secret sequence",
		}),
	}
}

// Registry exposes the underlying registry as a gatherer.
func (r *Recorder) Registry() prometheus.Gatherer {
	return r.registry
}

// Subscribe feeds the collectors from bus and returns the unsubscribe function.
func (r *Recorder) Subscribe(bus *events.Bus) func() {
	unsubs := []func(){
		bus.Subscribe(func(e events.CellPressed) {
			r.presses.WithLabelValues(e.Outcome.String()).Inc()
			r.cursor.Set(float64(e.Cursor))
		}),
		bus.Subscribe(func(events.SequenceCompleted) {
			r.completions.Inc()
		}),
		bus.Subscribe(func(e events.ActuatorChanged) {
			r.transitions.WithLabelValues(e.To.String()).Inc()
		}),
	}

	return func() {
		for _, unsub := range unsubs {
			unsub()
		}
	}
}

// WriteTextfile atomically replaces path with the current metric values.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}

	return nil
}
