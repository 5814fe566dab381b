// Package observability exposes Prometheus metrics for the bird simulation.
package observability

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Garsondee/Bird-Sense/internal/sim"
)

// SimCollector bundles the simulation counters and the live-bird gauge.
type SimCollector struct {
	gatherer prometheus.Gatherer

	Ticks         *prometheus.CounterVec
	Spawned       *prometheus.CounterVec
	Deaths        *prometheus.CounterVec
	Saved         *prometheus.CounterVec
	Dropped       *prometheus.CounterVec
	LiveBirds     prometheus.Gauge
	StepDurations prometheus.Histogram
}

// NewSimCollector registers the simulation metrics against reg, defaulting to
// the global registry when nil. Registering twice returns the existing
// collectors.
func NewSimCollector(reg prometheus.Registerer) (*SimCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	c := &SimCollector{gatherer: gatherer}
	var err error

	counters := []struct {
		dst  **prometheus.CounterVec
		name string
		help string
	}{
		{&c.Ticks, "bird_sim_ticks_total", "Simulation ticks, labeled by stage."},
		{&c.Spawned, "bird_sim_spawned_total", "Birds spawned, labeled by stage."},
		{&c.Deaths, "bird_sim_deaths_total", "Birds that entered the dying state, labeled by stage."},
		{&c.Saved, "bird_sim_saved_total", "Birds that left the playfield unharmed, labeled by stage."},
		{&c.Dropped, "bird_sim_dropped_total", "Birds evicted by the live-set cap, labeled by stage."},
	}
	for _, cv := range counters {
		vec := prometheus.NewCounterVec(prometheus.CounterOpts{Name: cv.name, Help: cv.help}, []string{"stage"})
		if *cv.dst, err = registerCounterVec(reg, vec, cv.name); err != nil {
			return nil, err
		}
	}

	c.LiveBirds, err = registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "bird_sim_live_birds",
		Help: "Birds currently in the live set.",
	}), "bird_sim_live_birds")
	if err != nil {
		return nil, err
	}

	c.StepDurations, err = registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "bird_sim_step_duration_seconds",
		Help:    "Wall time spent in one simulator step.",
		Buckets: []float64{1e-6, 5e-6, 1e-5, 5e-5, 1e-4, 5e-4, 1e-3, 5e-3},
	}), "bird_sim_step_duration_seconds")
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ObserveStep records one simulator step.
func (c *SimCollector) ObserveStep(stage sim.Stage, res sim.StepResult, live int, took time.Duration) {
	if c == nil {
		return
	}
	label := stage.String()
	c.Ticks.WithLabelValues(label).Inc()
	c.Spawned.WithLabelValues(label).Add(float64(res.Spawned))
	c.Deaths.WithLabelValues(label).Add(float64(res.Deaths))
	c.Saved.WithLabelValues(label).Add(float64(res.Saved))
	c.Dropped.WithLabelValues(label).Add(float64(res.Dropped))
	c.LiveBirds.Set(float64(live))
	c.StepDurations.Observe(took.Seconds())
}

// Handler exposes a ready-to-use /metrics handler.
func (c *SimCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogram(reg prometheus.Registerer, h prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(h); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return h, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
