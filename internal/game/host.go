package game

import (
	"context"
	"sync"
	"time"

	"github.com/Garsondee/Bird-Sense/internal/logging"
	"github.com/Garsondee/Bird-Sense/internal/sim"
)

// Environment is read by the host at the start of every frame.
type Environment interface {
	Stage() sim.Stage
	Resolved() bool
}

// Sink receives one call per bird fate.
type Sink interface {
	OnDeath()
	OnSaved()
}

// Sinks fans each call out to every member in order.
type Sinks []Sink

func (s Sinks) OnDeath() {
	for _, k := range s {
		k.OnDeath()
	}
}

func (s Sinks) OnSaved() {
	for _, k := range s {
		k.OnSaved()
	}
}

// StepObserver sees the full result of every step the host runs.
type StepObserver interface {
	ObserveStep(stage sim.Stage, res sim.StepResult, live int, took time.Duration)
}

// HostOption configures a Host.
type HostOption func(*Host)

// WithObserver adds a step observer. Nil observers are ignored.
func WithObserver(o StepObserver) HostOption {
	return func(h *Host) {
		if o != nil {
			h.observers = append(h.observers, o)
		}
	}
}

// WithLogger sets the host logger.
func WithLogger(l logging.Logger) HostOption {
	return func(h *Host) {
		if l != nil {
			h.log = l
		}
	}
}

// Host drives a Simulator once per frame and routes fate events to a sink.
// Sinks and observers run on the ticking goroutine with the host lock held,
// so they must not call back into the Host.
type Host struct {
	mu sync.Mutex

	sim       *sim.Simulator
	env       Environment
	sink      Sink
	observers []StepObserver
	log       logging.Logger

	active     bool
	stopped    bool
	stage      sim.Stage
	generation int
	frames     int
}

// NewHost wires a simulator to its environment and sink. The host is idle
// until Start is called.
func NewHost(s *sim.Simulator, env Environment, sink Sink, opts ...HostOption) *Host {
	if sink == nil {
		sink = Sinks(nil)
	}
	h := &Host{
		sim:  s,
		env:  env,
		sink: sink,
		log:  logging.Noop(),
	}
	for _, o := range opts {
		o(h)
	}
	return h
}

// Start (re)starts the loop for the environment's current stage. It is a
// no-op after Stop and leaves the host idle when the stage is not simulated.
func (h *Host) Start() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stopped {
		return
	}
	h.stage = h.env.Stage()
	h.generation++
	h.active = h.stage.Simulated()
	h.log.Debug(context.Background(), "host started",
		logging.Stringer("stage", h.stage),
		logging.Int("generation", h.generation),
		logging.Bool("active", h.active))
}

// Stop tears the loop down. Every later Frame is a no-op and no sink call
// happens after Stop returns.
func (h *Host) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.stopped = true
	h.active = false
}

// Frame runs one tick. It reports whether a simulator step happened.
func (h *Host) Frame() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stopped || !h.active {
		return false
	}

	stage := h.env.Stage()
	if stage != h.stage {
		h.stage = stage
		h.generation++
		h.log.Info(context.Background(), "stage changed",
			logging.Stringer("stage", stage),
			logging.Int("generation", h.generation))
		if !stage.Simulated() {
			h.active = false
			return false
		}
	}
	resolved := h.env.Resolved()

	began := time.Now()
	res := h.sim.Step(stage, resolved)
	took := time.Since(began)
	h.frames++

	for _, ev := range res.Events {
		switch ev.Kind {
		case sim.EventDeath:
			h.sink.OnDeath()
		case sim.EventSaved:
			h.sink.OnSaved()
		}
	}
	live := h.sim.Len()
	for _, o := range h.observers {
		o.ObserveStep(stage, res, live, took)
	}
	return true
}

// Run ticks the host on every clock fire until ctx is done. Frames run on
// the calling goroutine, so no sink call happens after Run returns.
func (h *Host) Run(ctx context.Context, clock Clock) error {
	defer clock.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-clock.C():
			h.Frame()
		}
	}
}

// Active reports whether the next Frame would step the simulator, ignoring
// stage changes it has not observed yet.
func (h *Host) Active() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.active && !h.stopped
}

// Generation counts loop restarts. It increases on Start and on every stage
// change the host observes.
func (h *Host) Generation() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.generation
}

// Frames returns the number of simulator steps run so far.
func (h *Host) Frames() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.frames
}

// Rule returns the rule the simulator applies on stage.
func (h *Host) Rule(stage sim.Stage) sim.StageRule {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.sim.Rules().For(stage)
}

// Birds returns a snapshot of the live set for rendering.
func (h *Host) Birds() []sim.Bird {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.sim.Birds()
}
