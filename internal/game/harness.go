package game

import (
	"math/rand"

	"github.com/Garsondee/Bird-Sense/internal/logging"
	"github.com/Garsondee/Bird-Sense/internal/sim"
)

// Harness is a headless host used by tests and the headless report. It
// drives the same Host the game uses, without ebiten, from a scripted
// environment.
type Harness struct {
	Sim      *sim.Simulator
	Host     *Host
	RunLog   *RunLog
	Reporter *SimReporter
	Fates    *FateCounter

	env       *ScriptedEnv
	seed      int64
	rules     sim.Rules
	verbose   bool
	observers []StepObserver
	log       logging.Logger
	tick      int
}

// HarnessOption is a builder function applied to a Harness during construction.
type HarnessOption func(*Harness)

// WithSeed sets the RNG seed for deterministic runs.
func WithSeed(seed int64) HarnessOption {
	return func(h *Harness) { h.seed = seed }
}

// WithStage sets the stage the run starts on.
func WithStage(stage sim.Stage) HarnessOption {
	return func(h *Harness) { h.env.stage = stage }
}

// WithResolved starts the run with the hazard resolved.
func WithResolved(resolved bool) HarnessOption {
	return func(h *Harness) { h.env.resolved = resolved }
}

// WithVerbose records spawn and cap entries in the run log.
func WithVerbose(v bool) HarnessOption {
	return func(h *Harness) { h.verbose = v }
}

// WithRules replaces the default stage rules.
func WithRules(r sim.Rules) HarnessOption {
	return func(h *Harness) { h.rules = r }
}

// WithCollector adds an extra step observer, such as a metrics collector.
func WithCollector(o StepObserver) HarnessOption {
	return func(h *Harness) {
		if o != nil {
			h.observers = append(h.observers, o)
		}
	}
}

// WithHarnessLogger sets the logger handed to the host.
func WithHarnessLogger(l logging.Logger) HarnessOption {
	return func(h *Harness) { h.log = l }
}

// NewHarness builds a started harness. Defaults: seed 1, collision stage,
// hazard unresolved.
func NewHarness(opts ...HarnessOption) *Harness {
	h := &Harness{
		env:   &ScriptedEnv{stage: sim.StageCollision},
		seed:  1,
		rules: sim.DefaultRules(),
		log:   logging.Noop(),
	}
	for _, o := range opts {
		o(h)
	}

	h.Sim = sim.New(
		sim.WithRand(rand.New(rand.NewSource(h.seed))), // #nosec G404 -- deterministic harness
		sim.WithRules(h.rules),
	)
	h.RunLog = NewRunLog(h.verbose)
	h.Reporter = NewSimReporter(reportWindowTicks)
	h.Fates = &FateCounter{}

	hostOpts := []HostOption{WithObserver(h.RunLog), WithLogger(h.log)}
	for _, o := range h.observers {
		hostOpts = append(hostOpts, WithObserver(o))
	}
	h.Host = NewHost(h.Sim, h.env, h.Fates, hostOpts...)
	h.Host.Start()
	return h
}

// SetStage changes the stage the host reads on its next frame.
func (h *Harness) SetStage(stage sim.Stage) {
	if stage != h.env.stage {
		h.RunLog.Add(h.tick, "--", stage.String(), "stage", "change", h.env.stage.String()+" -> "+stage.String(), 0)
	}
	h.env.stage = stage
}

// SetResolved toggles the hazard for the next frame.
func (h *Harness) SetResolved(resolved bool) {
	if resolved != h.env.resolved {
		h.RunLog.Add(h.tick, "--", h.env.stage.String(), "env", "resolved", boolLabel(resolved), 0)
	}
	h.env.resolved = resolved
}

// Restart starts the host again, e.g. after moving from Summary back to a
// hazard stage.
func (h *Harness) Restart() {
	h.Host.Start()
}

// RunTicks advances n frames.
func (h *Harness) RunTicks(n int) {
	for i := 0; i < n; i++ {
		h.runOneTick()
	}
}

// RunUntil advances up to maxTicks frames, stopping early if predicate
// returns true. Returns the tick at which the predicate was satisfied, or -1.
func (h *Harness) RunUntil(predicate func(*Harness) bool, maxTicks int) int {
	for i := 0; i < maxTicks; i++ {
		h.runOneTick()
		if predicate(h) {
			return h.tick
		}
	}
	return -1
}

func (h *Harness) runOneTick() {
	h.tick++
	h.Host.Frame()
	if h.tick%reportSampleTicks == 0 {
		h.Reporter.Collect(h.tick, h.env.stage, h.Sim.Birds(), h.Sim.Stats())
	}
}

// CurrentTick returns the number of frames run.
func (h *Harness) CurrentTick() int {
	return h.tick
}

// Birds returns a copy of the live set.
func (h *Harness) Birds() []sim.Bird {
	return h.Sim.Birds()
}

// RunReport summarises a finished run.
type RunReport struct {
	Seed           int64
	Ticks          int
	Stats          sim.Stats
	FirstDeathTick int // -1 when nothing died
	FirstSaveTick  int // -1 when nothing was saved
	LastDeathTick  int // -1 when nothing died
	Assessment     Assessment
	Window         *WindowReport
}

// Report builds the run summary from the run log and simulator totals.
func (h *Harness) Report() RunReport {
	rr := RunReport{
		Seed:           h.seed,
		Ticks:          h.tick,
		Stats:          h.Sim.Stats(),
		FirstDeathTick: -1,
		FirstSaveTick:  -1,
		LastDeathTick:  -1,
		Window:         h.Reporter.WindowSummary(),
	}
	if e, ok := h.RunLog.FirstOf("fate", sim.EventDeath.String()); ok {
		rr.FirstDeathTick = e.Tick
	}
	if e, ok := h.RunLog.LastOf("fate", sim.EventDeath.String()); ok {
		rr.LastDeathTick = e.Tick
	}
	if e, ok := h.RunLog.FirstOf("fate", sim.EventSaved.String()); ok {
		rr.FirstSaveTick = e.Tick
	}
	rr.Assessment = DetermineVerdict(h.Fates.Saved, h.Fates.Deaths)
	return rr
}

// ScriptedEnv is an Environment whose answers are set directly.
type ScriptedEnv struct {
	stage    sim.Stage
	resolved bool
	reads    int
}

// NewScriptedEnv returns an environment fixed at stage.
func NewScriptedEnv(stage sim.Stage, resolved bool) *ScriptedEnv {
	return &ScriptedEnv{stage: stage, resolved: resolved}
}

func (e *ScriptedEnv) Stage() sim.Stage { return e.stage }

func (e *ScriptedEnv) Resolved() bool {
	e.reads++
	return e.resolved
}

// Set replaces both answers.
func (e *ScriptedEnv) Set(stage sim.Stage, resolved bool) {
	e.stage = stage
	e.resolved = resolved
}

// ResolvedReads counts how often Resolved has been called.
func (e *ScriptedEnv) ResolvedReads() int { return e.reads }

// FateCounter is a Sink that tallies calls.
type FateCounter struct {
	Deaths int
	Saved  int
}

func (c *FateCounter) OnDeath() { c.Deaths++ }

func (c *FateCounter) OnSaved() { c.Saved++ }

func boolLabel(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
