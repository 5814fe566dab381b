package game

import (
	"fmt"
	"strings"

	"github.com/Garsondee/Bird-Sense/internal/sim"
)

// reportWindowTicks is the default sliding window for recent-survival reports (~10s at 60TPS).
const reportWindowTicks = 600

// reportSampleTicks is how often the harness samples the scene (~1s at 60TPS).
const reportSampleTicks = 60

// SceneReport is a snapshot of the scene at one tick.
type SceneReport struct {
	Tick  int
	Stage sim.Stage

	Live   int
	Flying int
	Dying  int

	// Mean elevation of flying birds; zero when none are flying.
	MeanElevation float64

	// Cumulative totals at the time of the snapshot.
	Spawned int
	Deaths  int
	Saved   int
	Dropped int
}

// SimReporter collects periodic scene snapshots and summarises them over a
// sliding window.
type SimReporter struct {
	history     []SceneReport
	windowTicks int
}

// NewSimReporter creates a reporter with the given window size.
func NewSimReporter(windowTicks int) *SimReporter {
	if windowTicks <= 0 {
		windowTicks = reportWindowTicks
	}
	return &SimReporter{windowTicks: windowTicks}
}

// Collect records a snapshot. Call it periodically (e.g. every 60 ticks).
func (r *SimReporter) Collect(tick int, stage sim.Stage, birds []sim.Bird, stats sim.Stats) {
	report := SceneReport{
		Tick:    tick,
		Stage:   stage,
		Live:    len(birds),
		Spawned: stats.Spawned,
		Deaths:  stats.Deaths,
		Saved:   stats.Saved,
		Dropped: stats.Dropped,
	}
	var zSum float64
	for _, b := range birds {
		if b.Dying() {
			report.Dying++
			continue
		}
		report.Flying++
		zSum += b.Z
	}
	if report.Flying > 0 {
		report.MeanElevation = zSum / float64(report.Flying)
	}
	r.history = append(r.history, report)
}

// Latest returns the most recent snapshot, or nil.
func (r *SimReporter) Latest() *SceneReport {
	if len(r.history) == 0 {
		return nil
	}
	return &r.history[len(r.history)-1]
}

// History returns every snapshot collected so far.
func (r *SimReporter) History() []SceneReport {
	return r.history
}

// WindowSummary aggregates the snapshots inside the recent window. Deaths
// and saves are the increase across the window.
func (r *SimReporter) WindowSummary() *WindowReport {
	if len(r.history) == 0 {
		return nil
	}

	latestTick := r.history[len(r.history)-1].Tick
	cutoff := latestTick - r.windowTicks
	var window []SceneReport
	for i := len(r.history) - 1; i >= 0; i-- {
		if r.history[i].Tick < cutoff {
			break
		}
		window = append(window, r.history[i])
	}

	newest, oldest := window[0], window[len(window)-1]
	n := float64(len(window))
	wr := &WindowReport{
		FromTick:    oldest.Tick,
		ToTick:      newest.Tick,
		SampleCount: len(window),
		Deaths:      newest.Deaths - oldest.Deaths,
		Saved:       newest.Saved - oldest.Saved,
	}
	var elevSamples int
	for _, rpt := range window {
		wr.AvgLive += float64(rpt.Live)
		wr.AvgDying += float64(rpt.Dying)
		if rpt.Flying > 0 {
			wr.AvgElevation += rpt.MeanElevation
			elevSamples++
		}
		if rpt.Live > wr.PeakLive {
			wr.PeakLive = rpt.Live
		}
	}
	wr.AvgLive /= n
	wr.AvgDying /= n
	if elevSamples > 0 {
		wr.AvgElevation /= float64(elevSamples)
	}
	wr.SurvivalRate = SurvivalRate(wr.Saved, wr.Deaths)
	return wr
}

// WindowReport is an aggregated summary over a time window.
type WindowReport struct {
	FromTick, ToTick int
	SampleCount      int

	AvgLive      float64
	AvgDying     float64
	AvgElevation float64
	PeakLive     int

	Deaths       int
	Saved        int
	SurvivalRate float64
}

// Format returns a human-readable multi-line string of the window summary.
func (wr *WindowReport) Format() string {
	if wr == nil {
		return "No data collected yet.\n"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "=== Flight Report (T=%d..%d, %d samples) ===\n",
		wr.FromTick, wr.ToTick, wr.SampleCount)
	fmt.Fprintf(&sb, "  live: avg=%.1f peak=%d dying=%.1f\n", wr.AvgLive, wr.PeakLive, wr.AvgDying)
	fmt.Fprintf(&sb, "  elevation: avg=%.1f (%s)\n", wr.AvgElevation, elevationLabel(wr.AvgElevation))
	fmt.Fprintf(&sb, "  fates: deaths=%d saved=%d survival=%.1f%%\n", wr.Deaths, wr.Saved, wr.SurvivalRate)
	return sb.String()
}

func elevationLabel(z float64) string {
	switch {
	case z <= 0:
		return "none"
	case z < 130:
		return "low"
	case z < 160:
		return "wire height"
	default:
		return "high"
	}
}
