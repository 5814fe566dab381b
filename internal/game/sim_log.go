package game

import (
	"fmt"
	"strings"
	"time"

	"github.com/Garsondee/Bird-Sense/internal/sim"
)

// RunLogEntry is one recorded event during a headless run.
type RunLogEntry struct {
	Tick     int
	Bird     string  // "#12", or "--" for global events
	Stage    string  // stage name at the time of the event
	Category string  // fate, spawn, cap, stage, env
	Key      string  // specific event name within the category
	Value    string  // human-readable detail
	NumVal   float64 // optional numeric value for threshold checks
}

// String formats the entry as a fixed-width log line.
//
//	[T=0042] #7   collision   fate     death          live=12
func (e RunLogEntry) String() string {
	return fmt.Sprintf("[T=%04d] %-4s %-11s %-8s %-14s %s",
		e.Tick, e.Bird, e.Stage, e.Category, e.Key, e.Value)
}

// RunLog collects structured events during a headless run.
// Unlike EventFeed (UI ring buffer), RunLog is unbounded and machine-readable.
type RunLog struct {
	entries []RunLogEntry
	verbose bool
}

// NewRunLog creates a RunLog. If verbose is true, spawn and cap entries are
// also recorded.
func NewRunLog(verbose bool) *RunLog {
	return &RunLog{verbose: verbose}
}

// Add records a new entry.
func (rl *RunLog) Add(tick int, bird, stage, category, key, value string, numVal float64) {
	rl.entries = append(rl.entries, RunLogEntry{
		Tick:     tick,
		Bird:     bird,
		Stage:    stage,
		Category: category,
		Key:      key,
		Value:    value,
		NumVal:   numVal,
	})
}

// AddVerbose records an entry only when verbose mode is on.
func (rl *RunLog) AddVerbose(tick int, bird, stage, category, key, value string, numVal float64) {
	if !rl.verbose {
		return
	}
	rl.Add(tick, bird, stage, category, key, value, numVal)
}

// ObserveStep records the fate events of a step, plus spawn and cap
// activity in verbose mode.
func (rl *RunLog) ObserveStep(stage sim.Stage, res sim.StepResult, live int, _ time.Duration) {
	for _, ev := range res.Events {
		rl.Add(ev.Tick, birdLabel(ev.BirdID), stage.String(), "fate", ev.Kind.String(), fmt.Sprintf("live=%d", live), float64(live))
	}
	if res.Spawned > 0 {
		rl.AddVerbose(res.Tick, "--", stage.String(), "spawn", "spawned", fmt.Sprintf("live=%d", live), float64(res.Spawned))
	}
	if res.Dropped > 0 {
		rl.AddVerbose(res.Tick, "--", stage.String(), "cap", "dropped", fmt.Sprintf("live=%d", live), float64(res.Dropped))
	}
}

func birdLabel(id int) string {
	return fmt.Sprintf("#%d", id)
}

// Entries returns all recorded entries.
func (rl *RunLog) Entries() []RunLogEntry {
	return rl.entries
}

// Filter returns entries matching the given category and/or key.
// Pass empty string to match any value for that field.
func (rl *RunLog) Filter(category, key string) []RunLogEntry {
	var out []RunLogEntry
	for _, e := range rl.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		out = append(out, e)
	}
	return out
}

// FilterTickRange returns entries within [fromTick, toTick] inclusive.
func (rl *RunLog) FilterTickRange(fromTick, toTick int) []RunLogEntry {
	var out []RunLogEntry
	for _, e := range rl.entries {
		if e.Tick >= fromTick && e.Tick <= toTick {
			out = append(out, e)
		}
	}
	return out
}

// CountCategory returns how many entries match the given category and key.
func (rl *RunLog) CountCategory(category, key string) int {
	return len(rl.Filter(category, key))
}

// FirstOf returns the earliest entry matching category+key, or false if none.
func (rl *RunLog) FirstOf(category, key string) (RunLogEntry, bool) {
	for _, e := range rl.entries {
		if e.Category == category && e.Key == key {
			return e, true
		}
	}
	return RunLogEntry{}, false
}

// LastOf returns the most recent entry matching category+key, or false if none.
func (rl *RunLog) LastOf(category, key string) (RunLogEntry, bool) {
	entries := rl.Filter(category, key)
	if len(entries) == 0 {
		return RunLogEntry{}, false
	}
	return entries[len(entries)-1], true
}

// HasEntry returns true if at least one entry matches category, key, and value substring.
func (rl *RunLog) HasEntry(category, key, valueSubstr string) bool {
	for _, e := range rl.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		if valueSubstr != "" && !strings.Contains(e.Value, valueSubstr) {
			continue
		}
		return true
	}
	return false
}

// Format returns the full log as a single string for t.Log output.
func (rl *RunLog) Format() string {
	var sb strings.Builder
	for _, e := range rl.entries {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// FormatRange returns a log string filtered to a tick range.
func (rl *RunLog) FormatRange(fromTick, toTick int) string {
	var sb strings.Builder
	for _, e := range rl.FilterTickRange(fromTick, toTick) {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Summary returns a short human-readable summary of a run.
func (rl *RunLog) Summary(tick int, stats sim.Stats, birds []sim.Bird) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "--- Summary at T=%04d ---\n", tick)
	fmt.Fprintf(&sb, "Totals: spawned=%d deaths=%d saved=%d dropped=%d\n",
		stats.Spawned, stats.Deaths, stats.Saved, stats.Dropped)

	flying, dying := 0, 0
	for _, b := range birds {
		if b.Dying() {
			dying++
		} else {
			flying++
		}
	}
	fmt.Fprintf(&sb, "Live: flying=%d dying=%d\n", flying, dying)

	// Deaths broken down by stage.
	byStage := map[string]int{}
	for _, e := range rl.Filter("fate", sim.EventDeath.String()) {
		byStage[e.Stage]++
	}
	if len(byStage) == 0 {
		sb.WriteString("Deaths by stage: none\n")
	} else {
		sb.WriteString("Deaths by stage: ")
		for _, st := range sim.HazardStages {
			if n := byStage[st.String()]; n > 0 {
				fmt.Fprintf(&sb, "%s=%d  ", st, n)
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
