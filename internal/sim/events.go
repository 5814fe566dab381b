package sim

import "fmt"

// EventKind identifies a fate event.
type EventKind uint8

const (
	EventDeath EventKind = iota
	EventSaved
)

func (k EventKind) String() string {
	switch k {
	case EventDeath:
		return "death"
	case EventSaved:
		return "saved"
	default:
		return "unknown"
	}
}

// Event is one fate transition produced by a step.
type Event struct {
	Kind   EventKind
	BirdID int
	Tick   int
	Stage  Stage
}

// NewDeathEvent creates a death event for a bird entering the dying state.
func NewDeathEvent(tick int, stage Stage, birdID int) Event {
	return Event{Kind: EventDeath, BirdID: birdID, Tick: tick, Stage: stage}
}

// NewSavedEvent creates a saved event for a bird leaving the playfield.
func NewSavedEvent(tick int, stage Stage, birdID int) Event {
	return Event{Kind: EventSaved, BirdID: birdID, Tick: tick, Stage: stage}
}

func (e Event) String() string {
	return fmt.Sprintf("[T=%04d] %-11s bird#%d %s", e.Tick, e.Stage, e.BirdID, e.Kind)
}

// StepResult summarises one simulator tick.
type StepResult struct {
	Tick    int
	Deaths  int
	Saved   int
	Spawned int
	Dropped int // birds evicted by the live-set cap
	Events  []Event
}

// Stats holds lifetime totals for a simulator.
type Stats struct {
	Ticks   int
	Spawned int
	Deaths  int
	Saved   int
	Dropped int
}
