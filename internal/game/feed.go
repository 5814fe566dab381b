package game

import (
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/Bird-Sense/internal/sim"
)

const (
	feedPanelWidth = 280
	feedMaxEntries = 60
	feedLineHeight = 14
)

// FeedEntry is a single line in the event feed.
type FeedEntry struct {
	Tick    int
	Stage   sim.Stage
	Kind    sim.EventKind
	BirdID  int
	Message string
}

// EventFeed is a ring buffer of fate events rendered beside the scene.
type EventFeed struct {
	entries []FeedEntry
	head    int
	count   int
}

// NewEventFeed creates a feed with a fixed capacity.
func NewEventFeed() *EventFeed {
	return &EventFeed{
		entries: make([]FeedEntry, feedMaxEntries),
	}
}

// Add appends an entry, overwriting the oldest once full.
func (f *EventFeed) Add(e FeedEntry) {
	f.entries[f.head] = e
	f.head = (f.head + 1) % feedMaxEntries
	if f.count < feedMaxEntries {
		f.count++
	}
}

// ObserveStep records every event of a step.
func (f *EventFeed) ObserveStep(stage sim.Stage, res sim.StepResult, _ int, _ time.Duration) {
	for _, ev := range res.Events {
		f.Add(FeedEntry{
			Tick:    ev.Tick,
			Stage:   stage,
			Kind:    ev.Kind,
			BirdID:  ev.BirdID,
			Message: feedMessage(ev),
		})
	}
}

func feedMessage(ev sim.Event) string {
	switch ev.Kind {
	case sim.EventDeath:
		switch ev.Stage {
		case sim.StageCollision:
			return "struck the glass"
		case sim.StageAttraction:
			return "spiralled into the light"
		case sim.StageObstruction:
			return "caught in the wires"
		}
		return "went down"
	case sim.EventSaved:
		return "flew on safely"
	}
	return ev.Kind.String()
}

// Recent returns entries in chronological order (oldest first).
func (f *EventFeed) Recent() []FeedEntry {
	result := make([]FeedEntry, f.count)
	for i := 0; i < f.count; i++ {
		idx := (f.head - f.count + i + feedMaxEntries) % feedMaxEntries
		result[i] = f.entries[idx]
	}
	return result
}

// Len returns the number of buffered entries.
func (f *EventFeed) Len() int { return f.count }

// Clear drops every entry.
func (f *EventFeed) Clear() {
	f.head = 0
	f.count = 0
}

// Draw renders the feed panel at panelX.
func (f *EventFeed) Draw(screen *ebiten.Image, panelX int, panelH int) {
	vector.FillRect(screen, float32(panelX), 0, float32(feedPanelWidth), float32(panelH), color.RGBA{R: 10, G: 18, B: 22, A: 248}, false)
	vector.StrokeLine(screen, float32(panelX), 0, float32(panelX), float32(panelH), 1.0, color.RGBA{R: 50, G: 80, B: 90, A: 255}, false)

	vector.FillRect(screen, float32(panelX), 0, float32(feedPanelWidth), 18, color.RGBA{R: 20, G: 36, B: 42, A: 255}, false)
	drawText(screen, "FLIGHT LOG", panelX+8, 3, colorPanelTitle)
	vector.StrokeLine(screen, float32(panelX), 18, float32(panelX+feedPanelWidth), 18, 1.0, color.RGBA{R: 50, G: 90, B: 100, A: 200}, false)

	entries := f.Recent()

	// Newest at the bottom.
	maxVisible := (panelH - 26) / feedLineHeight
	startIdx := 0
	if len(entries) > maxVisible {
		startIdx = len(entries) - maxVisible
	}
	visible := entries[startIdx:]
	recent := 3

	y := 22
	for i, e := range visible {
		isRecent := i >= len(visible)-recent
		if isRecent {
			vector.FillRect(screen, float32(panelX+2), float32(y), float32(feedPanelWidth-4), float32(feedLineHeight), color.RGBA{R: 28, G: 44, B: 50, A: 160}, false)
		}

		dot := colorSaved
		if e.Kind == sim.EventDeath {
			dot = colorDeath
		}
		vector.FillRect(screen, float32(panelX+5), float32(y+4), 3, 6, dot, false)

		textCol := colorFeedOld
		if isRecent {
			textCol = colorFeedNew
		}
		drawText(screen, fmt.Sprintf("%5d #%-3d %s", e.Tick, e.BirdID, e.Message), panelX+12, y, textCol)
		y += feedLineHeight
	}
}
