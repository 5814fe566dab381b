package game

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/Garsondee/Bird-Sense/internal/logging"
	"github.com/Garsondee/Bird-Sense/internal/sim"
)

var (
	ErrInsufficientBudget = errors.New("insufficient budget")
	ErrUnknownChoice      = errors.New("unknown choice")
	ErrNoLevel            = errors.New("no level for this stage")
)

const (
	InitialBudget       = 5000
	InitialSatisfaction = 80

	// Flash lengths in frames at 60 TPS.
	crisisFlashFrames = 120
	deathFlashFrames  = 9
)

// State is the player's progress through the campaign.
type State struct {
	Stage        sim.Stage
	Budget       int
	Satisfaction int
	Saved        int
	Deaths       int
	BirdView     bool
	Unlocked     []string
	Solved       bool
	Feedback     string
	Chosen       string // ID of the last choice applied this stage
}

func initialState() State {
	return State{
		Stage:        sim.StageStart,
		Budget:       InitialBudget,
		Satisfaction: InitialSatisfaction,
	}
}

// Campaign owns the State. It is the Environment the host reads and the
// Sink it counts fates into. It is not safe for concurrent use; the game
// drives it from the ebiten update goroutine.
type Campaign struct {
	state  State
	crisis int
	flash  int
	log    logging.Logger
}

// NewCampaign starts a campaign on the title stage.
func NewCampaign(log logging.Logger) *Campaign {
	if log == nil {
		log = logging.Noop()
	}
	return &Campaign{state: initialState(), log: log}
}

// State returns a copy of the current state.
func (c *Campaign) State() State {
	s := c.state
	s.Unlocked = slices.Clone(c.state.Unlocked)
	return s
}

func (c *Campaign) Stage() sim.Stage { return c.state.Stage }

func (c *Campaign) Resolved() bool { return c.state.Solved }

func (c *Campaign) OnDeath() {
	c.state.Deaths++
	c.flash = deathFlashFrames
}

func (c *Campaign) OnSaved() {
	c.state.Saved++
}

// Level returns the level for the current stage.
func (c *Campaign) Level() (Level, bool) {
	return LevelFor(c.state.Stage)
}

// ApplyChoice funds the choice with the given ID on the current level. A
// later choice on the same stage replaces the earlier one, so a wrong choice
// after a correct one brings the hazard back.
func (c *Campaign) ApplyChoice(id string) (Choice, error) {
	level, ok := c.Level()
	if !ok {
		return Choice{}, fmt.Errorf("%w: %s", ErrNoLevel, c.state.Stage)
	}
	choice, ok := level.Choice(id)
	if !ok {
		return Choice{}, fmt.Errorf("%w: %q", ErrUnknownChoice, id)
	}
	if c.state.Budget < choice.Cost {
		return Choice{}, fmt.Errorf("%w: need %d, have %d", ErrInsufficientBudget, choice.Cost, c.state.Budget)
	}

	c.state.Budget -= choice.Cost
	c.state.Satisfaction = clampInt(c.state.Satisfaction+choice.SatisfactionChange, 0, 100)
	c.state.Solved = choice.IsCorrect
	c.state.Chosen = choice.ID
	c.state.Feedback = choice.Feedback
	if choice.IsCorrect {
		if speciesID, ok := SpeciesForStage(c.state.Stage); ok && !slices.Contains(c.state.Unlocked, speciesID) {
			c.state.Unlocked = append(c.state.Unlocked, speciesID)
		}
	} else {
		c.crisis = crisisFlashFrames
	}

	c.log.Info(context.Background(), "choice applied",
		logging.Stringer("stage", c.state.Stage),
		logging.String("choice", choice.ID),
		logging.Bool("correct", choice.IsCorrect),
		logging.Int("budget", c.state.Budget),
		logging.Int("satisfaction", c.state.Satisfaction))
	return choice, nil
}

// NextStage advances to the following stage and returns it. Feedback and the
// solved flag are cleared on every change.
func (c *Campaign) NextStage() sim.Stage {
	next := c.state.Stage.Next()
	if next == c.state.Stage {
		return next
	}
	c.state.Stage = next
	c.state.Feedback = ""
	c.state.Solved = false
	c.state.Chosen = ""
	c.crisis = 0
	c.log.Info(context.Background(), "stage advanced", logging.Stringer("stage", next))
	return next
}

// Reset returns to the title stage with a fresh budget and no unlocks.
func (c *Campaign) Reset() {
	c.state = initialState()
	c.crisis = 0
	c.flash = 0
}

// ToggleBirdView flips the camera mode and returns the new value.
func (c *Campaign) ToggleBirdView() bool {
	c.state.BirdView = !c.state.BirdView
	return c.state.BirdView
}

func (c *Campaign) SurvivalRate() float64 {
	return SurvivalRate(c.state.Saved, c.state.Deaths)
}

func (c *Campaign) Verdict() Verdict {
	return DetermineVerdict(c.state.Saved, c.state.Deaths).Verdict
}

// IsUnlocked reports whether the encyclopedia shows a species.
func (c *Campaign) IsUnlocked(speciesID string) bool {
	return slices.Contains(c.state.Unlocked, speciesID)
}

// AdvanceEffects counts down the crisis and death flashes by one frame.
func (c *Campaign) AdvanceEffects() {
	if c.crisis > 0 {
		c.crisis--
	}
	if c.flash > 0 {
		c.flash--
	}
}

// Crisis reports whether the scene should show the crisis tint.
func (c *Campaign) Crisis() bool { return c.crisis > 0 || c.flash > 0 }

// DeathFlash reports whether a death flash is still showing.
func (c *Campaign) DeathFlash() bool { return c.flash > 0 }

// Report renders the end-of-campaign assessment as plain text.
func (c *Campaign) Report() string {
	a := DetermineVerdict(c.state.Saved, c.state.Deaths)
	var sb strings.Builder
	sb.WriteString("=== Migration Action Report ===\n")
	fmt.Fprintf(&sb, "Birds saved:    %d\n", a.Saved)
	fmt.Fprintf(&sb, "Birds lost:     %d\n", a.Deaths)
	fmt.Fprintf(&sb, "Survival rate:  %.1f%%\n", a.SurvivalRate)
	fmt.Fprintf(&sb, "Budget left:    %d\n", c.state.Budget)
	fmt.Fprintf(&sb, "Satisfaction:   %d%%\n", c.state.Satisfaction)
	fmt.Fprintf(&sb, "Migration outlook this year: %s\n", a.Verdict)
	if len(c.state.Unlocked) == 0 {
		sb.WriteString("Species unlocked: none\n")
	} else {
		names := make([]string, 0, len(c.state.Unlocked))
		for _, id := range c.state.Unlocked {
			if sp, ok := SpeciesByID(id); ok {
				names = append(names, sp.Name)
			}
		}
		fmt.Fprintf(&sb, "Species unlocked: %s\n", strings.Join(names, ", "))
	}
	sb.WriteString("Real change starts with every window sticker and every decorative light switched off.\n")
	return sb.String()
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
