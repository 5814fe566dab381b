package game

import (
	"errors"
	"strings"
	"testing"

	"github.com/Garsondee/Bird-Sense/internal/sim"
)

func campaignAt(t *testing.T, stage sim.Stage) *Campaign {
	t.Helper()
	c := NewCampaign(nil)
	for c.Stage() != stage {
		before := c.Stage()
		if c.NextStage() == before {
			t.Fatalf("could not reach stage %s", stage)
		}
	}
	return c
}

func TestCampaignInitialState(t *testing.T) {
	c := NewCampaign(nil)
	st := c.State()
	if st.Stage != sim.StageStart || st.Budget != InitialBudget || st.Satisfaction != InitialSatisfaction {
		t.Fatalf("initial state = %+v", st)
	}
	if st.Saved != 0 || st.Deaths != 0 || st.Solved || st.BirdView || len(st.Unlocked) != 0 {
		t.Fatalf("initial state not clean: %+v", st)
	}
	if c.SurvivalRate() != 100 {
		t.Fatalf("survival rate with no birds = %v, want 100", c.SurvivalRate())
	}
}

func TestApplyChoiceOnTitleStage(t *testing.T) {
	c := NewCampaign(nil)
	if _, err := c.ApplyChoice("C"); !errors.Is(err, ErrNoLevel) {
		t.Fatalf("err = %v, want ErrNoLevel", err)
	}
}

func TestApplyChoiceUnknownID(t *testing.T) {
	c := campaignAt(t, sim.StageCollision)
	if _, err := c.ApplyChoice("Z"); !errors.Is(err, ErrUnknownChoice) {
		t.Fatalf("err = %v, want ErrUnknownChoice", err)
	}
	if c.State().Budget != InitialBudget {
		t.Fatal("rejected choice spent budget")
	}
}

func TestWrongChoiceStartsCrisis(t *testing.T) {
	c := campaignAt(t, sim.StageCollision)
	choice, err := c.ApplyChoice("A")
	if err != nil {
		t.Fatalf("ApplyChoice: %v", err)
	}
	if choice.IsCorrect {
		t.Fatal("choice A should be wrong")
	}
	st := c.State()
	if st.Budget != 4800 || st.Satisfaction != 75 {
		t.Fatalf("budget/satisfaction = %d/%d, want 4800/75", st.Budget, st.Satisfaction)
	}
	if st.Solved || c.Resolved() {
		t.Fatal("wrong choice resolved the hazard")
	}
	if st.Feedback == "" || st.Chosen != "A" {
		t.Fatalf("feedback/chosen not recorded: %+v", st)
	}
	if len(st.Unlocked) != 0 {
		t.Fatalf("wrong choice unlocked %v", st.Unlocked)
	}
	if !c.Crisis() {
		t.Fatal("crisis tint not raised")
	}
	for i := 0; i < crisisFlashFrames; i++ {
		c.AdvanceEffects()
	}
	if c.Crisis() {
		t.Fatal("crisis still showing after its flash window")
	}
}

func TestCorrectChoiceAfterWrongOne(t *testing.T) {
	c := campaignAt(t, sim.StageCollision)
	if _, err := c.ApplyChoice("A"); err != nil {
		t.Fatalf("ApplyChoice A: %v", err)
	}
	choice, err := c.ApplyChoice("C")
	if err != nil {
		t.Fatalf("ApplyChoice C: %v", err)
	}
	if !choice.IsCorrect {
		t.Fatal("choice C should be correct")
	}
	st := c.State()
	if st.Budget != 3300 || st.Satisfaction != 70 {
		t.Fatalf("budget/satisfaction = %d/%d, want 3300/70", st.Budget, st.Satisfaction)
	}
	if !st.Solved || !c.Resolved() {
		t.Fatal("correct choice did not resolve the hazard")
	}
	if !c.IsUnlocked("fairy-pitta") {
		t.Fatalf("unlocked = %v, want fairy-pitta", st.Unlocked)
	}
}

func TestLaterChoiceReplacesEarlierOne(t *testing.T) {
	c := campaignAt(t, sim.StageCollision)
	if _, err := c.ApplyChoice("C"); err != nil {
		t.Fatal(err)
	}
	if !c.Resolved() {
		t.Fatal("correct choice did not resolve the hazard")
	}

	// Funding a wrong option afterwards reopens the hazard.
	if _, err := c.ApplyChoice("A"); err != nil {
		t.Fatalf("ApplyChoice A after C: %v", err)
	}
	st := c.State()
	if st.Solved || c.Resolved() || st.Chosen != "A" {
		t.Fatalf("wrong choice left the stage solved: %+v", st)
	}
	if st.Budget != 3300 || st.Satisfaction != 70 {
		t.Fatalf("budget/satisfaction = %d/%d, want 3300/70", st.Budget, st.Satisfaction)
	}
	if !c.Crisis() {
		t.Fatal("wrong choice raised no crisis")
	}
	if !c.IsUnlocked("fairy-pitta") {
		t.Fatal("species unlock was taken back")
	}

	if _, err := c.ApplyChoice("C"); err != nil {
		t.Fatal(err)
	}
	if got := c.State().Unlocked; len(got) != 1 {
		t.Fatalf("unlocked = %v, want one entry", got)
	}
	if c.State().Budget != 1800 {
		t.Fatalf("budget = %d, want 1800", c.State().Budget)
	}
}

func TestInsufficientBudget(t *testing.T) {
	c := campaignAt(t, sim.StageCollision)
	if _, err := c.ApplyChoice("B"); err != nil {
		t.Fatalf("ApplyChoice B: %v", err)
	}
	if c.State().Budget != 1000 {
		t.Fatalf("budget = %d, want 1000", c.State().Budget)
	}
	_, err := c.ApplyChoice("C")
	if !errors.Is(err, ErrInsufficientBudget) {
		t.Fatalf("err = %v, want ErrInsufficientBudget", err)
	}
	st := c.State()
	if st.Budget != 1000 || st.Solved || st.Chosen != "B" {
		t.Fatalf("failed choice changed state: %+v", st)
	}
}

func TestSatisfactionClampsAtZero(t *testing.T) {
	c := campaignAt(t, sim.StageCollision)
	for _, stage := range sim.HazardStages {
		if c.Stage() != stage {
			t.Fatalf("stage = %s, want %s", c.Stage(), stage)
		}
		if _, err := c.ApplyChoice("B"); err != nil {
			t.Fatalf("%s B: %v", stage, err)
		}
		c.NextStage()
	}
	st := c.State()
	if st.Stage != sim.StageSummary {
		t.Fatalf("stage = %s, want summary", st.Stage)
	}
	if st.Satisfaction != 0 || st.Budget != 400 {
		t.Fatalf("satisfaction/budget = %d/%d, want 0/400", st.Satisfaction, st.Budget)
	}
}

func TestSatisfactionClampsAtHundred(t *testing.T) {
	c := campaignAt(t, sim.StageAttraction)
	c.state.Satisfaction = 95
	if _, err := c.ApplyChoice("A"); err != nil {
		t.Fatalf("ApplyChoice: %v", err)
	}
	if got := c.State().Satisfaction; got != 100 {
		t.Fatalf("satisfaction = %d, want 100", got)
	}
}

func TestEveryCorrectChoiceUnlocksItsSpecies(t *testing.T) {
	want := map[sim.Stage]string{
		sim.StageCollision:   "fairy-pitta",
		sim.StageAttraction:  "bluethroat",
		sim.StageObstruction: "oriental-stork",
	}
	c := campaignAt(t, sim.StageCollision)
	for _, stage := range sim.HazardStages {
		level, ok := c.Level()
		if !ok {
			t.Fatalf("no level on %s", stage)
		}
		var correct string
		for _, ch := range level.Choices {
			if ch.IsCorrect {
				correct = ch.ID
			}
		}
		if _, err := c.ApplyChoice(correct); err != nil {
			t.Fatalf("%s %s: %v", stage, correct, err)
		}
		if !c.IsUnlocked(want[stage]) {
			t.Fatalf("%s did not unlock %s", stage, want[stage])
		}
		c.NextStage()
	}
	if got := len(c.State().Unlocked); got != len(Catalog) {
		t.Fatalf("unlocked %d species, want %d", got, len(Catalog))
	}
}

func TestNextStageClearsStageState(t *testing.T) {
	c := campaignAt(t, sim.StageCollision)
	if _, err := c.ApplyChoice("A"); err != nil {
		t.Fatal(err)
	}
	if c.NextStage() != sim.StageAttraction {
		t.Fatal("collision should advance to attraction")
	}
	st := c.State()
	if st.Feedback != "" || st.Solved || st.Chosen != "" {
		t.Fatalf("stage state carried over: %+v", st)
	}
	if c.Crisis() {
		t.Fatal("crisis carried over to the next stage")
	}
	if st.Budget != 4800 {
		t.Fatalf("budget reset on stage change: %d", st.Budget)
	}
}

func TestSummaryIsTerminal(t *testing.T) {
	c := campaignAt(t, sim.StageSummary)
	if c.NextStage() != sim.StageSummary {
		t.Fatal("summary advanced")
	}
}

func TestCampaignCountsFates(t *testing.T) {
	c := NewCampaign(nil)
	c.OnSaved()
	c.OnSaved()
	c.OnSaved()
	c.OnDeath()
	st := c.State()
	if st.Saved != 3 || st.Deaths != 1 {
		t.Fatalf("saved/deaths = %d/%d", st.Saved, st.Deaths)
	}
	if c.SurvivalRate() != 75 {
		t.Fatalf("survival rate = %v, want 75", c.SurvivalRate())
	}
	if c.Verdict() != VerdictGood {
		t.Fatal("verdict should be good")
	}

	if !c.DeathFlash() || !c.Crisis() {
		t.Fatal("death did not flash")
	}
	for i := 0; i < deathFlashFrames; i++ {
		c.AdvanceEffects()
	}
	if c.DeathFlash() || c.Crisis() {
		t.Fatal("death flash outlived its window")
	}

	c.OnDeath()
	c.OnDeath()
	c.OnDeath()
	if c.Verdict() != VerdictGrim {
		t.Fatal("4 deaths vs 3 saves should be grim")
	}
}

func TestCampaignReport(t *testing.T) {
	c := campaignAt(t, sim.StageCollision)
	if _, err := c.ApplyChoice("C"); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 9; i++ {
		c.OnSaved()
	}
	c.OnDeath()

	report := c.Report()
	t.Log("\n" + report)
	for _, want := range []string{
		"=== Migration Action Report ===",
		"Birds saved:    9",
		"Birds lost:     1",
		"Survival rate:  90.0%",
		"Budget left:    3500",
		"Migration outlook this year: good",
		"Species unlocked: Fairy Pitta",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q", want)
		}
	}

	c.Reset()
	if !strings.Contains(c.Report(), "Species unlocked: none") {
		t.Error("report after reset should list no species")
	}
}

func TestCampaignReset(t *testing.T) {
	c := campaignAt(t, sim.StageAttraction)
	if _, err := c.ApplyChoice("A"); err != nil {
		t.Fatal(err)
	}
	c.OnDeath()
	c.ToggleBirdView()
	c.Reset()

	st := c.State()
	if st.Stage != sim.StageStart || st.Budget != InitialBudget || st.Deaths != 0 || st.BirdView {
		t.Fatalf("reset state = %+v", st)
	}
	if c.Crisis() {
		t.Fatal("reset left a flash running")
	}
}

func TestStateIsACopy(t *testing.T) {
	c := campaignAt(t, sim.StageCollision)
	if _, err := c.ApplyChoice("C"); err != nil {
		t.Fatal(err)
	}
	st := c.State()
	st.Unlocked[0] = "tampered"
	st.Budget = 0
	if !c.IsUnlocked("fairy-pitta") || c.State().Budget == 0 {
		t.Fatal("mutating a State copy leaked into the campaign")
	}
}

func TestToggleBirdView(t *testing.T) {
	c := NewCampaign(nil)
	if !c.ToggleBirdView() || !c.State().BirdView {
		t.Fatal("first toggle should enable bird view")
	}
	if c.ToggleBirdView() {
		t.Fatal("second toggle should disable bird view")
	}
}

// The campaign drives a real host: fixing the hazard stops deaths on the
// very next frame.
func TestCampaignAsHostEnvironment(t *testing.T) {
	c := NewCampaign(nil)
	s := sim.New(sim.WithSeed(1), sim.WithRules(quietRules()))
	h := NewHost(s, c, c)
	h.Start()
	if h.Active() {
		t.Fatal("host active on the title stage")
	}

	c.NextStage()
	h.Start()
	s.Inject(sim.Bird{X: 36, Y: 66, Z: 120}, exitBird())
	h.Frame()
	if st := c.State(); st.Deaths != 1 || st.Saved != 1 {
		t.Fatalf("deaths/saved = %d/%d, want 1/1", st.Deaths, st.Saved)
	}

	if _, err := c.ApplyChoice("C"); err != nil {
		t.Fatal(err)
	}
	s.Inject(sim.Bird{X: 36, Y: 66, Z: 120})
	for i := 0; i < 5; i++ {
		h.Frame()
	}
	if got := c.State().Deaths; got != 1 {
		t.Fatalf("deaths after fix = %d, want 1", got)
	}

	// Leaving the last hazard stage parks the host.
	c.NextStage()
	c.NextStage()
	c.NextStage()
	if h.Frame() || h.Active() {
		t.Fatal("host still stepping on summary")
	}
}

func TestReopenedHazardKillsAgain(t *testing.T) {
	c := campaignAt(t, sim.StageCollision)
	s := sim.New(sim.WithSeed(1), sim.WithRules(quietRules()))
	h := NewHost(s, c, c)
	h.Start()

	if _, err := c.ApplyChoice("C"); err != nil {
		t.Fatal(err)
	}
	s.Inject(sim.Bird{X: 36, Y: 66, Z: 120})
	for i := 0; i < 5; i++ {
		h.Frame()
	}
	if c.State().Deaths != 0 {
		t.Fatal("fixed glass killed a bird")
	}

	if _, err := c.ApplyChoice("A"); err != nil {
		t.Fatal(err)
	}
	h.Frame()
	if c.State().Deaths != 1 {
		t.Fatalf("deaths = %d on the first frame after reopening, want 1", c.State().Deaths)
	}
}
