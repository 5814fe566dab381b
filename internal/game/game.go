package game

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/aquilax/go-perlin"
	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/Garsondee/Bird-Sense/internal/facts"
	"github.com/Garsondee/Bird-Sense/internal/logging"
	"github.com/Garsondee/Bird-Sense/internal/sim"
)

// borderWidth is the pixel gap between the window edge and the scene.
const borderWidth = 16

const (
	sceneWidth  = 960
	sceneHeight = 540
	hudHeight   = 28
	panelHeight = 196
)

// noticeFrames is how long a one-line notice stays on screen.
const noticeFrames = 180

// Config holds the optional collaborators of a Game.
type Config struct {
	Seed      int64 // 0 seeds from the wall clock
	Facts     facts.Source
	Logger    logging.Logger
	Observers []StepObserver
}

type Game struct {
	width  int
	height int
	offX   int // pixel offset from window left to scene left
	offY   int // pixel offset from window top to scene top

	cfg      Config
	log      logging.Logger
	rng      *rand.Rand
	noise    *perlin.Perlin
	campaign *Campaign
	host     *Host
	feed     *EventFeed
	fetcher  *facts.Fetcher

	// Fun fact for the current stage, delivered asynchronously.
	fact    string
	factCh  <-chan string
	factCtx context.Context
	cancel  context.CancelFunc

	notice      string
	noticeTimer int

	showHUD          bool
	showEncyclopedia bool

	// Simulation speed control.
	simSpeed  float64 // multiplier: 0=paused, 0.5, 1, 2, 4
	tickAccum float64 // fractional tick accumulator for sub-1x speeds
	frame     int     // rendered frames, drives cosmetic animation

	// Offscreen buffers: the scene is drawn at 1x, then copied through the
	// bird-view camera into viewBuf.
	sceneBuf *ebiten.Image
	viewBuf  *ebiten.Image
}

// New builds a game on the title screen.
func New(cfg Config) *Game {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	log := cfg.Logger
	if log == nil {
		log = logging.Noop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	g := &Game{
		width:    borderWidth + sceneWidth + borderWidth + feedPanelWidth,
		height:   borderWidth + hudHeight + sceneHeight + panelHeight + borderWidth,
		offX:     borderWidth,
		offY:     borderWidth + hudHeight,
		cfg:      cfg,
		log:      log,
		rng:      rand.New(rand.NewSource(seed)), // #nosec G404 -- game only
		noise:    perlin.NewPerlin(2, 2, 3, seed),
		campaign: NewCampaign(log),
		feed:     NewEventFeed(),
		fetcher:  facts.NewFetcher(cfg.Facts, log, 10*time.Second),
		factCtx:  ctx,
		cancel:   cancel,
		showHUD:  true,
		simSpeed: 1.0,
		sceneBuf: ebiten.NewImage(sceneWidth, sceneHeight),
		viewBuf:  ebiten.NewImage(sceneWidth, sceneHeight),
	}
	g.newHost()
	return g
}

// newHost replaces the simulator and host, tearing down the previous one.
func (g *Game) newHost() {
	if g.host != nil {
		g.host.Stop()
	}
	s := sim.New(sim.WithSeed(g.rng.Int63()))
	opts := []HostOption{WithObserver(g.feed), WithLogger(g.log)}
	for _, o := range g.cfg.Observers {
		opts = append(opts, WithObserver(o))
	}
	g.host = NewHost(s, g.campaign, g.campaign, opts...)
	g.host.Start()
}

// Close stops the host and abandons any pending fact request.
func (g *Game) Close() {
	g.host.Stop()
	g.cancel()
}

func (g *Game) Update() error {
	g.frame++
	g.drainFact()
	if g.noticeTimer > 0 {
		g.noticeTimer--
	}

	g.handleInput()

	if g.simSpeed <= 0 {
		return nil
	}

	// For speeds > 1 run multiple ticks per frame.
	// For speeds < 1 accumulate fractions.
	g.tickAccum += g.simSpeed
	for g.tickAccum >= 1.0 {
		g.tickAccum -= 1.0
		g.simTick()
	}
	return nil
}

// simTick runs one host frame and counts down the scene effects.
func (g *Game) simTick() {
	g.host.Frame()
	g.campaign.AdvanceEffects()
}

func (g *Game) drainFact() {
	if g.factCh == nil {
		return
	}
	select {
	case f := <-g.factCh:
		g.fact = f
		g.factCh = nil
	default:
	}
}

// handleInput processes keypresses (edge-triggered).
func (g *Game) handleInput() {
	stage := g.campaign.Stage()

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEnter), inpututil.IsKeyJustPressed(ebiten.KeyN):
		if stage != sim.StageSummary {
			g.advanceStage()
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		g.reset()
	}

	if stage.Simulated() {
		choiceKeys := []ebiten.Key{ebiten.Key1, ebiten.Key2, ebiten.Key3}
		if level, ok := g.campaign.Level(); ok {
			for i, k := range choiceKeys {
				if i < len(level.Choices) && inpututil.IsKeyJustPressed(k) {
					g.choose(level.Choices[i].ID)
				}
			}
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyB) {
		g.campaign.ToggleBirdView()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyE) {
		g.showEncyclopedia = !g.showEncyclopedia
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		g.showHUD = !g.showHUD
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.copyReport()
	}

	// Sim speed controls: P=pause/resume, ,=slower, .=faster.
	speeds := []float64{0, 0.5, 1, 2, 4}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		if g.simSpeed > 0 {
			g.simSpeed = 0
		} else {
			g.simSpeed = 1
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyComma) {
		for i, s := range speeds {
			if s >= g.simSpeed && i > 0 {
				g.simSpeed = speeds[i-1]
				break
			}
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyPeriod) {
		for i, s := range speeds {
			if s <= g.simSpeed && i < len(speeds)-1 && speeds[i+1] > g.simSpeed {
				g.simSpeed = speeds[i+1]
				break
			}
		}
	}
}

func (g *Game) advanceStage() {
	next := g.campaign.NextStage()
	g.host.Start()
	g.fact = ""
	g.factCh = nil
	if next.Simulated() {
		sp := Catalog[g.rng.Intn(len(Catalog))]
		g.factCh = g.fetcher.FetchAsync(g.factCtx, sp.Name)
	}
}

func (g *Game) choose(id string) {
	choice, err := g.campaign.ApplyChoice(id)
	switch {
	case errors.Is(err, ErrInsufficientBudget):
		g.setNotice("Not enough budget. Pick a cheaper option.")
	case err != nil:
		g.log.Warn(context.Background(), "choice rejected", logging.String("choice", id), logging.Err(err))
		g.setNotice(err.Error())
	case !choice.IsCorrect:
		g.setNotice("Crisis! The birds are still in danger.")
	}
}

func (g *Game) reset() {
	g.campaign.Reset()
	g.feed.Clear()
	g.fact = ""
	g.factCh = nil
	g.showEncyclopedia = false
	g.newHost()
	g.log.Info(context.Background(), "campaign reset")
}

func (g *Game) copyReport() {
	if err := clipboard.WriteAll(g.campaign.Report()); err != nil {
		g.log.Warn(context.Background(), "copy report failed", logging.Err(err))
		g.setNotice("Could not copy the report to the clipboard.")
		return
	}
	g.setNotice("Report copied to the clipboard.")
}

func (g *Game) setNotice(msg string) {
	g.notice = msg
	g.noticeTimer = noticeFrames
}

func (g *Game) Layout(_, _ int) (int, int) {
	return g.width, g.height
}

// Size returns the window size the game lays out at.
func (g *Game) Size() (int, int) {
	return g.width, g.height
}
