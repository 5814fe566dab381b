package game

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/Garsondee/Bird-Sense/internal/sim"
)

var uiFace = text.NewGoXFace(basicfont.Face7x13)

const (
	charWidth  = 7
	lineHeight = 15
)

var (
	colorWindow        = color.RGBA{R: 12, G: 16, B: 18, A: 255}
	colorBorder        = color.RGBA{R: 60, G: 95, B: 100, A: 255}
	colorPanel         = color.RGBA{R: 16, G: 24, B: 28, A: 240}
	colorPanelTitle    = color.RGBA{R: 150, G: 220, B: 210, A: 255}
	colorText          = color.RGBA{R: 220, G: 226, B: 228, A: 255}
	colorDim           = color.RGBA{R: 140, G: 150, B: 155, A: 255}
	colorSaved         = color.RGBA{R: 80, G: 200, B: 120, A: 255}
	colorDeath         = color.RGBA{R: 220, G: 70, B: 70, A: 255}
	colorWarn          = color.RGBA{R: 240, G: 190, B: 80, A: 255}
	colorSolved        = color.RGBA{R: 80, G: 220, B: 140, A: 255}
	colorFeedNew       = color.RGBA{R: 230, G: 236, B: 238, A: 255}
	colorFeedOld       = color.RGBA{R: 130, G: 140, B: 146, A: 255}
	colorHazardOutline = color.RGBA{R: 255, G: 80, B: 80, A: 120}
	colorPylon         = color.RGBA{R: 60, G: 60, B: 64, A: 255}
	colorBird          = color.RGBA{R: 30, G: 30, B: 36, A: 255}
	colorBirdNight     = color.RGBA{R: 230, G: 230, B: 240, A: 255}
)

// drawText draws s with its top-left corner at (x, y).
func drawText(dst *ebiten.Image, s string, x, y int, clr color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.ScaleWithColor(clr)
	op.LineSpacing = lineHeight
	text.Draw(dst, s, uiFace, op)
}

// wrapText splits s into lines of at most width characters on word boundaries.
func wrapText(s string, width int) []string {
	if width <= 0 {
		return []string{s}
	}
	var lines []string
	var line strings.Builder
	for _, word := range strings.Fields(s) {
		if line.Len() > 0 && line.Len()+1+len(word) > width {
			lines = append(lines, line.String())
			line.Reset()
		}
		if line.Len() > 0 {
			line.WriteByte(' ')
		}
		line.WriteString(word)
	}
	if line.Len() > 0 {
		lines = append(lines, line.String())
	}
	return lines
}

// drawTopBar renders the score strip above the scene.
func (g *Game) drawTopBar(screen *ebiten.Image) {
	st := g.campaign.State()
	x, y := float32(g.offX), float32(borderWidth)
	vector.FillRect(screen, x, y, sceneWidth, hudHeight-4, colorPanel, false)

	stageLabel := strings.ToUpper(st.Stage.String())
	if lvl, ok := LevelFor(st.Stage); ok {
		stageLabel += " - " + lvl.Name
	}
	drawText(screen, stageLabel, g.offX+8, borderWidth+5, colorPanelTitle)

	stats := fmt.Sprintf("budget %5d   satisfaction %3d%%   saved %4d   lost %4d   survival %5.1f%%",
		st.Budget, st.Satisfaction, st.Saved, st.Deaths, g.campaign.SurvivalRate())
	drawText(screen, stats, g.offX+sceneWidth-len(stats)*charWidth-8, borderWidth+5, colorText)
}

// drawPanel renders the level, title or summary text under the scene.
func (g *Game) drawPanel(screen *ebiten.Image) {
	x := g.offX
	y := g.offY + sceneHeight + 6
	vector.FillRect(screen, float32(x), float32(y), sceneWidth, panelHeight-10, colorPanel, false)
	vector.StrokeRect(screen, float32(x), float32(y), sceneWidth, panelHeight-10, 1, colorBorder, false)

	cols := (sceneWidth - 24) / charWidth
	tx, ty := x+12, y+8
	line := func(s string, clr color.Color) {
		drawText(screen, s, tx, ty, clr)
		ty += lineHeight
	}

	st := g.campaign.State()
	switch st.Stage {
	case sim.StageStart:
		line("CITY ECOLOGY PLANNER - Migration Guardian", colorPanelTitle)
		for _, l := range wrapText("Every year hundreds of millions of migrating birds cross our cities. As the city planner, refit the city to save them from mirrored glass, light pollution and tangled sky.", cols) {
			line(l, colorText)
		}
		line("Your decisions change the fate of the birds in flight, live.", colorDim)
		ty += lineHeight / 2
		line("Press ENTER to begin.", colorWarn)

	case sim.StageSummary:
		for _, l := range strings.Split(strings.TrimRight(g.campaign.Report(), "\n"), "\n") {
			line(l, colorText)
		}
		line("R = plan again   E = encyclopedia   C = copy report", colorWarn)

	default:
		level, ok := g.campaign.Level()
		if !ok {
			return
		}
		line(level.Name+": "+level.Problem, colorPanelTitle)
		for _, l := range wrapText(level.Scenario, cols) {
			line(l, colorDim)
		}
		for i, c := range level.Choices {
			clr := colorText
			if st.Chosen == c.ID {
				clr = colorWarn
			}
			line(fmt.Sprintf("[%d] %s  (cost %d, satisfaction %+d, success %.0f%%)", i+1, c.Title, c.Cost, c.SatisfactionChange, c.SuccessRate*100), clr)
		}
		if st.Feedback != "" {
			clr := colorDeath
			if st.Solved {
				clr = colorSolved
			}
			for _, l := range wrapText(st.Feedback, cols) {
				line(l, clr)
			}
		}
		switch {
		case g.fact != "":
			for _, l := range wrapText("Did you know? "+g.fact, cols) {
				line(l, colorPanelTitle)
			}
		case g.factCh != nil:
			line("Looking up a bird fact...", colorDim)
		}
	}

	if g.noticeTimer > 0 && g.notice != "" {
		drawText(screen, g.notice, x+12, y+panelHeight-30, colorWarn)
	}
}

// drawHUD renders keyboard shortcut hints in the top-left corner of the scene.
func (g *Game) drawHUD(screen *ebiten.Image) {
	speedStr := "1x"
	if g.simSpeed == 0 {
		speedStr = "PAUSED"
	} else if g.simSpeed != 1 {
		speedStr = fmt.Sprintf("%.1fx", g.simSpeed)
	}
	view := "city"
	if g.campaign.State().BirdView {
		view = "bird"
	}

	lines := []string{
		fmt.Sprintf("SIM: %s  P=pause  ,/. speed", speedStr),
		"1-3 choose  N/Enter next stage",
		fmt.Sprintf("B view [%s]  E encyclopedia", view),
		"C copy report  R reset  H hide",
		fmt.Sprintf("live birds: %d", len(g.host.Birds())),
	}

	const padX, padY = 6, 4
	maxLen := 0
	for _, l := range lines {
		if len(l) > maxLen {
			maxLen = len(l)
		}
	}
	boxW := float32(maxLen*charWidth + padX*2)
	boxH := float32(len(lines)*lineHeight + padY*2)
	bx := float32(g.offX + 6)
	by := float32(g.offY + 6)

	vector.FillRect(screen, bx, by, boxW, boxH, color.RGBA{R: 6, G: 10, B: 12, A: 190}, false)
	vector.StrokeRect(screen, bx, by, boxW, boxH, 1.0, colorBorder, false)
	for i, l := range lines {
		drawText(screen, l, int(bx)+padX, int(by)+padY+i*lineHeight, colorText)
	}
}

// drawEncyclopedia renders the species overlay; locked entries are hidden.
func (g *Game) drawEncyclopedia(screen *ebiten.Image) {
	w, h := float32(560), float32(70+len(Catalog)*90)
	x := float32(g.offX) + (sceneWidth-w)/2
	y := float32(g.offY) + (sceneHeight-h)/2
	vector.FillRect(screen, x, y, w, h, color.RGBA{R: 8, G: 14, B: 16, A: 245}, false)
	vector.StrokeRect(screen, x, y, w, h, 2, colorPanelTitle, false)

	tx, ty := int(x)+14, int(y)+10
	drawText(screen, fmt.Sprintf("BIRD ENCYCLOPEDIA  (%d/%d unlocked)   E = close", len(g.campaign.State().Unlocked), len(Catalog)), tx, ty, colorPanelTitle)
	ty += 2 * lineHeight

	cols := int(w-28) / charWidth
	for _, sp := range Catalog {
		if !g.campaign.IsUnlocked(sp.ID) {
			drawText(screen, "??? - solve a hazard to unlock", tx, ty, colorDim)
			ty += 90
			continue
		}
		rarityCol := colorText
		switch sp.Rarity {
		case RarityEndangered:
			rarityCol = colorDeath
		case RarityRare:
			rarityCol = colorWarn
		}
		drawText(screen, fmt.Sprintf("%s (%s)", sp.Name, sp.ScientificName), tx, ty, colorText)
		drawText(screen, sp.Rarity.String(), int(x+w)-14-len(sp.Rarity.String())*charWidth, ty, rarityCol)
		ly := ty + lineHeight
		for _, l := range wrapText(sp.Description, cols) {
			drawText(screen, l, tx, ly, colorDim)
			ly += lineHeight
		}
		ty += 90
	}
}
