package game

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/Bird-Sense/internal/sim"
)

const (
	// elevationScale lifts a bird on screen by this many pixels per unit of Z.
	elevationScale = 0.35
	// birdViewZoom is the camera zoom around the hazard in bird view.
	birdViewZoom = 1.8
	// wobbleAmp is the peak cosmetic wobble in pixels.
	wobbleAmp = 3.0
)

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colorWindow)

	g.sceneBuf.Clear()
	g.drawScene(g.sceneBuf)

	// Camera: identity normally, zoomed around the hazard anchor in bird view.
	// viewBuf clips the zoomed scene to the viewport.
	var cam ebiten.DrawImageOptions
	if g.campaign.State().BirdView {
		ax, ay := scenePoint(sim.HazardAnchor.X, sim.HazardAnchor.Y, 0)
		cam.GeoM.Translate(-float64(ax), -float64(ay))
		cam.GeoM.Scale(birdViewZoom, birdViewZoom)
		cam.GeoM.Translate(sceneWidth/2, sceneHeight/2)
	}
	g.viewBuf.Clear()
	g.viewBuf.DrawImage(g.sceneBuf, &cam)

	var blit ebiten.DrawImageOptions
	blit.GeoM.Translate(float64(g.offX), float64(g.offY))
	screen.DrawImage(g.viewBuf, &blit)

	ox, oy := float32(g.offX), float32(g.offY)
	vector.StrokeRect(screen, ox-1, oy-1, sceneWidth+2, sceneHeight+2, 2.0, colorBorder, false)

	g.drawTopBar(screen)
	g.drawPanel(screen)
	g.feed.Draw(screen, g.offX+sceneWidth+borderWidth, g.height)

	if g.showHUD {
		g.drawHUD(screen)
	}
	if g.showEncyclopedia {
		g.drawEncyclopedia(screen)
	}
}

// scenePoint maps percentage coordinates and elevation to scene pixels.
func scenePoint(x, y, z float64) (float32, float32) {
	px := x / 100 * sceneWidth
	py := y/100*sceneHeight - z*elevationScale
	return float32(px), float32(py)
}

func (g *Game) drawScene(dst *ebiten.Image) {
	stage := g.campaign.Stage()
	st := g.campaign.State()

	dst.Fill(skyColor(stage))
	g.drawSkyline(dst, stage)

	if stage.Simulated() {
		rule := g.host.Rule(stage)
		g.drawHazard(dst, rule.Hazard, st.Solved)
		g.drawBirds(dst)
	}

	if g.campaign.Crisis() {
		a := uint8(40)
		if g.campaign.DeathFlash() {
			a = 90
		}
		vector.FillRect(dst, 0, 0, sceneWidth, sceneHeight, color.RGBA{R: 200, G: 20, B: 20, A: a}, false)
	}
	if st.Solved {
		vector.StrokeRect(dst, 2, 2, sceneWidth-4, sceneHeight-4, 3, colorSolved, false)
	}
}

func skyColor(stage sim.Stage) color.RGBA {
	switch stage {
	case sim.StageCollision:
		return color.RGBA{R: 150, G: 200, B: 235, A: 255}
	case sim.StageAttraction:
		return color.RGBA{R: 14, G: 18, B: 44, A: 255}
	case sim.StageObstruction:
		return color.RGBA{R: 214, G: 150, B: 110, A: 255}
	default:
		return color.RGBA{R: 220, G: 240, B: 236, A: 255}
	}
}

// drawSkyline renders a fixed row of background blocks plus ground.
func (g *Game) drawSkyline(dst *ebiten.Image, stage sim.Stage) {
	ground := float32(sceneHeight) * 0.86
	vector.FillRect(dst, 0, ground, sceneWidth, sceneHeight-ground, color.RGBA{R: 70, G: 110, B: 70, A: 255}, false)

	shade := color.RGBA{R: 90, G: 100, B: 115, A: 255}
	if stage == sim.StageAttraction {
		shade = color.RGBA{R: 30, G: 34, B: 56, A: 255}
	}
	heights := []float32{120, 180, 90, 210, 150, 110, 240, 130, 170, 100}
	w := float32(sceneWidth) / float32(len(heights))
	for i, h := range heights {
		x := float32(i) * w
		vector.FillRect(dst, x+6, ground-h, w-12, h, shade, false)
	}
}

func (g *Game) drawHazard(dst *ebiten.Image, h sim.Hazard, solved bool) {
	ax, ay := scenePoint(h.Anchor.X, h.Anchor.Y, 0)
	switch h.Kind {
	case sim.HazardCollision:
		// Glass tower occupying the strike box.
		left, top := scenePoint(h.Anchor.X-h.Box.Left, h.Anchor.Y-h.Box.Up, 0)
		right, bottom := scenePoint(h.Anchor.X+h.Box.Right, h.Anchor.Y+h.Box.Down, 0)
		_, roof := scenePoint(0, h.Anchor.Y-h.Box.Up, h.Ceiling)
		vector.FillRect(dst, left, roof, right-left, bottom-roof, color.RGBA{R: 120, G: 190, B: 220, A: 200}, false)
		vector.StrokeRect(dst, left, roof, right-left, bottom-roof, 2, color.RGBA{R: 220, G: 245, B: 255, A: 255}, false)
		vector.StrokeRect(dst, left, top, right-left, bottom-top, 1, colorHazardOutline, false)
		if solved {
			// 5x10 dot grid.
			for y := roof + 6; y < bottom-4; y += 10 {
				for x := left + 5; x < right-3; x += 5 {
					vector.FillCircle(dst, x, y, 1.2, color.RGBA{R: 250, G: 250, B: 250, A: 230}, true)
				}
			}
		}

	case sim.HazardAttraction:
		pxPerUnit := float32(sceneWidth) / 100
		glow := color.RGBA{R: 255, G: 240, B: 160, A: 70}
		core := color.RGBA{R: 255, G: 250, B: 210, A: 230}
		if solved {
			glow = color.RGBA{R: 255, G: 190, B: 110, A: 25}
			core = color.RGBA{R: 255, G: 190, B: 110, A: 160}
		}
		vector.FillCircle(dst, ax, ay, float32(h.OuterRadius)*pxPerUnit, glow, true)
		vector.FillCircle(dst, ax, ay, float32(h.InnerRadius)*pxPerUnit, core, true)
		if !solved {
			// Searchlight beam.
			vector.StrokeLine(dst, ax, ay, ax-60, 0, 10, glow, true)
			vector.StrokeLine(dst, ax, ay, ax+60, 0, 10, glow, true)
		}

	case sim.HazardObstruction:
		left, _ := scenePoint(h.Anchor.X-h.Box.Left, 0, 0)
		right, _ := scenePoint(h.Anchor.X+h.Box.Right, 0, 0)
		for _, dz := range []float64{-h.BandHalfWidth / 2, 0, h.BandHalfWidth / 2} {
			_, wy := scenePoint(0, h.Anchor.Y, h.BandCenter+dz)
			vector.StrokeLine(dst, left, wy, right, wy+8, 1.5, color.RGBA{R: 40, G: 40, B: 40, A: 255}, true)
			if solved {
				for x := left + 20; x < right; x += 40 {
					t := (x - left) / (right - left)
					vector.FillCircle(dst, x, wy+8*t, 5, color.RGBA{R: 255, G: 120, B: 30, A: 255}, true)
				}
			}
		}
		// Pylons.
		_, top := scenePoint(0, h.Anchor.Y, h.BandCenter+h.BandHalfWidth)
		_, base := scenePoint(0, h.Anchor.Y+h.Box.Down, 0)
		vector.StrokeLine(dst, left, top, left, base, 3, colorPylon, false)
		vector.StrokeLine(dst, right, top+8, right, base, 3, colorPylon, false)
	}
}

func (g *Game) drawBirds(dst *ebiten.Image) {
	for _, b := range g.host.Birds() {
		px, py := scenePoint(b.X, b.Y, b.Z)
		if !b.Dying() {
			py += float32(g.noise.Noise1D(b.Phase+float64(g.frame)*0.03) * wobbleAmp)
		}

		// Ground shadow.
		sx, sy := scenePoint(b.X, b.Y, 0)
		vector.FillCircle(dst, sx, sy, 2.5, color.RGBA{A: 50}, false)

		if b.Dying() {
			fade := uint8(255)
			if b.Falling() {
				fade = uint8(math.Max(60, 255-float64(b.DeathTimer-15)*8))
			}
			vector.FillCircle(dst, px, py, 4, color.RGBA{R: 200, G: 40, B: 40, A: fade}, true)
			continue
		}
		bodyCol := colorBird
		if skyColor(g.campaign.Stage()).R < 50 {
			bodyCol = colorBirdNight
		}
		// Body plus two wing strokes that flap with the phase.
		flap := float32(math.Sin(b.Phase+float64(g.frame)*0.3)) * 3
		vector.StrokeLine(dst, px-6, py-flap, px, py, 1.5, bodyCol, true)
		vector.StrokeLine(dst, px, py, px+6, py-flap, 1.5, bodyCol, true)
		vector.FillCircle(dst, px, py, 2, bodyCol, true)
	}
}
