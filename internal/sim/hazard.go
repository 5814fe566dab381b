package sim

import "math"

// HazardKind selects the zone shape a Hazard tests against.
type HazardKind int

const (
	HazardNone HazardKind = iota
	HazardCollision
	HazardAttraction
	HazardObstruction
)

func (k HazardKind) String() string {
	switch k {
	case HazardNone:
		return "none"
	case HazardCollision:
		return "collision"
	case HazardAttraction:
		return "attraction"
	case HazardObstruction:
		return "obstruction"
	default:
		return "unknown"
	}
}

// Vec2 is a point in percentage-of-viewport coordinates.
type Vec2 struct {
	X, Y float64
}

// Box is an open rectangle expressed as offsets from an anchor.
type Box struct {
	Left, Right float64 // anchor.X - Left < x < anchor.X + Right
	Up, Down    float64 // anchor.Y - Up   < y < anchor.Y + Down
}

// Contains reports whether (x, y) lies strictly inside the box placed at anchor.
func (b Box) Contains(anchor Vec2, x, y float64) bool {
	return x > anchor.X-b.Left && x < anchor.X+b.Right &&
		y > anchor.Y-b.Up && y < anchor.Y+b.Down
}

// Hazard is the per-stage zone record. Only the fields relevant to Kind are read.
type Hazard struct {
	Kind   HazardKind
	Anchor Vec2

	// Collision and obstruction.
	Box Box

	// Collision: birds below this elevation hit the glass.
	Ceiling float64

	// Attraction: pull inside OuterRadius, kill inside InnerRadius.
	OuterRadius float64
	InnerRadius float64
	Pull        float64 // fraction of the gap to the anchor closed per tick

	// Obstruction: wire band |z - BandCenter| < BandHalfWidth.
	BandCenter    float64
	BandHalfWidth float64
}

// Evaluate tests a candidate position against the hazard. It returns the possibly
// adjusted position and whether the bird was struck this tick.
func (h Hazard) Evaluate(x, y, z float64) (nx, ny float64, hit bool) {
	switch h.Kind {
	case HazardCollision:
		hit = h.Box.Contains(h.Anchor, x, y) && z < h.Ceiling
		return x, y, hit
	case HazardAttraction:
		dx := h.Anchor.X - x
		dy := h.Anchor.Y - y
		dist := math.Sqrt(dx*dx + dy*dy)
		if dist < h.OuterRadius {
			x += dx * h.Pull
			y += dy * h.Pull
			// Inner test uses the distance before the pull.
			hit = dist < h.InnerRadius
		}
		return x, y, hit
	case HazardObstruction:
		hit = math.Abs(z-h.BandCenter) < h.BandHalfWidth && h.Box.Contains(h.Anchor, x, y)
		return x, y, hit
	default:
		return x, y, false
	}
}

// StageRule bundles the spawn rate and hazard for one stage.
type StageRule struct {
	SpawnRate float64
	Hazard    Hazard
}

// Rules maps each stage to its rule. Missing stages fall back to the zero rule.
type Rules map[Stage]StageRule

// For returns the rule for stage. Unknown stages get no hazard and no spawns.
func (r Rules) For(stage Stage) StageRule {
	rule, ok := r[stage]
	if !ok {
		return StageRule{}
	}
	return rule
}

// HazardAnchor is the scene point every stage hazard is placed around.
var HazardAnchor = Vec2{X: 38, Y: 68}

const (
	defaultSpawnRate = 0.075

	glassCeiling = 180.0

	lightOuterRadius = 18.0
	lightInnerRadius = 3.0
	lightPull        = 0.07

	wireHeight   = 145.0
	wireHalfBand = 12.0
)

// DefaultRules returns the rule table used by the game.
func DefaultRules() Rules {
	return Rules{
		StageCollision: {
			SpawnRate: defaultSpawnRate,
			Hazard: Hazard{
				Kind:    HazardCollision,
				Anchor:  HazardAnchor,
				Box:     Box{Left: 6, Right: 6, Up: 6, Down: 12},
				Ceiling: glassCeiling,
			},
		},
		StageAttraction: {
			SpawnRate: defaultSpawnRate,
			Hazard: Hazard{
				Kind:        HazardAttraction,
				Anchor:      HazardAnchor,
				OuterRadius: lightOuterRadius,
				InnerRadius: lightInnerRadius,
				Pull:        lightPull,
			},
		},
		StageObstruction: {
			SpawnRate: defaultSpawnRate,
			Hazard: Hazard{
				Kind:          HazardObstruction,
				Anchor:        HazardAnchor,
				Box:           Box{Left: 20, Right: 30, Up: 20, Down: 30},
				BandCenter:    wireHeight,
				BandHalfWidth: wireHalfBand,
			},
		},
	}
}
