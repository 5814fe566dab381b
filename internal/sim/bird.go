package sim

// BirdStatus is the lifecycle state of a live bird.
type BirdStatus int

const (
	StatusFlying BirdStatus = iota
	StatusDying
)

func (s BirdStatus) String() string {
	switch s {
	case StatusFlying:
		return "flying"
	case StatusDying:
		return "dying"
	default:
		return "unknown"
	}
}

// Bird is one simulated flying agent.
type Bird struct {
	ID         int
	X, Y       float64 // percent of viewport
	Z          float64 // elevation, pixel-scale depth
	Speed      float64 // horizontal advance per tick
	Status     BirdStatus
	DeathTimer int     // ticks spent dying
	Phase      float64 // cosmetic only
}

// Dying reports whether the bird has been struck.
func (b Bird) Dying() bool {
	return b.Status == StatusDying
}

// Falling reports whether a dying bird has finished its impact pause.
func (b Bird) Falling() bool {
	return b.Status == StatusDying && b.DeathTimer >= deathHoldTicks
}

// Movement and lifecycle constants.
const (
	// MaxBirds caps the live set; the oldest birds are dropped first.
	MaxBirds = 30

	driftRatio = 0.55

	deathHoldTicks = 15
	fallPerTick    = 10.0
	fallFloor      = -100.0

	exitX = 130.0
	exitY = 130.0

	spawnX        = -15.0
	spawnYMin     = 10.0
	spawnYRange   = 40.0
	spawnZMin     = 100.0
	spawnZRange   = 80.0
	spawnSpeedMin = 0.18
	spawnSpeedVar = 0.22
	spawnPhaseMax = 10.0
)
