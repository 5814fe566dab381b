package sim

import (
	"math/rand"
	"time"
)

// Simulator owns the live bird set and advances it one tick at a time.
// It is not safe for concurrent use; the host drives it from a single loop.
type Simulator struct {
	rules  Rules
	rng    *rand.Rand
	birds  []Bird
	nextID int
	tick   int
	stats  Stats
}

// Option configures a Simulator.
type Option func(*Simulator)

// WithSeed seeds the spawn RNG for reproducible runs.
func WithSeed(seed int64) Option {
	return func(s *Simulator) {
		s.rng = rand.New(rand.NewSource(seed)) // #nosec G404 -- gameplay randomness
	}
}

// WithRand injects a caller-owned random source.
func WithRand(rng *rand.Rand) Option {
	return func(s *Simulator) {
		if rng != nil {
			s.rng = rng
		}
	}
}

// WithRules replaces the default stage rule table.
func WithRules(r Rules) Option {
	return func(s *Simulator) {
		if r != nil {
			s.rules = r
		}
	}
}

// New creates a simulator with the default rules and a time-seeded RNG.
func New(opts ...Option) *Simulator {
	s := &Simulator{
		rules: DefaultRules(),
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())), // #nosec G404 -- gameplay randomness
		birds: make([]Bird, 0, MaxBirds),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Step advances every live bird, spawns at most one new bird and enforces the
// live-set cap. Events are returned rather than delivered so the caller decides
// how fates are counted.
func (s *Simulator) Step(stage Stage, resolved bool) StepResult {
	s.tick++
	rule := s.rules.For(stage)

	res := StepResult{Tick: s.tick}

	// 1. Advance and collide.
	var deaths, saved []int
	s.birds, deaths, saved = Advance(s.birds, rule.Hazard, resolved)
	for _, id := range deaths {
		res.Events = append(res.Events, NewDeathEvent(s.tick, stage, id))
	}
	for _, id := range saved {
		res.Events = append(res.Events, NewSavedEvent(s.tick, stage, id))
	}
	res.Deaths = len(deaths)
	res.Saved = len(saved)

	// 2. Spawn.
	if rule.SpawnRate > 0 && s.rng.Float64() < rule.SpawnRate {
		s.birds = append(s.birds, s.spawnBird())
		res.Spawned = 1
	}

	// 3. Backpressure: keep only the newest MaxBirds.
	if over := len(s.birds) - MaxBirds; over > 0 {
		s.birds = append(s.birds[:0], s.birds[over:]...)
		res.Dropped = over
	}

	s.stats.Ticks++
	s.stats.Spawned += res.Spawned
	s.stats.Deaths += res.Deaths
	s.stats.Saved += res.Saved
	s.stats.Dropped += res.Dropped
	return res
}

func (s *Simulator) spawnBird() Bird {
	b := Bird{
		ID:     s.nextID,
		X:      spawnX,
		Y:      spawnYMin + s.rng.Float64()*spawnYRange,
		Z:      spawnZMin + s.rng.Float64()*spawnZRange,
		Speed:  spawnSpeedMin + s.rng.Float64()*spawnSpeedVar,
		Status: StatusFlying,
		Phase:  s.rng.Float64() * spawnPhaseMax,
	}
	s.nextID++
	return b
}

// Advance moves each bird one tick and applies the hazard unless resolved.
// It returns the surviving birds and the IDs of birds that started dying or
// left the playfield this tick. Advance reuses the backing array of birds.
func Advance(birds []Bird, hazard Hazard, resolved bool) (next []Bird, deaths, saved []int) {
	next = birds[:0]
	for _, b := range birds {
		if b.Status == StatusDying {
			b.DeathTimer++
			if b.DeathTimer < deathHoldTicks {
				next = append(next, b)
				continue
			}
			b.Z -= fallPerTick
			if b.Z > fallFloor {
				next = append(next, b)
			}
			continue
		}

		x := b.X + b.Speed
		y := b.Y + b.Speed*driftRatio
		struck := false
		if !resolved {
			x, y, struck = hazard.Evaluate(x, y, b.Z)
		}
		b.X, b.Y = x, y

		if struck {
			// Death wins over a same-tick exit.
			b.Status = StatusDying
			b.DeathTimer = 0
			deaths = append(deaths, b.ID)
			next = append(next, b)
			continue
		}
		if x > exitX || y > exitY {
			saved = append(saved, b.ID)
			continue
		}
		next = append(next, b)
	}
	return next, deaths, saved
}

// Inject adds birds to the live set with freshly assigned IDs and returns them.
// The cap is enforced on the next Step.
func (s *Simulator) Inject(birds ...Bird) []Bird {
	out := make([]Bird, 0, len(birds))
	for _, b := range birds {
		b.ID = s.nextID
		s.nextID++
		s.birds = append(s.birds, b)
		out = append(out, b)
	}
	s.stats.Spawned += len(out)
	return out
}

// Birds returns a copy of the live set, oldest first.
func (s *Simulator) Birds() []Bird {
	out := make([]Bird, len(s.birds))
	copy(out, s.birds)
	return out
}

// Bird looks up a live bird by ID.
func (s *Simulator) Bird(id int) (Bird, bool) {
	for _, b := range s.birds {
		if b.ID == id {
			return b, true
		}
	}
	return Bird{}, false
}

// Len returns the number of live birds.
func (s *Simulator) Len() int {
	return len(s.birds)
}

// Tick returns the number of steps taken.
func (s *Simulator) Tick() int {
	return s.tick
}

// Stats returns lifetime totals.
func (s *Simulator) Stats() Stats {
	return s.stats
}

// Rules returns the rule table in use.
func (s *Simulator) Rules() Rules {
	return s.rules
}
