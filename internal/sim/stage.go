package sim

import "strings"

// Stage identifies which scenario the scene is showing.
type Stage int

const (
	StageStart Stage = iota
	StageCollision
	StageAttraction
	StageObstruction
	StageSummary
)

// Stages lists every stage in play order.
var Stages = []Stage{StageStart, StageCollision, StageAttraction, StageObstruction, StageSummary}

// HazardStages lists the stages that run the bird simulation.
var HazardStages = []Stage{StageCollision, StageAttraction, StageObstruction}

func (s Stage) String() string {
	switch s {
	case StageStart:
		return "start"
	case StageCollision:
		return "collision"
	case StageAttraction:
		return "attraction"
	case StageObstruction:
		return "obstruction"
	case StageSummary:
		return "summary"
	default:
		return "unknown"
	}
}

// Simulated reports whether birds fly during this stage.
func (s Stage) Simulated() bool {
	return s == StageCollision || s == StageAttraction || s == StageObstruction
}

// Next returns the stage that follows s. Summary is terminal.
func (s Stage) Next() Stage {
	for i, st := range Stages {
		if st == s && i < len(Stages)-1 {
			return Stages[i+1]
		}
	}
	return s
}

// ParseStage maps a stage name back to its value.
func ParseStage(name string) (Stage, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, st := range Stages {
		if st.String() == name {
			return st, true
		}
	}
	return StageStart, false
}
