package game

import "github.com/Garsondee/Bird-Sense/internal/sim"

// Choice is one mitigation the player can fund for a level.
type Choice struct {
	ID                 string
	Title              string
	Description        string
	Cost               int
	SatisfactionChange int
	SuccessRate        float64 // shown to the player; the simulation does not roll against it
	IsCorrect          bool
	Feedback           string
}

// Level is the scenario shown during one hazard stage.
type Level struct {
	Stage    sim.Stage
	Name     string
	Problem  string
	Scenario string
	Choices  []Choice
}

// Choice returns the choice with the given ID.
func (l Level) Choice(id string) (Choice, bool) {
	for _, c := range l.Choices {
		if c.ID == id {
			return c, true
		}
	}
	return Choice{}, false
}

// LevelFor returns the level played during stage.
func LevelFor(stage sim.Stage) (Level, bool) {
	l, ok := levels[stage]
	return l, ok
}

var levels = map[sim.Stage]Level{
	sim.StageCollision: {
		Stage:    sim.StageCollision,
		Name:     "Phantom Maze",
		Problem:  "Glass curtain walls in the business district",
		Scenario: "Mirrored towers stand beside a leafy park. Birds see the trees reflected in the glass and fly into the buildings at full speed.",
		Choices: []Choice{
			{
				ID:                 "A",
				Title:              "Scarecrows and wind chimes",
				Description:        "Hang traditional bird scarers outside the windows.",
				Cost:               200,
				SatisfactionChange: -5,
				SuccessRate:        0.1,
				IsCorrect:          false,
				Feedback:           "Failed. High-flying birds never see them and soon get used to them. Strikes stay high.",
			},
			{
				ID:                 "B",
				Title:              "Replace glass with concrete",
				Description:        "Tear out the glass and remove the reflection entirely.",
				Cost:               4000,
				SatisfactionChange: -50,
				SuccessRate:        1.0,
				IsCorrect:          false,
				Feedback:           "Failed. Residents are furious about losing daylight and the budget is nearly gone.",
			},
			{
				ID:                 "C",
				Title:              "Bird-safe dot film (5x10 rule)",
				Description:        "Apply a dot grid spaced no wider than a palm.",
				Cost:               1500,
				SatisfactionChange: -5,
				SuccessRate:        0.95,
				IsCorrect:          true,
				Feedback:           "Success! Birds spot the pattern on approach and swerve clear of the tower.",
			},
		},
	},
	sim.StageAttraction: {
		Stage:    sim.StageAttraction,
		Name:     "Light Trap",
		Problem:  "Light pollution confuses night migrants",
		Scenario: "The city blazes at night and searchlights sweep the sky. Migrants steer by starlight, and the glare leaves them circling until they are exhausted.",
		Choices: []Choice{
			{
				ID:                 "A",
				Title:              "Add more lighting",
				Description:        "Light up the birds' flight path.",
				Cost:               500,
				SatisfactionChange: 10,
				SuccessRate:        0.05,
				IsCorrect:          false,
				Feedback:           "Disaster. Even more birds are drawn in and strike in flocks.",
			},
			{
				ID:                 "B",
				Title:              "Air-raid sirens",
				Description:        "Scare the flock away with loud noise.",
				Cost:               100,
				SatisfactionChange: -30,
				SuccessRate:        0.2,
				IsCorrect:          false,
				Feedback:           "Failed. The noise is unbearable and panicked birds fly into walls.",
			},
			{
				ID:                 "C",
				Title:              "Lights-out plan and shielded lamps",
				Description:        "Switch off decorative lights and fit street lamps with warm, downward shields.",
				Cost:               800,
				SatisfactionChange: -10,
				SuccessRate:        0.9,
				IsCorrect:          true,
				Feedback:           "Success! The flock finds the stars again and heads off in a V formation.",
			},
		},
	},
	sim.StageObstruction: {
		Stage:    sim.StageObstruction,
		Name:     "Sky Snare",
		Problem:  "Power lines, kite string and drones",
		Scenario: "High-voltage lines cross the wetland park. Drones buzz overhead and abandoned kite string hangs from the treetops.",
		Choices: []Choice{
			{
				ID:                 "A",
				Title:              "Catch them with nets",
				Description:        "Send staff with hand nets to catch birds in the air.",
				Cost:               2000,
				SatisfactionChange: 5,
				SuccessRate:        0.01,
				IsCorrect:          false,
				Feedback:           "Comic and useless. It barely helps and disturbs the birds further.",
			},
			{
				ID:                 "B",
				Title:              "Close the park",
				Description:        "Ban people from the park entirely.",
				Cost:               500,
				SatisfactionChange: -60,
				SuccessRate:        0.7,
				IsCorrect:          false,
				Feedback:           "Partly effective, but it sparks mass protests.",
			},
			{
				ID:                 "C",
				Title:              "Mark the lines and manage the airspace",
				Description:        "Hang marker balls, clear kite string and declare a no-drone zone.",
				Cost:               600,
				SatisfactionChange: -5,
				SuccessRate:        0.98,
				IsCorrect:          true,
				Feedback:           "Success! Birds see the markers from afar and climb over the wires.",
			},
		},
	},
}
