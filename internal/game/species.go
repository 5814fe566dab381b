package game

import "github.com/Garsondee/Bird-Sense/internal/sim"

// Rarity grades a species' conservation status.
type Rarity int

const (
	RarityCommon Rarity = iota
	RarityRare
	RarityEndangered
)

func (r Rarity) String() string {
	switch r {
	case RarityCommon:
		return "Common"
	case RarityRare:
		return "Rare"
	case RarityEndangered:
		return "Endangered"
	default:
		return "Unknown"
	}
}

// Species is one encyclopedia entry.
type Species struct {
	ID             string
	Name           string
	ScientificName string
	Description    string
	Rarity         Rarity
}

// Catalog lists every species in encyclopedia order.
var Catalog = []Species{
	{
		ID:             "oriental-stork",
		Name:           "Oriental Stork",
		ScientificName: "Ciconia boyciana",
		Description:    "A large wading bird and a globally endangered species. It nests on high perches and is easily caught by power lines.",
		Rarity:         RarityEndangered,
	},
	{
		ID:             "fairy-pitta",
		Name:           "Fairy Pitta",
		ScientificName: "Pitta nympha",
		Description:    "A brilliantly coloured forest migrant. It flies low and often strikes mirrored buildings.",
		Rarity:         RarityRare,
	},
	{
		ID:             "bluethroat",
		Name:           "Bluethroat",
		ScientificName: "Luscinia svecica",
		Description:    "Named for its vivid blue throat. It migrates at night and is easily misled by artificial light.",
		Rarity:         RarityCommon,
	},
}

// stageSpecies maps a hazard stage to the species its correct fix unlocks.
var stageSpecies = map[sim.Stage]string{
	sim.StageCollision:   "fairy-pitta",
	sim.StageAttraction:  "bluethroat",
	sim.StageObstruction: "oriental-stork",
}

// SpeciesForStage returns the ID unlocked by solving stage.
func SpeciesForStage(stage sim.Stage) (string, bool) {
	id, ok := stageSpecies[stage]
	return id, ok
}

// SpeciesByID looks up a catalog entry.
func SpeciesByID(id string) (Species, bool) {
	for _, s := range Catalog {
		if s.ID == id {
			return s, true
		}
	}
	return Species{}, false
}
