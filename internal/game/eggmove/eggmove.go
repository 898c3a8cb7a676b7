// Package eggmove holds the static egg move records.
package eggmove

import (
	"github.com/roguedex/gamedata/internal/game/move"
	"github.com/roguedex/gamedata/internal/game/species"
)

// MovesPerSpecies is the exact number of egg moves a species declares.
const MovesPerSpecies = 4

// Record lists the egg moves of one base-stage species, in display order.
type Record struct {
	Species species.ID `json:"species"`
	Moves   []move.ID  `json:"moves"`
}
