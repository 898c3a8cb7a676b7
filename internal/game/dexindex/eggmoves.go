package dexindex

import (
	"fmt"

	"github.com/roguedex/gamedata/internal/game/eggmove"
	"github.com/roguedex/gamedata/internal/game/move"
	"github.com/roguedex/gamedata/internal/game/species"
	apperrors "github.com/roguedex/gamedata/internal/platform/errors"
)

// EggMoves maps base-stage species to their ordered egg moves.
type EggMoves struct {
	moves map[species.ID][]move.ID
}

// BuildEggMoves validates egg move records against the species, move, and
// prevolution tables.
func BuildEggMoves(table *species.Table, moves *move.Table, prevolutions *Prevolutions, records []eggmove.Record) (*EggMoves, error) {
	index := make(map[species.ID][]move.ID, len(records))
	for _, record := range records {
		id := itoa(record.Species)
		if !table.Has(record.Species) {
			return nil, unknownReference("eggmove", id, speciesRef(record.Species),
				fmt.Sprintf("egg moves declared for unknown species %d", record.Species))
		}
		if parent, ok := prevolutions.Of(record.Species); ok {
			return nil, invalidRecord("eggmove", id,
				fmt.Sprintf("species %d evolves from %d and cannot declare egg moves", record.Species, parent))
		}
		if _, exists := index[record.Species]; exists {
			return nil, apperrors.WithMetadata(apperrors.CodeDuplicateID,
				fmt.Sprintf("egg moves declared twice for species %d", record.Species),
				map[string]string{"domain": "eggmove", "id": id})
		}
		if len(record.Moves) != eggmove.MovesPerSpecies {
			return nil, invalidRecord("eggmove", id,
				fmt.Sprintf("species %d lists %d egg moves, want %d", record.Species, len(record.Moves), eggmove.MovesPerSpecies))
		}

		seen := make(map[move.ID]struct{}, len(record.Moves))
		for _, moveID := range record.Moves {
			if !moves.Has(moveID) {
				return nil, unknownReference("eggmove", id, "move:"+itoa(moveID),
					fmt.Sprintf("species %d lists unknown egg move %d", record.Species, moveID))
			}
			if _, exists := seen[moveID]; exists {
				return nil, invalidRecord("eggmove", id,
					fmt.Sprintf("species %d lists egg move %d twice", record.Species, moveID))
			}
			seen[moveID] = struct{}{}
		}

		ordered := make([]move.ID, len(record.Moves))
		copy(ordered, record.Moves)
		index[record.Species] = ordered
	}
	return &EggMoves{moves: index}, nil
}

// Of returns the egg moves of id, or nil when it declares none.
func (e *EggMoves) Of(id species.ID) []move.ID {
	if e == nil {
		return nil
	}
	moves, ok := e.moves[id]
	if !ok {
		return nil
	}
	out := make([]move.ID, len(moves))
	copy(out, moves)
	return out
}

// Len returns the number of species with egg moves.
func (e *EggMoves) Len() int {
	if e == nil {
		return 0
	}
	return len(e.moves)
}

// Map returns a copy of the index.
func (e *EggMoves) Map() map[species.ID][]move.ID {
	out := make(map[species.ID][]move.ID, e.Len())
	if e == nil {
		return out
	}
	for id := range e.moves {
		out[id] = e.Of(id)
	}
	return out
}
