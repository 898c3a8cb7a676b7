package dexindex

import (
	"fmt"

	"github.com/roguedex/gamedata/internal/game/evolution"
	"github.com/roguedex/gamedata/internal/game/species"
	apperrors "github.com/roguedex/gamedata/internal/platform/errors"
)

// Prevolutions maps an evolved species to the species it evolves from.
type Prevolutions struct {
	parents map[species.ID]species.ID
}

// BuildPrevolutions derives the prevolution index from evolution records.
func BuildPrevolutions(table *species.Table, evolutions []evolution.Evolution) (*Prevolutions, error) {
	parents := make(map[species.ID]species.ID, len(evolutions))
	for _, evo := range evolutions {
		if !table.Has(evo.Source) {
			return nil, unknownReference("evolution", evo.Key(), speciesRef(evo.Source),
				fmt.Sprintf("evolution %s: unknown source species %d", evo.Key(), evo.Source))
		}
		if !table.Has(evo.Target) {
			return nil, unknownReference("evolution", evo.Key(), speciesRef(evo.Target),
				fmt.Sprintf("evolution %s: unknown target species %d", evo.Key(), evo.Target))
		}
		if parent, ok := parents[evo.Target]; ok && parent != evo.Source {
			return nil, apperrors.WithMetadata(
				apperrors.CodeConflictingReference,
				fmt.Sprintf("species %d evolves from both %d and %d", evo.Target, parent, evo.Source),
				map[string]string{"domain": "evolution", "id": itoa(evo.Target)},
			)
		}
		parents[evo.Target] = evo.Source
	}

	for child := range parents {
		steps := 0
		for current, ok := parents[child]; ok; current, ok = parents[current] {
			steps++
			if current == child || steps > len(parents) {
				return nil, invalidRecord("evolution", itoa(child),
					fmt.Sprintf("species %d is part of an evolution cycle", child))
			}
		}
	}
	return &Prevolutions{parents: parents}, nil
}

// Of returns the species id evolves from. The second result is false for
// base-stage species.
func (p *Prevolutions) Of(id species.ID) (species.ID, bool) {
	if p == nil {
		return 0, false
	}
	parent, ok := p.parents[id]
	return parent, ok
}

// IsBaseStage reports whether id has no prevolution.
func (p *Prevolutions) IsBaseStage(id species.ID) bool {
	_, ok := p.Of(id)
	return !ok
}

// Len returns the number of evolved species.
func (p *Prevolutions) Len() int {
	if p == nil {
		return 0
	}
	return len(p.parents)
}

// Map returns a copy of the child to parent mapping.
func (p *Prevolutions) Map() map[species.ID]species.ID {
	out := make(map[species.ID]species.ID, p.Len())
	if p == nil {
		return out
	}
	for child, parent := range p.parents {
		out[child] = parent
	}
	return out
}
