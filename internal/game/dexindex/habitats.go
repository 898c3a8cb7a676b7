package dexindex

import (
	"fmt"
	"sort"

	"github.com/roguedex/gamedata/internal/game/biome"
	"github.com/roguedex/gamedata/internal/game/species"
)

// Habitats maps each species to the biomes it can be encountered in.
type Habitats struct {
	biomes map[species.ID][]biome.ID
}

// BuildHabitats inverts the biome encounter pools.
func BuildHabitats(table *species.Table, biomes *biome.Table) (*Habitats, error) {
	sets := make(map[species.ID]map[biome.ID]struct{})
	for _, biomeID := range biomes.IDs() {
		record, _ := biomes.Get(biomeID)
		for _, speciesID := range record.SpeciesIDs() {
			if !table.Has(speciesID) {
				return nil, unknownReference("biome", itoa(biomeID), speciesRef(speciesID),
					fmt.Sprintf("biome %d pools unknown species %d", biomeID, speciesID))
			}
			if sets[speciesID] == nil {
				sets[speciesID] = make(map[biome.ID]struct{})
			}
			sets[speciesID][biomeID] = struct{}{}
		}
	}

	index := make(map[species.ID][]biome.ID, len(sets))
	for speciesID, set := range sets {
		ids := make([]biome.ID, 0, len(set))
		for id := range set {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		index[speciesID] = ids
	}
	return &Habitats{biomes: index}, nil
}

// Of returns the sorted biomes where id appears.
func (h *Habitats) Of(id species.ID) []biome.ID {
	if h == nil {
		return nil
	}
	ids, ok := h.biomes[id]
	if !ok {
		return nil
	}
	out := make([]biome.ID, len(ids))
	copy(out, ids)
	return out
}

// Len returns the number of species found in at least one biome.
func (h *Habitats) Len() int {
	if h == nil {
		return 0
	}
	return len(h.biomes)
}

// Map returns a copy of the index.
func (h *Habitats) Map() map[species.ID][]biome.ID {
	out := make(map[species.ID][]biome.ID, h.Len())
	if h == nil {
		return out
	}
	for id := range h.biomes {
		out[id] = h.Of(id)
	}
	return out
}
