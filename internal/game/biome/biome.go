// Package biome holds the static biome definitions.
package biome

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/roguedex/gamedata/internal/game/species"
	apperrors "github.com/roguedex/gamedata/internal/platform/errors"
)

// ID identifies a biome. IDs are dense and start at 0 (the starting town).
type ID uint8

// Tier ranks an encounter pool by rarity.
type Tier uint8

const (
	Common Tier = iota + 1
	Uncommon
	Rare
	SuperRare
	UltraRare
	Boss
	BossRare
	BossSuperRare
	BossUltraRare
)

var tierNames = map[Tier]string{
	Common:        "common",
	Uncommon:      "uncommon",
	Rare:          "rare",
	SuperRare:     "super_rare",
	UltraRare:     "ultra_rare",
	Boss:          "boss",
	BossRare:      "boss_rare",
	BossSuperRare: "boss_super_rare",
	BossUltraRare: "boss_ultra_rare",
}

// String returns the snake_case tier name.
func (t Tier) String() string {
	if name, ok := tierNames[t]; ok {
		return name
	}
	return "tier(" + strconv.Itoa(int(t)) + ")"
}

// MarshalText implements encoding.TextMarshaler.
func (t Tier) MarshalText() ([]byte, error) {
	name, ok := tierNames[t]
	if !ok {
		return nil, fmt.Errorf("cannot marshal biome tier %d", uint8(t))
	}
	return []byte(name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Tier) UnmarshalText(text []byte) error {
	name := strings.ToLower(strings.TrimSpace(string(text)))
	for tier, candidate := range tierNames {
		if candidate == name {
			*t = tier
			return nil
		}
	}
	return fmt.Errorf("unknown biome tier %q", string(text))
}

// IsBoss reports whether the tier is drawn for boss waves.
func (t Tier) IsBoss() bool {
	return t >= Boss
}

// Link is a weighted edge to a following biome. A weight of N means the link
// is taken one time in N; 1 means always.
type Link struct {
	Target ID  `json:"target"`
	Weight int `json:"weight"`
}

// Pool is the set of species encountered at one tier.
type Pool struct {
	Tier    Tier         `json:"tier"`
	Species []species.ID `json:"species"`
}

// Biome is one biome definition.
type Biome struct {
	ID    ID     `json:"id"`
	Name  string `json:"name"`
	Links []Link `json:"links"`
	Pools []Pool `json:"pools"`
}

// SpeciesIDs returns every species listed in any pool, possibly repeated.
func (b Biome) SpeciesIDs() []species.ID {
	var ids []species.ID
	for _, pool := range b.Pools {
		ids = append(ids, pool.Species...)
	}
	return ids
}

// Table is an immutable biome table indexed by ID.
type Table struct {
	byID  []*Biome
	count int
}

// NewTable validates records, including links between biomes, and builds the
// table.
func NewTable(records []Biome) (*Table, error) {
	var maxID ID
	for _, record := range records {
		if record.ID > maxID {
			maxID = record.ID
		}
	}

	byID := make([]*Biome, int(maxID)+1)
	for i := range records {
		record := records[i]
		if err := validate(record); err != nil {
			return nil, err
		}
		if byID[record.ID] != nil {
			return nil, apperrors.WithMetadata(
				apperrors.CodeDuplicateID,
				fmt.Sprintf("duplicate biome id %d", record.ID),
				metadata(record.ID),
			)
		}
		byID[record.ID] = &record
	}

	for _, record := range byID {
		if record == nil {
			continue
		}
		for _, link := range record.Links {
			if int(link.Target) < len(byID) && byID[link.Target] != nil {
				continue
			}
			meta := metadata(record.ID)
			meta["reference"] = "biome:" + strconv.Itoa(int(link.Target))
			return nil, apperrors.WithMetadata(
				apperrors.CodeUnknownReference,
				fmt.Sprintf("biome %d links to unknown biome %d", record.ID, link.Target),
				meta,
			)
		}
	}
	return &Table{byID: byID, count: len(records)}, nil
}

func validate(record Biome) error {
	if strings.TrimSpace(record.Name) == "" {
		return invalid(record, "name is required")
	}
	seenLinks := make(map[ID]struct{}, len(record.Links))
	for _, link := range record.Links {
		if link.Target == record.ID {
			return invalid(record, "biome cannot link to itself")
		}
		if link.Weight < 1 {
			return invalid(record, "link weight must be positive")
		}
		if _, exists := seenLinks[link.Target]; exists {
			return invalid(record, "duplicate link target "+strconv.Itoa(int(link.Target)))
		}
		seenLinks[link.Target] = struct{}{}
	}
	seenTiers := make(map[Tier]struct{}, len(record.Pools))
	for _, pool := range record.Pools {
		if _, ok := tierNames[pool.Tier]; !ok {
			return invalid(record, "pool tier is required")
		}
		if _, exists := seenTiers[pool.Tier]; exists {
			return invalid(record, "duplicate pool tier "+pool.Tier.String())
		}
		seenTiers[pool.Tier] = struct{}{}
	}
	return nil
}

func invalid(record Biome, reason string) error {
	return apperrors.WithMetadata(
		apperrors.CodeInvalidRecord,
		fmt.Sprintf("biome %d: %s", record.ID, reason),
		metadata(record.ID),
	)
}

func metadata(id ID) map[string]string {
	return map[string]string{"domain": "biome", "id": strconv.Itoa(int(id))}
}

// Get returns the biome for id.
func (t *Table) Get(id ID) (Biome, bool) {
	if t == nil || int(id) >= len(t.byID) || t.byID[id] == nil {
		return Biome{}, false
	}
	return *t.byID[id], true
}

// Has reports whether id is defined.
func (t *Table) Has(id ID) bool {
	_, ok := t.Get(id)
	return ok
}

// Len returns the number of biomes.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return t.count
}

// IDs returns the defined IDs in ascending order.
func (t *Table) IDs() []ID {
	if t == nil {
		return nil
	}
	ids := make([]ID, 0, t.count)
	for id, record := range t.byID {
		if record != nil {
			ids = append(ids, ID(id))
		}
	}
	return ids
}
