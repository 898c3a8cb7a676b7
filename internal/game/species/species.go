// Package species holds the static species definitions.
package species

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/roguedex/gamedata/internal/game/ability"
	"github.com/roguedex/gamedata/internal/game/poketype"
	apperrors "github.com/roguedex/gamedata/internal/platform/errors"
)

// ID is a national dex number. IDs are sparse.
type ID uint16

// Stat indexes BaseStats.
type Stat int

const (
	HP Stat = iota
	Attack
	Defense
	SpecialAttack
	SpecialDefense
	Speed
)

// BaseStats lists the six base stats in Stat order.
type BaseStats [6]int

// Total returns the base stat total.
func (s BaseStats) Total() int {
	total := 0
	for _, value := range s {
		total += value
	}
	return total
}

// Form is an alternate appearance of a species. The form at index 0 is the
// default form and usually has an empty key.
type Form struct {
	Key   string `json:"key"`
	Name  string `json:"name"`
	Index int    `json:"index"`
}

// Species is one species definition.
type Species struct {
	ID            ID              `json:"id"`
	Name          string          `json:"name"`
	Generation    int             `json:"generation"`
	Types         []poketype.Type `json:"types"`
	BaseStats     BaseStats       `json:"base_stats"`
	Abilities     []ability.ID    `json:"abilities"`
	HiddenAbility ability.ID      `json:"hidden_ability,omitempty"`
	SubLegendary  bool            `json:"sub_legendary,omitempty"`
	Legendary     bool            `json:"legendary,omitempty"`
	Mythical      bool            `json:"mythical,omitempty"`
	Forms         []Form          `json:"forms,omitempty"`
}

// AbilityIDs returns every ability the species can have, hidden ability last.
func (s Species) AbilityIDs() []ability.ID {
	ids := make([]ability.ID, 0, len(s.Abilities)+1)
	ids = append(ids, s.Abilities...)
	if s.HiddenAbility != ability.None {
		ids = append(ids, s.HiddenAbility)
	}
	return ids
}

// Table is an immutable species table.
type Table struct {
	byID map[ID]*Species
	ids  []ID
}

// NewTable validates records and builds the table.
func NewTable(records []Species) (*Table, error) {
	byID := make(map[ID]*Species, len(records))
	ids := make([]ID, 0, len(records))
	for i := range records {
		record := records[i]
		if err := validate(record); err != nil {
			return nil, err
		}
		if _, exists := byID[record.ID]; exists {
			return nil, apperrors.WithMetadata(
				apperrors.CodeDuplicateID,
				fmt.Sprintf("duplicate species id %d", record.ID),
				metadata(record.ID),
			)
		}
		byID[record.ID] = &record
		ids = append(ids, record.ID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return &Table{byID: byID, ids: ids}, nil
}

func validate(record Species) error {
	switch {
	case record.ID == 0:
		return invalid(record, "id must be positive")
	case strings.TrimSpace(record.Name) == "":
		return invalid(record, "name is required")
	case record.Generation < 1:
		return invalid(record, "generation must be positive")
	case len(record.Types) < 1 || len(record.Types) > 2:
		return invalid(record, "species need one or two types")
	case len(record.Abilities) < 1 || len(record.Abilities) > 2:
		return invalid(record, "species need one or two regular abilities")
	}
	if len(record.Types) == 2 && record.Types[0] == record.Types[1] {
		return invalid(record, "types must differ")
	}
	for _, t := range record.Types {
		if t == poketype.Unknown {
			return invalid(record, "type is required")
		}
	}
	for _, value := range record.BaseStats {
		if value < 1 {
			return invalid(record, "base stats must be positive")
		}
	}
	for _, id := range record.Abilities {
		if id == ability.None {
			return invalid(record, "regular abilities must be set")
		}
	}
	return nil
}

func invalid(record Species, reason string) error {
	return apperrors.WithMetadata(
		apperrors.CodeInvalidRecord,
		fmt.Sprintf("species %d: %s", record.ID, reason),
		metadata(record.ID),
	)
}

func metadata(id ID) map[string]string {
	return map[string]string{"domain": "species", "id": strconv.Itoa(int(id))}
}

// Get returns the species for id.
func (t *Table) Get(id ID) (Species, bool) {
	if t == nil {
		return Species{}, false
	}
	record, ok := t.byID[id]
	if !ok {
		return Species{}, false
	}
	return *record, true
}

// Has reports whether id is defined.
func (t *Table) Has(id ID) bool {
	if t == nil {
		return false
	}
	_, ok := t.byID[id]
	return ok
}

// Len returns the number of species.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.ids)
}

// IDs returns the defined IDs in ascending order.
func (t *Table) IDs() []ID {
	if t == nil {
		return nil
	}
	out := make([]ID, len(t.ids))
	copy(out, t.ids)
	return out
}

// CheckAbilities verifies every ability reference against the ability table.
func (t *Table) CheckAbilities(abilities *ability.Table) error {
	if t == nil {
		return nil
	}
	for _, id := range t.ids {
		record := t.byID[id]
		for _, abilityID := range record.AbilityIDs() {
			if abilities.Has(abilityID) {
				continue
			}
			return apperrors.WithMetadata(
				apperrors.CodeUnknownReference,
				fmt.Sprintf("species %d references unknown ability %d", id, abilityID),
				map[string]string{
					"domain":    "species",
					"id":        strconv.Itoa(int(id)),
					"reference": "ability:" + strconv.Itoa(int(abilityID)),
				},
			)
		}
	}
	return nil
}
