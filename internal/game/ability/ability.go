// Package ability holds the static ability definitions.
package ability

import (
	"fmt"
	"strconv"
	"strings"

	apperrors "github.com/roguedex/gamedata/internal/platform/errors"
)

// ID identifies an ability. IDs are dense and start at 1.
type ID uint16

// None marks an absent ability reference.
const None ID = 0

// Ability is one ability definition.
type Ability struct {
	ID          ID     `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Generation  int    `json:"generation"`
}

// Table is an immutable ability table indexed by ID.
type Table struct {
	byID  []*Ability
	count int
}

// NewTable validates records and builds the table.
func NewTable(records []Ability) (*Table, error) {
	var maxID ID
	for _, record := range records {
		if record.ID > maxID {
			maxID = record.ID
		}
	}

	byID := make([]*Ability, int(maxID)+1)
	for i := range records {
		record := records[i]
		if err := validate(record); err != nil {
			return nil, err
		}
		if byID[record.ID] != nil {
			return nil, apperrors.WithMetadata(
				apperrors.CodeDuplicateID,
				fmt.Sprintf("duplicate ability id %d", record.ID),
				map[string]string{"domain": "ability", "id": strconv.Itoa(int(record.ID))},
			)
		}
		byID[record.ID] = &record
	}
	return &Table{byID: byID, count: len(records)}, nil
}

func validate(record Ability) error {
	switch {
	case record.ID == None:
		return invalid(record, "id must be positive")
	case strings.TrimSpace(record.Name) == "":
		return invalid(record, "name is required")
	case record.Generation < 1:
		return invalid(record, "generation must be positive")
	}
	return nil
}

func invalid(record Ability, reason string) error {
	return apperrors.WithMetadata(
		apperrors.CodeInvalidRecord,
		fmt.Sprintf("ability %d: %s", record.ID, reason),
		map[string]string{"domain": "ability", "id": strconv.Itoa(int(record.ID))},
	)
}

// Get returns the ability for id.
func (t *Table) Get(id ID) (Ability, bool) {
	if t == nil || int(id) >= len(t.byID) || t.byID[id] == nil {
		return Ability{}, false
	}
	return *t.byID[id], true
}

// Has reports whether id is defined.
func (t *Table) Has(id ID) bool {
	_, ok := t.Get(id)
	return ok
}

// Len returns the number of abilities.
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
