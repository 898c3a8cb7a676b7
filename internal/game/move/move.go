// Package move holds the static move definitions.
package move

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/roguedex/gamedata/internal/game/poketype"
	apperrors "github.com/roguedex/gamedata/internal/platform/errors"
)

// ID identifies a move. IDs are dense and start at 1.
type ID uint16

// Category splits moves by damage class.
type Category uint8

const (
	Physical Category = iota + 1
	Special
	Status
)

// String returns the lowercase category name.
func (c Category) String() string {
	switch c {
	case Physical:
		return "physical"
	case Special:
		return "special"
	case Status:
		return "status"
	default:
		return "category(" + strconv.Itoa(int(c)) + ")"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (c Category) MarshalText() ([]byte, error) {
	switch c {
	case Physical, Special, Status:
		return []byte(c.String()), nil
	default:
		return nil, fmt.Errorf("cannot marshal move category %d", uint8(c))
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Category) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "physical":
		*c = Physical
	case "special":
		*c = Special
	case "status":
		*c = Status
	default:
		return fmt.Errorf("unknown move category %q", string(text))
	}
	return nil
}

// NeverMisses is the accuracy value for moves that skip the accuracy check.
const NeverMisses = -1

// Move is one move definition.
type Move struct {
	ID         ID            `json:"id"`
	Name       string        `json:"name"`
	Type       poketype.Type `json:"type"`
	Category   Category      `json:"category"`
	Power      int           `json:"power"`
	Accuracy   int           `json:"accuracy"`
	PP         int           `json:"pp"`
	Generation int           `json:"generation"`
}

// Table is an immutable move table indexed by ID.
type Table struct {
	byID  []*Move
	count int
}

// NewTable validates records and builds the table.
func NewTable(records []Move) (*Table, error) {
	var maxID ID
	for _, record := range records {
		if record.ID > maxID {
			maxID = record.ID
		}
	}

	byID := make([]*Move, int(maxID)+1)
	for i := range records {
		record := records[i]
		if err := validate(record); err != nil {
			return nil, err
		}
		if byID[record.ID] != nil {
			return nil, apperrors.WithMetadata(
				apperrors.CodeDuplicateID,
				fmt.Sprintf("duplicate move id %d", record.ID),
				map[string]string{"domain": "move", "id": strconv.Itoa(int(record.ID))},
			)
		}
		byID[record.ID] = &record
	}
	return &Table{byID: byID, count: len(records)}, nil
}

func validate(record Move) error {
	switch {
	case record.ID == 0:
		return invalid(record, "id must be positive")
	case strings.TrimSpace(record.Name) == "":
		return invalid(record, "name is required")
	case record.Type == poketype.Unknown:
		return invalid(record, "type is required")
	case record.Category == 0:
		return invalid(record, "category is required")
	case record.Category == Status && record.Power != 0:
		return invalid(record, "status moves have no power")
	case record.Category != Status && record.Power <= 0:
		return invalid(record, "damaging moves need power")
	case record.Accuracy != NeverMisses && (record.Accuracy < 1 || record.Accuracy > 100):
		return invalid(record, "accuracy must be within 1..100")
	case record.PP < 1:
		return invalid(record, "pp must be positive")
	case record.Generation < 1:
		return invalid(record, "generation must be positive")
	}
	return nil
}

func invalid(record Move, reason string) error {
	return apperrors.WithMetadata(
		apperrors.CodeInvalidRecord,
		fmt.Sprintf("move %d: %s", record.ID, reason),
		map[string]string{"domain": "move", "id": strconv.Itoa(int(record.ID))},
	)
}

// Get returns the move for id.
func (t *Table) Get(id ID) (Move, bool) {
	if t == nil || int(id) >= len(t.byID) || t.byID[id] == nil {
		return Move{}, false
	}
	return *t.byID[id], true
}

// Has reports whether id is defined.
func (t *Table) Has(id ID) bool {
	_, ok := t.Get(id)
	return ok
}

// Len returns the number of moves.
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
