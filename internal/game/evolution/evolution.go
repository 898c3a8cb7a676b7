// Package evolution holds the static evolution records.
package evolution

import (
	"fmt"
	"strconv"

	"github.com/roguedex/gamedata/internal/game/species"
	apperrors "github.com/roguedex/gamedata/internal/platform/errors"
)

// Evolution links a species to the species it evolves into.
type Evolution struct {
	Source    species.ID `json:"source"`
	Target    species.ID `json:"target"`
	Level     int        `json:"level"`
	Item      string     `json:"item,omitempty"`
	Condition string     `json:"condition,omitempty"`
}

// Key identifies an evolution record.
func (e Evolution) Key() string {
	return strconv.Itoa(int(e.Source)) + ">" + strconv.Itoa(int(e.Target))
}

// Validate checks each record and rejects repeated source/target pairs.
func Validate(records []Evolution) error {
	seen := make(map[string]struct{}, len(records))
	for _, record := range records {
		meta := map[string]string{"domain": "evolution", "id": record.Key()}
		switch {
		case record.Source == 0 || record.Target == 0:
			return apperrors.WithMetadata(apperrors.CodeInvalidRecord,
				fmt.Sprintf("evolution %s: source and target are required", record.Key()), meta)
		case record.Source == record.Target:
			return apperrors.WithMetadata(apperrors.CodeInvalidRecord,
				fmt.Sprintf("evolution %s: species cannot evolve into itself", record.Key()), meta)
		case record.Level < 0:
			return apperrors.WithMetadata(apperrors.CodeInvalidRecord,
				fmt.Sprintf("evolution %s: level must not be negative", record.Key()), meta)
		case record.Level == 0 && record.Item == "" && record.Condition == "":
			return apperrors.WithMetadata(apperrors.CodeInvalidRecord,
				fmt.Sprintf("evolution %s: needs a level, item, or condition", record.Key()), meta)
		}
		if _, exists := seen[record.Key()]; exists {
			return apperrors.WithMetadata(apperrors.CodeDuplicateID,
				fmt.Sprintf("duplicate evolution %s", record.Key()), meta)
		}
		seen[record.Key()] = struct{}{}
	}
	return nil
}
