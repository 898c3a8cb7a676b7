// Package achievement holds the achievement definitions and evaluates which
// achievements a progress snapshot unlocks.
package achievement

import (
	"fmt"
	"sort"
	"strings"

	"github.com/roguedex/gamedata/internal/game/progress"
	"github.com/roguedex/gamedata/internal/game/unlock"
	apperrors "github.com/roguedex/gamedata/internal/platform/errors"
)

// ID identifies an achievement.
type ID string

// Definition is one achievement.
type Definition struct {
	ID             ID               `json:"id"`
	NameKey        string           `json:"name_key"`
	DescriptionKey string           `json:"description_key"`
	Params         map[string]int64 `json:"params,omitempty"`
	Score          int              `json:"score"`
	Secret         bool             `json:"secret,omitempty"`
	Condition      unlock.Spec      `json:"condition"`
}

// Registry is the immutable achievement registry.
type Registry struct {
	defs  map[ID]Definition
	rules *unlock.Registry[ID]
}

// NewRegistry compiles every definition. Achievements cannot depend on other
// achievements, so refs.Achievement is ignored.
func NewRegistry(defs []Definition, refs unlock.Refs) (*Registry, error) {
	refs.Achievement = nil
	byID := make(map[ID]Definition, len(defs))
	rules := make([]unlock.Rule[ID], 0, len(defs))
	for _, def := range defs {
		meta := map[string]string{"domain": "achievement", "id": string(def.ID)}
		switch {
		case strings.TrimSpace(def.NameKey) == "":
			return nil, apperrors.WithMetadata(apperrors.CodeInvalidRecord,
				fmt.Sprintf("achievement %s: name key is required", def.ID), meta)
		case strings.TrimSpace(def.DescriptionKey) == "":
			return nil, apperrors.WithMetadata(apperrors.CodeInvalidRecord,
				fmt.Sprintf("achievement %s: description key is required", def.ID), meta)
		case def.Score < 0:
			return nil, apperrors.WithMetadata(apperrors.CodeInvalidRecord,
				fmt.Sprintf("achievement %s: score must not be negative", def.ID), meta)
		}
		condition, err := unlock.Compile(def.Condition, refs)
		if err != nil {
			return nil, fmt.Errorf("achievement %s: %w", def.ID, err)
		}
		byID[def.ID] = def
		rules = append(rules, unlock.Rule[ID]{ID: def.ID, Condition: condition})
	}
	registry, err := unlock.NewRegistry(rules)
	if err != nil {
		return nil, err
	}
	return &Registry{defs: byID, rules: registry}, nil
}

// Get returns the definition for id.
func (r *Registry) Get(id ID) (Definition, bool) {
	if r == nil {
		return Definition{}, false
	}
	def, ok := r.defs[id]
	return def, ok
}

// Has reports whether id is defined.
func (r *Registry) Has(id string) bool {
	_, ok := r.Get(ID(id))
	return ok
}

// Len returns the number of achievements.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return r.rules.Len()
}

// Definitions returns every definition sorted by ID.
func (r *Registry) Definitions() []Definition {
	if r == nil {
		return nil
	}
	ids := r.rules.IDs()
	out := make([]Definition, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.defs[id])
	}
	return out
}

// Unlocked returns the sorted achievements whose condition holds.
func (r *Registry) Unlocked(snapshot progress.Snapshot) ([]ID, error) {
	if r == nil {
		return nil, nil
	}
	return r.rules.Unlocked(snapshot)
}

// Score sums the score of ids, ignoring unknown ones.
func (r *Registry) Score(ids []ID) int {
	total := 0
	for _, id := range ids {
		if def, ok := r.Get(id); ok {
			total += def.Score
		}
	}
	return total
}

// CheckLocale verifies that every name and description key resolves.
func (r *Registry) CheckLocale(hasKey func(string) bool) error {
	for _, def := range r.Definitions() {
		for _, key := range []string{def.NameKey, def.DescriptionKey} {
			if hasKey(key) {
				continue
			}
			return apperrors.WithMetadata(
				apperrors.CodeMissingLocaleKey,
				fmt.Sprintf("achievement %s: locale key %q is not defined", def.ID, key),
				map[string]string{"domain": "achievement", "id": string(def.ID), "key": key},
			)
		}
	}
	return nil
}

// Strings converts ids for use in a progress snapshot.
func Strings(ids []ID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	sort.Strings(out)
	return out
}
