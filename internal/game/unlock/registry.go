package unlock

import (
	"fmt"
	"sort"
	"strings"

	"github.com/roguedex/gamedata/internal/game/progress"
	apperrors "github.com/roguedex/gamedata/internal/platform/errors"
)

// Rule pairs an identifier with its condition.
type Rule[ID ~string] struct {
	ID        ID
	Condition Condition
}

// Registry evaluates a fixed set of rules.
type Registry[ID ~string] struct {
	ids        []ID
	conditions map[ID]Condition
}

// NewRegistry builds a registry from rules. IDs must be unique.
func NewRegistry[ID ~string](rules []Rule[ID]) (*Registry[ID], error) {
	conditions := make(map[ID]Condition, len(rules))
	ids := make([]ID, 0, len(rules))
	for _, rule := range rules {
		if strings.TrimSpace(string(rule.ID)) == "" {
			return nil, apperrors.New(apperrors.CodeInvalidRecord, "unlock id is required")
		}
		if rule.Condition == nil {
			return nil, apperrors.WithMetadata(apperrors.CodeInvalidCondition,
				fmt.Sprintf("unlock %s has no condition", rule.ID),
				map[string]string{"id": string(rule.ID)})
		}
		if _, exists := conditions[rule.ID]; exists {
			return nil, apperrors.WithMetadata(apperrors.CodeDuplicateID,
				fmt.Sprintf("duplicate unlock id %s", rule.ID),
				map[string]string{"id": string(rule.ID)})
		}
		conditions[rule.ID] = rule.Condition
		ids = append(ids, rule.ID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return &Registry[ID]{ids: ids, conditions: conditions}, nil
}

// Unlocked returns the sorted IDs whose condition holds for snapshot.
func (r *Registry[ID]) Unlocked(snapshot progress.Snapshot) ([]ID, error) {
	if r == nil {
		return nil, nil
	}
	var unlocked []ID
	for _, id := range r.ids {
		met, err := r.conditions[id].Met(snapshot)
		if err != nil {
			return nil, fmt.Errorf("evaluate %s: %w", id, err)
		}
		if met {
			unlocked = append(unlocked, id)
		}
	}
	return unlocked, nil
}

// Has reports whether id is registered.
func (r *Registry[ID]) Has(id ID) bool {
	if r == nil {
		return false
	}
	_, ok := r.conditions[id]
	return ok
}

// IDs returns the registered IDs in sorted order.
func (r *Registry[ID]) IDs() []ID {
	if r == nil {
		return nil
	}
	out := make([]ID, len(r.ids))
	copy(out, r.ids)
	return out
}

// Len returns the number of rules.
func (r *Registry[ID]) Len() int {
	if r == nil {
		return 0
	}
	return len(r.ids)
}
