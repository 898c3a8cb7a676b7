// Package voucher holds the egg voucher definitions.
package voucher

import (
	"fmt"
	"strings"

	"github.com/roguedex/gamedata/internal/game/progress"
	"github.com/roguedex/gamedata/internal/game/unlock"
	apperrors "github.com/roguedex/gamedata/internal/platform/errors"
)

// ID identifies a voucher.
type ID string

// Tier is the voucher quality.
type Tier uint8

const (
	Regular Tier = iota + 1
	Plus
	Premium
	Golden
)

var tiers = []struct {
	tier    Tier
	name    string
	nameKey string
}{
	{tier: Regular, name: "regular", nameKey: "voucher:eggVoucher"},
	{tier: Plus, name: "plus", nameKey: "voucher:eggVoucherPlus"},
	{tier: Premium, name: "premium", nameKey: "voucher:eggVoucherPremium"},
	{tier: Golden, name: "golden", nameKey: "voucher:eggVoucherGold"},
}

// NameKey returns the locale key of the tier's display name.
func (t Tier) NameKey() string {
	for _, entry := range tiers {
		if entry.tier == t {
			return entry.nameKey
		}
	}
	return ""
}

// MarshalText implements encoding.TextMarshaler.
func (t Tier) MarshalText() ([]byte, error) {
	for _, entry := range tiers {
		if entry.tier == t {
			return []byte(entry.name), nil
		}
	}
	return nil, fmt.Errorf("cannot marshal voucher tier %d", uint8(t))
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Tier) UnmarshalText(text []byte) error {
	name := strings.ToLower(strings.TrimSpace(string(text)))
	for _, entry := range tiers {
		if entry.name == name {
			*t = entry.tier
			return nil
		}
	}
	return fmt.Errorf("unknown voucher tier %q", string(text))
}

// Definition is one voucher.
type Definition struct {
	ID             ID          `json:"id"`
	Tier           Tier        `json:"tier"`
	DescriptionKey string      `json:"description_key"`
	Condition      unlock.Spec `json:"condition"`
}

// Registry is the immutable voucher registry.
type Registry struct {
	defs  map[ID]Definition
	rules *unlock.Registry[ID]
}

// NewRegistry compiles every definition.
func NewRegistry(defs []Definition, refs unlock.Refs) (*Registry, error) {
	byID := make(map[ID]Definition, len(defs))
	rules := make([]unlock.Rule[ID], 0, len(defs))
	for _, def := range defs {
		meta := map[string]string{"domain": "voucher", "id": string(def.ID)}
		if def.Tier.NameKey() == "" {
			return nil, apperrors.WithMetadata(apperrors.CodeInvalidRecord,
				fmt.Sprintf("voucher %s: tier is required", def.ID), meta)
		}
		if strings.TrimSpace(def.DescriptionKey) == "" {
			return nil, apperrors.WithMetadata(apperrors.CodeInvalidRecord,
				fmt.Sprintf("voucher %s: description key is required", def.ID), meta)
		}
		condition, err := unlock.Compile(def.Condition, refs)
		if err != nil {
			return nil, fmt.Errorf("voucher %s: %w", def.ID, err)
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

// Len returns the number of vouchers.
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

// Unlocked returns the sorted vouchers whose condition holds.
func (r *Registry) Unlocked(snapshot progress.Snapshot) ([]ID, error) {
	if r == nil {
		return nil, nil
	}
	return r.rules.Unlocked(snapshot)
}

// CheckLocale verifies that every tier name and description key resolves.
func (r *Registry) CheckLocale(hasKey func(string) bool) error {
	for _, def := range r.Definitions() {
		for _, key := range []string{def.Tier.NameKey(), def.DescriptionKey} {
			if hasKey(key) {
				continue
			}
			return apperrors.WithMetadata(
				apperrors.CodeMissingLocaleKey,
				fmt.Sprintf("voucher %s: locale key %q is not defined", def.ID, key),
				map[string]string{"domain": "voucher", "id": string(def.ID), "key": key},
			)
		}
	}
	return nil
}
