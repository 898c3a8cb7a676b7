// Package stats defines the tracked game statistics and how they are shown.
package stats

import (
	"fmt"
	"strings"

	"github.com/roguedex/gamedata/internal/game/progress"
	apperrors "github.com/roguedex/gamedata/internal/platform/errors"
)

// Key names a stat counter.
type Key string

// Format selects how a stat value is displayed.
type Format uint8

const (
	Count Format = iota + 1
	Duration
	Money
)

// MarshalText implements encoding.TextMarshaler.
func (f Format) MarshalText() ([]byte, error) {
	switch f {
	case Count:
		return []byte("count"), nil
	case Duration:
		return []byte("duration"), nil
	case Money:
		return []byte("money"), nil
	default:
		return nil, fmt.Errorf("cannot marshal stat format %d", uint8(f))
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Format) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "count":
		*f = Count
	case "duration":
		*f = Duration
	case "money":
		*f = Money
	default:
		return fmt.Errorf("unknown stat format %q", string(text))
	}
	return nil
}

// HiddenValue is displayed for hidden stats that are still zero.
const HiddenValue = "???"

// Definition describes one stat.
type Definition struct {
	Key      Key    `json:"key"`
	LabelKey string `json:"label_key"`
	Format   Format `json:"format"`
	// Hidden stats display HiddenValue until their counter is non-zero.
	Hidden bool `json:"hidden,omitempty"`
}

// Registry holds the stat definitions in display order.
type Registry struct {
	defs  []Definition
	byKey map[Key]int
}

// NewRegistry validates definitions and builds the registry.
func NewRegistry(defs []Definition) (*Registry, error) {
	byKey := make(map[Key]int, len(defs))
	out := make([]Definition, 0, len(defs))
	for _, def := range defs {
		meta := map[string]string{"domain": "stats", "id": string(def.Key)}
		switch {
		case strings.TrimSpace(string(def.Key)) == "":
			return nil, apperrors.WithMetadata(apperrors.CodeInvalidRecord, "stat key is required", meta)
		case strings.TrimSpace(def.LabelKey) == "":
			return nil, apperrors.WithMetadata(apperrors.CodeInvalidRecord,
				fmt.Sprintf("stat %s: label key is required", def.Key), meta)
		case def.Format == 0:
			return nil, apperrors.WithMetadata(apperrors.CodeInvalidRecord,
				fmt.Sprintf("stat %s: format is required", def.Key), meta)
		}
		if _, exists := byKey[def.Key]; exists {
			return nil, apperrors.WithMetadata(apperrors.CodeDuplicateID,
				fmt.Sprintf("duplicate stat key %s", def.Key), meta)
		}
		byKey[def.Key] = len(out)
		out = append(out, def)
	}
	return &Registry{defs: out, byKey: byKey}, nil
}

// Get returns the definition for key.
func (r *Registry) Get(key Key) (Definition, bool) {
	if r == nil {
		return Definition{}, false
	}
	index, ok := r.byKey[key]
	if !ok {
		return Definition{}, false
	}
	return r.defs[index], true
}

// Has reports whether key names a stat.
func (r *Registry) Has(key string) bool {
	_, ok := r.Get(Key(key))
	return ok
}

// Len returns the number of stats.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.defs)
}

// Definitions returns the definitions in display order.
func (r *Registry) Definitions() []Definition {
	if r == nil {
		return nil
	}
	out := make([]Definition, len(r.defs))
	copy(out, r.defs)
	return out
}

// CheckLabels verifies every label key with hasKey.
func (r *Registry) CheckLabels(hasKey func(string) bool) error {
	for _, def := range r.Definitions() {
		if hasKey(def.LabelKey) {
			continue
		}
		return apperrors.WithMetadata(
			apperrors.CodeMissingLocaleKey,
			fmt.Sprintf("stat %s: label key %q is not defined", def.Key, def.LabelKey),
			map[string]string{"domain": "stats", "id": string(def.Key), "key": def.LabelKey},
		)
	}
	return nil
}

// Translator resolves labels and formats numbers for one locale.
type Translator interface {
	Translate(locale, key string, params map[string]any) (string, error)
	FormatNumber(locale string, value int64) (string, error)
}

// Line is one rendered stat.
type Line struct {
	Key   Key
	Label string
	Value string
}

// Lines renders every stat of snapshot in display order.
func (r *Registry) Lines(snapshot progress.Snapshot, translator Translator, locale string) ([]Line, error) {
	lines := make([]Line, 0, r.Len())
	for _, def := range r.Definitions() {
		label, err := translator.Translate(locale, def.LabelKey, nil)
		if err != nil {
			return nil, fmt.Errorf("stat %s label: %w", def.Key, err)
		}
		value, err := formatValue(def, snapshot.Stat(string(def.Key)), translator, locale)
		if err != nil {
			return nil, fmt.Errorf("stat %s value: %w", def.Key, err)
		}
		lines = append(lines, Line{Key: def.Key, Label: label, Value: value})
	}
	return lines, nil
}

func formatValue(def Definition, value int64, translator Translator, locale string) (string, error) {
	if def.Hidden && value == 0 {
		return HiddenValue, nil
	}
	switch def.Format {
	case Duration:
		return FormatDuration(value), nil
	case Money:
		number, err := translator.FormatNumber(locale, value)
		if err != nil {
			return "", err
		}
		return "₽" + number, nil
	default:
		return translator.FormatNumber(locale, value)
	}
}

// FormatDuration renders seconds as HH:MM:SS, with days prefixed when needed.
func FormatDuration(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	days := seconds / 86400
	hours := seconds % 86400 / 3600
	minutes := seconds % 3600 / 60
	secs := seconds % 60
	if days > 0 {
		return fmt.Sprintf("%dd %02d:%02d:%02d", days, hours, minutes, secs)
	}
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, secs)
}
