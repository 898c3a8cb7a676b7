// Package poketype defines the elemental types shared by species and moves.
package poketype

import (
	"fmt"
	"strings"
)

// Type is an elemental type.
type Type uint8

const (
	Unknown Type = iota
	Normal
	Fighting
	Flying
	Poison
	Ground
	Rock
	Bug
	Ghost
	Steel
	Fire
	Water
	Grass
	Electric
	Psychic
	Ice
	Dragon
	Dark
	Fairy
)

var names = [...]string{
	Unknown:  "unknown",
	Normal:   "normal",
	Fighting: "fighting",
	Flying:   "flying",
	Poison:   "poison",
	Ground:   "ground",
	Rock:     "rock",
	Bug:      "bug",
	Ghost:    "ghost",
	Steel:    "steel",
	Fire:     "fire",
	Water:    "water",
	Grass:    "grass",
	Electric: "electric",
	Psychic:  "psychic",
	Ice:      "ice",
	Dragon:   "dragon",
	Dark:     "dark",
	Fairy:    "fairy",
}

// String returns the lowercase type name.
func (t Type) String() string {
	if int(t) < len(names) {
		return names[t]
	}
	return fmt.Sprintf("type(%d)", uint8(t))
}

// Parse resolves a type from its name.
func Parse(value string) (Type, error) {
	name := strings.ToLower(strings.TrimSpace(value))
	for i, candidate := range names {
		if Type(i) == Unknown {
			continue
		}
		if candidate == name {
			return Type(i), nil
		}
	}
	return Unknown, fmt.Errorf("unknown type %q", value)
}

// MarshalText implements encoding.TextMarshaler.
func (t Type) MarshalText() ([]byte, error) {
	if t == Unknown || int(t) >= len(names) {
		return nil, fmt.Errorf("cannot marshal type %d", uint8(t))
	}
	return []byte(names[t]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Type) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
