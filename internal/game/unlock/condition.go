// Package unlock evaluates unlock conditions against a progress snapshot.
package unlock

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/roguedex/gamedata/internal/game/progress"
	"github.com/roguedex/gamedata/internal/game/species"
	apperrors "github.com/roguedex/gamedata/internal/platform/errors"
)

// Kind selects a condition implementation.
type Kind string

const (
	KindStat        Kind = "stat"
	KindCaught      Kind = "caught"
	KindCaughtCount Kind = "caught_count"
	KindAchievement Kind = "achievement"
	KindScript      Kind = "script"
)

// Spec is the data form of a condition.
type Spec struct {
	Kind        Kind       `json:"kind"`
	Stat        string     `json:"stat,omitempty"`
	Threshold   int64      `json:"threshold,omitempty"`
	Species     species.ID `json:"species,omitempty"`
	Achievement string     `json:"achievement,omitempty"`
	Script      string     `json:"script,omitempty"`
}

// Condition is a compiled unlock predicate.
type Condition interface {
	Met(snapshot progress.Snapshot) (bool, error)
}

// Refs resolves the identifiers a condition may reference. A nil resolver
// rejects conditions of the matching kind.
type Refs struct {
	Stat        func(key string) bool
	Species     func(id species.ID) bool
	Achievement func(id string) bool
}

// Compile validates spec against refs and returns its condition.
func Compile(spec Spec, refs Refs) (Condition, error) {
	switch spec.Kind {
	case KindStat:
		if refs.Stat == nil || !refs.Stat(spec.Stat) {
			return nil, unknown(spec, "stat:"+spec.Stat)
		}
		if spec.Threshold < 1 {
			return nil, invalid(spec, "threshold must be positive")
		}
		return statCondition{key: spec.Stat, threshold: spec.Threshold}, nil
	case KindCaught:
		if refs.Species == nil || !refs.Species(spec.Species) {
			return nil, unknown(spec, "species:"+strconv.Itoa(int(spec.Species)))
		}
		return caughtCondition{id: spec.Species}, nil
	case KindCaughtCount:
		if spec.Threshold < 1 {
			return nil, invalid(spec, "threshold must be positive")
		}
		return caughtCountCondition{threshold: spec.Threshold}, nil
	case KindAchievement:
		if refs.Achievement == nil || !refs.Achievement(spec.Achievement) {
			return nil, unknown(spec, "achievement:"+spec.Achievement)
		}
		return achievementCondition{id: spec.Achievement}, nil
	case KindScript:
		if strings.TrimSpace(spec.Script) == "" {
			return nil, invalid(spec, "script is required")
		}
		condition, err := compileScript(spec.Script)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.CodeInvalidCondition,
				fmt.Sprintf("compile script condition: %v", err), err)
		}
		return condition, nil
	default:
		return nil, invalid(spec, fmt.Sprintf("unknown condition kind %q", spec.Kind))
	}
}

func invalid(spec Spec, reason string) error {
	return apperrors.WithMetadata(apperrors.CodeInvalidCondition,
		fmt.Sprintf("%s condition: %s", spec.Kind, reason),
		map[string]string{"kind": string(spec.Kind)})
}

func unknown(spec Spec, reference string) error {
	return apperrors.WithMetadata(apperrors.CodeUnknownReference,
		fmt.Sprintf("%s condition references unknown %s", spec.Kind, reference),
		map[string]string{"kind": string(spec.Kind), "reference": reference})
}

type statCondition struct {
	key       string
	threshold int64
}

func (c statCondition) Met(snapshot progress.Snapshot) (bool, error) {
	return snapshot.Stat(c.key) >= c.threshold, nil
}

type caughtCondition struct {
	id species.ID
}

func (c caughtCondition) Met(snapshot progress.Snapshot) (bool, error) {
	return snapshot.HasCaught(c.id), nil
}

type caughtCountCondition struct {
	threshold int64
}

func (c caughtCountCondition) Met(snapshot progress.Snapshot) (bool, error) {
	return int64(snapshot.CaughtCount()) >= c.threshold, nil
}

type achievementCondition struct {
	id string
}

func (c achievementCondition) Met(snapshot progress.Snapshot) (bool, error) {
	return snapshot.HasAchievement(c.id), nil
}
