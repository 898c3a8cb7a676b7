// Package progress defines the player progress snapshot consumed by unlock
// conditions.
package progress

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/roguedex/gamedata/internal/game/species"
)

// Snapshot is a point-in-time view of a player's progress. It is a plain
// value; methods never modify the receiver.
type Snapshot struct {
	Stats        map[string]int64 `json:"stats"`
	Caught       []species.ID     `json:"caught"`
	Achievements []string         `json:"achievements"`
}

// Stat returns the counter for key, or zero when it was never recorded.
func (s Snapshot) Stat(key string) int64 {
	return s.Stats[key]
}

// HasCaught reports whether id is in the caught set.
func (s Snapshot) HasCaught(id species.ID) bool {
	for _, caught := range s.Caught {
		if caught == id {
			return true
		}
	}
	return false
}

// CaughtCount returns the number of distinct caught species.
func (s Snapshot) CaughtCount() int {
	seen := make(map[species.ID]struct{}, len(s.Caught))
	for _, id := range s.Caught {
		seen[id] = struct{}{}
	}
	return len(seen)
}

// HasAchievement reports whether the achievement was already granted.
func (s Snapshot) HasAchievement(id string) bool {
	for _, granted := range s.Achievements {
		if granted == id {
			return true
		}
	}
	return false
}

// WithAchievements returns a copy of s whose achievement set also holds ids.
func (s Snapshot) WithAchievements(ids ...string) Snapshot {
	set := make(map[string]struct{}, len(s.Achievements)+len(ids))
	for _, id := range s.Achievements {
		set[id] = struct{}{}
	}
	for _, id := range ids {
		set[id] = struct{}{}
	}
	merged := make([]string, 0, len(set))
	for id := range set {
		merged = append(merged, id)
	}
	sort.Strings(merged)

	out := s
	out.Achievements = merged
	return out
}

// Decode reads a JSON snapshot.
func Decode(r io.Reader) (Snapshot, error) {
	var snapshot Snapshot
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&snapshot); err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	for key, value := range snapshot.Stats {
		if value < 0 {
			return Snapshot{}, fmt.Errorf("decode snapshot: stat %q is negative", key)
		}
	}
	return snapshot, nil
}

// Load reads a JSON snapshot file.
func Load(path string) (Snapshot, error) {
	file, err := os.Open(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("open snapshot: %w", err)
	}
	defer file.Close()
	return Decode(file)
}
