package progress

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/roguedex/gamedata/internal/game/species"
)

func TestSnapshotQueries(t *testing.T) {
	snapshot := Snapshot{
		Stats:        map[string]int64{"battles": 12},
		Caught:       []species.ID{25, 25, 133},
		Achievements: []string{"10K_MONEY"},
	}
	if snapshot.Stat("battles") != 12 || snapshot.Stat("playTime") != 0 {
		t.Fatalf("unexpected stats: %v", snapshot.Stats)
	}
	if !snapshot.HasCaught(133) || snapshot.HasCaught(1) {
		t.Fatal("unexpected caught membership")
	}
	if snapshot.CaughtCount() != 2 {
		t.Fatalf("caught count = %d, want 2", snapshot.CaughtCount())
	}
	if !snapshot.HasAchievement("10K_MONEY") || snapshot.HasAchievement("1M_MONEY") {
		t.Fatal("unexpected achievement membership")
	}
}

func TestWithAchievementsCopies(t *testing.T) {
	base := Snapshot{Achievements: []string{"SEE_SHINY"}}
	merged := base.WithAchievements("CLASSIC_VICTORY", "SEE_SHINY")

	if diff := cmp.Diff([]string{"CLASSIC_VICTORY", "SEE_SHINY"}, merged.Achievements); diff != "" {
		t.Fatalf("merged achievements mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"SEE_SHINY"}, base.Achievements); diff != "" {
		t.Fatalf("base snapshot changed (-want +got):\n%s", diff)
	}
}

func TestDecode(t *testing.T) {
	snapshot, err := Decode(strings.NewReader(`{"stats":{"battles":3},"caught":[1],"achievements":[]}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if snapshot.Stat("battles") != 3 || !snapshot.HasCaught(1) {
		t.Fatalf("snapshot = %+v", snapshot)
	}

	if _, err := Decode(strings.NewReader(`{"stats":{"battles":-1}}`)); err == nil {
		t.Fatal("expected negative stat to fail")
	}
	if _, err := Decode(strings.NewReader(`{"ribbons":[]}`)); err == nil {
		t.Fatal("expected unknown field to fail")
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")
	if err := os.WriteFile(path, []byte(`{"caught":[25]}`), 0o600); err != nil {
		t.Fatalf("write snapshot: %v", err)
	}
	snapshot, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !snapshot.HasCaught(25) {
		t.Fatalf("snapshot = %+v", snapshot)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected missing file to fail")
	}
}
