package biome

import (
	"encoding/json"
	"testing"

	"github.com/roguedex/gamedata/internal/game/species"
	apperrors "github.com/roguedex/gamedata/internal/platform/errors"
)

func TestDecodeBiome(t *testing.T) {
	payload := `{"id":1,"name":"Plains","links":[{"target":2,"weight":1}],"pools":[{"tier":"super_rare","species":[25]}]}`
	var got Biome
	if err := json.Unmarshal([]byte(payload), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(got.Pools) != 1 || got.Pools[0].Tier != SuperRare {
		t.Fatalf("pools = %+v", got.Pools)
	}
	if got.Pools[0].Tier.IsBoss() {
		t.Fatal("super rare is not a boss tier")
	}
}

func TestNewTable(t *testing.T) {
	table, err := NewTable([]Biome{
		{ID: 0, Name: "Town", Links: []Link{{Target: 1, Weight: 1}}},
		{ID: 1, Name: "Plains", Links: []Link{{Target: 0, Weight: 1}}, Pools: []Pool{{Tier: Common, Species: []species.ID{16, 19}}}},
	})
	if err != nil {
		t.Fatalf("new table: %v", err)
	}
	plains, ok := table.Get(1)
	if !ok || plains.Name != "Plains" {
		t.Fatalf("get 1 = %+v, %v", plains, ok)
	}
	if got := plains.SpeciesIDs(); len(got) != 2 {
		t.Fatalf("species ids = %v", got)
	}
	if table.Len() != 2 {
		t.Fatalf("len = %d", table.Len())
	}
}

func TestNewTableRejectsUnknownLink(t *testing.T) {
	_, err := NewTable([]Biome{{ID: 0, Name: "Town", Links: []Link{{Target: 9, Weight: 1}}}})
	if !apperrors.HasCode(err, apperrors.CodeUnknownReference) {
		t.Fatalf("err = %v, want unknown reference", err)
	}
}

func TestNewTableRejectsBadRecords(t *testing.T) {
	tests := []struct {
		name   string
		record Biome
	}{
		{name: "self link", record: Biome{ID: 3, Name: "Cave", Links: []Link{{Target: 3, Weight: 1}}}},
		{name: "zero weight", record: Biome{ID: 3, Name: "Cave", Links: []Link{{Target: 0, Weight: 0}}}},
		{name: "missing tier", record: Biome{ID: 3, Name: "Cave", Pools: []Pool{{Species: []species.ID{74}}}}},
		{name: "repeated tier", record: Biome{ID: 3, Name: "Cave", Pools: []Pool{{Tier: Rare}, {Tier: Rare}}}},
		{name: "no name", record: Biome{ID: 3}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewTable([]Biome{{ID: 0, Name: "Town"}, tc.record})
			if !apperrors.HasCode(err, apperrors.CodeInvalidRecord) {
				t.Fatalf("err = %v, want invalid record", err)
			}
		})
	}
}
