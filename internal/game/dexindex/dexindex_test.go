package dexindex

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/roguedex/gamedata/internal/game/ability"
	"github.com/roguedex/gamedata/internal/game/biome"
	"github.com/roguedex/gamedata/internal/game/eggmove"
	"github.com/roguedex/gamedata/internal/game/evolution"
	"github.com/roguedex/gamedata/internal/game/move"
	"github.com/roguedex/gamedata/internal/game/poketype"
	"github.com/roguedex/gamedata/internal/game/species"
	apperrors "github.com/roguedex/gamedata/internal/platform/errors"
)

func testSpecies(id species.ID, name string, forms ...species.Form) species.Species {
	return species.Species{
		ID:         id,
		Name:       name,
		Generation: 1,
		Types:      []poketype.Type{poketype.Normal},
		BaseStats:  species.BaseStats{50, 50, 50, 50, 50, 50},
		Abilities:  []ability.ID{1},
		Forms:      forms,
	}
}

func testSpeciesRecords() []species.Species {
	return []species.Species{
		testSpecies(1, "Bulbasaur"),
		testSpecies(2, "Ivysaur"),
		testSpecies(3, "Venusaur",
			species.Form{Key: "gigantamax", Name: "G-Max", Index: 2},
			species.Form{Key: "", Name: "Normal", Index: 0},
			species.Form{Key: "mega", Name: "Mega", Index: 1},
		),
		testSpecies(133, "Eevee"),
		testSpecies(134, "Vaporeon"),
		testSpecies(135, "Jolteon"),
		testSpecies(172, "Pichu"),
		testSpecies(25, "Pikachu"),
		testSpecies(26, "Raichu"),
	}
}

func testEvolutions() []evolution.Evolution {
	return []evolution.Evolution{
		{Source: 1, Target: 2, Level: 16},
		{Source: 2, Target: 3, Level: 32},
		{Source: 133, Target: 134, Item: "water_stone"},
		{Source: 133, Target: 135, Item: "thunder_stone"},
		{Source: 172, Target: 25, Condition: "friendship"},
		{Source: 25, Target: 26, Item: "thunder_stone"},
	}
}

func testMoves(t *testing.T) *move.Table {
	t.Helper()
	records := make([]move.Move, 0, 8)
	for id := move.ID(1); id <= 8; id++ {
		records = append(records, move.Move{
			ID: id, Name: "Move", Type: poketype.Normal, Category: move.Physical,
			Power: 40, Accuracy: 100, PP: 35, Generation: 1,
		})
	}
	table, err := move.NewTable(records)
	if err != nil {
		t.Fatalf("move table: %v", err)
	}
	return table
}

func mustSpeciesTable(t *testing.T, records []species.Species) *species.Table {
	t.Helper()
	table, err := species.NewTable(records)
	if err != nil {
		t.Fatalf("species table: %v", err)
	}
	return table
}

func TestBuildPrevolutions(t *testing.T) {
	table := mustSpeciesTable(t, testSpeciesRecords())
	prevolutions, err := BuildPrevolutions(table, testEvolutions())
	if err != nil {
		t.Fatalf("build prevolutions: %v", err)
	}

	parent, ok := prevolutions.Of(2)
	if !ok || parent != 1 {
		t.Fatalf("prevolution of 2 = %d, %v; want 1", parent, ok)
	}
	if _, ok := prevolutions.Of(1); ok {
		t.Fatal("expected base stage species 1 to have no prevolution")
	}
	if !prevolutions.IsBaseStage(133) {
		t.Fatal("expected eevee to be base stage")
	}
	if prevolutions.Len() != 6 {
		t.Fatalf("len = %d, want 6", prevolutions.Len())
	}
}

func TestBuildPrevolutionsRejectsUnknownSpecies(t *testing.T) {
	table := mustSpeciesTable(t, testSpeciesRecords())
	tests := []struct {
		name string
		evo  evolution.Evolution
	}{
		{name: "unknown source", evo: evolution.Evolution{Source: 999, Target: 2, Level: 5}},
		{name: "unknown target", evo: evolution.Evolution{Source: 1, Target: 999, Level: 5}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := BuildPrevolutions(table, []evolution.Evolution{tc.evo})
			if !apperrors.HasCode(err, apperrors.CodeUnknownReference) {
				t.Fatalf("err = %v, want unknown reference", err)
			}
		})
	}
}

func TestBuildPrevolutionsRejectsTwoParents(t *testing.T) {
	table := mustSpeciesTable(t, testSpeciesRecords())
	evolutions := append(testEvolutions(), evolution.Evolution{Source: 1, Target: 134, Level: 40})
	_, err := BuildPrevolutions(table, evolutions)
	if !apperrors.HasCode(err, apperrors.CodeConflictingReference) {
		t.Fatalf("err = %v, want conflicting reference", err)
	}
}

func TestBuildPrevolutionsRejectsCycles(t *testing.T) {
	table := mustSpeciesTable(t, testSpeciesRecords())
	_, err := BuildPrevolutions(table, []evolution.Evolution{
		{Source: 1, Target: 2, Level: 16},
		{Source: 2, Target: 3, Level: 32},
		{Source: 3, Target: 1, Level: 50},
	})
	if !apperrors.HasCode(err, apperrors.CodeInvalidRecord) {
		t.Fatalf("err = %v, want invalid record", err)
	}
}

func TestBuildForms(t *testing.T) {
	forms, err := BuildForms(mustSpeciesTable(t, testSpeciesRecords()))
	if err != nil {
		t.Fatalf("build forms: %v", err)
	}
	if diff := cmp.Diff([]string{"", "mega", "gigantamax"}, forms.Of(3)); diff != "" {
		t.Fatalf("forms of 3 mismatch (-want +got):\n%s", diff)
	}
	if forms.Of(1) != nil {
		t.Fatalf("forms of 1 = %v, want nil", forms.Of(1))
	}
	if !forms.Valid(1, "") || forms.Valid(1, "mega") {
		t.Fatal("formless species should accept only the empty key")
	}
	if !forms.Valid(3, "mega") || forms.Valid(3, "mega-x") {
		t.Fatal("unexpected form validity for species 3")
	}
	if forms.Valid(999, "") {
		t.Fatal("unknown species should have no valid forms")
	}
	if forms.Len() != 1 {
		t.Fatalf("len = %d, want 1", forms.Len())
	}
}

func TestBuildFormsRejectsDuplicates(t *testing.T) {
	tests := []struct {
		name  string
		forms []species.Form
	}{
		{name: "key", forms: []species.Form{{Key: "", Index: 0}, {Key: "", Index: 1}}},
		{name: "index", forms: []species.Form{{Key: "", Index: 0}, {Key: "mega", Index: 0}}},
		{name: "negative", forms: []species.Form{{Key: "", Index: -1}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			table := mustSpeciesTable(t, []species.Species{testSpecies(6, "Charizard", tc.forms...)})
			_, err := BuildForms(table)
			if !apperrors.HasCode(err, apperrors.CodeInvalidRecord) {
				t.Fatalf("err = %v, want invalid record", err)
			}
		})
	}
}

func TestBuildEggMoves(t *testing.T) {
	table := mustSpeciesTable(t, testSpeciesRecords())
	moves := testMoves(t)
	prevolutions, err := BuildPrevolutions(table, testEvolutions())
	if err != nil {
		t.Fatalf("build prevolutions: %v", err)
	}

	index, err := BuildEggMoves(table, moves, prevolutions, []eggmove.Record{
		{Species: 1, Moves: []move.ID{4, 3, 2, 1}},
		{Species: 133, Moves: []move.ID{5, 6, 7, 8}},
	})
	if err != nil {
		t.Fatalf("build egg moves: %v", err)
	}
	if diff := cmp.Diff([]move.ID{4, 3, 2, 1}, index.Of(1)); diff != "" {
		t.Fatalf("egg moves of 1 mismatch (-want +got):\n%s", diff)
	}
	if index.Of(2) != nil {
		t.Fatal("evolved species should have no egg moves")
	}

	tests := []struct {
		name    string
		records []eggmove.Record
		code    apperrors.Code
	}{
		{name: "unknown species", records: []eggmove.Record{{Species: 999, Moves: []move.ID{1, 2, 3, 4}}}, code: apperrors.CodeUnknownReference},
		{name: "unknown move", records: []eggmove.Record{{Species: 1, Moves: []move.ID{1, 2, 3, 99}}}, code: apperrors.CodeUnknownReference},
		{name: "evolved species", records: []eggmove.Record{{Species: 2, Moves: []move.ID{1, 2, 3, 4}}}, code: apperrors.CodeInvalidRecord},
		{name: "three moves", records: []eggmove.Record{{Species: 1, Moves: []move.ID{1, 2, 3}}}, code: apperrors.CodeInvalidRecord},
		{name: "repeated move", records: []eggmove.Record{{Species: 1, Moves: []move.ID{1, 1, 2, 3}}}, code: apperrors.CodeInvalidRecord},
		{
			name: "repeated species",
			records: []eggmove.Record{
				{Species: 1, Moves: []move.ID{1, 2, 3, 4}},
				{Species: 1, Moves: []move.ID{5, 6, 7, 8}},
			},
			code: apperrors.CodeDuplicateID,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := BuildEggMoves(table, moves, prevolutions, tc.records)
			if !apperrors.HasCode(err, tc.code) {
				t.Fatalf("err = %v, want %s", err, tc.code)
			}
		})
	}
}

func testBiomes(t *testing.T, records []biome.Biome) *biome.Table {
	t.Helper()
	table, err := biome.NewTable(records)
	if err != nil {
		t.Fatalf("biome table: %v", err)
	}
	return table
}

func testBiomeRecords() []biome.Biome {
	return []biome.Biome{
		{ID: 0, Name: "Town", Links: []biome.Link{{Target: 1, Weight: 1}}, Pools: []biome.Pool{
			{Tier: biome.Common, Species: []species.ID{1, 133}},
		}},
		{ID: 1, Name: "Plains", Links: []biome.Link{{Target: 2, Weight: 1}}, Pools: []biome.Pool{
			{Tier: biome.Common, Species: []species.ID{133, 172}},
			{Tier: biome.Rare, Species: []species.ID{25}},
		}},
		{ID: 2, Name: "Power Plant", Links: []biome.Link{{Target: 0, Weight: 1}}, Pools: []biome.Pool{
			{Tier: biome.Common, Species: []species.ID{25, 172}},
			{Tier: biome.Boss, Species: []species.ID{26, 25}},
		}},
	}
}

func TestBuildHabitats(t *testing.T) {
	table := mustSpeciesTable(t, testSpeciesRecords())
	habitats, err := BuildHabitats(table, testBiomes(t, testBiomeRecords()))
	if err != nil {
		t.Fatalf("build habitats: %v", err)
	}
	want := map[species.ID][]biome.ID{
		1:   {0},
		133: {0, 1},
		172: {1, 2},
		25:  {1, 2},
		26:  {2},
	}
	if diff := cmp.Diff(want, habitats.Map()); diff != "" {
		t.Fatalf("habitats mismatch (-want +got):\n%s", diff)
	}
	if habitats.Of(3) != nil {
		t.Fatal("species 3 appears in no biome")
	}
}

func TestBuildHabitatsRejectsUnknownSpecies(t *testing.T) {
	table := mustSpeciesTable(t, testSpeciesRecords())
	biomes := testBiomes(t, []biome.Biome{{ID: 0, Name: "Town", Pools: []biome.Pool{
		{Tier: biome.Common, Species: []species.ID{404}},
	}}})
	_, err := BuildHabitats(table, biomes)
	if !apperrors.HasCode(err, apperrors.CodeUnknownReference) {
		t.Fatalf("err = %v, want unknown reference", err)
	}
}

type builtIndexes struct {
	Prevolutions map[species.ID]species.ID
	Forms        map[species.ID][]string
	EggMoves     map[species.ID][]move.ID
	Habitats     map[species.ID][]biome.ID
}

func buildAll(t *testing.T, speciesRecords []species.Species, evolutions []evolution.Evolution, eggMoves []eggmove.Record, biomes []biome.Biome) builtIndexes {
	t.Helper()
	table := mustSpeciesTable(t, speciesRecords)
	prevolutions, err := BuildPrevolutions(table, evolutions)
	if err != nil {
		t.Fatalf("build prevolutions: %v", err)
	}
	forms, err := BuildForms(table)
	if err != nil {
		t.Fatalf("build forms: %v", err)
	}
	eggIndex, err := BuildEggMoves(table, testMoves(t), prevolutions, eggMoves)
	if err != nil {
		t.Fatalf("build egg moves: %v", err)
	}
	habitats, err := BuildHabitats(table, testBiomes(t, biomes))
	if err != nil {
		t.Fatalf("build habitats: %v", err)
	}
	return builtIndexes{
		Prevolutions: prevolutions.Map(),
		Forms:        forms.Map(),
		EggMoves:     eggIndex.Map(),
		Habitats:     habitats.Map(),
	}
}

func shuffled[T any](rng *rand.Rand, in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

func TestIndexesIgnoreRecordOrder(t *testing.T) {
	eggMoves := []eggmove.Record{
		{Species: 1, Moves: []move.ID{1, 2, 3, 4}},
		{Species: 133, Moves: []move.ID{5, 6, 7, 8}},
		{Species: 172, Moves: []move.ID{8, 7, 6, 5}},
	}
	want := buildAll(t, testSpeciesRecords(), testEvolutions(), eggMoves, testBiomeRecords())

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		speciesRecords := shuffled(rng, testSpeciesRecords())
		for j := range speciesRecords {
			speciesRecords[j].Forms = shuffled(rng, speciesRecords[j].Forms)
		}
		got := buildAll(t,
			speciesRecords,
			shuffled(rng, testEvolutions()),
			shuffled(rng, eggMoves),
			shuffled(rng, testBiomeRecords()),
		)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("permutation %d changed indexes (-want +got):\n%s", i, diff)
		}
	}
}
