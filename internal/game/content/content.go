// Package content loads the static definition tables from JSON payloads.
package content

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/roguedex/gamedata/internal/game/ability"
	"github.com/roguedex/gamedata/internal/game/achievement"
	"github.com/roguedex/gamedata/internal/game/biome"
	"github.com/roguedex/gamedata/internal/game/eggmove"
	"github.com/roguedex/gamedata/internal/game/evolution"
	"github.com/roguedex/gamedata/internal/game/move"
	"github.com/roguedex/gamedata/internal/game/species"
	"github.com/roguedex/gamedata/internal/game/stats"
	"github.com/roguedex/gamedata/internal/game/voucher"
)

// SchemaVersion is the payload version this package reads and writes.
const SchemaVersion = 1

// Kind names one table. Each kind is stored in "<kind>.json".
type Kind string

const (
	KindAbilities    Kind = "abilities"
	KindMoves        Kind = "moves"
	KindSpecies      Kind = "species"
	KindEvolutions   Kind = "evolutions"
	KindEggMoves     Kind = "egg_moves"
	KindBiomes       Kind = "biomes"
	KindStatsKeys    Kind = "stats_keys"
	KindAchievements Kind = "achievements"
	KindVouchers     Kind = "vouchers"
)

// Kinds lists every table kind in load order.
var Kinds = []Kind{
	KindAbilities,
	KindMoves,
	KindSpecies,
	KindEvolutions,
	KindEggMoves,
	KindBiomes,
	KindStatsKeys,
	KindAchievements,
	KindVouchers,
}

// FileName returns the payload file name of the kind.
func (k Kind) FileName() string {
	return string(k) + ".json"
}

// Tables holds the raw definition records of every domain.
type Tables struct {
	Abilities    []ability.Ability
	Moves        []move.Move
	Species      []species.Species
	Evolutions   []evolution.Evolution
	EggMoves     []eggmove.Record
	Biomes       []biome.Biome
	StatsKeys    []stats.Definition
	Achievements []achievement.Definition
	Vouchers     []voucher.Definition
}

// Counts returns the number of records per kind.
func (t Tables) Counts() map[Kind]int {
	return map[Kind]int{
		KindAbilities:    len(t.Abilities),
		KindMoves:        len(t.Moves),
		KindSpecies:      len(t.Species),
		KindEvolutions:   len(t.Evolutions),
		KindEggMoves:     len(t.EggMoves),
		KindBiomes:       len(t.Biomes),
		KindStatsKeys:    len(t.StatsKeys),
		KindAchievements: len(t.Achievements),
		KindVouchers:     len(t.Vouchers),
	}
}

type payload[T any] struct {
	SchemaVersion int    `json:"schema_version"`
	Source        string `json:"source"`
	Items         []T    `json:"items"`
}

//go:embed data/*.json
var embeddedFS embed.FS

// LoadEmbedded loads the tables shipped with the binary.
func LoadEmbedded() (Tables, error) {
	dataFS, err := fs.Sub(embeddedFS, "data")
	if err != nil {
		return Tables{}, fmt.Errorf("open embedded content: %w", err)
	}
	return LoadFromFS(dataFS)
}

// MustLoadEmbedded is LoadEmbedded for tests and entry points.
func MustLoadEmbedded() Tables {
	tables, err := LoadEmbedded()
	if err != nil {
		panic(err)
	}
	return tables
}

// LoadDir loads the tables from a directory of payload files.
func LoadDir(dir string) (Tables, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return Tables{}, fmt.Errorf("stat content dir: %w", err)
	}
	if !info.IsDir() {
		return Tables{}, fmt.Errorf("content dir %s is not a directory", dir)
	}
	return LoadFromFS(os.DirFS(dir))
}

// LoadFromFS loads every table from the root of fsys. All files are required.
func LoadFromFS(fsys fs.FS) (Tables, error) {
	var (
		tables Tables
		err    error
	)
	if tables.Abilities, err = readJSON[ability.Ability](fsys, KindAbilities); err != nil {
		return Tables{}, err
	}
	if tables.Moves, err = readJSON[move.Move](fsys, KindMoves); err != nil {
		return Tables{}, err
	}
	if tables.Species, err = readJSON[species.Species](fsys, KindSpecies); err != nil {
		return Tables{}, err
	}
	if tables.Evolutions, err = readJSON[evolution.Evolution](fsys, KindEvolutions); err != nil {
		return Tables{}, err
	}
	if tables.EggMoves, err = readJSON[eggmove.Record](fsys, KindEggMoves); err != nil {
		return Tables{}, err
	}
	if tables.Biomes, err = readJSON[biome.Biome](fsys, KindBiomes); err != nil {
		return Tables{}, err
	}
	if tables.StatsKeys, err = readJSON[stats.Definition](fsys, KindStatsKeys); err != nil {
		return Tables{}, err
	}
	if tables.Achievements, err = readJSON[achievement.Definition](fsys, KindAchievements); err != nil {
		return Tables{}, err
	}
	if tables.Vouchers, err = readJSON[voucher.Definition](fsys, KindVouchers); err != nil {
		return Tables{}, err
	}
	return tables, nil
}

func readJSON[T any](fsys fs.FS, kind Kind) ([]T, error) {
	data, err := fs.ReadFile(fsys, kind.FileName())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("content file %s is missing", kind.FileName())
		}
		return nil, fmt.Errorf("read %s: %w", kind.FileName(), err)
	}
	items, err := DecodePayload[T](data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", kind.FileName(), err)
	}
	return items, nil
}

// DecodePayload decodes one versioned payload. Unknown fields are rejected.
func DecodePayload[T any](data []byte) ([]T, error) {
	var p payload[T]
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&p); err != nil {
		return nil, err
	}
	if p.SchemaVersion != SchemaVersion {
		return nil, fmt.Errorf("schema version %d is not supported (want %d)", p.SchemaVersion, SchemaVersion)
	}
	return p.Items, nil
}

// EncodePayload encodes items as a versioned payload.
func EncodePayload[T any](source string, items []T) ([]byte, error) {
	if items == nil {
		items = []T{}
	}
	return json.MarshalIndent(payload[T]{SchemaVersion: SchemaVersion, Source: source, Items: items}, "", "  ")
}
