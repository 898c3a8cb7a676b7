package sqlite

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/roguedex/gamedata/internal/game/ability"
	"github.com/roguedex/gamedata/internal/game/achievement"
	"github.com/roguedex/gamedata/internal/game/biome"
	"github.com/roguedex/gamedata/internal/game/content"
	"github.com/roguedex/gamedata/internal/game/eggmove"
	"github.com/roguedex/gamedata/internal/game/evolution"
	"github.com/roguedex/gamedata/internal/game/move"
	"github.com/roguedex/gamedata/internal/game/species"
	"github.com/roguedex/gamedata/internal/game/stats"
	"github.com/roguedex/gamedata/internal/game/voucher"
	apperrors "github.com/roguedex/gamedata/internal/platform/errors"
)

type contentRecord struct {
	id      string
	payload []byte
}

func encodeRecords[T any](items []T, idOf func(T) string) ([]contentRecord, error) {
	out := make([]contentRecord, 0, len(items))
	for _, item := range items {
		payload, err := json.Marshal(item)
		if err != nil {
			return nil, fmt.Errorf("marshal %s: %w", idOf(item), err)
		}
		out = append(out, contentRecord{id: idOf(item), payload: payload})
	}
	return out, nil
}

func decodeRecords[T any](payloads []string) ([]T, error) {
	out := make([]T, 0, len(payloads))
	for i, payload := range payloads {
		var item T
		decoder := json.NewDecoder(bytes.NewReader([]byte(payload)))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&item); err != nil {
			return nil, fmt.Errorf("decode record %d: %w", i, err)
		}
		out = append(out, item)
	}
	return out, nil
}

func encodeTables(tables content.Tables) (map[content.Kind][]contentRecord, error) {
	out := make(map[content.Kind][]contentRecord, len(content.Kinds))
	var err error
	if out[content.KindAbilities], err = encodeRecords(tables.Abilities, func(a ability.Ability) string { return strconv.Itoa(int(a.ID)) }); err != nil {
		return nil, err
	}
	if out[content.KindMoves], err = encodeRecords(tables.Moves, func(m move.Move) string { return strconv.Itoa(int(m.ID)) }); err != nil {
		return nil, err
	}
	if out[content.KindSpecies], err = encodeRecords(tables.Species, func(s species.Species) string { return strconv.Itoa(int(s.ID)) }); err != nil {
		return nil, err
	}
	if out[content.KindEvolutions], err = encodeRecords(tables.Evolutions, evolution.Evolution.Key); err != nil {
		return nil, err
	}
	if out[content.KindEggMoves], err = encodeRecords(tables.EggMoves, func(r eggmove.Record) string { return strconv.Itoa(int(r.Species)) }); err != nil {
		return nil, err
	}
	if out[content.KindBiomes], err = encodeRecords(tables.Biomes, func(b biome.Biome) string { return strconv.Itoa(int(b.ID)) }); err != nil {
		return nil, err
	}
	if out[content.KindStatsKeys], err = encodeRecords(tables.StatsKeys, func(d stats.Definition) string { return string(d.Key) }); err != nil {
		return nil, err
	}
	if out[content.KindAchievements], err = encodeRecords(tables.Achievements, func(d achievement.Definition) string { return string(d.ID) }); err != nil {
		return nil, err
	}
	if out[content.KindVouchers], err = encodeRecords(tables.Vouchers, func(d voucher.Definition) string { return string(d.ID) }); err != nil {
		return nil, err
	}
	return out, nil
}

// ReplaceTables swaps every stored content table for tables in one
// transaction.
func (s *Store) ReplaceTables(ctx context.Context, tables content.Tables, source string) error {
	if err := s.validate(ctx); err != nil {
		return err
	}
	records, err := encodeTables(tables)
	if err != nil {
		return err
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM content_records"); err != nil {
		return fmt.Errorf("clear content records: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM content_sources"); err != nil {
		return fmt.Errorf("clear content sources: %w", err)
	}

	updatedAt := toMillis(s.now())
	for _, kind := range content.Kinds {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO content_sources (kind, source, schema_version, updated_at) VALUES (?, ?, ?, ?)",
			string(kind), source, content.SchemaVersion, updatedAt,
		); err != nil {
			return fmt.Errorf("put %s source: %w", kind, err)
		}
		for position, record := range records[kind] {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO content_records (kind, position, record_id, payload_json) VALUES (?, ?, ?, ?)",
				string(kind), position, record.id, string(record.payload),
			); err != nil {
				return fmt.Errorf("put %s %s: %w", kind, record.id, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// LoadTables reads every stored content table. It fails when a table was
// never imported.
func (s *Store) LoadTables(ctx context.Context) (content.Tables, error) {
	if err := s.validate(ctx); err != nil {
		return content.Tables{}, err
	}
	payloads := make(map[content.Kind][]string, len(content.Kinds))
	for _, kind := range content.Kinds {
		var version int
		err := s.sqlDB.QueryRowContext(ctx, "SELECT schema_version FROM content_sources WHERE kind = ?", string(kind)).Scan(&version)
		if errors.Is(err, sql.ErrNoRows) {
			return content.Tables{}, apperrors.WithMetadata(
				apperrors.CodeNotFound,
				fmt.Sprintf("content table %s has not been imported", kind),
				map[string]string{"domain": "content", "id": string(kind)},
			)
		}
		if err != nil {
			return content.Tables{}, fmt.Errorf("get %s source: %w", kind, err)
		}
		if version != content.SchemaVersion {
			return content.Tables{}, fmt.Errorf("content table %s has schema version %d (want %d)", kind, version, content.SchemaVersion)
		}
		rows, err := s.listPayloads(ctx, kind)
		if err != nil {
			return content.Tables{}, err
		}
		payloads[kind] = rows
	}

	var (
		tables content.Tables
		err    error
	)
	if tables.Abilities, err = decodeRecords[ability.Ability](payloads[content.KindAbilities]); err != nil {
		return content.Tables{}, fmt.Errorf("load abilities: %w", err)
	}
	if tables.Moves, err = decodeRecords[move.Move](payloads[content.KindMoves]); err != nil {
		return content.Tables{}, fmt.Errorf("load moves: %w", err)
	}
	if tables.Species, err = decodeRecords[species.Species](payloads[content.KindSpecies]); err != nil {
		return content.Tables{}, fmt.Errorf("load species: %w", err)
	}
	if tables.Evolutions, err = decodeRecords[evolution.Evolution](payloads[content.KindEvolutions]); err != nil {
		return content.Tables{}, fmt.Errorf("load evolutions: %w", err)
	}
	if tables.EggMoves, err = decodeRecords[eggmove.Record](payloads[content.KindEggMoves]); err != nil {
		return content.Tables{}, fmt.Errorf("load egg moves: %w", err)
	}
	if tables.Biomes, err = decodeRecords[biome.Biome](payloads[content.KindBiomes]); err != nil {
		return content.Tables{}, fmt.Errorf("load biomes: %w", err)
	}
	if tables.StatsKeys, err = decodeRecords[stats.Definition](payloads[content.KindStatsKeys]); err != nil {
		return content.Tables{}, fmt.Errorf("load stats keys: %w", err)
	}
	if tables.Achievements, err = decodeRecords[achievement.Definition](payloads[content.KindAchievements]); err != nil {
		return content.Tables{}, fmt.Errorf("load achievements: %w", err)
	}
	if tables.Vouchers, err = decodeRecords[voucher.Definition](payloads[content.KindVouchers]); err != nil {
		return content.Tables{}, fmt.Errorf("load vouchers: %w", err)
	}
	return tables, nil
}

func (s *Store) listPayloads(ctx context.Context, kind content.Kind) ([]string, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		"SELECT payload_json FROM content_records WHERE kind = ? ORDER BY position",
		string(kind),
	)
	if err != nil {
		return nil, fmt.Errorf("list %s records: %w", kind, err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan %s record: %w", kind, err)
		}
		out = append(out, payload)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read %s records: %w", kind, err)
	}
	return out, nil
}

// ContentCounts returns the number of stored records per kind.
func (s *Store) ContentCounts(ctx context.Context) (map[content.Kind]int, error) {
	if err := s.validate(ctx); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx, "SELECT kind, COUNT(*) FROM content_records GROUP BY kind")
	if err != nil {
		return nil, fmt.Errorf("count content records: %w", err)
	}
	defer rows.Close()

	out := make(map[content.Kind]int, len(content.Kinds))
	for rows.Next() {
		var (
			kind  string
			count int
		)
		if err := rows.Scan(&kind, &count); err != nil {
			return nil, fmt.Errorf("scan content count: %w", err)
		}
		out[content.Kind(kind)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read content counts: %w", err)
	}
	return out, nil
}
