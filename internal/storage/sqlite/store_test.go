package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/roguedex/gamedata/internal/game/content"
	"github.com/roguedex/gamedata/internal/game/rewards"
	apperrors "github.com/roguedex/gamedata/internal/platform/errors"
)

func openTestContentStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "content.db")
	store, err := OpenContent(context.Background(), path)
	if err != nil {
		t.Fatalf("open content store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})
	return store
}

func TestOpenContentRequiresPath(t *testing.T) {
	if _, err := OpenContent(context.Background(), " "); err == nil {
		t.Fatal("expected error")
	}
}

func TestOpenContentTwiceReappliesNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "content.db")
	for i := 0; i < 2; i++ {
		store, err := OpenContent(context.Background(), path)
		if err != nil {
			t.Fatalf("open %d: %v", i, err)
		}
		if err := store.Close(); err != nil {
			t.Fatalf("close %d: %v", i, err)
		}
	}
}

func TestCloseIsNilSafe(t *testing.T) {
	var store *Store
	if err := store.Close(); err != nil {
		t.Fatalf("close nil store: %v", err)
	}
}

func TestReplaceAndLoadTables(t *testing.T) {
	store := openTestContentStore(t)
	ctx := context.Background()
	tables := content.MustLoadEmbedded()

	if err := store.ReplaceTables(ctx, tables, "test"); err != nil {
		t.Fatalf("replace tables: %v", err)
	}
	loaded, err := store.LoadTables(ctx)
	if err != nil {
		t.Fatalf("load tables: %v", err)
	}
	if diff := cmp.Diff(tables, loaded); diff != "" {
		t.Fatalf("tables mismatch (-want +got):\n%s", diff)
	}

	counts, err := store.ContentCounts(ctx)
	if err != nil {
		t.Fatalf("content counts: %v", err)
	}
	if diff := cmp.Diff(tables.Counts(), counts); diff != "" {
		t.Fatalf("counts mismatch (-want +got):\n%s", diff)
	}
}

func TestReplaceTablesDropsPreviousContent(t *testing.T) {
	store := openTestContentStore(t)
	ctx := context.Background()
	tables := content.MustLoadEmbedded()
	if err := store.ReplaceTables(ctx, tables, "first"); err != nil {
		t.Fatalf("replace tables: %v", err)
	}

	smaller := tables
	smaller.Vouchers = tables.Vouchers[:1]
	if err := store.ReplaceTables(ctx, smaller, "second"); err != nil {
		t.Fatalf("replace tables: %v", err)
	}
	loaded, err := store.LoadTables(ctx)
	if err != nil {
		t.Fatalf("load tables: %v", err)
	}
	if len(loaded.Vouchers) != 1 || loaded.Vouchers[0].ID != tables.Vouchers[0].ID {
		t.Fatalf("vouchers = %+v", loaded.Vouchers)
	}
}

func TestReplaceTablesRollsBackOnDuplicate(t *testing.T) {
	store := openTestContentStore(t)
	ctx := context.Background()
	tables := content.MustLoadEmbedded()
	if err := store.ReplaceTables(ctx, tables, "first"); err != nil {
		t.Fatalf("replace tables: %v", err)
	}

	broken := tables
	broken.Moves = append(append(broken.Moves[:0:0], tables.Moves...), tables.Moves[0])
	if err := store.ReplaceTables(ctx, broken, "broken"); err == nil {
		t.Fatal("expected duplicate record error")
	}
	loaded, err := store.LoadTables(ctx)
	if err != nil {
		t.Fatalf("load tables: %v", err)
	}
	if len(loaded.Moves) != len(tables.Moves) {
		t.Fatalf("moves = %d, want %d", len(loaded.Moves), len(tables.Moves))
	}
}

func TestLoadTablesBeforeImport(t *testing.T) {
	store := openTestContentStore(t)
	_, err := store.LoadTables(context.Background())
	if !apperrors.HasCode(err, apperrors.CodeNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestGrants(t *testing.T) {
	store := openTestContentStore(t)
	ctx := context.Background()
	first := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	later := first.Add(time.Hour)

	grants := []rewards.Grant{
		{Username: "red", Kind: rewards.KindVoucher, ID: "CLASSIC_VICTORY_GOLDEN", GrantedAt: first},
		{Username: "red", Kind: rewards.KindAchievement, ID: "CLASSIC_VICTORY", GrantedAt: first},
		{Username: "blue", Kind: rewards.KindAchievement, ID: "10K_MONEY", GrantedAt: first},
	}
	if err := store.PutGrants(ctx, grants); err != nil {
		t.Fatalf("put grants: %v", err)
	}
	if err := store.PutGrants(ctx, []rewards.Grant{
		{Username: "red", Kind: rewards.KindAchievement, ID: "CLASSIC_VICTORY", GrantedAt: later},
	}); err != nil {
		t.Fatalf("put duplicate grant: %v", err)
	}

	got, err := store.ListGrants(ctx, "red")
	if err != nil {
		t.Fatalf("list grants: %v", err)
	}
	want := []rewards.Grant{
		{Username: "red", Kind: rewards.KindAchievement, ID: "CLASSIC_VICTORY", GrantedAt: first},
		{Username: "red", Kind: rewards.KindVoucher, ID: "CLASSIC_VICTORY_GOLDEN", GrantedAt: first},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("grants mismatch (-want +got):\n%s", diff)
	}

	none, err := store.ListGrants(ctx, "green")
	if err != nil || len(none) != 0 {
		t.Fatalf("list grants for unknown user = %v, %v", none, err)
	}
}

func TestPutGrantsValidates(t *testing.T) {
	store := openTestContentStore(t)
	tests := []rewards.Grant{
		{Kind: rewards.KindAchievement, ID: "x"},
		{Username: "red", Kind: rewards.KindAchievement},
		{Username: "red", Kind: "ribbon", ID: "x"},
	}
	for _, grant := range tests {
		if err := store.PutGrants(context.Background(), []rewards.Grant{grant}); err == nil {
			t.Fatalf("expected error for %+v", grant)
		}
	}
}

func TestCanceledContext(t *testing.T) {
	store := openTestContentStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := store.ListGrants(ctx, "red"); err == nil {
		t.Fatal("expected canceled error")
	}
	if err := store.ReplaceTables(ctx, content.Tables{}, "x"); err == nil {
		t.Fatal("expected canceled error")
	}
}
