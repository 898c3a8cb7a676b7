package rewards

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/roguedex/gamedata/internal/game/account"
	"github.com/roguedex/gamedata/internal/game/achievement"
	"github.com/roguedex/gamedata/internal/game/content"
	"github.com/roguedex/gamedata/internal/game/progress"
	"github.com/roguedex/gamedata/internal/game/registry"
	"github.com/roguedex/gamedata/internal/game/species"
	"github.com/roguedex/gamedata/internal/game/voucher"
)

type memoryStore struct {
	mu      sync.Mutex
	grants  []Grant
	listErr error
	putErr  error
	puts    int
}

func (m *memoryStore) ListGrants(_ context.Context, username string) ([]Grant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []Grant
	for _, grant := range m.grants {
		if grant.Username == username {
			out = append(out, grant)
		}
	}
	return out, nil
}

func (m *memoryStore) PutGrants(_ context.Context, grants []Grant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.putErr != nil {
		return m.putErr
	}
	m.puts++
	m.grants = append(m.grants, grants...)
	return nil
}

func newService(t *testing.T, opts ...Option) *Service {
	t.Helper()
	c := registry.New(content.MustLoadEmbedded()).MustBootstrap(context.Background())
	achievements, err := c.Achievements()
	if err != nil {
		t.Fatalf("achievements: %v", err)
	}
	vouchers, err := c.Vouchers()
	if err != nil {
		t.Fatalf("vouchers: %v", err)
	}
	service, err := NewService(achievements, vouchers, opts...)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return service
}

var red = account.User{Username: "red", LastSessionSlot: 0}

func TestGrant(t *testing.T) {
	store := &memoryStore{}
	grantedAt := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	service := newService(t, WithStore(store), WithClock(func() time.Time { return grantedAt }))

	snapshot := progress.Snapshot{
		Stats:  map[string]int64{"highestMoney": 150000, "sessionsWon": 1},
		Caught: []species.ID{150},
	}
	result, err := service.Grant(context.Background(), red, snapshot)
	if err != nil {
		t.Fatalf("grant: %v", err)
	}
	want := Result{
		Achievements:    []achievement.ID{"100K_MONEY", "10K_MONEY", "CATCH_MEWTWO", "CLASSIC_VICTORY"},
		Vouchers:        []voucher.ID{"CATCH_MEWTWO_PLUS", "CLASSIC_VICTORY_GOLDEN"},
		NewAchievements: []achievement.ID{"100K_MONEY", "10K_MONEY", "CATCH_MEWTWO", "CLASSIC_VICTORY"},
		NewVouchers:     []voucher.ID{"CATCH_MEWTWO_PLUS", "CLASSIC_VICTORY_GOLDEN"},
		Score:           235,
	}
	if diff := cmp.Diff(want, result); diff != "" {
		t.Fatalf("result mismatch (-want +got):\n%s", diff)
	}
	if len(store.grants) != 6 {
		t.Fatalf("stored grants = %d, want 6", len(store.grants))
	}
	for _, grant := range store.grants {
		if grant.Username != "red" || !grant.GrantedAt.Equal(grantedAt) {
			t.Fatalf("grant = %+v", grant)
		}
	}

	again, err := service.Grant(context.Background(), red, snapshot)
	if err != nil {
		t.Fatalf("second grant: %v", err)
	}
	if len(again.NewAchievements) != 0 || len(again.NewVouchers) != 0 {
		t.Fatalf("second grant must not grant again: %+v", again)
	}
	if diff := cmp.Diff(want.Achievements, again.Achievements); diff != "" {
		t.Fatalf("achievements mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want.Vouchers, again.Vouchers); diff != "" {
		t.Fatalf("vouchers mismatch (-want +got):\n%s", diff)
	}
	if store.puts != 1 {
		t.Fatalf("puts = %d, want 1", store.puts)
	}
}

func TestGrantUsesSnapshotAchievements(t *testing.T) {
	service := newService(t)
	result, err := service.Grant(context.Background(), red, progress.Snapshot{Achievements: []string{"CLASSIC_VICTORY"}})
	if err != nil {
		t.Fatalf("grant: %v", err)
	}
	want := Result{
		Achievements: []achievement.ID{"CLASSIC_VICTORY"},
		Vouchers:     []voucher.ID{"CLASSIC_VICTORY_GOLDEN"},
		NewVouchers:  []voucher.ID{"CLASSIC_VICTORY_GOLDEN"},
		Score:        150,
	}
	if diff := cmp.Diff(want, result, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("result mismatch (-want +got):\n%s", diff)
	}
}

func TestGrantScriptedAchievement(t *testing.T) {
	service := newService(t)
	snapshot := progress.Snapshot{Caught: []species.ID{133, 134, 135, 136, 196, 197}}
	result, err := service.Grant(context.Background(), red, snapshot)
	if err != nil {
		t.Fatalf("grant: %v", err)
	}
	if diff := cmp.Diff([]achievement.ID{"EEVEELUTION_SET"}, result.NewAchievements); diff != "" {
		t.Fatalf("new achievements mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]voucher.ID{"EEVEELUTION_SET_PLUS"}, result.NewVouchers); diff != "" {
		t.Fatalf("new vouchers mismatch (-want +got):\n%s", diff)
	}
}

func TestGrantErrors(t *testing.T) {
	boom := errors.New("boom")
	snapshot := progress.Snapshot{Stats: map[string]int64{"sessionsWon": 1}}

	if _, err := newService(t).Grant(context.Background(), account.User{}, snapshot); err == nil {
		t.Fatal("expected username error")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := newService(t).Grant(ctx, red, snapshot); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want canceled", err)
	}

	if _, err := newService(t, WithStore(&memoryStore{listErr: boom})).Grant(context.Background(), red, snapshot); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want list error", err)
	}
	if _, err := newService(t, WithStore(&memoryStore{putErr: boom})).Grant(context.Background(), red, snapshot); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want put error", err)
	}
}

func TestNewServiceRequiresRegistries(t *testing.T) {
	if _, err := NewService(nil, nil); err == nil {
		t.Fatal("expected error")
	}
}
