// Package rewards grants the achievements and vouchers a player has earned.
package rewards

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/roguedex/gamedata/internal/game/account"
	"github.com/roguedex/gamedata/internal/game/achievement"
	"github.com/roguedex/gamedata/internal/game/progress"
	"github.com/roguedex/gamedata/internal/game/voucher"
	"github.com/roguedex/gamedata/internal/platform/logging"
)

// Kind separates achievement grants from voucher grants.
type Kind string

const (
	KindAchievement Kind = "achievement"
	KindVoucher     Kind = "voucher"
)

// Grant records one unlock owned by a user.
type Grant struct {
	Username  string
	Kind      Kind
	ID        string
	GrantedAt time.Time
}

// Store persists grants.
type Store interface {
	ListGrants(ctx context.Context, username string) ([]Grant, error)
	PutGrants(ctx context.Context, grants []Grant) error
}

// Result is the outcome of one Grant call. Every list is sorted.
type Result struct {
	Achievements    []achievement.ID
	Vouchers        []voucher.ID
	NewAchievements []achievement.ID
	NewVouchers     []voucher.ID
	Score           int
}

// Service evaluates unlocks and records new grants.
type Service struct {
	achievements *achievement.Registry
	vouchers     *voucher.Registry
	store        Store
	logger       *zap.Logger
	now          func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithStore persists grants in store. Without a store nothing is persisted.
func WithStore(store Store) Option {
	return func(s *Service) {
		s.store = store
	}
}

// WithLogger sets the service logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		s.logger = logging.OrNop(logger)
	}
}

// WithClock sets the time source for grant timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService builds a service over initialized registries.
func NewService(achievements *achievement.Registry, vouchers *voucher.Registry, opts ...Option) (*Service, error) {
	if achievements == nil {
		return nil, errors.New("achievement registry is required")
	}
	if vouchers == nil {
		return nil, errors.New("voucher registry is required")
	}
	s := &Service{
		achievements: achievements,
		vouchers:     vouchers,
		logger:       zap.NewNop(),
		now:          time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// Grant evaluates achievements first, folds them into the snapshot, then
// evaluates vouchers. Unlocks already present in the snapshot or the store
// are not granted again.
func (s *Service) Grant(ctx context.Context, user account.User, snapshot progress.Snapshot) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	username := strings.TrimSpace(user.Username)
	if username == "" {
		return Result{}, errors.New("username is required")
	}

	owned := map[Kind]map[string]struct{}{
		KindAchievement: toSet(snapshot.Achievements),
		KindVoucher:     {},
	}
	if s.store != nil {
		stored, err := s.store.ListGrants(ctx, username)
		if err != nil {
			return Result{}, fmt.Errorf("list grants: %w", err)
		}
		for _, grant := range stored {
			if set, ok := owned[grant.Kind]; ok {
				set[grant.ID] = struct{}{}
			}
		}
	}

	snapshot = snapshot.WithAchievements(keys(owned[KindAchievement])...)
	met, err := s.achievements.Unlocked(snapshot)
	if err != nil {
		return Result{}, fmt.Errorf("evaluate achievements: %w", err)
	}
	var result Result
	for _, id := range met {
		if _, ok := owned[KindAchievement][string(id)]; !ok {
			result.NewAchievements = append(result.NewAchievements, id)
		}
	}

	snapshot = snapshot.WithAchievements(achievement.Strings(met)...)
	for _, id := range snapshot.Achievements {
		if s.achievements.Has(id) {
			result.Achievements = append(result.Achievements, achievement.ID(id))
		}
	}
	result.Score = s.achievements.Score(result.Achievements)

	vouchers, err := s.vouchers.Unlocked(snapshot)
	if err != nil {
		return Result{}, fmt.Errorf("evaluate vouchers: %w", err)
	}
	seen := owned[KindVoucher]
	for _, id := range vouchers {
		if _, ok := seen[string(id)]; !ok {
			result.NewVouchers = append(result.NewVouchers, id)
			seen[string(id)] = struct{}{}
		}
	}
	for id := range seen {
		result.Vouchers = append(result.Vouchers, voucher.ID(id))
	}
	sort.Slice(result.Vouchers, func(i, j int) bool { return result.Vouchers[i] < result.Vouchers[j] })

	if err := s.persist(ctx, username, result); err != nil {
		return Result{}, err
	}
	s.logger.Info("rewards granted",
		zap.String("username", username),
		zap.Int("new_achievements", len(result.NewAchievements)),
		zap.Int("new_vouchers", len(result.NewVouchers)),
		zap.Int("score", result.Score),
	)
	return result, nil
}

func (s *Service) persist(ctx context.Context, username string, result Result) error {
	if s.store == nil || len(result.NewAchievements)+len(result.NewVouchers) == 0 {
		return nil
	}
	grantedAt := s.now().UTC()
	grants := make([]Grant, 0, len(result.NewAchievements)+len(result.NewVouchers))
	for _, id := range result.NewAchievements {
		grants = append(grants, Grant{Username: username, Kind: KindAchievement, ID: string(id), GrantedAt: grantedAt})
	}
	for _, id := range result.NewVouchers {
		grants = append(grants, Grant{Username: username, Kind: KindVoucher, ID: string(id), GrantedAt: grantedAt})
	}
	if err := s.store.PutGrants(ctx, grants); err != nil {
		return fmt.Errorf("put grants: %w", err)
	}
	return nil
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, value := range values {
		set[value] = struct{}{}
	}
	return set
}

func keys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for key := range set {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}
