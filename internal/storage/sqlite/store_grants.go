package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/roguedex/gamedata/internal/game/rewards"
)

// PutGrants records grants in one transaction. Grants that already exist
// keep their original timestamp.
func (s *Store) PutGrants(ctx context.Context, grants []rewards.Grant) error {
	if err := s.validate(ctx); err != nil {
		return err
	}
	for _, grant := range grants {
		if strings.TrimSpace(grant.Username) == "" || strings.TrimSpace(grant.ID) == "" {
			return fmt.Errorf("grant username and id are required")
		}
		if grant.Kind != rewards.KindAchievement && grant.Kind != rewards.KindVoucher {
			return fmt.Errorf("grant kind %q is not supported", grant.Kind)
		}
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, grant := range grants {
		if _, err := tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO grants (username, kind, unlock_id, granted_at) VALUES (?, ?, ?, ?)",
			grant.Username, string(grant.Kind), grant.ID, toMillis(grant.GrantedAt),
		); err != nil {
			return fmt.Errorf("put grant %s %s: %w", grant.Kind, grant.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// ListGrants returns the grants of username ordered by kind and id.
func (s *Store) ListGrants(ctx context.Context, username string) ([]rewards.Grant, error) {
	if err := s.validate(ctx); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		"SELECT kind, unlock_id, granted_at FROM grants WHERE username = ? ORDER BY kind, unlock_id",
		username,
	)
	if err != nil {
		return nil, fmt.Errorf("list grants: %w", err)
	}
	defer rows.Close()

	var out []rewards.Grant
	for rows.Next() {
		var (
			kind      string
			id        string
			grantedAt int64
		)
		if err := rows.Scan(&kind, &id, &grantedAt); err != nil {
			return nil, fmt.Errorf("scan grant: %w", err)
		}
		out = append(out, rewards.Grant{
			Username:  username,
			Kind:      rewards.Kind(kind),
			ID:        id,
			GrantedAt: fromMillis(grantedAt),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read grants: %w", err)
	}
	return out, nil
}

var _ rewards.Store = (*Store)(nil)
