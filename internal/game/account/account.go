// Package account resolves the user the process acts on behalf of.
package account

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/roguedex/gamedata/internal/platform/errors"
)

const (
	// GuestUsername names the user of a process without a session.
	GuestUsername = "Guest"
	// NoSessionSlot marks a user that has never saved a session.
	NoSessionSlot = -1
	// MaxSessionSlot is the highest save slot index.
	MaxSessionSlot = 4
)

// User is the logged-in player.
type User struct {
	Username        string `json:"username"`
	LastSessionSlot int    `json:"last_session_slot"`
}

// Guest returns the default user when no session is configured.
func Guest() User {
	return User{Username: GuestUsername, LastSessionSlot: NoSessionSlot}
}

// IsGuest reports whether u is the guest user.
func (u User) IsGuest() bool {
	return u.Username == GuestUsername
}

// Config holds the session settings.
type Config struct {
	SessionToken  string `env:"ROGUEDEX_SESSION_TOKEN"`
	SessionSecret string `env:"ROGUEDEX_SESSION_SECRET"`
	Now           func() time.Time
}

type sessionClaims struct {
	jwt.RegisteredClaims
	LastSessionSlot *int `json:"last_session_slot"`
}

// Init resolves the logged-in user. Without a session token the guest user is
// returned; otherwise the token must be an HS256 JWT signed with the secret.
func Init(cfg Config) (User, error) {
	token := strings.TrimSpace(cfg.SessionToken)
	if token == "" {
		return Guest(), nil
	}
	secret := strings.TrimSpace(cfg.SessionSecret)
	if secret == "" {
		return User{}, errors.New("ROGUEDEX_SESSION_SECRET is required when a session token is set")
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	var claims sessionClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return []byte(secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(now),
	)
	if err != nil {
		return User{}, mapJWTError(err)
	}

	username := strings.TrimSpace(claims.Subject)
	if username == "" {
		return User{}, apperrors.New(apperrors.CodeInvalidSessionToken, "session token sub is required")
	}
	if strings.EqualFold(username, GuestUsername) {
		return User{}, apperrors.New(apperrors.CodeInvalidSessionToken, "session token cannot name the guest user")
	}
	slot := NoSessionSlot
	if claims.LastSessionSlot != nil {
		slot = *claims.LastSessionSlot
	}
	if slot < NoSessionSlot || slot > MaxSessionSlot {
		return User{}, apperrors.WithMetadata(
			apperrors.CodeInvalidSessionToken,
			fmt.Sprintf("session slot %d is out of range", slot),
			map[string]string{"Field": "last_session_slot"},
		)
	}
	return User{Username: username, LastSessionSlot: slot}, nil
}

// IssueToken signs a session token for user. It is used by tooling and tests.
func IssueToken(user User, secret string, expiresAt time.Time) (string, error) {
	if strings.TrimSpace(user.Username) == "" {
		return "", errors.New("username is required")
	}
	if strings.TrimSpace(secret) == "" {
		return "", errors.New("secret is required")
	}
	slot := user.LastSessionSlot
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: user.Username},
		LastSessionSlot:  &slot,
	}
	if !expiresAt.IsZero() {
		claims.ExpiresAt = jwt.NewNumericDate(expiresAt)
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(strings.TrimSpace(secret)))
}

func mapJWTError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return apperrors.Wrap(apperrors.CodeInvalidSessionToken, "session token is expired", err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return apperrors.Wrap(apperrors.CodeInvalidSessionToken, "session token signature is invalid", err)
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		return apperrors.Wrap(apperrors.CodeInvalidSessionToken, "session token alg is invalid", err)
	default:
		return apperrors.Wrap(apperrors.CodeInvalidSessionToken, "session token is invalid", err)
	}
}
