package account

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/roguedex/gamedata/internal/platform/errors"
)

const testSecret = "shhh-not-a-real-secret"

func TestInitWithoutTokenReturnsGuest(t *testing.T) {
	user, err := Init(Config{})
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if user != Guest() {
		t.Fatalf("user = %+v, want guest", user)
	}
	if !user.IsGuest() || user.LastSessionSlot != -1 {
		t.Fatalf("guest = %+v", user)
	}
}

func TestInitWithToken(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	token, err := IssueToken(User{Username: "red", LastSessionSlot: 2}, testSecret, now.Add(time.Hour))
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	user, err := Init(Config{SessionToken: token, SessionSecret: testSecret, Now: func() time.Time { return now }})
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if user.Username != "red" || user.LastSessionSlot != 2 {
		t.Fatalf("user = %+v", user)
	}
}

func TestInitWithoutSlotClaim(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "blue"}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	user, err := Init(Config{SessionToken: token, SessionSecret: testSecret})
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if user.LastSessionSlot != NoSessionSlot {
		t.Fatalf("slot = %d, want %d", user.LastSessionSlot, NoSessionSlot)
	}
}

func TestInitRejectsBadTokens(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	sign := func(method jwt.SigningMethod, key any, claims jwt.MapClaims) string {
		t.Helper()
		token, err := jwt.NewWithClaims(method, claims).SignedString(key)
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		return token
	}

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not-a-jwt"},
		{name: "wrong secret", token: sign(jwt.SigningMethodHS256, []byte("other"), jwt.MapClaims{"sub": "red"})},
		{name: "wrong alg", token: sign(jwt.SigningMethodHS512, []byte(testSecret), jwt.MapClaims{"sub": "red"})},
		{name: "expired", token: sign(jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{"sub": "red", "exp": now.Add(-time.Minute).Unix()})},
		{name: "missing subject", token: sign(jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{"last_session_slot": 1})},
		{name: "guest subject", token: sign(jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{"sub": "guest"})},
		{name: "slot out of range", token: sign(jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{"sub": "red", "last_session_slot": 9})},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Init(Config{SessionToken: tc.token, SessionSecret: testSecret, Now: func() time.Time { return now }})
			if !apperrors.HasCode(err, apperrors.CodeInvalidSessionToken) {
				t.Fatalf("err = %v, want invalid session token", err)
			}
		})
	}
}

func TestInitRequiresSecretWithToken(t *testing.T) {
	if _, err := Init(Config{SessionToken: "abc"}); err == nil {
		t.Fatal("expected missing secret error")
	}
}

func TestIssueTokenValidation(t *testing.T) {
	if _, err := IssueToken(User{}, testSecret, time.Time{}); err == nil {
		t.Fatal("expected username error")
	}
	if _, err := IssueToken(User{Username: "red"}, " ", time.Time{}); err == nil {
		t.Fatal("expected secret error")
	}
}
