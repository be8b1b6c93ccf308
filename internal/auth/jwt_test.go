package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestTokenRoundTrip(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)
	userID, orgID := uuid.New(), uuid.New()

	token, err := m.Issue(userID, orgID)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	gotUser, gotOrg, err := m.Verify(token)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if gotUser != userID || gotOrg != orgID {
		t.Errorf("claims = (%s, %s), want (%s, %s)", gotUser, gotOrg, userID, orgID)
	}
}

func TestTokenWrongSecret(t *testing.T) {
	token, err := NewTokenManager("secret-a", time.Hour).Issue(uuid.New(), uuid.New())
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	if _, _, err := NewTokenManager("secret-b", time.Hour).Verify(token); err != ErrInvalidToken {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}

func TestTokenExpired(t *testing.T) {
	m := NewTokenManager("test-secret", -time.Minute)
	token, err := m.Issue(uuid.New(), uuid.New())
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	if _, _, err := m.Verify(token); err != ErrInvalidToken {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}

func TestTokenGarbage(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)
	if _, _, err := m.Verify("not.a.token"); err != ErrInvalidToken {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}
