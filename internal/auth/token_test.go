package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func testManager() *TokenManager {
	return NewTokenManager("test-secret", "trip-planner", 15*time.Minute, 24*time.Hour)
}

// TestTokenPairRoundtrip проверяет выпуск и разбор пары токенов.
func TestTokenPairRoundtrip(t *testing.T) {
	manager := testManager()
	userID := uuid.New()
	refreshID := uuid.New()

	pair, err := manager.NewTokenPair(userID, refreshID, false)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	access, err := manager.ParseAccessToken(pair.AccessToken)
	if err != nil {
		t.Fatalf("expected valid access token, got %v", err)
	}
	if access.Subject != userID.String() {
		t.Fatalf("unexpected subject: %s", access.Subject)
	}
	if access.Guest {
		t.Fatal("expected non-guest claims")
	}

	refresh, err := manager.ParseRefreshToken(pair.RefreshToken)
	if err != nil {
		t.Fatalf("expected valid refresh token, got %v", err)
	}
	if refresh.ID != refreshID.String() {
		t.Fatalf("unexpected refresh token id: %s", refresh.ID)
	}
}

// TestTokenPairGuestClaim проверяет гостевой признак в claims.
func TestTokenPairGuestClaim(t *testing.T) {
	manager := testManager()

	pair, err := manager.NewTokenPair(uuid.New(), uuid.New(), true)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	claims, err := manager.ParseAccessToken(pair.AccessToken)
	if err != nil {
		t.Fatalf("expected valid token, got %v", err)
	}
	if !claims.Guest {
		t.Fatal("expected guest claim")
	}
}

// TestTokenTypeMismatch проверяет отказ при подмене типа токена.
func TestTokenTypeMismatch(t *testing.T) {
	manager := testManager()

	pair, err := manager.NewTokenPair(uuid.New(), uuid.New(), false)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if _, err := manager.ParseAccessToken(pair.RefreshToken); err == nil {
		t.Fatal("expected refresh token to fail access parsing")
	}

	if _, err := manager.ParseRefreshToken(pair.AccessToken); err == nil {
		t.Fatal("expected access token to fail refresh parsing")
	}
}

// TestTokenWrongSecret проверяет отказ при чужом секрете.
func TestTokenWrongSecret(t *testing.T) {
	pair, err := testManager().NewTokenPair(uuid.New(), uuid.New(), false)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	other := NewTokenManager("other-secret", "trip-planner", time.Minute, time.Hour)
	if _, err := other.ParseAccessToken(pair.AccessToken); err == nil {
		t.Fatal("expected signature verification to fail")
	}
}
