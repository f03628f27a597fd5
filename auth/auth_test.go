package auth

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signToken(t *testing.T, secret, playerID, name string) string {
	t.Helper()
	claims := playerClaims{
		PlayerID: playerID,
		Name:     name,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign test token: %v", err)
	}
	return signed
}

func TestJWTAuthenticator_QueryToken(t *testing.T) {
	a := NewJWTAuthenticator("test-secret")
	token := signToken(t, "test-secret", "pi-uid-1", "alice")

	req := httptest.NewRequest("GET", "/ws?token="+token, nil)
	id, err := a.Authenticate(req)
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if id.PlayerID != "pi-uid-1" || id.Name != "alice" {
		t.Errorf("unexpected identity: %+v", id)
	}
}

func TestJWTAuthenticator_BearerHeader(t *testing.T) {
	a := NewJWTAuthenticator("test-secret")
	token := signToken(t, "test-secret", "pi-uid-2", "bob")

	req := httptest.NewRequest("GET", "/ws", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	id, err := a.Authenticate(req)
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if id.PlayerID != "pi-uid-2" {
		t.Errorf("unexpected identity: %+v", id)
	}
}

func TestJWTAuthenticator_Rejections(t *testing.T) {
	a := NewJWTAuthenticator("test-secret")

	// No token at all.
	req := httptest.NewRequest("GET", "/ws", nil)
	if _, err := a.Authenticate(req); err != ErrUnauthenticated {
		t.Errorf("expected ErrUnauthenticated for missing token, got %v", err)
	}

	// Token signed with the wrong secret.
	bad := signToken(t, "other-secret", "pi-uid-3", "eve")
	req = httptest.NewRequest("GET", "/ws?token="+bad, nil)
	if _, err := a.Authenticate(req); err != ErrUnauthenticated {
		t.Errorf("expected ErrUnauthenticated for bad signature, got %v", err)
	}

	// Token without a player id claim.
	empty := signToken(t, "test-secret", "", "nobody")
	if _, err := a.Verify(empty); err != ErrUnauthenticated {
		t.Errorf("expected ErrUnauthenticated for empty player id, got %v", err)
	}
}
