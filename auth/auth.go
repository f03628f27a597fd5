// Package auth verifies the login tokens issued by the account service and
// resolves them to a stable player identity. The game core never issues
// tokens itself.
package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

var ErrUnauthenticated = errors.New("request is not authenticated")

// Identity is the stable player identifier plus display name carried in the
// token claims.
type Identity struct {
	PlayerID string
	Name     string
}

// Authenticator resolves an incoming upgrade request to a player identity.
type Authenticator interface {
	Authenticate(r *http.Request) (Identity, error)
}

type playerClaims struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
	jwt.RegisteredClaims
}

// JWTAuthenticator verifies HS256 tokens signed with a shared secret.
type JWTAuthenticator struct {
	secretKey []byte
}

func NewJWTAuthenticator(secret string) *JWTAuthenticator {
	return &JWTAuthenticator{secretKey: []byte(secret)}
}

// Authenticate accepts the token from either the "token" query parameter
// (websocket clients cannot always set headers) or a Bearer Authorization
// header.
func (a *JWTAuthenticator) Authenticate(r *http.Request) (Identity, error) {
	tokenString := r.URL.Query().Get("token")
	if tokenString == "" {
		header := r.Header.Get("Authorization")
		tokenString = strings.TrimPrefix(header, "Bearer ")
	}
	if tokenString == "" {
		return Identity{}, ErrUnauthenticated
	}
	return a.Verify(tokenString)
}

// Verify parses and validates a raw token string.
func (a *JWTAuthenticator) Verify(tokenString string) (Identity, error) {
	token, err := jwt.ParseWithClaims(tokenString, &playerClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrUnauthenticated
		}
		return a.secretKey, nil
	})
	if err != nil {
		return Identity{}, ErrUnauthenticated
	}

	claims, ok := token.Claims.(*playerClaims)
	if !ok || !token.Valid || claims.PlayerID == "" {
		return Identity{}, ErrUnauthenticated
	}
	return Identity{PlayerID: claims.PlayerID, Name: claims.Name}, nil
}
