package auth

import (
	"errors"
	"strings"
	"testing"
	"time"
)

var secret = []byte("test-secret")

func TestGenerateAndVerify(t *testing.T) {
	token, expiresAt, err := GenerateToken("game-1", "player-1", secret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	if time.Until(expiresAt) <= 0 {
		t.Errorf("expected expiry in the future, got %v", expiresAt)
	}
	claims, err := VerifyGameToken(token, "game-1", secret)
	if err != nil {
		t.Fatalf("VerifyGameToken failed: %v", err)
	}
	if claims.GameID != "game-1" || claims.PlayerID != "player-1" {
		t.Errorf("unexpected claims %+v", claims)
	}
}

func TestVerifyToken_Rejects(t *testing.T) {
	token, _, err := GenerateToken("game-1", "player-1", secret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	payload, sig, _ := strings.Cut(token, ".")
	defaulted, _, _ := GenerateToken("game-1", "player-1", secret, -time.Hour)

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{"no dot", "abc", ErrInvalidToken},
		{"bad signature", payload + "." + sig + "x", ErrInvalidToken},
		{"other secret", token, ErrInvalidToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := secret
			if tt.name == "other secret" {
				key = []byte("other")
			}
			if _, err := VerifyToken(tt.token, key); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}

	// A negative expiry falls back to the default lifetime.
	if _, err := VerifyToken(defaulted, secret); err != nil {
		t.Errorf("expected default expiry for non-positive duration, got %v", err)
	}
	if _, err := VerifyGameToken(token, "game-2", secret); !errors.Is(err, ErrWrongGame) {
		t.Errorf("expected ErrWrongGame, got %v", err)
	}
	if _, _, err := GenerateToken("g", "p", nil, time.Hour); !errors.Is(err, ErrNoSecret) {
		t.Errorf("expected ErrNoSecret, got %v", err)
	}
}
