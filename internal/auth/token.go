package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Token errors.
var (
	ErrNoSecret     = errors.New("token secret is required")
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
	ErrWrongGame    = errors.New("token issued for another game")
)

// Claims identify a seated player of one game.
type Claims struct {
	GameID   string `json:"game_id"`
	PlayerID string `json:"player_id"`
	Exp      int64  `json:"exp"`
}

// DefaultTokenExpiry is the default lifetime for player tokens.
const DefaultTokenExpiry = 24 * time.Hour

func sign(payload string, secret []byte) []byte {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(payload))
	return mac.Sum(nil)
}

// GenerateToken creates an HMAC-SHA256 signed player token.
// Format: base64url(payload).base64url(signature).
func GenerateToken(gameID, playerID string, secret []byte, expiry time.Duration) (token string, expiresAt time.Time, err error) {
	if len(secret) == 0 {
		return "", time.Time{}, ErrNoSecret
	}
	if expiry <= 0 {
		expiry = DefaultTokenExpiry
	}
	expiresAt = time.Now().UTC().Add(expiry)
	payload, err := json.Marshal(Claims{GameID: gameID, PlayerID: playerID, Exp: expiresAt.Unix()})
	if err != nil {
		return "", time.Time{}, fmt.Errorf("marshal claims: %w", err)
	}
	b64Payload := base64.RawURLEncoding.EncodeToString(payload)
	b64Sig := base64.RawURLEncoding.EncodeToString(sign(b64Payload, secret))
	return b64Payload + "." + b64Sig, expiresAt, nil
}

// VerifyToken checks the signature and expiry and returns the claims.
func VerifyToken(token string, secret []byte) (*Claims, error) {
	if len(secret) == 0 {
		return nil, ErrNoSecret
	}
	b64Payload, b64Sig, ok := strings.Cut(token, ".")
	if !ok {
		return nil, fmt.Errorf("%w: format", ErrInvalidToken)
	}
	sig, err := base64.RawURLEncoding.DecodeString(b64Sig)
	if err != nil {
		return nil, fmt.Errorf("%w: signature encoding", ErrInvalidToken)
	}
	if !hmac.Equal(sig, sign(b64Payload, secret)) {
		return nil, fmt.Errorf("%w: signature", ErrInvalidToken)
	}

	payload, err := base64.RawURLEncoding.DecodeString(b64Payload)
	if err != nil {
		return nil, fmt.Errorf("%w: payload encoding", ErrInvalidToken)
	}
	var claims Claims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, fmt.Errorf("%w: payload", ErrInvalidToken)
	}
	if time.Now().UTC().Unix() > claims.Exp {
		return nil, ErrExpiredToken
	}
	if claims.GameID == "" || claims.PlayerID == "" {
		return nil, fmt.Errorf("%w: missing game_id or player_id", ErrInvalidToken)
	}
	return &claims, nil
}

// VerifyGameToken is VerifyToken restricted to one game.
func VerifyGameToken(token, gameID string, secret []byte) (*Claims, error) {
	claims, err := VerifyToken(token, secret)
	if err != nil {
		return nil, err
	}
	if claims.GameID != gameID {
		return nil, ErrWrongGame
	}
	return claims, nil
}
