package store

import (
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// LobbyPhase is the phase a freshly created game sits in until the host starts it.
const LobbyPhase = "setup"

// MaxPlayers caps the roster size of a single game.
const MaxPlayers = 24

// Store errors.
var (
	ErrGameNotFound   = errors.New("game not found")
	ErrPlayerNotFound = errors.New("player not found")
	ErrWrongPasscode  = errors.New("wrong passcode")
	ErrGameStarted    = errors.New("game already started")
	ErrGameFull       = errors.New("game is full")
)

// Game is one running (or waiting) match, keyed by an opaque session id.
type Game struct {
	ID           string    `json:"id"`
	IsActive     bool      `json:"is_active"`
	Phase        string    `json:"phase"`
	HostID       string    `json:"host_id,omitempty"`
	PasscodeHash *string   `json:"-"` // Never expose passcode hash
	CreatedAt    time.Time `json:"created_at"`
}

// Player is one roster row. Role is empty until assignment; VotedFor is scoped to the current round.
type Player struct {
	ID       string    `json:"id"`
	GameID   string    `json:"game_id"`
	IsDead   bool      `json:"is_dead"`
	Role     string    `json:"role,omitempty"`
	Name     string    `json:"name"`
	VotedFor *string   `json:"voted_for,omitempty"`
	JoinedAt time.Time `json:"joined_at"`
}

// CreateLobbyRequest contains the data needed to open a lobby. The creator becomes the host.
type CreateLobbyRequest struct {
	DisplayName string `json:"display_name"`
	Passcode    string `json:"passcode,omitempty"`
}

// JoinGameRequest contains the data needed to join a lobby.
type JoinGameRequest struct {
	DisplayName string `json:"display_name"`
	Passcode    string `json:"passcode,omitempty"`
}

// LobbyResponse is returned by create and join.
// Token and ExpiresAt are set by the HTTP handler.
type LobbyResponse struct {
	Game      *Game      `json:"game"`
	Player    *Player    `json:"player"`
	Token     string     `json:"token,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// hashPasscode hashes a lobby passcode using bcrypt. Empty passcodes are stored as NULL.
func hashPasscode(passcode string) (*string, error) {
	if passcode == "" {
		return nil, nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(passcode), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	s := string(hash)
	return &s, nil
}

func checkPasscode(hash *string, passcode string) error {
	if hash == nil {
		return nil
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*hash), []byte(passcode)); err != nil {
		return ErrWrongPasscode
	}
	return nil
}

func copyPlayer(p *Player) *Player {
	out := *p
	if p.VotedFor != nil {
		v := *p.VotedFor
		out.VotedFor = &v
	}
	return &out
}
