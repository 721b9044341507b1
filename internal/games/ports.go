package games

import (
	"context"
	"time"

	"github.com/vntrieu/werewolf/internal/store"
)

// RosterStore is the persistence the engine needs (implemented by store.RosterStore and store.MemoryStore).
// Declared here to keep store free of engine types.
type RosterStore interface {
	GetGame(ctx context.Context, gameID string) (*store.Game, error)
	GetPlayers(ctx context.Context, gameID string) ([]store.Player, error)
	// GetPlayer returns nil without error when the player does not exist.
	GetPlayer(ctx context.Context, gameID, playerID string) (*store.Player, error)
	SetRole(ctx context.Context, gameID, playerID, role string) error
	SetVote(ctx context.Context, gameID, playerID string, targetID *string) error
	SetDead(ctx context.Context, gameID, playerID string) error
	ResetVotes(ctx context.Context, gameID string) error
	CreateGame(ctx context.Context, gameID string) error
	SetPhase(ctx context.Context, gameID string, phase string, active bool) error
	// DeleteGame removes the game and all of its players.
	DeleteGame(ctx context.Context, gameID string) error
}

// WindowKind names what a collection window collects.
type WindowKind string

const (
	WindowVote       WindowKind = "vote"
	WindowRoleReveal WindowKind = "role_reveal"
)

// Submission is one participant input delivered through a window.
// TargetID is empty for role reveal requests.
type Submission struct {
	PlayerID string
	TargetID string
}

// Window is an open, time-boxed input window.
// Submissions stops delivering once Done is closed; Stop is idempotent.
type Window interface {
	ID() string
	Kind() WindowKind
	Expires() time.Time
	Submissions() <-chan Submission
	Done() <-chan struct{}
	Stop() error
}

// WindowProvider opens collection windows on the session layer.
type WindowProvider interface {
	OpenWindow(ctx context.Context, gameID string, kind WindowKind, d time.Duration) (Window, error)
}

// NotifyOptions controls narration delivery.
type NotifyOptions struct {
	Spoken bool
}

// Notifier delivers narration to the whole game and private replies to one player.
// Failures are logged by the engine and never abort a phase.
type Notifier interface {
	Notify(ctx context.Context, gameID, text string, opts NotifyOptions) error
	Whisper(ctx context.Context, gameID, playerID, text string) error
}
