package websocket

import (
	"context"
	"fmt"

	"github.com/vntrieu/werewolf/internal/games"
)

// Notifier delivers engine narration over the hub.
type Notifier struct {
	hub *Hub
}

// NewNotifier creates a Notifier.
func NewNotifier(hub *Hub) *Notifier {
	return &Notifier{hub: hub}
}

// Notify broadcasts narration to every connection of the game.
func (n *Notifier) Notify(ctx context.Context, gameID, text string, opts games.NotifyOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := n.hub.Broadcast(gameID, narrationEnvelope(text, opts.Spoken)); err != nil {
		return fmt.Errorf("notify game %s: %w", gameID, err)
	}
	return nil
}

// Whisper sends a private reply to one player.
func (n *Notifier) Whisper(ctx context.Context, gameID, playerID, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := n.hub.SendTo(gameID, playerID, whisperEnvelope(text)); err != nil {
		return fmt.Errorf("whisper to %s: %w", playerID, err)
	}
	return nil
}

// GameEnded announces the final tally. It matches the engine's end hook signature.
func (n *Notifier) GameEnded(gameID string, result games.WinState) {
	if err := n.hub.Broadcast(gameID, gameEndedEnvelope(result)); err != nil {
		n.hub.log.Debug().Err(err).Str("game_id", gameID).Msg("announce game end")
	}
}
