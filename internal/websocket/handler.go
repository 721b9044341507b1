package websocket

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/vntrieu/werewolf/internal/games"
	"github.com/vntrieu/werewolf/internal/ratelimit"
)

// StateSource builds the public view of a game (implemented by session.Manager).
type StateSource interface {
	State(ctx context.Context, gameID string) (*games.State, error)
}

// EventHandler dispatches client messages into the open windows of the engine.
type EventHandler struct {
	hub         *Hub
	windows     *Windows
	states      StateSource
	rateLimiter ratelimit.Limiter
	log         zerolog.Logger
}

// NewEventHandler creates a new EventHandler. rateLimiter is optional; when set,
// messages are limited per game and player.
func NewEventHandler(hub *Hub, windows *Windows, states StateSource, rateLimiter ratelimit.Limiter, log zerolog.Logger) *EventHandler {
	if rateLimiter == nil {
		rateLimiter = ratelimit.Noop{}
	}
	return &EventHandler{
		hub:         hub,
		windows:     windows,
		states:      states,
		rateLimiter: rateLimiter,
		log:         log,
	}
}

// HandleMessage processes an incoming message (vote, check_role, sync_state).
// Rejects unknown or invalid message types with an error envelope.
func (h *EventHandler) HandleMessage(ctx context.Context, client *Client, msg *ClientMessage) {
	if msg == nil {
		h.sendError(client, "invalid message", "")
		return
	}
	if len(msg.Type) > MaxClientMessageTypeLength || !ValidClientMessageTypes[msg.Type] {
		h.sendError(client, "unsupported message type", msg.CorrelationID)
		return
	}
	if allowed, _ := h.rateLimiter.Allow(client.GameID + ":" + client.PlayerID); !allowed {
		h.sendError(client, "rate limit exceeded", msg.CorrelationID)
		return
	}

	switch msg.Type {
	case ClientMessageTypeVote:
		h.handleVote(client, msg)
	case ClientMessageTypeCheckRole:
		h.handleCheckRole(client, msg)
	case ClientMessageTypeSyncState:
		h.handleSyncState(ctx, client, msg)
	}
}

func (h *EventHandler) handleVote(client *Client, msg *ClientMessage) {
	if msg.TargetID == "" {
		h.sendError(client, "target_id is required", msg.CorrelationID)
		return
	}
	err := h.windows.Deliver(client.GameID, games.WindowVote, games.Submission{PlayerID: client.PlayerID, TargetID: msg.TargetID})
	switch {
	case err == nil:
	case errors.Is(err, ErrNoWindow):
		h.sendError(client, "no vote in progress", msg.CorrelationID)
	default:
		h.log.Warn().Err(err).Str("game_id", client.GameID).Str("player_id", client.PlayerID).Msg("vote not delivered")
		h.sendError(client, "vote not accepted, try again", msg.CorrelationID)
	}
}

func (h *EventHandler) handleCheckRole(client *Client, msg *ClientMessage) {
	err := h.windows.Deliver(client.GameID, games.WindowRoleReveal, games.Submission{PlayerID: client.PlayerID})
	switch {
	case err == nil:
	case errors.Is(err, ErrNoWindow):
		h.sendError(client, "role check is closed", msg.CorrelationID)
	default:
		h.log.Warn().Err(err).Str("game_id", client.GameID).Str("player_id", client.PlayerID).Msg("role check not delivered")
		h.sendError(client, "role check not accepted, try again", msg.CorrelationID)
	}
}

func (h *EventHandler) handleSyncState(ctx context.Context, client *Client, msg *ClientMessage) {
	state, err := h.states.State(ctx, client.GameID)
	if err != nil {
		h.log.Warn().Err(err).Str("game_id", client.GameID).Msg("build state")
		h.sendError(client, "failed to get state", msg.CorrelationID)
		return
	}
	if err := h.hub.SendToClient(client, stateEnvelope(state, msg.CorrelationID)); err != nil {
		h.log.Debug().Err(err).Str("player_id", client.PlayerID).Msg("send state")
	}
}

func (h *EventHandler) sendError(client *Client, message, correlationID string) {
	if err := h.hub.SendToClient(client, errorEnvelope(message, correlationID)); err != nil {
		h.log.Debug().Err(err).Str("player_id", client.PlayerID).Msg("send error envelope")
	}
}
