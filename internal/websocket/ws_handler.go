package websocket

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/vntrieu/werewolf/internal/auth"
	"github.com/vntrieu/werewolf/internal/store"
)

// Roster is the part of the roster store the websocket layer reads.
type Roster interface {
	GetGame(ctx context.Context, gameID string) (*store.Game, error)
	GetPlayer(ctx context.Context, gameID, playerID string) (*store.Player, error)
}

// WSHandler upgrades authenticated players to game websockets.
type WSHandler struct {
	hub         *Hub
	roster      Roster
	tokenSecret []byte
	log         zerolog.Logger
}

// NewWSHandler creates a new WSHandler. An empty tokenSecret rejects every connection.
func NewWSHandler(hub *Hub, roster Roster, tokenSecret []byte, log zerolog.Logger) *WSHandler {
	return &WSHandler{
		hub:         hub,
		roster:      roster,
		tokenSecret: tokenSecret,
		log:         log,
	}
}

// bearerToken reads the token from the query string or the Authorization header.
func bearerToken(r *http.Request) string {
	if token := r.URL.Query().Get("token"); token != "" {
		return token
	}
	const prefix = "Bearer "
	if v := r.Header.Get("Authorization"); strings.HasPrefix(v, prefix) {
		return strings.TrimSpace(v[len(prefix):])
	}
	return ""
}

// HandleGameWebSocket handles GET /ws/games/{game_id}. Auth is always checked before upgrading.
func (h *WSHandler) HandleGameWebSocket(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "game_id")
	if gameID == "" {
		http.Error(w, "game_id is required", http.StatusBadRequest)
		return
	}
	token := bearerToken(r)
	if token == "" || len(h.tokenSecret) == 0 {
		http.Error(w, "missing or invalid token", http.StatusUnauthorized)
		return
	}
	claims, err := auth.VerifyGameToken(token, gameID, h.tokenSecret)
	if err != nil {
		h.log.Debug().Err(err).Str("game_id", gameID).Msg("websocket token rejected")
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	if _, err := h.roster.GetGame(r.Context(), gameID); err != nil {
		if errors.Is(err, store.ErrGameNotFound) {
			http.Error(w, "game not found", http.StatusNotFound)
			return
		}
		h.log.Error().Err(err).Str("game_id", gameID).Msg("websocket game lookup")
		http.Error(w, "failed to get game", http.StatusInternalServerError)
		return
	}
	player, err := h.roster.GetPlayer(r.Context(), gameID, claims.PlayerID)
	if err != nil {
		h.log.Error().Err(err).Str("game_id", gameID).Msg("websocket player lookup")
		http.Error(w, "failed to get player", http.StatusInternalServerError)
		return
	}
	if player == nil {
		http.Error(w, "player not in game", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Str("game_id", gameID).Msg("websocket upgrade")
		return
	}

	// The request context ends when this handler returns, so the client gets its own.
	client := newClient(h.hub, conn, gameID, player.ID)
	select {
	case h.hub.register <- client:
	case <-h.hub.done:
		conn.Close()
		return
	}
	go client.writePump()
	go client.readPump()
}
