package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/vntrieu/werewolf/internal/auth"
	"github.com/vntrieu/werewolf/internal/games"
	"github.com/vntrieu/werewolf/internal/session"
	"github.com/vntrieu/werewolf/internal/store"
)

// Validation limits for lobby endpoints.
const (
	DisplayNameMinLen = 1
	DisplayNameMaxLen = 64
	PasscodeMaxLen    = 128
)

// Lobbies is the roster side of the lobby endpoints (store.RosterStore or store.MemoryStore).
type Lobbies interface {
	CreateLobby(ctx context.Context, req store.CreateLobbyRequest) (*store.LobbyResponse, error)
	JoinGame(ctx context.Context, gameID string, req store.JoinGameRequest) (*store.LobbyResponse, error)
	GetGame(ctx context.Context, gameID string) (*store.Game, error)
}

// Sessions starts games and reports their state (session.Manager).
type Sessions interface {
	Start(ctx context.Context, gameID string) (*games.Game, error)
	State(ctx context.Context, gameID string) (*games.State, error)
}

// GameHandler handles lobby and game HTTP requests.
type GameHandler struct {
	lobbies     Lobbies
	sessions    Sessions
	tokenSecret []byte
	tokenTTL    time.Duration
	log         zerolog.Logger
}

// NewGameHandler creates a new GameHandler. If tokenSecret is non-empty, create/join responses include a player token.
func NewGameHandler(lobbies Lobbies, sessions Sessions, tokenSecret []byte, tokenTTL time.Duration, log zerolog.Logger) *GameHandler {
	return &GameHandler{
		lobbies:     lobbies,
		sessions:    sessions,
		tokenSecret: tokenSecret,
		tokenTTL:    tokenTTL,
		log:         log,
	}
}

func validateDisplayName(displayName string) string {
	s := strings.TrimSpace(displayName)
	if len(s) < DisplayNameMinLen {
		return "display_name is required"
	}
	if len(s) > DisplayNameMaxLen {
		return fmt.Sprintf("display_name must be at most %d characters", DisplayNameMaxLen)
	}
	return ""
}

func validatePasscode(passcode string) string {
	if len(passcode) > PasscodeMaxLen {
		return fmt.Sprintf("passcode must be at most %d characters", PasscodeMaxLen)
	}
	return ""
}

// writeError maps domain errors to HTTP statuses; anything unknown is a 500 with fallback as message.
func (h *GameHandler) writeError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	switch {
	case errors.Is(err, store.ErrGameNotFound):
		http.Error(w, "game not found", http.StatusNotFound)
	case errors.Is(err, store.ErrWrongPasscode):
		http.Error(w, "invalid passcode", http.StatusUnauthorized)
	case errors.Is(err, store.ErrGameStarted):
		http.Error(w, "game already started", http.StatusConflict)
	case errors.Is(err, store.ErrGameFull):
		http.Error(w, "game is full", http.StatusConflict)
	case errors.Is(err, session.ErrAlreadyRunning):
		http.Error(w, "game already running", http.StatusConflict)
	case errors.Is(err, games.ErrInsufficientPlayers):
		http.Error(w, fmt.Sprintf("at least %d players are required", games.MinPlayers), http.StatusBadRequest)
	default:
		requestLogger(h.log, r).Error().Err(err).Msg(fallback)
		http.Error(w, fallback, http.StatusInternalServerError)
	}
}

// issueToken attaches a player token to the response when a secret is configured.
func (h *GameHandler) issueToken(resp *store.LobbyResponse) error {
	if len(h.tokenSecret) == 0 {
		return nil
	}
	token, expiresAt, err := auth.GenerateToken(resp.Game.ID, resp.Player.ID, h.tokenSecret, h.tokenTTL)
	if err != nil {
		return err
	}
	resp.Token = token
	resp.ExpiresAt = &expiresAt
	return nil
}

// CreateGame handles POST /api/games
//
// @Summary      Create game lobby
// @Description  Open a new lobby. The requester joins as host and receives a player token.
// @Tags         games
// @Accept       json
// @Produce      json
// @Param        body  body      store.CreateLobbyRequest  true  "Request body"
// @Success      201   {object}  store.LobbyResponse
// @Failure      400   {string}  string  "Bad request (invalid display_name, passcode length, or body)"
// @Failure      500   {string}  string  "Server error"
// @Router       /api/games [post]
func (h *GameHandler) CreateGame(w http.ResponseWriter, r *http.Request) {
	var req store.CreateLobbyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if msg := validateDisplayName(req.DisplayName); msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}
	req.DisplayName = strings.TrimSpace(req.DisplayName)
	if msg := validatePasscode(req.Passcode); msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}

	resp, err := h.lobbies.CreateLobby(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err, "failed to create game")
		return
	}
	if err := h.issueToken(resp); err != nil {
		h.writeError(w, r, err, "failed to create game")
		return
	}
	requestLogger(h.log, r).Info().Str("game_id", resp.Game.ID).Msg("lobby created")
	writeJSON(w, r, h.log, http.StatusCreated, resp)
}

// JoinGame handles POST /api/games/{game_id}/join
//
// @Summary      Join game lobby
// @Description  Join a lobby that has not started yet. Returns the game, the new player and a player token.
// @Tags         games
// @Accept       json
// @Produce      json
// @Param        game_id  path      string                 true  "Game ID"
// @Param        body     body      store.JoinGameRequest  true  "Request body"
// @Success      200      {object}  store.LobbyResponse
// @Failure      400      {string}  string  "Bad request"
// @Failure      401      {string}  string  "Invalid passcode"
// @Failure      404      {string}  string  "Game not found"
// @Failure      409      {string}  string  "Game already started or full"
// @Failure      500      {string}  string  "Server error"
// @Router       /api/games/{game_id}/join [post]
func (h *GameHandler) JoinGame(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "game_id")
	if gameID == "" {
		http.Error(w, "game_id is required", http.StatusBadRequest)
		return
	}
	var req store.JoinGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if msg := validateDisplayName(req.DisplayName); msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}
	req.DisplayName = strings.TrimSpace(req.DisplayName)
	if msg := validatePasscode(req.Passcode); msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}

	resp, err := h.lobbies.JoinGame(r.Context(), gameID, req)
	if err != nil {
		h.writeError(w, r, err, "failed to join game")
		return
	}
	if err := h.issueToken(resp); err != nil {
		h.writeError(w, r, err, "failed to join game")
		return
	}
	writeJSON(w, r, h.log, http.StatusOK, resp)
}

// GetGame handles GET /api/games/{game_id}
//
// @Summary      Get game
// @Description  Public view of a game: phase, round, players with alive flags. Roles and votes are never exposed.
// @Tags         games
// @Produce      json
// @Param        game_id  path      string  true  "Game ID"
// @Success      200      {object}  games.State
// @Failure      404      {string}  string  "Game not found"
// @Failure      500      {string}  string  "Server error"
// @Router       /api/games/{game_id} [get]
func (h *GameHandler) GetGame(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "game_id")
	state, err := h.sessions.State(r.Context(), gameID)
	if err != nil {
		h.writeError(w, r, err, "failed to get game")
		return
	}
	writeJSON(w, r, h.log, http.StatusOK, state)
}

// StartGame handles POST /api/games/{game_id}/start (host only).
//
// @Summary      Start game
// @Description  Assign roles and run the game in the background. Only the host may call this.
// @Tags         games
// @Produce      json
// @Param        game_id  path      string  true  "Game ID"
// @Success      202      {object}  games.State
// @Failure      400      {string}  string  "Fewer than three players joined"
// @Failure      401      {string}  string  "Missing or invalid token"
// @Failure      403      {string}  string  "Only the host can start the game"
// @Failure      404      {string}  string  "Game not found"
// @Failure      409      {string}  string  "Game already running"
// @Failure      500      {string}  string  "Server error"
// @Security     BearerAuth
// @Router       /api/games/{game_id}/start [post]
func (h *GameHandler) StartGame(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "game_id")
	claims := ClaimsFromRequest(r)
	if claims == nil || claims.GameID != gameID {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	game, err := h.lobbies.GetGame(r.Context(), gameID)
	if err != nil {
		h.writeError(w, r, err, "failed to start game")
		return
	}
	if game.HostID != claims.PlayerID {
		http.Error(w, "only the host can start the game", http.StatusForbidden)
		return
	}

	if _, err := h.sessions.Start(r.Context(), gameID); err != nil {
		h.writeError(w, r, err, "failed to start game")
		return
	}
	requestLogger(h.log, r).Info().Str("game_id", gameID).Msg("game start requested")

	state, err := h.sessions.State(r.Context(), gameID)
	if err != nil {
		h.writeError(w, r, err, "failed to get game")
		return
	}
	writeJSON(w, r, h.log, http.StatusAccepted, state)
}
