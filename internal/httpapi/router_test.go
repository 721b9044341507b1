package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/vntrieu/werewolf/internal/games"
	"github.com/vntrieu/werewolf/internal/httpapi/handler"
	"github.com/vntrieu/werewolf/internal/session"
	"github.com/vntrieu/werewolf/internal/store"
	"github.com/vntrieu/werewolf/internal/websocket"
)

func setupRouter(t *testing.T) (http.Handler, *session.Manager) {
	t.Helper()
	log := zerolog.Nop()
	roster := store.NewMemoryStore()
	hub := websocket.NewHub(log)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	cfg := games.DefaultConfig()
	cfg.NarrationPause = 0
	engine := games.NewEngine(roster, websocket.NewWindows(hub, log), websocket.NewNotifier(hub), cfg, games.WithLogger(log))
	manager := session.NewManager(engine, roster, log)
	t.Cleanup(func() {
		shutdownCtx, done := context.WithTimeout(context.Background(), 2*time.Second)
		defer done()
		manager.Shutdown(shutdownCtx)
		cancel()
	})

	secret := []byte("router-secret")
	router := NewRouter(Options{
		Lobbies:     roster,
		Sessions:    manager,
		WebSocket:   websocket.NewWSHandler(hub, roster, secret, log),
		Health:      handler.NewHealthHandler(nil, manager.Running, log),
		TokenSecret: secret,
		TokenTTL:    time.Hour,
		Log:         log,
	})
	return router, manager
}

func do(t *testing.T, h http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestRouter_LobbyToRunningGame(t *testing.T) {
	router, manager := setupRouter(t)

	w := do(t, router, http.MethodPost, "/api/games", "", map[string]string{"display_name": "Alice"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d", w.Code)
	}
	var host store.LobbyResponse
	if err := json.NewDecoder(w.Body).Decode(&host); err != nil {
		t.Fatalf("decode: %v", err)
	}
	gameID := host.Game.ID

	if w := do(t, router, http.MethodPost, "/api/games/"+gameID+"/start", host.Token, nil); w.Code != http.StatusBadRequest {
		t.Errorf("start with one player: expected 400, got %d", w.Code)
	}

	var guest store.LobbyResponse
	for _, name := range []string{"Bob", "Carol"} {
		w := do(t, router, http.MethodPost, "/api/games/"+gameID+"/join", "", map[string]string{"display_name": name})
		if w.Code != http.StatusOK {
			t.Fatalf("join %s: expected 200, got %d", name, w.Code)
		}
		if err := json.NewDecoder(w.Body).Decode(&guest); err != nil {
			t.Fatalf("decode: %v", err)
		}
	}

	if w := do(t, router, http.MethodPost, "/api/games/"+gameID+"/start", "", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("start without token: expected 401, got %d", w.Code)
	}
	if w := do(t, router, http.MethodPost, "/api/games/"+gameID+"/start", guest.Token, nil); w.Code != http.StatusForbidden {
		t.Errorf("start as guest: expected 403, got %d", w.Code)
	}
	w = do(t, router, http.MethodPost, "/api/games/"+gameID+"/start", host.Token, nil)
	if w.Code != http.StatusAccepted {
		t.Fatalf("start as host: expected 202, got %d: %s", w.Code, w.Body.String())
	}
	if manager.Running() != 1 {
		t.Errorf("expected one running game, got %d", manager.Running())
	}
	if w := do(t, router, http.MethodPost, "/api/games/"+gameID+"/start", host.Token, nil); w.Code != http.StatusConflict {
		t.Errorf("second start: expected 409, got %d", w.Code)
	}
	if w := do(t, router, http.MethodPost, "/api/games/"+gameID+"/join", "", map[string]string{"display_name": "Dave"}); w.Code != http.StatusConflict {
		t.Errorf("join after start: expected 409, got %d", w.Code)
	}

	w = do(t, router, http.MethodGet, "/api/games/"+gameID, "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", w.Code)
	}
	var state games.State
	if err := json.NewDecoder(w.Body).Decode(&state); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !state.IsActive || len(state.Players) != 3 {
		t.Errorf("unexpected state %+v", state)
	}

	w = do(t, router, http.MethodGet, "/healthz", "", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"games":1`) {
		t.Errorf("healthz: got %d %s", w.Code, w.Body.String())
	}
}

func TestRouter_RateLimitsLobbyCreation(t *testing.T) {
	router := NewRouter(Options{
		Lobbies:     store.NewMemoryStore(),
		TokenSecret: []byte("s"),
		RateLimiter: denyAllLimiter{},
		Log:         zerolog.Nop(),
	})
	if w := do(t, router, http.MethodPost, "/api/games", "", map[string]string{"display_name": "Alice"}); w.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429, got %d", w.Code)
	}
}

func TestRouter_DocsAndCORS(t *testing.T) {
	router, _ := setupRouter(t)

	if w := do(t, router, http.MethodGet, "/docs/doc.json", "", nil); w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "/api/games") {
		t.Errorf("doc.json: got %d", w.Code)
	}

	req := httptest.NewRequest(http.MethodOptions, "/api/games", nil)
	req.Header.Set("Origin", "https://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("expected wildcard CORS origin, got %q", got)
	}
}
