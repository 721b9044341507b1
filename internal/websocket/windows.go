package websocket

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vntrieu/werewolf/internal/games"
)

// Window errors.
var (
	ErrWindowOpen     = errors.New("window already open")
	ErrNoWindow       = errors.New("no open window")
	ErrWindowBusy     = errors.New("window is not accepting input")
	ErrInvalidTimeout = errors.New("window duration must be positive")
)

const submissionBuffer = 64

type windowKey struct {
	gameID string
	kind   games.WindowKind
}

// Windows opens collection windows for the engine and routes client input into them.
// At most one window per game and kind is open at a time.
type Windows struct {
	hub *Hub
	log zerolog.Logger

	mu   sync.Mutex
	open map[windowKey]*window
}

// NewWindows creates a window provider that announces windows through hub.
func NewWindows(hub *Hub, log zerolog.Logger) *Windows {
	return &Windows{hub: hub, log: log, open: make(map[windowKey]*window)}
}

// OpenWindow opens a window that closes itself after d.
func (ws *Windows) OpenWindow(ctx context.Context, gameID string, kind games.WindowKind, d time.Duration) (games.Window, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if d <= 0 {
		return nil, ErrInvalidTimeout
	}
	key := windowKey{gameID: gameID, kind: kind}
	w := &window{
		id:      uuid.NewString(),
		key:     key,
		expires: time.Now().Add(d),
		subs:    make(chan games.Submission, submissionBuffer),
		done:    make(chan struct{}),
		owner:   ws,
	}

	ws.mu.Lock()
	if _, ok := ws.open[key]; ok {
		ws.mu.Unlock()
		return nil, fmt.Errorf("%s window for game %s: %w", kind, gameID, ErrWindowOpen)
	}
	ws.open[key] = w
	w.timer = time.AfterFunc(d, func() { _ = w.Stop() })
	ws.mu.Unlock()

	if err := ws.hub.Broadcast(gameID, windowOpenedEnvelope(w.id, kind, w.expires)); err != nil {
		ws.log.Debug().Err(err).Str("game_id", gameID).Str("kind", string(kind)).Msg("announce window")
	}
	ws.log.Debug().Str("game_id", gameID).Str("kind", string(kind)).Str("window_id", w.id).Dur("duration", d).Msg("window opened")
	return w, nil
}

// Deliver routes a submission into the open window of the given kind.
// It never blocks: a full window rejects with ErrWindowBusy.
func (ws *Windows) Deliver(gameID string, kind games.WindowKind, sub games.Submission) error {
	ws.mu.Lock()
	w, ok := ws.open[windowKey{gameID: gameID, kind: kind}]
	ws.mu.Unlock()
	if !ok {
		return ErrNoWindow
	}
	select {
	case <-w.done:
		return ErrNoWindow
	default:
	}
	select {
	case w.subs <- sub:
		return nil
	default:
		return ErrWindowBusy
	}
}

// OpenCount returns the number of open windows across all games.
func (ws *Windows) OpenCount() int {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	return len(ws.open)
}

func (ws *Windows) remove(w *window) {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	if ws.open[w.key] == w {
		delete(ws.open, w.key)
	}
}

type window struct {
	id      string
	key     windowKey
	expires time.Time
	subs    chan games.Submission
	done    chan struct{}
	timer   *time.Timer
	owner   *Windows
	once    sync.Once
}

func (w *window) ID() string { return w.id }

func (w *window) Kind() games.WindowKind { return w.key.kind }

func (w *window) Expires() time.Time { return w.expires }

func (w *window) Submissions() <-chan games.Submission { return w.subs }

func (w *window) Done() <-chan struct{} { return w.done }

// Stop closes the window; later calls are no-ops. The submissions channel is never closed.
func (w *window) Stop() error {
	w.once.Do(func() {
		close(w.done)
		// remove takes the provider lock, which OpenWindow holds while setting timer.
		w.owner.remove(w)
		if w.timer != nil {
			w.timer.Stop()
		}
		if err := w.owner.hub.Broadcast(w.key.gameID, windowClosedEnvelope(w.id, w.key.kind)); err != nil {
			w.owner.log.Debug().Err(err).Str("game_id", w.key.gameID).Msg("announce window closed")
		}
		w.owner.log.Debug().Str("game_id", w.key.gameID).Str("kind", string(w.key.kind)).Str("window_id", w.id).Msg("window closed")
	})
	return nil
}
