package games

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// trackedWindow is an open window owned by a game.
type trackedWindow struct {
	window  Window
	kind    WindowKind
	expires time.Time
	once    sync.Once
}

// Collectors tracks the open windows of one game and stops each of them exactly once.
type Collectors struct {
	gameID   string
	provider WindowProvider
	log      zerolog.Logger

	mu      sync.Mutex
	windows []*trackedWindow
	closed  bool
}

// NewCollectors creates the window registry of a game.
func NewCollectors(gameID string, provider WindowProvider, log zerolog.Logger) *Collectors {
	return &Collectors{
		gameID:   gameID,
		provider: provider,
		log:      log.With().Str("component", "collectors").Str("game_id", gameID).Logger(),
	}
}

// Open opens a window through the provider and registers it.
func (c *Collectors) Open(ctx context.Context, kind WindowKind, d time.Duration) (Window, error) {
	w, err := c.provider.OpenWindow(ctx, c.gameID, kind, d)
	if err != nil {
		return nil, collaboratorErr("open "+string(kind)+" window", err)
	}
	c.Register(w)
	return w, nil
}

// Register starts tracking w. After CloseAll, w is stopped immediately instead.
func (c *Collectors) Register(w Window) {
	t := &trackedWindow{window: w, kind: w.Kind(), expires: w.Expires()}
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		c.stop(t)
		return
	}
	c.windows = append(c.windows, t)
	c.mu.Unlock()
}

// Close stops w and forgets it. Unknown windows are ignored.
func (c *Collectors) Close(w Window) {
	c.closeMatching(func(t *trackedWindow) bool { return t.window == w })
}

// CloseKind stops every tracked window of the given kind.
func (c *Collectors) CloseKind(kind WindowKind) {
	c.closeMatching(func(t *trackedWindow) bool { return t.kind == kind })
}

// CloseAll stops every tracked window. It is safe to call more than once.
func (c *Collectors) CloseAll() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	c.closeMatching(func(*trackedWindow) bool { return true })
}

// Len returns the number of tracked windows.
func (c *Collectors) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.windows)
}

func (c *Collectors) closeMatching(match func(*trackedWindow) bool) {
	c.mu.Lock()
	var stopping []*trackedWindow
	for _, t := range c.windows {
		if match(t) {
			stopping = append(stopping, t)
		}
	}
	c.mu.Unlock()
	if len(stopping) == 0 {
		return
	}

	// Stop outside the lock; one failure does not keep the rest open.
	// A window stays listed until its stop returns, so a concurrent CloseAll waits on it.
	for _, t := range stopping {
		c.stop(t)
	}

	stopped := make(map[*trackedWindow]bool, len(stopping))
	for _, t := range stopping {
		stopped[t] = true
	}
	c.mu.Lock()
	kept := make([]*trackedWindow, 0, len(c.windows))
	for _, t := range c.windows {
		if !stopped[t] {
			kept = append(kept, t)
		}
	}
	c.windows = kept
	c.mu.Unlock()
}

func (c *Collectors) stop(t *trackedWindow) {
	t.once.Do(func() {
		if err := t.window.Stop(); err != nil {
			c.log.Warn().Err(err).Str("window_id", t.window.ID()).Str("kind", string(t.kind)).Msg("stop window failed")
			return
		}
		c.log.Debug().Str("window_id", t.window.ID()).Str("kind", string(t.kind)).Time("expires", t.expires).Msg("window closed")
	})
}
