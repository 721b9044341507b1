package games

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/vntrieu/werewolf/internal/store"
)

type fakeWindow struct {
	id      string
	kind    WindowKind
	expires time.Time
	subs    chan Submission
	done    chan struct{}
	once    sync.Once
	stops   int32
	stopErr error
}

func newFakeWindow(kind WindowKind, d time.Duration) *fakeWindow {
	return &fakeWindow{
		id:      uuid.NewString(),
		kind:    kind,
		expires: time.Now().Add(d),
		subs:    make(chan Submission, 16),
		done:    make(chan struct{}),
	}
}

func (w *fakeWindow) ID() string                     { return w.id }
func (w *fakeWindow) Kind() WindowKind               { return w.kind }
func (w *fakeWindow) Expires() time.Time             { return w.expires }
func (w *fakeWindow) Submissions() <-chan Submission { return w.subs }
func (w *fakeWindow) Done() <-chan struct{}          { return w.done }

func (w *fakeWindow) Stop() error {
	atomic.AddInt32(&w.stops, 1)
	w.once.Do(func() { close(w.done) })
	return w.stopErr
}

func (w *fakeWindow) stopCount() int { return int(atomic.LoadInt32(&w.stops)) }

type fakeProvider struct {
	opened chan *fakeWindow
	err    error
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{opened: make(chan *fakeWindow, 32)}
}

func (p *fakeProvider) OpenWindow(ctx context.Context, gameID string, kind WindowKind, d time.Duration) (Window, error) {
	if p.err != nil {
		return nil, p.err
	}
	w := newFakeWindow(kind, d)
	p.opened <- w
	return w, nil
}

// next waits for the next opened window of the given kind, skipping others.
func (p *fakeProvider) next(t *testing.T, kind WindowKind) *fakeWindow {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case w := <-p.opened:
			if w.kind == kind {
				return w
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %s window", kind)
		}
	}
}

type message struct {
	playerID string
	text     string
	spoken   bool
}

type fakeNotifier struct {
	mu       sync.Mutex
	notes    []message
	whispers []message
	err      error
}

func (n *fakeNotifier) Notify(ctx context.Context, gameID, text string, opts NotifyOptions) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notes = append(n.notes, message{text: text, spoken: opts.Spoken})
	return n.err
}

func (n *fakeNotifier) Whisper(ctx context.Context, gameID, playerID, text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.whispers = append(n.whispers, message{playerID: playerID, text: text})
	return n.err
}

func (n *fakeNotifier) whisperCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.whispers)
}

func (n *fakeNotifier) whispersTo(playerID string) []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []string
	for _, m := range n.whispers {
		if m.playerID == playerID {
			out = append(out, m.text)
		}
	}
	return out
}

func (n *fakeNotifier) narrated(substr string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, m := range n.notes {
		if strings.Contains(m.text, substr) {
			return true
		}
	}
	return false
}

// failingRoster wraps a MemoryStore and fails the named operation.
type failingRoster struct {
	*store.MemoryStore
	failOn string
}

var errRosterDown = errors.New("roster down")

func (r *failingRoster) SetRole(ctx context.Context, gameID, playerID, role string) error {
	if r.failOn == "SetRole" {
		return errRosterDown
	}
	return r.MemoryStore.SetRole(ctx, gameID, playerID, role)
}

func (r *failingRoster) ResetVotes(ctx context.Context, gameID string) error {
	if r.failOn == "ResetVotes" {
		return errRosterDown
	}
	return r.MemoryStore.ResetVotes(ctx, gameID)
}

func noSleep(context.Context, time.Duration) error { return nil }

func seededRand() *rand.Rand { return rand.New(rand.NewSource(42)) }

// seat creates a lobby and joins the named players; it returns the game id and player ids in order.
func seat(t *testing.T, s *store.MemoryStore, names ...string) (string, []string) {
	t.Helper()
	ctx := context.Background()
	resp, err := s.CreateLobby(ctx, store.CreateLobbyRequest{DisplayName: names[0]})
	if err != nil {
		t.Fatalf("CreateLobby failed: %v", err)
	}
	ids := []string{resp.Player.ID}
	for _, name := range names[1:] {
		joined, err := s.JoinGame(ctx, resp.Game.ID, store.JoinGameRequest{DisplayName: name})
		if err != nil {
			t.Fatalf("JoinGame failed: %v", err)
		}
		ids = append(ids, joined.Player.ID)
	}
	return resp.Game.ID, ids
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}
