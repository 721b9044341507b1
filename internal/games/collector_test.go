package games

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestCollectors_CloseAllIsIdempotent(t *testing.T) {
	c := NewCollectors("g1", newFakeProvider(), zerolog.Nop())
	a := newFakeWindow(WindowVote, time.Minute)
	b := newFakeWindow(WindowRoleReveal, time.Minute)
	c.Register(a)
	c.Register(b)

	c.CloseAll()
	c.CloseAll()

	for _, w := range []*fakeWindow{a, b} {
		if w.stopCount() != 1 {
			t.Errorf("window %s stopped %d times, want 1", w.kind, w.stopCount())
		}
		select {
		case <-w.Done():
		default:
			t.Errorf("window %s still accepting input", w.kind)
		}
	}
	if c.Len() != 0 {
		t.Errorf("expected no tracked windows, got %d", c.Len())
	}
}

func TestCollectors_RegisterAfterCloseAllStopsImmediately(t *testing.T) {
	c := NewCollectors("g1", newFakeProvider(), zerolog.Nop())
	c.CloseAll()
	w := newFakeWindow(WindowVote, time.Minute)
	c.Register(w)
	if w.stopCount() != 1 {
		t.Errorf("expected late window to be stopped once, got %d", w.stopCount())
	}
	if c.Len() != 0 {
		t.Errorf("expected late window not to be tracked")
	}
}

func TestCollectors_StopFailureDoesNotBlockOthers(t *testing.T) {
	c := NewCollectors("g1", newFakeProvider(), zerolog.Nop())
	bad := newFakeWindow(WindowVote, time.Minute)
	bad.stopErr = errors.New("platform error")
	good := newFakeWindow(WindowRoleReveal, time.Minute)
	c.Register(bad)
	c.Register(good)

	c.CloseAll()
	if good.stopCount() != 1 {
		t.Errorf("expected remaining window to be stopped, got %d", good.stopCount())
	}
	c.CloseAll()
	if bad.stopCount() != 1 {
		t.Errorf("failed window should not be retried, got %d stops", bad.stopCount())
	}
}

func TestCollectors_CloseAndCloseKind(t *testing.T) {
	c := NewCollectors("g1", newFakeProvider(), zerolog.Nop())
	v1 := newFakeWindow(WindowVote, time.Minute)
	v2 := newFakeWindow(WindowVote, time.Minute)
	r := newFakeWindow(WindowRoleReveal, time.Minute)
	c.Register(v1)
	c.Register(v2)
	c.Register(r)

	c.Close(v1)
	c.Close(v1)
	if v1.stopCount() != 1 || c.Len() != 2 {
		t.Fatalf("Close: stops=%d tracked=%d", v1.stopCount(), c.Len())
	}
	c.CloseKind(WindowVote)
	if v2.stopCount() != 1 || r.stopCount() != 0 || c.Len() != 1 {
		t.Fatalf("CloseKind: v2 stops=%d r stops=%d tracked=%d", v2.stopCount(), r.stopCount(), c.Len())
	}
}

func TestCollectors_OpenWrapsProviderError(t *testing.T) {
	p := newFakeProvider()
	p.err = errors.New("no channel")
	c := NewCollectors("g1", p, zerolog.Nop())
	if _, err := c.Open(context.Background(), WindowVote, time.Second); !errors.Is(err, ErrCollaboratorFailure) || !errors.Is(err, p.err) {
		t.Errorf("expected wrapped collaborator failure, got %v", err)
	}

	p.err = nil
	w, err := c.Open(context.Background(), WindowVote, time.Second)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if w.Kind() != WindowVote || c.Len() != 1 {
		t.Errorf("expected tracked vote window, got kind=%s tracked=%d", w.Kind(), c.Len())
	}
}

// slowWindow blocks in Stop until released.
type slowWindow struct {
	*fakeWindow
	entered chan struct{}
	release chan struct{}
}

func (w *slowWindow) Stop() error {
	close(w.entered)
	<-w.release
	return w.fakeWindow.Stop()
}

func TestCollectors_CloseAllWaitsForConcurrentClose(t *testing.T) {
	c := NewCollectors("g1", newFakeProvider(), zerolog.Nop())
	w := &slowWindow{
		fakeWindow: newFakeWindow(WindowVote, time.Minute),
		entered:    make(chan struct{}),
		release:    make(chan struct{}),
	}
	c.Register(w)

	go c.Close(w)
	select {
	case <-w.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("Close did not start stopping the window")
	}

	closed := make(chan struct{})
	go func() {
		c.CloseAll()
		close(closed)
	}()
	select {
	case <-closed:
		t.Fatal("CloseAll returned while a window was still stopping")
	case <-time.After(50 * time.Millisecond):
	}

	close(w.release)
	select {
	case <-closed:
	case <-time.After(2 * time.Second):
		t.Fatal("CloseAll did not return after the window stopped")
	}
	select {
	case <-w.Done():
	default:
		t.Error("window still accepting input after CloseAll")
	}
	if w.stopCount() != 1 {
		t.Errorf("window stopped %d times, want 1", w.stopCount())
	}
	waitFor(t, "window forgotten", func() bool { return c.Len() == 0 })
}
