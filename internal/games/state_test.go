package games

import (
	"testing"

	"github.com/vntrieu/werewolf/internal/store"
)

func TestNewState(t *testing.T) {
	game := &store.Game{ID: "g1", Phase: string(PhaseNight), IsActive: true, HostID: "p1"}
	players := []store.Player{
		{ID: "p1", Name: "A", Role: string(RoleWerewolf)},
		{ID: "p2", Name: "B", IsDead: true},
	}
	s, err := NewState(game, players)
	if err != nil {
		t.Fatalf("NewState failed: %v", err)
	}
	if s.Phase != string(PhaseNight) || !s.IsActive || len(s.Players) != 2 {
		t.Errorf("unexpected state %+v", s)
	}
	if s.Players[1].Alive {
		t.Error("B should be reported dead")
	}

	game.Phase = "dusk"
	if _, err := NewState(game, players); err == nil {
		t.Error("expected error for an unknown stored phase")
	}
}
