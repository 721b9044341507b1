package games

import (
	"fmt"

	"github.com/vntrieu/werewolf/internal/store"
)

// PlayerView is the public part of a roster row. Roles and votes are never included.
type PlayerView struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Alive bool   `json:"alive"`
}

// State is the public view of a game, sent to clients on sync.
type State struct {
	GameID   string       `json:"game_id"`
	Phase    string       `json:"phase"`
	IsActive bool         `json:"is_active"`
	HostID   string       `json:"host_id,omitempty"`
	Round    int          `json:"round"`
	Players  []PlayerView `json:"players"`
	Winner   Team         `json:"winner,omitempty"`
	Report   *NightReport `json:"report,omitempty"`
}

// NewState builds the public view of a stored game. It fails on a stored phase the engine does not know.
func NewState(game *store.Game, players []store.Player) (*State, error) {
	phase, err := ParsePhase(game.Phase)
	if err != nil {
		return nil, fmt.Errorf("game %s: %w", game.ID, err)
	}
	s := &State{
		GameID:   game.ID,
		Phase:    string(phase),
		IsActive: game.IsActive,
		HostID:   game.HostID,
		Players:  make([]PlayerView, 0, len(players)),
	}
	for _, p := range players {
		s.Players = append(s.Players, PlayerView{ID: p.ID, Name: p.Name, Alive: !p.IsDead})
	}
	return s, nil
}

// Annotate adds what only the running game knows: the round, the last report and the result.
// The report is stripped of target ids so investigations stay secret.
func (s *State) Annotate(g *Game) *State {
	if g == nil {
		return s
	}
	s.Round = g.Round()
	s.Winner = g.Result().Winner
	if r := g.Report(); r != nil {
		r.Investigation.TargetID = ""
		if !r.Outcome.Saved && r.Outcome.KilledPlayerID == "" {
			r.Outcome.TargetID = ""
		}
		s.Report = r
	}
	return s
}
