package games

import "github.com/vntrieu/werewolf/internal/store"

// Team is a winning side.
type Team string

// Teams.
const (
	TeamWerewolves Team = "werewolves"
	TeamVillage    Team = "village"
)

// WinState is the living head count per team and the verdict drawn from it.
type WinState struct {
	Werewolves int  `json:"werewolves"`
	Villagers  int  `json:"villagers"`
	Winner     Team `json:"winner,omitempty"`
	// Continue is true while both teams have living members.
	Continue bool `json:"continue"`
}

// CheckWin counts living werewolves and non-werewolves.
// The village wins once no werewolf lives; the werewolves win once nobody else does.
func CheckWin(players []store.Player) WinState {
	var ws WinState
	for _, p := range players {
		if p.IsDead {
			continue
		}
		if Role(p.Role) == RoleWerewolf {
			ws.Werewolves++
		} else {
			ws.Villagers++
		}
	}
	switch {
	case ws.Werewolves == 0:
		ws.Winner = TeamVillage
	case ws.Villagers == 0:
		ws.Winner = TeamWerewolves
	default:
		ws.Continue = true
	}
	return ws
}
