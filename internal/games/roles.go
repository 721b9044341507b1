package games

import (
	"math/rand"

	"github.com/vntrieu/werewolf/internal/store"
)

// Role is a player's hidden role.
type Role string

// Roles.
const (
	RoleWerewolf  Role = "werewolf"
	RoleDoctor    Role = "doctor"
	RoleDetective Role = "detective"
	RoleCivilian  Role = "civilian"
)

// MinPlayers is the smallest roster a game can start with.
const MinPlayers = 3

// Valid reports whether r is an assigned role.
func (r Role) Valid() bool {
	switch r {
	case RoleWerewolf, RoleDoctor, RoleDetective, RoleCivilian:
		return true
	}
	return false
}

// countRange is an inclusive range a role count is drawn from.
type countRange struct {
	Min, Max int
}

func (c countRange) draw(rng *rand.Rand) int {
	if c.Max <= c.Min {
		return c.Min
	}
	return c.Min + rng.Intn(c.Max-c.Min+1)
}

// roleTier is one player-count bracket. MaxPlayers 0 means unbounded.
type roleTier struct {
	MinPlayers, MaxPlayers int
	Werewolves             countRange
	Doctors                countRange
	Detectives             countRange
}

var roleTiers = []roleTier{
	{MinPlayers: 3, MaxPlayers: 4, Werewolves: countRange{1, 1}, Doctors: countRange{1, 1}, Detectives: countRange{1, 1}},
	{MinPlayers: 5, MaxPlayers: 5, Werewolves: countRange{1, 2}, Doctors: countRange{1, 2}, Detectives: countRange{1, 2}},
	{MinPlayers: 6, MaxPlayers: 7, Werewolves: countRange{1, 2}, Doctors: countRange{1, 2}, Detectives: countRange{1, 2}},
	{MinPlayers: 8, MaxPlayers: 8, Werewolves: countRange{2, 2}, Doctors: countRange{1, 2}, Detectives: countRange{1, 2}},
	{MinPlayers: 9, MaxPlayers: 11, Werewolves: countRange{2, 3}, Doctors: countRange{1, 2}, Detectives: countRange{1, 2}},
	{MinPlayers: 12, MaxPlayers: 12, Werewolves: countRange{3, 3}, Doctors: countRange{1, 2}, Detectives: countRange{1, 2}},
	{MinPlayers: 13, MaxPlayers: 0, Werewolves: countRange{3, 4}, Doctors: countRange{1, 2}, Detectives: countRange{1, 2}},
}

func tierFor(n int) (roleTier, bool) {
	for _, t := range roleTiers {
		if n >= t.MinPlayers && (t.MaxPlayers == 0 || n <= t.MaxPlayers) {
			return t, true
		}
	}
	return roleTier{}, false
}

// RoleCount is a role distribution.
type RoleCount struct {
	Werewolves int `json:"werewolves"`
	Doctors    int `json:"doctors"`
	Detectives int `json:"detectives"`
	Civilians  int `json:"civilians"`
}

// Total returns the number of seats.
func (c RoleCount) Total() int {
	return c.Werewolves + c.Doctors + c.Detectives + c.Civilians
}

// RoleCounts draws the role distribution for n players.
func RoleCounts(n int, rng *rand.Rand) (RoleCount, error) {
	if n < MinPlayers {
		return RoleCount{}, ErrInsufficientPlayers
	}
	tier, _ := tierFor(n)
	c := RoleCount{
		Werewolves: tier.Werewolves.draw(rng),
		Doctors:    tier.Doctors.draw(rng),
		Detectives: tier.Detectives.draw(rng),
	}
	// A bracket's maxima can exceed its seats (only at 5 players): trim specialists, never wolves.
	for c.Werewolves+c.Doctors+c.Detectives > n {
		switch {
		case c.Detectives > 1:
			c.Detectives--
		case c.Doctors > 1:
			c.Doctors--
		default:
			c.Werewolves--
		}
	}
	c.Civilians = n - c.Werewolves - c.Doctors - c.Detectives
	return c, nil
}

// AssignRoles draws a distribution for ids, shuffles it and zips it onto the ids in order.
// It does not touch the roster.
func AssignRoles(ids []string, rng *rand.Rand) (map[string]Role, error) {
	counts, err := RoleCounts(len(ids), rng)
	if err != nil {
		return nil, err
	}
	roles := make([]Role, 0, len(ids))
	for _, rc := range []struct {
		role Role
		n    int
	}{
		{RoleWerewolf, counts.Werewolves},
		{RoleDoctor, counts.Doctors},
		{RoleDetective, counts.Detectives},
		{RoleCivilian, counts.Civilians},
	} {
		for i := 0; i < rc.n; i++ {
			roles = append(roles, rc.role)
		}
	}
	rng.Shuffle(len(roles), func(i, j int) { roles[i], roles[j] = roles[j], roles[i] })

	out := make(map[string]Role, len(ids))
	for i, id := range ids {
		out[id] = roles[i]
	}
	return out, nil
}

// RoleCountsOf summarises the assigned roles of a roster.
func RoleCountsOf(players []store.Player) RoleCount {
	var c RoleCount
	for _, p := range players {
		switch Role(p.Role) {
		case RoleWerewolf:
			c.Werewolves++
		case RoleDoctor:
			c.Doctors++
		case RoleDetective:
			c.Detectives++
		case RoleCivilian:
			c.Civilians++
		}
	}
	return c
}
