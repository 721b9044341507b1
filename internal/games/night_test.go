package games

import "testing"

func rank(targets ...string) Ranking {
	votes := make([]Vote, 0, len(targets))
	for i, t := range targets {
		votes = append(votes, Vote{ActorID: string(rune('a' + i)), TargetID: t})
	}
	return Tally(votes)
}

func TestResolveNight(t *testing.T) {
	tests := []struct {
		name     string
		werewolf Ranking
		doctor   Ranking
		want     NightOutcome
	}{
		{"no werewolf votes", rank(), rank("x"), NightOutcome{Kind: WerewolfQuiet}},
		{"werewolf tie", rank("x", "y"), rank("x"), NightOutcome{Kind: WerewolfStruggle}},
		{"doctor saves", rank("x"), rank("x"), NightOutcome{Kind: WerewolfSaved, TargetID: "x", Saved: true}},
		{"split doctor fails", rank("x"), rank("x", "y"), NightOutcome{Kind: WerewolfFoundDead, TargetID: "x", KilledPlayerID: "x"}},
		{"doctor elsewhere", rank("x"), rank("y"), NightOutcome{Kind: WerewolfMissing, TargetID: "x", KilledPlayerID: "x"}},
		{"no doctor vote", rank("x", "x"), rank(), NightOutcome{Kind: WerewolfMissing, TargetID: "x", KilledPlayerID: "x"}},
		{"split doctor without victim", rank("x"), rank("y", "z"), NightOutcome{Kind: WerewolfMissing, TargetID: "x", KilledPlayerID: "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveNight(tt.werewolf, tt.doctor); got != tt.want {
				t.Errorf("got %+v want %+v", got, tt.want)
			}
		})
	}
}

func TestInvestigate(t *testing.T) {
	roles := map[string]Role{"w": RoleWerewolf, "c": RoleCivilian, "v": RoleCivilian}
	roleOf := func(id string) Role { return roles[id] }

	tests := []struct {
		name      string
		detective Ranking
		werewolf  Ranking
		want      DetectiveOutcome
	}{
		{"idle", rank(), rank("c"), DetectiveIdle},
		{"distracted", rank("w", "c"), rank("c"), DetectiveDistracted},
		{"witnessed", rank("w"), rank("c"), DetectiveWitnessed},
		{"scuffle", rank("w"), rank("c", "v"), DetectiveScuffle},
		{"clean", rank("w"), rank(), DetectiveClean},
		{"innocent", rank("c"), rank("c"), DetectiveInnocent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Investigate(tt.detective, tt.werewolf, roleOf); got.Kind != tt.want {
				t.Errorf("got %s want %s", got.Kind, tt.want)
			}
		})
	}
}
