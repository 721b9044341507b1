package games

import "testing"

func TestPhaseTransitions(t *testing.T) {
	allowed := map[Phase][]Phase{
		PhaseSetup:  {PhaseNight},
		PhaseNight:  {PhaseDay},
		PhaseDay:    {PhaseSunset},
		PhaseSunset: {PhaseNight, PhaseEnd},
	}
	all := []Phase{PhaseSetup, PhaseNight, PhaseDay, PhaseSunset, PhaseEnd}
	for _, from := range all {
		for _, to := range all {
			want := false
			for _, n := range allowed[from] {
				if n == to {
					want = true
				}
			}
			if got := from.CanTransitionTo(to); got != want {
				t.Errorf("%s -> %s: got %v want %v", from, to, got, want)
			}
		}
	}
	if !PhaseEnd.IsTerminal() || PhaseSunset.IsTerminal() {
		t.Error("only end should be terminal")
	}
}

func TestPhaseWindows(t *testing.T) {
	if !PhaseSetup.Allows(WindowRoleReveal) || PhaseSetup.Allows(WindowVote) {
		t.Error("setup should only open the role reveal window")
	}
	if !PhaseNight.Allows(WindowVote) || PhaseDay.Allows(WindowVote) {
		t.Error("only night should open the vote window")
	}
}

func TestParsePhase(t *testing.T) {
	if p, err := ParsePhase("sunset"); err != nil || p != PhaseSunset {
		t.Errorf("got %q, %v", p, err)
	}
	if _, err := ParsePhase("dusk"); err == nil {
		t.Error("expected error for unknown phase")
	}
}
