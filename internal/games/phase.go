package games

import "fmt"

var phaseTable = buildPhaseTable(WerewolfPhases)

func buildPhaseTable(defs []PhaseDef) map[Phase]PhaseDef {
	t := make(map[Phase]PhaseDef, len(defs))
	for _, d := range defs {
		t[d.Name] = d
	}
	return t
}

// ParsePhase converts a stored phase name.
func ParsePhase(s string) (Phase, error) {
	p := Phase(s)
	if _, ok := phaseTable[p]; !ok {
		return "", fmt.Errorf("unknown phase %q", s)
	}
	return p, nil
}

// CanTransitionTo reports whether next may directly follow p.
func (p Phase) CanTransitionTo(next Phase) bool {
	for _, n := range phaseTable[p].Next {
		if n == next {
			return true
		}
	}
	return false
}

// Allows reports whether a window of the given kind may be opened during p.
func (p Phase) Allows(kind WindowKind) bool {
	for _, k := range phaseTable[p].Windows {
		if k == kind {
			return true
		}
	}
	return false
}

// IsTerminal reports whether p has no successor.
func (p Phase) IsTerminal() bool {
	return len(phaseTable[p].Next) == 0
}

// Active reports whether a game sitting in p is running.
func (p Phase) Active() bool {
	return !p.IsTerminal()
}
