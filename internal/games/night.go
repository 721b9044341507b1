package games

// WerewolfOutcome is what the werewolf vote led to.
type WerewolfOutcome string

// Werewolf outcomes.
const (
	// WerewolfQuiet: no werewolf voted.
	WerewolfQuiet WerewolfOutcome = "quiet"
	// WerewolfStruggle: werewolves were tied; nobody dies.
	WerewolfStruggle WerewolfOutcome = "struggle"
	// WerewolfSaved: the doctors agreed on the victim.
	WerewolfSaved WerewolfOutcome = "saved"
	// WerewolfFoundDead: the doctors were split and the victim was among them.
	WerewolfFoundDead WerewolfOutcome = "found_dead"
	// WerewolfMissing: nobody protected the victim.
	WerewolfMissing WerewolfOutcome = "missing"
)

// NightOutcome is the result of one night. TargetID is the werewolves' consensus, if any.
type NightOutcome struct {
	Kind           WerewolfOutcome `json:"kind"`
	TargetID       string          `json:"target_id,omitempty"`
	KilledPlayerID string          `json:"killed_player_id,omitempty"`
	Saved          bool            `json:"saved"`
}

// ResolveNight combines the werewolf and doctor rankings into a death or a save.
func ResolveNight(werewolf, doctor Ranking) NightOutcome {
	if werewolf.Empty() {
		return NightOutcome{Kind: WerewolfQuiet}
	}
	victim, ok := werewolf.Consensus()
	if !ok {
		return NightOutcome{Kind: WerewolfStruggle}
	}
	if protected, ok := doctor.Consensus(); ok && protected == victim {
		return NightOutcome{Kind: WerewolfSaved, TargetID: victim, Saved: true}
	}
	if doctor.Tied() && doctor.IsLeader(victim) {
		return NightOutcome{Kind: WerewolfFoundDead, TargetID: victim, KilledPlayerID: victim}
	}
	return NightOutcome{Kind: WerewolfMissing, TargetID: victim, KilledPlayerID: victim}
}

// DetectiveOutcome is what the detectives learned.
type DetectiveOutcome string

// Detective outcomes.
const (
	DetectiveIdle       DetectiveOutcome = "idle"
	DetectiveDistracted DetectiveOutcome = "distracted"
	DetectiveWitnessed  DetectiveOutcome = "witnessed"
	DetectiveScuffle    DetectiveOutcome = "scuffle"
	DetectiveClean      DetectiveOutcome = "clean"
	DetectiveInnocent   DetectiveOutcome = "innocent"
)

// Investigation is the detectives' result for one night. It never affects deaths.
type Investigation struct {
	Kind     DetectiveOutcome `json:"kind"`
	TargetID string           `json:"target_id,omitempty"`
}

// Investigate evaluates the detective ranking against the werewolf vote.
// roleOf returns the role of a player id.
func Investigate(detective, werewolf Ranking, roleOf func(string) Role) Investigation {
	if detective.Empty() {
		return Investigation{Kind: DetectiveIdle}
	}
	suspect, ok := detective.Consensus()
	if !ok {
		return Investigation{Kind: DetectiveDistracted}
	}
	if roleOf(suspect) != RoleWerewolf {
		return Investigation{Kind: DetectiveInnocent, TargetID: suspect}
	}
	switch {
	case werewolf.Empty():
		return Investigation{Kind: DetectiveClean, TargetID: suspect}
	case werewolf.Tied():
		return Investigation{Kind: DetectiveScuffle, TargetID: suspect}
	default:
		return Investigation{Kind: DetectiveWitnessed, TargetID: suspect}
	}
}

// NightReport is what the day phase narrates.
type NightReport struct {
	Outcome       NightOutcome  `json:"outcome"`
	Investigation Investigation `json:"investigation"`
	// VictimName is looked up before the roster changes.
	VictimName string `json:"victim_name,omitempty"`
}
