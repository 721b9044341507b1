package games

import (
	"sort"

	"github.com/vntrieu/werewolf/internal/store"
)

// Vote is one actor's current night target.
type Vote struct {
	ActorID  string
	TargetID string
}

// Tier is a group of targets that received the same number of votes.
type Tier struct {
	Count   int      `json:"count"`
	Targets []string `json:"targets"`
}

// Ranking lists targets grouped by descending vote count.
type Ranking []Tier

// Tally counts votes per target. Votes without a target are skipped.
// Targets inside a tier are sorted so the ranking is deterministic.
func Tally(votes []Vote) Ranking {
	counts := make(map[string]int)
	for _, v := range votes {
		if v.TargetID == "" {
			continue
		}
		counts[v.TargetID]++
	}

	byCount := make(map[int][]string)
	for target, n := range counts {
		byCount[n] = append(byCount[n], target)
	}
	ranking := make(Ranking, 0, len(byCount))
	for n, targets := range byCount {
		sort.Strings(targets)
		ranking = append(ranking, Tier{Count: n, Targets: targets})
	}
	sort.Slice(ranking, func(i, j int) bool { return ranking[i].Count > ranking[j].Count })
	return ranking
}

// Empty reports whether no votes were counted.
func (r Ranking) Empty() bool {
	return len(r) == 0
}

// Leaders returns the targets sharing the top count.
func (r Ranking) Leaders() []string {
	if len(r) == 0 {
		return nil
	}
	return r[0].Targets
}

// Consensus returns the single leader. More than one leader is no consensus.
func (r Ranking) Consensus() (string, bool) {
	leaders := r.Leaders()
	if len(leaders) != 1 {
		return "", false
	}
	return leaders[0], true
}

// Tied reports whether the top count is shared.
func (r Ranking) Tied() bool {
	return len(r.Leaders()) > 1
}

// IsLeader reports whether id is among the leaders.
func (r Ranking) IsLeader(id string) bool {
	for _, l := range r.Leaders() {
		if l == id {
			return true
		}
	}
	return false
}

// VotesFor collects the votes of living players holding role.
func VotesFor(players []store.Player, role Role) []Vote {
	votes := make([]Vote, 0)
	for _, p := range players {
		if p.IsDead || Role(p.Role) != role || p.VotedFor == nil || *p.VotedFor == "" {
			continue
		}
		votes = append(votes, Vote{ActorID: p.ID, TargetID: *p.VotedFor})
	}
	return votes
}

// VerdictAction is what happens to a submission.
type VerdictAction int

const (
	// VerdictReject drops the submission without writing anything.
	VerdictReject VerdictAction = iota
	// VerdictAccept stores the target as the actor's vote.
	VerdictAccept
	// VerdictClear stores no vote for the actor.
	VerdictClear
	// VerdictIgnore is a no-op for roles without a night action.
	VerdictIgnore
)

// Verdict reasons, used for advisory replies and logs.
const (
	ReasonNotFound        = "not_found"
	ReasonPackMember      = "pack_member"
	ReasonSelfTarget      = "self_target"
	ReasonSelfProtect     = "self_protect"
	ReasonFellowDetective = "fellow_detective"
	ReasonNoNightAction   = "no_night_action"
)

// Verdict is the judgement of one night submission.
type Verdict struct {
	Action VerdictAction
	Reason string
}

// Writes reports whether the verdict results in a SetVote call.
func (v Verdict) Writes() bool {
	return v.Action == VerdictAccept || v.Action == VerdictClear
}

// Vote returns the value to store for the actor's vote.
func (v Verdict) Vote(targetID string) *string {
	if v.Action != VerdictAccept {
		return nil
	}
	return &targetID
}

// JudgeSubmission applies the night submission rules in order; the first match wins.
// A nil player is treated as missing.
func JudgeSubmission(actor, target *store.Player) Verdict {
	if actor == nil || target == nil || actor.IsDead || target.IsDead {
		return Verdict{Action: VerdictReject, Reason: ReasonNotFound}
	}
	self := actor.ID == target.ID
	switch Role(actor.Role) {
	case RoleWerewolf:
		if Role(target.Role) == RoleWerewolf {
			if self {
				return Verdict{Action: VerdictClear, Reason: ReasonSelfTarget}
			}
			return Verdict{Action: VerdictClear, Reason: ReasonPackMember}
		}
	case RoleDoctor:
		if self {
			return Verdict{Action: VerdictAccept, Reason: ReasonSelfProtect}
		}
		return Verdict{Action: VerdictAccept}
	case RoleDetective:
		if self {
			return Verdict{Action: VerdictClear, Reason: ReasonSelfTarget}
		}
		if Role(target.Role) == RoleDetective {
			return Verdict{Action: VerdictClear, Reason: ReasonFellowDetective}
		}
	case RoleCivilian:
		return Verdict{Action: VerdictIgnore, Reason: ReasonNoNightAction}
	default:
		// Unassigned roles have no night action either.
		return Verdict{Action: VerdictReject, Reason: ReasonNotFound}
	}
	return Verdict{Action: VerdictAccept}
}
