package games

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/vntrieu/werewolf/internal/store"
)

const (
	sceneText       = "Nestled amidst whispering forests and moonlit glades, lies a village where shadows dance with secrets beneath the flickering glow of lanterns."
	nightStartText  = "Night phase has started. Werewolves, make your move!"
	dawnText        = "As the early sun rises and dew covers the fields"
	dayBeginsText   = "The day begins, and the villagers gather to discuss the events of the night."
	roleUnknownText = "Your role information is not available."
	untargetedText  = "That player cannot be targeted."
)

var playerQuotes = []string{
	"what a champion",
	"puts the fun in 'fun'",
	"excellence incarnate",
	"always welcome",
	"vibes well",
	"pure sunshine",
	"sparkles with charisma",
	"embraces life's zest",
	"a delight magnet",
	"the soul of spontaneity",
	"spreads contagious laughter",
	"a perpetual smile",
	"defines joie de vivre",
	"a burst of energy",
	"lights up the room",
	"irresistibly vibrant",
	"a walking celebration",
	"effortlessly cool",
	"a master of charm",
	"the epitome of grace",
	"a joy amplifier",
	"a melody of positivity",
	"an endless adventure",
	"brims with enthusiasm",
	"a symphony of kindness",
}

var civilianQuips = []string{
	"You are a tepid boring civilian with no voting rights, sit %s",
	"You are very pedestrian, stick to your useless role, sit %s",
	"Someone trite like you couldn't possibly think you can contribute, sit %s",
	"Pointlessly picking names because you are bored of your stale existence? sit %s",
}

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}

// introText announces the role distribution. Roles with no seats are left out.
func introText(c RoleCount) string {
	parts := make([]string, 0, 4)
	for _, rc := range []struct {
		n         int
		one, many string
	}{
		{c.Werewolves, "werewolf", "werewolves"},
		{c.Doctors, "doctor", "doctors"},
		{c.Detectives, "detective", "detectives"},
		{c.Civilians, "civilian", "civilians"},
	} {
		if rc.n > 0 {
			parts = append(parts, plural(rc.n, rc.one, rc.many))
		}
	}
	return fmt.Sprintf("Welcome to the game of Werewolf, this game has %s, let's play!", strings.Join(parts, ", "))
}

// rosterText introduces each player with a random compliment.
func rosterText(players []store.Player, rng *rand.Rand) string {
	lines := make([]string, 0, len(players))
	for _, p := range players {
		lines = append(lines, fmt.Sprintf("%s, %s", p.Name, playerQuotes[rng.Intn(len(playerQuotes))]))
	}
	return strings.Join(lines, "\n")
}

// roleDescription is the private reply to a role check.
func roleDescription(r Role) string {
	switch r {
	case RoleWerewolf:
		return "You are a Werewolf. Work with your team to eliminate the villagers!"
	case RoleDoctor:
		return "You are the Doctor. Protect villagers from werewolf attacks!"
	case RoleDetective:
		return "You are the Detective. Investigate players to find the werewolves!"
	case RoleCivilian:
		return "You are a Civilian. Stay alive and try to identify the werewolves!"
	default:
		return roleUnknownText
	}
}

// advisoryText is the private reply to a night submission.
func advisoryText(v Verdict, actor, target *store.Player, rng *rand.Rand) string {
	switch v.Reason {
	case ReasonNotFound:
		return roleUnknownText
	case ReasonNoNightAction:
		return fmt.Sprintf(civilianQuips[rng.Intn(len(civilianQuips))], actor.Name)
	case ReasonPackMember:
		return fmt.Sprintf("You cannot kill %s, they are in your pack!", target.Name)
	case ReasonSelfTarget:
		if Role(actor.Role) == RoleWerewolf {
			return "Self cannibalism is frowned upon in wolf society"
		}
		return "You cannot investigate yourself..."
	case ReasonFellowDetective:
		return fmt.Sprintf("You know %s is clear, you went through your detective cert I together afterall", target.Name)
	case ReasonSelfProtect:
		return "Protecting yourself you dirty dog!"
	}
	switch Role(actor.Role) {
	case RoleDoctor:
		return fmt.Sprintf("Protecting %s", target.Name)
	case RoleDetective:
		return fmt.Sprintf("Investigating %s", target.Name)
	default:
		return fmt.Sprintf("targetting %s", target.Name)
	}
}

func werewolfText(o NightOutcome, victim string) string {
	switch o.Kind {
	case WerewolfStruggle:
		return "There were sounds of struggle, but no villagers were harmed this night."
	case WerewolfSaved:
		return fmt.Sprintf("%s was attacked by werewolves and lay dying, but was mysteriously saved.", victim)
	case WerewolfFoundDead:
		return fmt.Sprintf("%s was found dead. It appears that someone arrived on the scene but was unable to save them this time.", victim)
	case WerewolfMissing:
		return fmt.Sprintf("Everyone notices %s has not appeared in town this day. %s is dead.", victim, victim)
	default:
		return "Whatever is out there is biding its time, no one was harmed this night."
	}
}

func detectiveText(inv Investigation) string {
	switch inv.Kind {
	case DetectiveDistracted:
		return "This attack may have been witnessed, but organization waned and distractions arose."
	case DetectiveWitnessed:
		return "This crime was witnessed, someone knows who the culprit is."
	case DetectiveScuffle:
		return "A scuffle of disorderly wolves led one of them to be discovered."
	case DetectiveClean:
		return "A clever investigation led someone to learn who is a dangerous wolf."
	case DetectiveInnocent:
		return "Heavy scrutiny was focused on an innocent person."
	default:
		return "The detectives did not investigate anyone last night."
	}
}

// NarrateNight renders the dawn narration of a night report.
func NarrateNight(r NightReport) string {
	return fmt.Sprintf("%s\n\n%s\n\n%s", dawnText, werewolfText(r.Outcome, r.VictimName), detectiveText(r.Investigation))
}

// resultText announces how the game ended.
func resultText(ws WinState) string {
	switch ws.Winner {
	case TeamWerewolves:
		return "The werewolves have overrun the village. The werewolves win!"
	case TeamVillage:
		return "The last werewolf has fallen. The village wins!"
	default:
		return fmt.Sprintf("The sun sets on an uneasy village: %s and %s remain. The game is over.",
			plural(ws.Werewolves, "werewolf", "werewolves"), plural(ws.Villagers, "villager", "villagers"))
	}
}

// rejectionText explains a rejected vote. A living voter without a role hears the role reply.
func rejectionText(actor *store.Player) string {
	if actor != nil && !actor.IsDead && !Role(actor.Role).Valid() {
		return roleUnknownText
	}
	return untargetedText
}
