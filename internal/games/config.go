package games

import "time"

// Phase is one step of the game loop.
type Phase string

// Phase names.
const (
	PhaseSetup  Phase = "setup"
	PhaseNight  Phase = "night"
	PhaseDay    Phase = "day"
	PhaseSunset Phase = "sunset"
	PhaseEnd    Phase = "end"
)

// PhaseDef defines a phase: the windows it may open and the phases that may follow it.
type PhaseDef struct {
	Name    Phase        `json:"name"`
	Windows []WindowKind `json:"windows"`
	Next    []Phase      `json:"next"`
}

// WerewolfPhases is the phase sequence of a game. Sunset is the only branching phase.
var WerewolfPhases = []PhaseDef{
	{Name: PhaseSetup, Windows: []WindowKind{WindowRoleReveal}, Next: []Phase{PhaseNight}},
	{Name: PhaseNight, Windows: []WindowKind{WindowVote}, Next: []Phase{PhaseDay}},
	{Name: PhaseDay, Windows: []WindowKind{}, Next: []Phase{PhaseSunset}},
	{Name: PhaseSunset, Windows: []WindowKind{}, Next: []Phase{PhaseNight, PhaseEnd}},
	{Name: PhaseEnd, Windows: []WindowKind{}}, // terminal
}

// Config holds the engine timings and the round policy.
type Config struct {
	// VoteWindow is how long the night vote window stays open.
	VoteWindow time.Duration
	// RoleRevealWindow is how long players may ask for their role after setup.
	RoleRevealWindow time.Duration
	// DiscussionInterval is the wait at the end of the day phase. Zero disables it.
	DiscussionInterval time.Duration
	// NarrationPause separates the intro lines. Zero disables it.
	NarrationPause time.Duration
	// LoopUntilWin returns to night after sunset while both teams have living members.
	// When false the game ends after one round.
	LoopUntilWin bool
	// MaxRounds caps the number of nights when looping.
	MaxRounds int
}

// DefaultConfig returns the timings used by the server unless overridden.
func DefaultConfig() Config {
	return Config{
		VoteWindow:         30 * time.Second,
		RoleRevealWindow:   10 * time.Minute,
		DiscussionInterval: 10 * time.Second,
		NarrationPause:     time.Second,
		LoopUntilWin:       true,
		MaxRounds:          10,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.VoteWindow <= 0 {
		c.VoteWindow = d.VoteWindow
	}
	if c.RoleRevealWindow <= 0 {
		c.RoleRevealWindow = d.RoleRevealWindow
	}
	if c.MaxRounds <= 0 {
		c.MaxRounds = d.MaxRounds
	}
	if c.DiscussionInterval < 0 {
		c.DiscussionInterval = 0
	}
	if c.NarrationPause < 0 {
		c.NarrationPause = 0
	}
	return c
}
