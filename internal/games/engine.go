package games

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/vntrieu/werewolf/internal/store"
)

// Engine starts games and owns their collaborators. It keeps no registry of running games.
type Engine struct {
	roster   RosterStore
	windows  WindowProvider
	notifier Notifier
	config   Config
	log      zerolog.Logger
	newRand  func() *rand.Rand
	sleep    func(ctx context.Context, d time.Duration) error
	onEnd    func(gameID string, result WinState)
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(log zerolog.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// WithRand sets the random source factory; each game gets its own source.
func WithRand(newRand func() *rand.Rand) Option {
	return func(e *Engine) { e.newRand = newRand }
}

// WithSleep replaces the wait used for narration pauses and the discussion interval.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(e *Engine) { e.sleep = sleep }
}

// WithOnEnd registers a hook fired when a game reaches the end phase.
func WithOnEnd(fn func(gameID string, result WinState)) Option {
	return func(e *Engine) { e.onEnd = fn }
}

// NewEngine creates an engine with the given collaborators and config.
func NewEngine(roster RosterStore, windows WindowProvider, notifier Notifier, config Config, opts ...Option) *Engine {
	e := &Engine{
		roster:   roster,
		windows:  windows,
		notifier: notifier,
		config:   config.withDefaults(),
		log:      zerolog.Nop(),
		newRand: func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		},
		sleep: sleepContext,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.log = e.log.With().Str("component", "engine").Logger()
	return e
}

// Config returns the effective engine config.
func (e *Engine) Config() Config {
	return e.config
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Start marks the game active in the setup phase and returns its handle.
// It fails with ErrInsufficientPlayers without touching the roster when fewer than MinPlayers joined,
// and with store.ErrGameStarted when the stored game has already left the lobby.
func (e *Engine) Start(ctx context.Context, gameID string) (*Game, error) {
	players, err := e.roster.GetPlayers(ctx, gameID)
	if err != nil {
		return nil, collaboratorErr("get players", err)
	}
	if len(players) < MinPlayers {
		return nil, fmt.Errorf("%d players joined: %w", len(players), ErrInsufficientPlayers)
	}
	if err := e.roster.CreateGame(ctx, gameID); err != nil {
		return nil, collaboratorErr("create game", err)
	}
	game, err := e.roster.GetGame(ctx, gameID)
	if err != nil {
		return nil, collaboratorErr("get game", err)
	}
	phase, err := ParsePhase(game.Phase)
	if err != nil {
		return nil, collaboratorErr("get game", err)
	}
	if game.IsActive || phase != PhaseSetup {
		return nil, fmt.Errorf("game %s is in phase %s: %w", gameID, phase, store.ErrGameStarted)
	}
	if err := e.roster.SetPhase(ctx, gameID, string(PhaseSetup), true); err != nil {
		return nil, collaboratorErr("set phase", err)
	}

	log := e.log.With().Str("game_id", gameID).Logger()
	log.Info().Int("players", len(players)).Msg("game started")
	return &Game{
		ID:         gameID,
		engine:     e,
		phase:      PhaseSetup,
		rng:        e.newRand(),
		log:        log,
		collectors: NewCollectors(gameID, e.windows, e.log),
	}, nil
}

// Game is the handle of one running game. It is driven by a single goroutine through Run or Step;
// the accessors may be called from any goroutine.
type Game struct {
	ID string

	engine     *Engine
	rng        *rand.Rand
	log        zerolog.Logger
	collectors *Collectors
	reveal     sync.WaitGroup

	mu         sync.RWMutex
	phase      Phase
	round      int
	finished   bool
	revealOpen bool
	report     *NightReport
	result     WinState
}

// Phase returns the current phase.
func (g *Game) Phase() Phase {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.phase
}

// Round returns the number of nights started so far.
func (g *Game) Round() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.round
}

// Result returns the last win evaluation.
func (g *Game) Result() WinState {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.result
}

// Report returns the last night report, if any.
func (g *Game) Report() *NightReport {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.report == nil {
		return nil
	}
	r := *g.report
	return &r
}

// Collectors returns the open windows registry of the game.
func (g *Game) Collectors() *Collectors {
	return g.collectors
}

// Run steps through the phases until the game ends, then tears it down.
// Teardown also runs when a step fails or ctx is cancelled.
func (g *Game) Run(ctx context.Context) error {
	defer g.teardown(ctx)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := g.Step(ctx); err != nil {
			if errors.Is(err, ErrGameOver) {
				return nil
			}
			g.log.Error().Err(err).Str("phase", string(g.Phase())).Int("round", g.Round()).Msg("game aborted")
			return err
		}
	}
}

// Step executes the current phase and persists the transition to the next one.
// Once the end phase has run it returns ErrGameOver.
func (g *Game) Step(ctx context.Context) error {
	g.mu.RLock()
	phase, finished := g.phase, g.finished
	g.mu.RUnlock()
	if finished {
		return ErrGameOver
	}

	switch phase {
	case PhaseSetup:
		return g.setup(ctx)
	case PhaseNight:
		return g.night(ctx)
	case PhaseDay:
		return g.day(ctx)
	case PhaseSunset:
		return g.sunset(ctx)
	case PhaseEnd:
		return g.end(ctx)
	default:
		return fmt.Errorf("unknown phase %q", phase)
	}
}

func (g *Game) transition(ctx context.Context, next Phase) error {
	current := g.Phase()
	if !current.CanTransitionTo(next) {
		return fmt.Errorf("invalid transition %s -> %s", current, next)
	}
	if err := g.engine.roster.SetPhase(ctx, g.ID, string(next), next.Active()); err != nil {
		return collaboratorErr("set phase", err)
	}
	g.mu.Lock()
	g.phase = next
	g.mu.Unlock()
	g.log.Debug().Str("from", string(current)).Str("to", string(next)).Msg("phase transition")
	return nil
}

func (g *Game) notify(ctx context.Context, text string, spoken bool) {
	if err := g.engine.notifier.Notify(ctx, g.ID, text, NotifyOptions{Spoken: spoken}); err != nil {
		g.log.Warn().Err(err).Msg("notify failed")
	}
}

func (g *Game) whisper(ctx context.Context, playerID, text string) {
	if err := g.engine.notifier.Whisper(ctx, g.ID, playerID, text); err != nil {
		g.log.Warn().Err(err).Str("player_id", playerID).Msg("whisper failed")
	}
}

func (g *Game) pause(ctx context.Context) error {
	return g.engine.sleep(ctx, g.engine.config.NarrationPause)
}

func (g *Game) players(ctx context.Context) ([]store.Player, error) {
	players, err := g.engine.roster.GetPlayers(ctx, g.ID)
	if err != nil {
		return nil, collaboratorErr("get players", err)
	}
	return players, nil
}

func (g *Game) setup(ctx context.Context) error {
	players, err := g.players(ctx)
	if err != nil {
		return err
	}
	ids := make([]string, len(players))
	for i, p := range players {
		ids[i] = p.ID
	}
	roles, err := AssignRoles(ids, g.rng)
	if err != nil {
		return err
	}
	for i := range players {
		role := roles[players[i].ID]
		if err := g.engine.roster.SetRole(ctx, g.ID, players[i].ID, string(role)); err != nil {
			return collaboratorErr("set role", err)
		}
		players[i].Role = string(role)
	}
	counts := RoleCountsOf(players)
	g.log.Info().Int("werewolves", counts.Werewolves).Int("doctors", counts.Doctors).
		Int("detectives", counts.Detectives).Int("civilians", counts.Civilians).Msg("roles assigned")

	g.notify(ctx, introText(counts), true)
	g.notify(ctx, rosterText(players, g.rng), false)
	if err := g.pause(ctx); err != nil {
		return err
	}
	g.notify(ctx, sceneText, true)
	if err := g.pause(ctx); err != nil {
		return err
	}

	if err := g.openRoleReveal(ctx); err != nil {
		if errors.Is(err, ErrRevealAlreadyOpen) {
			return err
		}
		g.log.Warn().Err(err).Msg("role reveal unavailable")
	}
	return g.transition(ctx, PhaseNight)
}

// openRoleReveal opens the one-shot role reveal window and serves it on a helper goroutine.
func (g *Game) openRoleReveal(ctx context.Context) error {
	g.mu.Lock()
	if g.revealOpen {
		g.mu.Unlock()
		return ErrRevealAlreadyOpen
	}
	g.revealOpen = true
	g.mu.Unlock()

	w, err := g.openWindow(ctx, WindowRoleReveal, g.engine.config.RoleRevealWindow)
	if err != nil {
		g.mu.Lock()
		g.revealOpen = false
		g.mu.Unlock()
		return err
	}
	g.reveal.Add(1)
	go func() {
		defer g.reveal.Done()
		defer func() {
			if p := recover(); p != nil {
				g.log.Error().Interface("panic", p).Msg("role reveal goroutine panicked")
			}
		}()
		g.serveRoleReveal(ctx, w)
	}()
	return nil
}

// openWindow opens a window of a kind the current phase allows.
func (g *Game) openWindow(ctx context.Context, kind WindowKind, d time.Duration) (Window, error) {
	if phase := g.Phase(); !phase.Allows(kind) {
		return nil, fmt.Errorf("%s window during %s: %w", kind, phase, ErrWindowNotAllowed)
	}
	return g.collectors.Open(ctx, kind, d)
}

// serveRoleReveal only reads the roster and whispers; it never writes.
func (g *Game) serveRoleReveal(ctx context.Context, w Window) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.Done():
			return
		case sub, ok := <-w.Submissions():
			if !ok {
				return
			}
			p, err := g.engine.roster.GetPlayer(ctx, g.ID, sub.PlayerID)
			if err != nil {
				g.log.Warn().Err(err).Str("player_id", sub.PlayerID).Msg("role lookup failed")
				g.whisper(ctx, sub.PlayerID, roleUnknownText)
				continue
			}
			if p == nil {
				g.log.Debug().Err(ErrNotFound).Str("player_id", sub.PlayerID).Msg("role check from unknown player")
				g.whisper(ctx, sub.PlayerID, roleUnknownText)
				continue
			}
			g.whisper(ctx, sub.PlayerID, roleDescription(Role(p.Role)))
		}
	}
}

func (g *Game) night(ctx context.Context) error {
	g.mu.Lock()
	g.round++
	round := g.round
	g.mu.Unlock()
	log := g.log.With().Str("phase", string(PhaseNight)).Int("round", round).Logger()

	g.notify(ctx, nightStartText, true)
	w, err := g.openWindow(ctx, WindowVote, g.engine.config.VoteWindow)
	if err != nil {
		return err
	}
	collectErr := g.collectVotes(ctx, w)
	g.collectors.Close(w)
	if collectErr != nil {
		return collectErr
	}

	players, err := g.players(ctx)
	if err != nil {
		return err
	}
	werewolf := Tally(VotesFor(players, RoleWerewolf))
	doctor := Tally(VotesFor(players, RoleDoctor))
	detective := Tally(VotesFor(players, RoleDetective))

	byID := make(map[string]store.Player, len(players))
	for _, p := range players {
		byID[p.ID] = p
	}
	outcome := ResolveNight(werewolf, doctor)
	if outcome.KilledPlayerID != "" {
		if err := g.engine.roster.SetDead(ctx, g.ID, outcome.KilledPlayerID); err != nil {
			return collaboratorErr("set dead", err)
		}
	}
	inv := Investigate(detective, werewolf, func(id string) Role { return Role(byID[id].Role) })
	log.Info().Str("outcome", string(outcome.Kind)).Str("killed", outcome.KilledPlayerID).
		Str("investigation", string(inv.Kind)).Msg("night resolved")

	g.mu.Lock()
	g.report = &NightReport{Outcome: outcome, Investigation: inv, VictimName: byID[outcome.TargetID].Name}
	g.mu.Unlock()
	return g.transition(ctx, PhaseDay)
}

// collectVotes consumes submissions until the window closes. A submission racing with the
// close is discarded.
func (g *Game) collectVotes(ctx context.Context, w Window) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.Done():
			return nil
		case sub, ok := <-w.Submissions():
			if !ok {
				return nil
			}
			select {
			case <-w.Done():
				return nil
			default:
			}
			g.handleVote(ctx, sub)
		}
	}
}

func (g *Game) handleVote(ctx context.Context, sub Submission) {
	actor, err := g.engine.roster.GetPlayer(ctx, g.ID, sub.PlayerID)
	if err != nil {
		g.log.Warn().Err(err).Str("player_id", sub.PlayerID).Msg("vote lookup failed")
		return
	}
	target, err := g.engine.roster.GetPlayer(ctx, g.ID, sub.TargetID)
	if err != nil {
		g.log.Warn().Err(err).Str("target_id", sub.TargetID).Msg("vote lookup failed")
		return
	}

	verdict := JudgeSubmission(actor, target)
	if verdict.Action == VerdictReject {
		g.log.Debug().Err(ErrNotFound).Str("player_id", sub.PlayerID).Str("target_id", sub.TargetID).Msg("vote rejected")
		g.whisper(ctx, sub.PlayerID, rejectionText(actor))
		return
	}
	if verdict.Writes() {
		if err := g.engine.roster.SetVote(ctx, g.ID, actor.ID, verdict.Vote(target.ID)); err != nil {
			g.log.Warn().Err(collaboratorErr("set vote", err)).Str("player_id", actor.ID).Msg("vote not stored")
			return
		}
	}
	g.log.Debug().Str("player_id", actor.ID).Str("target_id", target.ID).Str("reason", verdict.Reason).Msg("vote judged")
	g.whisper(ctx, actor.ID, advisoryText(verdict, actor, target, g.rng))
}

func (g *Game) day(ctx context.Context) error {
	if r := g.Report(); r != nil {
		g.notify(ctx, NarrateNight(*r), true)
	}
	g.notify(ctx, dayBeginsText, true)
	if err := g.engine.sleep(ctx, g.engine.config.DiscussionInterval); err != nil {
		return err
	}
	return g.transition(ctx, PhaseSunset)
}

func (g *Game) sunset(ctx context.Context) error {
	if err := g.engine.roster.ResetVotes(ctx, g.ID); err != nil {
		return collaboratorErr("reset votes", err)
	}
	players, err := g.players(ctx)
	if err != nil {
		return err
	}
	ws := CheckWin(players)
	g.mu.Lock()
	g.result = ws
	round := g.round
	g.mu.Unlock()

	cfg := g.engine.config
	if ws.Continue && cfg.LoopUntilWin && round < cfg.MaxRounds {
		g.log.Debug().Int("round", round).Int("werewolves", ws.Werewolves).Int("villagers", ws.Villagers).Msg("next round")
		return g.transition(ctx, PhaseNight)
	}
	return g.transition(ctx, PhaseEnd)
}

func (g *Game) end(ctx context.Context) error {
	ws := g.Result()
	g.notify(ctx, resultText(ws), true)
	g.mu.Lock()
	g.finished = true
	g.mu.Unlock()
	g.log.Info().Str("winner", string(ws.Winner)).Int("rounds", g.Round()).Msg("game ended")
	if g.engine.onEnd != nil {
		g.engine.onEnd(g.ID, ws)
	}
	return nil
}

// teardown closes every window and deletes the game with its players.
func (g *Game) teardown(ctx context.Context) {
	g.collectors.CloseAll()
	g.reveal.Wait()

	cleanupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := g.engine.roster.DeleteGame(cleanupCtx, g.ID); err != nil {
		g.log.Error().Err(collaboratorErr("delete game", err)).Msg("teardown failed")
		return
	}
	g.log.Debug().Msg("game deleted")
}
