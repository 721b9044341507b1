package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/vntrieu/werewolf/internal/games"
	"github.com/vntrieu/werewolf/internal/store"
)

// ErrAlreadyRunning is returned when a game is started twice.
var ErrAlreadyRunning = errors.New("game already running")

// Starter creates game handles (implemented by games.Engine).
type Starter interface {
	Start(ctx context.Context, gameID string) (*games.Game, error)
}

// Roster is what the manager reads to build public state.
type Roster interface {
	GetGame(ctx context.Context, gameID string) (*store.Game, error)
	GetPlayers(ctx context.Context, gameID string) ([]store.Player, error)
}

type running struct {
	game   *games.Game
	cancel context.CancelFunc
}

// Manager runs one goroutine per started game and cancels them on shutdown.
type Manager struct {
	engine Starter
	roster Roster
	log    zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu    sync.Mutex
	games map[string]*running
}

// NewManager creates a Manager. Games outlive the requests that start them and end on Shutdown.
func NewManager(engine Starter, roster Roster, log zerolog.Logger) *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		engine: engine,
		roster: roster,
		log:    log,
		ctx:    ctx,
		cancel: cancel,
		games:  make(map[string]*running),
	}
}

// Start starts the game and runs it in the background.
func (m *Manager) Start(ctx context.Context, gameID string) (*games.Game, error) {
	m.mu.Lock()
	if _, ok := m.games[gameID]; ok {
		m.mu.Unlock()
		return nil, ErrAlreadyRunning
	}
	if err := m.ctx.Err(); err != nil {
		m.mu.Unlock()
		return nil, fmt.Errorf("manager shut down: %w", err)
	}
	// Reserve the slot while the engine touches the roster.
	runCtx, cancel := context.WithCancel(m.ctx)
	r := &running{cancel: cancel}
	m.games[gameID] = r
	m.wg.Add(1)
	m.mu.Unlock()

	game, err := m.engine.Start(ctx, gameID)
	if err != nil {
		cancel()
		m.remove(gameID, r)
		m.wg.Done()
		return nil, err
	}

	m.mu.Lock()
	r.game = game
	m.mu.Unlock()

	go m.run(runCtx, gameID, r)
	return game, nil
}

func (m *Manager) run(ctx context.Context, gameID string, r *running) {
	defer m.wg.Done()
	defer m.remove(gameID, r)
	defer r.cancel()
	defer func() {
		if p := recover(); p != nil {
			m.log.Error().Str("game_id", gameID).Interface("panic", p).Msg("game goroutine panicked")
		}
	}()

	if err := r.game.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		m.log.Error().Err(err).Str("game_id", gameID).Msg("game ended with error")
		return
	}
	m.log.Info().Str("game_id", gameID).Msg("game finished")
}

func (m *Manager) remove(gameID string, r *running) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.games[gameID] == r {
		delete(m.games, gameID)
	}
}

// Game returns the running game or nil.
func (m *Manager) Game(gameID string) *games.Game {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.games[gameID]; ok {
		return r.game
	}
	return nil
}

// Running returns the number of games in progress.
func (m *Manager) Running() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.games)
}

// Stop cancels one game. It reports whether the game was running.
func (m *Manager) Stop(gameID string) bool {
	m.mu.Lock()
	r, ok := m.games[gameID]
	m.mu.Unlock()
	if ok {
		r.cancel()
	}
	return ok
}

// State builds the public view of a game, annotated with the live round and report when it runs.
func (m *Manager) State(ctx context.Context, gameID string) (*games.State, error) {
	game, err := m.roster.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	players, err := m.roster.GetPlayers(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("get players: %w", err)
	}
	state, err := games.NewState(game, players)
	if err != nil {
		return nil, err
	}
	return state.Annotate(m.Game(gameID)), nil
}

// Shutdown cancels every game and waits for their teardown or for ctx.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	m.cancel()
	m.mu.Unlock()
	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
