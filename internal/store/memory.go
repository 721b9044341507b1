package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-process roster used when no DATABASE_URL is configured and in tests.
// Its behaviour mirrors RosterStore.
type MemoryStore struct {
	mu      sync.RWMutex
	games   map[string]*Game
	players map[string][]*Player // game_id -> players in join order
	nowFunc func() time.Time
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		games:   make(map[string]*Game),
		players: make(map[string][]*Player),
		nowFunc: time.Now,
	}
}

// CreateLobby creates an inactive game in the setup phase and seats the requester as host.
func (s *MemoryStore) CreateLobby(ctx context.Context, req CreateLobbyRequest) (*LobbyResponse, error) {
	hash, err := hashPasscode(req.Passcode)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.nowFunc()
	game := &Game{ID: uuid.NewString(), Phase: LobbyPhase, PasscodeHash: hash, CreatedAt: now}
	host := &Player{ID: uuid.NewString(), GameID: game.ID, Name: req.DisplayName, JoinedAt: now}
	game.HostID = host.ID
	s.games[game.ID] = game
	s.players[game.ID] = []*Player{host}

	g := *game
	return &LobbyResponse{Game: &g, Player: copyPlayer(host)}, nil
}

// JoinGame adds a player to a lobby that has not started yet.
func (s *MemoryStore) JoinGame(ctx context.Context, gameID string, req JoinGameRequest) (*LobbyResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	game, ok := s.games[gameID]
	if !ok {
		return nil, ErrGameNotFound
	}
	if game.IsActive || game.Phase != LobbyPhase {
		return nil, ErrGameStarted
	}
	if err := checkPasscode(game.PasscodeHash, req.Passcode); err != nil {
		return nil, err
	}
	if len(s.players[gameID]) >= MaxPlayers {
		return nil, ErrGameFull
	}
	p := &Player{ID: uuid.NewString(), GameID: gameID, Name: req.DisplayName, JoinedAt: s.nowFunc()}
	s.players[gameID] = append(s.players[gameID], p)

	g := *game
	return &LobbyResponse{Game: &g, Player: copyPlayer(p)}, nil
}

// GetGame returns the game row or ErrGameNotFound.
func (s *MemoryStore) GetGame(ctx context.Context, gameID string) (*Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	game, ok := s.games[gameID]
	if !ok {
		return nil, ErrGameNotFound
	}
	g := *game
	return &g, nil
}

// CreateGame makes sure a game row exists.
func (s *MemoryStore) CreateGame(ctx context.Context, gameID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[gameID]; !ok {
		s.games[gameID] = &Game{ID: gameID, Phase: LobbyPhase, CreatedAt: s.nowFunc()}
	}
	return nil
}

// SetPhase persists a phase transition and the active flag.
func (s *MemoryStore) SetPhase(ctx context.Context, gameID string, phase string, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	game, ok := s.games[gameID]
	if !ok {
		return ErrGameNotFound
	}
	game.Phase = phase
	game.IsActive = active
	return nil
}

// DeleteGame removes the game together with its players.
func (s *MemoryStore) DeleteGame(ctx context.Context, gameID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.games, gameID)
	delete(s.players, gameID)
	return nil
}

// GetPlayers returns copies of the roster in join order.
func (s *MemoryStore) GetPlayers(ctx context.Context, gameID string) ([]Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Player, 0, len(s.players[gameID]))
	for _, p := range s.players[gameID] {
		out = append(out, *copyPlayer(p))
	}
	return out, nil
}

// GetPlayer returns the player or nil when absent.
func (s *MemoryStore) GetPlayer(ctx context.Context, gameID, playerID string) (*Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p := s.find(gameID, playerID); p != nil {
		return copyPlayer(p), nil
	}
	return nil, nil
}

func (s *MemoryStore) find(gameID, playerID string) *Player {
	for _, p := range s.players[gameID] {
		if p.ID == playerID {
			return p
		}
	}
	return nil
}

func (s *MemoryStore) update(gameID, playerID string, fn func(p *Player)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.find(gameID, playerID)
	if p == nil {
		return ErrPlayerNotFound
	}
	fn(p)
	return nil
}

// SetRole stores the assigned role.
func (s *MemoryStore) SetRole(ctx context.Context, gameID, playerID, role string) error {
	return s.update(gameID, playerID, func(p *Player) { p.Role = role })
}

// SetVote overwrites the player's vote for the current round; nil clears it.
func (s *MemoryStore) SetVote(ctx context.Context, gameID, playerID string, targetID *string) error {
	return s.update(gameID, playerID, func(p *Player) {
		if targetID == nil {
			p.VotedFor = nil
			return
		}
		v := *targetID
		p.VotedFor = &v
	})
}

// SetDead marks the player dead.
func (s *MemoryStore) SetDead(ctx context.Context, gameID, playerID string) error {
	return s.update(gameID, playerID, func(p *Player) { p.IsDead = true })
}

// ResetVotes clears every vote of the game under a single lock.
func (s *MemoryStore) ResetVotes(ctx context.Context, gameID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.players[gameID] {
		p.VotedFor = nil
	}
	return nil
}
