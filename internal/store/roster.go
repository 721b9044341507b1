package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RosterStore handles database operations for games and their players.
type RosterStore struct {
	pool *pgxpool.Pool
}

// NewRosterStore creates a new RosterStore.
func NewRosterStore(pool *pgxpool.Pool) *RosterStore {
	return &RosterStore{pool: pool}
}

const playerColumns = `id, game_id, is_dead, role, name, voted_for, joined_at`

func scanPlayer(row pgx.Row) (*Player, error) {
	var p Player
	if err := row.Scan(&p.ID, &p.GameID, &p.IsDead, &p.Role, &p.Name, &p.VotedFor, &p.JoinedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateLobby creates an inactive game in the setup phase and seats the requester as host.
func (s *RosterStore) CreateLobby(ctx context.Context, req CreateLobbyRequest) (*LobbyResponse, error) {
	hash, err := hashPasscode(req.Passcode)
	if err != nil {
		return nil, fmt.Errorf("hash passcode: %w", err)
	}
	gameID := uuid.NewString()
	hostID := uuid.NewString()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	game := Game{ID: gameID, Phase: LobbyPhase, HostID: hostID, PasscodeHash: hash}
	err = tx.QueryRow(ctx, `
		INSERT INTO games (id, is_active, phase, host_id, passcode_hash)
		VALUES ($1, FALSE, $2, $3, $4)
		RETURNING created_at`, gameID, LobbyPhase, hostID, hash).Scan(&game.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create game: %w", err)
	}

	player, err := scanPlayer(tx.QueryRow(ctx, `
		INSERT INTO players (id, game_id, name)
		VALUES ($1, $2, $3)
		RETURNING `+playerColumns, hostID, gameID, req.DisplayName))
	if err != nil {
		return nil, fmt.Errorf("create host player: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}
	return &LobbyResponse{Game: &game, Player: player}, nil
}

// JoinGame adds a player to a lobby that has not started yet.
func (s *RosterStore) JoinGame(ctx context.Context, gameID string, req JoinGameRequest) (*LobbyResponse, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Lock the game row so concurrent joins cannot overfill it.
	game, err := scanGame(tx.QueryRow(ctx, `
		SELECT id, is_active, phase, host_id, passcode_hash, created_at
		FROM games WHERE id = $1 FOR UPDATE`, gameID))
	if err != nil {
		return nil, err
	}
	if game.IsActive || game.Phase != LobbyPhase {
		return nil, ErrGameStarted
	}
	if err := checkPasscode(game.PasscodeHash, req.Passcode); err != nil {
		return nil, err
	}

	var count int
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM players WHERE game_id = $1`, gameID).Scan(&count); err != nil {
		return nil, fmt.Errorf("count players: %w", err)
	}
	if count >= MaxPlayers {
		return nil, ErrGameFull
	}

	player, err := scanPlayer(tx.QueryRow(ctx, `
		INSERT INTO players (id, game_id, name)
		VALUES ($1, $2, $3)
		RETURNING `+playerColumns, uuid.NewString(), gameID, req.DisplayName))
	if err != nil {
		return nil, fmt.Errorf("create player: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}
	return &LobbyResponse{Game: game, Player: player}, nil
}

func scanGame(row pgx.Row) (*Game, error) {
	var g Game
	var hostID *string
	if err := row.Scan(&g.ID, &g.IsActive, &g.Phase, &hostID, &g.PasscodeHash, &g.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("get game: %w", err)
	}
	if hostID != nil {
		g.HostID = *hostID
	}
	return &g, nil
}

// GetGame returns the game row or ErrGameNotFound.
func (s *RosterStore) GetGame(ctx context.Context, gameID string) (*Game, error) {
	return scanGame(s.pool.QueryRow(ctx, `
		SELECT id, is_active, phase, host_id, passcode_hash, created_at
		FROM games WHERE id = $1`, gameID))
}

// CreateGame makes sure a game row exists. It is a no-op for lobbies created through CreateLobby.
func (s *RosterStore) CreateGame(ctx context.Context, gameID string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO games (id, is_active, phase) VALUES ($1, FALSE, $2)
		ON CONFLICT (id) DO NOTHING`, gameID, LobbyPhase)
	if err != nil {
		return fmt.Errorf("create game: %w", err)
	}
	return nil
}

// SetPhase persists a phase transition and the active flag.
func (s *RosterStore) SetPhase(ctx context.Context, gameID string, phase string, active bool) error {
	tag, err := s.pool.Exec(ctx, `UPDATE games SET phase = $2, is_active = $3 WHERE id = $1`, gameID, phase, active)
	if err != nil {
		return fmt.Errorf("set phase: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrGameNotFound
	}
	return nil
}

// DeleteGame removes the game; players go with it through ON DELETE CASCADE.
func (s *RosterStore) DeleteGame(ctx context.Context, gameID string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM games WHERE id = $1`, gameID); err != nil {
		return fmt.Errorf("delete game: %w", err)
	}
	return nil
}

// GetPlayers returns the roster in join order.
func (s *RosterStore) GetPlayers(ctx context.Context, gameID string) ([]Player, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+playerColumns+` FROM players WHERE game_id = $1 ORDER BY joined_at, id`, gameID)
	if err != nil {
		return nil, fmt.Errorf("get players: %w", err)
	}
	defer rows.Close()

	players := make([]Player, 0)
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan player: %w", err)
		}
		players = append(players, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get players: %w", err)
	}
	return players, nil
}

// GetPlayer returns the player or nil when the row does not exist.
func (s *RosterStore) GetPlayer(ctx context.Context, gameID, playerID string) (*Player, error) {
	p, err := scanPlayer(s.pool.QueryRow(ctx, `SELECT `+playerColumns+` FROM players WHERE game_id = $1 AND id = $2`, gameID, playerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get player: %w", err)
	}
	return p, nil
}

func (s *RosterStore) updatePlayer(ctx context.Context, op, sql string, args ...any) error {
	tag, err := s.pool.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrPlayerNotFound
	}
	return nil
}

// SetRole stores the assigned role.
func (s *RosterStore) SetRole(ctx context.Context, gameID, playerID, role string) error {
	return s.updatePlayer(ctx, "set role", `UPDATE players SET role = $3 WHERE game_id = $1 AND id = $2`, gameID, playerID, role)
}

// SetVote overwrites the player's vote for the current round; nil clears it.
func (s *RosterStore) SetVote(ctx context.Context, gameID, playerID string, targetID *string) error {
	return s.updatePlayer(ctx, "set vote", `UPDATE players SET voted_for = $3 WHERE game_id = $1 AND id = $2`, gameID, playerID, targetID)
}

// SetDead marks the player dead.
func (s *RosterStore) SetDead(ctx context.Context, gameID, playerID string) error {
	return s.updatePlayer(ctx, "set dead", `UPDATE players SET is_dead = TRUE WHERE game_id = $1 AND id = $2`, gameID, playerID)
}

// ResetVotes clears every vote of the game in one statement.
func (s *RosterStore) ResetVotes(ctx context.Context, gameID string) error {
	if _, err := s.pool.Exec(ctx, `UPDATE players SET voted_for = NULL WHERE game_id = $1`, gameID); err != nil {
		return fmt.Errorf("reset votes: %w", err)
	}
	return nil
}
