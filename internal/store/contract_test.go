package store

import (
	"context"
	"errors"
	"testing"
)

// roster is the method set shared by RosterStore and MemoryStore.
type roster interface {
	CreateLobby(ctx context.Context, req CreateLobbyRequest) (*LobbyResponse, error)
	JoinGame(ctx context.Context, gameID string, req JoinGameRequest) (*LobbyResponse, error)
	GetGame(ctx context.Context, gameID string) (*Game, error)
	CreateGame(ctx context.Context, gameID string) error
	SetPhase(ctx context.Context, gameID string, phase string, active bool) error
	DeleteGame(ctx context.Context, gameID string) error
	GetPlayers(ctx context.Context, gameID string) ([]Player, error)
	GetPlayer(ctx context.Context, gameID, playerID string) (*Player, error)
	SetRole(ctx context.Context, gameID, playerID, role string) error
	SetVote(ctx context.Context, gameID, playerID string, targetID *string) error
	SetDead(ctx context.Context, gameID, playerID string) error
	ResetVotes(ctx context.Context, gameID string) error
}

var (
	_ roster = (*RosterStore)(nil)
	_ roster = (*MemoryStore)(nil)
)

func strPtr(s string) *string { return &s }

func runRosterContract(t *testing.T, s roster) {
	ctx := context.Background()

	t.Run("create lobby seats host", func(t *testing.T) {
		resp, err := s.CreateLobby(ctx, CreateLobbyRequest{DisplayName: "Host"})
		if err != nil {
			t.Fatalf("CreateLobby failed: %v", err)
		}
		if resp.Game.ID == "" {
			t.Fatal("expected game ID to be set")
		}
		if resp.Game.IsActive {
			t.Error("expected lobby to be inactive")
		}
		if resp.Game.Phase != LobbyPhase {
			t.Errorf("expected phase %q, got %q", LobbyPhase, resp.Game.Phase)
		}
		if resp.Game.HostID != resp.Player.ID {
			t.Errorf("expected host %q, got %q", resp.Player.ID, resp.Game.HostID)
		}
		if resp.Game.PasscodeHash != nil {
			t.Error("expected no passcode hash")
		}
		if resp.Player.Role != "" {
			t.Errorf("expected empty role, got %q", resp.Player.Role)
		}
	})

	t.Run("join respects passcode", func(t *testing.T) {
		resp, err := s.CreateLobby(ctx, CreateLobbyRequest{DisplayName: "Host", Passcode: "moon"})
		if err != nil {
			t.Fatalf("CreateLobby failed: %v", err)
		}
		gameID := resp.Game.ID

		if _, err := s.JoinGame(ctx, gameID, JoinGameRequest{DisplayName: "Bad", Passcode: "sun"}); !errors.Is(err, ErrWrongPasscode) {
			t.Errorf("expected ErrWrongPasscode, got %v", err)
		}
		joined, err := s.JoinGame(ctx, gameID, JoinGameRequest{DisplayName: "Good", Passcode: "moon"})
		if err != nil {
			t.Fatalf("JoinGame failed: %v", err)
		}
		if joined.Player.GameID != gameID {
			t.Errorf("expected game id %q, got %q", gameID, joined.Player.GameID)
		}

		players, err := s.GetPlayers(ctx, gameID)
		if err != nil {
			t.Fatalf("GetPlayers failed: %v", err)
		}
		if len(players) != 2 {
			t.Fatalf("expected 2 players, got %d", len(players))
		}
		if players[0].ID != resp.Player.ID {
			t.Error("expected host first in join order")
		}
	})

	t.Run("join unknown or started game", func(t *testing.T) {
		if _, err := s.JoinGame(ctx, "00000000-0000-0000-0000-000000000000", JoinGameRequest{DisplayName: "X"}); !errors.Is(err, ErrGameNotFound) {
			t.Errorf("expected ErrGameNotFound, got %v", err)
		}

		resp, err := s.CreateLobby(ctx, CreateLobbyRequest{DisplayName: "Host"})
		if err != nil {
			t.Fatalf("CreateLobby failed: %v", err)
		}
		if err := s.SetPhase(ctx, resp.Game.ID, "night", true); err != nil {
			t.Fatalf("SetPhase failed: %v", err)
		}
		if _, err := s.JoinGame(ctx, resp.Game.ID, JoinGameRequest{DisplayName: "Late"}); !errors.Is(err, ErrGameStarted) {
			t.Errorf("expected ErrGameStarted, got %v", err)
		}
	})

	t.Run("create game is idempotent", func(t *testing.T) {
		resp, err := s.CreateLobby(ctx, CreateLobbyRequest{DisplayName: "Host"})
		if err != nil {
			t.Fatalf("CreateLobby failed: %v", err)
		}
		if err := s.CreateGame(ctx, resp.Game.ID); err != nil {
			t.Fatalf("CreateGame failed: %v", err)
		}
		game, err := s.GetGame(ctx, resp.Game.ID)
		if err != nil {
			t.Fatalf("GetGame failed: %v", err)
		}
		if game.HostID != resp.Player.ID {
			t.Error("expected CreateGame to leave the existing row untouched")
		}
	})

	t.Run("votes roles and deaths", func(t *testing.T) {
		resp, err := s.CreateLobby(ctx, CreateLobbyRequest{DisplayName: "A"})
		if err != nil {
			t.Fatalf("CreateLobby failed: %v", err)
		}
		gameID := resp.Game.ID
		a := resp.Player.ID
		joined, err := s.JoinGame(ctx, gameID, JoinGameRequest{DisplayName: "B"})
		if err != nil {
			t.Fatalf("JoinGame failed: %v", err)
		}
		b := joined.Player.ID

		if err := s.SetRole(ctx, gameID, a, "werewolf"); err != nil {
			t.Fatalf("SetRole failed: %v", err)
		}
		if err := s.SetVote(ctx, gameID, a, strPtr(b)); err != nil {
			t.Fatalf("SetVote failed: %v", err)
		}
		if err := s.SetVote(ctx, gameID, b, strPtr(a)); err != nil {
			t.Fatalf("SetVote failed: %v", err)
		}
		if err := s.SetDead(ctx, gameID, b); err != nil {
			t.Fatalf("SetDead failed: %v", err)
		}

		p, err := s.GetPlayer(ctx, gameID, a)
		if err != nil {
			t.Fatalf("GetPlayer failed: %v", err)
		}
		if p.Role != "werewolf" {
			t.Errorf("expected role werewolf, got %q", p.Role)
		}
		if p.VotedFor == nil || *p.VotedFor != b {
			t.Errorf("expected vote for %q, got %v", b, p.VotedFor)
		}

		for i := 0; i < 2; i++ {
			if err := s.ResetVotes(ctx, gameID); err != nil {
				t.Fatalf("ResetVotes #%d failed: %v", i+1, err)
			}
			players, err := s.GetPlayers(ctx, gameID)
			if err != nil {
				t.Fatalf("GetPlayers failed: %v", err)
			}
			for _, pl := range players {
				if pl.VotedFor != nil {
					t.Errorf("reset #%d: expected no vote for %s, got %q", i+1, pl.Name, *pl.VotedFor)
				}
			}
		}

		dead, err := s.GetPlayer(ctx, gameID, b)
		if err != nil {
			t.Fatalf("GetPlayer failed: %v", err)
		}
		if !dead.IsDead {
			t.Error("expected player to be dead")
		}
	})

	t.Run("missing player", func(t *testing.T) {
		resp, err := s.CreateLobby(ctx, CreateLobbyRequest{DisplayName: "A"})
		if err != nil {
			t.Fatalf("CreateLobby failed: %v", err)
		}
		p, err := s.GetPlayer(ctx, resp.Game.ID, "00000000-0000-0000-0000-000000000000")
		if err != nil {
			t.Fatalf("GetPlayer failed: %v", err)
		}
		if p != nil {
			t.Errorf("expected nil player, got %+v", p)
		}
		if err := s.SetDead(ctx, resp.Game.ID, "00000000-0000-0000-0000-000000000000"); !errors.Is(err, ErrPlayerNotFound) {
			t.Errorf("expected ErrPlayerNotFound, got %v", err)
		}
	})

	t.Run("delete cascades players", func(t *testing.T) {
		resp, err := s.CreateLobby(ctx, CreateLobbyRequest{DisplayName: "A"})
		if err != nil {
			t.Fatalf("CreateLobby failed: %v", err)
		}
		if err := s.DeleteGame(ctx, resp.Game.ID); err != nil {
			t.Fatalf("DeleteGame failed: %v", err)
		}
		if _, err := s.GetGame(ctx, resp.Game.ID); !errors.Is(err, ErrGameNotFound) {
			t.Errorf("expected ErrGameNotFound, got %v", err)
		}
		players, err := s.GetPlayers(ctx, resp.Game.ID)
		if err != nil {
			t.Fatalf("GetPlayers failed: %v", err)
		}
		if len(players) != 0 {
			t.Errorf("expected no players after delete, got %d", len(players))
		}
		if err := s.SetPhase(ctx, resp.Game.ID, "end", false); !errors.Is(err, ErrGameNotFound) {
			t.Errorf("expected ErrGameNotFound, got %v", err)
		}
	})
}

func TestMemoryStore(t *testing.T) {
	runRosterContract(t, NewMemoryStore())
}

func TestMemoryStoreGameFull(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	resp, err := s.CreateLobby(ctx, CreateLobbyRequest{DisplayName: "Host"})
	if err != nil {
		t.Fatalf("CreateLobby failed: %v", err)
	}
	for i := 1; i < MaxPlayers; i++ {
		if _, err := s.JoinGame(ctx, resp.Game.ID, JoinGameRequest{DisplayName: "P"}); err != nil {
			t.Fatalf("JoinGame #%d failed: %v", i, err)
		}
	}
	if _, err := s.JoinGame(ctx, resp.Game.ID, JoinGameRequest{DisplayName: "Extra"}); !errors.Is(err, ErrGameFull) {
		t.Errorf("expected ErrGameFull, got %v", err)
	}
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	resp, err := s.CreateLobby(ctx, CreateLobbyRequest{DisplayName: "Host"})
	if err != nil {
		t.Fatalf("CreateLobby failed: %v", err)
	}
	if err := s.SetVote(ctx, resp.Game.ID, resp.Player.ID, strPtr(resp.Player.ID)); err != nil {
		t.Fatalf("SetVote failed: %v", err)
	}
	players, _ := s.GetPlayers(ctx, resp.Game.ID)
	*players[0].VotedFor = "tampered"
	players[0].IsDead = true

	p, _ := s.GetPlayer(ctx, resp.Game.ID, resp.Player.ID)
	if *p.VotedFor != resp.Player.ID || p.IsDead {
		t.Error("expected stored player to be unaffected by caller mutation")
	}
}

func TestRosterStore(t *testing.T) {
	pool := SetupTestDB(t)
	defer pool.Close()
	runRosterContract(t, NewRosterStore(pool))
}
