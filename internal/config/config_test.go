package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"WEREWOLF_HTTP_ADDR", "DATABASE_URL", "VOTE_WINDOW", "LOOP_UNTIL_WIN", "MAX_ROUNDS", "WEBSOCKET_TOKEN_SECRET", "CORS_ALLOWED_ORIGINS"} {
		t.Setenv(key, "")
	}
	cfg := Load()
	if cfg.Server.Addr != ":8080" {
		t.Errorf("addr: got %q", cfg.Server.Addr)
	}
	if !cfg.UsesMemoryStore() {
		t.Error("expected memory store without DATABASE_URL")
	}
	if cfg.Game.VoteWindow != 30*time.Second || cfg.Game.RoleRevealWindow != 10*time.Minute {
		t.Errorf("unexpected game timings %+v", cfg.Game)
	}
	if !cfg.Game.LoopUntilWin || cfg.Game.MaxRounds != 10 {
		t.Errorf("unexpected round policy %+v", cfg.Game)
	}
	if !cfg.HasDevSecret() {
		t.Error("expected dev secret")
	}
	if len(cfg.Server.CORSAllowedOrigins) != 1 || cfg.Server.CORSAllowedOrigins[0] != "*" {
		t.Errorf("cors: got %v", cfg.Server.CORSAllowedOrigins)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/werewolf")
	t.Setenv("VOTE_WINDOW", "45s")
	t.Setenv("LOOP_UNTIL_WIN", "false")
	t.Setenv("MAX_ROUNDS", "3")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("NARRATION_PAUSE", "not-a-duration")

	cfg := Load()
	if cfg.UsesMemoryStore() {
		t.Error("expected postgres store")
	}
	if cfg.Game.VoteWindow != 45*time.Second {
		t.Errorf("vote window: got %v", cfg.Game.VoteWindow)
	}
	if cfg.Game.LoopUntilWin || cfg.Game.MaxRounds != 3 {
		t.Errorf("round policy: got %+v", cfg.Game)
	}
	if cfg.Game.NarrationPause != time.Second {
		t.Errorf("invalid duration should fall back to default, got %v", cfg.Game.NarrationPause)
	}
	if got := cfg.Server.CORSAllowedOrigins; len(got) != 2 || got[1] != "http://b.test" {
		t.Errorf("cors: got %v", got)
	}
}
