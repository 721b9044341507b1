package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/vntrieu/werewolf/internal/games"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Game     games.Config
	Auth     AuthConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Addr               string
	CORSAllowedOrigins []string
	// RateLimitPerMinute caps lobby create/join per IP and websocket submissions per player. 0 disables it.
	RateLimitPerMinute int
}

// DatabaseConfig holds the PostgreSQL settings. An empty URL selects the in-memory roster.
type DatabaseConfig struct {
	URL           string
	MigrationsDir string
}

// AuthConfig holds the player token settings.
type AuthConfig struct {
	TokenSecret []byte
	TokenTTL    time.Duration
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string
	Format string // "json" or "text"
}

const devTokenSecret = "dev-secret-change-in-production"

// Load reads the configuration from environment variables with defaults.
func Load() *Config {
	game := games.DefaultConfig()
	return &Config{
		Server: ServerConfig{
			Addr:               getEnv("WEREWOLF_HTTP_ADDR", ":8080"),
			CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
			RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 20),
		},
		Database: DatabaseConfig{
			URL:           getEnv("DATABASE_URL", ""),
			MigrationsDir: getEnv("MIGRATIONS_DIR", "migrations"),
		},
		Game: games.Config{
			VoteWindow:         getEnvDuration("VOTE_WINDOW", game.VoteWindow),
			RoleRevealWindow:   getEnvDuration("ROLE_REVEAL_WINDOW", game.RoleRevealWindow),
			DiscussionInterval: getEnvDuration("DISCUSSION_INTERVAL", game.DiscussionInterval),
			NarrationPause:     getEnvDuration("NARRATION_PAUSE", game.NarrationPause),
			LoopUntilWin:       getEnvBool("LOOP_UNTIL_WIN", game.LoopUntilWin),
			MaxRounds:          getEnvInt("MAX_ROUNDS", game.MaxRounds),
		},
		Auth: AuthConfig{
			TokenSecret: []byte(getEnv("WEBSOCKET_TOKEN_SECRET", devTokenSecret)),
			TokenTTL:    getEnvDuration("TOKEN_TTL", 24*time.Hour),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
	}
}

// UsesMemoryStore reports whether no database is configured.
func (c *Config) UsesMemoryStore() bool {
	return c.Database.URL == ""
}

// HasDevSecret reports whether the built-in token secret is in use.
func (c *Config) HasDevSecret() bool {
	return string(c.Auth.TokenSecret) == devTokenSecret
}

// getEnv returns an environment variable or a default value.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns an environment variable as an integer or a default value.
func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// getEnvDuration accepts Go durations ("30s", "10m").
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(value) == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
