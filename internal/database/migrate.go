package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
)

// gooseLogger routes goose output through zerolog.
type gooseLogger struct {
	log zerolog.Logger
}

func (l gooseLogger) Printf(format string, v ...interface{}) {
	l.log.Info().Msgf(format, v...)
}

func (l gooseLogger) Fatalf(format string, v ...interface{}) {
	// goose calls Fatalf only from its CLI helpers; never exit the server from here.
	l.log.Error().Msgf(format, v...)
}

// SetLogger makes goose log through the given logger.
func SetLogger(log zerolog.Logger) {
	goose.SetLogger(gooseLogger{log: log.With().Str("component", "migrate").Logger()})
}

// Migrate applies every pending migration in migrationsDir.
func Migrate(ctx context.Context, pool *pgxpool.Pool, migrationsDir string) error {
	// goose needs a *sql.DB, so open one from the pool's connection config.
	db := stdlib.OpenDB(*pool.Config().ConnConfig)
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, migrationsDir); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}
