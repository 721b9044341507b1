package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/vntrieu/werewolf/internal/config"
	"github.com/vntrieu/werewolf/internal/database"
	"github.com/vntrieu/werewolf/internal/games"
	"github.com/vntrieu/werewolf/internal/httpapi"
	"github.com/vntrieu/werewolf/internal/httpapi/handler"
	"github.com/vntrieu/werewolf/internal/logging"
	"github.com/vntrieu/werewolf/internal/ratelimit"
	"github.com/vntrieu/werewolf/internal/session"
	"github.com/vntrieu/werewolf/internal/store"
	"github.com/vntrieu/werewolf/internal/websocket"
)

// roster is what every layer needs from the store; both store implementations satisfy it.
type roster interface {
	games.RosterStore
	handler.Lobbies
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	log := logging.New(cfg.Logging.Level, cfg.Logging.Format)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		rosterStore roster
		pinger      handler.Pinger
	)
	if cfg.UsesMemoryStore() {
		log.Warn().Msg("DATABASE_URL not set, using the in-memory roster")
		rosterStore = store.NewMemoryStore()
	} else {
		pool, err := database.Connect(ctx, cfg.Database.URL, database.DefaultPoolOptions())
		if err != nil {
			log.Fatal().Err(err).Msg("database connect")
		}
		defer pool.Close()
		log.Info().Msg("connected to database")

		database.SetLogger(log)
		if err := database.Migrate(ctx, pool, cfg.Database.MigrationsDir); err != nil {
			log.Fatal().Err(err).Msg("database migrate")
		}
		log.Info().Msg("migrations up to date")
		rosterStore = store.NewRosterStore(pool)
		pinger = pool
	}
	if cfg.HasDevSecret() {
		log.Warn().Msg("WEBSOCKET_TOKEN_SECRET not set, using the development secret")
	}

	hub := websocket.NewHub(logging.Component(log, "hub"))
	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	go hub.Run(hubCtx)

	windows := websocket.NewWindows(hub, logging.Component(log, "windows"))
	notifier := websocket.NewNotifier(hub)
	engine := games.NewEngine(rosterStore, windows, notifier, cfg.Game,
		games.WithLogger(logging.Component(log, "engine")),
		games.WithOnEnd(notifier.GameEnded),
	)
	manager := session.NewManager(engine, rosterStore, logging.Component(log, "session"))

	httpLimiter := ratelimit.PerMinute(cfg.Server.RateLimitPerMinute)
	// Websocket messages get three times the per-IP lobby budget, per player.
	wsLimiter := ratelimit.PerMinute(cfg.Server.RateLimitPerMinute * 3)
	hub.SetHandler(websocket.NewEventHandler(hub, windows, manager, wsLimiter, logging.Component(log, "ws")))
	go sweep(ctx, time.Minute, httpLimiter, wsLimiter)

	router := httpapi.NewRouter(httpapi.Options{
		Lobbies:        rosterStore,
		Sessions:       manager,
		WebSocket:      websocket.NewWSHandler(hub, rosterStore, cfg.Auth.TokenSecret, logging.Component(log, "ws")),
		Health:         handler.NewHealthHandler(pinger, manager.Running, logging.Component(log, "health")),
		TokenSecret:    cfg.Auth.TokenSecret,
		TokenTTL:       cfg.Auth.TokenTTL,
		RateLimiter:    httpLimiter,
		AllowedOrigins: cfg.Server.CORSAllowedOrigins,
		Log:            logging.Component(log, "http"),
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("werewolf server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	if err := manager.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Int("games", manager.Running()).Msg("games did not finish tearing down")
	}
}

// sweep periodically drops idle rate limiter keys.
func sweep(ctx context.Context, every time.Duration, limiters ...ratelimit.Limiter) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, l := range limiters {
				if s, ok := l.(interface{ Sweep() int }); ok {
					s.Sweep()
				}
			}
		}
	}
}
