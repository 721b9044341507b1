package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
	"github.com/swaggo/http-swagger"

	"github.com/vntrieu/werewolf/internal/httpapi/handler"
	"github.com/vntrieu/werewolf/internal/ratelimit"
	"github.com/vntrieu/werewolf/internal/websocket"

	_ "github.com/vntrieu/werewolf/docs" // swag-generated docs
)

// Options wires the router to the roster, the session manager and the websocket layer.
type Options struct {
	Lobbies   handler.Lobbies
	Sessions  handler.Sessions
	WebSocket *websocket.WSHandler
	Health    *handler.HealthHandler

	TokenSecret []byte
	TokenTTL    time.Duration

	// RateLimiter is optional: if nil, no rate limiting is applied; otherwise lobby create and join are limited by IP.
	RateLimiter    ratelimit.Limiter
	AllowedOrigins []string

	Log zerolog.Logger
}

// NewRouter builds the root HTTP router with middleware, lobby routes, the game websocket and docs.
//
// @title            Werewolf API
// @version          1.0
// @description      Lobbies and real-time sessions for Werewolf games.
// @BasePath         /
// @SecurityDefinitions.apikey  BearerAuth
// @in               header
// @name             Authorization
func NewRouter(opts Options) http.Handler {
	rateLimiter := opts.RateLimiter
	if rateLimiter == nil {
		rateLimiter = ratelimit.Noop{}
	}
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	health := opts.Health
	if health == nil {
		health = handler.NewHealthHandler(nil, nil, opts.Log)
	}
	r.Get("/healthz", health.Healthz)

	// Swagger UI and the swag-generated OpenAPI document
	r.Get("/docs", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/docs/", http.StatusMovedPermanently)
	})
	r.Get("/docs/*", httpSwagger.Handler(httpSwagger.URL("/docs/doc.json")))

	if opts.WebSocket != nil {
		r.Get("/ws/games/{game_id}", opts.WebSocket.HandleGameWebSocket)
	}

	rateLimitByIP := RateLimitMiddleware(rateLimiter, RateLimitKeyByIP)
	gameHandler := handler.NewGameHandler(opts.Lobbies, opts.Sessions, opts.TokenSecret, opts.TokenTTL, opts.Log)
	r.Route("/api/games", func(r chi.Router) {
		r.Use(LimitRequestBody(DefaultMaxBodyBytes))
		r.With(rateLimitByIP).Post("/", gameHandler.CreateGame)
		r.Get("/{game_id}", gameHandler.GetGame)
		r.With(rateLimitByIP).Post("/{game_id}/join", gameHandler.JoinGame)
		r.With(RequirePlayer(opts.TokenSecret)).Post("/{game_id}/start", gameHandler.StartGame)
	})

	return r
}
