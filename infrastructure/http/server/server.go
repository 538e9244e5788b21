// Package server exposes the REST API and mounts the websocket endpoint.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"pawmatch/auth"
	"pawmatch/services"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

type Config struct {
	AllowedOrigins []string
	LimitMessages  int
	LimitPets      int
}

type Server struct {
	log     *slog.Logger
	cfg     Config
	tokens  *auth.TokenService
	auth    services.IAuthService
	pets    services.IPetService
	matches services.IMatchService
	chat    services.IChatService
	ws      http.Handler
	health  func(ctx context.Context) error
}

func NewServer(log *slog.Logger, cfg Config, tokens *auth.TokenService,
	authService services.IAuthService, pets services.IPetService, matches services.IMatchService,
	chat services.IChatService, ws http.Handler, health func(ctx context.Context) error) *Server {
	return &Server{
		log:     log,
		cfg:     cfg,
		tokens:  tokens,
		auth:    authService,
		pets:    pets,
		matches: matches,
		chat:    chat,
		ws:      ws,
		health:  health,
	}
}

// Handler builds the routing tree wrapped in CORS.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	authenticated := auth.Middleware(s.tokens, writeError)

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.Handle("/ws", authenticated(s.ws)).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/auth/register", s.handleRegister).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)

	private := api.NewRoute().Subrouter()
	private.Use(authenticated)
	private.HandleFunc("/pets", s.handleCreatePet).Methods(http.MethodPost)
	private.HandleFunc("/pets", s.handleListPets).Methods(http.MethodGet)
	private.HandleFunc("/pets/{petId}", s.handleGetPet).Methods(http.MethodGet)
	private.HandleFunc("/pets/{petId}/candidates", s.handleCandidates).Methods(http.MethodGet)
	private.HandleFunc("/swipes", s.handleSwipe).Methods(http.MethodPost)
	private.HandleFunc("/matches", s.handleListMatches).Methods(http.MethodGet)
	private.HandleFunc("/matches/{matchId}/messages", s.handleSendMessage).Methods(http.MethodPost)
	private.HandleFunc("/matches/{matchId}/messages", s.handleGetMessages).Methods(http.MethodGet)

	return cors.New(cors.Options{
		AllowedOrigins:   s.cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.health(r.Context()); err != nil {
		s.log.Warn("Health check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}
