package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/dgallion1/ligjet/internal/config"
	"github.com/dgallion1/ligjet/internal/library"
	"github.com/dgallion1/ligjet/internal/locale"
	"github.com/dgallion1/ligjet/internal/rank"
	"github.com/dgallion1/ligjet/internal/relay"
)

// Server is the HTTP API server for ligjet.
type Server struct {
	router chi.Router
	laws   *library.Store
	loader *library.Loader
	relay  *relay.Relay
	log    *slog.Logger
	cfg    config.Config

	labels  locale.Labels
	rankCfg rank.Config
}

// NewServer creates and configures the HTTP server. rl may be nil, in
// which case the generation endpoints answer 503.
func NewServer(laws *library.Store, loader *library.Loader, rl *relay.Relay, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		laws:    laws,
		loader:  loader,
		relay:   rl,
		log:     log,
		cfg:     cfg,
		labels:  cfg.Tuning.Labels(),
		rankCfg: cfg.Tuning.RankConfig(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)

	// Generation pass-through used by the mobile client.
	r.Post("/chat", s.handleChat)

	r.Get("/api/laws", s.handleListLaws)
	r.Get("/api/laws/{slug}", s.handleGetLaw)
	r.Post("/api/laws/{slug}/context", s.handleContext)
	r.Post("/api/laws/{slug}/ask", s.handleAsk)
	r.Get("/api/stats/llm", s.handleLLMStats)

	// Library mutations.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

		r.Post("/api/laws", s.handleUploadLaw)
		r.Delete("/api/laws/{slug}", s.handleDeleteLaw)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"laws":   s.laws.Len(),
	})
}
