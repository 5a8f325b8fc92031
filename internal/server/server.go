package server

import (
	"context"
	"net/http"
	"time"

	"github.com/lifecheck/survey/internal/auth"
	"github.com/lifecheck/survey/internal/config"
	"github.com/lifecheck/survey/internal/http/handlers"
	"github.com/lifecheck/survey/internal/middleware"
	"github.com/lifecheck/survey/internal/storage"
)

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// New wires up middleware, routes, and returns a ready server.
func New(cfg config.Config, users storage.UserStore, surveys storage.SurveyStore) *Server {
	mux := http.NewServeMux()

	health := handlers.NewHealthHandler(time.Now())
	health.Register(mux)

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer)
	protect := func(next http.Handler) http.Handler {
		return middleware.RequireAuth(tokens, next)
	}

	authHandler := handlers.NewAuthHandler(users, surveys, tokens, &cfg)
	authHandler.Register(mux)
	authHandler.RegisterProtected(mux, protect)

	surveyHandler := handlers.NewSurveyHandler(surveys)
	surveyHandler.RegisterProtected(mux, protect)

	handler := middleware.CORS(cfg.CORSOrigins, middleware.Logging(mux))

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &Server{inner: httpServer}
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
