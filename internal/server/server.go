package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/scythe504/typing-hub-backend/internal/database"
	"github.com/scythe504/typing-hub-backend/internal/game"
	"golang.org/x/time/rate"
)

// Results is the read side of the match archive.
type Results interface {
	TopScores(ctx context.Context, limit int) ([]database.ScoreEntry, error)
	Health(ctx context.Context) map[string]string
}

type Server struct {
	port          int
	allowedOrigin string
	hub           *game.Hub
	results       Results
	wsConfig      game.WebSocketConfig
}

// NewServer wires the HTTP surface. results may be nil when no database is configured.
func NewServer(cfg Config, hub *game.Hub, results Results) *http.Server {
	s := &Server{
		port:          cfg.Port,
		allowedOrigin: cfg.AllowedOrigin,
		hub:           hub,
		results:       results,
		wsConfig: game.WebSocketConfig{
			AllowedOrigin: cfg.AllowedOrigin,
			RateLimit:     rate.Limit(cfg.ClientRateLimit),
			RateBurst:     cfg.ClientRateBurst,
		},
	}

	return &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}
