package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
	"github.com/scythe504/typing-hub-backend/internal"
	"github.com/scythe504/typing-hub-backend/internal/game"
)

const (
	defaultLeaderboardLimit = 10
	maxLeaderboardLimit     = 100
	queryTimeout            = 2 * time.Second
)

func (s *Server) RegisterRoutes() http.Handler {
	r := mux.NewRouter()

	// Apply CORS middleware
	r.Use(s.corsMiddleware)

	r.HandleFunc("/", s.HelloWorldHandler).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/health", s.HealthHandler).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/rooms", s.ListRoomsHandler).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/rooms-available", s.GetRoomToJoin).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/leaderboard", s.LeaderboardHandler).Methods(http.MethodGet, http.MethodOptions)

	r.HandleFunc("/ws", game.HandleWebSocket(s.hub, s.wsConfig))

	return r
}

// CORS middleware
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", s.allowedOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Authorization, Content-Type")
		w.Header().Set("Access-Control-Allow-Credentials", "false")

		// If it's a websocket upgrade, skip further CORS checks
		if strings.ToLower(r.Header.Get("Upgrade")) == "websocket" {
			next.ServeHTTP(w, r)
			return
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// writeResponse wraps data in the timed Response envelope.
func writeResponse(w http.ResponseWriter, startTime int64, statusCode int, data any) {
	endTime := time.Now().UnixMilli()
	resp := internal.Response{
		StatusCode:    statusCode,
		RespStartTime: startTime,
		RespEndTime:   endTime,
		NetRespTime:   endTime - startTime,
		Data:          data,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.StatusCode)

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Error().Err(err).Msg("[writeResponse] error encoding response")
	}
}

func (s *Server) HelloWorldHandler(w http.ResponseWriter, r *http.Request) {
	writeResponse(w, time.Now().UnixMilli(), http.StatusOK, map[string]string{
		"message": "Balloon typing game server",
	})
}

func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now().UnixMilli()
	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	health := map[string]any{}
	status := http.StatusOK

	stats, err := s.hub.Stats(ctx)
	if err != nil {
		health["hub"] = map[string]string{"status": "down", "error": err.Error()}
		status = http.StatusServiceUnavailable
	} else {
		health["hub"] = stats
	}

	if s.results != nil {
		dbHealth := s.results.Health(ctx)
		if dbHealth["status"] != "up" {
			status = http.StatusServiceUnavailable
		}
		health["database"] = dbHealth
	} else {
		health["database"] = map[string]string{"status": "disabled"}
	}

	writeResponse(w, startTime, status, health)
}

func (s *Server) ListRoomsHandler(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now().UnixMilli()
	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	listing, err := s.hub.Listing(ctx)
	if err != nil {
		writeResponse(w, startTime, http.StatusServiceUnavailable, err.Error())
		return
	}
	writeResponse(w, startTime, http.StatusOK, listing)
}

func (s *Server) GetRoomToJoin(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now().UnixMilli()
	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	roomId, err := s.hub.JoinableRoom(ctx)
	switch {
	case err != nil:
		writeResponse(w, startTime, http.StatusServiceUnavailable, err.Error())
	case roomId == "":
		writeResponse(w, startTime, http.StatusNotFound, "No joinable rooms available")
	default:
		writeResponse(w, startTime, http.StatusOK, roomId)
	}
}

func (s *Server) LeaderboardHandler(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now().UnixMilli()
	if s.results == nil {
		writeResponse(w, startTime, http.StatusServiceUnavailable, "Match archive is disabled")
		return
	}

	limit := defaultLeaderboardLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeResponse(w, startTime, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxLeaderboardLimit)
	}

	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	entries, err := s.results.TopScores(ctx, limit)
	if err != nil {
		log.Error().Err(err).Msg("[LeaderboardHandler] failed to load top scores")
		writeResponse(w, startTime, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeResponse(w, startTime, http.StatusOK, entries)
}
