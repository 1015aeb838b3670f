package database

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/scythe504/typing-hub-backend/internal"
)

var ErrUnexpected = errors.New("unexpected database error")

type Config struct {
	Host     string
	Port     string
	Database string
	Username string
	Password string
	Schema   string
}

// Enabled reports whether a database was configured at all.
func (c Config) Enabled() bool {
	return c.Host != ""
}

func (c Config) ConnString() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.Username, c.Password),
		Host:   net.JoinHostPort(c.Host, c.Port),
		Path:   c.Database,
	}
	q := u.Query()
	q.Set("sslmode", "disable")
	if c.Schema != "" {
		q.Set("search_path", c.Schema)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// Store is the match results archive.
type Store struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, connString string) (*Store, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	log.Info().Msg("[database] connected")
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	log.Info().Msg("[database] disconnected")
	s.pool.Close()
}

// RecordMatch stores one finished game and its leaderboard atomically.
func (s *Store) RecordMatch(ctx context.Context, results internal.FinalResults) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return wrap(err)
	}
	defer tx.Rollback(ctx)

	var matchID int64
	err = tx.QueryRow(ctx,
		`INSERT INTO matches (room_id, language, total_players, finished_at)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		results.RoomId, string(results.Language), results.TotalPlayers, results.FinishedAt,
	).Scan(&matchID)
	if err != nil {
		return wrap(err)
	}

	batch := &pgx.Batch{}
	for _, entry := range results.Leaderboard {
		batch.Queue(
			`INSERT INTO match_players (match_id, player_id, username, score, position)
			 VALUES ($1, $2, $3, $4, $5)`,
			matchID, entry.PlayerID, entry.Username, entry.Score, entry.Position,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return wrap(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return wrap(err)
	}
	return nil
}

type ScoreEntry struct {
	Username   string    `json:"username" db:"username"`
	Score      int       `json:"score" db:"score"`
	Language   string    `json:"language" db:"language"`
	FinishedAt time.Time `json:"finished_at" db:"finished_at"`
}

// TopScores returns the best individual scores across all archived matches.
func (s *Store) TopScores(ctx context.Context, limit int) ([]ScoreEntry, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT p.username, p.score, m.language, m.finished_at
		 FROM match_players p JOIN matches m ON m.id = p.match_id
		 ORDER BY p.score DESC, m.finished_at ASC
		 LIMIT $1`, limit)
	if err != nil {
		return nil, wrap(err)
	}
	entries, err := pgx.CollectRows(rows, pgx.RowToStructByName[ScoreEntry])
	if err != nil {
		return nil, wrap(err)
	}
	return entries, nil
}

// Health returns a small status map for the health endpoint.
func (s *Store) Health(ctx context.Context) map[string]string {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	stats := make(map[string]string)
	if err := s.pool.Ping(ctx); err != nil {
		stats["status"] = "down"
		stats["error"] = err.Error()
		return stats
	}

	poolStats := s.pool.Stat()
	stats["status"] = "up"
	stats["total_connections"] = strconv.Itoa(int(poolStats.TotalConns()))
	stats["idle_connections"] = strconv.Itoa(int(poolStats.IdleConns()))
	stats["acquired_connections"] = strconv.Itoa(int(poolStats.AcquiredConns()))
	return stats
}

func wrap(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrUnexpected, err)
}
