package kvstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// postgresStore implements Store over a single key/value table with a jsonb
// value column. Each Set is one upsert, which gives the per-key atomicity
// the aggregate read-modify-write discipline relies on.
type postgresStore struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// PostgresConfig holds connection pool settings for the Postgres backend.
type PostgresConfig struct {
	ConnString      string
	MaxConnections  int
	MinConnections  int
	MaxConnLifetime time.Duration
}

// NewPostgresStore creates a connection pool, verifies connectivity and
// ensures the kv_store table exists.
func NewPostgresStore(ctx context.Context, cfg PostgresConfig, logger zerolog.Logger) (Store, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.ConnString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	if cfg.MaxConnections > 0 {
		poolConfig.MaxConns = int32(cfg.MaxConnections)
	}
	if cfg.MinConnections > 0 {
		poolConfig.MinConns = int32(cfg.MinConnections)
	}
	if cfg.MaxConnLifetime > 0 {
		poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	}
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = 1 * time.Minute

	logger = logger.With().Str("component", "kvstore-postgres").Logger()

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	ddl := `
		CREATE TABLE IF NOT EXISTS kv_store (
			key   TEXT PRIMARY KEY,
			value JSONB NOT NULL
		)
	`
	if _, err := pool.Exec(ctx, ddl); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ensure kv_store table: %w", err)
	}

	logger.Info().
		Int("max_connections", int(poolConfig.MaxConns)).
		Msg("postgres key-value store ready")

	return &postgresStore{
		pool:   pool,
		logger: logger,
	}, nil
}

func (s *postgresStore) Get(ctx context.Context, key string, dest any) (bool, error) {
	var raw json.RawMessage
	err := s.pool.QueryRow(ctx, `SELECT value FROM kv_store WHERE key = $1`, key).Scan(&raw)
	if err != nil {
		if err == pgx.ErrNoRows {
			return false, nil
		}
		s.logger.Error().Err(err).Str("key", key).Msg("failed to query value")
		return false, fmt.Errorf("failed to get %s: %w", key, err)
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal value at %s: %w", key, err)
	}
	return true, nil
}

func (s *postgresStore) Set(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value for %s: %w", key, err)
	}

	query := `
		INSERT INTO kv_store (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
	`
	if _, err := s.pool.Exec(ctx, query, key, raw); err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("failed to set value")
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

func (s *postgresStore) MGet(ctx context.Context, keys []string) ([]json.RawMessage, error) {
	values := make([]json.RawMessage, len(keys))
	if len(keys) == 0 {
		return values, nil
	}

	rows, err := s.pool.Query(ctx, `SELECT key, value FROM kv_store WHERE key = ANY($1)`, keys)
	if err != nil {
		s.logger.Error().Err(err).Int("count", len(keys)).Msg("failed to query values")
		return nil, fmt.Errorf("failed to mget: %w", err)
	}
	defer rows.Close()

	found := make(map[string]json.RawMessage, len(keys))
	for rows.Next() {
		var key string
		var raw json.RawMessage
		if err := rows.Scan(&key, &raw); err != nil {
			return nil, fmt.Errorf("failed to scan value row: %w", err)
		}
		found[key] = raw
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating value rows: %w", err)
	}

	// Preserve request order; absent keys stay nil.
	for i, key := range keys {
		if raw, ok := found[key]; ok {
			values[i] = raw
		}
	}
	return values, nil
}

func (s *postgresStore) Delete(ctx context.Context, key string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM kv_store WHERE key = $1`, key); err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("failed to delete value")
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

func (s *postgresStore) Close() error {
	s.pool.Close()
	return nil
}
