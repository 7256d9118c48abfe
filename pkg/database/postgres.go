package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// TxQuerier is implemented by both pgxpool.Pool and pgx.Tx, so repository
// methods that run inside checkout or cart transactions accept it instead
// of a concrete pool.
type TxQuerier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// NewPool connects to Postgres and verifies the connection with a ping.
// Failures are retried with exponential backoff (1s, 2s, 4s, ...) so the
// API can come up while the database container is still starting.
func NewPool(ctx context.Context, dsn string, maxRetries int) (*pgxpool.Pool, error) {
	attempts := maxRetries
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		var pool *pgxpool.Pool
		pool, err = pgxpool.New(ctx, dsn)
		if err == nil {
			if err = pool.Ping(ctx); err == nil {
				log.Info().Int("attempt", attempt).Msg("connected to postgres")
				return pool, nil
			}
			pool.Close()
			err = fmt.Errorf("ping: %w", err)
		}

		if attempt == attempts {
			break
		}
		backoff := time.Duration(1<<(attempt-1)) * time.Second
		log.Warn().
			Err(err).
			Int("attempt", attempt).
			Int("max_retries", attempts).
			Dur("retry_in", backoff).
			Msg("postgres connection failed, retrying")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}

	return nil, fmt.Errorf("connect to postgres after %d attempts: %w", attempts, err)
}
