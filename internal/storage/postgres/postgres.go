package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/Asonyu-Ng/career-profile-pal/internal/storage"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	pool *pgxpool.Pool
}

func NewPool(dbURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dbURL)

	if err != nil {
		return nil, err
	}

	cfg.MaxConns = 5

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)

	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, cfg)

	if err != nil {
		return nil, err
	}

	err = pool.Ping(ctx)

	if err != nil {
		pool.Close()
		return nil, err
	}

	return pool, nil
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// EnsureSchema creates the blob table if it is missing. One row per key,
// whole collections stored as a single value.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx,
		`CREATE TABLE IF NOT EXISTS kv_blobs (
            key        text PRIMARY KEY,
            value      bytea NOT NULL,
            updated_at timestamptz NOT NULL
        )`,
	)

	return err
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var blob []byte

	err := s.pool.QueryRow(
		ctx,
		`SELECT value FROM kv_blobs WHERE key = $1`,
		key,
	).Scan(&blob)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrKeyNotFound
		}

		return nil, err
	}
	return blob, nil
}

func (s *Store) Set(ctx context.Context, key string, blob []byte) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO kv_blobs (key, value, updated_at)
         VALUES ($1, $2, $3)
         ON CONFLICT (key) DO UPDATE
         SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
		key, blob, time.Now().UTC(),
	)

	return err
}

func (s *Store) Remove(ctx context.Context, key string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM kv_blobs WHERE key = $1`, key)

	return err
}
