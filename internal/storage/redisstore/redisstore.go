package redisstore

import (
	"context"
	"errors"
	"time"

	"github.com/Asonyu-Ng/career-profile-pal/internal/storage"
	"github.com/redis/go-redis/v9"
)

type Store struct {
	redisdb *redis.Client
}

type Config struct {
	Addr     string
	Password string
	DB       int
}

func New(cfg Config) *Store {
	redisdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	return &Store{redisdb: redisdb}
}

// Ping checks redis connectivity before the store is handed to components.
func (s *Store) Ping(ctx context.Context) error {
	return s.redisdb.Ping(ctx).Err()
}

func (s *Store) Close() error {
	return s.redisdb.Close()
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	blob, err := s.redisdb.Get(ctx, key).Bytes()

	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, storage.ErrKeyNotFound
		}

		return nil, err
	}

	return blob, nil
}

func (s *Store) Set(ctx context.Context, key string, blob []byte) error {
	// no TTL: blobs live until removed, same as the other backends
	return s.redisdb.Set(ctx, key, blob, 0).Err()
}

func (s *Store) Remove(ctx context.Context, key string) error {
	return s.redisdb.Del(ctx, key).Err()
}
