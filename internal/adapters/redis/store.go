// Package redis stores board records in a Redis server, so several hosts on
// different machines can share one board.
package redis

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"whiteboard/internal/ports"
)

// Store is a KeyValueStore backed by plain Redis strings. Keys are
// namespaced per board.
type Store struct {
	client *goredis.Client
	prefix string
}

var _ ports.KeyValueStore = (*Store)(nil)

// Open connects to the server at url (redis://host:port/db) and checks it
// answers.
func Open(ctx context.Context, url, board string) (*Store, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := goredis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return &Store{client: client, prefix: Namespace(board)}, nil
}

// Namespace returns the key prefix used for a board
func Namespace(board string) string {
	return "whiteboard:board:" + board + ":"
}

// Get returns the stored value, or nil when key is absent
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	return v, nil
}

// Put stores value without expiry
func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

// Delete removes key
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// Close closes the connection pool
func (s *Store) Close() error {
	return s.client.Close()
}
