package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore persists the cache collection as a single Redis hash, one
// field per video ID, each field a JSON-encoded Entry.
type RedisStore struct {
	client *redis.Client
	key    string
}

func NewRedisStore(url, prefix string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	key := "summaries"
	if prefix != "" {
		key = prefix + ":summaries"
	}

	return &RedisStore{client: client, key: key}, nil
}

func (s *RedisStore) Read(ctx context.Context) (map[string]Entry, error) {
	fields, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, err
	}

	entries := make(map[string]Entry, len(fields))
	for id, raw := range fields {
		var entry Entry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			// A corrupt field is dropped on the next write sweep.
			continue
		}
		entries[id] = entry
	}
	return entries, nil
}

func (s *RedisStore) Write(ctx context.Context, entries map[string]Entry) error {
	fields := make(map[string]string, len(entries))
	for id, entry := range entries {
		data, err := json.Marshal(entry)
		if err != nil {
			return fmt.Errorf("failed to marshal entry %s: %w", id, err)
		}
		fields[id] = string(data)
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.key)
	if len(fields) > 0 {
		pipe.HSet(ctx, s.key, fields)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
