package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nekruzvatanshoev/addrsuggest/pkg/addrsuggest/dal"
	"github.com/nekruzvatanshoev/addrsuggest/pkg/addrsuggest/logger"
	"github.com/redis/go-redis/v9"
)

// Redis keeps lookups in a shared Redis so every replica reuses them.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	log    *logger.Logger
}

// Dial connects to redisURL and checks the connection.
func Dial(ctx context.Context, redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// NewRedis returns a cache storing entries for ttl.
func NewRedis(client *redis.Client, ttl time.Duration, log *logger.Logger) *Redis {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Redis{client: client, ttl: ttl, log: log}
}

func (r *Redis) Get(ctx context.Context, query string) ([]dal.Record, bool) {
	b, err := r.client.Get(ctx, Key(query)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		r.log.WithContext(ctx).Warn("cache get failed", "error", err)
		return nil, false
	}

	var records []dal.Record
	if err := json.Unmarshal(b, &records); err != nil {
		r.log.WithContext(ctx).Warn("cache entry corrupt", "error", err)
		return nil, false
	}
	return records, true
}

func (r *Redis) Set(ctx context.Context, query string, records []dal.Record) {
	b, err := json.Marshal(records)
	if err != nil {
		r.log.WithContext(ctx).Warn("cache encode failed", "error", err)
		return
	}
	if err := r.client.Set(ctx, Key(query), b, r.ttl).Err(); err != nil {
		r.log.WithContext(ctx).Warn("cache set failed", "error", err)
	}
}
