package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const clientNamePrefix = "studio:client_name:"

// NewRedisClient conecta no Redis. Sem endereço, ou se o ping falhar, devolve
// nil e o cache fica desligado.
func NewRedisClient(ctx context.Context, addr string) *redis.Client {
	if addr == "" {
		slog.Warn("REDIS_ADDR not set, client name cache disabled")
		return nil
	}

	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		slog.Error("redis ping failed, client name cache disabled", "error", err)
		_ = rdb.Close()
		return nil
	}

	return rdb
}

type ClientNames struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewClientNames(rdb *redis.Client, ttl time.Duration) *ClientNames {
	return &ClientNames{rdb: rdb, ttl: ttl}
}

func (c *ClientNames) Get(ctx context.Context, clientID uuid.UUID) (string, bool) {
	name, err := c.rdb.Get(ctx, clientNamePrefix+clientID.String()).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Warn("client name cache get failed", "client_id", clientID, "error", err)
		}
		return "", false
	}
	return name, true
}

func (c *ClientNames) Set(ctx context.Context, clientID uuid.UUID, name string) {
	if err := c.rdb.Set(ctx, clientNamePrefix+clientID.String(), name, c.ttl).Err(); err != nil {
		slog.Warn("client name cache set failed", "client_id", clientID, "error", err)
	}
}

// Forget remove o nome em cache, usado quando o cliente é editado.
func (c *ClientNames) Forget(ctx context.Context, clientID uuid.UUID) {
	if err := c.rdb.Del(ctx, clientNamePrefix+clientID.String()).Err(); err != nil {
		slog.Warn("client name cache del failed", "client_id", clientID, "error", err)
	}
}
