package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	goredis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/ServiceCenter-api/pkg/config"
)

// NewClient conecta a Redis y verifica con PING.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*goredis.Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: 50,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis %s: %w", cfg.Address, err)
	}
	return rdb, nil
}

// redisLocker adapta redislock.Client al puerto Locker.
type redisLocker struct {
	client *redislock.Client
	retry  redislock.RetryStrategy
}

// NewLocker locker sobre Redis. Reintenta cada 50ms hasta que vence el contexto o se agota el TTL.
func NewLocker(rdb *goredis.Client, ttl time.Duration) Locker {
	attempts := int(ttl / (50 * time.Millisecond))
	if attempts < 1 {
		attempts = 1
	}
	return &redisLocker{
		client: redislock.New(rdb),
		retry:  redislock.LimitRetry(redislock.LinearBackoff(50*time.Millisecond), attempts),
	}
}

func (l *redisLocker) Obtain(ctx context.Context, key string, ttl time.Duration) (func(context.Context) error, error) {
	lock, err := l.client.Obtain(ctx, key, ttl, &redislock.Options{RetryStrategy: l.retry})
	if err != nil {
		return nil, obtainError(err)
	}
	return lock.Release, nil
}

// obtainError traduce el error de redislock al del paquete; los demás (red, timeout) pasan intactos.
func obtainError(err error) error {
	if errors.Is(err, redislock.ErrNotObtained) {
		return ErrNotObtained
	}
	return err
}
