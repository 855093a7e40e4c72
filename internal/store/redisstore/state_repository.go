package redisstore

import (
	"context"
	"errors"
	"time"

	"shopbridge/internal/store/repositories"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// stateRepository implements StateRepository on redis. Nonces are keyed by
// (shop, nonce) with a TTL, so expiry needs no sweeper, and consumption is
// a single GETDEL so two racing callbacks can never both win.
type stateRepository struct {
	rdb *redis.Client
}

// MustOpen connects to redis and fails fast if it is unreachable.
func MustOpen(ctx context.Context, addr string) *redis.Client {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatal().Err(err).Msg("redis connect fail")
	}
	return rdb
}

// NewStateRepository creates a new authorization-state repository
func NewStateRepository(rdb *redis.Client) repositories.StateRepository {
	return &stateRepository{rdb: rdb}
}

func stateKey(shopDomain, nonce string) string {
	return "install_state:" + shopDomain + ":" + nonce
}

// Put stores a nonce for one authorization attempt with the given TTL
func (r *stateRepository) Put(ctx context.Context, shopDomain, nonce string, ttl time.Duration) error {
	return r.rdb.Set(ctx, stateKey(shopDomain, nonce), "1", ttl).Err()
}

// Consume atomically removes the nonce. ErrNotFound means the nonce was
// never issued, was issued for another shop, expired, or was already used.
func (r *stateRepository) Consume(ctx context.Context, shopDomain, nonce string) error {
	err := r.rdb.GetDel(ctx, stateKey(shopDomain, nonce)).Err()
	if errors.Is(err, redis.Nil) {
		return repositories.ErrNotFound
	}
	return err
}
