package sessions

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedKeyPrefix = "session:revoked:"

// RedisRevoker stores revoked JTIs with a TTL equal to the remaining
// token life, so the denylist cleans itself up.
type RedisRevoker struct {
	rdb *redis.Client
}

func NewRedisRevoker(addr string) *RedisRevoker {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	return &RedisRevoker{rdb: rdb}
}

func (r *RedisRevoker) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}

func (r *RedisRevoker) Close() error {
	return r.rdb.Close()
}

func (r *RedisRevoker) Revoke(ctx context.Context, jti string, until time.Time) error {
	ttl := time.Until(until)

	if ttl <= 0 {
		// already expired, nothing to deny
		return nil
	}

	return r.rdb.Set(ctx, revokedKeyPrefix+jti, "1", ttl).Err()
}

func (r *RedisRevoker) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := r.rdb.Exists(ctx, revokedKeyPrefix+jti).Result()

	if err != nil {
		return false, err
	}

	return n > 0, nil
}
