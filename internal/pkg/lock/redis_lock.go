package lock

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// OrderLock serializes refund processing per order across instances
// using SETNX with a TTL. It is a best-effort edge guard in front of
// the database's conditional refund_status update: when Redis is down
// Acquire reports success and the conditional update alone decides.
type OrderLock struct {
	client *redis.Client
	ttl    time.Duration
}

func NewOrderLock(client *redis.Client, ttl time.Duration) *OrderLock {
	return &OrderLock{client: client, ttl: ttl}
}

// Acquire returns false only when another holder provably owns the key.
func (l *OrderLock) Acquire(ctx context.Context, key string) bool {
	if l.client == nil {
		return true
	}
	ok, err := l.client.SetNX(ctx, "refund:lock:"+key, 1, l.ttl).Result()
	if err != nil {
		// Redis unavailable: fall through to the DB guard.
		return true
	}
	return ok
}

func (l *OrderLock) Release(ctx context.Context, key string) {
	if l.client == nil {
		return
	}
	l.client.Del(ctx, "refund:lock:"+key)
}
