// Package monthlock serializes generation requests for the same month with
// a best-effort redis lock. The database existence guard stays the source
// of truth; the lock only narrows the window where two operators could both
// pass that guard.
package monthlock

import (
	"context"
	"fmt"
	"time"

	"github.com/kongfuworld/settlement/internal/config"
	"github.com/redis/go-redis/v9"
)

// TTL bounds lock lifetime so an abandoned generation cannot wedge a month.
const TTL = 10 * time.Minute

type Locker struct {
	client *redis.Client
}

// NewLocker returns a no-op locker when redis is not configured.
func NewLocker(cfg config.Config) (*Locker, error) {
	if cfg.Redis.Addr == "" {
		return &Locker{}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	return &Locker{client: client}, nil
}

// NewLockerWithClient wires an existing client, used by tests.
func NewLockerWithClient(client *redis.Client) *Locker {
	return &Locker{client: client}
}

// Acquire takes the (component, month) lock. ok false means another
// generation holds it. The returned release is safe to call regardless.
func (l *Locker) Acquire(ctx context.Context, component, month string) (release func(), ok bool, err error) {
	if l.client == nil {
		return func() {}, true, nil
	}

	key := fmt.Sprintf("settlement:lock:%s:%s", component, month)
	ok, err = l.client.SetNX(ctx, key, time.Now().UTC().Format(time.RFC3339), TTL).Result()
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return func() {}, false, nil
	}
	return func() {
		l.client.Del(context.Background(), key)
	}, true, nil
}
