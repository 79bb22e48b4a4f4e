package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/janhq/arena-server/internal/domain/room"
)

const keyPrefix = "arena:lock:"

// Redis serializes keys across instances with redsync mutexes. A Local lock is
// taken first so goroutines of one process queue in memory instead of polling redis.
type Redis struct {
	rs    *redsync.Redsync
	local *Local
	ttl   time.Duration
	log   zerolog.Logger
}

var _ room.Locker = (*Redis)(nil)

func NewRedis(client redis.UniversalClient, ttl time.Duration, log zerolog.Logger) *Redis {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &Redis{
		rs:    redsync.New(goredis.NewPool(client)),
		local: NewLocal(),
		ttl:   ttl,
		log:   log.With().Str("component", "redis-locker").Logger(),
	}
}

func (r *Redis) Lock(ctx context.Context, key string) (func(), error) {
	unlockLocal, err := r.local.Lock(ctx, key)
	if err != nil {
		return nil, err
	}

	mutex := r.rs.NewMutex(keyPrefix+key,
		redsync.WithExpiry(r.ttl),
		redsync.WithTries(64),
		redsync.WithRetryDelay(50*time.Millisecond),
	)
	if err := mutex.LockContext(ctx); err != nil {
		unlockLocal()
		return nil, fmt.Errorf("acquire %s: %w", key, err)
	}

	return func() {
		// the lock outlives a cancelled request context
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if _, err := mutex.UnlockContext(releaseCtx); err != nil {
			r.log.Warn().Err(err).Str("key", key).Msg("release redis lock")
		}
		unlockLocal()
	}, nil
}
