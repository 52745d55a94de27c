package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"

	"github.com/2beens/fitlog/internal/telemetry/tracing"
)

const (
	DefaultTTL           = 10 * time.Second
	defaultRetryInterval = 50 * time.Millisecond
	releaseTimeout       = 2 * time.Second
)

// releases the key only if it still holds our token
const releaseScript = `
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0`

// Redis is a SETNX based lock shared by every instance using the same redis.
// The TTL bounds how long a crashed holder can block others.
type Redis struct {
	rdb           redis.Cmdable
	ttl           time.Duration
	retryInterval time.Duration
	newToken      func() string
}

func NewRedis(rdb redis.Cmdable, ttl time.Duration) *Redis {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Redis{
		rdb:           rdb,
		ttl:           ttl,
		retryInterval: defaultRetryInterval,
		newToken:      uuid.NewString,
	}
}

// Lock blocks until the key is acquired, ctx is done, or one TTL has passed.
func (l *Redis) Lock(ctx context.Context, key string) (_ func(), err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "lock.redis.acquire")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	waitCtx, cancel := context.WithTimeout(ctx, l.ttl)
	defer cancel()

	token := l.newToken()
	for {
		acquired, err := l.rdb.SetNX(waitCtx, key, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("setnx %s: %w", key, err)
		}
		if acquired {
			return func() { l.release(key, token) }, nil
		}

		select {
		case <-waitCtx.Done():
			return nil, fmt.Errorf("wait for lock %s: %w", key, waitCtx.Err())
		case <-time.After(l.retryInterval):
		}
	}
}

func (l *Redis) release(key, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
	defer cancel()

	if err := l.rdb.Eval(ctx, releaseScript, []string{key}, token).Err(); err != nil {
		log.Errorf("release lock %s: %s", key, err)
	}
}
