package repositories

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sbilibin2017/finanfun/internal/logger"
)

// incrExpire increments the counter and starts its window on the first hit.
var incrExpire = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return current
`)

// RateCounterRepository keeps fixed-window request counters in Redis.
type RateCounterRepository struct {
	client *redis.Client
}

func NewRateCounterRepository(client *redis.Client) *RateCounterRepository {
	return &RateCounterRepository{client: client}
}

// Incr bumps the counter for key and returns the hits seen in the current window.
func (r *RateCounterRepository) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	count, err := incrExpire.Run(ctx, r.client, []string{key}, window.Milliseconds()).Int64()

	logger.Log.Infow("rate counter",
		"key", key,
		"window", window,
		"result", count,
		"error", err,
	)

	return count, err
}
