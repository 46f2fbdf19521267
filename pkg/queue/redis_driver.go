package queue

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisReadyKey   = "vastra:queue:jobs"
	redisDelayedKey = "vastra:queue:delayed"
	redisPopTimeout = 5 * time.Second
)

// RedisDriver backs the queue with Redis so jobs survive restarts and
// can be shared by several worker processes. Ready jobs live in a list
// (LPUSH/BRPOP); delayed jobs sit in a sorted set scored by the Unix
// time they become due, and a background ticker promotes them.
type RedisDriver struct {
	rdb  *redis.Client
	stop chan struct{}
}

// NewRedisDriver wraps an existing client, typically the one pkg/cache
// already holds.
func NewRedisDriver(rdb *redis.Client) *RedisDriver {
	d := &RedisDriver{rdb: rdb, stop: make(chan struct{})}
	go d.promoteLoop()
	return d
}

func (d *RedisDriver) Push(payload []byte) error {
	if err := d.rdb.LPush(context.Background(), redisReadyKey, payload).Err(); err != nil {
		return fmt.Errorf("queue/redis: push: %w", err)
	}
	return nil
}

// Pop blocks up to redisPopTimeout for a job. A timeout returns
// (nil, nil) so workers simply loop around.
func (d *RedisDriver) Pop(ctx context.Context) ([]byte, error) {
	res, err := d.rdb.BRPop(ctx, redisPopTimeout, redisReadyKey).Result()
	switch {
	case errors.Is(err, redis.Nil):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("queue/redis: pop: %w", err)
	case len(res) < 2:
		return nil, nil
	}
	return []byte(res[1]), nil
}

// PushDelayed parks payload in the delayed set until its due time.
func (d *RedisDriver) PushDelayed(payload []byte, delay time.Duration) error {
	due := redis.Z{
		Score:  float64(time.Now().Add(delay).Unix()),
		Member: string(payload),
	}
	if err := d.rdb.ZAdd(context.Background(), redisDelayedKey, due).Err(); err != nil {
		return fmt.Errorf("queue/redis: push delayed: %w", err)
	}
	return nil
}

// Close stops the delayed-job promoter.
func (d *RedisDriver) Close() { close(d.stop) }

// promoteLoop moves due jobs from the delayed set to the ready list
// once a second.
func (d *RedisDriver) promoteLoop() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-d.stop:
			return
		case <-ticker.C:
			d.promoteDue()
		}
	}
}

func (d *RedisDriver) promoteDue() {
	ctx := context.Background()
	due, err := d.rdb.ZRangeByScore(ctx, redisDelayedKey, &redis.ZRangeBy{
		Min: "-inf",
		Max: strconv.FormatInt(time.Now().Unix(), 10),
	}).Result()
	if err != nil || len(due) == 0 {
		return
	}
	pipe := d.rdb.TxPipeline()
	for _, payload := range due {
		pipe.ZRem(ctx, redisDelayedKey, payload)
		pipe.LPush(ctx, redisReadyKey, []byte(payload))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		// Leftovers stay in the set and get picked up next tick.
		return
	}
}
