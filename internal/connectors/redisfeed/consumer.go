package redisfeed

import (
	"context"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/you/route-planner/internal/config"
)

// Consumer reads back what the Publisher wrote, for signers and tooling.
type Consumer struct {
	rdb    *redis.Client
	stream string
	planNS string
}

func NewConsumer(cfg *config.Config) *Consumer {
	return &Consumer{
		rdb:    newClient(cfg),
		stream: cfg.Redis.Stream,
		planNS: cfg.Redis.PlanNS,
	}
}

// Latest returns the last plan published under name, or redis.Nil.
func (c *Consumer) Latest(ctx context.Context, name string) (Plan, error) {
	m, err := c.rdb.HGetAll(ctx, c.planNS+name).Result()
	if err != nil {
		return Plan{}, err
	}
	if len(m) == 0 {
		return Plan{}, redis.Nil
	}
	return planFrom(m), nil
}

// RecentNames lists plan names published at or after sinceMs.
func (c *Consumer) RecentNames(ctx context.Context, sinceMs int64) ([]string, error) {
	return c.rdb.ZRangeByScore(ctx, activeKey, &redis.ZRangeBy{
		Min: strconv.FormatInt(sinceMs, 10),
		Max: "+inf",
	}).Result()
}

// Tail returns up to count most recent stream entries, newest first.
func (c *Consumer) Tail(ctx context.Context, count int64) ([]Plan, error) {
	msgs, err := c.rdb.XRevRangeN(ctx, c.stream, "+", "-", count).Result()
	if err != nil {
		return nil, err
	}
	out := make([]Plan, 0, len(msgs))
	for _, m := range msgs {
		vals := make(map[string]string, len(m.Values))
		for k, v := range m.Values {
			if s, ok := v.(string); ok {
				vals[k] = s
			}
		}
		out = append(out, planFrom(vals))
	}
	return out, nil
}

func (c *Consumer) Close() error { return c.rdb.Close() }
