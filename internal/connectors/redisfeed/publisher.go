package redisfeed

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/you/route-planner/internal/config"
)

// activeKey indexes plan names by last publish time.
const activeKey = "plan:active"

type Publisher struct {
	rdb    *redis.Client
	stream string
	planNS string
	maxLen int64
}

func NewPublisher(cfg *config.Config) *Publisher {
	return &Publisher{
		rdb:    newClient(cfg),
		stream: cfg.Redis.Stream,
		planNS: cfg.Redis.PlanNS,
		maxLen: cfg.Redis.MaxLen,
	}
}

func newClient(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		DB:       cfg.Redis.DB,
		Username: cfg.Redis.Username,
		Password: cfg.Redis.Password,
	})
}

// Publish appends the plan to the stream and replaces the latest plan stored
// under its name.
func (p *Publisher) Publish(ctx context.Context, plan Plan) error {
	if plan.Name == "" {
		return fmt.Errorf("publish plan: empty name")
	}
	_, err := p.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.XAdd(ctx, &redis.XAddArgs{
			Stream: p.stream,
			MaxLen: p.maxLen,
			Approx: true,
			Values: plan.fields(),
		})
		pipe.HSet(ctx, p.planNS+plan.Name, plan.fields())
		pipe.ZAdd(ctx, activeKey, redis.Z{Score: float64(plan.TsMs), Member: plan.Name})
		return nil
	})
	if err != nil {
		return fmt.Errorf("publish plan %s: %w", plan.Name, err)
	}
	return nil
}

func (p *Publisher) Close() error { return p.rdb.Close() }
