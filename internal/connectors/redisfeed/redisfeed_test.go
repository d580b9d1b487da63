package redisfeed

import (
	"context"
	"math/big"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/you/route-planner/internal/config"
	"github.com/you/route-planner/internal/multicall"
)

func newConfig(t *testing.T) *config.Config {
	mr := miniredis.RunT(t)
	cfg := config.Default()
	cfg.Redis.Addr = mr.Addr()
	return cfg
}

func TestPublishAndRead(t *testing.T) {
	ctx := context.Background()
	cfg := newConfig(t)
	pub := NewPublisher(cfg)
	defer pub.Close()
	con := NewConsumer(cfg)
	defer con.Close()

	mp := multicall.MethodParameters{Calldata: []byte{0xac, 0x96, 0x50, 0xd8}, Value: big.NewInt(16)}
	require.NoError(t, pub.Publish(ctx, NewPlan("eth-usdc", "0x68b3465833fb72A70ecDF485E0e4C7bD8665Fc45", mp, 1000)))
	require.NoError(t, pub.Publish(ctx, NewPlan("usdc-dai", "0x68b3465833fb72A70ecDF485E0e4C7bD8665Fc45", mp, 2000)))

	latest, err := con.Latest(ctx, "eth-usdc")
	require.NoError(t, err)
	assert.Equal(t, "0xac9650d8", latest.Calldata)
	assert.Equal(t, "0x10", latest.Value)
	assert.Equal(t, int64(1000), latest.TsMs)

	names, err := con.RecentNames(ctx, 1500)
	require.NoError(t, err)
	assert.Equal(t, []string{"usdc-dai"}, names)

	tail, err := con.Tail(ctx, 10)
	require.NoError(t, err)
	require.Len(t, tail, 2)
	assert.Equal(t, "usdc-dai", tail[0].Name)
	assert.Equal(t, "eth-usdc", tail[1].Name)

	_, err = con.Latest(ctx, "missing")
	assert.ErrorIs(t, err, redis.Nil)
}

func TestPublish_EmptyName(t *testing.T) {
	pub := NewPublisher(newConfig(t))
	defer pub.Close()
	assert.Error(t, pub.Publish(context.Background(), Plan{}))
}
