package mixed

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/you/route-planner/internal/dex/core"
	"github.com/you/route-planner/internal/dex/univ3"
	v2 "github.com/you/route-planner/internal/dex/v2"
	"github.com/you/route-planner/internal/routerabi"
	"github.com/you/route-planner/internal/types"
)

var (
	weth        = types.NewToken(1, common.HexToAddress("0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2"), 18, "WETH", "Wrapped Ether")
	usdc        = types.NewToken(1, common.HexToAddress("0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48"), 6, "USDC", "USD Coin")
	dai         = types.NewToken(1, common.HexToAddress("0x6B175474E89094C44Da98b954EedeAC495271d0F"), 18, "DAI", "Dai")
	usdt        = types.NewToken(1, common.HexToAddress("0xdAC17F958D2ee523a2206206994597C13D831ec7"), 6, "USDT", "Tether")
	recipient   = common.HexToAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	addressThis = common.HexToAddress("0x0000000000000000000000000000000000000002")
)

type setup struct {
	abi *routerabi.ABI
	reg *core.Registry
	enc *Encoder
}

func newSetup() setup {
	a := routerabi.Default()
	reg := core.NewRegistry(v2.NewEncoder(a), univ3.NewEncoder(a))
	enc := NewEncoder(reg, addressThis)
	reg.Register(enc)
	return setup{abi: a, reg: reg, enc: enc}
}

func pair(t *testing.T, a, b types.Currency) core.Leg {
	p, err := v2.NewPair(a, b)
	require.NoError(t, err)
	return p
}

func pool(t *testing.T, a, b types.Currency) core.Leg {
	p, err := univ3.NewPool(a, b, univ3.FeeMedium)
	require.NoError(t, err)
	return p
}

func mixedSwap(t *testing.T, legs []core.Leg, in, out types.Currency, tt types.TradeType) core.Swap {
	r, err := core.NewRoute(core.ProtocolMixed, legs, in, out)
	require.NoError(t, err)
	tr, err := core.NewTrade(r, types.MustCurrencyAmount(in, big.NewInt(1000)), types.MustCurrencyAmount(out, big.NewInt(3000)), tt)
	require.NoError(t, err)
	return core.Swap{Trade: tr, Bound: big.NewInt(2970), Recipient: recipient}
}

func TestHops(t *testing.T) {
	eth, err := types.NewNative(1, "ETH", "Ether", weth)
	require.NoError(t, err)
	r, err := core.NewRoute(core.ProtocolMixed,
		[]core.Leg{pool(t, weth, usdc), pair(t, usdc, dai), pair(t, dai, usdt)}, eth, usdt)
	require.NoError(t, err)

	hops, err := Hops(r)
	require.NoError(t, err)
	require.Len(t, hops, 3)
	assert.True(t, hops[0].Input.Equal(eth))
	assert.True(t, hops[0].Output.Equal(usdc))
	assert.Equal(t, core.ProtocolV2, hops[1].Leg.Protocol())
	assert.True(t, hops[1].Input.Equal(usdc))
	assert.True(t, hops[2].Input.Equal(dai))
	assert.True(t, hops[2].Output.Equal(usdt))
}

func TestEncode_V3ThenV2(t *testing.T) {
	s := newSetup()
	calls, err := s.enc.Encode(mixedSwap(t, []core.Leg{pool(t, weth, usdc), pair(t, usdc, dai)}, weth, dai, types.ExactInput))
	require.NoError(t, err)
	require.Len(t, calls, 2)

	first, err := s.abi.Decode(calls[0])
	require.NoError(t, err)
	require.Equal(t, routerabi.SigExactInputSingle, first.Sig)
	p := routerabi.As[routerabi.ExactInputSingleParams](first.Args[0])
	assert.Equal(t, int64(1000), p.AmountIn.Int64())
	assert.Zero(t, p.AmountOutMinimum.Sign())
	assert.Equal(t, addressThis, p.Recipient)

	second, err := s.abi.Decode(calls[1])
	require.NoError(t, err)
	require.Equal(t, routerabi.SigSwapExactTokensForTokens, second.Sig)
	assert.Zero(t, second.Args[0].(*big.Int).Sign())
	assert.Equal(t, int64(2970), second.Args[1].(*big.Int).Int64())
	assert.Equal(t, []common.Address{usdc.Address(), dai.Address()}, second.Args[2].([]common.Address))
	assert.Equal(t, recipient, second.Args[3].(common.Address))
}

func TestEncode_OneCallPerLeg(t *testing.T) {
	s := newSetup()
	calls, err := s.enc.Encode(mixedSwap(t, []core.Leg{pool(t, weth, usdc), pool(t, usdc, dai)}, weth, dai, types.ExactInput))
	require.NoError(t, err)
	require.Len(t, calls, 2)

	c, err := s.abi.Decode(calls[1])
	require.NoError(t, err)
	require.Equal(t, routerabi.SigExactInputSingle, c.Sig)
	p := routerabi.As[routerabi.ExactInputSingleParams](c.Args[0])
	assert.Equal(t, usdc.Address(), p.TokenIn)
	assert.Zero(t, p.AmountIn.Sign())
	assert.Equal(t, int64(2970), p.AmountOutMinimum.Int64())
	assert.Equal(t, recipient, p.Recipient)
}

func TestEncode_Deterministic(t *testing.T) {
	s := newSetup()
	sw := mixedSwap(t, []core.Leg{pair(t, weth, usdc), pool(t, usdc, dai)}, weth, dai, types.ExactInput)
	a, err := s.enc.Encode(sw)
	require.NoError(t, err)
	b, err := s.enc.Encode(sw)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestEncode_RegistryDispatch(t *testing.T) {
	s := newSetup()
	calls, err := s.reg.Encode(mixedSwap(t, []core.Leg{pair(t, weth, usdc), pool(t, usdc, dai)}, weth, dai, types.ExactInput))
	require.NoError(t, err)
	assert.Len(t, calls, 2)
}

func TestEncode_ExactOutputUnsupported(t *testing.T) {
	s := newSetup()
	_, err := s.enc.Encode(mixedSwap(t, []core.Leg{pool(t, weth, usdc), pair(t, usdc, dai)}, weth, dai, types.ExactOutput))
	assert.ErrorIs(t, err, types.ErrUnsupportedProtocol)
}

type oddLeg struct{ t0, t1 types.Currency }

func (o oddLeg) Protocol() core.Protocol { return core.Protocol(9) }
func (o oddLeg) Token0() types.Currency { return o.t0 }
func (o oddLeg) Token1() types.Currency { return o.t1 }

func TestEncode_UnknownLeg(t *testing.T) {
	s := newSetup()
	_, err := s.enc.Encode(mixedSwap(t, []core.Leg{pool(t, weth, usdc), oddLeg{usdc, dai}}, weth, dai, types.ExactInput))
	assert.ErrorIs(t, err, types.ErrUnsupportedProtocol)
}
