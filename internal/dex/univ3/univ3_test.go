package univ3

import (
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/you/route-planner/internal/dex/core"
	"github.com/you/route-planner/internal/routerabi"
	"github.com/you/route-planner/internal/types"
)

var (
	weth      = types.NewToken(1, common.HexToAddress("0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2"), 18, "WETH", "Wrapped Ether")
	usdc      = types.NewToken(1, common.HexToAddress("0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48"), 6, "USDC", "USD Coin")
	dai       = types.NewToken(1, common.HexToAddress("0x6B175474E89094C44Da98b954EedeAC495271d0F"), 18, "DAI", "Dai")
	recipient = common.HexToAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
)

func mustPool(t *testing.T, a, b types.Currency, fee FeeAmount) *Pool {
	p, err := NewPool(a, b, fee)
	require.NoError(t, err)
	return p
}

func mustTrade(t *testing.T, legs []core.Leg, in, out types.CurrencyAmount, tt types.TradeType) core.Trade {
	r, err := core.NewRoute(core.ProtocolV3, legs, in.Currency, out.Currency)
	require.NoError(t, err)
	tr, err := core.NewTrade(r, in, out, tt)
	require.NoError(t, err)
	return tr
}

func TestNewPool(t *testing.T) {
	p := mustPool(t, weth, usdc, FeeLow)
	assert.True(t, p.Token0().Equal(usdc))
	assert.Equal(t, FeeLow, p.Fee())
	assert.Equal(t, "0.05%", p.Fee().String())

	_, err := NewPool(weth, usdc, 0)
	assert.ErrorIs(t, err, types.ErrValidation)
	_, err = NewPool(weth, usdc, 1<<24)
	assert.ErrorIs(t, err, types.ErrValidation)
	_, err = NewPool(weth, weth, FeeLow)
	assert.ErrorIs(t, err, types.ErrValidation)
}

func TestPool_Address(t *testing.T) {
	p := mustPool(t, weth, usdc, FeeLow)
	want := common.HexToAddress("0x88e6A0c2dDD26FEEb64F039a2c41296FcB3f5640")
	assert.Equal(t, want, p.Address(MainnetFactory, MainnetInitCodeHash))
}

func TestEncodeRouteToPath(t *testing.T) {
	r, err := core.NewRoute(core.ProtocolV3,
		[]core.Leg{mustPool(t, weth, usdc, FeeLow), mustPool(t, usdc, dai, FeeLowest)}, weth, dai)
	require.NoError(t, err)

	in, err := EncodeRouteToPath(r, false)
	require.NoError(t, err)
	assert.Equal(t,
		"c02aaa39b223fe8d0a0e5c4f27ead9083c756cc2"+"0001f4"+
			"a0b86991c6218b36c1d19d4a2e9eb0ce3606eb48"+"000064"+
			"6b175474e89094c44da98b954eedeac495271d0f",
		hex.EncodeToString(in))

	out, err := EncodeRouteToPath(r, true)
	require.NoError(t, err)
	assert.Equal(t,
		"6b175474e89094c44da98b954eedeac495271d0f"+"000064"+
			"a0b86991c6218b36c1d19d4a2e9eb0ce3606eb48"+"0001f4"+
			"c02aaa39b223fe8d0a0e5c4f27ead9083c756cc2",
		hex.EncodeToString(out))

	hops, err := DecodePath(in)
	require.NoError(t, err)
	require.Len(t, hops, 2)
	assert.Equal(t, Hop{TokenIn: weth.Address(), TokenOut: usdc.Address(), Fee: FeeLow}, hops[0])
	assert.Equal(t, Hop{TokenIn: usdc.Address(), TokenOut: dai.Address(), Fee: FeeLowest}, hops[1])

	_, err = DecodePath(in[:30])
	assert.ErrorIs(t, err, types.ErrValidation)
}

func TestEncode_SingleExactInput(t *testing.T) {
	abi := routerabi.Default()
	tr := mustTrade(t, []core.Leg{mustPool(t, weth, usdc, FeeMedium)},
		types.MustCurrencyAmount(weth, big.NewInt(1000)),
		types.MustCurrencyAmount(usdc, big.NewInt(2000)),
		types.ExactInput)

	calls, err := NewEncoder(abi).Encode(core.Swap{Trade: tr, Bound: big.NewInt(1980), Recipient: recipient})
	require.NoError(t, err)
	require.Len(t, calls, 1)

	call, err := abi.Decode(calls[0])
	require.NoError(t, err)
	require.Equal(t, routerabi.SigExactInputSingle, call.Sig)
	p := routerabi.As[routerabi.ExactInputSingleParams](call.Args[0])
	assert.Equal(t, weth.Address(), p.TokenIn)
	assert.Equal(t, usdc.Address(), p.TokenOut)
	assert.Equal(t, int64(3000), p.Fee.Int64())
	assert.Equal(t, recipient, p.Recipient)
	assert.Equal(t, int64(1000), p.AmountIn.Int64())
	assert.Equal(t, int64(1980), p.AmountOutMinimum.Int64())
	assert.Zero(t, p.SqrtPriceLimitX96.Sign())
}

func TestEncode_SingleExactOutput(t *testing.T) {
	abi := routerabi.Default()
	tr := mustTrade(t, []core.Leg{mustPool(t, weth, usdc, FeeMedium)},
		types.MustCurrencyAmount(usdc, big.NewInt(2000)),
		types.MustCurrencyAmount(weth, big.NewInt(1)),
		types.ExactOutput)

	calls, err := NewEncoder(abi).Encode(core.Swap{Trade: tr, Bound: big.NewInt(2020), Recipient: recipient})
	require.NoError(t, err)
	call, err := abi.Decode(calls[0])
	require.NoError(t, err)
	require.Equal(t, routerabi.SigExactOutputSingle, call.Sig)
	p := routerabi.As[routerabi.ExactOutputSingleParams](call.Args[0])
	assert.Equal(t, usdc.Address(), p.TokenIn)
	assert.Equal(t, weth.Address(), p.TokenOut)
	assert.Equal(t, int64(1), p.AmountOut.Int64())
	assert.Equal(t, int64(2020), p.AmountInMaximum.Int64())
}

func TestEncode_MultiHop(t *testing.T) {
	abi := routerabi.Default()
	legs := []core.Leg{mustPool(t, weth, usdc, FeeLow), mustPool(t, usdc, dai, FeeLowest)}

	in := mustTrade(t, legs, types.MustCurrencyAmount(weth, big.NewInt(10)), types.MustCurrencyAmount(dai, big.NewInt(20)), types.ExactInput)
	calls, err := NewEncoder(abi).Encode(core.Swap{Trade: in, Bound: big.NewInt(19), Recipient: recipient})
	require.NoError(t, err)
	call, err := abi.Decode(calls[0])
	require.NoError(t, err)
	require.Equal(t, routerabi.SigExactInput, call.Sig)
	ip := routerabi.As[routerabi.ExactInputParams](call.Args[0])
	wantPath, err := EncodeRouteToPath(in.Route, false)
	require.NoError(t, err)
	assert.Equal(t, wantPath, ip.Path)
	assert.Equal(t, int64(10), ip.AmountIn.Int64())
	assert.Equal(t, int64(19), ip.AmountOutMinimum.Int64())

	out := mustTrade(t, legs, types.MustCurrencyAmount(weth, big.NewInt(10)), types.MustCurrencyAmount(dai, big.NewInt(20)), types.ExactOutput)
	calls, err = NewEncoder(abi).Encode(core.Swap{Trade: out, Bound: big.NewInt(11), Recipient: recipient})
	require.NoError(t, err)
	call, err = abi.Decode(calls[0])
	require.NoError(t, err)
	require.Equal(t, routerabi.SigExactOutput, call.Sig)
	op := routerabi.As[routerabi.ExactOutputParams](call.Args[0])
	wantPath, err = EncodeRouteToPath(out.Route, true)
	require.NoError(t, err)
	assert.Equal(t, wantPath, op.Path)
	assert.Equal(t, int64(20), op.AmountOut.Int64())
	assert.Equal(t, int64(11), op.AmountInMaximum.Int64())
}

func TestEncode_WrongProtocol(t *testing.T) {
	enc := NewEncoder(routerabi.Default())
	_, err := enc.Encode(core.Swap{Trade: core.Trade{Route: &core.Route{Protocol: core.ProtocolV2, Legs: []core.Leg{mustPool(t, weth, usdc, FeeLow)}}}, Bound: big.NewInt(0)})
	assert.ErrorIs(t, err, types.ErrUnsupportedProtocol)
}
