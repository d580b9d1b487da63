package payments

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/you/route-planner/internal/routerabi"
	"github.com/you/route-planner/internal/types"
)

var (
	weth      = types.NewToken(1, common.HexToAddress("0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2"), 18, "WETH", "Wrapped Ether")
	usdc      = types.NewToken(1, common.HexToAddress("0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48"), 6, "USDC", "USD Coin")
	recipient = common.HexToAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	feeTaker  = common.HexToAddress("0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")
	msgSender = common.HexToAddress("0x0000000000000000000000000000000000000001")
)

func ether(t *testing.T) types.Currency {
	eth, err := types.NewNative(1, "ETH", "Ether", weth)
	require.NoError(t, err)
	return eth
}

func sigs(t *testing.T, a *routerabi.ABI, calls [][]byte) []string {
	out := make([]string, len(calls))
	for i, c := range calls {
		call, err := a.Decode(c)
		require.NoError(t, err)
		out[i] = call.Sig
	}
	return out
}

func TestNativeInput_ExactInput(t *testing.T) {
	a := routerabi.Default()
	b := NewBuilder(a, msgSender)
	s := Settlement{
		Input: ether(t), Output: usdc, TradeType: types.ExactInput,
		MaxInput: big.NewInt(2e18), MinOutput: big.NewInt(3000), Recipient: recipient,
	}
	assert.False(t, s.RouterCustody())
	assert.Equal(t, "2000000000000000000", s.Value().String())

	pre, err := b.Prelude(s)
	require.NoError(t, err)
	require.Len(t, pre, 1)
	wrap, err := a.Decode(pre[0])
	require.NoError(t, err)
	assert.Equal(t, routerabi.SigWrapETH, wrap.Sig)
	assert.Equal(t, s.Value().String(), wrap.Args[0].(*big.Int).String())

	post, err := b.Epilogue(s)
	require.NoError(t, err)
	assert.Equal(t, []string{routerabi.SigRefundETH}, sigs(t, a, post))
}

func TestNativeInput_ExactOutputReturnsLeftover(t *testing.T) {
	a := routerabi.Default()
	b := NewBuilder(a, msgSender)
	s := Settlement{
		Input: ether(t), Output: usdc, TradeType: types.ExactOutput,
		MaxInput: big.NewInt(1010), MinOutput: big.NewInt(3000), Recipient: recipient,
	}
	post, err := b.Epilogue(s)
	require.NoError(t, err)
	assert.Equal(t, []string{routerabi.SigUnwrapWETH9, routerabi.SigRefundETH}, sigs(t, a, post))

	unwrap, err := a.Decode(post[0])
	require.NoError(t, err)
	assert.Zero(t, unwrap.Args[0].(*big.Int).Sign())
	assert.Equal(t, msgSender, unwrap.Args[1].(common.Address))
}

func TestNativeOutput(t *testing.T) {
	a := routerabi.Default()
	b := NewBuilder(a, msgSender)
	s := Settlement{
		Input: usdc, Output: ether(t), TradeType: types.ExactInput,
		MaxInput: big.NewInt(1000), MinOutput: big.NewInt(990), Recipient: recipient,
	}
	assert.True(t, s.RouterCustody())
	assert.Zero(t, s.Value().Sign())

	pre, err := b.Prelude(s)
	require.NoError(t, err)
	assert.Empty(t, pre)

	post, err := b.Epilogue(s)
	require.NoError(t, err)
	require.Equal(t, []string{routerabi.SigUnwrapWETH9}, sigs(t, a, post))
	unwrap, err := a.Decode(post[0])
	require.NoError(t, err)
	assert.Equal(t, int64(990), unwrap.Args[0].(*big.Int).Int64())
	assert.Equal(t, recipient, unwrap.Args[1].(common.Address))
}

func TestFee(t *testing.T) {
	a := routerabi.Default()
	b := NewBuilder(a, msgSender)
	fee, err := NewFee(types.PercentFromBips(50), feeTaker)
	require.NoError(t, err)
	assert.Equal(t, int64(50), fee.Bips.Int64())

	s := Settlement{
		Input: weth, Output: usdc, TradeType: types.ExactInput,
		MaxInput: big.NewInt(1), MinOutput: big.NewInt(990), Recipient: recipient, Fee: fee,
	}
	assert.True(t, s.RouterCustody())
	post, err := b.Epilogue(s)
	require.NoError(t, err)
	require.Equal(t, []string{routerabi.SigSweepTokenWithFee}, sigs(t, a, post))
	sweep, err := a.Decode(post[0])
	require.NoError(t, err)
	assert.Equal(t, usdc.Address(), sweep.Args[0].(common.Address))
	assert.Equal(t, int64(990), sweep.Args[1].(*big.Int).Int64())
	assert.Equal(t, recipient, sweep.Args[2].(common.Address))
	assert.Equal(t, int64(50), sweep.Args[3].(*big.Int).Int64())
	assert.Equal(t, feeTaker, sweep.Args[4].(common.Address))

	s.Output = ether(t)
	post, err = b.Epilogue(s)
	require.NoError(t, err)
	assert.Equal(t, []string{routerabi.SigUnwrapWETH9WithFee}, sigs(t, a, post))
}

func TestNewFee_Bounds(t *testing.T) {
	_, err := NewFee(types.PercentFromBips(0), feeTaker)
	assert.ErrorIs(t, err, types.ErrValidation)
	_, err = NewFee(types.PercentFromBips(101), feeTaker)
	assert.ErrorIs(t, err, types.ErrValidation)
	_, err = NewFee(types.PercentFromBips(10), common.Address{})
	assert.ErrorIs(t, err, types.ErrValidation)
}

func TestNeitherNative(t *testing.T) {
	b := NewBuilder(routerabi.Default(), msgSender)
	s := Settlement{Input: weth, Output: usdc, TradeType: types.ExactInput, MaxInput: big.NewInt(5), MinOutput: big.NewInt(5)}
	pre, err := b.Prelude(s)
	require.NoError(t, err)
	post, err := b.Epilogue(s)
	require.NoError(t, err)
	assert.Empty(t, pre)
	assert.Empty(t, post)
	assert.Zero(t, s.Value().Sign())
}
