package univ3

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/you/route-planner/internal/dex/core"
	"github.com/you/route-planner/internal/routerabi"
	"github.com/you/route-planner/internal/types"
)

// Encoder turns v3 routes into router swap calls: the single-pool entry
// points for one leg, the packed-path ones otherwise.
type Encoder struct {
	abi *routerabi.ABI
}

func NewEncoder(a *routerabi.ABI) *Encoder {
	return &Encoder{abi: a}
}

func (e *Encoder) Protocol() core.Protocol { return core.ProtocolV3 }

func (e *Encoder) Encode(s core.Swap) ([][]byte, error) {
	r := s.Trade.Route
	if r == nil || len(r.Legs) == 0 {
		return nil, fmt.Errorf("%w: v3 route has no legs", types.ErrInvalidTrade)
	}
	if r.Protocol != core.ProtocolV3 {
		return nil, fmt.Errorf("%w: %s route given to v3 encoder", types.ErrUnsupportedProtocol, r.Protocol)
	}
	fixed, limit := s.Amounts()

	var (
		data []byte
		err  error
	)
	if len(r.Legs) == 1 {
		data, err = e.encodeSingle(r, s.Trade.Type, fixed, limit, s.Recipient)
	} else {
		data, err = e.encodeMulti(r, s.Trade.Type, fixed, limit, s.Recipient)
	}
	if err != nil {
		return nil, err
	}
	return [][]byte{data}, nil
}

func (e *Encoder) encodeSingle(r *core.Route, tt types.TradeType, fixed, limit *big.Int, recipient common.Address) ([]byte, error) {
	pool, ok := r.Legs[0].(*Pool)
	if !ok {
		return nil, fmt.Errorf("%w: %s leg in v3 route", types.ErrUnsupportedProtocol, r.Legs[0].Protocol())
	}
	tokenIn, tokenOut := r.Input.Wrapped().Address(), r.Output.Wrapped().Address()

	switch tt {
	case types.ExactInput:
		return e.abi.Pack(routerabi.SigExactInputSingle, routerabi.ExactInputSingleParams{
			TokenIn:           tokenIn,
			TokenOut:          tokenOut,
			Fee:               pool.Fee().Big(),
			Recipient:         recipient,
			AmountIn:          fixed,
			AmountOutMinimum:  limit,
			SqrtPriceLimitX96: new(big.Int),
		})
	case types.ExactOutput:
		return e.abi.Pack(routerabi.SigExactOutputSingle, routerabi.ExactOutputSingleParams{
			TokenIn:           tokenIn,
			TokenOut:          tokenOut,
			Fee:               pool.Fee().Big(),
			Recipient:         recipient,
			AmountOut:         fixed,
			AmountInMaximum:   limit,
			SqrtPriceLimitX96: new(big.Int),
		})
	}
	return nil, fmt.Errorf("%w: unknown trade type %s", types.ErrConfiguration, tt)
}

func (e *Encoder) encodeMulti(r *core.Route, tt types.TradeType, fixed, limit *big.Int, recipient common.Address) ([]byte, error) {
	path, err := EncodeRouteToPath(r, tt == types.ExactOutput)
	if err != nil {
		return nil, err
	}
	switch tt {
	case types.ExactInput:
		return e.abi.Pack(routerabi.SigExactInput, routerabi.ExactInputParams{
			Path:             path,
			Recipient:        recipient,
			AmountIn:         fixed,
			AmountOutMinimum: limit,
		})
	case types.ExactOutput:
		return e.abi.Pack(routerabi.SigExactOutput, routerabi.ExactOutputParams{
			Path:            path,
			Recipient:       recipient,
			AmountOut:       fixed,
			AmountInMaximum: limit,
		})
	}
	return nil, fmt.Errorf("%w: unknown trade type %s", types.ErrConfiguration, tt)
}
