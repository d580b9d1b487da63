// Package mixed encodes routes whose legs alternate between v2 pairs and v3
// pools. Every leg becomes one call; the router holds the intermediate
// tokens between calls.
package mixed

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/you/route-planner/internal/dex/core"
	"github.com/you/route-planner/internal/types"
)

// Hop is one leg of a mixed route with the tokens it trades.
type Hop struct {
	Leg    core.Leg
	Input  types.Currency
	Output types.Currency
}

// Hops splits a mixed route into its legs, in route order. Every leg must be
// a v2 or v3 leg.
func Hops(r *core.Route) ([]Hop, error) {
	if r == nil || len(r.Legs) == 0 {
		return nil, fmt.Errorf("%w: mixed route has no legs", types.ErrInvalidTrade)
	}
	path := r.Path()
	out := make([]Hop, len(r.Legs))
	for i, l := range r.Legs {
		if p := l.Protocol(); p != core.ProtocolV2 && p != core.ProtocolV3 {
			return nil, fmt.Errorf("%w: %s leg %d in mixed route", types.ErrUnsupportedProtocol, p, i)
		}
		out[i] = Hop{Leg: l, Input: path[i], Output: path[i+1]}
	}
	out[0].Input = r.Input
	out[len(out)-1].Output = r.Output
	return out, nil
}

// Encoder delegates every hop to the registry's encoder for the leg's
// protocol. Hops after the first spend the router's whole balance
// (amountIn 0) and all but the last pay out to the router itself.
type Encoder struct {
	reg         *core.Registry
	addressThis common.Address
}

func NewEncoder(reg *core.Registry, addressThis common.Address) *Encoder {
	return &Encoder{reg: reg, addressThis: addressThis}
}

func (e *Encoder) Protocol() core.Protocol { return core.ProtocolMixed }

func (e *Encoder) Encode(s core.Swap) ([][]byte, error) {
	r := s.Trade.Route
	if r == nil {
		return nil, fmt.Errorf("%w: swap without route", types.ErrInvalidTrade)
	}
	if r.Protocol != core.ProtocolMixed {
		return nil, fmt.Errorf("%w: %s route given to mixed encoder", types.ErrUnsupportedProtocol, r.Protocol)
	}
	if s.Trade.Type != types.ExactInput {
		return nil, fmt.Errorf("%w: mixed routes support exact input only", types.ErrUnsupportedProtocol)
	}
	hops, err := Hops(r)
	if err != nil {
		return nil, err
	}

	calls := make([][]byte, 0, len(hops))
	for i, h := range hops {
		last := i == len(hops)-1

		amountIn := new(big.Int)
		if i == 0 {
			amountIn = s.Trade.Input.Raw()
		}
		minOut, recipient := new(big.Int), e.addressThis
		if last {
			minOut, recipient = new(big.Int).Set(s.Bound), s.Recipient
		}

		sub, err := hopSwap(h, amountIn, minOut, recipient)
		if err != nil {
			return nil, fmt.Errorf("hop %d: %w", i, err)
		}
		out, err := e.reg.Encode(sub)
		if err != nil {
			return nil, fmt.Errorf("hop %d: %w", i, err)
		}
		calls = append(calls, out...)
	}
	return calls, nil
}

func hopSwap(h Hop, amountIn, minOut *big.Int, recipient common.Address) (core.Swap, error) {
	route, err := core.NewRoute(h.Leg.Protocol(), []core.Leg{h.Leg}, h.Input, h.Output)
	if err != nil {
		return core.Swap{}, err
	}
	in, err := types.NewCurrencyAmount(h.Input, amountIn)
	if err != nil {
		return core.Swap{}, err
	}
	out, err := types.NewCurrencyAmount(h.Output, new(big.Int))
	if err != nil {
		return core.Swap{}, err
	}
	tr, err := core.NewTrade(route, in, out, types.ExactInput)
	if err != nil {
		return core.Swap{}, err
	}
	return core.Swap{Trade: tr, Bound: minOut, Recipient: recipient}, nil
}
