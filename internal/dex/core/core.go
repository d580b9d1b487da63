package core

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/you/route-planner/internal/types"
)

// Protocol tags the route variant once, at construction time.
type Protocol int

const (
	ProtocolV2 Protocol = iota + 1
	ProtocolV3
	ProtocolMixed
)

func (p Protocol) String() string {
	switch p {
	case ProtocolV2:
		return "v2"
	case ProtocolV3:
		return "v3"
	case ProtocolMixed:
		return "mixed"
	default:
		return fmt.Sprintf("protocol(%d)", int(p))
	}
}

func ParseProtocol(s string) (Protocol, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "v2":
		return ProtocolV2, nil
	case "v3":
		return ProtocolV3, nil
	case "mixed":
		return ProtocolMixed, nil
	}
	return 0, fmt.Errorf("%w: unknown protocol %q", types.ErrUnsupportedProtocol, s)
}

// Leg is one venue (pair or pool) a route passes through.
type Leg interface {
	Protocol() Protocol
	Token0() types.Currency
	Token1() types.Currency
}

// Involves reports whether the leg trades c (compared as wrapped token).
func Involves(l Leg, c types.Currency) bool {
	w := c.Wrapped()
	return l.Token0().Equal(w) || l.Token1().Equal(w)
}

// Other returns the leg's token opposite to c.
func Other(l Leg, c types.Currency) types.Currency {
	if l.Token0().Equal(c.Wrapped()) {
		return l.Token1()
	}
	return l.Token0()
}

// Route is an ordered walk through legs from Input to Output.
type Route struct {
	Protocol Protocol
	Legs     []Leg
	Input    types.Currency
	Output   types.Currency
}

// NewRoute checks that legs are non-empty, of the declared protocol, and chain input to output.
func NewRoute(p Protocol, legs []Leg, in, out types.Currency) (*Route, error) {
	if len(legs) == 0 {
		return nil, fmt.Errorf("%w: %s route %s -> %s has no legs", types.ErrInvalidTrade, p, in, out)
	}
	if p != ProtocolV2 && p != ProtocolV3 && p != ProtocolMixed {
		return nil, fmt.Errorf("%w: %s", types.ErrUnsupportedProtocol, p)
	}
	cur := in.Wrapped()
	for i, l := range legs {
		if l == nil {
			return nil, fmt.Errorf("%w: leg %d is nil", types.ErrInvalidTrade, i)
		}
		if p != ProtocolMixed && l.Protocol() != p {
			return nil, fmt.Errorf("%w: %s leg %d inside a %s route", types.ErrUnsupportedProtocol, l.Protocol(), i, p)
		}
		if !Involves(l, cur) {
			return nil, fmt.Errorf("%w: leg %d does not trade %s", types.ErrInvalidTrade, i, cur)
		}
		cur = Other(l, cur)
	}
	if !cur.Equal(out.Wrapped()) {
		return nil, fmt.Errorf("%w: route ends in %s, expected %s", types.ErrInvalidTrade, cur, out)
	}
	cp := make([]Leg, len(legs))
	copy(cp, legs)
	return &Route{Protocol: p, Legs: cp, Input: in, Output: out}, nil
}

// Path lists the wrapped tokens visited, input first.
func (r *Route) Path() []types.Currency {
	path := make([]types.Currency, 0, len(r.Legs)+1)
	cur := r.Input.Wrapped()
	path = append(path, cur)
	for _, l := range r.Legs {
		cur = Other(l, cur)
		path = append(path, cur)
	}
	return path
}

// Trade is one route with its nominal input and output.
type Trade struct {
	Route  *Route
	Input  types.CurrencyAmount
	Output types.CurrencyAmount
	Type   types.TradeType
}

func NewTrade(r *Route, in, out types.CurrencyAmount, tt types.TradeType) (Trade, error) {
	if r == nil {
		return Trade{}, fmt.Errorf("%w: nil route", types.ErrInvalidTrade)
	}
	if !in.Currency.Equal(r.Input) {
		return Trade{}, fmt.Errorf("%w: input amount is %s, route starts at %s", types.ErrConfiguration, in.Currency, r.Input)
	}
	if !out.Currency.Equal(r.Output) {
		return Trade{}, fmt.Errorf("%w: output amount is %s, route ends at %s", types.ErrConfiguration, out.Currency, r.Output)
	}
	if tt != types.ExactInput && tt != types.ExactOutput {
		return Trade{}, fmt.Errorf("%w: unknown trade type %s", types.ErrConfiguration, tt)
	}
	return Trade{Route: r, Input: in, Output: out, Type: tt}, nil
}

// Nominal is the amount slippage protection applies to.
func (t Trade) Nominal() types.CurrencyAmount {
	if t.Type == types.ExactInput {
		return t.Output
	}
	return t.Input
}

// Fixed is the amount the trade type pins.
func (t Trade) Fixed() types.CurrencyAmount {
	if t.Type == types.ExactInput {
		return t.Input
	}
	return t.Output
}

// Swap is what an encoder needs: the trade, its protection bound and where the output goes.
type Swap struct {
	Trade     Trade
	Bound     *big.Int
	Recipient common.Address
}

// Amounts returns (fixed amount, slippage limit).
func (s Swap) Amounts() (fixed, limit *big.Int) {
	return s.Trade.Fixed().Raw(), new(big.Int).Set(s.Bound)
}

type Encoder interface {
	Protocol() Protocol
	Encode(s Swap) ([][]byte, error)
}
