package router

import (
	"fmt"
	"math/big"

	"github.com/you/route-planner/internal/dex/core"
	"github.com/you/route-planner/internal/types"
)

// RouterTrade is a whole swap split over routes of different protocols. All
// routes share one trade type and one overall input and output currency.
type RouterTrade struct {
	V2    []core.Trade
	V3    []core.Trade
	Mixed []core.Trade

	tradeType types.TradeType
	input     types.Currency
	output    types.Currency
}

// NewRouterTrade validates the routes and groups them by protocol tag.
func NewRouterTrade(trades ...core.Trade) (*RouterTrade, error) {
	if len(trades) == 0 {
		return nil, fmt.Errorf("%w: no routes", types.ErrInvalidTrade)
	}
	first := trades[0]
	if first.Route == nil {
		return nil, fmt.Errorf("%w: route 0 is nil", types.ErrInvalidTrade)
	}
	t := &RouterTrade{
		tradeType: first.Type,
		input:     first.Input.Currency,
		output:    first.Output.Currency,
	}
	if t.input.Equal(t.output) {
		return nil, fmt.Errorf("%w: input and output are both %s", types.ErrConfiguration, t.input)
	}

	for i, tr := range trades {
		if tr.Route == nil {
			return nil, fmt.Errorf("%w: route %d is nil", types.ErrInvalidTrade, i)
		}
		if len(tr.Route.Legs) == 0 {
			return nil, fmt.Errorf("%w: route %d has no legs", types.ErrInvalidTrade, i)
		}
		if tr.Type != t.tradeType {
			return nil, fmt.Errorf("%w: route %d is %s, route 0 is %s", types.ErrConfiguration, i, tr.Type, t.tradeType)
		}
		if !tr.Input.Currency.Equal(t.input) || !tr.Output.Currency.Equal(t.output) {
			return nil, fmt.Errorf("%w: route %d trades %s -> %s, expected %s -> %s",
				types.ErrConfiguration, i, tr.Input.Currency, tr.Output.Currency, t.input, t.output)
		}
		switch tr.Route.Protocol {
		case core.ProtocolV2:
			t.V2 = append(t.V2, tr)
		case core.ProtocolV3:
			t.V3 = append(t.V3, tr)
		case core.ProtocolMixed:
			t.Mixed = append(t.Mixed, tr)
		default:
			return nil, fmt.Errorf("%w: route %d is %s", types.ErrUnsupportedProtocol, i, tr.Route.Protocol)
		}
	}
	return t, nil
}

func (t *RouterTrade) TradeType() types.TradeType { return t.tradeType }
func (t *RouterTrade) InputCurrency() types.Currency { return t.input }
func (t *RouterTrade) OutputCurrency() types.Currency { return t.output }

// Trades lists every route in encoding order: v2, then v3, then mixed.
func (t *RouterTrade) Trades() []core.Trade {
	out := make([]core.Trade, 0, len(t.V2)+len(t.V3)+len(t.Mixed))
	out = append(out, t.V2...)
	out = append(out, t.V3...)
	return append(out, t.Mixed...)
}

// InputAmount is the nominal input summed over routes.
func (t *RouterTrade) InputAmount() (types.CurrencyAmount, error) {
	return t.sum(func(tr core.Trade) *big.Int { return tr.Input.Raw() }, t.input)
}

// OutputAmount is the nominal output summed over routes.
func (t *RouterTrade) OutputAmount() (types.CurrencyAmount, error) {
	return t.sum(func(tr core.Trade) *big.Int { return tr.Output.Raw() }, t.output)
}

func (t *RouterTrade) sum(pick func(core.Trade) *big.Int, c types.Currency) (types.CurrencyAmount, error) {
	total := new(big.Int)
	for _, tr := range t.Trades() {
		total.Add(total, pick(tr))
	}
	return types.NewCurrencyAmount(c, total)
}

// Share is a route's part of the whole, in Trades order.
type Share struct {
	Protocol core.Protocol
	Fraction types.Fraction
}

// Shares returns each route's exact share of the aggregate fixed amount:
// input for exact input, output for exact output.
func (t *RouterTrade) Shares() []Share {
	pick := func(tr core.Trade) *big.Int { return tr.Input.Raw() }
	if t.tradeType == types.ExactOutput {
		pick = func(tr core.Trade) *big.Int { return tr.Output.Raw() }
	}
	trades := t.Trades()
	total := new(big.Int)
	for _, tr := range trades {
		total.Add(total, pick(tr))
	}
	out := make([]Share, len(trades))
	for i, tr := range trades {
		out[i] = Share{
			Protocol: tr.Route.Protocol,
			Fraction: types.Fraction{Num: pick(tr), Den: new(big.Int).Set(total)},
		}
	}
	return out
}
