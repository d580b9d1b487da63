package request

import (
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"go.uber.org/multierr"

	"github.com/you/route-planner/internal/config"
	"github.com/you/route-planner/internal/dex/core"
	"github.com/you/route-planner/internal/dex/univ3"
	v2 "github.com/you/route-planner/internal/dex/v2"
	"github.com/you/route-planner/internal/permit"
	"github.com/you/route-planner/internal/router"
	"github.com/you/route-planner/internal/types"
)

// Env is the deployment context a request is resolved in.
type Env struct {
	ChainID     uint64
	Native      types.Currency
	SlippageBps int64
	Recipient   common.Address
	DeadlineIn  time.Duration
	Now         func() time.Time
}

func NewEnv(cfg *config.Config) (Env, error) {
	sym, name := cfg.Chain.Native.Symbol, cfg.Chain.Native.Name
	wrapped := types.NewToken(cfg.Chain.ID, cfg.WrappedNative(), 18, "W"+sym, "Wrapped "+name)
	native, err := types.NewNative(cfg.Chain.ID, sym, name, wrapped)
	if err != nil {
		return Env{}, err
	}
	return Env{
		ChainID:     cfg.Chain.ID,
		Native:      native,
		SlippageBps: cfg.Defaults.SlippageBps,
		Recipient:   cfg.DefaultRecipient(),
		DeadlineIn:  cfg.DefaultDeadline(),
		Now:         time.Now,
	}, nil
}

// Resolved is a request ready for the router.
type Resolved struct {
	Name    string
	Trade   *router.RouterTrade
	Options router.SwapOptions
}

// Resolve builds the trade and options. Problems in tokens, routes and
// options are reported together.
func Resolve(req *Request, env Env) (*Resolved, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: nil request", types.ErrInvalidTrade)
	}
	reg, err := newRegistry(env, req.Tokens)

	in, inErr := reg.lookup(req.Input)
	out, outErr := reg.lookup(req.Output)
	err = multierr.Combine(err, prefix("input", inErr), prefix("output", outErr))

	if len(req.Routes) == 0 {
		err = multierr.Append(err, fmt.Errorf("%w: request has no routes", types.ErrInvalidTrade))
	}
	var trades []core.Trade
	if inErr == nil && outErr == nil {
		for i, r := range req.Routes {
			tr, rErr := resolveRoute(reg, r, in, out, req.TradeType)
			if rErr != nil {
				err = multierr.Append(err, fmt.Errorf("route %d: %w", i, rErr))
				continue
			}
			trades = append(trades, tr)
		}
	}

	opts, oErr := resolveOptions(req.Options, env, in)
	err = multierr.Append(err, prefix("options", oErr))
	if err != nil {
		return nil, err
	}

	rt, err := router.NewRouterTrade(trades...)
	if err != nil {
		return nil, err
	}
	return &Resolved{Name: req.Name, Trade: rt, Options: opts}, nil
}

func prefix(what string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", what, err)
}

func resolveRoute(reg *registry, r Route, in, out types.Currency, tt types.TradeType) (core.Trade, error) {
	proto, err := core.ParseProtocol(r.Protocol)
	if err != nil {
		return core.Trade{}, err
	}
	legs := make([]core.Leg, 0, len(r.Legs))
	for j, l := range r.Legs {
		leg, err := resolveLeg(reg, l, proto)
		if err != nil {
			return core.Trade{}, fmt.Errorf("leg %d: %w", j, err)
		}
		legs = append(legs, leg)
	}
	route, err := core.NewRoute(proto, legs, in, out)
	if err != nil {
		return core.Trade{}, err
	}
	amountIn, err := types.ParseCurrencyAmount(in, r.AmountIn)
	if err != nil {
		return core.Trade{}, fmt.Errorf("amount_in: %w", err)
	}
	amountOut, err := types.ParseCurrencyAmount(out, r.AmountOut)
	if err != nil {
		return core.Trade{}, fmt.Errorf("amount_out: %w", err)
	}
	return core.NewTrade(route, amountIn, amountOut, tt)
}

func resolveLeg(reg *registry, l Leg, routeProto core.Protocol) (core.Leg, error) {
	proto := routeProto
	if l.Protocol != "" {
		p, err := core.ParseProtocol(l.Protocol)
		if err != nil {
			return nil, err
		}
		proto = p
	}
	a, err := reg.lookup(l.Tokens[0])
	if err != nil {
		return nil, err
	}
	b, err := reg.lookup(l.Tokens[1])
	if err != nil {
		return nil, err
	}
	a, b = a.Wrapped(), b.Wrapped()

	switch proto {
	case core.ProtocolV2:
		if l.Fee != 0 {
			return nil, fmt.Errorf("%w: v2 pairs take no fee", types.ErrValidation)
		}
		return v2.NewPair(a, b)
	case core.ProtocolV3:
		if l.Fee == 0 {
			return nil, fmt.Errorf("%w: v3 pool needs a fee", types.ErrValidation)
		}
		return univ3.NewPool(a, b, univ3.FeeAmount(l.Fee))
	}
	return nil, fmt.Errorf("%w: leg protocol %s", types.ErrUnsupportedProtocol, proto)
}

func resolveOptions(o Options, env Env, input types.Currency) (router.SwapOptions, error) {
	var err error
	bips := env.SlippageBps
	if o.SlippageBps != nil {
		bips = *o.SlippageBps
	}
	opts := router.SwapOptions{
		SlippageTolerance: types.PercentFromBips(bips),
		Recipient:         env.Recipient,
	}
	if o.Recipient != "" {
		addr, aErr := parseAddress(o.Recipient)
		err = multierr.Append(err, prefix("recipient", aErr))
		opts.Recipient = addr
	}

	switch {
	case o.Deadline < 0:
		err = multierr.Append(err, fmt.Errorf("%w: negative deadline", types.ErrValidation))
	case o.Deadline > 0:
		opts.Deadline = big.NewInt(o.Deadline)
	case env.DeadlineIn > 0:
		now := time.Now
		if env.Now != nil {
			now = env.Now
		}
		opts.Deadline = big.NewInt(now().Add(env.DeadlineIn).Unix())
	}

	if o.Fee != nil {
		addr, aErr := parseAddress(o.Fee.Recipient)
		err = multierr.Append(err, prefix("fee recipient", aErr))
		opts.Fee = &router.FeeOptions{Fee: types.PercentFromBips(o.Fee.Bips), Recipient: addr}
	}
	if o.Permit != nil {
		p, pErr := resolvePermit(*o.Permit, input)
		err = multierr.Append(err, prefix("permit", pErr))
		opts.InputTokenPermit = p
	}
	return opts, err
}

func resolvePermit(p Permit, input types.Currency) (*permit.Permit, error) {
	var err error
	token := input.Address()
	if p.Token != "" {
		var tErr error
		token, tErr = parseAddress(p.Token)
		err = multierr.Append(err, prefix("token", tErr))
	}
	spender, sErr := parseAddress(p.Spender)
	amount, amErr := parseBig(p.Amount)
	expiration, exErr := parseBig(p.Expiration)
	nonce, nErr := parseBig(p.Nonce)
	deadline, dErr := parseBig(p.SigDeadline)
	sig, sigErr := hexutil.Decode(p.Signature)
	if sigErr != nil {
		sigErr = fmt.Errorf("%w: %v", types.ErrValidation, sigErr)
	}
	err = multierr.Combine(err,
		prefix("spender", sErr),
		prefix("amount", amErr),
		prefix("expiration", exErr),
		prefix("nonce", nErr),
		prefix("sig_deadline", dErr),
		prefix("signature", sigErr),
	)
	if err != nil {
		return nil, err
	}
	return &permit.Permit{
		Details: permit.Details{
			Token:      token,
			Amount:     amount,
			Expiration: expiration,
			Nonce:      nonce,
		},
		Spender:     spender,
		SigDeadline: deadline,
		Signature:   sig,
	}, nil
}

func parseAddress(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("%w: %q is not an address", types.ErrValidation, s)
	}
	return common.HexToAddress(s), nil
}

// parseBig accepts base-10 or 0x-prefixed hex.
func parseBig(s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(strings.TrimSpace(s), 0)
	if !ok || v.Sign() < 0 {
		return nil, fmt.Errorf("%w: %q is not a non-negative integer", types.ErrValidation, s)
	}
	return v, nil
}
