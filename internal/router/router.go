// Package router turns a RouterTrade and SwapOptions into the calldata and
// value of a single router multicall.
package router

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/you/route-planner/internal/dex/core"
	"github.com/you/route-planner/internal/dex/mixed"
	"github.com/you/route-planner/internal/dex/univ3"
	v2 "github.com/you/route-planner/internal/dex/v2"
	"github.com/you/route-planner/internal/multicall"
	"github.com/you/route-planner/internal/payments"
	"github.com/you/route-planner/internal/permit"
	"github.com/you/route-planner/internal/routerabi"
	"github.com/you/route-planner/internal/slippage"
	"github.com/you/route-planner/internal/types"
)

// Config carries everything deployment specific. Zero values fall back to
// the built-in ABI and the standard placeholder addresses.
type Config struct {
	ABI         *routerabi.ABI
	MsgSender   common.Address
	AddressThis common.Address
}

// SwapRouter encodes trades for one router deployment. It holds no state
// between calls and is safe for concurrent use.
type SwapRouter struct {
	abi         *routerabi.ABI
	reg         *core.Registry
	payments    *payments.Builder
	composer    *multicall.Composer
	msgSender   common.Address
	addressThis common.Address
	log         *zap.Logger
}

func New(cfg Config, log *zap.Logger) *SwapRouter {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.ABI == nil {
		cfg.ABI = routerabi.Default()
	}
	if cfg.MsgSender == (common.Address{}) {
		cfg.MsgSender = MsgSender
	}
	if cfg.AddressThis == (common.Address{}) {
		cfg.AddressThis = AddressThis
	}

	reg := core.NewRegistry(v2.NewEncoder(cfg.ABI), univ3.NewEncoder(cfg.ABI))
	reg.Register(mixed.NewEncoder(reg, cfg.AddressThis))

	return &SwapRouter{
		abi:         cfg.ABI,
		reg:         reg,
		payments:    payments.NewBuilder(cfg.ABI, cfg.MsgSender),
		composer:    multicall.NewComposer(cfg.ABI),
		msgSender:   cfg.MsgSender,
		addressThis: cfg.AddressThis,
		log:         log,
	}
}

// Registry exposes the protocol encoders, e.g. to add one.
func (r *SwapRouter) Registry() *core.Registry { return r.reg }

// SwapCallParameters produces the multicall for t. On error no partial
// calldata is returned.
func (r *SwapRouter) SwapCallParameters(t *RouterTrade, opts SwapOptions) (multicall.MethodParameters, error) {
	if t == nil {
		return multicall.MethodParameters{}, fmt.Errorf("%w: nil trade", types.ErrInvalidTrade)
	}
	if err := slippage.ValidateTolerance(opts.SlippageTolerance); err != nil {
		return multicall.MethodParameters{}, err
	}

	recipient := opts.Recipient
	if recipient == (common.Address{}) {
		recipient = r.msgSender
	}
	var fee *payments.Fee
	if opts.Fee != nil {
		f, err := payments.NewFee(opts.Fee.Fee, opts.Fee.Recipient)
		if err != nil {
			return multicall.MethodParameters{}, err
		}
		fee = f
	}

	settle := payments.Settlement{
		Input:     t.InputCurrency(),
		Output:    t.OutputCurrency(),
		TradeType: t.TradeType(),
		MaxInput:  new(big.Int),
		MinOutput: new(big.Int),
		Recipient: recipient,
		Fee:       fee,
	}
	routeRecipient := recipient
	if settle.RouterCustody() {
		routeRecipient = r.addressThis
	}

	var batch multicall.Batch
	for i, tr := range t.Trades() {
		bound, err := slippage.Bound(tr.Type, tr.Nominal().Raw(), opts.SlippageTolerance)
		if err != nil {
			return multicall.MethodParameters{}, fmt.Errorf("route %d: %w", i, err)
		}
		calls, err := r.reg.Encode(core.Swap{Trade: tr, Bound: bound, Recipient: routeRecipient})
		if err != nil {
			return multicall.MethodParameters{}, fmt.Errorf("route %d (%s): %w", i, tr.Route.Protocol, err)
		}
		batch.Routes = append(batch.Routes, calls...)

		if tr.Type == types.ExactInput {
			settle.MaxInput.Add(settle.MaxInput, tr.Input.Raw())
			settle.MinOutput.Add(settle.MinOutput, bound)
		} else {
			settle.MaxInput.Add(settle.MaxInput, bound)
			settle.MinOutput.Add(settle.MinOutput, tr.Output.Raw())
		}
	}
	if !types.FitsBits(settle.MaxInput, 256) || !types.FitsBits(settle.MinOutput, 256) {
		return multicall.MethodParameters{}, fmt.Errorf("%w: aggregate amounts exceed uint256", types.ErrValidation)
	}

	if opts.InputTokenPermit != nil {
		data, err := permit.Encode(r.abi, *opts.InputTokenPermit, t.InputCurrency())
		if err != nil {
			return multicall.MethodParameters{}, err
		}
		batch.Permit = data
	}

	var err error
	if batch.Prelude, err = r.payments.Prelude(settle); err != nil {
		return multicall.MethodParameters{}, err
	}
	if batch.Epilogue, err = r.payments.Epilogue(settle); err != nil {
		return multicall.MethodParameters{}, err
	}

	mp, err := r.composer.Compose(batch, opts.Deadline, settle.Value())
	if err != nil {
		return multicall.MethodParameters{}, err
	}
	r.log.Debug("swap encoded",
		zap.String("type", t.TradeType().String()),
		zap.String("input", t.InputCurrency().String()),
		zap.String("output", t.OutputCurrency().String()),
		zap.Int("v2_routes", len(t.V2)),
		zap.Int("v3_routes", len(t.V3)),
		zap.Int("mixed_routes", len(t.Mixed)),
		zap.Int("calls", len(batch.Calls())),
		zap.String("value", mp.Value.String()),
		zap.Bool("router_custody", settle.RouterCustody()),
	)
	return mp, nil
}
