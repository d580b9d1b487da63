// Package payments handles the native currency around the route calls:
// wrapping the attached value, unwrapping or sweeping output held by the
// router, and refunding what the routes did not spend.
package payments

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/you/route-planner/internal/routerabi"
	"github.com/you/route-planner/internal/types"
)

// maxFeeBips is the router's upper bound on an output fee (1%).
const maxFeeBips = 100

// Fee takes a cut of the output on its way to the recipient.
type Fee struct {
	Bips      *big.Int
	Recipient common.Address
}

// NewFee converts a percentage into router fee bips. The router accepts
// 0 < bips <= 100.
func NewFee(p types.Percent, recipient common.Address) (*Fee, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("%w: fee %s is not a valid fraction", types.ErrValidation, p)
	}
	bips := p.Bips()
	if bips.Sign() <= 0 || bips.Cmp(big.NewInt(maxFeeBips)) > 0 {
		return nil, fmt.Errorf("%w: fee %s must be between 0.01%% and 1%%", types.ErrValidation, p)
	}
	if recipient == (common.Address{}) {
		return nil, fmt.Errorf("%w: fee recipient is the zero address", types.ErrValidation)
	}
	return &Fee{Bips: bips, Recipient: recipient}, nil
}

// Settlement describes the money flow of one whole trade.
type Settlement struct {
	Input     types.Currency
	Output    types.Currency
	TradeType types.TradeType
	// MaxInput is what routes may spend in total: the input amounts for exact
	// input, the per-route maximum inputs for exact output.
	MaxInput *big.Int
	// MinOutput is what routes must deliver in total: the per-route minimum
	// outputs for exact input, the output amounts for exact output.
	MinOutput *big.Int
	Recipient common.Address
	Fee       *Fee
}

// RouterCustody reports whether routes must deliver to the router rather
// than the recipient.
func (s Settlement) RouterCustody() bool {
	return s.Output.IsNative() || s.Fee != nil
}

// Value is the native amount to attach to the transaction.
func (s Settlement) Value() *big.Int {
	if !s.Input.IsNative() || s.MaxInput == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(s.MaxInput)
}

// Builder packs payment calls against the router ABI.
type Builder struct {
	abi       *routerabi.ABI
	msgSender common.Address
}

// NewBuilder takes the address the router resolves to the transaction sender.
func NewBuilder(a *routerabi.ABI, msgSender common.Address) *Builder {
	return &Builder{abi: a, msgSender: msgSender}
}

// Prelude returns the calls that go before any route call.
func (b *Builder) Prelude(s Settlement) ([][]byte, error) {
	if !s.Input.IsNative() {
		return nil, nil
	}
	wrap, err := b.WrapETH(s.Value())
	if err != nil {
		return nil, err
	}
	return [][]byte{wrap}, nil
}

// Epilogue returns the calls that go after every route call.
func (b *Builder) Epilogue(s Settlement) ([][]byte, error) {
	var calls [][]byte
	add := func(data []byte, err error) error {
		if err != nil {
			return err
		}
		calls = append(calls, data)
		return nil
	}

	switch {
	case s.Output.IsNative():
		if err := add(b.UnwrapWETH9(s.MinOutput, s.Recipient, s.Fee)); err != nil {
			return nil, err
		}
	case s.Fee != nil:
		if err := add(b.SweepToken(s.Output, s.MinOutput, s.Recipient, s.Fee)); err != nil {
			return nil, err
		}
	}

	if s.Input.IsNative() {
		if s.TradeType == types.ExactOutput {
			// leftover wrapped input goes back as native
			if err := add(b.UnwrapWETH9(new(big.Int), b.msgSender, nil)); err != nil {
				return nil, err
			}
		}
		if err := add(b.RefundETH()); err != nil {
			return nil, err
		}
	}
	return calls, nil
}

func (b *Builder) WrapETH(amount *big.Int) ([]byte, error) {
	return b.abi.Pack(routerabi.SigWrapETH, amount)
}

// UnwrapWETH9 unwraps at least minimum and sends it to recipient, minus the
// fee when one is set.
func (b *Builder) UnwrapWETH9(minimum *big.Int, recipient common.Address, fee *Fee) ([]byte, error) {
	if minimum == nil {
		return nil, fmt.Errorf("%w: unwrap minimum is nil", types.ErrValidation)
	}
	if fee != nil {
		return b.abi.Pack(routerabi.SigUnwrapWETH9WithFee, minimum, recipient, fee.Bips, fee.Recipient)
	}
	return b.abi.Pack(routerabi.SigUnwrapWETH9, minimum, recipient)
}

func (b *Builder) SweepToken(token types.Currency, minimum *big.Int, recipient common.Address, fee *Fee) ([]byte, error) {
	if token.IsNative() {
		return nil, fmt.Errorf("%w: cannot sweep native %s", types.ErrValidation, token)
	}
	if minimum == nil {
		return nil, fmt.Errorf("%w: sweep minimum is nil", types.ErrValidation)
	}
	if fee != nil {
		return b.abi.Pack(routerabi.SigSweepTokenWithFee, token.Address(), minimum, recipient, fee.Bips, fee.Recipient)
	}
	return b.abi.Pack(routerabi.SigSweepToken, token.Address(), minimum, recipient)
}

func (b *Builder) RefundETH() ([]byte, error) {
	return b.abi.Pack(routerabi.SigRefundETH)
}
