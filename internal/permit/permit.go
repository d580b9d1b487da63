// Package permit builds the gasless-approval call that lets the router pull
// the input token within the same transaction.
package permit

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/you/route-planner/internal/routerabi"
	"github.com/you/route-planner/internal/types"
)

// Details is the allowance being granted.
type Details struct {
	Token      common.Address
	Amount     *big.Int // uint160
	Expiration *big.Int // uint48
	Nonce      *big.Int // uint48
}

// Permit is a signed single-token allowance. The signature is passed through
// untouched; the on-chain contract is the only verifier.
type Permit struct {
	Details     Details
	Spender     common.Address
	SigDeadline *big.Int
	Signature   []byte
}

// Validate checks that the permit targets input and that every field fits
// its on-chain width.
func (p Permit) Validate(input types.Currency) error {
	if input.IsNative() {
		return fmt.Errorf("%w: permit given for native input %s", types.ErrValidation, input)
	}
	if p.Details.Token != input.Address() {
		return fmt.Errorf("%w: permit token %s does not match input %s", types.ErrValidation, p.Details.Token.Hex(), input)
	}
	for _, f := range []struct {
		name string
		v    *big.Int
		bits int
	}{
		{"amount", p.Details.Amount, 160},
		{"expiration", p.Details.Expiration, 48},
		{"nonce", p.Details.Nonce, 48},
		{"sigDeadline", p.SigDeadline, 256},
	} {
		if f.v == nil {
			return fmt.Errorf("%w: permit %s is missing", types.ErrValidation, f.name)
		}
		if !types.FitsBits(f.v, f.bits) {
			return fmt.Errorf("%w: permit %s %s does not fit uint%d", types.ErrValidation, f.name, f.v, f.bits)
		}
	}
	if len(p.Signature) == 0 {
		return fmt.Errorf("%w: permit signature is empty", types.ErrValidation)
	}
	return nil
}

// Encode validates p against the input currency and packs the permit call.
func Encode(a *routerabi.ABI, p Permit, input types.Currency) ([]byte, error) {
	if err := p.Validate(input); err != nil {
		return nil, err
	}
	single := routerabi.PermitSingle{
		Details: routerabi.PermitDetails{
			Token:      p.Details.Token,
			Amount:     p.Details.Amount,
			Expiration: p.Details.Expiration,
			Nonce:      p.Details.Nonce,
		},
		Spender:     p.Spender,
		SigDeadline: p.SigDeadline,
	}
	return a.Pack(routerabi.SigPermit2Permit, single, p.Signature)
}

// JoinSignature packs r, s and v into the 65-byte form the contract expects.
func JoinSignature(r, s common.Hash, v byte) []byte {
	sig := make([]byte, 0, 65)
	sig = append(sig, r.Bytes()...)
	sig = append(sig, s.Bytes()...)
	return append(sig, v)
}
