// Package slippage computes per-route protection bounds with integer rational math.
package slippage

import (
	"fmt"
	"math/big"

	"github.com/you/route-planner/internal/types"
)

// ValidateTolerance requires 0 <= tol < 1.
func ValidateTolerance(tol types.Percent) error {
	if !tol.Valid() {
		return fmt.Errorf("%w: slippage tolerance %s is not a valid fraction", types.ErrValidation, tol)
	}
	if !tol.LessThanOne() {
		return fmt.Errorf("%w: slippage tolerance %s must be below 100%%", types.ErrValidation, tol)
	}
	return nil
}

// MinimumAmountOut = nominalOut - floor(nominalOut * tol).
func MinimumAmountOut(nominalOut *big.Int, tol types.Percent) (*big.Int, error) {
	if err := ValidateTolerance(tol); err != nil {
		return nil, err
	}
	if nominalOut == nil || nominalOut.Sign() < 0 {
		return nil, fmt.Errorf("%w: nominal output must be non-negative", types.ErrValidation)
	}
	return new(big.Int).Sub(nominalOut, tol.MulFloor(nominalOut)), nil
}

// MaximumAmountIn = nominalIn + ceil(nominalIn * tol).
func MaximumAmountIn(nominalIn *big.Int, tol types.Percent) (*big.Int, error) {
	if err := ValidateTolerance(tol); err != nil {
		return nil, err
	}
	if nominalIn == nil || nominalIn.Sign() < 0 {
		return nil, fmt.Errorf("%w: nominal input must be non-negative", types.ErrValidation)
	}
	max := new(big.Int).Add(nominalIn, tol.MulCeil(nominalIn))
	if !types.FitsBits(max, 256) {
		return nil, fmt.Errorf("%w: maximum input %s exceeds uint256", types.ErrValidation, max)
	}
	return max, nil
}

// Bound protects the non-fixed side of a route: the output for exact input,
// the input for exact output.
func Bound(tt types.TradeType, nominal *big.Int, tol types.Percent) (*big.Int, error) {
	switch tt {
	case types.ExactInput:
		return MinimumAmountOut(nominal, tol)
	case types.ExactOutput:
		return MaximumAmountIn(nominal, tol)
	}
	return nil, fmt.Errorf("%w: unknown trade type %s", types.ErrConfiguration, tt)
}
