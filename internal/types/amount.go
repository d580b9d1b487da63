package types

import (
	"fmt"
	"math/big"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

// CurrencyAmount is a raw (smallest unit) amount of a currency.
type CurrencyAmount struct {
	Currency Currency
	raw      *big.Int
}

func NewCurrencyAmount(c Currency, raw *big.Int) (CurrencyAmount, error) {
	if raw == nil {
		return CurrencyAmount{}, fmt.Errorf("%w: nil amount of %s", ErrValidation, c)
	}
	if raw.Sign() < 0 {
		return CurrencyAmount{}, fmt.Errorf("%w: negative amount %s of %s", ErrValidation, raw, c)
	}
	if !FitsBits(raw, 256) {
		return CurrencyAmount{}, fmt.Errorf("%w: amount %s of %s exceeds uint256", ErrValidation, raw, c)
	}
	return CurrencyAmount{Currency: c, raw: new(big.Int).Set(raw)}, nil
}

func MustCurrencyAmount(c Currency, raw *big.Int) CurrencyAmount {
	a, err := NewCurrencyAmount(c, raw)
	if err != nil {
		panic(err)
	}
	return a
}

// FromRawString accepts a base-10 integer string.
func FromRawString(c Currency, s string) (CurrencyAmount, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return CurrencyAmount{}, fmt.Errorf("%w: bad raw amount %q", ErrValidation, s)
	}
	return NewCurrencyAmount(c, v)
}

// ParseCurrencyAmount parses a human amount ("1.5") scaled by the currency decimals.
func ParseCurrencyAmount(c Currency, s string) (CurrencyAmount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return CurrencyAmount{}, fmt.Errorf("%w: bad amount %q: %v", ErrValidation, s, err)
	}
	scaled := d.Shift(int32(c.decimals))
	if !scaled.Equal(scaled.Truncate(0)) {
		return CurrencyAmount{}, fmt.Errorf("%w: amount %q has more than %d decimals", ErrValidation, s, c.decimals)
	}
	return NewCurrencyAmount(c, scaled.BigInt())
}

// Raw returns a copy of the raw amount.
func (a CurrencyAmount) Raw() *big.Int {
	if a.raw == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(a.raw)
}

func (a CurrencyAmount) IsZero() bool { return a.raw == nil || a.raw.Sign() == 0 }

func (a CurrencyAmount) Add(o CurrencyAmount) (CurrencyAmount, error) {
	if !a.Currency.Equal(o.Currency) {
		return CurrencyAmount{}, fmt.Errorf("%w: cannot add %s to %s", ErrConfiguration, o.Currency, a.Currency)
	}
	return NewCurrencyAmount(a.Currency, new(big.Int).Add(a.Raw(), o.Raw()))
}

// ToExact renders the amount in human units, e.g. "1.5".
func (a CurrencyAmount) ToExact() string {
	return decimal.NewFromBigInt(a.Raw(), -int32(a.Currency.decimals)).String()
}

func (a CurrencyAmount) String() string {
	return a.ToExact() + " " + a.Currency.Symbol()
}

// FitsBits reports whether non-negative x is representable in an unsigned integer of the given width.
func FitsBits(x *big.Int, bits int) bool {
	if x == nil || x.Sign() < 0 {
		return false
	}
	u, overflow := uint256.FromBig(x)
	if overflow {
		return false
	}
	return u.BitLen() <= bits
}
