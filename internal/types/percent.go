package types

import (
	"fmt"
	"math/big"
)

// Percent is a rational fraction num/den. 5/100 is 5%.
type Percent struct {
	num *big.Int
	den *big.Int
}

var bipsBase = big.NewInt(10_000)

func NewPercent(num, den int64) Percent {
	return Percent{num: big.NewInt(num), den: big.NewInt(den)}
}

func NewPercentBig(num, den *big.Int) Percent {
	return Percent{num: new(big.Int).Set(num), den: new(big.Int).Set(den)}
}

func PercentFromBips(bips int64) Percent {
	return Percent{num: big.NewInt(bips), den: new(big.Int).Set(bipsBase)}
}

func (p Percent) Numerator() *big.Int { return new(big.Int).Set(p.num) }
func (p Percent) Denominator() *big.Int { return new(big.Int).Set(p.den) }

// Valid reports whether the fraction is well formed: den > 0 and num >= 0.
func (p Percent) Valid() bool {
	return p.num != nil && p.den != nil && p.den.Sign() > 0 && p.num.Sign() >= 0
}

// LessThanOne reports num < den.
func (p Percent) LessThanOne() bool {
	return p.num.Cmp(p.den) < 0
}

func (p Percent) IsZero() bool { return p.num == nil || p.num.Sign() == 0 }

// MulFloor returns floor(x * num / den).
func (p Percent) MulFloor(x *big.Int) *big.Int {
	n := new(big.Int).Mul(x, p.num)
	return n.Quo(n, p.den)
}

// MulCeil returns ceil(x * num / den) for non-negative x.
func (p Percent) MulCeil(x *big.Int) *big.Int {
	n := new(big.Int).Mul(x, p.num)
	q, r := new(big.Int).QuoRem(n, p.den, new(big.Int))
	if r.Sign() != 0 {
		q.Add(q, big.NewInt(1))
	}
	return q
}

// Bips returns floor(p * 10000), the unit the router's fee parameters take.
func (p Percent) Bips() *big.Int {
	return p.MulFloor(bipsBase)
}

func (p Percent) String() string {
	if !p.Valid() {
		return "invalid%"
	}
	r := new(big.Rat).SetFrac(new(big.Int).Mul(p.num, big.NewInt(100)), p.den)
	return r.FloatString(4) + "%"
}

// Fraction is an exact share used for diagnostics.
type Fraction struct {
	Num *big.Int
	Den *big.Int
}

func (f Fraction) Rat() *big.Rat {
	if f.Den == nil || f.Den.Sign() == 0 {
		return new(big.Rat)
	}
	return new(big.Rat).SetFrac(f.Num, f.Den)
}

// Float is lossy and only meant for logs.
func (f Fraction) Float() float64 {
	v, _ := f.Rat().Float64()
	return v
}

func (f Fraction) String() string {
	return fmt.Sprintf("%s/%s", f.Num, f.Den)
}
