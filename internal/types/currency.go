package types

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// Currency is either the chain's native asset or an ERC20 token. It is a
// comparable value; use Equal for identity checks.
type Currency struct {
	chainID  uint64
	native   bool
	address  common.Address // token address, or the wrapped token for native
	decimals uint8
	symbol   string
	name     string
}

func NewToken(chainID uint64, address common.Address, decimals uint8, symbol, name string) Currency {
	return Currency{
		chainID:  chainID,
		address:  address,
		decimals: decimals,
		symbol:   symbol,
		name:     name,
	}
}

// NewNative builds the native currency; wrapped is its ERC20 representation.
func NewNative(chainID uint64, symbol, name string, wrapped Currency) (Currency, error) {
	if wrapped.native {
		return Currency{}, fmt.Errorf("%w: wrapped currency of %s must be a token", ErrValidation, symbol)
	}
	if wrapped.chainID != chainID {
		return Currency{}, fmt.Errorf("%w: wrapped token is on chain %d, native on %d", ErrValidation, wrapped.chainID, chainID)
	}
	return Currency{
		chainID:  chainID,
		native:   true,
		address:  wrapped.address,
		decimals: wrapped.decimals,
		symbol:   symbol,
		name:     name,
	}, nil
}

func (c Currency) ChainID() uint64 { return c.chainID }
func (c Currency) IsNative() bool { return c.native }
func (c Currency) IsToken() bool { return !c.native }
func (c Currency) Decimals() uint8 { return c.decimals }
func (c Currency) Symbol() string { return c.symbol }
func (c Currency) Name() string { return c.name }
func (c Currency) IsZero() bool { return c == Currency{} }

// Address is the token address; for the native currency it is the zero address.
func (c Currency) Address() common.Address {
	if c.native {
		return common.Address{}
	}
	return c.address
}

// Wrapped returns the token used by pools: the wrapped token for native, itself otherwise.
func (c Currency) Wrapped() Currency {
	if !c.native {
		return c
	}
	return Currency{
		chainID:  c.chainID,
		address:  c.address,
		decimals: c.decimals,
		symbol:   "W" + c.symbol,
		name:     "Wrapped " + c.name,
	}
}

// Equal compares by identity: native by chain, tokens by chain and address.
func (c Currency) Equal(o Currency) bool {
	if c.native != o.native || c.chainID != o.chainID {
		return false
	}
	if c.native {
		return true
	}
	return c.address == o.address
}

// SortsBefore orders tokens by address, the way pair/pool token0 is chosen.
func (c Currency) SortsBefore(o Currency) bool {
	a, b := c.Wrapped().address, o.Wrapped().address
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

func (c Currency) String() string {
	if c.native {
		return c.symbol
	}
	if c.symbol != "" {
		return fmt.Sprintf("%s(%s)", c.symbol, c.address.Hex())
	}
	return c.address.Hex()
}
