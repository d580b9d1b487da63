package request

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/multierr"

	"github.com/you/route-planner/internal/types"
)

// registry resolves token references by symbol (case-insensitive) or address.
type registry struct {
	bySymbol  map[string]types.Currency
	byAddress map[common.Address]types.Currency
}

// newRegistry always returns a usable registry; bad declarations are
// skipped and reported.
func newRegistry(env Env, tokens []Token) (*registry, error) {
	r := &registry{
		bySymbol:  make(map[string]types.Currency),
		byAddress: make(map[common.Address]types.Currency),
	}
	wrapped := env.Native.Wrapped()
	r.bySymbol[strings.ToUpper(env.Native.Symbol())] = env.Native
	r.bySymbol[strings.ToUpper(wrapped.Symbol())] = wrapped
	r.byAddress[wrapped.Address()] = wrapped

	var err error
	for i, t := range tokens {
		if t.Symbol == "" {
			err = multierr.Append(err, fmt.Errorf("%w: token %d has no symbol", types.ErrValidation, i))
			continue
		}
		if !common.IsHexAddress(t.Address) {
			err = multierr.Append(err, fmt.Errorf("%w: token %s address %q", types.ErrValidation, t.Symbol, t.Address))
			continue
		}
		key := strings.ToUpper(t.Symbol)
		if _, dup := r.bySymbol[key]; dup {
			err = multierr.Append(err, fmt.Errorf("%w: token %s declared twice", types.ErrValidation, t.Symbol))
			continue
		}
		c := types.NewToken(env.ChainID, common.HexToAddress(t.Address), t.Decimals, t.Symbol, t.Name)
		r.bySymbol[key] = c
		r.byAddress[c.Address()] = c
	}
	return r, err
}

func (r *registry) lookup(ref string) (types.Currency, error) {
	ref = strings.TrimSpace(ref)
	if common.IsHexAddress(ref) {
		if c, ok := r.byAddress[common.HexToAddress(ref)]; ok {
			return c, nil
		}
		return types.Currency{}, fmt.Errorf("%w: undeclared token %s", types.ErrValidation, ref)
	}
	if c, ok := r.bySymbol[strings.ToUpper(ref)]; ok {
		return c, nil
	}
	return types.Currency{}, fmt.Errorf("%w: unknown token %q", types.ErrValidation, ref)
}
