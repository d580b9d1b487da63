package v2

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/you/route-planner/internal/dex/core"
	"github.com/you/route-planner/internal/routerabi"
	"github.com/you/route-planner/internal/types"
)

// Pair is a constant-product pair. Only the token identities matter for encoding.
type Pair struct {
	token0 types.Currency
	token1 types.Currency
}

func NewPair(a, b types.Currency) (*Pair, error) {
	if a.IsNative() || b.IsNative() {
		return nil, fmt.Errorf("%w: pair tokens must be ERC20, got %s/%s", types.ErrValidation, a, b)
	}
	if a.ChainID() != b.ChainID() {
		return nil, fmt.Errorf("%w: pair tokens on chains %d and %d", types.ErrValidation, a.ChainID(), b.ChainID())
	}
	if a.Equal(b) {
		return nil, fmt.Errorf("%w: pair of identical tokens %s", types.ErrValidation, a)
	}
	if b.SortsBefore(a) {
		a, b = b, a
	}
	return &Pair{token0: a, token1: b}, nil
}

func (p *Pair) Protocol() core.Protocol { return core.ProtocolV2 }
func (p *Pair) Token0() types.Currency { return p.token0 }
func (p *Pair) Token1() types.Currency { return p.token1 }

func (p *Pair) String() string {
	return fmt.Sprintf("v2(%s/%s)", p.token0.Symbol(), p.token1.Symbol())
}

// Address derives the pair's CREATE2 address from the factory and its pair
// init code hash.
func (p *Pair) Address(factory common.Address, initCodeHash common.Hash) common.Address {
	salt := crypto.Keccak256Hash(p.token0.Address().Bytes(), p.token1.Address().Bytes())
	return crypto.CreateAddress2(factory, salt, initCodeHash.Bytes())
}

// Mainnet deployment of the canonical pair factory.
var (
	MainnetFactory      = common.HexToAddress("0x5C69bEe701ef814a2B6a3EDD4B1652CB9cc5aA6f")
	MainnetInitCodeHash = common.HexToHash("0x96e8ac4277198ff8b6f785478aa9a39f403cb768dd02cbee326c3e7da348845f")
)

// Encoder turns v2 routes into router swap calls.
type Encoder struct {
	abi *routerabi.ABI
}

func NewEncoder(a *routerabi.ABI) *Encoder {
	return &Encoder{abi: a}
}

func (e *Encoder) Protocol() core.Protocol { return core.ProtocolV2 }

// Encode emits one call carrying the full address path.
func (e *Encoder) Encode(s core.Swap) ([][]byte, error) {
	r := s.Trade.Route
	if r == nil || len(r.Legs) == 0 {
		return nil, fmt.Errorf("%w: v2 route has no legs", types.ErrInvalidTrade)
	}
	if r.Protocol != core.ProtocolV2 {
		return nil, fmt.Errorf("%w: %s route given to v2 encoder", types.ErrUnsupportedProtocol, r.Protocol)
	}
	path := addresses(r.Path())
	fixed, limit := s.Amounts()

	var (
		data []byte
		err  error
	)
	switch s.Trade.Type {
	case types.ExactInput:
		data, err = e.abi.Pack(routerabi.SigSwapExactTokensForTokens, fixed, limit, path, s.Recipient)
	case types.ExactOutput:
		data, err = e.abi.Pack(routerabi.SigSwapTokensForExactTokens, fixed, limit, path, s.Recipient)
	default:
		return nil, fmt.Errorf("%w: unknown trade type %s", types.ErrConfiguration, s.Trade.Type)
	}
	if err != nil {
		return nil, err
	}
	return [][]byte{data}, nil
}

func addresses(cs []types.Currency) []common.Address {
	out := make([]common.Address, len(cs))
	for i, c := range cs {
		out[i] = c.Wrapped().Address()
	}
	return out
}
