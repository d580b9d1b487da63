package univ3

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/you/route-planner/internal/dex/core"
	"github.com/you/route-planner/internal/types"
)

// FeeAmount is a pool fee in hundredths of a bip.
type FeeAmount uint32

const (
	FeeLowest FeeAmount = 100
	FeeLow    FeeAmount = 500
	FeeMedium FeeAmount = 3000
	FeeHigh   FeeAmount = 10000
)

// FeeTiers lists the tiers deployed by the canonical factory.
var FeeTiers = []FeeAmount{FeeLowest, FeeLow, FeeMedium, FeeHigh}

// maxFee is the largest value that fits the uint24 fee slot.
const maxFee = 1<<24 - 1

func (f FeeAmount) Big() *big.Int { return new(big.Int).SetUint64(uint64(f)) }

func (f FeeAmount) String() string { return fmt.Sprintf("%.2f%%", float64(f)/1e4) }

// Pool is a concentrated-liquidity pool identified by its tokens and fee.
type Pool struct {
	token0 types.Currency
	token1 types.Currency
	fee    FeeAmount
}

// NewPool sorts the tokens. Fees outside the standard tiers are accepted as
// long as they fit in uint24.
func NewPool(a, b types.Currency, fee FeeAmount) (*Pool, error) {
	if a.IsNative() || b.IsNative() {
		return nil, fmt.Errorf("%w: pool tokens must be ERC20, got %s/%s", types.ErrValidation, a, b)
	}
	if a.ChainID() != b.ChainID() {
		return nil, fmt.Errorf("%w: pool tokens on chains %d and %d", types.ErrValidation, a.ChainID(), b.ChainID())
	}
	if a.Equal(b) {
		return nil, fmt.Errorf("%w: pool of identical tokens %s", types.ErrValidation, a)
	}
	if fee == 0 || fee > maxFee {
		return nil, fmt.Errorf("%w: fee %d out of range", types.ErrValidation, fee)
	}
	if b.SortsBefore(a) {
		a, b = b, a
	}
	return &Pool{token0: a, token1: b, fee: fee}, nil
}

func (p *Pool) Protocol() core.Protocol { return core.ProtocolV3 }
func (p *Pool) Token0() types.Currency { return p.token0 }
func (p *Pool) Token1() types.Currency { return p.token1 }
func (p *Pool) Fee() FeeAmount { return p.fee }

func (p *Pool) String() string {
	return fmt.Sprintf("v3(%s/%s %s)", p.token0.Symbol(), p.token1.Symbol(), p.fee)
}

// Address derives the pool's CREATE2 address from the factory and its
// pool init code hash. No chain access is needed.
func (p *Pool) Address(factory common.Address, initCodeHash common.Hash) common.Address {
	var key [96]byte
	copy(key[12:32], p.token0.Address().Bytes())
	copy(key[44:64], p.token1.Address().Bytes())
	p.fee.Big().FillBytes(key[64:96])
	salt := crypto.Keccak256Hash(key[:])
	return crypto.CreateAddress2(factory, salt, initCodeHash.Bytes())
}

// Mainnet deployment of the canonical factory.
var (
	MainnetFactory      = common.HexToAddress("0x1F98431c8aD98523631AE4a59f267346ea31F984")
	MainnetInitCodeHash = common.HexToHash("0xe34f199b19b2b4f47f68442619d555527d244f78a3297ea89325f843f87b8b54")
)
