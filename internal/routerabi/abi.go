// Package routerabi is the boundary to the on-chain router: it owns the ABI,
// packs calls by canonical signature and decodes produced calldata.
package routerabi

import (
	"bytes"
	"fmt"
	"io"
	"math/big"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// Canonical signatures of every router entry point the planner calls.
const (
	SigMulticall         = "multicall(bytes[])"
	SigMulticallDeadline = "multicall(uint256,bytes[])"

	SigSwapExactTokensForTokens = "swapExactTokensForTokens(uint256,uint256,address[],address)"
	SigSwapTokensForExactTokens = "swapTokensForExactTokens(uint256,uint256,address[],address)"

	SigExactInputSingle  = "exactInputSingle((address,address,uint24,address,uint256,uint256,uint160))"
	SigExactInput        = "exactInput((bytes,address,uint256,uint256))"
	SigExactOutputSingle = "exactOutputSingle((address,address,uint24,address,uint256,uint256,uint160))"
	SigExactOutput       = "exactOutput((bytes,address,uint256,uint256))"

	SigWrapETH            = "wrapETH(uint256)"
	SigUnwrapWETH9        = "unwrapWETH9(uint256,address)"
	SigUnwrapWETH9WithFee = "unwrapWETH9WithFee(uint256,address,uint256,address)"
	SigRefundETH          = "refundETH()"
	SigSweepToken         = "sweepToken(address,uint256,address)"
	SigSweepTokenWithFee  = "sweepTokenWithFee(address,uint256,address,uint256,address)"

	SigPermit2Permit = "permit2Permit(((address,uint160,uint48,uint48),address,uint256),bytes)"
)

var requiredSigs = []string{
	SigMulticall, SigMulticallDeadline,
	SigSwapExactTokensForTokens, SigSwapTokensForExactTokens,
	SigExactInputSingle, SigExactInput, SigExactOutputSingle, SigExactOutput,
	SigWrapETH, SigUnwrapWETH9, SigUnwrapWETH9WithFee, SigRefundETH,
	SigSweepToken, SigSweepTokenWithFee, SigPermit2Permit,
}

type ExactInputSingleParams struct {
	TokenIn           common.Address
	TokenOut          common.Address
	Fee               *big.Int
	Recipient         common.Address
	AmountIn          *big.Int
	AmountOutMinimum  *big.Int
	SqrtPriceLimitX96 *big.Int
}

type ExactOutputSingleParams struct {
	TokenIn           common.Address
	TokenOut          common.Address
	Fee               *big.Int
	Recipient         common.Address
	AmountOut         *big.Int
	AmountInMaximum   *big.Int
	SqrtPriceLimitX96 *big.Int
}

type ExactInputParams struct {
	Path             []byte
	Recipient        common.Address
	AmountIn         *big.Int
	AmountOutMinimum *big.Int
}

type ExactOutputParams struct {
	Path            []byte
	Recipient       common.Address
	AmountOut       *big.Int
	AmountInMaximum *big.Int
}

type PermitDetails struct {
	Token      common.Address
	Amount     *big.Int
	Expiration *big.Int
	Nonce      *big.Int
}

type PermitSingle struct {
	Details     PermitDetails
	Spender     common.Address
	SigDeadline *big.Int
}

// ABI is a parsed router interface indexed by canonical signature, so
// overloaded names such as multicall resolve unambiguously.
type ABI struct {
	abi   abi.ABI
	bySig map[string]abi.Method
}

// Parse reads a JSON ABI and checks that every entry point the planner needs is present.
func Parse(r io.Reader) (*ABI, error) {
	parsed, err := abi.JSON(r)
	if err != nil {
		return nil, fmt.Errorf("parse router abi: %w", err)
	}
	a := &ABI{abi: parsed, bySig: make(map[string]abi.Method, len(parsed.Methods))}
	for _, m := range parsed.Methods {
		a.bySig[m.Sig] = m
	}
	var missing []string
	for _, sig := range requiredSigs {
		if _, ok := a.bySig[sig]; !ok {
			missing = append(missing, sig)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("router abi is missing %s", strings.Join(missing, ", "))
	}
	return a, nil
}

// Load parses the ABI at path, or the built-in one when path is empty.
func Load(path string) (*ABI, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read router abi: %w", err)
	}
	return Parse(bytes.NewReader(b))
}

// Default returns the built-in SwapRouter02-compatible interface.
func Default() *ABI {
	a, err := Parse(strings.NewReader(defaultRouterABI))
	if err != nil {
		panic(err)
	}
	return a
}

// Method looks up an entry point by canonical signature.
func (a *ABI) Method(sig string) (abi.Method, error) {
	m, ok := a.bySig[sig]
	if !ok {
		return abi.Method{}, fmt.Errorf("router abi has no method %s", sig)
	}
	return m, nil
}

func (a *ABI) Selector(sig string) ([4]byte, error) {
	var sel [4]byte
	m, err := a.Method(sig)
	if err != nil {
		return sel, err
	}
	copy(sel[:], m.ID)
	return sel, nil
}

// Pack encodes selector + arguments of the method with the given signature.
func (a *ABI) Pack(sig string, args ...interface{}) ([]byte, error) {
	m, err := a.Method(sig)
	if err != nil {
		return nil, err
	}
	enc, err := m.Inputs.Pack(args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", m.Name, err)
	}
	out := make([]byte, 0, len(m.ID)+len(enc))
	out = append(out, m.ID...)
	return append(out, enc...), nil
}

// Call is one decoded router call.
type Call struct {
	Sig  string
	Name string
	Args []interface{}
}

// Decode splits calldata into its method and arguments.
func (a *ABI) Decode(data []byte) (Call, error) {
	if len(data) < 4 {
		return Call{}, fmt.Errorf("calldata too short: %d bytes", len(data))
	}
	m, err := a.abi.MethodById(data[:4])
	if err != nil {
		return Call{}, fmt.Errorf("unknown selector %x: %w", data[:4], err)
	}
	args, err := m.Inputs.Unpack(data[4:])
	if err != nil {
		return Call{}, fmt.Errorf("unpack %s: %w", m.Sig, err)
	}
	return Call{Sig: m.Sig, Name: m.RawName, Args: args}, nil
}

// DecodeMulticall unwraps a multicall payload. deadline is nil for the plain variant.
func (a *ABI) DecodeMulticall(data []byte) (deadline *big.Int, calls [][]byte, err error) {
	c, err := a.Decode(data)
	if err != nil {
		return nil, nil, err
	}
	switch c.Sig {
	case SigMulticall:
		return nil, c.Args[0].([][]byte), nil
	case SigMulticallDeadline:
		return c.Args[0].(*big.Int), c.Args[1].([][]byte), nil
	}
	return nil, nil, fmt.Errorf("not a multicall: %s", c.Sig)
}

// As converts a decoded tuple argument into one of the param structs above.
func As[T any](arg interface{}) T {
	return *abi.ConvertType(arg, new(T)).(*T)
}
