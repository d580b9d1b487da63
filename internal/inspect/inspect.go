// Package inspect renders router multicalls as readable call lists.
package inspect

import (
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/you/route-planner/internal/dex/univ3"
	"github.com/you/route-planner/internal/routerabi"
)

// Call is one decoded sub-call with its arguments rendered as name=value.
type Call struct {
	Sig  string
	Args []string
}

type Report struct {
	Deadline *big.Int
	Calls    []Call
}

// Describe decodes a multicall payload into its sub-calls.
func Describe(a *routerabi.ABI, data []byte) (Report, error) {
	deadline, calls, err := a.DecodeMulticall(data)
	if err != nil {
		return Report{}, err
	}
	rep := Report{Deadline: deadline, Calls: make([]Call, 0, len(calls))}
	for i, raw := range calls {
		c, err := a.Decode(raw)
		if err != nil {
			return Report{}, fmt.Errorf("call %d: %w", i, err)
		}
		args, err := render(c)
		if err != nil {
			return Report{}, fmt.Errorf("call %d: %w", i, err)
		}
		rep.Calls = append(rep.Calls, Call{Sig: c.Sig, Args: args})
	}
	return rep, nil
}

func render(c routerabi.Call) ([]string, error) {
	switch c.Sig {
	case routerabi.SigExactInputSingle:
		p := routerabi.As[routerabi.ExactInputSingleParams](c.Args[0])
		return []string{
			kv("tokenIn", p.TokenIn), kv("tokenOut", p.TokenOut), kv("fee", univ3.FeeAmount(p.Fee.Uint64())),
			kv("recipient", p.Recipient), kv("amountIn", p.AmountIn), kv("amountOutMinimum", p.AmountOutMinimum),
		}, nil
	case routerabi.SigExactOutputSingle:
		p := routerabi.As[routerabi.ExactOutputSingleParams](c.Args[0])
		return []string{
			kv("tokenIn", p.TokenIn), kv("tokenOut", p.TokenOut), kv("fee", univ3.FeeAmount(p.Fee.Uint64())),
			kv("recipient", p.Recipient), kv("amountOut", p.AmountOut), kv("amountInMaximum", p.AmountInMaximum),
		}, nil
	case routerabi.SigExactInput:
		p := routerabi.As[routerabi.ExactInputParams](c.Args[0])
		path, err := renderPath(p.Path)
		if err != nil {
			return nil, err
		}
		return []string{
			kv("path", path), kv("recipient", p.Recipient),
			kv("amountIn", p.AmountIn), kv("amountOutMinimum", p.AmountOutMinimum),
		}, nil
	case routerabi.SigExactOutput:
		p := routerabi.As[routerabi.ExactOutputParams](c.Args[0])
		path, err := renderPath(p.Path)
		if err != nil {
			return nil, err
		}
		return []string{
			kv("path", path), kv("recipient", p.Recipient),
			kv("amountOut", p.AmountOut), kv("amountInMaximum", p.AmountInMaximum),
		}, nil
	case routerabi.SigPermit2Permit:
		p := routerabi.As[routerabi.PermitSingle](c.Args[0])
		return []string{
			kv("token", p.Details.Token), kv("amount", p.Details.Amount),
			kv("expiration", p.Details.Expiration), kv("nonce", p.Details.Nonce),
			kv("spender", p.Spender), kv("sigDeadline", p.SigDeadline),
			kv("signature", hexutil.Encode(c.Args[1].([]byte))),
		}, nil
	}
	out := make([]string, len(c.Args))
	for i, arg := range c.Args {
		out[i] = value(arg)
	}
	return out, nil
}

// renderPath shows a packed v3 path in swap order, e.g. A -(500)-> B.
func renderPath(path []byte) (string, error) {
	hops, err := univ3.DecodePath(path)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString(hops[0].TokenIn.Hex())
	for _, h := range hops {
		fmt.Fprintf(&b, " -(%d)-> %s", uint32(h.Fee), h.TokenOut.Hex())
	}
	return b.String(), nil
}

func kv(name string, v interface{}) string { return name + "=" + value(v) }

func value(v interface{}) string {
	switch x := v.(type) {
	case common.Address:
		return x.Hex()
	case []common.Address:
		parts := make([]string, len(x))
		for i, a := range x {
			parts[i] = a.Hex()
		}
		return "[" + strings.Join(parts, ",") + "]"
	case *big.Int:
		return x.String()
	case []byte:
		return hexutil.Encode(x)
	case univ3.FeeAmount:
		return fmt.Sprintf("%d", uint32(x))
	}
	return fmt.Sprint(v)
}

// Write prints the report one call per line.
func (r Report) Write(w io.Writer) error {
	if r.Deadline != nil {
		if _, err := fmt.Fprintf(w, "deadline %s\n", r.Deadline); err != nil {
			return err
		}
	}
	for i, c := range r.Calls {
		if _, err := fmt.Fprintf(w, "%2d %s\n", i, c.Sig); err != nil {
			return err
		}
		for _, a := range c.Args {
			if _, err := fmt.Fprintf(w, "     %s\n", a); err != nil {
				return err
			}
		}
	}
	return nil
}
