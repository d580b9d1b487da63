package univ3

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/you/route-planner/internal/dex/core"
	"github.com/you/route-planner/internal/types"
)

const (
	addrSize = common.AddressLength
	feeSize  = 3
	hopSize  = addrSize + feeSize
)

// EncodeRouteToPath packs token addresses interleaved with 3-byte big-endian
// fees. Exact-output paths run from output back to input.
func EncodeRouteToPath(r *core.Route, exactOutput bool) ([]byte, error) {
	if r == nil || len(r.Legs) == 0 {
		return nil, fmt.Errorf("%w: v3 route has no legs", types.ErrInvalidTrade)
	}
	tokens := r.Path()
	fees := make([]FeeAmount, len(r.Legs))
	for i, l := range r.Legs {
		p, ok := l.(*Pool)
		if !ok {
			return nil, fmt.Errorf("%w: %s leg %d in v3 path", types.ErrUnsupportedProtocol, l.Protocol(), i)
		}
		fees[i] = p.Fee()
	}
	if exactOutput {
		for i, j := 0, len(tokens)-1; i < j; i, j = i+1, j-1 {
			tokens[i], tokens[j] = tokens[j], tokens[i]
		}
		for i, j := 0, len(fees)-1; i < j; i, j = i+1, j-1 {
			fees[i], fees[j] = fees[j], fees[i]
		}
	}

	out := make([]byte, 0, len(fees)*hopSize+addrSize)
	for i, f := range fees {
		out = append(out, tokens[i].Address().Bytes()...)
		out = append(out, byte(f>>16), byte(f>>8), byte(f))
	}
	return append(out, tokens[len(tokens)-1].Address().Bytes()...), nil
}

// Hop is one decoded segment of a packed path.
type Hop struct {
	TokenIn  common.Address
	TokenOut common.Address
	Fee      FeeAmount
}

// DecodePath splits a packed path back into hops.
func DecodePath(path []byte) ([]Hop, error) {
	if len(path) < addrSize+hopSize || (len(path)-addrSize)%hopSize != 0 {
		return nil, fmt.Errorf("%w: malformed v3 path of %d bytes", types.ErrValidation, len(path))
	}
	n := (len(path) - addrSize) / hopSize
	hops := make([]Hop, n)
	for i := 0; i < n; i++ {
		off := i * hopSize
		f := path[off+addrSize : off+hopSize]
		hops[i] = Hop{
			TokenIn:  common.BytesToAddress(path[off : off+addrSize]),
			TokenOut: common.BytesToAddress(path[off+hopSize : off+hopSize+addrSize]),
			Fee:      FeeAmount(uint32(f[0])<<16 | uint32(f[1])<<8 | uint32(f[2])),
		}
	}
	return hops, nil
}
