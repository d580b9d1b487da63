// Package multicall orders the planned calls and wraps them in the router's
// batched entry point.
package multicall

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/you/route-planner/internal/routerabi"
	"github.com/you/route-planner/internal/types"
)

// MethodParameters is the transaction body: calldata for the router and the
// native value to attach.
type MethodParameters struct {
	Calldata []byte
	Value    *big.Int
}

func (m MethodParameters) CalldataHex() string { return hexutil.Encode(m.Calldata) }

func (m MethodParameters) ValueHex() string {
	if m.Value == nil {
		return "0x0"
	}
	return hexutil.EncodeBig(m.Value)
}

type jsonParams struct {
	Calldata hexutil.Bytes `json:"calldata"`
	Value    *hexutil.Big  `json:"value"`
}

func (m MethodParameters) MarshalJSON() ([]byte, error) {
	v := m.Value
	if v == nil {
		v = new(big.Int)
	}
	return json.Marshal(jsonParams{Calldata: m.Calldata, Value: (*hexutil.Big)(v)})
}

func (m *MethodParameters) UnmarshalJSON(b []byte) error {
	var p jsonParams
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	m.Calldata = p.Calldata
	m.Value = new(big.Int)
	if p.Value != nil {
		m.Value = p.Value.ToInt()
	}
	return nil
}

// Batch groups calls by the stage that produced them. Stages run in field order.
type Batch struct {
	Permit   []byte
	Prelude  [][]byte
	Routes   [][]byte
	Epilogue [][]byte
}

// Calls flattens the batch in execution order.
func (b Batch) Calls() [][]byte {
	out := make([][]byte, 0, len(b.Prelude)+len(b.Routes)+len(b.Epilogue)+1)
	if len(b.Permit) > 0 {
		out = append(out, b.Permit)
	}
	out = append(out, b.Prelude...)
	out = append(out, b.Routes...)
	return append(out, b.Epilogue...)
}

type Composer struct {
	abi *routerabi.ABI
}

func NewComposer(a *routerabi.ABI) *Composer {
	return &Composer{abi: a}
}

// Compose wraps the batch in multicall, deadline-gated when deadline is set.
func (c *Composer) Compose(b Batch, deadline, value *big.Int) (MethodParameters, error) {
	calls := b.Calls()
	if len(b.Routes) == 0 {
		return MethodParameters{}, fmt.Errorf("%w: no route calls to compose", types.ErrInvalidTrade)
	}
	if value == nil {
		value = new(big.Int)
	}

	var (
		data []byte
		err  error
	)
	if deadline != nil {
		if !types.FitsBits(deadline, 256) {
			return MethodParameters{}, fmt.Errorf("%w: deadline %s out of range", types.ErrValidation, deadline)
		}
		data, err = c.abi.Pack(routerabi.SigMulticallDeadline, deadline, calls)
	} else {
		data, err = c.abi.Pack(routerabi.SigMulticall, calls)
	}
	if err != nil {
		return MethodParameters{}, err
	}
	return MethodParameters{Calldata: data, Value: new(big.Int).Set(value)}, nil
}
