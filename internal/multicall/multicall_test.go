package multicall

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/you/route-planner/internal/routerabi"
	"github.com/you/route-planner/internal/types"
)

func TestCompose_Order(t *testing.T) {
	a := routerabi.Default()
	b := Batch{
		Permit:   []byte{0x01},
		Prelude:  [][]byte{{0x02}},
		Routes:   [][]byte{{0x03}, {0x04}},
		Epilogue: [][]byte{{0x05}},
	}
	mp, err := NewComposer(a).Compose(b, nil, big.NewInt(7))
	require.NoError(t, err)

	deadline, calls, err := a.DecodeMulticall(mp.Calldata)
	require.NoError(t, err)
	assert.Nil(t, deadline)
	assert.Equal(t, [][]byte{{0x01}, {0x02}, {0x03}, {0x04}, {0x05}}, calls)
	assert.Equal(t, "0x7", mp.ValueHex())
	assert.Equal(t, "0xac9650d8", mp.CalldataHex()[:10])
}

func TestCompose_Deadline(t *testing.T) {
	a := routerabi.Default()
	mp, err := NewComposer(a).Compose(Batch{Routes: [][]byte{{0xaa}}}, big.NewInt(1_700_000_000), nil)
	require.NoError(t, err)

	deadline, calls, err := a.DecodeMulticall(mp.Calldata)
	require.NoError(t, err)
	require.NotNil(t, deadline)
	assert.Equal(t, int64(1_700_000_000), deadline.Int64())
	assert.Len(t, calls, 1)
	assert.Equal(t, "0x0", mp.ValueHex())
	assert.Equal(t, "0x5ae401dc", mp.CalldataHex()[:10])
}

func TestCompose_Errors(t *testing.T) {
	c := NewComposer(routerabi.Default())
	_, err := c.Compose(Batch{Prelude: [][]byte{{0x01}}}, nil, nil)
	assert.ErrorIs(t, err, types.ErrInvalidTrade)

	_, err = c.Compose(Batch{Routes: [][]byte{{0x01}}}, big.NewInt(-1), nil)
	assert.ErrorIs(t, err, types.ErrValidation)
}

func TestMethodParameters_JSON(t *testing.T) {
	mp := MethodParameters{Calldata: []byte{0xde, 0xad}, Value: big.NewInt(255)}
	b, err := json.Marshal(mp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"calldata":"0xdead","value":"0xff"}`, string(b))

	var back MethodParameters
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, mp.Calldata, back.Calldata)
	assert.Equal(t, int64(255), back.Value.Int64())
}
