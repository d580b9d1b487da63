package router

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/you/route-planner/internal/permit"
	"github.com/you/route-planner/internal/types"
)

// Router-resolved placeholder addresses: the router substitutes the
// transaction sender and itself for these.
var (
	MsgSender   = common.HexToAddress("0x0000000000000000000000000000000000000001")
	AddressThis = common.HexToAddress("0x0000000000000000000000000000000000000002")
)

// SwapOptions controls protection and delivery of one encoding.
type SwapOptions struct {
	SlippageTolerance types.Percent
	// Recipient of the output. The zero address means the transaction sender.
	Recipient common.Address
	// Deadline (unix seconds) gates the whole multicall when set.
	Deadline         *big.Int
	InputTokenPermit *permit.Permit
	Fee              *FeeOptions
}

// FeeOptions takes a share of the output for Recipient.
type FeeOptions struct {
	Fee       types.Percent
	Recipient common.Address
}
