package types

import "errors"

var (
	// ErrValidation: an input value is out of range (slippage, amounts, permit target).
	ErrValidation = errors.New("validation error")
	// ErrConfiguration: trades inside one aggregate disagree (trade type, currencies).
	ErrConfiguration = errors.New("configuration error")
	// ErrInvalidTrade: no trades, or a route without usable legs.
	ErrInvalidTrade = errors.New("invalid trade")
	// ErrUnsupportedProtocol: an encoder met a leg or mode it cannot represent.
	ErrUnsupportedProtocol = errors.New("unsupported protocol")
)

// ErrorClass returns a short label for the taxonomy sentinel wrapped by err.
func ErrorClass(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	case errors.Is(err, ErrInvalidTrade):
		return "invalid_trade"
	case errors.Is(err, ErrUnsupportedProtocol):
		return "unsupported_protocol"
	default:
		return "other"
	}
}
