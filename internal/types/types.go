package types

import (
	"fmt"
	"strings"
)

type TradeType int

const (
	ExactInput TradeType = iota
	ExactOutput
)

func (t TradeType) String() string {
	switch t {
	case ExactInput:
		return "EXACT_INPUT"
	case ExactOutput:
		return "EXACT_OUTPUT"
	default:
		return fmt.Sprintf("TradeType(%d)", int(t))
	}
}

func ParseTradeType(s string) (TradeType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "EXACT_INPUT", "EXACT_IN", "EXACTINPUT":
		return ExactInput, nil
	case "EXACT_OUTPUT", "EXACT_OUT", "EXACTOUTPUT":
		return ExactOutput, nil
	}
	return 0, fmt.Errorf("%w: unknown trade type %q", ErrValidation, s)
}

// UnmarshalText lets yaml/json decode "exact_input" / "exact_output".
func (t *TradeType) UnmarshalText(b []byte) error {
	v, err := ParseTradeType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

func (t TradeType) MarshalText() ([]byte, error) {
	return []byte(strings.ToLower(t.String())), nil
}
