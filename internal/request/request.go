// Package request reads swap requests from YAML and resolves them into
// router trades and options.
package request

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/you/route-planner/internal/types"
)

// Request is one swap as written by an operator or produced by a route finder.
type Request struct {
	Name      string          `yaml:"name"`
	TradeType types.TradeType `yaml:"trade_type"`
	Input     string          `yaml:"input"`
	Output    string          `yaml:"output"`
	Tokens    []Token         `yaml:"tokens"`
	Routes    []Route         `yaml:"routes"`
	Options   Options         `yaml:"options"`
}

// Token declares an ERC20 the routes may reference by symbol.
type Token struct {
	Symbol   string `yaml:"symbol"`
	Name     string `yaml:"name"`
	Address  string `yaml:"address"`
	Decimals uint8  `yaml:"decimals"`
}

type Route struct {
	Protocol string `yaml:"protocol"`
	Legs     []Leg  `yaml:"legs"`

	// Human amounts, e.g. "1.5", scaled by the currency decimals.
	AmountIn  string `yaml:"amount_in"`
	AmountOut string `yaml:"amount_out"`
}

// Leg names its two tokens. Protocol defaults to the route's; Fee applies
// to v3 pools only.
type Leg struct {
	Protocol string    `yaml:"protocol"`
	Tokens   [2]string `yaml:"tokens"`
	Fee      uint32    `yaml:"fee"`
}

type Options struct {
	SlippageBps *int64  `yaml:"slippage_bps"`
	Recipient   string  `yaml:"recipient"`
	Deadline    int64   `yaml:"deadline"`
	Fee         *Fee    `yaml:"fee"`
	Permit      *Permit `yaml:"permit"`
}

type Fee struct {
	Bips      int64  `yaml:"bips"`
	Recipient string `yaml:"recipient"`
}

// Permit carries decimal or 0x-hex integers as strings.
type Permit struct {
	Token       string `yaml:"token"`
	Amount      string `yaml:"amount"`
	Expiration  string `yaml:"expiration"`
	Nonce       string `yaml:"nonce"`
	Spender     string `yaml:"spender"`
	SigDeadline string `yaml:"sig_deadline"`
	Signature   string `yaml:"signature"`
}

// Parse decodes a request, rejecting unknown fields.
func Parse(r io.Reader) (*Request, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var req Request
	if err := dec.Decode(&req); err != nil {
		return nil, fmt.Errorf("%w: decode request: %v", types.ErrValidation, err)
	}
	return &req, nil
}

func Load(path string) (*Request, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	req, err := Parse(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if req.Name == "" {
		req.Name = path
	}
	return req, nil
}
