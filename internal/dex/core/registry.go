package core

import (
	"fmt"

	"github.com/you/route-planner/internal/types"
)

// Registry maps a protocol tag to its encoder. One per router instance.
type Registry struct {
	encoders map[Protocol]Encoder
}

func NewRegistry(encs ...Encoder) *Registry {
	r := &Registry{encoders: make(map[Protocol]Encoder, len(encs))}
	for _, e := range encs {
		r.Register(e)
	}
	return r
}

func (r *Registry) Register(e Encoder) { r.encoders[e.Protocol()] = e }

func (r *Registry) Get(p Protocol) (Encoder, error) {
	e, ok := r.encoders[p]
	if !ok {
		return nil, fmt.Errorf("%w: no encoder for %s routes", types.ErrUnsupportedProtocol, p)
	}
	return e, nil
}

// Encode dispatches the swap to the encoder of its route's protocol.
func (r *Registry) Encode(s Swap) ([][]byte, error) {
	if s.Trade.Route == nil {
		return nil, fmt.Errorf("%w: swap without route", types.ErrInvalidTrade)
	}
	e, err := r.Get(s.Trade.Route.Protocol)
	if err != nil {
		return nil, err
	}
	return e.Encode(s)
}
