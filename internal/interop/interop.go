// Package interop keeps a JSON file of named calldata fixtures that fork
// tests on the contract side replay.
package interop

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/you/route-planner/internal/multicall"
)

// Fixtures maps a fixture name to its method parameters.
type Fixtures map[string]multicall.MethodParameters

// Registry is a fixture file. Writes merge into what is on disk.
type Registry struct {
	path string
	mu   sync.Mutex
}

func Open(path string) *Registry {
	return &Registry{path: path}
}

func (r *Registry) Path() string { return r.path }

// Load reads all fixtures. A missing file is an empty set.
func (r *Registry) Load() (Fixtures, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load()
}

func (r *Registry) load() (Fixtures, error) {
	b, err := os.ReadFile(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return Fixtures{}, nil
	}
	if err != nil {
		return nil, err
	}
	fx := Fixtures{}
	if len(b) == 0 {
		return fx, nil
	}
	if err := json.Unmarshal(b, &fx); err != nil {
		return nil, fmt.Errorf("parse %s: %w", r.path, err)
	}
	return fx, nil
}

// Register stores mp under name, replacing an earlier entry.
func (r *Registry) Register(name string, mp multicall.MethodParameters) error {
	if name == "" {
		return fmt.Errorf("register fixture: empty name")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	fx, err := r.load()
	if err != nil {
		return err
	}
	fx[name] = mp
	// map keys marshal sorted, so the file is stable across runs
	b, err := json.MarshalIndent(fx, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(r.path), ".interop-*.json")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), r.path)
}

// HexToDecimalString renders a 0x-prefixed quantity in base 10.
func HexToDecimalString(hex string) (string, error) {
	v, err := hexutil.DecodeBig(hex)
	if err != nil {
		return "", fmt.Errorf("decode %q: %w", hex, err)
	}
	return v.String(), nil
}
