package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Chain struct {
		ID     uint64 `yaml:"id"`
		Native struct {
			Symbol  string `yaml:"symbol"`
			Name    string `yaml:"name"`
			Wrapped string `yaml:"wrapped"`
		} `yaml:"native"`
	} `yaml:"chain"`

	Router struct {
		// ABIPath replaces the built-in router interface when set.
		ABIPath     string `yaml:"abi_path"`
		Address     string `yaml:"address"`
		MsgSender   string `yaml:"msg_sender"`
		AddressThis string `yaml:"address_this"`
	} `yaml:"router"`

	Defaults struct {
		SlippageBps int64  `yaml:"slippage_bps"`
		Recipient   string `yaml:"recipient"`
		DeadlineSec int64  `yaml:"deadline_sec"`
	} `yaml:"defaults"`

	Planner struct {
		Workers int `yaml:"workers"`
	} `yaml:"planner"`

	Metrics struct {
		Addr string `yaml:"addr"`
	} `yaml:"metrics"`

	Redis struct {
		Enabled  bool   `yaml:"enabled"`
		Addr     string `yaml:"addr"`
		DB       int    `yaml:"db"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		Stream   string `yaml:"stream"`
		PlanNS   string `yaml:"plan_ns"`
		MaxLen   int64  `yaml:"max_len"`
	} `yaml:"redis"`

	Interop struct {
		Path string `yaml:"path"`
	} `yaml:"interop"`

	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

// Default returns the mainnet configuration used when no file is given.
func Default() *Config {
	var c Config
	c.applyDefaults()
	return &c
}

func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.Chain.ID == 0 {
		c.Chain.ID = 1
	}
	if c.Chain.Native.Symbol == "" {
		c.Chain.Native.Symbol = "ETH"
	}
	if c.Chain.Native.Name == "" {
		c.Chain.Native.Name = "Ether"
	}
	if c.Chain.Native.Wrapped == "" && c.Chain.ID == 1 {
		c.Chain.Native.Wrapped = "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"
	}
	if c.Router.Address == "" {
		c.Router.Address = "0x68b3465833fb72A70ecDF485E0e4C7bD8665Fc45"
	}
	if c.Router.MsgSender == "" {
		c.Router.MsgSender = "0x0000000000000000000000000000000000000001"
	}
	if c.Router.AddressThis == "" {
		c.Router.AddressThis = "0x0000000000000000000000000000000000000002"
	}
	if c.Defaults.SlippageBps == 0 {
		c.Defaults.SlippageBps = 50
	}
	if c.Planner.Workers == 0 {
		c.Planner.Workers = 4
	}
	if c.Redis.Addr == "" {
		c.Redis.Addr = "127.0.0.1:6379"
	}
	if c.Redis.Stream == "" {
		c.Redis.Stream = "plan:stream"
	}
	if c.Redis.PlanNS == "" {
		c.Redis.PlanNS = "plan:latest:"
	}
	if c.Redis.MaxLen == 0 {
		c.Redis.MaxLen = 10_000
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

// Validate checks addresses and ranges that defaults cannot fix.
func (c *Config) Validate() error {
	for name, v := range map[string]string{
		"chain.native.wrapped": c.Chain.Native.Wrapped,
		"router.address":       c.Router.Address,
		"router.msg_sender":    c.Router.MsgSender,
		"router.address_this":  c.Router.AddressThis,
	} {
		if !common.IsHexAddress(v) {
			return fmt.Errorf("%s: %q is not an address", name, v)
		}
	}
	if c.Defaults.Recipient != "" && !common.IsHexAddress(c.Defaults.Recipient) {
		return fmt.Errorf("defaults.recipient: %q is not an address", c.Defaults.Recipient)
	}
	if c.Defaults.SlippageBps < 0 || c.Defaults.SlippageBps >= 10_000 {
		return fmt.Errorf("defaults.slippage_bps: %d out of [0, 10000)", c.Defaults.SlippageBps)
	}
	if c.Planner.Workers < 1 {
		return fmt.Errorf("planner.workers: must be positive")
	}
	return nil
}

func (c *Config) WrappedNative() common.Address { return common.HexToAddress(c.Chain.Native.Wrapped) }
func (c *Config) RouterAddress() common.Address { return common.HexToAddress(c.Router.Address) }
func (c *Config) MsgSender() common.Address { return common.HexToAddress(c.Router.MsgSender) }
func (c *Config) AddressThis() common.Address { return common.HexToAddress(c.Router.AddressThis) }

func (c *Config) DefaultRecipient() common.Address {
	if c.Defaults.Recipient == "" {
		return common.Address{}
	}
	return common.HexToAddress(c.Defaults.Recipient)
}

// DefaultDeadline is zero when requests carry no deadline by default.
func (c *Config) DefaultDeadline() time.Duration {
	return time.Duration(c.Defaults.DeadlineSec) * time.Second
}
