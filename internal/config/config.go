package config

import (
	"os"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/fleshka4/cpamm/internal/pool"
)

// Config holds application configuration loaded from file.
type Config struct {
	ListenAddr        string        `yaml:"listen_addr"`
	GraceTimeout      time.Duration `yaml:"shutdown_timeout"`
	RequestTimeout    time.Duration `yaml:"request_timeout"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
	LogLevel          string        `yaml:"log_level"`

	// RPCURL enables quotes against on-chain vaults when set.
	RPCURL      string        `yaml:"rpc_url"`
	CallTimeout time.Duration `yaml:"call_timeout"`
	Vaults      []Vault       `yaml:"vaults"`
}

// Vault maps a pool key to its on-chain vault and pool-unit token.
type Vault struct {
	AssetX    string `yaml:"asset_x"`
	AssetY    string `yaml:"asset_y"`
	Seed      uint64 `yaml:"seed"`
	Vault     string `yaml:"vault"`
	UnitToken string `yaml:"unit_token"`
}

// Key returns the pool key the vault belongs to.
func (v Vault) Key() pool.Key {
	return pool.Key{
		AssetX: common.HexToAddress(v.AssetX),
		AssetY: common.HexToAddress(v.AssetY),
		Seed:   v.Seed,
	}
}

// Load reads the config from a YAML file path, applies fallbacks and
// validates it.
func Load(path string) (cfg Config, err error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "os.Open")
	}
	defer func(f *os.File) {
		err = multierr.Append(err, errors.Wrap(f.Close(), "f.Close"))
	}(f)

	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "decoder.Decode")
	}

	cfg.applyFallbacks()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c *Config) applyFallbacks() {
	const defaultTimeout = 5 * time.Second
	if c.ListenAddr == "" {
		c.ListenAddr = ":1337"
	}
	if c.GraceTimeout == 0 {
		c.GraceTimeout = defaultTimeout
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = defaultTimeout
	}
	if c.ReadHeaderTimeout == 0 {
		c.ReadHeaderTimeout = defaultTimeout
	}
	if c.CallTimeout == 0 {
		c.CallTimeout = defaultTimeout
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// Validate reports every problem in the configuration at once.
func (c Config) Validate() error {
	var err error
	if len(c.Vaults) > 0 && c.RPCURL == "" {
		err = multierr.Append(err, errors.New("vaults require rpc_url"))
	}
	for i, v := range c.Vaults {
		for _, f := range []struct{ name, addr string }{
			{"asset_x", v.AssetX},
			{"asset_y", v.AssetY},
			{"vault", v.Vault},
			{"unit_token", v.UnitToken},
		} {
			if !common.IsHexAddress(f.addr) {
				err = multierr.Append(err, errors.Errorf("vaults[%d].%s: %q is not an address", i, f.name, f.addr))
			}
		}
	}
	return errors.Wrap(err, "invalid config")
}
