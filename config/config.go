package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"dopchain/crypto"
)

// Genesis carries the parameters applied on first boot: the managed asset and
// the fee destination wallets for the layer config singleton.
type Genesis struct {
	AssetSymbol        string `toml:"AssetSymbol"`
	AssetDecimals      uint8  `toml:"AssetDecimals"`
	Admin              string `toml:"Admin"`
	FeeWalletChallenge string `toml:"FeeWalletChallenge"`
	FeeWalletDev       string `toml:"FeeWalletDev"`
	FeeWalletLiquidity string `toml:"FeeWalletLiquidity"`
}

type Config struct {
	DataDir     string  `toml:"DataDir"`
	NetworkName string  `toml:"NetworkName"`
	Environment string  `toml:"Environment"`
	Genesis     Genesis `toml:"Genesis"`
}

// Load loads the configuration from the given path, creating a commented
// default file when none exists yet.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.NetworkName) == "" {
		cfg.NetworkName = "dop-local"
	}
	if strings.TrimSpace(cfg.DataDir) == "" {
		cfg.DataDir = defaultDataDir(path)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the genesis parameters for well-formed values. Fee wallets
// and the admin must be valid bech32 addresses when set.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("config required")
	}
	if strings.TrimSpace(c.Genesis.AssetSymbol) == "" {
		return fmt.Errorf("config: Genesis.AssetSymbol required")
	}
	for field, value := range map[string]string{
		"Genesis.Admin":              c.Genesis.Admin,
		"Genesis.FeeWalletChallenge": c.Genesis.FeeWalletChallenge,
		"Genesis.FeeWalletDev":       c.Genesis.FeeWalletDev,
		"Genesis.FeeWalletLiquidity": c.Genesis.FeeWalletLiquidity,
	} {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("config: %s required", field)
		}
		if _, err := crypto.DecodeAddress(value); err != nil {
			return fmt.Errorf("config: %s: %w", field, err)
		}
	}
	return nil
}

// AddressFor decodes the named genesis address field into its raw bytes.
func AddressFor(value string) ([20]byte, error) {
	var out [20]byte
	addr, err := crypto.DecodeAddress(value)
	if err != nil {
		return out, err
	}
	copy(out[:], addr.Bytes())
	return out, nil
}

func defaultDataDir(configPath string) string {
	return filepath.Join(filepath.Dir(configPath), "data")
}

func createDefault(path string) (*Config, error) {
	cfg := &Config{
		DataDir:     defaultDataDir(path),
		NetworkName: "dop-local",
		Environment: "dev",
		Genesis: Genesis{
			AssetSymbol:   "DOP",
			AssetDecimals: 9,
		},
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return nil, err
	}
	// The generated file still needs genesis addresses filled in before the
	// node can boot, so surface that to the operator immediately.
	return cfg, fmt.Errorf("config: wrote default config to %s; fill in Genesis addresses", path)
}
