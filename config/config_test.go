package config

import (
	"os"
	"path/filepath"
	"testing"

	"dopchain/crypto"
)

func testAddr(b byte) string {
	raw := make([]byte, crypto.AddressLength)
	raw[0] = b
	return crypto.MustNewAddress(crypto.DopPrefix, raw).String()
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadValidConfig(t *testing.T) {
	path := writeConfig(t, `
DataDir = "/tmp/dopchain"
NetworkName = "dop-test"

[Genesis]
AssetSymbol = "DOP"
AssetDecimals = 9
Admin = "`+testAddr(0x01)+`"
FeeWalletChallenge = "`+testAddr(0xc1)+`"
FeeWalletDev = "`+testAddr(0xc2)+`"
FeeWalletLiquidity = "`+testAddr(0xc3)+`"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Genesis.AssetSymbol != "DOP" || cfg.Genesis.AssetDecimals != 9 {
		t.Fatalf("unexpected genesis: %+v", cfg.Genesis)
	}
	if cfg.NetworkName != "dop-test" {
		t.Fatalf("unexpected network name %q", cfg.NetworkName)
	}
}

func TestLoadRejectsBadAddress(t *testing.T) {
	path := writeConfig(t, `
[Genesis]
AssetSymbol = "DOP"
Admin = "not-an-address"
FeeWalletChallenge = "`+testAddr(0xc1)+`"
FeeWalletDev = "`+testAddr(0xc2)+`"
FeeWalletLiquidity = "`+testAddr(0xc3)+`"
`)
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for malformed admin address")
	}
}

func TestLoadCreatesDefaultFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error prompting operator to fill in genesis addresses")
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("default config file must be created: %v", err)
	}
}

func TestDefaultsApplied(t *testing.T) {
	path := writeConfig(t, `
[Genesis]
AssetSymbol = "DOP"
Admin = "`+testAddr(0x01)+`"
FeeWalletChallenge = "`+testAddr(0xc1)+`"
FeeWalletDev = "`+testAddr(0xc2)+`"
FeeWalletLiquidity = "`+testAddr(0xc3)+`"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.NetworkName != "dop-local" {
		t.Fatalf("expected default network name, got %q", cfg.NetworkName)
	}
	if cfg.DataDir == "" {
		t.Fatalf("expected default data dir")
	}
}

func TestAddressFor(t *testing.T) {
	encoded := testAddr(0x07)
	raw, err := AddressFor(encoded)
	if err != nil {
		t.Fatalf("address for: %v", err)
	}
	if raw[0] != 0x07 {
		t.Fatalf("unexpected raw address: %x", raw)
	}
	if _, err := AddressFor("bogus"); err == nil {
		t.Fatalf("expected error for malformed address")
	}
}
