package state

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/rlp"

	"dopchain/core/types"
)

// NormalizeAsset canonicalises an asset symbol for state lookups.
func NormalizeAsset(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

func assetKey(symbol string) []byte {
	buf := make([]byte, len(assetPrefix)+len(symbol))
	copy(buf, assetPrefix)
	copy(buf[len(assetPrefix):], symbol)
	return buf
}

func balanceKey(symbol string, addr []byte) []byte {
	buf := make([]byte, len(balancePrefix)+len(symbol)+1+len(addr))
	copy(buf, balancePrefix)
	copy(buf[len(balancePrefix):], symbol)
	buf[len(balancePrefix)+len(symbol)] = ':'
	copy(buf[len(balancePrefix)+len(symbol)+1:], addr)
	return buf
}

func accountKey(symbol string, addr []byte) []byte {
	buf := make([]byte, len(accountPrefix)+len(symbol)+1+len(addr))
	copy(buf, accountPrefix)
	copy(buf[len(accountPrefix):], symbol)
	buf[len(accountPrefix)+len(symbol)] = ':'
	copy(buf[len(accountPrefix)+len(symbol)+1:], addr)
	return buf
}

// AssetMetadata returns the registered metadata for the asset, if present.
func (m *Manager) AssetMetadata(symbol string) (*types.AssetMetadata, bool, error) {
	normalized := NormalizeAsset(symbol)
	if normalized == "" {
		return nil, false, fmt.Errorf("asset symbol required")
	}
	data, ok, err := m.get(assetKey(normalized))
	if err != nil || !ok {
		return nil, false, err
	}
	meta := new(types.AssetMetadata)
	if err := rlp.DecodeBytes(data, meta); err != nil {
		return nil, false, fmt.Errorf("decode asset %s: %w", normalized, err)
	}
	return meta, true, nil
}

// PutAssetMetadata stores the asset metadata under its normalised symbol.
func (m *Manager) PutAssetMetadata(meta *types.AssetMetadata) error {
	if meta == nil {
		return fmt.Errorf("asset metadata required")
	}
	normalized := NormalizeAsset(meta.Symbol)
	if normalized == "" {
		return fmt.Errorf("asset symbol required")
	}
	stored := *meta
	stored.Symbol = normalized
	encoded, err := rlp.EncodeToBytes(&stored)
	if err != nil {
		return err
	}
	return m.put(assetKey(normalized), encoded)
}

// Balance returns the asset balance for the address. Missing entries default
// to zero.
func (m *Manager) Balance(symbol string, addr []byte) (*big.Int, error) {
	normalized := NormalizeAsset(symbol)
	if normalized == "" {
		return nil, fmt.Errorf("asset symbol required")
	}
	data, ok, err := m.get(balanceKey(normalized, addr))
	if err != nil {
		return nil, err
	}
	if !ok {
		return big.NewInt(0), nil
	}
	balance := new(big.Int)
	if err := rlp.DecodeBytes(data, balance); err != nil {
		return nil, fmt.Errorf("decode balance: %w", err)
	}
	return balance, nil
}

// SetBalance overwrites the stored balance for the address.
func (m *Manager) SetBalance(symbol string, addr []byte, amount *big.Int) error {
	normalized := NormalizeAsset(symbol)
	if normalized == "" {
		return fmt.Errorf("asset symbol required")
	}
	if amount == nil {
		amount = big.NewInt(0)
	}
	if amount.Sign() < 0 {
		return fmt.Errorf("balance cannot be negative")
	}
	encoded, err := rlp.EncodeToBytes(amount)
	if err != nil {
		return err
	}
	return m.put(balanceKey(normalized, addr), encoded)
}

// TokenAccount returns the token account record for the address, if present.
func (m *Manager) TokenAccount(symbol string, addr []byte) (*types.TokenAccount, bool, error) {
	normalized := NormalizeAsset(symbol)
	if normalized == "" {
		return nil, false, fmt.Errorf("asset symbol required")
	}
	data, ok, err := m.get(accountKey(normalized, addr))
	if err != nil || !ok {
		return nil, false, err
	}
	account := new(types.TokenAccount)
	if err := rlp.DecodeBytes(data, account); err != nil {
		return nil, false, fmt.Errorf("decode token account: %w", err)
	}
	return account, true, nil
}

// PutTokenAccount stores the token account record keyed by asset and address.
func (m *Manager) PutTokenAccount(addr []byte, account *types.TokenAccount) error {
	if account == nil {
		return fmt.Errorf("token account required")
	}
	normalized := NormalizeAsset(account.Asset)
	if normalized == "" {
		return fmt.Errorf("asset symbol required")
	}
	stored := *account
	stored.Asset = normalized
	encoded, err := rlp.EncodeToBytes(&stored)
	if err != nil {
		return err
	}
	return m.put(accountKey(normalized, addr), encoded)
}
