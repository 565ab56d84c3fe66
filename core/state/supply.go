package state

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
)

func assetSupplyKey(symbol string) []byte {
	normalized := NormalizeAsset(symbol)
	key := make([]byte, len(assetSupplyPrefix)+len(normalized))
	copy(key, assetSupplyPrefix)
	copy(key[len(assetSupplyPrefix):], normalized)
	return key
}

func (m *Manager) writeAssetSupply(symbol string, total *big.Int) error {
	if total == nil {
		total = big.NewInt(0)
	}
	encoded, err := rlp.EncodeToBytes(total)
	if err != nil {
		return err
	}
	return m.put(assetSupplyKey(symbol), encoded)
}

// AssetSupply returns the persisted total supply for the provided asset.
// Missing entries default to zero.
func (m *Manager) AssetSupply(symbol string) (*big.Int, error) {
	normalized := NormalizeAsset(symbol)
	if normalized == "" {
		return nil, fmt.Errorf("asset symbol required")
	}
	data, ok, err := m.get(assetSupplyKey(normalized))
	if err != nil {
		return nil, err
	}
	if !ok {
		return big.NewInt(0), nil
	}
	total := new(big.Int)
	if err := rlp.DecodeBytes(data, total); err != nil {
		return nil, err
	}
	return total, nil
}

// AdjustAssetSupply increments the stored total supply by the supplied delta
// and returns the updated total.
func (m *Manager) AdjustAssetSupply(symbol string, delta *big.Int) (*big.Int, error) {
	normalized := NormalizeAsset(symbol)
	if normalized == "" {
		return nil, fmt.Errorf("asset symbol required")
	}
	if delta == nil {
		delta = big.NewInt(0)
	}
	current, err := m.AssetSupply(normalized)
	if err != nil {
		return nil, err
	}
	updated := new(big.Int).Add(current, delta)
	if updated.Sign() < 0 {
		return nil, fmt.Errorf("asset %s supply underflow", normalized)
	}
	if err := m.writeAssetSupply(normalized, updated); err != nil {
		return nil, err
	}
	return updated, nil
}
