package token

import (
	"bytes"
	"fmt"
	"math/big"

	"dopchain/core/types"
)

// State describes the persistence hooks the ledger needs from the surrounding
// state implementation.
type State interface {
	AssetMetadata(symbol string) (*types.AssetMetadata, bool, error)
	PutAssetMetadata(meta *types.AssetMetadata) error
	Balance(symbol string, addr []byte) (*big.Int, error)
	SetBalance(symbol string, addr []byte, amount *big.Int) error
	TokenAccount(symbol string, addr []byte) (*types.TokenAccount, bool, error)
	PutTokenAccount(addr []byte, account *types.TokenAccount) error
	AdjustAssetSupply(symbol string, delta *big.Int) (*big.Int, error)
}

// Ledger is the system of record for asset balances. It executes transfers
// and mints against the shared state and enforces mint-authority checks. It
// performs no fee logic of its own; callers compose transfers as needed.
type Ledger struct {
	state State
}

// NewLedger constructs a ledger over the provided state backend.
func NewLedger(state State) *Ledger {
	return &Ledger{state: state}
}

// CreateAsset registers a brand-new asset with the given decimals and mint
// authority. Registering an already-known symbol fails with ErrAssetExists.
func (l *Ledger) CreateAsset(symbol string, decimals uint8, authority [20]byte) error {
	if l == nil || l.state == nil {
		return ErrStateNotConfigured
	}
	_, exists, err := l.state.AssetMetadata(symbol)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: %s", ErrAssetExists, symbol)
	}
	return l.state.PutAssetMetadata(&types.AssetMetadata{
		Symbol:        symbol,
		Decimals:      decimals,
		MintAuthority: authority[:],
	})
}

// Authority returns the current mint authority for the asset.
func (l *Ledger) Authority(symbol string) ([20]byte, error) {
	var out [20]byte
	if l == nil || l.state == nil {
		return out, ErrStateNotConfigured
	}
	meta, exists, err := l.state.AssetMetadata(symbol)
	if err != nil {
		return out, err
	}
	if !exists {
		return out, fmt.Errorf("%w: %s", ErrAssetNotFound, symbol)
	}
	copy(out[:], meta.MintAuthority)
	return out, nil
}

// ReassignAuthority hands the asset's minting rights from current to next.
// The supplied current authority must match the registered one.
func (l *Ledger) ReassignAuthority(symbol string, current, next [20]byte) error {
	if l == nil || l.state == nil {
		return ErrStateNotConfigured
	}
	meta, exists, err := l.state.AssetMetadata(symbol)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: %s", ErrAssetNotFound, symbol)
	}
	if !bytes.Equal(meta.MintAuthority, current[:]) {
		return ErrMintAuthority
	}
	meta.MintAuthority = append([]byte(nil), next[:]...)
	return l.state.PutAssetMetadata(meta)
}

// BalanceOf returns the holder's balance of the asset. Missing entries
// default to zero.
func (l *Ledger) BalanceOf(symbol string, addr [20]byte) (*big.Int, error) {
	if l == nil || l.state == nil {
		return nil, ErrStateNotConfigured
	}
	return l.state.Balance(symbol, addr[:])
}

// Transfer moves amount of the asset between two holders. Zero or negative
// amounts are rejected; callers skip zero-value moves instead of issuing them.
func (l *Ledger) Transfer(symbol string, from, to [20]byte, amount *big.Int) error {
	if l == nil || l.state == nil {
		return ErrStateNotConfigured
	}
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	if _, exists, err := l.state.AssetMetadata(symbol); err != nil {
		return err
	} else if !exists {
		return fmt.Errorf("%w: %s", ErrAssetNotFound, symbol)
	}
	fromBalance, err := l.state.Balance(symbol, from[:])
	if err != nil {
		return err
	}
	if fromBalance.Cmp(amount) < 0 {
		return fmt.Errorf("%w: have %s, need %s", ErrInsufficientBalance, fromBalance, amount)
	}
	if from == to {
		// Debit and credit cancel; writing both from a stale read would
		// double the credit.
		return nil
	}
	toBalance, err := l.state.Balance(symbol, to[:])
	if err != nil {
		return err
	}
	if err := l.state.SetBalance(symbol, from[:], new(big.Int).Sub(fromBalance, amount)); err != nil {
		return err
	}
	return l.state.SetBalance(symbol, to[:], new(big.Int).Add(toBalance, amount))
}

// Mint creates amount new units of the asset for the recipient. The supplied
// authority must match the asset's registered mint authority and the asset
// must not be paused. Total supply is adjusted alongside the balance.
func (l *Ledger) Mint(symbol string, authority, to [20]byte, amount *big.Int) error {
	if l == nil || l.state == nil {
		return ErrStateNotConfigured
	}
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	meta, exists, err := l.state.AssetMetadata(symbol)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: %s", ErrAssetNotFound, symbol)
	}
	if meta.MintPaused {
		return fmt.Errorf("%w: %s", ErrMintPaused, symbol)
	}
	if !bytes.Equal(meta.MintAuthority, authority[:]) {
		return ErrMintAuthority
	}
	balance, err := l.state.Balance(symbol, to[:])
	if err != nil {
		return err
	}
	if err := l.state.SetBalance(symbol, to[:], new(big.Int).Add(balance, amount)); err != nil {
		return err
	}
	_, err = l.state.AdjustAssetSupply(symbol, amount)
	return err
}

// SetMintPaused toggles the asset's mint pause flag. Only the current mint
// authority may change it.
func (l *Ledger) SetMintPaused(symbol string, authority [20]byte, paused bool) error {
	if l == nil || l.state == nil {
		return ErrStateNotConfigured
	}
	meta, exists, err := l.state.AssetMetadata(symbol)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: %s", ErrAssetNotFound, symbol)
	}
	if !bytes.Equal(meta.MintAuthority, authority[:]) {
		return ErrMintAuthority
	}
	meta.MintPaused = paused
	return l.state.PutAssetMetadata(meta)
}

// OpenAccount associates the owner with the asset so launch flows can verify
// the receiving account before funding it.
func (l *Ledger) OpenAccount(symbol string, owner [20]byte) error {
	if l == nil || l.state == nil {
		return ErrStateNotConfigured
	}
	_, exists, err := l.state.TokenAccount(symbol, owner[:])
	if err != nil {
		return err
	}
	if exists {
		return ErrAccountExists
	}
	return l.state.PutTokenAccount(owner[:], &types.TokenAccount{Asset: symbol, Owner: owner[:]})
}

// Account returns the token account record at the address, if one exists.
func (l *Ledger) Account(symbol string, addr [20]byte) (*types.TokenAccount, bool, error) {
	if l == nil || l.state == nil {
		return nil, false, ErrStateNotConfigured
	}
	return l.state.TokenAccount(symbol, addr[:])
}
