package token

import "errors"

var (
	ErrAssetNotFound       = errors.New("token: asset not found")
	ErrAssetExists         = errors.New("token: asset already registered")
	ErrInvalidAmount       = errors.New("token: amount must be positive")
	ErrInsufficientBalance = errors.New("token: insufficient balance")
	ErrMintAuthority       = errors.New("token: caller is not the mint authority")
	ErrMintPaused          = errors.New("token: minting paused for asset")
	ErrAccountExists       = errors.New("token: account already open")
	ErrStateNotConfigured  = errors.New("token: state not configured")
)
