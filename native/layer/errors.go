package layer

import "errors"

var (
	ErrNotInitialized           = errors.New("layer: config not initialized")
	ErrAlreadyInitialized       = errors.New("layer: config already initialized")
	ErrUnauthorized             = errors.New("layer: unauthorized")
	ErrInvalidAmount            = errors.New("layer: amount must be positive")
	ErrAlreadyBound             = errors.New("layer: referral already bound")
	ErrSelfInvite               = errors.New("layer: participant cannot invite themselves")
	ErrRecipientAccountMismatch = errors.New("layer: recipient account mismatch")
	ErrMintingUnauthorized      = errors.New("layer: derived authority no longer holds minting rights")
	// ErrLedger wraps failures reported by the underlying ledger service, e.g.
	// insufficient balance. Match with errors.Is and unwrap for the cause.
	ErrLedger             = errors.New("layer: ledger service failure")
	errStateNotConfigured = errors.New("layer: state not configured")
	errLedgerNotWired     = errors.New("layer: ledger service not configured")
)
