package types

// TokenAccount associates a holder with an asset. An account must exist before
// balances of the asset can be received by its owner through launch flows; the
// Owner recorded here is checked against the funding recipient.
type TokenAccount struct {
	Asset string `json:"asset"`
	Owner []byte `json:"owner"`
}

// AssetMetadata describes a fungible asset registered with the ledger.
type AssetMetadata struct {
	Symbol        string `json:"symbol"`
	Decimals      uint8  `json:"decimals"`
	MintAuthority []byte `json:"mintAuthority"`
	MintPaused    bool   `json:"mintPaused"`
}
