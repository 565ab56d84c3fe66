package layer

import (
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// authorityLabel is the fixed seed material for the derived authority. The
// label is a compile-time constant: the authority must never be derived from
// caller-supplied seed material.
const authorityLabel = "dopchain/layer/authority"

// DeriveAuthority computes the deterministic, keyless signing identity used
// for system-originated ledger mutations. Any caller can recompute the
// address, but only the engine re-derives it internally to authorize mints
// and authority handoffs; it is never accepted as a parameter.
func DeriveAuthority(discriminator uint8) [20]byte {
	digest := ethcrypto.Keccak256([]byte(authorityLabel), []byte{discriminator})
	var addr [20]byte
	copy(addr[:], digest[12:])
	return addr
}

// newAuthorityDiscriminator produces the discriminator fixed at config
// creation. It depends only on the fixed label so the derivation is stable
// across restarts.
func newAuthorityDiscriminator() uint8 {
	digest := ethcrypto.Keccak256([]byte(authorityLabel))
	return digest[0]
}
