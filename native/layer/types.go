package layer

// Config is the layer's singleton configuration record. Exactly one instance
// exists for the lifetime of the system; it is created by Initialize and
// mutated only through governance-gated operations.
type Config struct {
	Admin              [20]byte
	Governance         [20]byte
	AssetSymbol        string
	FeeWalletChallenge [20]byte
	FeeWalletDev       [20]byte
	FeeWalletLiquidity [20]byte
	RewardPerPeriod    uint64
	// AuthorityDiscriminator seeds the derived authority address. It is fixed
	// at config creation and never taken from caller input.
	AuthorityDiscriminator uint8
}

// Clone returns a copy of the config record.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	clone := *c
	return &clone
}

// ReferralRecord captures a participant's one-time invite relationship. Once
// Bound flips to true the participant and inviter are immutable.
type ReferralRecord struct {
	Bound       bool
	Participant [20]byte
	Inviter     [20]byte
}

// Clone returns a copy of the referral record.
func (r *ReferralRecord) Clone() *ReferralRecord {
	if r == nil {
		return nil
	}
	clone := *r
	return &clone
}
