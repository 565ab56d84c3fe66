package events

import (
	"math/big"
	"strconv"

	"dopchain/core/types"
)

const (
	// TypeConfigUpdated is emitted when governance changes a config field.
	TypeConfigUpdated = "layer.config.updated"
	// TypeLayerTransfer is emitted for fee-splitting transfers inside the layer.
	TypeLayerTransfer = "layer.transfer"
	// TypeReferralBound is emitted when a participant binds their inviter.
	TypeReferralBound = "layer.referral.bound"
	// TypeAssetMinted is emitted for admin-gated on-demand mints.
	TypeAssetMinted = "layer.asset.minted"
	// TypeAssetLaunched is emitted when a new asset is created with supply.
	TypeAssetLaunched = "layer.asset.launched"
	// TypeValidatorRewardMinted is emitted for the periodic validator reward.
	TypeValidatorRewardMinted = "layer.validator.reward"
)

// ConfigUpdated records a governance mutation of the config singleton.
type ConfigUpdated struct {
	Governance      [20]byte
	RewardPerPeriod uint64
}

func (ConfigUpdated) EventType() string { return TypeConfigUpdated }

func (e ConfigUpdated) Event() *types.Event {
	return &types.Event{
		Type: TypeConfigUpdated,
		Attributes: map[string]string{
			"governance":      formatAddress(e.Governance),
			"rewardPerPeriod": strconv.FormatUint(e.RewardPerPeriod, 10),
		},
	}
}

// LayerTransfer records a completed fee-splitting transfer.
type LayerTransfer struct {
	Asset        string
	From         [20]byte
	To           [20]byte
	Gross        *big.Int
	Net          *big.Int
	FeeChallenge *big.Int
	FeeDev       *big.Int
	FeeLiquidity *big.Int
	Timestamp    int64
}

func (LayerTransfer) EventType() string { return TypeLayerTransfer }

func (e LayerTransfer) Event() *types.Event {
	attrs := map[string]string{
		"from":         formatAddress(e.From),
		"to":           formatAddress(e.To),
		"grossAmount":  formatAmount(e.Gross),
		"netAmount":    formatAmount(e.Net),
		"feeChallenge": formatAmount(e.FeeChallenge),
		"feeDev":       formatAmount(e.FeeDev),
		"feeLiquidity": formatAmount(e.FeeLiquidity),
		"timestamp":    strconv.FormatInt(e.Timestamp, 10),
	}
	if asset := normalizeAsset(e.Asset); asset != "" {
		attrs["asset"] = asset
	}
	return &types.Event{Type: TypeLayerTransfer, Attributes: attrs}
}

// ReferralBound records a one-time referral relationship.
type ReferralBound struct {
	Participant  [20]byte
	Inviter      [20]byte
	RewardAmount *big.Int
}

func (ReferralBound) EventType() string { return TypeReferralBound }

func (e ReferralBound) Event() *types.Event {
	return &types.Event{
		Type: TypeReferralBound,
		Attributes: map[string]string{
			"participant":  formatAddress(e.Participant),
			"inviter":      formatAddress(e.Inviter),
			"rewardAmount": formatAmount(e.RewardAmount),
		},
	}
}

// AssetMinted records an admin-gated mint.
type AssetMinted struct {
	Asset  string
	To     [20]byte
	Amount *big.Int
}

func (AssetMinted) EventType() string { return TypeAssetMinted }

func (e AssetMinted) Event() *types.Event {
	attrs := map[string]string{
		"to":     formatAddress(e.To),
		"amount": formatAmount(e.Amount),
	}
	if asset := normalizeAsset(e.Asset); asset != "" {
		attrs["asset"] = asset
	}
	return &types.Event{Type: TypeAssetMinted, Attributes: attrs}
}

// AssetLaunched records the creation of a new asset and its initial supply.
type AssetLaunched struct {
	Asset         string
	Recipient     [20]byte
	InitialSupply *big.Int
	Decimals      uint8
}

func (AssetLaunched) EventType() string { return TypeAssetLaunched }

func (e AssetLaunched) Event() *types.Event {
	return &types.Event{
		Type: TypeAssetLaunched,
		Attributes: map[string]string{
			"asset":         normalizeAsset(e.Asset),
			"recipient":     formatAddress(e.Recipient),
			"initialSupply": formatAmount(e.InitialSupply),
			"decimals":      strconv.FormatUint(uint64(e.Decimals), 10),
		},
	}
}

// ValidatorRewardMinted records a periodic validator reward payout.
type ValidatorRewardMinted struct {
	Validator [20]byte
	Amount    *big.Int
	Period    uint64
	Timestamp int64
}

func (ValidatorRewardMinted) EventType() string { return TypeValidatorRewardMinted }

func (e ValidatorRewardMinted) Event() *types.Event {
	return &types.Event{
		Type: TypeValidatorRewardMinted,
		Attributes: map[string]string{
			"validator": formatAddress(e.Validator),
			"amount":    formatAmount(e.Amount),
			"period":    strconv.FormatUint(e.Period, 10),
			"timestamp": strconv.FormatInt(e.Timestamp, 10),
		},
	}
}
