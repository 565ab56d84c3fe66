package state

var (
	assetPrefix       = []byte("asset:")
	balancePrefix     = []byte("balance:")
	accountPrefix     = []byte("account:")
	assetSupplyPrefix = []byte("asset/supply/")
	layerConfigKey    = []byte("layer/config")
	layerReferralPref = []byte("layer/referral/")
	layerPeriodSeqKey = []byte("layer/reward/period-seq")
)
