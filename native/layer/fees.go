package layer

import "math/big"

// Fee schedule for layer transfers, in percent of the gross amount. Rounding
// is truncation toward zero; dust from rounding stays with the sender.
const (
	FeeChallengePercent = 4
	FeeDevPercent       = 2
	FeeLiquidityPercent = 2
	feePercentBase      = 100
)

// FeeBreakdown is the result of splitting a gross transfer amount into the
// net payment and the three fee shares.
type FeeBreakdown struct {
	Gross        *big.Int
	Net          *big.Int
	FeeChallenge *big.Int
	FeeDev       *big.Int
	FeeLiquidity *big.Int
}

// TotalFees returns the sum of the three fee shares.
func (b FeeBreakdown) TotalFees() *big.Int {
	total := new(big.Int).Add(b.FeeChallenge, b.FeeDev)
	return total.Add(total, b.FeeLiquidity)
}

func feeShare(amount *big.Int, percent int64) *big.Int {
	share := new(big.Int).Mul(amount, big.NewInt(percent))
	return share.Quo(share, big.NewInt(feePercentBase))
}

// SplitFees computes the fee breakdown for the gross amount. The invariant
// FeeChallenge + FeeDev + FeeLiquidity + Net == Gross holds for every
// non-negative input; amounts too small to produce fees yield zero-valued
// shares and Net == Gross.
func SplitFees(amount *big.Int) FeeBreakdown {
	gross := big.NewInt(0)
	if amount != nil {
		gross = new(big.Int).Set(amount)
	}
	breakdown := FeeBreakdown{
		Gross:        gross,
		FeeChallenge: feeShare(gross, FeeChallengePercent),
		FeeDev:       feeShare(gross, FeeDevPercent),
		FeeLiquidity: feeShare(gross, FeeLiquidityPercent),
	}
	breakdown.Net = new(big.Int).Sub(gross, breakdown.TotalFees())
	return breakdown
}
