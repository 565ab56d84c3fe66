package layer

import (
	"bytes"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"dopchain/core/events"
	"dopchain/core/types"
	"dopchain/native/token"
	"dopchain/observability/metrics"
)

// State describes the persistence hooks the layer engine needs from the
// surrounding state implementation.
type State interface {
	LayerConfig() (*Config, bool, error)
	PutLayerConfig(cfg *Config) error
	LayerReferral(participant [20]byte) (*ReferralRecord, bool, error)
	PutLayerReferral(record *ReferralRecord) error
	LayerNextRewardPeriod() (uint64, error)
}

// LedgerService is the external system of record for balances. The engine
// composes its operations out of these calls and treats any failure as a
// single-operation failure.
type LedgerService interface {
	Transfer(symbol string, from, to [20]byte, amount *big.Int) error
	Mint(symbol string, authority, to [20]byte, amount *big.Int) error
	CreateAsset(symbol string, decimals uint8, authority [20]byte) error
	ReassignAuthority(symbol string, current, next [20]byte) error
	Authority(symbol string) ([20]byte, error)
	Account(symbol string, addr [20]byte) (*types.TokenAccount, bool, error)
	BalanceOf(symbol string, addr [20]byte) (*big.Int, error)
}

// Engine orchestrates the layer's state transitions: the config singleton,
// fee-splitting transfers, referral binding, and the gated mint operations.
//
// Every operation is a single atomic unit: authority and precondition checks
// run before any ledger call, and the caller commits or resets the backing
// state as one piece. The engine never retries.
type Engine struct {
	state   State
	ledger  LedgerService
	emitter events.Emitter
	nowFn   func() time.Time
	metrics *metrics.LayerMetrics
}

// Operation names used for metrics labels.
const (
	opInitialize        = "initialize"
	opUpdateConfig      = "update_config"
	opReassignAuthority = "reassign_minting_authority"
	opTransferWithFees  = "transfer_with_fees"
	opBindReferral      = "bind_referral"
	opMintOnDemand      = "mint_on_demand"
	opLaunchAsset       = "launch_asset"
	opValidatorReward   = "mint_validator_reward"
)

// NewEngine constructs a layer engine with default no-op dependencies.
func NewEngine() *Engine {
	return &Engine{
		emitter: events.NoopEmitter{},
		nowFn:   func() time.Time { return time.Now().UTC() },
	}
}

// SetState wires the engine to the state backend providing persistence.
func (e *Engine) SetState(state State) { e.state = state }

// SetLedger wires the engine to the token ledger service.
func (e *Engine) SetLedger(ledger LedgerService) { e.ledger = ledger }

// SetEmitter configures the event emitter used by the engine. Passing nil
// resets the emitter to a no-op implementation.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		e.emitter = events.NoopEmitter{}
		return
	}
	e.emitter = emitter
}

// SetNowFunc overrides the time source used to stamp events. Nil restores the
// default UTC clock.
func (e *Engine) SetNowFunc(now func() time.Time) {
	if now == nil {
		e.nowFn = func() time.Time { return time.Now().UTC() }
		return
	}
	e.nowFn = now
}

// SetMetrics attaches the operation counters. Nil disables metric recording.
func (e *Engine) SetMetrics(m *metrics.LayerMetrics) { e.metrics = m }

func (e *Engine) ready() error {
	if e == nil || e.state == nil {
		return errStateNotConfigured
	}
	if e.ledger == nil {
		return errLedgerNotWired
	}
	return nil
}

func (e *Engine) observe(op string, err error) {
	if e != nil && e.metrics != nil {
		e.metrics.ObserveOperation(op, err)
	}
}

func (e *Engine) loadConfig() (*Config, error) {
	cfg, ok, err := e.state.LayerConfig()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotInitialized
	}
	return cfg, nil
}

// wrapLedger maps ledger service failures onto the layer error kinds. Mint
// authority rejections surface as ErrMintingUnauthorized; everything else is
// wrapped in ErrLedger so callers can still unwrap the cause.
func wrapLedger(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, token.ErrMintAuthority) {
		return fmt.Errorf("%w: %w", ErrMintingUnauthorized, err)
	}
	return fmt.Errorf("%w: %w", ErrLedger, err)
}

// Initialize creates the config singleton. It is callable exactly once; the
// caller becomes both admin and governance and the reward rate starts at
// zero. The authority discriminator is fixed here and never changes.
func (e *Engine) Initialize(caller [20]byte, assetSymbol string, feeWallets [3][20]byte) (err error) {
	defer func() { e.observe(opInitialize, err) }()
	if err = e.ready(); err != nil {
		return err
	}
	if _, ok, cfgErr := e.state.LayerConfig(); cfgErr != nil {
		return cfgErr
	} else if ok {
		return ErrAlreadyInitialized
	}
	symbol := strings.ToUpper(strings.TrimSpace(assetSymbol))
	if symbol == "" {
		return fmt.Errorf("layer: asset symbol required")
	}
	if caller == ([20]byte{}) {
		return fmt.Errorf("layer: caller address required")
	}
	cfg := &Config{
		Admin:                  caller,
		Governance:             caller,
		AssetSymbol:            symbol,
		FeeWalletChallenge:     feeWallets[0],
		FeeWalletDev:           feeWallets[1],
		FeeWalletLiquidity:     feeWallets[2],
		RewardPerPeriod:        0,
		AuthorityDiscriminator: newAuthorityDiscriminator(),
	}
	if err = e.state.PutLayerConfig(cfg); err != nil {
		return err
	}
	e.emitter.Emit(events.ConfigUpdated{Governance: cfg.Governance, RewardPerPeriod: cfg.RewardPerPeriod})
	return nil
}

// UpdateConfig sets the per-period validator reward rate. Only governance may
// call it.
func (e *Engine) UpdateConfig(caller [20]byte, rewardPerPeriod uint64) (err error) {
	defer func() { e.observe(opUpdateConfig, err) }()
	if err = e.ready(); err != nil {
		return err
	}
	cfg, cfgErr := e.loadConfig()
	if cfgErr != nil {
		return cfgErr
	}
	if caller != cfg.Governance {
		return ErrUnauthorized
	}
	cfg.RewardPerPeriod = rewardPerPeriod
	if err = e.state.PutLayerConfig(cfg); err != nil {
		return err
	}
	e.emitter.Emit(events.ConfigUpdated{Governance: cfg.Governance, RewardPerPeriod: cfg.RewardPerPeriod})
	return nil
}

// ReassignMintingAuthority hands the configured asset's minting rights from
// the derived authority to newAuthority. Only governance may call it. The
// handoff is one-way: afterwards the system can no longer mint the asset
// itself unless newAuthority reassigns the rights back.
func (e *Engine) ReassignMintingAuthority(caller, newAuthority [20]byte) (err error) {
	defer func() { e.observe(opReassignAuthority, err) }()
	if err = e.ready(); err != nil {
		return err
	}
	cfg, cfgErr := e.loadConfig()
	if cfgErr != nil {
		return cfgErr
	}
	if caller != cfg.Governance {
		return ErrUnauthorized
	}
	derived := DeriveAuthority(cfg.AuthorityDiscriminator)
	if err = wrapLedger(e.ledger.ReassignAuthority(cfg.AssetSymbol, derived, newAuthority)); err != nil {
		return err
	}
	e.emitter.Emit(events.ConfigUpdated{Governance: cfg.Governance, RewardPerPeriod: cfg.RewardPerPeriod})
	return nil
}

// TransferWithFees moves amount of the configured asset from the sender to
// the recipient, splitting off the challenge, dev, and liquidity fee shares.
// All amounts are computed up front; the sender's balance is validated
// against the gross amount before the first move so a mid-sequence ledger
// failure cannot leave a partial application. Zero-valued shares are skipped
// rather than issued.
func (e *Engine) TransferWithFees(from, to [20]byte, amount *big.Int) (err error) {
	defer func() { e.observe(opTransferWithFees, err) }()
	if err = e.ready(); err != nil {
		return err
	}
	cfg, cfgErr := e.loadConfig()
	if cfgErr != nil {
		return cfgErr
	}
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	breakdown := SplitFees(amount)

	balance, balErr := e.ledger.BalanceOf(cfg.AssetSymbol, from)
	if balErr != nil {
		return wrapLedger(balErr)
	}
	if balance.Cmp(breakdown.Gross) < 0 {
		return wrapLedger(fmt.Errorf("%w: have %s, need %s", token.ErrInsufficientBalance, balance, breakdown.Gross))
	}

	moves := []struct {
		to     [20]byte
		amount *big.Int
	}{
		{to, breakdown.Net},
		{cfg.FeeWalletChallenge, breakdown.FeeChallenge},
		{cfg.FeeWalletDev, breakdown.FeeDev},
		{cfg.FeeWalletLiquidity, breakdown.FeeLiquidity},
	}
	for _, move := range moves {
		if move.amount.Sign() == 0 {
			continue
		}
		if err = wrapLedger(e.ledger.Transfer(cfg.AssetSymbol, from, move.to, move.amount)); err != nil {
			return err
		}
	}

	if e.metrics != nil {
		e.metrics.ObserveFee("challenge", breakdown.FeeChallenge)
		e.metrics.ObserveFee("dev", breakdown.FeeDev)
		e.metrics.ObserveFee("liquidity", breakdown.FeeLiquidity)
	}
	e.emitter.Emit(events.LayerTransfer{
		Asset:        cfg.AssetSymbol,
		From:         from,
		To:           to,
		Gross:        breakdown.Gross,
		Net:          breakdown.Net,
		FeeChallenge: breakdown.FeeChallenge,
		FeeDev:       breakdown.FeeDev,
		FeeLiquidity: breakdown.FeeLiquidity,
		Timestamp:    e.nowFn().Unix(),
	})
	return nil
}

// BindReferral records the participant's one-time invite relationship and, if
// rewardAmount is positive, mints the reward to the inviter under the derived
// authority. Binding and reward are one atomic unit: a failed mint leaves the
// record unbound.
func (e *Engine) BindReferral(participant, inviter [20]byte, rewardAmount *big.Int) (err error) {
	defer func() { e.observe(opBindReferral, err) }()
	if err = e.ready(); err != nil {
		return err
	}
	cfg, cfgErr := e.loadConfig()
	if cfgErr != nil {
		return cfgErr
	}
	if participant == inviter {
		return ErrSelfInvite
	}
	record, ok, recErr := e.state.LayerReferral(participant)
	if recErr != nil {
		return recErr
	}
	if ok && record.Bound {
		return ErrAlreadyBound
	}

	reward := big.NewInt(0)
	if rewardAmount != nil && rewardAmount.Sign() > 0 {
		reward = new(big.Int).Set(rewardAmount)
		derived := DeriveAuthority(cfg.AuthorityDiscriminator)
		current, authErr := e.ledger.Authority(cfg.AssetSymbol)
		if authErr != nil {
			return wrapLedger(authErr)
		}
		if current != derived {
			return ErrMintingUnauthorized
		}
		if err = wrapLedger(e.ledger.Mint(cfg.AssetSymbol, derived, inviter, reward)); err != nil {
			return err
		}
	}

	if err = e.state.PutLayerReferral(&ReferralRecord{
		Bound:       true,
		Participant: participant,
		Inviter:     inviter,
	}); err != nil {
		return err
	}
	e.emitter.Emit(events.ReferralBound{
		Participant:  participant,
		Inviter:      inviter,
		RewardAmount: reward,
	})
	return nil
}

// MintOnDemand mints amount of the configured asset to the recipient. Only
// the admin may call it; the mint is signed by the derived authority.
func (e *Engine) MintOnDemand(caller, to [20]byte, amount *big.Int) (err error) {
	defer func() { e.observe(opMintOnDemand, err) }()
	if err = e.ready(); err != nil {
		return err
	}
	cfg, cfgErr := e.loadConfig()
	if cfgErr != nil {
		return cfgErr
	}
	if caller != cfg.Admin {
		return ErrUnauthorized
	}
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	derived := DeriveAuthority(cfg.AuthorityDiscriminator)
	if err = wrapLedger(e.ledger.Mint(cfg.AssetSymbol, derived, to, amount)); err != nil {
		return err
	}
	e.emitter.Emit(events.AssetMinted{Asset: cfg.AssetSymbol, To: to, Amount: new(big.Int).Set(amount)})
	return nil
}

// LaunchAsset creates a brand-new asset with the derived authority as its
// mint authority and, when initialSupply is positive, mints that supply to
// the recipient. The recipient's receiving account is validated before the
// asset is created so the mismatch path leaves no orphan asset behind.
func (e *Engine) LaunchAsset(symbol string, decimals uint8, initialSupply *big.Int, recipient [20]byte) (err error) {
	defer func() { e.observe(opLaunchAsset, err) }()
	if err = e.ready(); err != nil {
		return err
	}
	cfg, cfgErr := e.loadConfig()
	if cfgErr != nil {
		return cfgErr
	}
	normalized := strings.ToUpper(strings.TrimSpace(symbol))
	if normalized == "" {
		return fmt.Errorf("layer: asset symbol required")
	}
	if initialSupply != nil && initialSupply.Sign() < 0 {
		return ErrInvalidAmount
	}

	supply := big.NewInt(0)
	if initialSupply != nil {
		supply = new(big.Int).Set(initialSupply)
	}
	if supply.Sign() > 0 {
		account, ok, acctErr := e.ledger.Account(normalized, recipient)
		if acctErr != nil {
			return wrapLedger(acctErr)
		}
		if !ok || !bytes.Equal(account.Owner, recipient[:]) {
			return ErrRecipientAccountMismatch
		}
	}

	derived := DeriveAuthority(cfg.AuthorityDiscriminator)
	if err = wrapLedger(e.ledger.CreateAsset(normalized, decimals, derived)); err != nil {
		return err
	}
	if supply.Sign() > 0 {
		if err = wrapLedger(e.ledger.Mint(normalized, derived, recipient, supply)); err != nil {
			return err
		}
	}
	e.emitter.Emit(events.AssetLaunched{
		Asset:         normalized,
		Recipient:     recipient,
		InitialSupply: supply,
		Decimals:      decimals,
	})
	return nil
}

// MintValidatorReward mints the configured per-period reward to the
// validator's account. The amount is read from the config singleton, never
// from the caller, so a validator cannot mint an arbitrary amount. A zero
// reward rate is a valid no-op: the mint call is skipped but the period still
// advances and the event is emitted with amount zero.
func (e *Engine) MintValidatorReward(validator, validatorAccount [20]byte) (err error) {
	defer func() { e.observe(opValidatorReward, err) }()
	if err = e.ready(); err != nil {
		return err
	}
	cfg, cfgErr := e.loadConfig()
	if cfgErr != nil {
		return cfgErr
	}
	amount := new(big.Int).SetUint64(cfg.RewardPerPeriod)
	if amount.Sign() > 0 {
		derived := DeriveAuthority(cfg.AuthorityDiscriminator)
		if err = wrapLedger(e.ledger.Mint(cfg.AssetSymbol, derived, validatorAccount, amount)); err != nil {
			return err
		}
	}
	period, seqErr := e.state.LayerNextRewardPeriod()
	if seqErr != nil {
		return seqErr
	}
	e.emitter.Emit(events.ValidatorRewardMinted{
		Validator: validator,
		Amount:    amount,
		Period:    period,
		Timestamp: e.nowFn().Unix(),
	})
	return nil
}
