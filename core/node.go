package core

import (
	"fmt"
	"log/slog"
	"math/big"

	"dopchain/config"
	"dopchain/core/events"
	"dopchain/core/state"
	"dopchain/core/types"
	"dopchain/native/layer"
	"dopchain/native/token"
	"dopchain/observability/logging"
	"dopchain/observability/metrics"
	"dopchain/storage"
)

// Node wires storage, state, the token ledger, and the layer engine into one
// unit and enforces the atomic-operation boundary: every layer operation
// either commits as a whole or rolls the pending state back.
type Node struct {
	db       storage.Database
	state    *state.Manager
	ledger   *token.Ledger
	engine   *layer.Engine
	eventLog *events.Log
	logger   *slog.Logger
}

// NewNode constructs a node over the provided database. A nil logger falls
// back to the service-wide structured logger.
func NewNode(db storage.Database, logger *slog.Logger) *Node {
	if logger == nil {
		logger = logging.Setup("dopchain", "")
	}
	manager := state.NewManager(db)
	ledger := token.NewLedger(manager)
	eventLog := events.NewLog()

	engine := layer.NewEngine()
	engine.SetState(manager)
	engine.SetLedger(ledger)
	engine.SetEmitter(eventLog)
	engine.SetMetrics(metrics.Layer())

	return &Node{
		db:       db,
		state:    manager,
		ledger:   ledger,
		engine:   engine,
		eventLog: eventLog,
		logger:   logger,
	}
}

// execute runs a single layer operation as an atomic unit. On failure all
// pending state mutations are discarded; on success they are committed.
func (n *Node) execute(op func(*layer.Engine) error) error {
	if err := op(n.engine); err != nil {
		n.state.Reset()
		return err
	}
	return n.state.Commit()
}

// ApplyGenesis initializes the layer from the config file on first boot:
// creates the config singleton and registers the managed asset under the
// derived authority. Subsequent boots are no-ops.
func (n *Node) ApplyGenesis(cfg *config.Config) error {
	if cfg == nil {
		return fmt.Errorf("node: config required")
	}
	existing, ok, err := n.state.LayerConfig()
	if err != nil {
		return err
	}
	if ok {
		n.logger.Info("genesis already applied", "asset", existing.AssetSymbol)
		return nil
	}

	admin, err := config.AddressFor(cfg.Genesis.Admin)
	if err != nil {
		return fmt.Errorf("node: genesis admin: %w", err)
	}
	var wallets [3][20]byte
	for i, value := range []string{
		cfg.Genesis.FeeWalletChallenge,
		cfg.Genesis.FeeWalletDev,
		cfg.Genesis.FeeWalletLiquidity,
	} {
		wallet, walletErr := config.AddressFor(value)
		if walletErr != nil {
			return fmt.Errorf("node: genesis fee wallet: %w", walletErr)
		}
		wallets[i] = wallet
	}

	err = n.execute(func(e *layer.Engine) error {
		if initErr := e.Initialize(admin, cfg.Genesis.AssetSymbol, wallets); initErr != nil {
			return initErr
		}
		layerCfg, _, cfgErr := n.state.LayerConfig()
		if cfgErr != nil {
			return cfgErr
		}
		derived := layer.DeriveAuthority(layerCfg.AuthorityDiscriminator)
		return n.ledger.CreateAsset(layerCfg.AssetSymbol, cfg.Genesis.AssetDecimals, derived)
	})
	if err != nil {
		return err
	}
	n.logger.Info("genesis applied",
		"asset", cfg.Genesis.AssetSymbol,
		"decimals", cfg.Genesis.AssetDecimals,
	)
	return nil
}

// Initialize creates the layer config singleton.
func (n *Node) Initialize(caller [20]byte, assetSymbol string, feeWallets [3][20]byte) error {
	return n.execute(func(e *layer.Engine) error {
		return e.Initialize(caller, assetSymbol, feeWallets)
	})
}

// UpdateConfig sets the per-period validator reward rate.
func (n *Node) UpdateConfig(caller [20]byte, rewardPerPeriod uint64) error {
	return n.execute(func(e *layer.Engine) error {
		return e.UpdateConfig(caller, rewardPerPeriod)
	})
}

// ReassignMintingAuthority hands the managed asset's minting rights to a new
// authority.
func (n *Node) ReassignMintingAuthority(caller, newAuthority [20]byte) error {
	return n.execute(func(e *layer.Engine) error {
		return e.ReassignMintingAuthority(caller, newAuthority)
	})
}

// TransferWithFees executes a fee-splitting transfer of the managed asset.
func (n *Node) TransferWithFees(from, to [20]byte, amount *big.Int) error {
	return n.execute(func(e *layer.Engine) error {
		return e.TransferWithFees(from, to, amount)
	})
}

// BindReferral records a participant's one-time invite relationship.
func (n *Node) BindReferral(participant, inviter [20]byte, rewardAmount *big.Int) error {
	return n.execute(func(e *layer.Engine) error {
		return e.BindReferral(participant, inviter, rewardAmount)
	})
}

// MintOnDemand mints the managed asset to a recipient, gated on the admin.
func (n *Node) MintOnDemand(caller, to [20]byte, amount *big.Int) error {
	return n.execute(func(e *layer.Engine) error {
		return e.MintOnDemand(caller, to, amount)
	})
}

// LaunchAsset creates a new asset and mints its initial supply.
func (n *Node) LaunchAsset(symbol string, decimals uint8, initialSupply *big.Int, recipient [20]byte) error {
	return n.execute(func(e *layer.Engine) error {
		return e.LaunchAsset(symbol, decimals, initialSupply, recipient)
	})
}

// MintValidatorReward mints the configured per-period reward to the
// validator's account.
func (n *Node) MintValidatorReward(validator, validatorAccount [20]byte) error {
	return n.execute(func(e *layer.Engine) error {
		return e.MintValidatorReward(validator, validatorAccount)
	})
}

// OpenAccount associates an owner with an asset ahead of a launch.
func (n *Node) OpenAccount(symbol string, owner [20]byte) error {
	return n.execute(func(*layer.Engine) error {
		return n.ledger.OpenAccount(symbol, owner)
	})
}

// Balance returns the holder's committed balance of the asset.
func (n *Node) Balance(symbol string, addr [20]byte) (*big.Int, error) {
	return n.ledger.BalanceOf(symbol, addr)
}

// Events returns a copy of all events emitted so far, in emission order.
func (n *Node) Events() []*types.Event {
	return n.eventLog.Events()
}

// Engine exposes the layer engine for read-path composition and tests.
func (n *Node) Engine() *layer.Engine { return n.engine }

// Ledger exposes the token ledger service.
func (n *Node) Ledger() *token.Ledger { return n.ledger }

// Close releases the backing database.
func (n *Node) Close() {
	n.db.Close()
}
