package token_test

import (
	"errors"
	"math/big"
	"testing"

	"dopchain/core/state"
	"dopchain/native/token"
	"dopchain/storage"
)

var (
	issuer = [20]byte{0x01}
	holder = [20]byte{0x02}
	other  = [20]byte{0x03}
)

func newLedger(t *testing.T) (*token.Ledger, *state.Manager) {
	t.Helper()
	manager := state.NewManager(storage.NewMemDB())
	ledger := token.NewLedger(manager)
	if err := ledger.CreateAsset("DOP", 9, issuer); err != nil {
		t.Fatalf("create asset: %v", err)
	}
	return ledger, manager
}

func TestCreateAssetRejectsDuplicate(t *testing.T) {
	ledger, _ := newLedger(t)
	if err := ledger.CreateAsset("DOP", 9, issuer); !errors.Is(err, token.ErrAssetExists) {
		t.Fatalf("expected ErrAssetExists, got %v", err)
	}
}

func TestMintRequiresAuthority(t *testing.T) {
	ledger, manager := newLedger(t)
	if err := ledger.Mint("DOP", other, holder, big.NewInt(100)); !errors.Is(err, token.ErrMintAuthority) {
		t.Fatalf("expected ErrMintAuthority, got %v", err)
	}
	if err := ledger.Mint("DOP", issuer, holder, big.NewInt(100)); err != nil {
		t.Fatalf("mint: %v", err)
	}
	balance, err := ledger.BalanceOf("DOP", holder)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance.Int64() != 100 {
		t.Fatalf("expected balance 100, got %s", balance)
	}
	supply, err := manager.AssetSupply("DOP")
	if err != nil {
		t.Fatalf("supply: %v", err)
	}
	if supply.Int64() != 100 {
		t.Fatalf("expected supply 100, got %s", supply)
	}
}

func TestMintRejectsNonPositive(t *testing.T) {
	ledger, _ := newLedger(t)
	for _, amount := range []*big.Int{nil, big.NewInt(0), big.NewInt(-1)} {
		if err := ledger.Mint("DOP", issuer, holder, amount); !errors.Is(err, token.ErrInvalidAmount) {
			t.Fatalf("amount %v: expected ErrInvalidAmount, got %v", amount, err)
		}
	}
}

func TestMintPausedAsset(t *testing.T) {
	ledger, _ := newLedger(t)
	if err := ledger.SetMintPaused("DOP", issuer, true); err != nil {
		t.Fatalf("pause: %v", err)
	}
	if err := ledger.Mint("DOP", issuer, holder, big.NewInt(10)); !errors.Is(err, token.ErrMintPaused) {
		t.Fatalf("expected ErrMintPaused, got %v", err)
	}
	if err := ledger.SetMintPaused("DOP", other, false); !errors.Is(err, token.ErrMintAuthority) {
		t.Fatalf("only the authority may unpause, got %v", err)
	}
	if err := ledger.SetMintPaused("DOP", issuer, false); err != nil {
		t.Fatalf("unpause: %v", err)
	}
	if err := ledger.Mint("DOP", issuer, holder, big.NewInt(10)); err != nil {
		t.Fatalf("mint after unpause: %v", err)
	}
}

func TestTransferMovesBalance(t *testing.T) {
	ledger, _ := newLedger(t)
	if err := ledger.Mint("DOP", issuer, holder, big.NewInt(100)); err != nil {
		t.Fatalf("mint: %v", err)
	}
	if err := ledger.Transfer("DOP", holder, other, big.NewInt(40)); err != nil {
		t.Fatalf("transfer: %v", err)
	}
	from, _ := ledger.BalanceOf("DOP", holder)
	to, _ := ledger.BalanceOf("DOP", other)
	if from.Int64() != 60 || to.Int64() != 40 {
		t.Fatalf("unexpected balances after transfer: from=%s to=%s", from, to)
	}
}

func TestTransferToSelfKeepsBalance(t *testing.T) {
	ledger, _ := newLedger(t)
	if err := ledger.Mint("DOP", issuer, holder, big.NewInt(100)); err != nil {
		t.Fatalf("mint: %v", err)
	}
	if err := ledger.Transfer("DOP", holder, holder, big.NewInt(60)); err != nil {
		t.Fatalf("self transfer: %v", err)
	}
	balance, err := ledger.BalanceOf("DOP", holder)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance.Int64() != 100 {
		t.Fatalf("self transfer changed balance: got %s, want 100", balance)
	}
	// Still bounded by the sender's balance.
	if err := ledger.Transfer("DOP", holder, holder, big.NewInt(101)); !errors.Is(err, token.ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}
}

func TestTransferInsufficientBalance(t *testing.T) {
	ledger, _ := newLedger(t)
	err := ledger.Transfer("DOP", holder, other, big.NewInt(1))
	if !errors.Is(err, token.ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}
}

func TestTransferUnknownAsset(t *testing.T) {
	ledger, _ := newLedger(t)
	err := ledger.Transfer("NOPE", holder, other, big.NewInt(1))
	if !errors.Is(err, token.ErrAssetNotFound) {
		t.Fatalf("expected ErrAssetNotFound, got %v", err)
	}
}

func TestReassignAuthority(t *testing.T) {
	ledger, _ := newLedger(t)
	if err := ledger.ReassignAuthority("DOP", other, holder); !errors.Is(err, token.ErrMintAuthority) {
		t.Fatalf("stale authority must not reassign, got %v", err)
	}
	if err := ledger.ReassignAuthority("DOP", issuer, other); err != nil {
		t.Fatalf("reassign: %v", err)
	}
	authority, err := ledger.Authority("DOP")
	if err != nil {
		t.Fatalf("authority: %v", err)
	}
	if authority != other {
		t.Fatalf("expected new authority, got %x", authority)
	}
	// The old authority can no longer mint.
	if err := ledger.Mint("DOP", issuer, holder, big.NewInt(1)); !errors.Is(err, token.ErrMintAuthority) {
		t.Fatalf("expected ErrMintAuthority for old authority, got %v", err)
	}
}

func TestOpenAccountOnce(t *testing.T) {
	ledger, _ := newLedger(t)
	if err := ledger.OpenAccount("DOP", holder); err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := ledger.OpenAccount("DOP", holder); !errors.Is(err, token.ErrAccountExists) {
		t.Fatalf("expected ErrAccountExists, got %v", err)
	}
	account, ok, err := ledger.Account("DOP", holder)
	if err != nil || !ok {
		t.Fatalf("account lookup: ok=%v err=%v", ok, err)
	}
	if account.Asset != "DOP" {
		t.Fatalf("unexpected account asset %q", account.Asset)
	}
}
