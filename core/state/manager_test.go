package state

import (
	"errors"
	"math/big"
	"testing"

	"dopchain/core/types"
	"dopchain/native/layer"
	"dopchain/storage"
)

func TestCommitFlushesPendingWrites(t *testing.T) {
	db := storage.NewMemDB()
	manager := NewManager(db)
	if err := manager.SetBalance("DOP", []byte{0x01}, big.NewInt(7)); err != nil {
		t.Fatalf("set balance: %v", err)
	}
	if !manager.Dirty() {
		t.Fatalf("expected pending mutations before commit")
	}
	if err := manager.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if manager.Dirty() {
		t.Fatalf("expected clean overlay after commit")
	}
	// A fresh manager over the same database sees the committed value.
	reloaded := NewManager(db)
	balance, err := reloaded.Balance("DOP", []byte{0x01})
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance.Int64() != 7 {
		t.Fatalf("expected committed balance 7, got %s", balance)
	}
}

// brokenDB fails every batch write so commit failure handling can be
// exercised.
type brokenDB struct {
	*storage.MemDB
}

func (db brokenDB) NewBatch() storage.Batch { return brokenBatch{} }

type brokenBatch struct{}

func (brokenBatch) Put(key, value []byte) {}
func (brokenBatch) Delete(key []byte)     {}
func (brokenBatch) Write() error          { return errors.New("disk full") }

func TestCommitFailureLeavesDatabaseUntouched(t *testing.T) {
	db := storage.NewMemDB()
	manager := NewManager(brokenDB{MemDB: db})
	if err := manager.SetBalance("DOP", []byte{0x01}, big.NewInt(7)); err != nil {
		t.Fatalf("set balance: %v", err)
	}
	if err := manager.Commit(); err == nil {
		t.Fatalf("expected commit to fail")
	}
	if !manager.Dirty() {
		t.Fatalf("failed commit must retain the overlay")
	}
	// No key made it to the store: all writes ride the one batch.
	reloaded := NewManager(db)
	balance, err := reloaded.Balance("DOP", []byte{0x01})
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance.Sign() != 0 {
		t.Fatalf("failed commit wrote to the database: balance %s", balance)
	}
}

func TestResetDiscardsPendingWrites(t *testing.T) {
	db := storage.NewMemDB()
	manager := NewManager(db)
	if err := manager.SetBalance("DOP", []byte{0x01}, big.NewInt(7)); err != nil {
		t.Fatalf("set balance: %v", err)
	}
	manager.Reset()
	balance, err := manager.Balance("DOP", []byte{0x01})
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance.Sign() != 0 {
		t.Fatalf("expected zero balance after reset, got %s", balance)
	}
}

func TestOverlayShadowsCommittedValue(t *testing.T) {
	db := storage.NewMemDB()
	manager := NewManager(db)
	if err := manager.SetBalance("DOP", []byte{0x01}, big.NewInt(7)); err != nil {
		t.Fatalf("set balance: %v", err)
	}
	if err := manager.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if err := manager.SetBalance("DOP", []byte{0x01}, big.NewInt(42)); err != nil {
		t.Fatalf("overwrite balance: %v", err)
	}
	balance, err := manager.Balance("DOP", []byte{0x01})
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance.Int64() != 42 {
		t.Fatalf("expected overlay value 42, got %s", balance)
	}
	manager.Reset()
	balance, err = manager.Balance("DOP", []byte{0x01})
	if err != nil {
		t.Fatalf("balance after reset: %v", err)
	}
	if balance.Int64() != 7 {
		t.Fatalf("expected committed value 7 after reset, got %s", balance)
	}
}

func TestAssetMetadataRoundTrip(t *testing.T) {
	manager := NewManager(storage.NewMemDB())
	meta := &types.AssetMetadata{
		Symbol:        "dop",
		Decimals:      9,
		MintAuthority: []byte{0x01, 0x02},
	}
	if err := manager.PutAssetMetadata(meta); err != nil {
		t.Fatalf("put: %v", err)
	}
	loaded, ok, err := manager.AssetMetadata("DOP")
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if loaded.Symbol != "DOP" {
		t.Fatalf("symbol must be normalised on store, got %q", loaded.Symbol)
	}
	if loaded.Decimals != 9 || loaded.MintPaused {
		t.Fatalf("unexpected metadata: %+v", loaded)
	}
}

func TestLayerConfigRoundTrip(t *testing.T) {
	manager := NewManager(storage.NewMemDB())
	if _, ok, err := manager.LayerConfig(); err != nil || ok {
		t.Fatalf("expected no config on fresh state, ok=%v err=%v", ok, err)
	}
	cfg := &layer.Config{
		Admin:                  [20]byte{0x01},
		Governance:             [20]byte{0x02},
		AssetSymbol:            "DOP",
		FeeWalletChallenge:     [20]byte{0x03},
		FeeWalletDev:           [20]byte{0x04},
		FeeWalletLiquidity:     [20]byte{0x05},
		RewardPerPeriod:        10,
		AuthorityDiscriminator: 7,
	}
	if err := manager.PutLayerConfig(cfg); err != nil {
		t.Fatalf("put config: %v", err)
	}
	loaded, ok, err := manager.LayerConfig()
	if err != nil || !ok {
		t.Fatalf("load config: ok=%v err=%v", ok, err)
	}
	if *loaded != *cfg {
		t.Fatalf("config round trip mismatch: %+v vs %+v", loaded, cfg)
	}
}

func TestLayerReferralRoundTrip(t *testing.T) {
	manager := NewManager(storage.NewMemDB())
	participant := [20]byte{0xaa}
	if _, ok, err := manager.LayerReferral(participant); err != nil || ok {
		t.Fatalf("expected no record on fresh state, ok=%v err=%v", ok, err)
	}
	record := &layer.ReferralRecord{Bound: true, Participant: participant, Inviter: [20]byte{0xbb}}
	if err := manager.PutLayerReferral(record); err != nil {
		t.Fatalf("put referral: %v", err)
	}
	loaded, ok, err := manager.LayerReferral(participant)
	if err != nil || !ok {
		t.Fatalf("load referral: ok=%v err=%v", ok, err)
	}
	if *loaded != *record {
		t.Fatalf("referral round trip mismatch: %+v vs %+v", loaded, record)
	}
}

func TestLayerNextRewardPeriodMonotonic(t *testing.T) {
	manager := NewManager(storage.NewMemDB())
	for want := uint64(1); want <= 3; want++ {
		got, err := manager.LayerNextRewardPeriod()
		if err != nil {
			t.Fatalf("next period: %v", err)
		}
		if got != want {
			t.Fatalf("expected period %d, got %d", want, got)
		}
	}
	if err := manager.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}
	got, err := manager.LayerNextRewardPeriod()
	if err != nil {
		t.Fatalf("next period after commit: %v", err)
	}
	if got != 4 {
		t.Fatalf("expected period 4 after commit, got %d", got)
	}
}
