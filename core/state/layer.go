package state

import (
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"

	"dopchain/native/layer"
)

func referralKey(participant [20]byte) []byte {
	buf := make([]byte, len(layerReferralPref)+len(participant))
	copy(buf, layerReferralPref)
	copy(buf[len(layerReferralPref):], participant[:])
	return buf
}

// LayerConfig returns the config singleton if it has been initialized. The
// storage key is fixed; it is never derived from caller input.
func (m *Manager) LayerConfig() (*layer.Config, bool, error) {
	data, ok, err := m.get(layerConfigKey)
	if err != nil || !ok {
		return nil, false, err
	}
	cfg := new(layer.Config)
	if err := rlp.DecodeBytes(data, cfg); err != nil {
		return nil, false, fmt.Errorf("decode layer config: %w", err)
	}
	return cfg, true, nil
}

// PutLayerConfig stores the config singleton.
func (m *Manager) PutLayerConfig(cfg *layer.Config) error {
	if cfg == nil {
		return fmt.Errorf("layer config required")
	}
	encoded, err := rlp.EncodeToBytes(cfg)
	if err != nil {
		return err
	}
	return m.put(layerConfigKey, encoded)
}

// LayerReferral returns the participant's referral record if one exists.
func (m *Manager) LayerReferral(participant [20]byte) (*layer.ReferralRecord, bool, error) {
	data, ok, err := m.get(referralKey(participant))
	if err != nil || !ok {
		return nil, false, err
	}
	record := new(layer.ReferralRecord)
	if err := rlp.DecodeBytes(data, record); err != nil {
		return nil, false, fmt.Errorf("decode referral record: %w", err)
	}
	return record, true, nil
}

// PutLayerReferral stores the referral record keyed by its participant.
func (m *Manager) PutLayerReferral(record *layer.ReferralRecord) error {
	if record == nil {
		return fmt.Errorf("referral record required")
	}
	encoded, err := rlp.EncodeToBytes(record)
	if err != nil {
		return err
	}
	return m.put(referralKey(record.Participant), encoded)
}

// LayerNextRewardPeriod increments the validator reward period sequence and
// returns the new value. The first call returns 1.
func (m *Manager) LayerNextRewardPeriod() (uint64, error) {
	data, ok, err := m.get(layerPeriodSeqKey)
	if err != nil {
		return 0, err
	}
	var current uint64
	if ok {
		if err := rlp.DecodeBytes(data, &current); err != nil {
			return 0, fmt.Errorf("decode reward period: %w", err)
		}
	}
	next := current + 1
	encoded, err := rlp.EncodeToBytes(next)
	if err != nil {
		return 0, err
	}
	if err := m.put(layerPeriodSeqKey, encoded); err != nil {
		return 0, err
	}
	return next, nil
}
