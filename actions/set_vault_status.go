// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"

	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/hypersdk/chain"
	"github.com/ava-labs/hypersdk/codec"
	"github.com/ava-labs/hypersdk/state"

	"github.com/ava-labs/fundvm/storage"
)

var _ chain.Action = (*SetVaultStatus)(nil)

// SetVaultStatus pauses or resumes a vault. Pausing is idempotent and
// allowed from any state but Closed; resuming requires the vault to be
// Paused. No transition reaches Closed.
type SetVaultStatus struct {
	Vault codec.Address `json:"vault"`
	Pause bool          `json:"pause"`
}

func (*SetVaultStatus) GetTypeID() uint8 {
	return setVaultStatusID
}

func (s *SetVaultStatus) StateKeys(_ codec.Address, _ ids.ID) state.Keys {
	return state.Keys{
		string(storage.VaultKey(s.Vault)): state.Read | state.Write,
	}
}

func (*SetVaultStatus) StateKeysMaxChunks() []uint16 {
	return []uint16{storage.VaultChunks}
}

func (s *SetVaultStatus) Execute(
	ctx context.Context,
	_ chain.Rules,
	mu state.Mutable,
	_ int64,
	actor codec.Address,
	_ ids.ID,
) ([][]byte, error) {
	vault, exists, err := storage.GetVault(ctx, mu, s.Vault)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrOutputVaultMissing
	}
	if vault.Admin != actor {
		return nil, ErrOutputNotVaultAdmin
	}
	if s.Pause {
		if vault.Status == storage.VaultClosed {
			return nil, ErrOutputVaultClosed
		}
		vault.Status = storage.VaultPaused
	} else {
		if vault.Status != storage.VaultPaused {
			return nil, ErrOutputVaultNotPaused
		}
		vault.Status = storage.VaultActive
	}
	if err := storage.SetVault(ctx, mu, s.Vault, vault); err != nil {
		return nil, err
	}
	return nil, nil
}

func (*SetVaultStatus) ComputeUnits(chain.Rules) uint64 {
	return SetVaultStatusComputeUnits
}

func (*SetVaultStatus) Size() int {
	return codec.AddressLen + 1
}

func (s *SetVaultStatus) Marshal(p *codec.Packer) {
	p.PackAddress(s.Vault)
	p.PackBool(s.Pause)
}

func UnmarshalSetVaultStatus(p *codec.Packer) (chain.Action, error) {
	var set SetVaultStatus
	p.UnpackAddress(&set.Vault)
	set.Pause = p.UnpackBool()
	return &set, p.Err()
}

func (*SetVaultStatus) ValidRange(chain.Rules) (int64, int64) {
	// Returning -1, -1 means that the action is always valid.
	return -1, -1
}
