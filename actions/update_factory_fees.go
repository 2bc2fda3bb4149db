// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"

	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/hypersdk/chain"
	"github.com/ava-labs/hypersdk/codec"
	"github.com/ava-labs/hypersdk/consts"
	"github.com/ava-labs/hypersdk/state"

	"github.com/ava-labs/fundvm/storage"
)

var _ chain.Action = (*UpdateFactoryFees)(nil)

// UpdateFactoryFees replaces the factory's whole fee policy. Bounds are
// rechecked exactly as at initialization. Vaults created earlier keep their
// management fee even if it falls outside the new bounds.
type UpdateFactoryFees struct {
	EntryFeeBps         uint16 `json:"entryFeeBps"`
	ExitFeeBps          uint16 `json:"exitFeeBps"`
	CreationFee         uint64 `json:"creationFee"`
	MinManagementFeeBps uint16 `json:"minManagementFeeBps"`
	MaxManagementFeeBps uint16 `json:"maxManagementFeeBps"`
	CreatorFeeRatioBps  uint16 `json:"creatorFeeRatioBps"`
	PlatformFeeRatioBps uint16 `json:"platformFeeRatioBps"`
}

func (*UpdateFactoryFees) GetTypeID() uint8 {
	return updateFactoryFeesID
}

func (*UpdateFactoryFees) StateKeys(_ codec.Address, _ ids.ID) state.Keys {
	return state.Keys{
		string(storage.FactoryKey()): state.Read | state.Write,
	}
}

func (*UpdateFactoryFees) StateKeysMaxChunks() []uint16 {
	return []uint16{storage.FactoryChunks}
}

func (u *UpdateFactoryFees) Execute(
	ctx context.Context,
	_ chain.Rules,
	mu state.Mutable,
	_ int64,
	actor codec.Address,
	_ ids.ID,
) ([][]byte, error) {
	factory, exists, err := storage.GetFactory(ctx, mu)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrOutputFactoryMissing
	}
	if factory.Admin != actor {
		return nil, ErrOutputNotFactoryAdmin
	}
	if err := validateFeePolicy(
		u.EntryFeeBps,
		u.ExitFeeBps,
		u.MinManagementFeeBps,
		u.MaxManagementFeeBps,
		u.CreatorFeeRatioBps,
		u.PlatformFeeRatioBps,
	); err != nil {
		return nil, err
	}
	factory.EntryFeeBps = u.EntryFeeBps
	factory.ExitFeeBps = u.ExitFeeBps
	factory.CreationFee = u.CreationFee
	factory.MinManagementFeeBps = u.MinManagementFeeBps
	factory.MaxManagementFeeBps = u.MaxManagementFeeBps
	factory.CreatorFeeRatioBps = u.CreatorFeeRatioBps
	factory.PlatformFeeRatioBps = u.PlatformFeeRatioBps
	if err := storage.SetFactory(ctx, mu, factory); err != nil {
		return nil, err
	}
	return nil, nil
}

func (*UpdateFactoryFees) ComputeUnits(chain.Rules) uint64 {
	return UpdateFactoryFeesComputeUnits
}

func (*UpdateFactoryFees) Size() int {
	return consts.IntLen*6 + consts.Uint64Len
}

func (u *UpdateFactoryFees) Marshal(p *codec.Packer) {
	p.PackInt(int(u.EntryFeeBps))
	p.PackInt(int(u.ExitFeeBps))
	p.PackUint64(u.CreationFee)
	p.PackInt(int(u.MinManagementFeeBps))
	p.PackInt(int(u.MaxManagementFeeBps))
	p.PackInt(int(u.CreatorFeeRatioBps))
	p.PackInt(int(u.PlatformFeeRatioBps))
}

func UnmarshalUpdateFactoryFees(p *codec.Packer) (chain.Action, error) {
	var update UpdateFactoryFees
	update.EntryFeeBps = uint16(p.UnpackInt(false))
	update.ExitFeeBps = uint16(p.UnpackInt(false))
	update.CreationFee = p.UnpackUint64(false)
	update.MinManagementFeeBps = uint16(p.UnpackInt(false))
	update.MaxManagementFeeBps = uint16(p.UnpackInt(false))
	update.CreatorFeeRatioBps = uint16(p.UnpackInt(true))
	update.PlatformFeeRatioBps = uint16(p.UnpackInt(true))
	return &update, p.Err()
}

func (*UpdateFactoryFees) ValidRange(chain.Rules) (int64, int64) {
	// Returning -1, -1 means that the action is always valid.
	return -1, -1
}
