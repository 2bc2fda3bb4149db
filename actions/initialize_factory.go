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

	"github.com/ava-labs/fundvm/pricing"
	"github.com/ava-labs/fundvm/storage"
)

var _ chain.Action = (*InitializeFactory)(nil)

// InitializeFactory writes the singleton factory record. The actor becomes
// the factory admin. Chains that seed the factory at genesis never execute
// this action successfully.
type InitializeFactory struct {
	FeeRecipient codec.Address `json:"feeRecipient"`

	EntryFeeBps         uint16 `json:"entryFeeBps"`
	ExitFeeBps          uint16 `json:"exitFeeBps"`
	CreationFee         uint64 `json:"creationFee"`
	MinManagementFeeBps uint16 `json:"minManagementFeeBps"`
	MaxManagementFeeBps uint16 `json:"maxManagementFeeBps"`
	CreatorFeeRatioBps  uint16 `json:"creatorFeeRatioBps"`
	PlatformFeeRatioBps uint16 `json:"platformFeeRatioBps"`
}

func (*InitializeFactory) GetTypeID() uint8 {
	return initializeFactoryID
}

func (*InitializeFactory) StateKeys(_ codec.Address, _ ids.ID) state.Keys {
	return state.Keys{
		string(storage.FactoryKey()): state.All,
	}
}

func (*InitializeFactory) StateKeysMaxChunks() []uint16 {
	return []uint16{storage.FactoryChunks}
}

func (i *InitializeFactory) Execute(
	ctx context.Context,
	_ chain.Rules,
	mu state.Mutable,
	_ int64,
	actor codec.Address,
	_ ids.ID,
) ([][]byte, error) {
	_, exists, err := storage.GetFactory(ctx, mu)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrOutputFactoryExists
	}
	if i.FeeRecipient == codec.EmptyAddress {
		return nil, ErrOutputInvalidAddress
	}
	if err := validateFeePolicy(
		i.EntryFeeBps,
		i.ExitFeeBps,
		i.MinManagementFeeBps,
		i.MaxManagementFeeBps,
		i.CreatorFeeRatioBps,
		i.PlatformFeeRatioBps,
	); err != nil {
		return nil, err
	}
	factory := &storage.Factory{
		Admin:               actor,
		FeeRecipient:        i.FeeRecipient,
		VaultCount:          0,
		Status:              storage.FactoryActive,
		EntryFeeBps:         i.EntryFeeBps,
		ExitFeeBps:          i.ExitFeeBps,
		CreationFee:         i.CreationFee,
		MinManagementFeeBps: i.MinManagementFeeBps,
		MaxManagementFeeBps: i.MaxManagementFeeBps,
		CreatorFeeRatioBps:  i.CreatorFeeRatioBps,
		PlatformFeeRatioBps: i.PlatformFeeRatioBps,
	}
	if err := storage.SetFactory(ctx, mu, factory); err != nil {
		return nil, err
	}
	return nil, nil
}

func (*InitializeFactory) ComputeUnits(chain.Rules) uint64 {
	return InitializeFactoryComputeUnits
}

func (*InitializeFactory) Size() int {
	return codec.AddressLen + consts.IntLen*6 + consts.Uint64Len
}

func (i *InitializeFactory) Marshal(p *codec.Packer) {
	p.PackAddress(i.FeeRecipient)
	p.PackInt(int(i.EntryFeeBps))
	p.PackInt(int(i.ExitFeeBps))
	p.PackUint64(i.CreationFee)
	p.PackInt(int(i.MinManagementFeeBps))
	p.PackInt(int(i.MaxManagementFeeBps))
	p.PackInt(int(i.CreatorFeeRatioBps))
	p.PackInt(int(i.PlatformFeeRatioBps))
}

func UnmarshalInitializeFactory(p *codec.Packer) (chain.Action, error) {
	var init InitializeFactory
	p.UnpackAddress(&init.FeeRecipient)
	init.EntryFeeBps = uint16(p.UnpackInt(false))
	init.ExitFeeBps = uint16(p.UnpackInt(false))
	init.CreationFee = p.UnpackUint64(false)
	init.MinManagementFeeBps = uint16(p.UnpackInt(false))
	init.MaxManagementFeeBps = uint16(p.UnpackInt(false))
	init.CreatorFeeRatioBps = uint16(p.UnpackInt(true))
	init.PlatformFeeRatioBps = uint16(p.UnpackInt(true))
	return &init, p.Err()
}

func (*InitializeFactory) ValidRange(chain.Rules) (int64, int64) {
	// Returning -1, -1 means that the action is always valid.
	return -1, -1
}

// validateFeePolicy enforces the protocol caps shared by InitializeFactory
// and UpdateFactoryFees. Every bound is rechecked at every mutation.
func validateFeePolicy(
	entryBps uint16,
	exitBps uint16,
	minMgmtBps uint16,
	maxMgmtBps uint16,
	creatorRatioBps uint16,
	platformRatioBps uint16,
) error {
	if entryBps > MaxEntryFeeBps || exitBps > MaxExitFeeBps {
		return ErrOutputInvalidFeeBps
	}
	if minMgmtBps > maxMgmtBps || maxMgmtBps > MaxManagementFeeBps {
		return ErrOutputInvalidFeeBounds
	}
	if creatorRatioBps == 0 || platformRatioBps == 0 {
		return ErrOutputInvalidFeeSplit
	}
	if uint32(creatorRatioBps)+uint32(platformRatioBps) != pricing.MaxBPS {
		return ErrOutputInvalidFeeSplit
	}
	return nil
}
