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

var _ chain.Action = (*UpdateFactoryAdmin)(nil)

type UpdateFactoryAdmin struct {
	NewAdmin        codec.Address `json:"newAdmin"`
	NewFeeRecipient codec.Address `json:"newFeeRecipient"`
}

func (*UpdateFactoryAdmin) GetTypeID() uint8 {
	return updateFactoryAdminID
}

func (*UpdateFactoryAdmin) StateKeys(_ codec.Address, _ ids.ID) state.Keys {
	return state.Keys{
		string(storage.FactoryKey()): state.Read | state.Write,
	}
}

func (*UpdateFactoryAdmin) StateKeysMaxChunks() []uint16 {
	return []uint16{storage.FactoryChunks}
}

func (u *UpdateFactoryAdmin) Execute(
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
	if u.NewAdmin == codec.EmptyAddress || u.NewFeeRecipient == codec.EmptyAddress {
		return nil, ErrOutputInvalidAddress
	}
	factory.Admin = u.NewAdmin
	factory.FeeRecipient = u.NewFeeRecipient
	if err := storage.SetFactory(ctx, mu, factory); err != nil {
		return nil, err
	}
	return nil, nil
}

func (*UpdateFactoryAdmin) ComputeUnits(chain.Rules) uint64 {
	return UpdateFactoryAdminComputeUnits
}

func (*UpdateFactoryAdmin) Size() int {
	return codec.AddressLen * 2
}

func (u *UpdateFactoryAdmin) Marshal(p *codec.Packer) {
	p.PackAddress(u.NewAdmin)
	p.PackAddress(u.NewFeeRecipient)
}

func UnmarshalUpdateFactoryAdmin(p *codec.Packer) (chain.Action, error) {
	var update UpdateFactoryAdmin
	p.UnpackAddress(&update.NewAdmin)
	p.UnpackAddress(&update.NewFeeRecipient)
	return &update, p.Err()
}

func (*UpdateFactoryAdmin) ValidRange(chain.Rules) (int64, int64) {
	// Returning -1, -1 means that the action is always valid.
	return -1, -1
}
