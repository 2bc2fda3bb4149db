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

var _ chain.Action = (*SetFactoryStatus)(nil)

// SetFactoryStatus toggles the factory between Active and Paused, or retires
// it permanently. Deprecated is terminal.
type SetFactoryStatus struct {
	Status uint8 `json:"status"`
}

func (*SetFactoryStatus) GetTypeID() uint8 {
	return setFactoryStatusID
}

func (*SetFactoryStatus) StateKeys(_ codec.Address, _ ids.ID) state.Keys {
	return state.Keys{
		string(storage.FactoryKey()): state.Read | state.Write,
	}
}

func (*SetFactoryStatus) StateKeysMaxChunks() []uint16 {
	return []uint16{storage.FactoryChunks}
}

func (s *SetFactoryStatus) Execute(
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
	status := storage.FactoryStatus(s.Status)
	if status > storage.FactoryDeprecated {
		return nil, ErrOutputInvalidStatus
	}
	if factory.Status == storage.FactoryDeprecated {
		return nil, ErrOutputInvalidStatusChange
	}
	factory.Status = status
	if err := storage.SetFactory(ctx, mu, factory); err != nil {
		return nil, err
	}
	return nil, nil
}

func (*SetFactoryStatus) ComputeUnits(chain.Rules) uint64 {
	return SetFactoryStatusComputeUnits
}

func (*SetFactoryStatus) Size() int {
	return 1
}

func (s *SetFactoryStatus) Marshal(p *codec.Packer) {
	p.PackByte(s.Status)
}

func UnmarshalSetFactoryStatus(p *codec.Packer) (chain.Action, error) {
	var set SetFactoryStatus
	set.Status = p.UnpackByte()
	return &set, p.Err()
}

func (*SetFactoryStatus) ValidRange(chain.Rules) (int64, int64) {
	// Returning -1, -1 means that the action is always valid.
	return -1, -1
}
