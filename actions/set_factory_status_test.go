// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/hypersdk/chain/chaintest"
	"github.com/ava-labs/hypersdk/state"

	"github.com/ava-labs/fundvm/storage"
)

func TestSetFactoryStatus(t *testing.T) {
	deprecated := testFactory()
	deprecated.Status = storage.FactoryDeprecated

	tests := []chaintest.ActionTest{
		{
			Name:        "MissingFactory",
			Action:      &SetFactoryStatus{Status: uint8(storage.FactoryPaused)},
			Actor:       factoryAdmin,
			State:       chaintest.NewInMemoryStore(),
			ExpectedErr: ErrOutputFactoryMissing,
		},
		{
			Name:        "NotAdmin",
			Action:      &SetFactoryStatus{Status: uint8(storage.FactoryPaused)},
			Actor:       bystander,
			State:       seedState(t, testFactory(), nil),
			ExpectedErr: ErrOutputNotFactoryAdmin,
		},
		{
			Name:        "UnknownStatus",
			Action:      &SetFactoryStatus{Status: uint8(storage.FactoryDeprecated) + 1},
			Actor:       factoryAdmin,
			State:       seedState(t, testFactory(), nil),
			ExpectedErr: ErrOutputInvalidStatus,
		},
		{
			Name:        "DeprecatedIsTerminal",
			Action:      &SetFactoryStatus{Status: uint8(storage.FactoryActive)},
			Actor:       factoryAdmin,
			State:       seedState(t, deprecated, nil),
			ExpectedErr: ErrOutputInvalidStatusChange,
		},
		{
			Name:   "PauseFactory",
			Action: &SetFactoryStatus{Status: uint8(storage.FactoryPaused)},
			Actor:  factoryAdmin,
			State:  seedState(t, testFactory(), nil),
			Assertion: func(ctx context.Context, t *testing.T, m state.Mutable) {
				require := require.New(t)
				factory, exists, err := storage.GetFactory(ctx, m)
				require.NoError(err)
				require.True(exists)
				require.Equal(storage.FactoryPaused, factory.Status)
			},
		},
		{
			Name:   "DeprecateFactory",
			Action: &SetFactoryStatus{Status: uint8(storage.FactoryDeprecated)},
			Actor:  factoryAdmin,
			State:  seedState(t, testFactory(), nil),
			Assertion: func(ctx context.Context, t *testing.T, m state.Mutable) {
				require := require.New(t)
				factory, exists, err := storage.GetFactory(ctx, m)
				require.NoError(err)
				require.True(exists)
				require.Equal(storage.FactoryDeprecated, factory.Status)
			},
		},
	}

	for _, tt := range tests {
		tt.Run(context.Background(), t)
	}
}
