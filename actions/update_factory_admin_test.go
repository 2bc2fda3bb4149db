// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/hypersdk/chain/chaintest"
	"github.com/ava-labs/hypersdk/codec"
	"github.com/ava-labs/hypersdk/state"

	"github.com/ava-labs/fundvm/storage"
)

func TestUpdateFactoryAdmin(t *testing.T) {
	tests := []chaintest.ActionTest{
		{
			Name: "MissingFactory",
			Action: &UpdateFactoryAdmin{
				NewAdmin:        bystander,
				NewFeeRecipient: platformWallet,
			},
			Actor:       factoryAdmin,
			State:       chaintest.NewInMemoryStore(),
			ExpectedErr: ErrOutputFactoryMissing,
		},
		{
			Name: "NotAdmin",
			Action: &UpdateFactoryAdmin{
				NewAdmin:        bystander,
				NewFeeRecipient: platformWallet,
			},
			Actor:       bystander,
			State:       seedState(t, testFactory(), nil),
			ExpectedErr: ErrOutputNotFactoryAdmin,
		},
		{
			Name: "EmptyNewAdmin",
			Action: &UpdateFactoryAdmin{
				NewAdmin:        codec.EmptyAddress,
				NewFeeRecipient: platformWallet,
			},
			Actor:       factoryAdmin,
			State:       seedState(t, testFactory(), nil),
			ExpectedErr: ErrOutputInvalidAddress,
		},
		{
			Name: "EmptyNewFeeRecipient",
			Action: &UpdateFactoryAdmin{
				NewAdmin:        bystander,
				NewFeeRecipient: codec.EmptyAddress,
			},
			Actor:       factoryAdmin,
			State:       seedState(t, testFactory(), nil),
			ExpectedErr: ErrOutputInvalidAddress,
		},
		{
			Name: "ValidHandoff",
			Action: &UpdateFactoryAdmin{
				NewAdmin:        bystander,
				NewFeeRecipient: depositor,
			},
			Actor: factoryAdmin,
			State: seedState(t, testFactory(), nil),
			Assertion: func(ctx context.Context, t *testing.T, m state.Mutable) {
				require := require.New(t)
				factory, exists, err := storage.GetFactory(ctx, m)
				require.NoError(err)
				require.True(exists)
				require.Equal(bystander, factory.Admin)
				require.Equal(depositor, factory.FeeRecipient)
			},
		},
	}

	for _, tt := range tests {
		tt.Run(context.Background(), t)
	}
}
