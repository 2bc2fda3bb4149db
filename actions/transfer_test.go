// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"bytes"
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/hypersdk/chain/chaintest"
	"github.com/ava-labs/hypersdk/state"

	"github.com/ava-labs/fundvm/storage"
)

func TestTransfer(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	funded := chaintest.NewInMemoryStore()
	require.NoError(storage.SetBalance(ctx, funded, depositor, ids.Empty, 1_000))
	require.NoError(storage.SetBalance(ctx, funded, depositor, assetOne, 500))

	tests := []chaintest.ActionTest{
		{
			Name: "ZeroValue",
			Action: &Transfer{
				To:    bystander,
				Value: 0,
			},
			Actor:       depositor,
			State:       chaintest.NewInMemoryStore(),
			ExpectedErr: ErrOutputValueZero,
		},
		{
			Name: "MemoTooLarge",
			Action: &Transfer{
				To:    bystander,
				Value: 1,
				Memo:  bytes.Repeat([]byte{0x6d}, MaxMemoSize+1),
			},
			Actor:       depositor,
			State:       chaintest.NewInMemoryStore(),
			ExpectedErr: ErrOutputMemoTooLarge,
		},
		{
			Name: "InsufficientBalance",
			Action: &Transfer{
				To:    bystander,
				Value: 1,
			},
			Actor:       depositor,
			State:       chaintest.NewInMemoryStore(),
			ExpectedErr: storage.ErrInvalidBalance,
		},
		{
			Name: "NativeTransfer",
			Action: &Transfer{
				To:    bystander,
				Value: 400,
			},
			Actor: depositor,
			State: funded,
			Assertion: func(ctx context.Context, t *testing.T, m state.Mutable) {
				require := require.New(t)
				sender, err := storage.GetBalance(ctx, m, depositor, ids.Empty)
				require.NoError(err)
				require.Equal(uint64(600), sender)
				receiver, err := storage.GetBalance(ctx, m, bystander, ids.Empty)
				require.NoError(err)
				require.Equal(uint64(400), receiver)
			},
		},
		{
			Name: "AssetTransfer",
			Action: &Transfer{
				To:    bystander,
				Asset: assetOne,
				Value: 500,
			},
			Actor: depositor,
			State: funded,
			Assertion: func(ctx context.Context, t *testing.T, m state.Mutable) {
				require := require.New(t)
				sender, err := storage.GetBalance(ctx, m, depositor, assetOne)
				require.NoError(err)
				require.Equal(uint64(0), sender)
				receiver, err := storage.GetBalance(ctx, m, bystander, assetOne)
				require.NoError(err)
				require.Equal(uint64(500), receiver)
			},
		},
	}

	for _, tt := range tests {
		tt.Run(ctx, t)
	}
}
