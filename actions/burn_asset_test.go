// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/hypersdk/chain/chaintest"
	"github.com/ava-labs/hypersdk/state"

	"github.com/ava-labs/fundvm/storage"
)

func TestBurnAsset(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	asset := ids.GenerateTestID()
	funded := chaintest.NewInMemoryStore()
	require.NoError(storage.SetAsset(ctx, funded, asset, []byte("WBTC"), 8, []byte("wrapped bitcoin"), 1_500, vaultCreator))
	require.NoError(storage.SetBalance(ctx, funded, depositor, asset, 1_000))

	tests := []chaintest.ActionTest{
		{
			Name: "NativeAsset",
			Action: &BurnAsset{
				Asset: ids.Empty,
				Value: 10,
			},
			Actor:       depositor,
			State:       chaintest.NewInMemoryStore(),
			ExpectedErr: ErrOutputAssetMissing,
		},
		{
			Name: "ZeroValue",
			Action: &BurnAsset{
				Asset: asset,
				Value: 0,
			},
			Actor:       depositor,
			State:       chaintest.NewInMemoryStore(),
			ExpectedErr: ErrOutputValueZero,
		},
		{
			Name: "MissingAsset",
			Action: &BurnAsset{
				Asset: asset,
				Value: 10,
			},
			Actor:       depositor,
			State:       chaintest.NewInMemoryStore(),
			ExpectedErr: ErrOutputAssetMissing,
		},
		{
			Name: "BurnExceedsSupply",
			Action: &BurnAsset{
				Asset: asset,
				Value: 2_000,
			},
			Actor:       depositor,
			State:       funded,
			ExpectedErr: ErrOutputInsufficientBalance,
		},
		{
			Name: "ValidBurn",
			Action: &BurnAsset{
				Asset: asset,
				Value: 600,
			},
			Actor: depositor,
			State: funded,
			Assertion: func(ctx context.Context, t *testing.T, m state.Mutable) {
				require := require.New(t)
				exists, _, _, _, supply, owner, err := storage.GetAsset(ctx, m, asset)
				require.NoError(err)
				require.True(exists)
				require.Equal(uint64(900), supply)
				require.Equal(vaultCreator, owner)
				bal, err := storage.GetBalance(ctx, m, depositor, asset)
				require.NoError(err)
				require.Equal(uint64(400), bal)
			},
		},
	}

	for _, tt := range tests {
		tt.Run(ctx, t)
	}
}
