// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/hypersdk/chain/chaintest"
	hconsts "github.com/ava-labs/hypersdk/consts"
	"github.com/ava-labs/hypersdk/state"

	"github.com/ava-labs/fundvm/storage"
)

func TestMintAsset(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	asset := ids.GenerateTestID()
	seedAsset := func(supply uint64) state.Mutable {
		store := chaintest.NewInMemoryStore()
		require.NoError(storage.SetAsset(ctx, store, asset, []byte("WBTC"), 8, []byte("wrapped bitcoin"), supply, vaultCreator))
		return store
	}

	tests := []chaintest.ActionTest{
		{
			Name: "NativeAsset",
			Action: &MintAsset{
				To:    depositor,
				Asset: ids.Empty,
				Value: 10,
			},
			Actor:       vaultCreator,
			State:       chaintest.NewInMemoryStore(),
			ExpectedErr: ErrOutputAssetMissing,
		},
		{
			Name: "ZeroValue",
			Action: &MintAsset{
				To:    depositor,
				Asset: asset,
				Value: 0,
			},
			Actor:       vaultCreator,
			State:       chaintest.NewInMemoryStore(),
			ExpectedErr: ErrOutputValueZero,
		},
		{
			Name: "MissingAsset",
			Action: &MintAsset{
				To:    depositor,
				Asset: asset,
				Value: 10,
			},
			Actor:       vaultCreator,
			State:       chaintest.NewInMemoryStore(),
			ExpectedErr: ErrOutputAssetMissing,
		},
		{
			Name: "NotOwner",
			Action: &MintAsset{
				To:    depositor,
				Asset: asset,
				Value: 10,
			},
			Actor:       bystander,
			State:       seedAsset(0),
			ExpectedErr: ErrOutputWrongOwner,
		},
		{
			Name: "SupplyOverflow",
			Action: &MintAsset{
				To:    depositor,
				Asset: asset,
				Value: 2,
			},
			Actor:       vaultCreator,
			State:       seedAsset(hconsts.MaxUint64 - 1),
			ExpectedErr: ErrOutputMintExceedsSupply,
		},
		{
			Name: "ValidMint",
			Action: &MintAsset{
				To:    depositor,
				Asset: asset,
				Value: 1_000,
			},
			Actor: vaultCreator,
			State: seedAsset(500),
			Assertion: func(ctx context.Context, t *testing.T, m state.Mutable) {
				require := require.New(t)
				exists, _, _, _, supply, owner, err := storage.GetAsset(ctx, m, asset)
				require.NoError(err)
				require.True(exists)
				require.Equal(uint64(1_500), supply)
				require.Equal(vaultCreator, owner)
				bal, err := storage.GetBalance(ctx, m, depositor, asset)
				require.NoError(err)
				require.Equal(uint64(1_000), bal)
			},
		},
	}

	for _, tt := range tests {
		tt.Run(ctx, t)
	}
}
