// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/hypersdk/chain"
	"github.com/ava-labs/hypersdk/chain/chaintest"
	"github.com/ava-labs/hypersdk/codec"
	"github.com/ava-labs/hypersdk/state"

	"github.com/ava-labs/fundvm/storage"
)

const (
	// Block timestamps are in milliseconds; [testNow] is the matching
	// accrual clock value in seconds.
	testTimestamp int64 = 1_700_000_000_000
	testNow       int64 = 1_700_000_000

	secondsPerWeek int64 = 604_800
)

var (
	factoryAdmin   = testAddress(0x01)
	platformWallet = testAddress(0x02)
	vaultCreator   = testAddress(0x03)
	depositor      = testAddress(0x04)
	bystander      = testAddress(0x05)

	assetOne = ids.ID{0x61}
	assetTwo = ids.ID{0x62}

	vaultZero = storage.VaultAddress(0)
)

func testAddress(b byte) codec.Address {
	var addr codec.Address
	for i := range addr {
		addr[i] = b
	}
	return addr
}

// testFactory returns a factory that already carries one vault (index 0).
func testFactory() *storage.Factory {
	return &storage.Factory{
		Admin:               factoryAdmin,
		FeeRecipient:        platformWallet,
		VaultCount:          1,
		Status:              storage.FactoryActive,
		EntryFeeBps:         25,
		ExitFeeBps:          25,
		CreationFee:         0,
		MinManagementFeeBps: 50,
		MaxManagementFeeBps: 300,
		CreatorFeeRatioBps:  7_000,
		PlatformFeeRatioBps: 3_000,
	}
}

// testVault returns vault 0 with its accrual clock already at [testNow], so
// executing at [testTimestamp] accrues nothing.
func testVault() *storage.Vault {
	return &storage.Vault{
		Index:            0,
		Admin:            vaultCreator,
		Name:             []byte("Blue Chip Basket"),
		Symbol:           []byte("BLUE"),
		ManagementFeeBps: 100,
		Status:           storage.VaultActive,
		TotalAssets:      0,
		TotalSupply:      SeedShares,
		CreatedAt:        testNow,
		LastAccrual:      testNow,
		AccruedFees:      0,
		Assets: []storage.VaultAsset{
			{Asset: assetOne, AllocationBps: 6_000},
			{Asset: assetTwo, AllocationBps: 4_000},
		},
	}
}

// seedState builds a fresh store holding the given records. Either may be
// nil; the vault is always stored at [vaultZero].
func seedState(t *testing.T, factory *storage.Factory, vault *storage.Vault) state.Mutable {
	t.Helper()
	require := require.New(t)
	ctx := context.Background()
	store := chaintest.NewInMemoryStore()
	if factory != nil {
		require.NoError(storage.SetFactory(ctx, store, factory))
	}
	if vault != nil {
		require.NoError(storage.SetVault(ctx, store, vaultZero, vault))
	}
	return store
}

func TestActionMarshalRoundTrip(t *testing.T) {
	tests := []struct {
		name      string
		action    chain.Action
		unmarshal func(*codec.Packer) (chain.Action, error)
	}{
		{
			name: "transfer",
			action: &Transfer{
				To:    depositor,
				Asset: assetOne,
				Value: 100,
				Memo:  []byte("rent"),
			},
			unmarshal: UnmarshalTransfer,
		},
		{
			name: "createAsset",
			action: &CreateAsset{
				Symbol:   []byte("WBTC"),
				Decimals: 8,
				Metadata: []byte("wrapped bitcoin"),
			},
			unmarshal: UnmarshalCreateAsset,
		},
		{
			name: "mintAsset",
			action: &MintAsset{
				To:    depositor,
				Asset: assetOne,
				Value: 1_000,
			},
			unmarshal: UnmarshalMintAsset,
		},
		{
			name: "burnAsset",
			action: &BurnAsset{
				Asset: assetOne,
				Value: 500,
			},
			unmarshal: UnmarshalBurnAsset,
		},
		{
			name: "initializeFactory",
			action: &InitializeFactory{
				FeeRecipient:        platformWallet,
				EntryFeeBps:         25,
				ExitFeeBps:          25,
				CreationFee:         10_000_000,
				MinManagementFeeBps: 50,
				MaxManagementFeeBps: 300,
				CreatorFeeRatioBps:  7_000,
				PlatformFeeRatioBps: 3_000,
			},
			unmarshal: UnmarshalInitializeFactory,
		},
		{
			name: "setFactoryStatus",
			action: &SetFactoryStatus{
				Status: uint8(storage.FactoryPaused),
			},
			unmarshal: UnmarshalSetFactoryStatus,
		},
		{
			name: "updateFactoryFees",
			action: &UpdateFactoryFees{
				EntryFeeBps:         30,
				ExitFeeBps:          40,
				CreationFee:         5_000_000,
				MinManagementFeeBps: 60,
				MaxManagementFeeBps: 200,
				CreatorFeeRatioBps:  6_000,
				PlatformFeeRatioBps: 4_000,
			},
			unmarshal: UnmarshalUpdateFactoryFees,
		},
		{
			name: "updateFactoryAdmin",
			action: &UpdateFactoryAdmin{
				NewAdmin:        vaultCreator,
				NewFeeRecipient: platformWallet,
			},
			unmarshal: UnmarshalUpdateFactoryAdmin,
		},
		{
			name: "createVault",
			action: &CreateVault{
				Index:            1,
				Name:             []byte("Blue Chip Basket"),
				Symbol:           []byte("BLUE"),
				ManagementFeeBps: 100,
				Assets: []storage.VaultAsset{
					{Asset: assetOne, AllocationBps: 6_000},
					{Asset: assetTwo, AllocationBps: 4_000},
				},
				FeeRecipient: platformWallet,
			},
			unmarshal: UnmarshalCreateVault,
		},
		{
			name: "deposit",
			action: &Deposit{
				Vault:        vaultZero,
				Amount:       1_000_000_000,
				SharePrice:   1_000_000,
				FeeRecipient: platformWallet,
			},
			unmarshal: UnmarshalDeposit,
		},
		{
			name: "redeem",
			action: &Redeem{
				Vault:        vaultZero,
				Shares:       997_500_000,
				SharePrice:   1_000_000,
				FeeRecipient: platformWallet,
			},
			unmarshal: UnmarshalRedeem,
		},
		{
			name: "setVaultStatus",
			action: &SetVaultStatus{
				Vault: vaultZero,
				Pause: true,
			},
			unmarshal: UnmarshalSetVaultStatus,
		},
		{
			name: "collectFees",
			action: &CollectFees{
				Vault:        vaultZero,
				Creator:      vaultCreator,
				FeeRecipient: platformWallet,
			},
			unmarshal: UnmarshalCollectFees,
		},
		{
			name: "distributeFees",
			action: &DistributeFees{
				Vault:        vaultZero,
				SharePrice:   1_000_000,
				Amount:       400_000,
				Creator:      vaultCreator,
				FeeRecipient: platformWallet,
			},
			unmarshal: UnmarshalDistributeFees,
		},
		{
			name: "claimFees",
			action: &ClaimFees{
				Vault:        vaultZero,
				SharePrice:   1_000_000,
				FeeRecipient: platformWallet,
			},
			unmarshal: UnmarshalClaimFees,
		},
		{
			name: "syncAccrual",
			action: &SyncAccrual{
				Vault: vaultZero,
				Prices: []AssetPrice{
					{Asset: assetOne, Price: 3_000_000},
					{Asset: assetTwo, Price: 2_000_000},
				},
			},
			unmarshal: UnmarshalSyncAccrual,
		},
		{
			name: "executeSwap",
			action: &ExecuteSwap{
				Vault:    vaultZero,
				AmountIn: 250_000,
			},
			unmarshal: UnmarshalExecuteSwap,
		},
		{
			name: "withdrawCustody",
			action: &WithdrawCustody{
				Vault:  vaultZero,
				To:     vaultCreator,
				Asset:  assetOne,
				Amount: 42_000,
			},
			unmarshal: UnmarshalWithdrawCustody,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			p := codec.NewWriter(tt.action.Size(), tt.action.Size())
			tt.action.Marshal(p)
			require.NoError(p.Err())
			require.Len(p.Bytes(), tt.action.Size())

			r := codec.NewReader(p.Bytes(), tt.action.Size())
			decoded, err := tt.unmarshal(r)
			require.NoError(err)
			require.Equal(tt.action, decoded)
		})
	}
}
