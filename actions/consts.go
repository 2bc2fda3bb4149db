// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

// Note: Registry will error during initialization if a duplicate ID is assigned. We explicitly assign IDs to avoid accidental remapping.
const (
	transferID           uint8 = 0
	createAssetID        uint8 = 1
	mintAssetID          uint8 = 2
	burnAssetID          uint8 = 3
	initializeFactoryID  uint8 = 4
	setFactoryStatusID   uint8 = 5
	updateFactoryFeesID  uint8 = 6
	updateFactoryAdminID uint8 = 7
	createVaultID        uint8 = 8
	depositID            uint8 = 9
	redeemID             uint8 = 10
	setVaultStatusID     uint8 = 11
	collectFeesID        uint8 = 12
	distributeFeesID     uint8 = 13
	claimFeesID          uint8 = 14
	syncAccrualID        uint8 = 15
	executeSwapID        uint8 = 16
	withdrawCustodyID    uint8 = 17
)

const (
	// TODO: tune this
	TransferComputeUnits           = 1
	CreateAssetComputeUnits        = 10
	MintAssetComputeUnits          = 2
	BurnAssetComputeUnits          = 2
	InitializeFactoryComputeUnits  = 10
	SetFactoryStatusComputeUnits   = 2
	UpdateFactoryFeesComputeUnits  = 2
	UpdateFactoryAdminComputeUnits = 2
	CreateVaultComputeUnits        = 15
	DepositComputeUnits            = 10
	RedeemComputeUnits             = 10
	SetVaultStatusComputeUnits     = 2
	CollectFeesComputeUnits        = 5
	DistributeFeesComputeUnits     = 10
	ClaimFeesComputeUnits          = 10
	SyncAccrualComputeUnits        = 5
	ExecuteSwapComputeUnits        = 5
	WithdrawCustodyComputeUnits    = 5

	MaxSymbolSize   = 8
	MaxMemoSize     = 256
	MaxMetadataSize = 256
	MaxDecimals     = 9

	MaxVaultNameSize   = 50
	MaxVaultSymbolSize = 30
	MinVaultAssets     = 1
	MaxVaultAssets     = 240

	MaxEntryFeeBps      = 1_000
	MaxExitFeeBps       = 1_000
	MaxManagementFeeBps = 2_000

	// SeedShares are minted to the vault's own share account at creation so
	// the supply is never zero afterwards.
	SeedShares uint64 = 1_000_000
)

// Block timestamps are in milliseconds; accrual clocks run in seconds.
const millisecondsPerSecond int64 = 1_000
