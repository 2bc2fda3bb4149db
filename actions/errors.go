// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import "errors"

var (
	// Token errors
	ErrOutputValueZero           = errors.New("value is zero")
	ErrOutputSymbolEmpty         = errors.New("symbol is empty")
	ErrOutputSymbolTooLarge      = errors.New("symbol is too large")
	ErrOutputDecimalsTooLarge    = errors.New("decimals is too large")
	ErrOutputMetadataEmpty       = errors.New("metadata is empty")
	ErrOutputMetadataTooLarge    = errors.New("metadata is too large")
	ErrOutputMemoTooLarge        = errors.New("memo is too large")
	ErrOutputAssetMissing        = errors.New("asset missing")
	ErrOutputWrongOwner          = errors.New("wrong owner")
	ErrOutputMintExceedsSupply   = errors.New("mint exceeds max supply")
	ErrOutputInsufficientBalance = errors.New("insufficient balance")

	// Factory errors
	ErrOutputFactoryExists       = errors.New("factory already initialized")
	ErrOutputFactoryMissing      = errors.New("factory not initialized")
	ErrOutputFactoryNotActive    = errors.New("factory is not active")
	ErrOutputNotFactoryAdmin     = errors.New("actor is not factory admin")
	ErrOutputInvalidFeeBps       = errors.New("fee bps exceeds cap")
	ErrOutputInvalidFeeBounds    = errors.New("management fee bounds are invalid")
	ErrOutputInvalidFeeSplit     = errors.New("fee split ratios must be positive and sum to 10000")
	ErrOutputInvalidStatus       = errors.New("invalid status")
	ErrOutputInvalidAddress      = errors.New("address is empty")
	ErrOutputInvalidStatusChange = errors.New("status change is not allowed")
	ErrOutputWrongFeeRecipient   = errors.New("fee recipient does not match factory record")

	// Vault errors
	ErrOutputVaultMissing            = errors.New("vault missing")
	ErrOutputVaultNotActive          = errors.New("vault is not active")
	ErrOutputVaultNotPaused          = errors.New("vault is not paused")
	ErrOutputVaultClosed             = errors.New("vault is closed")
	ErrOutputNotVaultAdmin           = errors.New("actor is not vault admin")
	ErrOutputWrongIndex              = errors.New("vault index does not match factory count")
	ErrOutputWrongCreator            = errors.New("creator does not match vault record")
	ErrOutputNameEmpty               = errors.New("vault name is empty")
	ErrOutputNameTooLarge            = errors.New("vault name is too large")
	ErrOutputVaultSymbolEmpty        = errors.New("vault symbol is empty")
	ErrOutputVaultSymbolTooLarge     = errors.New("vault symbol is too large")
	ErrOutputManagementFeeOutOfRange = errors.New("management fee is outside factory bounds")
	ErrOutputNoAssets                = errors.New("vault has no underlying assets")
	ErrOutputTooManyAssets           = errors.New("vault has too many underlying assets")
	ErrOutputDuplicateAsset          = errors.New("duplicate underlying asset")
	ErrOutputInvalidAllocation       = errors.New("allocations must be positive and sum to 10000")
	ErrOutputZeroShares              = errors.New("amount is too small to mint shares")
	ErrOutputInsufficientShares      = errors.New("insufficient share balance")
	ErrOutputNoSharesOutstanding     = errors.New("no shares outstanding")
	ErrOutputInsufficientCustody     = errors.New("insufficient vault custody")
	ErrOutputPriceCountMismatch      = errors.New("price entry per underlying asset required")

	// Output decoding
	ErrMalformedOutput = errors.New("malformed output")
)
