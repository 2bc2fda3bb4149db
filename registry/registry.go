// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package registry

import (
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/ava-labs/hypersdk/auth"
	"github.com/ava-labs/hypersdk/chain"
	"github.com/ava-labs/hypersdk/codec"

	"github.com/ava-labs/fundvm/actions"
	"github.com/ava-labs/fundvm/consts"
)

// Setup types
func init() {
	consts.ActionRegistry = codec.NewTypeParser[chain.Action]()
	consts.AuthRegistry = codec.NewTypeParser[chain.Auth]()

	errs := &wrappers.Errs{}
	errs.Add(
		// When registering new actions, ALWAYS make sure to append at the end.
		consts.ActionRegistry.Register(&actions.Transfer{}, actions.UnmarshalTransfer),

		consts.ActionRegistry.Register(&actions.CreateAsset{}, actions.UnmarshalCreateAsset),
		consts.ActionRegistry.Register(&actions.MintAsset{}, actions.UnmarshalMintAsset),
		consts.ActionRegistry.Register(&actions.BurnAsset{}, actions.UnmarshalBurnAsset),

		consts.ActionRegistry.Register(&actions.InitializeFactory{}, actions.UnmarshalInitializeFactory),
		consts.ActionRegistry.Register(&actions.SetFactoryStatus{}, actions.UnmarshalSetFactoryStatus),
		consts.ActionRegistry.Register(&actions.UpdateFactoryFees{}, actions.UnmarshalUpdateFactoryFees),
		consts.ActionRegistry.Register(&actions.UpdateFactoryAdmin{}, actions.UnmarshalUpdateFactoryAdmin),

		consts.ActionRegistry.Register(&actions.CreateVault{}, actions.UnmarshalCreateVault),
		consts.ActionRegistry.Register(&actions.Deposit{}, actions.UnmarshalDeposit),
		consts.ActionRegistry.Register(&actions.Redeem{}, actions.UnmarshalRedeem),
		consts.ActionRegistry.Register(&actions.SetVaultStatus{}, actions.UnmarshalSetVaultStatus),

		consts.ActionRegistry.Register(&actions.CollectFees{}, actions.UnmarshalCollectFees),
		consts.ActionRegistry.Register(&actions.DistributeFees{}, actions.UnmarshalDistributeFees),
		consts.ActionRegistry.Register(&actions.ClaimFees{}, actions.UnmarshalClaimFees),
		consts.ActionRegistry.Register(&actions.SyncAccrual{}, actions.UnmarshalSyncAccrual),

		consts.ActionRegistry.Register(&actions.ExecuteSwap{}, actions.UnmarshalExecuteSwap),
		consts.ActionRegistry.Register(&actions.WithdrawCustody{}, actions.UnmarshalWithdrawCustody),

		// When registering new auth, ALWAYS make sure to append at the end.
		consts.AuthRegistry.Register(&auth.ED25519{}, auth.UnmarshalED25519),
		consts.AuthRegistry.Register(&auth.SECP256R1{}, auth.UnmarshalSECP256R1),
		consts.AuthRegistry.Register(&auth.BLS{}, auth.UnmarshalBLS),
	)
	if errs.Errored() {
		panic(errs.Err)
	}
}
