// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"

	"github.com/ava-labs/hypersdk/chain"
	hconsts "github.com/ava-labs/hypersdk/consts"
	hutils "github.com/ava-labs/hypersdk/utils"
	"github.com/spf13/cobra"

	"github.com/ava-labs/fundvm/actions"
	"github.com/ava-labs/fundvm/consts"
	"github.com/ava-labs/fundvm/pricing"
)

var factoryCmd = &cobra.Command{
	Use: "factory",
	RunE: func(*cobra.Command, []string) error {
		return ErrMissingSubcommand
	},
}

var initFactoryCmd = &cobra.Command{
	Use: "init",
	RunE: func(*cobra.Command, []string) error {
		ctx := context.Background()
		_, _, factory, hcli, scli, fcli, err := handler.DefaultActor()
		if err != nil {
			return err
		}

		// Ensure the factory is not already live
		exists, _, err := fcli.Factory(ctx)
		if err != nil {
			return err
		}
		if exists {
			hutils.Outf("{{red}}factory already initialized{{/}}\n")
			hutils.Outf("{{red}}exiting...{{/}}\n")
			return nil
		}

		// Select fee recipient
		feeRecipient, err := handler.Root().PromptAddress("fee recipient")
		if err != nil {
			return err
		}

		// Set fee policy
		entryFee, err := handler.Root().PromptAmount("entry fee (bps)", 0, pricing.MaxBPS, nil)
		if err != nil {
			return err
		}
		exitFee, err := handler.Root().PromptAmount("exit fee (bps)", 0, pricing.MaxBPS, nil)
		if err != nil {
			return err
		}
		creationFee, err := handler.Root().PromptAmount("creation fee", consts.Decimals, hconsts.MaxUint64, nil)
		if err != nil {
			return err
		}
		minManagementFee, err := handler.Root().PromptAmount("min management fee (bps)", 0, pricing.MaxBPS, nil)
		if err != nil {
			return err
		}
		maxManagementFee, err := handler.Root().PromptAmount("max management fee (bps)", 0, pricing.MaxBPS, nil)
		if err != nil {
			return err
		}
		creatorRatio, err := handler.Root().PromptAmount("creator fee ratio (bps)", 0, pricing.MaxBPS, nil)
		if err != nil {
			return err
		}

		// Confirm action
		cont, err := handler.Root().PromptContinue()
		if !cont || err != nil {
			return err
		}

		// Generate transaction
		// The platform always receives the remainder of the split.
		_, err = sendAndWait(ctx, []chain.Action{&actions.InitializeFactory{
			FeeRecipient:        feeRecipient,
			EntryFeeBps:         uint16(entryFee),
			ExitFeeBps:          uint16(exitFee),
			CreationFee:         creationFee,
			MinManagementFeeBps: uint16(minManagementFee),
			MaxManagementFeeBps: uint16(maxManagementFee),
			CreatorFeeRatioBps:  uint16(creatorRatio),
			PlatformFeeRatioBps: uint16(pricing.MaxBPS - creatorRatio),
		}}, hcli, scli, fcli, factory, true)
		return err
	},
}

var factoryInfoCmd = &cobra.Command{
	Use: "info",
	RunE: func(*cobra.Command, []string) error {
		ctx := context.Background()
		fcli, err := defaultFundCli(ctx)
		if err != nil {
			return err
		}
		exists, factory, err := fcli.Factory(ctx)
		if err != nil {
			return err
		}
		if !exists {
			hutils.Outf("{{red}}factory not initialized{{/}}\n")
			return nil
		}
		hutils.Outf(
			"{{yellow}}admin:{{/}} %s {{yellow}}feeRecipient:{{/}} %s {{yellow}}status:{{/}} %d {{yellow}}vaults:{{/}} %d\n",
			factory.Admin,
			factory.FeeRecipient,
			factory.Status,
			factory.VaultCount,
		)
		hutils.Outf(
			"{{yellow}}entryFee:{{/}} %d bps {{yellow}}exitFee:{{/}} %d bps {{yellow}}creationFee:{{/}} %s %s\n",
			factory.EntryFeeBps,
			factory.ExitFeeBps,
			hutils.FormatBalance(factory.CreationFee, consts.Decimals),
			consts.Symbol,
		)
		hutils.Outf(
			"{{yellow}}managementFee:{{/}} [%d, %d] bps {{yellow}}split:{{/}} %d/%d bps\n",
			factory.MinManagementFeeBps,
			factory.MaxManagementFeeBps,
			factory.CreatorFeeRatioBps,
			factory.PlatformFeeRatioBps,
		)
		return nil
	},
}

var setFactoryStatusCmd = &cobra.Command{
	Use: "set-status",
	RunE: func(*cobra.Command, []string) error {
		ctx := context.Background()
		_, _, factory, hcli, scli, fcli, err := handler.DefaultActor()
		if err != nil {
			return err
		}

		exists, factoryReply, err := fcli.Factory(ctx)
		if err != nil {
			return err
		}
		if !exists {
			hutils.Outf("{{red}}factory not initialized{{/}}\n")
			hutils.Outf("{{red}}exiting...{{/}}\n")
			return nil
		}
		hutils.Outf("{{yellow}}current status:{{/}} %d\n", factoryReply.Status)

		// Select new status
		status, err := handler.Root().PromptChoice("status (0=active, 1=paused, 2=deprecated)", 3)
		if err != nil {
			return err
		}

		// Confirm action
		cont, err := handler.Root().PromptContinue()
		if !cont || err != nil {
			return err
		}

		// Generate transaction
		_, err = sendAndWait(ctx, []chain.Action{&actions.SetFactoryStatus{
			Status: uint8(status),
		}}, hcli, scli, fcli, factory, true)
		return err
	},
}

var updateFactoryFeesCmd = &cobra.Command{
	Use: "update-fees",
	RunE: func(*cobra.Command, []string) error {
		ctx := context.Background()
		_, _, factory, hcli, scli, fcli, err := handler.DefaultActor()
		if err != nil {
			return err
		}

		exists, factoryReply, err := fcli.Factory(ctx)
		if err != nil {
			return err
		}
		if !exists {
			hutils.Outf("{{red}}factory not initialized{{/}}\n")
			hutils.Outf("{{red}}exiting...{{/}}\n")
			return nil
		}
		hutils.Outf(
			"{{yellow}}current fees:{{/}} entry %d bps exit %d bps creation %s %s management [%d, %d] bps split %d/%d bps\n",
			factoryReply.EntryFeeBps,
			factoryReply.ExitFeeBps,
			hutils.FormatBalance(factoryReply.CreationFee, consts.Decimals),
			consts.Symbol,
			factoryReply.MinManagementFeeBps,
			factoryReply.MaxManagementFeeBps,
			factoryReply.CreatorFeeRatioBps,
			factoryReply.PlatformFeeRatioBps,
		)

		// Set fee policy
		entryFee, err := handler.Root().PromptAmount("entry fee (bps)", 0, pricing.MaxBPS, nil)
		if err != nil {
			return err
		}
		exitFee, err := handler.Root().PromptAmount("exit fee (bps)", 0, pricing.MaxBPS, nil)
		if err != nil {
			return err
		}
		creationFee, err := handler.Root().PromptAmount("creation fee", consts.Decimals, hconsts.MaxUint64, nil)
		if err != nil {
			return err
		}
		minManagementFee, err := handler.Root().PromptAmount("min management fee (bps)", 0, pricing.MaxBPS, nil)
		if err != nil {
			return err
		}
		maxManagementFee, err := handler.Root().PromptAmount("max management fee (bps)", 0, pricing.MaxBPS, nil)
		if err != nil {
			return err
		}
		creatorRatio, err := handler.Root().PromptAmount("creator fee ratio (bps)", 0, pricing.MaxBPS, nil)
		if err != nil {
			return err
		}

		// Confirm action
		cont, err := handler.Root().PromptContinue()
		if !cont || err != nil {
			return err
		}

		// Generate transaction
		// The platform always receives the remainder of the split.
		_, err = sendAndWait(ctx, []chain.Action{&actions.UpdateFactoryFees{
			EntryFeeBps:         uint16(entryFee),
			ExitFeeBps:          uint16(exitFee),
			CreationFee:         creationFee,
			MinManagementFeeBps: uint16(minManagementFee),
			MaxManagementFeeBps: uint16(maxManagementFee),
			CreatorFeeRatioBps:  uint16(creatorRatio),
			PlatformFeeRatioBps: uint16(pricing.MaxBPS - creatorRatio),
		}}, hcli, scli, fcli, factory, true)
		return err
	},
}

var updateFactoryAdminCmd = &cobra.Command{
	Use: "update-admin",
	RunE: func(*cobra.Command, []string) error {
		ctx := context.Background()
		_, _, factory, hcli, scli, fcli, err := handler.DefaultActor()
		if err != nil {
			return err
		}

		exists, factoryReply, err := fcli.Factory(ctx)
		if err != nil {
			return err
		}
		if !exists {
			hutils.Outf("{{red}}factory not initialized{{/}}\n")
			hutils.Outf("{{red}}exiting...{{/}}\n")
			return nil
		}
		hutils.Outf(
			"{{yellow}}current admin:{{/}} %s {{yellow}}feeRecipient:{{/}} %s\n",
			factoryReply.Admin,
			factoryReply.FeeRecipient,
		)

		// Select new admin
		newAdmin, err := handler.Root().PromptAddress("new admin")
		if err != nil {
			return err
		}
		newFeeRecipient, err := handler.Root().PromptAddress("new fee recipient")
		if err != nil {
			return err
		}

		// Confirm action
		cont, err := handler.Root().PromptContinue()
		if !cont || err != nil {
			return err
		}

		// Generate transaction
		_, err = sendAndWait(ctx, []chain.Action{&actions.UpdateFactoryAdmin{
			NewAdmin:        newAdmin,
			NewFeeRecipient: newFeeRecipient,
		}}, hcli, scli, fcli, factory, true)
		return err
	},
}
