// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"fmt"

	"github.com/ava-labs/hypersdk/chain"
	hconsts "github.com/ava-labs/hypersdk/consts"
	hutils "github.com/ava-labs/hypersdk/utils"
	"github.com/spf13/cobra"

	"github.com/ava-labs/fundvm/actions"
	"github.com/ava-labs/fundvm/consts"
	"github.com/ava-labs/fundvm/utils"
)

var collectFeesCmd = &cobra.Command{
	Use: "collect-fees",
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

		// Select vault
		vault, vaultReply, err := promptVault(ctx, fcli)
		if vaultReply == nil || err != nil {
			return err
		}

		// Preview what a collection settles right now
		preview, err := fcli.PreviewAccrual(ctx, utils.Address(vault), 0)
		if err != nil {
			return err
		}
		hutils.Outf(
			"{{yellow}}collectable:{{/}} %s %s\n",
			hutils.FormatBalance(preview.AccruedFees, consts.Decimals),
			consts.Symbol,
		)

		// Creator and fee recipient must match the stored records.
		creator, err := utils.ParseAddress(vaultReply.Admin)
		if err != nil {
			return err
		}
		feeRecipient, err := utils.ParseAddress(factoryReply.FeeRecipient)
		if err != nil {
			return err
		}

		// Confirm action
		cont, err := handler.Root().PromptContinue()
		if !cont || err != nil {
			return err
		}

		// Generate transaction
		_, err = sendAndWait(ctx, []chain.Action{&actions.CollectFees{
			Vault:        vault,
			Creator:      creator,
			FeeRecipient: feeRecipient,
		}}, hcli, scli, fcli, factory, true)
		return err
	},
}

var distributeFeesCmd = &cobra.Command{
	Use: "distribute-fees",
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

		// Select vault
		vault, vaultReply, err := promptVault(ctx, fcli)
		if vaultReply == nil || err != nil {
			return err
		}

		// Preview what is distributable right now
		preview, err := fcli.PreviewAccrual(ctx, utils.Address(vault), 0)
		if err != nil {
			return err
		}
		hutils.Outf(
			"{{yellow}}distributable:{{/}} %s %s\n",
			hutils.FormatBalance(preview.AccruedFees, consts.Decimals),
			consts.Symbol,
		)

		// Select amount (zero distributes everything accrued)
		amount, err := handler.Root().PromptAmount(
			"amount (0 = all)", consts.Decimals, preview.AccruedFees, nil,
		)
		if err != nil {
			return err
		}

		// Quote the price the fee shares will be minted at
		sharePrice, err := quoteSharePrice(vaultReply)
		if err != nil {
			return err
		}
		hutils.Outf(
			"{{yellow}}share price:{{/}} %s %s\n",
			hutils.FormatBalance(sharePrice, consts.Decimals),
			consts.Symbol,
		)

		// Creator and fee recipient must match the stored records.
		creator, err := utils.ParseAddress(vaultReply.Admin)
		if err != nil {
			return err
		}
		feeRecipient, err := utils.ParseAddress(factoryReply.FeeRecipient)
		if err != nil {
			return err
		}

		// Confirm action
		cont, err := handler.Root().PromptContinue()
		if !cont || err != nil {
			return err
		}

		// Generate transaction
		_, err = sendAndWait(ctx, []chain.Action{&actions.DistributeFees{
			Vault:        vault,
			SharePrice:   sharePrice,
			Amount:       amount,
			Creator:      creator,
			FeeRecipient: feeRecipient,
		}}, hcli, scli, fcli, factory, true)
		return err
	},
}

var claimFeesCmd = &cobra.Command{
	Use: "claim-fees",
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

		// Select vault
		vault, vaultReply, err := promptVault(ctx, fcli)
		if vaultReply == nil || err != nil {
			return err
		}

		// Preview what is claimable right now
		preview, err := fcli.PreviewAccrual(ctx, utils.Address(vault), 0)
		if err != nil {
			return err
		}
		hutils.Outf(
			"{{yellow}}claimable:{{/}} %s %s\n",
			hutils.FormatBalance(preview.AccruedFees, consts.Decimals),
			consts.Symbol,
		)

		// Quote the price the fee shares will be minted at
		sharePrice, err := quoteSharePrice(vaultReply)
		if err != nil {
			return err
		}
		hutils.Outf(
			"{{yellow}}share price:{{/}} %s %s\n",
			hutils.FormatBalance(sharePrice, consts.Decimals),
			consts.Symbol,
		)

		feeRecipient, err := utils.ParseAddress(factoryReply.FeeRecipient)
		if err != nil {
			return err
		}

		// Confirm action
		cont, err := handler.Root().PromptContinue()
		if !cont || err != nil {
			return err
		}

		// Generate transaction
		_, err = sendAndWait(ctx, []chain.Action{&actions.ClaimFees{
			Vault:        vault,
			SharePrice:   sharePrice,
			FeeRecipient: feeRecipient,
		}}, hcli, scli, fcli, factory, true)
		return err
	},
}

var syncAccrualCmd = &cobra.Command{
	Use: "sync-accrual",
	RunE: func(*cobra.Command, []string) error {
		ctx := context.Background()
		_, _, factory, hcli, scli, fcli, err := handler.DefaultActor()
		if err != nil {
			return err
		}

		// Select vault
		vault, vaultReply, err := promptVault(ctx, fcli)
		if vaultReply == nil || err != nil {
			return err
		}

		// Price every underlying, in record order. A price of 1 values one
		// whole asset unit at one whole native unit.
		prices := make([]actions.AssetPrice, 0, len(vaultReply.Assets))
		for _, asset := range vaultReply.Assets {
			price, err := handler.Root().PromptAmount(
				fmt.Sprintf("price of %s", asset.Asset), consts.Decimals, hconsts.MaxUint64, nil,
			)
			if err != nil {
				return err
			}
			prices = append(prices, actions.AssetPrice{
				Asset: asset.Asset,
				Price: price,
			})
		}

		// Confirm action
		cont, err := handler.Root().PromptContinue()
		if !cont || err != nil {
			return err
		}

		// Generate transaction
		_, err = sendAndWait(ctx, []chain.Action{&actions.SyncAccrual{
			Vault:  vault,
			Prices: prices,
		}}, hcli, scli, fcli, factory, true)
		return err
	},
}
