// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/hypersdk/chain"
	"github.com/ava-labs/hypersdk/codec"
	"github.com/ava-labs/hypersdk/rpc"
	hutils "github.com/ava-labs/hypersdk/utils"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/ava-labs/fundvm/actions"
	"github.com/ava-labs/fundvm/consts"
	"github.com/ava-labs/fundvm/pricing"
	frpc "github.com/ava-labs/fundvm/rpc"
	"github.com/ava-labs/fundvm/storage"
	"github.com/ava-labs/fundvm/utils"
)

var vaultCmd = &cobra.Command{
	Use: "vault",
	RunE: func(*cobra.Command, []string) error {
		return ErrMissingSubcommand
	},
}

// promptVault asks for a vault (bech32 address or creation index) and
// fetches its record, returning a nil reply when the vault does not exist
// (the caller exits cleanly).
func promptVault(ctx context.Context, fcli *frpc.JSONRPCClient) (codec.Address, *frpc.VaultReply, error) {
	promptText := promptui.Prompt{
		Label: "vault (address or index)",
		Validate: func(input string) error {
			if len(input) == 0 {
				return errors.New("input is empty")
			}
			if _, err := strconv.ParseUint(input, 10, 32); err == nil {
				return nil
			}
			_, err := utils.ParseAddress(input)
			return err
		},
	}
	rawVault, err := promptText.Run()
	if err != nil {
		return codec.EmptyAddress, nil, err
	}
	vault, err := resolveVault(ctx, fcli, rawVault)
	if err != nil {
		return codec.EmptyAddress, nil, err
	}
	exists, vaultReply, err := fcli.Vault(ctx, utils.Address(vault))
	if err != nil {
		return codec.EmptyAddress, nil, err
	}
	if !exists {
		hutils.Outf("{{red}}%s does not exist{{/}}\n", utils.Address(vault))
		hutils.Outf("{{red}}exiting...{{/}}\n")
		return codec.EmptyAddress, nil, nil
	}
	return vault, vaultReply, nil
}

// resolveVault maps a creation index to the tracked vault's address; bech32
// input passes through unchanged.
func resolveVault(ctx context.Context, fcli *frpc.JSONRPCClient, input string) (codec.Address, error) {
	index, err := strconv.ParseUint(input, 10, 32)
	if err != nil {
		return utils.ParseAddress(input)
	}
	vaults, err := fcli.Vaults(ctx)
	if err != nil {
		return codec.EmptyAddress, err
	}
	for _, v := range vaults {
		if uint64(v.Index) == index {
			return utils.ParseAddress(v.Address)
		}
	}
	return codec.EmptyAddress, ErrUnknownVault
}

// quoteSharePrice derives the spot share price from the vault's ledger, net
// of fees already accrued. The quoted value is what gets submitted on-chain,
// so the user always sees the price they will trade at.
func quoteSharePrice(vault *frpc.VaultReply) (uint64, error) {
	nav := vault.TotalAssets
	if vault.AccruedFees > nav {
		nav = 0
	} else {
		nav -= vault.AccruedFees
	}
	return pricing.SharePrice(nav, vault.TotalSupply, pricing.PriceScale)
}

// defaultFundCli connects a fundvm client to the default chain. Used by
// read-only commands that never sign anything.
func defaultFundCli(ctx context.Context) (*frpc.JSONRPCClient, error) {
	chainID, uris, err := handler.Root().GetDefaultChain(true)
	if err != nil {
		return nil, err
	}
	rcli := rpc.NewJSONRPCClient(uris[0])
	networkID, _, _, err := rcli.Network(ctx)
	if err != nil {
		return nil, err
	}
	return frpc.NewJSONRPCClient(uris[0], networkID, chainID), nil
}

var createVaultCmd = &cobra.Command{
	Use: "create",
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
			"{{yellow}}creation fee:{{/}} %s %s {{yellow}}management fee range:{{/}} [%d, %d] bps\n",
			hutils.FormatBalance(factoryReply.CreationFee, consts.Decimals),
			consts.Symbol,
			factoryReply.MinManagementFeeBps,
			factoryReply.MaxManagementFeeBps,
		)

		// Set vault identity
		name, err := handler.Root().PromptString("name", 1, actions.MaxVaultNameSize)
		if err != nil {
			return err
		}
		symbol, err := handler.Root().PromptString("symbol", 1, actions.MaxVaultSymbolSize)
		if err != nil {
			return err
		}
		managementFee, err := handler.Root().PromptAmount(
			"management fee (bps)", 0, uint64(factoryReply.MaxManagementFeeBps), nil,
		)
		if err != nil {
			return err
		}

		// Select underlying assets
		numAssets, err := handler.Root().PromptInt("number of assets", actions.MaxVaultAssets)
		if err != nil {
			return err
		}
		assets := make([]storage.VaultAsset, 0, numAssets)
		var allocated uint64
		for i := 0; i < numAssets; i++ {
			assetID, err := handler.Root().PromptAsset(fmt.Sprintf("asset %d", i), false)
			if err != nil {
				return err
			}
			allocation, err := handler.Root().PromptAmount(
				fmt.Sprintf("allocation %d (bps)", i), 0, pricing.MaxBPS-allocated, nil,
			)
			if err != nil {
				return err
			}
			allocated += allocation
			assets = append(assets, storage.VaultAsset{
				Asset:         assetID,
				AllocationBps: uint16(allocation),
			})
		}
		if allocated != pricing.MaxBPS {
			hutils.Outf("{{red}}allocations must sum to %d bps{{/}}\n", pricing.MaxBPS)
			hutils.Outf("{{red}}exiting...{{/}}\n")
			return nil
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
		_, err = sendAndWait(ctx, []chain.Action{&actions.CreateVault{
			Index:            factoryReply.VaultCount,
			Name:             []byte(name),
			Symbol:           []byte(symbol),
			ManagementFeeBps: uint16(managementFee),
			Assets:           assets,
			FeeRecipient:     feeRecipient,
		}}, hcli, scli, fcli, factory, true)
		return err
	},
}

var depositCmd = &cobra.Command{
	Use: "deposit",
	RunE: func(*cobra.Command, []string) error {
		ctx := context.Background()
		_, priv, factory, hcli, scli, fcli, err := handler.DefaultActor()
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

		// Check native balance
		_, _, balance, err := handler.GetAssetInfo(ctx, fcli, priv.Address, ids.Empty, true)
		if balance == 0 || err != nil {
			return err
		}

		// Select amount
		amount, err := handler.Root().PromptAmount("amount", consts.Decimals, balance, nil)
		if err != nil {
			return err
		}

		// Quote the spot price the deposit will execute at
		sharePrice, err := quoteSharePrice(vaultReply)
		if err != nil {
			return err
		}
		hutils.Outf(
			"{{yellow}}share price:{{/}} %s %s {{yellow}}entry fee:{{/}} %d bps\n",
			hutils.FormatBalance(sharePrice, consts.Decimals),
			consts.Symbol,
			factoryReply.EntryFeeBps,
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
		_, err = sendAndWait(ctx, []chain.Action{&actions.Deposit{
			Vault:        vault,
			Amount:       amount,
			SharePrice:   sharePrice,
			FeeRecipient: feeRecipient,
		}}, hcli, scli, fcli, factory, true)
		return err
	},
}

var redeemCmd = &cobra.Command{
	Use: "redeem",
	RunE: func(*cobra.Command, []string) error {
		ctx := context.Background()
		_, priv, factory, hcli, scli, fcli, err := handler.DefaultActor()
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

		// Check share balance
		shares, err := fcli.ShareBalance(ctx, utils.Address(vault), utils.Address(priv.Address))
		if err != nil {
			return err
		}
		if shares == 0 {
			hutils.Outf("{{red}}no shares to redeem{{/}}\n")
			hutils.Outf("{{red}}exiting...{{/}}\n")
			return nil
		}
		hutils.Outf(
			"{{yellow}}share balance:{{/}} %s %s\n",
			hutils.FormatBalance(shares, consts.Decimals),
			string(vaultReply.Symbol),
		)

		// Select shares to burn
		amount, err := handler.Root().PromptAmount("shares", consts.Decimals, shares, nil)
		if err != nil {
			return err
		}

		// Quote the spot price the redemption will execute at
		sharePrice, err := quoteSharePrice(vaultReply)
		if err != nil {
			return err
		}
		hutils.Outf(
			"{{yellow}}share price:{{/}} %s %s {{yellow}}exit fee:{{/}} %d bps\n",
			hutils.FormatBalance(sharePrice, consts.Decimals),
			consts.Symbol,
			factoryReply.ExitFeeBps,
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
		_, err = sendAndWait(ctx, []chain.Action{&actions.Redeem{
			Vault:        vault,
			Shares:       amount,
			SharePrice:   sharePrice,
			FeeRecipient: feeRecipient,
		}}, hcli, scli, fcli, factory, true)
		return err
	},
}

var pauseVaultCmd = &cobra.Command{
	Use: "pause",
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
		hutils.Outf("{{yellow}}current status:{{/}} %d\n", vaultReply.Status)

		// Confirm action
		cont, err := handler.Root().PromptContinue()
		if !cont || err != nil {
			return err
		}

		// Generate transaction
		_, err = sendAndWait(ctx, []chain.Action{&actions.SetVaultStatus{
			Vault: vault,
			Pause: true,
		}}, hcli, scli, fcli, factory, true)
		return err
	},
}

var resumeVaultCmd = &cobra.Command{
	Use: "resume",
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
		hutils.Outf("{{yellow}}current status:{{/}} %d\n", vaultReply.Status)

		// Confirm action
		cont, err := handler.Root().PromptContinue()
		if !cont || err != nil {
			return err
		}

		// Generate transaction
		_, err = sendAndWait(ctx, []chain.Action{&actions.SetVaultStatus{
			Vault: vault,
			Pause: false,
		}}, hcli, scli, fcli, factory, true)
		return err
	},
}

var executeSwapCmd = &cobra.Command{
	Use: "execute-swap",
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

		// Check vault custody
		custody, err := fcli.Balance(ctx, utils.Address(vault), ids.Empty)
		if err != nil {
			return err
		}
		if custody == 0 {
			hutils.Outf("{{red}}vault custody is empty{{/}}\n")
			hutils.Outf("{{red}}exiting...{{/}}\n")
			return nil
		}
		hutils.Outf(
			"{{yellow}}custody:{{/}} %s %s\n",
			hutils.FormatBalance(custody, consts.Decimals),
			consts.Symbol,
		)

		// Select amount to authorize
		amountIn, err := handler.Root().PromptAmount("amount in", consts.Decimals, custody, nil)
		if err != nil {
			return err
		}

		// Confirm action
		cont, err := handler.Root().PromptContinue()
		if !cont || err != nil {
			return err
		}

		// Generate transaction
		_, err = sendAndWait(ctx, []chain.Action{&actions.ExecuteSwap{
			Vault:    vault,
			AmountIn: amountIn,
		}}, hcli, scli, fcli, factory, true)
		return err
	},
}

var withdrawCustodyCmd = &cobra.Command{
	Use: "withdraw-custody",
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

		// Select asset held in custody
		assetID, err := handler.Root().PromptAsset("assetID", true)
		if err != nil {
			return err
		}
		_, decimals, custody, err := handler.GetAssetInfo(ctx, fcli, vault, assetID, true)
		if custody == 0 || err != nil {
			return err
		}

		// Select recipient
		recipient, err := handler.Root().PromptAddress("recipient")
		if err != nil {
			return err
		}

		// Select amount
		amount, err := handler.Root().PromptAmount("amount", decimals, custody, nil)
		if err != nil {
			return err
		}

		// Confirm action
		cont, err := handler.Root().PromptContinue()
		if !cont || err != nil {
			return err
		}

		// Generate transaction
		_, err = sendAndWait(ctx, []chain.Action{&actions.WithdrawCustody{
			Vault:  vault,
			To:     recipient,
			Asset:  assetID,
			Amount: amount,
		}}, hcli, scli, fcli, factory, true)
		return err
	},
}

var vaultInfoCmd = &cobra.Command{
	Use: "info",
	RunE: func(*cobra.Command, []string) error {
		ctx := context.Background()
		fcli, err := defaultFundCli(ctx)
		if err != nil {
			return err
		}

		_, vaultReply, err := promptVault(ctx, fcli)
		if vaultReply == nil || err != nil {
			return err
		}
		hutils.Outf(
			"{{yellow}}index:{{/}} %d {{yellow}}name:{{/}} %s {{yellow}}symbol:{{/}} %s {{yellow}}admin:{{/}} %s {{yellow}}status:{{/}} %d\n",
			vaultReply.Index,
			string(vaultReply.Name),
			string(vaultReply.Symbol),
			vaultReply.Admin,
			vaultReply.Status,
		)
		hutils.Outf(
			"{{yellow}}aum:{{/}} %s %s {{yellow}}supply:{{/}} %s {{yellow}}accrued fees:{{/}} %s %s\n",
			hutils.FormatBalance(vaultReply.TotalAssets, consts.Decimals),
			consts.Symbol,
			hutils.FormatBalance(vaultReply.TotalSupply, consts.Decimals),
			hutils.FormatBalance(vaultReply.AccruedFees, consts.Decimals),
			consts.Symbol,
		)
		hutils.Outf(
			"{{yellow}}management fee:{{/}} %d bps {{yellow}}created:{{/}} %d {{yellow}}last accrual:{{/}} %d\n",
			vaultReply.ManagementFeeBps,
			vaultReply.CreatedAt,
			vaultReply.LastAccrual,
		)
		price, err := quoteSharePrice(vaultReply)
		if err != nil {
			return err
		}
		hutils.Outf(
			"{{yellow}}share price:{{/}} %s %s\n",
			hutils.FormatBalance(price, consts.Decimals),
			consts.Symbol,
		)
		for _, asset := range vaultReply.Assets {
			hutils.Outf(
				"{{yellow}}asset:{{/}} %s {{yellow}}allocation:{{/}} %d bps\n",
				asset.Asset,
				asset.AllocationBps,
			)
		}
		return nil
	},
}

var vaultsCmd = &cobra.Command{
	Use: "list",
	RunE: func(*cobra.Command, []string) error {
		ctx := context.Background()
		fcli, err := defaultFundCli(ctx)
		if err != nil {
			return err
		}

		vaults, err := fcli.Vaults(ctx)
		if err != nil {
			return err
		}
		if len(vaults) == 0 {
			hutils.Outf("{{red}}no vaults tracked{{/}}\n")
			return nil
		}
		for i, v := range vaults {
			hutils.Outf(
				"%d) {{cyan}}%s{{/}} [%s] {{cyan}}address:{{/}} %s {{cyan}}aum:{{/}} %s %s {{cyan}}fee:{{/}} %d bps {{cyan}}status:{{/}} %d\n",
				i,
				v.Name,
				v.Symbol,
				v.Address,
				hutils.FormatBalance(v.TotalAssets, consts.Decimals),
				consts.Symbol,
				v.ManagementFeeBps,
				v.Status,
			)
		}
		return nil
	},
}

var previewAccrualCmd = &cobra.Command{
	Use: "preview-accrual",
	RunE: func(*cobra.Command, []string) error {
		ctx := context.Background()
		fcli, err := defaultFundCli(ctx)
		if err != nil {
			return err
		}

		vault, vaultReply, err := promptVault(ctx, fcli)
		if vaultReply == nil || err != nil {
			return err
		}

		// Timestamp zero previews accrual at the server's current time.
		preview, err := fcli.PreviewAccrual(ctx, utils.Address(vault), 0)
		if err != nil {
			return err
		}
		hutils.Outf(
			"{{yellow}}pending:{{/}} %s %s {{yellow}}total accrued:{{/}} %s %s\n",
			hutils.FormatBalance(preview.Pending, consts.Decimals),
			consts.Symbol,
			hutils.FormatBalance(preview.AccruedFees, consts.Decimals),
			consts.Symbol,
		)
		hutils.Outf(
			"{{yellow}}aum:{{/}} %s %s {{yellow}}last accrual:{{/}} %d\n",
			hutils.FormatBalance(preview.TotalAssets, consts.Decimals),
			consts.Symbol,
			preview.LastAccrual,
		)
		return nil
	},
}

var shareBalanceCmd = &cobra.Command{
	Use: "share-balance",
	RunE: func(*cobra.Command, []string) error {
		ctx := context.Background()
		fcli, err := defaultFundCli(ctx)
		if err != nil {
			return err
		}

		vault, vaultReply, err := promptVault(ctx, fcli)
		if vaultReply == nil || err != nil {
			return err
		}

		// Select holder
		addr, err := handler.Root().PromptAddress("address")
		if err != nil {
			return err
		}
		shares, err := fcli.ShareBalance(ctx, utils.Address(vault), utils.Address(addr))
		if err != nil {
			return err
		}
		hutils.Outf(
			"{{yellow}}share balance:{{/}} %s %s\n",
			hutils.FormatBalance(shares, consts.Decimals),
			string(vaultReply.Symbol),
		)
		return nil
	},
}
