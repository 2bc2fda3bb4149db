// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"fmt"
	"reflect"

	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/hypersdk/chain"
	"github.com/ava-labs/hypersdk/cli"
	"github.com/ava-labs/hypersdk/rpc"
	hutils "github.com/ava-labs/hypersdk/utils"

	"github.com/ava-labs/fundvm/actions"
	"github.com/ava-labs/fundvm/consts"
	frpc "github.com/ava-labs/fundvm/rpc"
	"github.com/ava-labs/fundvm/storage"
	"github.com/ava-labs/fundvm/utils"
)

// sendAndWait may not be used concurrently
func sendAndWait(
	ctx context.Context, acts []chain.Action, hcli *rpc.JSONRPCClient,
	scli *rpc.WebSocketClient, fcli *frpc.JSONRPCClient, factory chain.AuthFactory, printStatus bool,
) (ids.ID, error) {
	parser, err := fcli.Parser(ctx)
	if err != nil {
		return ids.Empty, err
	}
	_, tx, _, err := hcli.GenerateTransaction(ctx, parser, acts, factory)
	if err != nil {
		return ids.Empty, err
	}

	if err := scli.RegisterTx(tx); err != nil {
		return ids.Empty, err
	}
	var res *chain.Result
	for {
		txID, dErr, result, err := scli.ListenTx(ctx)
		if dErr != nil {
			return ids.Empty, dErr
		}
		if err != nil {
			return ids.Empty, err
		}
		if txID == tx.ID() {
			res = result
			break
		}
		// TODO: don't drop these results (may be needed by a different connection)
		hutils.Outf("{{yellow}}skipping unexpected transaction:{{/}} %s\n", tx.ID())
	}
	if printStatus {
		handler.Root().PrintStatus(tx.ID(), res.Success)
	}
	return tx.ID(), nil
}

func handleTx(c *frpc.JSONRPCClient, tx *chain.Transaction, result *chain.Result) {
	actor := tx.Auth.Actor()
	if !result.Success {
		hutils.Outf(
			"%s {{yellow}}%s{{/}} {{yellow}}actor:{{/}} %s {{yellow}}error:{{/}} [%s] {{yellow}}fee (max %.2f%%):{{/}} %s %s {{yellow}}consumed:{{/}} [%s]\n",
			"❌",
			tx.ID(),
			utils.Address(actor),
			result.Error,
			float64(result.Fee)/float64(tx.Base.MaxFee)*100,
			hutils.FormatBalance(result.Fee, consts.Decimals),
			consts.Symbol,
			cli.ParseDimensions(result.Units),
		)
		return
	}

	for i, act := range tx.Actions {
		actionID := chain.CreateActionID(tx.ID(), uint8(i))
		var summaryStr string
		switch action := act.(type) {
		case *actions.Transfer:
			_, symbol, decimals, _, _, _, err := c.Asset(context.TODO(), action.Asset, true)
			if err != nil {
				hutils.Outf("{{red}}could not fetch asset info:{{/}} %v", err)
				return
			}
			amountStr := hutils.FormatBalance(action.Value, decimals)
			summaryStr = fmt.Sprintf("%s %s -> %s", amountStr, symbol, utils.Address(action.To))
			if len(action.Memo) > 0 {
				summaryStr += fmt.Sprintf(" (memo: %s)", action.Memo)
			}

		case *actions.CreateAsset:
			summaryStr = fmt.Sprintf("assetID: %s symbol: %s decimals: %d metadata: %s", actionID, action.Symbol, action.Decimals, action.Metadata)
		case *actions.MintAsset:
			_, symbol, decimals, _, _, _, err := c.Asset(context.TODO(), action.Asset, true)
			if err != nil {
				hutils.Outf("{{red}}could not fetch asset info:{{/}} %v", err)
				return
			}
			amountStr := hutils.FormatBalance(action.Value, decimals)
			summaryStr = fmt.Sprintf("%s %s -> %s", amountStr, symbol, utils.Address(action.To))
		case *actions.BurnAsset:
			summaryStr = fmt.Sprintf("%d %s -> 🔥", action.Value, action.Asset)

		case *actions.InitializeFactory:
			summaryStr = fmt.Sprintf(
				"feeRecipient: %s entryFee: %dbps exitFee: %dbps creationFee: %s %s managementFee: [%d, %d]bps split: %d/%d",
				utils.Address(action.FeeRecipient),
				action.EntryFeeBps,
				action.ExitFeeBps,
				hutils.FormatBalance(action.CreationFee, consts.Decimals),
				consts.Symbol,
				action.MinManagementFeeBps,
				action.MaxManagementFeeBps,
				action.CreatorFeeRatioBps,
				action.PlatformFeeRatioBps,
			)
		case *actions.SetFactoryStatus:
			summaryStr = fmt.Sprintf("status: %d", action.Status)
		case *actions.UpdateFactoryFees:
			summaryStr = fmt.Sprintf(
				"entryFee: %dbps exitFee: %dbps creationFee: %s %s managementFee: [%d, %d]bps split: %d/%d",
				action.EntryFeeBps,
				action.ExitFeeBps,
				hutils.FormatBalance(action.CreationFee, consts.Decimals),
				consts.Symbol,
				action.MinManagementFeeBps,
				action.MaxManagementFeeBps,
				action.CreatorFeeRatioBps,
				action.PlatformFeeRatioBps,
			)
		case *actions.UpdateFactoryAdmin:
			summaryStr = fmt.Sprintf("admin: %s feeRecipient: %s", utils.Address(action.NewAdmin), utils.Address(action.NewFeeRecipient))

		case *actions.CreateVault:
			vaultAddress := storage.VaultAddress(action.Index)
			summaryStr = fmt.Sprintf(
				"vault: %s name: %s symbol: %s managementFee: %dbps assets: %d",
				utils.Address(vaultAddress), action.Name, action.Symbol, action.ManagementFeeBps, len(action.Assets),
			)
		case *actions.Deposit:
			entryFee, _ := actions.UnpackUint64(result.Outputs[i][0])
			shares, _ := actions.UnpackUint64(result.Outputs[i][1])
			summaryStr = fmt.Sprintf(
				"%s %s -> %s (entry fee: %s %s shares: %s)",
				hutils.FormatBalance(action.Amount, consts.Decimals),
				consts.Symbol,
				utils.Address(action.Vault),
				hutils.FormatBalance(entryFee, consts.Decimals),
				consts.Symbol,
				hutils.FormatBalance(shares, consts.Decimals),
			)
		case *actions.Redeem:
			gross, _ := actions.UnpackUint64(result.Outputs[i][0])
			exitFee, _ := actions.UnpackUint64(result.Outputs[i][1])
			net, _ := actions.UnpackUint64(result.Outputs[i][2])
			summaryStr = fmt.Sprintf(
				"%s shares -> %s %s (gross: %s %s exit fee: %s %s)",
				hutils.FormatBalance(action.Shares, consts.Decimals),
				hutils.FormatBalance(net, consts.Decimals),
				consts.Symbol,
				hutils.FormatBalance(gross, consts.Decimals),
				consts.Symbol,
				hutils.FormatBalance(exitFee, consts.Decimals),
				consts.Symbol,
			)
		case *actions.SetVaultStatus:
			summaryStr = fmt.Sprintf("vault: %s paused: %t", utils.Address(action.Vault), action.Pause)

		case *actions.CollectFees:
			creatorPart, _ := actions.UnpackUint64(result.Outputs[i][0])
			platformPart, _ := actions.UnpackUint64(result.Outputs[i][1])
			summaryStr = fmt.Sprintf(
				"vault: %s creator: %s %s platform: %s %s",
				utils.Address(action.Vault),
				hutils.FormatBalance(creatorPart, consts.Decimals),
				consts.Symbol,
				hutils.FormatBalance(platformPart, consts.Decimals),
				consts.Symbol,
			)
		case *actions.DistributeFees:
			creatorShares, _ := actions.UnpackUint64(result.Outputs[i][0])
			platformShares, _ := actions.UnpackUint64(result.Outputs[i][1])
			summaryStr = fmt.Sprintf(
				"vault: %s creator: %s shares platform: %s shares",
				utils.Address(action.Vault),
				hutils.FormatBalance(creatorShares, consts.Decimals),
				hutils.FormatBalance(platformShares, consts.Decimals),
			)
		case *actions.ClaimFees:
			creatorShares, _ := actions.UnpackUint64(result.Outputs[i][0])
			platformShares, _ := actions.UnpackUint64(result.Outputs[i][1])
			summaryStr = fmt.Sprintf(
				"vault: %s creator: %s shares platform: %s shares",
				utils.Address(action.Vault),
				hutils.FormatBalance(creatorShares, consts.Decimals),
				hutils.FormatBalance(platformShares, consts.Decimals),
			)
		case *actions.SyncAccrual:
			gav, _ := actions.UnpackUint64(result.Outputs[i][0])
			nav, _ := actions.UnpackUint64(result.Outputs[i][1])
			newlyAccrued, _ := actions.UnpackUint64(result.Outputs[i][2])
			totalAccrued, _ := actions.UnpackUint64(result.Outputs[i][3])
			summaryStr = fmt.Sprintf(
				"vault: %s gav: %s %s nav: %s %s accrued: %s %s (total: %s %s)",
				utils.Address(action.Vault),
				hutils.FormatBalance(gav, consts.Decimals),
				consts.Symbol,
				hutils.FormatBalance(nav, consts.Decimals),
				consts.Symbol,
				hutils.FormatBalance(newlyAccrued, consts.Decimals),
				consts.Symbol,
				hutils.FormatBalance(totalAccrued, consts.Decimals),
				consts.Symbol,
			)

		case *actions.ExecuteSwap:
			summaryStr = fmt.Sprintf(
				"vault: %s amountIn: %s %s",
				utils.Address(action.Vault),
				hutils.FormatBalance(action.AmountIn, consts.Decimals),
				consts.Symbol,
			)
		case *actions.WithdrawCustody:
			_, symbol, decimals, _, _, _, err := c.Asset(context.TODO(), action.Asset, true)
			if err != nil {
				hutils.Outf("{{red}}could not fetch asset info:{{/}} %v", err)
				return
			}
			summaryStr = fmt.Sprintf(
				"%s %s: %s -> %s",
				hutils.FormatBalance(action.Amount, decimals),
				symbol,
				utils.Address(action.Vault),
				utils.Address(action.To),
			)
		}
		hutils.Outf(
			"%s {{yellow}}%s{{/}} {{yellow}}actor:{{/}} %s {{yellow}}summary (%s):{{/}} [%s] {{yellow}}fee (max %.2f%%):{{/}} %s %s {{yellow}}consumed:{{/}} [%s]\n",
			"✅",
			tx.ID(),
			utils.Address(actor),
			reflect.TypeOf(act),
			summaryStr,
			float64(result.Fee)/float64(tx.Base.MaxFee)*100,
			hutils.FormatBalance(result.Fee, consts.Decimals),
			consts.Symbol,
			cli.ParseDimensions(result.Units),
		)
	}
}
