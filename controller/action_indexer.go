// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package controller

import (
	"context"

	"github.com/ava-labs/hypersdk/chain"
	"github.com/ava-labs/hypersdk/extensions/indexer"

	"github.com/ava-labs/fundvm/actions"
	"github.com/ava-labs/fundvm/storage"
)

var _ indexer.SuccessfulTxIndexer = &successfulTxIndexer{}

type successfulTxIndexer struct {
	c *Controller
}

func (s *successfulTxIndexer) Accepted(_ context.Context, tx *chain.Transaction, result *chain.Result) error {
	for i, act := range tx.Actions {
		switch action := act.(type) {
		case *actions.Transfer:
			s.c.metrics.transfer.Inc()
		case *actions.CreateAsset:
			s.c.metrics.createAsset.Inc()
		case *actions.MintAsset:
			s.c.metrics.mintAsset.Inc()
		case *actions.BurnAsset:
			s.c.metrics.burnAsset.Inc()
		case *actions.InitializeFactory:
			s.c.metrics.initializeFactory.Inc()
		case *actions.SetFactoryStatus:
			s.c.metrics.setFactoryStatus.Inc()
		case *actions.UpdateFactoryFees:
			s.c.metrics.updateFactoryFees.Inc()
		case *actions.UpdateFactoryAdmin:
			s.c.metrics.updateFactoryAdmin.Inc()
		case *actions.CreateVault:
			s.c.metrics.createVault.Inc()
			s.c.vaultBook.Add(storage.VaultAddress(action.Index), tx.Auth.Actor(), action)
		case *actions.Deposit:
			s.c.metrics.deposit.Inc()
			outputs := result.Outputs[i]
			entryFee, err := actions.UnpackUint64(outputs[0])
			if err != nil {
				// This should never happen
				return err
			}
			shares, err := actions.UnpackUint64(outputs[1])
			if err != nil {
				// This should never happen
				return err
			}
			s.c.vaultBook.ApplyDeposit(action.Vault, action.Amount-entryFee, shares)
		case *actions.Redeem:
			s.c.metrics.redeem.Inc()
			gross, err := actions.UnpackUint64(result.Outputs[i][0])
			if err != nil {
				// This should never happen
				return err
			}
			s.c.vaultBook.ApplyRedeem(action.Vault, gross, action.Shares)
		case *actions.SetVaultStatus:
			s.c.metrics.setVaultStatus.Inc()
			status := storage.VaultActive
			if action.Pause {
				status = storage.VaultPaused
			}
			s.c.vaultBook.SetStatus(action.Vault, status)
		case *actions.CollectFees:
			s.c.metrics.collectFees.Inc()
			outputs := result.Outputs[i]
			creatorPart, err := actions.UnpackUint64(outputs[0])
			if err != nil {
				// This should never happen
				return err
			}
			platformPart, err := actions.UnpackUint64(outputs[1])
			if err != nil {
				// This should never happen
				return err
			}
			s.c.vaultBook.ApplyFeesPaid(action.Vault, creatorPart+platformPart)
		case *actions.DistributeFees:
			s.c.metrics.distributeFees.Inc()
			minted, err := sumShareOutputs(result.Outputs[i])
			if err != nil {
				// This should never happen
				return err
			}
			if action.Amount == 0 {
				// A zero amount distributes the full accrued balance.
				s.c.vaultBook.ApplyFeesClaimed(action.Vault, minted)
			} else {
				s.c.vaultBook.ApplyFeesDistributed(action.Vault, action.Amount, minted)
			}
		case *actions.ClaimFees:
			s.c.metrics.claimFees.Inc()
			minted, err := sumShareOutputs(result.Outputs[i])
			if err != nil {
				// This should never happen
				return err
			}
			s.c.vaultBook.ApplyFeesClaimed(action.Vault, minted)
		case *actions.SyncAccrual:
			s.c.metrics.syncAccrual.Inc()
			outputs := result.Outputs[i]
			totalAccrued, err := actions.UnpackUint64(outputs[len(outputs)-1])
			if err != nil {
				// This should never happen
				return err
			}
			s.c.vaultBook.SetAccrued(action.Vault, totalAccrued)
		case *actions.ExecuteSwap:
			s.c.metrics.executeSwap.Inc()
		case *actions.WithdrawCustody:
			s.c.metrics.withdrawCustody.Inc()
		}
	}

	return nil
}

// sumShareOutputs totals the creator and platform share mints emitted by a
// fee distribution.
func sumShareOutputs(outputs [][]byte) (uint64, error) {
	var minted uint64
	for _, output := range outputs {
		shares, err := actions.UnpackUint64(output)
		if err != nil {
			return 0, err
		}
		minted += shares
	}
	return minted, nil
}
