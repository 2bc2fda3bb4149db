// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package controller

import (
	ametrics "github.com/ava-labs/avalanchego/api/metrics"
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ava-labs/fundvm/consts"
)

type metrics struct {
	transfer prometheus.Counter

	createAsset prometheus.Counter
	mintAsset   prometheus.Counter
	burnAsset   prometheus.Counter

	initializeFactory  prometheus.Counter
	setFactoryStatus   prometheus.Counter
	updateFactoryFees  prometheus.Counter
	updateFactoryAdmin prometheus.Counter

	createVault    prometheus.Counter
	deposit        prometheus.Counter
	redeem         prometheus.Counter
	setVaultStatus prometheus.Counter

	collectFees    prometheus.Counter
	distributeFees prometheus.Counter
	claimFees      prometheus.Counter
	syncAccrual    prometheus.Counter

	executeSwap     prometheus.Counter
	withdrawCustody prometheus.Counter
}

func newMetrics(gatherer ametrics.MultiGatherer) (*metrics, error) {
	m := &metrics{
		transfer: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "actions",
			Name:      "transfer",
			Help:      "number of transfer actions",
		}),
		createAsset: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "actions",
			Name:      "create_asset",
			Help:      "number of create asset actions",
		}),
		mintAsset: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "actions",
			Name:      "mint_asset",
			Help:      "number of mint asset actions",
		}),
		burnAsset: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "actions",
			Name:      "burn_asset",
			Help:      "number of burn asset actions",
		}),
		initializeFactory: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "actions",
			Name:      "initialize_factory",
			Help:      "number of initialize factory actions",
		}),
		setFactoryStatus: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "actions",
			Name:      "set_factory_status",
			Help:      "number of set factory status actions",
		}),
		updateFactoryFees: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "actions",
			Name:      "update_factory_fees",
			Help:      "number of update factory fees actions",
		}),
		updateFactoryAdmin: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "actions",
			Name:      "update_factory_admin",
			Help:      "number of update factory admin actions",
		}),
		createVault: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "actions",
			Name:      "create_vault",
			Help:      "number of create vault actions",
		}),
		deposit: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "actions",
			Name:      "deposit",
			Help:      "number of deposit actions",
		}),
		redeem: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "actions",
			Name:      "redeem",
			Help:      "number of redeem actions",
		}),
		setVaultStatus: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "actions",
			Name:      "set_vault_status",
			Help:      "number of set vault status actions",
		}),
		collectFees: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "actions",
			Name:      "collect_fees",
			Help:      "number of collect fees actions",
		}),
		distributeFees: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "actions",
			Name:      "distribute_fees",
			Help:      "number of distribute fees actions",
		}),
		claimFees: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "actions",
			Name:      "claim_fees",
			Help:      "number of claim fees actions",
		}),
		syncAccrual: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "actions",
			Name:      "sync_accrual",
			Help:      "number of sync accrual actions",
		}),
		executeSwap: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "actions",
			Name:      "execute_swap",
			Help:      "number of execute swap actions",
		}),
		withdrawCustody: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "actions",
			Name:      "withdraw_custody",
			Help:      "number of withdraw custody actions",
		}),
	}
	r := prometheus.NewRegistry()
	errs := wrappers.Errs{}
	errs.Add(
		r.Register(m.transfer),

		r.Register(m.createAsset),
		r.Register(m.mintAsset),
		r.Register(m.burnAsset),

		r.Register(m.initializeFactory),
		r.Register(m.setFactoryStatus),
		r.Register(m.updateFactoryFees),
		r.Register(m.updateFactoryAdmin),

		r.Register(m.createVault),
		r.Register(m.deposit),
		r.Register(m.redeem),
		r.Register(m.setVaultStatus),

		r.Register(m.collectFees),
		r.Register(m.distributeFees),
		r.Register(m.claimFees),
		r.Register(m.syncAccrual),

		r.Register(m.executeSwap),
		r.Register(m.withdrawCustody),
		gatherer.Register(consts.Name, r),
	)
	return m, errs.Err
}
