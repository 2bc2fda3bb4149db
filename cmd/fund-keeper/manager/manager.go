// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package manager

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/hypersdk/auth"
	"github.com/ava-labs/hypersdk/chain"
	"github.com/ava-labs/hypersdk/codec"
	"github.com/ava-labs/hypersdk/rpc"
	"github.com/ava-labs/hypersdk/utils"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/ava-labs/fundvm/actions"
	"github.com/ava-labs/fundvm/cmd/fund-keeper/config"
	"github.com/ava-labs/fundvm/consts"
	frpc "github.com/ava-labs/fundvm/rpc"
	futils "github.com/ava-labs/fundvm/utils"
	"github.com/ava-labs/fundvm/vaultbook"
)

// SweepResult records one fee collection attempt against a vault.
type SweepResult struct {
	Vault     string `json:"vault"`
	TxID      ids.ID `json:"txID"`
	Timestamp int64  `json:"timestamp"`
	Creator   uint64 `json:"creator"`
	Platform  uint64 `json:"platform"`
	Fee       uint64 `json:"fee"`
	Error     string `json:"error,omitempty"`
}

type Manager struct {
	log    logging.Logger
	config *config.Config

	cli  *rpc.JSONRPCClient
	fcli *frpc.JSONRPCClient

	factory *auth.ED25519Factory

	tracked map[string]struct{}
	prices  map[ids.ID]uint64

	cron *cron.Cron

	// scli is only touched from the sweep goroutine; sweeps never overlap.
	scli *rpc.WebSocketClient

	l         sync.RWMutex
	lastSweep int64
	collected uint64

	h       sync.RWMutex
	history []*SweepResult
}

func New(logger logging.Logger, config *config.Config) (*Manager, error) {
	ctx := context.TODO()
	cli := rpc.NewJSONRPCClient(config.FundRPC)
	networkID, _, chainID, err := cli.Network(ctx)
	if err != nil {
		return nil, err
	}
	fcli := frpc.NewJSONRPCClient(config.FundRPC, networkID, chainID)
	tracked := make(map[string]struct{}, len(config.TrackedVaults))
	for _, vault := range config.TrackedVaults {
		if _, err := futils.ParseAddress(vault); err != nil {
			return nil, err
		}
		tracked[vault] = struct{}{}
	}
	prices := make(map[ids.ID]uint64, len(config.SyncPrices))
	for asset, price := range config.SyncPrices {
		id, err := ids.FromString(asset)
		if err != nil {
			return nil, err
		}
		prices[id] = price
	}
	m := &Manager{
		log:     logger,
		config:  config,
		cli:     cli,
		fcli:    fcli,
		factory: auth.NewED25519Factory(config.PrivateKey),
		tracked: tracked,
		prices:  prices,
		history: []*SweepResult{},
	}
	m.cron = cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	bal, err := fcli.Balance(ctx, config.AddressBech32(), ids.Empty)
	if err != nil {
		return nil, err
	}
	m.log.Info("keeper initialized",
		zap.String("address", config.AddressBech32()),
		zap.String("schedule", config.CollectSchedule),
		zap.Int("trackedVaults", len(tracked)),
		zap.Int("pricedAssets", len(prices)),
		zap.String("balance", utils.FormatBalance(bal, consts.Decimals)),
	)
	return m, nil
}

func (m *Manager) Run(ctx context.Context) error {
	if _, err := m.cron.AddFunc(m.config.CollectSchedule, func() { m.sweep(ctx) }); err != nil {
		return err
	}
	m.cron.Start()
	<-ctx.Done()
	m.cron.Stop()
	return ctx.Err()
}

// sweep runs a single collection pass over every tracked vault.
func (m *Manager) sweep(ctx context.Context) {
	m.l.Lock()
	m.lastSweep = time.Now().Unix()
	m.l.Unlock()

	exists, factoryReply, err := m.fcli.Factory(ctx)
	if err != nil {
		m.log.Warn("unable to fetch factory", zap.Error(err))
		return
	}
	if !exists {
		m.log.Warn("factory not initialized")
		return
	}
	feeRecipient, err := futils.ParseAddress(factoryReply.FeeRecipient)
	if err != nil {
		m.log.Warn("cannot parse fee recipient", zap.Error(err))
		return
	}
	vaults, err := m.fcli.Vaults(ctx)
	if err != nil {
		m.log.Warn("unable to list vaults", zap.Error(err))
		return
	}

	for _, vault := range vaults {
		if ctx.Err() != nil {
			return
		}
		if len(m.tracked) > 0 {
			if _, ok := m.tracked[vault.Address]; !ok {
				continue
			}
		}
		if len(m.prices) > 0 {
			m.syncAccrual(ctx, vault)
		}
		preview, err := m.fcli.PreviewAccrual(ctx, vault.Address, 0)
		if err != nil {
			m.log.Warn("unable to preview accrual", zap.String("vault", vault.Address), zap.Error(err))
			continue
		}
		if preview.AccruedFees == 0 || preview.AccruedFees < m.config.MinCollectAmount {
			continue
		}
		custody, err := m.fcli.Balance(ctx, vault.Address, ids.Empty)
		if err != nil {
			m.log.Warn("unable to fetch custody", zap.String("vault", vault.Address), zap.Error(err))
			continue
		}
		if custody < preview.AccruedFees {
			// Collection reverts until deposits or swap proceeds refill custody.
			m.log.Warn("custody cannot cover accrued fees",
				zap.String("vault", vault.Address),
				zap.String("accrued", utils.FormatBalance(preview.AccruedFees, consts.Decimals)),
				zap.String("custody", utils.FormatBalance(custody, consts.Decimals)),
			)
			continue
		}
		result, err := m.collect(ctx, vault, feeRecipient, preview.AccruedFees)
		if err != nil {
			m.log.Warn("collection failed", zap.String("vault", vault.Address), zap.Error(err))
			m.addResult(&SweepResult{
				Vault:     vault.Address,
				Timestamp: time.Now().Unix(),
				Error:     err.Error(),
			})
			continue
		}
		if result == nil {
			// Not worth collecting at current network fees.
			continue
		}
		m.addResult(result)
	}
}

func (m *Manager) collect(
	ctx context.Context,
	vault *vaultbook.TrackedVault,
	feeRecipient codec.Address,
	accrued uint64,
) (*SweepResult, error) {
	parser, err := m.fcli.Parser(ctx)
	if err != nil {
		return nil, err
	}
	vaultAddr, err := futils.ParseAddress(vault.Address)
	if err != nil {
		return nil, err
	}
	creator, err := futils.ParseAddress(vault.Admin)
	if err != nil {
		return nil, err
	}
	_, tx, maxFee, err := m.cli.GenerateTransaction(ctx, parser, []chain.Action{&actions.CollectFees{
		Vault:        vaultAddr,
		Creator:      creator,
		FeeRecipient: feeRecipient,
	}}, m.factory)
	if err != nil {
		return nil, err
	}
	if maxFee > accrued {
		m.log.Info("deferring collection until fees outgrow the network fee",
			zap.String("vault", vault.Address),
			zap.String("accrued", utils.FormatBalance(accrued, consts.Decimals)),
			zap.String("maxFee", utils.FormatBalance(maxFee, consts.Decimals)),
		)
		return nil, nil
	}
	bal, err := m.fcli.Balance(ctx, m.config.AddressBech32(), ids.Empty)
	if err != nil {
		return nil, err
	}
	if bal < maxFee {
		// This is a "best guess" heuristic for balance as there may be txs in-flight.
		m.log.Warn("keeper has insufficient funds", zap.String("balance", utils.FormatBalance(bal, consts.Decimals)))
		return nil, errors.New("insufficient balance")
	}
	scli, err := m.ws()
	if err != nil {
		return nil, err
	}
	if err := scli.RegisterTx(tx); err != nil {
		m.dropWS()
		return nil, err
	}
	txResult, err := m.awaitTx(ctx, scli, tx.ID())
	if err != nil {
		m.dropWS()
		return nil, err
	}
	result := &SweepResult{
		Vault:     vault.Address,
		TxID:      tx.ID(),
		Timestamp: time.Now().Unix(),
		Fee:       txResult.Fee,
	}
	if !txResult.Success {
		result.Error = string(txResult.Error)
		return result, nil
	}
	creatorPart, err := actions.UnpackUint64(txResult.Outputs[0][0])
	if err != nil {
		return nil, err
	}
	platformPart, err := actions.UnpackUint64(txResult.Outputs[0][1])
	if err != nil {
		return nil, err
	}
	result.Creator = creatorPart
	result.Platform = platformPart
	m.l.Lock()
	m.collected += creatorPart + platformPart
	m.l.Unlock()
	m.log.Info("collected fees",
		zap.String("vault", vault.Address),
		zap.Stringer("txID", tx.ID()),
		zap.String("creator", utils.FormatBalance(creatorPart, consts.Decimals)),
		zap.String("platform", utils.FormatBalance(platformPart, consts.Decimals)),
		zap.String("fee", utils.FormatBalance(txResult.Fee, consts.Decimals)),
	)
	return result, nil
}

// syncAccrual revalues [vault] against the configured price table so fees
// accrue on live holdings instead of the internal ledger. The action is
// admin-gated on-chain; if the keeper key is not a vault or factory admin
// the transaction reverts and the sweep carries on.
func (m *Manager) syncAccrual(ctx context.Context, vault *vaultbook.TrackedVault) {
	exists, vaultReply, err := m.fcli.Vault(ctx, vault.Address)
	if err != nil || !exists {
		m.log.Warn("unable to fetch vault record", zap.String("vault", vault.Address), zap.Error(err))
		return
	}
	prices := make([]actions.AssetPrice, 0, len(vaultReply.Assets))
	for _, asset := range vaultReply.Assets {
		price, ok := m.prices[asset.Asset]
		if !ok {
			m.log.Warn("no configured price for underlying",
				zap.String("vault", vault.Address),
				zap.Stringer("asset", asset.Asset),
			)
			return
		}
		prices = append(prices, actions.AssetPrice{Asset: asset.Asset, Price: price})
	}
	vaultAddr, err := futils.ParseAddress(vault.Address)
	if err != nil {
		m.log.Warn("cannot parse vault address", zap.Error(err))
		return
	}
	parser, err := m.fcli.Parser(ctx)
	if err != nil {
		m.log.Warn("unable to load parser", zap.Error(err))
		return
	}
	_, tx, _, err := m.cli.GenerateTransaction(ctx, parser, []chain.Action{&actions.SyncAccrual{
		Vault:  vaultAddr,
		Prices: prices,
	}}, m.factory)
	if err != nil {
		m.log.Warn("unable to generate sync transaction", zap.Error(err))
		return
	}
	scli, err := m.ws()
	if err != nil {
		m.log.Warn("unable to dial websocket", zap.Error(err))
		return
	}
	if err := scli.RegisterTx(tx); err != nil {
		m.dropWS()
		m.log.Warn("unable to submit sync transaction", zap.Error(err))
		return
	}
	result, err := m.awaitTx(ctx, scli, tx.ID())
	if err != nil {
		m.dropWS()
		m.log.Warn("unable to confirm sync transaction", zap.Error(err))
		return
	}
	if !result.Success {
		m.log.Warn("sync reverted", zap.String("vault", vault.Address), zap.ByteString("error", result.Error))
		return
	}
	gav, err := actions.UnpackUint64(result.Outputs[0][0])
	if err != nil {
		return
	}
	accrued, err := actions.UnpackUint64(result.Outputs[0][3])
	if err != nil {
		return
	}
	m.log.Info("synced accrual",
		zap.String("vault", vault.Address),
		zap.Stringer("txID", tx.ID()),
		zap.String("gav", utils.FormatBalance(gav, consts.Decimals)),
		zap.String("accrued", utils.FormatBalance(accrued, consts.Decimals)),
	)
}

func (m *Manager) awaitTx(ctx context.Context, scli *rpc.WebSocketClient, txID ids.ID) (*chain.Result, error) {
	for {
		id, dErr, result, err := scli.ListenTx(ctx)
		if dErr != nil {
			return nil, dErr
		}
		if err != nil {
			return nil, err
		}
		if id == txID {
			return result, nil
		}
		m.log.Debug("skipping unexpected transaction", zap.Stringer("txID", id))
	}
}

// ws lazily dials the websocket endpoint used to confirm transactions. The
// connection is dropped on any error and redialed on the next collection.
func (m *Manager) ws() (*rpc.WebSocketClient, error) {
	if m.scli != nil {
		return m.scli, nil
	}
	scli, err := rpc.NewWebSocketClient(m.config.FundRPC)
	if err != nil {
		return nil, err
	}
	m.scli = scli
	return scli, nil
}

func (m *Manager) dropWS() {
	if m.scli == nil {
		return
	}
	_ = m.scli.Close()
	m.scli = nil
}

func (m *Manager) addResult(result *SweepResult) {
	m.h.Lock()
	defer m.h.Unlock()

	m.history = append([]*SweepResult{result}, m.history...)
	if len(m.history) > m.config.HistorySize {
		m.history[m.config.HistorySize] = nil // prevent memory leak
		m.history = m.history[:m.config.HistorySize]
	}
}

func (m *Manager) GetKeeperInfo(_ context.Context) (codec.Address, int64, uint64, error) {
	m.l.RLock()
	defer m.l.RUnlock()

	return m.config.Address(), m.lastSweep, m.collected, nil
}

func (m *Manager) GetSweeps(context.Context) ([]*SweepResult, error) {
	m.h.RLock()
	defer m.h.RUnlock()

	return slices.Clone(m.history), nil
}
