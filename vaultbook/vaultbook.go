// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package vaultbook

import (
	"sync"

	"github.com/ava-labs/avalanchego/ids"
	"go.uber.org/zap"

	"github.com/ava-labs/hypersdk/codec"
	"github.com/ava-labs/hypersdk/heap"

	"github.com/ava-labs/fundvm/actions"
	"github.com/ava-labs/fundvm/storage"
	"github.com/ava-labs/fundvm/utils"
)

const allVaults = "*"

// TrackedVault mirrors the on-chain vault record closely enough to serve
// listings without a state read. Ledger figures are replayed from accepted
// actions, so they can lag the stored record by the management fee accrued
// since the vault's last fee event.
type TrackedVault struct {
	Address          string `json:"address"` // we always send address over RPC
	Index            uint32 `json:"index"`
	Name             string `json:"name"`
	Symbol           string `json:"symbol"`
	Admin            string `json:"admin"`
	ManagementFeeBps uint16 `json:"managementFeeBps"`
	Status           uint8  `json:"status"`
	TotalAssets      uint64 `json:"totalAssets"`
	TotalSupply      uint64 `json:"totalSupply"`
	AccruedFees      uint64 `json:"accruedFees"`

	addr codec.Address
}

type VaultBook struct {
	c Controller

	// Vaults are prioritized by ledger AUM so listings surface the largest
	// funds first.
	vaults           *heap.Heap[*TrackedVault, uint64]
	tracked          map[string]bool
	maxTrackedVaults int
	l                sync.RWMutex

	trackAll bool
}

func New(c Controller, trackedVaults []string, maxTrackedVaults int) *VaultBook {
	tracked := map[string]bool{}
	trackAll := false
	if len(trackedVaults) == 1 && trackedVaults[0] == allVaults {
		trackAll = true
		c.Logger().Info("tracking all vaults")
	} else {
		for _, vault := range trackedVaults {
			tracked[vault] = true
			c.Logger().Info("tracking vault", zap.String("vault", vault))
		}
	}
	return &VaultBook{
		c:                c,
		vaults:           heap.New[*TrackedVault, uint64](maxTrackedVaults+1, false),
		tracked:          tracked,
		maxTrackedVaults: maxTrackedVaults,
		trackAll:         trackAll,
	}
}

// heapID keys the heap by the ID embedded in the derived vault address.
func heapID(vault codec.Address) ids.ID {
	var id ids.ID
	copy(id[:], vault[1:])
	return id
}

func (b *VaultBook) Add(vaultAddr codec.Address, actor codec.Address, action *actions.CreateVault) {
	baddr := utils.Address(vaultAddr)

	b.l.Lock()
	defer b.l.Unlock()
	if !b.trackAll && !b.tracked[baddr] {
		return
	}
	if b.vaults.Has(heapID(vaultAddr)) {
		// This should never happen
		return
	}
	vault := &TrackedVault{
		Address:          baddr,
		Index:            action.Index,
		Name:             string(action.Name),
		Symbol:           string(action.Symbol),
		Admin:            utils.Address(actor),
		ManagementFeeBps: action.ManagementFeeBps,
		Status:           uint8(storage.VaultActive),
		TotalSupply:      actions.SeedShares,

		addr: vaultAddr,
	}
	b.c.Logger().Info("tracking vault",
		zap.String("vault", baddr),
		zap.String("symbol", vault.Symbol),
	)
	b.push(vault)

	// Evict a small vault if we are above the max we track
	if l := b.vaults.Len(); l > b.maxTrackedVaults {
		e := b.vaults.Remove(l - 1)
		b.c.Logger().Debug("evicting vault", zap.String("vault", e.Item.Address))
	}
}

// ApplyDeposit credits the net deposit and minted shares, re-prioritizing
// the vault by its new AUM.
func (b *VaultBook) ApplyDeposit(vaultAddr codec.Address, net uint64, shares uint64) {
	b.l.Lock()
	defer b.l.Unlock()

	vault, ok := b.take(vaultAddr)
	if !ok {
		return
	}
	vault.TotalAssets += net
	vault.TotalSupply += shares
	b.push(vault)
}

// ApplyRedeem debits the gross redemption value and burned shares.
func (b *VaultBook) ApplyRedeem(vaultAddr codec.Address, gross uint64, shares uint64) {
	b.l.Lock()
	defer b.l.Unlock()

	vault, ok := b.take(vaultAddr)
	if !ok {
		return
	}
	vault.TotalAssets = boundedSub(vault.TotalAssets, gross)
	vault.TotalSupply = boundedSub(vault.TotalSupply, shares)
	b.push(vault)
}

// ApplyFeesPaid settles a custody payout of accrued fees. The paid amount
// left the ledger when it accrued on-chain, which the book only observes
// now, so the ledger figure catches up here.
func (b *VaultBook) ApplyFeesPaid(vaultAddr codec.Address, amount uint64) {
	b.l.Lock()
	defer b.l.Unlock()

	vault, ok := b.take(vaultAddr)
	if !ok {
		return
	}
	vault.TotalAssets = boundedSub(vault.TotalAssets, amount)
	vault.AccruedFees = boundedSub(vault.AccruedFees, amount)
	b.push(vault)
}

// ApplyFeesDistributed records an accrued-fee tranche converted into newly
// minted shares. AUM is unchanged, so the entry keeps its priority.
func (b *VaultBook) ApplyFeesDistributed(vaultAddr codec.Address, amount uint64, shares uint64) {
	b.l.Lock()
	defer b.l.Unlock()

	entry, ok := b.vaults.Get(heapID(vaultAddr))
	if !ok {
		return
	}
	entry.Item.AccruedFees = boundedSub(entry.Item.AccruedFees, amount)
	entry.Item.TotalSupply += shares
}

// ApplyFeesClaimed records a full claim, which clears the accrued balance
// and mints shares for it.
func (b *VaultBook) ApplyFeesClaimed(vaultAddr codec.Address, shares uint64) {
	b.l.Lock()
	defer b.l.Unlock()

	entry, ok := b.vaults.Get(heapID(vaultAddr))
	if !ok {
		return
	}
	entry.Item.AccruedFees = 0
	entry.Item.TotalSupply += shares
}

// SetAccrued pins the accrued balance to the total reported by an on-chain
// sync.
func (b *VaultBook) SetAccrued(vaultAddr codec.Address, accrued uint64) {
	b.l.Lock()
	defer b.l.Unlock()

	entry, ok := b.vaults.Get(heapID(vaultAddr))
	if !ok {
		return
	}
	entry.Item.AccruedFees = accrued
}

func (b *VaultBook) SetStatus(vaultAddr codec.Address, status storage.VaultStatus) {
	b.l.Lock()
	defer b.l.Unlock()

	entry, ok := b.vaults.Get(heapID(vaultAddr))
	if !ok {
		return
	}
	entry.Item.Status = uint8(status)
}

func (b *VaultBook) Vaults(limit int) []*TrackedVault {
	b.l.RLock()
	defer b.l.RUnlock()

	items := b.vaults.Items()
	arrLen := len(items)
	if limit < arrLen {
		arrLen = limit
	}
	vaults := make([]*TrackedVault, arrLen)
	for i := 0; i < arrLen; i++ {
		vaults[i] = items[i].Item
	}
	return vaults
}

// take removes the tracked vault from the heap so the caller can change its
// priority and push it back.
func (b *VaultBook) take(vaultAddr codec.Address) (*TrackedVault, bool) {
	entry, ok := b.vaults.Get(heapID(vaultAddr))
	if !ok {
		return nil, false
	}
	b.vaults.Remove(entry.Index)
	return entry.Item, true
}

func (b *VaultBook) push(v *TrackedVault) {
	b.vaults.Push(&heap.Entry[*TrackedVault, uint64]{
		ID:    heapID(v.addr),
		Val:   v.TotalAssets,
		Item:  v,
		Index: b.vaults.Len(),
	})
}

func boundedSub(a uint64, b uint64) uint64 {
	if b > a {
		return 0
	}
	return a - b
}
