// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"encoding/binary"
	"errors"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/ids"
	smath "github.com/ava-labs/avalanchego/utils/math"

	"github.com/ava-labs/hypersdk/codec"
	"github.com/ava-labs/hypersdk/consts"
	"github.com/ava-labs/hypersdk/state"
	"github.com/ava-labs/hypersdk/utils"

	fconsts "github.com/ava-labs/fundvm/consts"
	"github.com/ava-labs/fundvm/pricing"
)

type VaultStatus uint8

const (
	VaultActive VaultStatus = iota
	VaultPaused
	VaultClosed
)

// VaultAsset is one underlying position of a vault's target allocation.
// AllocationBps across a vault's assets always sums to pricing.MaxBPS.
type VaultAsset struct {
	Asset         ids.ID `json:"asset"`
	AllocationBps uint16 `json:"allocationBps"`
}

// Vault is the accounting record of a single fund: identity, fee policy,
// the internal AUM/supply ledger, and the accrual clock. Custody balances
// live under the vault's derived address in the balance keyspace, not in
// this record.
type Vault struct {
	Index            uint32        `json:"index"`
	Admin            codec.Address `json:"admin"`
	Name             []byte        `json:"name"`
	Symbol           []byte        `json:"symbol"`
	ManagementFeeBps uint16        `json:"managementFeeBps"`
	Status           VaultStatus   `json:"status"`

	TotalAssets uint64 `json:"totalAssets"`
	TotalSupply uint64 `json:"totalSupply"`

	CreatedAt   int64  `json:"createdAt"`
	LastAccrual int64  `json:"lastAccrual"`
	AccruedFees uint64 `json:"accruedFees"`

	Assets []VaultAsset `json:"assets"`
}

// Accrue settles the management fee owed since [LastAccrual] against the
// internal asset ledger and returns the newly accrued amount. TotalAssets
// is clamped at zero when the fee exceeds the remaining ledger value. The
// clock advances whenever any time has elapsed, even if the fee floors to
// zero, so repeated accruals at one timestamp are no-ops.
func (v *Vault) Accrue(now int64) (uint64, error) {
	elapsed := now - v.LastAccrual
	if elapsed <= 0 {
		return 0, nil
	}
	fee, err := pricing.ProRataFee(v.TotalAssets, v.ManagementFeeBps, elapsed)
	if err != nil {
		return 0, err
	}
	if fee > 0 {
		if fee > v.TotalAssets {
			v.TotalAssets = 0
		} else {
			v.TotalAssets -= fee
		}
		nfees, err := smath.Add64(v.AccruedFees, fee)
		if err != nil {
			return 0, ErrInvalidBalance
		}
		v.AccruedFees = nfees
	}
	v.LastAccrual = now
	return fee, nil
}

// VaultAddress derives the custody address for the vault created at
// [index]. The derived address is a lookup handle, never an authorization:
// permission checks always run against identities stored in the record.
func VaultAddress(index uint32) codec.Address {
	v := make([]byte, consts.IntLen)
	binary.BigEndian.PutUint32(v, index)
	return codec.CreateAddress(fconsts.VAULTID, utils.ToID(v))
}

// [vaultPrefix] + [vaultAddress]
func VaultKey(vault codec.Address) (k []byte) {
	k = make([]byte, 1+codec.AddressLen+consts.Uint16Len)
	k[0] = vaultPrefix
	copy(k[1:], vault[:])
	binary.BigEndian.PutUint16(k[1+codec.AddressLen:], VaultChunks)
	return
}

func (v *Vault) Marshal() []byte {
	nameLen := len(v.Name)
	symbolLen := len(v.Symbol)
	b := make([]byte, consts.IntLen+codec.AddressLen+
		consts.Uint16Len+nameLen+consts.Uint16Len+symbolLen+
		consts.Uint16Len+1+consts.Uint64Len*5+1+
		len(v.Assets)*(ids.IDLen+consts.Uint16Len))
	binary.BigEndian.PutUint32(b, v.Index)
	offset := consts.IntLen
	copy(b[offset:], v.Admin[:])
	offset += codec.AddressLen
	binary.BigEndian.PutUint16(b[offset:], uint16(nameLen))
	offset += consts.Uint16Len
	copy(b[offset:], v.Name)
	offset += nameLen
	binary.BigEndian.PutUint16(b[offset:], uint16(symbolLen))
	offset += consts.Uint16Len
	copy(b[offset:], v.Symbol)
	offset += symbolLen
	binary.BigEndian.PutUint16(b[offset:], v.ManagementFeeBps)
	offset += consts.Uint16Len
	b[offset] = uint8(v.Status)
	offset++
	binary.BigEndian.PutUint64(b[offset:], v.TotalAssets)
	offset += consts.Uint64Len
	binary.BigEndian.PutUint64(b[offset:], v.TotalSupply)
	offset += consts.Uint64Len
	binary.BigEndian.PutUint64(b[offset:], uint64(v.CreatedAt))
	offset += consts.Uint64Len
	binary.BigEndian.PutUint64(b[offset:], uint64(v.LastAccrual))
	offset += consts.Uint64Len
	binary.BigEndian.PutUint64(b[offset:], v.AccruedFees)
	offset += consts.Uint64Len
	b[offset] = uint8(len(v.Assets))
	offset++
	for _, asset := range v.Assets {
		copy(b[offset:], asset.Asset[:])
		offset += ids.IDLen
		binary.BigEndian.PutUint16(b[offset:], asset.AllocationBps)
		offset += consts.Uint16Len
	}
	return b
}

func UnmarshalVault(b []byte) (*Vault, error) {
	fixed := consts.IntLen + codec.AddressLen + consts.Uint16Len
	if len(b) < fixed {
		return nil, ErrCorruptRecord
	}
	var v Vault
	v.Index = binary.BigEndian.Uint32(b)
	offset := consts.IntLen
	copy(v.Admin[:], b[offset:offset+codec.AddressLen])
	offset += codec.AddressLen
	nameLen := int(binary.BigEndian.Uint16(b[offset:]))
	offset += consts.Uint16Len
	if len(b) < offset+nameLen+consts.Uint16Len {
		return nil, ErrCorruptRecord
	}
	v.Name = b[offset : offset+nameLen]
	offset += nameLen
	symbolLen := int(binary.BigEndian.Uint16(b[offset:]))
	offset += consts.Uint16Len
	if len(b) < offset+symbolLen+consts.Uint16Len+1+consts.Uint64Len*5+1 {
		return nil, ErrCorruptRecord
	}
	v.Symbol = b[offset : offset+symbolLen]
	offset += symbolLen
	v.ManagementFeeBps = binary.BigEndian.Uint16(b[offset:])
	offset += consts.Uint16Len
	v.Status = VaultStatus(b[offset])
	offset++
	v.TotalAssets = binary.BigEndian.Uint64(b[offset:])
	offset += consts.Uint64Len
	v.TotalSupply = binary.BigEndian.Uint64(b[offset:])
	offset += consts.Uint64Len
	v.CreatedAt = int64(binary.BigEndian.Uint64(b[offset:]))
	offset += consts.Uint64Len
	v.LastAccrual = int64(binary.BigEndian.Uint64(b[offset:]))
	offset += consts.Uint64Len
	v.AccruedFees = binary.BigEndian.Uint64(b[offset:])
	offset += consts.Uint64Len
	assetCount := int(b[offset])
	offset++
	if len(b) != offset+assetCount*(ids.IDLen+consts.Uint16Len) {
		return nil, ErrCorruptRecord
	}
	v.Assets = make([]VaultAsset, assetCount)
	for i := 0; i < assetCount; i++ {
		copy(v.Assets[i].Asset[:], b[offset:offset+ids.IDLen])
		offset += ids.IDLen
		v.Assets[i].AllocationBps = binary.BigEndian.Uint16(b[offset:])
		offset += consts.Uint16Len
	}
	return &v, nil
}

func GetVault(
	ctx context.Context,
	im state.Immutable,
	vault codec.Address,
) (*Vault, bool, error) {
	v, err := im.GetValue(ctx, VaultKey(vault))
	return innerGetVault(v, err)
}

// Used to serve RPC queries
func GetVaultFromState(
	ctx context.Context,
	f ReadState,
	vault codec.Address,
) (*Vault, bool, error) {
	values, errs := f(ctx, [][]byte{VaultKey(vault)})
	return innerGetVault(values[0], errs[0])
}

func innerGetVault(
	b []byte,
	err error,
) (*Vault, bool, error) {
	if errors.Is(err, database.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	v, err := UnmarshalVault(b)
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

func SetVault(ctx context.Context, mu state.Mutable, vault codec.Address, v *Vault) error {
	return mu.Insert(ctx, VaultKey(vault), v.Marshal())
}

// [sharePrefix] + [vault] + [owner]
func ShareKey(vault codec.Address, owner codec.Address) (k []byte) {
	k = make([]byte, 1+codec.AddressLen*2+consts.Uint16Len)
	k[0] = sharePrefix
	copy(k[1:], vault[:])
	copy(k[1+codec.AddressLen:], owner[:])
	binary.BigEndian.PutUint16(k[1+codec.AddressLen*2:], ShareChunks)
	return
}

func GetShareBalance(
	ctx context.Context,
	im state.Immutable,
	vault codec.Address,
	owner codec.Address,
) (uint64, error) {
	bal, _, err := innerGetBalance(im.GetValue(ctx, ShareKey(vault, owner)))
	return bal, err
}

// Used to serve RPC queries
func GetShareBalanceFromState(
	ctx context.Context,
	f ReadState,
	vault codec.Address,
	owner codec.Address,
) (uint64, error) {
	values, errs := f(ctx, [][]byte{ShareKey(vault, owner)})
	bal, _, err := innerGetBalance(values[0], errs[0])
	return bal, err
}

func AddShares(
	ctx context.Context,
	mu state.Mutable,
	vault codec.Address,
	owner codec.Address,
	shares uint64,
) error {
	k := ShareKey(vault, owner)
	bal, _, err := innerGetBalance(mu.GetValue(ctx, k))
	if err != nil {
		return err
	}
	nbal, err := smath.Add64(bal, shares)
	if err != nil {
		return ErrInvalidShares
	}
	return mu.Insert(ctx, k, binary.BigEndian.AppendUint64(nil, nbal))
}

func SubShares(
	ctx context.Context,
	mu state.Mutable,
	vault codec.Address,
	owner codec.Address,
	shares uint64,
) error {
	k := ShareKey(vault, owner)
	bal, _, err := innerGetBalance(mu.GetValue(ctx, k))
	if err != nil {
		return err
	}
	nbal, err := smath.Sub(bal, shares)
	if err != nil {
		return ErrInvalidShares
	}
	if nbal == 0 {
		// If there are no shares left, we should delete the record instead of
		// setting it to 0.
		return mu.Remove(ctx, k)
	}
	return mu.Insert(ctx, k, binary.BigEndian.AppendUint64(nil, nbal))
}
