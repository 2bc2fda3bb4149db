// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"encoding/binary"
	"errors"

	"github.com/ava-labs/avalanchego/database"

	"github.com/ava-labs/hypersdk/codec"
	"github.com/ava-labs/hypersdk/consts"
	"github.com/ava-labs/hypersdk/state"
)

type FactoryStatus uint8

const (
	FactoryActive FactoryStatus = iota
	FactoryPaused
	FactoryDeprecated
)

// Factory is the singleton policy record governing every vault: fee rates,
// management-fee bounds, the creator/platform split, and the admin keys.
type Factory struct {
	Admin        codec.Address `json:"admin"`
	FeeRecipient codec.Address `json:"feeRecipient"`
	VaultCount   uint32        `json:"vaultCount"`
	Status       FactoryStatus `json:"status"`

	EntryFeeBps         uint16 `json:"entryFeeBps"`
	ExitFeeBps          uint16 `json:"exitFeeBps"`
	CreationFee         uint64 `json:"creationFee"`
	MinManagementFeeBps uint16 `json:"minManagementFeeBps"`
	MaxManagementFeeBps uint16 `json:"maxManagementFeeBps"`
	CreatorFeeRatioBps  uint16 `json:"creatorFeeRatioBps"`
	PlatformFeeRatioBps uint16 `json:"platformFeeRatioBps"`
}

const factoryRecordLen = codec.AddressLen*2 + consts.IntLen + 1 +
	consts.Uint16Len*2 + consts.Uint64Len + consts.Uint16Len*4

// [factoryPrefix]
func FactoryKey() (k []byte) {
	k = make([]byte, 1+consts.Uint16Len)
	k[0] = factoryPrefix
	binary.BigEndian.PutUint16(k[1:], FactoryChunks)
	return
}

func (f *Factory) Marshal() []byte {
	v := make([]byte, factoryRecordLen)
	copy(v, f.Admin[:])
	copy(v[codec.AddressLen:], f.FeeRecipient[:])
	offset := codec.AddressLen * 2
	binary.BigEndian.PutUint32(v[offset:], f.VaultCount)
	offset += consts.IntLen
	v[offset] = uint8(f.Status)
	offset++
	binary.BigEndian.PutUint16(v[offset:], f.EntryFeeBps)
	offset += consts.Uint16Len
	binary.BigEndian.PutUint16(v[offset:], f.ExitFeeBps)
	offset += consts.Uint16Len
	binary.BigEndian.PutUint64(v[offset:], f.CreationFee)
	offset += consts.Uint64Len
	binary.BigEndian.PutUint16(v[offset:], f.MinManagementFeeBps)
	offset += consts.Uint16Len
	binary.BigEndian.PutUint16(v[offset:], f.MaxManagementFeeBps)
	offset += consts.Uint16Len
	binary.BigEndian.PutUint16(v[offset:], f.CreatorFeeRatioBps)
	offset += consts.Uint16Len
	binary.BigEndian.PutUint16(v[offset:], f.PlatformFeeRatioBps)
	return v
}

func UnmarshalFactory(v []byte) (*Factory, error) {
	if len(v) != factoryRecordLen {
		return nil, ErrCorruptRecord
	}
	var f Factory
	copy(f.Admin[:], v[:codec.AddressLen])
	copy(f.FeeRecipient[:], v[codec.AddressLen:codec.AddressLen*2])
	offset := codec.AddressLen * 2
	f.VaultCount = binary.BigEndian.Uint32(v[offset:])
	offset += consts.IntLen
	f.Status = FactoryStatus(v[offset])
	offset++
	f.EntryFeeBps = binary.BigEndian.Uint16(v[offset:])
	offset += consts.Uint16Len
	f.ExitFeeBps = binary.BigEndian.Uint16(v[offset:])
	offset += consts.Uint16Len
	f.CreationFee = binary.BigEndian.Uint64(v[offset:])
	offset += consts.Uint64Len
	f.MinManagementFeeBps = binary.BigEndian.Uint16(v[offset:])
	offset += consts.Uint16Len
	f.MaxManagementFeeBps = binary.BigEndian.Uint16(v[offset:])
	offset += consts.Uint16Len
	f.CreatorFeeRatioBps = binary.BigEndian.Uint16(v[offset:])
	offset += consts.Uint16Len
	f.PlatformFeeRatioBps = binary.BigEndian.Uint16(v[offset:])
	return &f, nil
}

func GetFactory(
	ctx context.Context,
	im state.Immutable,
) (*Factory, bool, error) {
	v, err := im.GetValue(ctx, FactoryKey())
	return innerGetFactory(v, err)
}

// Used to serve RPC queries
func GetFactoryFromState(
	ctx context.Context,
	f ReadState,
) (*Factory, bool, error) {
	values, errs := f(ctx, [][]byte{FactoryKey()})
	return innerGetFactory(values[0], errs[0])
}

func innerGetFactory(
	v []byte,
	err error,
) (*Factory, bool, error) {
	if errors.Is(err, database.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	f, err := UnmarshalFactory(v)
	if err != nil {
		return nil, false, err
	}
	return f, true, nil
}

func SetFactory(ctx context.Context, mu state.Mutable, f *Factory) error {
	return mu.Insert(ctx, FactoryKey(), f.Marshal())
}
