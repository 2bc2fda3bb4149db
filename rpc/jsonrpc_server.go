// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"net/http"
	"time"

	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/hypersdk/codec"
	"github.com/ava-labs/hypersdk/fees"

	"github.com/ava-labs/fundvm/consts"
	"github.com/ava-labs/fundvm/genesis"
	"github.com/ava-labs/fundvm/storage"
	"github.com/ava-labs/fundvm/vaultbook"
)

const (
	JSONRPCEndpoint = "/fundapi"

	vaultsToSend = 128
)

type JSONRPCServer struct {
	c Controller
}

func NewJSONRPCServer(c Controller) *JSONRPCServer {
	return &JSONRPCServer{c}
}

type GenesisReply struct {
	Genesis *genesis.Genesis `json:"genesis"`
}

func (j *JSONRPCServer) Genesis(_ *http.Request, _ *struct{}, reply *GenesisReply) (err error) {
	reply.Genesis = j.c.Genesis()
	return nil
}

type TxArgs struct {
	TxID ids.ID `json:"txId"`
}

type TxReply struct {
	Timestamp int64           `json:"timestamp"`
	Success   bool            `json:"success"`
	Units     fees.Dimensions `json:"units"`
	Fee       uint64          `json:"fee"`
}

func (j *JSONRPCServer) Tx(req *http.Request, args *TxArgs, reply *TxReply) error {
	ctx, span := j.c.Tracer().Start(req.Context(), "Server.Tx")
	defer span.End()

	found, t, success, units, fee, err := j.c.GetTransaction(ctx, args.TxID)
	if err != nil {
		return err
	}
	if !found {
		return ErrTxNotFound
	}
	reply.Timestamp = t
	reply.Success = success
	reply.Units = units
	reply.Fee = fee
	return nil
}

type AssetArgs struct {
	Asset ids.ID `json:"asset"`
}

type AssetReply struct {
	Symbol   []byte `json:"symbol"`
	Decimals uint8  `json:"decimals"`
	Metadata []byte `json:"metadata"`
	Supply   uint64 `json:"supply"`
	Owner    string `json:"owner"`
}

func (j *JSONRPCServer) Asset(req *http.Request, args *AssetArgs, reply *AssetReply) error {
	ctx, span := j.c.Tracer().Start(req.Context(), "Server.Asset")
	defer span.End()

	exists, symbol, decimals, metadata, supply, owner, err := j.c.GetAssetFromState(ctx, args.Asset)
	if err != nil {
		return err
	}
	if !exists {
		return ErrAssetNotFound
	}
	reply.Symbol = symbol
	reply.Decimals = decimals
	reply.Metadata = metadata
	reply.Supply = supply
	reply.Owner = codec.MustAddressBech32(consts.HRP, owner)
	return err
}

type BalanceArgs struct {
	Address string `json:"address"`
	Asset   ids.ID `json:"asset"`
}

type BalanceReply struct {
	Amount uint64 `json:"amount"`
}

func (j *JSONRPCServer) Balance(req *http.Request, args *BalanceArgs, reply *BalanceReply) error {
	ctx, span := j.c.Tracer().Start(req.Context(), "Server.Balance")
	defer span.End()

	addr, err := codec.ParseAddressBech32(consts.HRP, args.Address)
	if err != nil {
		return err
	}
	balance, err := j.c.GetBalanceFromState(ctx, addr, args.Asset)
	if err != nil {
		return err
	}
	reply.Amount = balance
	return err
}

type FactoryReply struct {
	Admin        string `json:"admin"`
	FeeRecipient string `json:"feeRecipient"`
	VaultCount   uint32 `json:"vaultCount"`
	Status       uint8  `json:"status"`

	EntryFeeBps         uint16 `json:"entryFeeBps"`
	ExitFeeBps          uint16 `json:"exitFeeBps"`
	CreationFee         uint64 `json:"creationFee"`
	MinManagementFeeBps uint16 `json:"minManagementFeeBps"`
	MaxManagementFeeBps uint16 `json:"maxManagementFeeBps"`
	CreatorFeeRatioBps  uint16 `json:"creatorFeeRatioBps"`
	PlatformFeeRatioBps uint16 `json:"platformFeeRatioBps"`
}

func (j *JSONRPCServer) Factory(req *http.Request, _ *struct{}, reply *FactoryReply) error {
	ctx, span := j.c.Tracer().Start(req.Context(), "Server.Factory")
	defer span.End()

	factory, exists, err := j.c.GetFactoryFromState(ctx)
	if err != nil {
		return err
	}
	if !exists {
		return ErrFactoryNotFound
	}
	reply.Admin = codec.MustAddressBech32(consts.HRP, factory.Admin)
	reply.FeeRecipient = codec.MustAddressBech32(consts.HRP, factory.FeeRecipient)
	reply.VaultCount = factory.VaultCount
	reply.Status = uint8(factory.Status)
	reply.EntryFeeBps = factory.EntryFeeBps
	reply.ExitFeeBps = factory.ExitFeeBps
	reply.CreationFee = factory.CreationFee
	reply.MinManagementFeeBps = factory.MinManagementFeeBps
	reply.MaxManagementFeeBps = factory.MaxManagementFeeBps
	reply.CreatorFeeRatioBps = factory.CreatorFeeRatioBps
	reply.PlatformFeeRatioBps = factory.PlatformFeeRatioBps
	return nil
}

type VaultArgs struct {
	Vault string `json:"vault"`
}

type VaultReply struct {
	Index            uint32 `json:"index"`
	Admin            string `json:"admin"`
	Name             []byte `json:"name"`
	Symbol           []byte `json:"symbol"`
	ManagementFeeBps uint16 `json:"managementFeeBps"`
	Status           uint8  `json:"status"`

	TotalAssets uint64 `json:"totalAssets"`
	TotalSupply uint64 `json:"totalSupply"`

	CreatedAt   int64  `json:"createdAt"`
	LastAccrual int64  `json:"lastAccrual"`
	AccruedFees uint64 `json:"accruedFees"`

	Assets []storage.VaultAsset `json:"assets"`
}

func (j *JSONRPCServer) Vault(req *http.Request, args *VaultArgs, reply *VaultReply) error {
	ctx, span := j.c.Tracer().Start(req.Context(), "Server.Vault")
	defer span.End()

	addr, err := codec.ParseAddressBech32(consts.HRP, args.Vault)
	if err != nil {
		return err
	}
	vault, exists, err := j.c.GetVaultFromState(ctx, addr)
	if err != nil {
		return err
	}
	if !exists {
		return ErrVaultNotFound
	}
	reply.Index = vault.Index
	reply.Admin = codec.MustAddressBech32(consts.HRP, vault.Admin)
	reply.Name = vault.Name
	reply.Symbol = vault.Symbol
	reply.ManagementFeeBps = vault.ManagementFeeBps
	reply.Status = uint8(vault.Status)
	reply.TotalAssets = vault.TotalAssets
	reply.TotalSupply = vault.TotalSupply
	reply.CreatedAt = vault.CreatedAt
	reply.LastAccrual = vault.LastAccrual
	reply.AccruedFees = vault.AccruedFees
	reply.Assets = vault.Assets
	return nil
}

type ShareBalanceArgs struct {
	Vault   string `json:"vault"`
	Address string `json:"address"`
}

type ShareBalanceReply struct {
	Amount uint64 `json:"amount"`
}

func (j *JSONRPCServer) ShareBalance(req *http.Request, args *ShareBalanceArgs, reply *ShareBalanceReply) error {
	ctx, span := j.c.Tracer().Start(req.Context(), "Server.ShareBalance")
	defer span.End()

	vault, err := codec.ParseAddressBech32(consts.HRP, args.Vault)
	if err != nil {
		return err
	}
	owner, err := codec.ParseAddressBech32(consts.HRP, args.Address)
	if err != nil {
		return err
	}
	balance, err := j.c.GetShareBalanceFromState(ctx, vault, owner)
	if err != nil {
		return err
	}
	reply.Amount = balance
	return err
}

type PreviewAccrualArgs struct {
	Vault string `json:"vault"`
	// Timestamp is the accrual time in unix seconds. Zero means now.
	Timestamp int64 `json:"timestamp"`
}

type PreviewAccrualReply struct {
	Pending     uint64 `json:"pending"`
	TotalAssets uint64 `json:"totalAssets"`
	AccruedFees uint64 `json:"accruedFees"`
	LastAccrual int64  `json:"lastAccrual"`
}

// PreviewAccrual quotes the management fee a vault would settle if accrual
// ran at [Timestamp]. State is not modified.
func (j *JSONRPCServer) PreviewAccrual(req *http.Request, args *PreviewAccrualArgs, reply *PreviewAccrualReply) error {
	ctx, span := j.c.Tracer().Start(req.Context(), "Server.PreviewAccrual")
	defer span.End()

	addr, err := codec.ParseAddressBech32(consts.HRP, args.Vault)
	if err != nil {
		return err
	}
	vault, exists, err := j.c.GetVaultFromState(ctx, addr)
	if err != nil {
		return err
	}
	if !exists {
		return ErrVaultNotFound
	}
	t := args.Timestamp
	if t == 0 {
		t = time.Now().Unix()
	}
	// [vault] is decoded from state, so accruing against it cannot touch
	// the backing store.
	pending, err := vault.Accrue(t)
	if err != nil {
		return err
	}
	reply.Pending = pending
	reply.TotalAssets = vault.TotalAssets
	reply.AccruedFees = vault.AccruedFees
	reply.LastAccrual = vault.LastAccrual
	return nil
}

type VaultsReply struct {
	Vaults []*vaultbook.TrackedVault `json:"vaults"`
}

func (j *JSONRPCServer) Vaults(req *http.Request, _ *struct{}, reply *VaultsReply) error {
	_, span := j.c.Tracer().Start(req.Context(), "Server.Vaults")
	defer span.End()

	reply.Vaults = j.c.Vaults(vaultsToSend)
	return nil
}
