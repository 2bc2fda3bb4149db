// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"net/http"

	"github.com/ava-labs/fundvm/cmd/fund-keeper/manager"
	"github.com/ava-labs/fundvm/utils"
)

type JSONRPCServer struct {
	m Manager
}

func NewJSONRPCServer(m Manager) *JSONRPCServer {
	return &JSONRPCServer{m}
}

type KeeperInfoReply struct {
	Address   string `json:"address"`
	LastSweep int64  `json:"lastSweep"`
	Collected uint64 `json:"collected"`
}

func (j *JSONRPCServer) KeeperInfo(req *http.Request, _ *struct{}, reply *KeeperInfoReply) (err error) {
	addr, lastSweep, collected, err := j.m.GetKeeperInfo(req.Context())
	if err != nil {
		return err
	}
	reply.Address = utils.Address(addr)
	reply.LastSweep = lastSweep
	reply.Collected = collected
	return nil
}

type SweepsReply struct {
	Sweeps []*manager.SweepResult `json:"sweeps"`
}

func (j *JSONRPCServer) Sweeps(req *http.Request, _ *struct{}, reply *SweepsReply) (err error) {
	sweeps, err := j.m.GetSweeps(req.Context())
	if err != nil {
		return err
	}
	reply.Sweeps = sweeps
	return nil
}
