// Copyright 2026 The go-obsidian Authors
// This file is part of the go-obsidian library.
//
// Host is the metered execution environment accounts run in. Code is Go
// Contract values deployed at addresses; every address owns its storage in
// the world state.

package vm

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"

	"github.com/HITEYY/obsidian-safe/core/state"
	"github.com/HITEYY/obsidian-safe/core/types"
	"github.com/HITEYY/obsidian-safe/params"
)

// Contract is code that can be deployed at one or more addresses.
type Contract interface {
	Run(ctx *CallContext, input []byte) ([]byte, error)
}

// ContractFunc adapts a function to the Contract interface.
type ContractFunc func(ctx *CallContext, input []byte) ([]byte, error)

func (f ContractFunc) Run(ctx *CallContext, input []byte) ([]byte, error) { return f(ctx, input) }

// Message is a top-level submission to the host.
type Message struct {
	From     common.Address
	To       common.Address
	Value    *uint256.Int
	Data     []byte
	GasLimit uint64
	GasPrice *uint256.Int
}

// ExecutionResult is the outcome of a top-level message.
type ExecutionResult struct {
	UsedGas    uint64
	Err        error
	ReturnData []byte
	Logs       []*types.Log
}

// Failed reports whether the message failed.
func (r *ExecutionResult) Failed() bool { return r.Err != nil }

// Return returns the data of a successful message.
func (r *ExecutionResult) Return() []byte {
	if r.Err != nil {
		return nil
	}
	return common.CopyBytes(r.ReturnData)
}

// Revert returns the revert data of a failed message.
func (r *ExecutionResult) Revert() []byte {
	if r.Err == nil {
		return nil
	}
	return RevertData(r.Err)
}

type callKind uint8

const (
	kindCall callKind = iota
	kindDelegateCall
	kindStaticCall
)

// Host runs messages against a world state.
type Host struct {
	statedb   *state.StateDB
	chainID   *uint256.Int
	costs     CostModel
	contracts map[common.Address]Contract
	trusted   map[common.Address]struct{}

	origin   common.Address
	gasPrice *uint256.Int
}

// NewHost creates a host over statedb for the chain chainID.
func NewHost(statedb *state.StateDB, chainID *uint256.Int, costs CostModel) *Host {
	if costs == nil {
		costs = NewCostModel(params.DefaultGasConfig())
	}
	return &Host{
		statedb:   statedb,
		chainID:   new(uint256.Int).Set(chainID),
		costs:     costs,
		contracts: make(map[common.Address]Contract),
		trusted:   make(map[common.Address]struct{}),
		gasPrice:  new(uint256.Int),
	}
}

// StateDB returns the world state the host executes against.
func (h *Host) StateDB() *state.StateDB { return h.statedb }

// ChainID returns a copy of the chain id.
func (h *Host) ChainID() *uint256.Int { return new(uint256.Int).Set(h.chainID) }

// Costs returns the cost model in use.
func (h *Host) Costs() CostModel { return h.costs }

// Deploy installs code at addr, replacing any previous code.
func (h *Host) Deploy(addr common.Address, code Contract) {
	h.contracts[addr] = code
}

// TrustLibrary allow-lists the code at addr as a delegatecall target.
func (h *Host) TrustLibrary(addr common.Address) {
	h.trusted[addr] = struct{}{}
	log.Info("Trusted delegatecall library", "address", addr)
}

// IsTrusted reports whether addr may be the target of a delegatecall.
func (h *Host) IsTrusted(addr common.Address) bool {
	_, ok := h.trusted[addr]
	return ok
}

// IsContract reports whether code is deployed at addr.
func (h *Host) IsContract(addr common.Address) bool {
	_, ok := h.contracts[addr]
	return ok
}

// Code returns the code deployed at addr, or nil.
func (h *Host) Code(addr common.Address) Contract {
	return h.contracts[addr]
}

// ApplyMessage executes msg as a top-level submission. State changes of a
// failed message are reverted, except revert-surviving storage writes.
func (h *Host) ApplyMessage(msg *Message) *ExecutionResult {
	intrinsic := h.costs.IntrinsicGas(msg.Data)
	if msg.GasLimit < intrinsic {
		return &ExecutionResult{Err: fmt.Errorf("%w: have %d want %d", ErrIntrinsicGas, msg.GasLimit, intrinsic)}
	}
	h.origin = msg.From
	h.gasPrice = new(uint256.Int)
	if msg.GasPrice != nil {
		h.gasPrice.Set(msg.GasPrice)
	}
	value := new(uint256.Int)
	if msg.Value != nil {
		value.Set(msg.Value)
	}
	logStart := len(h.statedb.Logs())

	ret, leftOver, err := h.call(kindCall, msg.From, msg.To, msg.To, value, msg.Data, msg.GasLimit-intrinsic, false, 0)

	result := &ExecutionResult{
		UsedGas:    msg.GasLimit - leftOver,
		Err:        err,
		ReturnData: ret,
	}
	result.Logs = append(result.Logs, h.statedb.Logs()[logStart:]...)
	h.statedb.Finalise()
	return result
}

// call runs one frame. self is the address whose storage and balance the
// code acts on, code is where the code lives.
func (h *Host) call(kind callKind, caller, self, code common.Address, value *uint256.Int, input []byte, gas uint64, readOnly bool, depth int) ([]byte, uint64, error) {
	if depth > int(params.CallCreateDepth) {
		return nil, gas, ErrDepth
	}
	snapshot := h.statedb.Snapshot()

	if kind == kindCall && !value.IsZero() {
		if readOnly {
			h.statedb.RevertToSnapshot(snapshot)
			return nil, gas, ErrWriteProtection
		}
		if err := h.statedb.Transfer(caller, self, value); err != nil {
			h.statedb.RevertToSnapshot(snapshot)
			return nil, gas, fmt.Errorf("%w: %v", ErrInsufficientBalance, err)
		}
	}
	contract := h.contracts[code]
	if contract == nil {
		h.statedb.DiscardSnapshot(snapshot)
		return nil, gas, nil
	}
	if kind == kindDelegateCall && !h.IsTrusted(code) {
		h.statedb.RevertToSnapshot(snapshot)
		return nil, gas, fmt.Errorf("%w: %s", ErrUntrustedDelegate, code)
	}
	ctx := &CallContext{
		host:     h,
		self:     self,
		caller:   caller,
		code:     code,
		value:    value,
		gas:      gas,
		readOnly: readOnly,
		depth:    depth,
	}
	ret, err := contract.Run(ctx, input)
	if err == nil {
		err = ctx.err
	}
	if err != nil {
		h.statedb.RevertToSnapshot(snapshot)
		var rerr *RevertError
		if !errors.As(err, &rerr) {
			ctx.gas = 0
		}
		return ret, ctx.gas, err
	}
	h.statedb.DiscardSnapshot(snapshot)
	return ret, ctx.gas, nil
}
