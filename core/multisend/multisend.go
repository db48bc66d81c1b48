// Copyright 2026 The go-obsidian Authors
// This file is part of the go-obsidian library.

// Package multisend implements the batch libraries accounts delegatecall to
// run several actions atomically, and the packed batch encoding they read.
package multisend

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"

	"github.com/HITEYY/obsidian-safe/core/types"
	"github.com/HITEYY/obsidian-safe/core/vm"
)

var (
	// ABI is the interface of both batch libraries.
	ABI = vm.MustParseABI("multiSend(bytes)")

	// ErrNotDelegated is raised when MultiSend is called directly.
	ErrNotDelegated = vm.Revert("MultiSend should only be called via delegatecall")

	// ErrBatchMalformed is raised for a batch that does not decode into
	// whole records.
	ErrBatchMalformed = vm.Revert(ErrMalformedBatch.Error())

	// ErrUnsupportedOperation is raised for a record whose operation the
	// library does not run.
	ErrUnsupportedOperation = vm.Revert("unsupported batch operation")
)

// Pack returns the multiSend calldata for txs.
func Pack(txs []*Transaction) ([]byte, error) {
	return ABI.Pack("multiSend", Encode(txs))
}

// MultiSend executes a batch in the context of the account that
// delegatecalls it. Every record may call or delegatecall; the first
// failure reverts the whole batch.
type MultiSend struct{}

// Run implements vm.Contract.
func (MultiSend) Run(ctx *vm.CallContext, input []byte) ([]byte, error) {
	if !ctx.IsDelegated() {
		return nil, ErrNotDelegated
	}
	return run(ctx, input, true)
}

// MultiSendCallOnly executes a batch of plain calls. It may be called
// directly as well as delegatecalled.
type MultiSendCallOnly struct{}

// Run implements vm.Contract.
func (MultiSendCallOnly) Run(ctx *vm.CallContext, input []byte) ([]byte, error) {
	return run(ctx, input, false)
}

func run(ctx *vm.CallContext, input []byte, allowDelegate bool) ([]byte, error) {
	if len(input) < 4 {
		return nil, vm.ErrInvalidCalldata
	}
	method, err := ABI.MethodById(input[:4])
	if err != nil {
		return nil, vm.ErrInvalidCalldata
	}
	in, err := vm.UnpackArgs(*method, input[4:])
	if err != nil {
		return nil, vm.ErrInvalidCalldata
	}
	batch := in.Bytes(0)
	if in.Err() != nil {
		return nil, vm.ErrInvalidCalldata
	}
	txs, err := Decode(batch)
	if err != nil {
		log.Debug("Rejected malformed batch", "self", ctx.Self(), "err", err)
		return nil, ErrBatchMalformed
	}
	for i, tx := range txs {
		to := tx.To
		if to == (common.Address{}) {
			to = ctx.Self()
		}
		switch {
		case tx.Operation == types.Call:
			_, err = ctx.Call(to, tx.Value, tx.Data, ctx.MaxCallGas())
		case tx.Operation == types.DelegateCall && allowDelegate:
			_, err = ctx.DelegateCall(to, tx.Data, ctx.MaxCallGas())
		default:
			err = ErrUnsupportedOperation
		}
		if err != nil {
			log.Debug("Batch record failed", "account", ctx.Self(), "index", i, "to", to, "operation", tx.Operation, "err", err)
			return nil, err
		}
	}
	return nil, nil
}

// Transaction is one record of a batch.
type Transaction struct {
	Operation types.Operation
	To        common.Address // Zero targets the executing account
	Value     *uint256.Int
	Data      []byte
}
