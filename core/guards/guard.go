// Copyright 2026 The go-obsidian Authors
// This file is part of the go-obsidian library.

// Package guards provides transaction guards accounts can install to veto
// owner-signed actions before and after they are dispatched.
package guards

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/HITEYY/obsidian-safe/core/safe"
	"github.com/HITEYY/obsidian-safe/core/types"
	"github.com/HITEYY/obsidian-safe/core/vm"
)

// Check is a pre-execution hook invocation. The calling account is
// ctx.Caller().
type Check struct {
	Tx         *types.SafeTx // Nonce is not delivered and stays zero
	Signatures []byte
	Executor   common.Address // Resolved submitter of the action
}

// hooks is implemented by every guard in this package.
type hooks interface {
	checkTransaction(ctx *vm.CallContext, check *Check) error
	checkAfterExecution(ctx *vm.CallContext, hash common.Hash, success bool) error
}

// run dispatches input to the guard hooks and answers ERC-165 queries.
func run(g hooks, ctx *vm.CallContext, input []byte) ([]byte, error) {
	if len(input) < 4 {
		return nil, vm.ErrInvalidCalldata
	}
	method, err := safe.GuardABI.MethodById(input[:4])
	if err != nil {
		return nil, vm.ErrInvalidCalldata
	}
	in, err := vm.UnpackArgs(*method, input[4:])
	if err != nil {
		return nil, vm.ErrInvalidCalldata
	}
	switch method.Name {
	case "checkTransaction":
		check := readCheck(in)
		if in.Err() != nil {
			return nil, vm.ErrInvalidCalldata
		}
		return nil, g.checkTransaction(ctx, check)

	case "checkAfterExecution":
		hash, success := in.Hash(0), in.Bool(1)
		if in.Err() != nil {
			return nil, vm.ErrInvalidCalldata
		}
		return nil, g.checkAfterExecution(ctx, hash, success)

	default:
		id := in.Bytes4(0)
		if in.Err() != nil {
			return nil, vm.ErrInvalidCalldata
		}
		return method.Outputs.Pack(id == safe.GuardInterfaceID || id == safe.ERC165InterfaceID)
	}
}

func readCheck(in *vm.Args) *Check {
	return &Check{
		Tx: &types.SafeTx{
			To:             in.Address(0),
			Value:          in.Uint256(1),
			Data:           in.Bytes(2),
			Operation:      types.Operation(in.Uint8(3)),
			SafeTxGas:      in.Uint64(4),
			BaseGas:        in.Uint64(5),
			GasPrice:       in.Uint256(6),
			GasToken:       in.Address(7),
			RefundReceiver: in.Address(8),
		},
		Signatures: in.Bytes(9),
		Executor:   in.Address(10),
	}
}
