// Copyright 2026 The go-obsidian Authors
// This file is part of the go-obsidian library.

package guards

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/HITEYY/obsidian-safe/core/types"
	"github.com/HITEYY/obsidian-safe/core/vm"
)

// ErrRestricted is raised for a delegatecall to anything but the allowed
// target.
var ErrRestricted = vm.Revert("This call is restricted")

// DelegateCallGuard only lets actions borrow the account context of one
// allowed target. Plain calls pass.
type DelegateCallGuard struct {
	AllowedTarget common.Address
}

// Run implements vm.Contract.
func (g *DelegateCallGuard) Run(ctx *vm.CallContext, input []byte) ([]byte, error) {
	return run(g, ctx, input)
}

func (g *DelegateCallGuard) checkTransaction(_ *vm.CallContext, check *Check) error {
	if check.Tx.Operation == types.DelegateCall && check.Tx.To != g.AllowedTarget {
		return ErrRestricted
	}
	return nil
}

func (g *DelegateCallGuard) checkAfterExecution(*vm.CallContext, common.Hash, bool) error {
	return nil
}
