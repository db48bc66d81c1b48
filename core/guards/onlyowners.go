// Copyright 2026 The go-obsidian Authors
// This file is part of the go-obsidian library.

package guards

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/HITEYY/obsidian-safe/core/safe"
	"github.com/HITEYY/obsidian-safe/core/vm"
)

// ErrNotOwner is raised when the submitter of an action is not an owner.
var ErrNotOwner = vm.Revert("msg sender is not allowed to exec")

// OnlyOwnersGuard restricts submission to the account's owners. Ownership is
// read back from the account with a static call.
type OnlyOwnersGuard struct{}

// Run implements vm.Contract.
func (g OnlyOwnersGuard) Run(ctx *vm.CallContext, input []byte) ([]byte, error) {
	return run(g, ctx, input)
}

func (OnlyOwnersGuard) checkTransaction(ctx *vm.CallContext, check *Check) error {
	input, err := safe.SafeABI.Pack("isOwner", check.Executor)
	if err != nil {
		return err
	}
	ret, err := ctx.StaticCall(ctx.Caller(), input, ctx.MaxCallGas())
	if err != nil {
		return err
	}
	out, err := safe.SafeABI.Unpack("isOwner", ret)
	if err != nil || len(out) != 1 {
		return ErrNotOwner
	}
	if owner, _ := out[0].(bool); !owner {
		return ErrNotOwner
	}
	return nil
}

func (OnlyOwnersGuard) checkAfterExecution(*vm.CallContext, common.Hash, bool) error {
	return nil
}
