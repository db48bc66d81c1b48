// Copyright 2026 The go-obsidian Authors
// This file is part of the go-obsidian library.

package guards

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/log"

	"github.com/HITEYY/obsidian-safe/core/vm"
)

// ErrReentrancy is raised when an account re-enters its own execution path
// while the guard is held.
var ErrReentrancy = vm.Revert("Reentrancy detected")

var reentrancySlot = crypto.Keccak256Hash([]byte("reentrancy_guard.guard.struct"))

// ReentrancyGuard holds a flag per account from the pre-check until the
// post-check. A nested owner-signed action is rejected while it is held.
// Any abort of the enclosing action rolls the flag back with it.
type ReentrancyGuard struct{}

// Run implements vm.Contract.
func (g ReentrancyGuard) Run(ctx *vm.CallContext, input []byte) ([]byte, error) {
	return run(g, ctx, input)
}

func flagKey(account common.Address) common.Hash {
	return crypto.Keccak256Hash(reentrancySlot.Bytes(), account.Bytes())
}

func (ReentrancyGuard) checkTransaction(ctx *vm.CallContext, _ *Check) error {
	key := flagKey(ctx.Caller())
	if ctx.GetState(key) != (common.Hash{}) {
		log.Warn("Rejected reentrant transaction", "account", ctx.Caller())
		return ErrReentrancy
	}
	ctx.SetState(key, common.BytesToHash([]byte{1}))
	return nil
}

func (ReentrancyGuard) checkAfterExecution(ctx *vm.CallContext, _ common.Hash, _ bool) error {
	ctx.SetState(flagKey(ctx.Caller()), common.Hash{})
	return nil
}
