// Copyright 2026 The go-obsidian Authors
// This file is part of the go-obsidian library.

package safe

import (
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"

	"github.com/HITEYY/obsidian-safe/core/vm"
)

func (a *account) setGuardEntry(in *vm.Args) ([]interface{}, error) {
	guard := in.Address(0)
	if in.Err() != nil {
		return nil, vm.ErrInvalidCalldata
	}
	if err := a.authorized(); err != nil {
		return nil, err
	}
	if guard != (common.Address{}) && !a.supportsInterface(guard, GuardInterfaceID) {
		return nil, ErrGuardInterface
	}
	a.setGuard(guard)
	a.ctx.Emit(&ChangedGuard{Guard: guard})
	log.Info("Changed account guard", "account", a.self, "guard", guard)
	return nil, nil
}

func (a *account) guardEntry(*vm.Args) ([]interface{}, error) {
	return []interface{}{a.guard()}, nil
}

func (a *account) moduleGuardEntry(*vm.Args) ([]interface{}, error) {
	return []interface{}{a.moduleGuard()}, nil
}

// supportsInterface asks target whether it implements the interface id.
// Any failure counts as a refusal.
func (a *account) supportsInterface(target common.Address, id [4]byte) bool {
	if !a.ctx.IsContract(target) {
		return false
	}
	input, err := GuardABI.Pack("supportsInterface", id)
	if err != nil {
		return false
	}
	ret, err := a.ctx.StaticCall(target, input, a.ctx.MaxCallGas())
	if err != nil {
		return false
	}
	out, err := GuardABI.Unpack("supportsInterface", ret)
	if err != nil || len(out) != 1 {
		return false
	}
	ok, _ := out[0].(bool)
	return ok
}

// callCollaborator calls an untrusted hook contract with all available gas.
// Its failure is the caller's failure.
func (a *account) callCollaborator(target common.Address, parsed abi.ABI, method string, args ...interface{}) ([]byte, error) {
	input, err := parsed.Pack(method, args...)
	if err != nil {
		return nil, err
	}
	return a.ctx.Call(target, nil, input, a.ctx.MaxCallGas())
}
