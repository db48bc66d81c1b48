// Copyright 2026 The go-obsidian Authors
// This file is part of the go-obsidian library.

package safe

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"

	"github.com/HITEYY/obsidian-safe/core/types"
	"github.com/HITEYY/obsidian-safe/core/vm"
)

func (a *account) enableModuleEntry(in *vm.Args) ([]interface{}, error) {
	module := in.Address(0)
	if in.Err() != nil {
		return nil, vm.ErrInvalidCalldata
	}
	if err := a.authorized(); err != nil {
		return nil, err
	}
	if err := a.modules().Add(module); err != nil {
		return nil, moduleError(err)
	}
	a.ctx.Emit(&EnabledModule{Module: module})
	log.Info("Enabled account module", "account", a.self, "module", module)
	return nil, nil
}

func (a *account) disableModuleEntry(in *vm.Args) ([]interface{}, error) {
	prev, module := in.Address(0), in.Address(1)
	if in.Err() != nil {
		return nil, vm.ErrInvalidCalldata
	}
	if err := a.authorized(); err != nil {
		return nil, err
	}
	if err := a.modules().Remove(prev, module); err != nil {
		return nil, moduleError(err)
	}
	a.ctx.Emit(&DisabledModule{Module: module})
	log.Info("Disabled account module", "account", a.self, "module", module)
	return nil, nil
}

func (a *account) setModuleGuardEntry(in *vm.Args) ([]interface{}, error) {
	guard := in.Address(0)
	if in.Err() != nil {
		return nil, vm.ErrInvalidCalldata
	}
	if err := a.authorized(); err != nil {
		return nil, err
	}
	if guard != (common.Address{}) && !a.supportsInterface(guard, ModuleGuardInterfaceID) {
		return nil, ErrModuleGuardInterface
	}
	a.setModuleGuard(guard)
	a.ctx.Emit(&ChangedModuleGuard{ModuleGuard: guard})
	log.Info("Changed account module guard", "account", a.self, "guard", guard)
	return nil, nil
}

func (a *account) isModuleEnabledEntry(in *vm.Args) ([]interface{}, error) {
	module := in.Address(0)
	if in.Err() != nil {
		return nil, vm.ErrInvalidCalldata
	}
	return []interface{}{a.modules().Contains(module)}, nil
}

func (a *account) modulesPaginatedEntry(in *vm.Args) ([]interface{}, error) {
	start, size := in.Address(0), in.Uint256(1)
	if in.Err() != nil {
		return nil, vm.ErrInvalidCalldata
	}
	pageSize := int(^uint(0) >> 1)
	if size.IsUint64() && size.Uint64() < uint64(pageSize) {
		pageSize = int(size.Uint64())
	}
	page, next, err := a.modules().Paginate(start, pageSize)
	if err != nil {
		return nil, moduleError(err)
	}
	return []interface{}{page, next}, nil
}

func (a *account) execFromModuleEntry(in *vm.Args) ([]interface{}, error) {
	to, value, data, op := in.Address(0), in.Uint256(1), in.Bytes(2), types.Operation(in.Uint8(3))
	if in.Err() != nil || !op.Valid() {
		return nil, vm.ErrInvalidCalldata
	}
	success, _, err := a.execFromModule(to, value, data, op)
	if err != nil {
		return nil, err
	}
	return []interface{}{success}, nil
}

func (a *account) execFromModuleReturnDataEntry(in *vm.Args) ([]interface{}, error) {
	to, value, data, op := in.Address(0), in.Uint256(1), in.Bytes(2), types.Operation(in.Uint8(3))
	if in.Err() != nil || !op.Valid() {
		return nil, vm.ErrInvalidCalldata
	}
	success, ret, err := a.execFromModule(to, value, data, op)
	if err != nil {
		return nil, err
	}
	if ret == nil {
		ret = []byte{}
	}
	return []interface{}{success, ret}, nil
}

// execFromModule dispatches an action on behalf of an enabled module. The
// returned data is the callee's return data on success and its revert data
// on failure.
func (a *account) execFromModule(to common.Address, value *uint256.Int, data []byte, op types.Operation) (bool, []byte, error) {
	module := a.ctx.Caller()
	if !a.modules().Contains(module) {
		return false, nil, ErrModuleNotEnabled
	}
	guard := a.moduleGuard()
	var guardHash common.Hash
	if guard != (common.Address{}) {
		ret, err := a.callCollaborator(guard, ModuleGuardABI, "checkModuleTransaction", to, vm.Big(value), data, uint8(op), module)
		if err != nil {
			log.Warn("Module guard rejected transaction", "account", a.self, "module", module, "err", err)
			return false, nil, err
		}
		out, err := ModuleGuardABI.Unpack("checkModuleTransaction", ret)
		if err != nil || len(out) != 1 {
			return false, nil, vm.ErrInvalidCalldata
		}
		guardHash = common.Hash(out[0].([32]byte))
	}

	success, ret := a.execute(to, value, data, op, a.ctx.GasLeft())

	if guard != (common.Address{}) {
		if _, err := a.callCollaborator(guard, ModuleGuardABI, "checkAfterModuleExecution", [32]byte(guardHash), success); err != nil {
			log.Warn("Module guard rejected result", "account", a.self, "module", module, "err", err)
			return false, nil, err
		}
	}
	if success {
		a.ctx.Emit(&ExecutionFromModuleSuccess{Module: module})
	} else {
		a.ctx.Emit(&ExecutionFromModuleFailure{Module: module})
	}
	log.Debug("Module transaction executed", "account", a.self, "module", module, "success", success)
	return success, ret, nil
}
