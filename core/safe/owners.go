// Copyright 2026 The go-obsidian Authors
// This file is part of the go-obsidian library.

package safe

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"

	"github.com/HITEYY/obsidian-safe/core/vm"
)

func (a *account) addOwnerEntry(in *vm.Args) ([]interface{}, error) {
	owner, threshold := in.Address(0), in.Uint64(1)
	if in.Err() != nil {
		return nil, vm.ErrInvalidCalldata
	}
	if err := a.authorized(); err != nil {
		return nil, err
	}
	if err := a.owners().Add(owner); err != nil {
		return nil, ownerError(err)
	}
	a.setOwnerCount(a.ownerCount() + 1)
	a.ctx.Emit(&AddedOwner{Owner: owner})
	log.Info("Added account owner", "account", a.self, "owner", owner)

	if a.threshold() != threshold {
		return nil, a.changeThreshold(threshold)
	}
	return nil, nil
}

func (a *account) removeOwnerEntry(in *vm.Args) ([]interface{}, error) {
	prev, owner, threshold := in.Address(0), in.Address(1), in.Uint64(2)
	if in.Err() != nil {
		return nil, vm.ErrInvalidCalldata
	}
	if err := a.authorized(); err != nil {
		return nil, err
	}
	// The owner count after removal must still cover the new threshold.
	count := a.ownerCount()
	if count == 0 || count-1 < threshold {
		return nil, ErrThresholdTooHigh
	}
	if err := a.owners().Remove(prev, owner); err != nil {
		return nil, ownerError(err)
	}
	a.setOwnerCount(count - 1)
	a.ctx.Emit(&RemovedOwner{Owner: owner})
	log.Info("Removed account owner", "account", a.self, "owner", owner)

	if a.threshold() != threshold {
		return nil, a.changeThreshold(threshold)
	}
	return nil, nil
}

func (a *account) swapOwnerEntry(in *vm.Args) ([]interface{}, error) {
	prev, oldOwner, newOwner := in.Address(0), in.Address(1), in.Address(2)
	if in.Err() != nil {
		return nil, vm.ErrInvalidCalldata
	}
	if err := a.authorized(); err != nil {
		return nil, err
	}
	if err := a.owners().Swap(prev, oldOwner, newOwner); err != nil {
		return nil, ownerError(err)
	}
	a.ctx.Emit(&RemovedOwner{Owner: oldOwner})
	a.ctx.Emit(&AddedOwner{Owner: newOwner})
	log.Info("Swapped account owner", "account", a.self, "old", oldOwner, "new", newOwner)
	return nil, nil
}

func (a *account) changeThresholdEntry(in *vm.Args) ([]interface{}, error) {
	threshold := in.Uint64(0)
	if in.Err() != nil {
		return nil, vm.ErrInvalidCalldata
	}
	if err := a.authorized(); err != nil {
		return nil, err
	}
	return nil, a.changeThreshold(threshold)
}

func (a *account) changeThreshold(threshold uint64) error {
	if threshold > a.ownerCount() {
		return ErrThresholdTooHigh
	}
	if threshold == 0 {
		return ErrThresholdZero
	}
	a.setThreshold(threshold)
	a.ctx.Emit(&ChangedThreshold{Threshold: threshold})
	log.Info("Changed account threshold", "account", a.self, "threshold", threshold)
	return nil
}

func (a *account) approveHashEntry(in *vm.Args) ([]interface{}, error) {
	hash := in.Hash(0)
	if in.Err() != nil {
		return nil, vm.ErrInvalidCalldata
	}
	owner := a.ctx.Caller()
	if !a.owners().Contains(owner) {
		return nil, ErrOnlyOwnersApprove
	}
	a.setApprovedHash(owner, hash)
	a.ctx.Emit(&ApproveHash{ApprovedHash: hash, Owner: owner})
	return nil, nil
}

func (a *account) thresholdEntry(*vm.Args) ([]interface{}, error) {
	return []interface{}{new(uint256.Int).SetUint64(a.threshold()).ToBig()}, nil
}

func (a *account) ownersEntry(*vm.Args) ([]interface{}, error) {
	owners := a.owners().Members()
	if owners == nil {
		owners = []common.Address{}
	}
	return []interface{}{owners}, nil
}

func (a *account) isOwnerEntry(in *vm.Args) ([]interface{}, error) {
	owner := in.Address(0)
	if in.Err() != nil {
		return nil, vm.ErrInvalidCalldata
	}
	return []interface{}{a.owners().Contains(owner)}, nil
}

func (a *account) approvedHashesEntry(in *vm.Args) ([]interface{}, error) {
	owner, hash := in.Address(0), in.Hash(1)
	if in.Err() != nil {
		return nil, vm.ErrInvalidCalldata
	}
	return []interface{}{new(uint256.Int).SetUint64(a.approvedHash(owner, hash)).ToBig()}, nil
}
