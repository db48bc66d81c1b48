// Copyright 2026 The go-obsidian Authors
// This file is part of the go-obsidian library.
//
// Owner-signed execution: hashing, nonce consumption, verification, guard
// hooks, dispatch and refund accounting.

package safe

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"

	"github.com/HITEYY/obsidian-safe/core/types"
	"github.com/HITEYY/obsidian-safe/core/vm"
	"github.com/HITEYY/obsidian-safe/params"
)

func (a *account) execTransactionEntry(in *vm.Args) ([]interface{}, error) {
	tx := readSafeTx(in)
	signatures := in.Bytes(9)
	if in.Err() != nil || !tx.Operation.Valid() {
		return nil, vm.ErrInvalidCalldata
	}
	success, err := a.execTransaction(tx, signatures)
	if err != nil {
		return nil, err
	}
	return []interface{}{success}, nil
}

// execTransaction runs an owner-signed action. A returned error is a hard
// revert; the nonce stays consumed either way.
func (a *account) execTransaction(tx *types.SafeTx, signatures []byte) (bool, error) {
	startGas := a.ctx.GasLeft()

	// Phase 1: Hash under the current nonce, then consume it before any
	// untrusted code runs
	tx.Nonce = a.nonce()
	txHashData, txHash := a.txHashData(tx)
	a.ctx.CommitState(nonceSlot, uint64Word(tx.Nonce+1))

	// Phase 2: Signature verification
	executor := a.ctx.Caller()
	if err := a.checkSignatures(executor, txHash, txHashData, signatures); err != nil {
		log.Warn("Safe transaction rejected", "account", a.self, "hash", txHash, "nonce", tx.Nonce, "err", err)
		return false, err
	}

	// Phase 3: Guard pre-check. The guard read here also receives the
	// post-check, even if the action replaces it.
	guard := a.guard()
	if guard != (common.Address{}) {
		_, err := a.callCollaborator(guard, GuardABI, "checkTransaction",
			tx.To, vm.Big(tx.Value), tx.Data, uint8(tx.Operation),
			new(uint256.Int).SetUint64(tx.SafeTxGas).ToBig(), new(uint256.Int).SetUint64(tx.BaseGas).ToBig(),
			vm.Big(tx.GasPrice), tx.GasToken, tx.RefundReceiver, signatures, executor)
		if err != nil {
			log.Warn("Guard rejected transaction", "account", a.self, "hash", txHash, "err", err)
			return false, err
		}
	}

	// Phase 4: Dispatch
	if a.ctx.GasLeft() < requiredGas(tx.SafeTxGas) {
		return false, ErrNotEnoughGas
	}
	budget := tx.SafeTxGas
	if budget == 0 {
		budget = a.ctx.GasLeft() - params.SafeTxGasReserve
	}
	success, _ := a.execute(tx.To, tx.Value, tx.Data, tx.Operation, budget)
	if !success && tx.SafeTxGas == 0 && isZero(tx.GasPrice) {
		return false, ErrDispatchFailed
	}

	// Phase 5: Guard post-check
	if guard != (common.Address{}) {
		if _, err := a.callCollaborator(guard, GuardABI, "checkAfterExecution", [32]byte(txHash), success); err != nil {
			log.Warn("Guard rejected result", "account", a.self, "hash", txHash, "err", err)
			return false, err
		}
	}

	// Phase 6: Refund
	payment := new(uint256.Int)
	if !isZero(tx.GasPrice) {
		gasUsed := uint256.NewInt(startGas - a.ctx.GasLeft())
		var err error
		if payment, err = a.handlePayment(gasUsed, tx.BaseGas, tx.GasPrice, tx.GasToken, tx.RefundReceiver); err != nil {
			return false, err
		}
	}

	// Phase 7: Outcome event
	if success {
		a.ctx.Emit(&ExecutionSuccess{TxHash: txHash, Payment: payment})
	} else {
		a.ctx.Emit(&ExecutionFailure{TxHash: txHash, Payment: payment})
		log.Warn("Safe transaction failed", "account", a.self, "hash", txHash, "nonce", tx.Nonce)
	}
	log.Debug("Safe transaction executed", "account", a.self, "hash", txHash, "nonce", tx.Nonce, "success", success, "payment", payment)
	return success, nil
}

// requiredGas is the gas that must remain before dispatch so the action
// receives its full budget: max(budget*64/63, budget+reserve) + overhead.
func requiredGas(safeTxGas uint64) uint64 {
	budget := new(uint256.Int).SetUint64(safeTxGas)
	scaled := new(uint256.Int).Mul(budget, uint256.NewInt(64))
	scaled.Div(scaled, uint256.NewInt(63))
	reserved := new(uint256.Int).AddUint64(budget, params.SafeTxGasReserve)
	if reserved.Gt(scaled) {
		scaled = reserved
	}
	scaled.AddUint64(scaled, params.SafeTxGasCheckOverhead)
	if !scaled.IsUint64() {
		return ^uint64(0)
	}
	return scaled.Uint64()
}

// execute dispatches one action and reports its success together with the
// return data, or the revert data on failure.
func (a *account) execute(to common.Address, value *uint256.Int, data []byte, op types.Operation, gas uint64) (bool, []byte) {
	var (
		ret []byte
		err error
	)
	if op == types.DelegateCall {
		ret, err = a.ctx.DelegateCall(to, data, gas)
	} else {
		ret, err = a.ctx.Call(to, value, data, gas)
	}
	if err != nil {
		log.Debug("Dispatch failed", "account", a.self, "to", to, "operation", op, "err", err)
		return false, vm.RevertData(err)
	}
	return true, ret
}

func isZero(v *uint256.Int) bool {
	return v == nil || v.IsZero()
}
