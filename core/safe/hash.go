// Copyright 2026 The go-obsidian Authors
// This file is part of the go-obsidian library.

package safe

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"

	"github.com/HITEYY/obsidian-safe/core/types"
	"github.com/HITEYY/obsidian-safe/core/vm"
	"github.com/HITEYY/obsidian-safe/crypto/eip712"
)

// domain returns the domain separator cached at setup, or the one the
// account would cache if it has not been set up yet.
func (a *account) domain() common.Hash {
	if d := a.domainSeparator(); d != (common.Hash{}) {
		return d
	}
	return eip712.DomainSeparator(a.ctx.ChainID(), a.self)
}

// readSafeTx decodes the nine action fields starting at argument 0.
func readSafeTx(in *vm.Args) *types.SafeTx {
	return &types.SafeTx{
		To:             in.Address(0),
		Value:          in.Uint256(1),
		Data:           in.Bytes(2),
		Operation:      types.Operation(in.Uint8(3)),
		SafeTxGas:      in.Uint64(4),
		BaseGas:        in.Uint64(5),
		GasPrice:       in.Uint256(6),
		GasToken:       in.Address(7),
		RefundReceiver: in.Address(8),
	}
}

func (a *account) domainSeparatorEntry(*vm.Args) ([]interface{}, error) {
	return []interface{}{[32]byte(a.domain())}, nil
}

func (a *account) chainIDEntry(*vm.Args) ([]interface{}, error) {
	return []interface{}{a.ctx.ChainID().ToBig()}, nil
}

func (a *account) transactionHashEntry(in *vm.Args) ([]interface{}, error) {
	tx := readSafeTx(in)
	tx.Nonce = in.Uint64(9)
	if in.Err() != nil {
		return nil, vm.ErrInvalidCalldata
	}
	return []interface{}{[32]byte(tx.Hash(a.domain()))}, nil
}

func (a *account) encodeTransactionDataEntry(in *vm.Args) ([]interface{}, error) {
	tx := readSafeTx(in)
	tx.Nonce = in.Uint64(9)
	if in.Err() != nil {
		return nil, vm.ErrInvalidCalldata
	}
	return []interface{}{tx.EncodeTypedData(a.domain())}, nil
}

func (a *account) nonceEntry(*vm.Args) ([]interface{}, error) {
	return []interface{}{new(uint256.Int).SetUint64(a.nonce()).ToBig()}, nil
}

func (a *account) signedMessagesEntry(in *vm.Args) ([]interface{}, error) {
	hash := in.Hash(0)
	if in.Err() != nil {
		return nil, vm.ErrInvalidCalldata
	}
	return []interface{}{new(uint256.Int).SetUint64(a.signedMessage(hash)).ToBig()}, nil
}

// PackExecTransaction returns the execTransaction calldata for tx. The nonce
// of tx is not part of the calldata.
func PackExecTransaction(tx *types.SafeTx, signatures []byte) ([]byte, error) {
	tx = tx.Copy()
	return SafeABI.Pack("execTransaction",
		tx.To, tx.Value.ToBig(), tx.Data, uint8(tx.Operation),
		new(uint256.Int).SetUint64(tx.SafeTxGas).ToBig(), new(uint256.Int).SetUint64(tx.BaseGas).ToBig(),
		tx.GasPrice.ToBig(), tx.GasToken, tx.RefundReceiver, signatures)
}

// PackModuleTransaction returns the calldata a module sends to dispatch an
// action through the account.
func PackModuleTransaction(returnData bool, to common.Address, value *uint256.Int, data []byte, op types.Operation) ([]byte, error) {
	method := "execTransactionFromModule"
	if returnData {
		method = "execTransactionFromModuleReturnData"
	}
	return SafeABI.Pack(method, to, vm.Big(value), data, uint8(op))
}

// txHashData returns the pre-image and digest of tx within the account domain.
func (a *account) txHashData(tx *types.SafeTx) ([]byte, common.Hash) {
	data := tx.EncodeTypedData(a.domain())
	return data, crypto.Keccak256Hash(data)
}
