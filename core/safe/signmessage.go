// Copyright 2026 The go-obsidian Authors
// This file is part of the go-obsidian library.

package safe

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"

	"github.com/HITEYY/obsidian-safe/core/vm"
	"github.com/HITEYY/obsidian-safe/crypto/eip712"
)

// SignMessageLib marks messages as signed by the account that delegatecalls
// it. It has to be trusted as a delegatecall library to be useful.
type SignMessageLib struct{}

// Run implements vm.Contract.
func (SignMessageLib) Run(ctx *vm.CallContext, input []byte) ([]byte, error) {
	if len(input) < 4 {
		return nil, vm.ErrInvalidCalldata
	}
	method, err := SignMessageLibABI.MethodById(input[:4])
	if err != nil {
		return nil, vm.ErrInvalidCalldata
	}
	in, err := vm.UnpackArgs(*method, input[4:])
	if err != nil {
		return nil, vm.ErrInvalidCalldata
	}
	message := in.Bytes(0)
	if in.Err() != nil {
		return nil, vm.ErrInvalidCalldata
	}
	hash, err := messageHash(ctx, ctx.Self(), message)
	if err != nil {
		return nil, err
	}
	switch method.Name {
	case "signMessage":
		layout{st: ctx, self: ctx.Self()}.setSignedMessage(hash)
		ctx.Emit(&SignMsg{MsgHash: hash})
		log.Debug("Signed account message", "account", ctx.Self(), "hash", hash)
		return nil, nil
	default:
		return method.Outputs.Pack([32]byte(hash))
	}
}

// messageHash hashes message in the domain of account, asking the account
// for its domain separator.
func messageHash(ctx *vm.CallContext, account common.Address, message []byte) (common.Hash, error) {
	input, err := SafeABI.Pack("domainSeparator")
	if err != nil {
		return common.Hash{}, err
	}
	ret, err := ctx.StaticCall(account, input, ctx.MaxCallGas())
	if err != nil {
		return common.Hash{}, err
	}
	out, err := SafeABI.Unpack("domainSeparator", ret)
	if err != nil || len(out) != 1 {
		return common.Hash{}, vm.ErrInvalidCalldata
	}
	return eip712.MessageHash(common.Hash(out[0].([32]byte)), message), nil
}
