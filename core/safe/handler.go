// Copyright 2026 The go-obsidian Authors
// This file is part of the go-obsidian library.

package safe

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/HITEYY/obsidian-safe/core/vm"
)

// CompatibilityHandlerABI is served by CompatibilityHandler.
var CompatibilityHandlerABI = vm.MustParseABI(
	"isValidSignature(bytes,bytes) returns (bytes4)",
	"getMessageHash(bytes) returns (bytes32)",
	"getMessageHashForSafe(address,bytes) returns (bytes32)",
	"supportsInterface(bytes4) returns (bool)",
)

// CompatibilityHandler is a fallback handler that lets an account answer
// signature checks, so that it can itself be the owner of another account.
// It is called by the account it serves, with the original caller appended
// to the calldata.
type CompatibilityHandler struct{}

// Run implements vm.Contract.
func (CompatibilityHandler) Run(ctx *vm.CallContext, input []byte) ([]byte, error) {
	if len(input) < 4+common.AddressLength {
		return nil, vm.ErrInvalidCalldata
	}
	input = input[:len(input)-common.AddressLength]

	method, err := CompatibilityHandlerABI.MethodById(input[:4])
	if err != nil {
		return nil, vm.ErrInvalidCalldata
	}
	in, err := vm.UnpackArgs(*method, input[4:])
	if err != nil {
		return nil, vm.ErrInvalidCalldata
	}
	account := ctx.Caller()

	switch method.Name {
	case "isValidSignature":
		data, signature := in.Bytes(0), in.Bytes(1)
		if in.Err() != nil {
			return nil, vm.ErrInvalidCalldata
		}
		if err := validateAccountSignature(ctx, account, data, signature); err != nil {
			return nil, err
		}
		return method.Outputs.Pack(SignatureMagicValue)

	case "getMessageHash", "getMessageHashForSafe":
		var message []byte
		if method.Name == "getMessageHash" {
			message = in.Bytes(0)
		} else {
			account, message = in.Address(0), in.Bytes(1)
		}
		if in.Err() != nil {
			return nil, vm.ErrInvalidCalldata
		}
		hash, err := messageHash(ctx, account, message)
		if err != nil {
			return nil, err
		}
		return method.Outputs.Pack([32]byte(hash))

	default:
		id := in.Bytes4(0)
		if in.Err() != nil {
			return nil, vm.ErrInvalidCalldata
		}
		ok := id == ERC165InterfaceID || id == SignatureMagicValue
		return method.Outputs.Pack(ok)
	}
}

// validateAccountSignature accepts data when account has marked its message
// hash as signed, or when signature carries enough owner signatures of it.
func validateAccountSignature(ctx *vm.CallContext, account common.Address, data, signature []byte) error {
	hash, err := messageHash(ctx, account, data)
	if err != nil {
		return err
	}
	if len(signature) == 0 {
		input, err := SafeABI.Pack("signedMessages", [32]byte(hash))
		if err != nil {
			return err
		}
		ret, err := ctx.StaticCall(account, input, ctx.MaxCallGas())
		if err != nil {
			return err
		}
		if common.BytesToHash(ret) == (common.Hash{}) {
			return vm.Revert("Hash not approved")
		}
		return nil
	}
	input, err := SafeABI.Pack("checkSignatures", [32]byte(hash), data, signature)
	if err != nil {
		return err
	}
	_, err = ctx.StaticCall(account, input, ctx.MaxCallGas())
	return err
}
