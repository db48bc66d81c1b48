// Copyright 2026 The go-obsidian Authors
// This file is part of the go-obsidian library.

package safe

import "github.com/HITEYY/obsidian-safe/core/vm"

const execFields = "address,uint256,bytes,uint8,uint256,uint256,uint256,address,address"

var (
	// SafeABI lists the account entrypoints.
	SafeABI = vm.MustParseABI(
		"setup(address[],uint256,address,bytes,address,address,uint256,address)",
		"execTransaction("+execFields+",bytes) returns (bool)",
		"checkSignatures(bytes32,bytes,bytes)",
		"checkNSignatures(bytes32,bytes,bytes,uint256)",
		"approveHash(bytes32)",
		"addOwnerWithThreshold(address,uint256)",
		"removeOwner(address,address,uint256)",
		"swapOwner(address,address,address)",
		"changeThreshold(uint256)",
		"enableModule(address)",
		"disableModule(address,address)",
		"setModuleGuard(address)",
		"setGuard(address)",
		"setFallbackHandler(address)",
		"execTransactionFromModule(address,uint256,bytes,uint8) returns (bool)",
		"execTransactionFromModuleReturnData(address,uint256,bytes,uint8) returns (bool,bytes)",
		"nonce() returns (uint256)",
		"getThreshold() returns (uint256)",
		"getOwners() returns (address[])",
		"isOwner(address) returns (bool)",
		"isModuleEnabled(address) returns (bool)",
		"getModulesPaginated(address,uint256) returns (address[],address)",
		"approvedHashes(address,bytes32) returns (uint256)",
		"signedMessages(bytes32) returns (uint256)",
		"domainSeparator() returns (bytes32)",
		"getChainId() returns (uint256)",
		"getTransactionHash("+execFields+",uint256) returns (bytes32)",
		"encodeTransactionData("+execFields+",uint256) returns (bytes)",
		"getGuard() returns (address)",
		"getModuleGuard() returns (address)",
		"getFallbackHandler() returns (address)",
	)

	// GuardABI is the interface of transaction guards.
	GuardABI = vm.MustParseABI(
		"checkTransaction("+execFields+",bytes,address)",
		"checkAfterExecution(bytes32,bool)",
		"supportsInterface(bytes4) returns (bool)",
	)

	// ModuleGuardABI is the interface of module transaction guards.
	ModuleGuardABI = vm.MustParseABI(
		"checkModuleTransaction(address,uint256,bytes,uint8,address) returns (bytes32)",
		"checkAfterModuleExecution(bytes32,bool)",
		"supportsInterface(bytes4) returns (bool)",
	)

	// SignatureValidatorABI is the hook contract owners answer.
	SignatureValidatorABI = vm.MustParseABI(
		"isValidSignature(bytes,bytes) returns (bytes4)",
	)

	// TokenABI is the subset of ERC-20 used for refunds.
	TokenABI = vm.MustParseABI(
		"transfer(address,uint256) returns (bool)",
		"balanceOf(address) returns (uint256)",
	)

	// SignMessageLibABI is the message signing library.
	SignMessageLibABI = vm.MustParseABI(
		"signMessage(bytes)",
		"getMessageHash(bytes) returns (bytes32)",
	)
)

var (
	// GuardInterfaceID is the ERC-165 identifier of the guard interface.
	GuardInterfaceID = vm.InterfaceID(GuardABI, "checkTransaction", "checkAfterExecution")

	// ModuleGuardInterfaceID is the ERC-165 identifier of the module guard
	// interface.
	ModuleGuardInterfaceID = vm.InterfaceID(ModuleGuardABI, "checkModuleTransaction", "checkAfterModuleExecution")

	// ERC165InterfaceID identifies supportsInterface itself.
	ERC165InterfaceID = vm.InterfaceID(GuardABI, "supportsInterface")

	// SignatureMagicValue is what a contract owner returns to accept a
	// signature.
	SignatureMagicValue = vm.InterfaceID(SignatureValidatorABI, "isValidSignature")
)
