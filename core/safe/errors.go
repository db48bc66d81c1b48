// Copyright 2026 The go-obsidian Authors
// This file is part of the go-obsidian library.

package safe

import "github.com/HITEYY/obsidian-safe/core/vm"

// Hard-revert reasons. Each is an Error(string) revert carrying a short code
// so callers on either side of a call frame can match it with errors.Is.
var (
	ErrInitializerFailed      = vm.Revert("GS000")
	ErrThresholdNotSet        = vm.Revert("GS001")
	ErrInitializerNotContract = vm.Revert("GS002")

	ErrNotEnoughGas       = vm.Revert("GS010")
	ErrNativeRefundFailed = vm.Revert("GS011")
	ErrTokenRefundFailed  = vm.Revert("GS012")
	ErrDispatchFailed     = vm.Revert("GS013")

	ErrSignaturesTooShort      = vm.Revert("GS020")
	ErrSignatureOffsetInStatic = vm.Revert("GS021")
	ErrSignatureLengthMissing  = vm.Revert("GS022")
	ErrSignatureDataIncomplete = vm.Revert("GS023")
	ErrContractSignerRejected  = vm.Revert("GS024")
	ErrHashNotApproved         = vm.Revert("GS025")
	ErrInvalidSigner           = vm.Revert("GS026")

	ErrOnlyOwnersApprove = vm.Revert("GS030")
	ErrOnlySelf          = vm.Revert("GS031")

	ErrModulesInitialized = vm.Revert("GS100")
	ErrInvalidModule      = vm.Revert("GS101")
	ErrModuleEnabled      = vm.Revert("GS102")
	ErrInvalidModulePrev  = vm.Revert("GS103")
	ErrModuleNotEnabled   = vm.Revert("GS104")
	ErrInvalidPageStart   = vm.Revert("GS105")
	ErrInvalidPageSize    = vm.Revert("GS106")

	ErrAlreadySetUp       = vm.Revert("GS200")
	ErrThresholdTooHigh   = vm.Revert("GS201")
	ErrThresholdZero      = vm.Revert("GS202")
	ErrInvalidOwner       = vm.Revert("GS203")
	ErrDuplicateOwner     = vm.Revert("GS204")
	ErrInvalidOwnerPrev   = vm.Revert("GS205")

	ErrGuardInterface       = vm.Revert("GS300")
	ErrModuleGuardInterface = vm.Revert("GS301")

	ErrFallbackIsSelf = vm.Revert("GS400")
)
