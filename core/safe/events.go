// Copyright 2026 The go-obsidian Authors
// This file is part of the go-obsidian library.

package safe

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

type SafeSetup struct {
	Initiator       common.Address   `json:"initiator"`
	Owners          []common.Address `json:"owners"`
	Threshold       uint64           `json:"threshold"`
	Initializer     common.Address   `json:"initializer"`
	FallbackHandler common.Address   `json:"fallbackHandler"`
}

type ExecutionSuccess struct {
	TxHash  common.Hash  `json:"txHash"`
	Payment *uint256.Int `json:"payment"`
}

type ExecutionFailure struct {
	TxHash  common.Hash  `json:"txHash"`
	Payment *uint256.Int `json:"payment"`
}

type ExecutionFromModuleSuccess struct {
	Module common.Address `json:"module"`
}

type ExecutionFromModuleFailure struct {
	Module common.Address `json:"module"`
}

type ApproveHash struct {
	ApprovedHash common.Hash    `json:"approvedHash"`
	Owner        common.Address `json:"owner"`
}

type SignMsg struct {
	MsgHash common.Hash `json:"msgHash"`
}

type AddedOwner struct {
	Owner common.Address `json:"owner"`
}

type RemovedOwner struct {
	Owner common.Address `json:"owner"`
}

type ChangedThreshold struct {
	Threshold uint64 `json:"threshold"`
}

type EnabledModule struct {
	Module common.Address `json:"module"`
}

type DisabledModule struct {
	Module common.Address `json:"module"`
}

type ChangedGuard struct {
	Guard common.Address `json:"guard"`
}

type ChangedModuleGuard struct {
	ModuleGuard common.Address `json:"moduleGuard"`
}

type ChangedFallbackHandler struct {
	Handler common.Address `json:"handler"`
}

// SafeReceived is emitted when the account is sent value without calldata.
type SafeReceived struct {
	Sender common.Address `json:"sender"`
	Value  *uint256.Int   `json:"value"`
}

func (*SafeSetup) EventName() string                  { return "SafeSetup" }
func (*ExecutionSuccess) EventName() string           { return "ExecutionSuccess" }
func (*ExecutionFailure) EventName() string           { return "ExecutionFailure" }
func (*ExecutionFromModuleSuccess) EventName() string { return "ExecutionFromModuleSuccess" }
func (*ExecutionFromModuleFailure) EventName() string { return "ExecutionFromModuleFailure" }
func (*ApproveHash) EventName() string                { return "ApproveHash" }
func (*SignMsg) EventName() string                    { return "SignMsg" }
func (*AddedOwner) EventName() string                 { return "AddedOwner" }
func (*RemovedOwner) EventName() string               { return "RemovedOwner" }
func (*ChangedThreshold) EventName() string           { return "ChangedThreshold" }
func (*EnabledModule) EventName() string              { return "EnabledModule" }
func (*DisabledModule) EventName() string             { return "DisabledModule" }
func (*ChangedGuard) EventName() string               { return "ChangedGuard" }
func (*ChangedModuleGuard) EventName() string         { return "ChangedModuleGuard" }
func (*ChangedFallbackHandler) EventName() string     { return "ChangedFallbackHandler" }
func (*SafeReceived) EventName() string               { return "SafeReceived" }
