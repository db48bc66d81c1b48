// Copyright 2026 The go-obsidian Authors
// This file is part of the go-obsidian library.

package vm

import (
	"bytes"
	"errors"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

var (
	ErrOutOfGas            = errors.New("out of gas")
	ErrIntrinsicGas        = errors.New("intrinsic gas too low")
	ErrDepth               = errors.New("max call depth exceeded")
	ErrInsufficientBalance = errors.New("insufficient balance for transfer")
	ErrWriteProtection     = errors.New("write protection")
	ErrUntrustedDelegate   = errors.New("delegatecall target is not a trusted library")
	ErrExecutionReverted   = errors.New("execution reverted")
)

// revertSelector prefixes Error(string) revert payloads.
var revertSelector = crypto.Keccak256([]byte("Error(string)"))[:4]

var stringArgs = func() abi.Arguments {
	typ, err := abi.NewType("string", "", nil)
	if err != nil {
		panic(err)
	}
	return abi.Arguments{{Type: typ}}
}()

// RevertError is a failure that carries revert data back to the caller.
// Frames that fail with a RevertError keep their unused gas.
type RevertError struct {
	data []byte
}

// NewRevertError wraps raw revert data.
func NewRevertError(data []byte) *RevertError {
	return &RevertError{data: common.CopyBytes(data)}
}

// Revert returns a RevertError whose data is the Error(string) encoding of
// reason.
func Revert(reason string) *RevertError {
	return &RevertError{data: EncodeRevertReason(reason)}
}

func (e *RevertError) Error() string {
	if reason, err := abi.UnpackRevert(e.data); err == nil {
		return ErrExecutionReverted.Error() + ": " + reason
	}
	return ErrExecutionReverted.Error()
}

// Data returns the raw revert data.
func (e *RevertError) Data() []byte { return common.CopyBytes(e.data) }

// Reason returns the decoded Error(string) reason, or "" for custom data.
func (e *RevertError) Reason() string {
	reason, _ := abi.UnpackRevert(e.data)
	return reason
}

// Is matches any RevertError with identical data, so a sentinel survives
// being re-created on the other side of a call frame.
func (e *RevertError) Is(target error) bool {
	if target == ErrExecutionReverted {
		return true
	}
	t, ok := target.(*RevertError)
	return ok && bytes.Equal(e.data, t.data)
}

// EncodeRevertReason returns the Error(string) encoding of reason.
func EncodeRevertReason(reason string) []byte {
	packed, err := stringArgs.Pack(reason)
	if err != nil {
		panic(err)
	}
	return append(common.CopyBytes(revertSelector), packed...)
}

// RevertData returns the bytes a caller observes for err: the carried data
// of a RevertError, otherwise the Error(string) encoding of the message.
func RevertData(err error) []byte {
	if err == nil {
		return nil
	}
	var rerr *RevertError
	if errors.As(err, &rerr) {
		return rerr.Data()
	}
	return EncodeRevertReason(err.Error())
}

// AsRevert converts err into a RevertError, preserving carried data.
func AsRevert(err error) *RevertError {
	var rerr *RevertError
	if errors.As(err, &rerr) {
		return rerr
	}
	return NewRevertError(RevertData(err))
}
