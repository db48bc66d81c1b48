// Copyright 2026 The go-obsidian Authors
// This file is part of the go-obsidian library.

package safe

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"

	"github.com/HITEYY/obsidian-safe/core/vm"
)

func (a *account) setFallbackHandlerEntry(in *vm.Args) ([]interface{}, error) {
	handler := in.Address(0)
	if in.Err() != nil {
		return nil, vm.ErrInvalidCalldata
	}
	if err := a.authorized(); err != nil {
		return nil, err
	}
	if err := a.internalSetFallbackHandler(handler); err != nil {
		return nil, err
	}
	a.ctx.Emit(&ChangedFallbackHandler{Handler: handler})
	log.Info("Changed account fallback handler", "account", a.self, "handler", handler)
	return nil, nil
}

func (a *account) internalSetFallbackHandler(handler common.Address) error {
	if handler == a.self {
		return ErrFallbackIsSelf
	}
	a.setFallbackHandler(handler)
	return nil
}

func (a *account) fallbackHandlerEntry(*vm.Args) ([]interface{}, error) {
	return []interface{}{a.fallbackHandler()}, nil
}

// receive records a plain value transfer.
func (a *account) receive() error {
	a.ctx.Emit(&SafeReceived{Sender: a.ctx.Caller(), Value: a.ctx.Value()})
	return nil
}

// fallback forwards unknown calldata to the fallback handler with the
// original caller appended. Without a handler the call is a no-op.
func (a *account) fallback(input []byte) ([]byte, error) {
	handler := a.fallbackHandler()
	if handler == (common.Address{}) {
		return nil, nil
	}
	calldata := make([]byte, 0, len(input)+common.AddressLength)
	calldata = append(calldata, input...)
	calldata = append(calldata, a.ctx.Caller().Bytes()...)
	return a.ctx.Call(handler, nil, calldata, a.ctx.MaxCallGas())
}
