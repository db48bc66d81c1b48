// Copyright 2026 The go-obsidian Authors

package vm

import (
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/HITEYY/obsidian-safe/core/state"
	"github.com/HITEYY/obsidian-safe/params"
)

type testEvent struct{}

func (testEvent) EventName() string { return "Touched" }

var (
	sender   = common.HexToAddress("0x00000000000000000000000000000000000000e0")
	counter  = common.HexToAddress("0x00000000000000000000000000000000000000c0")
	library  = common.HexToAddress("0x00000000000000000000000000000000000000c1")
	caller   = common.HexToAddress("0x00000000000000000000000000000000000000c2")
	slotZero = common.Hash{}
	slotOne  = common.BigToHash(common.Big1)
)

// counterCode increments slot zero of Self. Input 0x01 reverts after the
// write, 0x02 burns all gas, 0x03 commits slot one before reverting.
var counterCode = ContractFunc(func(ctx *CallContext, input []byte) ([]byte, error) {
	n := ctx.GetState(slotZero).Big()
	n.Add(n, common.Big1)
	ctx.SetState(slotZero, common.BigToHash(n))
	ctx.Emit(testEvent{})
	if len(input) == 1 {
		switch input[0] {
		case 1:
			return nil, Revert("nope")
		case 2:
			ctx.UseGas(ctx.GasLeft() + 1)
			return nil, nil
		case 3:
			ctx.CommitState(slotOne, slotOne)
			return nil, Revert("kept")
		}
	}
	return common.BigToHash(n).Bytes(), nil
})

func newTestHost() *Host {
	h := NewHost(state.New(), uint256.NewInt(1), NewCostModel(params.DefaultGasConfig()))
	h.Deploy(counter, counterCode)
	return h
}

func TestApplyMessageSuccess(t *testing.T) {
	h := newTestHost()
	h.StateDB().AddBalance(sender, uint256.NewInt(10))

	res := h.ApplyMessage(&Message{From: sender, To: counter, Value: uint256.NewInt(4), GasLimit: 100000})
	if res.Failed() {
		t.Fatalf("message failed: %v", res.Err)
	}
	if have := common.BytesToHash(res.Return()); have != slotOne {
		t.Fatalf("return: have %x want %x", have, slotOne)
	}
	if have := h.StateDB().GetBalance(counter).Uint64(); have != 4 {
		t.Fatalf("value not transferred: have %d want 4", have)
	}
	if len(res.Logs) != 1 {
		t.Fatalf("log count: have %d want 1", len(res.Logs))
	}
	want := params.TxGas + params.SloadGas + params.SstoreGas + params.LogGas
	if res.UsedGas != want {
		t.Fatalf("used gas: have %d want %d", res.UsedGas, want)
	}
}

func TestApplyMessageRevert(t *testing.T) {
	h := newTestHost()
	res := h.ApplyMessage(&Message{From: sender, To: counter, Data: []byte{1}, GasLimit: 100000})
	if !errors.Is(res.Err, Revert("nope")) {
		t.Fatalf("error: have %v want revert", res.Err)
	}
	if reason := AsRevert(res.Err).Reason(); reason != "nope" {
		t.Fatalf("reason: have %q want %q", reason, "nope")
	}
	if h.StateDB().GetState(counter, slotZero) != (common.Hash{}) {
		t.Fatal("reverted write persisted")
	}
	if res.UsedGas >= 100000 {
		t.Fatal("revert consumed the whole budget")
	}
}

func TestApplyMessageOutOfGas(t *testing.T) {
	h := newTestHost()
	res := h.ApplyMessage(&Message{From: sender, To: counter, Data: []byte{2}, GasLimit: 100000})
	if !errors.Is(res.Err, ErrOutOfGas) {
		t.Fatalf("error: have %v want %v", res.Err, ErrOutOfGas)
	}
	if res.UsedGas != 100000 {
		t.Fatalf("used gas: have %d want 100000", res.UsedGas)
	}
	if _, _, err := h.call(kindCall, sender, counter, counter, new(uint256.Int), nil, 100, false, 0); !errors.Is(err, ErrOutOfGas) {
		t.Fatalf("underfunded frame: have %v want %v", err, ErrOutOfGas)
	}
}

func TestCommitStateSurvivesFailedFrame(t *testing.T) {
	h := newTestHost()
	res := h.ApplyMessage(&Message{From: sender, To: counter, Data: []byte{3}, GasLimit: 100000})
	if !res.Failed() {
		t.Fatal("message should fail")
	}
	if h.StateDB().GetState(counter, slotOne) != slotOne {
		t.Fatal("committed write was reverted")
	}
	if h.StateDB().GetState(counter, slotZero) != (common.Hash{}) {
		t.Fatal("plain write persisted")
	}
}

func TestStaticCallRejectsWrites(t *testing.T) {
	h := newTestHost()
	var innerErr error
	h.Deploy(caller, ContractFunc(func(ctx *CallContext, input []byte) ([]byte, error) {
		_, innerErr = ctx.StaticCall(counter, nil, ctx.MaxCallGas())
		return nil, nil
	}))
	res := h.ApplyMessage(&Message{From: sender, To: caller, GasLimit: 100000})
	if res.Failed() {
		t.Fatalf("outer frame failed: %v", res.Err)
	}
	if !errors.Is(innerErr, ErrWriteProtection) {
		t.Fatalf("inner error: have %v want %v", innerErr, ErrWriteProtection)
	}
	if h.StateDB().GetState(counter, slotZero) != (common.Hash{}) {
		t.Fatal("static frame wrote state")
	}
}

func TestDelegateCallRequiresTrust(t *testing.T) {
	h := newTestHost()
	h.Deploy(library, counterCode)
	var innerErr error
	h.Deploy(caller, ContractFunc(func(ctx *CallContext, input []byte) ([]byte, error) {
		_, innerErr = ctx.DelegateCall(library, nil, ctx.MaxCallGas())
		return nil, innerErr
	}))

	res := h.ApplyMessage(&Message{From: sender, To: caller, GasLimit: 100000})
	if !errors.Is(res.Err, ErrUntrustedDelegate) {
		t.Fatalf("error: have %v want %v", res.Err, ErrUntrustedDelegate)
	}

	h.TrustLibrary(library)
	res = h.ApplyMessage(&Message{From: sender, To: caller, GasLimit: 100000})
	if res.Failed() {
		t.Fatalf("trusted delegatecall failed: %v", res.Err)
	}
	if h.StateDB().GetState(caller, slotZero) != slotOne {
		t.Fatal("library did not write the caller's storage")
	}
	if h.StateDB().GetState(library, slotZero) != (common.Hash{}) {
		t.Fatal("library wrote its own storage")
	}
	if res.Logs[0].Address != caller {
		t.Fatalf("event attributed to %s, want %s", res.Logs[0].Address, caller)
	}
}

func TestIntrinsicGas(t *testing.T) {
	h := newTestHost()
	res := h.ApplyMessage(&Message{From: sender, To: counter, Data: []byte{0, 1}, GasLimit: params.TxGas})
	if !errors.Is(res.Err, ErrIntrinsicGas) {
		t.Fatalf("error: have %v want %v", res.Err, ErrIntrinsicGas)
	}
}

func TestRevertDataEncodesPlainErrors(t *testing.T) {
	data := RevertData(errors.New("boom"))
	if reason := NewRevertError(data).Reason(); reason != "boom" {
		t.Fatalf("reason: have %q want boom", reason)
	}
	if RevertData(nil) != nil {
		t.Fatal("nil error produced data")
	}
}
