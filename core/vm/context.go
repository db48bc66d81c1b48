// Copyright 2026 The go-obsidian Authors
// This file is part of the go-obsidian library.

package vm

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/HITEYY/obsidian-safe/core/types"
)

// CallContext is the environment of one executing frame. Storage, balance and
// events act on Self; Caller is the immediate sender.
//
// Metering and write-protection failures are recorded on the frame and fail
// it when the code returns, whatever the code itself returns.
type CallContext struct {
	host     *Host
	self     common.Address
	caller   common.Address
	code     common.Address
	value    *uint256.Int
	gas      uint64
	readOnly bool
	depth    int
	err      error
}

func (c *CallContext) Host() *Host                 { return c.host }
func (c *CallContext) Self() common.Address        { return c.self }
func (c *CallContext) Caller() common.Address      { return c.caller }
func (c *CallContext) CodeAddress() common.Address { return c.code }
func (c *CallContext) Value() *uint256.Int         { return new(uint256.Int).Set(c.value) }
func (c *CallContext) ReadOnly() bool              { return c.readOnly }
func (c *CallContext) Depth() int                  { return c.depth }
func (c *CallContext) Origin() common.Address      { return c.host.origin }
func (c *CallContext) GasPrice() *uint256.Int      { return new(uint256.Int).Set(c.host.gasPrice) }
func (c *CallContext) ChainID() *uint256.Int       { return c.host.ChainID() }

// IsDelegated reports whether the code runs in another address's context.
func (c *CallContext) IsDelegated() bool { return c.self != c.code }

// GasLeft returns the remaining gas of the frame.
func (c *CallContext) GasLeft() uint64 { return c.gas }

// Err returns the failure recorded on the frame, if any.
func (c *CallContext) Err() error { return c.err }

func (c *CallContext) fail(err error) {
	if c.err == nil {
		c.err = err
	}
}

// UseGas charges amount to the frame. It reports false and fails the frame
// once the budget is exhausted.
func (c *CallContext) UseGas(amount uint64) bool {
	if c.gas < amount {
		c.gas = 0
		c.fail(ErrOutOfGas)
		return false
	}
	c.gas -= amount
	return true
}

// GetState reads a storage word of Self.
func (c *CallContext) GetState(key common.Hash) common.Hash {
	c.UseGas(c.host.costs.SloadGas())
	return c.host.statedb.GetState(c.self, key)
}

// SetState writes a storage word of Self.
func (c *CallContext) SetState(key, value common.Hash) {
	if c.readOnly {
		c.fail(ErrWriteProtection)
		return
	}
	if c.UseGas(c.host.costs.SstoreGas()) {
		c.host.statedb.SetState(c.self, key, value)
	}
}

// CommitState writes a storage word of Self that is kept even if this or any
// enclosing frame later fails.
func (c *CallContext) CommitState(key, value common.Hash) {
	if c.readOnly {
		c.fail(ErrWriteProtection)
		return
	}
	if c.UseGas(c.host.costs.SstoreGas()) {
		c.host.statedb.CommitState(c.self, key, value)
	}
}

// Emit appends an event attributed to Self.
func (c *CallContext) Emit(event types.Event) {
	if c.readOnly {
		c.fail(ErrWriteProtection)
		return
	}
	if c.UseGas(c.host.costs.LogGas()) {
		c.host.statedb.AddLog(&types.Log{Address: c.self, Event: event})
	}
}

// Balance returns the balance of addr.
func (c *CallContext) Balance(addr common.Address) *uint256.Int {
	return c.host.statedb.GetBalance(addr)
}

// IsContract reports whether code is deployed at addr.
func (c *CallContext) IsContract(addr common.Address) bool {
	return c.host.IsContract(addr)
}

// MaxCallGas is the most gas a nested call may be given: all but one 64th of
// what is left.
func (c *CallContext) MaxCallGas() uint64 {
	return c.gas - c.gas/64
}

func (c *CallContext) nested(kind callKind, to common.Address, value *uint256.Int, input []byte, gas uint64) ([]byte, error) {
	if c.err != nil {
		return nil, c.err
	}
	if value == nil {
		value = new(uint256.Int)
	}
	if kind == kindCall && c.readOnly && !value.IsZero() {
		c.fail(ErrWriteProtection)
		return nil, ErrWriteProtection
	}
	if !c.UseGas(c.host.costs.CallGas(kind == kindCall && !value.IsZero())) {
		return nil, ErrOutOfGas
	}
	if limit := c.MaxCallGas(); gas > limit {
		gas = limit
	}
	c.gas -= gas

	var (
		ret      []byte
		leftOver uint64
		err      error
	)
	switch kind {
	case kindCall:
		ret, leftOver, err = c.host.call(kindCall, c.self, to, to, value, input, gas, c.readOnly, c.depth+1)
	case kindDelegateCall:
		ret, leftOver, err = c.host.call(kindDelegateCall, c.caller, c.self, to, c.value, input, gas, c.readOnly, c.depth+1)
	case kindStaticCall:
		ret, leftOver, err = c.host.call(kindStaticCall, c.self, to, to, new(uint256.Int), input, gas, true, c.depth+1)
	}
	c.gas += leftOver
	return ret, err
}

// Call invokes to with value, forwarding at most gas.
func (c *CallContext) Call(to common.Address, value *uint256.Int, input []byte, gas uint64) ([]byte, error) {
	return c.nested(kindCall, to, value, input, gas)
}

// DelegateCall runs the code at to against Self's state, keeping Caller and
// Value. Only trusted libraries may be targeted.
func (c *CallContext) DelegateCall(to common.Address, input []byte, gas uint64) ([]byte, error) {
	return c.nested(kindDelegateCall, to, nil, input, gas)
}

// StaticCall invokes to with every write disallowed.
func (c *CallContext) StaticCall(to common.Address, input []byte, gas uint64) ([]byte, error) {
	return c.nested(kindStaticCall, to, nil, input, gas)
}
