// Copyright 2026 The go-obsidian Authors
// This file is part of the go-obsidian library.

package types

import "github.com/ethereum/go-ethereum/common"

// Event is a typed notification emitted by an account.
type Event interface {
	EventName() string
}

// Log records an event together with the account that emitted it.
type Log struct {
	Address common.Address
	Event   Event
}

// FilterLogs returns the events named name, in emission order.
func FilterLogs(logs []*Log, name string) []*Log {
	var out []*Log
	for _, l := range logs {
		if l.Event != nil && l.Event.EventName() == name {
			out = append(out, l)
		}
	}
	return out
}
