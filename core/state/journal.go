// Copyright 2026 The go-obsidian Authors
// This file is part of the go-obsidian library.

package state

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// journalEntry is a modification of the state that can be undone.
type journalEntry interface {
	revert(s *StateDB)
}

// journal records state modifications in order so that a revision can be
// restored by undoing the entries made since it was taken.
type journal struct {
	entries []journalEntry
}

func (j *journal) append(entry journalEntry) {
	j.entries = append(j.entries, entry)
}

// revert undoes every entry from the end down to snapshot.
func (j *journal) revert(s *StateDB, snapshot int) {
	for i := len(j.entries) - 1; i >= snapshot; i-- {
		j.entries[i].revert(s)
	}
	j.entries = j.entries[:snapshot]
}

func (j *journal) length() int {
	return len(j.entries)
}

func (j *journal) reset() {
	j.entries = j.entries[:0]
}

type (
	createObjectChange struct {
		addr common.Address
	}
	balanceChange struct {
		addr common.Address
		prev *uint256.Int
	}
	storageChange struct {
		addr common.Address
		key  common.Hash
		prev common.Hash
	}
)

func (ch createObjectChange) revert(s *StateDB) {
	delete(s.objects, ch.addr)
}

func (ch balanceChange) revert(s *StateDB) {
	s.objects[ch.addr].balance.Set(ch.prev)
}

func (ch storageChange) revert(s *StateDB) {
	obj := s.objects[ch.addr]
	if ch.prev == (common.Hash{}) {
		delete(obj.storage, ch.key)
		return
	}
	obj.storage[ch.key] = ch.prev
}
