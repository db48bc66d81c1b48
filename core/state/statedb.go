// Copyright 2026 The go-obsidian Authors
// This file is part of the go-obsidian library.

// Package state holds the in-memory world state the execution host runs
// against: balances, per-address storage and the event log.
package state

import (
	"bytes"
	"errors"
	"fmt"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethdb"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"

	"github.com/HITEYY/obsidian-safe/core/rawdb"
	"github.com/HITEYY/obsidian-safe/core/types"
)

var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidSnapshot     = errors.New("invalid snapshot id")
)

type stateObject struct {
	balance *uint256.Int
	storage map[common.Hash]common.Hash
}

func newObject() *stateObject {
	return &stateObject{
		balance: new(uint256.Int),
		storage: make(map[common.Hash]common.Hash),
	}
}

func (o *stateObject) copy() *stateObject {
	cpy := &stateObject{
		balance: new(uint256.Int).Set(o.balance),
		storage: make(map[common.Hash]common.Hash, len(o.storage)),
	}
	for k, v := range o.storage {
		cpy.storage[k] = v
	}
	return cpy
}

func (o *stateObject) empty() bool {
	return o.balance.IsZero() && len(o.storage) == 0
}

// stickyWrite is a storage write that is replayed after every revert that
// would otherwise discard it.
type stickyWrite struct {
	addr  common.Address
	key   common.Hash
	value common.Hash
}

type revision struct {
	journalIndex int
	logs         int
	stickyLen    int
}

// StateDB is the world state. It is not safe for concurrent use; the host
// serialises every submission.
type StateDB struct {
	objects   map[common.Address]*stateObject
	logs      []*types.Log
	sticky    []stickyWrite
	journal   journal
	revisions []revision
}

// New creates an empty world state.
func New() *StateDB {
	return &StateDB{objects: make(map[common.Address]*stateObject)}
}

func (s *StateDB) getObject(addr common.Address) *stateObject {
	return s.objects[addr]
}

func (s *StateDB) getOrNewObject(addr common.Address) *stateObject {
	obj := s.objects[addr]
	if obj == nil {
		obj = newObject()
		s.objects[addr] = obj
		s.journal.append(createObjectChange{addr: addr})
	}
	return obj
}

// Exist reports whether the address carries any balance or storage.
func (s *StateDB) Exist(addr common.Address) bool {
	obj := s.getObject(addr)
	return obj != nil && !obj.empty()
}

// GetBalance returns a copy of the balance of addr.
func (s *StateDB) GetBalance(addr common.Address) *uint256.Int {
	if obj := s.getObject(addr); obj != nil {
		return new(uint256.Int).Set(obj.balance)
	}
	return new(uint256.Int)
}

// AddBalance credits amount to addr.
func (s *StateDB) AddBalance(addr common.Address, amount *uint256.Int) {
	if amount == nil || amount.IsZero() {
		return
	}
	obj := s.getOrNewObject(addr)
	s.journal.append(balanceChange{addr: addr, prev: new(uint256.Int).Set(obj.balance)})
	obj.balance.Add(obj.balance, amount)
}

// SubBalance debits amount from addr.
func (s *StateDB) SubBalance(addr common.Address, amount *uint256.Int) error {
	if amount == nil || amount.IsZero() {
		return nil
	}
	obj := s.getObject(addr)
	if obj == nil || obj.balance.Lt(amount) {
		return fmt.Errorf("%w: address %s", ErrInsufficientBalance, addr)
	}
	s.journal.append(balanceChange{addr: addr, prev: new(uint256.Int).Set(obj.balance)})
	obj.balance.Sub(obj.balance, amount)
	return nil
}

// Transfer moves amount from one address to another.
func (s *StateDB) Transfer(from, to common.Address, amount *uint256.Int) error {
	if err := s.SubBalance(from, amount); err != nil {
		return err
	}
	s.AddBalance(to, amount)
	return nil
}

// GetState reads a storage word. Missing words read as zero.
func (s *StateDB) GetState(addr common.Address, key common.Hash) common.Hash {
	if obj := s.getObject(addr); obj != nil {
		return obj.storage[key]
	}
	return common.Hash{}
}

// SetState writes a storage word. Writing zero clears the slot.
func (s *StateDB) SetState(addr common.Address, key, value common.Hash) {
	obj := s.getOrNewObject(addr)
	prev := obj.storage[key]
	if prev == value {
		return
	}
	s.journal.append(storageChange{addr: addr, key: key, prev: prev})
	if value == (common.Hash{}) {
		delete(obj.storage, key)
		return
	}
	obj.storage[key] = value
}

// CommitState writes a storage word that survives any later revert to a
// snapshot taken before the write.
func (s *StateDB) CommitState(addr common.Address, key, value common.Hash) {
	s.SetState(addr, key, value)
	s.sticky = append(s.sticky, stickyWrite{addr: addr, key: key, value: value})
}

// AddLog appends an event to the log.
func (s *StateDB) AddLog(l *types.Log) {
	s.logs = append(s.logs, l)
}

// Logs returns the events emitted so far, in order.
func (s *StateDB) Logs() []*types.Log {
	return s.logs
}

// Snapshot returns an identifier for the current state revision. Taking a
// snapshot only records journal and log positions.
func (s *StateDB) Snapshot() int {
	s.revisions = append(s.revisions, revision{
		journalIndex: s.journal.length(),
		logs:         len(s.logs),
		stickyLen:    len(s.sticky),
	})
	return len(s.revisions) - 1
}

// RevertToSnapshot undoes the journal back to the revision, then replays the
// CommitState writes made since.
func (s *StateDB) RevertToSnapshot(id int) {
	if id < 0 || id >= len(s.revisions) {
		panic(fmt.Errorf("%w: %d (have %d)", ErrInvalidSnapshot, id, len(s.revisions)))
	}
	rev := s.revisions[id]
	s.journal.revert(s, rev.journalIndex)
	s.logs = s.logs[:rev.logs]
	s.revisions = s.revisions[:id]
	for _, w := range s.sticky[rev.stickyLen:] {
		s.SetState(w.addr, w.key, w.value)
	}
}

// DiscardSnapshot forgets the revision id and every revision taken after it,
// keeping the current state. Snapshots are nested, so only the innermost live
// revisions may be discarded.
func (s *StateDB) DiscardSnapshot(id int) {
	if id < 0 || id >= len(s.revisions) {
		panic(fmt.Errorf("%w: %d (have %d)", ErrInvalidSnapshot, id, len(s.revisions)))
	}
	s.revisions = s.revisions[:id]
}

// Finalise drops all snapshots, the journal and the revert-surviving
// writes. It is called once a top-level submission has completed.
func (s *StateDB) Finalise() {
	s.revisions = s.revisions[:0]
	s.sticky = s.sticky[:0]
	s.journal.reset()
}

// Copy returns an independent deep copy of the state, without snapshots.
func (s *StateDB) Copy() *StateDB {
	cpy := New()
	for addr, obj := range s.objects {
		cpy.objects[addr] = obj.copy()
	}
	cpy.logs = append(cpy.logs, s.logs...)
	return cpy
}

type storageEntry struct {
	Key   common.Hash
	Value common.Hash
}

// accountRLP is the persisted form of an account.
type accountRLP struct {
	Balance *uint256.Int
	Storage []storageEntry
}

// Commit writes every non-empty account to db and removes records of
// accounts that have become empty.
func (s *StateDB) Commit(db ethdb.KeyValueStore) error {
	for addr, obj := range s.objects {
		if obj.empty() {
			if rawdb.HasAccount(db, addr) {
				rawdb.DeleteAccount(db, addr)
			}
			continue
		}
		enc := accountRLP{Balance: obj.balance, Storage: make([]storageEntry, 0, len(obj.storage))}
		for k, v := range obj.storage {
			enc.Storage = append(enc.Storage, storageEntry{Key: k, Value: v})
		}
		sort.Slice(enc.Storage, func(i, j int) bool {
			return bytes.Compare(enc.Storage[i].Key[:], enc.Storage[j].Key[:]) < 0
		})
		blob, err := rlp.EncodeToBytes(&enc)
		if err != nil {
			return fmt.Errorf("encode account %s: %w", addr, err)
		}
		rawdb.WriteAccount(db, addr, blob)
	}
	return nil
}

// Load rebuilds a world state from the accounts committed to db.
func Load(db ethdb.KeyValueStore) (*StateDB, error) {
	s := New()
	var err error
	rawdb.IterateAccounts(db, func(addr common.Address, blob []byte) bool {
		var dec accountRLP
		if err = rlp.DecodeBytes(blob, &dec); err != nil {
			err = fmt.Errorf("decode account %s: %w", addr, err)
			return false
		}
		obj := newObject()
		if dec.Balance != nil {
			obj.balance.Set(dec.Balance)
		}
		for _, e := range dec.Storage {
			obj.storage[e.Key] = e.Value
		}
		s.objects[addr] = obj
		return true
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}
