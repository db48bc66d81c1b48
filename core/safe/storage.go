// Copyright 2026 The go-obsidian Authors
// This file is part of the go-obsidian library.

package safe

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"

	"github.com/HITEYY/obsidian-safe/core/linkedset"
	"github.com/HITEYY/obsidian-safe/core/state"
)

// Storage slots of the account state.
var (
	modulesSlot         = common.HexToHash("0x01")
	ownersSlot          = common.HexToHash("0x02")
	ownerCountSlot      = common.HexToHash("0x03")
	thresholdSlot       = common.HexToHash("0x04")
	nonceSlot           = common.HexToHash("0x05")
	domainSeparatorSlot = common.HexToHash("0x06")
	signedMessagesSlot  = common.HexToHash("0x07")
	approvedHashesSlot  = common.HexToHash("0x08")

	guardSlot       = crypto.Keccak256Hash([]byte("guard_manager.guard.address"))
	moduleGuardSlot = crypto.Keccak256Hash([]byte("module_manager.module_guard.address"))
	fallbackSlot    = crypto.Keccak256Hash([]byte("fallback_manager.handler.address"))
)

// mappingSlot returns the slot of key in the mapping rooted at slot.
func mappingSlot(key, slot common.Hash) common.Hash {
	return crypto.Keccak256Hash(key[:], slot[:])
}

func addressWord(a common.Address) common.Hash { return common.BytesToHash(a[:]) }

func wordAddress(w common.Hash) common.Address { return common.BytesToAddress(w[:]) }

func wordUint64(w common.Hash) uint64 {
	return new(uint256.Int).SetBytes32(w[:]).Uint64()
}

func uint64Word(v uint64) common.Hash {
	return common.Hash(new(uint256.Int).SetUint64(v).Bytes32())
}

// Storage is the word storage of a single account.
type Storage interface {
	GetState(key common.Hash) common.Hash
	SetState(key, value common.Hash)
}

// setBackend stores linked-set successors in a storage mapping.
type setBackend struct {
	st   Storage
	slot common.Hash
}

func (b setBackend) Next(member common.Address) common.Address {
	return wordAddress(b.st.GetState(mappingSlot(addressWord(member), b.slot)))
}

func (b setBackend) SetNext(member, next common.Address) {
	b.st.SetState(mappingSlot(addressWord(member), b.slot), addressWord(next))
}

// layout maps the account state onto storage words.
type layout struct {
	st   Storage
	self common.Address
}

func (l layout) owners() *linkedset.Set {
	return linkedset.New(setBackend{l.st, ownersSlot}, l.self)
}

func (l layout) modules() *linkedset.Set {
	return linkedset.New(setBackend{l.st, modulesSlot}, l.self)
}

func (l layout) ownerCount() uint64     { return wordUint64(l.st.GetState(ownerCountSlot)) }
func (l layout) setOwnerCount(n uint64) { l.st.SetState(ownerCountSlot, uint64Word(n)) }
func (l layout) threshold() uint64      { return wordUint64(l.st.GetState(thresholdSlot)) }
func (l layout) setThreshold(t uint64)  { l.st.SetState(thresholdSlot, uint64Word(t)) }
func (l layout) nonce() uint64          { return wordUint64(l.st.GetState(nonceSlot)) }

func (l layout) domainSeparator() common.Hash     { return l.st.GetState(domainSeparatorSlot) }
func (l layout) setDomainSeparator(d common.Hash) { l.st.SetState(domainSeparatorSlot, d) }

func (l layout) guard() common.Address           { return wordAddress(l.st.GetState(guardSlot)) }
func (l layout) setGuard(a common.Address)       { l.st.SetState(guardSlot, addressWord(a)) }
func (l layout) moduleGuard() common.Address     { return wordAddress(l.st.GetState(moduleGuardSlot)) }
func (l layout) setModuleGuard(a common.Address) { l.st.SetState(moduleGuardSlot, addressWord(a)) }
func (l layout) fallbackHandler() common.Address { return wordAddress(l.st.GetState(fallbackSlot)) }
func (l layout) setFallbackHandler(a common.Address) {
	l.st.SetState(fallbackSlot, addressWord(a))
}

func (l layout) signedMessage(hash common.Hash) uint64 {
	return wordUint64(l.st.GetState(mappingSlot(hash, signedMessagesSlot)))
}

func (l layout) setSignedMessage(hash common.Hash) {
	l.st.SetState(mappingSlot(hash, signedMessagesSlot), uint64Word(1))
}

func approvalSlot(owner common.Address, hash common.Hash) common.Hash {
	return mappingSlot(hash, mappingSlot(addressWord(owner), approvedHashesSlot))
}

func (l layout) approvedHash(owner common.Address, hash common.Hash) uint64 {
	return wordUint64(l.st.GetState(approvalSlot(owner, hash)))
}

func (l layout) setApprovedHash(owner common.Address, hash common.Hash) {
	l.st.SetState(approvalSlot(owner, hash), uint64Word(1))
}

// stateStorage reads an account's words straight from the world state,
// without metering.
type stateStorage struct {
	db   *state.StateDB
	addr common.Address
}

func (s stateStorage) GetState(key common.Hash) common.Hash { return s.db.GetState(s.addr, key) }
func (s stateStorage) SetState(key, value common.Hash)      { s.db.SetState(s.addr, key, value) }
