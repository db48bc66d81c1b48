// Copyright 2026 The go-obsidian Authors

package state

import (
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethdb/memorydb"
	"github.com/holiman/uint256"

	"github.com/HITEYY/obsidian-safe/core/types"
)

type testEvent struct{ name string }

func (e testEvent) EventName() string { return e.name }

var (
	addrA = common.HexToAddress("0x000000000000000000000000000000000000000a")
	addrB = common.HexToAddress("0x000000000000000000000000000000000000000b")
	slot1 = common.BigToHash(common.Big1)
	slot2 = common.BigToHash(common.Big2)
)

func TestBalanceTransfer(t *testing.T) {
	s := New()
	s.AddBalance(addrA, uint256.NewInt(1000))

	if err := s.Transfer(addrA, addrB, uint256.NewInt(400)); err != nil {
		t.Fatalf("Transfer failed: %v", err)
	}
	if have := s.GetBalance(addrA).Uint64(); have != 600 {
		t.Fatalf("sender balance: have %d want 600", have)
	}
	if have := s.GetBalance(addrB).Uint64(); have != 400 {
		t.Fatalf("receiver balance: have %d want 400", have)
	}
	if err := s.Transfer(addrB, addrA, uint256.NewInt(401)); !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("overdraft: have %v want %v", err, ErrInsufficientBalance)
	}
}

func TestSnapshotRevert(t *testing.T) {
	s := New()
	s.SetState(addrA, slot1, slot1)
	s.AddLog(&types.Log{Address: addrA, Event: testEvent{"first"}})

	id := s.Snapshot()
	s.SetState(addrA, slot1, slot2)
	s.SetState(addrB, slot2, slot2)
	s.AddBalance(addrB, uint256.NewInt(5))
	s.AddLog(&types.Log{Address: addrA, Event: testEvent{"second"}})
	s.RevertToSnapshot(id)

	if have := s.GetState(addrA, slot1); have != slot1 {
		t.Fatalf("slot not restored: have %x want %x", have, slot1)
	}
	if s.Exist(addrB) {
		t.Fatal("account created after snapshot survived revert")
	}
	if len(s.Logs()) != 1 {
		t.Fatalf("log count: have %d want 1", len(s.Logs()))
	}
}

func TestCommitStateSurvivesRevert(t *testing.T) {
	s := New()
	outer := s.Snapshot()
	s.CommitState(addrA, slot1, slot2)
	inner := s.Snapshot()
	s.SetState(addrA, slot2, slot2)
	s.RevertToSnapshot(inner)
	s.RevertToSnapshot(outer)

	if have := s.GetState(addrA, slot1); have != slot2 {
		t.Fatalf("committed write lost: have %x want %x", have, slot2)
	}
	if have := s.GetState(addrA, slot2); have != (common.Hash{}) {
		t.Fatalf("plain write survived: have %x", have)
	}
}

func TestJournalNestedRevert(t *testing.T) {
	s := New()
	s.AddBalance(addrA, uint256.NewInt(10))
	s.SetState(addrA, slot2, slot1)

	outer := s.Snapshot()
	s.SetState(addrA, slot1, slot2)
	s.AddBalance(addrA, uint256.NewInt(5))
	inner := s.Snapshot()
	if err := s.SubBalance(addrA, uint256.NewInt(3)); err != nil {
		t.Fatalf("SubBalance failed: %v", err)
	}
	s.SetState(addrA, slot2, common.Hash{})
	s.DiscardSnapshot(inner)

	if have := s.GetBalance(addrA); !have.Eq(uint256.NewInt(12)) {
		t.Fatalf("balance before revert: have %v want 12", have)
	}
	if have := s.GetState(addrA, slot2); have != (common.Hash{}) {
		t.Fatalf("cleared slot: have %x", have)
	}

	// Discarded revisions stay undoable through the enclosing one.
	s.RevertToSnapshot(outer)
	if have := s.GetBalance(addrA); !have.Eq(uint256.NewInt(10)) {
		t.Fatalf("balance after revert: have %v want 10", have)
	}
	if have := s.GetState(addrA, slot1); have != (common.Hash{}) {
		t.Fatalf("slot written after snapshot survived: have %x", have)
	}
	if have := s.GetState(addrA, slot2); have != slot1 {
		t.Fatalf("cleared slot not restored: have %x want %x", have, slot1)
	}
}

func TestCommitAndLoad(t *testing.T) {
	db := memorydb.New()
	s := New()
	s.AddBalance(addrA, uint256.NewInt(77))
	s.SetState(addrA, slot1, slot2)
	s.SetState(addrA, slot2, slot1)
	s.SetState(addrB, slot1, slot1)
	if err := s.Commit(db); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
	s.SetState(addrB, slot1, common.Hash{})
	if err := s.Commit(db); err != nil {
		t.Fatalf("second Commit failed: %v", err)
	}

	loaded, err := Load(db)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if have := loaded.GetBalance(addrA).Uint64(); have != 77 {
		t.Fatalf("balance: have %d want 77", have)
	}
	if have := loaded.GetState(addrA, slot2); have != slot1 {
		t.Fatalf("storage: have %x want %x", have, slot1)
	}
	if loaded.Exist(addrB) {
		t.Fatal("emptied account still persisted")
	}
}
