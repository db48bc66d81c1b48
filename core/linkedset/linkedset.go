// Copyright 2026 The go-obsidian Authors
// This file is part of the go-obsidian library.
//
// Package linkedset implements a sentinel-headed singly linked set of
// addresses stored as a successor map. It backs both the owner and the
// module registries of an account.

package linkedset

import (
	"errors"

	"github.com/ethereum/go-ethereum/common"
)

// Sentinel is both the head and the tail marker of every set.
var Sentinel = common.HexToAddress("0x0000000000000000000000000000000000000001")

var (
	ErrAlreadyInitialized = errors.New("linked set already initialized")
	ErrInvalidMember      = errors.New("invalid member")
	ErrDuplicateMember    = errors.New("member already present")
	ErrInvalidPrev        = errors.New("invalid predecessor, member pair")
	ErrInvalidStart       = errors.New("invalid pagination start")
	ErrInvalidPageSize    = errors.New("invalid page size")
)

// Backend stores the successor of each member. A member that is not in the
// set has the zero address as successor.
type Backend interface {
	Next(member common.Address) common.Address
	SetNext(member, next common.Address)
}

// MapBackend is an in-memory Backend.
type MapBackend map[common.Address]common.Address

func (m MapBackend) Next(member common.Address) common.Address { return m[member] }

func (m MapBackend) SetNext(member, next common.Address) {
	if next == (common.Address{}) {
		delete(m, member)
		return
	}
	m[member] = next
}

// Set is a view over a Backend. The owner address is excluded from
// membership so an account can never list itself.
type Set struct {
	backend Backend
	owner   common.Address
}

// New returns a set view bound to the given backend. owner is the address
// holding the set; it is rejected as a member.
func New(backend Backend, owner common.Address) *Set {
	return &Set{backend: backend, owner: owner}
}

// Initialized reports whether the sentinel has been linked.
func (s *Set) Initialized() bool {
	return s.backend.Next(Sentinel) != (common.Address{})
}

// valid reports whether addr may ever be a member.
func (s *Set) valid(addr common.Address) bool {
	return addr != (common.Address{}) && addr != Sentinel && addr != s.owner
}

// Init links members in the given order. An empty slice produces an empty
// but initialized set.
func (s *Set) Init(members []common.Address) error {
	if s.Initialized() {
		return ErrAlreadyInitialized
	}
	// Validate everything before the first write so a failure leaves the
	// backend untouched.
	seen := make(map[common.Address]struct{}, len(members))
	for _, m := range members {
		if !s.valid(m) {
			return ErrInvalidMember
		}
		if _, ok := seen[m]; ok {
			return ErrDuplicateMember
		}
		seen[m] = struct{}{}
	}
	current := Sentinel
	for _, m := range members {
		s.backend.SetNext(current, m)
		current = m
	}
	s.backend.SetNext(current, Sentinel)
	return nil
}

// Contains reports whether addr is a member.
func (s *Set) Contains(addr common.Address) bool {
	return addr != Sentinel && s.backend.Next(addr) != (common.Address{})
}

// Add prepends addr to the set.
func (s *Set) Add(addr common.Address) error {
	if !s.valid(addr) {
		return ErrInvalidMember
	}
	if s.backend.Next(addr) != (common.Address{}) {
		return ErrDuplicateMember
	}
	head := s.backend.Next(Sentinel)
	if head == (common.Address{}) {
		head = Sentinel
	}
	s.backend.SetNext(addr, head)
	s.backend.SetNext(Sentinel, addr)
	return nil
}

// Remove unlinks addr. prev must be its true predecessor.
func (s *Set) Remove(prev, addr common.Address) error {
	if addr == (common.Address{}) || addr == Sentinel {
		return ErrInvalidMember
	}
	if s.backend.Next(prev) != addr {
		return ErrInvalidPrev
	}
	s.backend.SetNext(prev, s.backend.Next(addr))
	s.backend.SetNext(addr, common.Address{})
	return nil
}

// Swap replaces old with replacement at the same position. prev must be the
// true predecessor of old.
func (s *Set) Swap(prev, old, replacement common.Address) error {
	if !s.valid(replacement) {
		return ErrInvalidMember
	}
	if s.backend.Next(replacement) != (common.Address{}) {
		return ErrDuplicateMember
	}
	if old == (common.Address{}) || old == Sentinel {
		return ErrInvalidMember
	}
	if s.backend.Next(prev) != old {
		return ErrInvalidPrev
	}
	s.backend.SetNext(replacement, s.backend.Next(old))
	s.backend.SetNext(prev, replacement)
	s.backend.SetNext(old, common.Address{})
	return nil
}

// Members returns every member in list order (most recently added first for
// members inserted with Add).
func (s *Set) Members() []common.Address {
	var out []common.Address
	for next := s.backend.Next(Sentinel); next != Sentinel && next != (common.Address{}); next = s.backend.Next(next) {
		out = append(out, next)
	}
	return out
}

// Paginate walks at most pageSize hops after start. start itself is never
// part of the page; pass Sentinel to begin at the head. The returned cursor
// is the last member of the page when more members follow, or Sentinel when
// the walk reached the end. Mutating the set between calls invalidates the
// cursor.
func (s *Set) Paginate(start common.Address, pageSize int) ([]common.Address, common.Address, error) {
	if start != Sentinel && !s.Contains(start) {
		return nil, common.Address{}, ErrInvalidStart
	}
	if pageSize <= 0 {
		return nil, common.Address{}, ErrInvalidPageSize
	}
	page := make([]common.Address, 0, pageSize)
	next := s.backend.Next(start)
	for next != (common.Address{}) && next != Sentinel && len(page) < pageSize {
		page = append(page, next)
		next = s.backend.Next(next)
	}
	// The cursor must name a member that has already been returned, so the
	// next page begins right after it.
	if next != Sentinel && len(page) > 0 {
		next = page[len(page)-1]
	}
	if next == (common.Address{}) {
		next = Sentinel
	}
	return page, next, nil
}
