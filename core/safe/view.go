// Copyright 2026 The go-obsidian Authors
// This file is part of the go-obsidian library.

package safe

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/HITEYY/obsidian-safe/core/linkedset"
	"github.com/HITEYY/obsidian-safe/core/state"
	"github.com/HITEYY/obsidian-safe/core/types"
	"github.com/HITEYY/obsidian-safe/crypto/eip712"
)

// View reads the state of one account directly from the world state,
// without executing code or charging gas.
type View struct {
	layout
	chainID *uint256.Int
}

// NewView returns a reader for the account at addr.
func NewView(statedb *state.StateDB, addr common.Address, chainID *uint256.Int) *View {
	return &View{
		layout:  layout{st: stateStorage{db: statedb, addr: addr}, self: addr},
		chainID: new(uint256.Int).Set(chainID),
	}
}

// Address returns the account address.
func (v *View) Address() common.Address { return v.self }

// Initialized reports whether setup has run.
func (v *View) Initialized() bool { return v.threshold() > 0 }

func (v *View) Owners() []common.Address {
	owners := v.owners().Members()
	if owners == nil {
		owners = []common.Address{}
	}
	return owners
}

func (v *View) IsOwner(owner common.Address) bool { return v.owners().Contains(owner) }
func (v *View) Threshold() uint64                 { return v.threshold() }
func (v *View) Nonce() uint64                     { return v.nonce() }
func (v *View) Guard() common.Address             { return v.guard() }
func (v *View) ModuleGuard() common.Address       { return v.moduleGuard() }
func (v *View) FallbackHandler() common.Address   { return v.fallbackHandler() }

func (v *View) IsModuleEnabled(module common.Address) bool { return v.modules().Contains(module) }

// ModulesPaginated returns up to pageSize modules following start, and the
// cursor for the next page.
func (v *View) ModulesPaginated(start common.Address, pageSize int) ([]common.Address, common.Address, error) {
	page, next, err := v.modules().Paginate(start, pageSize)
	if err != nil {
		return nil, common.Address{}, moduleError(err)
	}
	return page, next, nil
}

// DomainSeparator returns the cached domain separator, or the one setup
// would cache.
func (v *View) DomainSeparator() common.Hash {
	if d := v.domainSeparator(); d != (common.Hash{}) {
		return d
	}
	return eip712.DomainSeparator(v.chainID, v.self)
}

// TransactionHash returns the digest owners sign for tx, nonce included.
func (v *View) TransactionHash(tx *types.SafeTx) common.Hash {
	return tx.Hash(v.DomainSeparator())
}

// MessageHash returns the digest under which message is recorded as signed.
func (v *View) MessageHash(message []byte) common.Hash {
	return eip712.MessageHash(v.DomainSeparator(), message)
}

func (v *View) ApprovedHash(owner common.Address, hash common.Hash) bool {
	return v.approvedHash(owner, hash) != 0
}

func (v *View) SignedMessage(hash common.Hash) bool {
	return v.signedMessage(hash) != 0
}

// Sentinel is the head and tail marker of the owner and module lists. It
// starts a module pagination walk.
var Sentinel = linkedset.Sentinel
