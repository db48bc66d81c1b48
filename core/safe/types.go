// Copyright 2025 The go-obsidian Authors
// This file is part of the go-obsidian library.

package safe

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/HITEYY/obsidian-safe/core/types"
)

// Receipt contains the outcome of a submitted owner-signed action.
type Receipt struct {
	SafeTxHash common.Hash    `json:"safeTxHash"`
	Account    common.Address `json:"account"`
	Nonce      uint64         `json:"nonce"`
	Executed   bool           `json:"executed"` // False when the submission hard-reverted
	Success    bool           `json:"success"`  // The dispatched action succeeded
	Payment    *uint256.Int   `json:"payment"`
	GasUsed    uint64         `json:"gasUsed"`
	Reason     string         `json:"reason,omitempty"` // Revert reason if the submission failed
	Logs       []*types.Log   `json:"logs" rlp:"-"`
}

// ModulesPage is one page of a module list walk.
type ModulesPage struct {
	Modules []common.Address `json:"modules"`
	Next    common.Address   `json:"next"`
}
