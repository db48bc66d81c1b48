// Copyright 2024 The go-obsidian Authors
// This file is part of the go-obsidian library.
//
// The go-obsidian library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-obsidian library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-obsidian library. If not, see <http://www.gnu.org/licenses/>.

package safe

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/HITEYY/obsidian-safe/core/types"
)

// API is the RPC API for reading account state
type API struct {
	processor *Processor
}

// GetOwners retrieves the owners of an account, most recently added first
func (api *API) GetOwners(account common.Address) ([]common.Address, error) {
	var owners []common.Address
	err := api.processor.View(account, func(v *View) error {
		owners = v.Owners()
		return nil
	})
	return owners, err
}

// GetThreshold retrieves the number of signatures an action needs
func (api *API) GetThreshold(account common.Address) (hexutil.Uint64, error) {
	var threshold uint64
	err := api.processor.View(account, func(v *View) error {
		threshold = v.Threshold()
		return nil
	})
	return hexutil.Uint64(threshold), err
}

// Nonce retrieves the nonce the next action must be signed with
func (api *API) Nonce(account common.Address) (hexutil.Uint64, error) {
	var nonce uint64
	err := api.processor.View(account, func(v *View) error {
		nonce = v.Nonce()
		return nil
	})
	return hexutil.Uint64(nonce), err
}

// IsOwner reports whether owner may sign for the account
func (api *API) IsOwner(account, owner common.Address) (bool, error) {
	var ok bool
	err := api.processor.View(account, func(v *View) error {
		ok = v.IsOwner(owner)
		return nil
	})
	return ok, err
}

// GetModulesPaginated retrieves one page of enabled modules. A nil start
// begins at the head of the list.
func (api *API) GetModulesPaginated(account common.Address, start *common.Address, pageSize hexutil.Uint64) (*ModulesPage, error) {
	from := Sentinel
	if start != nil {
		from = *start
	}
	page := new(ModulesPage)
	err := api.processor.View(account, func(v *View) error {
		size := int(^uint(0) >> 1)
		if uint64(pageSize) < uint64(size) {
			size = int(pageSize)
		}
		var err error
		page.Modules, page.Next, err = v.ModulesPaginated(from, size)
		return err
	})
	if err != nil {
		return nil, err
	}
	return page, nil
}

// DomainSeparator retrieves the domain all account signatures are bound to
func (api *API) DomainSeparator(account common.Address) (common.Hash, error) {
	var domain common.Hash
	err := api.processor.View(account, func(v *View) error {
		domain = v.DomainSeparator()
		return nil
	})
	return domain, err
}

// GetTransactionHash retrieves the digest owners sign for tx. The nonce of
// tx is used as given.
func (api *API) GetTransactionHash(account common.Address, tx *types.SafeTx) (common.Hash, error) {
	var hash common.Hash
	err := api.processor.View(account, func(v *View) error {
		hash = v.TransactionHash(tx)
		return nil
	})
	return hash, err
}

// ApprovedHash reports whether owner has approved hash on chain
func (api *API) ApprovedHash(account, owner common.Address, hash common.Hash) (bool, error) {
	var ok bool
	err := api.processor.View(account, func(v *View) error {
		ok = v.ApprovedHash(owner, hash)
		return nil
	})
	return ok, err
}

// GetReceipt retrieves the persisted receipt of an executed action
func (api *API) GetReceipt(account common.Address, hash common.Hash) (*Receipt, error) {
	return api.processor.Receipt(account, hash)
}
