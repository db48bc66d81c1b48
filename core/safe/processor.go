// Copyright 2025 The go-obsidian Authors
// This file is part of the go-obsidian library.
//
// Processor drives accounts from outside the ledger: it turns submissions
// into top-level host messages, extracts receipts and persists the outcome.

package safe

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethdb"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/holiman/uint256"

	"github.com/HITEYY/obsidian-safe/core/rawdb"
	"github.com/HITEYY/obsidian-safe/core/state"
	"github.com/HITEYY/obsidian-safe/core/types"
	"github.com/HITEYY/obsidian-safe/core/vm"
	"github.com/HITEYY/obsidian-safe/params"
)

var (
	// ErrNotAccount is returned when the target has no account code.
	ErrNotAccount = errors.New("address is not an account")

	// ErrReceiptNotFound is returned for unknown receipts.
	ErrReceiptNotFound = errors.New("receipt not found")
)

// Submission is an owner-signed action ready to be submitted.
type Submission struct {
	From       common.Address // Submitter, the message origin
	Account    common.Address
	Tx         *types.SafeTx // Nonce is ignored; the account's current nonce applies
	Signatures []byte
	GasLimit   uint64
	GasPrice   *uint256.Int
}

// Processor serialises submissions against one host.
type Processor struct {
	mu     sync.Mutex
	config params.Config
	host   *vm.Host
	safe   *Safe
	db     ethdb.KeyValueStore // Optional, nil keeps everything in memory
}

// NewProcessor creates a processor. With a database the world state is
// loaded from it and every submission is committed back.
func NewProcessor(config params.Config, db ethdb.KeyValueStore) (*Processor, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	statedb := state.New()
	if db != nil {
		var err error
		if statedb, err = state.Load(db); err != nil {
			return nil, fmt.Errorf("load state: %w", err)
		}
	}
	return &Processor{
		config: config,
		host:   vm.NewHost(statedb, uint256.NewInt(config.ChainID), vm.NewCostModel(config.Gas)),
		safe:   New(config),
		db:     db,
	}, nil
}

// Host returns the underlying host. Callers must not use it concurrently
// with the processor.
func (p *Processor) Host() *vm.Host {
	return p.host
}

// Safe returns the account code shared by every account of the processor.
func (p *Processor) Safe() *Safe {
	return p.safe
}

// Deploy installs the account code at addr.
func (p *Processor) Deploy(addr common.Address) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.host.Deploy(addr, p.safe)
}

// Setup initialises the account at addr on behalf of from.
func (p *Processor) Setup(from, addr common.Address, setup *SetupParams, gasLimit uint64) (*vm.ExecutionResult, error) {
	input, err := setup.Pack()
	if err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.host.Code(addr) != p.safe {
		return nil, ErrNotAccount
	}
	result := p.host.ApplyMessage(&vm.Message{From: from, To: addr, Data: input, GasLimit: gasLimit})
	if result.Failed() {
		log.Warn("Account setup failed", "account", addr, "err", result.Err)
	}
	return result, p.commit()
}

// Submit executes an owner-signed action and returns its receipt. A hard
// revert is reported in the receipt, not as an error.
func (p *Processor) Submit(sub *Submission) (*Receipt, error) {
	input, err := PackExecTransaction(sub.Tx, sub.Signatures)
	if err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.host.Code(sub.Account) != p.safe {
		return nil, ErrNotAccount
	}
	view := NewView(p.host.StateDB(), sub.Account, p.host.ChainID())
	tx := sub.Tx.Copy()
	tx.Nonce = view.Nonce()

	log.Info("Processing account transaction",
		"account", sub.Account,
		"nonce", tx.Nonce,
		"to", tx.To,
		"operation", tx.Operation,
		"gas", sub.GasLimit,
	)
	result := p.host.ApplyMessage(&vm.Message{
		From:     sub.From,
		To:       sub.Account,
		Data:     input,
		GasLimit: sub.GasLimit,
		GasPrice: sub.GasPrice,
	})
	receipt := newReceipt(sub.Account, view.TransactionHash(tx), tx.Nonce, result)

	if err := p.commit(); err != nil {
		return nil, err
	}
	if p.db != nil {
		blob, err := rlp.EncodeToBytes(receipt)
		if err != nil {
			return nil, fmt.Errorf("encode receipt: %w", err)
		}
		rawdb.WriteReceipt(p.db, sub.Account, receipt.SafeTxHash, blob)
		rawdb.WriteHeadNonce(p.db, sub.Account, tx.Nonce)
	}
	return receipt, nil
}

// newReceipt extracts the outcome of an execTransaction message.
func newReceipt(account common.Address, hash common.Hash, nonce uint64, result *vm.ExecutionResult) *Receipt {
	receipt := &Receipt{
		SafeTxHash: hash,
		Account:    account,
		Nonce:      nonce,
		Payment:    new(uint256.Int),
		GasUsed:    result.UsedGas,
		Logs:       result.Logs,
	}
	if result.Failed() {
		if reason := vm.AsRevert(result.Err).Reason(); reason != "" {
			receipt.Reason = reason
		} else {
			receipt.Reason = result.Err.Error()
		}
		return receipt
	}
	receipt.Executed = true
	for _, l := range result.Logs {
		if l.Address != account {
			continue
		}
		switch ev := l.Event.(type) {
		case *ExecutionSuccess:
			receipt.Success, receipt.Payment = true, ev.Payment
		case *ExecutionFailure:
			receipt.Payment = ev.Payment
		}
	}
	return receipt
}

func (p *Processor) commit() error {
	if p.db == nil {
		return nil
	}
	return p.host.StateDB().Commit(p.db)
}

// View runs fn against a reader of the account at addr.
func (p *Processor) View(addr common.Address, fn func(v *View) error) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.host.Code(addr) != p.safe {
		return ErrNotAccount
	}
	return fn(NewView(p.host.StateDB(), addr, p.host.ChainID()))
}

// Receipt returns a persisted receipt. Logs are not persisted.
func (p *Processor) Receipt(account common.Address, hash common.Hash) (*Receipt, error) {
	if p.db == nil {
		return nil, ErrReceiptNotFound
	}
	blob, ok := rawdb.ReadReceipt(p.db, account, hash)
	if !ok {
		return nil, ErrReceiptNotFound
	}
	receipt := new(Receipt)
	if err := rlp.DecodeBytes(blob, receipt); err != nil {
		return nil, fmt.Errorf("decode receipt: %w", err)
	}
	return receipt, nil
}

// APIs returns the RPC services of the processor.
func (p *Processor) APIs() []rpc.API {
	return []rpc.API{{
		Namespace: "safe",
		Service:   &API{processor: p},
	}}
}
