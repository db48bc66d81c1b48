// Copyright 2026 The go-obsidian Authors
// This file is part of the go-obsidian library.

package safe

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/lru"

	"github.com/HITEYY/obsidian-safe/core/vm"
	"github.com/HITEYY/obsidian-safe/params"
)

// sigLRU caches recovered signers keyed by hash and signature.
type sigLRU = lru.Cache[common.Hash, common.Address]

type handler func(a *account, in *vm.Args) ([]interface{}, error)

// Safe is the account code. It keeps no state of its own: every address it
// is deployed at holds its own owners, threshold, nonce and modules.
type Safe struct {
	signatures *sigLRU
	handlers   map[string]handler
}

// New creates the account code.
func New(config params.Config) *Safe {
	size := config.SignatureCacheSize
	if size <= 0 {
		size = params.DefaultSignatureCacheSize
	}
	s := &Safe{signatures: lru.NewCache[common.Hash, common.Address](size)}
	s.handlers = map[string]handler{
		"setup":                               (*account).setupEntry,
		"execTransaction":                     (*account).execTransactionEntry,
		"checkSignatures":                     (*account).checkSignaturesEntry,
		"checkNSignatures":                    (*account).checkNSignaturesEntry,
		"approveHash":                         (*account).approveHashEntry,
		"addOwnerWithThreshold":               (*account).addOwnerEntry,
		"removeOwner":                         (*account).removeOwnerEntry,
		"swapOwner":                           (*account).swapOwnerEntry,
		"changeThreshold":                     (*account).changeThresholdEntry,
		"enableModule":                        (*account).enableModuleEntry,
		"disableModule":                       (*account).disableModuleEntry,
		"setModuleGuard":                      (*account).setModuleGuardEntry,
		"setGuard":                            (*account).setGuardEntry,
		"setFallbackHandler":                  (*account).setFallbackHandlerEntry,
		"execTransactionFromModule":           (*account).execFromModuleEntry,
		"execTransactionFromModuleReturnData": (*account).execFromModuleReturnDataEntry,
		"nonce":                               (*account).nonceEntry,
		"getThreshold":                        (*account).thresholdEntry,
		"getOwners":                           (*account).ownersEntry,
		"isOwner":                             (*account).isOwnerEntry,
		"isModuleEnabled":                     (*account).isModuleEnabledEntry,
		"getModulesPaginated":                 (*account).modulesPaginatedEntry,
		"approvedHashes":                      (*account).approvedHashesEntry,
		"signedMessages":                      (*account).signedMessagesEntry,
		"domainSeparator":                     (*account).domainSeparatorEntry,
		"getChainId":                          (*account).chainIDEntry,
		"getTransactionHash":                  (*account).transactionHashEntry,
		"encodeTransactionData":               (*account).encodeTransactionDataEntry,
		"getGuard":                            (*account).guardEntry,
		"getModuleGuard":                      (*account).moduleGuardEntry,
		"getFallbackHandler":                  (*account).fallbackHandlerEntry,
	}
	return s
}

// Run dispatches calldata to the entrypoint named by its selector. Empty
// calldata is a plain value transfer; unknown selectors go to the fallback
// handler.
func (s *Safe) Run(ctx *vm.CallContext, input []byte) ([]byte, error) {
	a := s.account(ctx)
	if len(input) == 0 {
		return nil, a.receive()
	}
	if len(input) < 4 {
		return a.fallback(input)
	}
	method, err := SafeABI.MethodById(input[:4])
	if err != nil {
		return a.fallback(input)
	}
	in, err := vm.UnpackArgs(*method, input[4:])
	if err != nil {
		return nil, vm.ErrInvalidCalldata
	}
	out, err := s.handlers[method.Name](a, in)
	if err != nil {
		return nil, err
	}
	return method.Outputs.Pack(out...)
}

// CheckNSignatures verifies that signatures holds at least required valid
// owner signatures over dataHash. executor is treated as having approved the
// hash. ctx must be a frame of the account itself.
func (s *Safe) CheckNSignatures(ctx *vm.CallContext, executor common.Address, dataHash common.Hash, data, signatures []byte, required uint64) error {
	return s.account(ctx).checkNSignatures(executor, dataHash, data, signatures, required)
}

// account is the state of one account as seen from an executing frame.
type account struct {
	layout
	safe *Safe
	ctx  *vm.CallContext
}

func (s *Safe) account(ctx *vm.CallContext) *account {
	return &account{
		layout: layout{st: ctx, self: ctx.Self()},
		safe:   s,
		ctx:    ctx,
	}
}

// authorized fails unless the account called itself.
func (a *account) authorized() error {
	if a.ctx.Caller() != a.self {
		return ErrOnlySelf
	}
	return nil
}
