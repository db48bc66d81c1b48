// Copyright 2026 The go-obsidian Authors
// This file is part of the go-obsidian library.

package safe

import (
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"

	"github.com/HITEYY/obsidian-safe/core/linkedset"
	"github.com/HITEYY/obsidian-safe/core/types"
	"github.com/HITEYY/obsidian-safe/core/vm"
	"github.com/HITEYY/obsidian-safe/crypto/eip712"
)

// SetupParams are the one-time initialisation arguments of an account.
type SetupParams struct {
	Owners          []common.Address
	Threshold       uint64
	To              common.Address // Optional initializer, run via delegatecall
	Data            []byte
	FallbackHandler common.Address
	PaymentToken    common.Address
	Payment         *uint256.Int
	PaymentReceiver common.Address
}

// Pack returns the setup calldata.
func (p *SetupParams) Pack() ([]byte, error) {
	return SafeABI.Pack("setup",
		p.Owners, new(uint256.Int).SetUint64(p.Threshold).ToBig(), p.To, p.Data,
		p.FallbackHandler, p.PaymentToken, vm.Big(p.Payment), p.PaymentReceiver)
}

func (a *account) setupEntry(in *vm.Args) ([]interface{}, error) {
	p := &SetupParams{
		Owners:          in.Addresses(0),
		Threshold:       in.Uint64(1),
		To:              in.Address(2),
		Data:            in.Bytes(3),
		FallbackHandler: in.Address(4),
		PaymentToken:    in.Address(5),
		Payment:         in.Uint256(6),
		PaymentReceiver: in.Address(7),
	}
	if in.Err() != nil {
		return nil, vm.ErrInvalidCalldata
	}
	return nil, a.setup(p)
}

func (a *account) setup(p *SetupParams) error {
	if err := a.setupOwners(p.Owners, p.Threshold); err != nil {
		return err
	}
	if p.FallbackHandler != (common.Address{}) {
		if err := a.internalSetFallbackHandler(p.FallbackHandler); err != nil {
			return err
		}
	}
	if err := a.setupModules(p.To, p.Data); err != nil {
		return err
	}
	if p.Payment != nil && !p.Payment.IsZero() {
		if _, err := a.handlePayment(p.Payment, 0, uint256.NewInt(1), p.PaymentToken, p.PaymentReceiver); err != nil {
			return err
		}
	}
	a.setDomainSeparator(eip712.DomainSeparator(a.ctx.ChainID(), a.self))

	a.ctx.Emit(&SafeSetup{
		Initiator:       a.ctx.Caller(),
		Owners:          p.Owners,
		Threshold:       p.Threshold,
		Initializer:     p.To,
		FallbackHandler: p.FallbackHandler,
	})
	log.Info("Safe account set up", "account", a.self, "owners", len(p.Owners), "threshold", p.Threshold)
	return nil
}

func (a *account) setupOwners(owners []common.Address, threshold uint64) error {
	if a.threshold() > 0 {
		return ErrAlreadySetUp
	}
	if threshold > uint64(len(owners)) {
		return ErrThresholdTooHigh
	}
	if threshold == 0 {
		return ErrThresholdZero
	}
	if err := a.owners().Init(owners); err != nil {
		return ownerError(err)
	}
	a.setOwnerCount(uint64(len(owners)))
	a.setThreshold(threshold)
	return nil
}

func (a *account) setupModules(to common.Address, data []byte) error {
	if err := a.modules().Init(nil); err != nil {
		return moduleError(err)
	}
	if to == (common.Address{}) {
		return nil
	}
	if !a.ctx.IsContract(to) {
		return ErrInitializerNotContract
	}
	if ok, _ := a.execute(to, nil, data, types.DelegateCall, a.ctx.GasLeft()); !ok {
		return ErrInitializerFailed
	}
	return nil
}

// ownerError maps registry failures onto owner revert reasons.
func ownerError(err error) error {
	switch {
	case errors.Is(err, linkedset.ErrAlreadyInitialized):
		return ErrAlreadySetUp
	case errors.Is(err, linkedset.ErrInvalidMember):
		return ErrInvalidOwner
	case errors.Is(err, linkedset.ErrDuplicateMember):
		return ErrDuplicateOwner
	case errors.Is(err, linkedset.ErrInvalidPrev):
		return ErrInvalidOwnerPrev
	}
	return err
}

// moduleError maps registry failures onto module revert reasons.
func moduleError(err error) error {
	switch {
	case errors.Is(err, linkedset.ErrAlreadyInitialized):
		return ErrModulesInitialized
	case errors.Is(err, linkedset.ErrInvalidMember):
		return ErrInvalidModule
	case errors.Is(err, linkedset.ErrDuplicateMember):
		return ErrModuleEnabled
	case errors.Is(err, linkedset.ErrInvalidPrev):
		return ErrInvalidModulePrev
	case errors.Is(err, linkedset.ErrInvalidStart):
		return ErrInvalidPageStart
	case errors.Is(err, linkedset.ErrInvalidPageSize):
		return ErrInvalidPageSize
	}
	return err
}
