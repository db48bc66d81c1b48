// Copyright 2026 The go-obsidian Authors
// This file is part of the go-obsidian library.
//
// Refund payment to whoever submitted an action, in native currency or in
// an ERC-20 style token.

package safe

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"

	"github.com/HITEYY/obsidian-safe/core/vm"
)

// tokenTransferReserve is the gas kept back from a token transfer call.
const tokenTransferReserve = 10000

// errPaymentOverflow is raised when the refund does not fit 256 bits.
var errPaymentOverflow = vm.NewRevertError(nil)

// handlePayment pays (gasUsed + baseGas) * price to the refund receiver, which
// defaults to the message origin. Native refunds never pay more per gas
// unit than the origin's gas price.
func (a *account) handlePayment(gasUsed *uint256.Int, baseGas uint64, gasPrice *uint256.Int, gasToken, refundReceiver common.Address) (*uint256.Int, error) {
	receiver := refundReceiver
	if receiver == (common.Address{}) {
		receiver = a.ctx.Origin()
	}
	units, overflow := new(uint256.Int).AddOverflow(gasUsed, uint256.NewInt(baseGas))
	if overflow {
		return nil, errPaymentOverflow
	}
	if gasToken == (common.Address{}) {
		price := new(uint256.Int).Set(gasPrice)
		if origin := a.ctx.GasPrice(); origin.Lt(price) {
			price = origin
		}
		payment, overflow := new(uint256.Int).MulOverflow(units, price)
		if overflow {
			return nil, errPaymentOverflow
		}
		if _, err := a.ctx.Call(receiver, payment, nil, a.ctx.MaxCallGas()); err != nil {
			log.Warn("Native refund failed", "account", a.self, "receiver", receiver, "payment", payment, "err", err)
			return nil, ErrNativeRefundFailed
		}
		return payment, nil
	}
	payment, overflow := new(uint256.Int).MulOverflow(units, gasPrice)
	if overflow {
		return nil, errPaymentOverflow
	}
	if !a.transferToken(gasToken, receiver, payment) {
		log.Warn("Token refund failed", "account", a.self, "token", gasToken, "receiver", receiver, "payment", payment)
		return nil, ErrTokenRefundFailed
	}
	return payment, nil
}

// transferToken calls transfer(receiver, amount) on token. Tokens that
// return nothing are trusted on success; otherwise exactly one true word
// must come back.
func (a *account) transferToken(token, receiver common.Address, amount *uint256.Int) bool {
	input, err := TokenABI.Pack("transfer", receiver, amount.ToBig())
	if err != nil {
		return false
	}
	gas := a.ctx.GasLeft()
	if gas > tokenTransferReserve {
		gas -= tokenTransferReserve
	} else {
		gas = 0
	}
	ret, err := a.ctx.Call(token, nil, input, gas)
	if err != nil {
		return false
	}
	switch len(ret) {
	case 0:
		return true
	case 32:
		return common.BytesToHash(ret) != (common.Hash{})
	default:
		return false
	}
}
