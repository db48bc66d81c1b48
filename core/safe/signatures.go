// Copyright 2026 The go-obsidian Authors
// This file is part of the go-obsidian library.

package safe

import (
	"bytes"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"

	"github.com/HITEYY/obsidian-safe/core/types"
	"github.com/HITEYY/obsidian-safe/core/vm"
)

func (a *account) checkSignaturesEntry(in *vm.Args) ([]interface{}, error) {
	hash, data, signatures := in.Hash(0), in.Bytes(1), in.Bytes(2)
	if in.Err() != nil {
		return nil, vm.ErrInvalidCalldata
	}
	return nil, a.checkSignatures(a.ctx.Caller(), hash, data, signatures)
}

func (a *account) checkNSignaturesEntry(in *vm.Args) ([]interface{}, error) {
	hash, data, signatures, required := in.Hash(0), in.Bytes(1), in.Bytes(2), in.Uint256(3)
	if in.Err() != nil {
		return nil, vm.ErrInvalidCalldata
	}
	if !required.IsUint64() {
		return nil, ErrSignaturesTooShort
	}
	return nil, a.checkNSignatures(a.ctx.Caller(), hash, data, signatures, required.Uint64())
}

// checkSignatures verifies signatures against the configured threshold.
func (a *account) checkSignatures(executor common.Address, dataHash common.Hash, data, signatures []byte) error {
	threshold := a.threshold()
	if threshold == 0 {
		return ErrThresholdNotSet
	}
	return a.checkNSignatures(executor, dataHash, data, signatures, threshold)
}

// checkNSignatures walks the first required slots of the bundle. Every slot
// must resolve to an owner strictly above the previous one.
func (a *account) checkNSignatures(executor common.Address, dataHash common.Hash, data, signatures []byte, required uint64) error {
	if required > uint64(len(signatures))/types.SignatureLength {
		return ErrSignaturesTooShort
	}
	var (
		owners    = a.owners()
		staticLen = required * types.SignatureLength
		last      common.Address
	)
	for i := uint64(0); i < required; i++ {
		slot := signatures[i*types.SignatureLength : (i+1)*types.SignatureLength]
		r, s, v := slot[:32], slot[32:64], slot[64]

		var signer common.Address
		switch {
		case v == types.SigTypeContract:
			signer = common.BytesToAddress(r)
			if err := a.checkContractSignature(signer, s, data, signatures, staticLen); err != nil {
				return err
			}
		case v == types.SigTypeApprovedHash:
			signer = common.BytesToAddress(r)
			if executor != signer && a.approvedHash(signer, dataHash) == 0 {
				return ErrHashNotApproved
			}
		case v > 30:
			signer = a.ecrecover(accounts.TextHash(dataHash[:]), r, s, v-4)
		default:
			signer = a.ecrecover(dataHash[:], r, s, v)
		}
		if bytes.Compare(signer[:], last[:]) <= 0 || !owners.Contains(signer) {
			return ErrInvalidSigner
		}
		last = signer
	}
	return nil
}

// checkContractSignature locates the dynamic part referenced by offset and
// hands it to the signer contract for approval.
func (a *account) checkContractSignature(signer common.Address, offset, data, signatures []byte, staticLen uint64) error {
	size := uint64(len(signatures))
	off := new(uint256.Int).SetBytes(offset)
	if off.Lt(uint256.NewInt(staticLen)) {
		return ErrSignatureOffsetInStatic
	}
	if !off.IsUint64() || off.Uint64() > size || size-off.Uint64() < 32 {
		return ErrSignatureLengthMissing
	}
	start := off.Uint64() + 32
	length := new(uint256.Int).SetBytes(signatures[off.Uint64():start])
	if !length.IsUint64() || length.Uint64() > size-start {
		return ErrSignatureDataIncomplete
	}
	payload := signatures[start : start+length.Uint64()]

	input, err := SignatureValidatorABI.Pack("isValidSignature", data, payload)
	if err != nil {
		return err
	}
	ret, err := a.ctx.StaticCall(signer, input, a.ctx.MaxCallGas())
	if err != nil {
		return err
	}
	out, err := SignatureValidatorABI.Unpack("isValidSignature", ret)
	if err != nil || len(out) != 1 {
		return ErrContractSignerRejected
	}
	if magic, _ := out[0].([4]byte); magic != SignatureMagicValue {
		return ErrContractSignerRejected
	}
	return nil
}

// ecrecover recovers the signer of hash. Unrecoverable signatures yield the
// zero address, which never passes the ordering check.
func (a *account) ecrecover(hash []byte, r, s []byte, v byte) common.Address {
	a.ctx.UseGas(a.ctx.Host().Costs().EcrecoverGas())
	if v != 27 && v != 28 {
		return common.Address{}
	}
	key := crypto.Keccak256Hash(hash, r, s, []byte{v})
	if addr, ok := a.safe.signatures.Get(key); ok {
		return addr
	}
	if !crypto.ValidateSignatureValues(v-27, new(big.Int).SetBytes(r), new(big.Int).SetBytes(s), false) {
		return common.Address{}
	}
	sig := make([]byte, crypto.SignatureLength)
	copy(sig[:32], r)
	copy(sig[32:64], s)
	sig[64] = v - 27

	pub, err := crypto.Ecrecover(hash, sig)
	if err != nil {
		return common.Address{}
	}
	var signer common.Address
	copy(signer[:], crypto.Keccak256(pub[1:])[12:])
	a.safe.signatures.Add(key, signer)
	return signer
}
