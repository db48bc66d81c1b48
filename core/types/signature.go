// Copyright 2026 The go-obsidian Authors
// This file is part of the go-obsidian library.

package types

import (
	"bytes"
	"crypto/ecdsa"
	"math/big"
	"sort"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
)

// SignatureLength is the size of one static signature slot: r ‖ s ‖ v.
const SignatureLength = 65

// Signature type tags carried in the v byte of a slot.
const (
	SigTypeContract     byte = 0  // r = signer contract, s = offset of dynamic data
	SigTypeApprovedHash byte = 1  // r = owner that pre-approved the hash
	SigTypeECDSAMin     byte = 27 // 27/28: ecrecover over the raw hash
	SigTypeEthSignMin   byte = 31 // 31/32: ecrecover over the prefixed hash, v-4
)

// SafeSignature is one owner's contribution to a signature bundle.
type SafeSignature struct {
	Signer  common.Address
	Data    []byte // 65-byte slot for static signatures, verifier payload for contract signatures
	Dynamic bool
}

// SignHash signs hash directly with key, producing a v=27/28 slot.
func SignHash(hash common.Hash, key *ecdsa.PrivateKey) (SafeSignature, error) {
	sig, err := crypto.Sign(hash[:], key)
	if err != nil {
		return SafeSignature{}, err
	}
	sig[64] += 27
	return SafeSignature{Signer: crypto.PubkeyToAddress(key.PublicKey), Data: sig}, nil
}

// SignEthMessage signs the personal-message digest of hash, producing a
// v=31/32 slot.
func SignEthMessage(hash common.Hash, key *ecdsa.PrivateKey) (SafeSignature, error) {
	sig, err := crypto.Sign(accounts.TextHash(hash[:]), key)
	if err != nil {
		return SafeSignature{}, err
	}
	sig[64] += 31
	return SafeSignature{Signer: crypto.PubkeyToAddress(key.PublicKey), Data: sig}, nil
}

// ApprovedHashSignature builds the slot for an owner that approved the hash
// on-chain, or that submits the action itself.
func ApprovedHashSignature(owner common.Address) SafeSignature {
	slot := make([]byte, SignatureLength)
	copy(slot[12:32], owner[:])
	slot[64] = SigTypeApprovedHash
	return SafeSignature{Signer: owner, Data: slot}
}

// ContractSignature wraps the payload handed to a contract owner's
// isValidSignature hook.
func ContractSignature(owner common.Address, data []byte) SafeSignature {
	return SafeSignature{Signer: owner, Data: common.CopyBytes(data), Dynamic: true}
}

// BuildSignatureBytes packs signatures into the wire bundle. Slots are ordered
// by ascending signer; dynamic payloads are appended after the static part as
// a 32-byte length followed by the data, and their slot's s holds the offset.
func BuildSignatureBytes(sigs []SafeSignature) []byte {
	sorted := make([]SafeSignature, len(sigs))
	copy(sorted, sigs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return bytes.Compare(sorted[i].Signer[:], sorted[j].Signer[:]) < 0
	})
	var (
		static  = make([]byte, 0, len(sorted)*SignatureLength)
		dynamic []byte
	)
	for _, sig := range sorted {
		if !sig.Dynamic {
			static = append(static, sig.Data...)
			continue
		}
		offset := uint64(len(sorted)*SignatureLength + len(dynamic))
		static = append(static, common.LeftPadBytes(sig.Signer[:], 32)...)
		static = append(static, math.U256Bytes(new(big.Int).SetUint64(offset))...)
		static = append(static, SigTypeContract)

		dynamic = append(dynamic, math.U256Bytes(new(big.Int).SetUint64(uint64(len(sig.Data))))...)
		dynamic = append(dynamic, sig.Data...)
	}
	return append(static, dynamic...)
}
