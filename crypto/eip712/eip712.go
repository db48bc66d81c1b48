// Copyright 2026 The go-obsidian Authors
// This file is part of the go-obsidian library.

package eip712

import (
	"hash"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
	"golang.org/x/crypto/sha3"
)

var (
	// DomainTypeHash is keccak256 of the domain type string.
	DomainTypeHash = crypto.Keccak256Hash([]byte("EIP712Domain(uint256 chainId,address verifyingContract)"))

	// SafeTxTypeHash is keccak256 of the canonical action type string.
	SafeTxTypeHash = crypto.Keccak256Hash([]byte("SafeTx(address to,uint256 value,bytes data,uint8 operation,uint256 safeTxGas,uint256 baseGas,uint256 gasPrice,address gasToken,address refundReceiver,uint256 nonce)"))

	// SafeMessageTypeHash is keccak256 of the free-form message type string.
	SafeMessageTypeHash = crypto.Keccak256Hash([]byte("SafeMessage(bytes message)"))
)

// Encoder hashes a sequence of 32-byte words without materialising the
// pre-image.
type Encoder struct {
	h    hash.Hash
	word [32]byte
}

// NewEncoder returns an encoder whose first word is typeHash.
func NewEncoder(typeHash common.Hash) *Encoder {
	e := &Encoder{h: sha3.NewLegacyKeccak256()}
	return e.Word(typeHash)
}

// Word appends a raw 32-byte word.
func (e *Encoder) Word(w common.Hash) *Encoder {
	e.h.Write(w[:])
	return e
}

// Address appends an address, left padded to 32 bytes.
func (e *Encoder) Address(a common.Address) *Encoder {
	clear(e.word[:12])
	copy(e.word[12:], a[:])
	e.h.Write(e.word[:])
	return e
}

// Uint appends a 256-bit unsigned integer. A nil value encodes as zero.
func (e *Encoder) Uint(v *uint256.Int) *Encoder {
	if v == nil {
		clear(e.word[:])
	} else {
		e.word = v.Bytes32()
	}
	e.h.Write(e.word[:])
	return e
}

// Uint64 appends a 64-bit unsigned integer widened to 256 bits.
func (e *Encoder) Uint64(v uint64) *Encoder {
	return e.Uint(uint256.NewInt(v))
}

// Bytes appends a dynamic byte string, which EIP-712 encodes as its hash.
func (e *Encoder) Bytes(b []byte) *Encoder {
	return e.Word(crypto.Keccak256Hash(b))
}

// Sum returns the keccak256 of everything written so far.
func (e *Encoder) Sum() common.Hash {
	var h common.Hash
	e.h.Sum(h[:0])
	return h
}

// DomainSeparator binds digests to one account on one chain.
func DomainSeparator(chainID *uint256.Int, account common.Address) common.Hash {
	return NewEncoder(DomainTypeHash).Uint(chainID).Address(account).Sum()
}

// Encode returns the 66-byte pre-image 0x19 ‖ 0x01 ‖ domain ‖ structHash.
func Encode(domain, structHash common.Hash) []byte {
	out := make([]byte, 0, 2+2*common.HashLength)
	out = append(out, 0x19, 0x01)
	out = append(out, domain[:]...)
	out = append(out, structHash[:]...)
	return out
}

// Hash returns keccak256 of Encode(domain, structHash).
func Hash(domain, structHash common.Hash) common.Hash {
	return crypto.Keccak256Hash(Encode(domain, structHash))
}

// MessageStructHash is the struct hash of a free-form message.
func MessageStructHash(message []byte) common.Hash {
	return NewEncoder(SafeMessageTypeHash).Bytes(message).Sum()
}

// MessageHash is the digest of a free-form message within domain.
func MessageHash(domain common.Hash, message []byte) common.Hash {
	return Hash(domain, MessageStructHash(message))
}
