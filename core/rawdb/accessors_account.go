// Copyright 2024 The go-obsidian Authors
// This file is part of the go-obsidian library.
//
// Database accessors for account state and execution receipts.
// Values are stored as opaque RLP blobs owned by the state and safe packages.

package rawdb

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethdb"
)

var (
	// accountPrefix + address -> RLP encoded account (balance, storage)
	accountPrefix = []byte("sa-")

	// receiptPrefix + account + tx hash -> RLP encoded execution receipt
	receiptPrefix = []byte("sr-")

	// headNonceKey + account -> nonce of the last executed action, big endian
	headNonceKey = []byte("sn-")
)

// accountKey returns the database key for an account record
func accountKey(addr common.Address) []byte {
	key := make([]byte, 0, len(accountPrefix)+common.AddressLength)
	key = append(key, accountPrefix...)
	return append(key, addr.Bytes()...)
}

// receiptKey returns the database key for an execution receipt
func receiptKey(account common.Address, txHash common.Hash) []byte {
	key := make([]byte, 0, len(receiptPrefix)+common.AddressLength+common.HashLength)
	key = append(key, receiptPrefix...)
	key = append(key, account.Bytes()...)
	return append(key, txHash.Bytes()...)
}

func headNonceKeyFor(account common.Address) []byte {
	key := make([]byte, 0, len(headNonceKey)+common.AddressLength)
	key = append(key, headNonceKey...)
	return append(key, account.Bytes()...)
}

// HasAccount checks if an account record exists in the database
func HasAccount(db ethdb.KeyValueReader, addr common.Address) bool {
	has, _ := db.Has(accountKey(addr))
	return has
}

// ReadAccount reads the encoded account record
func ReadAccount(db ethdb.KeyValueReader, addr common.Address) ([]byte, bool) {
	data, err := db.Get(accountKey(addr))
	if err != nil || len(data) == 0 {
		return nil, false
	}
	return data, true
}

// WriteAccount writes an encoded account record
func WriteAccount(db ethdb.KeyValueWriter, addr common.Address, blob []byte) {
	if err := db.Put(accountKey(addr), blob); err != nil {
		panic("failed to write account: " + err.Error())
	}
}

// DeleteAccount removes an account record
func DeleteAccount(db ethdb.KeyValueWriter, addr common.Address) {
	if err := db.Delete(accountKey(addr)); err != nil {
		panic("failed to delete account: " + err.Error())
	}
}

// IterateAccounts walks every stored account record in key order.
// Iteration stops when fn returns false.
func IterateAccounts(db ethdb.Iteratee, fn func(addr common.Address, blob []byte) bool) {
	it := db.NewIterator(accountPrefix, nil)
	defer it.Release()

	for it.Next() {
		key := it.Key()
		if len(key) != len(accountPrefix)+common.AddressLength {
			continue
		}
		if !fn(common.BytesToAddress(key[len(accountPrefix):]), common.CopyBytes(it.Value())) {
			break
		}
	}
}

// WriteReceipt stores the encoded receipt of an executed action
func WriteReceipt(db ethdb.KeyValueWriter, account common.Address, txHash common.Hash, blob []byte) {
	if err := db.Put(receiptKey(account, txHash), blob); err != nil {
		panic("failed to write receipt: " + err.Error())
	}
}

// ReadReceipt reads the encoded receipt of an executed action
func ReadReceipt(db ethdb.KeyValueReader, account common.Address, txHash common.Hash) ([]byte, bool) {
	data, err := db.Get(receiptKey(account, txHash))
	if err != nil || len(data) == 0 {
		return nil, false
	}
	return data, true
}

// WriteHeadNonce records the nonce of the latest executed action
func WriteHeadNonce(db ethdb.KeyValueWriter, account common.Address, nonce uint64) {
	data := make([]byte, 8)
	binary.BigEndian.PutUint64(data, nonce)
	if err := db.Put(headNonceKeyFor(account), data); err != nil {
		panic("failed to write head nonce: " + err.Error())
	}
}

// ReadHeadNonce reads the nonce of the latest executed action
func ReadHeadNonce(db ethdb.KeyValueReader, account common.Address) (uint64, bool) {
	data, err := db.Get(headNonceKeyFor(account))
	if err != nil || len(data) != 8 {
		return 0, false
	}
	return binary.BigEndian.Uint64(data), true
}
