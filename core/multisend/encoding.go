// Copyright 2026 The go-obsidian Authors
// This file is part of the go-obsidian library.

package multisend

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/HITEYY/obsidian-safe/core/types"
)

// headerLength is the size of a record before its data: operation, target,
// value and data length.
const headerLength = 1 + common.AddressLength + 32 + 32

// ErrMalformedBatch is returned for a batch that does not split into whole
// records.
var ErrMalformedBatch = errors.New("malformed batch")

// Encode packs txs back to back. Operations are encoded as given, so a
// batch may carry records a library will refuse to run.
func Encode(txs []*Transaction) []byte {
	size := 0
	for _, tx := range txs {
		size += headerLength + len(tx.Data)
	}
	out := make([]byte, 0, size)
	for _, tx := range txs {
		value := new(uint256.Int)
		if tx.Value != nil {
			value.Set(tx.Value)
		}
		valueWord := value.Bytes32()
		lengthWord := uint256.NewInt(uint64(len(tx.Data))).Bytes32()

		out = append(out, byte(tx.Operation))
		out = append(out, tx.To.Bytes()...)
		out = append(out, valueWord[:]...)
		out = append(out, lengthWord[:]...)
		out = append(out, tx.Data...)
	}
	return out
}

// Decode splits a packed batch into its records.
func Decode(batch []byte) ([]*Transaction, error) {
	var txs []*Transaction
	for offset := 0; offset < len(batch); {
		if len(batch)-offset < headerLength {
			return nil, fmt.Errorf("%w: truncated header at offset %d", ErrMalformedBatch, offset)
		}
		record := batch[offset:]
		tx := &Transaction{
			Operation: types.Operation(record[0]),
			To:        common.BytesToAddress(record[1 : 1+common.AddressLength]),
			Value:     new(uint256.Int).SetBytes(record[1+common.AddressLength : 1+common.AddressLength+32]),
		}
		length := new(uint256.Int).SetBytes(record[headerLength-32 : headerLength])
		if !length.IsUint64() || length.Uint64() > uint64(len(record)-headerLength) {
			return nil, fmt.Errorf("%w: record at offset %d overruns the batch", ErrMalformedBatch, offset)
		}
		end := headerLength + int(length.Uint64())
		tx.Data = common.CopyBytes(record[headerLength:end])
		txs = append(txs, tx)
		offset += end
	}
	return txs, nil
}
