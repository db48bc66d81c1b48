// Copyright 2026 The go-obsidian Authors
// This file is part of the go-obsidian library.
//
// Canonical account action (SafeTx) with its typed-data hash and the binary
// and JSON encodings used to pass proposals between co-signers.

package types

import (
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"

	"github.com/HITEYY/obsidian-safe/crypto/eip712"
)

// Operation selects how an action is dispatched.
type Operation uint8

const (
	// Call is an ordinary external call from the account.
	Call Operation = iota
	// DelegateCall runs the target's code against the account's own state.
	DelegateCall
)

// Valid reports whether op is a known operation.
func (op Operation) Valid() bool { return op == Call || op == DelegateCall }

func (op Operation) String() string {
	switch op {
	case Call:
		return "call"
	case DelegateCall:
		return "delegatecall"
	default:
		return fmt.Sprintf("operation(%d)", uint8(op))
	}
}

// SafeTx is an action proposed to an account. All ten fields are covered by
// the signatures; the nonce pins it to one position in the account history.
type SafeTx struct {
	To             common.Address
	Value          *uint256.Int
	Data           []byte
	Operation      Operation
	SafeTxGas      uint64         // Gas budget for the dispatch (0 = all remaining)
	BaseGas        uint64         // Gas paid on top of the metered usage
	GasPrice       *uint256.Int   // Refund price per gas unit (0 = no refund)
	GasToken       common.Address // Zero address means native currency
	RefundReceiver common.Address // Zero address means the submitting origin
	Nonce          uint64
}

// Copy returns a deep copy with nil amounts normalised to zero.
func (tx *SafeTx) Copy() *SafeTx {
	cpy := &SafeTx{
		To:             tx.To,
		Value:          new(uint256.Int),
		Data:           common.CopyBytes(tx.Data),
		Operation:      tx.Operation,
		SafeTxGas:      tx.SafeTxGas,
		BaseGas:        tx.BaseGas,
		GasPrice:       new(uint256.Int),
		GasToken:       tx.GasToken,
		RefundReceiver: tx.RefundReceiver,
		Nonce:          tx.Nonce,
	}
	if tx.Value != nil {
		cpy.Value.Set(tx.Value)
	}
	if tx.GasPrice != nil {
		cpy.GasPrice.Set(tx.GasPrice)
	}
	return cpy
}

// StructHash is the EIP-712 struct hash of the ten action fields.
func (tx *SafeTx) StructHash() common.Hash {
	return eip712.NewEncoder(eip712.SafeTxTypeHash).
		Address(tx.To).
		Uint(tx.Value).
		Bytes(tx.Data).
		Uint64(uint64(tx.Operation)).
		Uint64(tx.SafeTxGas).
		Uint64(tx.BaseGas).
		Uint(tx.GasPrice).
		Address(tx.GasToken).
		Address(tx.RefundReceiver).
		Uint64(tx.Nonce).
		Sum()
}

// EncodeTypedData returns the 66-byte pre-image that is hashed and signed.
func (tx *SafeTx) EncodeTypedData(domain common.Hash) []byte {
	return eip712.Encode(domain, tx.StructHash())
}

// Hash returns the digest owners sign for this action within domain.
func (tx *SafeTx) Hash(domain common.Hash) common.Hash {
	return eip712.Hash(domain, tx.StructHash())
}

// MarshalBinary returns the RLP encoding of the action.
func (tx *SafeTx) MarshalBinary() ([]byte, error) {
	return rlp.EncodeToBytes(tx.Copy())
}

// UnmarshalBinary decodes an RLP encoded action.
func (tx *SafeTx) UnmarshalBinary(b []byte) error {
	var dec SafeTx
	if err := rlp.DecodeBytes(b, &dec); err != nil {
		return err
	}
	if !dec.Operation.Valid() {
		return fmt.Errorf("invalid operation %d", dec.Operation)
	}
	*tx = *dec.Copy()
	return nil
}

type safeTxJSON struct {
	To             common.Address `json:"to"`
	Value          *hexutil.Big   `json:"value"`
	Data           hexutil.Bytes  `json:"data"`
	Operation      hexutil.Uint64 `json:"operation"`
	SafeTxGas      hexutil.Uint64 `json:"safeTxGas"`
	BaseGas        hexutil.Uint64 `json:"baseGas"`
	GasPrice       *hexutil.Big   `json:"gasPrice"`
	GasToken       common.Address `json:"gasToken"`
	RefundReceiver common.Address `json:"refundReceiver"`
	Nonce          hexutil.Uint64 `json:"nonce"`
}

// MarshalJSON encodes the action with hex quantities.
func (tx *SafeTx) MarshalJSON() ([]byte, error) {
	cpy := tx.Copy()
	return json.Marshal(&safeTxJSON{
		To:             cpy.To,
		Value:          (*hexutil.Big)(cpy.Value.ToBig()),
		Data:           cpy.Data,
		Operation:      hexutil.Uint64(cpy.Operation),
		SafeTxGas:      hexutil.Uint64(cpy.SafeTxGas),
		BaseGas:        hexutil.Uint64(cpy.BaseGas),
		GasPrice:       (*hexutil.Big)(cpy.GasPrice.ToBig()),
		GasToken:       cpy.GasToken,
		RefundReceiver: cpy.RefundReceiver,
		Nonce:          hexutil.Uint64(cpy.Nonce),
	})
}

// UnmarshalJSON decodes an action encoded by MarshalJSON.
func (tx *SafeTx) UnmarshalJSON(input []byte) error {
	var dec safeTxJSON
	if err := json.Unmarshal(input, &dec); err != nil {
		return err
	}
	if dec.Operation > hexutil.Uint64(DelegateCall) {
		return fmt.Errorf("invalid operation %d", uint64(dec.Operation))
	}
	out := SafeTx{
		To:             dec.To,
		Data:           dec.Data,
		Operation:      Operation(dec.Operation),
		SafeTxGas:      uint64(dec.SafeTxGas),
		BaseGas:        uint64(dec.BaseGas),
		GasToken:       dec.GasToken,
		RefundReceiver: dec.RefundReceiver,
		Nonce:          uint64(dec.Nonce),
	}
	var overflow bool
	if dec.Value != nil {
		if out.Value, overflow = uint256.FromBig(dec.Value.ToInt()); overflow {
			return fmt.Errorf("value exceeds 256 bits")
		}
	}
	if dec.GasPrice != nil {
		if out.GasPrice, overflow = uint256.FromBig(dec.GasPrice.ToInt()); overflow {
			return fmt.Errorf("gas price exceeds 256 bits")
		}
	}
	*tx = *out.Copy()
	return nil
}
