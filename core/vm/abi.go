// Copyright 2026 The go-obsidian Authors
// This file is part of the go-obsidian library.

package vm

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// ErrInvalidCalldata is the revert raised for input that does not decode
// against the selected method. It carries no data.
var ErrInvalidCalldata = NewRevertError(nil)

var errArgType = errors.New("unexpected argument type")

// MustParseABI builds an ABI from method declarations of the form
// "name(type,type) returns (type)". Argument names are not needed since
// values are packed and unpacked positionally.
func MustParseABI(decls ...string) abi.ABI {
	parsed := abi.ABI{Methods: make(map[string]abi.Method, len(decls))}
	for _, decl := range decls {
		name, inputs, outputs, err := parseDecl(decl)
		if err != nil {
			panic(fmt.Sprintf("bad method declaration %q: %v", decl, err))
		}
		parsed.Methods[name] = abi.NewMethod(name, name, abi.Function, "nonpayable", false, false, inputs, outputs)
	}
	return parsed
}

func parseDecl(decl string) (string, abi.Arguments, abi.Arguments, error) {
	sig, ret, _ := strings.Cut(decl, " returns ")
	open := strings.IndexByte(sig, '(')
	if open <= 0 || !strings.HasSuffix(sig, ")") {
		return "", nil, nil, errors.New("missing parameter list")
	}
	inputs, err := parseArgs(sig[open+1 : len(sig)-1])
	if err != nil {
		return "", nil, nil, err
	}
	var outputs abi.Arguments
	if ret != "" {
		if !strings.HasPrefix(ret, "(") || !strings.HasSuffix(ret, ")") {
			return "", nil, nil, errors.New("malformed return list")
		}
		if outputs, err = parseArgs(ret[1 : len(ret)-1]); err != nil {
			return "", nil, nil, err
		}
	}
	return sig[:open], inputs, outputs, nil
}

func parseArgs(list string) (abi.Arguments, error) {
	if list == "" {
		return nil, nil
	}
	var args abi.Arguments
	for _, typ := range strings.Split(list, ",") {
		t, err := abi.NewType(strings.TrimSpace(typ), "", nil)
		if err != nil {
			return nil, err
		}
		args = append(args, abi.Argument{Type: t})
	}
	return args, nil
}

// InterfaceID returns the XOR of the selectors of the named methods.
func InterfaceID(parsed abi.ABI, names ...string) [4]byte {
	var id [4]byte
	for _, name := range names {
		sel := parsed.Methods[name].ID
		for i := range id {
			id[i] ^= sel[i]
		}
	}
	return id
}

// Args reads decoded method arguments by position. The first conversion
// failure is kept in Err and every later read returns a zero value.
type Args struct {
	vals []interface{}
	err  error
}

// UnpackArgs decodes the calldata of method, selector excluded.
func UnpackArgs(method abi.Method, data []byte) (*Args, error) {
	vals, err := method.Inputs.Unpack(data)
	if err != nil {
		return nil, err
	}
	return &Args{vals: vals}, nil
}

// Err returns the first conversion failure.
func (a *Args) Err() error { return a.err }

func (a *Args) get(i int) interface{} {
	if a.err != nil {
		return nil
	}
	if i >= len(a.vals) {
		a.err = fmt.Errorf("%w: missing argument %d", errArgType, i)
		return nil
	}
	return a.vals[i]
}

func (a *Args) mismatch(i int, want string) {
	if a.err == nil {
		a.err = fmt.Errorf("%w: argument %d is %T, want %s", errArgType, i, a.vals[i], want)
	}
}

func (a *Args) Address(i int) common.Address {
	v, ok := a.get(i).(common.Address)
	if !ok {
		a.mismatch(i, "address")
	}
	return v
}

func (a *Args) Addresses(i int) []common.Address {
	v, ok := a.get(i).([]common.Address)
	if !ok {
		a.mismatch(i, "address[]")
	}
	return v
}

func (a *Args) Bytes(i int) []byte {
	v, ok := a.get(i).([]byte)
	if !ok {
		a.mismatch(i, "bytes")
	}
	return v
}

func (a *Args) Hash(i int) common.Hash {
	v, ok := a.get(i).([32]byte)
	if !ok {
		a.mismatch(i, "bytes32")
	}
	return common.Hash(v)
}

func (a *Args) Bytes4(i int) [4]byte {
	v, ok := a.get(i).([4]byte)
	if !ok {
		a.mismatch(i, "bytes4")
	}
	return v
}

func (a *Args) Bool(i int) bool {
	v, ok := a.get(i).(bool)
	if !ok {
		a.mismatch(i, "bool")
	}
	return v
}

func (a *Args) Uint8(i int) uint8 {
	v, ok := a.get(i).(uint8)
	if !ok {
		a.mismatch(i, "uint8")
	}
	return v
}

func (a *Args) Uint256(i int) *uint256.Int {
	v, ok := a.get(i).(*big.Int)
	if !ok {
		a.mismatch(i, "uint256")
		return new(uint256.Int)
	}
	u, overflow := uint256.FromBig(v)
	if overflow {
		a.mismatch(i, "uint256")
		return new(uint256.Int)
	}
	return u
}

// Uint64 reads a uint256 argument that must fit in 64 bits.
func (a *Args) Uint64(i int) uint64 {
	u := a.Uint256(i)
	if !u.IsUint64() {
		if a.err == nil {
			a.err = fmt.Errorf("%w: argument %d exceeds 64 bits", errArgType, i)
		}
		return 0
	}
	return u.Uint64()
}

// Big converts a uint256 for packing.
func Big(v *uint256.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v.ToBig()
}
