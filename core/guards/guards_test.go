// Copyright 2026 The go-obsidian Authors

package guards

import (
	"crypto/ecdsa"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"

	"github.com/HITEYY/obsidian-safe/core/multisend"
	"github.com/HITEYY/obsidian-safe/core/safe"
	"github.com/HITEYY/obsidian-safe/core/types"
	"github.com/HITEYY/obsidian-safe/core/vm"
	"github.com/HITEYY/obsidian-safe/params"
)

const testGas = 5_000_000

var (
	accountAddr   = common.HexToAddress("0x5afe000000000000000000000000000000000001")
	otherAccount  = common.HexToAddress("0x5afe000000000000000000000000000000000002")
	submitter     = common.HexToAddress("0x00000000000000000000000000000000000000e0")
	recipient     = common.HexToAddress("0x00000000000000000000000000000000000000aa")
	guardAddr     = common.HexToAddress("0x00000000000000000000000000000000000000a1")
	multiSendAddr = common.HexToAddress("0x00000000000000000000000000000000000000c1")
	signLibAddr   = common.HexToAddress("0x00000000000000000000000000000000000000c3")
)

type testChain struct {
	t     *testing.T
	p     *safe.Processor
	key   *ecdsa.PrivateKey
	owner common.Address
}

func newTestChain(t *testing.T, guard vm.Contract) *testChain {
	t.Helper()
	config := params.DefaultConfig()
	config.ChainID = 1719
	p, err := safe.NewProcessor(config, nil)
	if err != nil {
		t.Fatalf("failed to create processor: %v", err)
	}
	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}
	owner := crypto.PubkeyToAddress(key.PublicKey)
	p.Deploy(accountAddr)
	res, err := p.Setup(submitter, accountAddr, &safe.SetupParams{Owners: []common.Address{owner}, Threshold: 1}, testGas)
	if err != nil || res.Failed() {
		t.Fatalf("setup failed: %v %v", err, res.Err)
	}
	host := p.Host()
	host.Deploy(guardAddr, guard)
	host.Deploy(multiSendAddr, multisend.MultiSend{})
	host.Deploy(signLibAddr, safe.SignMessageLib{})
	host.TrustLibrary(multiSendAddr)
	host.TrustLibrary(signLibAddr)
	host.StateDB().AddBalance(accountAddr, uint256.NewInt(1000))
	return &testChain{t: t, p: p, key: key, owner: owner}
}

// sign signs tx under the account's current nonce plus offset.
func (c *testChain) sign(tx *types.SafeTx, offset uint64) []byte {
	c.t.Helper()
	var hash common.Hash
	err := c.p.View(accountAddr, func(v *safe.View) error {
		cpy := tx.Copy()
		cpy.Nonce = v.Nonce() + offset
		hash = v.TransactionHash(cpy)
		return nil
	})
	if err != nil {
		c.t.Fatalf("failed to read account: %v", err)
	}
	sig, err := types.SignHash(hash, c.key)
	if err != nil {
		c.t.Fatalf("failed to sign: %v", err)
	}
	return types.BuildSignatureBytes([]types.SafeSignature{sig})
}

func (c *testChain) submit(from common.Address, tx *types.SafeTx) *safe.Receipt {
	c.t.Helper()
	receipt, err := c.p.Submit(&safe.Submission{
		From:       from,
		Account:    accountAddr,
		Tx:         tx,
		Signatures: c.sign(tx, 0),
		GasLimit:   testGas,
	})
	if err != nil {
		c.t.Fatalf("failed to submit: %v", err)
	}
	return receipt
}

func (c *testChain) installGuard() {
	c.t.Helper()
	input, err := safe.SafeABI.Pack("setGuard", guardAddr)
	if err != nil {
		c.t.Fatal(err)
	}
	if receipt := c.submit(submitter, &types.SafeTx{To: accountAddr, Data: input}); !receipt.Success {
		c.t.Fatalf("failed to install guard: %+v", receipt)
	}
	err = c.p.View(accountAddr, func(v *safe.View) error {
		if v.Guard() != guardAddr {
			c.t.Fatalf("guard mismatch: have %s", v.Guard())
		}
		return nil
	})
	if err != nil {
		c.t.Fatal(err)
	}
}

func (c *testChain) transfer(from common.Address, value uint64) *safe.Receipt {
	c.t.Helper()
	return c.submit(from, &types.SafeTx{To: recipient, Value: uint256.NewInt(value)})
}

func (c *testChain) balance(addr common.Address) uint64 {
	return c.p.Host().StateDB().GetBalance(addr).Uint64()
}

func packCheck(t *testing.T, tx *types.SafeTx, executor common.Address) []byte {
	t.Helper()
	input, err := safe.GuardABI.Pack("checkTransaction",
		tx.To, vm.Big(tx.Value), tx.Data, uint8(tx.Operation),
		new(big.Int).SetUint64(tx.SafeTxGas), new(big.Int).SetUint64(tx.BaseGas),
		vm.Big(tx.GasPrice), tx.GasToken, tx.RefundReceiver, []byte{}, executor)
	if err != nil {
		t.Fatalf("failed to pack check: %v", err)
	}
	return input
}

func expectRevert(t *testing.T, res *vm.ExecutionResult, reason string) {
	t.Helper()
	if !res.Failed() {
		t.Fatalf("expected revert %q, message succeeded", reason)
	}
	if got := vm.AsRevert(res.Err).Reason(); got != reason {
		t.Fatalf("revert reason mismatch: have %q (%v), want %q", got, res.Err, reason)
	}
}

func TestSupportsInterface(t *testing.T) {
	guards := map[string]vm.Contract{
		"reentrancy":   ReentrancyGuard{},
		"delegatecall": &DelegateCallGuard{AllowedTarget: multiSendAddr},
		"only owners":  OnlyOwnersGuard{},
	}
	tests := []struct {
		id   [4]byte
		want bool
	}{
		{safe.GuardInterfaceID, true},
		{safe.ERC165InterfaceID, true},
		{safe.ModuleGuardInterfaceID, false},
		{[4]byte{0xde, 0xad, 0xbe, 0xef}, false},
	}
	for name, guard := range guards {
		t.Run(name, func(t *testing.T) {
			chain := newTestChain(t, guard)
			for _, tt := range tests {
				input, err := safe.GuardABI.Pack("supportsInterface", tt.id)
				if err != nil {
					t.Fatal(err)
				}
				res := chain.p.Host().ApplyMessage(&vm.Message{From: submitter, To: guardAddr, Data: input, GasLimit: testGas})
				if res.Failed() {
					t.Fatalf("supportsInterface failed: %v", res.Err)
				}
				out, err := safe.GuardABI.Unpack("supportsInterface", res.Return())
				if err != nil {
					t.Fatal(err)
				}
				if out[0].(bool) != tt.want {
					t.Errorf("supportsInterface(%x): have %v, want %v", tt.id, out[0], tt.want)
				}
			}
			chain.installGuard()
		})
	}
}

func TestReentrancyGuardFlag(t *testing.T) {
	chain := newTestChain(t, ReentrancyGuard{})
	host := chain.p.Host()
	apply := func(from common.Address, input []byte) *vm.ExecutionResult {
		return host.ApplyMessage(&vm.Message{From: from, To: guardAddr, Data: input, GasLimit: testGas})
	}
	check := packCheck(t, &types.SafeTx{To: recipient}, submitter)
	after, err := safe.GuardABI.Pack("checkAfterExecution", [32]byte{}, true)
	if err != nil {
		t.Fatal(err)
	}
	if res := apply(accountAddr, check); res.Failed() {
		t.Fatalf("first check failed: %v", res.Err)
	}
	expectRevert(t, apply(accountAddr, check), "Reentrancy detected")

	// The flag is held per account.
	if res := apply(otherAccount, check); res.Failed() {
		t.Fatalf("check for another account failed: %v", res.Err)
	}
	if res := apply(accountAddr, after); res.Failed() {
		t.Fatalf("post-check failed: %v", res.Err)
	}
	if res := apply(accountAddr, check); res.Failed() {
		t.Fatalf("check after release failed: %v", res.Err)
	}
}

func TestReentrancyGuardRejectsNestedExecution(t *testing.T) {
	chain := newTestChain(t, ReentrancyGuard{})

	nested := func() *types.SafeTx {
		inner := &types.SafeTx{To: recipient, Value: uint256.NewInt(1)}
		input, err := safe.PackExecTransaction(inner, chain.sign(inner, 1))
		if err != nil {
			t.Fatal(err)
		}
		return &types.SafeTx{To: accountAddr, Data: input}
	}
	// Without a guard the account may run an action from inside another.
	if receipt := chain.submit(submitter, nested()); !receipt.Success {
		t.Fatalf("nested execution failed: %+v", receipt)
	}
	if have := chain.balance(recipient); have != 1 {
		t.Fatalf("recipient balance mismatch: have %d, want 1", have)
	}

	chain.installGuard()
	if receipt := chain.submit(submitter, nested()); receipt.Executed || receipt.Reason != "GS013" {
		t.Fatalf("nested execution was not rejected: %+v", receipt)
	}
	if have := chain.balance(recipient); have != 1 {
		t.Errorf("recipient balance mismatch: have %d, want 1", have)
	}
	// The abort released the flag.
	for i := 0; i < 2; i++ {
		if receipt := chain.transfer(submitter, 1); !receipt.Success {
			t.Fatalf("transfer %d failed: %+v", i, receipt)
		}
	}
	if have := chain.balance(recipient); have != 3 {
		t.Errorf("recipient balance mismatch: have %d, want 3", have)
	}
}

func TestDelegateCallGuard(t *testing.T) {
	chain := newTestChain(t, &DelegateCallGuard{AllowedTarget: multiSendAddr})
	chain.installGuard()

	signMessage, err := safe.SignMessageLibABI.Pack("signMessage", []byte("hello"))
	if err != nil {
		t.Fatal(err)
	}
	receipt := chain.submit(submitter, &types.SafeTx{To: signLibAddr, Data: signMessage, Operation: types.DelegateCall})
	if receipt.Executed || receipt.Reason != "This call is restricted" {
		t.Fatalf("restricted delegatecall was not rejected: %+v", receipt)
	}

	batch, err := multisend.Pack([]*multisend.Transaction{
		{Operation: types.Call, To: recipient, Value: uint256.NewInt(7)},
		{Operation: types.DelegateCall, To: signLibAddr, Data: signMessage},
	})
	if err != nil {
		t.Fatal(err)
	}
	receipt = chain.submit(submitter, &types.SafeTx{To: multiSendAddr, Data: batch, Operation: types.DelegateCall})
	if !receipt.Success {
		t.Fatalf("allowed delegatecall failed: %+v", receipt)
	}
	if receipt := chain.transfer(submitter, 3); !receipt.Success {
		t.Fatalf("plain call failed: %+v", receipt)
	}
	if have := chain.balance(recipient); have != 10 {
		t.Errorf("recipient balance mismatch: have %d, want 10", have)
	}
}

func TestOnlyOwnersGuard(t *testing.T) {
	chain := newTestChain(t, OnlyOwnersGuard{})
	chain.installGuard()

	receipt := chain.transfer(submitter, 5)
	if receipt.Executed || receipt.Reason != "msg sender is not allowed to exec" {
		t.Fatalf("non-owner submission was not rejected: %+v", receipt)
	}
	if receipt := chain.transfer(chain.owner, 5); !receipt.Success {
		t.Fatalf("owner submission failed: %+v", receipt)
	}
	if have := chain.balance(recipient); have != 5 {
		t.Errorf("recipient balance mismatch: have %d, want 5", have)
	}
}
