// Copyright 2026 The go-obsidian Authors

package safe

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/HITEYY/obsidian-safe/core/types"
	"github.com/HITEYY/obsidian-safe/core/vm"
)

func TestExecTransactionTransfer(t *testing.T) {
	env := newTestEnv(t, 3, 2)
	env.host.StateDB().AddBalance(env.account, uint256.NewInt(1000))

	tx := &types.SafeTx{To: recipient, Value: uint256.NewInt(500)}
	hash := env.txHash(tx)
	signatures := env.sign(tx, 0, 1)

	res := env.exec(tx, signatures)
	env.mustSucceed(res)
	out, err := SafeABI.Unpack("execTransaction", res.Return())
	if err != nil || !out[0].(bool) {
		t.Fatalf("execTransaction returned %v, %v", out, err)
	}
	logs := types.FilterLogs(res.Logs, "ExecutionSuccess")
	if len(logs) != 1 {
		t.Fatalf("expected one ExecutionSuccess event, got %d", len(logs))
	}
	if ev := logs[0].Event.(*ExecutionSuccess); ev.TxHash != hash || !ev.Payment.IsZero() {
		t.Errorf("unexpected success event %+v", ev)
	}
	if got := env.host.StateDB().GetBalance(recipient); !got.Eq(uint256.NewInt(500)) {
		t.Errorf("recipient balance mismatch: have %v, want 500", got)
	}
	if got := env.view().Nonce(); got != 1 {
		t.Errorf("nonce mismatch: have %d, want 1", got)
	}

	// Same action, same signatures: the hash is now taken under nonce 1.
	res = env.exec(tx, signatures)
	expectRevert(t, res, "GS026")
	if got := env.host.StateDB().GetBalance(recipient); !got.Eq(uint256.NewInt(500)) {
		t.Errorf("replay moved funds: recipient has %v", got)
	}
	if got := env.view().Nonce(); got != 2 {
		t.Errorf("rejected submission must consume the nonce: have %d, want 2", got)
	}
}

func TestExecTransactionReorderedSignatures(t *testing.T) {
	env := newTestEnv(t, 3, 2)
	env.host.StateDB().AddBalance(env.account, uint256.NewInt(1000))

	tx := &types.SafeTx{To: recipient, Value: uint256.NewInt(500)}
	sigs := env.sign(tx, 0, 1)
	swapped := append(append([]byte{}, sigs[65:130]...), sigs[:65]...)

	expectRevert(t, env.exec(tx, swapped), "GS026")
	if got := env.host.StateDB().GetBalance(recipient); !got.IsZero() {
		t.Errorf("reordered bundle moved funds: recipient has %v", got)
	}
}

func TestExecTransactionDuplicateSigner(t *testing.T) {
	env := newTestEnv(t, 3, 2)
	tx := &types.SafeTx{To: recipient}
	sig := env.sign(tx, 0)
	expectRevert(t, env.exec(tx, append(append([]byte{}, sig...), sig...)), "GS026")
}

func TestExecTransactionTooFewSignatures(t *testing.T) {
	env := newTestEnv(t, 3, 2)
	tx := &types.SafeTx{To: recipient}
	expectRevert(t, env.exec(tx, env.sign(tx, 2)), "GS020")
}

func TestExecTransactionInvalidOperation(t *testing.T) {
	env := newTestEnv(t, 1, 1)
	input := mustPack(t, "execTransaction", recipient, common.Big0, []byte{}, uint8(2),
		common.Big0, common.Big0, common.Big0, common.Address{}, common.Address{}, []byte{})
	res := env.apply(submitter, env.account, input)
	if !res.Failed() || len(res.Revert()) != 0 {
		t.Fatalf("expected an empty revert, got %v", res.Err)
	}
}

func TestExecTransactionDispatchFailure(t *testing.T) {
	env := newTestEnv(t, 1, 1)
	env.host.Deploy(helperAddr, reverter)

	// Neither a gas budget nor a price: the failure is fatal.
	tx := &types.SafeTx{To: helperAddr}
	expectRevert(t, env.exec(tx, env.sign(tx, 0)), "GS013")
	if got := env.view().Nonce(); got != 1 {
		t.Fatalf("nonce mismatch: have %d, want 1", got)
	}

	// With a gas budget the failure is reported softly.
	tx = &types.SafeTx{To: helperAddr, SafeTxGas: 100_000}
	res := env.exec(tx, env.sign(tx, 0))
	env.mustSucceed(res)
	if out, _ := SafeABI.Unpack("execTransaction", res.Return()); out[0].(bool) {
		t.Error("execTransaction reported success for a failed action")
	}
	if len(types.FilterLogs(res.Logs, "ExecutionFailure")) != 1 {
		t.Error("expected an ExecutionFailure event")
	}
	if got := env.view().Nonce(); got != 2 {
		t.Fatalf("nonce mismatch: have %d, want 2", got)
	}
}

func TestExecTransactionNotEnoughGas(t *testing.T) {
	env := newTestEnv(t, 1, 1)
	tx := &types.SafeTx{To: recipient, SafeTxGas: testGas}
	expectRevert(t, env.exec(tx, env.sign(tx, 0)), "GS010")
}

func TestExecTransactionDelegateCall(t *testing.T) {
	env := newTestEnv(t, 1, 1)
	slot := common.HexToHash("0x77")
	env.host.Deploy(helperAddr, vm.ContractFunc(func(ctx *vm.CallContext, input []byte) ([]byte, error) {
		ctx.SetState(slot, common.BytesToHash([]byte{1}))
		return nil, nil
	}))

	// Untrusted targets may not borrow the account context.
	tx := &types.SafeTx{To: helperAddr, Operation: types.DelegateCall}
	expectRevert(t, env.exec(tx, env.sign(tx, 0)), "GS013")

	env.host.TrustLibrary(helperAddr)
	tx = &types.SafeTx{To: helperAddr, Operation: types.DelegateCall}
	env.mustSucceed(env.exec(tx, env.sign(tx, 0)))
	if got := env.host.StateDB().GetState(env.account, slot); got != common.BytesToHash([]byte{1}) {
		t.Errorf("library did not write account storage: %x", got)
	}
	if got := env.host.StateDB().GetState(helperAddr, slot); got != (common.Hash{}) {
		t.Errorf("library wrote its own storage: %x", got)
	}
}

func TestNativeRefund(t *testing.T) {
	env := newTestEnv(t, 1, 1)
	env.host.StateDB().AddBalance(env.account, uint256.NewInt(1_000_000_000))
	env.gasPrice = uint256.NewInt(2)

	// The refund never pays more per gas unit than the submitter's price.
	tx := &types.SafeTx{To: recipient, BaseGas: 1000, GasPrice: uint256.NewInt(5), RefundReceiver: refundee}
	res := env.exec(tx, env.sign(tx, 0))
	env.mustSucceed(res)

	logs := types.FilterLogs(res.Logs, "ExecutionSuccess")
	if len(logs) != 1 {
		t.Fatalf("expected one ExecutionSuccess event, got %d", len(logs))
	}
	payment := logs[0].Event.(*ExecutionSuccess).Payment
	if got := env.host.StateDB().GetBalance(refundee); !got.Eq(payment) {
		t.Errorf("refund mismatch: receiver has %v, event says %v", got, payment)
	}
	if payment.Lt(uint256.NewInt(2000)) || !new(uint256.Int).Mod(payment, uint256.NewInt(2)).IsZero() {
		t.Errorf("payment %v not priced at 2 per gas unit", payment)
	}
	if payment.Cmp(uint256.NewInt(2*testGas)) >= 0 {
		t.Errorf("payment %v exceeds the message budget", payment)
	}
}

func TestNativeRefundDefaultsToOrigin(t *testing.T) {
	env := newTestEnv(t, 1, 1)
	env.host.StateDB().AddBalance(env.account, uint256.NewInt(1_000_000_000))

	tx := &types.SafeTx{To: recipient, GasPrice: uint256.NewInt(1)}
	env.mustSucceed(env.exec(tx, env.sign(tx, 0)))
	if env.host.StateDB().GetBalance(submitter).IsZero() {
		t.Error("origin was not refunded")
	}
}

func TestNativeRefundFailure(t *testing.T) {
	env := newTestEnv(t, 1, 1)
	tx := &types.SafeTx{To: recipient, GasPrice: uint256.NewInt(1)}
	expectRevert(t, env.exec(tx, env.sign(tx, 0)), "GS011")
	if got := env.view().Nonce(); got != 1 {
		t.Errorf("nonce mismatch: have %d, want 1", got)
	}
}

// testToken records transfers in its storage, keyed by receiver, and
// answers with result.
func testToken(result []byte) vm.ContractFunc {
	return func(ctx *vm.CallContext, input []byte) ([]byte, error) {
		method, err := TokenABI.MethodById(input[:4])
		if err != nil || method.Name != "transfer" {
			return nil, vm.Revert("unsupported")
		}
		in, err := vm.UnpackArgs(*method, input[4:])
		if err != nil {
			return nil, err
		}
		to, amount := in.Address(0), in.Uint256(1)
		ctx.SetState(common.BytesToHash(to[:]), amount.Bytes32())
		return result, nil
	}
}

func TestTokenRefund(t *testing.T) {
	word := func(v byte) []byte { return common.LeftPadBytes([]byte{v}, 32) }
	tests := []struct {
		name   string
		result []byte
		ok     bool
	}{
		{"returns true", word(1), true},
		{"returns nothing", nil, true},
		{"returns false", word(0), false},
		{"returns garbage", []byte{1, 2, 3}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, 1, 1)
			env.host.Deploy(helperAddr, testToken(tt.result))

			tx := &types.SafeTx{To: recipient, BaseGas: 100, GasPrice: uint256.NewInt(3), GasToken: helperAddr, RefundReceiver: refundee}
			res := env.exec(tx, env.sign(tx, 0))
			if !tt.ok {
				expectRevert(t, res, "GS012")
				return
			}
			env.mustSucceed(res)
			payment := types.FilterLogs(res.Logs, "ExecutionSuccess")[0].Event.(*ExecutionSuccess).Payment
			recorded := env.host.StateDB().GetState(helperAddr, common.BytesToHash(refundee[:]))
			if new(uint256.Int).SetBytes32(recorded[:]).Cmp(payment) != 0 || payment.IsZero() {
				t.Errorf("token refund mismatch: recorded %x, payment %v", recorded, payment)
			}
			// Token refunds are not capped by the message gas price.
			if !new(uint256.Int).Mod(payment, uint256.NewInt(3)).IsZero() {
				t.Errorf("payment %v not priced at 3 per gas unit", payment)
			}
		})
	}
}

func TestRequiredGas(t *testing.T) {
	tests := []struct {
		safeTxGas, want uint64
	}{
		{0, 3000},
		{63, 3063},
		{200_000, 203_674},
		{^uint64(0), ^uint64(0)},
	}
	for _, tt := range tests {
		if got := requiredGas(tt.safeTxGas); got != tt.want {
			t.Errorf("requiredGas(%d) = %d, want %d", tt.safeTxGas, got, tt.want)
		}
	}
}
