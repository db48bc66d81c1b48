// Copyright 2026 The go-obsidian Authors

package safe

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethdb/memorydb"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/google/go-cmp/cmp"
	"github.com/holiman/uint256"

	"github.com/HITEYY/obsidian-safe/core/types"
	"github.com/HITEYY/obsidian-safe/crypto/eip712"
)

func TestAPI(t *testing.T) {
	keys := newKeys(t, 2)
	p := newTestProcessor(t, memorydb.New(), keys, 1)
	p.Host().StateDB().AddBalance(accountAddr, uint256.NewInt(10))

	tx := &types.SafeTx{To: recipient, Value: uint256.NewInt(1)}
	hash, sigs := signWith(t, p, tx, keys[1])
	if _, err := p.Submit(&Submission{From: submitter, Account: accountAddr, Tx: tx, Signatures: sigs, GasLimit: testGas}); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	server := rpc.NewServer()
	defer server.Stop()
	for _, api := range p.APIs() {
		if err := server.RegisterName(api.Namespace, api.Service); err != nil {
			t.Fatalf("failed to register %s: %v", api.Namespace, err)
		}
	}
	client := rpc.DialInProc(server)
	defer client.Close()

	var owners []common.Address
	if err := client.Call(&owners, "safe_getOwners", accountAddr); err != nil {
		t.Fatalf("getOwners failed: %v", err)
	}
	want := []common.Address{crypto.PubkeyToAddress(keys[0].PublicKey), crypto.PubkeyToAddress(keys[1].PublicKey)}
	if diff := cmp.Diff(want, owners); diff != "" {
		t.Errorf("owners mismatch (-want +got):\n%s", diff)
	}

	var threshold, nonce hexutil.Uint64
	if err := client.Call(&threshold, "safe_getThreshold", accountAddr); err != nil || threshold != 1 {
		t.Errorf("threshold mismatch: have %d (%v), want 1", threshold, err)
	}
	if err := client.Call(&nonce, "safe_nonce", accountAddr); err != nil || nonce != 1 {
		t.Errorf("nonce mismatch: have %d (%v), want 1", nonce, err)
	}

	var isOwner bool
	if err := client.Call(&isOwner, "safe_isOwner", accountAddr, want[0]); err != nil || !isOwner {
		t.Errorf("isOwner mismatch: have %v (%v), want true", isOwner, err)
	}

	var page ModulesPage
	if err := client.Call(&page, "safe_getModulesPaginated", accountAddr, nil, hexutil.Uint64(10)); err != nil {
		t.Fatalf("getModulesPaginated failed: %v", err)
	}
	if len(page.Modules) != 0 || page.Next != Sentinel {
		t.Errorf("unexpected module page %+v", page)
	}

	var domain common.Hash
	if err := client.Call(&domain, "safe_domainSeparator", accountAddr); err != nil || domain != eip712.DomainSeparator(testChainID, accountAddr) {
		t.Errorf("domain separator mismatch: have %x (%v)", domain, err)
	}

	var txHash common.Hash
	if err := client.Call(&txHash, "safe_getTransactionHash", accountAddr, tx); err != nil || txHash != hash {
		t.Errorf("transaction hash mismatch: have %x (%v), want %x", txHash, err, hash)
	}

	var receipt Receipt
	if err := client.Call(&receipt, "safe_getReceipt", accountAddr, hash); err != nil {
		t.Fatalf("getReceipt failed: %v", err)
	}
	if !receipt.Success || receipt.SafeTxHash != hash || receipt.Account != accountAddr {
		t.Errorf("unexpected receipt %+v", receipt)
	}

	if err := client.Call(&owners, "safe_getOwners", recipient); err == nil {
		t.Error("expected an error for an address without account code")
	}
}
