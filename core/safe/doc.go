// Copyright 2025 The go-obsidian Authors
// This file is part of the go-obsidian library.

/*
Package safe implements a shared account controlled by a set of owners.

Owners agree on a threshold, sign actions off-band and any party submits the
signature bundle to have the account execute the action. Enabled modules act
without signatures, and guards may veto owner-signed actions.

# Architecture

The account is ordinary code deployed on the host (see package vm):

1. Safe - The account code. It keeps no state of its own; owners, modules,
   threshold and nonce live in the storage of every address it is deployed
   at, in the classic slot layout.

2. Collaborators - Guards, module guards, contract owners and the fallback
   handler are other contracts called synchronously. They may abort or
   re-enter, nothing else.

3. Processor - Drives accounts from outside: packs submissions, applies them
   to the host, builds receipts and persists the world state.

# Transaction Flow

	Owners sign SafeTx hash off-band
	    → Submitter calls execTransaction with the bundle
	        → Account processes:
	            1. Hash the action under the current nonce
	            2. Consume the nonce (kept even on revert)
	            3. Verify the signature bundle against the threshold
	            4. Guard pre-check (if set)
	            5. Dispatch as call or trusted delegatecall
	            6. Guard post-check (if set)
	            7. Refund the submitter (if a gas price was given)
	            8. Emit ExecutionSuccess or ExecutionFailure

# Signature Schemes

  - Contract: the owner is a contract and approves via isValidSignature
  - Approved hash: the owner called approveHash, or submits the action itself
  - eth_sign: ECDSA over the prefixed hash (v + 4)
  - ECDSA: ECDSA over the hash
*/
package safe
