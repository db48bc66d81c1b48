// Copyright 2026 The go-obsidian Authors
// This file is part of the go-obsidian library.

/*
Package eip712 implements the typed structured-data hashing used to bind
account actions and messages to one account on one chain.

Every digest is produced in two stages. A struct hash is computed first by
hashing the 32-byte words of the type hash and of each field (dynamic bytes
are replaced by their keccak256). The struct hash is then combined with the
domain separator:

	keccak256(0x19 ‖ 0x01 ‖ domainSeparator ‖ structHash)

The domain separator commits to the chain id and the account address. The
layouts are bit-exact: any independent signer reproduces the same digest.
*/
package eip712
