// Copyright 2026 The go-obsidian Authors
// This file is part of the go-obsidian library.

package params

const (
	TxGas                uint64 = 21000 // Intrinsic cost of a top-level message.
	TxDataZeroGas        uint64 = 4     // Per zero byte of message payload.
	TxDataNonZeroGas     uint64 = 16    // Per non-zero byte of message payload.
	CallGas              uint64 = 700   // Base cost of a nested call of any kind.
	CallValueTransferGas uint64 = 9000  // Surcharge for a nested call that moves value.
	SloadGas             uint64 = 800   // Storage read.
	SstoreGas            uint64 = 5000  // Storage write.
	EcrecoverGas         uint64 = 3000  // Public key recovery from a signature.
	LogGas               uint64 = 375   // Event emission.

	CallCreateDepth uint64 = 1024 // Maximum call depth.

	// SafeTxGasReserve is held back from the forwarded budget when an action
	// is dispatched with all remaining gas, so the caller can finish its
	// accounting after the callee returns.
	SafeTxGasReserve uint64 = 2500

	// SafeTxGasCheckOverhead is added on top of the reserve when checking
	// that enough gas is left before dispatching an action.
	SafeTxGasCheckOverhead uint64 = 500

	// DefaultSignatureCacheSize is the number of recovered signers kept in memory.
	DefaultSignatureCacheSize = 4096
)
