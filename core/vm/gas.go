// Copyright 2026 The go-obsidian Authors
// This file is part of the go-obsidian library.

package vm

import "github.com/HITEYY/obsidian-safe/params"

// CostModel prices the operations a frame performs. The host charges every
// frame through it, so tests can substitute a model with known constants.
type CostModel interface {
	IntrinsicGas(data []byte) uint64
	CallGas(transfersValue bool) uint64
	SloadGas() uint64
	SstoreGas() uint64
	LogGas() uint64
	EcrecoverGas() uint64
}

// DefaultCostModel charges the constants in a params.GasConfig.
type DefaultCostModel struct {
	cfg params.GasConfig
}

// NewCostModel creates a cost model from cfg.
func NewCostModel(cfg params.GasConfig) *DefaultCostModel {
	return &DefaultCostModel{cfg: cfg}
}

func (m *DefaultCostModel) IntrinsicGas(data []byte) uint64 {
	gas := m.cfg.TxGas
	for _, b := range data {
		if b == 0 {
			gas += m.cfg.TxDataZeroGas
		} else {
			gas += m.cfg.TxDataNonZeroGas
		}
	}
	return gas
}

func (m *DefaultCostModel) CallGas(transfersValue bool) uint64 {
	if transfersValue {
		return m.cfg.CallGas + m.cfg.CallValueTransferGas
	}
	return m.cfg.CallGas
}

func (m *DefaultCostModel) SloadGas() uint64     { return m.cfg.SloadGas }
func (m *DefaultCostModel) SstoreGas() uint64    { return m.cfg.SstoreGas }
func (m *DefaultCostModel) LogGas() uint64       { return m.cfg.LogGas }
func (m *DefaultCostModel) EcrecoverGas() uint64 { return m.cfg.EcrecoverGas }
