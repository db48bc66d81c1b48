// Copyright 2026 The go-obsidian Authors
// This file is part of the go-obsidian library.

package params

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/toml"
)

// ErrInvalidChainID is returned when a configuration carries a zero chain id.
var ErrInvalidChainID = errors.New("chain id must be non-zero")

// GasConfig holds the constants of the metering cost model.
type GasConfig struct {
	TxGas                uint64
	TxDataZeroGas        uint64
	TxDataNonZeroGas     uint64
	CallGas              uint64
	CallValueTransferGas uint64
	SloadGas             uint64
	SstoreGas            uint64
	EcrecoverGas         uint64
	LogGas               uint64
}

// Config is the host configuration for accounts running on a single ledger.
type Config struct {
	ChainID            uint64
	SignatureCacheSize int
	Gas                GasConfig
}

// DefaultGasConfig returns the classic metering constants.
func DefaultGasConfig() GasConfig {
	return GasConfig{
		TxGas:                TxGas,
		TxDataZeroGas:        TxDataZeroGas,
		TxDataNonZeroGas:     TxDataNonZeroGas,
		CallGas:              CallGas,
		CallValueTransferGas: CallValueTransferGas,
		SloadGas:             SloadGas,
		SstoreGas:            SstoreGas,
		EcrecoverGas:         EcrecoverGas,
		LogGas:               LogGas,
	}
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		ChainID:            1,
		SignatureCacheSize: DefaultSignatureCacheSize,
		Gas:                DefaultGasConfig(),
	}
}

// fileConfig is the config.toml key mapping.
type fileConfig struct {
	ChainID            uint64 `toml:"chain_id"`
	SignatureCacheSize int    `toml:"signature_cache_size"`
	Gas                struct {
		Tx                uint64 `toml:"tx"`
		TxDataZero        uint64 `toml:"tx_data_zero"`
		TxDataNonZero     uint64 `toml:"tx_data_non_zero"`
		Call              uint64 `toml:"call"`
		CallValueTransfer uint64 `toml:"call_value_transfer"`
		Sload             uint64 `toml:"sload"`
		Sstore            uint64 `toml:"sstore"`
		Ecrecover         uint64 `toml:"ecrecover"`
		Log               uint64 `toml:"log"`
	} `toml:"gas"`
}

// LoadConfig reads a TOML file and overlays the keys it defines on top of
// DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if meta.IsDefined("chain_id") {
		cfg.ChainID = raw.ChainID
	}
	if meta.IsDefined("signature_cache_size") {
		cfg.SignatureCacheSize = raw.SignatureCacheSize
	}
	overlay := []struct {
		key string
		dst *uint64
		src uint64
	}{
		{"tx", &cfg.Gas.TxGas, raw.Gas.Tx},
		{"tx_data_zero", &cfg.Gas.TxDataZeroGas, raw.Gas.TxDataZero},
		{"tx_data_non_zero", &cfg.Gas.TxDataNonZeroGas, raw.Gas.TxDataNonZero},
		{"call", &cfg.Gas.CallGas, raw.Gas.Call},
		{"call_value_transfer", &cfg.Gas.CallValueTransferGas, raw.Gas.CallValueTransfer},
		{"sload", &cfg.Gas.SloadGas, raw.Gas.Sload},
		{"sstore", &cfg.Gas.SstoreGas, raw.Gas.Sstore},
		{"ecrecover", &cfg.Gas.EcrecoverGas, raw.Gas.Ecrecover},
		{"log", &cfg.Gas.LogGas, raw.Gas.Log},
	}
	for _, o := range overlay {
		if meta.IsDefined("gas", o.key) {
			*o.dst = o.src
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration for values the host cannot run with.
func (c Config) Validate() error {
	if c.ChainID == 0 {
		return ErrInvalidChainID
	}
	if c.SignatureCacheSize <= 0 {
		return fmt.Errorf("signature cache size must be positive, got %d", c.SignatureCacheSize)
	}
	return nil
}
