// Package latency provides the functional unit timing model.
//
// Every instruction that executes occupies one unit of its class for a fixed
// number of cycles. The values can be configured via TimingConfig.
package latency

import (
	"github.com/sarchlab/tomasim/insts"
)

// UnitClass identifies a functional unit pool.
type UnitClass uint8

// Functional unit classes.
const (
	UnitNone UnitClass = iota
	UnitInt
	UnitFP
)

func (u UnitClass) String() string {
	switch u {
	case UnitInt:
		return "int"
	case UnitFP:
		return "fp"
	default:
		return "none"
	}
}

// Table provides instruction latency lookups.
type Table struct {
	config *TimingConfig
}

// NewTable creates a new latency table with default timing values.
func NewTable() *Table {
	return &Table{
		config: DefaultTimingConfig(),
	}
}

// NewTableWithConfig creates a new latency table with custom timing configuration.
func NewTableWithConfig(config *TimingConfig) *Table {
	return &Table{
		config: config,
	}
}

// UnitClassOf returns the pool that executes the instruction. Control and
// trap instructions, and unclassified ones, return UnitNone.
func (t *Table) UnitClassOf(inst *insts.Instruction) UnitClass {
	if inst == nil {
		return UnitNone
	}

	switch {
	case inst.UsesIntUnit():
		return UnitInt
	case inst.UsesFPUnit():
		return UnitFP
	default:
		return UnitNone
	}
}

// UnitLatency returns the latency of a unit class.
func (t *Table) UnitLatency(class UnitClass) uint64 {
	switch class {
	case UnitInt:
		return t.config.IntLatency
	case UnitFP:
		return t.config.FPLatency
	default:
		return 0
	}
}

// GetLatency returns the execution latency in cycles for the given
// instruction. Instructions that never occupy a unit have zero latency.
func (t *Table) GetLatency(inst *insts.Instruction) uint64 {
	return t.UnitLatency(t.UnitClassOf(inst))
}

// IsLoadOp returns true if the instruction is a load operation.
func (t *Table) IsLoadOp(inst *insts.Instruction) bool {
	if inst == nil {
		return false
	}
	return inst.IsLoad()
}

// IsStoreOp returns true if the instruction is a store operation.
func (t *Table) IsStoreOp(inst *insts.Instruction) bool {
	if inst == nil {
		return false
	}
	return inst.IsStore()
}

// IsBranchOp returns true if the instruction is a control transfer.
func (t *Table) IsBranchOp(inst *insts.Instruction) bool {
	if inst == nil {
		return false
	}
	return inst.IsControl()
}

// Config returns the current timing configuration.
func (t *Table) Config() *TimingConfig {
	return t.config
}
