package zincvm

import (
	"github.com/zinc-project/zinc-vm/internal/zincvm/bytecode"
	"github.com/zinc-project/zinc-vm/internal/zincvm/core"
)

// FieldElement is an element of the VM's scalar field, exposed publicly the
// way the teacher re-exports its internal core.FieldElement as the public
// FieldElement type alias.
type FieldElement = core.FieldElement

// Field is a finite field over which a VM instance runs.
type Field = core.Field

// Scalar is a typed, in-circuit value: a field element tagged with its
// static ScalarType and bound to a constraint-system variable.
type Scalar = core.Scalar

// Program is a decoded, ready-to-run Zinc bytecode unit.
type Program = bytecode.Program

// VMConfig configures a VM instance: which field it runs over, and
// (optionally) the Merkle-committed storage tree a contract's
// storage_load/storage_store instructions address.
type VMConfig struct {
	// FieldModulus selects the scalar field by its decimal modulus. Empty
	// selects the default BN254 scalar field.
	FieldModulus string

	// StorageDepth is the depth of the empty Merkle storage tree NewVM
	// builds for the VM. Zero attaches no tree; storage_load/storage_store
	// then run without Merkle authentication.
	StorageDepth uint
}

// DefaultVMConfig returns a VMConfig over the default BN254 scalar field
// with a modest storage tree, mirroring the teacher's DefaultVMConfig's
// role of giving callers a working configuration with no required setup.
func DefaultVMConfig() *VMConfig {
	return &VMConfig{StorageDepth: 32}
}

// ExecutionResult is the outcome of running a Program: its output value
// (rendered from Exit's output cells the way internal/zincvm/driver.Run
// renders them), execution statistics, and counts from the finished
// constraint system a caller can hand to an external SNARK backend for
// proving.
type ExecutionResult struct {
	// Output is the program's return value: shaped by its declared return
	// type when it has one (a number, boolean, array, or nested struct/map),
	// otherwise a single cell as a bare value or several cells as an array,
	// each rendered by its own scalar type.
	Output interface{}

	// CycleCount is the number of dispatched instructions.
	CycleCount uint64

	// ConstraintCount is the number of R1CS constraints the run emitted.
	ConstraintCount int

	// VariableCount is the number of constraint-system variables allocated.
	VariableCount int
}
