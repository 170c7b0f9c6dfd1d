package vm

import (
	"github.com/zinc-project/zinc-vm/internal/zincvm/bytecode"
	"github.com/zinc-project/zinc-vm/internal/zincvm/core"
)

// Config bundles the knobs a VM run needs beyond the program and witness
// itself: the field to run over and the storage tree (if the contract
// touches storage_load/storage_store).
type Config struct {
	Field   *core.Field
	Storage *core.MerkleTree
}

// DefaultConfig returns a Config over the BN254 scalar field with no
// attached storage tree, the shape of a pure (storage-free) computation.
func DefaultConfig() Config {
	return Config{Field: core.BN254ScalarField()}
}

// NewConstraintSystem builds the ConstraintSystem a run against cfg will
// execute over. Callers must allocate their input/witness Scalars on this
// same ConstraintSystem (e.g. via core.NewConstant) before calling Execute:
// a Scalar's Variable() is only meaningful against the ConstraintSystem
// that allocated it, so running Execute against a second, freshly built
// ConstraintSystem would silently produce unrelated constraints.
func NewConstraintSystem(cfg Config) *core.ConstraintSystem {
	field := cfg.Field
	if field == nil {
		field = core.BN254ScalarField()
	}
	return core.NewConstraintSystem(field)
}

// Result is the outcome of a successful run: the output scalars and the
// finished constraint system, ready for IsSatisfied() or handing to an
// external prover.
type Result struct {
	Outputs []*core.Scalar
	CS      *core.ConstraintSystem
	Storage *core.MerkleTree
	Cycles  uint64
}

// Execute runs program to completion over cs, pushing inputs (already
// allocated on cs, in the order the entry point's parameters expect) onto
// a fresh evaluation stack before dispatch begins. storage is the Merkle
// tree, if any, backing storage_load/storage_store.
func Execute(program *bytecode.Program, cs *core.ConstraintSystem, storage *core.MerkleTree, inputs []*core.Scalar) (*Result, error) {
	state := NewVMState(program, cs, storage)
	for _, in := range inputs {
		state.Push(in)
	}

	outputs, err := Run(state)
	if err != nil {
		return nil, err
	}
	return &Result{Outputs: outputs, CS: cs, Storage: state.Storage, Cycles: state.CycleCount}, nil
}
