package zincvm

import (
	"encoding/json"
	"math/big"

	"github.com/zinc-project/zinc-vm/internal/zincvm/core"
	"github.com/zinc-project/zinc-vm/internal/zincvm/driver"
	internalvm "github.com/zinc-project/zinc-vm/internal/zincvm/vm"
)

// VM is the public interface to a Zinc bytecode execution engine,
// generalizing the teacher's VM interface (Execute/GetState) from STARK
// trace generation to R1CS constraint-system synthesis. Input and witness
// are JSON documents shaped by the program's own declared types (spec.md
// §6), the same contract internal/zincvm/driver.Run exposes to the
// zinc-vm-run command-line driver.
type VM interface {
	// Execute decodes bytecodeBytes into a Program and runs it against
	// input (its public parameters) and witness (its private parameters).
	Execute(bytecodeBytes []byte, input, witness json.RawMessage) (*ExecutionResult, error)

	// GetState returns a snapshot of the most recently finished run, or
	// nil if Execute has not yet been called successfully.
	GetState() *ExecutionResult
}

// vmImpl is the internal implementation of VM, wrapping
// internal/zincvm/driver the way the teacher's vmImpl wraps its own
// internal vm.VMState.
type vmImpl struct {
	cfg  internalvm.Config
	last *ExecutionResult
}

// NewVM constructs a VM from config, resolving its field modulus and
// initializing an empty storage tree of the configured depth.
func NewVM(config *VMConfig) (VM, error) {
	if config == nil {
		config = DefaultVMConfig()
	}

	field := core.BN254ScalarField()
	if config.FieldModulus != "" {
		modulus, ok := new(big.Int).SetString(config.FieldModulus, 10)
		if !ok {
			return nil, &VMError{Code: ErrInvalidConfig, Message: "invalid field modulus", At: -1}
		}
		f, err := core.NewField(modulus)
		if err != nil {
			return nil, &VMError{Code: ErrInvalidConfig, Message: "failed to construct field", At: -1, Cause: err}
		}
		field = f
	}

	var storage *core.MerkleTree
	if config.StorageDepth > 0 {
		tree, err := core.NewMerkleTree(nil, int(config.StorageDepth))
		if err != nil {
			return nil, &VMError{Code: ErrInvalidConfig, Message: "failed to construct storage tree", At: -1, Cause: err}
		}
		storage = tree
	}

	return &vmImpl{cfg: internalvm.Config{Field: field, Storage: storage}}, nil
}

func (v *vmImpl) Execute(bytecodeBytes []byte, input, witness json.RawMessage) (*ExecutionResult, error) {
	resp, err := driver.Run(driver.Request{Bytecode: bytecodeBytes, Input: input, Witness: witness}, v.cfg)
	if err != nil {
		return nil, wrapError(err)
	}

	v.last = &ExecutionResult{
		Output:          resp.Output,
		CycleCount:      resp.CycleCount,
		ConstraintCount: resp.ConstraintCount,
		VariableCount:   resp.VariableCount,
	}
	return v.last, nil
}

func (v *vmImpl) GetState() *ExecutionResult {
	return v.last
}
