// Package zincvm provides a zero-knowledge virtual machine for the Zinc
// smart-contract bytecode format: it interprets a compiled program while
// simultaneously emitting an R1CS constraint system a SNARK backend can
// prove, over the BN254 scalar field by default.
//
// # Features
//
// - A stack-based bytecode interpreter with a static scalar type system
//   (Boolean, signed/unsigned integers of fixed bit-length, raw field
//   elements)
// - Conditional-select-based branching: both arms of an If/Else execute,
//   with results multiplexed by the active condition, so the constraint
//   system has no data-dependent structure
// - A standard library of in-circuit gadgets: SHA-256, Pedersen
//   commitments, Schnorr/EdDSA signature verification, bit (de)composition,
//   and array/collection helpers
// - Merkle-tree-committed contract storage addressed by storage_load and
//   storage_store
//
// # Quick Start
//
// Running a compiled program against its input and witness:
//
//	vm, err := zincvm.NewVM(zincvm.DefaultVMConfig())
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := vm.Execute(compiledBytecode, input, witness)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	fmt.Println(result.Output, result.ConstraintCount)
//
// # Architecture
//
// zincvm uses a hybrid public/private architecture:
//
//   - pkg/zincvm/: Public API (this package)
//   - internal/zincvm/: Private implementation (not importable)
//
// The public API provides stable interfaces for:
//
//   - Program execution and constraint-system synthesis
//   - Common scalar and error types
//
// Implementation details in internal/ can be refactored without breaking
// the public API.
//
// # License
//
// See LICENSE file in the repository root.
package zincvm
