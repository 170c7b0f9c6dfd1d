package driver

import (
	"encoding/json"
	"fmt"

	"github.com/zinc-project/zinc-vm/internal/zincvm/bytecode"
	"github.com/zinc-project/zinc-vm/internal/zincvm/core"
	"github.com/zinc-project/zinc-vm/internal/zincvm/vm"
)

// Request is the JSON document a caller supplies to Run: the compiled
// program's bytecode plus its public input and private witness, each
// shaped by the program's own declared InputType/WitnessType (spec.md §6).
type Request struct {
	Bytecode []byte          `json:"bytecode"`
	Input    json.RawMessage `json:"input"`
	Witness  json.RawMessage `json:"witness"`
}

// Response is the JSON document Run produces: the program's output value,
// rendered as Run describes, plus bookkeeping a caller
// typically wants alongside a proof (constraint count, cycle count).
type Response struct {
	Output          interface{} `json:"output"`
	ConstraintCount int         `json:"constraint_count"`
	VariableCount   int         `json:"variable_count"`
	CycleCount      uint64      `json:"cycle_count"`
}

// Run decodes req.Bytecode into a Program, binds Input and Witness onto a
// fresh evaluation stack in declaration order (input cells first, then
// witness cells — matching the teacher's own convention in
// cmd/vybium-vm-prover/main.go of pushing public claim data ahead of
// private witness data), executes it, and renders the result back to JSON
// using the entry point function's declared return type when the program
// has one, and otherwise each output cell by its own scalar type (see
// entryReturnType).
func Run(req Request, cfg vm.Config) (*Response, error) {
	program, err := bytecode.DecodeProgram(req.Bytecode)
	if err != nil {
		return nil, fmt.Errorf("driver: decoding program: %w", err)
	}

	cs := vm.NewConstraintSystem(cfg)

	var inputs []*core.Scalar
	if program.InputType != nil {
		flat, err := DecodeValue(cs, req.Input, program.InputType)
		if err != nil {
			return nil, fmt.Errorf("driver: binding input: %w", err)
		}
		inputs = append(inputs, flat...)
	}
	if program.WitnessType != nil {
		flat, err := DecodeValue(cs, req.Witness, program.WitnessType)
		if err != nil {
			return nil, fmt.Errorf("driver: binding witness: %w", err)
		}
		inputs = append(inputs, flat...)
	}

	result, err := vm.Execute(program, cs, cfg.Storage, inputs)
	if err != nil {
		return nil, err
	}

	returnType := entryReturnType(program)
	var output interface{}
	switch {
	case returnType != nil:
		output, _, err = EncodeValue(result.Outputs, returnType)
		if err != nil {
			return nil, fmt.Errorf("driver: encoding output: %w", err)
		}
	case len(result.Outputs) == 1:
		output = encodeScalarLeaf(result.Outputs[0], result.Outputs[0].Type())
	case len(result.Outputs) > 1:
		cells := make([]interface{}, len(result.Outputs))
		for i, s := range result.Outputs {
			cells[i] = encodeScalarLeaf(s, s.Type())
		}
		output = cells
	}

	return &Response{
		Output:          output,
		ConstraintCount: result.CS.NumConstraints(),
		VariableCount:   result.CS.NumVariables(),
		CycleCount:      result.Cycles,
	}, nil
}

// entryReturnType finds the function table entry whose Address matches the
// program's entry point, returning its declared return type if present.
// Programs without a function table (every program from DecodeProgram,
// which reads none) have no declared return shape; Run then renders a
// single output cell as a bare value, several cells as a JSON array, and
// no cells as null.
func entryReturnType(program *bytecode.Program) *bytecode.TypeDescriptor {
	for _, fn := range program.Functions {
		if fn.Address == program.EntryPoint {
			return fn.ReturnType
		}
	}
	return nil
}
