package driver

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/zinc-project/zinc-vm/internal/zincvm/bytecode"
	"github.com/zinc-project/zinc-vm/internal/zincvm/core"
	"github.com/zinc-project/zinc-vm/internal/zincvm/vm"
)

func TestRunBasicAddition(t *testing.T) {
	u8 := core.UnsignedInteger(8)
	program := &bytecode.Program{
		Instructions: []bytecode.Instruction{
			bytecode.Simple(bytecode.OpAdd),
			bytecode.NewExit(1),
		},
		Functions: []bytecode.Function{
			{Name: "main", Address: 0, ReturnType: bytecode.ScalarTypeDescriptor(u8)},
		},
		InputType:   bytecode.ScalarTypeDescriptor(u8),
		WitnessType: bytecode.ScalarTypeDescriptor(u8),
	}

	bytecodeBytes := encodeProgramForTest(program)

	req := Request{
		Bytecode: bytecodeBytes,
		Input:    json.RawMessage(`11`),
		Witness:  json.RawMessage(`42`),
	}

	resp, err := Run(req, vm.DefaultConfig())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if resp.Output != "53" {
		t.Errorf("output = %v, want \"53\"", resp.Output)
	}
	if resp.ConstraintCount <= 0 {
		t.Error("expected at least one constraint to be emitted")
	}
}

// encodeProgramForTest builds the wire bytes DecodeProgram expects,
// mirroring decodeTypeDescriptor's scalar-shape encoding since the
// bytecode package exposes no public Program encoder (the header format
// is this project's own convention, not part of the wire opcodes).
func encodeProgramForTest(p *bytecode.Program) []byte {
	var data []byte
	data = append(data, bytecode.EncodeVLQ(big.NewInt(int64(p.EntryPoint)))...)
	data = append(data, scalarTypeDescriptorBytes(*p.InputType.Scalar)...)
	data = append(data, scalarTypeDescriptorBytes(*p.WitnessType.Scalar)...)
	for _, instr := range p.Instructions {
		data = append(data, instr.Encode()...)
	}
	return data
}

func scalarTypeDescriptorBytes(t core.ScalarType) []byte {
	return append([]byte{0}, bytecode.EncodeScalarType(t)...)
}
