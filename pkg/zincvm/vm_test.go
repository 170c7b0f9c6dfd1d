package zincvm

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/zinc-project/zinc-vm/internal/zincvm/bytecode"
	"github.com/zinc-project/zinc-vm/internal/zincvm/core"
)

// encodeProgramForTest builds the wire bytes DecodeProgram expects, mirroring
// decodeTypeDescriptor's scalar-shape encoding since the bytecode package
// exposes no public Program encoder (the header format is this project's own
// convention, not part of the wire opcodes).
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

func additionProgram() *bytecode.Program {
	u8 := core.UnsignedInteger(8)
	return &bytecode.Program{
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
}

func TestNewVMDefaultConfig(t *testing.T) {
	v, err := NewVM(nil)
	if err != nil {
		t.Fatalf("NewVM(nil): %v", err)
	}
	if v == nil {
		t.Fatal("NewVM(nil) returned a nil VM")
	}
}

func TestVMExecuteAndGetState(t *testing.T) {
	v, err := NewVM(DefaultVMConfig())
	if err != nil {
		t.Fatalf("NewVM: %v", err)
	}

	if got := v.GetState(); got != nil {
		t.Errorf("GetState before Execute = %+v, want nil", got)
	}

	bc := encodeProgramForTest(additionProgram())
	result, err := v.Execute(bc, json.RawMessage(`11`), json.RawMessage(`42`))
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if result.Output != "53" {
		t.Errorf("output = %v, want \"53\"", result.Output)
	}
	if result.ConstraintCount <= 0 {
		t.Error("expected at least one constraint to be emitted")
	}

	if got := v.GetState(); got != result {
		t.Errorf("GetState() = %+v, want the same result Execute returned", got)
	}
}

func TestNewVMInvalidFieldModulus(t *testing.T) {
	_, err := NewVM(&VMConfig{FieldModulus: "not-a-number"})
	if err == nil {
		t.Fatal("expected an error for an invalid field modulus")
	}
	vmErr, ok := err.(*VMError)
	if !ok {
		t.Fatalf("error = %T, want *VMError", err)
	}
	if vmErr.Code != ErrInvalidConfig {
		t.Errorf("error code = %v, want ErrInvalidConfig", vmErr.Code)
	}
}

func TestVMExecuteMalformedBytecode(t *testing.T) {
	v, err := NewVM(DefaultVMConfig())
	if err != nil {
		t.Fatalf("NewVM: %v", err)
	}

	_, err = v.Execute([]byte{0xff, 0xff, 0xff}, json.RawMessage(`0`), json.RawMessage(`0`))
	if err == nil {
		t.Fatal("expected an error decoding malformed bytecode")
	}
	if _, ok := err.(*VMError); !ok {
		t.Fatalf("error = %T, want *VMError", err)
	}
}
