package bytecode

import (
	"math/big"
	"testing"

	"github.com/zinc-project/zinc-vm/internal/zincvm/core"
)

func TestInstructionEncodeDecodeRoundTrip(t *testing.T) {
	instructions := []Instruction{
		Simple(OpAdd),
		Simple(OpTypeCheck),
		NewCopy(3),
		NewPush(big.NewInt(12345), core.UnsignedInteger(16)),
		NewCast(core.SignedInteger(32)),
		NewLoopBegin(10),
		NewCall(2, 3),
		NewAssert(),
		NewAssertWithMessage("must hold"),
		NewCallStdlib(StdlibSha256, 16),
		NewExit(2),
		NewArrayOp(OpArraySelect, 4),
		NewSlice(8, 2, 3),
	}

	var encoded []byte
	for _, instr := range instructions {
		encoded = append(encoded, instr.Encode()...)
	}

	decoded, err := DecodeAllInstructions(encoded)
	if err != nil {
		t.Fatalf("DecodeAllInstructions: %v", err)
	}
	if len(decoded) != len(instructions) {
		t.Fatalf("decoded %d instructions, want %d", len(decoded), len(instructions))
	}
	for i, instr := range instructions {
		if decoded[i].Code() != instr.Code() {
			t.Errorf("instruction %d: code = %v, want %v", i, decoded[i].Code(), instr.Code())
		}
	}
}

func TestDecodeProgramHeader(t *testing.T) {
	u8Type := ScalarTypeDescriptor(core.UnsignedInteger(8))

	var data []byte
	data = append(data, EncodeVLQ(big.NewInt(0))...)           // entry point
	data = append(data, encodeTypeDescriptorForTest(u8Type)...) // input
	data = append(data, encodeTypeDescriptorForTest(u8Type)...) // witness
	data = append(data, Simple(OpAdd).Encode()...)
	data = append(data, NewExit(1).Encode()...)

	program, err := DecodeProgram(data)
	if err != nil {
		t.Fatalf("DecodeProgram: %v", err)
	}
	if program.EntryPoint != 0 {
		t.Errorf("entry point = %d, want 0", program.EntryPoint)
	}
	if program.InputType == nil || program.InputType.Scalar == nil || program.InputType.Scalar.Tag != core.TagIntegerUnsigned {
		t.Errorf("input type = %+v, want scalar u8", program.InputType)
	}
	if len(program.Instructions) != 2 {
		t.Fatalf("decoded %d instructions, want 2", len(program.Instructions))
	}
}

// encodeTypeDescriptorForTest mirrors decodeTypeDescriptor's scalar-shape
// wire format (shape tag 0, then the scalar type bytes) since the package
// exposes no public encoder for TypeDescriptor.
func encodeTypeDescriptorForTest(t *TypeDescriptor) []byte {
	return append([]byte{0}, EncodeScalarType(*t.Scalar)...)
}
