package stdlib

import (
	"math/big"
	"testing"

	"github.com/zinc-project/zinc-vm/internal/zincvm/core"
)

func bitsToInt64(bits []*core.Scalar) int64 {
	var v int64
	for i, b := range bits {
		if b.Value().IsOne() {
			v |= 1 << uint(i)
		}
	}
	return v
}

func TestToBitsUnsigned(t *testing.T) {
	cs := newTestCS(t)
	s, err := core.NewConstant(cs, cs.Field().NewElementFromInt64(5), core.UnsignedInteger(8))
	if err != nil {
		t.Fatalf("allocating u8: %v", err)
	}

	bits, err := ToBits(cs, s)
	if err != nil {
		t.Fatalf("ToBits: %v", err)
	}
	if len(bits) != 8 {
		t.Fatalf("ToBits(u8) length = %d, want 8", len(bits))
	}
	if got := bitsToInt64(bits); got != 5 {
		t.Errorf("ToBits(5) repacked = %d, want 5", got)
	}
}

func TestToBitsBoolean(t *testing.T) {
	cs := newTestCS(t)
	s, err := core.NewConstantBool(cs, true)
	if err != nil {
		t.Fatalf("allocating bool: %v", err)
	}
	bits, err := ToBits(cs, s)
	if err != nil {
		t.Fatalf("ToBits: %v", err)
	}
	if len(bits) != 1 || !bits[0].Value().IsOne() {
		t.Errorf("ToBits(true) = %v, want [true]", bits)
	}
}

func TestToBitsRejectsField(t *testing.T) {
	cs := newTestCS(t)
	s, err := core.NewConstant(cs, cs.Field().NewElementFromInt64(1), core.FieldType)
	if err != nil {
		t.Fatalf("allocating field element: %v", err)
	}
	if _, err := ToBits(cs, s); err == nil {
		t.Error("expected an error calling to_bits on a raw Field scalar")
	}
}

func TestFromBitsUnsignedRoundTrip(t *testing.T) {
	cs := newTestCS(t)
	s, err := core.NewConstant(cs, cs.Field().NewElementFromInt64(200), core.UnsignedInteger(8))
	if err != nil {
		t.Fatalf("allocating u8: %v", err)
	}
	bits, err := ToBits(cs, s)
	if err != nil {
		t.Fatalf("ToBits: %v", err)
	}

	back, err := FromBitsUnsigned(cs, bits)
	if err != nil {
		t.Fatalf("FromBitsUnsigned: %v", err)
	}
	if got := back.Value().Big().Int64(); got != 200 {
		t.Errorf("round-tripped value = %d, want 200", got)
	}
}

func TestFromBitsSignedRoundTrip(t *testing.T) {
	cs := newTestCS(t)
	signed := core.SignedInteger(8)
	stored := core.SignedValueToStored(cs.Field(), signed.BitLength, big.NewInt(-5))
	s, err := core.NewConstant(cs, stored, signed)
	if err != nil {
		t.Fatalf("allocating i8: %v", err)
	}

	bits, err := ToBits(cs, s)
	if err != nil {
		t.Fatalf("ToBits: %v", err)
	}

	back, err := FromBitsSigned(cs, bits)
	if err != nil {
		t.Fatalf("FromBitsSigned: %v", err)
	}
	if got := core.StoredToSignedValue(signed.BitLength, back.Value().Big()).Int64(); got != -5 {
		t.Errorf("round-tripped signed value = %d, want -5", got)
	}
}

func TestFromBitsRejectsNonBoolean(t *testing.T) {
	cs := newTestCS(t)
	nonBool := scalarFor(t, cs, 1)
	if _, err := FromBitsUnsigned(cs, []*core.Scalar{nonBool}); err == nil {
		t.Error("expected an error reconstructing from a non-boolean input array")
	}
}

func TestFromBitsField(t *testing.T) {
	cs := newTestCS(t)
	one, err := core.NewConstantBool(cs, true)
	if err != nil {
		t.Fatalf("allocating bit: %v", err)
	}
	zero, err := core.NewConstantBool(cs, false)
	if err != nil {
		t.Fatalf("allocating bit: %v", err)
	}

	// little-endian 0b101 = 5
	field, err := FromBitsField(cs, []*core.Scalar{one, zero, one})
	if err != nil {
		t.Fatalf("FromBitsField: %v", err)
	}
	if got := field.Value().Big().Int64(); got != 5 {
		t.Errorf("FromBitsField([1,0,1]) = %d, want 5", got)
	}
}
