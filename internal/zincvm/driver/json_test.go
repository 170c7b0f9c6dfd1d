package driver

import (
	"encoding/json"
	"testing"

	"github.com/zinc-project/zinc-vm/internal/zincvm/bytecode"
	"github.com/zinc-project/zinc-vm/internal/zincvm/core"
	"github.com/zinc-project/zinc-vm/internal/zincvm/vm"
)

func newTestCS(t *testing.T) *core.ConstraintSystem {
	t.Helper()
	return vm.NewConstraintSystem(vm.DefaultConfig())
}

func TestDecodeValueScalarLeaves(t *testing.T) {
	cs := newTestCS(t)

	boolScalars, err := DecodeValue(cs, json.RawMessage(`true`), bytecode.ScalarTypeDescriptor(core.Boolean))
	if err != nil {
		t.Fatalf("decoding boolean: %v", err)
	}
	if !boolScalars[0].Value().IsOne() {
		t.Error("expected true to decode to 1")
	}

	signed := core.SignedInteger(8)
	signedScalars, err := DecodeValue(cs, json.RawMessage(`-5`), bytecode.ScalarTypeDescriptor(signed))
	if err != nil {
		t.Fatalf("decoding signed integer: %v", err)
	}
	if got := core.StoredToSignedValue(signed.BitLength, signedScalars[0].Value().Big()).Int64(); got != -5 {
		t.Errorf("decoded signed value = %d, want -5", got)
	}
}

func TestDecodeValueArray(t *testing.T) {
	cs := newTestCS(t)
	u8 := core.UnsignedInteger(8)
	arrType := &bytecode.TypeDescriptor{Array: &bytecode.ArrayType{Element: bytecode.ScalarTypeDescriptor(u8), Length: 3}}

	scalars, err := DecodeValue(cs, json.RawMessage(`[1, 2, 3]`), arrType)
	if err != nil {
		t.Fatalf("DecodeValue: %v", err)
	}
	if len(scalars) != 3 {
		t.Fatalf("decoded %d scalars, want 3", len(scalars))
	}
	for i, want := range []int64{1, 2, 3} {
		if got := scalars[i].Value().Big().Int64(); got != want {
			t.Errorf("element %d = %d, want %d", i, got, want)
		}
	}
}

func TestDecodeValueArrayLengthMismatch(t *testing.T) {
	cs := newTestCS(t)
	u8 := core.UnsignedInteger(8)
	arrType := &bytecode.TypeDescriptor{Array: &bytecode.ArrayType{Element: bytecode.ScalarTypeDescriptor(u8), Length: 3}}

	if _, err := DecodeValue(cs, json.RawMessage(`[1, 2]`), arrType); err == nil {
		t.Error("expected an error when the JSON array length doesn't match the declared length")
	}
}

func TestDecodeValueStruct(t *testing.T) {
	cs := newTestCS(t)
	u8 := core.UnsignedInteger(8)
	structType := &bytecode.TypeDescriptor{Struct: &bytecode.StructType{
		Fields: []bytecode.StructField{
			{Name: "x", Type: bytecode.ScalarTypeDescriptor(u8)},
			{Name: "y", Type: bytecode.ScalarTypeDescriptor(u8)},
		},
	}}

	scalars, err := DecodeValue(cs, json.RawMessage(`{"x": 7, "y": 9}`), structType)
	if err != nil {
		t.Fatalf("DecodeValue: %v", err)
	}
	if len(scalars) != 2 {
		t.Fatalf("decoded %d scalars, want 2", len(scalars))
	}
	if got := scalars[0].Value().Big().Int64(); got != 7 {
		t.Errorf("field x = %d, want 7", got)
	}
	if got := scalars[1].Value().Big().Int64(); got != 9 {
		t.Errorf("field y = %d, want 9", got)
	}
}

func TestDecodeValueStructMissingField(t *testing.T) {
	cs := newTestCS(t)
	u8 := core.UnsignedInteger(8)
	structType := &bytecode.TypeDescriptor{Struct: &bytecode.StructType{
		Fields: []bytecode.StructField{
			{Name: "x", Type: bytecode.ScalarTypeDescriptor(u8)},
		},
	}}

	if _, err := DecodeValue(cs, json.RawMessage(`{}`), structType); err == nil {
		t.Error("expected an error for a missing struct field")
	}
}

func TestEncodeValueArrayRoundTrip(t *testing.T) {
	cs := newTestCS(t)
	u8 := core.UnsignedInteger(8)
	arrType := &bytecode.TypeDescriptor{Array: &bytecode.ArrayType{Element: bytecode.ScalarTypeDescriptor(u8), Length: 2}}

	scalars, err := DecodeValue(cs, json.RawMessage(`[4, 5]`), arrType)
	if err != nil {
		t.Fatalf("DecodeValue: %v", err)
	}

	encoded, consumed, err := EncodeValue(scalars, arrType)
	if err != nil {
		t.Fatalf("EncodeValue: %v", err)
	}
	if consumed != 2 {
		t.Errorf("consumed = %d, want 2", consumed)
	}
	out, ok := encoded.([]interface{})
	if !ok || len(out) != 2 {
		t.Fatalf("encoded = %#v, want a 2-element slice", encoded)
	}
	if out[0] != "4" || out[1] != "5" {
		t.Errorf("encoded array = %v, want [\"4\" \"5\"]", out)
	}
}

func TestEncodeValueStructRoundTrip(t *testing.T) {
	cs := newTestCS(t)
	u8 := core.UnsignedInteger(8)
	structType := &bytecode.TypeDescriptor{Struct: &bytecode.StructType{
		Fields: []bytecode.StructField{
			{Name: "a", Type: bytecode.ScalarTypeDescriptor(u8)},
			{Name: "b", Type: bytecode.ScalarTypeDescriptor(u8)},
		},
	}}

	scalars, err := DecodeValue(cs, json.RawMessage(`{"a": 1, "b": 2}`), structType)
	if err != nil {
		t.Fatalf("DecodeValue: %v", err)
	}

	encoded, _, err := EncodeValue(scalars, structType)
	if err != nil {
		t.Fatalf("EncodeValue: %v", err)
	}
	out, ok := encoded.(map[string]interface{})
	if !ok {
		t.Fatalf("encoded = %#v, want a map", encoded)
	}
	if out["a"] != "1" || out["b"] != "2" {
		t.Errorf("encoded struct = %v, want {a:1 b:2}", out)
	}
}

func TestEncodeValueSignedScalar(t *testing.T) {
	cs := newTestCS(t)
	signed := core.SignedInteger(8)

	scalars, err := DecodeValue(cs, json.RawMessage(`-3`), bytecode.ScalarTypeDescriptor(signed))
	if err != nil {
		t.Fatalf("DecodeValue: %v", err)
	}
	encoded, _, err := EncodeValue(scalars, bytecode.ScalarTypeDescriptor(signed))
	if err != nil {
		t.Fatalf("EncodeValue: %v", err)
	}
	if encoded != "-3" {
		t.Errorf("encoded signed value = %v, want \"-3\"", encoded)
	}
}
