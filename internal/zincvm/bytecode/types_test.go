package bytecode

import (
	"testing"

	"github.com/zinc-project/zinc-vm/internal/zincvm/core"
)

func TestScalarTypeRoundTrip(t *testing.T) {
	types := []core.ScalarType{
		core.Boolean,
		core.FieldType,
		core.UnsignedInteger(8),
		core.UnsignedInteger(248),
		core.SignedInteger(32),
	}
	for _, typ := range types {
		encoded := EncodeScalarType(typ)
		decoded, n, err := DecodeScalarType(encoded)
		if err != nil {
			t.Fatalf("DecodeScalarType(%s): %v", typ, err)
		}
		if n != len(encoded) {
			t.Errorf("%s: consumed %d bytes, want %d", typ, n, len(encoded))
		}
		if !decoded.Equal(typ) {
			t.Errorf("round-trip(%s) = %s", typ, decoded)
		}
	}
}

func TestDecodeScalarTypeRejectsBadBitLength(t *testing.T) {
	// IntegerUnsigned tag with a bit length that isn't a multiple of 8.
	if _, _, err := DecodeScalarType([]byte{byte(TypeTagIntegerUnsigned), 5}); err == nil {
		t.Error("expected non-multiple-of-8 bit length to be rejected")
	}
	if _, _, err := DecodeScalarType([]byte{byte(TypeTagIntegerUnsigned), 0}); err == nil {
		t.Error("expected zero bit length to be rejected")
	}
}

func TestDecodeScalarTypeTruncated(t *testing.T) {
	if _, _, err := DecodeScalarType(nil); err == nil {
		t.Error("expected empty input to fail")
	}
	if _, _, err := DecodeScalarType([]byte{byte(TypeTagIntegerSigned)}); err == nil {
		t.Error("expected missing bit-length byte to fail")
	}
}
