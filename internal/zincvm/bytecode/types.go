package bytecode

import (
	"fmt"

	"github.com/zinc-project/zinc-vm/internal/zincvm/core"
)

// TypeTag is the wire tag byte for a scalar type (spec.md §6: "tag byte
// (Boolean=0, IntegerUnsigned=1, IntegerSigned=2, Field=3)").
type TypeTag uint8

const (
	TypeTagBoolean TypeTag = iota
	TypeTagIntegerUnsigned
	TypeTagIntegerSigned
	TypeTagField
)

// EncodeScalarType serializes a core.ScalarType to its wire form: the tag
// byte, followed by a bit-length byte for integer types.
func EncodeScalarType(t core.ScalarType) []byte {
	switch t.Tag {
	case core.TagBoolean:
		return []byte{byte(TypeTagBoolean)}
	case core.TagIntegerUnsigned:
		return []byte{byte(TypeTagIntegerUnsigned), byte(t.BitLength)}
	case core.TagIntegerSigned:
		return []byte{byte(TypeTagIntegerSigned), byte(t.BitLength)}
	case core.TagField:
		return []byte{byte(TypeTagField)}
	default:
		panic("bytecode: unknown ScalarTypeTag")
	}
}

// DecodeScalarType parses a scalar type from the start of bytes, returning
// the type and the number of bytes consumed. Bit-lengths are validated
// against spec.md §6's declared range (1 for bool, multiples of 8 up to
// 248 for integers, 254 for Field).
func DecodeScalarType(bytes []byte) (core.ScalarType, int, error) {
	if len(bytes) < 1 {
		return core.ScalarType{}, 0, ErrUnexpectedEOF
	}
	switch TypeTag(bytes[0]) {
	case TypeTagBoolean:
		return core.Boolean, 1, nil
	case TypeTagField:
		return core.FieldType, 1, nil
	case TypeTagIntegerUnsigned, TypeTagIntegerSigned:
		if len(bytes) < 2 {
			return core.ScalarType{}, 0, ErrUnexpectedEOF
		}
		bits := uint(bytes[1])
		if bits == 0 || bits > 248 || bits%8 != 0 {
			return core.ScalarType{}, 0, fmt.Errorf("bytecode: invalid integer bit-length %d", bits)
		}
		if TypeTag(bytes[0]) == TypeTagIntegerUnsigned {
			return core.UnsignedInteger(bits), 2, nil
		}
		return core.SignedInteger(bits), 2, nil
	default:
		return core.ScalarType{}, 0, fmt.Errorf("bytecode: unknown type tag %d", bytes[0])
	}
}

// TypeDescriptor is a recursive type-tree node describing a declared
// input/witness/output shape: a scalar leaf, a fixed-size array of a
// uniform element type, or a struct/tuple of named or positional fields
// (spec.md §6: "arrays and tuples/structs are recursively destructured").
type TypeDescriptor struct {
	Scalar *core.ScalarType
	Array  *ArrayType
	Struct *StructType
}

// ArrayType is a fixed-length homogeneous array type.
type ArrayType struct {
	Element *TypeDescriptor
	Length  int
}

// StructType is an ordered list of named fields (a tuple uses empty names).
type StructType struct {
	Fields []StructField
}

// StructField is one named (or positionally-named) field of a StructType.
type StructField struct {
	Name string
	Type *TypeDescriptor
}

// ScalarTypeDescriptor wraps a bare scalar type as a TypeDescriptor leaf.
func ScalarTypeDescriptor(t core.ScalarType) *TypeDescriptor {
	tc := t
	return &TypeDescriptor{Scalar: &tc}
}
