package core

import (
	"fmt"
	"math/big"
)

// ScalarTypeTag identifies the static shape of a ScalarType.
type ScalarTypeTag uint8

const (
	// TagBoolean is a single-bit scalar type, value in {0,1}.
	TagBoolean ScalarTypeTag = iota
	// TagIntegerUnsigned is an unsigned integer of a fixed bit-length.
	TagIntegerUnsigned
	// TagIntegerSigned is a two's-complement-range signed integer of a
	// fixed bit-length (represented in the field shifted by 2^(n-1)).
	TagIntegerSigned
	// TagField is a raw, unranged element of the configured field.
	TagField
)

// ScalarType is the compile-time-like tag travelling with every Scalar.
type ScalarType struct {
	Tag       ScalarTypeTag
	BitLength uint // meaningful only for TagIntegerUnsigned/TagIntegerSigned
}

// Boolean is the canonical boolean scalar type.
var Boolean = ScalarType{Tag: TagBoolean, BitLength: 1}

// FieldType is the canonical raw field scalar type.
var FieldType = ScalarType{Tag: TagField}

// UnsignedInteger returns the unsigned integer type of the given bit-width.
func UnsignedInteger(bits uint) ScalarType {
	return ScalarType{Tag: TagIntegerUnsigned, BitLength: bits}
}

// SignedInteger returns the signed integer type of the given bit-width.
func SignedInteger(bits uint) ScalarType {
	return ScalarType{Tag: TagIntegerSigned, BitLength: bits}
}

// IsInteger reports whether the type is signed or unsigned integer.
func (t ScalarType) IsInteger() bool {
	return t.Tag == TagIntegerUnsigned || t.Tag == TagIntegerSigned
}

// Equal reports structural type equality.
func (t ScalarType) Equal(other ScalarType) bool {
	return t.Tag == other.Tag && t.BitLength == other.BitLength
}

// String renders a human-readable type name, used in error messages.
func (t ScalarType) String() string {
	switch t.Tag {
	case TagBoolean:
		return "bool"
	case TagField:
		return "field"
	case TagIntegerUnsigned:
		return fmt.Sprintf("u%d", t.BitLength)
	case TagIntegerSigned:
		return fmt.Sprintf("i%d", t.BitLength)
	default:
		return "unknown"
	}
}

// Scalar is a field element paired with its circuit variable and static
// type, the central value every gadget and instruction operates on
// (spec.md §3).
type Scalar struct {
	cs       *ConstraintSystem
	value    *FieldElement // concrete value, always populated: the VM always runs with a concrete witness (spec.md §2).
	variable Variable
	typ      ScalarType
}

// ConstraintSystem returns the constraint system this scalar was allocated
// in.
func (s *Scalar) ConstraintSystem() *ConstraintSystem { return s.cs }

// Value returns the scalar's concrete field value.
func (s *Scalar) Value() *FieldElement { return s.value }

// Variable returns the scalar's circuit variable handle.
func (s *Scalar) Variable() Variable { return s.variable }

// Type returns the scalar's static type.
func (s *Scalar) Type() ScalarType { return s.typ }

// LinearCombination returns the 1*variable linear combination for this
// scalar, the form every gadget's Enforce calls consume.
func (s *Scalar) LinearCombination() LinearCombination {
	return s.cs.LC(s.variable, s.cs.field.One())
}

// NewConstant allocates a scalar whose value is a compile-time-known
// constant: the variable is still allocated (so it participates uniformly
// in linear combinations) but no extra range-check constraint is required
// beyond the type's already-known range.
func NewConstant(cs *ConstraintSystem, value *FieldElement, typ ScalarType) (*Scalar, error) {
	if err := checkStaticRange(value, typ); err != nil {
		return nil, err
	}
	v := cs.AllocVariable(value)
	return &Scalar{cs: cs, value: value, variable: v, typ: typ}, nil
}

// NewConstantBool allocates a constant Boolean scalar.
func NewConstantBool(cs *ConstraintSystem, b bool) (*Scalar, error) {
	val := cs.field.Zero()
	if b {
		val = cs.field.One()
	}
	return NewConstant(cs, val, Boolean)
}

// AllocateWitness allocates a fresh variable for the given value and type.
// A Boolean type is checked and constrained to {0,1} at allocation time
// (spec.md §3 invariants: "enforced on allocation of any variable claimed
// to be Boolean"); Integer range is not checked here (see
// checkStaticRange).
func AllocateWitness(cs *ConstraintSystem, value *FieldElement, typ ScalarType) (*Scalar, error) {
	if err := checkStaticRange(value, typ); err != nil {
		return nil, err
	}
	v := cs.AllocVariable(value)
	s := &Scalar{cs: cs, value: value, variable: v, typ: typ}
	if typ.Tag == TagBoolean {
		enforceBoolean(cs, s)
	}
	return s, nil
}

// enforceBoolean enforces b*(1-b) = 0, the standard Boolean constraint.
func enforceBoolean(cs *ConstraintSystem, s *Scalar) {
	one := cs.One()
	notB := LinearCombination{
		{Variable: constantOneVariable, Coefficient: cs.field.One()},
		{Variable: s.variable, Coefficient: cs.field.One().Neg()},
	}
	cs.Enforce("boolean", s.LinearCombination(), notB, LinearCombination{})
	_ = one
}

// checkStaticRange validates value against typ's declared range where that
// range is enforced unconditionally (Boolean: spec.md §3's "enforced on
// allocation of any variable claimed to be Boolean"). Integer magnitude is
// deliberately NOT checked here: spec.md §4.1 defers overflow detection on
// arithmetic results to an explicit type_check, so an Integer-typed Scalar
// may transiently hold an out-of-range value between its producing
// operation and its next type_check. RangeCheck in the gadgets package is
// the only place Integer range is actually enforced as a constraint.
func checkStaticRange(value *FieldElement, typ ScalarType) error {
	if typ.Tag == TagBoolean && !(value.IsZero() || value.IsOne()) {
		return fmt.Errorf("boolean scalar value %s not in {0,1}", value)
	}
	return nil
}

// SignedShift returns 2^(n-1) for an n-bit signed integer type, the offset
// used to map [-2^(n-1), 2^(n-1)) onto [0, 2^n) for in-field storage.
func SignedShift(field *Field, bits uint) *FieldElement {
	shift := new(big.Int).Lsh(big.NewInt(1), bits-1)
	return field.NewElement(shift)
}

// SignedValueToStored maps a signed integer's mathematical value to its
// shifted in-field representative.
func SignedValueToStored(field *Field, bits uint, v *big.Int) *FieldElement {
	shift := new(big.Int).Lsh(big.NewInt(1), bits-1)
	shifted := new(big.Int).Add(v, shift)
	return field.NewElement(shifted)
}

// StoredToSignedValue maps a signed integer's shifted in-field
// representative back to its mathematical value.
func StoredToSignedValue(bits uint, stored *big.Int) *big.Int {
	shift := new(big.Int).Lsh(big.NewInt(1), bits-1)
	return new(big.Int).Sub(stored, shift)
}
