// Package stdlib implements the standard-library calls of spec.md §4.9:
// sha256, pedersen, schnorr::verify, to_bits/from_bits_* and the collection
// helpers (array reverse/truncate/pad, MTreeMap). Every gadget here is built
// from the primitives in the sibling gadgets package, following the same
// concrete-value-plus-constraint pattern.
package stdlib

import (
	"github.com/zinc-project/zinc-vm/internal/zincvm/core"
	"github.com/zinc-project/zinc-vm/internal/zincvm/gadgets"
	"github.com/zinc-project/zinc-vm/internal/zincvm/zerr"
)

// ToBits decomposes an integer scalar to little-endian Booleans of its
// bit-width (spec.md §4.9 "to_bits"). Signed inputs are first shifted by
// 2^(n-1) so the decomposition always operates on an unsigned quantity, and
// the sign bit (the top bit of the shifted representation) is flipped back
// before it's returned, restoring the source language's two's-complement-
// like bit pattern rather than the storage-shifted one.
func ToBits(cs *core.ConstraintSystem, s *core.Scalar) ([]*core.Scalar, error) {
	switch s.Type().Tag {
	case core.TagBoolean:
		return []*core.Scalar{s}, nil
	case core.TagIntegerUnsigned:
		bits, err := gadgets.DecomposeBits(cs, s.Variable(), s.Value(), s.Type().BitLength)
		if err != nil {
			return nil, err
		}
		return bits, nil
	case core.TagIntegerSigned:
		bits, err := gadgets.DecomposeBits(cs, s.Variable(), s.Value(), s.Type().BitLength)
		if err != nil {
			return nil, err
		}
		top := s.Type().BitLength - 1
		flipped, err := gadgets.Not(cs, bits[top])
		if err != nil {
			return nil, err
		}
		bits[top] = flipped
		return bits, nil
	default:
		return nil, zerr.Stdlib("to_bits requires an integer or boolean operand, got %s", s.Type())
	}
}

// FromBitsUnsigned reconstructs an unsigned integer from its little-endian
// bit representation (spec.md §4.9 "from_bits_*", inverse of ToBits).
func FromBitsUnsigned(cs *core.ConstraintSystem, bits []*core.Scalar) (*core.Scalar, error) {
	if err := requireBooleanSlice(bits); err != nil {
		return nil, err
	}
	return repackBits(cs, bits, core.UnsignedInteger(uint(len(bits))))
}

// FromBitsSigned reconstructs a signed integer from its little-endian bit
// representation, flipping the sign bit back before repacking and shifting
// into storage form. Per the harmonized Open Question decision (spec.md §9,
// resolved in SPEC_FULL.md §4.9), bitlength must be strictly less than the
// field's capacity.
func FromBitsSigned(cs *core.ConstraintSystem, bits []*core.Scalar) (*core.Scalar, error) {
	if err := requireBooleanSlice(bits); err != nil {
		return nil, err
	}
	bitlength := uint(len(bits))
	if bitlength >= cs.Field().Capacity() {
		return nil, zerr.Stdlib("from_bits_signed: bitlength %d must be strictly less than field capacity %d", bitlength, cs.Field().Capacity())
	}

	flippedTop, err := gadgets.Not(cs, bits[bitlength-1])
	if err != nil {
		return nil, err
	}
	unshifted := append([]*core.Scalar{}, bits[:bitlength-1]...)
	unshifted = append(unshifted, flippedTop)

	unsignedPacked, err := repackBits(cs, unshifted, core.UnsignedInteger(bitlength))
	if err != nil {
		return nil, err
	}

	// unsignedPacked already carries the 2^(n-1)-shifted storage
	// representation, since ToBits flipped the same top bit on the way out.
	stored, err := core.AllocateWitness(cs, unsignedPacked.Value(), core.SignedInteger(bitlength))
	if err != nil {
		return nil, zerr.Synthesis(err)
	}
	cs.Enforce("from-bits-signed", cs.One(), unsignedPacked.LinearCombination(), stored.LinearCombination())
	return stored, nil
}

// FromBitsField reconstructs a raw field element from its little-endian bit
// representation.
func FromBitsField(cs *core.ConstraintSystem, bits []*core.Scalar) (*core.Scalar, error) {
	if err := requireBooleanSlice(bits); err != nil {
		return nil, err
	}
	return repackBits(cs, bits, core.FieldType)
}

func requireBooleanSlice(bits []*core.Scalar) error {
	for _, b := range bits {
		if b.Type().Tag != core.TagBoolean {
			return zerr.Stdlib("from_bits_* requires an all-boolean input array")
		}
	}
	return nil
}

// repackBits allocates a fresh scalar of the given type equal to the
// little-endian value of bits, constrained via the same sum-of-powers-of-
// two identity DecomposeBits uses in reverse.
func repackBits(cs *core.ConstraintSystem, bits []*core.Scalar, typ core.ScalarType) (*core.Scalar, error) {
	boolValues := make([]bool, len(bits))
	for i, b := range bits {
		boolValues[i] = b.Value().IsOne()
	}
	value := gadgets.Repack(cs.Field(), boolValues)

	result, err := core.AllocateWitness(cs, value, typ)
	if err != nil {
		return nil, zerr.Synthesis(err)
	}

	terms := core.LinearCombination{}
	coeff := cs.Field().One()
	two := cs.Field().NewElementFromInt64(2)
	for _, b := range bits {
		terms = append(terms, core.Term{Variable: b.Variable(), Coefficient: coeff})
		coeff = coeff.Mul(two)
	}
	cs.Enforce("repack-bits", cs.One(), terms, result.LinearCombination())
	return result, nil
}
