// Package gadgets implements the primitive operations on Scalars described
// in spec.md §4.1-§4.3: arithmetic, bitwise, comparison, conditional
// select, range-check, bit decomposition and casts. Every gadget both
// computes a concrete result (so the VM can keep executing) and enforces
// the R1CS constraints that make the result provably correct, mirroring
// the dual role the original Rust zinc-vm's gadgets play over
// franklin-crypto/bellman (see original_source/zinc-vm/src/gadgets/logical/and.rs).
package gadgets

import (
	"math/big"

	"github.com/zinc-project/zinc-vm/internal/zincvm/core"
	"github.com/zinc-project/zinc-vm/internal/zincvm/zerr"
)

// DecomposeBits allocates `numBits` fresh Boolean scalars representing the
// little-endian bit decomposition of value, and enforces that they repack
// (via powers of two) to the given linear combination. This underlies both
// RangeCheck (§4.1 "type-check") and the to_bits/from_bits standard-library
// calls (§4.9).
func DecomposeBits(cs *core.ConstraintSystem, variable core.Variable, value *core.FieldElement, numBits uint) ([]*core.Scalar, error) {
	bits := make([]*core.Scalar, numBits)
	v := value.Big()

	terms := core.LinearCombination{}
	pow := big.NewInt(1)
	for i := uint(0); i < numBits; i++ {
		bit := v.Bit(int(i)) == 1
		b, err := core.AllocateWitness(cs, boolElement(cs, bit), core.Boolean)
		if err != nil {
			return nil, zerr.Synthesis(err)
		}
		bits[i] = b
		coeff := cs.Field().NewElement(new(big.Int).Set(pow))
		terms = append(terms, core.Term{Variable: b.Variable(), Coefficient: coeff})
		pow.Lsh(pow, 1)
	}

	cs.Enforce("bit-decomposition-repack", cs.One(), terms, cs.LC(variable, cs.Field().One()))
	return bits, nil
}

func boolElement(cs *core.ConstraintSystem, b bool) *core.FieldElement {
	if b {
		return cs.Field().One()
	}
	return cs.Field().Zero()
}

// RangeCheck enforces that s's concrete value already lies within its
// declared type's range, by decomposing it into bits and re-summing them
// (spec.md §4.1's "type_check" operation and §3's invariants on Integer and
// Boolean scalars). It returns a RuntimeError, not a MalformedBytecode
// error, if the value is out of range: this is the range-check failure
// that witnesses an integer overflow at runtime (spec.md §7).
func RangeCheck(cs *core.ConstraintSystem, s *core.Scalar) error {
	switch s.Type().Tag {
	case core.TagBoolean:
		v := s.Value().Big()
		if v.Sign() != 0 && v.Cmp(big.NewInt(1)) != 0 {
			return zerr.Runtime("boolean value %s out of range", s.Value())
		}
	case core.TagIntegerUnsigned, core.TagIntegerSigned:
		bits := s.Type().BitLength
		bound := new(big.Int).Lsh(big.NewInt(1), bits)
		v := s.Value().Big()
		if v.Sign() < 0 || v.Cmp(bound) >= 0 {
			return zerr.Runtime("%s value out of range for type %s", s.Value(), s.Type())
		}
		if _, err := DecomposeBits(cs, s.Variable(), s.Value(), bits); err != nil {
			return err
		}
	case core.TagField:
		// unranged
	}
	return nil
}

// Repack reconstructs a field value from little-endian boolean bits,
// without allocating new variables (used by from_bits_* to build the
// output scalar from already-allocated bit scalars).
func Repack(field *core.Field, bits []bool) *core.FieldElement {
	v := big.NewInt(0)
	for i := len(bits) - 1; i >= 0; i-- {
		v.Lsh(v, 1)
		if bits[i] {
			v.Or(v, big.NewInt(1))
		}
	}
	return field.NewElement(v)
}
