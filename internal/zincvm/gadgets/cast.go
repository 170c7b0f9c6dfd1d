package gadgets

import (
	"math/big"

	"github.com/zinc-project/zinc-vm/internal/zincvm/core"
	"github.com/zinc-project/zinc-vm/internal/zincvm/zerr"
)

// Cast converts a scalar to a target type per spec.md §4.1's cast rules:
// widening an integer to a wider integer of the same signedness, or to
// Field, is always permitted and requires no new range constraint beyond
// the source's own. Narrowing, or converting between signed and unsigned,
// is only legal when the source's concrete value fits the narrower type;
// this is re-checked on every cast with a fresh RangeCheck rather than
// rejected at compile time, since the VM only ever sees concrete witnesses.
func Cast(cs *core.ConstraintSystem, s *core.Scalar, target core.ScalarType) (*core.Scalar, error) {
	source := s.Type()
	if source.Equal(target) {
		return s, nil
	}

	if target.Tag == core.TagField {
		return castToField(cs, s)
	}
	if target.Tag == core.TagBoolean {
		return nil, zerr.MalformedBytecode("cannot cast %s to boolean", source)
	}
	if source.Tag == core.TagBoolean {
		return castFromBoolean(cs, s, target)
	}

	if !source.IsInteger() && source.Tag != core.TagField {
		return nil, zerr.MalformedBytecode("cast source %s is not castable", source)
	}

	return castInteger(cs, s, target)
}

// castToField reinterprets an integer or boolean scalar as an unranged
// field element, preserving its mathematical value (undoing the signed
// shift first, if necessary, since Field has no notion of sign).
func castToField(cs *core.ConstraintSystem, s *core.Scalar) (*core.Scalar, error) {
	value := mathematicalValue(s)
	result, err := core.AllocateWitness(cs, cs.Field().NewElement(value), core.FieldType)
	if err != nil {
		return nil, zerr.Synthesis(err)
	}
	// result = stored value - shift, so the constraint matches the witness.
	unshifted := append(s.LinearCombination(), core.Term{Variable: 0, Coefficient: shiftFor(cs.Field(), s.Type()).Neg()})
	cs.Enforce("cast-to-field", cs.One(), unshifted, result.LinearCombination())
	return result, nil
}

func castFromBoolean(cs *core.ConstraintSystem, s *core.Scalar, target core.ScalarType) (*core.Scalar, error) {
	value := s.Value().Big()
	result, err := allocateChecked(cs, value, target)
	if err != nil {
		return nil, err
	}
	cs.Enforce("cast-from-boolean", cs.One(), s.LinearCombination(), result.LinearCombination())
	return result, nil
}

// castInteger handles integer-to-integer (widening, narrowing, or
// signedness change) and field-to-integer casts. The mathematical value is
// recovered from the source (undoing any signed shift), then re-checked
// and re-shifted for the target, and a fresh RangeCheck enforces that the
// target's declared range actually holds it.
func castInteger(cs *core.ConstraintSystem, s *core.Scalar, target core.ScalarType) (*core.Scalar, error) {
	value := mathematicalValue(s)

	result, err := allocateChecked(cs, value, target)
	if err != nil {
		return nil, err
	}

	// The cast does not directly constrain result against s's variable
	// with a single linear equation when a sign-shift is involved (the
	// shift differs between source and target bit-widths), so instead we
	// constrain via the recovered mathematical value through an
	// intermediate: enforce that source's stored representation, minus its
	// own shift (if signed), equals target's stored representation minus
	// its shift.
	sourceShift := shiftFor(cs.Field(), s.Type())
	targetShift := shiftFor(cs.Field(), target)

	lhs := core.LinearCombination{
		{Variable: s.Variable(), Coefficient: cs.Field().One()},
	}
	rhs := core.LinearCombination{
		{Variable: result.Variable(), Coefficient: cs.Field().One()},
	}
	// lhs (source stored) - sourceShift = rhs (target stored) - targetShift
	// <=> lhs + targetShift = rhs + sourceShift
	lhsPlusTargetShift := append(core.LinearCombination{}, lhs...)
	lhsPlusTargetShift = append(lhsPlusTargetShift, core.Term{Variable: 0, Coefficient: targetShift})
	rhsPlusSourceShift := append(core.LinearCombination{}, rhs...)
	rhsPlusSourceShift = append(rhsPlusSourceShift, core.Term{Variable: 0, Coefficient: sourceShift})
	cs.Enforce("cast-integer", cs.One(), lhsPlusTargetShift, rhsPlusSourceShift)

	if err := RangeCheck(cs, result); err != nil {
		return nil, err
	}
	return result, nil
}

// mathematicalValue returns a scalar's signed mathematical value as a
// big.Int, undoing the 2^(n-1) storage shift for signed integer types.
func mathematicalValue(s *core.Scalar) *big.Int {
	if s.Type().Tag == core.TagIntegerSigned {
		return core.StoredToSignedValue(s.Type().BitLength, s.Value().Big())
	}
	return s.Value().Big()
}

// allocateChecked builds the target type's stored field representation
// from a mathematical value and allocates it. AllocateWitness does not
// check Integer magnitude, so a value that does not fit an integer target
// is allocated anyway; castInteger's RangeCheck then reports it as a
// RuntimeError (not MalformedBytecode): an out-of-range cast is a
// witness-dependent failure, not a static one. The RuntimeError returned
// here only wraps an AllocateWitness failure, which happens only for a
// Boolean target (and Cast rejects those before reaching here).
func allocateChecked(cs *core.ConstraintSystem, mathValue *big.Int, target core.ScalarType) (*core.Scalar, error) {
	var stored *core.FieldElement
	switch target.Tag {
	case core.TagIntegerSigned:
		stored = core.SignedValueToStored(cs.Field(), target.BitLength, mathValue)
	case core.TagIntegerUnsigned:
		stored = cs.Field().NewElement(mathValue)
	default:
		stored = cs.Field().NewElement(mathValue)
	}

	result, err := core.AllocateWitness(cs, stored, target)
	if err != nil {
		return nil, zerr.Runtime("cast target value out of range for %s: %s", target, err)
	}
	return result, nil
}

// shiftFor returns the storage shift for a scalar type: 2^(n-1) for signed
// integers, zero otherwise.
func shiftFor(field *core.Field, typ core.ScalarType) *core.FieldElement {
	if typ.Tag == core.TagIntegerSigned {
		return core.SignedShift(field, typ.BitLength)
	}
	return field.Zero()
}
