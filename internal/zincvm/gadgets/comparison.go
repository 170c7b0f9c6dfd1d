package gadgets

import (
	"math/big"

	"github.com/zinc-project/zinc-vm/internal/zincvm/core"
	"github.com/zinc-project/zinc-vm/internal/zincvm/zerr"
)

// requireComparable enforces spec.md §4.1: "Comparisons accept any matching
// integer or field type."
func requireComparable(left, right *core.Scalar) error {
	if !left.Type().Equal(right.Type()) {
		return zerr.MalformedBytecode("comparison operands must share a type, got %s and %s", left.Type(), right.Type())
	}
	return nil
}

// Le implements a <= b following the original evaluator's construction
// (zinc/src/primitive/constrained/mod.rs's `le`): compute d = b - a,
// decompose it into its full field-width bit representation (constraining
// that decomposition to repack to d), then repack only the low
// (field_capacity - 1) bits into a second witness and require it equal to
// d. d repacks equal to its own low bits exactly when none of its higher
// bits are set, i.e. when b - a did not wrap around modulo p and is
// non-negative within the field's capacity — so the result Boolean is
// bound in-circuit to this bit decomposition via Eq's is-zero construction,
// not left as an unconstrained free witness.
func Le(cs *core.ConstraintSystem, a, b *core.Scalar) (*core.Scalar, error) {
	if err := requireComparable(a, b); err != nil {
		return nil, err
	}

	d := b.Value().Sub(a.Value())
	dScalar, err := core.AllocateWitness(cs, d, core.FieldType)
	if err != nil {
		return nil, zerr.Synthesis(err)
	}
	// b - a = d
	cs.Enforce("le-diff", cs.One(), core.LinearCombination{
		{Variable: b.Variable(), Coefficient: cs.Field().One()},
		{Variable: a.Variable(), Coefficient: cs.Field().One().Neg()},
	}, dScalar.LinearCombination())

	capacity := cs.Field().Capacity()
	checkBits := capacity - 1
	fullBits := uint(cs.Field().Modulus().BitLen())

	bits, err := DecomposeBits(cs, dScalar.Variable(), d, fullBits)
	if err != nil {
		return nil, err
	}
	lowBits := bits[:checkBits]

	lowValue := cs.Field().Zero()
	pow := big.NewInt(1)
	for _, bit := range lowBits {
		if bit.Value().IsOne() {
			lowValue = lowValue.Add(cs.Field().NewElement(new(big.Int).Set(pow)))
		}
		pow.Lsh(pow, 1)
	}
	repacked, err := core.AllocateWitness(cs, lowValue, core.FieldType)
	if err != nil {
		return nil, zerr.Synthesis(err)
	}

	terms := core.LinearCombination{}
	pow = big.NewInt(1)
	for _, bit := range lowBits {
		terms = append(terms, core.Term{Variable: bit.Variable(), Coefficient: cs.Field().NewElement(new(big.Int).Set(pow))})
		pow.Lsh(pow, 1)
	}
	cs.Enforce("le-low-bits-repack", cs.One(), terms, repacked.LinearCombination())

	return Eq(cs, dScalar, repacked)
}

// Lt implements a < b as not(Le(b, a)).
func Lt(cs *core.ConstraintSystem, a, b *core.Scalar) (*core.Scalar, error) {
	geResult, err := Le(cs, b, a)
	if err != nil {
		return nil, err
	}
	return Invert(cs, geResult)
}

// Ge implements a >= b as Le(b, a).
func Ge(cs *core.ConstraintSystem, a, b *core.Scalar) (*core.Scalar, error) {
	return Le(cs, b, a)
}

// Gt implements a > b as not(Le(a, b)).
func Gt(cs *core.ConstraintSystem, a, b *core.Scalar) (*core.Scalar, error) {
	leResult, err := Le(cs, a, b)
	if err != nil {
		return nil, err
	}
	return Invert(cs, leResult)
}

// Eq implements a == b via (a-b) being zero: allocate the inverse of
// (a-b) when nonzero (or zero when a-b is zero) and enforce the standard
// is-zero gadget identity.
func Eq(cs *core.ConstraintSystem, a, b *core.Scalar) (*core.Scalar, error) {
	if err := requireComparable(a, b); err != nil {
		return nil, err
	}

	diff := a.Value().Sub(b.Value())
	isZero := diff.IsZero()

	var invValue *core.FieldElement
	if isZero {
		invValue = cs.Field().Zero()
	} else {
		inv, err := diff.Inv()
		if err != nil {
			return nil, zerr.Synthesis(err)
		}
		invValue = inv
	}
	invScalar, err := core.AllocateWitness(cs, invValue, core.FieldType)
	if err != nil {
		return nil, zerr.Synthesis(err)
	}

	resultValue := cs.Field().Zero()
	if isZero {
		resultValue = cs.Field().One()
	}
	result, err := core.AllocateWitness(cs, resultValue, core.Boolean)
	if err != nil {
		return nil, zerr.Synthesis(err)
	}

	diffLC := core.LinearCombination{
		{Variable: a.Variable(), Coefficient: cs.Field().One()},
		{Variable: b.Variable(), Coefficient: cs.Field().One().Neg()},
	}
	// diff * (1 - result) = 0  =>  diff is zero whenever result = 1.
	oneMinusResult := core.LinearCombination{
		{Variable: result.Variable(), Coefficient: cs.Field().One().Neg()},
	}
	oneMinusResult = append(oneMinusResult, core.Term{Variable: 0, Coefficient: cs.Field().One()})
	cs.Enforce("eq-zero-when-equal", diffLC, oneMinusResult, core.LinearCombination{})

	// diff * inv = 1 - result  =>  result forced to 0 whenever diff != 0.
	oneMinusResult2 := core.LinearCombination{
		{Variable: 0, Coefficient: cs.Field().One()},
		{Variable: result.Variable(), Coefficient: cs.Field().One().Neg()},
	}
	cs.Enforce("eq-nonzero-forces-false", diffLC, invScalar.LinearCombination(), oneMinusResult2)

	return result, nil
}

// Ne implements a != b as not(Eq(a, b)).
func Ne(cs *core.ConstraintSystem, a, b *core.Scalar) (*core.Scalar, error) {
	eqResult, err := Eq(cs, a, b)
	if err != nil {
		return nil, err
	}
	return Invert(cs, eqResult)
}
