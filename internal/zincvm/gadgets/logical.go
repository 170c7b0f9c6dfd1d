package gadgets

import (
	"github.com/zinc-project/zinc-vm/internal/zincvm/core"
	"github.com/zinc-project/zinc-vm/internal/zincvm/zerr"
)

// requireBoolean enforces spec.md §4.1: "Bitwise and/or/xor/not require
// Boolean operands."
func requireBoolean(scalars ...*core.Scalar) error {
	for _, s := range scalars {
		if s.Type().Tag != core.TagBoolean {
			return zerr.MalformedBytecode("bitwise operation requires boolean operand, got %s", s.Type())
		}
	}
	return nil
}

// Not computes the logical negation of a Boolean scalar. This is the
// bytecode-level `Not` opcode; it shares its constraint shape with
// Invert's branch-condition use (1 - c) but is exposed separately since
// the two have distinct callers in the dispatcher.
func Not(cs *core.ConstraintSystem, operand *core.Scalar) (*core.Scalar, error) {
	if err := requireBoolean(operand); err != nil {
		return nil, err
	}
	return Invert(cs, operand)
}

// Or computes the logical OR of two Boolean scalars: a + b - a*b.
// Adapted from the same constraint shape as
// original_source/zinc-vm/src/gadgets/logical/and.rs's `and`, generalized
// to OR's identity a|b = a+b-a*b.
func Or(cs *core.ConstraintSystem, left, right *core.Scalar) (*core.Scalar, error) {
	if err := requireBoolean(left, right); err != nil {
		return nil, err
	}
	prod := left.Value().Mul(right.Value())
	sum := left.Value().Add(right.Value())
	orValue := sum.Sub(prod)

	result, err := core.AllocateWitness(cs, orValue, core.Boolean)
	if err != nil {
		return nil, zerr.Synthesis(err)
	}

	// a*b = a + b - result  =>  a*b = (a+b) - result
	notResult := core.LinearCombination{
		{Variable: left.Variable(), Coefficient: cs.Field().One()},
		{Variable: right.Variable(), Coefficient: cs.Field().One()},
		{Variable: result.Variable(), Coefficient: cs.Field().One().Neg()},
	}
	cs.Enforce("or", left.LinearCombination(), right.LinearCombination(), notResult)
	return result, nil
}

// Xor computes the logical XOR of two Boolean scalars: a + b - 2*a*b,
// equivalently constrained as (2a)*(b) = a + b - result.
func Xor(cs *core.ConstraintSystem, left, right *core.Scalar) (*core.Scalar, error) {
	if err := requireBoolean(left, right); err != nil {
		return nil, err
	}
	two := cs.Field().NewElementFromInt64(2)
	prod := left.Value().Mul(right.Value())
	xorValue := left.Value().Add(right.Value()).Sub(prod.Mul(two))

	result, err := core.AllocateWitness(cs, xorValue, core.Boolean)
	if err != nil {
		return nil, zerr.Synthesis(err)
	}

	twoA := core.LinearCombination{{Variable: left.Variable(), Coefficient: two}}
	sumMinusResult := core.LinearCombination{
		{Variable: left.Variable(), Coefficient: cs.Field().One()},
		{Variable: right.Variable(), Coefficient: cs.Field().One()},
		{Variable: result.Variable(), Coefficient: cs.Field().One().Neg()},
	}
	cs.Enforce("xor", twoA, right.LinearCombination(), sumMinusResult)
	return result, nil
}
