package gadgets

import (
	"github.com/zinc-project/zinc-vm/internal/zincvm/core"
	"github.com/zinc-project/zinc-vm/internal/zincvm/zerr"
)

// ConditionalSelect enforces (t-f)*c = (s-f) for a Boolean condition c,
// returning s = t if c else f (spec.md §4.3). c must already carry type
// Boolean; t and f must share the same type, which the result inherits.
func ConditionalSelect(cs *core.ConstraintSystem, c, t, f *core.Scalar) (*core.Scalar, error) {
	if c.Type().Tag != core.TagBoolean {
		return nil, zerr.MalformedBytecode("conditional_select condition must be boolean, got %s", c.Type())
	}
	if !t.Type().Equal(f.Type()) {
		return nil, zerr.MalformedBytecode("conditional_select branch types differ: %s vs %s", t.Type(), f.Type())
	}

	var resultValue *core.FieldElement
	if c.Value().IsOne() {
		resultValue = t.Value()
	} else {
		resultValue = f.Value()
	}

	result, err := core.AllocateWitness(cs, resultValue, t.Type())
	if err != nil {
		return nil, zerr.Synthesis(err)
	}

	// (t - f) * c = (s - f)
	tMinusF := core.LinearCombination{
		{Variable: t.Variable(), Coefficient: cs.Field().One()},
		{Variable: f.Variable(), Coefficient: cs.Field().One().Neg()},
	}
	sMinusF := core.LinearCombination{
		{Variable: result.Variable(), Coefficient: cs.Field().One()},
		{Variable: f.Variable(), Coefficient: cs.Field().One().Neg()},
	}
	cs.Enforce("conditional-select", tMinusF, c.LinearCombination(), sMinusF)

	return result, nil
}

// Invert returns the logical negation of a Boolean condition scalar,
// 1 - c, itself freshly range-checked as Boolean (spec.md §4.4, "On Else
// the top condition is inverted").
func Invert(cs *core.ConstraintSystem, c *core.Scalar) (*core.Scalar, error) {
	if c.Type().Tag != core.TagBoolean {
		return nil, zerr.MalformedBytecode("invert requires a boolean scalar, got %s", c.Type())
	}
	notValue := cs.Field().One().Sub(c.Value())
	notC, err := core.AllocateWitness(cs, notValue, core.Boolean)
	if err != nil {
		return nil, zerr.Synthesis(err)
	}
	// c + notC = 1
	sum := core.LinearCombination{
		{Variable: c.Variable(), Coefficient: cs.Field().One()},
		{Variable: notC.Variable(), Coefficient: cs.Field().One()},
	}
	cs.Enforce("invert-condition", cs.One(), sum, cs.One())
	return notC, nil
}

// And combines the running condition-stack product: returns a freshly
// allocated Boolean equal to a*b, used to fold the condition stack into a
// single "active condition" (spec.md §4.4: "A condition stack accumulates
// the logical AND of all enclosing branch guards").
func And(cs *core.ConstraintSystem, a, b *core.Scalar) (*core.Scalar, error) {
	if a.Type().Tag != core.TagBoolean || b.Type().Tag != core.TagBoolean {
		return nil, zerr.MalformedBytecode("and requires boolean operands")
	}
	prod := a.Value().Mul(b.Value())
	result, err := core.AllocateWitness(cs, prod, core.Boolean)
	if err != nil {
		return nil, zerr.Synthesis(err)
	}
	cs.Enforce("and", a.LinearCombination(), b.LinearCombination(), result.LinearCombination())
	return result, nil
}

// LinearArraySelect implements the linear-scan dynamic array access of
// spec.md §4.3: for a query index (itself a Scalar), it builds a new
// vector where only the slot whose constant index equals the query is
// replaced, via a chain of equality-gated ConditionalSelects.
func LinearArraySelect(cs *core.ConstraintSystem, values []*core.Scalar, index *core.Scalar, newValue *core.Scalar) ([]*core.Scalar, error) {
	out := make([]*core.Scalar, len(values))
	for i, v := range values {
		isSelected, err := indexEquals(cs, index, i)
		if err != nil {
			return nil, err
		}
		merged, err := ConditionalSelect(cs, isSelected, newValue, v)
		if err != nil {
			return nil, err
		}
		out[i] = merged
	}
	return out, nil
}

func indexEquals(cs *core.ConstraintSystem, index *core.Scalar, i int) (*core.Scalar, error) {
	constIdx, err := core.NewConstant(cs, cs.Field().NewElementFromInt64(int64(i)), index.Type())
	if err != nil {
		return nil, err
	}
	return Eq(cs, index, constIdx)
}

// RecursiveArraySelect implements the faster recursive bit-decomposition
// variant of spec.md §4.3: the index is decomposed to ceil(log2(n)) bits
// and the vector is halved via 2-to-1 ConditionalSelects at each level;
// when the vector length is odd the tail element is carried forward
// unchanged.
func RecursiveArraySelect(cs *core.ConstraintSystem, values []*core.Scalar, indexBits []*core.Scalar) (*core.Scalar, error) {
	if len(values) == 0 {
		return nil, zerr.Runtime("recursive array select on empty array")
	}
	if len(values) == 1 {
		return values[0], nil
	}
	if len(indexBits) == 0 {
		return nil, zerr.MalformedBytecode("recursive array select needs at least one index bit")
	}

	bit := indexBits[0]
	half := (len(values) + 1) / 2
	left := make([]*core.Scalar, half)
	right := make([]*core.Scalar, half)
	for i := 0; i < half; i++ {
		left[i] = values[2*i]
		if 2*i+1 < len(values) {
			right[i] = values[2*i+1]
		} else {
			right[i] = values[2*i] // odd tail carried forward unchanged
		}
	}

	merged := make([]*core.Scalar, half)
	for i := 0; i < half; i++ {
		s, err := ConditionalSelect(cs, bit, right[i], left[i])
		if err != nil {
			return nil, err
		}
		merged[i] = s
	}

	return RecursiveArraySelect(cs, merged, indexBits[1:])
}
