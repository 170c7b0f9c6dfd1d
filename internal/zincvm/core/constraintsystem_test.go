package core

import "testing"

func TestConstraintSystemEnforceSatisfied(t *testing.T) {
	cs := newTestCS(t)

	a, _ := AllocateWitness(cs, cs.Field().NewElementFromInt64(3), FieldType)
	b, _ := AllocateWitness(cs, cs.Field().NewElementFromInt64(4), FieldType)
	c, _ := AllocateWitness(cs, cs.Field().NewElementFromInt64(12), FieldType)

	cs.Enforce("a*b=c", a.LinearCombination(), b.LinearCombination(), c.LinearCombination())

	ok, failing, err := cs.IsSatisfied()
	if err != nil {
		t.Fatalf("IsSatisfied: %v", err)
	}
	if !ok {
		t.Errorf("expected satisfied, failing constraint: %+v", failing)
	}
}

func TestConstraintSystemEnforceUnsatisfied(t *testing.T) {
	cs := newTestCS(t)

	a, _ := AllocateWitness(cs, cs.Field().NewElementFromInt64(3), FieldType)
	b, _ := AllocateWitness(cs, cs.Field().NewElementFromInt64(4), FieldType)
	c, _ := AllocateWitness(cs, cs.Field().NewElementFromInt64(13), FieldType)

	cs.Enforce("a*b=c", a.LinearCombination(), b.LinearCombination(), c.LinearCombination())

	ok, _, err := cs.IsSatisfied()
	if err != nil {
		t.Fatalf("IsSatisfied: %v", err)
	}
	if ok {
		t.Error("expected unsatisfied constraint system")
	}
}

func TestNamespaceScoping(t *testing.T) {
	cs := newTestCS(t)

	cs.Namespace("outer", func() {
		cs.Namespace("inner", func() {
			one, _ := AllocateWitness(cs, cs.Field().One(), Boolean)
			_ = one
		})
	})

	cs.Namespace("outer", func() {
		cs.Namespace("inner", func() {
			one, _ := AllocateWitness(cs, cs.Field().One(), Boolean)
			_ = one
		})
	})

	// Re-entering the same namespace path twice must not panic or corrupt
	// state; each allocation still gets a distinct Variable.
	if cs.NumVariables() < 3 {
		t.Errorf("expected at least 3 variables allocated, got %d", cs.NumVariables())
	}
}

func TestNumConstraints(t *testing.T) {
	cs := newTestCS(t)
	before := cs.NumConstraints()
	a, _ := AllocateWitness(cs, cs.Field().One(), Boolean)
	_ = a
	if cs.NumConstraints() != before+1 {
		t.Errorf("expected boolean allocation to add exactly one constraint, got %d new", cs.NumConstraints()-before)
	}
}
