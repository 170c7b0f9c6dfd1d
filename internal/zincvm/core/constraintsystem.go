package core

import (
	"fmt"
	"strings"
)

// Variable is a handle into a ConstraintSystem's allocation table. Variable
// 0 is reserved for the constant `1`.
type Variable uint64

// constantOneVariable is always allocated first so every linear combination
// can reference the constant term as a regular term.
const constantOneVariable Variable = 0

// Term is one (coefficient, variable) pair of a LinearCombination.
type Term struct {
	Variable    Variable
	Coefficient *FieldElement
}

// LinearCombination is a sum of coefficient*variable terms.
type LinearCombination []Term

// Constraint is one R1CS triple: (A*x) * (B*x) = (C*x).
type Constraint struct {
	A, B, C     LinearCombination
	Namespace   string
	Annotation  string
}

// ConstraintSystem is a minimal, from-scratch R1CS accumulator: a namespace
// stack, a monotonically increasing variable allocator, and an ordered list
// of enforced constraints. It mirrors the imperative `alloc`/`enforce` API
// that bellman (and the original Rust zinc-vm, via franklin-crypto) exposes
// to circuit code — see DESIGN.md for why this is hand-rolled rather than
// built on an existing Go circuit-compiler package.
//
// Determinism (spec.md §5): variables are allocated in the order gadgets
// request them, so two runs over identical bytecode and inputs produce a
// structurally identical constraint system.
type ConstraintSystem struct {
	field       *Field
	namespace   []string
	nextVar     Variable
	assignments map[Variable]*FieldElement
	constraints []Constraint
}

// NewConstraintSystem creates an empty constraint system over the given
// field. Variable 0 (the constant `1`) is allocated immediately.
func NewConstraintSystem(field *Field) *ConstraintSystem {
	cs := &ConstraintSystem{
		field:       field,
		assignments: make(map[Variable]*FieldElement),
	}
	cs.nextVar = 1
	cs.assignments[constantOneVariable] = field.One()
	return cs
}

// Field returns the field this constraint system is defined over.
func (cs *ConstraintSystem) Field() *Field { return cs.field }

// PushNamespace pushes a debug-naming scope. Every constraint enforced while
// the scope is active is annotated with the joined namespace path, letting
// nested function calls and loop iterations re-enter the same code without
// name collisions (spec.md §9 "Scoped constraint naming").
func (cs *ConstraintSystem) PushNamespace(name string) {
	cs.namespace = append(cs.namespace, name)
}

// PopNamespace pops the most recently pushed naming scope.
func (cs *ConstraintSystem) PopNamespace() {
	if len(cs.namespace) == 0 {
		return
	}
	cs.namespace = cs.namespace[:len(cs.namespace)-1]
}

// Namespace runs fn inside a pushed/popped naming scope.
func (cs *ConstraintSystem) Namespace(name string, fn func()) {
	cs.PushNamespace(name)
	defer cs.PopNamespace()
	fn()
}

func (cs *ConstraintSystem) currentNamespace() string {
	return strings.Join(cs.namespace, "/")
}

// AllocVariable allocates a fresh variable with the given concrete value
// (the value is what makes this a witness-and-constraint builder at once,
// per spec.md §2: "computes a concrete witness and constructs the algebraic
// circuit... simultaneously").
func (cs *ConstraintSystem) AllocVariable(value *FieldElement) Variable {
	v := cs.nextVar
	cs.nextVar++
	cs.assignments[v] = value
	return v
}

// ValueOf returns the concrete assignment of a variable, if known.
func (cs *ConstraintSystem) ValueOf(v Variable) (*FieldElement, bool) {
	val, ok := cs.assignments[v]
	return val, ok
}

// One returns the linear combination representing the constant 1.
func (cs *ConstraintSystem) One() LinearCombination {
	return LinearCombination{{Variable: constantOneVariable, Coefficient: cs.field.One()}}
}

// LC builds a single-term linear combination coeff*v.
func (cs *ConstraintSystem) LC(v Variable, coeff *FieldElement) LinearCombination {
	return LinearCombination{{Variable: v, Coefficient: coeff}}
}

// Enforce records the R1CS triple (a)*(b) = (c), annotated with the current
// namespace and the given annotation.
func (cs *ConstraintSystem) Enforce(annotation string, a, b, c LinearCombination) {
	cs.constraints = append(cs.constraints, Constraint{
		A: a, B: b, C: c,
		Namespace:  cs.currentNamespace(),
		Annotation: annotation,
	})
}

// NumConstraints returns how many constraints have been enforced so far.
func (cs *ConstraintSystem) NumConstraints() int { return len(cs.constraints) }

// NumVariables returns how many variables have been allocated so far
// (including the reserved constant-1 variable).
func (cs *ConstraintSystem) NumVariables() int { return int(cs.nextVar) }

// Constraints exposes the enforced constraints in allocation order, for
// tests and for handing the finished system to an external prover.
func (cs *ConstraintSystem) Constraints() []Constraint {
	out := make([]Constraint, len(cs.constraints))
	copy(out, cs.constraints)
	return out
}

func (lc LinearCombination) evaluate(cs *ConstraintSystem) (*FieldElement, error) {
	sum := cs.field.Zero()
	for _, term := range lc {
		val, ok := cs.ValueOf(term.Variable)
		if !ok {
			return nil, fmt.Errorf("unassigned variable %d in linear combination", term.Variable)
		}
		sum = sum.Add(val.Mul(term.Coefficient))
	}
	return sum, nil
}

// IsSatisfied evaluates every enforced constraint against the concrete
// assignments recorded during allocation and reports whether all of them
// hold, which is how zinc-vm's own tests (and the original
// franklin-crypto's `TestConstraintSystem::is_satisfied`) check a run's
// constraint system (spec.md §8 property 2).
func (cs *ConstraintSystem) IsSatisfied() (bool, *Constraint, error) {
	for i := range cs.constraints {
		c := &cs.constraints[i]
		a, err := c.A.evaluate(cs)
		if err != nil {
			return false, c, err
		}
		b, err := c.B.evaluate(cs)
		if err != nil {
			return false, c, err
		}
		want, err := c.C.evaluate(cs)
		if err != nil {
			return false, c, err
		}
		if !a.Mul(b).Equal(want) {
			return false, c, nil
		}
	}
	return true, nil, nil
}
