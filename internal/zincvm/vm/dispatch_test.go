package vm

import (
	"math/big"
	"testing"

	"github.com/zinc-project/zinc-vm/internal/zincvm/bytecode"
	"github.com/zinc-project/zinc-vm/internal/zincvm/core"
)

// TestLoopAccumulates runs a LoopBegin/LoopEnd body five times, each
// iteration pushing a constant 1 and adding it to the running total, verifying
// the counted jump-back dispatch (spec.md §4.5).
func TestLoopAccumulates(t *testing.T) {
	program := &bytecode.Program{
		Instructions: []bytecode.Instruction{
			bytecode.NewLoopBegin(5),
			bytecode.NewPush(big.NewInt(1), core.UnsignedInteger(8)),
			bytecode.Simple(bytecode.OpAdd),
			bytecode.Simple(bytecode.OpLoopEnd),
			bytecode.NewExit(1),
		},
	}

	cs := NewConstraintSystem(DefaultConfig())
	zero, err := core.NewConstant(cs, cs.Field().NewElementFromInt64(0), core.UnsignedInteger(8))
	if err != nil {
		t.Fatalf("allocating zero: %v", err)
	}

	result, err := Execute(program, cs, nil, []*core.Scalar{zero})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got := result.Outputs[0].Value().Big().Int64(); got != 5 {
		t.Errorf("loop total = %d, want 5", got)
	}
}

// TestCallReturn exercises a single subroutine call: with the input 21 on
// the stack, main calls a function at a fixed offset that doubles the top
// of stack via Copy and Add, then returns (spec.md §4.6).
func TestCallReturn(t *testing.T) {
	program := &bytecode.Program{
		Instructions: []bytecode.Instruction{
			// 0: main
			bytecode.NewCall(3, 1),
			bytecode.NewExit(1),
			bytecode.Simple(bytecode.OpNoOperation), // padding, unreachable
			// 3: double(x) -> x + x
			bytecode.NewCopy(0),
			bytecode.Simple(bytecode.OpAdd),
			bytecode.Simple(bytecode.OpReturn),
		},
	}

	cs := NewConstraintSystem(DefaultConfig())
	x, err := core.NewConstant(cs, cs.Field().NewElementFromInt64(21), core.UnsignedInteger(8))
	if err != nil {
		t.Fatalf("allocating x: %v", err)
	}

	result, err := Execute(program, cs, nil, []*core.Scalar{x})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got := result.Outputs[0].Value().Big().Int64(); got != 42 {
		t.Errorf("double(21) = %d, want 42", got)
	}
}

// TestConditionalSelectBranch checks that OpConditionalSelect picks the
// true-branch value when the condition is true.
func TestConditionalSelectBranch(t *testing.T) {
	// OpConditionalSelect pops (condition, true-branch, false-branch) off
	// the top of stack, meaning they must be pushed bottom-to-top in the
	// order (false-branch, true-branch, condition).
	u8 := core.UnsignedInteger(8)
	program := &bytecode.Program{
		Instructions: []bytecode.Instruction{
			bytecode.NewPush(big.NewInt(10), u8), // false-branch
			bytecode.NewPush(big.NewInt(20), u8), // true-branch
			bytecode.NewCopy(2),                  // duplicate the condition on top
			bytecode.Simple(bytecode.OpConditionalSelect),
			bytecode.NewExit(1),
		},
	}

	cs := NewConstraintSystem(DefaultConfig())
	cond, err := core.NewConstantBool(cs, true)
	if err != nil {
		t.Fatalf("allocating condition: %v", err)
	}

	result, err := Execute(program, cs, nil, []*core.Scalar{cond})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got := result.Outputs[0].Value().Big().Int64(); got != 20 {
		t.Errorf("conditional_select(true, false=10, true=20) = %d, want 20", got)
	}
}
