// Package vm implements the Zinc VM's execution engine: the evaluation
// stack, call stack, and condition stack of spec.md §4.2, and the
// instruction dispatcher of §4.8. Its shape (a VMState struct owning every
// piece of mutable state, stepped one instruction at a time by the switch-
// dispatched step in dispatch.go) is adapted from the teacher's
// internal/vybium-starks-vm/vm/vm_state.go, generalized from Triton VM's
// fixed 16-register stack and RAM model to Zinc's unbounded Scalar stack,
// call frames, and branch-condition stack.
package vm

import (
	"github.com/zinc-project/zinc-vm/internal/zincvm/bytecode"
	"github.com/zinc-project/zinc-vm/internal/zincvm/core"
	"github.com/zinc-project/zinc-vm/internal/zincvm/zerr"
)

// Frame is one call-stack entry: the return address and the instruction
// offset range reserved for the callee's locals (spec.md §4.6).
type Frame struct {
	ReturnAddress int
	LocalsBase    int
}

// VMState is the complete mutable state of one Zinc VM run (spec.md §4.2):
// the evaluation stack of Scalars, the call stack of Frames, the condition
// stack accumulating the AND of enclosing branch guards (§4.4), the
// instruction pointer, and the shared constraint system and storage tree
// every instruction mutates.
type VMState struct {
	Program *bytecode.Program
	CS      *core.ConstraintSystem

	Stack     []*core.Scalar
	CallStack []Frame
	CondStack []*core.Scalar // running AND of all enclosing branch guards

	// Storage is the Merkle commitment to the flat per-leaf storage slots
	// addressed by storage_load/storage_store (spec.md §4.7). Leaves holds
	// the concrete value vectors behind each committed hash, keyed by leaf
	// index; Maps holds the MapLeaf-shaped contract maps addressed by the
	// mtreemap_* stdlib calls, keyed by a separate small map identifier
	// popped alongside the key/value arguments. Both maps are this VM's own
	// bookkeeping convention layered on top of core.MerkleTree, which only
	// commits to hashes and knows nothing about leaf contents itself.
	Storage *core.MerkleTree
	Leaves  map[int]*core.Leaf
	Maps    map[uint]*core.MapLeaf

	InstructionPointer int
	Halted             bool
	CycleCount         uint64
}

// NewVMState creates a fresh VM state for the given program, constraint
// system, and initial storage tree (nil storage is valid for pure
// computations that never touch storage_load/storage_store).
func NewVMState(program *bytecode.Program, cs *core.ConstraintSystem, storage *core.MerkleTree) *VMState {
	return &VMState{
		Program:            program,
		CS:                 cs,
		Stack:              nil,
		CallStack:          nil,
		CondStack:          nil,
		Storage:            storage,
		Leaves:             make(map[int]*core.Leaf),
		Maps:               make(map[uint]*core.MapLeaf),
		InstructionPointer: program.EntryPoint,
	}
}

// Push pushes a scalar onto the evaluation stack.
func (s *VMState) Push(v *core.Scalar) { s.Stack = append(s.Stack, v) }

// Pop removes and returns the top scalar, or a RuntimeError on underflow.
func (s *VMState) Pop() (*core.Scalar, error) {
	if len(s.Stack) == 0 {
		return nil, zerr.Runtime("evaluation stack underflow")
	}
	v := s.Stack[len(s.Stack)-1]
	s.Stack = s.Stack[:len(s.Stack)-1]
	return v, nil
}

// Peek returns the scalar `depth` cells below the top without removing it
// (depth 0 is the top).
func (s *VMState) Peek(depth int) (*core.Scalar, error) {
	idx := len(s.Stack) - 1 - depth
	if idx < 0 || idx >= len(s.Stack) {
		return nil, zerr.Runtime("evaluation stack peek out of bounds at depth %d", depth)
	}
	return s.Stack[idx], nil
}

// PopN pops the top n scalars, returning them in original (bottom-to-top)
// stack order.
func (s *VMState) PopN(n int) ([]*core.Scalar, error) {
	if len(s.Stack) < n {
		return nil, zerr.Runtime("evaluation stack underflow popping %d cells", n)
	}
	out := append([]*core.Scalar{}, s.Stack[len(s.Stack)-n:]...)
	s.Stack = s.Stack[:len(s.Stack)-n]
	return out, nil
}

// ActiveCondition folds the condition stack into a single Boolean scalar:
// the logical AND of every enclosing branch guard (spec.md §4.4). A nil
// return means "no enclosing branch", i.e. unconditionally active.
func (s *VMState) ActiveCondition() *core.Scalar {
	if len(s.CondStack) == 0 {
		return nil
	}
	return s.CondStack[len(s.CondStack)-1]
}

// PushCondition pushes a new branch guard, already ANDed with the current
// active condition by the caller (the PushCondition opcode's dispatcher
// case performs the AND before calling this).
func (s *VMState) PushCondition(c *core.Scalar) { s.CondStack = append(s.CondStack, c) }

// PopCondition pops the innermost branch guard.
func (s *VMState) PopCondition() error {
	if len(s.CondStack) == 0 {
		return zerr.Runtime("condition stack underflow")
	}
	s.CondStack = s.CondStack[:len(s.CondStack)-1]
	return nil
}

// PushFrame pushes a call frame.
func (s *VMState) PushFrame(f Frame) { s.CallStack = append(s.CallStack, f) }

// PopFrame pops and returns the innermost call frame.
func (s *VMState) PopFrame() (Frame, error) {
	if len(s.CallStack) == 0 {
		return Frame{}, zerr.Runtime("call stack underflow")
	}
	f := s.CallStack[len(s.CallStack)-1]
	s.CallStack = s.CallStack[:len(s.CallStack)-1]
	return f, nil
}
