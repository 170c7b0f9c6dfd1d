package vm

import (
	"github.com/zinc-project/zinc-vm/internal/zincvm/bytecode"
	"github.com/zinc-project/zinc-vm/internal/zincvm/core"
	"github.com/zinc-project/zinc-vm/internal/zincvm/gadgets"
	"github.com/zinc-project/zinc-vm/internal/zincvm/gadgets/stdlib"
	"github.com/zinc-project/zinc-vm/internal/zincvm/zerr"
)

// loopFrame is one entry of the VM's unrolling loop stack: the instruction
// offset to jump back to, and the number of remaining repetitions (spec.md
// §4.5: loop bodies have a compile-time-known bound, so LoopBegin/LoopEnd
// are a counted jump-back rather than a data-dependent construct).
type loopFrame struct {
	BodyStart int
	Remaining uint
}

// dispatchState augments VMState with the loop stack, which is private to
// the dispatcher (callers of VMState never need to see it).
type dispatchState struct {
	*VMState
	loops []loopFrame
}

// Run executes instructions from the current instruction pointer until
// Exit or an error (spec.md §5: "a straight loop dispatching instructions
// until Exit"). On success it returns the serialized output cells (the top
// `k` cells of the evaluation stack at Exit, per spec.md §6).
func Run(state *VMState) ([]*core.Scalar, error) {
	ds := &dispatchState{VMState: state}
	for {
		if ds.InstructionPointer < 0 || ds.InstructionPointer >= len(ds.Program.Instructions) {
			return nil, zerr.WithAt(zerr.Runtime("instruction pointer %d out of bounds", ds.InstructionPointer), ds.InstructionPointer)
		}
		instr := ds.Program.Instructions[ds.InstructionPointer]
		out, halted, err := ds.step(instr)
		if err != nil {
			return nil, zerr.WithAt(err, ds.InstructionPointer)
		}
		ds.CycleCount++
		if halted {
			return out, nil
		}
	}
}

// step executes one instruction, returning (output, halted, err). Only the
// Exit opcode sets halted=true.
func (ds *dispatchState) step(instr bytecode.Instruction) ([]*core.Scalar, bool, error) {
	next := ds.InstructionPointer + 1

	switch instr.Code() {
	case bytecode.OpNoOperation:
		// no-op

	case bytecode.OpPop:
		if _, err := ds.Pop(); err != nil {
			return nil, false, err
		}

	case bytecode.OpPush:
		p := instr.(*bytecode.Push)
		typ, _, err := bytecode.DecodeScalarType(p.RawTypeBytes)
		if err != nil {
			return nil, false, zerr.MalformedBytecode("push: %s", err)
		}
		value := ds.CS.Field().NewElement(p.Value)
		s, err := core.NewConstant(ds.CS, value, typ)
		if err != nil {
			return nil, false, zerr.Runtime("push: %s", err)
		}
		ds.Push(s)

	case bytecode.OpCopy:
		c := instr.(*bytecode.Copy)
		v, err := ds.Peek(int(c.Offset))
		if err != nil {
			return nil, false, err
		}
		ds.Push(v)

	case bytecode.OpAdd, bytecode.OpSub, bytecode.OpMul:
		right, left, err := ds.popPair()
		if err != nil {
			return nil, false, err
		}
		var result *core.Scalar
		switch instr.Code() {
		case bytecode.OpAdd:
			result, err = gadgets.Add(ds.CS, left, right)
		case bytecode.OpSub:
			result, err = gadgets.Sub(ds.CS, left, right)
		default:
			result, err = gadgets.Mul(ds.CS, left, right)
		}
		if err != nil {
			return nil, false, err
		}
		ds.Push(result)

	case bytecode.OpDiv, bytecode.OpRem:
		right, left, err := ds.popPair()
		if err != nil {
			return nil, false, err
		}
		q, r, err := gadgets.DivRem(ds.CS, left, right)
		if err != nil {
			return nil, false, err
		}
		if instr.Code() == bytecode.OpDiv {
			ds.Push(q)
		} else {
			ds.Push(r)
		}

	case bytecode.OpNeg:
		operand, err := ds.Pop()
		if err != nil {
			return nil, false, err
		}
		result, err := gadgets.Neg(ds.CS, operand)
		if err != nil {
			return nil, false, err
		}
		ds.Push(result)

	case bytecode.OpNot:
		operand, err := ds.Pop()
		if err != nil {
			return nil, false, err
		}
		result, err := gadgets.Not(ds.CS, operand)
		if err != nil {
			return nil, false, err
		}
		ds.Push(result)

	case bytecode.OpAnd, bytecode.OpOr, bytecode.OpXor:
		right, left, err := ds.popPair()
		if err != nil {
			return nil, false, err
		}
		var result *core.Scalar
		switch instr.Code() {
		case bytecode.OpAnd:
			result, err = gadgets.And(ds.CS, left, right)
		case bytecode.OpOr:
			result, err = gadgets.Or(ds.CS, left, right)
		default:
			result, err = gadgets.Xor(ds.CS, left, right)
		}
		if err != nil {
			return nil, false, err
		}
		ds.Push(result)

	case bytecode.OpLt, bytecode.OpLe, bytecode.OpEq, bytecode.OpNe, bytecode.OpGe, bytecode.OpGt:
		right, left, err := ds.popPair()
		if err != nil {
			return nil, false, err
		}
		var result *core.Scalar
		switch instr.Code() {
		case bytecode.OpLt:
			result, err = gadgets.Lt(ds.CS, left, right)
		case bytecode.OpLe:
			result, err = gadgets.Le(ds.CS, left, right)
		case bytecode.OpEq:
			result, err = gadgets.Eq(ds.CS, left, right)
		case bytecode.OpNe:
			result, err = gadgets.Ne(ds.CS, left, right)
		case bytecode.OpGe:
			result, err = gadgets.Ge(ds.CS, left, right)
		default:
			result, err = gadgets.Gt(ds.CS, left, right)
		}
		if err != nil {
			return nil, false, err
		}
		ds.Push(result)

	case bytecode.OpCast:
		c := instr.(*bytecode.Cast)
		target, _, err := bytecode.DecodeScalarType(c.RawTypeBytes)
		if err != nil {
			return nil, false, zerr.MalformedBytecode("cast: %s", err)
		}
		operand, err := ds.Pop()
		if err != nil {
			return nil, false, err
		}
		result, err := gadgets.Cast(ds.CS, operand, target)
		if err != nil {
			return nil, false, err
		}
		ds.Push(result)

	case bytecode.OpTypeCheck:
		top, err := ds.Pop()
		if err != nil {
			return nil, false, err
		}
		if err := gadgets.RangeCheck(ds.CS, top); err != nil {
			return nil, false, err
		}
		ds.Push(top)

	case bytecode.OpConditionalSelect:
		// Stack order (top to bottom): condition, true-branch, false-branch
		// — pushed in the order (false, true, condition).
		cond, err := ds.Pop()
		if err != nil {
			return nil, false, err
		}
		t, err := ds.Pop()
		if err != nil {
			return nil, false, err
		}
		f, err := ds.Pop()
		if err != nil {
			return nil, false, err
		}
		result, err := gadgets.ConditionalSelect(ds.CS, cond, t, f)
		if err != nil {
			return nil, false, err
		}
		ds.Push(result)

	case bytecode.OpPushCondition:
		guard, err := ds.Pop()
		if err != nil {
			return nil, false, err
		}
		if active := ds.ActiveCondition(); active != nil {
			guard, err = gadgets.And(ds.CS, active, guard)
			if err != nil {
				return nil, false, err
			}
		}
		ds.PushCondition(guard)

	case bytecode.OpPopCondition:
		if err := ds.PopCondition(); err != nil {
			return nil, false, err
		}

	case bytecode.OpElse:
		guard, err := ds.Pop()
		if err != nil {
			return nil, false, err
		}
		inverted, err := gadgets.Invert(ds.CS, guard)
		if err != nil {
			return nil, false, err
		}
		ds.Push(inverted)

	case bytecode.OpSlice:
		s := instr.(*bytecode.Slice)
		values, err := ds.PopN(int(s.Size))
		if err != nil {
			return nil, false, err
		}
		if uint(s.From)+s.Len > uint(len(values)) {
			return nil, false, zerr.MalformedBytecode("slice %d..%d out of bounds for %d cells", s.From, s.From+s.Len, len(values))
		}
		for _, v := range values[s.From : s.From+s.Len] {
			ds.Push(v)
		}

	case bytecode.OpDbg:
		d := instr.(*bytecode.Dbg)
		if err := ds.execDbg(d); err != nil {
			return nil, false, err
		}

	case bytecode.OpLoopBegin:
		lb := instr.(*bytecode.LoopBegin)
		ds.loops = append(ds.loops, loopFrame{BodyStart: next, Remaining: lb.IterationCount})

	case bytecode.OpLoopEnd:
		if len(ds.loops) == 0 {
			return nil, false, zerr.MalformedBytecode("loop_end without matching loop_begin")
		}
		top := len(ds.loops) - 1
		ds.loops[top].Remaining--
		if ds.loops[top].Remaining > 0 {
			next = ds.loops[top].BodyStart
		} else {
			ds.loops = ds.loops[:top]
		}

	case bytecode.OpCall:
		c := instr.(*bytecode.Call)
		ds.PushFrame(Frame{ReturnAddress: next})
		next = int(c.FunctionIndex)

	case bytecode.OpReturn:
		frame, err := ds.PopFrame()
		if err != nil {
			return nil, false, err
		}
		next = frame.ReturnAddress

	case bytecode.OpAssert:
		a := instr.(*bytecode.Assert)
		cond, err := ds.Pop()
		if err != nil {
			return nil, false, err
		}
		if cond.Type().Tag != core.TagBoolean {
			return nil, false, zerr.MalformedBytecode("assert requires a boolean operand, got %s", cond.Type())
		}
		if !cond.Value().IsOne() {
			if a.HasMsg {
				return nil, false, zerr.Runtime("assertion failed: %s", a.Message)
			}
			return nil, false, zerr.Runtime("assertion failed")
		}

	case bytecode.OpArraySelect:
		a := instr.(*bytecode.ArrayOp)
		index, err := ds.Pop()
		if err != nil {
			return nil, false, err
		}
		values, err := ds.PopN(int(a.Size))
		if err != nil {
			return nil, false, err
		}
		selected, err := dynamicArrayRead(ds.CS, values, index)
		if err != nil {
			return nil, false, err
		}
		ds.Push(selected)

	case bytecode.OpArraySet:
		a := instr.(*bytecode.ArrayOp)
		newValue, err := ds.Pop()
		if err != nil {
			return nil, false, err
		}
		index, err := ds.Pop()
		if err != nil {
			return nil, false, err
		}
		values, err := ds.PopN(int(a.Size))
		if err != nil {
			return nil, false, err
		}
		merged, err := gadgets.LinearArraySelect(ds.CS, values, index, newValue)
		if err != nil {
			return nil, false, err
		}
		for _, v := range merged {
			ds.Push(v)
		}

	case bytecode.OpStorageLoad:
		a := instr.(*bytecode.ArrayOp)
		index, err := ds.Pop()
		if err != nil {
			return nil, false, err
		}
		values, err := storageLoad(ds.VMState, index, int(a.Size))
		if err != nil {
			return nil, false, err
		}
		for _, v := range values {
			ds.Push(v)
		}

	case bytecode.OpStorageStore:
		a := instr.(*bytecode.ArrayOp)
		values, err := ds.PopN(int(a.Size))
		if err != nil {
			return nil, false, err
		}
		index, err := ds.Pop()
		if err != nil {
			return nil, false, err
		}
		if err := storageStore(ds.VMState, index, values); err != nil {
			return nil, false, err
		}

	case bytecode.OpCallStdlib:
		c := instr.(*bytecode.CallStdlib)
		if err := ds.callStdlib(c); err != nil {
			return nil, false, err
		}

	case bytecode.OpExit:
		e := instr.(*bytecode.Exit)
		out, err := ds.PopN(int(e.ResultCount))
		if err != nil {
			return nil, false, err
		}
		ds.Halted = true
		return out, true, nil

	default:
		return nil, false, zerr.MalformedBytecode("unhandled opcode %s", instr.Code())
	}

	ds.InstructionPointer = next
	return nil, false, nil
}

// popPair pops the two binary-op operands in stack order, returning
// (right, left): right was pushed last, so it is popped first.
func (ds *dispatchState) popPair() (right, left *core.Scalar, err error) {
	right, err = ds.Pop()
	if err != nil {
		return nil, nil, err
	}
	left, err = ds.Pop()
	if err != nil {
		return nil, nil, err
	}
	return right, left, nil
}

// linearScanThreshold is the array length below which the linear-scan
// strategy of spec.md §4.3 is cheaper than decomposing the index into bits.
const linearScanThreshold = 8

// dynamicArrayRead chooses between the linear-scan and recursive
// bit-decomposition strategies of spec.md §4.3 depending on array size.
func dynamicArrayRead(cs *core.ConstraintSystem, values []*core.Scalar, index *core.Scalar) (*core.Scalar, error) {
	if len(values) <= linearScanThreshold {
		return linearScanRead(cs, values, index)
	}
	bits, err := gadgets.DecomposeBits(cs, index.Variable(), index.Value(), bitsNeeded(len(values)))
	if err != nil {
		return nil, err
	}
	return gadgets.RecursiveArraySelect(cs, values, bits)
}

func linearScanRead(cs *core.ConstraintSystem, values []*core.Scalar, index *core.Scalar) (*core.Scalar, error) {
	acc := values[0]
	for i := 1; i < len(values); i++ {
		constIdx, err := core.NewConstant(cs, cs.Field().NewElementFromInt64(int64(i)), index.Type())
		if err != nil {
			return nil, err
		}
		isSelected, err := gadgets.Eq(cs, index, constIdx)
		if err != nil {
			return nil, err
		}
		acc, err = gadgets.ConditionalSelect(cs, isSelected, values[i], acc)
		if err != nil {
			return nil, err
		}
	}
	return acc, nil
}

func bitsNeeded(n int) uint {
	bits := uint(0)
	for (1 << bits) < n {
		bits++
	}
	return bits
}

// callStdlib dispatches a call_stdlib instruction to the corresponding
// gadgets/stdlib function, popping its arguments off the evaluation stack
// and pushing its results back on (spec.md §4.9).
func (ds *dispatchState) callStdlib(c *bytecode.CallStdlib) error {
	args, err := ds.PopN(int(c.ArgsCount))
	if err != nil {
		return err
	}

	switch c.Function {
	case bytecode.StdlibSha256:
		out, err := stdlib.Sha256(ds.CS, args)
		if err != nil {
			return err
		}
		for _, v := range out {
			ds.Push(v)
		}

	case bytecode.StdlibPedersen:
		x, y, err := stdlib.Pedersen(ds.CS, args)
		if err != nil {
			return err
		}
		ds.Push(x)
		ds.Push(y)

	case bytecode.StdlibSchnorrVerify:
		if len(args) < 5 {
			return zerr.MalformedBytecode("schnorr_verify requires at least 5 arguments, got %d", len(args))
		}
		rX, rY, s, pkX, pkY := args[0], args[1], args[2], args[3], args[4]
		message := args[5:]
		result, err := stdlib.SchnorrVerify(ds.CS, rX, rY, s, pkX, pkY, message)
		if err != nil {
			return err
		}
		ds.Push(result)

	case bytecode.StdlibToBits:
		if len(args) != 1 {
			return zerr.MalformedBytecode("to_bits takes exactly 1 argument, got %d", len(args))
		}
		out, err := stdlib.ToBits(ds.CS, args[0])
		if err != nil {
			return err
		}
		for _, v := range out {
			ds.Push(v)
		}

	case bytecode.StdlibFromBitsUnsigned:
		result, err := stdlib.FromBitsUnsigned(ds.CS, args)
		if err != nil {
			return err
		}
		ds.Push(result)

	case bytecode.StdlibFromBitsSigned:
		result, err := stdlib.FromBitsSigned(ds.CS, args)
		if err != nil {
			return err
		}
		ds.Push(result)

	case bytecode.StdlibFromBitsField:
		result, err := stdlib.FromBitsField(ds.CS, args)
		if err != nil {
			return err
		}
		ds.Push(result)

	case bytecode.StdlibArrayReverse:
		out := stdlib.ArrayReverse(args)
		for _, v := range out {
			ds.Push(v)
		}

	case bytecode.StdlibArrayTruncate:
		if len(args) == 0 {
			return zerr.MalformedBytecode("array_truncate requires a length argument")
		}
		newLength := int(args[len(args)-1].Value().Big().Int64())
		out, err := stdlib.ArrayTruncate(args[:len(args)-1], newLength)
		if err != nil {
			return err
		}
		for _, v := range out {
			ds.Push(v)
		}

	case bytecode.StdlibArrayPad:
		if len(args) < 2 {
			return zerr.MalformedBytecode("array_pad requires a length and fill argument")
		}
		fill := args[len(args)-1]
		newLength := int(args[len(args)-2].Value().Big().Int64())
		out, err := stdlib.ArrayPad(args[:len(args)-2], newLength, fill)
		if err != nil {
			return err
		}
		for _, v := range out {
			ds.Push(v)
		}

	case bytecode.StdlibMTreeMapContains, bytecode.StdlibMTreeMapGet,
		bytecode.StdlibMTreeMapInsert, bytecode.StdlibMTreeMapRemove:
		return ds.callMTreeMap(c.Function, args)

	default:
		return zerr.MalformedBytecode("unknown stdlib function %d", c.Function)
	}
	return nil
}
