package bytecode

import (
	"math/big"

	"github.com/zinc-project/zinc-vm/internal/zincvm/core"
)

// The functions in this file construct Instructions directly (rather than
// decoding them from wire bytes), the way the teacher's
// vm.NewEncodedInstruction(opcode, argument) lets cmd/vybium-vm-prover and
// its examples assemble a Program without hand-writing its wire encoding.
// Each Instruction still implements Encode(), so a Program built this way
// round-trips through DecodeProgram like one decoded from bytecode on disk.

// Simple returns a zero-payload instruction for one of the opcodes that
// carries no operand (Pop, Add, Sub, ..., ConditionalSelect, PushCondition,
// PopCondition, Else, and so on).
func Simple(code Opcode) Instruction { return simple(code) }

// NewPush builds a Push instruction for value under typ.
func NewPush(value *big.Int, typ core.ScalarType) *Push {
	return &Push{
		baseInstruction: baseInstruction{code: OpPush},
		Value:           new(big.Int).Set(value),
		RawTypeBytes:    EncodeScalarType(typ),
	}
}

// NewCopy builds a Copy instruction duplicating the stack slot offset cells
// below the top.
func NewCopy(offset uint) *Copy {
	return &Copy{baseInstruction: baseInstruction{code: OpCopy}, Offset: offset}
}

// NewSlice builds a Slice instruction over a Size-cell top-of-stack value.
func NewSlice(size, from, length uint) *Slice {
	return &Slice{baseInstruction: baseInstruction{code: OpSlice}, Size: size, From: from, Len: length}
}

// NewCast builds a Cast instruction targeting typ.
func NewCast(typ core.ScalarType) *Cast {
	return &Cast{baseInstruction: baseInstruction{code: OpCast}, RawTypeBytes: EncodeScalarType(typ)}
}

// NewLoopBegin builds a LoopBegin instruction repeating its body count times.
func NewLoopBegin(count uint) *LoopBegin {
	return &LoopBegin{baseInstruction: baseInstruction{code: OpLoopBegin}, IterationCount: count}
}

// NewCall builds a Call instruction to functionIndex, consuming argsCount
// stack arguments.
func NewCall(functionIndex, argsCount uint) *Call {
	return &Call{baseInstruction: baseInstruction{code: OpCall}, FunctionIndex: functionIndex, ArgsCount: argsCount}
}

// NewAssert builds a message-less Assert instruction.
func NewAssert() *Assert {
	return &Assert{baseInstruction: baseInstruction{code: OpAssert}}
}

// NewAssertWithMessage builds an Assert instruction carrying a user-visible
// failure message.
func NewAssertWithMessage(message string) *Assert {
	return &Assert{baseInstruction: baseInstruction{code: OpAssert}, Message: message, HasMsg: true}
}

// NewCallStdlib builds a CallStdlib instruction invoking fn with argsCount
// stack arguments.
func NewCallStdlib(fn StdlibFunction, argsCount uint) *CallStdlib {
	return &CallStdlib{baseInstruction: baseInstruction{code: OpCallStdlib}, Function: fn, ArgsCount: argsCount}
}

// NewExit builds an Exit instruction serializing the top resultCount stack
// cells as the program's output.
func NewExit(resultCount uint) *Exit {
	return &Exit{baseInstruction: baseInstruction{code: OpExit}, ResultCount: resultCount}
}

// NewArrayOp builds an ArraySelect/ArraySet/StorageLoad/StorageStore
// instruction over a size-cell array or storage leaf.
func NewArrayOp(op Opcode, size uint) *ArrayOp {
	return &ArrayOp{baseInstruction: baseInstruction{code: op}, Size: size}
}

// NewDbg builds a Dbg instruction formatting the flattened cells of each
// declared argument size into format's "{}" placeholders.
func NewDbg(format string, argSizes []uint) *Dbg {
	return &Dbg{baseInstruction: baseInstruction{code: OpDbg}, Format: format, ArgSizes: append([]uint{}, argSizes...)}
}
