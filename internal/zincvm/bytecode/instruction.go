// Package bytecode implements the Zinc VM's wire format (spec.md §6): a
// program is an ordered instruction sequence plus a header describing
// input/witness types and the entry-point function table. The opcode set
// and decode-dispatch pattern are adapted from
// original_source/zrust-bytecode/src/lib.rs's InstructionCode enum and
// decode_instruction function, generalized from that crate's trait-object
// `Box<dyn Instruction>` design to a plain Go struct-per-opcode with a
// shared Instruction interface, matching the teacher's own
// internal/vybium-starks-vm/vm/instruction.go opcode-constant style.
package bytecode

import "fmt"

// Opcode identifies the operation one Instruction performs. Values follow
// the declaration order of original_source's InstructionCode enum.
type Opcode uint8

const (
	OpNoOperation Opcode = iota
	OpPop
	OpPush
	OpCopy
	OpSlice

	OpAdd
	OpSub
	OpMul
	OpDiv
	OpRem
	OpNeg

	OpNot
	OpAnd
	OpOr
	OpXor

	OpLt
	OpLe
	OpEq
	OpNe
	OpGe
	OpGt

	OpCast
	OpTypeCheck

	OpConditionalSelect
	OpLoopBegin
	OpLoopEnd
	OpCall
	OpReturn

	OpAssert
	OpPushCondition
	OpPopCondition
	OpElse
	OpDbg

	OpArraySelect
	OpArraySet
	OpStorageLoad
	OpStorageStore

	OpCallStdlib

	OpExit

	opcodeCount
)

func (op Opcode) String() string {
	names := [...]string{
		"no_operation", "pop", "push", "copy", "slice",
		"add", "sub", "mul", "div", "rem", "neg",
		"not", "and", "or", "xor",
		"lt", "le", "eq", "ne", "ge", "gt",
		"cast", "type_check",
		"conditional_select", "loop_begin", "loop_end", "call", "return",
		"assert", "push_condition", "pop_condition", "else", "dbg",
		"array_select", "array_set", "storage_load", "storage_store",
		"call_stdlib",
		"exit",
	}
	if int(op) < len(names) {
		return names[op]
	}
	return fmt.Sprintf("unknown_opcode(%d)", op)
}

// StdlibFunction identifies which standard-library routine a CallStdlib
// instruction invokes (spec.md §4.9).
type StdlibFunction uint8

const (
	StdlibSha256 StdlibFunction = iota
	StdlibPedersen
	StdlibSchnorrVerify
	StdlibToBits
	StdlibFromBitsUnsigned
	StdlibFromBitsSigned
	StdlibFromBitsField
	StdlibArrayReverse
	StdlibArrayTruncate
	StdlibArrayPad
	StdlibMTreeMapContains
	StdlibMTreeMapGet
	StdlibMTreeMapInsert
	StdlibMTreeMapRemove
)

// Instruction is one decoded bytecode operation. Encode() and the decoder
// round-trip the wire format; the dispatcher only needs Code() to drive its
// switch, but Encode/Assembly are carried for tooling (disassembly,
// golden-file tests) the way original_source's trait exposes them.
type Instruction interface {
	Code() Opcode
	Encode() []byte
	Assembly() string
}

// baseInstruction carries the opcode and is embedded by every instruction
// type. On its own it is the zero-payload case used by opcodes with no
// operands (Pop, Add, Sub, ..., Return); instruction types with operands
// override Encode and Assembly.
type baseInstruction struct {
	code Opcode
}

func (b baseInstruction) Code() Opcode   { return b.code }
func (b baseInstruction) Encode() []byte { return []byte{byte(b.code)} }
func (b baseInstruction) Assembly() string {
	return b.code.String()
}

func simple(code Opcode) Instruction { return baseInstruction{code: code} }
