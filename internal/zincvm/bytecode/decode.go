package bytecode

import (
	"errors"
	"fmt"
	"math/big"
)

// DecodingError mirrors original_source/zrust-bytecode/src/lib.rs's
// DecodingError enum: malformed bytecode is always a static, pre-execution
// failure, distinct from the runtime RuntimeError/SynthesisError kinds the
// VM itself raises (spec.md §7).
type DecodingError struct {
	Kind   DecodingErrorKind
	Opcode byte
}

// DecodingErrorKind enumerates the three ways decode_instruction can fail.
type DecodingErrorKind int

const (
	KindUnexpectedEOF DecodingErrorKind = iota
	KindUnknownInstructionCode
	KindConstantTooLong
)

func (e *DecodingError) Error() string {
	switch e.Kind {
	case KindUnexpectedEOF:
		return "unexpected end of bytecode"
	case KindUnknownInstructionCode:
		return fmt.Sprintf("unknown instruction code %d", e.Opcode)
	case KindConstantTooLong:
		return "constant too long"
	default:
		return "unknown decoding error"
	}
}

// ErrUnexpectedEOF is the sentinel returned by vlq/type decoding helpers
// that don't carry an opcode byte of their own.
var ErrUnexpectedEOF = &DecodingError{Kind: KindUnexpectedEOF}

// DecodeAllInstructions decodes a full instruction stream, matching
// original_source's decode_all_instructions: it decodes instructions one at
// a time, advancing by each instruction's consumed length, and stops at the
// first decoding error.
func DecodeAllInstructions(data []byte) ([]Instruction, error) {
	var instructions []Instruction
	offset := 0
	for offset < len(data) {
		instr, n, err := DecodeInstruction(data[offset:])
		if err != nil {
			return nil, err
		}
		instructions = append(instructions, instr)
		offset += n
	}
	return instructions, nil
}

// DecodeInstruction decodes exactly one instruction from the start of data,
// returning it and the number of bytes consumed.
func DecodeInstruction(data []byte) (Instruction, int, error) {
	if len(data) < 1 {
		return nil, 0, ErrUnexpectedEOF
	}
	op := Opcode(data[0])
	switch op {
	case OpNoOperation, OpPop, OpAdd, OpSub, OpMul, OpDiv, OpRem, OpNeg,
		OpNot, OpAnd, OpOr, OpXor,
		OpLt, OpLe, OpEq, OpNe, OpGe, OpGt,
		OpTypeCheck, OpConditionalSelect, OpLoopEnd, OpReturn,
		OpPushCondition, OpPopCondition, OpElse:
		return simple(op), 1, nil

	case OpCopy:
		return decodeCopy(data)
	case OpPush:
		return decodePush(data)
	case OpCast:
		return decodeCast(data)
	case OpLoopBegin:
		return decodeLoopBegin(data)
	case OpCall:
		return decodeCall(data)
	case OpAssert:
		return decodeAssert(data)
	case OpSlice:
		return decodeSlice(data)
	case OpDbg:
		return decodeDbg(data)
	case OpArraySelect, OpArraySet, OpStorageLoad, OpStorageStore:
		return decodeArrayOp(op, data)
	case OpCallStdlib:
		return decodeCallStdlib(data)
	case OpExit:
		return decodeExit(data)

	default:
		return nil, 0, &DecodingError{Kind: KindUnknownInstructionCode, Opcode: data[0]}
	}
}

// Copy duplicates the stack slot `Offset` cells below the top (spec.md's
// generalization of the teacher's Dup; matches original_source's `Copy`
// instruction name).
type Copy struct {
	baseInstruction
	Offset uint
}

func decodeCopy(data []byte) (Instruction, int, error) {
	if len(data) < 2 {
		return nil, 0, ErrUnexpectedEOF
	}
	return &Copy{baseInstruction: baseInstruction{code: OpCopy}, Offset: uint(data[1])}, 2, nil
}

func (c *Copy) Encode() []byte { return []byte{byte(OpCopy), byte(c.Offset)} }
func (c *Copy) Assembly() string {
	return fmt.Sprintf("copy %d", c.Offset)
}

// Push pushes a constant scalar, encoded as its type followed by a sign
// byte (0 = non-negative, 1 = negative; Field/Boolean/unsigned values are
// always encoded with sign byte 0) and then a VLQ magnitude.
type Push struct {
	baseInstruction
	Value *big.Int
	// RawTypeBytes retains the decoded wire type for re-encoding; the
	// dispatcher decodes it back into a structured core.ScalarType via
	// DecodeScalarType when it needs to allocate the pushed constant.
	RawTypeBytes []byte
}

func decodePush(data []byte) (Instruction, int, error) {
	if len(data) < 2 {
		return nil, 0, ErrUnexpectedEOF
	}
	_, typeLen, err := DecodeScalarType(data[1:])
	if err != nil {
		return nil, 0, err
	}
	rest := data[1+typeLen:]
	if len(rest) < 1 {
		return nil, 0, ErrUnexpectedEOF
	}
	sign := rest[0]
	value, vlqLen, err := DecodeVLQ(rest[1:])
	if err != nil {
		return nil, 0, err
	}
	if sign == 1 {
		value = new(big.Int).Neg(value)
	}
	total := 1 + typeLen + 1 + vlqLen
	return &Push{
		baseInstruction: baseInstruction{code: OpPush},
		Value:           value,
		RawTypeBytes:    append([]byte{}, data[1:1+typeLen]...),
	}, total, nil
}

func (p *Push) Encode() []byte {
	out := []byte{byte(OpPush)}
	out = append(out, p.RawTypeBytes...)
	if p.Value.Sign() < 0 {
		out = append(out, 1)
		out = append(out, EncodeVLQ(new(big.Int).Neg(p.Value))...)
	} else {
		out = append(out, 0)
		out = append(out, EncodeVLQ(p.Value)...)
	}
	return out
}
func (p *Push) Assembly() string { return fmt.Sprintf("push %s", p.Value.String()) }

// Cast converts the top stack value to TargetType.
type Cast struct {
	baseInstruction
	RawTypeBytes []byte
}

func decodeCast(data []byte) (Instruction, int, error) {
	if len(data) < 2 {
		return nil, 0, ErrUnexpectedEOF
	}
	_, n, err := DecodeScalarType(data[1:])
	if err != nil {
		return nil, 0, err
	}
	return &Cast{baseInstruction: baseInstruction{code: OpCast}, RawTypeBytes: append([]byte{}, data[1:1+n]...)}, 1 + n, nil
}
func (c *Cast) Encode() []byte    { return append([]byte{byte(OpCast)}, c.RawTypeBytes...) }
func (c *Cast) Assembly() string { return "cast" }

// LoopBegin marks the start of a bounded loop body; IterationCount is a
// compile-time-known repeat count (spec.md §4.5: loops are unrolled at a
// known bound, never data-dependent in length).
type LoopBegin struct {
	baseInstruction
	IterationCount uint
}

func decodeLoopBegin(data []byte) (Instruction, int, error) {
	if len(data) < 2 {
		return nil, 0, ErrUnexpectedEOF
	}
	v, n, err := DecodeVLQ(data[1:])
	if err != nil {
		return nil, 0, err
	}
	return &LoopBegin{baseInstruction: baseInstruction{code: OpLoopBegin}, IterationCount: uint(v.Uint64())}, 1 + n, nil
}
func (l *LoopBegin) Encode() []byte {
	return append([]byte{byte(OpLoopBegin)}, EncodeVLQ(new(big.Int).SetUint64(uint64(l.IterationCount)))...)
}
func (l *LoopBegin) Assembly() string { return fmt.Sprintf("loop_begin %d", l.IterationCount) }

// Call invokes function FunctionIndex with ArgsCount arguments already on
// the stack.
type Call struct {
	baseInstruction
	FunctionIndex uint
	ArgsCount     uint
}

func decodeCall(data []byte) (Instruction, int, error) {
	if len(data) < 2 {
		return nil, 0, ErrUnexpectedEOF
	}
	fnIdx, n1, err := DecodeVLQ(data[1:])
	if err != nil {
		return nil, 0, err
	}
	argsCount, n2, err := DecodeVLQ(data[1+n1:])
	if err != nil {
		return nil, 0, err
	}
	return &Call{
		baseInstruction: baseInstruction{code: OpCall},
		FunctionIndex:   uint(fnIdx.Uint64()),
		ArgsCount:       uint(argsCount.Uint64()),
	}, 1 + n1 + n2, nil
}
func (c *Call) Encode() []byte {
	out := []byte{byte(OpCall)}
	out = append(out, EncodeVLQ(new(big.Int).SetUint64(uint64(c.FunctionIndex)))...)
	out = append(out, EncodeVLQ(new(big.Int).SetUint64(uint64(c.ArgsCount)))...)
	return out
}
func (c *Call) Assembly() string { return fmt.Sprintf("call %d, %d", c.FunctionIndex, c.ArgsCount) }

// Assert pops a Boolean and fails the run if it is false. Message is the
// optional user-visible format string (spec.md §7: "the assertion message,
// if any, is surfaced verbatim"), adapted from
// original_source/zinc-bytecode/src/instructions/assert.rs's
// `Assert{message: Option<String>}`.
type Assert struct {
	baseInstruction
	Message string
	HasMsg  bool
}

func decodeAssert(data []byte) (Instruction, int, error) {
	if len(data) < 2 {
		return nil, 0, ErrUnexpectedEOF
	}
	hasMsg := data[1] != 0
	if !hasMsg {
		return &Assert{baseInstruction: baseInstruction{code: OpAssert}}, 2, nil
	}
	if len(data) < 3 {
		return nil, 0, ErrUnexpectedEOF
	}
	msgLen, n, err := DecodeVLQ(data[2:])
	if err != nil {
		return nil, 0, err
	}
	start := 2 + n
	end := start + int(msgLen.Uint64())
	if end > len(data) {
		return nil, 0, ErrUnexpectedEOF
	}
	return &Assert{
		baseInstruction: baseInstruction{code: OpAssert},
		Message:         string(data[start:end]),
		HasMsg:          true,
	}, end, nil
}
func (a *Assert) Encode() []byte {
	if !a.HasMsg {
		return []byte{byte(OpAssert), 0}
	}
	out := []byte{byte(OpAssert), 1}
	out = append(out, EncodeVLQ(big.NewInt(int64(len(a.Message))))...)
	out = append(out, []byte(a.Message)...)
	return out
}
func (a *Assert) Assembly() string {
	if a.HasMsg {
		return fmt.Sprintf("assert %q", a.Message)
	}
	return "assert"
}

// CallStdlib invokes the standard-library function Function with
// ArgsCount stack arguments (spec.md §4.9).
type CallStdlib struct {
	baseInstruction
	Function  StdlibFunction
	ArgsCount uint
}

func decodeCallStdlib(data []byte) (Instruction, int, error) {
	if len(data) < 2 {
		return nil, 0, ErrUnexpectedEOF
	}
	fn := StdlibFunction(data[1])
	if len(data) < 3 {
		return nil, 0, ErrUnexpectedEOF
	}
	argsCount, n, err := DecodeVLQ(data[2:])
	if err != nil {
		return nil, 0, err
	}
	return &CallStdlib{
		baseInstruction: baseInstruction{code: OpCallStdlib},
		Function:        fn,
		ArgsCount:       uint(argsCount.Uint64()),
	}, 2 + n, nil
}
func (c *CallStdlib) Encode() []byte {
	out := []byte{byte(OpCallStdlib), byte(c.Function)}
	out = append(out, EncodeVLQ(new(big.Int).SetUint64(uint64(c.ArgsCount)))...)
	return out
}
func (c *CallStdlib) Assembly() string { return fmt.Sprintf("call_std %d, %d", c.Function, c.ArgsCount) }

// Exit terminates the run, serializing the top ResultCount stack cells as
// output (spec.md §6).
type Exit struct {
	baseInstruction
	ResultCount uint
}

func decodeExit(data []byte) (Instruction, int, error) {
	if len(data) < 2 {
		return nil, 0, ErrUnexpectedEOF
	}
	n, consumed, err := DecodeVLQ(data[1:])
	if err != nil {
		return nil, 0, err
	}
	return &Exit{baseInstruction: baseInstruction{code: OpExit}, ResultCount: uint(n.Uint64())}, 1 + consumed, nil
}
func (e *Exit) Encode() []byte {
	return append([]byte{byte(OpExit)}, EncodeVLQ(new(big.Int).SetUint64(uint64(e.ResultCount)))...)
}
func (e *Exit) Assembly() string { return fmt.Sprintf("exit %d", e.ResultCount) }

// ArrayOp covers the four opcodes parameterized by a single VLQ-encoded
// size: ArraySelect/ArraySet take the static array length (spec.md §4.3),
// StorageLoad/StorageStore take the storage leaf's field width (spec.md
// §4.7), since both need to know, ahead of popping the index, how many
// stack cells belong to the array or leaf.
type ArrayOp struct {
	baseInstruction
	Size uint
}

func decodeArrayOp(op Opcode, data []byte) (Instruction, int, error) {
	if len(data) < 2 {
		return nil, 0, ErrUnexpectedEOF
	}
	v, n, err := DecodeVLQ(data[1:])
	if err != nil {
		return nil, 0, err
	}
	return &ArrayOp{baseInstruction: baseInstruction{code: op}, Size: uint(v.Uint64())}, 1 + n, nil
}
func (a *ArrayOp) Encode() []byte {
	return append([]byte{byte(a.code)}, EncodeVLQ(new(big.Int).SetUint64(uint64(a.Size)))...)
}
func (a *ArrayOp) Assembly() string {
	return a.code.String()
}

// Slice extracts the compile-time-known sub-range [From, From+Len) of the
// Size cells at the top of the stack (spec.md §4.8's `Slice(from,len)`
// stack op — a static counterpart to the dynamic array_select/array_set).
type Slice struct {
	baseInstruction
	Size uint
	From uint
	Len  uint
}

func decodeSlice(data []byte) (Instruction, int, error) {
	if len(data) < 2 {
		return nil, 0, ErrUnexpectedEOF
	}
	size, n1, err := DecodeVLQ(data[1:])
	if err != nil {
		return nil, 0, err
	}
	from, n2, err := DecodeVLQ(data[1+n1:])
	if err != nil {
		return nil, 0, err
	}
	length, n3, err := DecodeVLQ(data[1+n1+n2:])
	if err != nil {
		return nil, 0, err
	}
	return &Slice{
		baseInstruction: baseInstruction{code: OpSlice},
		Size:            uint(size.Uint64()),
		From:            uint(from.Uint64()),
		Len:             uint(length.Uint64()),
	}, 1 + n1 + n2 + n3, nil
}
func (s *Slice) Encode() []byte {
	out := []byte{byte(OpSlice)}
	out = append(out, EncodeVLQ(new(big.Int).SetUint64(uint64(s.Size)))...)
	out = append(out, EncodeVLQ(new(big.Int).SetUint64(uint64(s.From)))...)
	out = append(out, EncodeVLQ(new(big.Int).SetUint64(uint64(s.Len)))...)
	return out
}
func (s *Slice) Assembly() string { return fmt.Sprintf("slice %d, %d, %d", s.Size, s.From, s.Len) }

// Dbg pops the flattened values of its ArgSizes (bottom to top: last
// argument_type's cells on top, matching original_source's
// `Dbg::execute`'s `for argument_type in ...rev()` order) and formats them
// into Format's "{}" placeholders, printed only when the active condition
// is truthy (spec.md §4.8: "side-effect only when the current condition
// stack top is truthy; never emits constraints").
type Dbg struct {
	baseInstruction
	Format   string
	ArgSizes []uint
}

func decodeDbg(data []byte) (Instruction, int, error) {
	if len(data) < 2 {
		return nil, 0, ErrUnexpectedEOF
	}
	fmtLen, n1, err := DecodeVLQ(data[1:])
	if err != nil {
		return nil, 0, err
	}
	offset := 1 + n1
	fmtEnd := offset + int(fmtLen.Uint64())
	if fmtEnd > len(data) {
		return nil, 0, ErrUnexpectedEOF
	}
	format := string(data[offset:fmtEnd])
	offset = fmtEnd

	argCount, n2, err := DecodeVLQ(data[offset:])
	if err != nil {
		return nil, 0, err
	}
	offset += n2

	sizes := make([]uint, argCount.Uint64())
	for i := range sizes {
		size, n, err := DecodeVLQ(data[offset:])
		if err != nil {
			return nil, 0, err
		}
		sizes[i] = uint(size.Uint64())
		offset += n
	}

	return &Dbg{baseInstruction: baseInstruction{code: OpDbg}, Format: format, ArgSizes: sizes}, offset, nil
}
func (d *Dbg) Encode() []byte {
	out := []byte{byte(OpDbg)}
	out = append(out, EncodeVLQ(big.NewInt(int64(len(d.Format))))...)
	out = append(out, []byte(d.Format)...)
	out = append(out, EncodeVLQ(new(big.Int).SetUint64(uint64(len(d.ArgSizes))))...)
	for _, s := range d.ArgSizes {
		out = append(out, EncodeVLQ(new(big.Int).SetUint64(uint64(s)))...)
	}
	return out
}
func (d *Dbg) Assembly() string { return fmt.Sprintf("dbg %q", d.Format) }

// IsDecodingError reports whether err is a *DecodingError (used by callers
// distinguishing static decode failures from I/O errors reading the
// bytecode source).
func IsDecodingError(err error) bool {
	var de *DecodingError
	return errors.As(err, &de)
}
