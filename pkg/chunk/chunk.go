// Package chunk implements Chunk, the unit of compiled bytecode: an
// append-only code buffer, a byte-indexed constant pool, and a
// run-length-encoded map from code offset to source line (spec.md §3
// "Chunk", §4.3).
//
// The shape mirrors the teacher's (kristofer-smog) pkg/bytecode.Bytecode
// — instructions plus a constant pool — generalized from its
// {Op,Operand}-struct-per-instruction encoding to a flat byte stream
// with explicit one-byte operands, since spec.md §4.3/§6 fixes the
// constant-pool index width at one byte (max 256 constants per chunk)
// and wants a byte-addressed code buffer rather than a slice of structs.
package chunk

import "github.com/kristofer/dlox/pkg/value"

// OpCode is a single bytecode instruction opcode.
type OpCode byte

// Opcode set (spec.md §4.6). Operand widths are documented per opcode;
// all are a single byte (a constant-pool index), matching the 256-entry
// constant pool cap.
const (
	OpConstant OpCode = iota // operand: constant-pool index
	OpNil
	OpTrue
	OpFalse
	OpPop
	OpGetGlobal    // operand: constant-pool index of the name string
	OpDefineGlobal // operand: constant-pool index of the name string
	OpSetGlobal    // operand: constant-pool index of the name string
	OpEqual
	OpGreater
	OpLess
	OpAdd
	OpSubtract
	OpMultiply
	OpDivide
	OpNot
	OpNegate
	OpPrint
	OpReturn
)

var opcodeNames = [...]string{
	OpConstant: "OP_CONSTANT", OpNil: "OP_NIL", OpTrue: "OP_TRUE",
	OpFalse: "OP_FALSE", OpPop: "OP_POP", OpGetGlobal: "OP_GET_GLOBAL",
	OpDefineGlobal: "OP_DEFINE_GLOBAL", OpSetGlobal: "OP_SET_GLOBAL",
	OpEqual: "OP_EQUAL", OpGreater: "OP_GREATER", OpLess: "OP_LESS",
	OpAdd: "OP_ADD", OpSubtract: "OP_SUBTRACT", OpMultiply: "OP_MULTIPLY",
	OpDivide: "OP_DIVIDE", OpNot: "OP_NOT", OpNegate: "OP_NEGATE",
	OpPrint: "OP_PRINT", OpReturn: "OP_RETURN",
}

func (op OpCode) String() string {
	if int(op) < len(opcodeNames) && opcodeNames[op] != "" {
		return opcodeNames[op]
	}
	return "OP_UNKNOWN"
}

// MaxConstants is the largest number of constants a single Chunk can
// hold: indices are encoded in one byte (spec.md §3/§4.2).
const MaxConstants = 256

// lineRun is one run of the RLE line map: Count consecutive code bytes
// all attributed to Line.
type lineRun struct {
	Line  int
	Count int
}

// Chunk is an append-only bytecode buffer plus its constant pool and
// source-line map.
type Chunk struct {
	Code      []byte
	Constants []value.Value
	lines     []lineRun
}

// New returns an empty Chunk.
func New() *Chunk {
	return &Chunk{}
}

// Write appends a single bytecode byte and records the source line that
// produced it.
func (c *Chunk) Write(b byte, line int) {
	c.Code = append(c.Code, b)
	c.recordLine(line)
}

// WriteOp is a convenience wrapper for Write(byte(op), line).
func (c *Chunk) WriteOp(op OpCode, line int) {
	c.Write(byte(op), line)
}

func (c *Chunk) recordLine(line int) {
	if n := len(c.lines); n > 0 && c.lines[n-1].Line == line {
		c.lines[n-1].Count++
		return
	}
	c.lines = append(c.lines, lineRun{Line: line, Count: 1})
}

// GetLine returns the 1-based source line that produced the byte at
// offset, per spec.md §4.3. Panics if offset is out of [0, len(Code)) —
// callers (the VM's runtime-error path) always have a valid offset by
// construction.
func (c *Chunk) GetLine(offset int) int {
	if offset < 0 || offset >= len(c.Code) {
		panic("chunk: GetLine offset out of range")
	}
	remaining := offset
	for _, run := range c.lines {
		if remaining < run.Count {
			return run.Line
		}
		remaining -= run.Count
	}
	panic("chunk: line map shorter than code buffer")
}

// AddConstant appends value to the constant pool and returns its index,
// or an error if doing so would exceed MaxConstants (spec.md §4.2's
// compile-time "too many constants" error).
func (c *Chunk) AddConstant(v value.Value) (byte, error) {
	if len(c.Constants) >= MaxConstants {
		return 0, ErrTooManyConstants
	}
	c.Constants = append(c.Constants, v)
	return byte(len(c.Constants) - 1), nil
}
