// Package debug implements dlox's bytecode disassembler and execution
// tracer. It is explicitly out of the hard core (spec.md §1's "disassembler
// / debug tracing" is named as an external collaborator, consuming a
// chunk + instruction offset and emitting text) but is specified as a
// concrete component so `-trace` mode and an eventual `dlox disasm`
// subcommand have somewhere to live — the same role the teacher's
// (kristofer-smog) pkg/vm/debugger.go plays for smog.
package debug

import (
	"fmt"
	"strings"

	"github.com/davecgh/go-spew/spew"

	"github.com/kristofer/dlox/pkg/chunk"
)

// Instruction renders the single instruction at offset as human-
// readable text — offset, source line ("   |" when unchanged from the
// previous byte), opcode, and any constant operand, e.g.
// "0003    1 OP_GET_GLOBAL       2 'x'" — and returns the rendered
// line. It does not advance or return the next offset — callers walking
// a whole chunk should use Disassemble.
func Instruction(c *chunk.Chunk, offset int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%04d ", offset)
	if offset > 0 && c.GetLine(offset) == c.GetLine(offset-1) {
		b.WriteString("   | ")
	} else {
		fmt.Fprintf(&b, "%4d ", c.GetLine(offset))
	}

	op := chunk.OpCode(c.Code[offset])
	switch op {
	case chunk.OpConstant, chunk.OpGetGlobal, chunk.OpDefineGlobal, chunk.OpSetGlobal:
		idx := c.Code[offset+1]
		fmt.Fprintf(&b, "%-16s %4d '%s'", op, idx, c.Constants[idx].Print())
	default:
		fmt.Fprintf(&b, "%-16s", op)
	}
	return b.String()
}

// instructionLength returns how many bytes the instruction at offset
// occupies, so Disassemble can advance correctly.
func instructionLength(c *chunk.Chunk, offset int) int {
	switch chunk.OpCode(c.Code[offset]) {
	case chunk.OpConstant, chunk.OpGetGlobal, chunk.OpDefineGlobal, chunk.OpSetGlobal:
		return 2
	default:
		return 1
	}
}

// Disassemble renders every instruction in c, prefixed by name and the
// constant pool (dumped with spew for a readable, recursively-formatted
// view of any nested values), matching the kind of output the teacher's
// cmd/smog `disassemble` subcommand produces.
func Disassemble(c *chunk.Chunk, name string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "== %s ==\n", name)
	if len(c.Constants) > 0 {
		b.WriteString("-- constants --\n")
		b.WriteString(spew.Sdump(c.Constants))
	}
	for offset := 0; offset < len(c.Code); {
		b.WriteString(Instruction(c, offset))
		b.WriteString("\n")
		offset += instructionLength(c, offset)
	}
	return b.String()
}
