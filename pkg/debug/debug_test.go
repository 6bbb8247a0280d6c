package debug

import (
	"strings"
	"testing"

	"github.com/kristofer/dlox/pkg/chunk"
	"github.com/kristofer/dlox/pkg/value"
)

func buildChunk() *chunk.Chunk {
	c := chunk.New()
	idx, _ := c.AddConstant(value.NumberValue(42))
	c.WriteOp(chunk.OpConstant, 1)
	c.Write(idx, 1)
	c.WriteOp(chunk.OpPrint, 1)
	c.WriteOp(chunk.OpReturn, 2)
	return c
}

func TestInstructionRendersConstantOperand(t *testing.T) {
	c := buildChunk()
	line := Instruction(c, 0)
	if !strings.Contains(line, "OP_CONSTANT") || !strings.Contains(line, "'42'") {
		t.Fatalf("unexpected instruction rendering: %q", line)
	}
}

func TestInstructionCollapsesRepeatedLine(t *testing.T) {
	c := buildChunk()
	// offset 2 is OP_PRINT, still on line 1 like offset 0 (OP_CONSTANT).
	line := Instruction(c, 2)
	if !strings.Contains(line, "   | ") {
		t.Fatalf("expected a collapsed line marker, got %q", line)
	}
}

func TestDisassembleListsEveryInstructionAndConstant(t *testing.T) {
	c := buildChunk()
	out := Disassemble(c, "test chunk")
	if !strings.Contains(out, "== test chunk ==") {
		t.Fatalf("missing header: %q", out)
	}
	if !strings.Contains(out, "-- constants --") {
		t.Fatalf("missing constants section: %q", out)
	}
	if !strings.Contains(out, "OP_CONSTANT") || !strings.Contains(out, "OP_PRINT") || !strings.Contains(out, "OP_RETURN") {
		t.Fatalf("missing opcodes in disassembly: %q", out)
	}
}

func TestDisassembleEmptyChunkHasNoConstantsSection(t *testing.T) {
	c := chunk.New()
	out := Disassemble(c, "empty")
	if strings.Contains(out, "-- constants --") {
		t.Fatalf("did not expect a constants section for an empty chunk: %q", out)
	}
}
