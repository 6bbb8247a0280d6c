package compiler

import (
	"strings"
	"testing"

	"github.com/kristofer/dlox/pkg/chunk"
	"github.com/kristofer/dlox/pkg/heap"
)

func compile(t *testing.T, source string) (*chunk.Chunk, error) {
	t.Helper()
	c := New(heap.New())
	return c.Compile(source)
}

func TestCompileArithmeticPrecedence(t *testing.T) {
	bc, err := compile(t, "print 1 + 2 * 3;")
	if err != nil {
		t.Fatalf("unexpected compile error: %v", err)
	}
	want := []chunk.OpCode{
		chunk.OpConstant, // 1
		chunk.OpConstant, // 2
		chunk.OpConstant, // 3
		chunk.OpMultiply,
		chunk.OpAdd,
		chunk.OpPrint,
		chunk.OpReturn,
	}
	assertOps(t, bc, want)
}

func TestCompileVarDeclarationAndAssignment(t *testing.T) {
	bc, err := compile(t, "var a = 1; a = 2; print a;")
	if err != nil {
		t.Fatalf("unexpected compile error: %v", err)
	}
	want := []chunk.OpCode{
		chunk.OpConstant,     // 1
		chunk.OpDefineGlobal, // a
		chunk.OpConstant,     // 2
		chunk.OpSetGlobal,    // a
		chunk.OpPop,          // assignment-as-expression-statement result
		chunk.OpGetGlobal,    // a
		chunk.OpPrint,
		chunk.OpReturn,
	}
	assertOps(t, bc, want)
}

func TestCompileDesugaredComparisonOperators(t *testing.T) {
	cases := map[string][]chunk.OpCode{
		"print 1 != 2;": {chunk.OpConstant, chunk.OpConstant, chunk.OpEqual, chunk.OpNot, chunk.OpPrint, chunk.OpReturn},
		"print 1 >= 2;": {chunk.OpConstant, chunk.OpConstant, chunk.OpLess, chunk.OpNot, chunk.OpPrint, chunk.OpReturn},
		"print 1 <= 2;": {chunk.OpConstant, chunk.OpConstant, chunk.OpGreater, chunk.OpNot, chunk.OpPrint, chunk.OpReturn},
	}
	for src, want := range cases {
		bc, err := compile(t, src)
		if err != nil {
			t.Fatalf("%q: unexpected compile error: %v", src, err)
		}
		assertOps(t, bc, want)
	}
}

func TestCompileBlockIsRejected(t *testing.T) {
	_, err := compile(t, "var a = 1; { var a = 2; }")
	if err == nil {
		t.Fatal("expected a compile error for block scoping, got none")
	}
	if !strings.Contains(err.Error(), "Block scoping is not supported") {
		t.Fatalf("unexpected error message: %v", err)
	}
}

func TestCompileInvalidAssignmentTarget(t *testing.T) {
	_, err := compile(t, "1 = 2;")
	if err == nil {
		t.Fatal("expected a compile error for an invalid assignment target")
	}
	if !strings.Contains(err.Error(), "Invalid assignment target.") {
		t.Fatalf("unexpected error message: %v", err)
	}
}

func TestCompileErrorFormatAtToken(t *testing.T) {
	_, err := compile(t, "print 1 +;")
	if err == nil {
		t.Fatal("expected a compile error")
	}
	if !strings.Contains(err.Error(), "[line 1] Error at ';'") {
		t.Fatalf("unexpected error format: %v", err)
	}
}

func TestCompileErrorFormatAtEOF(t *testing.T) {
	_, err := compile(t, "print 1 +")
	if err == nil {
		t.Fatal("expected a compile error")
	}
	if !strings.Contains(err.Error(), "Error at end:") {
		t.Fatalf("unexpected error format: %v", err)
	}
}

func TestCompileMultipleErrorsAccumulate(t *testing.T) {
	_, err := compile(t, "1 = 2; 3 = 4;")
	ce, ok := err.(*CompileError)
	if !ok {
		t.Fatalf("expected *CompileError, got %T", err)
	}
	if len(ce.Messages()) != 2 {
		t.Fatalf("expected 2 accumulated errors, got %d: %v", len(ce.Messages()), ce.Messages())
	}
}

func TestCompileStringLiteralsShareInternedObject(t *testing.T) {
	h := heap.New()
	c := New(h)
	_, err := c.Compile(`var a = "hi"; var b = "hi";`)
	if err != nil {
		t.Fatalf("unexpected compile error: %v", err)
	}
	// Interned: "hi" (shared by both declarations), plus the identifier
	// names "a" and "b" themselves (identifierConstant also interns).
	if got := h.InternedCount(); got != 3 {
		t.Fatalf("got %d interned strings, want 3", got)
	}
}

func assertOps(t *testing.T, bc *chunk.Chunk, want []chunk.OpCode) {
	t.Helper()
	got := extractOps(bc, want)
	if len(got) != len(want) {
		t.Fatalf("opcode count mismatch: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("opcode %d: got %s, want %s (full: got=%v want=%v)", i, got[i], want[i], got, want)
		}
	}
}

// extractOps walks bc.Code decoding opcodes, skipping the one-byte
// constant-index operand that OpConstant/OpGetGlobal/OpDefineGlobal/
// OpSetGlobal each carry.
func extractOps(bc *chunk.Chunk, want []chunk.OpCode) []chunk.OpCode {
	var ops []chunk.OpCode
	for i := 0; i < len(bc.Code); {
		op := chunk.OpCode(bc.Code[i])
		ops = append(ops, op)
		switch op {
		case chunk.OpConstant, chunk.OpGetGlobal, chunk.OpDefineGlobal, chunk.OpSetGlobal:
			i += 2
		default:
			i++
		}
	}
	return ops
}
