package chunk

import (
	"testing"

	"github.com/kristofer/dlox/pkg/value"
)

func TestWriteAndGetLine(t *testing.T) {
	c := New()
	c.WriteOp(OpConstant, 1)
	c.Write(0, 1)
	c.WriteOp(OpReturn, 2)

	if len(c.Code) != 3 {
		t.Fatalf("len(Code) = %d, want 3", len(c.Code))
	}
	if got := c.GetLine(0); got != 1 {
		t.Errorf("GetLine(0) = %d, want 1", got)
	}
	if got := c.GetLine(1); got != 1 {
		t.Errorf("GetLine(1) = %d, want 1", got)
	}
	if got := c.GetLine(2); got != 2 {
		t.Errorf("GetLine(2) = %d, want 2", got)
	}
}

func TestGetLineMultiLineRLE(t *testing.T) {
	c := New()
	for i := 0; i < 5; i++ {
		c.Write(0, 10)
	}
	for i := 0; i < 3; i++ {
		c.Write(0, 11)
	}
	c.Write(0, 12)

	wantLines := []int{10, 10, 10, 10, 10, 11, 11, 11, 12}
	for offset, want := range wantLines {
		if got := c.GetLine(offset); got != want {
			t.Errorf("GetLine(%d) = %d, want %d", offset, got, want)
		}
	}
}

func TestGetLineOutOfRangePanics(t *testing.T) {
	c := New()
	c.Write(0, 1)
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for out-of-range offset")
		}
	}()
	c.GetLine(5)
}

func TestAddConstant(t *testing.T) {
	c := New()
	idx, err := c.AddConstant(value.NumberValue(42))
	if err != nil {
		t.Fatalf("AddConstant: %v", err)
	}
	if idx != 0 {
		t.Errorf("idx = %d, want 0", idx)
	}
	if !value.Equal(c.Constants[idx], value.NumberValue(42)) {
		t.Errorf("Constants[0] = %v, want 42", c.Constants[idx])
	}
}

func TestAddConstantOverflow(t *testing.T) {
	c := New()
	for i := 0; i < MaxConstants; i++ {
		if _, err := c.AddConstant(value.NumberValue(float64(i))); err != nil {
			t.Fatalf("unexpected error adding constant %d: %v", i, err)
		}
	}
	if _, err := c.AddConstant(value.NumberValue(999)); err != ErrTooManyConstants {
		t.Fatalf("expected ErrTooManyConstants, got %v", err)
	}
}

func TestOpCodeString(t *testing.T) {
	if OpReturn.String() != "OP_RETURN" {
		t.Errorf("OpReturn.String() = %q, want OP_RETURN", OpReturn.String())
	}
	unknown := OpCode(255)
	if unknown.String() != "OP_UNKNOWN" {
		t.Errorf("unknown opcode String() = %q, want OP_UNKNOWN", unknown.String())
	}
}
