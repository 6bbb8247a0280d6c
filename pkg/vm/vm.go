// Package vm implements the stack-based bytecode virtual machine that
// executes chunk.Chunk programs (spec.md §4.6).
//
// Architecture, following the teacher's (kristofer-smog) pkg/vm/vm.go
// shape — a fixed-size value stack plus a stack pointer, a globals
// table, an instruction pointer read straight out of the chunk's code
// buffer — generalized from smog's map[string]interface{} globals and
// bare interface{} stack slots to dlox's tagged value.Value and the
// open-addressed table.Table[value.Value] spec.md §4.4/§4.6 call for,
// and from smog's struct-per-instruction decode to reading opcodes and
// one-byte operands directly out of a byte buffer (spec.md §4.3/§4.6).
//
// Output goes through an injected io.Writer rather than fmt.Println
// directly, the way the Romualdo VM
// (other_examples/...stackedboxes-romualdo__pkg-vm-vm.go.go) takes its
// out io.Writer in vm.New — this is what lets cmd/dlox and the test
// suite both drive the same VM against different sinks.
package vm

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/kristofer/dlox/pkg/chunk"
	"github.com/kristofer/dlox/pkg/debug"
	"github.com/kristofer/dlox/pkg/heap"
	"github.com/kristofer/dlox/pkg/table"
	"github.com/kristofer/dlox/pkg/value"
)

// StackMax is the operand stack's fixed capacity (spec.md §3 "Operand
// Stack"). The compiler imposes no limit on expression nesting, so a
// deeply nested expression can exceed it; push reports that as an
// ordinary "Stack overflow" RuntimeError rather than crashing, as
// spec.md §5 permits.
const StackMax = 256

// VM is a single bytecode interpreter instance. It owns its operand
// stack, its globals table, and (via heap) every heap-allocated object
// created during compilation or execution (spec.md §3 "Object
// Ownership", §5).
type VM struct {
	stack [StackMax]value.Value
	sp    int

	chunk *chunk.Chunk
	ip    int

	globals *table.Table[value.Value]
	heap    *heap.Heap

	out   io.Writer
	log   *logrus.Logger
	trace bool
}

// New creates a VM that writes `print` output to out and allocates
// heap objects through h. Pass the same *heap.Heap to the Compiler that
// produces the chunks this VM will run, so that string constants
// created at compile time and strings created at run time share one
// intern set (spec.md §3's "same VM-owned list" requirement).
func New(out io.Writer, h *heap.Heap) *VM {
	return &VM{
		globals: table.New[value.Value](),
		heap:    h,
		out:     out,
		log:     logrus.StandardLogger(),
	}
}

// SetTrace enables or disables per-instruction execution tracing
// (logged via logrus, not written to out — spec.md §6's diagnostic
// wire format must stay exact, so tracing never touches it).
func (vm *VM) SetTrace(trace bool) {
	vm.trace = trace
}

// Globals exposes the globals table read-only-ish, for tests and the
// REPL's introspection needs.
func (vm *VM) Globals() *table.Table[value.Value] {
	return vm.globals
}

// Heap returns the VM's shared object allocator.
func (vm *VM) Heap() *heap.Heap {
	return vm.heap
}

// Reset tears the VM down per spec.md §5: releases every heap object
// and clears the globals table and operand stack. Call this between
// independent interpret calls that should not see each other's state
// (the REPL deliberately does NOT call this between lines, so that
// globals persist — spec.md §4.7).
func (vm *VM) Reset() {
	vm.heap.Reset()
	vm.globals = table.New[value.Value]()
	vm.sp = 0
}

// Run executes bc to completion, returning nil on success or a
// *RuntimeError (spec.md §7) if execution aborted. No partial output
// beyond what `print` already wrote is implied by an error return — the
// protocol only promises the stack itself is reset on error (spec.md
// §4.6).
//
// When tracing is enabled, Run logs the chunk's full disassembly (constant
// pool included) once up front, then one instruction line per step.
func (vm *VM) Run(bc *chunk.Chunk) error {
	vm.chunk = bc
	vm.ip = 0
	vm.sp = 0

	if vm.trace {
		vm.log.Debug(debug.Disassemble(vm.chunk, "chunk"))
	}

	for {
		if vm.trace {
			vm.log.Debug(debug.Instruction(vm.chunk, vm.ip))
		}

		op := chunk.OpCode(vm.readByte())
		switch op {
		case chunk.OpConstant:
			if err := vm.push(vm.readConstant()); err != nil {
				return err
			}

		case chunk.OpNil:
			if err := vm.push(value.NilValue); err != nil {
				return err
			}
		case chunk.OpTrue:
			if err := vm.push(value.BoolValue(true)); err != nil {
				return err
			}
		case chunk.OpFalse:
			if err := vm.push(value.BoolValue(false)); err != nil {
				return err
			}

		case chunk.OpPop:
			vm.pop()

		case chunk.OpGetGlobal:
			name := vm.readConstant().AsString()
			v, ok := vm.globals.Get(name)
			if !ok {
				return vm.runtimeError("Undefined variable: '%s'", name.Chars)
			}
			if err := vm.push(v); err != nil {
				return err
			}

		case chunk.OpDefineGlobal:
			name := vm.readConstant().AsString()
			vm.globals.Set(name, vm.pop())

		case chunk.OpSetGlobal:
			name := vm.readConstant().AsString()
			if !vm.globals.SetExisting(name, vm.peek(0)) {
				return vm.runtimeError("Undefined variable: '%s'", name.Chars)
			}

		case chunk.OpEqual:
			b := vm.pop()
			a := vm.pop()
			if err := vm.push(value.BoolValue(value.Equal(a, b))); err != nil {
				return err
			}

		case chunk.OpGreater:
			if err := vm.binaryNumberOp(func(a, b float64) value.Value {
				return value.BoolValue(a > b)
			}); err != nil {
				return err
			}
		case chunk.OpLess:
			if err := vm.binaryNumberOp(func(a, b float64) value.Value {
				return value.BoolValue(a < b)
			}); err != nil {
				return err
			}

		case chunk.OpAdd:
			if err := vm.add(); err != nil {
				return err
			}
		case chunk.OpSubtract:
			if err := vm.binaryNumberOp(func(a, b float64) value.Value {
				return value.NumberValue(a - b)
			}); err != nil {
				return err
			}
		case chunk.OpMultiply:
			if err := vm.binaryNumberOp(func(a, b float64) value.Value {
				return value.NumberValue(a * b)
			}); err != nil {
				return err
			}
		case chunk.OpDivide:
			if err := vm.divide(); err != nil {
				return err
			}

		case chunk.OpNot:
			if err := vm.push(value.BoolValue(!vm.pop().Truthy())); err != nil {
				return err
			}

		case chunk.OpNegate:
			if !vm.peek(0).IsNumber() {
				return vm.runtimeError("Operand must be a number.")
			}
			n := vm.pop().AsNumber()
			if err := vm.push(value.NumberValue(-n)); err != nil {
				return err
			}

		case chunk.OpPrint:
			v := vm.pop()
			fmt.Fprintln(vm.out, v.Print())

		case chunk.OpReturn:
			return nil

		default:
			return vm.runtimeError("Unknown opcode: %d", op)
		}
	}
}

func (vm *VM) readByte() byte {
	b := vm.chunk.Code[vm.ip]
	vm.ip++
	return b
}

func (vm *VM) readConstant() value.Value {
	return vm.chunk.Constants[vm.readByte()]
}

func (vm *VM) push(v value.Value) error {
	if vm.sp >= StackMax {
		return vm.runtimeError("Stack overflow")
	}
	vm.stack[vm.sp] = v
	vm.sp++
	return nil
}

func (vm *VM) pop() value.Value {
	vm.sp--
	return vm.stack[vm.sp]
}

func (vm *VM) peek(distance int) value.Value {
	return vm.stack[vm.sp-1-distance]
}

// binaryNumberOp implements the shared pop-b-then-a, type-check,
// compute, push pattern for SUBTRACT/MULTIPLY/GREATER/LESS (spec.md
// §4.6: "pop b then a").
func (vm *VM) binaryNumberOp(op func(a, b float64) value.Value) error {
	if !vm.peek(0).IsNumber() || !vm.peek(1).IsNumber() {
		return vm.runtimeError("Operands must be numbers.")
	}
	b := vm.pop()
	a := vm.pop()
	return vm.push(op(a.AsNumber(), b.AsNumber()))
}

// add implements ADD's dual numeric/string behavior (spec.md §4.6:
// "if top is string → concatenate-intern; else numeric; else
// RuntimeError").
func (vm *VM) add() error {
	bVal := vm.peek(0)
	aVal := vm.peek(1)

	switch {
	case aVal.IsString() && bVal.IsString():
		b := vm.pop()
		a := vm.pop()
		result := vm.heap.Concat(a.AsString(), b.AsString())
		return vm.push(value.ObjValue(result))
	case aVal.IsNumber() && bVal.IsNumber():
		b := vm.pop()
		a := vm.pop()
		return vm.push(value.NumberValue(a.AsNumber() + b.AsNumber()))
	default:
		return vm.runtimeError("Operands must be two numbers or two strings.")
	}
}

func (vm *VM) divide() error {
	if !vm.peek(0).IsNumber() || !vm.peek(1).IsNumber() {
		return vm.runtimeError("Operands must be numbers.")
	}
	b := vm.pop()
	a := vm.pop()
	if b.AsNumber() == 0 {
		return vm.runtimeError("Division by zero.")
	}
	return vm.push(value.NumberValue(a.AsNumber() / b.AsNumber()))
}

// runtimeError builds a *RuntimeError citing the line of the
// instruction currently executing and resets the stack, per spec.md
// §4.6's runtime error protocol: "reset the stack, and return a
// RuntimeError from interpret. No partial results are visible."
func (vm *VM) runtimeError(format string, args ...interface{}) error {
	line := vm.chunk.GetLine(vm.ip - 1)
	vm.sp = 0
	return &RuntimeError{Message: fmt.Sprintf(format, args...), Line: line}
}
