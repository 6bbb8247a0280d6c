// Package compiler implements dlox's single-pass compiler: a
// predictive, Pratt-style parser that emits bytecode directly into a
// chunk.Chunk as it parses, never building an AST (spec.md §4.2, §9).
//
// Structurally this follows golox's vm/parser.go (itself following
// Crafting Interpreters' clox): one token of lookahead (previous/
// current), a prefix/infix rule table keyed by token kind
// (precedence.go), and panic-mode error synchronization at statement
// boundaries. Naming (emit/addConstant) and doc-comment density follow
// the teacher's (kristofer-smog) pkg/compiler/compiler.go.
package compiler

import (
	"strconv"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"

	"github.com/kristofer/dlox/pkg/chunk"
	"github.com/kristofer/dlox/pkg/heap"
	"github.com/kristofer/dlox/pkg/lexer"
	"github.com/kristofer/dlox/pkg/value"
)

// Compiler compiles one source buffer into one chunk.Chunk. It is not
// reusable across calls — construct a fresh Compiler per Compile call,
// the way the scanner it drives is restartable-but-single-use too.
type Compiler struct {
	scanner *lexer.Scanner
	heap    *heap.Heap
	chunk   *chunk.Chunk

	previous lexer.Token
	current  lexer.Token

	hadError  bool
	panicMode bool
	errs      *multierror.Error

	log *logrus.Logger
}

// New creates a Compiler that will allocate constant-pool string
// objects through heap (see pkg/heap's doc comment on why the compiler
// and VM share one allocator).
func New(h *heap.Heap) *Compiler {
	return &Compiler{heap: h, log: logrus.StandardLogger()}
}

// Compile compiles source into a chunk.Chunk, or returns a
// *CompileError if any syntax errors were recorded (spec.md §4.7's
// driver entry point, minus the VM stage).
func (c *Compiler) Compile(source string) (*chunk.Chunk, error) {
	c.scanner = lexer.New(source)
	c.chunk = chunk.New()
	c.hadError = false
	c.panicMode = false
	c.errs = nil

	c.advance()
	for !c.match(lexer.EOF) {
		c.declaration()
	}
	c.emitByte(byte(chunk.OpReturn))

	if c.hadError {
		return nil, &CompileError{errs: c.errs}
	}
	return c.chunk, nil
}

// --- token stream plumbing ---

func (c *Compiler) advance() {
	c.previous = c.current
	for {
		c.current = c.scanner.Next()
		if c.current.Kind != lexer.Error {
			break
		}
		c.errorAtCurrent(c.current.Lexeme)
	}
}

func (c *Compiler) check(kind lexer.TokenKind) bool {
	return c.current.Kind == kind
}

func (c *Compiler) match(kind lexer.TokenKind) bool {
	if !c.check(kind) {
		return false
	}
	c.advance()
	return true
}

func (c *Compiler) consume(kind lexer.TokenKind, message string) {
	if c.current.Kind == kind {
		c.advance()
		return
	}
	c.errorAtCurrent(message)
}

// --- error recording + panic-mode synchronization (spec.md §4.2, §7) ---

func (c *Compiler) errorAtCurrent(message string) {
	c.errorAt(c.current, message)
}

func (c *Compiler) error(message string) {
	c.errorAt(c.previous, message)
}

func (c *Compiler) errorAt(tok lexer.Token, message string) {
	if c.panicMode {
		return
	}
	c.panicMode = true
	c.hadError = true
	c.errs = multierror.Append(c.errs, &parseError{text: formatErrorAt(tok, message)})
}

type parseError struct{ text string }

func (e *parseError) Error() string { return e.text }

// synchronize skips tokens until it finds a statement boundary,
// matching spec.md §4.2's "panic-mode synchronization at ; or
// statement-starting keywords; do not attempt multi-token recovery."
func (c *Compiler) synchronize() {
	c.panicMode = false
	for c.current.Kind != lexer.EOF {
		if c.previous.Kind == lexer.Semicolon {
			return
		}
		switch c.current.Kind {
		case lexer.Class, lexer.Fun, lexer.For, lexer.If, lexer.Print,
			lexer.Return, lexer.Var, lexer.While:
			return
		}
		c.advance()
	}
}

// --- statements ---

func (c *Compiler) declaration() {
	switch {
	case c.match(lexer.Var):
		c.varDeclaration()
	case c.check(lexer.LeftBrace):
		// Open Question resolution (DESIGN.md): the bytecode core ships
		// without block scoping, so `{ ... }` is rejected rather than
		// silently given ad-hoc semantics.
		c.advance()
		c.errorAtCurrent("Block scoping is not supported by this interpreter.")
	default:
		c.statement()
	}

	if c.panicMode {
		c.synchronize()
	}
}

func (c *Compiler) varDeclaration() {
	global := c.parseVariable("Expect variable name.")

	if c.match(lexer.Equal) {
		c.expression()
	} else {
		c.emitByte(byte(chunk.OpNil))
	}
	c.consume(lexer.Semicolon, "Expect ';' after variable declaration.")
	c.defineVariable(global)
}

func (c *Compiler) statement() {
	switch {
	case c.match(lexer.Print):
		c.printStatement()
	default:
		c.expressionStatement()
	}
}

func (c *Compiler) printStatement() {
	c.expression()
	c.consume(lexer.Semicolon, "Expect ';' after value.")
	c.emitByte(byte(chunk.OpPrint))
}

func (c *Compiler) expressionStatement() {
	c.expression()
	c.consume(lexer.Semicolon, "Expect ';' after expression.")
	c.emitByte(byte(chunk.OpPop))
}

// --- global-variable plumbing (spec.md §4.2) ---

func (c *Compiler) parseVariable(errorMessage string) byte {
	c.consume(lexer.Identifier, errorMessage)
	return c.identifierConstant(c.previous)
}

func (c *Compiler) identifierConstant(name lexer.Token) byte {
	str := c.heap.InternString(name.Lexeme)
	idx, err := c.chunk.AddConstant(value.ObjValue(str))
	if err != nil {
		c.error(err.Error())
		return 0
	}
	return idx
}

func (c *Compiler) defineVariable(global byte) {
	c.emitBytes(byte(chunk.OpDefineGlobal), global)
}

// --- expressions ---

func (c *Compiler) expression() {
	c.parsePrecedence(PrecAssignment)
}

func (c *Compiler) parsePrecedence(precedence Precedence) {
	c.advance()
	prefixRule := getRule(c.previous.Kind).prefix
	if prefixRule == nil {
		c.error("Expect expression.")
		return
	}
	canAssign := precedence <= PrecAssignment
	prefixRule(c, canAssign)

	for precedence <= getRule(c.current.Kind).precedence {
		c.advance()
		infixRule := getRule(c.previous.Kind).infix
		infixRule(c, canAssign)
	}

	if canAssign && c.match(lexer.Equal) {
		c.error("Invalid assignment target.")
	}
}

func (c *Compiler) number(_ bool) {
	n, err := strconv.ParseFloat(c.previous.Lexeme, 64)
	if err != nil {
		c.error("Invalid number literal.")
		return
	}
	c.emitConstant(value.NumberValue(n))
}

func (c *Compiler) stringLiteral(_ bool) {
	// Lexeme spans the surrounding quotes; strip them before interning.
	raw := c.previous.Lexeme
	unquoted := raw[1 : len(raw)-1]
	str := c.heap.InternString(unquoted)
	c.emitConstant(value.ObjValue(str))
}

func (c *Compiler) literal(_ bool) {
	switch c.previous.Kind {
	case lexer.False:
		c.emitByte(byte(chunk.OpFalse))
	case lexer.Nil:
		c.emitByte(byte(chunk.OpNil))
	case lexer.True:
		c.emitByte(byte(chunk.OpTrue))
	}
}

func (c *Compiler) grouping(_ bool) {
	c.expression()
	c.consume(lexer.RightParen, "Expect ')' after expression.")
}

func (c *Compiler) unary(_ bool) {
	opKind := c.previous.Kind
	line := c.previous.Line
	c.parsePrecedence(PrecUnary)

	switch opKind {
	case lexer.Minus:
		c.emitByteAt(byte(chunk.OpNegate), line)
	case lexer.Bang:
		c.emitByteAt(byte(chunk.OpNot), line)
	}
}

func (c *Compiler) binary(_ bool) {
	opKind := c.previous.Kind
	line := c.previous.Line
	r := getRule(opKind)
	c.parsePrecedence(r.precedence + 1)

	switch opKind {
	case lexer.Plus:
		c.emitByteAt(byte(chunk.OpAdd), line)
	case lexer.Minus:
		c.emitByteAt(byte(chunk.OpSubtract), line)
	case lexer.Star:
		c.emitByteAt(byte(chunk.OpMultiply), line)
	case lexer.Slash:
		c.emitByteAt(byte(chunk.OpDivide), line)
	case lexer.EqualEqual:
		c.emitByteAt(byte(chunk.OpEqual), line)
	case lexer.BangEqual:
		c.emitByteAt(byte(chunk.OpEqual), line)
		c.emitByteAt(byte(chunk.OpNot), line)
	case lexer.Greater:
		c.emitByteAt(byte(chunk.OpGreater), line)
	case lexer.GreaterEqual:
		c.emitByteAt(byte(chunk.OpLess), line)
		c.emitByteAt(byte(chunk.OpNot), line)
	case lexer.Less:
		c.emitByteAt(byte(chunk.OpLess), line)
	case lexer.LessEqual:
		c.emitByteAt(byte(chunk.OpGreater), line)
		c.emitByteAt(byte(chunk.OpNot), line)
	}
}

func (c *Compiler) variable(canAssign bool) {
	c.namedVariable(c.previous, canAssign)
}

func (c *Compiler) namedVariable(name lexer.Token, canAssign bool) {
	arg := c.identifierConstant(name)

	if canAssign && c.match(lexer.Equal) {
		c.expression()
		c.emitBytes(byte(chunk.OpSetGlobal), arg)
		return
	}
	c.emitBytes(byte(chunk.OpGetGlobal), arg)
}

// --- bytecode emission ---

func (c *Compiler) emitByte(b byte) {
	c.chunk.Write(b, c.previous.Line)
}

func (c *Compiler) emitByteAt(b byte, line int) {
	c.chunk.Write(b, line)
}

func (c *Compiler) emitBytes(b1, b2 byte) {
	c.emitByte(b1)
	c.emitByte(b2)
}

func (c *Compiler) emitConstant(v value.Value) {
	idx, err := c.chunk.AddConstant(v)
	if err != nil {
		c.error(err.Error())
		return
	}
	c.emitBytes(byte(chunk.OpConstant), idx)
}
