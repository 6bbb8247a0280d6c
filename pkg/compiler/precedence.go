package compiler

import "github.com/kristofer/dlox/pkg/lexer"

// Precedence is the binding power used by parsePrecedence to decide how
// far an expression should keep consuming infix operators (spec.md
// §4.2's precedence ladder).
type Precedence int

const (
	PrecNone Precedence = iota
	PrecAssignment       // =
	PrecOr               // or
	PrecAnd              // and
	PrecEquality         // == !=
	PrecComparison       // < > <= >=
	PrecTerm             // + -
	PrecFactor           // * /
	PrecUnary            // ! -
	PrecCall             // . ()
	PrecPrimary
)

// prefixFn parses a prefix expression (or primary) starting at the
// current token, which has already been consumed as c.previous.
type prefixFn func(c *Compiler, canAssign bool)

// infixFn parses an infix expression given that its left-hand operand
// has already been compiled and is sitting on the stack.
type infixFn func(c *Compiler, canAssign bool)

// rule is one row of the Pratt parse table: spec.md §4.2's
// "{prefix_fn, infix_fn, precedence}".
type rule struct {
	prefix     prefixFn
	infix      infixFn
	precedence Precedence
}

// rules is the parse table indexed by token kind. Every token that can
// start or continue an expression has an entry; tokens with a nil
// prefix/infix simply can't appear in that position.
var rules = map[lexer.TokenKind]rule{
	lexer.LeftParen:    {prefix: (*Compiler).grouping},
	lexer.Minus:        {prefix: (*Compiler).unary, infix: (*Compiler).binary, precedence: PrecTerm},
	lexer.Plus:         {infix: (*Compiler).binary, precedence: PrecTerm},
	lexer.Slash:        {infix: (*Compiler).binary, precedence: PrecFactor},
	lexer.Star:         {infix: (*Compiler).binary, precedence: PrecFactor},
	lexer.Bang:         {prefix: (*Compiler).unary},
	lexer.BangEqual:    {infix: (*Compiler).binary, precedence: PrecEquality},
	lexer.EqualEqual:   {infix: (*Compiler).binary, precedence: PrecEquality},
	lexer.Greater:      {infix: (*Compiler).binary, precedence: PrecComparison},
	lexer.GreaterEqual: {infix: (*Compiler).binary, precedence: PrecComparison},
	lexer.Less:         {infix: (*Compiler).binary, precedence: PrecComparison},
	lexer.LessEqual:    {infix: (*Compiler).binary, precedence: PrecComparison},
	lexer.Identifier:   {prefix: (*Compiler).variable},
	lexer.String:       {prefix: (*Compiler).stringLiteral},
	lexer.Number:       {prefix: (*Compiler).number},
	lexer.False:        {prefix: (*Compiler).literal},
	lexer.Nil:          {prefix: (*Compiler).literal},
	lexer.True:         {prefix: (*Compiler).literal},
}

func getRule(kind lexer.TokenKind) rule {
	return rules[kind] // zero value: {nil, nil, PrecNone}, which is correct for tokens with no expression role
}
