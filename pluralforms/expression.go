package pluralforms

import (
	"fmt"
	"strconv"
)

// Expression is a compiled Plural-Forms expression. Eval returns the plural
// form index for n; String renders the expression fully parenthesized. Use
// Compile to create one.
type Expression interface {
	Eval(n uint32) int
	String() string
}

func truth(b bool) int {
	if b {
		return 1
	}
	return 0
}

var operators = map[int]string{
	'|':    "||",
	'&':    "&&",
	'=':    "==",
	neTok:  "!=",
	ltTok:  "<",
	lteTok: "<=",
	gtTok:  ">",
	gteTok: ">=",
	'+':    "+",
	'-':    "-",
	'*':    "*",
	'/':    "/",
	'%':    "%",
}

// binaryExpr applies op, one of the tokens in operators, to its operands.
type binaryExpr struct {
	op    int
	left  Expression
	right Expression
}

func (e binaryExpr) Eval(n uint32) int {
	l := e.left.Eval(n)
	switch e.op {
	case '|':
		return truth(l != 0 || e.right.Eval(n) != 0)
	case '&':
		return truth(l != 0 && e.right.Eval(n) != 0)
	}

	r := e.right.Eval(n)
	switch e.op {
	case '=':
		return truth(l == r)
	case neTok:
		return truth(l != r)
	case ltTok:
		return truth(l < r)
	case lteTok:
		return truth(l <= r)
	case gtTok:
		return truth(l > r)
	case gteTok:
		return truth(l >= r)
	case '+':
		return l + r
	case '-':
		return l - r
	case '*':
		return l * r
	case '/', '%':
		// x/0 and x%0 are 0
		if r == 0 {
			return 0
		}
		if e.op == '/' {
			return l / r
		}
		return l % r
	}
	panic(fmt.Sprintf("internal error: unknown operator %d", e.op))
}

func (e binaryExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", e.left, operators[e.op], e.right)
}

type notExpr struct {
	sub Expression
}

func (e notExpr) Eval(n uint32) int {
	return truth(e.sub.Eval(n) == 0)
}

func (e notExpr) String() string {
	return "!" + e.sub.String()
}

type ternaryExpr struct {
	test    Expression
	ifTrue  Expression
	ifFalse Expression
}

func (e ternaryExpr) Eval(n uint32) int {
	if e.test.Eval(n) != 0 {
		return e.ifTrue.Eval(n)
	}
	return e.ifFalse.Eval(n)
}

func (e ternaryExpr) String() string {
	return fmt.Sprintf("(%s ? %s : %s)", e.test, e.ifTrue, e.ifFalse)
}

type numberExpr struct {
	value int
}

func (e numberExpr) Eval(uint32) int {
	return e.value
}

func (e numberExpr) String() string {
	return strconv.Itoa(e.value)
}

type varExpr struct{}

func (varExpr) Eval(n uint32) int {
	return int(n)
}

func (varExpr) String() string {
	return "n"
}
