package pluralforms

import (
	"fmt"
	"slices"
	"strconv"
)

const (
	eofTok = iota + 256
	numTok
	neTok
	ltTok
	lteTok
	gtTok
	gteTok
	invalidTok
)

type lexer struct {
	data string
	pos  int
}

// next returns the next token. Single character operators are returned as
// themselves, as are the doubled forms "==", "&&" and "||".
func (l *lexer) next() (tok int, num int) {
	for {
		if l.pos >= len(l.data) {
			return eofTok, 0
		}
		if l.data[l.pos] != ' ' && l.data[l.pos] != '\t' {
			break
		}
		l.pos += 1
	}

	pos := l.pos
	result := int(l.data[pos])
	l.pos += 1
	switch result {
	case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		for l.pos < len(l.data) && l.data[l.pos] >= '0' && l.data[l.pos] <= '9' {
			l.pos += 1
		}
		if num, err := strconv.ParseInt(l.data[pos:l.pos], 10, 32); err == nil {
			return numTok, int(num)
		}
		return invalidTok, 0
	case '=':
		if l.pos < len(l.data) && l.data[l.pos] == '=' {
			l.pos += 1
			return result, 0
		}
		return invalidTok, 0
	case '!':
		if l.pos < len(l.data) && l.data[l.pos] == '=' {
			l.pos += 1
			return neTok, 0
		}
		return result, 0
	case '&', '|':
		if l.pos < len(l.data) && l.data[l.pos] == l.data[pos] {
			l.pos += 1
			return result, 0
		}
		return invalidTok, 0
	case '<':
		if l.pos < len(l.data) && l.data[l.pos] == '=' {
			l.pos += 1
			return lteTok, 0
		}
		return ltTok, 0
	case '>':
		if l.pos < len(l.data) && l.data[l.pos] == '=' {
			l.pos += 1
			return gteTok, 0
		}
		return gtTok, 0
	case 'n', '?', ':', '(', ')', '*', '/', '%', '+', '-':
		// Return as is
		return result, 0
	case ';', '\n':
		return eofTok, 0
	default:
		return invalidTok, 0
	}
}

// parser is a precedence climbing parser over the C operator subset
// used by Plural-Forms headers.
type parser struct {
	lex lexer
	tok int
	num int
}

func (p *parser) advance() {
	p.tok, p.num = p.lex.next()
}

func (p *parser) expect(tok int) error {
	if p.tok != tok {
		return p.unexpected()
	}
	p.advance()
	return nil
}

func (p *parser) unexpected() error {
	switch p.tok {
	case eofTok:
		return fmt.Errorf("unexpected end of expression")
	case invalidTok:
		return fmt.Errorf("invalid token at offset %d", p.lex.pos-1)
	}
	return fmt.Errorf("unexpected token at offset %d", p.lex.pos-1)
}

func (p *parser) ternary() (Expression, error) {
	test, err := p.or()
	if err != nil || p.tok != '?' {
		return test, err
	}
	p.advance()
	ifTrue, err := p.ternary()
	if err != nil {
		return nil, err
	}
	if err := p.expect(':'); err != nil {
		return nil, err
	}
	ifFalse, err := p.ternary()
	if err != nil {
		return nil, err
	}
	return ternaryExpr{test: test, ifTrue: ifTrue, ifFalse: ifFalse}, nil
}

// binary parses a left associative chain of the operators ops, reading
// the operands with next.
func (p *parser) binary(next func() (Expression, error), ops ...int) (Expression, error) {
	left, err := next()
	for err == nil && slices.Contains(ops, p.tok) {
		op := p.tok
		p.advance()
		var right Expression
		if right, err = next(); err == nil {
			left = binaryExpr{op: op, left: left, right: right}
		}
	}
	return left, err
}

func (p *parser) or() (Expression, error) {
	return p.binary(p.and, '|')
}

func (p *parser) and() (Expression, error) {
	return p.binary(p.equality, '&')
}

func (p *parser) equality() (Expression, error) {
	return p.binary(p.relational, '=', neTok)
}

func (p *parser) relational() (Expression, error) {
	return p.binary(p.additive, ltTok, lteTok, gtTok, gteTok)
}

func (p *parser) additive() (Expression, error) {
	return p.binary(p.multiplicative, '+', '-')
}

func (p *parser) multiplicative() (Expression, error) {
	return p.binary(p.unary, '*', '/', '%')
}

func (p *parser) unary() (Expression, error) {
	if p.tok == '!' {
		p.advance()
		sub, err := p.unary()
		if err != nil {
			return nil, err
		}
		return notExpr{sub: sub}, nil
	}
	return p.primary()
}

func (p *parser) primary() (Expression, error) {
	switch p.tok {
	case numTok:
		e := numberExpr{p.num}
		p.advance()
		return e, nil
	case 'n':
		p.advance()
		return varExpr{}, nil
	case '(':
		p.advance()
		e, err := p.ternary()
		if err != nil {
			return nil, err
		}
		if err := p.expect(')'); err != nil {
			return nil, err
		}
		return e, nil
	}
	return nil, p.unexpected()
}

// Compile a string containing a plural form expression to a Expression object.
func Compile(expr string) (Expression, error) {
	p := parser{lex: lexer{data: expr}}
	p.advance()
	e, err := p.ternary()
	if err == nil && p.tok != eofTok {
		err = p.unexpected()
	}
	if err != nil {
		return nil, fmt.Errorf("cannot parse expression: %s", err)
	}
	return e, nil
}
