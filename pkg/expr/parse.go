package expr

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/tabsolver/tabsolver/pkg/errors"
	"github.com/tabsolver/tabsolver/pkg/solver"
	"github.com/tabsolver/tabsolver/pkg/table"
)

type tokenKind int

const (
	tokNumber tokenKind = iota
	tokIdent
	tokPlus
	tokMinus
	tokStar
	tokPower
	tokLParen
	tokRParen
	tokEOF
)

type token struct {
	kind tokenKind
	text string
}

// lex tokenizes one operand expression. Relational characters never reach
// the lexer; they are stripped by splitRelational first.
func lex(text, original string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(text) {
		c := text[i]
		switch {
		case c == ' ' || c == '\t':
			i++
		case c == '+':
			toks = append(toks, token{kind: tokPlus})
			i++
		case c == '-':
			toks = append(toks, token{kind: tokMinus})
			i++
		case c == '*':
			if i+1 < len(text) && text[i+1] == '*' {
				toks = append(toks, token{kind: tokPower})
				i += 2
			} else {
				toks = append(toks, token{kind: tokStar})
				i++
			}
		case c == '(':
			toks = append(toks, token{kind: tokLParen})
			i++
		case c == ')':
			toks = append(toks, token{kind: tokRParen})
			i++
		case c >= '0' && c <= '9' || c == '.':
			j := i
			for j < len(text) && (text[j] >= '0' && text[j] <= '9' || text[j] == '.') {
				j++
			}
			toks = append(toks, token{kind: tokNumber, text: text[i:j]})
			i = j
		case c == '_' || unicode.IsLetter(rune(c)):
			j := i
			for j < len(text) && (text[j] == '_' || unicode.IsLetter(rune(text[j])) || text[j] >= '0' && text[j] <= '9') {
				j++
			}
			toks = append(toks, token{kind: tokIdent, text: text[i:j]})
			i = j
		default:
			return nil, errors.Newf(errors.ErrorTypeExpressionParse,
				"unexpected character %q in expression %q", string(c), original)
		}
	}
	return append(toks, token{kind: tokEOF}), nil
}

// parser evaluates as it parses; there is no separate AST because the
// grammar is small and every node evaluates exactly once.
type parser struct {
	toks     []token
	pos      int
	df       *table.DataFrame
	original string
}

func evaluate(df *table.DataFrame, text, original string) (interface{}, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.Newf(errors.ErrorTypeExpressionParse,
			"empty operand in expression %q", original)
	}
	toks, err := lex(text, original)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks, df: df, original: original}
	v, err := p.parseSum()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokEOF {
		return nil, p.errUnexpected()
	}
	return v, nil
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) errUnexpected() error {
	return errors.Newf(errors.ErrorTypeExpressionParse,
		"unexpected token in expression %q", p.original)
}

// parseSum handles + and -.
func (p *parser) parseSum() (interface{}, error) {
	left, err := p.parseProduct()
	if err != nil {
		return nil, err
	}
	for {
		switch p.peek().kind {
		case tokPlus:
			p.next()
			right, err := p.parseProduct()
			if err != nil {
				return nil, err
			}
			left, err = apply(solver.Plus, left, right)
			if err != nil {
				return nil, err
			}
		case tokMinus:
			p.next()
			right, err := p.parseProduct()
			if err != nil {
				return nil, err
			}
			left, err = apply(solver.Minus, left, right)
			if err != nil {
				return nil, err
			}
		default:
			return left, nil
		}
	}
}

// parseProduct handles *.
func (p *parser) parseProduct() (interface{}, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokStar {
		p.next()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left, err = apply(solver.Times, left, right)
		if err != nil {
			return nil, err
		}
	}
	return left, nil
}

// parseUnary handles leading minus.
func (p *parser) parseUnary() (interface{}, error) {
	if p.peek().kind == tokMinus {
		p.next()
		v, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return applyUnary(solver.Negate, v)
	}
	return p.parsePower()
}

// parsePower handles **, right associative and binding tighter than unary
// minus on its left.
func (p *parser) parsePower() (interface{}, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokPower {
		return base, nil
	}
	p.next()
	exp, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return apply(solver.Power, base, exp)
}

func (p *parser) parsePrimary() (interface{}, error) {
	switch t := p.next(); t.kind {
	case tokNumber:
		f, err := strconv.ParseFloat(t.text, 64)
		if err != nil {
			return nil, errors.Newf(errors.ErrorTypeExpressionParse,
				"invalid number %q in expression %q", t.text, p.original)
		}
		return f, nil
	case tokIdent:
		col, ok := p.df.Column(t.text)
		if !ok {
			// Columns are the only bindings; nothing leaks in from the
			// caller's scope.
			return nil, errors.Newf(errors.ErrorTypeExpressionParse,
				"name %q in expression %q is not a column", t.text, p.original)
		}
		return col, nil
	case tokLParen:
		v, err := p.parseSum()
		if err != nil {
			return nil, err
		}
		if p.next().kind != tokRParen {
			return nil, errors.Newf(errors.ErrorTypeExpressionParse,
				"missing closing parenthesis in expression %q", p.original)
		}
		return v, nil
	default:
		return nil, p.errUnexpected()
	}
}

// apply runs a binary operation elementwise, broadcasting scalars against
// series.
func apply(op func(a, b interface{}) (interface{}, error), left, right interface{}) (interface{}, error) {
	ls, lok := left.(*table.Series)
	rs, rok := right.(*table.Series)
	switch {
	case lok && rok:
		vals := make([]interface{}, ls.Len())
		for i := 0; i < ls.Len(); i++ {
			v, err := op(ls.Value(i), rs.Value(i))
			if err != nil {
				return nil, err
			}
			vals[i] = v
		}
		out, err := table.NewSeries(ls.Index(), vals)
		if err != nil {
			return nil, err
		}
		return out, nil
	case lok:
		return mapSeries(ls, func(v interface{}) (interface{}, error) { return op(v, right) })
	case rok:
		return mapSeries(rs, func(v interface{}) (interface{}, error) { return op(left, v) })
	default:
		return op(left, right)
	}
}

func applyUnary(op func(a interface{}) (interface{}, error), v interface{}) (interface{}, error) {
	if s, ok := v.(*table.Series); ok {
		return mapSeries(s, op)
	}
	return op(v)
}

func mapSeries(s *table.Series, fn func(interface{}) (interface{}, error)) (*table.Series, error) {
	vals := make([]interface{}, s.Len())
	for i := 0; i < s.Len(); i++ {
		v, err := fn(s.Value(i))
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	out, err := table.NewSeries(s.Index(), vals)
	if err != nil {
		return nil, err
	}
	return out, nil
}
