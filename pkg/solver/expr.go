package solver

import (
	"math"

	"github.com/tabsolver/tabsolver/pkg/errors"
)

// Term is one coefficient-variable pair of a linear expression.
type Term struct {
	Coeff float64
	Var   Var
}

// QTerm is one quadratic coefficient pair.
type QTerm struct {
	Coeff float64
	X, Y  Var
}

// LinExpr is a linear expression over variable handles: sum of terms plus
// a constant offset.
type LinExpr struct {
	Terms  []Term
	Offset float64
}

// QuadExpr is a quadratic expression: a linear part plus quadratic terms.
type QuadExpr struct {
	Lin   LinExpr
	Quads []QTerm
}

// Lin lifts a variable handle into a single-term linear expression.
func Lin(v Var) *LinExpr {
	return &LinExpr{Terms: []Term{{Coeff: 1.0, Var: v}}}
}

// Constant lifts a number into a constant linear expression.
func Constant(c float64) *LinExpr {
	return &LinExpr{Offset: c}
}

// IsConstant reports whether the expression has no variable terms.
func (e *LinExpr) IsConstant() bool { return len(e.Terms) == 0 }

// clone returns an independent copy.
func (e *LinExpr) clone() *LinExpr {
	terms := make([]Term, len(e.Terms))
	copy(terms, e.Terms)
	return &LinExpr{Terms: terms, Offset: e.Offset}
}

func (q *QuadExpr) clone() *QuadExpr {
	quads := make([]QTerm, len(q.Quads))
	copy(quads, q.Quads)
	return &QuadExpr{Lin: *q.Lin.clone(), Quads: quads}
}

// Numeric coerces supported number types to float64.
func Numeric(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

// asLin converts an operand to a linear expression where possible.
func asLin(v interface{}) (*LinExpr, bool) {
	if f, ok := Numeric(v); ok {
		return Constant(f), true
	}
	switch x := v.(type) {
	case Var:
		return Lin(x), true
	case *LinExpr:
		return x.clone(), true
	}
	return nil, false
}

func asQuad(v interface{}) (*QuadExpr, bool) {
	if q, ok := v.(*QuadExpr); ok {
		return q.clone(), true
	}
	if l, ok := asLin(v); ok {
		return &QuadExpr{Lin: *l}, true
	}
	return nil, false
}

func operandErr(v interface{}) error {
	return errors.Newf(errors.ErrorTypeTypeConstraint,
		"unsupported expression operand of type %T", v)
}

// Plus adds two operands. Operands may be numbers, variable handles,
// linear or quadratic expressions.
func Plus(a, b interface{}) (interface{}, error) {
	if _, aq := a.(*QuadExpr); aq {
		return quadPlus(a, b)
	}
	if _, bq := b.(*QuadExpr); bq {
		return quadPlus(a, b)
	}
	la, ok := asLin(a)
	if !ok {
		return nil, operandErr(a)
	}
	lb, ok := asLin(b)
	if !ok {
		return nil, operandErr(b)
	}
	out := la.clone()
	out.Terms = append(out.Terms, lb.Terms...)
	out.Offset += lb.Offset
	return simplify(out), nil
}

func quadPlus(a, b interface{}) (interface{}, error) {
	qa, ok := asQuad(a)
	if !ok {
		return nil, operandErr(a)
	}
	qb, ok := asQuad(b)
	if !ok {
		return nil, operandErr(b)
	}
	out := qa.clone()
	out.Lin.Terms = append(out.Lin.Terms, qb.Lin.Terms...)
	out.Lin.Offset += qb.Lin.Offset
	out.Quads = append(out.Quads, qb.Quads...)
	return out, nil
}

// Minus subtracts b from a.
func Minus(a, b interface{}) (interface{}, error) {
	nb, err := Negate(b)
	if err != nil {
		return nil, err
	}
	return Plus(a, nb)
}

// Negate multiplies an operand by -1.
func Negate(a interface{}) (interface{}, error) {
	return Times(-1.0, a)
}

// Times multiplies two operands. Linear times linear yields a quadratic
// expression; quadratic operands may only be scaled by constants.
func Times(a, b interface{}) (interface{}, error) {
	if qa, ok := a.(*QuadExpr); ok {
		return scaleQuad(qa, b)
	}
	if qb, ok := b.(*QuadExpr); ok {
		return scaleQuad(qb, a)
	}
	la, ok := asLin(a)
	if !ok {
		return nil, operandErr(a)
	}
	lb, ok := asLin(b)
	if !ok {
		return nil, operandErr(b)
	}
	if la.IsConstant() {
		return simplify(scaleLin(lb, la.Offset)), nil
	}
	if lb.IsConstant() {
		return simplify(scaleLin(la, lb.Offset)), nil
	}
	// Both sides carry variables: expand into a quadratic.
	out := &QuadExpr{Lin: LinExpr{Offset: la.Offset * lb.Offset}}
	for _, ta := range la.Terms {
		for _, tb := range lb.Terms {
			out.Quads = append(out.Quads, QTerm{Coeff: ta.Coeff * tb.Coeff, X: ta.Var, Y: tb.Var})
		}
		if lb.Offset != 0 {
			out.Lin.Terms = append(out.Lin.Terms, Term{Coeff: ta.Coeff * lb.Offset, Var: ta.Var})
		}
	}
	if la.Offset != 0 {
		for _, tb := range lb.Terms {
			out.Lin.Terms = append(out.Lin.Terms, Term{Coeff: tb.Coeff * la.Offset, Var: tb.Var})
		}
	}
	return out, nil
}

func scaleQuad(q *QuadExpr, by interface{}) (interface{}, error) {
	f, ok := Numeric(by)
	if !ok {
		if l, isLin := asLin(by); isLin && l.IsConstant() {
			f = l.Offset
		} else {
			return nil, errors.New(errors.ErrorTypeTypeConstraint,
				"quadratic expressions can only be scaled by constants")
		}
	}
	out := q.clone()
	for i := range out.Lin.Terms {
		out.Lin.Terms[i].Coeff *= f
	}
	out.Lin.Offset *= f
	for i := range out.Quads {
		out.Quads[i].Coeff *= f
	}
	return out, nil
}

func scaleLin(e *LinExpr, f float64) *LinExpr {
	out := e.clone()
	for i := range out.Terms {
		out.Terms[i].Coeff *= f
	}
	out.Offset *= f
	return out
}

// Power raises a to the b-th power. Variable operands support only the
// exponents 0, 1 and 2; constants support any numeric exponent.
func Power(a, b interface{}) (interface{}, error) {
	exp, ok := Numeric(b)
	if !ok {
		return nil, errors.New(errors.ErrorTypeTypeConstraint,
			"exponent must be a numeric constant")
	}
	if la, isLin := asLin(a); isLin && la.IsConstant() {
		return math.Pow(la.Offset, exp), nil
	}
	if exp != math.Trunc(exp) || exp < 0 || exp > 2 {
		return nil, errors.Newf(errors.ErrorTypeTypeConstraint,
			"unsupported exponent %v for a variable expression", exp)
	}
	switch int(exp) {
	case 0:
		return 1.0, nil
	case 1:
		la, ok := asLin(a)
		if !ok {
			return nil, operandErr(a)
		}
		return simplify(la), nil
	default:
		return Times(a, a)
	}
}

// simplify collapses a constant-only expression back to a number so that
// pure arithmetic over columns of constants stays numeric.
func simplify(e *LinExpr) interface{} {
	if e.IsConstant() {
		return e.Offset
	}
	return e
}

// Value evaluates an operand at a point, reading variable values through
// the supplied accessor.
func Value(v interface{}, point func(Var) (float64, error)) (float64, error) {
	if f, ok := Numeric(v); ok {
		return f, nil
	}
	switch x := v.(type) {
	case Var:
		return point(x)
	case *LinExpr:
		total := x.Offset
		for _, t := range x.Terms {
			xv, err := point(t.Var)
			if err != nil {
				return 0, err
			}
			total += t.Coeff * xv
		}
		return total, nil
	case *QuadExpr:
		total, err := Value(&x.Lin, point)
		if err != nil {
			return 0, err
		}
		for _, q := range x.Quads {
			xv, err := point(q.X)
			if err != nil {
				return 0, err
			}
			yv, err := point(q.Y)
			if err != nil {
				return 0, err
			}
			total += q.Coeff * xv * yv
		}
		return total, nil
	}
	return 0, operandErr(v)
}
