package solver

import (
	"context"
	"math"

	"github.com/tabsolver/tabsolver/pkg/errors"
)

// Infinity is the conventional unbounded value for variable bounds.
var Infinity = math.Inf(1)

// Sense is a relational operator for constraints. The set is closed:
// exactly three senses exist, and anything else is rejected at parse time.
type Sense byte

const (
	// LessEqual is the <= sense
	LessEqual Sense = '<'
	// Equal is the = sense
	Equal Sense = '='
	// GreaterEqual is the >= sense
	GreaterEqual Sense = '>'
)

// String renders the sense as its canonical operator.
func (s Sense) String() string {
	switch s {
	case LessEqual:
		return "<="
	case Equal:
		return "="
	case GreaterEqual:
		return ">="
	}
	return string(rune(s))
}

// Valid reports whether s is one of the three canonical senses.
func (s Sense) Valid() bool {
	return s == LessEqual || s == Equal || s == GreaterEqual
}

// SenseFromToken maps an operator token ("<=", "==", ">", ...) to a sense.
// The first character decides; tokens outside the closed set are a hard
// error, never a silent fallback.
func SenseFromToken(tok string) (Sense, error) {
	if len(tok) > 0 {
		switch tok[0] {
		case '<':
			return LessEqual, nil
		case '=':
			return Equal, nil
		case '>':
			return GreaterEqual, nil
		}
	}
	return 0, errors.Newf(errors.ErrorTypeInvalidSense,
		"'%s' is not a valid constraint sense", tok)
}

// VarType tags the domain of a variable.
type VarType string

const (
	// Continuous variables take any value within their bounds
	Continuous VarType = "C"
	// Binary variables take values in {0, 1}
	Binary VarType = "B"
	// Integer variables take integral values within their bounds
	Integer VarType = "I"
)

// Handle is an opaque reference to a solver-owned entity.
type Handle interface {
	isHandle()
}

// Var is an opaque handle to a solver variable.
type Var interface {
	Handle
	isVar()
}

// Constr is an opaque handle to a solver constraint.
type Constr interface {
	Handle
	isConstr()
}

// VarBatch carries the parallel per-row arrays for one bulk variable
// creation call. All populated slices must have equal length; Names may
// be nil, in which case the solver assigns default names.
type VarBatch struct {
	LB    []float64
	UB    []float64
	Obj   []float64
	Types []VarType
	Names []string
}

// Len returns the row count of the batch.
func (b VarBatch) Len() int { return len(b.LB) }

// Validate checks the parallel arrays for consistent lengths.
func (b VarBatch) Validate() error {
	n := len(b.LB)
	if len(b.UB) != n || len(b.Obj) != n || len(b.Types) != n {
		return errors.New(errors.ErrorTypeTypeConstraint,
			"variable batch arrays have mismatched lengths")
	}
	if b.Names != nil && len(b.Names) != n {
		return errors.New(errors.ErrorTypeTypeConstraint,
			"variable batch names have mismatched length")
	}
	return nil
}

// ConstrBatch carries the parallel per-row arrays for one bulk constraint
// creation call. LHS and RHS entries are expression operands: float64,
// Var, *LinExpr or *QuadExpr.
type ConstrBatch struct {
	LHS    []interface{}
	Senses []Sense
	RHS    []interface{}
	Names  []string
}

// Len returns the row count of the batch.
func (b ConstrBatch) Len() int { return len(b.LHS) }

// Validate checks the parallel arrays for consistent lengths and sense
// membership.
func (b ConstrBatch) Validate() error {
	n := len(b.LHS)
	if len(b.Senses) != n || len(b.RHS) != n {
		return errors.New(errors.ErrorTypeTypeConstraint,
			"constraint batch arrays have mismatched lengths")
	}
	if b.Names != nil && len(b.Names) != n {
		return errors.New(errors.ErrorTypeTypeConstraint,
			"constraint batch names have mismatched length")
	}
	for _, s := range b.Senses {
		if !s.Valid() {
			return errors.Newf(errors.ErrorTypeInvalidSense,
				"'%c' is not a valid constraint sense", s)
		}
	}
	return nil
}

// Solver is the collaborator interface the entity builder drives. One
// builder invocation issues exactly one AddVars or AddConstrs call;
// Update makes prior creations visible to attribute reads.
type Solver interface {
	// AddVars creates one variable per batch row and returns handles in
	// row order.
	AddVars(ctx context.Context, batch VarBatch) ([]Var, error)

	// AddConstrs creates one constraint per batch row and returns handles
	// in row order.
	AddConstrs(ctx context.Context, batch ConstrBatch) ([]Constr, error)

	// Update synchronizes the model, making pending creations visible.
	Update(ctx context.Context) error

	// GetAttr reads a named attribute from a handle.
	GetAttr(h Handle, attr string) (interface{}, error)

	// SetAttr writes a named attribute on a handle.
	SetAttr(h Handle, attr string, value interface{}) error
}
