package solver

import (
	"context"
	"fmt"
	"sync"

	"github.com/tabsolver/tabsolver/pkg/errors"
)

// Mock is an in-memory Solver that records every bulk call. It honors the
// visibility contract of a real solver: entities created by AddVars and
// AddConstrs stay pending, invisible to attribute reads and counts, until
// Update runs.
type Mock struct {
	mu sync.Mutex

	vars           []*MockVar
	pendingVars    []*MockVar
	constrs        []*MockConstr
	pendingConstrs []*MockConstr

	varSeq    int
	constrSeq int

	varCalls    int
	constrCalls int
	updateCalls int
}

// NewMock creates an empty recording solver.
func NewMock() *Mock {
	return &Mock{}
}

// MockVar is the variable handle type returned by Mock.
type MockVar struct {
	m      *Mock
	lb     float64
	ub     float64
	obj    float64
	vtype  VarType
	name   string
	x      float64
	synced bool
}

func (*MockVar) isHandle() {}
func (*MockVar) isVar()    {}

// String renders the handle, marking pending variables explicitly.
func (v *MockVar) String() string {
	if !v.synced {
		return "<var *awaiting update*>"
	}
	return fmt.Sprintf("<var %s>", v.name)
}

// MockConstr is the constraint handle type returned by Mock.
type MockConstr struct {
	m      *Mock
	lhs    interface{}
	sense  Sense
	rhs    interface{}
	name   string
	synced bool
}

func (*MockConstr) isHandle() {}
func (*MockConstr) isConstr() {}

// String renders the handle, marking pending constraints explicitly.
func (c *MockConstr) String() string {
	if !c.synced {
		return "<constr *awaiting update*>"
	}
	return fmt.Sprintf("<constr %s>", c.name)
}

// Row returns the recorded (lhs, sense, rhs) triple of the constraint.
func (c *MockConstr) Row() (interface{}, Sense, interface{}) {
	return c.lhs, c.sense, c.rhs
}

// AddVars records one bulk variable creation call.
func (m *Mock) AddVars(ctx context.Context, batch VarBatch) ([]Var, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := batch.Validate(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.varCalls++
	out := make([]Var, batch.Len())
	for i := 0; i < batch.Len(); i++ {
		v := &MockVar{
			m:     m,
			lb:    batch.LB[i],
			ub:    batch.UB[i],
			obj:   batch.Obj[i],
			vtype: batch.Types[i],
		}
		if batch.Names != nil {
			v.name = batch.Names[i]
		}
		m.pendingVars = append(m.pendingVars, v)
		out[i] = v
	}
	return out, nil
}

// AddConstrs records one bulk constraint creation call.
func (m *Mock) AddConstrs(ctx context.Context, batch ConstrBatch) ([]Constr, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := batch.Validate(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.constrCalls++
	out := make([]Constr, batch.Len())
	for i := 0; i < batch.Len(); i++ {
		c := &MockConstr{
			m:     m,
			lhs:   batch.LHS[i],
			sense: batch.Senses[i],
			rhs:   batch.RHS[i],
		}
		if batch.Names != nil {
			c.name = batch.Names[i]
		}
		m.pendingConstrs = append(m.pendingConstrs, c)
		out[i] = c
	}
	return out, nil
}

// Update makes all pending entities visible and assigns default names to
// any created without one.
func (m *Mock) Update(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.updateCalls++
	for _, v := range m.pendingVars {
		if v.name == "" {
			v.name = fmt.Sprintf("C%d", m.varSeq)
		}
		m.varSeq++
		v.synced = true
		m.vars = append(m.vars, v)
	}
	m.pendingVars = nil
	for _, c := range m.pendingConstrs {
		if c.name == "" {
			c.name = fmt.Sprintf("R%d", m.constrSeq)
		}
		m.constrSeq++
		c.synced = true
		m.constrs = append(m.constrs, c)
	}
	m.pendingConstrs = nil
	return nil
}

// GetAttr reads an attribute from a synchronized handle. Reading from a
// pending handle is an error, as with a real solver.
func (m *Mock) GetAttr(h Handle, attr string) (interface{}, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch x := h.(type) {
	case *MockVar:
		if !x.synced {
			return nil, errors.New(errors.ErrorTypeSolver, "variable awaiting model update")
		}
		switch attr {
		case "LB":
			return x.lb, nil
		case "UB":
			return x.ub, nil
		case "Obj":
			return x.obj, nil
		case "VType":
			return string(x.vtype), nil
		case "VarName":
			return x.name, nil
		case "X":
			return x.x, nil
		}
		return nil, errors.Newf(errors.ErrorTypeSolver, "unknown variable attribute %q", attr)
	case *MockConstr:
		if !x.synced {
			return nil, errors.New(errors.ErrorTypeSolver, "constraint awaiting model update")
		}
		switch attr {
		case "ConstrName":
			return x.name, nil
		case "Sense":
			return x.sense.String(), nil
		case "RHS":
			if f, ok := Numeric(x.rhs); ok {
				return f, nil
			}
			return nil, errors.New(errors.ErrorTypeSolver, "constraint RHS is not a constant")
		}
		return nil, errors.Newf(errors.ErrorTypeSolver, "unknown constraint attribute %q", attr)
	}
	return nil, errors.Newf(errors.ErrorTypeSolver, "unknown handle type %T", h)
}

// SetAttr writes an attribute on a synchronized handle.
func (m *Mock) SetAttr(h Handle, attr string, value interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := h.(*MockVar)
	if !ok {
		return errors.Newf(errors.ErrorTypeSolver, "attributes are writable on variables only, got %T", h)
	}
	if !v.synced {
		return errors.New(errors.ErrorTypeSolver, "variable awaiting model update")
	}
	if attr == "VarName" {
		s, ok := value.(string)
		if !ok {
			return errors.Newf(errors.ErrorTypeSolver, "VarName requires a string, got %T", value)
		}
		v.name = s
		return nil
	}
	f, ok := Numeric(value)
	if !ok {
		return errors.Newf(errors.ErrorTypeSolver, "attribute %q requires a number, got %T", attr, value)
	}
	switch attr {
	case "LB":
		v.lb = f
	case "UB":
		v.ub = f
	case "Obj":
		v.obj = f
	case "X":
		v.x = f
	default:
		return errors.Newf(errors.ErrorTypeSolver, "unknown variable attribute %q", attr)
	}
	return nil
}

// NumVars returns the number of synchronized variables. Pending variables
// are not counted.
func (m *Mock) NumVars() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.vars)
}

// NumConstrs returns the number of synchronized constraints.
func (m *Mock) NumConstrs() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.constrs)
}

// Constrs returns the synchronized constraints in creation order.
func (m *Mock) Constrs() []*MockConstr {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*MockConstr, len(m.constrs))
	copy(out, m.constrs)
	return out
}

// VarCalls returns how many bulk AddVars calls were issued.
func (m *Mock) VarCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.varCalls
}

// ConstrCalls returns how many bulk AddConstrs calls were issued.
func (m *Mock) ConstrCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.constrCalls
}

// UpdateCalls returns how many Update calls were issued.
func (m *Mock) UpdateCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.updateCalls
}

var _ Solver = (*Mock)(nil)
