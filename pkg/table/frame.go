package table

import (
	json "github.com/goccy/go-json"

	"github.com/tabsolver/tabsolver/pkg/errors"
)

// DataFrame is an ordered collection of named columns sharing one Index.
// Frames are immutable: WithColumn and Join return new frames.
type DataFrame struct {
	index *Index
	order []string
	cols  map[string]*Series
}

// NewDataFrame creates an empty frame on the given index.
func NewDataFrame(index *Index) *DataFrame {
	return &DataFrame{index: index, cols: make(map[string]*Series)}
}

// Index returns the frame's row index.
func (df *DataFrame) Index() *Index { return df.index }

// Len returns the number of rows.
func (df *DataFrame) Len() int { return df.index.Len() }

// Columns returns column names in insertion order.
func (df *DataFrame) Columns() []string {
	out := make([]string, len(df.order))
	copy(out, df.order)
	return out
}

// HasColumn reports whether a column exists.
func (df *DataFrame) HasColumn(name string) bool {
	_, ok := df.cols[name]
	return ok
}

// Column returns the named column as a series on the frame's index.
func (df *DataFrame) Column(name string) (*Series, bool) {
	s, ok := df.cols[name]
	return s, ok
}

// WithColumn returns a new frame with a column of parallel values added.
// The value slice is taken in index order.
func (df *DataFrame) WithColumn(name string, values []interface{}) (*DataFrame, error) {
	if name == "" {
		return nil, errors.New(errors.ErrorTypeTypeConstraint, "column name must not be empty")
	}
	if df.HasColumn(name) {
		return nil, errors.Newf(errors.ErrorTypeTypeConstraint, "column %q already exists", name)
	}
	s, err := NewSeries(df.index, values)
	if err != nil {
		return nil, err
	}
	return df.withSeries(name, s), nil
}

// Join returns a new frame with the series appended as a column under its
// own name. The series key set must match the frame index exactly;
// reordering is handled, surplus or missing keys are an error.
func (df *DataFrame) Join(s *Series) (*DataFrame, error) {
	if s.Name() == "" {
		return nil, errors.New(errors.ErrorTypeTypeConstraint, "cannot join an unnamed series")
	}
	if df.HasColumn(s.Name()) {
		return nil, errors.Newf(errors.ErrorTypeTypeConstraint, "column %q already exists", s.Name())
	}
	if !df.index.SameKeySet(s.Index()) {
		return nil, errors.Newf(errors.ErrorTypeAlignment,
			"series %q not aligned with frame index", s.Name())
	}
	aligned, err := s.Reindex(df.index)
	if err != nil {
		return nil, err
	}
	return df.withSeries(s.Name(), aligned), nil
}

// withSeries copies the frame and appends one prepared column.
func (df *DataFrame) withSeries(name string, s *Series) *DataFrame {
	cols := make(map[string]*Series, len(df.cols)+1)
	for k, v := range df.cols {
		cols[k] = v
	}
	cols[name] = s.WithName(name)
	order := make([]string, len(df.order), len(df.order)+1)
	copy(order, df.order)
	order = append(order, name)
	return &DataFrame{index: df.index, order: order, cols: cols}
}

// RenameColumn returns a new frame with one column renamed. Used by the
// expression decomposer to substitute placeholder identifiers for quoted
// column names.
func (df *DataFrame) RenameColumn(from, to string) (*DataFrame, error) {
	s, ok := df.cols[from]
	if !ok {
		return nil, errors.Newf(errors.ErrorTypeTypeConstraint, "no column %q", from)
	}
	if df.HasColumn(to) {
		return nil, errors.Newf(errors.ErrorTypeTypeConstraint, "column %q already exists", to)
	}
	cols := make(map[string]*Series, len(df.cols))
	order := make([]string, len(df.order))
	for i, name := range df.order {
		if name == from {
			order[i] = to
			cols[to] = s.WithName(to)
			continue
		}
		order[i] = name
		cols[name] = df.cols[name]
	}
	return &DataFrame{index: df.index, order: order, cols: cols}, nil
}

// MarshalJSON renders the frame column-wise for logs and debug output.
func (df *DataFrame) MarshalJSON() ([]byte, error) {
	keys := make([]string, df.index.Len())
	for i := 0; i < df.index.Len(); i++ {
		keys[i] = df.index.Key(i).String()
	}
	cols := make(map[string][]interface{}, len(df.cols))
	for name, s := range df.cols {
		vals := make([]interface{}, s.Len())
		for i := 0; i < s.Len(); i++ {
			vals[i] = jsonCell(s.Value(i))
		}
		cols[name] = vals
	}
	return json.Marshal(struct {
		Index   []string                 `json:"index"`
		Columns []string                 `json:"columns"`
		Data    map[string][]interface{} `json:"data"`
	}{Index: keys, Columns: df.order, Data: cols})
}
