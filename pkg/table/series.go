package table

import (
	"fmt"
	"math"

	json "github.com/goccy/go-json"

	"github.com/tabsolver/tabsolver/pkg/errors"
)

// Series is an ordered sequence of per-row values on an Index.
type Series struct {
	name   string
	index  *Index
	values []interface{}
}

// NewSeries creates a series from an index and parallel values.
func NewSeries(index *Index, values []interface{}) (*Series, error) {
	if err := index.Validate(); err != nil {
		return nil, err
	}
	if len(values) != index.Len() {
		return nil, errors.Newf(errors.ErrorTypeTypeConstraint,
			"series has %d values for an index of length %d", len(values), index.Len())
	}
	vals := make([]interface{}, len(values))
	copy(vals, values)
	return &Series{index: index, values: vals}, nil
}

// Broadcast creates a series holding the same value in every row.
func Broadcast(index *Index, value interface{}) *Series {
	vals := make([]interface{}, index.Len())
	for i := range vals {
		vals[i] = value
	}
	return &Series{index: index, values: vals}
}

// WithName returns a copy of the series carrying the given name.
func (s *Series) WithName(name string) *Series {
	return &Series{name: name, index: s.index, values: s.values}
}

// Name returns the series name, "" if unnamed.
func (s *Series) Name() string { return s.name }

// Index returns the series index.
func (s *Series) Index() *Index { return s.index }

// Len returns the number of rows.
func (s *Series) Len() int { return len(s.values) }

// Value returns the value at position i.
func (s *Series) Value(i int) interface{} { return s.values[i] }

// Values returns all values in index order.
func (s *Series) Values() []interface{} {
	out := make([]interface{}, len(s.values))
	copy(out, s.values)
	return out
}

// IsNull reports whether a cell value counts as missing: nil, or a
// floating point NaN.
func IsNull(v interface{}) bool {
	if v == nil {
		return true
	}
	if f, ok := v.(float64); ok {
		return math.IsNaN(f)
	}
	return false
}

// HasNulls reports whether any value in the series is missing.
func (s *Series) HasNulls() bool {
	for _, v := range s.values {
		if IsNull(v) {
			return true
		}
	}
	return false
}

// Reindex returns a new series with values rearranged into target order.
// Every target key must exist in the series index; extra keys in the
// series are dropped only if absent from target, which callers that care
// about exact alignment must check with SameKeySet first.
func (s *Series) Reindex(target *Index) (*Series, error) {
	pos := s.index.positions()
	vals := make([]interface{}, target.Len())
	for i := 0; i < target.Len(); i++ {
		k := target.Key(i)
		p, ok := pos[k.canonical()]
		if !ok {
			return nil, errors.Newf(errors.ErrorTypeAlignment,
				"key %s not found in series index", k)
		}
		vals[i] = s.values[p]
	}
	return &Series{name: s.name, index: target, values: vals}, nil
}

// Map returns a new series with fn applied to every value.
func (s *Series) Map(fn func(interface{}) interface{}) *Series {
	vals := make([]interface{}, len(s.values))
	for i, v := range s.values {
		vals[i] = fn(v)
	}
	return &Series{name: s.name, index: s.index, values: vals}
}

// GroupBy groups the series rows by the key produced by keyOf. Group
// order follows first appearance in the series.
func (s *Series) GroupBy(keyOf func(Key) Key) *Grouped {
	order := make([]string, 0)
	keys := make(map[string]Key)
	members := make(map[string][]interface{})
	for i, v := range s.values {
		gk := keyOf(s.index.Key(i))
		c := gk.canonical()
		if _, ok := members[c]; !ok {
			order = append(order, c)
			keys[c] = gk
		}
		members[c] = append(members[c], v)
	}
	return &Grouped{name: s.name, order: order, keys: keys, members: members}
}

// GroupByLevel groups by a single index level.
func (s *Series) GroupByLevel(level int) *Grouped {
	return s.GroupBy(func(k Key) Key { return K(k.Part(level)) })
}

// Grouped is an intermediate grouping produced by Series.GroupBy.
type Grouped struct {
	name    string
	order   []string
	keys    map[string]Key
	members map[string][]interface{}
}

// Aggregate reduces each group with agg and returns a series on the group
// index.
func (g *Grouped) Aggregate(agg func([]interface{}) (interface{}, error)) (*Series, error) {
	keys := make([]Key, len(g.order))
	vals := make([]interface{}, len(g.order))
	for i, c := range g.order {
		keys[i] = g.keys[c]
		v, err := agg(g.members[c])
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeTypeConstraint,
				fmt.Sprintf("aggregating group %s", g.keys[c]))
		}
		vals[i] = v
	}
	return &Series{name: g.name, index: NewIndex(keys...), values: vals}, nil
}

// MarshalJSON renders the series for logs and debug output. Values that
// are not JSON encodable are stringified.
func (s *Series) MarshalJSON() ([]byte, error) {
	keys := make([]string, s.index.Len())
	for i := 0; i < s.index.Len(); i++ {
		keys[i] = s.index.Key(i).String()
	}
	vals := make([]interface{}, len(s.values))
	for i, v := range s.values {
		vals[i] = jsonCell(v)
	}
	return json.Marshal(struct {
		Name   string        `json:"name,omitempty"`
		Index  []string      `json:"index"`
		Values []interface{} `json:"values"`
	}{Name: s.name, Index: keys, Values: vals})
}

// jsonCell converts a cell into something the JSON encoder accepts.
func jsonCell(v interface{}) interface{} {
	switch v.(type) {
	case nil, bool, string,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return v
	}
	if str, ok := v.(fmt.Stringer); ok {
		return str.String()
	}
	return fmt.Sprint(v)
}
