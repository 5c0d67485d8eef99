package table

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/tabsolver/tabsolver/pkg/errors"
)

// Key identifies a single row. A key is a fixed-width tuple of scalar
// parts; single-level indexes use width-1 keys.
type Key struct {
	parts []interface{}
}

// K builds a key from its parts.
func K(parts ...interface{}) Key {
	return Key{parts: parts}
}

// Width returns the number of levels in the key.
func (k Key) Width() int { return len(k.parts) }

// Part returns the value at the given level.
func (k Key) Part(level int) interface{} { return k.parts[level] }

// Parts returns all levels of the key in order.
func (k Key) Parts() []interface{} {
	out := make([]interface{}, len(k.parts))
	copy(out, k.parts)
	return out
}

// IsTuple reports whether the key has more than one level.
func (k Key) IsTuple() bool { return len(k.parts) > 1 }

// String renders the key for display. Tuple keys are parenthesized.
func (k Key) String() string {
	if len(k.parts) == 1 {
		return fmt.Sprint(k.parts[0])
	}
	rendered := make([]string, len(k.parts))
	for i, p := range k.parts {
		rendered[i] = fmt.Sprint(p)
	}
	return "(" + strings.Join(rendered, ",") + ")"
}

// canonical returns a type-tagged encoding of the key used for equality
// and ordering. Distinct value types never collide: the int 1 and the
// string "1" encode differently.
func (k Key) canonical() string {
	var b strings.Builder
	for i, p := range k.parts {
		if i > 0 {
			b.WriteByte(0x1f)
		}
		switch v := p.(type) {
		case nil:
			b.WriteString("n:")
		case string:
			b.WriteString("s:")
			b.WriteString(v)
		case int:
			b.WriteString("i:")
			b.WriteString(strconv.FormatInt(int64(v), 10))
		case int32:
			b.WriteString("i:")
			b.WriteString(strconv.FormatInt(int64(v), 10))
		case int64:
			b.WriteString("i:")
			b.WriteString(strconv.FormatInt(v, 10))
		case float64:
			b.WriteString("f:")
			b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		case bool:
			b.WriteString("b:")
			b.WriteString(strconv.FormatBool(v))
		case time.Time:
			b.WriteString("t:")
			b.WriteString(v.Format(time.RFC3339Nano))
		default:
			b.WriteString("v:")
			fmt.Fprint(&b, v)
		}
	}
	return b.String()
}

// Index is an ordered sequence of row keys, all of the same width.
// Level names are optional and used by per-level formatting modes.
type Index struct {
	names []string
	keys  []Key
}

// NewIndex creates an index from explicit keys. All keys must share the
// same width; mixed widths are rejected by Validate, which every
// consumer of key levels calls before touching them.
func NewIndex(keys ...Key) *Index {
	return &Index{keys: keys}
}

// NewIndexFromValues creates a single-level index from scalar values.
func NewIndexFromValues(values []interface{}) *Index {
	keys := make([]Key, len(values))
	for i, v := range values {
		keys[i] = K(v)
	}
	return &Index{keys: keys}
}

// RangeIndex creates a single-level integer index 0..n-1.
func RangeIndex(n int) *Index {
	keys := make([]Key, n)
	for i := 0; i < n; i++ {
		keys[i] = K(i)
	}
	return &Index{keys: keys}
}

// WithNames returns a copy of the index with level names attached.
func (ix *Index) WithNames(names ...string) *Index {
	out := &Index{keys: ix.keys}
	out.names = make([]string, len(names))
	copy(out.names, names)
	return out
}

// Len returns the number of rows.
func (ix *Index) Len() int { return len(ix.keys) }

// Width returns the key width, or zero for an empty unnamed index.
func (ix *Index) Width() int {
	if len(ix.keys) == 0 {
		if len(ix.names) > 0 {
			return len(ix.names)
		}
		return 0
	}
	return ix.keys[0].Width()
}

// Key returns the key at position i.
func (ix *Index) Key(i int) Key { return ix.keys[i] }

// Keys returns all keys in order.
func (ix *Index) Keys() []Key {
	out := make([]Key, len(ix.keys))
	copy(out, ix.keys)
	return out
}

// Names returns the level names; empty if none were set.
func (ix *Index) Names() []string {
	out := make([]string, len(ix.names))
	copy(out, ix.names)
	return out
}

// Name returns the name of the given level, or "" if unnamed.
func (ix *Index) Name(level int) string {
	if level < len(ix.names) {
		return ix.names[level]
	}
	return ""
}

// Level returns the values of one level across all rows.
func (ix *Index) Level(level int) []interface{} {
	out := make([]interface{}, len(ix.keys))
	for i, k := range ix.keys {
		out[i] = k.Part(level)
	}
	return out
}

// HasDuplicates reports whether any key occurs more than once.
func (ix *Index) HasDuplicates() bool {
	seen := make(map[string]struct{}, len(ix.keys))
	for _, k := range ix.keys {
		c := k.canonical()
		if _, ok := seen[c]; ok {
			return true
		}
		seen[c] = struct{}{}
	}
	return false
}

// SameKeySet reports whether ix and other contain exactly the same keys,
// ignoring order. Surplus or missing keys on either side fail the check.
func (ix *Index) SameKeySet(other *Index) bool {
	if ix.Len() != other.Len() {
		return false
	}
	a := make([]string, ix.Len())
	b := make([]string, other.Len())
	for i, k := range ix.keys {
		a[i] = k.canonical()
	}
	for i, k := range other.keys {
		b[i] = k.canonical()
	}
	sort.Strings(a)
	sort.Strings(b)
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// positions maps canonical key encodings to row positions. Duplicate keys
// keep the first position.
func (ix *Index) positions() map[string]int {
	pos := make(map[string]int, len(ix.keys))
	for i, k := range ix.keys {
		c := k.canonical()
		if _, ok := pos[c]; !ok {
			pos[c] = i
		}
	}
	return pos
}

// Union returns an index containing the keys of ix followed by the keys of
// other that are not already present. Order is first-appearance.
func (ix *Index) Union(other *Index) *Index {
	seen := make(map[string]struct{}, len(ix.keys))
	keys := make([]Key, 0, len(ix.keys)+other.Len())
	for _, k := range ix.keys {
		seen[k.canonical()] = struct{}{}
		keys = append(keys, k)
	}
	for _, k := range other.keys {
		if _, ok := seen[k.canonical()]; !ok {
			seen[k.canonical()] = struct{}{}
			keys = append(keys, k)
		}
	}
	out := &Index{keys: keys}
	out.names = ix.names
	return out
}

// Validate checks that all keys share one width.
func (ix *Index) Validate() error {
	if len(ix.keys) == 0 {
		return nil
	}
	w := ix.keys[0].Width()
	for i, k := range ix.keys {
		if k.Width() != w {
			return errors.Newf(errors.ErrorTypeTypeConstraint,
				"index key at position %d has width %d, expected %d", i, k.Width(), w)
		}
	}
	return nil
}
