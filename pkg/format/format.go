// Package format converts row-index keys into solver-legal name fragments.
//
// Formatting is deterministic: the same key under the same mode always
// yields the same fragment. Two distinct keys may legally render to the
// same fragment; collision handling is the solver's responsibility.
package format

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/tabsolver/tabsolver/pkg/errors"
	"github.com/tabsolver/tabsolver/pkg/table"
)

// Func is a user-supplied per-value formatter applied to one index level.
type Func func(value interface{}) (string, error)

type modeKind int

const (
	kindDefault modeKind = iota
	kindDisabled
	kindIdentity
	kindFunc
	kindPerLevel
)

// Mode selects how index values become name fragments. The zero value is
// the sanitizing default mode.
type Mode struct {
	kind     modeKind
	fn       Func
	perLevel map[string]Mode
	fallback *Mode
}

// Default sanitizes values: integers render as plain decimal digits,
// timestamps as compact YYYY_MM_DDTHH_MM_SS strings, and anything else is
// stringified with runs of name-illegal characters collapsed to a single
// underscore.
var Default = Mode{kind: kindDefault}

// Disabled stringifies values with no character substitution.
var Disabled = Mode{kind: kindDisabled}

// Identity passes numeric keys through untransformed and rejects
// everything else.
var Identity = Mode{kind: kindIdentity}

// FuncMode applies a user-supplied transform to every level value.
func FuncMode(fn Func) Mode {
	return Mode{kind: kindFunc, fn: fn}
}

// PerLevel applies a distinct mode to each named index level. Levels not
// present in the map use the sanitizing default mode.
func PerLevel(levels map[string]Mode) Mode {
	return Mode{kind: kindPerLevel, perLevel: levels}
}

// PerLevelWithFallback is PerLevel with an explicit mode for unmapped
// levels.
func PerLevelWithFallback(levels map[string]Mode, fallback Mode) Mode {
	return Mode{kind: kindPerLevel, perLevel: levels, fallback: &fallback}
}

// ModeFromString resolves the configuration spelling of a mode.
func ModeFromString(s string) (Mode, error) {
	switch s {
	case "", "default":
		return Default, nil
	case "disable", "disabled":
		return Disabled, nil
	case "identity":
		return Identity, nil
	}
	return Mode{}, errors.Newf(errors.ErrorTypeConfig, "unknown index format mode %q", s)
}

// validate rejects malformed modes before any row is processed.
func (m Mode) validate() error {
	switch m.kind {
	case kindDefault, kindDisabled, kindIdentity:
		return nil
	case kindFunc:
		if m.fn == nil {
			return errors.New(errors.ErrorTypeConfig, "func format mode requires a non-nil function")
		}
		return nil
	case kindPerLevel:
		if m.perLevel == nil {
			return errors.New(errors.ErrorTypeConfig, "per-level format mode requires a level map")
		}
		for name, lm := range m.perLevel {
			if lm.kind == kindPerLevel {
				return errors.Newf(errors.ErrorTypeConfig, "level %q: per-level modes cannot nest", name)
			}
			if err := lm.validate(); err != nil {
				return err
			}
		}
		if m.fallback != nil {
			if m.fallback.kind == kindPerLevel {
				return errors.New(errors.ErrorTypeConfig, "per-level fallback cannot itself be per-level")
			}
			return m.fallback.validate()
		}
		return nil
	}
	return errors.Newf(errors.ErrorTypeConfig, "unrecognized format mode %d", m.kind)
}

// levelMode resolves the mode to apply at one index level.
func (m Mode) levelMode(levelName string) Mode {
	if m.kind != kindPerLevel {
		return m
	}
	if lm, ok := m.perLevel[levelName]; ok {
		return lm
	}
	if m.fallback != nil {
		return *m.fallback
	}
	return Default
}

// Format renders one fragment key per index entry, order preserving.
// Multi-level keys are formatted level by level and re-zipped. An empty
// index yields an empty slice, never an error.
func Format(ix *table.Index, mode Mode) ([]table.Key, error) {
	if err := mode.validate(); err != nil {
		return nil, err
	}
	if err := ix.Validate(); err != nil {
		return nil, err
	}
	if ix.Len() == 0 {
		return []table.Key{}, nil
	}

	width := ix.Width()
	levelModes := make([]Mode, width)
	for level := 0; level < width; level++ {
		levelModes[level] = mode.levelMode(ix.Name(level))
	}

	out := make([]table.Key, ix.Len())
	for i := 0; i < ix.Len(); i++ {
		parts := make([]interface{}, width)
		for level := 0; level < width; level++ {
			frag, err := formatValue(ix.Key(i).Part(level), levelModes[level])
			if err != nil {
				return nil, err
			}
			parts[level] = frag
		}
		out[i] = table.K(parts...)
	}
	return out, nil
}

// Names renders one full entity name per index entry: the prefix followed
// by the bracketed key fragments, tuple levels joined with commas.
func Names(prefix string, ix *table.Index, mode Mode) ([]string, error) {
	fragments, err := Format(ix, mode)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(fragments))
	var b strings.Builder
	for i, key := range fragments {
		b.Reset()
		b.WriteString(prefix)
		b.WriteByte('[')
		for level := 0; level < key.Width(); level++ {
			if level > 0 {
				b.WriteByte(',')
			}
			fmt.Fprint(&b, key.Part(level))
		}
		b.WriteByte(']')
		names[i] = b.String()
	}
	return names, nil
}

// illegalRun matches runs of characters that break solver name parsing.
var illegalRun = regexp.MustCompile(`[+\-*^:\s]+`)

// timestampLayout is the compact rendering for time values. The timezone
// is deliberately dropped: disambiguating zero versus UTC offsets is not
// worth the name noise.
const timestampLayout = "2006_01_02T15_04_05"

func formatValue(v interface{}, mode Mode) (string, error) {
	switch mode.kind {
	case kindDisabled:
		return fmt.Sprint(v), nil
	case kindFunc:
		return mode.fn(v)
	case kindIdentity:
		return identityValue(v)
	default:
		return defaultValue(v), nil
	}
}

func defaultValue(v interface{}) string {
	switch x := v.(type) {
	case int:
		return strconv.FormatInt(int64(x), 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int64:
		return strconv.FormatInt(x, 10)
	case uint:
		return strconv.FormatUint(uint64(x), 10)
	case uint32:
		return strconv.FormatUint(uint64(x), 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case time.Time:
		return x.Format(timestampLayout)
	}
	return illegalRun.ReplaceAllString(fmt.Sprint(v), "_")
}

func identityValue(v interface{}) (string, error) {
	switch x := v.(type) {
	case int:
		return strconv.FormatInt(int64(x), 10), nil
	case int32:
		return strconv.FormatInt(int64(x), 10), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case uint:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint32:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint64:
		return strconv.FormatUint(x, 10), nil
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64), nil
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32), nil
	}
	return "", errors.Newf(errors.ErrorTypeTypeConstraint,
		"identity format mode applies to numeric keys only, got %T", v)
}
