// Package expr decomposes two-sided relational expressions written against
// table columns.
//
// An expression like "2*x + y <= capacity" splits on its relational
// operator into a left operand, a sense, and a right operand. Each side is
// evaluated by a small recursive-descent evaluator over a fixed grammar:
// identifiers, numbers, + - * **, and parentheses. The only bindings
// visible to an expression are the table's columns; there is no access to
// any surrounding scope, by design.
//
// Column names containing characters the grammar cannot tokenize (spaces,
// operators) are written backtick-quoted: "`unit cost` * x <= budget". The
// decomposer substitutes a synthetic placeholder identifier for each
// quoted occurrence before parsing.
package expr

import (
	"fmt"
	"strings"

	"github.com/tabsolver/tabsolver/pkg/errors"
	"github.com/tabsolver/tabsolver/pkg/solver"
	"github.com/tabsolver/tabsolver/pkg/table"
)

// Decompose splits a two-sided relational expression into a left operand
// series, a sense, and a right operand series, both on the frame's index.
// Constant sides are broadcast.
func Decompose(df *table.DataFrame, expression string) (*table.Series, solver.Sense, *table.Series, error) {
	working, rewritten, err := substituteQuoted(df, expression)
	if err != nil {
		return nil, 0, nil, err
	}

	lhsText, opRun, rhsText, err := splitRelational(rewritten, expression)
	if err != nil {
		return nil, 0, nil, err
	}

	sense, err := solver.SenseFromToken(opRun)
	if err != nil {
		return nil, 0, nil, err
	}

	lhs, err := evalSide(working, lhsText, expression)
	if err != nil {
		return nil, 0, nil, err
	}
	rhs, err := evalSide(working, rhsText, expression)
	if err != nil {
		return nil, 0, nil, err
	}
	return lhs, sense, rhs, nil
}

// Eval evaluates a one-sided arithmetic expression against the frame's
// columns. The result is a series on the frame's index, or a bare value
// if the expression uses no columns.
func Eval(df *table.DataFrame, expression string) (interface{}, error) {
	working, rewritten, err := substituteQuoted(df, expression)
	if err != nil {
		return nil, err
	}
	return evaluate(working, rewritten, expression)
}

// substituteQuoted replaces each backtick-quoted column reference with a
// synthetic placeholder identifier and renames the matching frame column
// to that placeholder.
func substituteQuoted(df *table.DataFrame, expression string) (*table.DataFrame, string, error) {
	if !strings.Contains(expression, "`") {
		return df, expression, nil
	}
	working := df
	rewritten := expression
	for i, column := range df.Columns() {
		quoted := "`" + column + "`"
		if !strings.Contains(rewritten, quoted) {
			continue
		}
		placeholder := fmt.Sprintf("_renamed_column_%d", i)
		renamed, err := working.RenameColumn(column, placeholder)
		if err != nil {
			return nil, "", err
		}
		working = renamed
		rewritten = strings.ReplaceAll(rewritten, quoted, placeholder)
	}
	if strings.Contains(rewritten, "`") {
		return nil, "", errors.Newf(errors.ErrorTypeExpressionParse,
			"unmatched backtick in expression %q", expression)
	}
	return working, rewritten, nil
}

// splitRelational cuts the expression at the first maximal run of
// relational characters. Both sides must be non-empty and the right side
// must not contain a second relational run.
func splitRelational(rewritten, original string) (string, string, string, error) {
	start := strings.IndexAny(rewritten, "<>=")
	if start < 0 {
		return "", "", "", errors.Newf(errors.ErrorTypeExpressionParse,
			"expression %q has no relational operator", original)
	}
	end := start
	for end < len(rewritten) && strings.ContainsRune("<>=", rune(rewritten[end])) {
		end++
	}
	lhs := strings.TrimSpace(rewritten[:start])
	rhs := strings.TrimSpace(rewritten[end:])
	if lhs == "" || rhs == "" {
		return "", "", "", errors.Newf(errors.ErrorTypeExpressionParse,
			"expression %q does not have two operands", original)
	}
	if strings.ContainsAny(rhs, "<>=") {
		return "", "", "", errors.Newf(errors.ErrorTypeExpressionParse,
			"expression %q has more than one relational operator", original)
	}
	return lhs, rewritten[start:end], rhs, nil
}

// evalSide evaluates one operand expression and broadcasts constants to a
// series on the frame's index.
func evalSide(df *table.DataFrame, text, original string) (*table.Series, error) {
	v, err := evaluate(df, text, original)
	if err != nil {
		return nil, err
	}
	if s, ok := v.(*table.Series); ok {
		return s, nil
	}
	return table.Broadcast(df.Index(), v), nil
}
