package spreadsheet

import (
	"errors"
	"sort"
	"strings"
)

// Formula is a parsed arithmetic expression over numbers and cell
// references.
type Formula struct {
	root expr
	refs []Position
}

// ParseFormula parses a formula expression (the text after the '='
// sign). Lex and parse failures are wrapped in a *FormulaSyntaxError.
func ParseFormula(expression string) (*Formula, error) {
	root, rawRefs, err := parseExpression(expression)
	if err != nil {
		return nil, &FormulaSyntaxError{Expression: expression, Err: err}
	}

	// keep only in-range references, sorted and deduplicated; the tree
	// itself retains any #REF! nodes
	refs := make([]Position, 0, len(rawRefs))
	for _, pos := range rawRefs {
		if pos.IsValid() {
			refs = append(refs, pos)
		}
	}
	sort.Slice(refs, func(i, j int) bool {
		return refs[i].Less(refs[j])
	})
	refs = dedupePositions(refs)

	return &Formula{root: root, refs: refs}, nil
}

// dedupePositions collapses adjacent duplicates in a sorted slice.
func dedupePositions(refs []Position) []Position {
	out := refs[:0]
	for _, pos := range refs {
		if len(out) == 0 || out[len(out)-1] != pos {
			out = append(out, pos)
		}
	}
	return out
}

// Evaluate computes the formula against a cell lookup. Evaluation
// failures are returned as error values, never as Go errors.
func (f *Formula) Evaluate(get GetCellFunc) CellValue {
	number, err := f.root.eval(get)
	if err != nil {
		var ferr FormulaError
		if errors.As(err, &ferr) {
			return ErrorValue(ferr)
		}
		return ErrorValue(FormulaError{Code: ErrorCodeValue})
	}
	return NumberValue(number)
}

// Expression renders the formula with the minimal set of parentheses
// that preserves its meaning.
func (f *Formula) Expression() string {
	var sb strings.Builder
	printChild(&sb, f.root, precAtom, false)
	return sb.String()
}

// References returns the referenced in-range positions, sorted by
// (row, col) and deduplicated. The caller may not mutate the result.
func (f *Formula) References() []Position {
	return f.refs
}

// debugString renders the tree as an s-expression, for diagnostics.
func (f *Formula) debugString() string {
	var sb strings.Builder
	f.root.printDebug(&sb)
	return sb.String()
}
