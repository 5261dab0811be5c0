package spreadsheet

import (
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
)

// Sheet is a sparse grid of cells with dependency tracking. It owns
// every cell, keeps the reference graph acyclic, and invalidates
// formula caches when upstream cells change.
//
// A Sheet is not safe for concurrent use; wrap it in external locking
// if needed. Note that reading a formula value may fill its cache, so
// even concurrent reads of the same cell require serialization.
type Sheet struct {
	cells map[Position]*Cell
	graph *dependencyGraph
	log   zerolog.Logger
}

// NewSheet creates an empty sheet.
func NewSheet(opts ...Option) *Sheet {
	s := &Sheet{
		cells: make(map[Position]*Cell),
		graph: newDependencyGraph(),
		log:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetCell parses text into cell content and installs it at pos. Empty
// text makes an empty cell, a leading '=' a formula, anything else a
// text cell (a leading '\'' escapes a would-be formula in the value).
//
// A formula that fails to parse returns a *FormulaSyntaxError and a
// formula that would close a reference cycle returns
// ErrCircularDependency; in both cases the sheet is unchanged. On
// success every cell the formula references exists afterwards (absent
// ones are created empty), the dependency edges are rewritten, and
// every formula downstream of pos has its cache invalidated.
func (s *Sheet) SetCell(pos Position, text string) error {
	if !pos.IsValid() {
		return fmt.Errorf("%w: (%d, %d)", ErrInvalidPosition, pos.Row, pos.Col)
	}

	cell, err := newCellFromText(s, pos, text)
	if err != nil {
		s.log.Debug().Int("row", pos.Row).Int("col", pos.Col).Err(err).Msg("edit rejected: bad formula")
		return err
	}

	// the cycle check runs against the tentative cell's references
	// before anything is mutated, so a failed edit leaves no trace
	if cell.kind == cellFormula {
		if detectCycle(pos, cell.References(), s.refsAt) {
			s.log.Debug().Stringer("pos", pos).Str("text", text).Msg("edit rejected: circular dependency")
			return fmt.Errorf("%w: %s", ErrCircularDependency, pos)
		}
	}

	var oldRefs []Position
	if old, ok := s.cells[pos]; ok {
		oldRefs = old.References()
	}

	s.cells[pos] = cell
	for _, ref := range cell.References() {
		if _, ok := s.cells[ref]; !ok {
			s.cells[ref] = newEmptyCell(s, ref)
		}
	}

	s.graph.rewire(pos, oldRefs, cell.References())
	invalidated := s.invalidateFrom(pos)

	s.log.Debug().
		Stringer("pos", pos).
		Str("text", text).
		Int("invalidated", invalidated).
		Msg("cell set")
	return nil
}

// ClearCell removes the cell at pos. The slot is deleted even when
// other cells still reference it; their formulas subsequently read the
// position as absent and see zero. Clearing an absent slot is a no-op.
func (s *Sheet) ClearCell(pos Position) error {
	if !pos.IsValid() {
		return fmt.Errorf("%w: (%d, %d)", ErrInvalidPosition, pos.Row, pos.Col)
	}

	cell, ok := s.cells[pos]
	if !ok {
		return nil
	}

	// invalidate before removal so dependents recompute against the
	// now-absent slot
	invalidated := s.invalidateFrom(pos)
	s.graph.rewire(pos, cell.References(), nil)
	delete(s.cells, pos)

	s.log.Debug().
		Stringer("pos", pos).
		Int("invalidated", invalidated).
		Msg("cell cleared")
	return nil
}

// GetCell returns the cell at pos, or nil when the slot is absent.
func (s *Sheet) GetCell(pos Position) (*Cell, error) {
	if !pos.IsValid() {
		return nil, fmt.Errorf("%w: (%d, %d)", ErrInvalidPosition, pos.Row, pos.Col)
	}
	return s.cells[pos], nil
}

// lookup resolves a position during formula evaluation.
func (s *Sheet) lookup(pos Position) *Cell {
	return s.cells[pos]
}

// refsAt returns the current references of the cell at pos, nil when
// the slot is absent.
func (s *Sheet) refsAt(pos Position) []Position {
	cell, ok := s.cells[pos]
	if !ok {
		return nil
	}
	return cell.References()
}

// invalidateFrom marks the caches of pos and every formula cell
// transitively depending on it as dirty, returning the number of
// positions visited.
func (s *Sheet) invalidateFrom(pos Position) int {
	return s.graph.walkDependents(pos, func(p Position) {
		if cell, ok := s.cells[p]; ok {
			cell.invalidate()
		}
	})
}

// PrintableSize returns the smallest rows x cols rectangle anchored at
// (0,0) that contains every occupied cell.
func (s *Sheet) PrintableSize() Size {
	var size Size
	for pos := range s.cells {
		if pos.Row+1 > size.Rows {
			size.Rows = pos.Row + 1
		}
		if pos.Col+1 > size.Cols {
			size.Cols = pos.Col + 1
		}
	}
	return size
}

// PrintValues writes the printable area's cell values, tab-separated
// within rows, one row per line. Absent cells render empty.
func (s *Sheet) PrintValues(w io.Writer) error {
	return s.printArea(w, func(cell *Cell) string {
		return cell.Value().String()
	})
}

// PrintTexts writes the printable area's cell texts in the same layout
// as PrintValues.
func (s *Sheet) PrintTexts(w io.Writer) error {
	return s.printArea(w, func(cell *Cell) string {
		return cell.Text()
	})
}

func (s *Sheet) printArea(w io.Writer, render func(*Cell) string) error {
	size := s.PrintableSize()

	var sb strings.Builder
	for row := 0; row < size.Rows; row++ {
		sb.Reset()
		for col := 0; col < size.Cols; col++ {
			if col > 0 {
				sb.WriteByte('\t')
			}
			if cell, ok := s.cells[Position{Row: row, Col: col}]; ok {
				sb.WriteString(render(cell))
			}
		}
		sb.WriteByte('\n')
		if _, err := io.WriteString(w, sb.String()); err != nil {
			return err
		}
	}
	return nil
}
