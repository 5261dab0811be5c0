// Package spreadsheet implements an in-memory spreadsheet engine: a
// sparse two-dimensional grid of cells holding text or arithmetic
// formulas over other cells.
//
// Formulas support the four arithmetic operators, unary sign, decimal
// literals and A1-style cell references. The engine keeps a reverse
// dependency graph across edits, rejects assignments that would close a
// reference cycle, and caches formula results until a transitive
// dependency changes.
package spreadsheet
