// Package table reads one tabular parameter file into a row-indexed,
// column-keyed structure, resolving an unknown delimiter from a fixed
// candidate list.
package table

import (
	"fmt"
	"strings"
)

// Mandatory structural names inside every parameter table.
const (
	// UnitColumn is the column carrying each parameter row's unit/type tag.
	UnitColumn = "unit"
	// LabelRow is the parameter row carrying the human-facing asset name.
	LabelRow = "label"
)

// ParseError is the fatal failure of a table load: no candidate delimiter
// produced a usable table, or the table lacks the mandatory unit column.
type ParseError struct {
	Path   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("table %s is unparsable: %s", e.Path, e.Reason)
}

// RawTable is the parsed content of one parameter file. Rows are keyed by
// parameter name, columns by asset-instance name; the unit column is kept
// aside as per-row tags. A RawTable is never mutated after Load returns it.
type RawTable struct {
	// Name is the table name without extension, e.g. "energyProduction".
	Name string
	// Parameters lists the row index in file order.
	Parameters []string
	// Columns lists the asset columns in file order, unit column excluded.
	Columns []string

	units map[string]string
	cells map[string]map[string]string
}

// Unit returns the unit/type tag declared for a parameter row.
func (t *RawTable) Unit(param string) string {
	return t.units[param]
}

// Cell returns the raw text of one cell, or "" when the cell is empty or the
// row does not exist.
func (t *RawTable) Cell(param, column string) string {
	row, ok := t.cells[param]
	if !ok {
		return ""
	}
	return row[column]
}

// HasParameter reports whether the row index contains the given name.
func (t *RawTable) HasParameter(name string) bool {
	_, ok := t.cells[name]
	return ok
}

// HasColumn reports whether the table has the given asset column.
func (t *RawTable) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

func (t *RawTable) String() string {
	return fmt.Sprintf("table %s (%d parameters, assets: %s)",
		t.Name, len(t.Parameters), strings.Join(t.Columns, ", "))
}
