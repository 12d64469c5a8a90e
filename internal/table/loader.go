package table

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vk/gridcfg/internal/ctxlog"
	"github.com/vk/gridcfg/internal/diag"
)

// delimiters are the candidate cell separators, tried in order. The first
// candidate yielding more than zero columns besides the row index wins.
var delimiters = []rune{',', ';', '&'}

// Load reads the parameter table <name>.csv from dir. Non-structural oddities
// (duplicate rows, a missing label row) are recorded on ds; a table no
// candidate delimiter can read, or one without a unit column, returns a
// *ParseError.
func Load(ctx context.Context, dir, name string, ds *diag.Diagnostics) (*RawTable, error) {
	logger := ctxlog.FromContext(ctx)
	path := filepath.Join(dir, name+".csv")
	logger.Debug("Loading input table.", "path", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading table %s: %w", path, err)
	}

	records, ok := sniff(data)
	if !ok {
		return nil, &ParseError{
			Path:   path,
			Reason: fmt.Sprintf("no delimiter out of %q yields any parsed column", string(delimiters)),
		}
	}

	return build(name, path, records, ds)
}

// sniff tries each candidate delimiter against the raw bytes and returns the
// first parse that produces at least one column besides the index.
func sniff(data []byte) ([][]string, bool) {
	for _, delim := range delimiters {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.FieldsPerRecord = -1
		reader.TrimLeadingSpace = true

		records, err := reader.ReadAll()
		if err != nil || len(records) == 0 {
			continue
		}
		if len(records[0]) > 1 {
			return records, true
		}
	}
	return nil, false
}

func build(name, path string, records [][]string, ds *diag.Diagnostics) (*RawTable, error) {
	header := records[0]

	t := &RawTable{
		Name:  name,
		units: make(map[string]string),
		cells: make(map[string]map[string]string),
	}

	unitIdx := -1
	for i, col := range header {
		if i == 0 {
			// Index header, usually empty; not a column.
			continue
		}
		if col == UnitColumn {
			unitIdx = i
			continue
		}
		t.Columns = append(t.Columns, col)
	}
	if unitIdx < 0 {
		return nil, &ParseError{Path: path, Reason: "mandatory column 'unit' is missing"}
	}

	for _, record := range records[1:] {
		if len(record) == 0 || record[0] == "" {
			continue
		}
		param := record[0]
		if t.HasParameter(param) {
			ds.Warnf(diag.At{Table: name, Parameter: param}, diag.CodeDuplicateParameter,
				"parameter appears more than once; keeping the first occurrence")
			continue
		}

		row := make(map[string]string, len(header)-1)
		for i, col := range header {
			if i == 0 || i >= len(record) {
				continue
			}
			if i == unitIdx {
				t.units[param] = record[i]
				continue
			}
			row[col] = record[i]
		}

		t.Parameters = append(t.Parameters, param)
		t.cells[param] = row
	}

	if !t.HasParameter(LabelRow) {
		ds.Warnf(diag.At{Table: name}, diag.CodeMissingLabelRow,
			"mandatory row 'label' is missing; assets of this table stay unlabeled")
	}

	return t, nil
}
