// Package diag accumulates the non-fatal findings produced while compiling
// input tables: schema mismatches, malformed literals, skipped assets.
//
// Findings never halt processing of sibling assets or groups; they are logged
// the moment they are recorded and kept for the caller to inspect afterwards.
package diag

import (
	"fmt"
	"io"
	"log/slog"
)

// Severity is the level of a single finding.
type Severity int

const (
	Info Severity = iota
	Warning
	Error
)

// String returns a human-readable severity name.
func (s Severity) String() string {
	switch s {
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Codes identifying the kind of finding, stable for tests and callers.
const (
	CodeMalformedLiteral   = "malformed_literal"
	CodeUnresolvedBool     = "unresolved_bool"
	CodeUnparsableNumber   = "unparsable_number"
	CodeMissingParameter   = "missing_parameter"
	CodeExtraParameter     = "extra_parameter"
	CodeDefaultInjected    = "default_injected"
	CodeMaximumCapUnused   = "maximum_cap_unused"
	CodeDuplicateParameter = "duplicate_parameter"
	CodeMissingLabelRow    = "missing_label_row"
	CodeEmptyColumn        = "empty_column"
	CodeUnknownFile        = "unknown_file"
	CodeMissingGroupFile   = "missing_group_file"
	CodeStorageColumns     = "storage_column_count"
	CodeUnknownRole        = "unknown_storage_role"
	CodeRoleForcedNull     = "role_parameter_forced_null"
	CodeRoleNullRequired   = "role_parameter_null"
	CodeAssetSkipped       = "asset_skipped"
	CodeValueDropped       = "value_dropped"
	CodeTimeseries         = "timeseries_reference"
	CodeListParameter      = "list_parameter"
)

// At locates a finding within the input tables. Zero fields are omitted from
// log output.
type At struct {
	Table     string
	Asset     string
	Parameter string
}

// Diagnostic is a single recorded finding.
type Diagnostic struct {
	Severity Severity
	Code     string
	Message  string
	At       At
}

// Diagnostics collects findings and mirrors each one onto a logger as it is
// recorded. The zero value is not usable; construct with New.
type Diagnostics struct {
	logger  *slog.Logger
	entries []Diagnostic
}

// New returns an empty collector. A nil logger discards the mirrored log
// output, which is what most tests want.
func New(logger *slog.Logger) *Diagnostics {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Diagnostics{logger: logger}
}

// Infof records an informational finding.
func (d *Diagnostics) Infof(at At, code, format string, args ...any) {
	d.add(Info, at, code, format, args...)
}

// Warnf records a warning finding.
func (d *Diagnostics) Warnf(at At, code, format string, args ...any) {
	d.add(Warning, at, code, format, args...)
}

// Errorf records an error finding. Errors here are still non-fatal for the
// run; fatal conditions are returned as Go errors instead.
func (d *Diagnostics) Errorf(at At, code, format string, args ...any) {
	d.add(Error, at, code, format, args...)
}

func (d *Diagnostics) add(sev Severity, at At, code, format string, args ...any) {
	entry := Diagnostic{
		Severity: sev,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		At:       at,
	}
	d.entries = append(d.entries, entry)

	attrs := []any{slog.String("code", code)}
	if at.Table != "" {
		attrs = append(attrs, slog.String("table", at.Table))
	}
	if at.Asset != "" {
		attrs = append(attrs, slog.String("asset", at.Asset))
	}
	if at.Parameter != "" {
		attrs = append(attrs, slog.String("parameter", at.Parameter))
	}

	switch sev {
	case Error:
		d.logger.Error(entry.Message, attrs...)
	case Warning:
		d.logger.Warn(entry.Message, attrs...)
	default:
		d.logger.Info(entry.Message, attrs...)
	}
}

// Entries returns all recorded findings in the order they were added.
func (d *Diagnostics) Entries() []Diagnostic {
	return d.entries
}

// HasErrors reports whether any finding with Error severity was recorded.
func (d *Diagnostics) HasErrors() bool {
	for _, e := range d.entries {
		if e.Severity == Error {
			return true
		}
	}
	return false
}

// Count returns the number of findings with the given code.
func (d *Diagnostics) Count(code string) int {
	n := 0
	for _, e := range d.entries {
		if e.Code == code {
			n++
		}
	}
	return n
}

// First returns the first finding with the given code, or nil.
func (d *Diagnostics) First(code string) *Diagnostic {
	for i := range d.entries {
		if d.entries[i].Code == code {
			return &d.entries[i]
		}
	}
	return nil
}
