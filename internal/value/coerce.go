package value

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/vk/gridcfg/internal/diag"
)

// Type tags with special classification rules. Any other tag is treated as a
// physical unit and sent down the numeric path.
const (
	TagString = "str"
	TagBool   = "bool"
)

// Reference literal keys inside a brace cell, e.g.
// {'file_name':'pv_gen.csv','header':'kW','unit':'kW'}.
const (
	refKeyFile   = "file_name"
	refKeyHeader = "header"
	refKeyUnit   = "unit"
)

// Coerce classifies one raw cell into a typed node, given the row's declared
// unit tag. Classification priority, first match wins:
//
//  1. brace cell         -> TimeseriesRef
//  2. unit tag "str"     -> RawString
//  3. bracket cell       -> List, items coerced with the same unit tag
//  4. unit tag "bool"    -> Boolean, from a literal allow-list
//  5. otherwise          -> Null ("None") or Scalar (int before float)
//
// Coerce never fails: malformed bracket or brace text degrades to a raw
// string node and a finding on ds.
func Coerce(unitTag, raw string, at diag.At, ds *diag.Diagnostics) Node {
	cell := strings.TrimSpace(raw)
	if cell == "" {
		return Null(unitTag)
	}

	// Rule 1: brace cell. A reference literal occupies the whole cell;
	// braces nested inside a bracket list are handled item-wise by rule 3.
	hasOpen := strings.Contains(cell, "{")
	hasClose := strings.Contains(cell, "}")
	if hasOpen != hasClose {
		ds.Warnf(at, diag.CodeMalformedLiteral,
			"either '{' or '}' is missing in %q", cell)
		return RawString(cell)
	}
	if hasOpen && strings.HasPrefix(cell, "{") && strings.HasSuffix(cell, "}") {
		if ref, ok := parseReference(cell); ok {
			ds.Infof(at, diag.CodeTimeseries, "parameter is defined as a timeseries")
			return Reference(ref)
		}
		ds.Warnf(at, diag.CodeMalformedLiteral,
			"cell %q looks like a timeseries reference but could not be parsed", cell)
		return RawString(cell)
	}

	// Rule 2: declared strings stay strings, brackets and all.
	if unitTag == TagString {
		return RawString(cell)
	}

	// Rule 3: bracket cell, one nesting level only.
	hasOpenBracket := strings.Contains(cell, "[")
	hasCloseBracket := strings.Contains(cell, "]")
	if hasOpenBracket || hasCloseBracket {
		if !hasOpenBracket || !hasCloseBracket {
			ds.Warnf(at, diag.CodeMalformedLiteral,
				"either '[' or ']' is missing in %q", cell)
			return RawString(cell)
		}
		interior := strings.NewReplacer("[", "", "]", "").Replace(cell)
		tokens := strings.Split(interior, ";")
		items := make([]Node, 0, len(tokens))
		for _, token := range tokens {
			items = append(items, Coerce(unitTag, token, at, ds))
		}
		ds.Infof(at, diag.CodeListParameter, "parameter is defined as a list")
		return List(items, unitTag)
	}

	// Rule 4: boolean allow-list.
	if unitTag == TagBool {
		switch cell {
		case "True", "true", "t":
			return Boolean(true)
		case "False", "false", "F":
			return Boolean(false)
		default:
			ds.Warnf(at, diag.CodeUnresolvedBool,
				"%q is not a boolean value (True/true/t or False/false/F)", cell)
			return UnresolvedBoolean(cell)
		}
	}

	// Rule 5: numeric path.
	if cell == "None" {
		return Null(unitTag)
	}
	if i, err := strconv.ParseInt(cell, 10, 64); err == nil {
		return Scalar(json.Number(strconv.FormatInt(i, 10)), unitTag)
	}
	if f, err := strconv.ParseFloat(cell, 64); err == nil {
		return Scalar(json.Number(strconv.FormatFloat(f, 'g', -1, 64)), unitTag)
	}
	ds.Warnf(at, diag.CodeUnparsableNumber,
		"cell %q cannot be parsed as a number for unit %q", cell, unitTag)
	return RawString(cell)
}

// parseReference parses an inline timeseries reference literal. Single-quoted
// literals are normalized to double quotes before parsing.
func parseReference(cell string) (TimeseriesRef, bool) {
	normalized := strings.ReplaceAll(cell, "'", `"`)
	if !gjson.Valid(normalized) {
		return TimeseriesRef{}, false
	}
	parsed := gjson.Parse(normalized)
	file := parsed.Get(refKeyFile)
	header := parsed.Get(refKeyHeader)
	if !file.Exists() || !header.Exists() {
		return TimeseriesRef{}, false
	}
	return TimeseriesRef{
		File:   file.String(),
		Header: header.String(),
		Unit:   parsed.Get(refKeyUnit).String(),
	}, true
}
