// Package value classifies raw table cells into typed value nodes and owns
// the canonical JSON shape of every node kind in the emitted artifact.
package value

import (
	"encoding/json"
	"fmt"
)

// Kind discriminates the active variant of a Node.
type Kind int

const (
	KindNull Kind = iota
	KindScalar
	KindBool
	KindString
	KindList
	KindTimeseriesRef
	KindRecord
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindScalar:
		return "scalar"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindTimeseriesRef:
		return "timeseries_ref"
	case KindRecord:
		return "record"
	default:
		return "unknown"
	}
}

// TimeseriesRef points at an external time-indexed data source by file name
// and column header instead of holding a literal value.
type TimeseriesRef struct {
	File   string `json:"file_name"`
	Header string `json:"header"`
	Unit   string `json:"unit"`
}

// Node is the tagged-union result of classifying one table cell. Exactly one
// variant is active, selected by Kind; the other fields are zero.
//
// A Bool node with Resolved false carries the original cell text in Literal.
// The literal is preserved all the way into the artifact rather than being
// defaulted, so a bad boolean is visible downstream instead of silently
// flipped.
type Node struct {
	Kind Kind

	Unit     string      // Scalar, List, Null
	Number   json.Number // Scalar
	Bool     bool        // Bool, when Resolved
	Resolved bool        // Bool
	Literal  string      // Bool, when not Resolved
	Str      string      // String
	Items    []Node      // List
	Ref      *TimeseriesRef
	Fields   map[string]Node // Record
}

// Null returns a node holding no value, tagged with the row's unit.
func Null(unit string) Node {
	return Node{Kind: KindNull, Unit: unit}
}

// Scalar returns a numeric node with its declared unit.
func Scalar(n json.Number, unit string) Node {
	return Node{Kind: KindScalar, Number: n, Unit: unit}
}

// Boolean returns a resolved boolean node.
func Boolean(v bool) Node {
	return Node{Kind: KindBool, Bool: v, Resolved: true}
}

// UnresolvedBoolean returns a boolean node that keeps the original,
// unrecognized literal.
func UnresolvedBoolean(literal string) Node {
	return Node{Kind: KindBool, Literal: literal}
}

// RawString returns a raw string node.
func RawString(s string) Node {
	return Node{Kind: KindString, Str: s}
}

// List returns a list node whose items share the row's unit semantics.
func List(items []Node, unit string) Node {
	return Node{Kind: KindList, Items: items, Unit: unit}
}

// Reference returns a timeseries reference node.
func Reference(ref TimeseriesRef) Node {
	return Node{Kind: KindTimeseriesRef, Ref: &ref}
}

// Record returns a nested parameter record node, used for the role columns of
// a resolved storage sub-table.
func Record(fields map[string]Node) Node {
	return Node{Kind: KindRecord, Fields: fields}
}

// IsNull reports whether the node holds no value.
func (n Node) IsNull() bool {
	return n.Kind == KindNull
}

// wrapped is the `{"unit": ..., "value": ...}` artifact shape.
type wrapped struct {
	Unit  string `json:"unit"`
	Value any    `json:"value"`
}

// MarshalJSON renders the canonical artifact shape for each node kind:
//
//	Scalar         {"unit": u, "value": n}
//	Bool           {"unit": "bool", "value": true} or the preserved literal
//	String         "text"
//	List           {"unit": u, "value": [bare items]}
//	TimeseriesRef  {"file_name": f, "header": h, "unit": u}
//	Null           {"unit": u, "value": null}
//	Record         nested object
func (n Node) MarshalJSON() ([]byte, error) {
	switch n.Kind {
	case KindNull:
		return json.Marshal(wrapped{Unit: n.Unit, Value: nil})
	case KindScalar:
		return json.Marshal(wrapped{Unit: n.Unit, Value: n.Number})
	case KindBool:
		if n.Resolved {
			return json.Marshal(wrapped{Unit: "bool", Value: n.Bool})
		}
		return json.Marshal(wrapped{Unit: "bool", Value: n.Literal})
	case KindString:
		return json.Marshal(n.Str)
	case KindList:
		items := make([]any, len(n.Items))
		for i, item := range n.Items {
			items[i] = item.bare()
		}
		return json.Marshal(wrapped{Unit: n.Unit, Value: items})
	case KindTimeseriesRef:
		return json.Marshal(n.Ref)
	case KindRecord:
		return json.Marshal(n.Fields)
	default:
		return nil, fmt.Errorf("value: cannot marshal node of kind %d", n.Kind)
	}
}

// bare returns the list-item representation of a node, without the per-node
// unit wrapper: the list itself carries the shared unit.
func (n Node) bare() any {
	switch n.Kind {
	case KindScalar:
		return n.Number
	case KindBool:
		if n.Resolved {
			return n.Bool
		}
		return n.Literal
	case KindString:
		return n.Str
	case KindTimeseriesRef:
		return n.Ref
	default:
		return nil
	}
}
