// Package compile drives group tables through loading, coercion and schema
// reconciliation, and assembles the validated configuration tree consumed by
// the downstream optimization model.
package compile

import "github.com/vk/gridcfg/internal/value"

// AssetRecord maps parameter names to their typed value nodes for one asset.
// A record is immutable once its column has been processed.
type AssetRecord map[string]value.Node

// AssetGroup maps asset-instance names to their records.
type AssetGroup map[string]AssetRecord

// Tree is the assembled configuration of one run. Built once, persisted
// exactly once, never read back by this package.
type Tree struct {
	// Groups maps group name to its assets.
	Groups map[string]AssetGroup
	// Singletons holds the groups that describe exactly one conceptual
	// entity; their records sit at the top level of the artifact without a
	// group-name wrapper.
	Singletons map[string]AssetRecord
}

// NewTree returns an empty tree.
func NewTree() *Tree {
	return &Tree{
		Groups:     make(map[string]AssetGroup),
		Singletons: make(map[string]AssetRecord),
	}
}

// TopLevel merges groups and inlined singleton records into the single map
// the emitter serializes.
func (t *Tree) TopLevel() map[string]any {
	top := make(map[string]any, len(t.Groups)+len(t.Singletons))
	for name, group := range t.Groups {
		top[name] = group
	}
	for name, record := range t.Singletons {
		top[name] = record
	}
	return top
}
