package config

import (
	"sort"

	"github.com/zclconf/go-cty/cty"
)

// MaximumCapParameter is folded into a group's effective required set when
// the loaded table carries it; its absence is a warning because the parameter
// becomes mandatory in an upcoming release.
const MaximumCapParameter = "maximumCap"

// Model is the unified schema model for one compiler run. It is produced once
// by the schema loader and never mutated afterwards; anything load-specific
// is derived as a copy.
type Model struct {
	// Groups maps group (file) name to its schema.
	Groups map[string]*GroupSchema
	// Extras maps known-extra parameter names to their documented defaults.
	Extras map[string]*KnownExtra
	// Storage describes the role-parametrized sub-table schema.
	Storage *StorageSchema
}

// GroupNames returns all group names, sorted for deterministic iteration.
func (m *Model) GroupNames() []string {
	names := make([]string, 0, len(m.Groups))
	for name := range m.Groups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GroupSchema is the required-parameter contract of one asset group.
type GroupSchema struct {
	Name     string
	Required []string
	// Singleton marks groups describing exactly one conceptual entity
	// (economic data, project metadata, simulation settings); their records
	// are inlined at the top level of the tree.
	Singleton bool
	// Storage marks the group whose assets reference role-structured
	// sub-tables.
	Storage bool
	// FileParameter names the row holding the sub-table file per asset;
	// only set when Storage is true.
	FileParameter string
}

// Effective returns the derived required set for a single table load. The
// receiver is never mutated: maximumCap is folded into a fresh copy when the
// loaded table carries it.
func (g *GroupSchema) Effective(hasMaximumCap bool) []string {
	required := make([]string, len(g.Required))
	copy(required, g.Required)
	if hasMaximumCap {
		required = append(required, MaximumCapParameter)
	}
	return required
}

// KnownExtra is an optional parameter with a documented default: absent from
// a table it is injected with its default instead of being reported missing.
type KnownExtra struct {
	Name        string
	Unit        string
	Default     cty.Value
	Description string
}

// StorageSchema is the schema of a storage sub-table, parametrized by the
// closed set of column roles.
type StorageSchema struct {
	// Common lists the base parameters every role column shares.
	Common []string
	// Roles maps each role name to its additional required parameters.
	Roles map[string][]string
}

// RoleRequired returns the derived effective parameter set of one role
// column: the common base plus the role's own extension. The second return
// is false for a column name outside the closed role set.
func (s *StorageSchema) RoleRequired(role string) ([]string, bool) {
	extension, ok := s.Roles[role]
	if !ok {
		return nil, false
	}
	required := make([]string, 0, len(s.Common)+len(extension))
	required = append(required, s.Common...)
	required = append(required, extension...)
	return required, true
}

// RoleNames returns the closed set of role names, sorted.
func (s *StorageSchema) RoleNames() []string {
	names := make([]string, 0, len(s.Roles))
	for name := range s.Roles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RoleSpecific returns the union of all role extensions. A parameter in this
// set but outside a given column's role is quietly nulled rather than flagged
// as unrecognized: it belongs to a sibling column.
func (s *StorageSchema) RoleSpecific() map[string]struct{} {
	set := make(map[string]struct{})
	for _, extension := range s.Roles {
		for _, name := range extension {
			set[name] = struct{}{}
		}
	}
	return set
}
