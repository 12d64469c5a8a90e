// Package schema loads parameter-schema manifests written in HCL and
// translates them into the format-agnostic config model. A built-in manifest
// covering the standard energy-system groups is embedded; user manifests may
// override or extend it.
package schema

import "github.com/hashicorp/hcl/v2"

// File represents the top-level structure of one schema manifest.
type File struct {
	Groups       []*GroupBlock     `hcl:"group,block"`
	Parameters   []*ParameterBlock `hcl:"parameter,block"`
	StorageRoles []*RoleBlock      `hcl:"storage_role,block"`
	Body         hcl.Body          `hcl:",remain"`
}

// GroupBlock declares the required parameter set of one asset group.
type GroupBlock struct {
	Name     string   `hcl:"name,label"`
	Required []string `hcl:"required"`
	// Singleton groups carry exactly one conceptual entity and are inlined
	// at the top level of the emitted tree.
	Singleton bool `hcl:"singleton,optional"`
	// Storage marks the group whose assets reference role-structured
	// sub-tables; FileParameter names the row holding the sub-table file.
	Storage       bool   `hcl:"storage,optional"`
	FileParameter string `hcl:"file_parameter,optional"`
	// SubRequired lists the base parameters every role column of a
	// referenced sub-table shares.
	SubRequired []string `hcl:"sub_required,optional"`
}

// ParameterBlock declares a known-extra parameter: optional, with a
// documented default injected when the parameter is absent from a table.
type ParameterBlock struct {
	Name        string         `hcl:"name,label"`
	Unit        string         `hcl:"unit"`
	Default     hcl.Expression `hcl:"default"`
	Description string         `hcl:"description,optional"`
}

// RoleBlock declares the required-parameter extension of one storage
// sub-table column role.
type RoleBlock struct {
	Name     string   `hcl:"name,label"`
	Required []string `hcl:"required"`
}
