// Package config defines the format-agnostic schema model the compiler
// validates input tables against: per-group required parameter sets,
// known-extra parameters with documented defaults, and the role-parametrized
// storage sub-table schema.
//
// The `config.Model` is the single source of truth for the `compile`
// package. The concrete schema-manifest loader lives in `internal/schema`.
package config
