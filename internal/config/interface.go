package config

import "context"

// Loader is the interface for a format-specific schema-manifest loader. The
// concrete HCL implementation lives in internal/schema; the app only depends
// on this interface so tests can substitute a canned model.
type Loader interface {
	// Load reads schema manifests from the given paths (on top of any
	// built-in defaults) and returns the unified model.
	Load(ctx context.Context, paths ...string) (*Model, error)
}
