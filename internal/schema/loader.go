package schema

import (
	"context"
	_ "embed"
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/vk/gridcfg/internal/config"
	"github.com/vk/gridcfg/internal/ctxlog"
	"github.com/vk/gridcfg/internal/fsutil"
)

//go:embed builtin.hcl
var builtinManifest []byte

// builtinName labels the embedded manifest in HCL diagnostics.
const builtinName = "builtin.hcl"

// Loader reads schema manifests into a config.Model.
type Loader struct {
	parser *hclparse.Parser
}

// NewLoader returns a manifest loader.
func NewLoader() *Loader {
	return &Loader{parser: hclparse.NewParser()}
}

// Load parses the embedded built-in manifest plus every .hcl file found under
// the given paths (files or directories), later declarations overriding
// earlier ones by name, and returns the unified model.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)

	model := &config.Model{
		Groups: make(map[string]*config.GroupSchema),
		Extras: make(map[string]*config.KnownExtra),
		Storage: &config.StorageSchema{
			Roles: make(map[string][]string),
		},
	}

	if err := l.mergeManifest(model, builtinName, builtinManifest); err != nil {
		return nil, fmt.Errorf("built-in schema manifest: %w", err)
	}

	var files []string
	for _, path := range paths {
		found, err := fsutil.FindFilesByExtension(path, ".hcl")
		if err != nil {
			return nil, fmt.Errorf("scanning schema path %s: %w", path, err)
		}
		files = append(files, found...)
	}
	sort.Strings(files)

	for _, file := range files {
		hclFile, diags := l.parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("parsing schema manifest %s: %w", file, diags)
		}
		if err := l.mergeFile(model, hclFile); err != nil {
			return nil, fmt.Errorf("schema manifest %s: %w", file, err)
		}
		logger.Debug("Schema manifest merged.", "file", file)
	}

	if len(model.Storage.Roles) > 0 && storageGroup(model) == nil {
		return nil, fmt.Errorf("schema declares storage roles but no group is marked storage")
	}

	logger.Debug("Schema model loaded.",
		"groups", len(model.Groups),
		"known_extras", len(model.Extras),
		"storage_roles", len(model.Storage.Roles),
	)
	return model, nil
}

func (l *Loader) mergeManifest(model *config.Model, name string, src []byte) error {
	hclFile, diags := l.parser.ParseHCL(src, name)
	if diags.HasErrors() {
		return fmt.Errorf("parsing: %w", diags)
	}
	return l.mergeFile(model, hclFile)
}

func (l *Loader) mergeFile(model *config.Model, hclFile *hcl.File) error {
	var file File
	if diags := gohcl.DecodeBody(hclFile.Body, nil, &file); diags.HasErrors() {
		return fmt.Errorf("decoding: %w", diags)
	}
	return translate(model, &file)
}

func storageGroup(model *config.Model) *config.GroupSchema {
	for _, group := range model.Groups {
		if group.Storage {
			return group
		}
	}
	return nil
}
