// Package emit serializes an assembled configuration tree to its canonical
// JSON artifact, refusing to overwrite a pre-existing one.
package emit

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/tidwall/pretty"

	"github.com/vk/gridcfg/internal/compile"
	"github.com/vk/gridcfg/internal/ctxlog"
	"github.com/vk/gridcfg/internal/diag"
)

// ArtifactExistsError is the pre-flight failure of Write: an artifact already
// sits at the destination, most likely left behind by an aborted prior run.
type ArtifactExistsError struct {
	Path string
}

func (e *ArtifactExistsError) Error() string {
	return fmt.Sprintf("the config artifact %s already exists; remove it before starting a new run", e.Path)
}

// prettyOptions is the canonical artifact formatting: sorted keys, four-space
// indentation. Identical inputs produce a byte-identical artifact.
var prettyOptions = &pretty.Options{
	Indent:   "    ",
	SortKeys: true,
}

// Write serializes the tree to path. It fails with *ArtifactExistsError
// before touching the file when path already exists. A residual value that
// cannot be serialized is dropped with a finding rather than aborting the
// whole write.
func Write(ctx context.Context, tree *compile.Tree, path string, ds *diag.Diagnostics) error {
	logger := ctxlog.FromContext(ctx)

	if _, err := os.Stat(path); err == nil {
		return &ArtifactExistsError{Path: path}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("checking artifact destination %s: %w", path, err)
	}

	top := tree.TopLevel()
	sanitize(top, ds)

	data, err := json.Marshal(top)
	if err != nil {
		return fmt.Errorf("serializing config tree: %w", err)
	}
	data = pretty.PrettyOptions(data, prettyOptions)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config artifact %s: %w", path, err)
	}

	logger.Info("Config artifact created from input tables.", "path", path)
	return nil
}

// sanitize drops top-level entries that fail to serialize, so one bad value
// cannot lose the whole artifact.
func sanitize(top map[string]any, ds *diag.Diagnostics) {
	for key, entry := range top {
		if _, err := json.Marshal(entry); err != nil {
			ds.Warnf(diag.At{Table: key}, diag.CodeValueDropped,
				"entry %q cannot be serialized and is dropped from the artifact: %v", key, err)
			delete(top, key)
		}
	}
}
