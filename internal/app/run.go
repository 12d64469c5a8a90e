package app

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/vk/gridcfg/internal/compile"
	"github.com/vk/gridcfg/internal/ctxlog"
	"github.com/vk/gridcfg/internal/diag"
	"github.com/vk/gridcfg/internal/emit"
	"github.com/vk/gridcfg/internal/fsutil"
)

// InputsMarker is the folder name holding the group tables in the standard
// project layout.
const InputsMarker = "csv_elements"

// Run compiles the input directory into the config artifact.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	inputDir, err := a.resolveInputDir()
	if err != nil {
		return err
	}
	a.logger.Info("Loading and converting all input tables into one config artifact.",
		"dir", inputDir)

	assembler := compile.New(a.model)
	tree, ds, err := assembler.CompileDirectory(ctx, inputDir)
	if err != nil {
		return fmt.Errorf("compiling input tables: %w", err)
	}
	a.logSummary(ds)

	destination := filepath.Join(inputDir, a.config.Artifact)
	if err := emit.Write(ctx, tree, destination, ds); err != nil {
		return fmt.Errorf("emitting config artifact: %w", err)
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

// resolveInputDir locates the directory holding the group tables. A project
// root whose subtree contains exactly one csv_elements folder resolves to
// that folder; a tree without the marker is taken as the table directory
// itself. More than one marked folder is ambiguous and fails the run.
func (a *App) resolveInputDir() (string, error) {
	dirs, err := fsutil.FindInputDirs(a.config.InputDir, InputsMarker)
	if err != nil {
		return "", fmt.Errorf("scanning input directory %s: %w", a.config.InputDir, err)
	}
	switch len(dirs) {
	case 0:
		return a.config.InputDir, nil
	case 1:
		resolved := filepath.Join(dirs[0], InputsMarker)
		a.logger.Debug("Resolved project layout to its input folder.", "dir", resolved)
		return resolved, nil
	default:
		return "", fmt.Errorf("%d folders under %s contain a %s directory; point the compiler at a single project",
			len(dirs), a.config.InputDir, InputsMarker)
	}
}

// logSummary reports the accumulated finding counts once per run; every
// individual finding was already logged when it was recorded.
func (a *App) logSummary(ds *diag.Diagnostics) {
	counts := map[diag.Severity]int{}
	for _, entry := range ds.Entries() {
		counts[entry.Severity]++
	}
	a.logger.Info("Compilation finished.",
		"errors", counts[diag.Error],
		"warnings", counts[diag.Warning],
		"notices", counts[diag.Info],
	)
}
