package compile

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/vk/gridcfg/internal/config"
	"github.com/vk/gridcfg/internal/ctxlog"
	"github.com/vk/gridcfg/internal/diag"
	"github.com/vk/gridcfg/internal/table"
	"github.com/vk/gridcfg/internal/value"
)

// Assembler compiles the tables of one input directory into a Tree. It holds
// no mutable state across groups; everything accumulated during a group's
// processing is folded into the tree before the next group starts.
type Assembler struct {
	model *config.Model
}

// New returns an assembler validating against the given schema model.
func New(model *config.Model) *Assembler {
	return &Assembler{model: model}
}

// CompileDirectory loads every recognized group table in dir, assembles the
// configuration tree and returns it together with all accumulated findings.
// Only an unparsable table aborts the run; everything else degrades to
// findings.
func (a *Assembler) CompileDirectory(ctx context.Context, dir string) (*Tree, *diag.Diagnostics, error) {
	logger := ctxlog.FromContext(ctx)
	ds := diag.New(logger)

	logger.Info("Compiling input tables.", "dir", dir)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("reading input directory: %w", err)
	}
	found := make(map[string]struct{})
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".csv") {
			continue
		}
		found[strings.TrimSuffix(entry.Name(), ".csv")] = struct{}{}
	}

	tree := NewTree()
	resolvedSubTables := make(map[string]struct{})

	for _, name := range a.model.GroupNames() {
		group := a.model.Groups[name]
		if _, ok := found[name]; !ok {
			ds.Errorf(diag.At{Table: name}, diag.CodeMissingGroupFile,
				"required input file %s.csv is missing from %s", name, dir)
			continue
		}
		if err := a.assembleGroup(ctx, dir, group, tree, resolvedSubTables, ds); err != nil {
			return nil, ds, err
		}
	}

	for name := range found {
		if _, ok := a.model.Groups[name]; ok {
			continue
		}
		if _, ok := resolvedSubTables[name]; ok {
			continue
		}
		ds.Errorf(diag.At{Table: name}, diag.CodeUnknownFile,
			"%s.csv is not recognized as an input file and will not be processed", name)
	}

	return tree, ds, nil
}

// assembleGroup drives one group table end to end: load, effective-schema
// derivation, reconciliation, per-column coercion, and for the storage group
// the sub-table resolution pass.
func (a *Assembler) assembleGroup(
	ctx context.Context,
	dir string,
	group *config.GroupSchema,
	tree *Tree,
	resolvedSubTables map[string]struct{},
	ds *diag.Diagnostics,
) error {
	logger := ctxlog.FromContext(ctx)

	tbl, err := table.Load(ctx, dir, group.Name, ds)
	if err != nil {
		return err
	}

	hasMaximumCap := tbl.HasParameter(config.MaximumCapParameter)
	if !hasMaximumCap {
		ds.Warnf(diag.At{Table: group.Name}, diag.CodeMaximumCapUnused,
			"asset group %q does not use the parameter %s; in an upcoming version it will be required",
			group.Name, config.MaximumCapParameter)
	}
	effective := group.Effective(hasMaximumCap)

	reconciliation := config.Reconcile(effective, tbl.Parameters)
	var inject []*config.KnownExtra
	for _, name := range reconciliation.Missing {
		if extra, ok := a.model.Extras[name]; ok {
			inject = append(inject, extra)
			continue
		}
		ds.Errorf(diag.At{Table: group.Name, Parameter: name}, diag.CodeMissingParameter,
			"the parameter %q is missing in %s.csv", name, group.Name)
	}
	for _, name := range reconciliation.Extra {
		ds.Errorf(diag.At{Table: group.Name, Parameter: name}, diag.CodeExtraParameter,
			"the parameter %q in %s.csv is not recognized", name, group.Name)
	}

	assets := make(AssetGroup, len(tbl.Columns))
	var labels []string

	for _, column := range tbl.Columns {
		record, label, empty := a.assembleColumn(tbl, column, ds)
		if empty {
			ds.Infof(diag.At{Table: group.Name, Asset: column}, diag.CodeEmptyColumn,
				"no asset is added for column %q because all its cells are empty", column)
			continue
		}
		for _, extra := range inject {
			record[extra.Name] = value.FromCty(extra.Default, extra.Unit)
			ds.Warnf(diag.At{Table: group.Name, Asset: column, Parameter: extra.Name}, diag.CodeDefaultInjected,
				"parameter %q %s; its default value is used, which can influence the results",
				extra.Name, extra.Description)
		}
		if label != "" {
			labels = append(labels, label)
		}
		assets[column] = record
	}

	if group.Storage {
		if err := a.resolveStorage(ctx, dir, group, tbl, assets, resolvedSubTables, ds); err != nil {
			return err
		}
	}

	logger.Info("Assets added to the energy system.",
		"group", group.Name,
		"assets", strings.Join(labels, ", "),
	)

	if group.Singleton {
		// A singleton table describes one conceptual entity; its records sit
		// at the top level of the tree without a group-name wrapper.
		for _, column := range tbl.Columns {
			if record, ok := assets[column]; ok {
				tree.Singletons[column] = record
			}
		}
		return nil
	}
	tree.Groups[group.Name] = assets
	return nil
}

// assembleColumn coerces one asset column row by row, in table order. The
// label row always takes the raw-string path regardless of its unit tag. The
// returned empty flag is true when every cell of the column is blank.
func (a *Assembler) assembleColumn(tbl *table.RawTable, column string, ds *diag.Diagnostics) (AssetRecord, string, bool) {
	record := make(AssetRecord, len(tbl.Parameters))
	label := ""
	filled := 0

	for _, param := range tbl.Parameters {
		raw := tbl.Cell(param, column)
		if strings.TrimSpace(raw) != "" {
			filled++
		}
		at := diag.At{Table: tbl.Name, Asset: column, Parameter: param}

		if param == table.LabelRow {
			label = strings.TrimSpace(raw)
			record[param] = value.RawString(label)
			continue
		}
		record[param] = value.Coerce(tbl.Unit(param), raw, at, ds)
	}

	return record, label, filled == 0
}
