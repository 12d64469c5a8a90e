package compile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vk/gridcfg/internal/config"
	"github.com/vk/gridcfg/internal/ctxlog"
	"github.com/vk/gridcfg/internal/diag"
	"github.com/vk/gridcfg/internal/table"
	"github.com/vk/gridcfg/internal/value"
)

// resolveStorage is the dedicated reference-resolution pass of the storage
// group: it runs after the generic column pass so that table assembly stays
// decoupled from the one group needing recursion. For each asset the
// referenced sub-table is loaded, validated against the role schemas, and its
// role records are merged into the parent record under disjoint keys.
//
// A missing sub-table or a key collision drops the owning asset and leaves
// its siblings alone; an unparsable sub-table aborts the run like any other
// table.
func (a *Assembler) resolveStorage(
	ctx context.Context,
	dir string,
	group *config.GroupSchema,
	tbl *table.RawTable,
	assets AssetGroup,
	resolvedSubTables map[string]struct{},
	ds *diag.Diagnostics,
) error {
	for _, column := range tbl.Columns {
		record, ok := assets[column]
		if !ok {
			continue
		}

		fileNode := record[group.FileParameter]
		if fileNode.Kind != value.KindString || fileNode.Str == "" {
			ds.Errorf(diag.At{Table: group.Name, Asset: column, Parameter: group.FileParameter}, diag.CodeAssetSkipped,
				"asset %q has no usable %s value; the asset is skipped", column, group.FileParameter)
			delete(assets, column)
			continue
		}
		subName := strings.TrimSuffix(fileNode.Str, ".csv")

		roles, order, err := a.assembleStorageTable(ctx, dir, subName, column, ds)
		if err != nil {
			var missing *MissingStorageFileError
			if errors.As(err, &missing) {
				ds.Errorf(diag.At{Table: subName, Asset: column}, diag.CodeAssetSkipped,
					"%s; the asset is skipped", missing)
				delete(assets, column)
				continue
			}
			return err
		}
		resolvedSubTables[subName] = struct{}{}

		if collided := mergeRoles(record, roles, order, column, ds); collided {
			delete(assets, column)
		}
	}
	return nil
}

// mergeRoles merges the resolved role records into the parent record. On a
// key collision the whole asset is rejected; overwriting either side would
// silently lose data.
func mergeRoles(record AssetRecord, roles map[string]value.Node, order []string, asset string, ds *diag.Diagnostics) bool {
	for _, role := range order {
		if _, exists := record[role]; exists {
			err := &KeyCollisionError{Asset: asset, Key: role}
			ds.Errorf(diag.At{Asset: asset, Parameter: role}, diag.CodeAssetSkipped, "%s", err)
			return true
		}
	}
	for _, role := range order {
		record[role] = roles[role]
	}
	return false
}

// assembleStorageTable loads one storage sub-table and validates each of its
// role columns against the role-parametrized schema.
func (a *Assembler) assembleStorageTable(
	ctx context.Context,
	dir, name, asset string,
	ds *diag.Diagnostics,
) (map[string]value.Node, []string, error) {
	logger := ctxlog.FromContext(ctx)

	if _, err := os.Stat(filepath.Join(dir, name+".csv")); err != nil {
		return nil, nil, &MissingStorageFileError{Asset: asset, File: name}
	}

	tbl, err := table.Load(ctx, dir, name, ds)
	if err != nil {
		return nil, nil, err
	}

	hasMaximumCap := tbl.HasParameter(config.MaximumCapParameter)
	if !hasMaximumCap {
		ds.Warnf(diag.At{Table: name}, diag.CodeMaximumCapUnused,
			"storage table %q does not use the parameter %s; in an upcoming version it will be required",
			name, config.MaximumCapParameter)
	}

	// Three role columns plus the unit column.
	if want := len(a.model.Storage.Roles); len(tbl.Columns) != want {
		ds.Errorf(diag.At{Table: name}, diag.CodeStorageColumns,
			"%s.csv requires %d columns (%s plus %q), it has %d",
			name, want+1, strings.Join(a.model.Storage.RoleNames(), ", "), table.UnitColumn, len(tbl.Columns)+1)
	}

	roleSpecific := a.model.Storage.RoleSpecific()
	records := make(map[string]value.Node, len(tbl.Columns))
	var order []string
	var labels []string

	for _, role := range tbl.Columns {
		required, ok := a.model.Storage.RoleRequired(role)
		if !ok {
			ds.Errorf(diag.At{Table: name, Asset: role}, diag.CodeUnknownRole,
				"the column name %q in %s.csv is not valid; use the column names %s",
				role, name, fmt.Sprintf("%q", a.model.Storage.RoleNames()))
			continue
		}
		if hasMaximumCap {
			required = append(required, config.MaximumCapParameter)
		}

		record, label := a.assembleRoleColumn(tbl, role, required, roleSpecific, ds)
		if label != "" {
			labels = append(labels, label)
		}
		records[role] = value.Record(map[string]value.Node(record))
		order = append(order, role)
	}

	logger.Info("Storage components added.",
		"table", name,
		"assets", strings.Join(labels, ", "),
	)
	return records, order, nil
}

// assembleRoleColumn coerces one role column. Parameters outside the role's
// effective set are forced to null and left out of the record (with a warning
// when they held a value); parameters inside the set that end up null stay
// null with a finding, which downstream treats as "feature disabled".
func (a *Assembler) assembleRoleColumn(
	tbl *table.RawTable,
	role string,
	required []string,
	roleSpecific map[string]struct{},
	ds *diag.Diagnostics,
) (AssetRecord, string) {
	requiredSet := make(map[string]struct{}, len(required))
	for _, name := range required {
		requiredSet[name] = struct{}{}
	}

	record := make(AssetRecord, len(required))
	label := ""

	for _, param := range required {
		if !tbl.HasParameter(param) {
			record[param] = value.Null("")
			ds.Warnf(diag.At{Table: tbl.Name, Asset: role, Parameter: param}, diag.CodeRoleNullRequired,
				"the parameter %q in column %q is missing", param, role)
		}
	}

	for _, param := range tbl.Parameters {
		raw := tbl.Cell(param, role)
		at := diag.At{Table: tbl.Name, Asset: role, Parameter: param}

		if _, inRole := requiredSet[param]; !inRole {
			if _, sibling := roleSpecific[param]; !sibling {
				ds.Warnf(at, diag.CodeRoleForcedNull,
					"the storage parameter %q is not recognized and will not be considered", param)
			} else if strings.TrimSpace(raw) != "" {
				ds.Warnf(at, diag.CodeRoleForcedNull,
					"the parameter %q in column %q should be empty and will not be considered", param, role)
			}
			continue
		}

		if param == table.LabelRow {
			label = strings.TrimSpace(raw)
			record[param] = value.RawString(label)
			continue
		}

		node := value.Coerce(tbl.Unit(param), raw, at, ds)
		if node.IsNull() {
			ds.Warnf(at, diag.CodeRoleNullRequired,
				"the parameter %q in column %q holds no value; the feature is treated as disabled", param, role)
		}
		record[param] = node
	}

	return record, label
}
