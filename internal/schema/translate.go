package schema

import (
	"fmt"

	"github.com/vk/gridcfg/internal/config"
)

// translate folds the blocks of one decoded manifest into the model. Blocks
// override earlier declarations of the same name, so user manifests can
// replace the built-ins wholesale.
func translate(model *config.Model, file *File) error {
	for _, block := range file.Groups {
		if block.Storage && block.FileParameter == "" {
			return fmt.Errorf("group %q: storage groups must set file_parameter", block.Name)
		}
		model.Groups[block.Name] = &config.GroupSchema{
			Name:          block.Name,
			Required:      append([]string(nil), block.Required...),
			Singleton:     block.Singleton,
			Storage:       block.Storage,
			FileParameter: block.FileParameter,
		}
		if block.Storage {
			model.Storage.Common = append([]string(nil), block.SubRequired...)
		}
	}

	for _, block := range file.Parameters {
		// A default is an HCL expression evaluated without any context:
		// manifests hold literals, not references.
		val, diags := block.Default.Value(nil)
		if diags.HasErrors() {
			return fmt.Errorf("parameter %q: invalid default: %w", block.Name, diags)
		}
		model.Extras[block.Name] = &config.KnownExtra{
			Name:        block.Name,
			Unit:        block.Unit,
			Default:     val,
			Description: block.Description,
		}
	}

	for _, block := range file.StorageRoles {
		model.Storage.Roles[block.Name] = append([]string(nil), block.Required...)
	}

	return nil
}
