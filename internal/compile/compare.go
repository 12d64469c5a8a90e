package compile

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vk/gridcfg/internal/config"
)

// Comparison is the result of checking a provided parameter layout against
// the schema model, keyed by group name.
type Comparison struct {
	// Missing maps group name to its required parameters absent from the
	// provided layout. A group absent as a whole maps to its full required
	// set.
	Missing map[string][]string
	// Extra maps group name to provided parameters the schema does not
	// recognize; an unrecognized group maps to nil.
	Extra map[string][]string
}

// Empty reports whether the provided layout matched the schema exactly.
func (c Comparison) Empty() bool {
	return len(c.Missing) == 0 && len(c.Extra) == 0
}

// MissingParameterError renders a Comparison's missing side as a multi-line
// report, one block per group.
type MissingParameterError struct {
	Missing map[string][]string
}

func (e *MissingParameterError) Error() string {
	groups := make([]string, 0, len(e.Missing))
	for name := range e.Missing {
		groups = append(groups, name)
	}
	sort.Strings(groups)

	var b strings.Builder
	b.WriteString("the following parameter groups and sub parameters are missing from the input parameters:")
	for _, group := range groups {
		fmt.Fprintf(&b, "\n%s", group)
		for _, param := range e.Missing[group] {
			fmt.Fprintf(&b, "\n\t`%s` parameter", param)
		}
	}
	return b.String()
}

// CompareWithSchema checks a provided layout (group name to parameter names)
// against the model without loading any tables. Known-extra parameters are
// not flagged missing: they have documented defaults. With flagMissing set,
// any missing entry is returned as a *MissingParameterError.
func CompareWithSchema(model *config.Model, provided map[string][]string, flagMissing bool) (Comparison, error) {
	comparison := Comparison{
		Missing: make(map[string][]string),
		Extra:   make(map[string][]string),
	}

	for name, params := range provided {
		group, ok := model.Groups[name]
		if !ok {
			comparison.Extra[name] = nil
			continue
		}
		reconciliation := config.Reconcile(group.Required, params)
		for _, missing := range reconciliation.Missing {
			if _, known := model.Extras[missing]; known {
				continue
			}
			comparison.Missing[name] = append(comparison.Missing[name], missing)
		}
		if len(reconciliation.Extra) > 0 {
			comparison.Extra[name] = reconciliation.Extra
		}
	}

	for name, group := range model.Groups {
		if _, ok := provided[name]; !ok {
			comparison.Missing[name] = append([]string(nil), group.Required...)
		}
	}

	if flagMissing && len(comparison.Missing) > 0 {
		return comparison, &MissingParameterError{Missing: comparison.Missing}
	}
	return comparison, nil
}
