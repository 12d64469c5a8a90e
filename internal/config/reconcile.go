package config

import "sort"

// Reconciliation is the symmetric difference of a required parameter set and
// the set a table actually provides. Both slices are sorted.
type Reconciliation struct {
	// Missing lists required names absent from the provided set.
	Missing []string
	// Extra lists provided names the schema does not recognize.
	Extra []string
}

// Clean reports whether provided and required matched exactly.
func (r Reconciliation) Clean() bool {
	return len(r.Missing) == 0 && len(r.Extra) == 0
}

// Reconcile compares a set of provided parameter names against a required
// set. Neither input is mutated; duplicates in either input count once.
func Reconcile(required, provided []string) Reconciliation {
	requiredSet := toSet(required)
	providedSet := toSet(provided)

	var result Reconciliation
	for name := range requiredSet {
		if _, ok := providedSet[name]; !ok {
			result.Missing = append(result.Missing, name)
		}
	}
	for name := range providedSet {
		if _, ok := requiredSet[name]; !ok {
			result.Extra = append(result.Extra, name)
		}
	}
	sort.Strings(result.Missing)
	sort.Strings(result.Extra)
	return result
}

func toSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set
}
