package compile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/gridcfg/internal/config"
)

func compareModel() *config.Model {
	return &config.Model{
		Groups: map[string]*config.GroupSchema{
			"energyProduction": {
				Name:     "energyProduction",
				Required: []string{"capex_fix", "label", "lifetime"},
			},
			"energyConsumption": {
				Name:     "energyConsumption",
				Required: []string{"energy_vector", "label"},
			},
		},
		Extras: map[string]*config.KnownExtra{
			config.MaximumCapParameter: {
				Name:    config.MaximumCapParameter,
				Unit:    "kWp",
				Default: cty.StringVal("None"),
			},
		},
	}
}

func TestCompareWithSchema_ExactLayoutIsEmpty(t *testing.T) {
	t.Parallel()

	provided := map[string][]string{
		"energyProduction":  {"capex_fix", "label", "lifetime"},
		"energyConsumption": {"energy_vector", "label"},
	}

	comparison, err := CompareWithSchema(compareModel(), provided, true)
	require.NoError(t, err)
	assert.True(t, comparison.Empty())
}

func TestCompareWithSchema_ReportsAllThreeMismatchKinds(t *testing.T) {
	t.Parallel()

	provided := map[string][]string{
		"energyProduction": {"capex_fix", "label", "surprise"},
		"heatNetwork":      {"label"},
	}

	comparison, err := CompareWithSchema(compareModel(), provided, false)
	require.NoError(t, err)

	assert.Equal(t, []string{"lifetime"}, comparison.Missing["energyProduction"])
	assert.Equal(t, []string{"surprise"}, comparison.Extra["energyProduction"])
	// An unrecognized group shows up on the extra side with no parameter
	// detail; a group absent as a whole carries its full required set.
	assert.Contains(t, comparison.Extra, "heatNetwork")
	assert.Equal(t, []string{"energy_vector", "label"}, comparison.Missing["energyConsumption"])
}

func TestCompareWithSchema_KnownExtrasAreNeverMissing(t *testing.T) {
	t.Parallel()

	model := compareModel()
	model.Groups["energyProduction"].Required = append(
		model.Groups["energyProduction"].Required, config.MaximumCapParameter)

	provided := map[string][]string{
		"energyProduction":  {"capex_fix", "label", "lifetime"},
		"energyConsumption": {"energy_vector", "label"},
	}

	comparison, err := CompareWithSchema(model, provided, true)
	require.NoError(t, err)
	assert.True(t, comparison.Empty())
}

func TestCompareWithSchema_FlagMissingReturnsReport(t *testing.T) {
	t.Parallel()

	provided := map[string][]string{
		"energyProduction": {"label"},
	}

	_, err := CompareWithSchema(compareModel(), provided, true)

	var missingErr *MissingParameterError
	require.ErrorAs(t, err, &missingErr)
	assert.Contains(t, missingErr.Error(), "energyProduction")
	assert.Contains(t, missingErr.Error(), "`capex_fix` parameter")
	assert.Contains(t, missingErr.Error(), "energyConsumption")
}
