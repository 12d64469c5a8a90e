package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

// writeStandardInputs lays out a minimal but complete set of group tables
// matching the built-in schema manifest.
func writeStandardInputs(t *testing.T, dir string) {
	t.Helper()

	tables := map[string]string{
		"economic_data": ",unit,economic_data\n" +
			"currency,str,EUR\n" +
			"discount_factor,factor,0.06\n" +
			"label,str,economic data\n" +
			"project_duration,year,30\n" +
			"tax,factor,0\n" +
			"unit,str,EUR\n",
		"project_data": ",unit,project_data\n" +
			"country,str,Norway\n" +
			"label,str,project data\n" +
			"latitude,str,58.9\n" +
			"longitude,str,5.7\n" +
			"project_id,str,1\n" +
			"project_name,str,Test project\n" +
			"scenario_id,str,1\n" +
			"scenario_name,str,Base case\n" +
			"unit,str,str\n",
		"simulation_settings": ",unit,simulation_settings\n" +
			"evaluated_period,days,365\n" +
			"label,str,simulation settings\n" +
			"output_lp_file,bool,False\n" +
			"restore_from_oemof_file,bool,False\n" +
			"start_date,str,2020-01-01 00:00:00\n" +
			"store_oemof_results,bool,True\n" +
			"timestep,minutes,60\n" +
			"unit,str,str\n",
		"fixcost": ",unit,distribution_grid\n" +
			"age_installed,year,10\n" +
			"capex_fix,currency,10000\n" +
			"capex_var,currency,0\n" +
			"label,str,Distribution grid\n" +
			"lifetime,year,30\n" +
			"opex_fix,currency/year,1000\n" +
			"opex_var,currency/unit/year,0\n" +
			"unit,str,str\n",
		"energyConsumption": ",unit,demand_01\n" +
			"dsm,bool,False\n" +
			"energyVector,str,Electricity\n" +
			"file_name,str,demand.csv\n" +
			"inflow_direction,str,Electricity\n" +
			"label,str,Households\n" +
			"type_asset,str,demand\n" +
			"type_oemof,str,sink\n" +
			"unit,str,kW\n",
		"energyConversion": ",unit,transformer_01\n" +
			"age_installed,year,0\n" +
			"capex_fix,currency,0\n" +
			"capex_var,currency/kW,500\n" +
			"efficiency,factor,0.95\n" +
			"energyVector,str,Electricity\n" +
			"inflow_direction,str,Electricity (DSO)\n" +
			"installedCap,kW,0\n" +
			"label,str,Transformer station\n" +
			"lifetime,year,30\n" +
			"opex_fix,currency/kW/year,0\n" +
			"opex_var,currency/kWh,0\n" +
			"optimizeCap,bool,True\n" +
			"outflow_direction,str,Electricity\n" +
			"type_oemof,str,transformer\n" +
			"unit,str,kW\n" +
			"maximumCap,kWp,None\n",
		"energyProduction": ",unit,pv_plant_01\n" +
			"age_installed,year,0\n" +
			"capex_fix,currency,10000\n" +
			"capex_var,currency/kWp,900\n" +
			"energyVector,str,Electricity\n" +
			"file_name,str,pv_generation.csv\n" +
			"installedCap,kWp,50\n" +
			"label,str,PV plant\n" +
			"lifetime,year,25\n" +
			"opex_fix,currency/kWp/year,10\n" +
			"opex_var,currency/kWh,0\n" +
			"optimizeCap,bool,True\n" +
			"outflow_direction,str,Electricity\n" +
			"type_oemof,str,source\n" +
			"unit,str,kWp\n" +
			"maximumCap,kWp,1000\n",
		"energyProviders": ",unit,dso_01\n" +
			"energyVector,str,Electricity\n" +
			"energy_price,currency/kWh,0.3\n" +
			"feedin_tariff,currency/kWh,0.05\n" +
			"inflow_direction,str,Electricity (DSO)\n" +
			"label,str,DSO\n" +
			"optimizeCap,bool,False\n" +
			"outflow_direction,str,Electricity (DSO)\n" +
			"peak_demand_pricing,currency/kW,60\n" +
			"peak_demand_pricing_period,times per year,1\n" +
			"type_oemof,str,source\n" +
			"unit,str,kW\n",
		"energyStorage": ",unit,storage_01\n" +
			"energyVector,str,Electricity\n" +
			"inflow_direction,str,Electricity\n" +
			"label,str,Battery\n" +
			"optimizeCap,bool,True\n" +
			"outflow_direction,str,Electricity\n" +
			"storage_filename,str,storage_01.csv\n" +
			"type_oemof,str,storage\n" +
			"unit,str,kWh\n" +
			"maximumCap,kWp,None\n",
		"storage_01": ",unit,storage capacity,input power,output power\n" +
			"age_installed,year,0,0,0\n" +
			"capex_fix,currency,0,0,0\n" +
			"capex_var,currency/kWh,400,0,0\n" +
			"efficiency,factor,1,0.95,0.95\n" +
			"installedCap,kWh,0,0,0\n" +
			"label,str,Capacity,Input power,Output power\n" +
			"lifetime,year,10,10,10\n" +
			"opex_fix,currency/kWh/year,0,0,0\n" +
			"unit,str,kWh,kW,kW\n" +
			"soc_initial,None,None,,\n" +
			"soc_max,factor,1,,\n" +
			"soc_min,factor,0.2,,\n" +
			"c_rate,factor,,1,1\n" +
			"opex_var,currency/kWh,,0,0\n" +
			"maximumCap,kWp,None,None,None\n",
	}
	for name, content := range tables {
		err := os.WriteFile(filepath.Join(dir, name+".csv"), []byte(content), 0o600)
		require.NoError(t, err)
	}
}

func TestAppRun_CompilesStandardInputs(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeStandardInputs(t, dir)

	appConfig, err := NewConfig(Config{InputDir: dir})
	require.NoError(t, err)

	testApp, logBuffer := SetupAppTest(t, appConfig)
	require.NoError(t, testApp.Run(context.Background()))

	data, err := os.ReadFile(filepath.Join(dir, ArtifactName))
	require.NoError(t, err)
	artifact := string(data)
	require.True(t, gjson.Valid(artifact))

	// Singleton groups are inlined at the top level.
	assert.Equal(t, "EUR", gjson.Get(artifact, "economic_data.currency").String())
	assert.False(t, gjson.Get(artifact, "project_data.project_data").Exists())

	// A regular group wraps its assets by column name.
	assert.Equal(t, "PV plant",
		gjson.Get(artifact, "energyProduction.pv_plant_01.label").String())
	assert.Equal(t, float64(1000),
		gjson.Get(artifact, "energyProduction.pv_plant_01.maximumCap.value").Float())

	// The storage asset carries the merged role records of its sub-table.
	assert.Equal(t, float64(0.2),
		gjson.Get(artifact, `energyStorage.storage_01.storage capacity.soc_min.value`).Float())
	assert.Equal(t, float64(1),
		gjson.Get(artifact, `energyStorage.storage_01.input power.c_rate.value`).Float())
	assert.Equal(t, "Battery",
		gjson.Get(artifact, "energyStorage.storage_01.label").String())

	// Booleans resolve to JSON booleans.
	assert.True(t, gjson.Get(artifact, "simulation_settings.store_oemof_results.value").Bool())

	assert.Contains(t, logBuffer.String(), "Config artifact created from input tables.")
}

func TestAppRun_ResolvesProjectLayout(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	inputs := filepath.Join(root, InputsMarker)
	require.NoError(t, os.Mkdir(inputs, 0o755))
	writeStandardInputs(t, inputs)

	appConfig, err := NewConfig(Config{InputDir: root})
	require.NoError(t, err)

	testApp, _ := SetupAppTest(t, appConfig)
	require.NoError(t, testApp.Run(context.Background()))

	// The artifact lands next to the tables, not at the project root.
	_, err = os.Stat(filepath.Join(inputs, ArtifactName))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(root, ArtifactName))
	assert.True(t, os.IsNotExist(err))
}

func TestAppRun_AmbiguousProjectLayoutFails(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	for _, project := range []string{"site_a", "site_b"} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, project, InputsMarker), 0o755))
	}

	appConfig, err := NewConfig(Config{InputDir: root})
	require.NoError(t, err)

	testApp, _ := SetupAppTest(t, appConfig)
	err = testApp.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), InputsMarker)
}

func TestAppRun_SecondRunRefusesExistingArtifact(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeStandardInputs(t, dir)

	appConfig, err := NewConfig(Config{InputDir: dir})
	require.NoError(t, err)

	testApp, _ := SetupAppTest(t, appConfig)
	require.NoError(t, testApp.Run(context.Background()))

	err = testApp.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestAppRun_MissingInputDirFails(t *testing.T) {
	t.Parallel()

	appConfig, err := NewConfig(Config{InputDir: filepath.Join(t.TempDir(), "absent")})
	require.NoError(t, err)

	testApp, _ := SetupAppTest(t, appConfig)
	require.Error(t, testApp.Run(context.Background()))
}

func TestNewConfig_Validation(t *testing.T) {
	t.Parallel()

	_, err := NewConfig(Config{})
	require.Error(t, err)

	cfg, err := NewConfig(Config{InputDir: "/a"})
	require.NoError(t, err)
	assert.Equal(t, ArtifactName, cfg.Artifact)
}
