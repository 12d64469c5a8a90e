package value

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zclconf/go-cty/cty"
)

func marshal(t *testing.T, n Node) string {
	t.Helper()
	data, err := json.Marshal(n)
	require.NoError(t, err)
	return string(data)
}

func TestMarshal_Scalar(t *testing.T) {
	t.Parallel()
	assert.JSONEq(t, `{"unit":"kW","value":12.5}`, marshal(t, Scalar("12.5", "kW")))
	assert.JSONEq(t, `{"unit":"year","value":30}`, marshal(t, Scalar("30", "year")))
}

func TestMarshal_Null(t *testing.T) {
	t.Parallel()
	assert.JSONEq(t, `{"unit":"kWp","value":null}`, marshal(t, Null("kWp")))
}

func TestMarshal_Booleans(t *testing.T) {
	t.Parallel()
	assert.JSONEq(t, `{"unit":"bool","value":true}`, marshal(t, Boolean(true)))
	// An unresolved literal is preserved, not defaulted.
	assert.JSONEq(t, `{"unit":"bool","value":"maybe"}`, marshal(t, UnresolvedBoolean("maybe")))
}

func TestMarshal_String(t *testing.T) {
	t.Parallel()
	assert.JSONEq(t, `"Battery"`, marshal(t, RawString("Battery")))
}

func TestMarshal_ListSharesTheUnit(t *testing.T) {
	t.Parallel()
	node := List([]Node{Scalar("1", "factor"), Scalar("2", "factor")}, "factor")
	assert.JSONEq(t, `{"unit":"factor","value":[1,2]}`, marshal(t, node))
}

func TestMarshal_TimeseriesRef(t *testing.T) {
	t.Parallel()
	node := Reference(TimeseriesRef{File: "x.csv", Header: "h", Unit: "kW"})
	assert.JSONEq(t, `{"file_name":"x.csv","header":"h","unit":"kW"}`, marshal(t, node))
}

func TestMarshal_RecordNests(t *testing.T) {
	t.Parallel()
	node := Record(map[string]Node{
		"soc_min": Null("factor"),
		"c_rate":  Scalar("1", "factor"),
	})
	assert.JSONEq(t, `{"soc_min":{"unit":"factor","value":null},"c_rate":{"unit":"factor","value":1}}`, marshal(t, node))
}

func TestFromCty(t *testing.T) {
	t.Parallel()

	assert.True(t, FromCty(cty.StringVal("None"), "kWp").IsNull())
	assert.Equal(t, "kWp", FromCty(cty.StringVal("None"), "kWp").Unit)

	n := FromCty(cty.NumberIntVal(42), "kW")
	require.Equal(t, KindScalar, n.Kind)
	assert.Equal(t, "42", n.Number.String())

	b := FromCty(cty.True, "bool")
	require.Equal(t, KindBool, b.Kind)
	assert.True(t, b.Bool)

	s := FromCty(cty.StringVal("hourly"), "str")
	require.Equal(t, KindString, s.Kind)
	assert.Equal(t, "hourly", s.Str)

	assert.True(t, FromCty(cty.NullVal(cty.String), "kW").IsNull())
}
