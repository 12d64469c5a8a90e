package value

import (
	"encoding/json"
	"math/big"

	"github.com/zclconf/go-cty/cty"
)

// FromCty converts a schema default expressed as a cty value into a node
// tagged with the parameter's documented unit. The string "None" maps to a
// null node, mirroring the cell-level numeric path.
func FromCty(v cty.Value, unit string) Node {
	if v.IsNull() {
		return Null(unit)
	}
	switch v.Type() {
	case cty.Bool:
		return Boolean(v.True())
	case cty.Number:
		return Scalar(numberFromBigFloat(v.AsBigFloat()), unit)
	case cty.String:
		s := v.AsString()
		if s == "None" {
			return Null(unit)
		}
		return RawString(s)
	default:
		// Schema defaults are scalars; anything else degrades to null so a
		// bad manifest cannot poison the artifact.
		return Null(unit)
	}
}

func numberFromBigFloat(bf *big.Float) json.Number {
	if i, acc := bf.Int64(); acc == big.Exact {
		return json.Number(new(big.Int).SetInt64(i).String())
	}
	return json.Number(bf.Text('g', -1))
}
