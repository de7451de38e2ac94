package canon

import (
	"math/big"

	"github.com/forestrie/verifiable-ledger/xerrors"
)

// FromAny converts a generic Go value — as produced by encoding/json or
// gopkg.in/yaml.v3 unmarshaling into interface{} — into a Value. This is
// the boundary where the float ban actually bites: encoding/json hands
// back float64 for any bare number (yaml.v3 for any non-integer one), and
// FromAny refuses it rather than silently truncating precision.
func FromAny(in any) (Value, error) {
	switch x := in.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(x), nil
	case string:
		return String(x), nil
	case []byte:
		return Bytes(x), nil
	case int:
		return IntFromInt64(int64(x)), nil
	case int64:
		return IntFromInt64(x), nil
	case uint64:
		return Int(new(big.Int).SetUint64(x)), nil
	case *big.Int:
		return Int(x), nil
	case float32, float64:
		return Value{}, xerrors.ErrNonCanonicalizable
	case []any:
		arr := make([]Value, len(x))
		for i, e := range x {
			v, err := FromAny(e)
			if err != nil {
				return Value{}, err
			}
			arr[i] = v
		}
		return Array(arr...), nil
	case map[string]any:
		m := make(map[string]Value, len(x))
		for k, e := range x {
			v, err := FromAny(e)
			if err != nil {
				return Value{}, err
			}
			m[k] = v
		}
		return Map(m), nil
	default:
		return Value{}, xerrors.ErrNonCanonicalizable
	}
}
