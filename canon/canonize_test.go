package canon

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forestrie/verifiable-ledger/limits"
)

func TestCanonizeScalars(t *testing.T) {
	lim := limits.Default()
	cases := []struct {
		name string
		v    Value
		want string
	}{
		{"null", Null(), "null"},
		{"true", Bool(true), "true"},
		{"false", Bool(false), "false"},
		{"string", String("hello"), `"hello"`},
		{"negative int", IntFromInt64(-42), "-42"},
		{"big int", Int(new(big.Int).SetInt64(0)), "0"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := Canonize(c.v, lim)
			require.NoError(t, err)
			assert.Equal(t, c.want, string(got))
		})
	}
}

func TestCanonizeMapSortsKeys(t *testing.T) {
	lim := limits.Default()
	v, err := NewMap(
		MapEntry{Key: "zebra", Value: IntFromInt64(1)},
		MapEntry{Key: "alpha", Value: IntFromInt64(2)},
	)
	require.NoError(t, err)
	got, err := Canonize(v, lim)
	require.NoError(t, err)
	assert.Equal(t, `{"alpha":2,"zebra":1}`, string(got))
}

func TestCanonizeMapOrderIndependent(t *testing.T) {
	lim := limits.Default()
	a, err := NewMap(MapEntry{Key: "a", Value: IntFromInt64(1)}, MapEntry{Key: "b", Value: IntFromInt64(2)})
	require.NoError(t, err)
	b, err := NewMap(MapEntry{Key: "b", Value: IntFromInt64(2)}, MapEntry{Key: "a", Value: IntFromInt64(1)})
	require.NoError(t, err)
	ba, err := Canonize(a, lim)
	require.NoError(t, err)
	bb, err := Canonize(b, lim)
	require.NoError(t, err)
	assert.Equal(t, ba, bb)
}

func TestNewMapRejectsDuplicateKeys(t *testing.T) {
	_, err := NewMap(
		MapEntry{Key: "dup", Value: IntFromInt64(1)},
		MapEntry{Key: "dup", Value: IntFromInt64(2)},
	)
	require.Error(t, err)
}

func TestCanonizeStringNFCNormalizes(t *testing.T) {
	lim := limits.Default()
	// "e" + combining acute accent (NFD) must canonicalize the same as the
	// single precomposed "é" (NFC).
	nfd := String("é")
	nfc := String("é")
	gotNFD, err := Canonize(nfd, lim)
	require.NoError(t, err)
	gotNFC, err := Canonize(nfc, lim)
	require.NoError(t, err)
	assert.Equal(t, gotNFC, gotNFD)
}

func TestCanonizeDecimalAndBytesAreTaggedMaps(t *testing.T) {
	lim := limits.Default()
	dec := DecimalValue(Decimal{Scale: 2, Digits: "1050", Negative: false})
	got, err := Canonize(dec, lim)
	require.NoError(t, err)
	assert.Equal(t, `{"$decimal":{"scale":2,"value":"1050"}}`, string(got))

	raw := Bytes([]byte{0xde, 0xad, 0xbe, 0xef})
	got, err = Canonize(raw, lim)
	require.NoError(t, err)
	assert.Equal(t, `{"$bytes":"deadbeef"}`, string(got))
}

func TestCanonizeRejectsNonUTF8(t *testing.T) {
	_, err := Canonize(String(string([]byte{0xff, 0xfe})), limits.Default())
	require.Error(t, err)
}

func TestCanonizeRejectsExcessiveDepth(t *testing.T) {
	lim := limits.Limits{CanonMaxDepth: 2, CanonMaxBytes: limits.DefaultCanonMaxBytes}
	nested := Array(Array(Array(IntFromInt64(1))))
	_, err := Canonize(nested, lim)
	require.Error(t, err)
}

func TestIsCanonicalRoundTrips(t *testing.T) {
	lim := limits.Default()
	v, err := NewMap(MapEntry{Key: "a", Value: Array(IntFromInt64(1), IntFromInt64(2))})
	require.NoError(t, err)
	b, err := Canonize(v, lim)
	require.NoError(t, err)
	assert.True(t, IsCanonical(b, lim))
}

func TestIsCanonicalRejectsUnsortedKeys(t *testing.T) {
	lim := limits.Default()
	assert.False(t, IsCanonical([]byte(`{"zebra":1,"alpha":2}`), lim))
}

func TestIsCanonicalRejectsWhitespace(t *testing.T) {
	lim := limits.Default()
	assert.False(t, IsCanonical([]byte(`{ "a": 1 }`), lim))
}

func TestFromAnyRejectsFloats(t *testing.T) {
	_, err := FromAny(3.14)
	require.Error(t, err)
}

func TestYAMLToCanonicalRejectsDuplicateKeys(t *testing.T) {
	_, err := YAMLToCanonical("a: 1\na: 2\n", limits.Default())
	require.Error(t, err)
}

func TestYAMLToCanonicalMatchesEquivalentJSON(t *testing.T) {
	lim := limits.Default()
	fromYAML, err := YAMLToCanonical("who: alice\nwhen: 7\n", lim)
	require.NoError(t, err)
	v, err := NewMap(
		MapEntry{Key: "who", Value: String("alice")},
		MapEntry{Key: "when", Value: IntFromInt64(7)},
	)
	require.NoError(t, err)
	fromValue, err := Canonize(v, lim)
	require.NoError(t, err)
	assert.Equal(t, fromValue, fromYAML)
}
