// Package canon implements deterministic byte encoding: a structured
// value always reduces to the same canonical byte string, independent of
// map iteration order, string normalization form, or numeric
// representation. This is the precondition for content-addressing
// (package cid) and signing (package seal) to be meaningful.
package canon

import (
	"math/big"
	"sort"

	"github.com/forestrie/verifiable-ledger/xerrors"
)

// Kind discriminates the variants of a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindString
	KindInt
	KindDecimal
	KindBytes
	KindArray
	KindMap
)

// Decimal is a fixed-scale fractional value: value * 10^-scale. It exists
// because the canonical form bans IEEE-754 floats outright.
type Decimal struct {
	Scale uint32
	// Digits is the exact decimal magnitude, no sign, no leading zeros
	// (except the single digit "0"). Sign is carried by Negative.
	Digits   string
	Negative bool
}

// Value is a tagged union over every shape the canonicalizer accepts:
// null, bool, string, arbitrary-precision integer, fixed-scale decimal,
// a raw byte string, an order-preserving array, or a string-keyed map.
type Value struct {
	kind  Kind
	b     bool
	s     string
	i     *big.Int
	dec   Decimal
	bytes []byte
	arr   []Value
	m     map[string]Value
}

func Null() Value                 { return Value{kind: KindNull} }
func Bool(b bool) Value           { return Value{kind: KindBool, b: b} }
func String(s string) Value       { return Value{kind: KindString, s: s} }
func Bytes(b []byte) Value        { return Value{kind: KindBytes, bytes: append([]byte(nil), b...)} }
func Array(vs ...Value) Value     { return Value{kind: KindArray, arr: vs} }

// Int wraps an arbitrary-precision integer. Canonical encoding is exact
// decimal digits with no leading zero and an optional leading '-'.
func Int(i *big.Int) Value { return Value{kind: KindInt, i: new(big.Int).Set(i)} }

// IntFromInt64 is a convenience constructor for the common case.
func IntFromInt64(v int64) Value { return Int(big.NewInt(v)) }

// DecimalValue wraps a Decimal.
func DecimalValue(d Decimal) Value { return Value{kind: KindDecimal, dec: d} }

// Map builds a Value from a Go map. Key uniqueness is guaranteed by Go's
// map semantics; sorting happens at Canonize time.
func Map(m map[string]Value) Value {
	cp := make(map[string]Value, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return Value{kind: KindMap, m: cp}
}

// MapEntry is a key/value pair used by NewMap, which additionally rejects
// duplicate keys — the path external parsers (e.g. YAML, which permits
// duplicate mapping keys) must go through.
type MapEntry struct {
	Key   string
	Value Value
}

// NewMap builds a Value from entries, failing with ErrNonCanonicalizable if
// any key repeats.
func NewMap(entries ...MapEntry) (Value, error) {
	m := make(map[string]Value, len(entries))
	for _, e := range entries {
		if _, dup := m[e.Key]; dup {
			return Value{}, xerrors.ErrNonCanonicalizable
		}
		m[e.Key] = e.Value
	}
	return Map(m), nil
}

func (v Value) Kind() Kind { return v.kind }

// sortedKeys returns the map's keys in byte-lexicographic order, matching
// Go's native string comparison (a byte-wise comparison of UTF-8 content).
func (v Value) sortedKeys() []string {
	keys := make([]string, 0, len(v.m))
	for k := range v.m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
