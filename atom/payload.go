// Package atom implements the Action Atom: the nine-field typed record
// representing a verifiable intent, its builder, its invariants, and the
// verb registry.
package atom

import (
	"github.com/forestrie/verifiable-ledger/canon"
	"github.com/forestrie/verifiable-ledger/limits"
	"github.com/forestrie/verifiable-ledger/xerrors"
)

// PayloadKind discriminates the "this" field's tagged variant.
type PayloadKind uint8

const (
	PayloadNone PayloadKind = iota
	PayloadText
	PayloadBytes
	PayloadJSON
)

// Payload is the typed union carried by the atom's "this" field.
type Payload struct {
	Kind PayloadKind
	Text string
	Raw  []byte
	JSON canon.Value
}

func NewTextPayload(s string) Payload  { return Payload{Kind: PayloadText, Text: s} }
func NewBytesPayload(b []byte) Payload { return Payload{Kind: PayloadBytes, Raw: append([]byte(nil), b...)} }
func NewJSONPayload(v canon.Value) Payload { return Payload{Kind: PayloadJSON, JSON: v} }
func NonePayload() Payload             { return Payload{Kind: PayloadNone} }

// toCanonicalValue converts the payload into the Value the Canonicalizer
// accepts. A JSON payload must itself canonicalize.
func (p Payload) toCanonicalValue(lim limits.Limits) (canon.Value, error) {
	switch p.Kind {
	case PayloadNone:
		entries, err := canon.NewMap(canon.MapEntry{Key: "kind", Value: canon.String("none")})
		return entries, err
	case PayloadText:
		return canon.NewMap(
			canon.MapEntry{Key: "kind", Value: canon.String("text")},
			canon.MapEntry{Key: "value", Value: canon.String(p.Text)},
		)
	case PayloadBytes:
		return canon.NewMap(
			canon.MapEntry{Key: "kind", Value: canon.String("bytes")},
			canon.MapEntry{Key: "value", Value: canon.Bytes(p.Raw)},
		)
	case PayloadJSON:
		// Confirm the embedded value is itself canonicalizable before it
		// is allowed to participate in the atom's own canonical form.
		if _, err := canon.Canonize(p.JSON, lim); err != nil {
			return canon.Value{}, err
		}
		return canon.NewMap(
			canon.MapEntry{Key: "kind", Value: canon.String("json")},
			canon.MapEntry{Key: "value", Value: p.JSON},
		)
	default:
		return canon.Value{}, xerrors.ErrNonCanonicalizable
	}
}
