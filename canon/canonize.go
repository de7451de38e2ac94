package canon

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/forestrie/verifiable-ledger/limits"
	"github.com/forestrie/verifiable-ledger/xerrors"
)

// decimalKey and bytesKey tag the two variants (Decimal, Bytes) that do not
// have a native JSON literal: they are carried as single-key objects with a
// reserved key, so the canonical output stays valid
// application/vnd.canon+json while remaining unambiguous against ordinary
// user maps (a user map can still use these keys; it would simply produce
// the same canonical bytes as the tagged variant it imitates, which is
// correct — the invariant is same-semantics-same-bytes, not collision
// avoidance against adversarial input).
const (
	decimalKey = "$decimal"
	bytesKey   = "$bytes"
)

// Canonize reduces v to its canonical byte form. Depth and total size are
// bounded by lim; pass limits.Default() for the published defaults.
func Canonize(v Value, lim limits.Limits) ([]byte, error) {
	var buf []byte
	buf, err := appendValue(buf, v, 0, lim)
	if err != nil {
		return nil, err
	}
	if len(buf) > lim.CanonMaxBytes {
		return nil, xerrors.ErrNonCanonicalizable
	}
	return buf, nil
}

func appendValue(buf []byte, v Value, depth int, lim limits.Limits) ([]byte, error) {
	if depth > lim.CanonMaxDepth {
		return nil, xerrors.ErrNonCanonicalizable
	}
	switch v.kind {
	case KindNull:
		return append(buf, "null"...), nil
	case KindBool:
		if v.b {
			return append(buf, "true"...), nil
		}
		return append(buf, "false"...), nil
	case KindString:
		return appendString(buf, v.s)
	case KindInt:
		return appendInt(buf, v), nil
	case KindDecimal:
		return appendDecimal(buf, v.dec, depth, lim)
	case KindBytes:
		return appendBytesTagged(buf, v.bytes, depth, lim)
	case KindArray:
		return appendArray(buf, v.arr, depth, lim)
	case KindMap:
		return appendMap(buf, v, depth, lim)
	default:
		return nil, xerrors.ErrNonCanonicalizable
	}
}

func appendInt(buf []byte, v Value) []byte {
	return append(buf, v.i.String()...)
}

func appendDecimal(buf []byte, d Decimal, depth int, lim limits.Limits) ([]byte, error) {
	digits := d.Digits
	if digits == "" {
		digits = "0"
	}
	if len(digits) > 1 && digits[0] == '0' {
		return nil, xerrors.ErrNonCanonicalizable
	}
	for _, c := range digits {
		if c < '0' || c > '9' {
			return nil, xerrors.ErrNonCanonicalizable
		}
	}
	entries, err := NewMap(
		MapEntry{Key: "scale", Value: IntFromInt64(int64(d.Scale))},
		MapEntry{Key: "value", Value: String(signedDigits(digits, d.Negative))},
	)
	if err != nil {
		return nil, err
	}
	wrapped, err := NewMap(MapEntry{Key: decimalKey, Value: entries})
	if err != nil {
		return nil, err
	}
	return appendValue(buf, wrapped, depth+1, lim)
}

func signedDigits(digits string, negative bool) string {
	if negative && digits != "0" {
		return "-" + digits
	}
	return digits
}

func appendBytesTagged(buf, raw []byte, depth int, lim limits.Limits) ([]byte, error) {
	wrapped, err := NewMap(MapEntry{Key: bytesKey, Value: String(hexLower(raw))})
	if err != nil {
		return nil, err
	}
	return appendValue(buf, wrapped, depth+1, lim)
}

func hexLower(b []byte) string {
	const hexdigits = "0123456789abcdef"
	out := make([]byte, len(b)*2)
	for i, c := range b {
		out[i*2] = hexdigits[c>>4]
		out[i*2+1] = hexdigits[c&0x0f]
	}
	return string(out)
}

func appendArray(buf []byte, arr []Value, depth int, lim limits.Limits) ([]byte, error) {
	buf = append(buf, '[')
	var err error
	for i, e := range arr {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf, err = appendValue(buf, e, depth+1, lim)
		if err != nil {
			return nil, err
		}
	}
	return append(buf, ']'), nil
}

func appendMap(buf []byte, v Value, depth int, lim limits.Limits) ([]byte, error) {
	keys := v.sortedKeys()
	buf = append(buf, '{')
	var err error
	for i, k := range keys {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf, err = appendString(buf, k)
		if err != nil {
			return nil, err
		}
		buf = append(buf, ':')
		buf, err = appendValue(buf, v.m[k], depth+1, lim)
		if err != nil {
			return nil, err
		}
	}
	return append(buf, '}'), nil
}

// appendString validates UTF-8, normalizes to NFC, and writes a minimally
// escaped JSON string literal.
func appendString(buf []byte, s string) ([]byte, error) {
	if !utf8.ValidString(s) {
		return nil, xerrors.ErrNonCanonicalizable
	}
	normalized := norm.NFC.String(s)
	var b strings.Builder
	b.Grow(len(normalized) + 2)
	b.WriteByte('"')
	for _, r := range normalized {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 {
				b.WriteString(`\u`)
				const hexdigits = "0123456789abcdef"
				b.WriteByte(hexdigits[(r>>12)&0xf])
				b.WriteByte(hexdigits[(r>>8)&0xf])
				b.WriteByte(hexdigits[(r>>4)&0xf])
				b.WriteByte(hexdigits[r&0xf])
			} else {
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte('"')
	return append(buf, b.String()...), nil
}
