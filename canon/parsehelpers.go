package canon

import (
	"errors"
	"math/big"
	"unicode/utf8"
)

var (
	errUnexpectedEOF  = errors.New("canon: unexpected end of canonical bytes")
	errUnexpectedByte = errors.New("canon: unexpected byte in canonical form")
)

func parseBigInt(digits string) (*big.Int, bool) {
	i, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return nil, false
	}
	// Reject non-canonical forms such as "-0" or leading zeros; String()
	// round-trips to the shortest exact representation, so compare back.
	if i.String() != digits {
		return nil, false
	}
	return i, true
}

func parseHex4(b []byte) (uint16, bool) {
	var v uint16
	for _, c := range b {
		v <<= 4
		switch {
		case c >= '0' && c <= '9':
			v |= uint16(c - '0')
		case c >= 'a' && c <= 'f':
			v |= uint16(c-'a') + 10
		case c >= 'A' && c <= 'F':
			v |= uint16(c-'A') + 10
		default:
			return 0, false
		}
	}
	return v, true
}

func decodeRune(b []byte) (rune, int) {
	r, size := utf8.DecodeRune(b)
	if r == utf8.RuneError && size <= 1 {
		return rune(b[0]), 1
	}
	return r, size
}
