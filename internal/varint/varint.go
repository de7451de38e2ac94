// Package varint implements a bounded LEB128-style unsigned varint codec
// shared by the ledger's write-ahead log framing. Bounding the encoded
// width means a hostile or corrupt stream cannot force an unbounded read
// while hunting for a terminating byte.
package varint

import "github.com/forestrie/verifiable-ledger/xerrors"

// MaxBytes is the widest an encoded varint may be before decoding aborts
// with ErrVarintOverflow, regardless of whether the continuation bit is
// still set.
const MaxBytes = 10

// Append encodes v and appends it to dst, returning the extended slice.
func Append(dst []byte, v uint64) []byte {
	for v >= 0x80 {
		dst = append(dst, byte(v)|0x80)
		v >>= 7
	}
	return append(dst, byte(v))
}

// Decode reads a varint from the front of b, returning the value and the
// number of bytes consumed. It fails with ErrVarintOverflow if more than
// MaxBytes bytes are required, and with ErrTruncatedFrame if b runs out
// before a terminating byte is seen.
func Decode(b []byte) (uint64, int, error) {
	var v uint64
	for i := 0; i < MaxBytes; i++ {
		if i >= len(b) {
			return 0, 0, xerrors.ErrTruncatedFrame
		}
		c := b[i]
		v |= uint64(c&0x7f) << (7 * uint(i))
		if c&0x80 == 0 {
			return v, i + 1, nil
		}
	}
	return 0, 0, xerrors.ErrVarintOverflow
}
