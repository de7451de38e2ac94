// Package cid implements content addressing: a 32-byte BLAKE3 digest of
// canonical bytes, with no truncation, via lukechampine.com/blake3.
package cid

import (
	"encoding/hex"

	"lukechampine.com/blake3"

	"github.com/forestrie/verifiable-ledger/xerrors"
)

// Size is the fixed width of a CID in bytes.
const Size = 32

// CID is a content identifier: BLAKE3(canonical_bytes).
type CID [Size]byte

// Of hashes data and returns its CID.
func Of(data []byte) CID {
	return CID(blake3.Sum256(data))
}

// Hex renders the CID as lowercase hex.
func (c CID) Hex() string { return hex.EncodeToString(c[:]) }

func (c CID) String() string { return c.Hex() }

// IsZero reports whether c is the zero value (never a real digest, but
// useful as a sentinel for "not yet computed").
func (c CID) IsZero() bool { return c == CID{} }

// ParseHex parses a hex-encoded CID. It accepts lower- or mixed-case input
// but requires exactly Size bytes once decoded, matching the strict
// parsing the offline evidence verifier requires.
func ParseHex(s string) (CID, error) {
	if len(s) != Size*2 {
		return CID{}, xerrors.ErrHexMalformed
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return CID{}, xerrors.ErrHexMalformed
	}
	var c CID
	copy(c[:], b)
	return c, nil
}
