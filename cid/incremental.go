package cid

import "lukechampine.com/blake3"

// Incremental streams chunks into a BLAKE3 hasher for callers that cannot
// hold the entire canonical byte string in memory at once. It produces the
// identical CID that Of would produce over the concatenation of all writes.
type Incremental struct {
	h *blake3.Hasher
}

// NewIncremental returns a ready-to-use incremental hasher.
func NewIncremental() *Incremental {
	return &Incremental{h: blake3.New(Size, nil)}
}

// Write implements io.Writer; it never returns an error.
func (inc *Incremental) Write(p []byte) (int, error) {
	return inc.h.Write(p)
}

// Sum returns the CID of everything written so far without resetting the
// hasher, mirroring hash.Hash.Sum's append semantics restricted to a fixed
// 32-byte digest.
func (inc *Incremental) Sum() CID {
	var c CID
	copy(c[:], inc.h.Sum(nil))
	return c
}
