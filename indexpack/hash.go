// Package indexpack implements the Index Pack and its pure offline
// evidence verifier: a Merkle tree over capsule leaves whose inclusion
// proofs any party can recompute without the pack itself. It is a plain
// binary Merkle tree rather than an MMR accumulator-of-peaks, keeping the
// same domain-separated, position-free node hashing style but dropping
// multi-peak bookkeeping in favor of a single root.
package indexpack

import "github.com/forestrie/verifiable-ledger/cid"

// domain-separation prefixes for leaf and internal node hashing.
var (
	leafPrefix  = []byte("leaf")
	nodePrefix  = []byte("node")
	emptyDigest = cid.Of([]byte("empty"))
)

// leafHash computes H("leaf" || id || capsuleCID).
func leafHash(id string, capsuleCID cid.CID) cid.CID {
	buf := make([]byte, 0, len(leafPrefix)+len(id)+cid.Size)
	buf = append(buf, leafPrefix...)
	buf = append(buf, id...)
	buf = append(buf, capsuleCID[:]...)
	return cid.Of(buf)
}

// nodeHash computes H("node" || left || right).
func nodeHash(left, right cid.CID) cid.CID {
	buf := make([]byte, 0, len(nodePrefix)+2*cid.Size)
	buf = append(buf, nodePrefix...)
	buf = append(buf, left[:]...)
	buf = append(buf, right[:]...)
	return cid.Of(buf)
}
