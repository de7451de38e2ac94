package indexpack

import "github.com/forestrie/verifiable-ledger/cid"

// Leaf is one (id, capsule) pair committed into the pack, in insertion
// order.
type Leaf struct {
	ID         string
	CapsuleCID cid.CID
	Hash       cid.CID
}

// Builder accumulates leaves before Build finalizes the tree and its root:
// an incremental-append-then-derive-root shape, but a plain binary tree
// built once over a closed set of leaves rather than grown indefinitely.
type Builder struct {
	dim    uint16
	leaves []Leaf
	byID   map[string]int
}

// NewBuilder starts an Index Pack build for capsules of the given vector
// dimension.
func NewBuilder(dim uint16) *Builder {
	return &Builder{dim: dim, byID: make(map[string]int)}
}

// Add appends a (id, capsule CID) pair. Duplicate ids are permitted but
// discouraged: the first write for an id defines its leaf, and a later
// Add with the same id is a no-op, returning the original index.
func (b *Builder) Add(id string, capsuleCID cid.CID) int {
	if i, ok := b.byID[id]; ok {
		return i
	}
	i := len(b.leaves)
	b.leaves = append(b.leaves, Leaf{ID: id, CapsuleCID: capsuleCID, Hash: leafHash(id, capsuleCID)})
	b.byID[id] = i
	return i
}

// Build finalizes the tree, computing every level bottom-up and the root.
// An empty pack roots at H("empty").
func (b *Builder) Build() *Pack {
	p := &Pack{Dim: b.dim, Leaves: append([]Leaf(nil), b.leaves...)}
	if len(p.Leaves) == 0 {
		p.Root = emptyDigest
		return p
	}
	level := make([]cid.CID, len(p.Leaves))
	for i, l := range p.Leaves {
		level[i] = l.Hash
	}
	p.Levels = [][]cid.CID{level}
	for len(level) > 1 {
		next := make([]cid.CID, 0, (len(level)+1)/2)
		for i := 0; i < len(level); i += 2 {
			if i+1 < len(level) {
				next = append(next, nodeHash(level[i], level[i+1]))
			} else {
				// odd node out: self-duplication.
				next = append(next, nodeHash(level[i], level[i]))
			}
		}
		p.Levels = append(p.Levels, next)
		level = next
	}
	p.Root = level[0]
	return p
}
