package indexpack

import (
	"cmp"
	"sort"

	"github.com/forestrie/verifiable-ledger/cid"
	"github.com/forestrie/verifiable-ledger/xerrors"
)

// Pack is a built, immutable Index Pack: a closed set of leaves and the
// Merkle tree over them. Once built, leaves and levels are never mutated;
// concurrent queries share read-only references.
type Pack struct {
	Dim    uint16
	Leaves []Leaf
	Levels [][]cid.CID // Levels[0] is the leaf level, Levels[len-1] has a single element: the root.
	Root   cid.CID
}

// CID returns the pack's content identifier: the Merkle root.
func (p *Pack) CID() cid.CID { return p.Root }

// ProofStep is one hop of an inclusion path: the sibling digest and whether
// it sits to the right of the running hash.
type ProofStep struct {
	Sibling        cid.CID
	SiblingIsRight bool
}

// path returns the inclusion proof for leaf index i, walking the tree
// bottom-up. An odd node at some level has no real sibling; it is
// duplicated, which this reproduces as a step whose Sibling equals the
// node's own running hash.
func (p *Pack) path(i int) []ProofStep {
	if len(p.Levels) == 0 {
		return nil
	}
	steps := make([]ProofStep, 0, len(p.Levels)-1)
	idx := i
	for level := 0; level < len(p.Levels)-1; level++ {
		nodes := p.Levels[level]
		var sibling cid.CID
		isRight := idx%2 == 0
		if isRight {
			if idx+1 < len(nodes) {
				sibling = nodes[idx+1]
			} else {
				sibling = nodes[idx] // self-duplication
			}
		} else {
			sibling = nodes[idx-1]
		}
		// SiblingIsRight describes the sibling's position relative to the
		// running hash: if idx is even, the running hash is the left child.
		steps = append(steps, ProofStep{Sibling: sibling, SiblingIsRight: isRight})
		idx /= 2
	}
	return steps
}

// VerifyPath recomputes the root from leaf by replaying path. It does not
// consult a Pack; it is the shared core the offline evidence verifier and
// Pack.Query callers both use.
func VerifyPath(leaf cid.CID, path []ProofStep, root cid.CID) bool {
	cur := leaf
	for _, step := range path {
		if step.SiblingIsRight {
			cur = nodeHash(cur, step.Sibling)
		} else {
			cur = nodeHash(step.Sibling, cur)
		}
	}
	return cur == root
}

// QueryRequest carries an ephemeral score hint per leaf index: Scores[i]
// is the score for Leaves[i]. The pack does no scoring of its
// own; scoring is computed by the caller (e.g. a vector similarity layer
// outside this package's scope) and handed in for ranking only.
type QueryRequest struct {
	Dim    uint16
	Scores []float64
}

// QueryResult is one ranked hit: the leaf identity plus its inclusion path
// against the pack's current root.
type QueryResult struct {
	ID    string
	Score float64
	Leaf  cid.CID
	Path  []ProofStep
}

// Query returns up to k results sorted by score descending, ties broken by
// insertion order (a stable comparison), each carrying a Merkle inclusion
// proof against the pack's root. An empty pack always returns zero
// results.
func (p *Pack) Query(req QueryRequest, k int) ([]QueryResult, error) {
	if req.Dim != p.Dim {
		return nil, xerrors.ErrDimMismatch
	}
	if len(req.Scores) != len(p.Leaves) {
		return nil, xerrors.ErrDimMismatch
	}
	if len(p.Leaves) == 0 || k <= 0 {
		return nil, nil
	}
	order := make([]int, len(p.Leaves))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return cmp.Compare(req.Scores[order[a]], req.Scores[order[b]]) > 0
	})
	if k > len(order) {
		k = len(order)
	}
	out := make([]QueryResult, k)
	for n, i := range order[:k] {
		out[n] = QueryResult{
			ID:    p.Leaves[i].ID,
			Score: req.Scores[i],
			Leaf:  p.Leaves[i].Hash,
			Path:  p.path(i),
		}
	}
	return out, nil
}
