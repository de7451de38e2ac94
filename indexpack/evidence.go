package indexpack

import (
	"github.com/forestrie/verifiable-ledger/cid"
	"github.com/forestrie/verifiable-ledger/xerrors"
)

// ProofStepJSON is the wire form of a ProofStep.
type ProofStepJSON struct {
	SiblingHex     string `json:"sibling_hex"`
	SiblingIsRight bool   `json:"sibling_is_right"`
}

// ResultJSON is one ranked hit in the wire evidence format.
type ResultJSON struct {
	ID      string          `json:"id"`
	Score   float64         `json:"score"`
	LeafHex string          `json:"leaf_hex"`
	Path    []ProofStepJSON `json:"path"`
}

// Evidence is the wire form a query result is serialized to so a third
// party can verify it offline, without the pack.
type Evidence struct {
	IndexPackCID string       `json:"index_pack_cid"`
	Dim          uint16       `json:"dim"`
	Results      []ResultJSON `json:"results"`
}

// ToEvidence renders results against this pack's CID and dimension into the
// wire evidence format.
func (p *Pack) ToEvidence(results []QueryResult) Evidence {
	ev := Evidence{IndexPackCID: p.Root.Hex(), Dim: p.Dim, Results: make([]ResultJSON, len(results))}
	for i, r := range results {
		steps := make([]ProofStepJSON, len(r.Path))
		for j, s := range r.Path {
			steps[j] = ProofStepJSON{SiblingHex: s.Sibling.Hex(), SiblingIsRight: s.SiblingIsRight}
		}
		ev.Results[i] = ResultJSON{ID: r.ID, Score: r.Score, LeafHex: r.Leaf.Hex(), Path: steps}
	}
	return ev
}

// Verify is the pure, offline evidence verifier: it takes evidence and
// checks every result's path recomputes the claimed pack CID, consulting
// neither the server nor the Pack itself. Hex parsing is strict
// (cid.ParseHex requires exactly 32 decoded bytes).
func Verify(ev Evidence) error {
	root, err := cid.ParseHex(ev.IndexPackCID)
	if err != nil {
		return err
	}
	for _, r := range ev.Results {
		leaf, err := cid.ParseHex(r.LeafHex)
		if err != nil {
			return err
		}
		path := make([]ProofStep, len(r.Path))
		for i, s := range r.Path {
			sibling, err := cid.ParseHex(s.SiblingHex)
			if err != nil {
				return err
			}
			path[i] = ProofStep{Sibling: sibling, SiblingIsRight: s.SiblingIsRight}
		}
		if !VerifyPath(leaf, path, root) {
			return xerrors.ErrMerkleMismatch
		}
	}
	return nil
}
