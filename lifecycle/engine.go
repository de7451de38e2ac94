// Package lifecycle implements the Action Atom's state machine:
// DRAFT -> PENDING -> COMMITTED, or any non-committed state -> GHOST.
package lifecycle

import (
	"github.com/forestrie/verifiable-ledger/atom"
	"github.com/forestrie/verifiable-ledger/limits"
	"github.com/forestrie/verifiable-ledger/seal"
	"github.com/forestrie/verifiable-ledger/xerrors"
)

// SignedDraft is a DRAFT atom bound to a Signed Fact over its canonical
// form. Freezing requires one to exist; it is not itself a lifecycle state.
type SignedDraft struct {
	Atom atom.Atom
	Fact *seal.SignedFact
}

// Pending is an atom that has been frozen for commit.
type Pending struct {
	Atom atom.Atom
}

// Committed is a pending atom that has been committed, bound to the Signed
// Fact produced at commit time.
type Committed struct {
	Atom atom.Atom
	Fact *seal.SignedFact
}

// GhostRecord is the forensic retention record for a denied or abandoned
// attempt. Ghost records are owned by the ledger, not by the caller that
// created them.
type GhostRecord struct {
	OriginalAtom atom.Atom
	Reason       string
	GhostTS      int64
}

// Sign produces a SignedDraft from a, which must be in DRAFT status.
// Signing is idempotent: Ed25519 is a deterministic signature scheme, so
// signing the same draft twice yields byte-identical results.
func Sign(a atom.Atom, signer seal.Signer, domain seal.Domain, lim limits.Limits) (*SignedDraft, error) {
	if a.Status != atom.StatusDraft {
		return nil, &xerrors.IllegalTransition{From: a.Status.String(), To: "SIGNED"}
	}
	v, err := a.CanonicalValue(lim)
	if err != nil {
		return nil, err
	}
	fact, err := seal.Seal(v, signer, domain, "action-atom", lim)
	if err != nil {
		return nil, err
	}
	return &SignedDraft{Atom: a, Fact: fact}, nil
}

// Freeze transitions a SignedDraft to PENDING. If the atom's When field is
// unset (zero) it is set to now before the >0 invariant is re-checked.
func Freeze(sd *SignedDraft, now int64) (*Pending, error) {
	if sd == nil || sd.Fact == nil {
		return nil, &xerrors.IllegalTransition{From: "DRAFT", To: "PENDING"}
	}
	a := sd.Atom
	if a.Status != atom.StatusDraft {
		return nil, &xerrors.IllegalTransition{From: a.Status.String(), To: "PENDING"}
	}
	if a.When == 0 {
		a.When = now
	}
	if a.When <= 0 {
		return nil, &xerrors.InvalidAtom{Field: "when", Reason: "must be > 0"}
	}
	a.Status = atom.StatusPending
	return &Pending{Atom: a}, nil
}

// Commit transitions a Pending atom to COMMITTED, producing a fresh Signed
// Fact over the atom's canonical form (which now includes status=COMMITTED).
func Commit(p *Pending, signer seal.Signer, domain seal.Domain, lim limits.Limits) (*Committed, error) {
	if p == nil || p.Atom.Status != atom.StatusPending {
		from := "UNKNOWN"
		if p != nil {
			from = p.Atom.Status.String()
		}
		return nil, &xerrors.IllegalTransition{From: from, To: "COMMITTED"}
	}
	a := p.Atom
	a.Status = atom.StatusCommitted
	v, err := a.CanonicalValue(lim)
	if err != nil {
		return nil, err
	}
	fact, err := seal.Seal(v, signer, domain, "action-atom", lim)
	if err != nil {
		return nil, err
	}
	return &Committed{Atom: a, Fact: fact}, nil
}

// Abandon moves a in any non-committed state to GHOST. COMMITTED -> GHOST
// is forbidden unconditionally.
func Abandon(a atom.Atom, reason string, ghostTS int64) (*GhostRecord, error) {
	if a.Status == atom.StatusCommitted {
		return nil, &xerrors.IllegalTransition{From: a.Status.String(), To: "GHOST"}
	}
	original := a
	original.Status = atom.StatusGhost
	return &GhostRecord{OriginalAtom: original, Reason: reason, GhostTS: ghostTS}, nil
}
