package atom

import (
	"github.com/forestrie/verifiable-ledger/canon"
	"github.com/forestrie/verifiable-ledger/limits"
	"github.com/forestrie/verifiable-ledger/xerrors"
)

// Status is the lifecycle state carried by the atom's status field. The
// state machine itself lives in package lifecycle; atom only needs to
// know the set of values and their string names.
type Status uint8

const (
	StatusDraft Status = iota
	StatusPending
	StatusCommitted
	StatusGhost
)

func (s Status) String() string {
	switch s {
	case StatusDraft:
		return "DRAFT"
	case StatusPending:
		return "PENDING"
	case StatusCommitted:
		return "COMMITTED"
	case StatusGhost:
		return "GHOST"
	default:
		return "UNKNOWN"
	}
}

// Atom is the nine-field action record plus its lifecycle status.
type Atom struct {
	Who         string
	Did         string
	This        Payload
	When        int64
	ConfirmedBy string

	IfOk    canon.Value
	IfDoubt canon.Value
	IfNot   canon.Value

	Status Status
}

// canonicalValue reduces the atom to the Value the Canonicalizer hashes and
// signs. The fields are emitted in the byte-lexicographic key order that
// Canonize applies to every map (confirmed_by/did/if_doubt/if_not/if_ok/
// status/this/when/who), and the rules are published as canon_ver 1, so a
// future change is a detectable version bump rather than a silent
// reinterpretation of already-signed bytes.
func (a *Atom) canonicalValue(lim limits.Limits) (canon.Value, error) {
	payload, err := a.This.toCanonicalValue(lim)
	if err != nil {
		return canon.Value{}, err
	}
	return canon.NewMap(
		canon.MapEntry{Key: "who", Value: canon.String(a.Who)},
		canon.MapEntry{Key: "did", Value: canon.String(a.Did)},
		canon.MapEntry{Key: "this", Value: payload},
		canon.MapEntry{Key: "when", Value: canon.IntFromInt64(a.When)},
		canon.MapEntry{Key: "confirmed_by", Value: canon.String(a.ConfirmedBy)},
		canon.MapEntry{Key: "if_ok", Value: a.IfOk},
		canon.MapEntry{Key: "if_doubt", Value: a.IfDoubt},
		canon.MapEntry{Key: "if_not", Value: a.IfNot},
		canon.MapEntry{Key: "status", Value: canon.String(a.Status.String())},
	)
}

// CanonicalValue is the exported form of canonicalValue, used by lifecycle
// and by anything that needs to hash/sign the atom directly.
func (a *Atom) CanonicalValue(lim limits.Limits) (canon.Value, error) {
	return a.canonicalValue(lim)
}

func isEmptyValue(v canon.Value) bool {
	// A zero-value canon.Value (no constructor applied) defaults to
	// KindNull with no content, which is indistinguishable from an
	// explicit Null() — both count as "empty" for the non-empty
	// consequence-field invariant.
	return v.Kind() == canon.KindNull
}

// checkInvariants enforces the atom's build/freeze invariants.
func (a *Atom) checkInvariants(reg *Registry, strict bool) error {
	if a.Who == "" {
		return &xerrors.InvalidAtom{Field: "who", Reason: "must be non-empty"}
	}
	if a.When <= 0 {
		return &xerrors.InvalidAtom{Field: "when", Reason: "must be > 0"}
	}
	if strict {
		if _, ok := reg.Lookup(a.Did); !ok {
			return &xerrors.InvalidAtom{Field: "did", Reason: "verb not in registry"}
		}
	} else if a.Did == "" {
		return &xerrors.InvalidAtom{Field: "did", Reason: "must be non-empty"}
	}
	if isEmptyValue(a.IfOk) {
		return &xerrors.InvalidAtom{Field: "if_ok", Reason: "must be non-empty"}
	}
	if isEmptyValue(a.IfDoubt) {
		return &xerrors.InvalidAtom{Field: "if_doubt", Reason: "must be non-empty"}
	}
	if isEmptyValue(a.IfNot) {
		return &xerrors.InvalidAtom{Field: "if_not", Reason: "must be non-empty"}
	}
	return nil
}
