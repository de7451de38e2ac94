package atom

import (
	"sort"

	"github.com/forestrie/verifiable-ledger/xerrors"
)

// RiskLevel classifies a verb's consequence severity. Level 3 and above is
// where confirmed_by is advisory-but-recommended at this layer, mandatory
// at a policy layer above it.
type RiskLevel int

// VerbEntry binds a verb to its risk level and the schema identifier its
// "this" payload is expected to satisfy at higher layers.
type VerbEntry struct {
	Verb      string
	RiskLevel RiskLevel
	SchemaID  string
}

// Registry is a finite, sorted set of verbs. Lookups are binary search,
// not a map: a flat-slice-plus-arithmetic style in place of maps or trees.
type Registry struct {
	entries []VerbEntry
}

// NewRegistry builds a Registry from entries, sorting them by verb and
// rejecting duplicates.
func NewRegistry(entries ...VerbEntry) (*Registry, error) {
	cp := append([]VerbEntry(nil), entries...)
	sort.Slice(cp, func(i, j int) bool { return cp[i].Verb < cp[j].Verb })
	for i := 1; i < len(cp); i++ {
		if cp[i].Verb == cp[i-1].Verb {
			return nil, xerrors.ErrDuplicateVerb
		}
	}
	return &Registry{entries: cp}, nil
}

// Lookup binary-searches for verb, returning its entry and whether it was
// found.
func (r *Registry) Lookup(verb string) (VerbEntry, bool) {
	if r == nil {
		return VerbEntry{}, false
	}
	i := sort.Search(len(r.entries), func(i int) bool { return r.entries[i].Verb >= verb })
	if i < len(r.entries) && r.entries[i].Verb == verb {
		return r.entries[i], true
	}
	return VerbEntry{}, false
}

// Len returns the number of registered verbs.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.entries)
}
