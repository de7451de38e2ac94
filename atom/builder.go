package atom

import "github.com/forestrie/verifiable-ledger/canon"

// Builder exposes one setter per field. A fluent builder fits better than
// a functional-option set here because the atom's nine fields are fixed
// rather than an open, variadic option set.
type Builder struct {
	atom   Atom
	reg    *Registry
	strict bool
}

// NewBuilder starts a draft atom. If strict is true, BuildDraft rejects
// verbs the registry does not recognise; with a nil reg that is every verb.
func NewBuilder(reg *Registry, strict bool) *Builder {
	return &Builder{atom: Atom{Status: StatusDraft}, reg: reg, strict: strict}
}

func (b *Builder) Who(who string) *Builder            { b.atom.Who = who; return b }
func (b *Builder) Did(did string) *Builder            { b.atom.Did = did; return b }
func (b *Builder) This(p Payload) *Builder            { b.atom.This = p; return b }
func (b *Builder) When(when int64) *Builder           { b.atom.When = when; return b }
func (b *Builder) ConfirmedBy(actor string) *Builder  { b.atom.ConfirmedBy = actor; return b }
func (b *Builder) IfOk(v canon.Value) *Builder        { b.atom.IfOk = v; return b }
func (b *Builder) IfDoubt(v canon.Value) *Builder     { b.atom.IfDoubt = v; return b }
func (b *Builder) IfNot(v canon.Value) *Builder       { b.atom.IfNot = v; return b }

// BuildDraft validates the atom's required-field invariants and returns a
// DRAFT atom.
func (b *Builder) BuildDraft() (*Atom, error) {
	a := b.atom
	a.Status = StatusDraft
	if err := a.checkInvariants(b.reg, b.strict); err != nil {
		return nil, err
	}
	return &a, nil
}
