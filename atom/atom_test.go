package atom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forestrie/verifiable-ledger/canon"
	"github.com/forestrie/verifiable-ledger/limits"
)

func nonEmptyConsequences(b *Builder) *Builder {
	return b.IfOk(canon.String("ok")).IfDoubt(canon.String("doubt")).IfNot(canon.String("not"))
}

func TestNewActorIDIsUniquePerCall(t *testing.T) {
	a, b := NewActorID(), NewActorID()
	assert.NotEqual(t, a, b)
	assert.NotEmpty(t, a)
}

func TestBuildDraftAcceptsAMintedActorID(t *testing.T) {
	b := nonEmptyConsequences(NewBuilder(nil, false)).Who(NewActorID()).Did("transfer").When(1).ConfirmedBy(NewActorID())
	a, err := b.BuildDraft()
	require.NoError(t, err)
	assert.NotEmpty(t, a.Who)
	assert.NotEmpty(t, a.ConfirmedBy)
}

func TestBuildDraftRejectsEmptyWho(t *testing.T) {
	b := nonEmptyConsequences(NewBuilder(nil, false)).Did("transfer").When(1)
	_, err := b.BuildDraft()
	require.Error(t, err)
}

func TestBuildDraftRejectsZeroWhen(t *testing.T) {
	b := nonEmptyConsequences(NewBuilder(nil, false)).Who("alice").Did("transfer")
	_, err := b.BuildDraft()
	require.Error(t, err)
}

func TestBuildDraftRejectsEmptyConsequences(t *testing.T) {
	b := NewBuilder(nil, false).Who("alice").Did("transfer").When(1)
	_, err := b.BuildDraft()
	require.Error(t, err)
}

func TestBuildDraftSucceedsWithRequiredFields(t *testing.T) {
	b := nonEmptyConsequences(NewBuilder(nil, false)).Who("alice").Did("transfer").When(1)
	a, err := b.BuildDraft()
	require.NoError(t, err)
	assert.Equal(t, StatusDraft, a.Status)
}

func TestBuildDraftStrictRejectsUnknownVerb(t *testing.T) {
	reg, err := NewRegistry(VerbEntry{Verb: "transfer", RiskLevel: 1, SchemaID: "s1"})
	require.NoError(t, err)
	b := nonEmptyConsequences(NewBuilder(reg, true)).Who("alice").Did("unknown-verb").When(1)
	_, err = b.BuildDraft()
	require.Error(t, err)
}

func TestBuildDraftStrictAcceptsKnownVerb(t *testing.T) {
	reg, err := NewRegistry(VerbEntry{Verb: "transfer", RiskLevel: 1, SchemaID: "s1"})
	require.NoError(t, err)
	b := nonEmptyConsequences(NewBuilder(reg, true)).Who("alice").Did("transfer").When(1)
	_, err = b.BuildDraft()
	require.NoError(t, err)
}

func TestCanonicalValueFieldOrderStable(t *testing.T) {
	lim := limits.Default()
	b := nonEmptyConsequences(NewBuilder(nil, false)).Who("alice").Did("transfer").When(1)
	a, err := b.BuildDraft()
	require.NoError(t, err)

	v1, err := a.CanonicalValue(lim)
	require.NoError(t, err)
	b1, err := canon.Canonize(v1, lim)
	require.NoError(t, err)

	v2, err := a.CanonicalValue(lim)
	require.NoError(t, err)
	b2, err := canon.Canonize(v2, lim)
	require.NoError(t, err)

	assert.Equal(t, b1, b2)
}

func TestPayloadJSONMustItselfCanonicalize(t *testing.T) {
	lim := limits.Default()
	p := NewJSONPayload(canon.String("ok"))
	_, err := p.toCanonicalValue(lim)
	require.NoError(t, err)
}

func TestRegistryLookupBinarySearch(t *testing.T) {
	reg, err := NewRegistry(
		VerbEntry{Verb: "zeta", RiskLevel: 1},
		VerbEntry{Verb: "alpha", RiskLevel: 2},
		VerbEntry{Verb: "mid", RiskLevel: 3},
	)
	require.NoError(t, err)
	e, ok := reg.Lookup("mid")
	require.True(t, ok)
	assert.Equal(t, RiskLevel(3), e.RiskLevel)

	_, ok = reg.Lookup("missing")
	assert.False(t, ok)
}

func TestRegistryRejectsDuplicateVerbs(t *testing.T) {
	_, err := NewRegistry(
		VerbEntry{Verb: "dup"},
		VerbEntry{Verb: "dup"},
	)
	require.Error(t, err)
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "DRAFT", StatusDraft.String())
	assert.Equal(t, "PENDING", StatusPending.String())
	assert.Equal(t, "COMMITTED", StatusCommitted.String())
	assert.Equal(t, "GHOST", StatusGhost.String())
}
