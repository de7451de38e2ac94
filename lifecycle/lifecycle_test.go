package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forestrie/verifiable-ledger/atom"
	"github.com/forestrie/verifiable-ledger/canon"
	"github.com/forestrie/verifiable-ledger/limits"
	"github.com/forestrie/verifiable-ledger/seal"
	"github.com/forestrie/verifiable-ledger/xerrors"
)

func testSigner(t *testing.T, fill byte) *seal.Ed25519Signer {
	t.Helper()
	var seed [seal.SeedSize]byte
	for i := range seed {
		seed[i] = fill
	}
	return seal.NewEd25519Signer(seed)
}

func draftAtom(t *testing.T, when int64) atom.Atom {
	t.Helper()
	b := atom.NewBuilder(nil, false).
		Who("alice").Did("transfer").When(when).
		IfOk(canon.String("ok")).IfDoubt(canon.String("doubt")).IfNot(canon.String("not"))
	a, err := b.BuildDraft()
	require.NoError(t, err)
	return *a
}

func TestFullLifecycleDraftToCommitted(t *testing.T) {
	lim := limits.Default()
	signer := testSigner(t, 1)
	defer signer.Close()

	a := draftAtom(t, 100)
	sd, err := Sign(a, signer, seal.DomainLedger, lim)
	require.NoError(t, err)

	pending, err := Freeze(sd, 200)
	require.NoError(t, err)
	assert.Equal(t, atom.StatusPending, pending.Atom.Status)
	assert.Equal(t, int64(100), pending.Atom.When) // already set, Freeze must not overwrite it

	committed, err := Commit(pending, signer, seal.DomainLedger, lim)
	require.NoError(t, err)
	assert.Equal(t, atom.StatusCommitted, committed.Atom.Status)
	require.NoError(t, seal.VerifySeal(committed.Fact, seal.DomainLedger))
}

func TestFreezeSetsWhenIfUnset(t *testing.T) {
	lim := limits.Default()
	signer := testSigner(t, 2)
	defer signer.Close()

	a := draftAtom(t, 1)
	a.When = 0 // simulate an atom built with When left at zero
	sd, err := Sign(a, signer, seal.DomainLedger, lim)
	require.NoError(t, err)

	pending, err := Freeze(sd, 555)
	require.NoError(t, err)
	assert.Equal(t, int64(555), pending.Atom.When)
}

func TestSignRejectsNonDraftAtom(t *testing.T) {
	signer := testSigner(t, 3)
	defer signer.Close()
	a := draftAtom(t, 1)
	a.Status = atom.StatusPending
	_, err := Sign(a, signer, seal.DomainLedger, limits.Default())
	require.Error(t, err)
	assert.ErrorIs(t, err, xerrors.ErrIllegalTransition)
}

func TestCommittedToGhostIsForbidden(t *testing.T) {
	a := draftAtom(t, 1)
	a.Status = atom.StatusCommitted
	_, err := Abandon(a, "too late", 999)
	require.Error(t, err)
	assert.ErrorIs(t, err, xerrors.ErrIllegalTransition)
}

func TestAbandonDraftProducesGhostRecord(t *testing.T) {
	a := draftAtom(t, 1)
	g, err := Abandon(a, "operator denied", 42)
	require.NoError(t, err)
	assert.Equal(t, atom.StatusGhost, g.OriginalAtom.Status)
	assert.Equal(t, "operator denied", g.Reason)
	assert.Equal(t, int64(42), g.GhostTS)
}

func TestCommitRejectsNonPendingAtom(t *testing.T) {
	signer := testSigner(t, 4)
	defer signer.Close()
	_, err := Commit(&Pending{Atom: draftAtom(t, 1)}, signer, seal.DomainLedger, limits.Default())
	require.Error(t, err)
}
