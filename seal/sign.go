package seal

import (
	"github.com/forestrie/verifiable-ledger/cid"
	"github.com/forestrie/verifiable-ledger/xerrors"
)

// message builds domain||cid, the only thing this package ever signs or
// verifies: every signature is over a CID, never raw application bytes.
func message(domain Domain, c cid.CID) []byte {
	out := make([]byte, 0, len(domain)+cid.Size)
	out = append(out, domain...)
	out = append(out, c[:]...)
	return out
}

// SignCID signs c under domain using signer.
func SignCID(c cid.CID, domain Domain, signer Signer) ([]byte, error) {
	if !domain.valid() {
		return nil, xerrors.ErrDomainMismatch
	}
	return signer.Sign(message(domain, c))
}

// VerifyCID verifies sig over c under domain and publicKey.
func VerifyCID(c cid.CID, domain Domain, sig, publicKey []byte) bool {
	if !domain.valid() {
		return false
	}
	return Ed25519Verifier.Verify(message(domain, c), sig, publicKey)
}

// BatchItem is one (cid, signature, public key) triple to be checked
// together with others, e.g. a whole shard's signatures in one call.
type BatchItem struct {
	CID       cid.CID
	Signature []byte
	PublicKey []byte
}

// BatchVerify verifies every item under domain, returning false and the
// index of the first failure (or -1 if all items pass).
func BatchVerify(items []BatchItem, domain Domain) (bool, int) {
	if !domain.valid() {
		return false, 0
	}
	for i, it := range items {
		if !VerifyCID(it.CID, domain, it.Signature, it.PublicKey) {
			return false, i
		}
	}
	return true, -1
}

