package seal

import (
	"github.com/fxamacker/cbor/v2"

	"github.com/forestrie/verifiable-ledger/canon"
	"github.com/forestrie/verifiable-ledger/cid"
	"github.com/forestrie/verifiable-ledger/limits"
	"github.com/forestrie/verifiable-ledger/xerrors"
)

// CanonVersion is published in every Signed Fact so that a future change to
// the canonicalization rules can be detected and refused rather than
// silently misverified.
const CanonVersion = 1

// SignedFact binds canonical bytes to a signature, public key and the
// algorithm tags needed to verify it standalone.
type SignedFact struct {
	CanonicalBytes []byte `cbor:"1,keyasint"`
	CID            cid.CID `cbor:"2,keyasint"`
	Signature      []byte `cbor:"3,keyasint"`
	PublicKey      []byte `cbor:"4,keyasint"`
	HashAlg        string `cbor:"5,keyasint"`
	SigAlg         string `cbor:"6,keyasint"`
	CanonVer       int    `cbor:"7,keyasint"`
	FormatID       string `cbor:"8,keyasint"`
}

// Seal canonicalizes value, hashes it, and signs the CID under domain,
// producing a SignedFact. The private key never enters the envelope.
func Seal(value canon.Value, signer Signer, domain Domain, formatID string, lim limits.Limits) (*SignedFact, error) {
	bytes, err := canon.Canonize(value, lim)
	if err != nil {
		return nil, err
	}
	c := cid.Of(bytes)
	sig, err := SignCID(c, domain, signer)
	if err != nil {
		return nil, err
	}
	return &SignedFact{
		CanonicalBytes: bytes,
		CID:            c,
		Signature:      sig,
		PublicKey:      signer.PublicKey(),
		HashAlg:        "blake3",
		SigAlg:         "ed25519",
		CanonVer:       CanonVersion,
		FormatID:       formatID,
	}, nil
}

// VerifySeal checks that f.CID matches f.CanonicalBytes and that
// f.Signature verifies against f.PublicKey for the given domain.
func VerifySeal(f *SignedFact, domain Domain) error {
	if f.CanonVer != CanonVersion {
		return xerrors.ErrUnknownCanonVer
	}
	if f.HashAlg != "blake3" || f.SigAlg != "ed25519" {
		return xerrors.ErrDomainMismatch
	}
	if cid.Of(f.CanonicalBytes) != f.CID {
		return xerrors.ErrBadSignature
	}
	if !VerifyCID(f.CID, domain, f.Signature, f.PublicKey) {
		return xerrors.ErrBadSignature
	}
	return nil
}

var cborMode = func() cbor.EncMode {
	m, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(err) // options are a compile-time constant; cannot fail at runtime
	}
	return m
}()

// ToBytes serializes f deterministically using a canonical CBOR encoding.
// This framing is secondary at-rest convenience; the bytes that are
// hashed and signed are always f.CanonicalBytes, never this frame.
func (f *SignedFact) ToBytes() ([]byte, error) {
	return cborMode.Marshal(f)
}

// FromBytes parses the frame produced by ToBytes. Round-tripping is
// lossless: FromBytes(ToBytes(f)) reproduces f field-for-field.
func FromBytes(b []byte) (*SignedFact, error) {
	var f SignedFact
	if err := cbor.Unmarshal(b, &f); err != nil {
		return nil, xerrors.ErrBadHeader
	}
	return &f, nil
}
