package seal

import (
	"crypto/ed25519"

	"github.com/forestrie/verifiable-ledger/xerrors"
)

// SeedSize is the width of an Ed25519 private key seed.
const SeedSize = ed25519.SeedSize

// Ed25519Signer holds a 32-byte seed under a zeroizing wrapper: the key is
// never logged or serialized. Close must be called once the signer is no
// longer needed.
type Ed25519Signer struct {
	seed [SeedSize]byte
	priv ed25519.PrivateKey
	pub  ed25519.PublicKey
}

// NewEd25519Signer derives a signer from a 32-byte seed, copying it so the
// caller's buffer can be wiped independently.
func NewEd25519Signer(seed [SeedSize]byte) *Ed25519Signer {
	s := &Ed25519Signer{seed: seed}
	s.priv = ed25519.NewKeyFromSeed(s.seed[:])
	s.pub = s.priv.Public().(ed25519.PublicKey)
	return s
}

// Sign signs message directly; callers in this package always pass
// domain||cid, never raw application bytes.
func (s *Ed25519Signer) Sign(message []byte) ([]byte, error) {
	if s.priv == nil {
		return nil, xerrors.ErrBadKeyLength
	}
	return ed25519.Sign(s.priv, message), nil
}

// PublicKey returns the 32-byte Ed25519 public key.
func (s *Ed25519Signer) PublicKey() []byte {
	return append([]byte(nil), s.pub...)
}

// Close zeroizes the seed and private key material. The signer must not be
// used afterwards.
func (s *Ed25519Signer) Close() {
	for i := range s.seed {
		s.seed[i] = 0
	}
	for i := range s.priv {
		s.priv[i] = 0
	}
}

// DerivePublic returns the Ed25519 public key for a given seed without
// retaining the seed.
func DerivePublic(seed [SeedSize]byte) []byte {
	priv := ed25519.NewKeyFromSeed(seed[:])
	pub := append([]byte(nil), priv.Public().(ed25519.PublicKey)...)
	for i := range priv {
		priv[i] = 0
	}
	return pub
}

type ed25519Verifier struct{}

// Ed25519Verifier is the stock Verifier for Ed25519 signatures.
var Ed25519Verifier Verifier = ed25519Verifier{}

func (ed25519Verifier) Verify(message, sig, publicKey []byte) bool {
	if len(publicKey) != ed25519.PublicKeySize || len(sig) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(publicKey, message, sig)
}
