package seal

// Signer is a capability abstraction with one signing method plus a
// public-key accessor, so a caller never needs to know whether the private key lives in memory, in a
// zeroizing wrapper, or behind a remote KMS: signing as a pluggable
// capability rather than a concrete key type threaded through every call.
type Signer interface {
	Sign(message []byte) ([]byte, error)
	PublicKey() []byte
}

// Verifier checks a signature against a message and a public key.
type Verifier interface {
	Verify(message, sig, publicKey []byte) bool
}
