package capsule

import (
	"bytes"

	"github.com/forestrie/verifiable-ledger/cid"
	"github.com/forestrie/verifiable-ledger/limits"
	"github.com/forestrie/verifiable-ledger/seal"
	"github.com/forestrie/verifiable-ledger/xerrors"
)

// Capsule is a signed, content-addressed binary container for a vector-like
// payload. When FlagEncrypted is set, Payload holds nonce||ciphertext
// rather than plaintext.
type Capsule struct {
	Header  Header
	Payload []byte
}

// Create builds a Capsule over payload (already encrypted by the caller if
// flags carries FlagEncrypted — see EncryptPayload), computing CID =
// BLAKE3(payload) and signing header||payload under signer.
func Create(ts uint64, dim uint16, payload []byte, flags uint8, signer seal.Signer, lim limits.Limits) (*Capsule, error) {
	if err := checkFrameSize(len(payload), lim); err != nil {
		return nil, err
	}
	if flags&flagsReservedMask != 0 {
		return nil, xerrors.ErrBadHeader
	}
	h := Header{
		Version: Version,
		Flags:   flags,
		TS:      ts,
		CID:     cid.Of(payload),
		Dim:     dim,
		Len:     uint32(len(payload)),
	}
	sig, err := signer.Sign(append(h.encodeWithoutSig(), payload...))
	if err != nil {
		return nil, err
	}
	copy(h.Sig[:], sig)
	return &Capsule{Header: h, Payload: payload}, nil
}

// ToBytes serializes the capsule to its wire form.
func (c *Capsule) ToBytes() []byte {
	out := make([]byte, 0, HeaderSize+len(c.Payload))
	out = append(out, c.Header.encodeWithoutSig()...)
	out = append(out, c.Header.Sig[:]...)
	out = append(out, c.Payload...)
	return out
}

// FromBytes parses a capsule, validating that LEN agrees with the actual
// payload length. It does not verify the signature or CID; callers must
// call VerifyCID/VerifyWith before trusting the contents.
func FromBytes(b []byte, lim limits.Limits) (*Capsule, error) {
	h, err := parseHeader(b)
	if err != nil {
		return nil, err
	}
	if err := checkFrameSize(int(h.Len), lim); err != nil {
		return nil, err
	}
	end := HeaderSize + int(h.Len)
	if len(b) != end {
		return nil, xerrors.ErrTruncatedFrame
	}
	payload := append([]byte(nil), b[HeaderSize:end]...)
	return &Capsule{Header: h, Payload: payload}, nil
}

// VerifyCID reports whether the header's CID matches BLAKE3(payload).
func (c *Capsule) VerifyCID() bool {
	want := cid.Of(c.Payload)
	return bytes.Equal(c.Header.CID[:], want[:])
}

// VerifyWith checks the signature over header||payload against publicKey.
// The signature must verify before the CID can be trusted.
func (c *Capsule) VerifyWith(publicKey []byte) bool {
	msg := append(c.Header.encodeWithoutSig(), c.Payload...)
	return seal.Ed25519Verifier.Verify(msg, c.Header.Sig[:], publicKey)
}
