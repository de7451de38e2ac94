package capsule

import (
	"crypto/rand"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/text/unicode/norm"

	"github.com/forestrie/verifiable-ledger/cid"
	"github.com/forestrie/verifiable-ledger/xerrors"
)

// VectorIDBytes encodes a vector_id into the stable byte form used as half
// of the AEAD's additional data: NFC-normalized UTF-8, no trailing NUL.
func VectorIDBytes(vectorID string) []byte {
	return []byte(norm.NFC.String(vectorID))
}

// aad builds vector_id||CID, the additional authenticated data covering an
// encrypted capsule payload.
func aad(vectorID string, payloadCID cid.CID) []byte {
	out := append([]byte(nil), VectorIDBytes(vectorID)...)
	return append(out, payloadCID[:]...)
}

// EncryptPayload seals plaintext under key with AAD = vector_id||CID(plaintext),
// returning nonce||ciphertext ready to become a capsule's Payload under
// FlagEncrypted. The plaintext CID is not returned: it is only used to
// compute AAD, and DecryptPayload needs it again (cid.Of(plaintext)). The
// header's CID is always BLAKE3(Payload), i.e. of the ciphertext.
func EncryptPayload(key [chacha20poly1305.KeySize]byte, vectorID string, plaintext []byte) ([]byte, error) {
	aead, err := chacha20poly1305.New(key[:])
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, chacha20poly1305.NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	plaintextCID := cid.Of(plaintext)
	ciphertext := aead.Seal(nil, nonce, plaintext, aad(vectorID, plaintextCID))
	return append(nonce, ciphertext...), nil
}

// DecryptPayload reverses EncryptPayload. The capsule header's own CID is
// BLAKE3 of the *encrypted* Payload (nonce||ciphertext); plaintextCID is a
// separate value the caller must already hold — typically recovered from
// wherever the plaintext's identity was recorded before encryption — since
// it is half of the AAD that decryption reproduces and checks. Passing the
// wrong plaintextCID, the wrong vector_id, or a tampered ciphertext all
// fail the same way: AEAD authentication fails and ErrBadSignature is
// returned.
func DecryptPayload(key [chacha20poly1305.KeySize]byte, vectorID string, nonceAndCiphertext []byte, plaintextCID cid.CID) ([]byte, error) {
	if len(nonceAndCiphertext) < chacha20poly1305.NonceSize {
		return nil, xerrors.ErrTruncatedFrame
	}
	aead, err := chacha20poly1305.New(key[:])
	if err != nil {
		return nil, err
	}
	nonce := nonceAndCiphertext[:chacha20poly1305.NonceSize]
	ciphertext := nonceAndCiphertext[chacha20poly1305.NonceSize:]
	plaintext, err := aead.Open(nil, nonce, ciphertext, aad(vectorID, plaintextCID))
	if err != nil {
		return nil, xerrors.ErrBadSignature
	}
	return plaintext, nil
}
