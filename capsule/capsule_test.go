package capsule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/chacha20poly1305"

	"github.com/forestrie/verifiable-ledger/cid"
	"github.com/forestrie/verifiable-ledger/limits"
	"github.com/forestrie/verifiable-ledger/seal"
)

func testSigner(t *testing.T, fill byte) *seal.Ed25519Signer {
	t.Helper()
	var seed [seal.SeedSize]byte
	for i := range seed {
		seed[i] = fill
	}
	return seal.NewEd25519Signer(seed)
}

func TestCreateToBytesFromBytesRoundTrip(t *testing.T) {
	lim := limits.Default()
	signer := testSigner(t, 1)
	defer signer.Close()

	payload := []byte("vector payload bytes")
	c, err := Create(1000, 128, payload, 0, signer, lim)
	require.NoError(t, err)

	wire := c.ToBytes()
	got, err := FromBytes(wire, lim)
	require.NoError(t, err)

	assert.Equal(t, c.Header, got.Header)
	assert.Equal(t, c.Payload, got.Payload)
	assert.True(t, got.VerifyCID())
	assert.True(t, got.VerifyWith(signer.PublicKey()))
}

func TestFromBytesRejectsBadMagic(t *testing.T) {
	lim := limits.Default()
	signer := testSigner(t, 2)
	defer signer.Close()
	c, err := Create(1, 1, []byte("x"), 0, signer, lim)
	require.NoError(t, err)
	wire := c.ToBytes()
	wire[0] ^= 0xff
	_, err = FromBytes(wire, lim)
	require.Error(t, err)
}

func TestFromBytesRejectsTruncatedPayload(t *testing.T) {
	lim := limits.Default()
	signer := testSigner(t, 3)
	defer signer.Close()
	c, err := Create(1, 1, []byte("longer payload"), 0, signer, lim)
	require.NoError(t, err)
	wire := c.ToBytes()
	_, err = FromBytes(wire[:len(wire)-5], lim)
	require.Error(t, err)
}

func TestVerifyWithFailsForWrongKey(t *testing.T) {
	lim := limits.Default()
	signer := testSigner(t, 4)
	defer signer.Close()
	other := testSigner(t, 5)
	defer other.Close()

	c, err := Create(1, 1, []byte("payload"), 0, signer, lim)
	require.NoError(t, err)
	assert.False(t, c.VerifyWith(other.PublicKey()))
}

func TestVerifyCIDFailsAfterPayloadTamper(t *testing.T) {
	lim := limits.Default()
	signer := testSigner(t, 6)
	defer signer.Close()
	c, err := Create(1, 1, []byte("payload"), 0, signer, lim)
	require.NoError(t, err)
	c.Payload[0] ^= 0xff
	assert.False(t, c.VerifyCID())
}

func TestEncryptedCapsuleRoundTrip(t *testing.T) {
	var key [chacha20poly1305.KeySize]byte
	for i := range key {
		key[i] = byte(i)
	}
	plaintext := []byte("secret vector contents")
	vectorID := "vec-42"

	sealed, err := EncryptPayload(key, vectorID, plaintext)
	require.NoError(t, err)

	lim := limits.Default()
	signer := testSigner(t, 7)
	defer signer.Close()
	c, err := Create(1, 1, sealed, FlagEncrypted, signer, lim)
	require.NoError(t, err)
	assert.True(t, c.Header.Encrypted())

	plaintextCID := cid.Of(plaintext)
	recovered, err := DecryptPayload(key, vectorID, c.Payload, plaintextCID)
	require.NoError(t, err)
	assert.Equal(t, plaintext, recovered)
}

func TestDecryptPayloadFailsWithWrongVectorID(t *testing.T) {
	var key [chacha20poly1305.KeySize]byte
	plaintext := []byte("secret")
	sealed, err := EncryptPayload(key, "vec-a", plaintext)
	require.NoError(t, err)
	_, err = DecryptPayload(key, "vec-b", sealed, cid.Of(plaintext))
	require.Error(t, err)
}

func TestCreateRejectsReservedFlags(t *testing.T) {
	lim := limits.Default()
	signer := testSigner(t, 8)
	defer signer.Close()
	_, err := Create(1, 1, []byte("x"), 0x80, signer, lim)
	require.Error(t, err)
}
