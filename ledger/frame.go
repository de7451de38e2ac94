package ledger

import (
	"encoding/binary"

	"github.com/forestrie/verifiable-ledger/cid"
	"github.com/forestrie/verifiable-ledger/limits"
	"github.com/forestrie/verifiable-ledger/xerrors"
)

// Entry is one record in a shard's hash-chained log.
type Entry struct {
	Seq        uint64
	PayloadCID cid.CID
	HeadHash   [32]byte
	TS         int64
	Payload    []byte
	Signature  []byte // nil when the shard is unsigned; else 64 bytes
}

// frameBodySize is the fixed-width portion of a frame after LEN and before
// the variable-length payload and optional signature.
const frameBodySize = 8 + 8 + cid.Size + 32 // seq + ts + payload_cid + head_hash

// SignatureSize is the fixed width of an entry's optional signature.
const SignatureSize = 64

// encodeFrame renders e as the on-disk frame:
// LEN:u32(BE) | seq:u64 | ts:i64 | payload_cid:32B | head_hash:32B | payload | sig:64B?
// LEN excludes itself and covers everything from seq through the optional
// signature.
func encodeFrame(e Entry, lim limits.Limits) ([]byte, error) {
	if len(e.Payload) > lim.LedgerFrameMax {
		return nil, xerrors.ErrSizeLimit
	}
	bodyLen := frameBodySize + len(e.Payload)
	if e.Signature != nil {
		bodyLen += SignatureSize
	}
	out := make([]byte, 4+bodyLen)
	binary.BigEndian.PutUint32(out[0:4], uint32(bodyLen))
	off := 4
	binary.BigEndian.PutUint64(out[off:off+8], e.Seq)
	off += 8
	binary.BigEndian.PutUint64(out[off:off+8], uint64(e.TS))
	off += 8
	copy(out[off:off+cid.Size], e.PayloadCID[:])
	off += cid.Size
	copy(out[off:off+32], e.HeadHash[:])
	off += 32
	copy(out[off:off+len(e.Payload)], e.Payload)
	off += len(e.Payload)
	if e.Signature != nil {
		copy(out[off:off+SignatureSize], e.Signature)
	}
	return out, nil
}

// decodeFrame reads one frame from the front of b, returning the entry and
// the total number of bytes consumed (including the LEN prefix). signed
// tells decodeFrame whether this shard trails every frame with a 64-byte
// signature — a shard is signed or unsigned for its whole lifetime, so this
// is a property of the shard, not something the frame self-describes.
func decodeFrame(b []byte, lim limits.Limits, signed bool) (Entry, int, error) {
	if len(b) < 4 {
		return Entry{}, 0, xerrors.ErrTruncatedFrame
	}
	bodyLen := int(binary.BigEndian.Uint32(b[0:4]))
	if bodyLen > lim.LedgerFrameMax+frameBodySize+SignatureSize {
		return Entry{}, 0, xerrors.ErrSizeLimit
	}
	total := 4 + bodyLen
	if len(b) < total {
		return Entry{}, 0, xerrors.ErrTruncatedFrame
	}
	minLen := frameBodySize
	if signed {
		minLen += SignatureSize
	}
	if bodyLen < minLen {
		return Entry{}, 0, xerrors.ErrBadHeader
	}
	body := b[4:total]
	var e Entry
	off := 0
	e.Seq = binary.BigEndian.Uint64(body[off : off+8])
	off += 8
	e.TS = int64(binary.BigEndian.Uint64(body[off : off+8]))
	off += 8
	copy(e.PayloadCID[:], body[off:off+cid.Size])
	off += cid.Size
	copy(e.HeadHash[:], body[off:off+32])
	off += 32
	payloadLen := bodyLen - frameBodySize
	if signed {
		payloadLen -= SignatureSize
	}
	e.Payload = append([]byte(nil), body[off:off+payloadLen]...)
	off += payloadLen
	if signed {
		e.Signature = append([]byte(nil), body[off:off+SignatureSize]...)
	}
	return e, total, nil
}
