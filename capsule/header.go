// Package capsule implements the fixed-header binary container for a
// vector payload.
package capsule

import (
	"encoding/binary"

	"github.com/forestrie/verifiable-ledger/cid"
	"github.com/forestrie/verifiable-ledger/limits"
	"github.com/forestrie/verifiable-ledger/xerrors"
)

// Magic identifies a capsule frame; any other value is a BadHeader.
const Magic uint16 = 0x5199

// Version is the only header version this package emits or accepts.
const Version uint8 = 1

// Header flags.
const (
	FlagEncrypted       uint8 = 1 << 0
	FlagReceiptRequired uint8 = 1 << 1
	flagsReservedMask   uint8 = ^(FlagEncrypted | FlagReceiptRequired)
)

// HeaderSize is the fixed width of a capsule header, in bytes:
// MAGIC:u16 | VER:u8 | FLAGS:u8 | TS:u64 | CID:[32]u8 | DIM:u16 | LEN:u32 | SIG:[64]u8
const HeaderSize = 2 + 1 + 1 + 8 + cid.Size + 2 + 4 + 64

// headerWithoutSigSize is the span covered by the signature itself.
const headerWithoutSigSize = HeaderSize - 64

// Header is the fixed-width capsule header, decoded from the wire form.
type Header struct {
	Version uint8
	Flags   uint8
	TS      uint64
	CID     cid.CID
	Dim     uint16
	Len     uint32
	Sig     [64]byte
}

func (h Header) hasFlag(f uint8) bool { return h.Flags&f != 0 }

// Encrypted reports whether the ENCRYPTED flag is set.
func (h Header) Encrypted() bool { return h.hasFlag(FlagEncrypted) }

// ReceiptRequired reports whether the RECEIPT_REQUIRED flag is set.
func (h Header) ReceiptRequired() bool { return h.hasFlag(FlagReceiptRequired) }

// encodeWithoutSig writes every header field except SIG, big-endian
// throughout, returning the bytes that SIG is computed over (followed by
// the payload).
func (h Header) encodeWithoutSig() []byte {
	b := make([]byte, headerWithoutSigSize)
	binary.BigEndian.PutUint16(b[0:2], Magic)
	b[2] = h.Version
	b[3] = h.Flags
	binary.BigEndian.PutUint64(b[4:12], h.TS)
	copy(b[12:12+cid.Size], h.CID[:])
	off := 12 + cid.Size
	binary.BigEndian.PutUint16(b[off:off+2], h.Dim)
	binary.BigEndian.PutUint32(b[off+2:off+6], h.Len)
	return b
}

// parseHeader reads and validates a fixed header from the front of b,
// performing zero-copy bounded slicing: it trusts nothing until the
// length and magic checks pass.
func parseHeader(b []byte) (Header, error) {
	if len(b) < HeaderSize {
		return Header{}, xerrors.ErrTruncatedFrame
	}
	if binary.BigEndian.Uint16(b[0:2]) != Magic {
		return Header{}, xerrors.ErrBadHeader
	}
	var h Header
	h.Version = b[2]
	if h.Version != Version {
		return Header{}, xerrors.ErrBadHeader
	}
	h.Flags = b[3]
	if h.Flags&flagsReservedMask != 0 {
		return Header{}, xerrors.ErrBadHeader
	}
	h.TS = binary.BigEndian.Uint64(b[4:12])
	copy(h.CID[:], b[12:12+cid.Size])
	off := 12 + cid.Size
	h.Dim = binary.BigEndian.Uint16(b[off : off+2])
	h.Len = binary.BigEndian.Uint32(b[off+2 : off+6])
	copy(h.Sig[:], b[headerWithoutSigSize:HeaderSize])
	return h, nil
}

func checkFrameSize(payloadLen int, lim limits.Limits) error {
	if payloadLen > lim.LedgerFrameMax {
		return xerrors.ErrSizeLimit
	}
	return nil
}
