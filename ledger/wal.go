package ledger

import (
	"encoding/binary"

	"github.com/forestrie/verifiable-ledger/internal/varint"
	"github.com/forestrie/verifiable-ledger/xerrors"
)

// walRecord is the durability record written before the main log is
// extended: frame || new_head(32B) || seq(u64 BE), length-prefixed with a
// bounded varint so recovery can validate the record's width before
// trusting it.
type walRecord struct {
	Frame   []byte
	NewHead [32]byte
	Seq     uint64
}

func encodeWAL(r walRecord) []byte {
	out := varint.Append(nil, uint64(len(r.Frame)))
	out = append(out, r.Frame...)
	out = append(out, r.NewHead[:]...)
	out = binary.BigEndian.AppendUint64(out, r.Seq)
	return out
}

// decodeWAL parses a single pending WAL record. An empty WAL (clean
// shutdown, or no append has ever happened) decodes to ok=false.
func decodeWAL(b []byte) (rec walRecord, ok bool, err error) {
	if len(b) == 0 {
		return walRecord{}, false, nil
	}
	frameLen, n, err := varint.Decode(b)
	if err != nil {
		return walRecord{}, false, err
	}
	rest := b[n:]
	need := int(frameLen) + 32 + 8
	if need < 0 || len(rest) < need {
		return walRecord{}, false, xerrors.ErrTruncatedFrame
	}
	rec.Frame = append([]byte(nil), rest[:frameLen]...)
	copy(rec.NewHead[:], rest[frameLen:frameLen+32])
	rec.Seq = binary.BigEndian.Uint64(rest[frameLen+32 : frameLen+32+8])
	return rec, true, nil
}
