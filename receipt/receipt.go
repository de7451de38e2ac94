// Package receipt implements the small structured acknowledgements bound
// to a ledger append or a network hop.
package receipt

import (
	"github.com/forestrie/verifiable-ledger/canon"
	"github.com/forestrie/verifiable-ledger/cid"
)

// Receipt is returned on a successful ledger append. It always observes
// the final head hash: a receipt is never issued before the entry backing
// it is durable.
type Receipt struct {
	ShardID  string  `json:"shard_id"`
	Seq      uint64  `json:"seq"`
	CID      cid.CID `json:"cid"`
	HeadHash [32]byte `json:"head_hash"`
	TS       int64   `json:"ts"`
}

// CanonicalValue reduces the receipt to the Value the Canonicalizer/Signer
// operate on, so a Receipt can itself be sealed as a Signed Fact.
func (r Receipt) CanonicalValue() (canon.Value, error) {
	return canon.NewMap(
		canon.MapEntry{Key: "shard_id", Value: canon.String(r.ShardID)},
		canon.MapEntry{Key: "seq", Value: canon.IntFromInt64(int64(r.Seq))},
		canon.MapEntry{Key: "cid", Value: canon.String(r.CID.Hex())},
		canon.MapEntry{Key: "head_hash", Value: canon.Bytes(r.HeadHash[:])},
		canon.MapEntry{Key: "ts", Value: canon.IntFromInt64(r.TS)},
	)
}

// NetworkReceipt aggregates a network hop's acknowledgement of a capsule,
// binding it to the capsule's CID and, optionally, a receiver signature.
type NetworkReceipt struct {
	CapsuleCID cid.CID `json:"capsule_cid"`
	Sender     string  `json:"sender"`
	Receiver   string  `json:"receiver"`
	TSReceived int64   `json:"ts_received"`
	LatencyMS  int64   `json:"latency_ms"`
	Outcome    string  `json:"outcome"`
	Signature  []byte  `json:"sig,omitempty"`
}

// CanonicalValue reduces the network receipt to a canonicalizable Value.
func (r NetworkReceipt) CanonicalValue() (canon.Value, error) {
	entries := []canon.MapEntry{
		{Key: "capsule_cid", Value: canon.String(r.CapsuleCID.Hex())},
		{Key: "sender", Value: canon.String(r.Sender)},
		{Key: "receiver", Value: canon.String(r.Receiver)},
		{Key: "ts_received", Value: canon.IntFromInt64(r.TSReceived)},
		{Key: "latency_ms", Value: canon.IntFromInt64(r.LatencyMS)},
		{Key: "outcome", Value: canon.String(r.Outcome)},
	}
	return canon.NewMap(entries...)
}
