package ledger

import "github.com/google/uuid"

// NewShardID mints a fresh, globally-unique shard identifier. Shard
// identifiers are otherwise opaque strings chosen by the caller (Open
// takes whatever it's given), so this exists purely for callers that
// have no natural identifier of their own: CLI scaffolding and tests
// that need a shard name guaranteed not to collide with another run.
func NewShardID() string {
	return uuid.NewString()
}
