package atom

import "github.com/google/uuid"

// NewActorID mints a fresh, globally-unique actor identifier for use in
// the atom's who/confirmed_by fields. Those fields are opaque strings at
// this layer, identity being a policy-layer concern, so this exists only
// for callers without a natural identifier of their own: test fixtures
// and CLI scaffolding that need a distinct actor per run.
func NewActorID() string {
	return uuid.NewString()
}
