// Package ledger implements the append-only, hash-chained ledger shard.
package ledger

import "context"

// Store abstracts the two blobs a shard needs: the append-only main log and
// the small write-ahead log used to make an append durable before the main
// log is extended. A reader/committer storage-interface split so a
// local-file implementation and a cloud-blob implementation can share the
// same Shard logic.
type Store interface {
	// Read returns the full current content of name, or a *NotExistError if
	// it has never been written.
	Read(ctx context.Context, name string) ([]byte, error)

	// Write replaces the full content of name. Used for the WAL, which is
	// always rewritten in one shot (it holds at most one pending record).
	Write(ctx context.Context, name string, data []byte) error

	// Append durably extends name with data, creating it if necessary. Used
	// for the main log, which only ever grows.
	Append(ctx context.Context, name string, data []byte) error
}

// NotExistError marks a Read of a blob that has never been written, so
// callers can distinguish "no WAL yet" from an I/O failure.
type NotExistError struct{ Name string }

func (e *NotExistError) Error() string { return "ledger: " + e.Name + " does not exist" }
