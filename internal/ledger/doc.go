// Package ledger implements the custody ledger: check-in, check-out, and the
// read projections built on top of the store.
//
// Check-in is the only place parents are created. Before appending a
// transaction the Ledger ensures the Person and Asset exist inside the same
// SQL transaction, so callers never pre-create directory records and a
// missing parent can only surface as an IntegrityError.
//
// Check-out is a compare-and-set on status. A false return means there was
// nothing to close (unknown id or already closed) and is not an error.
//
// Thread-safety: Ledger is safe for concurrent use. All serialization happens
// in the store.
package ledger
