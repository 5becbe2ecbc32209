// Package store provides SQLite-backed durable storage for the desk ledger.
//
// The store holds three record sets:
//   - People: directory records keyed by an externally supplied integer
//   - Assets: directory records keyed by a free-text tag
//   - Transactions: the custody ledger, keyed by a store-assigned sequence
//
// # Guarantees
//
// Insert-if-absent directory writes
//   - INSERT ... ON CONFLICT DO NOTHING, never insert-then-catch-duplicate
//   - Racing callers leave exactly one row per identifier
//
// Compare-and-set close
//   - A single UPDATE guarded by status = 'open' flips status and check-out time together
//   - Zero affected rows means already closed or missing; that is not an error
//
// Append-only ledger
//   - AUTOINCREMENT ids are never reused
//   - Triggers reject DELETE, any UPDATE of a closed row, and edits to identity columns
//   - CHECK constraints tie check_out_at to status and order it after check_in_at
//
// Deterministic reads
//   - Every projection has a total ORDER BY ending in id
//   - Timestamps are stored as fixed-width UTC text so string order is time order
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON: enforce referential integrity
package store
