package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/roach88/desk/internal/model"
)

// querier is the subset of *sql.DB and *sql.Tx the write and read helpers use.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Tx is a handle onto an open SQL transaction. Obtain one via Store.InTx.
type Tx struct {
	tx *sql.Tx
}

// NewTransaction carries the fields of a check-in. The store assigns the id.
type NewTransaction struct {
	Reference string
	PersonID  model.PersonID
	AssetTag  string
	IssueType model.IssueType
	Issue     string
	CheckInAt time.Time

	// IssueInferred marks an IssueType defaulted from untyped text.
	IssueInferred bool
}

// EnsurePerson inserts a Person if none exists with the same id.
// Returns true when a row was created. An existing row is left untouched.
func (s *Store) EnsurePerson(ctx context.Context, p model.Person) (bool, error) {
	return ensurePerson(ctx, s.db, p)
}

// UpsertPerson records name and address for a Person. When address is empty
// the call is a no-op and returns false; otherwise the row is created or
// overwritten and true is returned.
func (s *Store) UpsertPerson(ctx context.Context, p model.Person) (bool, error) {
	return upsertPerson(ctx, s.db, p)
}

// EnsureAsset inserts an Asset if none exists with the same tag.
// Returns true when a row was created. Curated fields of an existing row are kept.
func (s *Store) EnsureAsset(ctx context.Context, a model.Asset) (bool, error) {
	return ensureAsset(ctx, s.db, a)
}

// InsertTransaction appends an open transaction and returns its id.
// The referenced person and asset must already exist.
func (s *Store) InsertTransaction(ctx context.Context, nt NewTransaction) (int64, error) {
	return insertTransaction(ctx, s.db, nt)
}

// CloseTransaction transitions an open transaction to closed in one
// compare-and-set statement. Returns false when the id is unknown or the
// transaction is already closed.
//
// A check-out time earlier than the stored check-in is clamped to the
// check-in time so turnaround is never negative.
func (s *Store) CloseTransaction(ctx context.Context, id int64, at time.Time) (bool, error) {
	return closeTransaction(ctx, s.db, id, at)
}

// EnsurePerson is Store.EnsurePerson within the transaction.
func (t *Tx) EnsurePerson(ctx context.Context, p model.Person) (bool, error) {
	return ensurePerson(ctx, t.tx, p)
}

// UpsertPerson is Store.UpsertPerson within the transaction.
func (t *Tx) UpsertPerson(ctx context.Context, p model.Person) (bool, error) {
	return upsertPerson(ctx, t.tx, p)
}

// EnsureAsset is Store.EnsureAsset within the transaction.
func (t *Tx) EnsureAsset(ctx context.Context, a model.Asset) (bool, error) {
	return ensureAsset(ctx, t.tx, a)
}

// InsertTransaction is Store.InsertTransaction within the transaction.
func (t *Tx) InsertTransaction(ctx context.Context, nt NewTransaction) (int64, error) {
	return insertTransaction(ctx, t.tx, nt)
}

// CloseTransaction is Store.CloseTransaction within the transaction.
func (t *Tx) CloseTransaction(ctx context.Context, id int64, at time.Time) (bool, error) {
	return closeTransaction(ctx, t.tx, id, at)
}

func ensurePerson(ctx context.Context, q querier, p model.Person) (bool, error) {
	res, err := q.ExecContext(ctx, `
		INSERT INTO people (id, name, address)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, int64(p.ID), p.Name, p.Address)
	if err != nil {
		return false, fmt.Errorf("ensure person %d: %w", p.ID, err)
	}
	return affectedOne(res, "ensure person")
}

func upsertPerson(ctx context.Context, q querier, p model.Person) (bool, error) {
	if p.Address == "" {
		return false, nil
	}
	_, err := q.ExecContext(ctx, `
		INSERT INTO people (id, name, address)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			address = excluded.address
	`, int64(p.ID), p.Name, p.Address)
	if err != nil {
		return false, fmt.Errorf("upsert person %d: %w", p.ID, err)
	}
	return true, nil
}

func ensureAsset(ctx context.Context, q querier, a model.Asset) (bool, error) {
	res, err := q.ExecContext(ctx, `
		INSERT INTO assets (tag, model, description)
		VALUES (?, ?, ?)
		ON CONFLICT(tag) DO NOTHING
	`, a.Tag, a.Model, a.Description)
	if err != nil {
		return false, fmt.Errorf("ensure asset %q: %w", a.Tag, err)
	}
	return affectedOne(res, "ensure asset")
}

func insertTransaction(ctx context.Context, q querier, nt NewTransaction) (int64, error) {
	res, err := q.ExecContext(ctx, `
		INSERT INTO transactions
		(reference, person_id, asset_tag, issue_type, issue, issue_inferred, check_in_at, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, 'open')
	`,
		nt.Reference,
		int64(nt.PersonID),
		nt.AssetTag,
		string(nt.IssueType),
		nt.Issue,
		nt.IssueInferred,
		formatTime(nt.CheckInAt),
	)
	if err != nil {
		return 0, fmt.Errorf("insert transaction: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert transaction: last insert id: %w", err)
	}
	return id, nil
}

func closeTransaction(ctx context.Context, q querier, id int64, at time.Time) (bool, error) {
	// The status guard makes this the single linearization point for
	// concurrent check-outs: exactly one caller sees one affected row.
	res, err := q.ExecContext(ctx, `
		UPDATE transactions
		SET status = 'closed',
			check_out_at = MAX(?, check_in_at)
		WHERE id = ? AND status = 'open'
	`, formatTime(at), id)
	if err != nil {
		return false, fmt.Errorf("close transaction %d: %w", id, err)
	}
	return affectedOne(res, "close transaction")
}

func affectedOne(res sql.Result, op string) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: rows affected: %w", op, err)
	}
	return n == 1, nil
}
