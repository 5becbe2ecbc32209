package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/desk/internal/model"
)

// GetTransaction returns the transaction with the given id, or ErrNotFound.
func (s *Store) GetTransaction(ctx context.Context, id int64) (model.Transaction, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+transactionColumns+transactionFrom+`
		WHERE t.id = ?
	`, id)

	tx, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Transaction{}, fmt.Errorf("transaction %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.Transaction{}, fmt.Errorf("get transaction %d: %w", id, err)
	}
	return tx, nil
}

// ActiveTransactions returns every open transaction, most recent check-in first.
//
// Returns an empty slice (not nil) when nothing is open.
func (s *Store) ActiveTransactions(ctx context.Context) ([]model.Transaction, error) {
	return s.queryTransactions(ctx, "active", `
		WHERE t.status = 'open'
		ORDER BY t.check_in_at DESC, t.id DESC
	`)
}

// CompletedTransactions returns every closed transaction, most recent check-out first.
//
// Returns an empty slice (not nil) when nothing is closed.
func (s *Store) CompletedTransactions(ctx context.Context) ([]model.Transaction, error) {
	return s.queryTransactions(ctx, "completed", `
		WHERE t.status = 'closed'
		ORDER BY t.check_out_at DESC, t.id DESC
	`)
}

// AllTransactions returns the full ledger in id order.
// This is the scan the reporting engine consumes.
func (s *Store) AllTransactions(ctx context.Context) ([]model.Transaction, error) {
	return s.queryTransactions(ctx, "all", `
		ORDER BY t.id ASC
	`)
}

func (s *Store) queryTransactions(ctx context.Context, label, tail string) ([]model.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+transactionColumns+transactionFrom+tail)
	if err != nil {
		return nil, fmt.Errorf("query %s transactions: %w", label, err)
	}
	defer rows.Close()

	txs := []model.Transaction{}
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s transaction: %w", label, err)
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s transactions: %w", label, err)
	}
	return txs, nil
}

// GetPerson returns the directory record for id, or ErrNotFound.
func (s *Store) GetPerson(ctx context.Context, id model.PersonID) (model.Person, error) {
	var p model.Person
	var raw int64
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, address FROM people WHERE id = ?
	`, int64(id)).Scan(&raw, &p.Name, &p.Address)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Person{}, fmt.Errorf("person %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.Person{}, fmt.Errorf("get person %d: %w", id, err)
	}
	p.ID = model.PersonID(raw)
	return p, nil
}

// GetAsset returns the directory record for tag, or ErrNotFound.
func (s *Store) GetAsset(ctx context.Context, tag string) (model.Asset, error) {
	var a model.Asset
	err := s.db.QueryRowContext(ctx, `
		SELECT tag, model, description FROM assets WHERE tag = ?
	`, tag).Scan(&a.Tag, &a.Model, &a.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Asset{}, fmt.Errorf("asset %q: %w", tag, ErrNotFound)
	}
	if err != nil {
		return model.Asset{}, fmt.Errorf("get asset %q: %w", tag, err)
	}
	return a, nil
}

// Receipt returns a transaction together with its person and asset records.
func (s *Store) Receipt(ctx context.Context, id int64) (model.Receipt, error) {
	tx, err := s.GetTransaction(ctx, id)
	if err != nil {
		return model.Receipt{}, err
	}

	person, err := s.GetPerson(ctx, tx.PersonID)
	if err != nil {
		return model.Receipt{}, fmt.Errorf("receipt %d: %w", id, err)
	}

	asset, err := s.GetAsset(ctx, tx.AssetTag)
	if err != nil {
		return model.Receipt{}, fmt.Errorf("receipt %d: %w", id, err)
	}

	return model.Receipt{
		Confirmation: tx.Confirmation(),
		Transaction:  tx,
		Person:       person,
		Asset:        asset,
	}, nil
}

// Counts returns the number of open and closed transactions.
func (s *Store) Counts(ctx context.Context) (model.Counts, error) {
	var c model.Counts
	err := s.db.QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(CASE WHEN status = 'open' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'closed' THEN 1 ELSE 0 END), 0)
		FROM transactions
	`).Scan(&c.Active, &c.Completed)
	if err != nil {
		return model.Counts{}, fmt.Errorf("count transactions: %w", err)
	}
	return c, nil
}

// DirectorySize returns the number of people and assets on record.
func (s *Store) DirectorySize(ctx context.Context) (people, assets int, err error) {
	err = s.db.QueryRowContext(ctx, `
		SELECT (SELECT COUNT(*) FROM people), (SELECT COUNT(*) FROM assets)
	`).Scan(&people, &assets)
	if err != nil {
		return 0, 0, fmt.Errorf("count directory: %w", err)
	}
	return people, assets, nil
}
