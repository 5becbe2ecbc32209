package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/roach88/desk/internal/model"
)

// timeLayout is fixed width with nanosecond precision and a literal UTC
// designator, so lexical comparison in SQL matches chronological order.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t.UTC(), nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// transactionColumns is the projection every transaction read selects, in
// the order scanTransaction expects.
const transactionColumns = `
	t.id, t.reference, t.person_id, COALESCE(p.name, ''), t.asset_tag,
	t.issue_type, t.issue, t.issue_inferred, t.check_in_at, t.check_out_at, t.status`

const transactionFrom = `
	FROM transactions t
	LEFT JOIN people p ON p.id = t.person_id`

func scanTransaction(row rowScanner) (model.Transaction, error) {
	var (
		tx         model.Transaction
		personID   int64
		issueType  string
		checkIn    string
		checkOut   sql.NullString
		statusText string
	)

	if err := row.Scan(
		&tx.ID,
		&tx.Reference,
		&personID,
		&tx.PersonName,
		&tx.AssetTag,
		&issueType,
		&tx.Issue,
		&tx.IssueInferred,
		&checkIn,
		&checkOut,
		&statusText,
	); err != nil {
		return model.Transaction{}, err
	}

	tx.PersonID = model.PersonID(personID)
	tx.IssueType = model.IssueType(issueType)

	status, err := model.ParseStatus(statusText)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("transaction %d: %w", tx.ID, err)
	}
	tx.Status = status

	at, err := parseTime(checkIn)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("transaction %d check-in: %w", tx.ID, err)
	}
	tx.CheckInAt = at

	if checkOut.Valid {
		out, err := parseTime(checkOut.String)
		if err != nil {
			return model.Transaction{}, fmt.Errorf("transaction %d check-out: %w", tx.ID, err)
		}
		tx.CheckOutAt = &out
	}

	return tx, nil
}
