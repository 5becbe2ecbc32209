package model

import (
	"fmt"
	"time"
)

// PersonID identifies a Person. Supplied by the caller, never generated.
type PersonID int64

// String renders the identifier in decimal.
func (id PersonID) String() string {
	return fmt.Sprintf("%d", int64(id))
}

// Person is a directory record for someone who hands in equipment.
type Person struct {
	ID      PersonID `json:"id"`
	Name    string   `json:"name"`
	Address string   `json:"address"`
}

// Asset is a directory record for a piece of loaner equipment.
// Model and Description are curated outside the ledger and never overwritten by it.
type Asset struct {
	Tag         string `json:"tag"`
	Model       string `json:"model"`
	Description string `json:"description"`
}

// Status is the ledger state of a Transaction.
type Status string

const (
	StatusOpen   Status = "open"
	StatusClosed Status = "closed"
)

// ValidStatuses defines the allowed transaction states.
var ValidStatuses = map[Status]bool{
	StatusOpen:   true,
	StatusClosed: true,
}

// ParseStatus resolves a stored status name.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !ValidStatuses[st] {
		return "", fmt.Errorf("unknown transaction status %q", s)
	}
	return st, nil
}

// Transaction is one custody entry in the ledger.
//
// CheckOutAt is nil exactly when Status is StatusOpen.
type Transaction struct {
	ID         int64     `json:"id"`
	Reference  string    `json:"reference"`
	PersonID   PersonID  `json:"person_id"`
	PersonName string    `json:"person_name,omitempty"`
	AssetTag   string    `json:"asset_tag"`
	IssueType  IssueType `json:"issue_type"`
	Issue      string    `json:"issue"`

	// IssueInferred is set when the issue text carried no type prefix and
	// IssueType was defaulted; Issue then holds the text as entered.
	IssueInferred bool `json:"issue_inferred,omitempty"`

	CheckInAt  time.Time  `json:"check_in_at"`
	CheckOutAt *time.Time `json:"check_out_at,omitempty"`
	Status     Status     `json:"status"`
}

// Description returns the issue as entered: the combined
// "<Type>: <details>" text, or the bare text when no type was given.
func (t Transaction) Description() string {
	if t.IssueInferred {
		return t.Issue
	}
	return ComposeIssue(t.IssueType, t.Issue)
}

// IsClosed reports whether the transaction reached its terminal state.
func (t Transaction) IsClosed() bool {
	return t.Status == StatusClosed
}

// Turnaround returns the time between check-in and check-out.
// The second value is false while the transaction is open.
func (t Transaction) Turnaround() (time.Duration, bool) {
	if t.CheckOutAt == nil {
		return 0, false
	}
	return t.CheckOutAt.Sub(t.CheckInAt), true
}

// Consistent reports whether the status and timestamps agree:
// CheckOutAt is set iff closed, and never precedes CheckInAt.
func (t Transaction) Consistent() bool {
	switch t.Status {
	case StatusOpen:
		return t.CheckOutAt == nil
	case StatusClosed:
		return t.CheckOutAt != nil && !t.CheckOutAt.Before(t.CheckInAt)
	default:
		return false
	}
}

// Confirmation returns the confirmation number printed on receipts,
// derived from the transaction id ("CN-000042").
func (t Transaction) Confirmation() string {
	return fmt.Sprintf("CN-%06d", t.ID)
}

// Receipt bundles a transaction with its resolved directory records.
// Consumed by receipt and email collaborators; layout is theirs.
type Receipt struct {
	Confirmation string      `json:"confirmation"`
	Transaction  Transaction `json:"transaction"`
	Person       Person      `json:"person"`
	Asset        Asset       `json:"asset"`
}

// Counts summarizes the ledger for dashboards.
type Counts struct {
	Active    int `json:"active"`
	Completed int `json:"completed"`
}
