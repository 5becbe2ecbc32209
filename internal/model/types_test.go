package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTransactionConsistent(t *testing.T) {
	in := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	out := in.Add(90 * time.Minute)
	before := in.Add(-time.Minute)

	tests := []struct {
		name string
		tx   Transaction
		want bool
	}{
		{"open without check-out", Transaction{Status: StatusOpen, CheckInAt: in}, true},
		{"open with check-out", Transaction{Status: StatusOpen, CheckInAt: in, CheckOutAt: &out}, false},
		{"closed with check-out", Transaction{Status: StatusClosed, CheckInAt: in, CheckOutAt: &out}, true},
		{"closed at same instant", Transaction{Status: StatusClosed, CheckInAt: in, CheckOutAt: &in}, true},
		{"closed without check-out", Transaction{Status: StatusClosed, CheckInAt: in}, false},
		{"closed before check-in", Transaction{Status: StatusClosed, CheckInAt: in, CheckOutAt: &before}, false},
		{"unknown status", Transaction{Status: "lost", CheckInAt: in}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.tx.Consistent())
		})
	}
}

func TestTransactionTurnaround(t *testing.T) {
	in := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	tx := Transaction{Status: StatusOpen, CheckInAt: in}

	_, ok := tx.Turnaround()
	assert.False(t, ok)

	out := in.Add(26 * time.Hour)
	tx.Status = StatusClosed
	tx.CheckOutAt = &out
	d, ok := tx.Turnaround()
	assert.True(t, ok)
	assert.Equal(t, 26*time.Hour, d)
}

func TestTransactionDescription(t *testing.T) {
	tx := Transaction{IssueType: IssueHardwareFailure, Issue: "won't boot"}
	assert.Equal(t, "Hardware Failure: won't boot", tx.Description())

	untyped := Transaction{IssueType: IssueOther, Issue: "won't boot", IssueInferred: true}
	assert.Equal(t, "won't boot", untyped.Description())

	explicit := Transaction{IssueType: IssueOther, Issue: "won't boot"}
	assert.Equal(t, "Other: won't boot", explicit.Description())
}

func TestTransactionConfirmation(t *testing.T) {
	assert.Equal(t, "CN-000042", Transaction{ID: 42}.Confirmation())
	assert.Equal(t, "CN-1234567", Transaction{ID: 1234567}.Confirmation())
}

func TestParseStatus(t *testing.T) {
	st, err := ParseStatus("open")
	assert.NoError(t, err)
	assert.Equal(t, StatusOpen, st)

	st, err = ParseStatus("closed")
	assert.NoError(t, err)
	assert.Equal(t, StatusClosed, st)

	_, err = ParseStatus("lost")
	assert.ErrorContains(t, err, `unknown transaction status "lost"`)
}

func TestContainsFold(t *testing.T) {
	assert.True(t, ContainsFold("Hardware Failure: Won't boot", "WON'T"))
	assert.True(t, ContainsFold("Straße", "STRASSE"))
	assert.True(t, ContainsFold("anything", ""))
	assert.False(t, ContainsFold("PC-7", "pc-8"))
}
