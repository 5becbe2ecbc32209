package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/roach88/desk/internal/model"
)

// createTestStore creates a new store in a temp directory for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// baseTime is an arbitrary fixed instant used across store tests.
var baseTime = time.Date(2024, 3, 4, 9, 30, 0, 0, time.UTC)

// seedOpen ensures both parents and inserts an open transaction.
func seedOpen(t *testing.T, s *Store, person model.PersonID, tag string, at time.Time) int64 {
	t.Helper()
	ctx := context.Background()

	if _, err := s.EnsurePerson(ctx, model.Person{ID: person}); err != nil {
		t.Fatalf("EnsurePerson() failed: %v", err)
	}
	if _, err := s.EnsureAsset(ctx, model.Asset{Tag: tag}); err != nil {
		t.Fatalf("EnsureAsset() failed: %v", err)
	}

	id, err := s.InsertTransaction(ctx, NewTransaction{
		Reference: tag + "-" + at.Format(time.RFC3339Nano),
		PersonID:  person,
		AssetTag:  tag,
		IssueType: model.IssueHardwareFailure,
		Issue:     "Screen cracked",
		CheckInAt: at,
	})
	if err != nil {
		t.Fatalf("InsertTransaction() failed: %v", err)
	}
	return id
}
