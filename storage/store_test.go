package storage

import (
	"database/sql"
	"errors"
	"reflect"
	"testing"
	"time"

	"finplan/backend/models"

	_ "github.com/mattn/go-sqlite3"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`
		CREATE TABLE transactions (
			id TEXT PRIMARY KEY,
			owner_id TEXT NOT NULL,
			name TEXT NOT NULL,
			amount REAL NOT NULL,
			type TEXT NOT NULL,
			start_date TEXT NOT NULL,
			frequency TEXT NOT NULL,
			interval INTEGER NOT NULL,
			end_date TEXT,
			skip_dates TEXT NOT NULL DEFAULT '[]',
			modifications TEXT NOT NULL DEFAULT '{}'
		)
	`)
	if err != nil {
		t.Fatal(err)
	}
	return New(db)
}

func sampleTransaction(id, owner string) models.Transaction {
	return models.Transaction{
		ID:        id,
		OwnerID:   owner,
		Name:      "Internet",
		Amount:    49.99,
		Type:      models.TypeExpense,
		StartDate: models.NewDate(2024, time.January, 5),
		Frequency: models.FrequencyMonths,
		Interval:  1,
	}
}

func TestAddAndGetRoundTrip(t *testing.T) {
	store := setupStore(t)

	end := models.NewDate(2025, time.January, 5)
	amount := 59.99
	tx := sampleTransaction("tx-1", "owner-a")
	tx.EndDate = &end
	tx.SkipDates = []models.Date{models.NewDate(2024, time.March, 5)}
	tx.Modifications = map[string]models.Override{
		"2024-06-05": {Amount: &amount},
	}

	added, err := store.Add(tx)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	got, err := store.Get("tx-1", "owner-a")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !reflect.DeepEqual(got, added) {
		t.Errorf("Round trip mismatch:\nstored: %+v\nloaded: %+v", added, got)
	}
}

func TestAddRejectsInvalidRecord(t *testing.T) {
	store := setupStore(t)

	tx := sampleTransaction("tx-1", "owner-a")
	tx.Interval = 0
	_, err := store.Add(tx)
	var vErr *models.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("Expected ValidationError for zero interval, got %v", err)
	}

	// Nothing may be persisted on a validation failure.
	if _, err := store.Get("tx-1", "owner-a"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected no record after failed add, got %v", err)
	}
}

func TestAddDuplicateID(t *testing.T) {
	store := setupStore(t)

	if _, err := store.Add(sampleTransaction("tx-1", "owner-a")); err != nil {
		t.Fatal(err)
	}
	_, err := store.Add(sampleTransaction("tx-1", "owner-a"))
	if !errors.Is(err, models.ErrDuplicateID) {
		t.Errorf("Expected ErrDuplicateID, got %v", err)
	}
}

func TestListScopedToOwner(t *testing.T) {
	store := setupStore(t)

	for _, tx := range []models.Transaction{
		sampleTransaction("tx-1", "owner-a"),
		sampleTransaction("tx-2", "owner-a"),
		sampleTransaction("tx-3", "owner-b"),
	} {
		if _, err := store.Add(tx); err != nil {
			t.Fatal(err)
		}
	}

	listed, err := store.List("owner-a")
	if err != nil {
		t.Fatal(err)
	}
	if len(listed) != 2 {
		t.Errorf("Expected 2 records for owner-a, got %d", len(listed))
	}

	empty, err := store.List("owner-c")
	if err != nil {
		t.Fatal(err)
	}
	if len(empty) != 0 {
		t.Errorf("Expected no records for unknown owner, got %d", len(empty))
	}
}

func TestUpdateReplacesWholesale(t *testing.T) {
	store := setupStore(t)

	if _, err := store.Add(sampleTransaction("tx-1", "owner-a")); err != nil {
		t.Fatal(err)
	}

	replacement := sampleTransaction("ignored", "ignored")
	replacement.Name = "Fiber internet"
	replacement.Amount = 65
	replacement.Frequency = models.FrequencyWeeks
	replacement.Interval = 4

	updated, err := store.Update("tx-1", "owner-a", replacement)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.ID != "tx-1" || updated.OwnerID != "owner-a" {
		t.Errorf("Update must not change id/owner, got %s/%s", updated.ID, updated.OwnerID)
	}

	got, err := store.Get("tx-1", "owner-a")
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "Fiber internet" || got.Interval != 4 {
		t.Errorf("Expected replaced fields, got %+v", got)
	}
}

func TestOwnershipIsolation(t *testing.T) {
	store := setupStore(t)

	original := sampleTransaction("tx-1", "owner-a")
	if _, err := store.Add(original); err != nil {
		t.Fatal(err)
	}

	// Update with another account's identity fails and changes nothing.
	replacement := sampleTransaction("tx-1", "owner-b")
	replacement.Name = "Hijacked"
	if _, err := store.Update("tx-1", "owner-b", replacement); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for foreign update, got %v", err)
	}

	// Delete under the wrong owner fails the same way.
	if err := store.Delete("tx-1", "owner-b"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for foreign delete, got %v", err)
	}

	got, err := store.Get("tx-1", "owner-a")
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != original.Name {
		t.Errorf("Record changed by foreign update: %+v", got)
	}
}

func TestDeleteIsNotIdempotent(t *testing.T) {
	store := setupStore(t)

	if _, err := store.Add(sampleTransaction("tx-1", "owner-a")); err != nil {
		t.Fatal(err)
	}
	if err := store.Delete("tx-1", "owner-a"); err != nil {
		t.Fatalf("First delete failed: %v", err)
	}
	if err := store.Delete("tx-1", "owner-a"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected ErrNotFound on second delete, got %v", err)
	}
}

func TestGetDefaultsLegacyEmptyBlobs(t *testing.T) {
	store := setupStore(t)

	// Rows written before the exception columns were populated hold empty
	// strings rather than [] / {}.
	_, err := store.db.Exec(`
		INSERT INTO transactions (id, owner_id, name, amount, type, start_date, frequency, interval, skip_dates, modifications)
		VALUES ('tx-legacy', 'owner-a', 'Gym', 30, 'expense', '2024-01-01', 'months', 1, '', '')
	`)
	if err != nil {
		t.Fatal(err)
	}

	got, err := store.Get("tx-legacy", "owner-a")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(got.SkipDates) != 0 || len(got.Modifications) != 0 {
		t.Errorf("Expected empty exception sets, got %+v", got)
	}
}
