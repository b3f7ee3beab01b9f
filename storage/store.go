// Package storage persists transaction records in sqlite, scoped to the
// owning account on every operation.
package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"finplan/backend/models"

	"github.com/mattn/go-sqlite3"
)

// Store is the transaction persistence boundary. Every read and mutation
// carries the owner id in the same SQL statement, so ownership can never be
// checked separately from the operation it guards.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Add validates and persists a new record. It returns models.ErrDuplicateID
// when the id already exists; duplicate detection rides on the primary key
// constraint, atomic with the insert itself.
func (s *Store) Add(tx models.Transaction) (models.Transaction, error) {
	tx.Normalize()
	if err := tx.Validate(); err != nil {
		return models.Transaction{}, err
	}

	skipBlob, modBlob, err := encodeExceptions(tx)
	if err != nil {
		return models.Transaction{}, err
	}

	_, err = s.db.Exec(`
		INSERT INTO transactions (id, owner_id, name, amount, type, start_date, frequency, interval, end_date, skip_dates, modifications)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, tx.ID, tx.OwnerID, tx.Name, tx.Amount, tx.Type, tx.StartDate.String(), tx.Frequency, tx.Interval,
		nullableDate(tx.EndDate), skipBlob, modBlob)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
			return models.Transaction{}, models.ErrDuplicateID
		}
		return models.Transaction{}, fmt.Errorf("failed to insert transaction: %w", err)
	}

	return tx, nil
}

// Get returns the record with the given id, or models.ErrNotFound when it
// does not exist for that owner.
func (s *Store) Get(id, ownerID string) (models.Transaction, error) {
	row := s.db.QueryRow(`
		SELECT id, owner_id, name, amount, type, start_date, frequency, interval, end_date, skip_dates, modifications
		FROM transactions
		WHERE id = ? AND owner_id = ?
	`, id, ownerID)

	tx, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Transaction{}, models.ErrNotFound
	}
	return tx, err
}

// List returns every record for the owner, ordered by start date for stable
// presentation.
func (s *Store) List(ownerID string) ([]models.Transaction, error) {
	rows, err := s.db.Query(`
		SELECT id, owner_id, name, amount, type, start_date, frequency, interval, end_date, skip_dates, modifications
		FROM transactions
		WHERE owner_id = ?
		ORDER BY start_date, id
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	transactions := []models.Transaction{}
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, tx)
	}
	return transactions, rows.Err()
}

// Update replaces every mutable field of the record wholesale. The id and
// owner never change; an id owned by another account reports
// models.ErrNotFound.
func (s *Store) Update(id, ownerID string, tx models.Transaction) (models.Transaction, error) {
	tx.ID = id
	tx.OwnerID = ownerID
	tx.Normalize()
	if err := tx.Validate(); err != nil {
		return models.Transaction{}, err
	}

	skipBlob, modBlob, err := encodeExceptions(tx)
	if err != nil {
		return models.Transaction{}, err
	}

	result, err := s.db.Exec(`
		UPDATE transactions
		SET name = ?, amount = ?, type = ?, start_date = ?, frequency = ?, interval = ?, end_date = ?, skip_dates = ?, modifications = ?
		WHERE id = ? AND owner_id = ?
	`, tx.Name, tx.Amount, tx.Type, tx.StartDate.String(), tx.Frequency, tx.Interval,
		nullableDate(tx.EndDate), skipBlob, modBlob, id, ownerID)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("failed to update transaction: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return models.Transaction{}, err
	}
	if affected == 0 {
		return models.Transaction{}, models.ErrNotFound
	}
	return tx, nil
}

// Delete removes the record. Deleting an id that is absent, already deleted
// or owned by another account reports models.ErrNotFound.
func (s *Store) Delete(id, ownerID string) error {
	result, err := s.db.Exec(`DELETE FROM transactions WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.ErrNotFound
	}
	return nil
}

// encodeExceptions serializes the skip and modification sets to the text
// blobs the transactions table stores them as.
func encodeExceptions(tx models.Transaction) (string, string, error) {
	skipBlob, err := json.Marshal(tx.SkipDates)
	if err != nil {
		return "", "", fmt.Errorf("failed to encode skip dates: %w", err)
	}
	modBlob, err := json.Marshal(tx.Modifications)
	if err != nil {
		return "", "", fmt.Errorf("failed to encode modifications: %w", err)
	}
	return string(skipBlob), string(modBlob), nil
}

func nullableDate(d *models.Date) interface{} {
	if d == nil {
		return nil
	}
	return d.String()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTransaction(row rowScanner) (models.Transaction, error) {
	var tx models.Transaction
	var startDate string
	var endDate sql.NullString
	var skipBlob, modBlob string

	err := row.Scan(&tx.ID, &tx.OwnerID, &tx.Name, &tx.Amount, &tx.Type, &startDate,
		&tx.Frequency, &tx.Interval, &endDate, &skipBlob, &modBlob)
	if err != nil {
		return models.Transaction{}, err
	}

	tx.StartDate, err = models.ParseDate(startDate)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("corrupt start date for %s: %w", tx.ID, err)
	}
	if endDate.Valid {
		parsed, err := models.ParseDate(endDate.String)
		if err != nil {
			return models.Transaction{}, fmt.Errorf("corrupt end date for %s: %w", tx.ID, err)
		}
		tx.EndDate = &parsed
	}

	if skipBlob == "" {
		skipBlob = "[]"
	}
	if err := json.Unmarshal([]byte(skipBlob), &tx.SkipDates); err != nil {
		return models.Transaction{}, fmt.Errorf("corrupt skip dates for %s: %w", tx.ID, err)
	}
	if modBlob == "" {
		modBlob = "{}"
	}
	if err := json.Unmarshal([]byte(modBlob), &tx.Modifications); err != nil {
		return models.Transaction{}, fmt.Errorf("corrupt modifications for %s: %w", tx.ID, err)
	}

	tx.Normalize()
	return tx, nil
}
