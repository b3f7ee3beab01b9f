package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"finplan/backend/database"
	"finplan/backend/security"
)

// SetSuggestionKey stores or replaces a user's suggestion-service API key,
// encrypted at rest.
func SetSuggestionKey(userID, apiKey string) error {
	encrypted, err := security.Encrypt(apiKey)
	if err != nil {
		return fmt.Errorf("failed to encrypt API key: %w", err)
	}

	_, err = database.DB.Exec(`
		INSERT INTO suggestion_keys (user_id, api_key, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			api_key = excluded.api_key,
			updated_at = excluded.updated_at
	`, userID, encrypted, time.Now())
	if err != nil {
		return fmt.Errorf("failed to store API key: %w", err)
	}
	return nil
}

// GetSuggestionKey returns the user's decrypted API key, or "" when the user
// has not configured one.
func GetSuggestionKey(userID string) (string, error) {
	var encrypted string
	err := database.DB.QueryRow(`SELECT api_key FROM suggestion_keys WHERE user_id = ?`, userID).Scan(&encrypted)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to load API key: %w", err)
	}

	apiKey, err := security.Decrypt(encrypted)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt API key: %w", err)
	}
	return apiKey, nil
}

// DeleteSuggestionKey removes the user's stored API key. Missing keys are
// not an error.
func DeleteSuggestionKey(userID string) error {
	_, err := database.DB.Exec(`DELETE FROM suggestion_keys WHERE user_id = ?`, userID)
	return err
}
