package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"finplan/backend/database"
	"finplan/backend/models"
	"finplan/backend/services"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token    string `json:"token"`
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

// RegisterUser creates an account and returns a session token for it.
func RegisterUser(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, models.NewValidationError("body", err.Error()))
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" {
		writeError(w, models.NewValidationError("username", "must not be empty"))
		return
	}
	if len(req.Password) < 8 {
		writeError(w, models.NewValidationError("password", "must be at least 8 characters"))
		return
	}

	hash, err := services.HashPassword(req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	userID := uuid.NewString()
	_, err = database.DB.Exec(`INSERT INTO users (id, username, password_hash) VALUES (?, ?, ?)`,
		userID, req.Username, hash)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
			writeJSON(w, http.StatusConflict, errorResponse{Error: "username already taken"})
			return
		}
		writeError(w, err)
		return
	}

	token, err := services.IssueToken(userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sessionResponse{Token: token, UserID: userID, Username: req.Username})
}

// LoginUser verifies credentials and issues a session token. Unknown
// usernames and wrong passwords are reported identically.
func LoginUser(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, models.NewValidationError("body", err.Error()))
		return
	}

	var user models.User
	err := database.DB.QueryRow(`SELECT id, username, password_hash FROM users WHERE username = ?`,
		strings.TrimSpace(req.Username)).Scan(&user.ID, &user.Username, &user.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, &models.AuthError{Reason: "invalid credentials"})
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}

	if err := services.CheckPassword(user.PasswordHash, req.Password); err != nil {
		writeError(w, err)
		return
	}

	token, err := services.IssueToken(user.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{Token: token, UserID: user.ID, Username: user.Username})
}
