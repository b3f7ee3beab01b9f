package models

// User is an account that owns transaction records. PasswordHash never
// leaves the backend.
type User struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
}
