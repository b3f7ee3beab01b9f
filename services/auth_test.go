package services

import (
	"errors"
	"testing"

	"finplan/backend/models"
)

func TestPasswordHashAndCheck(t *testing.T) {
	hash, err := HashPassword("hunter2-but-longer")
	if err != nil {
		t.Fatal(err)
	}
	if hash == "hunter2-but-longer" {
		t.Error("Hash equals plaintext password")
	}

	if err := CheckPassword(hash, "hunter2-but-longer"); err != nil {
		t.Errorf("Expected matching password to verify, got %v", err)
	}

	err = CheckPassword(hash, "wrong-password")
	var authErr *models.AuthError
	if !errors.As(err, &authErr) {
		t.Errorf("Expected AuthError for wrong password, got %v", err)
	}
}

func TestIssueAndParseToken(t *testing.T) {
	InitializeAuth("unit-test-secret")

	token, err := IssueToken("owner-7")
	if err != nil {
		t.Fatal(err)
	}

	ownerID, err := ParseToken(token)
	if err != nil {
		t.Fatalf("Expected issued token to parse, got %v", err)
	}
	if ownerID != "owner-7" {
		t.Errorf("Expected owner-7, got %s", ownerID)
	}
}

func TestParseTokenRejectsInvalid(t *testing.T) {
	InitializeAuth("unit-test-secret")

	for _, bad := range []string{"", "garbage", "a.b.c"} {
		_, err := ParseToken(bad)
		var authErr *models.AuthError
		if !errors.As(err, &authErr) {
			t.Errorf("Expected AuthError for %q, got %v", bad, err)
		}
	}
}
