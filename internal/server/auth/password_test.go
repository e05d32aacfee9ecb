package auth

import (
	"testing"

	"github.com/agrosuite/agrosync/internal/common"
)

func TestHashPassword_TooShort(t *testing.T) {
	t.Parallel()

	_, err := HashPassword("12345")
	if err != common.ErrorValidation {
		t.Fatalf("expected common.ErrorValidation, got %v", err)
	}
}

func TestHashAndCheckPassword(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("correct horse")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if hash == "correct horse" {
		t.Fatalf("hash equals plaintext")
	}

	if !CheckPassword(hash, "correct horse") {
		t.Fatalf("expected password to verify")
	}
	if CheckPassword(hash, "battery staple") {
		t.Fatalf("expected wrong password to fail")
	}
}
