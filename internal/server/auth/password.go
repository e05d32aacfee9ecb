package auth

import (
	"github.com/agrosuite/agrosync/internal/common"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is enforced on registration, not on login, so existing
// accounts keep working if the policy ever tightens.
const MinPasswordLength = 6

func HashPassword(password string) (string, error) {
	if len(password) < MinPasswordLength {
		return "", common.ErrorValidation
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
