package models

import "github.com/agrosuite/agrosync/internal/timex"

type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    timex.Timestamp
}
