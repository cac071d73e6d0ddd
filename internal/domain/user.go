package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is the domain entity for an account. Accounts are seeded
// out of band (scripts/seeduser.go); the API never creates them.
type User struct {
	ID           uuid.UUID
	Name         string
	PasswordHash string

	Created time.Time
	Updated time.Time
}
