package domain

import (
	"time"

	"github.com/google/uuid"
)

// ShoppingList is the domain entity for a user's shopping list.
// A user has at most one list with Open = true at a time.
type ShoppingList struct {
	ID     uuid.UUID
	UserID uuid.UUID
	Open   bool

	Created time.Time
	Updated time.Time
}

// Item is a single entry of a shopping list. Open means the item is
// still needed; a fulfilled item has Open = false. Name and Position
// are fixed at creation.
type Item struct {
	ID       uuid.UUID
	ListID   uuid.UUID
	Name     string
	Open     bool
	Position int

	Created time.Time
	Updated time.Time
}
