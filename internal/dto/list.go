package dto

import (
	"time"

	"github.com/google/uuid"
)

// SubmitItem is one item of a list submission, and also the body of an
// item update. On update only Open is applied; Name is immutable after
// creation and silently ignored.
type SubmitItem struct {
	Name string `json:"name" binding:"required"`
	Open bool   `json:"open"`
}

// SubmitList is the JSON body for POST /lists/.
type SubmitList struct {
	Open  bool         `json:"open"`
	Items []SubmitItem `json:"items"`
}

// UpdateList is the JSON body for PUT /lists/{list_id}/. A nil Open
// means "no change"; Items is accepted for shape compatibility with
// SubmitList but never applied.
type UpdateList struct {
	Open  *bool        `json:"open"`
	Items []SubmitItem `json:"items"`
}

// ListResponse mirrors the stored shopping list row.
type ListResponse struct {
	ID      uuid.UUID `json:"id"`
	UserID  uuid.UUID `json:"user_id"`
	Open    bool      `json:"open"`
	Created time.Time `json:"created"`
	Updated time.Time `json:"updated"`
}

// ItemResponse mirrors a stored item row.
type ItemResponse struct {
	ID      uuid.UUID `json:"id"`
	ListID  uuid.UUID `json:"list_id"`
	Name    string    `json:"name"`
	Open    bool      `json:"open"`
	Created time.Time `json:"created"`
	Updated time.Time `json:"updated"`
}
