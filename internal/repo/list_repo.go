package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"shoplist/internal/domain"
)

// ListRepo provides shopping list and item persistence. Every lookup
// that takes a userID filters on it in the same statement, so a list
// owned by someone else scans as pgx.ErrNoRows just like a missing
// one.
type ListRepo interface {
	CreateWithItems(ctx context.Context, userID uuid.UUID, open bool, items []domain.Item) (domain.ShoppingList, error)
	ListByUser(ctx context.Context, userID uuid.UUID, open *bool) ([]domain.ShoppingList, error)
	GetOwned(ctx context.Context, userID, listID uuid.UUID) (domain.ShoppingList, error)
	HasOpenList(ctx context.Context, userID uuid.UUID, exclude *uuid.UUID) (bool, error)
	SetOpen(ctx context.Context, userID, listID uuid.UUID, open bool) (domain.ShoppingList, error)
	ItemsByList(ctx context.Context, listID uuid.UUID) ([]domain.Item, error)
	SetItemOpen(ctx context.Context, listID, itemID uuid.UUID, open bool) (domain.Item, error)
}

// PGListRepo implements ListRepo with Postgres.
type PGListRepo struct {
	db *pgxpool.Pool
}

// NewPGListRepo returns a new PGListRepo.
func NewPGListRepo(db *pgxpool.Pool) *PGListRepo {
	return &PGListRepo{db: db}
}

const listColumns = `id, user_id, open, created, updated`

// CreateWithItems inserts the list and all of its items in one
// transaction. Item positions follow the slice order.
func (r *PGListRepo) CreateWithItems(ctx context.Context, userID uuid.UUID, open bool, items []domain.Item) (domain.ShoppingList, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return domain.ShoppingList{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var list domain.ShoppingList
	err = tx.QueryRow(ctx, `
		INSERT INTO shopping_lists (user_id, open)
		VALUES ($1, $2)
		RETURNING `+listColumns,
		userID, open,
	).Scan(&list.ID, &list.UserID, &list.Open, &list.Created, &list.Updated)
	if err != nil {
		return domain.ShoppingList{}, err
	}

	for i, item := range items {
		_, err := tx.Exec(ctx, `
			INSERT INTO items (list_id, name, open, position)
			VALUES ($1, $2, $3, $4)`,
			list.ID, item.Name, item.Open, i,
		)
		if err != nil {
			return domain.ShoppingList{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.ShoppingList{}, fmt.Errorf("commit: %w", err)
	}
	return list, nil
}

// ListByUser returns the user's lists, optionally filtered by open
// state, in creation order.
func (r *PGListRepo) ListByUser(ctx context.Context, userID uuid.UUID, open *bool) ([]domain.ShoppingList, error) {
	query := `SELECT ` + listColumns + ` FROM shopping_lists WHERE user_id = $1`
	args := []interface{}{userID}
	if open != nil {
		query += ` AND open = $2`
		args = append(args, *open)
	}
	query += ` ORDER BY created`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var lists []domain.ShoppingList
	for rows.Next() {
		var l domain.ShoppingList
		if err := rows.Scan(&l.ID, &l.UserID, &l.Open, &l.Created, &l.Updated); err != nil {
			return nil, err
		}
		lists = append(lists, l)
	}
	return lists, rows.Err()
}

// GetOwned returns the list only if it belongs to userID.
func (r *PGListRepo) GetOwned(ctx context.Context, userID, listID uuid.UUID) (domain.ShoppingList, error) {
	var l domain.ShoppingList
	err := r.db.QueryRow(ctx,
		`SELECT `+listColumns+` FROM shopping_lists WHERE id = $1 AND user_id = $2`,
		listID, userID,
	).Scan(&l.ID, &l.UserID, &l.Open, &l.Created, &l.Updated)
	return l, err
}

// HasOpenList reports whether the user has an open list, optionally
// excluding one list id from the check.
func (r *PGListRepo) HasOpenList(ctx context.Context, userID uuid.UUID, exclude *uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM shopping_lists WHERE user_id = $1 AND open)`
	args := []interface{}{userID}
	if exclude != nil {
		query = `SELECT EXISTS (SELECT 1 FROM shopping_lists WHERE user_id = $1 AND open AND id <> $2)`
		args = append(args, *exclude)
	}
	var exists bool
	err := r.db.QueryRow(ctx, query, args...).Scan(&exists)
	return exists, err
}

// SetOpen updates the open flag of an owned list. Ownership is part of
// the UPDATE predicate, so a foreign list yields pgx.ErrNoRows.
func (r *PGListRepo) SetOpen(ctx context.Context, userID, listID uuid.UUID, open bool) (domain.ShoppingList, error) {
	var l domain.ShoppingList
	err := r.db.QueryRow(ctx, `
		UPDATE shopping_lists SET open = $3, updated = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING `+listColumns,
		listID, userID, open,
	).Scan(&l.ID, &l.UserID, &l.Open, &l.Created, &l.Updated)
	return l, err
}

const itemColumns = `id, list_id, name, open, position, created, updated`

// ItemsByList returns the items of a list in creation order.
func (r *PGListRepo) ItemsByList(ctx context.Context, listID uuid.UUID) ([]domain.Item, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+itemColumns+` FROM items WHERE list_id = $1 ORDER BY position`,
		listID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []domain.Item
	for rows.Next() {
		var it domain.Item
		if err := rows.Scan(&it.ID, &it.ListID, &it.Name, &it.Open, &it.Position, &it.Created, &it.Updated); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// SetItemOpen updates the open flag of an item scoped to its list.
func (r *PGListRepo) SetItemOpen(ctx context.Context, listID, itemID uuid.UUID, open bool) (domain.Item, error) {
	var it domain.Item
	err := r.db.QueryRow(ctx, `
		UPDATE items SET open = $3, updated = NOW()
		WHERE id = $2 AND list_id = $1
		RETURNING `+itemColumns,
		listID, itemID, open,
	).Scan(&it.ID, &it.ListID, &it.Name, &it.Open, &it.Position, &it.Created, &it.Updated)
	return it, err
}
