package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"shoplist/internal/domain"
)

const (
	keyListsPrefix = "lists:"
	keyItemsPrefix = "items:"
)

// ListCache caches list and item reads in Redis. Writes go through
// the repository; every mutation invalidates the affected keys.
type ListCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewListCache returns a new ListCache.
func NewListCache(rdb *redis.Client, ttl time.Duration) *ListCache {
	return &ListCache{rdb: rdb, ttl: ttl}
}

// GetLists returns the cached lists of a user for the given filter, or
// nil on miss.
func (c *ListCache) GetLists(ctx context.Context, userID uuid.UUID, open *bool) ([]domain.ShoppingList, error) {
	b, err := c.rdb.Get(ctx, listsKey(userID, open)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var lists []domain.ShoppingList
	if err := json.Unmarshal(b, &lists); err != nil {
		return nil, err
	}
	return lists, nil
}

// SetLists stores a user's lists for the given filter.
func (c *ListCache) SetLists(ctx context.Context, userID uuid.UUID, open *bool, lists []domain.ShoppingList) error {
	b, err := json.Marshal(lists)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, listsKey(userID, open), b, c.ttl).Err()
}

// GetItems returns the cached items of a list, or nil on miss.
func (c *ListCache) GetItems(ctx context.Context, listID uuid.UUID) ([]domain.Item, error) {
	b, err := c.rdb.Get(ctx, keyItemsPrefix+listID.String()).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var items []domain.Item
	if err := json.Unmarshal(b, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// SetItems stores the items of a list.
func (c *ListCache) SetItems(ctx context.Context, listID uuid.UUID, items []domain.Item) error {
	b, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, keyItemsPrefix+listID.String(), b, c.ttl).Err()
}

// InvalidateLists removes all cached list views of a user.
func (c *ListCache) InvalidateLists(ctx context.Context, userID uuid.UUID) error {
	t, f := true, false
	return c.rdb.Del(ctx,
		listsKey(userID, nil),
		listsKey(userID, &t),
		listsKey(userID, &f),
	).Err()
}

// InvalidateItems removes the cached items of a list.
func (c *ListCache) InvalidateItems(ctx context.Context, listID uuid.UUID) error {
	return c.rdb.Del(ctx, keyItemsPrefix+listID.String()).Err()
}

func listsKey(userID uuid.UUID, open *bool) string {
	suffix := ":all"
	if open != nil {
		if *open {
			suffix = ":open"
		} else {
			suffix = ":closed"
		}
	}
	return keyListsPrefix + userID.String() + suffix
}
