package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/singleflight"

	"shoplist/internal/cache"
	"shoplist/internal/domain"
	"shoplist/internal/repo"
	"shoplist/internal/utils"
)

var (
	// ErrNotFound covers both missing resources and resources owned by
	// another user. The two cases are indistinguishable on purpose.
	ErrNotFound = errors.New("not found")
	// ErrEmptyList rejects list creation without items.
	ErrEmptyList = errors.New("cannot create an empty shopping list")
	// ErrOpenListExists rejects any change that would leave a user
	// with two open lists.
	ErrOpenListExists = errors.New("cannot have more than one open list")
)

// ListService implements the shopping list rules: at most one open
// list per user, lists and items only reachable by their owner.
type ListService struct {
	repo  repo.ListRepo
	cache *cache.ListCache
	sf    singleflight.Group
}

// NewListService creates a ListService. If c is nil, caching is
// disabled.
func NewListService(r repo.ListRepo, c *cache.ListCache) *ListService {
	return &ListService{repo: r, cache: c}
}

// Create persists a new list with its items as one unit. The list is
// stored open regardless of the submitted flag: the open-list check
// already guarantees no other open list exists, and a freshly created
// list is the one being shopped. Fails with ErrOpenListExists if the
// user already has an open list, ErrEmptyList if items is empty.
func (s *ListService) Create(ctx context.Context, userID uuid.UUID, items []domain.Item) (domain.ShoppingList, error) {
	hasOpen, err := s.repo.HasOpenList(ctx, userID, nil)
	if err != nil {
		return domain.ShoppingList{}, err
	}
	if hasOpen {
		return domain.ShoppingList{}, ErrOpenListExists
	}
	if len(items) == 0 {
		return domain.ShoppingList{}, ErrEmptyList
	}
	for i := range items {
		items[i].Name = strings.TrimSpace(items[i].Name)
	}
	list, err := s.repo.CreateWithItems(ctx, userID, true, items)
	if err != nil {
		// The partial unique index closes the check-then-insert race
		// between concurrent creations.
		if utils.IsPGUniqueViolation(err) {
			return domain.ShoppingList{}, ErrOpenListExists
		}
		return domain.ShoppingList{}, err
	}
	s.invalidateLists(ctx, userID)
	return list, nil
}

// Lists returns the user's lists, optionally filtered by open state.
func (s *ListService) Lists(ctx context.Context, userID uuid.UUID, open *bool) ([]domain.ShoppingList, error) {
	if s.cache != nil {
		key := "lists:" + userID.String() + ":" + filterKey(open)
		v, err, _ := s.sf.Do(key, func() (interface{}, error) {
			if lists, err := s.cache.GetLists(ctx, userID, open); err == nil && lists != nil {
				return lists, nil
			}
			lists, err := s.repo.ListByUser(ctx, userID, open)
			if err != nil {
				return nil, err
			}
			_ = s.cache.SetLists(ctx, userID, open, lists)
			return lists, nil
		})
		if err != nil {
			return nil, err
		}
		return v.([]domain.ShoppingList), nil
	}
	return s.repo.ListByUser(ctx, userID, open)
}

// Update changes the open state of an owned list. A nil open performs
// no mutation and returns the stored list with mutated = false.
// Opening a list fails with ErrOpenListExists while a different open
// list exists.
func (s *ListService) Update(ctx context.Context, userID, listID uuid.UUID, open *bool) (list domain.ShoppingList, mutated bool, err error) {
	list, err = s.repo.GetOwned(ctx, userID, listID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ShoppingList{}, false, ErrNotFound
		}
		return domain.ShoppingList{}, false, err
	}
	if open == nil {
		return list, false, nil
	}
	if *open {
		hasOther, err := s.repo.HasOpenList(ctx, userID, &listID)
		if err != nil {
			return domain.ShoppingList{}, false, err
		}
		if hasOther {
			return domain.ShoppingList{}, false, ErrOpenListExists
		}
	}
	list, err = s.repo.SetOpen(ctx, userID, listID, *open)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ShoppingList{}, false, ErrNotFound
		}
		if utils.IsPGUniqueViolation(err) {
			return domain.ShoppingList{}, false, ErrOpenListExists
		}
		return domain.ShoppingList{}, false, err
	}
	s.invalidateLists(ctx, userID)
	return list, true, nil
}

// Items returns the items of an owned list in creation order.
func (s *ListService) Items(ctx context.Context, userID, listID uuid.UUID) ([]domain.Item, error) {
	if _, err := s.repo.GetOwned(ctx, userID, listID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if s.cache != nil {
		key := "items:" + listID.String()
		v, err, _ := s.sf.Do(key, func() (interface{}, error) {
			if items, err := s.cache.GetItems(ctx, listID); err == nil && items != nil {
				return items, nil
			}
			items, err := s.repo.ItemsByList(ctx, listID)
			if err != nil {
				return nil, err
			}
			_ = s.cache.SetItems(ctx, listID, items)
			return items, nil
		})
		if err != nil {
			return nil, err
		}
		return v.([]domain.Item), nil
	}
	return s.repo.ItemsByList(ctx, listID)
}

// UpdateItem sets the open flag of an item in an owned list. The item
// name never changes after creation.
func (s *ListService) UpdateItem(ctx context.Context, userID, listID, itemID uuid.UUID, open bool) (domain.Item, error) {
	if _, err := s.repo.GetOwned(ctx, userID, listID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Item{}, ErrNotFound
		}
		return domain.Item{}, err
	}
	item, err := s.repo.SetItemOpen(ctx, listID, itemID, open)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Item{}, ErrNotFound
		}
		return domain.Item{}, err
	}
	if s.cache != nil {
		_ = s.cache.InvalidateItems(ctx, listID)
	}
	return item, nil
}

func (s *ListService) invalidateLists(ctx context.Context, userID uuid.UUID) {
	if s.cache != nil {
		_ = s.cache.InvalidateLists(ctx, userID)
	}
}

func filterKey(open *bool) string {
	if open == nil {
		return "all"
	}
	if *open {
		return "open"
	}
	return "closed"
}
