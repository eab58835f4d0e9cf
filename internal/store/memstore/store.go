// Package memstore is an in-process store.Store used for local development
// (DB_DRIVER=memory) and tests. Data is lost on restart.
package memstore

import (
	"context"
	"maps"
	"sort"
	"strings"
	"sync"

	"github.com/01moynul/cartify-golang/internal/models"
	"github.com/01moynul/cartify-golang/internal/store"
)

type Store struct {
	mu    sync.RWMutex
	users map[string]models.User
	items map[string]models.Item
	carts map[string]models.Cart // keyed by user id
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		users: make(map[string]models.User),
		items: make(map[string]models.Item),
		carts: make(map[string]models.Cart),
	}
}

func (s *Store) Close(ctx context.Context) error { return nil }

// --- users ---

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email == u.Email {
			return store.ErrDuplicate
		}
	}
	s.users[u.ID] = *u
	return nil
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, store.ErrNotFound
}

// --- items ---

func copyItem(it models.Item) models.Item {
	it.Translations = maps.Clone(it.Translations)
	return it
}

func (s *Store) CreateItem(ctx context.Context, it *models.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[it.ID]; ok {
		return store.ErrDuplicate
	}
	s.items[it.ID] = copyItem(*it)
	return nil
}

func (s *Store) GetItem(ctx context.Context, id string) (*models.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	it, ok := s.items[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	it = copyItem(it)
	return &it, nil
}

func (s *Store) GetItems(ctx context.Context, ids []string) (map[string]models.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]models.Item, len(ids))
	for _, id := range ids {
		if it, ok := s.items[id]; ok {
			out[id] = copyItem(it)
		}
	}
	return out, nil
}

func (s *Store) UpdateItem(ctx context.Context, it *models.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[it.ID]; !ok {
		return store.ErrNotFound
	}
	s.items[it.ID] = copyItem(*it)
	return nil
}

func (s *Store) DeleteItem(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.items, id)
	return nil
}

func matches(it models.Item, f models.ItemFilter) bool {
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(it.Title), q) && !strings.Contains(strings.ToLower(it.Description), q) {
			return false
		}
	}
	if f.Category != "" && !strings.EqualFold(it.Category, f.Category) {
		return false
	}
	if f.MinPrice != nil && it.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && it.Price > *f.MaxPrice {
		return false
	}
	return true
}

func (s *Store) ListItems(ctx context.Context, f models.ItemFilter) ([]models.Item, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []models.Item
	for _, it := range s.items {
		if matches(it, f) {
			matched = append(matched, copyItem(it))
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	total := int64(len(matched))
	start := min(f.Offset(), len(matched))
	end := min(start+f.Limit, len(matched))

	page := make([]models.Item, 0, end-start)
	page = append(page, matched[start:end]...)
	return page, total, nil
}

// --- carts ---

func copyCart(c models.Cart) models.Cart {
	c.Lines = append([]models.CartLine{}, c.Lines...)
	return c
}

func (s *Store) GetCartByUser(ctx context.Context, userID string) (*models.Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.carts[userID]
	if !ok {
		return nil, store.ErrNotFound
	}
	c = copyCart(c)
	return &c, nil
}

func (s *Store) CreateCart(ctx context.Context, c *models.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.carts[c.UserID]; ok {
		return store.ErrDuplicate
	}
	s.carts[c.UserID] = copyCart(*c)
	return nil
}

func (s *Store) SaveCart(ctx context.Context, c *models.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.carts[c.UserID]
	if !ok || existing.ID != c.ID {
		return store.ErrNotFound
	}
	s.carts[c.UserID] = copyCart(*c)
	return nil
}

func (s *Store) DeleteCartByUser(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts, userID)
	return nil
}
