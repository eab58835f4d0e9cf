// Package store defines the persistence contracts shared by the mysql, mongo
// and memory backends.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/01moynul/cartify-golang/internal/models"
)

var (
	// ErrNotFound is returned when a lookup matches no document.
	ErrNotFound = errors.New("store: not found")
	// ErrDuplicate is returned when a unique key (user email, cart owner) is already taken.
	ErrDuplicate = errors.New("store: duplicate key")
)

// DefaultTimeout bounds every store call when no timeout is configured.
const DefaultTimeout = 5 * time.Second

type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

type ItemStore interface {
	CreateItem(ctx context.Context, it *models.Item) error
	GetItem(ctx context.Context, id string) (*models.Item, error)
	// GetItems returns the items that exist among ids, keyed by id.
	GetItems(ctx context.Context, ids []string) (map[string]models.Item, error)
	UpdateItem(ctx context.Context, it *models.Item) error
	DeleteItem(ctx context.Context, id string) error
	// ListItems applies f and returns the requested page plus the total match count.
	ListItems(ctx context.Context, f models.ItemFilter) ([]models.Item, int64, error)
}

type CartStore interface {
	// GetCartByUser returns ErrNotFound when the user has no cart.
	GetCartByUser(ctx context.Context, userID string) (*models.Cart, error)
	// CreateCart returns ErrDuplicate when the user already owns a cart.
	CreateCart(ctx context.Context, c *models.Cart) error
	// SaveCart overwrites the lines of an existing cart document.
	SaveCart(ctx context.Context, c *models.Cart) error
	// DeleteCartByUser removes the user's cart; deleting a missing cart is not an error.
	DeleteCartByUser(ctx context.Context, userID string) error
}

// Store bundles the three collections behind one backend.
type Store interface {
	UserStore
	ItemStore
	CartStore
	Close(ctx context.Context) error
}

// WithTimeout derives the bounded context each backend runs a call under.
func WithTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = DefaultTimeout
	}
	return context.WithTimeout(ctx, d)
}
