package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/01moynul/cartify-golang/internal/models"
	"github.com/01moynul/cartify-golang/internal/store"
)

// CartService implements the per-user cart. Every mutation is a
// read-modify-write of the whole cart document; concurrent writers to the
// same cart race and the last write wins.
type CartService struct {
	carts store.CartStore
	items store.ItemStore
	now   func() time.Time
}

func NewCartService(carts store.CartStore, items store.ItemStore) *CartService {
	return &CartService{carts: carts, items: items, now: time.Now}
}

// GetOrCreate returns the user's cart, creating an empty one on first access.
func (s *CartService) GetOrCreate(ctx context.Context, userID string) (*models.Cart, error) {
	cart, err := s.carts.GetCartByUser(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("get cart: %w", err)
	}

	now := s.now().UTC()
	cart = &models.Cart{
		ID:        uuid.NewString(),
		UserID:    userID,
		Lines:     []models.CartLine{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.carts.CreateCart(ctx, cart); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			// another request created it first
			existing, getErr := s.carts.GetCartByUser(ctx, userID)
			if getErr != nil {
				return nil, fmt.Errorf("get cart: %w", getErr)
			}
			return existing, nil
		}
		return nil, fmt.Errorf("create cart: %w", err)
	}
	return cart, nil
}

// AddItem merges quantity of itemID into the user's cart. The item must exist.
func (s *CartService) AddItem(ctx context.Context, userID, itemID string, quantity int) error {
	if err := ValidateID(itemID, "item id"); err != nil {
		return err
	}
	if quantity < 1 {
		quantity = 1
	}

	if _, err := s.items.GetItem(ctx, itemID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return notFound("Item not found")
		}
		return fmt.Errorf("get item: %w", err)
	}

	cart, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return err
	}

	cart.AddLine(itemID, quantity, s.now().UTC())
	return s.save(ctx, cart)
}

// UpdateQuantity sets the quantity of an existing line; quantity <= 0 removes it.
func (s *CartService) UpdateQuantity(ctx context.Context, userID, itemID string, quantity int) error {
	if err := ValidateID(itemID, "item id"); err != nil {
		return err
	}

	cart, err := s.carts.GetCartByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return notFound("Item not found in cart")
		}
		return fmt.Errorf("get cart: %w", err)
	}

	if !cart.SetQuantity(itemID, quantity, s.now().UTC()) {
		return notFound("Item not found in cart")
	}
	return s.save(ctx, cart)
}

// RemoveItem drops itemID from the cart. Removing an absent line is a no-op.
func (s *CartService) RemoveItem(ctx context.Context, userID, itemID string) error {
	if err := ValidateID(itemID, "item id"); err != nil {
		return err
	}

	cart, err := s.carts.GetCartByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("get cart: %w", err)
	}

	if !cart.RemoveLine(itemID, s.now().UTC()) {
		return nil
	}
	return s.save(ctx, cart)
}

// Clear deletes the user's cart document.
func (s *CartService) Clear(ctx context.Context, userID string) error {
	if err := s.carts.DeleteCartByUser(ctx, userID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

// View resolves the cart lines against the catalog and totals them.
// Lines pointing at deleted items are left out and counted as unavailable.
func (s *CartService) View(ctx context.Context, userID, acceptLanguage string) (*models.CartView, error) {
	cart, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	catalog, err := s.items.GetItems(ctx, cart.ItemIDs())
	if err != nil {
		return nil, fmt.Errorf("resolve cart items: %w", err)
	}
	for id, it := range catalog {
		catalog[id] = Localize(it, acceptLanguage)
	}

	view := models.BuildCartView(cart, catalog)
	return &view, nil
}

func (s *CartService) save(ctx context.Context, cart *models.Cart) error {
	if err := s.carts.SaveCart(ctx, cart); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// cleared by a concurrent request between read and write
			return notFound("Cart not found")
		}
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

// ParseAddQuantity interprets the quantity sent to the add endpoint. Anything
// that is not a positive integer (missing, non-numeric, zero, negative,
// fractional) becomes 1.
func ParseAddQuantity(raw any) int {
	if n, ok := parseInteger(raw); ok && n >= 1 {
		return n
	}
	return 1
}

// ParseQuantity interprets the quantity sent to the update endpoint. Zero and
// negative values are valid (they remove the line); non-integers are rejected.
func ParseQuantity(raw any) (int, error) {
	n, ok := parseInteger(raw)
	if !ok {
		return 0, badRequest("Quantity must be an integer")
	}
	return n, nil
}

func parseInteger(raw any) (int, bool) {
	const maxQuantity = 1 << 31

	switch v := raw.(type) {
	case float64:
		if v != float64(int64(v)) || v > maxQuantity || v < -maxQuantity {
			return 0, false
		}
		return int(v), true
	case int:
		return v, true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || n > maxQuantity || n < -maxQuantity {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}
