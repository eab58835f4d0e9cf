package mysqlstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/01moynul/cartify-golang/internal/models"
	"github.com/01moynul/cartify-golang/internal/store"
)

func (s *Store) GetCartByUser(ctx context.Context, userID string) (*models.Cart, error) {
	ctx, cancel := s.ctx(ctx)
	defer cancel()

	var c models.Cart
	var lines []byte

	err := s.db.QueryRowContext(ctx,
		"SELECT id, user_id, items, created_at, updated_at FROM carts WHERE user_id = ?", userID,
	).Scan(&c.ID, &c.UserID, &lines, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}

	if err := json.Unmarshal(lines, &c.Lines); err != nil {
		return nil, fmt.Errorf("decode cart %s: %w", c.ID, err)
	}
	if c.Lines == nil {
		c.Lines = []models.CartLine{}
	}
	return &c, nil
}

func encodeLines(c *models.Cart) (string, error) {
	lines := c.Lines
	if lines == nil {
		lines = []models.CartLine{}
	}
	b, err := json.Marshal(lines)
	if err != nil {
		return "", fmt.Errorf("encode cart %s: %w", c.ID, err)
	}
	return string(b), nil
}

func (s *Store) CreateCart(ctx context.Context, c *models.Cart) error {
	ctx, cancel := s.ctx(ctx)
	defer cancel()

	lines, err := encodeLines(c)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO carts (id, user_id, items, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
		c.ID, c.UserID, lines, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isDuplicate(err) {
			return store.ErrDuplicate
		}
		return fmt.Errorf("insert cart: %w", err)
	}
	return nil
}

func (s *Store) SaveCart(ctx context.Context, c *models.Cart) error {
	ctx, cancel := s.ctx(ctx)
	defer cancel()

	lines, err := encodeLines(c)
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx,
		"UPDATE carts SET items = ?, updated_at = ? WHERE id = ?",
		lines, c.UpdatedAt, c.ID,
	)
	if err != nil {
		return fmt.Errorf("update cart: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update cart: %w", err)
	}
	if rowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteCartByUser(ctx context.Context, userID string) error {
	ctx, cancel := s.ctx(ctx)
	defer cancel()

	if _, err := s.db.ExecContext(ctx, "DELETE FROM carts WHERE user_id = ?", userID); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}
	return nil
}
