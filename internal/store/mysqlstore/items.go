package mysqlstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/01moynul/cartify-golang/internal/models"
	"github.com/01moynul/cartify-golang/internal/store"
)

const itemColumns = "id, title, description, price, category, image_url, slug, translations, created_at, updated_at"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (models.Item, error) {
	var it models.Item
	var translations []byte // JSON column, may be NULL

	if err := row.Scan(
		&it.ID,
		&it.Title,
		&it.Description,
		&it.Price,
		&it.Category,
		&it.ImageURL,
		&it.Slug,
		&translations,
		&it.CreatedAt,
		&it.UpdatedAt,
	); err != nil {
		return it, err
	}

	if len(translations) > 0 && string(translations) != "null" {
		if err := json.Unmarshal(translations, &it.Translations); err != nil {
			return it, fmt.Errorf("decode translations of item %s: %w", it.ID, err)
		}
	}
	return it, nil
}

func translationsJSON(it *models.Item) (any, error) {
	if len(it.Translations) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(it.Translations)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (s *Store) CreateItem(ctx context.Context, it *models.Item) error {
	ctx, cancel := s.ctx(ctx)
	defer cancel()

	translations, err := translationsJSON(it)
	if err != nil {
		return fmt.Errorf("encode translations: %w", err)
	}

	query := "INSERT INTO items (" + itemColumns + ") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"
	_, err = s.db.ExecContext(ctx, query,
		it.ID, it.Title, it.Description, it.Price, it.Category, it.ImageURL, it.Slug,
		translations, it.CreatedAt, it.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

func (s *Store) GetItem(ctx context.Context, id string) (*models.Item, error) {
	ctx, cancel := s.ctx(ctx)
	defer cancel()

	it, err := scanItem(s.db.QueryRowContext(ctx, "SELECT "+itemColumns+" FROM items WHERE id = ?", id))
	if err != nil {
		return nil, notFound(err)
	}
	return &it, nil
}

func (s *Store) GetItems(ctx context.Context, ids []string) (map[string]models.Item, error) {
	out := make(map[string]models.Item, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	ctx, cancel := s.ctx(ctx)
	defer cancel()

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(ids)), ", ")
	args := make([]any, 0, len(ids))
	for _, id := range ids {
		args = append(args, id)
	}

	rows, err := s.db.QueryContext(ctx, "SELECT "+itemColumns+" FROM items WHERE id IN ("+placeholders+")", args...)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		out[it.ID] = it
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}
	return out, nil
}

func (s *Store) UpdateItem(ctx context.Context, it *models.Item) error {
	ctx, cancel := s.ctx(ctx)
	defer cancel()

	translations, err := translationsJSON(it)
	if err != nil {
		return fmt.Errorf("encode translations: %w", err)
	}

	query := `
		UPDATE items
		SET title = ?, description = ?, price = ?, category = ?, image_url = ?,
			slug = ?, translations = ?, updated_at = ?
		WHERE id = ?`

	result, err := s.db.ExecContext(ctx, query,
		it.Title, it.Description, it.Price, it.Category, it.ImageURL,
		it.Slug, translations, it.UpdatedAt, it.ID,
	)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	if rowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteItem(ctx context.Context, id string) error {
	ctx, cancel := s.ctx(ctx)
	defer cancel()

	result, err := s.db.ExecContext(ctx, "DELETE FROM items WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if rowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) ListItems(ctx context.Context, f models.ItemFilter) ([]models.Item, int64, error) {
	ctx, cancel := s.ctx(ctx)
	defer cancel()

	where, args := buildItemWhere(f)

	var total int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM items"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count items: %w", err)
	}

	query := "SELECT " + itemColumns + " FROM items" + where + " ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?"
	pageArgs := append(append([]any{}, args...), f.Limit, f.Offset())

	rows, err := s.db.QueryContext(ctx, query, pageArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	items := []models.Item{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate items: %w", err)
	}
	return items, total, nil
}
