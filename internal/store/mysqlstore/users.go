package mysqlstore

import (
	"context"
	"fmt"

	"github.com/01moynul/cartify-golang/internal/models"
	"github.com/01moynul/cartify-golang/internal/store"
)

const userColumns = "id, email, name, password_hash, created_at"

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	ctx, cancel := s.ctx(ctx)
	defer cancel()

	query := "INSERT INTO users (" + userColumns + ") VALUES (?, ?, ?, ?, ?)"
	_, err := s.db.ExecContext(ctx, query, u.ID, u.Email, u.Name, u.PasswordHash, u.CreatedAt)
	if err != nil {
		if isDuplicate(err) {
			return store.ErrDuplicate
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.getUser(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id)
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getUser(ctx, "SELECT "+userColumns+" FROM users WHERE email = ?", email)
}

func (s *Store) getUser(ctx context.Context, query string, arg any) (*models.User, error) {
	ctx, cancel := s.ctx(ctx)
	defer cancel()

	var u models.User
	err := s.db.QueryRowContext(ctx, query, arg).Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}
