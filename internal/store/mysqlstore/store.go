// Package mysqlstore keeps users, items and carts in MySQL. Carts are stored
// as documents: one row per user with the lines in a JSON column.
package mysqlstore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/01moynul/cartify-golang/internal/store"
)

// erDupEntry is the MySQL error number for unique key violations.
const erDupEntry = 1062

// Store implements store.Store on a *sql.DB.
type Store struct {
	db      *sql.DB
	timeout time.Duration
}

var _ store.Store = (*Store)(nil)

func New(db *sql.DB, timeout time.Duration) *Store {
	return &Store{db: db, timeout: timeout}
}

func (s *Store) Close(ctx context.Context) error {
	return s.db.Close()
}

func (s *Store) ctx(ctx context.Context) (context.Context, context.CancelFunc) {
	return store.WithTimeout(ctx, s.timeout)
}

func isDuplicate(err error) bool {
	var myErr *mysql.MySQLError
	return errors.As(err, &myErr) && myErr.Number == erDupEntry
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}
