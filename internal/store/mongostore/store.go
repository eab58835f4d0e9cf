// Package mongostore keeps users, items and carts as MongoDB documents.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/01moynul/cartify-golang/internal/store"
)

const (
	usersCollection = "users"
	itemsCollection = "items"
	cartsCollection = "carts"
)

// Store implements store.Store on a MongoDB database.
type Store struct {
	client  *mongo.Client
	db      *mongo.Database
	timeout time.Duration
}

var _ store.Store = (*Store)(nil)

// Connect dials uri, pings the server and ensures the indexes the store relies on.
func Connect(ctx context.Context, uri, database string, timeout time.Duration) (*Store, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	s := &Store{client: client, db: client.Database(database), timeout: timeout}
	if err := s.ensureIndexes(connectCtx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	slog.Info("database connection established", slog.String("driver", "mongo"), slog.String("database", database))
	return s, nil
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	if _, err := s.db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("create users index: %w", err)
	}

	if _, err := s.db.Collection(cartsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("create carts index: %w", err)
	}

	if _, err := s.db.Collection(itemsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "category", Value: 1}}},
		{Keys: bson.D{{Key: "price", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}); err != nil {
		return fmt.Errorf("create items indexes: %w", err)
	}
	return nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) ctx(ctx context.Context) (context.Context, context.CancelFunc) {
	return store.WithTimeout(ctx, s.timeout)
}

func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return store.ErrNotFound
	}
	return err
}
