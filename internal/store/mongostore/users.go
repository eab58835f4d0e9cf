package mongostore

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/01moynul/cartify-golang/internal/models"
	"github.com/01moynul/cartify-golang/internal/store"
)

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	ctx, cancel := s.ctx(ctx)
	defer cancel()

	if _, err := s.db.Collection(usersCollection).InsertOne(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return store.ErrDuplicate
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.findUser(ctx, bson.M{"_id": id})
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findUser(ctx, bson.M{"email": email})
}

func (s *Store) findUser(ctx context.Context, filter bson.M) (*models.User, error) {
	ctx, cancel := s.ctx(ctx)
	defer cancel()

	var u models.User
	if err := s.db.Collection(usersCollection).FindOne(ctx, filter).Decode(&u); err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}
