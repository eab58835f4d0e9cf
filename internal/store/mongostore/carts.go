package mongostore

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/01moynul/cartify-golang/internal/models"
	"github.com/01moynul/cartify-golang/internal/store"
)

func (s *Store) GetCartByUser(ctx context.Context, userID string) (*models.Cart, error) {
	ctx, cancel := s.ctx(ctx)
	defer cancel()

	var c models.Cart
	if err := s.db.Collection(cartsCollection).FindOne(ctx, bson.M{"user_id": userID}).Decode(&c); err != nil {
		return nil, notFound(err)
	}
	if c.Lines == nil {
		c.Lines = []models.CartLine{}
	}
	return &c, nil
}

func (s *Store) CreateCart(ctx context.Context, c *models.Cart) error {
	ctx, cancel := s.ctx(ctx)
	defer cancel()

	doc := *c
	if doc.Lines == nil {
		doc.Lines = []models.CartLine{}
	}
	if _, err := s.db.Collection(cartsCollection).InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return store.ErrDuplicate
		}
		return fmt.Errorf("insert cart: %w", err)
	}
	return nil
}

func (s *Store) SaveCart(ctx context.Context, c *models.Cart) error {
	ctx, cancel := s.ctx(ctx)
	defer cancel()

	lines := c.Lines
	if lines == nil {
		lines = []models.CartLine{}
	}
	res, err := s.db.Collection(cartsCollection).UpdateOne(ctx,
		bson.M{"_id": c.ID},
		bson.M{"$set": bson.M{"items": lines, "updated_at": c.UpdatedAt}},
	)
	if err != nil {
		return fmt.Errorf("update cart: %w", err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteCartByUser(ctx context.Context, userID string) error {
	ctx, cancel := s.ctx(ctx)
	defer cancel()

	if _, err := s.db.Collection(cartsCollection).DeleteOne(ctx, bson.M{"user_id": userID}); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}
	return nil
}
