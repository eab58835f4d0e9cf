package mongostore

import (
	"context"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/01moynul/cartify-golang/internal/models"
	"github.com/01moynul/cartify-golang/internal/store"
)

// itemFilter translates a catalog filter into a Mongo query document.
func itemFilter(f models.ItemFilter) bson.M {
	filter := bson.M{}

	if f.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"title": pattern},
			bson.M{"description": pattern},
		}
	}
	if f.Category != "" {
		filter["category"] = primitive.Regex{Pattern: "^" + regexp.QuoteMeta(f.Category) + "$", Options: "i"}
	}

	price := bson.M{}
	if f.MinPrice != nil {
		price["$gte"] = *f.MinPrice
	}
	if f.MaxPrice != nil {
		price["$lte"] = *f.MaxPrice
	}
	if len(price) > 0 {
		filter["price"] = price
	}

	return filter
}

func (s *Store) CreateItem(ctx context.Context, it *models.Item) error {
	ctx, cancel := s.ctx(ctx)
	defer cancel()

	if _, err := s.db.Collection(itemsCollection).InsertOne(ctx, it); err != nil {
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

func (s *Store) GetItem(ctx context.Context, id string) (*models.Item, error) {
	ctx, cancel := s.ctx(ctx)
	defer cancel()

	var it models.Item
	if err := s.db.Collection(itemsCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&it); err != nil {
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

	cur, err := s.db.Collection(itemsCollection).Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("find items: %w", err)
	}

	var items []models.Item
	if err := cur.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode items: %w", err)
	}
	for _, it := range items {
		out[it.ID] = it
	}
	return out, nil
}

func (s *Store) UpdateItem(ctx context.Context, it *models.Item) error {
	ctx, cancel := s.ctx(ctx)
	defer cancel()

	res, err := s.db.Collection(itemsCollection).ReplaceOne(ctx, bson.M{"_id": it.ID}, it)
	if err != nil {
		return fmt.Errorf("replace item: %w", err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteItem(ctx context.Context, id string) error {
	ctx, cancel := s.ctx(ctx)
	defer cancel()

	res, err := s.db.Collection(itemsCollection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) ListItems(ctx context.Context, f models.ItemFilter) ([]models.Item, int64, error) {
	ctx, cancel := s.ctx(ctx)
	defer cancel()

	coll := s.db.Collection(itemsCollection)
	filter := itemFilter(f)

	total, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count items: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(f.Offset())).
		SetLimit(int64(f.Limit))

	cur, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find items: %w", err)
	}

	items := []models.Item{}
	if err := cur.All(ctx, &items); err != nil {
		return nil, 0, fmt.Errorf("decode items: %w", err)
	}
	return items, total, nil
}
