package mongostore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/01moynul/cartify-golang/internal/models"
)

func TestItemFilter(t *testing.T) {
	lo, hi := 10.0, 20.0

	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, bson.M{}, itemFilter(models.ItemFilter{}))
	})

	t.Run("search quotes regex metacharacters", func(t *testing.T) {
		got := itemFilter(models.ItemFilter{Search: "c++ (2e)"})
		pattern := primitive.Regex{Pattern: `c\+\+ \(2e\)`, Options: "i"}
		assert.Equal(t, bson.A{bson.M{"title": pattern}, bson.M{"description": pattern}}, got["$or"])
	})

	t.Run("category and price", func(t *testing.T) {
		got := itemFilter(models.ItemFilter{Category: "Home", MinPrice: &lo, MaxPrice: &hi})
		assert.Equal(t, primitive.Regex{Pattern: "^Home$", Options: "i"}, got["category"])
		assert.Equal(t, bson.M{"$gte": 10.0, "$lte": 20.0}, got["price"])
		assert.NotContains(t, got, "$or")
	})
}
