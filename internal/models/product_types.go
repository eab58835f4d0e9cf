package models

import (
	"strings"
	"time"
)

// DefaultCategory is assigned to items created without a category.
const DefaultCategory = "General"

// LocalizedText holds a translated title/description pair for one language.
type LocalizedText struct {
	Title       string `json:"title" bson:"title"`
	Description string `json:"description,omitempty" bson:"description,omitempty"`
}

// Item is the model for a catalog product.
type Item struct {
	ID          string  `json:"id" db:"id" bson:"_id"`
	Title       string  `json:"title" db:"title" bson:"title"`
	Description string  `json:"description" db:"description" bson:"description"`
	Price       float64 `json:"price" db:"price" bson:"price"`
	Category    string  `json:"category" db:"category" bson:"category"`
	ImageURL    string  `json:"imageUrl" db:"image_url" bson:"image_url"`
	Slug        string  `json:"slug" db:"slug" bson:"slug"`

	// Keyed by BCP 47 language tag ("hi", "fr-CA"). Stored as a JSON column in MySQL.
	Translations map[string]LocalizedText `json:"translations,omitempty" db:"translations" bson:"translations,omitempty"`

	CreatedAt time.Time `json:"createdAt" db:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at" bson:"updated_at"`
}

// NormalizeCategory trims the category and falls back to DefaultCategory.
func NormalizeCategory(category string) string {
	category = strings.TrimSpace(category)
	if category == "" {
		return DefaultCategory
	}
	return category
}
