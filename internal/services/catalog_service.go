package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"

	"github.com/01moynul/cartify-golang/internal/models"
	"github.com/01moynul/cartify-golang/internal/store"
)

// Limits of the items table columns.
const (
	maxTitleLength    = 255
	maxSlugLength     = 255
	maxCategoryLength = 100
	maxImageURLLength = 1024
)

// maxPrice is the largest DECIMAL(12,2) value.
var maxPrice = decimal.RequireFromString("9999999999.99")

// ItemInput is the full set of fields accepted when creating an item.
type ItemInput struct {
	Title        string
	Description  string
	Price        *float64
	Category     string
	ImageURL     string
	Translations map[string]models.LocalizedText
}

// ItemPatch carries the fields of a partial update; nil means unchanged.
type ItemPatch struct {
	Title        *string
	Description  *string
	Price        *float64
	Category     *string
	ImageURL     *string
	Translations map[string]models.LocalizedText
}

type CatalogService struct {
	items store.ItemStore
	now   func() time.Time
}

func NewCatalogService(items store.ItemStore) *CatalogService {
	return &CatalogService{items: items, now: time.Now}
}

// List returns one page of items matching f, localized for acceptLanguage.
func (s *CatalogService) List(ctx context.Context, f models.ItemFilter, acceptLanguage string) (*models.ItemPage, error) {
	items, total, err := s.items.ListItems(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}

	for i := range items {
		items[i] = Localize(items[i], acceptLanguage)
	}
	return &models.ItemPage{
		Items: items,
		Total: total,
		Page:  f.Page,
		Pages: models.PageCount(total, f.Limit),
	}, nil
}

func (s *CatalogService) Get(ctx context.Context, id, acceptLanguage string) (*models.Item, error) {
	it, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	localized := Localize(*it, acceptLanguage)
	return &localized, nil
}

func (s *CatalogService) Create(ctx context.Context, in ItemInput) (*models.Item, error) {
	title := strings.TrimSpace(in.Title)
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	if in.Price == nil {
		return nil, badRequest("Price is required")
	}
	if err := validatePrice(*in.Price); err != nil {
		return nil, err
	}
	category := models.NormalizeCategory(in.Category)
	if err := validateLength("Category", category, maxCategoryLength); err != nil {
		return nil, err
	}
	imageURL := strings.TrimSpace(in.ImageURL)
	if err := validateLength("Image URL", imageURL, maxImageURLLength); err != nil {
		return nil, err
	}
	translations, err := normalizeTranslations(in.Translations)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	it := &models.Item{
		ID:           uuid.NewString(),
		Title:        title,
		Description:  strings.TrimSpace(in.Description),
		Price:        *in.Price,
		Category:     category,
		ImageURL:     imageURL,
		Slug:         makeSlug(title),
		Translations: translations,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.items.CreateItem(ctx, it); err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}
	return it, nil
}

func (s *CatalogService) Update(ctx context.Context, id string, p ItemPatch) (*models.Item, error) {
	it, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if err := validateTitle(title); err != nil {
			return nil, err
		}
		it.Title = title
		it.Slug = makeSlug(title)
	}
	if p.Description != nil {
		it.Description = strings.TrimSpace(*p.Description)
	}
	if p.Price != nil {
		if err := validatePrice(*p.Price); err != nil {
			return nil, err
		}
		it.Price = *p.Price
	}
	if p.Category != nil {
		category := models.NormalizeCategory(*p.Category)
		if err := validateLength("Category", category, maxCategoryLength); err != nil {
			return nil, err
		}
		it.Category = category
	}
	if p.ImageURL != nil {
		imageURL := strings.TrimSpace(*p.ImageURL)
		if err := validateLength("Image URL", imageURL, maxImageURLLength); err != nil {
			return nil, err
		}
		it.ImageURL = imageURL
	}
	if p.Translations != nil {
		translations, err := normalizeTranslations(p.Translations)
		if err != nil {
			return nil, err
		}
		it.Translations = translations
	}
	it.UpdatedAt = s.now().UTC()

	if err := s.items.UpdateItem(ctx, it); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, notFound("Item not found")
		}
		return nil, fmt.Errorf("update item: %w", err)
	}
	return it, nil
}

func (s *CatalogService) Delete(ctx context.Context, id string) error {
	if err := ValidateID(id, "item id"); err != nil {
		return err
	}
	if err := s.items.DeleteItem(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return notFound("Item not found")
		}
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}

func (s *CatalogService) load(ctx context.Context, id string) (*models.Item, error) {
	if err := ValidateID(id, "item id"); err != nil {
		return nil, err
	}
	it, err := s.items.GetItem(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, notFound("Item not found")
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return it, nil
}

// ValidateID rejects identifiers that are not UUIDs with a BadRequest error.
func ValidateID(id, field string) error {
	if _, err := uuid.Parse(id); err != nil {
		return badRequest("Invalid " + field)
	}
	return nil
}

func validateTitle(title string) error {
	if title == "" {
		return badRequest("Title is required")
	}
	return validateLength("Title", title, maxTitleLength)
}

// validateLength counts characters, as VARCHAR does.
func validateLength(field, value string, limit int) error {
	if utf8.RuneCountInString(value) > limit {
		return badRequest(fmt.Sprintf("%s must be at most %d characters", field, limit))
	}
	return nil
}

// validatePrice accepts what a DECIMAL(12,2) column stores without rounding.
func validatePrice(price float64) error {
	if math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
		return badRequest("Price must be a non-negative number")
	}
	d := decimal.NewFromFloat(price)
	if d.GreaterThan(maxPrice) {
		return badRequest("Price must be at most " + maxPrice.StringFixed(2))
	}
	if !d.Equal(d.Round(2)) {
		return badRequest("Price must have at most 2 decimal places")
	}
	return nil
}

// makeSlug derives the URL slug from a title, cut to the column width.
func makeSlug(title string) string {
	s := slug.Make(title)
	if len(s) > maxSlugLength {
		s = strings.TrimRight(s[:maxSlugLength], "-")
	}
	return s
}

// normalizeTranslations canonicalises the language keys and drops empty titles.
func normalizeTranslations(in map[string]models.LocalizedText) (map[string]models.LocalizedText, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := make(map[string]models.LocalizedText, len(in))
	for key, text := range in {
		tag, err := language.Parse(strings.TrimSpace(key))
		if err != nil {
			return nil, badRequest("Invalid translation language: " + key)
		}
		text.Title = strings.TrimSpace(text.Title)
		text.Description = strings.TrimSpace(text.Description)
		if text.Title == "" {
			continue
		}
		out[tag.String()] = text
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}

// Localize swaps in the translation that best matches an Accept-Language
// header. Items are authored in English; an item's own "en" translation takes
// the place of the authored text. With no match the item is returned unchanged.
func Localize(it models.Item, acceptLanguage string) models.Item {
	if strings.TrimSpace(acceptLanguage) == "" || len(it.Translations) == 0 {
		return it
	}
	desired, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(desired) == 0 {
		return it
	}

	keys := make([]string, 0, len(it.Translations))
	for k := range it.Translations {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var supported []language.Tag
	var texts []*models.LocalizedText // nil is the authored text
	if _, ok := it.Translations[language.English.String()]; !ok {
		supported = append(supported, language.English)
		texts = append(texts, nil)
	}
	for _, k := range keys {
		tag, err := language.Parse(k)
		if err != nil {
			continue
		}
		text := it.Translations[k]
		supported = append(supported, tag)
		texts = append(texts, &text)
	}

	_, idx, conf := language.NewMatcher(supported).Match(desired...)
	if conf == language.No || idx < 0 || idx >= len(texts) || texts[idx] == nil {
		return it
	}

	text := texts[idx]
	it.Title = text.Title
	if text.Description != "" {
		it.Description = text.Description
	}
	return it
}
