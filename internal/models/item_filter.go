package models

import (
	"math"
	"net/url"
	"strconv"
	"strings"
)

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
	// MaxPage keeps (page-1)*limit inside int for any limit up to MaxPageLimit.
	MaxPage = math.MaxInt / MaxPageLimit
)

// ItemFilter is the typed form of the catalog query string.
// Nil price bounds are not applied.
type ItemFilter struct {
	Search   string
	Category string
	MinPrice *float64
	MaxPrice *float64
	Page     int
	Limit    int
}

// Offset is the number of matching items skipped before the current page.
// It saturates at math.MaxInt instead of wrapping.
func (f ItemFilter) Offset() int {
	if f.Page <= 1 || f.Limit <= 0 {
		return 0
	}
	if f.Page-1 > math.MaxInt/f.Limit {
		return math.MaxInt
	}
	return (f.Page - 1) * f.Limit
}

// ParseItemFilter reads search, category, minPrice, maxPrice, page and limit.
// Non-numeric price bounds are ignored; page and limit are clamped to >= 1,
// page is capped at MaxPage and limit at MaxPageLimit.
func ParseItemFilter(q url.Values) ItemFilter {
	f := ItemFilter{
		Search:   strings.TrimSpace(q.Get("search")),
		Category: strings.TrimSpace(q.Get("category")),
		MinPrice: parseBound(q.Get("minPrice")),
		MaxPrice: parseBound(q.Get("maxPrice")),
		Page:     parsePositive(q.Get("page"), 1),
		Limit:    parsePositive(q.Get("limit"), DefaultPageLimit),
	}
	if f.Limit > MaxPageLimit {
		f.Limit = MaxPageLimit
	}
	if f.Page > MaxPage {
		f.Page = MaxPage
	}
	return f
}

func parseBound(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v != v { // NaN
		return nil
	}
	return &v
}

func parsePositive(raw string, def int) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	if n < 1 {
		return 1
	}
	return n
}

// ItemPage is one page of catalog results.
type ItemPage struct {
	Items []Item `json:"items"`
	Total int64  `json:"total"`
	Page  int    `json:"page"`
	Pages int    `json:"pages"`
}

// PageCount returns ceil(total / limit).
func PageCount(total int64, limit int) int {
	if limit < 1 || total <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
