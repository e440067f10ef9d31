package models

import (
	"regexp"
	"strings"
)

// Category is the canonical (English) category name stored by the backend
type Category string

const (
	CategoryMusic   Category = "Music"
	CategorySports  Category = "Sports"
	CategoryTheatre Category = "Theatre"
	CategoryOthers  Category = "Others"
)

// Categories lists the categories offered when creating an event
var Categories = []Category{CategoryMusic, CategorySports, CategoryTheatre, CategoryOthers}

// categoryLabels maps the localized form labels to canonical names
var categoryLabels = map[string]Category{
	"âm nhạc":    CategoryMusic,
	"thể thao":   CategorySports,
	"nghệ thuật": CategoryTheatre,
	"khác":       CategoryOthers,
}

// NormalizeCategory maps a form label or a canonical name (any case) to the
// canonical category. Anything unrecognised becomes Others.
func NormalizeCategory(label string) Category {
	key := strings.ToLower(strings.TrimSpace(label))
	if c, ok := categoryLabels[key]; ok {
		return c
	}
	for _, c := range Categories {
		if strings.ToLower(string(c)) == key {
			return c
		}
	}
	return CategoryOthers
}

var slugRegex = regexp.MustCompile(`[^a-z0-9]+`)

// GenerateSlug generates a URL-friendly slug, used for uploaded image names
func GenerateSlug(name string) string {
	slug := strings.ToLower(name)
	slug = slugRegex.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}
