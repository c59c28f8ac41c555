package search

import (
	"time"

	"github.com/google/uuid"
)

// SupplierSummary is the owning supplier's display data on a catalog entry.
type SupplierSummary struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Verified bool      `json:"verified"`
	City     *string   `json:"city,omitempty"`
	State    *string   `json:"state,omitempty"`
}

// CatalogEntry is the read-only projection of an active product.
type CatalogEntry struct {
	ID                uuid.UUID       `json:"id"`
	Name              string          `json:"name"`
	Brand             *string         `json:"brand,omitempty"`
	Description       *string         `json:"description,omitempty"`
	HSNCode           *string         `json:"hsn_code,omitempty"`
	CategoryID        *uuid.UUID      `json:"category_id,omitempty"`
	CategoryName      *string         `json:"category,omitempty"`
	SubcategoryID     *uuid.UUID      `json:"subcategory_id,omitempty"`
	SubcategoryName   *string         `json:"subcategory,omitempty"`
	Supplier          SupplierSummary `json:"supplier"`
	ImageURL          *string         `json:"image_url,omitempty"`
	PriceCents        int64           `json:"price_cents"`
	SampleAvailable   bool            `json:"sample_available"`
	DropshipAvailable bool            `json:"dropship_available"`
	Tags              []string        `json:"tags"`
	Colors            []string        `json:"colors"`
	Sizes             []string        `json:"sizes"`
	CreatedAt         time.Time       `json:"created_at"`
}

// ScoredEntry is a catalog entry with optional relevance annotations.
// Score and highlights are only set when the request carried free text.
type ScoredEntry struct {
	CatalogEntry
	Score                  *float64 `json:"score,omitempty"`
	HighlightedName        *string  `json:"highlighted_name,omitempty"`
	HighlightedDescription *string  `json:"highlighted_description,omitempty"`
}

// CatalogPage is one filtered, sorted page from the catalog store.
type CatalogPage struct {
	Entries    []CatalogEntry
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// ProductSearchResult is returned for type=products.
type ProductSearchResult struct {
	Items      []ScoredEntry
	Total      int64
	Page       int
	Limit      int
	TotalPages int
	Query      string
	Strategy   string
}

type ProductSuggestion struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Brand    *string   `json:"brand,omitempty"`
	Category *string   `json:"category,omitempty"`
}

type CategorySuggestion struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type BrandSuggestion struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// SuggestionSet holds the typeahead lists for type=suggestions.
type SuggestionSet struct {
	Products        []ProductSuggestion  `json:"products"`
	Categories      []CategorySuggestion `json:"categories"`
	Brands          []BrandSuggestion    `json:"brands"`
	PopularSearches []string             `json:"popular_searches"`
}

func emptySuggestionSet() *SuggestionSet {
	return &SuggestionSet{
		Products:        []ProductSuggestion{},
		Categories:      []CategorySuggestion{},
		Brands:          []BrandSuggestion{},
		PopularSearches: []string{},
	}
}

const (
	AutocompleteProduct  = "product"
	AutocompleteCategory = "category"
	AutocompleteBrand    = "brand"
)

type AutocompleteItem struct {
	ID       string  `json:"id"`
	Text     string  `json:"text"`
	Type     string  `json:"type"`
	Category *string `json:"category,omitempty"`
	Brand    *string `json:"brand,omitempty"`
}
