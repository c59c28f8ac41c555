package enums

import (
	"fmt"
	"strings"
)

// SearchType selects which search operation a request runs.
type SearchType string

const (
	SearchTypeProducts     SearchType = "products"
	SearchTypeSuggestions  SearchType = "suggestions"
	SearchTypeAutocomplete SearchType = "autocomplete"
)

var validSearchTypes = []SearchType{
	SearchTypeProducts,
	SearchTypeSuggestions,
	SearchTypeAutocomplete,
}

func (t SearchType) String() string {
	return string(t)
}

func (t SearchType) IsValid() bool {
	for _, candidate := range validSearchTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseSearchType converts raw input into a SearchType.
func ParseSearchType(value string) (SearchType, error) {
	for _, candidate := range validSearchTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid search type %q", value)
}

// SortKey orders a product search page.
type SortKey string

const (
	SortRelevance     SortKey = "relevance"
	SortPriceAsc      SortKey = "price_asc"
	SortPriceDesc     SortKey = "price_desc"
	SortNameAsc       SortKey = "name_asc"
	SortNameDesc      SortKey = "name_desc"
	SortCreatedAtAsc  SortKey = "created_at_asc"
	SortCreatedAtDesc SortKey = "created_at_desc"
)

var validSortKeys = []SortKey{
	SortRelevance,
	SortPriceAsc,
	SortPriceDesc,
	SortNameAsc,
	SortNameDesc,
	SortCreatedAtAsc,
	SortCreatedAtDesc,
}

var sortKeyAliases = map[string]SortKey{
	"created_asc":  SortCreatedAtAsc,
	"created_desc": SortCreatedAtDesc,
}

func (k SortKey) String() string {
	return string(k)
}

func (k SortKey) IsValid() bool {
	for _, candidate := range validSortKeys {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseSortKey converts raw input into a SortKey, accepting legacy created_* aliases.
func ParseSortKey(value string) (SortKey, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if alias, ok := sortKeyAliases[normalized]; ok {
		return alias, nil
	}
	for _, candidate := range validSortKeys {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid sort key %q", value)
}
