package search

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/tradelink/tradelink-backend/pkg/enums"
)

const (
	minSuggestionRunes   = 2
	minAutocompleteRunes = 1
)

func (s *service) Suggestions(ctx context.Context, req SearchRequest) (*SuggestionSet, error) {
	start := time.Now()
	term := strings.TrimSpace(req.Query)
	if utf8.RuneCountInString(term) < minSuggestionRunes {
		return emptySuggestionSet(), nil
	}

	lookup, err := s.repo.Suggest(ctx, term, suggestionLimit(req.Limit), s.groupLimit)
	if err != nil {
		s.fail(enums.SearchTypeSuggestions, err)
		return nil, err
	}

	set := emptySuggestionSet()
	for _, p := range lookup.Products {
		suggestion := ProductSuggestion{ID: p.ID, Name: p.Name, Brand: p.Brand}
		if p.Category != nil {
			name := p.Category.Name
			suggestion.Category = &name
		}
		set.Products = append(set.Products, suggestion)
	}
	for _, c := range lookup.Categories {
		set.Categories = append(set.Categories, CategorySuggestion{ID: c.ID, Name: c.Name})
	}
	set.Brands = append(set.Brands, lookup.Brands...)

	s.observe(ctx, enums.SearchTypeSuggestions, "", len(set.Products)+len(set.Categories)+len(set.Brands), start)
	return set, nil
}

// Autocomplete fills up to limit slots with products, then categories, then brands.
func (s *service) Autocomplete(ctx context.Context, req SearchRequest) ([]AutocompleteItem, error) {
	start := time.Now()
	term := strings.TrimSpace(req.Query)
	if utf8.RuneCountInString(term) < minAutocompleteRunes {
		return []AutocompleteItem{}, nil
	}

	limit := suggestionLimit(req.Limit)
	lookup, err := s.repo.Suggest(ctx, term, limit, s.groupLimit)
	if err != nil {
		s.fail(enums.SearchTypeAutocomplete, err)
		return nil, err
	}

	items := make([]AutocompleteItem, 0, limit)
	for _, p := range lookup.Products {
		item := AutocompleteItem{ID: p.ID.String(), Text: p.Name, Type: AutocompleteProduct, Brand: p.Brand}
		if p.Category != nil {
			name := p.Category.Name
			item.Category = &name
		}
		items = append(items, item)
	}
	for _, c := range lookup.Categories {
		items = append(items, AutocompleteItem{ID: c.ID.String(), Text: c.Name, Type: AutocompleteCategory})
	}
	for _, b := range lookup.Brands {
		brand := b.Name
		items = append(items, AutocompleteItem{ID: "brand:" + b.Name, Text: b.Name, Type: AutocompleteBrand, Brand: &brand})
	}
	if len(items) > limit {
		items = items[:limit]
	}

	s.observe(ctx, enums.SearchTypeAutocomplete, "", len(items), start)
	return items, nil
}

func suggestionLimit(limit int) int {
	if limit <= 0 {
		return DefaultSuggestionLimit
	}
	return limit
}
