package search

import (
	"errors"
	"math"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tradelink/tradelink-backend/pkg/enums"
	pkgerrors "github.com/tradelink/tradelink-backend/pkg/errors"
	"github.com/tradelink/tradelink-backend/pkg/pagination"
)

const (
	DefaultProductLimit    = pagination.DefaultLimit
	DefaultSuggestionLimit = 8
	DefaultMaxQueryLength  = 200
)

var (
	requestValidator = validator.New()
	hundred          = decimal.NewFromInt(100)
	// prices beyond this many major units are treated as garbage input
	maxPriceMajor = decimal.New(1, 13)
)

// ParseOptions controls how malformed filter values are handled.
type ParseOptions struct {
	// LenientFilterParsing drops unparsable filters instead of rejecting the request.
	LenientFilterParsing bool
	MaxQueryLength       int
}

func DefaultParseOptions() ParseOptions {
	return ParseOptions{LenientFilterParsing: true, MaxQueryLength: DefaultMaxQueryLength}
}

// SearchFilters are the structured, conjunctive catalog filters.
type SearchFilters struct {
	CategoryID        *uuid.UUID
	SubcategoryID     *uuid.UUID
	PriceMinCents     *int64
	PriceMaxCents     *int64
	City              *string
	State             *string
	SampleAvailable   *bool
	DropshipAvailable *bool
	Tags              []string
	Colors            []string
	Sizes             []string
}

// SearchRequest is the validated, strongly typed form of a search call.
type SearchRequest struct {
	Type    enums.SearchType `validate:"oneof=products suggestions autocomplete"`
	Query   string
	Page    int           `validate:"min=1"`
	Limit   int           `validate:"min=1,max=100"`
	Sort    enums.SortKey `validate:"oneof=relevance price_asc price_desc name_asc name_desc created_at_asc created_at_desc"`
	Filters SearchFilters
}

// HasQuery reports whether free text was supplied. Text that folds to
// nothing, such as a lone combining mark, does not count.
func (r SearchRequest) HasQuery() bool {
	return !compilePattern(r.Query).empty()
}

// ParseSearchRequest normalizes raw query parameters into a SearchRequest.
func ParseSearchRequest(values url.Values, opts ParseOptions) (SearchRequest, error) {
	if opts.MaxQueryLength <= 0 {
		opts.MaxQueryLength = DefaultMaxQueryLength
	}
	p := paramParser{values: values, lenient: opts.LenientFilterParsing}

	req := SearchRequest{Type: enums.SearchTypeProducts}
	if raw := strings.TrimSpace(values.Get("type")); raw != "" {
		typ, err := enums.ParseSearchType(strings.ToLower(raw))
		if err != nil {
			return SearchRequest{}, pkgerrors.Validation("type", "type must be one of products, suggestions, autocomplete")
		}
		req.Type = typ
	}

	req.Query = sanitizeQuery(values.Get("q"), opts.MaxQueryLength)

	defaultLimit := DefaultProductLimit
	if req.Type != enums.SearchTypeProducts {
		defaultLimit = DefaultSuggestionLimit
	}
	req.Limit = pagination.ClampLimit(p.intValue("limit", defaultLimit), defaultLimit)
	req.Page = pagination.NormalizePage(p.intValue("page", 1))

	req.Filters = SearchFilters{
		CategoryID:        p.uuidValue("category"),
		SubcategoryID:     p.uuidValue("subcategory"),
		PriceMinCents:     p.centsValue("price_min", true),
		PriceMaxCents:     p.centsValue("price_max", false),
		City:              p.textValue("city"),
		State:             p.textValue("state"),
		SampleAvailable:   p.boolValue("sample_available"),
		DropshipAvailable: p.boolValue("dropship_available"),
		Tags:              splitList(values.Get("tags")),
		Colors:            splitList(values.Get("colors")),
		Sizes:             splitList(values.Get("sizes")),
	}
	if p.err != nil {
		return SearchRequest{}, p.err
	}

	req.Sort = resolveSort(values.Get("sort"), req.HasQuery())

	if err := requestValidator.Struct(req); err != nil {
		field := "request"
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			field = strings.ToLower(verrs[0].Field())
		}
		return SearchRequest{}, pkgerrors.Validation(field, "invalid search request")
	}
	return req, nil
}

func resolveSort(raw string, hasQuery bool) enums.SortKey {
	if strings.TrimSpace(raw) == "" {
		if hasQuery {
			return enums.SortRelevance
		}
		return enums.SortCreatedAtDesc
	}
	key, err := enums.ParseSortKey(raw)
	if err != nil {
		return enums.SortCreatedAtDesc
	}
	if key == enums.SortRelevance && !hasQuery {
		return enums.SortCreatedAtDesc
	}
	return key
}

func sanitizeQuery(raw string, maxRunes int) string {
	trimmed := strings.TrimSpace(raw)
	if utf8.RuneCountInString(trimmed) > maxRunes {
		trimmed = strings.TrimSpace(string([]rune(trimmed)[:maxRunes]))
	}
	if foldText(trimmed) == "" {
		return ""
	}
	return trimmed
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if token := strings.TrimSpace(part); token != "" {
			out = append(out, token)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// paramParser records the first strict-mode failure; lenient mode never fails.
type paramParser struct {
	values  url.Values
	lenient bool
	err     error
}

func (p *paramParser) reject(field, message string) {
	if p.lenient || p.err != nil {
		return
	}
	p.err = pkgerrors.Validation(field, message)
}

func (p *paramParser) raw(key string) string {
	return strings.TrimSpace(p.values.Get(key))
}

func (p *paramParser) intValue(key string, fallback int) int {
	raw := p.raw(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if errors.Is(err, strconv.ErrRange) {
		// out-of-range integers saturate and are clamped by the caller
		if strings.HasPrefix(raw, "-") {
			return math.MinInt
		}
		return math.MaxInt
	}
	if err != nil {
		p.reject(key, key+" must be numeric")
		return fallback
	}
	return v
}

func (p *paramParser) uuidValue(key string) *uuid.UUID {
	raw := p.raw(key)
	if raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		p.reject(key, key+" must be a valid id")
		return nil
	}
	return &id
}

// centsValue converts a major-unit price into inclusive minor units.
func (p *paramParser) centsValue(key string, lower bool) *int64 {
	raw := p.raw(key)
	if raw == "" {
		return nil
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil || amount.Abs().GreaterThan(maxPriceMajor) {
		p.reject(key, key+" must be a number")
		return nil
	}
	minor := amount.Mul(hundred)
	if lower {
		minor = minor.Ceil()
	} else {
		minor = minor.Floor()
	}
	v := minor.IntPart()
	return &v
}

func (p *paramParser) textValue(key string) *string {
	raw := p.raw(key)
	if raw == "" {
		return nil
	}
	return &raw
}

func (p *paramParser) boolValue(key string) *bool {
	raw := p.raw(key)
	if raw == "" {
		return nil
	}
	switch strings.ToLower(raw) {
	case "true":
		v := true
		return &v
	case "false":
		v := false
		return &v
	}
	p.reject(key, key+" must be true or false")
	return nil
}
