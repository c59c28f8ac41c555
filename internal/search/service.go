package search

import (
	"context"
	"fmt"
	"time"

	"github.com/tradelink/tradelink-backend/pkg/enums"
	pkgerrors "github.com/tradelink/tradelink-backend/pkg/errors"
	"github.com/tradelink/tradelink-backend/pkg/logger"
	"github.com/tradelink/tradelink-backend/pkg/metrics"
)

const defaultGroupLimit = 5

// Service exposes the catalog search operations.
type Service interface {
	Search(ctx context.Context, req SearchRequest) (*ProductSearchResult, error)
	Suggestions(ctx context.Context, req SearchRequest) (*SuggestionSet, error)
	Autocomplete(ctx context.Context, req SearchRequest) ([]AutocompleteItem, error)
}

// catalogStore is the read-only catalog surface the service depends on.
type catalogStore interface {
	Snapshot(ctx context.Context, fn func(repo *Repository) error) error
	Suggest(ctx context.Context, term string, productLimit, groupLimit int) (*SuggestionLookup, error)
}

type ServiceParams struct {
	Repo       catalogStore
	Logger     *logger.Logger
	Metrics    *metrics.SearchMetrics
	Threshold  float64
	Weights    []FieldWeight
	GroupLimit int
}

type service struct {
	repo       catalogStore
	logg       *logger.Logger
	metrics    *metrics.SearchMetrics
	scorer     *Scorer
	groupLimit int
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("search repository required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	groupLimit := params.GroupLimit
	if groupLimit <= 0 {
		groupLimit = defaultGroupLimit
	}
	return &service{
		repo:       params.Repo,
		logg:       params.Logger,
		metrics:    params.Metrics,
		scorer:     NewScorer(params.Threshold, params.Weights),
		groupLimit: groupLimit,
	}, nil
}

func (s *service) Search(ctx context.Context, req SearchRequest) (*ProductSearchResult, error) {
	start := time.Now()
	strategy := strategyFor(req, s.scorer)

	var page *CatalogPage
	err := s.repo.Snapshot(ctx, func(repo *Repository) error {
		var err error
		page, err = repo.ListActive(ctx, CatalogQuery{
			Filters: req.Filters,
			Sort:    req.Sort,
			Page:    req.Page,
			Limit:   req.Limit,
		})
		return err
	})
	if err != nil {
		s.fail(enums.SearchTypeProducts, err)
		return nil, err
	}

	items := strategy.Rank(page.Entries, req.Query)

	s.observe(ctx, enums.SearchTypeProducts, strategy.Name(), len(items), start)
	return &ProductSearchResult{
		Items:      items,
		Total:      page.Total,
		Page:       page.Page,
		Limit:      page.Limit,
		TotalPages: page.TotalPages,
		Query:      req.Query,
		Strategy:   strategy.Name(),
	}, nil
}

func (s *service) observe(ctx context.Context, typ enums.SearchType, strategy string, count int, start time.Time) {
	elapsed := time.Since(start)
	s.metrics.ObserveSearch(typ.String(), strategy, count, elapsed)

	fields := map[string]any{
		"search_type": typ.String(),
		"results":     count,
		"duration_ms": elapsed.Milliseconds(),
	}
	if strategy != "" {
		fields["strategy"] = strategy
	}
	s.logg.Info(s.logg.WithFields(ctx, fields), "search.complete")
}

func (s *service) fail(typ enums.SearchType, err error) {
	code := pkgerrors.CodeInternal
	if typed := pkgerrors.As(err); typed != nil {
		code = typed.Code()
	}
	s.metrics.IncFailure(typ.String(), string(code))
}
