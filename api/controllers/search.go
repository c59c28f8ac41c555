package controllers

import (
	"net/http"

	"github.com/tradelink/tradelink-backend/api/responses"
	"github.com/tradelink/tradelink-backend/internal/search"
	"github.com/tradelink/tradelink-backend/pkg/enums"
	pkgerrors "github.com/tradelink/tradelink-backend/pkg/errors"
	"github.com/tradelink/tradelink-backend/pkg/logger"
	"github.com/tradelink/tradelink-backend/pkg/types"
)

const strategyHeader = "X-Search-Strategy"

// Search serves GET /api/v1/search for products, suggestions and autocomplete.
func Search(svc search.Service, opts search.ParseOptions, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "search service unavailable"))
			return
		}

		req, err := search.ParseSearchRequest(r.URL.Query(), opts)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if logg != nil {
			ctx = logg.WithSearch(ctx, req.Type.String(), req.Query)
		}

		switch req.Type {
		case enums.SearchTypeSuggestions:
			set, err := svc.Suggestions(ctx, req)
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
			responses.WriteSuccess(w, set)
		case enums.SearchTypeAutocomplete:
			items, err := svc.Autocomplete(ctx, req)
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
			responses.WriteSuccess(w, items)
		default:
			result, err := svc.Search(ctx, req)
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
			items := result.Items
			if items == nil {
				items = []search.ScoredEntry{}
			}
			w.Header().Set(strategyHeader, result.Strategy)
			responses.WritePage(w, types.PageEnvelope{
				Data:       items,
				Total:      result.Total,
				Page:       result.Page,
				Limit:      result.Limit,
				TotalPages: result.TotalPages,
				Query:      result.Query,
			})
		}
	}
}
