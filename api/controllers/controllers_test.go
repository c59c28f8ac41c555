package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/tradelink/tradelink-backend/internal/search"
	"github.com/tradelink/tradelink-backend/pkg/config"
	"github.com/tradelink/tradelink-backend/pkg/db"
	"github.com/tradelink/tradelink-backend/pkg/enums"
	pkgerrors "github.com/tradelink/tradelink-backend/pkg/errors"
	"github.com/tradelink/tradelink-backend/pkg/logger"
	"github.com/tradelink/tradelink-backend/pkg/redis"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard})
}

type stubSearchService struct {
	lastReq      search.SearchRequest
	result       *search.ProductSearchResult
	suggestions  *search.SuggestionSet
	autocomplete []search.AutocompleteItem
	err          error
}

func (s *stubSearchService) Search(_ context.Context, req search.SearchRequest) (*search.ProductSearchResult, error) {
	s.lastReq = req
	return s.result, s.err
}

func (s *stubSearchService) Suggestions(_ context.Context, req search.SearchRequest) (*search.SuggestionSet, error) {
	s.lastReq = req
	return s.suggestions, s.err
}

func (s *stubSearchService) Autocomplete(_ context.Context, req search.SearchRequest) ([]search.AutocompleteItem, error) {
	s.lastReq = req
	return s.autocomplete, s.err
}

func serveSearch(t *testing.T, svc search.Service, opts search.ParseOptions, target string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	Search(svc, opts, testLogger()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestSearchProductsWritesPageEnvelope(t *testing.T) {
	score := 0.82
	name := "<mark>Linen</mark> Shirt"
	svc := &stubSearchService{result: &search.ProductSearchResult{
		Items: []search.ScoredEntry{{
			CatalogEntry:    search.CatalogEntry{ID: uuid.New(), Name: "Linen Shirt", Tags: []string{}, Colors: []string{}, Sizes: []string{}},
			Score:           &score,
			HighlightedName: &name,
		}},
		Total:      41,
		Page:       2,
		Limit:      20,
		TotalPages: 3,
		Query:      "linen",
		Strategy:   search.StrategyNameInMemoryRescorePage,
	}}

	rec, body := serveSearch(t, svc, search.DefaultParseOptions(), "/api/v1/search?q=linen&page=2")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, search.StrategyNameInMemoryRescorePage, rec.Header().Get(strategyHeader))
	assert.Equal(t, true, body["success"])
	assert.EqualValues(t, 41, body["total"])
	assert.EqualValues(t, 2, body["page"])
	assert.EqualValues(t, 20, body["limit"])
	assert.EqualValues(t, 3, body["totalPages"])
	assert.Equal(t, "linen", body["query"])

	data, ok := body["data"].([]any)
	require.True(t, ok)
	require.Len(t, data, 1)
	item := data[0].(map[string]any)
	assert.Equal(t, "Linen Shirt", item["name"])
	assert.Equal(t, name, item["highlighted_name"])
	assert.InDelta(t, 0.82, item["score"], 1e-9)

	assert.Equal(t, enums.SearchTypeProducts, svc.lastReq.Type)
	assert.Equal(t, enums.SortRelevance, svc.lastReq.Sort)
}

func TestSearchProductsEmptyResultIsEmptyArray(t *testing.T) {
	svc := &stubSearchService{result: &search.ProductSearchResult{Page: 1, Limit: 20}}

	rec, body := serveSearch(t, svc, search.DefaultParseOptions(), "/api/v1/search?price_min=500&price_max=100")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{}, body["data"])
	assert.EqualValues(t, 0, body["total"])
	assert.EqualValues(t, 0, body["totalPages"])
}

func TestSearchSuggestionsAndAutocomplete(t *testing.T) {
	brand := "Denimco"
	svc := &stubSearchService{
		suggestions: &search.SuggestionSet{
			Products:        []search.ProductSuggestion{},
			Categories:      []search.CategorySuggestion{},
			Brands:          []search.BrandSuggestion{{Name: brand, Count: 3}},
			PopularSearches: []string{},
		},
		autocomplete: []search.AutocompleteItem{{ID: "brand:" + brand, Text: brand, Type: search.AutocompleteBrand, Brand: &brand}},
	}

	rec, body := serveSearch(t, svc, search.DefaultParseOptions(), "/api/v1/search?type=suggestions&q=de")
	assert.Equal(t, http.StatusOK, rec.Code)
	data := body["data"].(map[string]any)
	assert.Equal(t, []any{}, data["popular_searches"])
	assert.Len(t, data["brands"], 1)
	assert.NotContains(t, body, "total")
	assert.Equal(t, 8, svc.lastReq.Limit)

	rec, body = serveSearch(t, svc, search.DefaultParseOptions(), "/api/v1/search?type=autocomplete&q=d&limit=3")
	assert.Equal(t, http.StatusOK, rec.Code)
	items := body["data"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, "brand", items[0].(map[string]any)["type"])
	assert.Equal(t, 3, svc.lastReq.Limit)
}

func TestSearchRejectsUnknownType(t *testing.T) {
	rec, body := serveSearch(t, &stubSearchService{}, search.DefaultParseOptions(), "/api/v1/search?type=orders")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, string(pkgerrors.CodeValidation), body["code"])
	assert.Equal(t, map[string]any{"field": "type"}, body["details"])
}

func TestSearchStrictParsingRejectsMalformedFilter(t *testing.T) {
	opts := search.ParseOptions{LenientFilterParsing: false}
	rec, body := serveSearch(t, &stubSearchService{}, opts, "/api/v1/search?price_min=cheap")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, map[string]any{"field": "price_min"}, body["details"])
}

func TestSearchDependencyFailureHidesDetail(t *testing.T) {
	svc := &stubSearchService{err: pkgerrors.Wrap(pkgerrors.CodeDependency, errors.New("dial tcp 10.0.0.3:5432: refused"), "db: list catalog")}

	rec, body := serveSearch(t, svc, search.DefaultParseOptions(), "/api/v1/search?q=tee")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, string(pkgerrors.CodeDependency), body["code"])
	assert.NotContains(t, rec.Body.String(), "10.0.0.3")
	assert.NotContains(t, rec.Body.String(), "list catalog")
}

func TestSearchNilServiceIsInternalError(t *testing.T) {
	rec, _ := serveSearch(t, nil, search.DefaultParseOptions(), "/api/v1/search")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func testDBClient(t *testing.T) *db.Client {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())), &gorm.Config{})
	require.NoError(t, err)
	client := db.Open(conn)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestHealthReadyPingsDependencies(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: "test"}}
	mr := miniredis.RunT(t)
	redisClient, err := redis.New(context.Background(), config.RedisConfig{Address: mr.Addr()}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = redisClient.Close() })

	rec := httptest.NewRecorder()
	HealthReady(cfg, testDBClient(t), redisClient, testLogger()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "test", rec.Header().Get(envHeader))
	assert.JSONEq(t, `{"success":true,"data":{"status":"ready","checks":{"database":"ok","redis":"ok"}}}`, rec.Body.String())

	mr.Close()
	rec = httptest.NewRecorder()
	HealthReady(cfg, testDBClient(t), redisClient, testLogger()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHealthReadyFailsWhenDatabaseClosed(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: "test"}}
	client := testDBClient(t)
	require.NoError(t, client.Close())

	rec := httptest.NewRecorder()
	HealthReady(cfg, client, nil, testLogger()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHealthLiveAndPing(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: "dev"}}

	rec := httptest.NewRecorder()
	HealthLive(cfg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"data":{"status":"live"}}`, rec.Body.String())

	rec = httptest.NewRecorder()
	PublicPing().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/public/ping", nil))
	assert.JSONEq(t, `{"success":true,"data":{"scope":"public","status":"ok"}}`, rec.Body.String())
}
