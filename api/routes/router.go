package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tradelink/tradelink-backend/api/controllers"
	"github.com/tradelink/tradelink-backend/api/middleware"
	"github.com/tradelink/tradelink-backend/api/responses"
	"github.com/tradelink/tradelink-backend/internal/search"
	"github.com/tradelink/tradelink-backend/pkg/config"
	"github.com/tradelink/tradelink-backend/pkg/db"
	pkgerrors "github.com/tradelink/tradelink-backend/pkg/errors"
	"github.com/tradelink/tradelink-backend/pkg/logger"
	"github.com/tradelink/tradelink-backend/pkg/metrics"
	"github.com/tradelink/tradelink-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	searchService search.Service,
	searchMetrics *metrics.SearchMetrics,
	gatherer prometheus.Gatherer,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg, searchMetrics),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		responses.WriteError(req.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "route not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		responses.WriteError(req.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "method not allowed"))
	})

	// a nil *redis.Client must not become a non-nil interface
	var (
		redisPinger redis.Pinger
		limiter     redis.RateLimiter
	)
	if redisClient != nil {
		redisPinger = redisClient
		limiter = redisClient
	}

	searchPolicy := middleware.NewRateLimitPolicy(
		"search",
		cfg.RateLimit.SearchWindow,
		cfg.RateLimit.SearchIPLimit,
	).TrustProxies(cfg.RateLimit.TrustedProxyPrefixes()...)
	parseOpts := search.ParseOptions{
		LenientFilterParsing: cfg.Search.LenientFilterParsing,
		MaxQueryLength:       cfg.Search.MaxQueryLength,
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, dbP, redisPinger, logg))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.With(middleware.RateLimit(searchPolicy, limiter, searchMetrics, logg)).
			Get("/search", controllers.Search(searchService, parseOpts, logg))
	})

	return r
}
