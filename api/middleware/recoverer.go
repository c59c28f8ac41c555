package middleware

import (
	"fmt"
	"net/http"

	"github.com/tradelink/tradelink-backend/api/responses"
	pkgerrors "github.com/tradelink/tradelink-backend/pkg/errors"
	"github.com/tradelink/tradelink-backend/pkg/logger"
	"github.com/tradelink/tradelink-backend/pkg/metrics"
)

// Recoverer turns a handler panic into a 500 envelope and counts it as an
// internal failure labelled "panic".
func Recoverer(logg *logger.Logger, m *metrics.SearchMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				m.IncFailure("panic", string(pkgerrors.CodeInternal))

				err := fmt.Errorf("panic: %v", rec)
				ctx := r.Context()
				if logg != nil {
					ctx = logg.WithFields(ctx, map[string]any{
						"panic":  fmt.Sprint(rec),
						"method": r.Method,
						"path":   r.URL.Path,
					})
					logg.Error(ctx, "panic.recovered", err)
				}
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "panic"))
			}()
			next.ServeHTTP(w, r)
		})
	}
}
