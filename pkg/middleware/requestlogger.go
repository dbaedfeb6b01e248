package middleware

import (
	"log/slog"
	"net/http"

	"github.com/utafrali/sellerhub/pkg/logger"
)

// RequestLogger stores a request-scoped logger in the context, enriched with
// correlation_id, user_id, actor_kind, trace_id and span_id. Handlers and
// services retrieve it with logger.FromContext.
//
// Mount it after RequestLogging, Tracing and the auth middleware so all
// fields are already known.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if logger.UserIDFromContext(ctx) == "" {
				if id := UserIDFromContext(ctx); id != "" {
					ctx = logger.WithUserID(ctx, id)
				}
			}

			kind := "anonymous"
			if ClaimsFromContext(ctx) != nil {
				kind = "registered"
			}
			ctx = logger.WithActorKind(ctx, kind)

			ctx = logger.NewContext(ctx, logger.WithContext(ctx, base))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
