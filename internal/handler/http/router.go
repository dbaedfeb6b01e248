package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/utafrali/sellerhub/internal/domain"
	"github.com/utafrali/sellerhub/internal/service"
	"github.com/utafrali/sellerhub/pkg/health"
	"github.com/utafrali/sellerhub/pkg/middleware"
)

// listingMaxAge is the Cache-Control max-age, in seconds, of public seller listings.
const listingMaxAge = 60

// Services groups the services exposed over HTTP.
type Services struct {
	Comments   *service.CommentService
	Sellers    *service.SellerService
	Ratings    *service.RatingService
	TopSellers *service.TopSellersService
}

// RouterConfig holds the HTTP-layer settings of the router.
type RouterConfig struct {
	ServiceName       string
	Identity          IdentityConfig
	CORS              middleware.CORSConfig
	TokenValidator    middleware.TokenValidator
	PprofAllowedCIDRs []string

	// Per-IP limit on the anonymous write routes. Zero RPS disables it.
	WriteRateLimit middleware.RateLimitConfig
}

// NewRouter creates a chi router with all sellerhub routes registered.
func NewRouter(svcs Services, cfg RouterConfig, healthHandler *health.Handler, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics(cfg.ServiceName))
	r.Use(middleware.Tracing(cfg.ServiceName))
	r.Use(middleware.CORS(cfg.CORS))

	// Health check and operational endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())
	middleware.RegisterPprof(r, cfg.PprofAllowedCIDRs, logger)

	commentHandler := NewCommentHandler(svcs.Comments, logger)
	sellerHandler := NewSellerHandler(svcs.Sellers, svcs.TopSellers, logger)
	ratingHandler := NewRatingHandler(svcs.Ratings, logger)
	adminHandler := NewAdminHandler(svcs.Comments, svcs.Sellers, svcs.TopSellers, logger)

	identity := AnonymousIdentity(cfg.Identity)
	writeLimit := middleware.RateLimit(cfg.WriteRateLimit, logger)
	listingCache := middleware.CacheControl(listingMaxAge)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(middleware.OptionalAuth(cfg.TokenValidator))
		r.Use(middleware.RequestLogger(logger))

		r.Route("/comments", func(r chi.Router) {
			r.Get("/", commentHandler.ListConfirmed)
			r.Get("/{commentId}", commentHandler.GetComment)

			r.With(writeLimit, identity).Post("/new-seller", commentHandler.AddCommentForNewSeller)
			r.With(writeLimit, identity).Put("/{commentId}", commentHandler.EditComment)
			r.With(identity).Delete("/{commentId}", commentHandler.DeleteComment)
		})

		r.Route("/sellers", func(r chi.Router) {
			r.With(listingCache).Get("/", sellerHandler.ListSellers)
			r.Post("/", sellerHandler.CreateSeller)
			r.With(listingCache).Get("/top", sellerHandler.GetTopSellers)
			r.With(listingCache).Get("/search", sellerHandler.SearchByRating)
			r.Get("/{sellerId}", sellerHandler.GetSeller)
			r.Patch("/{sellerId}", sellerHandler.UpdateSeller)
			r.Get("/{sellerId}/comments", commentHandler.ListSellerComments)

			r.With(writeLimit, identity).Post("/{sellerId}/comments", commentHandler.AddComment)
			r.With(writeLimit, identity).Post("/{sellerId}/rating", ratingHandler.Evaluate)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireRole(domain.RoleAdmin))

			r.Get("/comments/unconfirmed", adminHandler.ListUnconfirmedComments)
			r.Patch("/comments/{commentId}/confirm", adminHandler.ConfirmComment)
			r.Patch("/comments/{commentId}/decline", adminHandler.DeclineComment)
			r.Delete("/comments/{commentId}", adminHandler.DeleteComment)

			r.Get("/sellers", adminHandler.ListSellers)
			r.Patch("/sellers/{sellerId}/confirm", adminHandler.ConfirmSeller)
			r.Patch("/sellers/{sellerId}/decline", adminHandler.DeclineSeller)
			r.Delete("/sellers/{sellerId}", adminHandler.DeleteSeller)

			r.Delete("/cache/top-sellers", adminHandler.ClearTopSellers)
		})
	})

	return r
}
