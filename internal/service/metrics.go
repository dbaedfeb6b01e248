package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Top-sellers cache lookup results.
const (
	cacheHit   = "hit"
	cacheMiss  = "miss"
	cacheError = "error"
)

var (
	topSellersLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sellerhub_top_sellers_cache_lookups_total",
			Help: "Top-sellers reads by cache result (hit, miss, error)",
		},
		[]string{"result"},
	)

	topSellersRefreshDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sellerhub_top_sellers_refresh_duration_seconds",
			Help:    "Duration of a top-sellers snapshot refresh",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"status"},
	)
)
