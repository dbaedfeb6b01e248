package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/utafrali/sellerhub/internal/domain"
	"github.com/utafrali/sellerhub/internal/repository"
	apperrors "github.com/utafrali/sellerhub/pkg/errors"
)

// MaxTopSellers caps the count of a top-sellers read.
const MaxTopSellers = 100

// TopSellersService serves the top-sellers list. Reads use the cached
// snapshot only when the requested count equals the snapshot size; Refresh
// is the only writer of the snapshot.
type TopSellersService struct {
	sellers repository.SellerRepository
	cache   repository.TopSellersCache
	size    int
	logger  *slog.Logger
}

// NewTopSellersService creates a new top-sellers service whose snapshot
// holds size sellers.
func NewTopSellersService(sellers repository.SellerRepository, cache repository.TopSellersCache, size int, logger *slog.Logger) *TopSellersService {
	return &TopSellersService{
		sellers: sellers,
		cache:   cache,
		size:    size,
		logger:  logger,
	}
}

// SnapshotSize returns the number of sellers kept in the snapshot.
func (s *TopSellersService) SnapshotSize() int {
	return s.size
}

// GetTopSellers returns the count highest-rated sellers. It never writes
// the cache; cache failures fall back to the database.
func (s *TopSellersService) GetTopSellers(ctx context.Context, count int) ([]domain.SellerSummary, error) {
	if count < 1 || count > MaxTopSellers {
		return nil, apperrors.InvalidInput(fmt.Sprintf("count must be between 1 and %d", MaxTopSellers))
	}

	if count == s.size {
		cached, err := s.cache.Get(ctx)
		switch {
		case err != nil:
			topSellersLookups.WithLabelValues(cacheError).Inc()
			s.logger.WarnContext(ctx, "top sellers cache read failed, using database",
				slog.String("error", err.Error()),
			)
		case cached != nil:
			topSellersLookups.WithLabelValues(cacheHit).Inc()
			return cached, nil
		default:
			topSellersLookups.WithLabelValues(cacheMiss).Inc()
		}
	} else {
		topSellersLookups.WithLabelValues(cacheMiss).Inc()
	}

	sellers, err := s.sellers.ListTop(ctx, count)
	if err != nil {
		return nil, storeError("list top sellers", err)
	}
	return sellers, nil
}

// Refresh recomputes the snapshot from the database and overwrites it.
func (s *TopSellersService) Refresh(ctx context.Context) (err error) {
	start := time.Now()
	defer func() {
		status := "ok"
		if err != nil {
			status = "error"
		}
		topSellersRefreshDuration.WithLabelValues(status).Observe(time.Since(start).Seconds())
	}()

	sellers, err := s.sellers.ListTop(ctx, s.size)
	if err != nil {
		return storeError("refresh top sellers", err)
	}
	if err := s.cache.Set(ctx, sellers); err != nil {
		return apperrors.StoreUnavailable(fmt.Errorf("store top sellers snapshot: %w", err))
	}

	s.logger.DebugContext(ctx, "top sellers snapshot refreshed", slog.Int("sellers", len(sellers)))
	return nil
}

// Clear drops the snapshot. Reads go to the database until the next refresh.
func (s *TopSellersService) Clear(ctx context.Context) error {
	if err := s.cache.Clear(ctx); err != nil {
		return apperrors.StoreUnavailable(fmt.Errorf("clear top sellers snapshot: %w", err))
	}
	s.logger.InfoContext(ctx, "top sellers snapshot cleared")
	return nil
}
