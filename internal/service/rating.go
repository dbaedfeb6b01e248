package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/utafrali/sellerhub/internal/domain"
	"github.com/utafrali/sellerhub/internal/repository"
	apperrors "github.com/utafrali/sellerhub/pkg/errors"
)

// RatingService records marks and keeps seller aggregates current.
type RatingService struct {
	ratings  repository.RatingRepository
	sellers  *SellerService
	identity *IdentityService
	events   EventPublisher
	logger   *slog.Logger
}

// NewRatingService creates a new rating service.
func NewRatingService(
	ratings repository.RatingRepository,
	sellers *SellerService,
	identity *IdentityService,
	events EventPublisher,
	logger *slog.Logger,
) *RatingService {
	return &RatingService{
		ratings:  ratings,
		sellers:  sellers,
		identity: identity,
		events:   events,
		logger:   logger,
	}
}

// Evaluate records the actor's mark for a seller, replacing any earlier
// mark by the same author, and returns the profile with its new aggregate.
func (s *RatingService) Evaluate(ctx context.Context, actor domain.Actor, sellerID string, mark int) (*domain.SellerProfile, error) {
	if !domain.IsValidMark(mark) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("mark must be between %d and %d", domain.MinMark, domain.MaxMark))
	}

	seller, err := s.sellers.GetSeller(ctx, sellerID)
	if err != nil {
		return nil, err
	}

	author, err := s.identity.resolveActor(ctx, actor)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	rating := &domain.Rating{
		ID:        uuid.New().String(),
		Mark:      mark,
		AuthorID:  author.ID,
		SellerID:  sellerID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	aggregate, err := s.ratings.SubmitAndRecompute(ctx, rating)
	if err != nil {
		return nil, storeError("submit rating", err)
	}
	seller.Rating = aggregate
	seller.UpdatedAt = now

	logPublishError(ctx, s.logger, "rating.submitted", s.events.PublishRatingSubmitted(ctx, rating, aggregate),
		slog.String("seller_id", sellerID))

	s.logger.InfoContext(ctx, "rating submitted",
		slog.String("seller_id", sellerID),
		slog.String("author_id", author.ID),
		slog.Int("mark", mark),
		slog.Int("aggregate", aggregate),
	)
	return seller, nil
}
