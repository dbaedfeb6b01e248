// Package service holds the feedback business rules: who may do what to
// comments, ratings and seller profiles.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/utafrali/sellerhub/internal/domain"
	apperrors "github.com/utafrali/sellerhub/pkg/errors"
)

// EventPublisher publishes domain events. Failures are logged by the caller
// and never fail the operation.
type EventPublisher interface {
	PublishCommentCreated(ctx context.Context, c *domain.Comment) error
	PublishCommentUpdated(ctx context.Context, c *domain.Comment) error
	PublishCommentModerated(ctx context.Context, c *domain.Comment) error
	PublishCommentDeleted(ctx context.Context, c *domain.Comment) error
	PublishSellerCreated(ctx context.Context, s *domain.SellerProfile) error
	PublishSellerUpdated(ctx context.Context, s *domain.SellerProfile) error
	PublishSellerModerated(ctx context.Context, sellerID string, confirmed bool) error
	PublishSellerDeleted(ctx context.Context, sellerID string) error
	PublishRatingSubmitted(ctx context.Context, r *domain.Rating, aggregate int) error
}

// storeError keeps application errors (not found, conflicts) as they are and
// turns anything else coming from a store into StoreUnavailable.
func storeError(op string, err error) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return apperrors.StoreUnavailable(fmt.Errorf("%s: %w", op, err))
}

func logPublishError(ctx context.Context, logger *slog.Logger, event string, err error, attrs ...slog.Attr) {
	if err == nil {
		return
	}
	args := make([]any, 0, len(attrs)+2)
	args = append(args, slog.String("event", event), slog.String("error", err.Error()))
	for _, a := range attrs {
		args = append(args, a)
	}
	logger.WarnContext(ctx, "failed to publish event", args...)
}
