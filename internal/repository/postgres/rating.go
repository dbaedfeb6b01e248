package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/utafrali/sellerhub/internal/domain"
	"github.com/utafrali/sellerhub/pkg/database"
	apperrors "github.com/utafrali/sellerhub/pkg/errors"
)

// RatingRepository implements repository.RatingRepository using PostgreSQL.
type RatingRepository struct {
	pool database.DBTX
}

// NewRatingRepository creates a new PostgreSQL-backed rating repository.
func NewRatingRepository(pool database.DBTX) *RatingRepository {
	return &RatingRepository{pool: pool}
}

const (
	queryLockSeller = `SELECT id FROM seller_profiles WHERE id = $1 FOR UPDATE`

	queryUpsertRating = `
		INSERT INTO ratings (id, mark, author_id, seller_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (author_id, seller_id) DO UPDATE
		SET mark = EXCLUDED.mark, updated_at = EXCLUDED.updated_at`

	querySumRatings = `
		SELECT COALESCE(SUM(mark), 0), COUNT(*)
		FROM ratings
		WHERE seller_id = $1`

	queryUpdateSellerRating = `
		UPDATE seller_profiles SET rating = $1, updated_at = $2 WHERE id = $3`
)

// SubmitAndRecompute upserts the mark and stores the recomputed aggregate on
// the seller in one transaction. The seller row is locked first so votes for
// the same seller are serialized and every sum sees the previous commit.
func (r *RatingRepository) SubmitAndRecompute(ctx context.Context, rating *domain.Rating) (aggregate int, err error) {
	ctx, end := database.TraceQuery(ctx, "SubmitRating", queryUpsertRating)
	defer func() { end(err) }()

	err = database.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		var sellerID string
		if err := tx.QueryRow(ctx, queryLockSeller, rating.SellerID).Scan(&sellerID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NotFound("seller", rating.SellerID)
			}
			return fmt.Errorf("lock seller: %w", err)
		}

		_, err := tx.Exec(ctx, queryUpsertRating,
			rating.ID,
			rating.Mark,
			rating.AuthorID,
			rating.SellerID,
			rating.CreatedAt,
			rating.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("upsert rating: %w", err)
		}

		var sum, count int64
		if err := tx.QueryRow(ctx, querySumRatings, rating.SellerID).Scan(&sum, &count); err != nil {
			return fmt.Errorf("sum ratings: %w", err)
		}
		aggregate = domain.AggregateRating(sum, count)

		if _, err := tx.Exec(ctx, queryUpdateSellerRating, aggregate, rating.UpdatedAt, rating.SellerID); err != nil {
			return fmt.Errorf("update seller rating: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return aggregate, nil
}
