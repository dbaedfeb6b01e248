package repository

import (
	"context"

	"github.com/utafrali/sellerhub/internal/domain"
)

// AuthorRepository persists anonymous authors.
type AuthorRepository interface {
	// Upsert returns the author bound to token, creating it if needed. It is
	// a single atomic statement so concurrent calls yield one row.
	Upsert(ctx context.Context, token string) (*domain.AnonymousAuthor, error)
}

// SellerRepository persists seller profiles.
type SellerRepository interface {
	// Create inserts a new profile.
	Create(ctx context.Context, seller *domain.SellerProfile) error

	// CreateWithLinkedRecord inserts a profile and the SellerFromComment
	// record describing it in one transaction.
	CreateWithLinkedRecord(ctx context.Context, seller *domain.SellerProfile, linked *domain.SellerFromComment) error

	GetByID(ctx context.Context, id string) (*domain.SellerProfile, error)
	GetByEmail(ctx context.Context, email string) (*domain.SellerProfile, error)
	GetByUsername(ctx context.Context, username string) (*domain.SellerProfile, error)

	// List returns one page of profiles and the total count.
	List(ctx context.Context, offset, limit int) ([]domain.SellerProfile, int, error)

	// SearchByRating returns one page of profiles whose rating lies within
	// the filter bounds, and the total count of matches.
	SearchByRating(ctx context.Context, filter domain.RatingFilter, offset, limit int) ([]domain.SellerProfile, int, error)

	ListByConfirmation(ctx context.Context, confirmed bool) ([]domain.SellerProfile, error)
	SetConfirmed(ctx context.Context, id string, confirmed bool) error

	// Update writes the owner-editable fields of a profile.
	Update(ctx context.Context, seller *domain.SellerProfile) error

	// Delete removes a profile together with its comments and ratings.
	Delete(ctx context.Context, id string) error

	// ListTop returns the highest-rated sellers, oldest first on ties.
	ListTop(ctx context.Context, limit int) ([]domain.SellerSummary, error)
}

// CommentRepository persists comments.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	GetByID(ctx context.Context, id string) (*domain.Comment, error)
	UpdateMessage(ctx context.Context, id, message string) (*domain.Comment, error)
	SetApproved(ctx context.Context, id string, approved bool) (*domain.Comment, error)
	Delete(ctx context.Context, id string) error
	ListBySeller(ctx context.Context, sellerID string) ([]domain.Comment, error)
	ListByApproval(ctx context.Context, approved bool) ([]domain.Comment, error)
}

// RatingRepository persists ratings and keeps the seller aggregate current.
type RatingRepository interface {
	// SubmitAndRecompute upserts the mark of (authorID, sellerID), recomputes
	// the seller's aggregate rating and stores it, all in one transaction.
	// It returns the new aggregate.
	SubmitAndRecompute(ctx context.Context, rating *domain.Rating) (int, error)
}

// TopSellersCache stores the top-sellers snapshot.
type TopSellersCache interface {
	// Get returns the snapshot, or nil without error when none is stored.
	Get(ctx context.Context) ([]domain.SellerSummary, error)
	Set(ctx context.Context, sellers []domain.SellerSummary) error
	Clear(ctx context.Context) error
}
