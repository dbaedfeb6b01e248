package http

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/utafrali/sellerhub/internal/domain"
	pkgkafka "github.com/utafrali/sellerhub/pkg/kafka"
)

// noopPublisher accepts every event without a broker.
type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, string, *pkgkafka.Event) error { return nil }

// --- Mock Author Repository ---

type mockAuthorRepository struct {
	mock.Mock
}

func (m *mockAuthorRepository) Upsert(ctx context.Context, token string) (*domain.AnonymousAuthor, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AnonymousAuthor), args.Error(1)
}

// --- Mock Seller Repository ---

type mockSellerRepository struct {
	mock.Mock
}

func (m *mockSellerRepository) Create(ctx context.Context, seller *domain.SellerProfile) error {
	args := m.Called(ctx, seller)
	return args.Error(0)
}

func (m *mockSellerRepository) CreateWithLinkedRecord(ctx context.Context, seller *domain.SellerProfile, linked *domain.SellerFromComment) error {
	args := m.Called(ctx, seller, linked)
	return args.Error(0)
}

func (m *mockSellerRepository) GetByID(ctx context.Context, id string) (*domain.SellerProfile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SellerProfile), args.Error(1)
}

func (m *mockSellerRepository) GetByEmail(ctx context.Context, email string) (*domain.SellerProfile, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SellerProfile), args.Error(1)
}

func (m *mockSellerRepository) GetByUsername(ctx context.Context, username string) (*domain.SellerProfile, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SellerProfile), args.Error(1)
}

func (m *mockSellerRepository) List(ctx context.Context, offset, limit int) ([]domain.SellerProfile, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.SellerProfile), args.Int(1), args.Error(2)
}

func (m *mockSellerRepository) SearchByRating(ctx context.Context, filter domain.RatingFilter, offset, limit int) ([]domain.SellerProfile, int, error) {
	args := m.Called(ctx, filter, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.SellerProfile), args.Int(1), args.Error(2)
}

func (m *mockSellerRepository) ListByConfirmation(ctx context.Context, confirmed bool) ([]domain.SellerProfile, error) {
	args := m.Called(ctx, confirmed)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SellerProfile), args.Error(1)
}

func (m *mockSellerRepository) SetConfirmed(ctx context.Context, id string, confirmed bool) error {
	args := m.Called(ctx, id, confirmed)
	return args.Error(0)
}

func (m *mockSellerRepository) Update(ctx context.Context, seller *domain.SellerProfile) error {
	args := m.Called(ctx, seller)
	return args.Error(0)
}

func (m *mockSellerRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockSellerRepository) ListTop(ctx context.Context, limit int) ([]domain.SellerSummary, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SellerSummary), args.Error(1)
}

// --- Mock Comment Repository ---

type mockCommentRepository struct {
	mock.Mock
}

func (m *mockCommentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *mockCommentRepository) GetByID(ctx context.Context, id string) (*domain.Comment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Comment), args.Error(1)
}

func (m *mockCommentRepository) UpdateMessage(ctx context.Context, id, message string) (*domain.Comment, error) {
	args := m.Called(ctx, id, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Comment), args.Error(1)
}

func (m *mockCommentRepository) SetApproved(ctx context.Context, id string, approved bool) (*domain.Comment, error) {
	args := m.Called(ctx, id, approved)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Comment), args.Error(1)
}

func (m *mockCommentRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockCommentRepository) ListBySeller(ctx context.Context, sellerID string) ([]domain.Comment, error) {
	args := m.Called(ctx, sellerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Comment), args.Error(1)
}

func (m *mockCommentRepository) ListByApproval(ctx context.Context, approved bool) ([]domain.Comment, error) {
	args := m.Called(ctx, approved)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Comment), args.Error(1)
}

// --- Mock Rating Repository ---

type mockRatingRepository struct {
	mock.Mock
}

func (m *mockRatingRepository) SubmitAndRecompute(ctx context.Context, rating *domain.Rating) (int, error) {
	args := m.Called(ctx, rating)
	return args.Int(0), args.Error(1)
}

// --- Mock Top Sellers Cache ---

type mockTopSellersCache struct {
	mock.Mock
}

func (m *mockTopSellersCache) Get(ctx context.Context) ([]domain.SellerSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SellerSummary), args.Error(1)
}

func (m *mockTopSellersCache) Set(ctx context.Context, sellers []domain.SellerSummary) error {
	args := m.Called(ctx, sellers)
	return args.Error(0)
}

func (m *mockTopSellersCache) Clear(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

