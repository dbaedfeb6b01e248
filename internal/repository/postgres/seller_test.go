package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/sellerhub/internal/domain"
	apperrors "github.com/utafrali/sellerhub/pkg/errors"
)

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

func sellerColumnNames() []string {
	return []string{
		"id", "owner_user_id", "username", "first_name", "last_name",
		"email", "confirmed_by_admin", "rating", "created_at", "updated_at",
	}
}

func sampleSeller() *domain.SellerProfile {
	return &domain.SellerProfile{
		ID:          "seller-1",
		OwnerUserID: strPtr("user-1"),
		Username:    "corner-shop",
		FirstName:   "Mila",
		LastName:    "Novak",
		Email:       strPtr("mila@example.com"),
		Rating:      7,
		CreatedAt:   fixedTime,
		UpdatedAt:   fixedTime,
	}
}

func sellerRow(s *domain.SellerProfile) []any {
	return []any{
		s.ID, s.OwnerUserID, s.Username, s.FirstName, s.LastName,
		s.Email, s.ConfirmedByAdmin, s.Rating, s.CreatedAt, s.UpdatedAt,
	}
}

func sellerInsertArgs(s *domain.SellerProfile) []any {
	return sellerRow(s)
}

// ---------------------------------------------------------------------------
// Create
// ---------------------------------------------------------------------------

func TestSellerRepository_Create_Success(t *testing.T) {
	mock := newMockPool(t)
	repo := NewSellerRepository(mock)
	s := sampleSeller()

	mock.ExpectExec("INSERT INTO seller_profiles").
		WithArgs(sellerInsertArgs(s)...).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.Create(context.Background(), s))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSellerRepository_Create_DuplicateEmail(t *testing.T) {
	mock := newMockPool(t)
	repo := NewSellerRepository(mock)
	s := sampleSeller()

	mock.ExpectExec("INSERT INTO seller_profiles").
		WithArgs(sellerInsertArgs(s)...).
		WillReturnError(uniqueViolation(constraintSellerEmail))

	err := repo.Create(context.Background(), s)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
	assert.Contains(t, err.Error(), "email")
}

func TestSellerRepository_Create_DuplicateUsername(t *testing.T) {
	mock := newMockPool(t)
	repo := NewSellerRepository(mock)
	s := sampleSeller()

	mock.ExpectExec("INSERT INTO seller_profiles").
		WithArgs(sellerInsertArgs(s)...).
		WillReturnError(uniqueViolation(constraintSellerUsername))

	err := repo.Create(context.Background(), s)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
	assert.Contains(t, err.Error(), "username")
}

// ---------------------------------------------------------------------------
// CreateWithLinkedRecord
// ---------------------------------------------------------------------------

func TestSellerRepository_CreateWithLinkedRecord_Commits(t *testing.T) {
	mock := newMockPool(t)
	repo := NewSellerRepository(mock)
	s := sampleSeller()
	s.OwnerUserID = nil
	linked := &domain.SellerFromComment{
		ID: "sfc-1", ProfileID: s.ID, Username: s.Username,
		FirstName: s.FirstName, LastName: s.LastName, Email: *s.Email, CreatedAt: fixedTime,
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO seller_profiles").
		WithArgs(sellerInsertArgs(s)...).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO seller_from_comment").
		WithArgs(linked.ID, s.ID, linked.Username, linked.FirstName, linked.LastName, linked.Email, linked.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	require.NoError(t, repo.CreateWithLinkedRecord(context.Background(), s, linked))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSellerRepository_CreateWithLinkedRecord_RollsBackOnConflict(t *testing.T) {
	mock := newMockPool(t)
	repo := NewSellerRepository(mock)
	s := sampleSeller()
	linked := &domain.SellerFromComment{ID: "sfc-1", CreatedAt: fixedTime}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO seller_profiles").
		WithArgs(sellerInsertArgs(s)...).
		WillReturnError(uniqueViolation(constraintSellerUsername))
	mock.ExpectRollback()

	err := repo.CreateWithLinkedRecord(context.Background(), s, linked)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// Lookups
// ---------------------------------------------------------------------------

func TestSellerRepository_GetByID_Success(t *testing.T) {
	mock := newMockPool(t)
	repo := NewSellerRepository(mock)
	s := sampleSeller()

	mock.ExpectQuery("SELECT .+ FROM seller_profiles WHERE id = ").
		WithArgs(s.ID).
		WillReturnRows(pgxmock.NewRows(sellerColumnNames()).AddRow(sellerRow(s)...))

	got, err := repo.GetByID(context.Background(), s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.Username, got.Username)
	require.NotNil(t, got.OwnerUserID)
	assert.Equal(t, "user-1", *got.OwnerUserID)
	assert.Equal(t, 7, got.Rating)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSellerRepository_GetByEmail_NotFound(t *testing.T) {
	mock := newMockPool(t)
	repo := NewSellerRepository(mock)

	mock.ExpectQuery("SELECT .+ FROM seller_profiles WHERE email = ").
		WithArgs("nobody@example.com").
		WillReturnError(pgx.ErrNoRows)

	got, err := repo.GetByEmail(context.Background(), "nobody@example.com")
	assert.Nil(t, got)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSellerRepository_GetByUsername_DBError(t *testing.T) {
	mock := newMockPool(t)
	repo := NewSellerRepository(mock)

	mock.ExpectQuery("SELECT .+ FROM seller_profiles WHERE username = ").
		WithArgs("corner-shop").
		WillReturnError(errors.New("connection refused"))

	_, err := repo.GetByUsername(context.Background(), "corner-shop")
	require.Error(t, err)
	assert.NotErrorIs(t, err, apperrors.ErrNotFound)
	assert.Contains(t, err.Error(), "get seller by username")
}

// ---------------------------------------------------------------------------
// List / SearchByRating
// ---------------------------------------------------------------------------

func TestSellerRepository_List(t *testing.T) {
	mock := newMockPool(t)
	repo := NewSellerRepository(mock)
	s := sampleSeller()

	cols := append(sellerColumnNames(), "total_count")
	mock.ExpectQuery("SELECT .+ FROM seller_profiles\\s+ORDER BY created_at DESC").
		WithArgs(20, 40).
		WillReturnRows(pgxmock.NewRows(cols).AddRow(append(sellerRow(s), 41)...))

	sellers, total, err := repo.List(context.Background(), 40, 20)
	require.NoError(t, err)
	assert.Len(t, sellers, 1)
	assert.Equal(t, 41, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSellerRepository_SearchByRating_BothBounds(t *testing.T) {
	mock := newMockPool(t)
	repo := NewSellerRepository(mock)
	lo, hi := 5, 8

	cols := append(sellerColumnNames(), "total_count")
	mock.ExpectQuery("WHERE rating >= \\$1 AND rating <= \\$2\\s+ORDER BY rating DESC").
		WithArgs(5, 8, 10, 0).
		WillReturnRows(pgxmock.NewRows(cols))

	sellers, total, err := repo.SearchByRating(context.Background(), domain.RatingFilter{Min: &lo, Max: &hi}, 0, 10)
	require.NoError(t, err)
	assert.Empty(t, sellers)
	assert.NotNil(t, sellers)
	assert.Equal(t, 0, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSellerRepository_SearchByRating_MaxOnly(t *testing.T) {
	mock := newMockPool(t)
	repo := NewSellerRepository(mock)
	hi := 3
	s := sampleSeller()
	s.Rating = 2

	cols := append(sellerColumnNames(), "total_count")
	mock.ExpectQuery("WHERE rating <= \\$1\\s+ORDER BY").
		WithArgs(3, 10, 0).
		WillReturnRows(pgxmock.NewRows(cols).AddRow(append(sellerRow(s), 1)...))

	sellers, total, err := repo.SearchByRating(context.Background(), domain.RatingFilter{Max: &hi}, 0, 10)
	require.NoError(t, err)
	require.Len(t, sellers, 1)
	assert.Equal(t, 2, sellers[0].Rating)
	assert.Equal(t, 1, total)
}

// ---------------------------------------------------------------------------
// Moderation / Update / Delete
// ---------------------------------------------------------------------------

func TestSellerRepository_ListByConfirmation(t *testing.T) {
	mock := newMockPool(t)
	repo := NewSellerRepository(mock)
	s := sampleSeller()

	mock.ExpectQuery("WHERE confirmed_by_admin = ").
		WithArgs(false).
		WillReturnRows(pgxmock.NewRows(sellerColumnNames()).AddRow(sellerRow(s)...))

	sellers, err := repo.ListByConfirmation(context.Background(), false)
	require.NoError(t, err)
	assert.Len(t, sellers, 1)
}

func TestSellerRepository_SetConfirmed_NotFound(t *testing.T) {
	mock := newMockPool(t)
	repo := NewSellerRepository(mock)

	mock.ExpectExec("UPDATE seller_profiles SET confirmed_by_admin").
		WithArgs(true, pgxmock.AnyArg(), "missing").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.SetConfirmed(context.Background(), "missing", true)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSellerRepository_Update_Success(t *testing.T) {
	mock := newMockPool(t)
	repo := NewSellerRepository(mock)
	s := sampleSeller()

	mock.ExpectExec("UPDATE seller_profiles\\s+SET first_name").
		WithArgs(s.FirstName, s.LastName, s.Email, pgxmock.AnyArg(), s.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, repo.Update(context.Background(), s))
	assert.True(t, s.UpdatedAt.After(fixedTime))
}

func TestSellerRepository_Delete(t *testing.T) {
	mock := newMockPool(t)
	repo := NewSellerRepository(mock)

	mock.ExpectExec("DELETE FROM seller_profiles").
		WithArgs("seller-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	require.NoError(t, repo.Delete(context.Background(), "seller-1"))

	mock.ExpectExec("DELETE FROM seller_profiles").
		WithArgs("seller-2").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	assert.ErrorIs(t, repo.Delete(context.Background(), "seller-2"), apperrors.ErrNotFound)
}

// ---------------------------------------------------------------------------
// ListTop
// ---------------------------------------------------------------------------

func TestSellerRepository_ListTop(t *testing.T) {
	mock := newMockPool(t)
	repo := NewSellerRepository(mock)

	mock.ExpectQuery("ORDER BY rating DESC, created_at ASC\\s+LIMIT").
		WithArgs(2).
		WillReturnRows(pgxmock.NewRows([]string{"id", "username", "first_name", "last_name", "rating"}).
			AddRow("s-1", "alpha", "Al", "Pha", 9).
			AddRow("s-2", "beta", "Be", "Ta", 8))

	top, err := repo.ListTop(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "s-1", top[0].ID)
	assert.Equal(t, 8, top[1].Rating)
	assert.NoError(t, mock.ExpectationsWereMet())
}
