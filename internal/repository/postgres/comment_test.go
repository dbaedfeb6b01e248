package postgres

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/sellerhub/internal/domain"
	apperrors "github.com/utafrali/sellerhub/pkg/errors"
)

func commentColumnNames() []string {
	return []string{"id", "message", "approved", "author_id", "seller_id", "created_at", "updated_at"}
}

func sampleComment() *domain.Comment {
	return &domain.Comment{
		ID:        "comment-1",
		Message:   "Fast shipping, well packed.",
		AuthorID:  strPtr("author-1"),
		SellerID:  "seller-1",
		CreatedAt: fixedTime,
		UpdatedAt: fixedTime,
	}
}

func commentRow(c *domain.Comment) []any {
	return []any{c.ID, c.Message, c.Approved, c.AuthorID, c.SellerID, c.CreatedAt, c.UpdatedAt}
}

func TestCommentRepository_Create(t *testing.T) {
	mock := newMockPool(t)
	repo := NewCommentRepository(mock)
	c := sampleComment()

	mock.ExpectExec("INSERT INTO comments").
		WithArgs(commentRow(c)...).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.Create(context.Background(), c))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommentRepository_GetByID(t *testing.T) {
	mock := newMockPool(t)
	repo := NewCommentRepository(mock)
	c := sampleComment()

	mock.ExpectQuery("SELECT .+ FROM comments WHERE id = ").
		WithArgs(c.ID).
		WillReturnRows(pgxmock.NewRows(commentColumnNames()).AddRow(commentRow(c)...))

	got, err := repo.GetByID(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.Message, got.Message)
	assert.False(t, got.Approved)
	require.NotNil(t, got.AuthorID)
	assert.Equal(t, "author-1", *got.AuthorID)
}

func TestCommentRepository_GetByID_NotFound(t *testing.T) {
	mock := newMockPool(t)
	repo := NewCommentRepository(mock)

	mock.ExpectQuery("SELECT .+ FROM comments WHERE id = ").
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCommentRepository_UpdateMessage_KeepsApproval(t *testing.T) {
	mock := newMockPool(t)
	repo := NewCommentRepository(mock)
	c := sampleComment()
	c.Approved = true
	c.Message = "Updated: still great."

	mock.ExpectQuery("UPDATE comments SET message = ").
		WithArgs(c.Message, pgxmock.AnyArg(), c.ID).
		WillReturnRows(pgxmock.NewRows(commentColumnNames()).AddRow(commentRow(c)...))

	got, err := repo.UpdateMessage(context.Background(), c.ID, c.Message)
	require.NoError(t, err)
	assert.Equal(t, "Updated: still great.", got.Message)
	assert.True(t, got.Approved)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommentRepository_SetApproved_NotFound(t *testing.T) {
	mock := newMockPool(t)
	repo := NewCommentRepository(mock)

	mock.ExpectQuery("UPDATE comments SET approved = ").
		WithArgs(true, pgxmock.AnyArg(), "missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.SetApproved(context.Background(), "missing", true)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCommentRepository_Delete_NotFound(t *testing.T) {
	mock := newMockPool(t)
	repo := NewCommentRepository(mock)

	mock.ExpectExec("DELETE FROM comments").
		WithArgs("missing").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), "missing"), apperrors.ErrNotFound)
}

func TestCommentRepository_ListBySeller(t *testing.T) {
	mock := newMockPool(t)
	repo := NewCommentRepository(mock)
	c1 := sampleComment()
	c2 := sampleComment()
	c2.ID = "comment-2"
	c2.AuthorID = nil

	mock.ExpectQuery("FROM comments\\s+WHERE seller_id = ").
		WithArgs("seller-1").
		WillReturnRows(pgxmock.NewRows(commentColumnNames()).
			AddRow(commentRow(c1)...).
			AddRow(commentRow(c2)...))

	comments, err := repo.ListBySeller(context.Background(), "seller-1")
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Nil(t, comments[1].AuthorID)
}

func TestCommentRepository_ListByApproval_Empty(t *testing.T) {
	mock := newMockPool(t)
	repo := NewCommentRepository(mock)

	mock.ExpectQuery("FROM comments\\s+WHERE approved = ").
		WithArgs(false).
		WillReturnRows(pgxmock.NewRows(commentColumnNames()))

	comments, err := repo.ListByApproval(context.Background(), false)
	require.NoError(t, err)
	assert.NotNil(t, comments)
	assert.Empty(t, comments)
}
