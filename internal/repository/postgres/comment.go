package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/utafrali/sellerhub/internal/domain"
	"github.com/utafrali/sellerhub/pkg/database"
	apperrors "github.com/utafrali/sellerhub/pkg/errors"
)

const commentColumns = `id, message, approved, author_id, seller_id, created_at, updated_at`

// CommentRepository implements repository.CommentRepository using PostgreSQL.
type CommentRepository struct {
	pool database.DBTX
}

// NewCommentRepository creates a new PostgreSQL-backed comment repository.
func NewCommentRepository(pool database.DBTX) *CommentRepository {
	return &CommentRepository{pool: pool}
}

const queryInsertComment = `
		INSERT INTO comments (` + commentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

// Create inserts a new comment.
func (r *CommentRepository) Create(ctx context.Context, c *domain.Comment) (err error) {
	ctx, end := database.TraceQuery(ctx, "CreateComment", queryInsertComment)
	defer func() { end(err) }()

	_, err = r.pool.Exec(ctx, queryInsertComment,
		c.ID,
		c.Message,
		c.Approved,
		c.AuthorID,
		c.SellerID,
		c.CreatedAt,
		c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}
	return nil
}

const queryGetComment = `SELECT ` + commentColumns + ` FROM comments WHERE id = $1`

// GetByID retrieves a comment by its ID.
func (r *CommentRepository) GetByID(ctx context.Context, id string) (c *domain.Comment, err error) {
	ctx, end := database.TraceQuery(ctx, "GetComment", queryGetComment)
	defer func() { end(err) }()

	c, err = scanComment(r.pool.QueryRow(ctx, queryGetComment, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("comment", id)
		}
		return nil, fmt.Errorf("get comment: %w", err)
	}
	return c, nil
}

const queryUpdateCommentMessage = `
		UPDATE comments SET message = $1, updated_at = $2
		WHERE id = $3
		RETURNING ` + commentColumns

// UpdateMessage replaces the message of a comment. The approval flag is left as is.
func (r *CommentRepository) UpdateMessage(ctx context.Context, id, message string) (c *domain.Comment, err error) {
	ctx, end := database.TraceQuery(ctx, "UpdateCommentMessage", queryUpdateCommentMessage)
	defer func() { end(err) }()

	c, err = scanComment(r.pool.QueryRow(ctx, queryUpdateCommentMessage, message, time.Now().UTC(), id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("comment", id)
		}
		return nil, fmt.Errorf("update comment message: %w", err)
	}
	return c, nil
}

const querySetCommentApproved = `
		UPDATE comments SET approved = $1, updated_at = $2
		WHERE id = $3
		RETURNING ` + commentColumns

// SetApproved sets the moderation state of a comment.
func (r *CommentRepository) SetApproved(ctx context.Context, id string, approved bool) (c *domain.Comment, err error) {
	ctx, end := database.TraceQuery(ctx, "SetCommentApproved", querySetCommentApproved)
	defer func() { end(err) }()

	c, err = scanComment(r.pool.QueryRow(ctx, querySetCommentApproved, approved, time.Now().UTC(), id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("comment", id)
		}
		return nil, fmt.Errorf("set comment approved: %w", err)
	}
	return c, nil
}

const queryDeleteComment = `DELETE FROM comments WHERE id = $1`

// Delete removes a comment.
func (r *CommentRepository) Delete(ctx context.Context, id string) (err error) {
	ctx, end := database.TraceQuery(ctx, "DeleteComment", queryDeleteComment)
	defer func() { end(err) }()

	ct, err := r.pool.Exec(ctx, queryDeleteComment, id)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("comment", id)
	}
	return nil
}

const queryListCommentsBySeller = `
		SELECT ` + commentColumns + `
		FROM comments
		WHERE seller_id = $1
		ORDER BY created_at DESC`

// ListBySeller returns every comment on a seller, newest first.
func (r *CommentRepository) ListBySeller(ctx context.Context, sellerID string) (comments []domain.Comment, err error) {
	ctx, end := database.TraceQuery(ctx, "ListCommentsBySeller", queryListCommentsBySeller)
	defer func() { end(err) }()

	return r.list(ctx, queryListCommentsBySeller, sellerID)
}

const queryListCommentsByApproval = `
		SELECT ` + commentColumns + `
		FROM comments
		WHERE approved = $1
		ORDER BY created_at ASC`

// ListByApproval returns every comment in the given moderation state, oldest first.
func (r *CommentRepository) ListByApproval(ctx context.Context, approved bool) (comments []domain.Comment, err error) {
	ctx, end := database.TraceQuery(ctx, "ListCommentsByApproval", queryListCommentsByApproval)
	defer func() { end(err) }()

	return r.list(ctx, queryListCommentsByApproval, approved)
}

func (r *CommentRepository) list(ctx context.Context, query string, args ...any) ([]domain.Comment, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	comments := make([]domain.Comment, 0)
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate comments: %w", err)
	}
	return comments, nil
}

func scanComment(row pgx.Row) (*domain.Comment, error) {
	var c domain.Comment
	err := row.Scan(
		&c.ID,
		&c.Message,
		&c.Approved,
		&c.AuthorID,
		&c.SellerID,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
