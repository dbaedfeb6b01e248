package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/utafrali/sellerhub/internal/domain"
	"github.com/utafrali/sellerhub/pkg/database"
)

// AuthorRepository implements repository.AuthorRepository using PostgreSQL.
type AuthorRepository struct {
	pool database.DBTX
}

// NewAuthorRepository creates a new PostgreSQL-backed author repository.
func NewAuthorRepository(pool database.DBTX) *AuthorRepository {
	return &AuthorRepository{pool: pool}
}

const queryUpsertAuthor = `
		INSERT INTO authors (id, token, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (token) DO UPDATE SET token = EXCLUDED.token
		RETURNING id, token, created_at`

// Upsert returns the author for token, inserting it on first use. The no-op
// update makes RETURNING yield the existing row on conflict.
func (r *AuthorRepository) Upsert(ctx context.Context, token string) (a *domain.AnonymousAuthor, err error) {
	ctx, end := database.TraceQuery(ctx, "UpsertAuthor", queryUpsertAuthor)
	defer func() { end(err) }()

	var author domain.AnonymousAuthor
	err = r.pool.QueryRow(ctx, queryUpsertAuthor, uuid.New().String(), token, time.Now().UTC()).Scan(
		&author.ID,
		&author.Token,
		&author.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert author: %w", err)
	}

	return &author, nil
}
