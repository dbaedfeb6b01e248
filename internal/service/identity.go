package service

import (
	"context"
	"log/slog"

	"github.com/utafrali/sellerhub/internal/domain"
	"github.com/utafrali/sellerhub/internal/repository"
	apperrors "github.com/utafrali/sellerhub/pkg/errors"
)

// IdentityService maps anonymous identity tokens to authors.
type IdentityService struct {
	authors repository.AuthorRepository
	logger  *slog.Logger
}

// NewIdentityService creates a new identity service.
func NewIdentityService(authors repository.AuthorRepository, logger *slog.Logger) *IdentityService {
	return &IdentityService{authors: authors, logger: logger}
}

// ResolveOrCreate returns the author bound to token, creating one on first
// use. Repeated calls with the same token return the same author.
func (s *IdentityService) ResolveOrCreate(ctx context.Context, token string) (*domain.AnonymousAuthor, error) {
	if token == "" {
		return nil, apperrors.IdentityNotResolved()
	}

	author, err := s.authors.Upsert(ctx, token)
	if err != nil {
		return nil, storeError("resolve author", err)
	}
	return author, nil
}

// resolveActor resolves the anonymous author of actor.
func (s *IdentityService) resolveActor(ctx context.Context, actor domain.Actor) (*domain.AnonymousAuthor, error) {
	return s.ResolveOrCreate(ctx, actor.AnonymousToken)
}
