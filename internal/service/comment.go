package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/utafrali/sellerhub/internal/domain"
	"github.com/utafrali/sellerhub/internal/repository"
	apperrors "github.com/utafrali/sellerhub/pkg/errors"
)

// CommentService implements comment submission, authorization and moderation.
type CommentService struct {
	comments repository.CommentRepository
	sellers  *SellerService
	identity *IdentityService
	events   EventPublisher
	logger   *slog.Logger
}

// NewCommentService creates a new comment service.
func NewCommentService(
	comments repository.CommentRepository,
	sellers *SellerService,
	identity *IdentityService,
	events EventPublisher,
	logger *slog.Logger,
) *CommentService {
	return &CommentService{
		comments: comments,
		sellers:  sellers,
		identity: identity,
		events:   events,
		logger:   logger,
	}
}

// AddComment records a pending comment by the actor's anonymous author on
// an existing seller.
func (s *CommentService) AddComment(ctx context.Context, actor domain.Actor, sellerID, message string) (*domain.Comment, error) {
	message, err := normalizeMessage(message)
	if err != nil {
		return nil, err
	}
	if _, err := s.sellers.GetSeller(ctx, sellerID); err != nil {
		return nil, err
	}

	author, err := s.identity.resolveActor(ctx, actor)
	if err != nil {
		return nil, err
	}

	return s.create(ctx, author, sellerID, message)
}

// AddCommentForNewSeller records a pending comment on the seller described
// by reg. The seller is looked up by email, then by username, and created
// together with a SellerFromComment record when neither matches.
func (s *CommentService) AddCommentForNewSeller(ctx context.Context, actor domain.Actor, reg domain.SellerRegistration) (*domain.Comment, error) {
	message, err := normalizeMessage(reg.Message)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(reg.Username) == "" {
		return nil, apperrors.InvalidInput("username is required")
	}

	author, err := s.identity.resolveActor(ctx, actor)
	if err != nil {
		return nil, err
	}

	seller, created, err := s.sellers.findOrCreateFromRegistration(ctx, reg)
	if err != nil {
		return nil, err
	}
	if created {
		s.logger.InfoContext(ctx, "seller created from comment",
			slog.String("seller_id", seller.ID),
			slog.String("author_id", author.ID),
		)
	}

	return s.create(ctx, author, seller.ID, message)
}

func (s *CommentService) create(ctx context.Context, author *domain.AnonymousAuthor, sellerID, message string) (*domain.Comment, error) {
	now := time.Now().UTC()
	authorID := author.ID
	comment := &domain.Comment{
		ID:        uuid.New().String(),
		Message:   message,
		Approved:  false,
		AuthorID:  &authorID,
		SellerID:  sellerID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, storeError("create comment", err)
	}

	logPublishError(ctx, s.logger, "comment.created", s.events.PublishCommentCreated(ctx, comment),
		slog.String("comment_id", comment.ID))

	s.logger.InfoContext(ctx, "comment added",
		slog.String("comment_id", comment.ID),
		slog.String("seller_id", sellerID),
		slog.String("author_id", authorID),
	)
	return comment, nil
}

// GetComment retrieves a comment by ID.
func (s *CommentService) GetComment(ctx context.Context, id string) (*domain.Comment, error) {
	comment, err := s.comments.GetByID(ctx, id)
	if err != nil {
		return nil, storeError("get comment", err)
	}
	return comment, nil
}

// ListSellerComments returns every comment on an existing seller.
func (s *CommentService) ListSellerComments(ctx context.Context, sellerID string) ([]domain.Comment, error) {
	if _, err := s.sellers.GetSeller(ctx, sellerID); err != nil {
		return nil, err
	}

	comments, err := s.comments.ListBySeller(ctx, sellerID)
	if err != nil {
		return nil, storeError("list seller comments", err)
	}
	return comments, nil
}

// DeleteComment removes a comment on behalf of actor. An authenticated
// principal may delete comments on seller profiles it owns. Without a
// principal, only the comment's anonymous author may delete it.
func (s *CommentService) DeleteComment(ctx context.Context, actor domain.Actor, id string) error {
	comment, err := s.GetComment(ctx, id)
	if err != nil {
		return err
	}

	if actor.HasPrincipal() {
		seller, err := s.sellers.GetSeller(ctx, comment.SellerID)
		if err != nil {
			return err
		}
		if !seller.IsOwnedBy(actor.Principal.UserID) {
			return apperrors.NotAuthorized("only the seller owning this profile can delete the comment")
		}
	} else {
		author, err := s.identity.resolveActor(ctx, actor)
		if err != nil {
			return err
		}
		if !comment.IsAuthoredBy(author.ID) {
			return apperrors.NotAuthorized("only the author can delete this comment")
		}
	}

	return s.delete(ctx, comment)
}

// AdminDeleteComment removes a comment without an ownership check.
func (s *CommentService) AdminDeleteComment(ctx context.Context, id string) error {
	comment, err := s.GetComment(ctx, id)
	if err != nil {
		return err
	}
	return s.delete(ctx, comment)
}

func (s *CommentService) delete(ctx context.Context, comment *domain.Comment) error {
	if err := s.comments.Delete(ctx, comment.ID); err != nil {
		return storeError("delete comment", err)
	}

	logPublishError(ctx, s.logger, "comment.deleted", s.events.PublishCommentDeleted(ctx, comment),
		slog.String("comment_id", comment.ID))

	s.logger.InfoContext(ctx, "comment deleted",
		slog.String("comment_id", comment.ID),
		slog.String("seller_id", comment.SellerID),
	)
	return nil
}

// EditComment replaces the message of a comment. Only its anonymous author
// may edit it; the moderation state is kept.
func (s *CommentService) EditComment(ctx context.Context, actor domain.Actor, id, message string) (*domain.Comment, error) {
	message, err := normalizeMessage(message)
	if err != nil {
		return nil, err
	}

	comment, err := s.GetComment(ctx, id)
	if err != nil {
		return nil, err
	}

	author, err := s.identity.resolveActor(ctx, actor)
	if err != nil {
		return nil, err
	}
	if !comment.IsAuthoredBy(author.ID) {
		return nil, apperrors.NotAuthorized("only the author can edit this comment")
	}

	updated, err := s.comments.UpdateMessage(ctx, id, message)
	if err != nil {
		return nil, storeError("edit comment", err)
	}

	logPublishError(ctx, s.logger, "comment.updated", s.events.PublishCommentUpdated(ctx, updated),
		slog.String("comment_id", id))

	s.logger.InfoContext(ctx, "comment edited", slog.String("comment_id", id))
	return updated, nil
}

// Confirm approves a comment. Confirming an approved comment is a no-op.
func (s *CommentService) Confirm(ctx context.Context, id string) (*domain.Comment, error) {
	return s.setApproved(ctx, id, true)
}

// Decline returns a comment to pending.
func (s *CommentService) Decline(ctx context.Context, id string) (*domain.Comment, error) {
	return s.setApproved(ctx, id, false)
}

func (s *CommentService) setApproved(ctx context.Context, id string, approved bool) (*domain.Comment, error) {
	comment, err := s.comments.SetApproved(ctx, id, approved)
	if err != nil {
		return nil, storeError("moderate comment", err)
	}

	logPublishError(ctx, s.logger, "comment.moderated", s.events.PublishCommentModerated(ctx, comment),
		slog.String("comment_id", id))

	s.logger.InfoContext(ctx, "comment moderated",
		slog.String("comment_id", id),
		slog.Bool("approved", approved),
	)
	return comment, nil
}

// ListUnconfirmed returns every pending comment.
func (s *CommentService) ListUnconfirmed(ctx context.Context) ([]domain.Comment, error) {
	comments, err := s.comments.ListByApproval(ctx, false)
	if err != nil {
		return nil, storeError("list unconfirmed comments", err)
	}
	return comments, nil
}

// ListConfirmed returns every approved comment.
func (s *CommentService) ListConfirmed(ctx context.Context) ([]domain.Comment, error) {
	comments, err := s.comments.ListByApproval(ctx, true)
	if err != nil {
		return nil, storeError("list confirmed comments", err)
	}
	return comments, nil
}

func normalizeMessage(message string) (string, error) {
	message = strings.TrimSpace(message)
	n := utf8.RuneCountInString(message)
	if n < domain.MinCommentLength || n > domain.MaxCommentLength {
		return "", apperrors.InvalidInput(fmt.Sprintf("message must be between %d and %d characters",
			domain.MinCommentLength, domain.MaxCommentLength))
	}
	return message, nil
}
