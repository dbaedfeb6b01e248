package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/utafrali/sellerhub/internal/domain"
	"github.com/utafrali/sellerhub/internal/repository"
	apperrors "github.com/utafrali/sellerhub/pkg/errors"
	"github.com/utafrali/sellerhub/pkg/pagination"
	"github.com/utafrali/sellerhub/pkg/validator"
)

// CreateSellerInput holds the fields of a profile created by its owner.
type CreateSellerInput struct {
	Username  string
	FirstName string
	LastName  string
	Email     string
}

// SellerService manages seller profiles.
type SellerService struct {
	sellers repository.SellerRepository
	events  EventPublisher
	logger  *slog.Logger
}

// NewSellerService creates a new seller service.
func NewSellerService(sellers repository.SellerRepository, events EventPublisher, logger *slog.Logger) *SellerService {
	return &SellerService{
		sellers: sellers,
		events:  events,
		logger:  logger,
	}
}

// CreateSeller creates a profile owned by the authenticated principal.
func (s *SellerService) CreateSeller(ctx context.Context, actor domain.Actor, input CreateSellerInput) (*domain.SellerProfile, error) {
	if !actor.HasPrincipal() {
		return nil, apperrors.Unauthorized("authentication required to create a seller profile")
	}
	if strings.TrimSpace(input.Username) == "" {
		return nil, apperrors.InvalidInput("username is required")
	}

	now := time.Now().UTC()
	seller := domain.SellerRegistration{
		Username:  input.Username,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     input.Email,
	}.NewProfile(uuid.New().String(), now)
	owner := actor.Principal.UserID
	seller.OwnerUserID = &owner

	if err := s.sellers.Create(ctx, seller); err != nil {
		return nil, storeError("create seller", err)
	}

	logPublishError(ctx, s.logger, "seller.created", s.events.PublishSellerCreated(ctx, seller),
		slog.String("seller_id", seller.ID))

	s.logger.InfoContext(ctx, "seller profile created",
		slog.String("seller_id", seller.ID),
		slog.String("owner_user_id", owner),
	)
	return seller, nil
}

// GetSeller retrieves a seller profile by ID.
func (s *SellerService) GetSeller(ctx context.Context, id string) (*domain.SellerProfile, error) {
	seller, err := s.sellers.GetByID(ctx, id)
	if err != nil {
		return nil, storeError("get seller", err)
	}
	return seller, nil
}

// ListSellers returns one page of seller profiles.
func (s *SellerService) ListSellers(ctx context.Context, params pagination.Params) (pagination.Result[domain.SellerProfile], error) {
	sellers, total, err := s.sellers.List(ctx, params.Offset, params.PerPage)
	if err != nil {
		return pagination.Result[domain.SellerProfile]{}, storeError("list sellers", err)
	}
	return pagination.NewResult(sellers, total, params), nil
}

// SearchByRating returns one page of sellers whose aggregate rating lies
// within filter. Either bound may be omitted.
func (s *SellerService) SearchByRating(ctx context.Context, filter domain.RatingFilter, params pagination.Params) (pagination.Result[domain.SellerProfile], error) {
	for _, bound := range []*int{filter.Min, filter.Max} {
		if bound != nil && (*bound < 0 || *bound > domain.MaxMark) {
			return pagination.Result[domain.SellerProfile]{}, apperrors.InvalidInput(
				fmt.Sprintf("rating bounds must be between 0 and %d", domain.MaxMark))
		}
	}
	if filter.Min != nil && filter.Max != nil && *filter.Min > *filter.Max {
		return pagination.Result[domain.SellerProfile]{}, apperrors.InvalidInput("min_rating must not exceed max_rating")
	}

	sellers, total, err := s.sellers.SearchByRating(ctx, filter, params.Offset, params.PerPage)
	if err != nil {
		return pagination.Result[domain.SellerProfile]{}, storeError("search sellers", err)
	}
	return pagination.NewResult(sellers, total, params), nil
}

// ListSellersByConfirmation returns sellers with the given admin confirmation state.
func (s *SellerService) ListSellersByConfirmation(ctx context.Context, confirmed bool) ([]domain.SellerProfile, error) {
	sellers, err := s.sellers.ListByConfirmation(ctx, confirmed)
	if err != nil {
		return nil, storeError("list sellers by confirmation", err)
	}
	return sellers, nil
}

// ConfirmSeller marks a profile as confirmed by an administrator.
func (s *SellerService) ConfirmSeller(ctx context.Context, id string) error {
	return s.setConfirmed(ctx, id, true)
}

// DeclineSeller withdraws the administrator confirmation of a profile.
func (s *SellerService) DeclineSeller(ctx context.Context, id string) error {
	return s.setConfirmed(ctx, id, false)
}

func (s *SellerService) setConfirmed(ctx context.Context, id string, confirmed bool) error {
	if err := s.sellers.SetConfirmed(ctx, id, confirmed); err != nil {
		return storeError("moderate seller", err)
	}

	logPublishError(ctx, s.logger, "seller.moderated", s.events.PublishSellerModerated(ctx, id, confirmed),
		slog.String("seller_id", id))

	s.logger.InfoContext(ctx, "seller moderated",
		slog.String("seller_id", id),
		slog.Bool("confirmed", confirmed),
	)
	return nil
}

// DeleteSeller removes a profile with all of its comments and ratings.
func (s *SellerService) DeleteSeller(ctx context.Context, id string) error {
	if err := s.sellers.Delete(ctx, id); err != nil {
		return storeError("delete seller", err)
	}

	logPublishError(ctx, s.logger, "seller.deleted", s.events.PublishSellerDeleted(ctx, id),
		slog.String("seller_id", id))

	s.logger.InfoContext(ctx, "seller deleted", slog.String("seller_id", id))
	return nil
}

// UpdateSeller applies patch to a profile. Only the principal owning the
// profile may do so.
func (s *SellerService) UpdateSeller(ctx context.Context, actor domain.Actor, id string, patch domain.SellerPatch) (*domain.SellerProfile, error) {
	if !actor.HasPrincipal() {
		return nil, apperrors.Unauthorized("authentication required to update a seller profile")
	}
	if patch.IsEmpty() {
		return nil, apperrors.InvalidInput("no fields to update")
	}
	if err := validatePatch(patch); err != nil {
		return nil, err
	}

	seller, err := s.sellers.GetByID(ctx, id)
	if err != nil {
		return nil, storeError("get seller", err)
	}
	if !seller.IsOwnedBy(actor.Principal.UserID) {
		return nil, apperrors.NotAuthorized("only the owner can update this seller profile")
	}

	patch.Apply(seller)
	if err := s.sellers.Update(ctx, seller); err != nil {
		return nil, storeError("update seller", err)
	}

	logPublishError(ctx, s.logger, "seller.updated", s.events.PublishSellerUpdated(ctx, seller),
		slog.String("seller_id", seller.ID))

	s.logger.InfoContext(ctx, "seller profile updated", slog.String("seller_id", seller.ID))
	return seller, nil
}

// Name and email rules match the create and new-seller request DTOs.
const (
	patchNameRule  = "min=4,max=50"
	patchEmailRule = "email"
)

func validatePatch(p domain.SellerPatch) error {
	if err := validatePatchName("first_name", p.FirstName); err != nil {
		return err
	}
	if err := validatePatchName("last_name", p.LastName); err != nil {
		return err
	}
	// An empty email clears it.
	if p.Email != nil && *p.Email != "" {
		if err := validator.Var(*p.Email, patchEmailRule); err != nil {
			return apperrors.InvalidInput("email must be a valid email address")
		}
	}
	return nil
}

func validatePatchName(field string, name *string) error {
	if name == nil {
		return nil
	}
	if strings.TrimSpace(*name) == "" {
		return apperrors.InvalidInput(field + " must not be blank")
	}
	if err := validator.Var(*name, patchNameRule); err != nil {
		return apperrors.InvalidInput(field + " must be between 4 and 50 characters")
	}
	return nil
}

// findOrCreateFromRegistration returns the seller matching reg by email,
// then by username, creating an unowned profile and its linked record when
// neither matches.
func (s *SellerService) findOrCreateFromRegistration(ctx context.Context, reg domain.SellerRegistration) (*domain.SellerProfile, bool, error) {
	seller, err := s.lookupRegistration(ctx, reg)
	if err == nil {
		return seller, false, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, false, err
	}

	now := time.Now().UTC()
	seller = reg.NewProfile(uuid.New().String(), now)
	linked := &domain.SellerFromComment{
		ID:        uuid.New().String(),
		ProfileID: seller.ID,
		Username:  reg.Username,
		FirstName: reg.FirstName,
		LastName:  reg.LastName,
		Email:     reg.Email,
		CreatedAt: now,
	}

	err = s.sellers.CreateWithLinkedRecord(ctx, seller, linked)
	if errors.Is(err, apperrors.ErrAlreadyExists) {
		// Lost a race with a concurrent request for the same seller.
		seller, err = s.lookupRegistration(ctx, reg)
		if err != nil {
			return nil, false, err
		}
		return seller, false, nil
	}
	if err != nil {
		return nil, false, storeError("create seller from comment", err)
	}

	logPublishError(ctx, s.logger, "seller.created", s.events.PublishSellerCreated(ctx, seller),
		slog.String("seller_id", seller.ID))
	return seller, true, nil
}

func (s *SellerService) lookupRegistration(ctx context.Context, reg domain.SellerRegistration) (*domain.SellerProfile, error) {
	if reg.Email != "" {
		seller, err := s.sellers.GetByEmail(ctx, reg.Email)
		if err == nil {
			return seller, nil
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, storeError("find seller by email", err)
		}
	}

	seller, err := s.sellers.GetByUsername(ctx, reg.Username)
	if err != nil {
		return nil, storeError("find seller by username", err)
	}
	return seller, nil
}
