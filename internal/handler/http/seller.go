package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/sellerhub/internal/domain"
	"github.com/utafrali/sellerhub/internal/service"
	"github.com/utafrali/sellerhub/pkg/httputil"
	"github.com/utafrali/sellerhub/pkg/pagination"
)

// SellerHandler handles HTTP requests for seller profile endpoints.
type SellerHandler struct {
	sellers    *service.SellerService
	topSellers *service.TopSellersService
	logger     *slog.Logger
}

// NewSellerHandler creates a new seller HTTP handler.
func NewSellerHandler(sellers *service.SellerService, topSellers *service.TopSellersService, logger *slog.Logger) *SellerHandler {
	return &SellerHandler{
		sellers:    sellers,
		topSellers: topSellers,
		logger:     logger,
	}
}

// --- Request DTOs ---

// CreateSellerRequest is the JSON body for creating an owned seller profile.
type CreateSellerRequest struct {
	Username  string `json:"username" validate:"required,min=4,max=50"`
	FirstName string `json:"first_name" validate:"omitempty,min=4,max=50"`
	LastName  string `json:"last_name" validate:"omitempty,min=4,max=50"`
	Email     string `json:"email" validate:"omitempty,email"`
}

// UpdateSellerRequest is the JSON body for patching a seller profile.
// Omitted fields stay unchanged; an empty email removes it.
type UpdateSellerRequest struct {
	FirstName *string `json:"first_name" validate:"omitempty,min=4,max=50"`
	LastName  *string `json:"last_name" validate:"omitempty,min=4,max=50"`
	Email     *string `json:"email" validate:"omitempty,email"`
}

// --- Handlers ---

// ListSellers handles GET /api/v1/sellers
func (h *SellerHandler) ListSellers(w http.ResponseWriter, r *http.Request) {
	result, err := h.sellers.ListSellers(r.Context(), pagination.FromRequest(r))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}

// SearchByRating handles GET /api/v1/sellers/search?min_rating=&max_rating=
func (h *SellerHandler) SearchByRating(w http.ResponseWriter, r *http.Request) {
	lo, ok := queryInt(w, r, "min_rating")
	if !ok {
		return
	}
	hi, ok := queryInt(w, r, "max_rating")
	if !ok {
		return
	}

	result, err := h.sellers.SearchByRating(r.Context(), domain.RatingFilter{Min: lo, Max: hi}, pagination.FromRequest(r))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}

// GetTopSellers handles GET /api/v1/sellers/top?count=N. Without count the
// snapshot size is used.
func (h *SellerHandler) GetTopSellers(w http.ResponseWriter, r *http.Request) {
	count, ok := queryInt(w, r, "count")
	if !ok {
		return
	}
	n := h.topSellers.SnapshotSize()
	if count != nil {
		n = *count
	}

	sellers, err := h.topSellers.GetTopSellers(r.Context(), n)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: nonNil(sellers)})
}

// GetSeller handles GET /api/v1/sellers/{sellerId}
func (h *SellerHandler) GetSeller(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, "seller id", chi.URLParam(r, "sellerId"))
	if !ok {
		return
	}

	seller, err := h.sellers.GetSeller(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: seller})
}

// CreateSeller handles POST /api/v1/sellers
func (h *SellerHandler) CreateSeller(w http.ResponseWriter, r *http.Request) {
	var req CreateSellerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	seller, err := h.sellers.CreateSeller(r.Context(), actorFromRequest(r), service.CreateSellerInput{
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: seller})
}

// UpdateSeller handles PATCH /api/v1/sellers/{sellerId}
func (h *SellerHandler) UpdateSeller(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, "seller id", chi.URLParam(r, "sellerId"))
	if !ok {
		return
	}

	var req UpdateSellerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	seller, err := h.sellers.UpdateSeller(r.Context(), actorFromRequest(r), id, domain.SellerPatch{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: seller})
}
