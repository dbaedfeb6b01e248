package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/sellerhub/internal/domain"
	"github.com/utafrali/sellerhub/internal/service"
	"github.com/utafrali/sellerhub/pkg/httputil"
)

// CommentHandler handles HTTP requests for comment endpoints.
type CommentHandler struct {
	service *service.CommentService
	logger  *slog.Logger
}

// NewCommentHandler creates a new comment HTTP handler.
func NewCommentHandler(svc *service.CommentService, logger *slog.Logger) *CommentHandler {
	return &CommentHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// CommentRequest is the JSON body for adding or editing a comment.
type CommentRequest struct {
	Message string `json:"message" validate:"required,min=3,max=2000"`
}

// NewSellerCommentRequest is the JSON body for commenting on a seller that
// may not exist yet.
type NewSellerCommentRequest struct {
	Username  string `json:"username" validate:"required,min=4,max=50"`
	FirstName string `json:"first_name" validate:"omitempty,min=4,max=50"`
	LastName  string `json:"last_name" validate:"omitempty,min=4,max=50"`
	Email     string `json:"email" validate:"omitempty,email"`
	Message   string `json:"message" validate:"required,min=3,max=2000"`
}

// --- Handlers ---

// AddComment handles POST /api/v1/sellers/{sellerId}/comments
func (h *CommentHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	sellerID, ok := httputil.ParseUUID(w, "seller id", chi.URLParam(r, "sellerId"))
	if !ok {
		return
	}

	var req CommentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	comment, err := h.service.AddComment(r.Context(), actorFromRequest(r), sellerID, req.Message)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: comment})
}

// AddCommentForNewSeller handles POST /api/v1/comments/new-seller
func (h *CommentHandler) AddCommentForNewSeller(w http.ResponseWriter, r *http.Request) {
	var req NewSellerCommentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	comment, err := h.service.AddCommentForNewSeller(r.Context(), actorFromRequest(r), domain.SellerRegistration{
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Message:   req.Message,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: comment})
}

// GetComment handles GET /api/v1/comments/{commentId}
func (h *CommentHandler) GetComment(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, "comment id", chi.URLParam(r, "commentId"))
	if !ok {
		return
	}

	comment, err := h.service.GetComment(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: comment})
}

// ListConfirmed handles GET /api/v1/comments
func (h *CommentHandler) ListConfirmed(w http.ResponseWriter, r *http.Request) {
	comments, err := h.service.ListConfirmed(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: nonNil(comments)})
}

// ListSellerComments handles GET /api/v1/sellers/{sellerId}/comments
func (h *CommentHandler) ListSellerComments(w http.ResponseWriter, r *http.Request) {
	sellerID, ok := httputil.ParseUUID(w, "seller id", chi.URLParam(r, "sellerId"))
	if !ok {
		return
	}

	comments, err := h.service.ListSellerComments(r.Context(), sellerID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: nonNil(comments)})
}

// EditComment handles PUT /api/v1/comments/{commentId}
func (h *CommentHandler) EditComment(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, "comment id", chi.URLParam(r, "commentId"))
	if !ok {
		return
	}

	var req CommentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	comment, err := h.service.EditComment(r.Context(), actorFromRequest(r), id, req.Message)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: comment})
}

// DeleteComment handles DELETE /api/v1/comments/{commentId}
func (h *CommentHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, "comment id", chi.URLParam(r, "commentId"))
	if !ok {
		return
	}

	if err := h.service.DeleteComment(r.Context(), actorFromRequest(r), id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// nonNil makes empty lists encode as [] instead of null.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
