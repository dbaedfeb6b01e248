package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/sellerhub/internal/domain"
	"github.com/utafrali/sellerhub/internal/service"
	"github.com/utafrali/sellerhub/pkg/httputil"
)

// AdminHandler handles moderation endpoints. Routes are mounted behind
// RequireRole(admin).
type AdminHandler struct {
	comments   *service.CommentService
	sellers    *service.SellerService
	topSellers *service.TopSellersService
	logger     *slog.Logger
}

// NewAdminHandler creates a new admin HTTP handler.
func NewAdminHandler(
	comments *service.CommentService,
	sellers *service.SellerService,
	topSellers *service.TopSellersService,
	logger *slog.Logger,
) *AdminHandler {
	return &AdminHandler{
		comments:   comments,
		sellers:    sellers,
		topSellers: topSellers,
		logger:     logger,
	}
}

// ListUnconfirmedComments handles GET /api/v1/admin/comments/unconfirmed
func (h *AdminHandler) ListUnconfirmedComments(w http.ResponseWriter, r *http.Request) {
	comments, err := h.comments.ListUnconfirmed(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: nonNil(comments)})
}

// ConfirmComment handles PATCH /api/v1/admin/comments/{commentId}/confirm
func (h *AdminHandler) ConfirmComment(w http.ResponseWriter, r *http.Request) {
	h.moderateComment(w, r, h.comments.Confirm)
}

// DeclineComment handles PATCH /api/v1/admin/comments/{commentId}/decline
func (h *AdminHandler) DeclineComment(w http.ResponseWriter, r *http.Request) {
	h.moderateComment(w, r, h.comments.Decline)
}

func (h *AdminHandler) moderateComment(w http.ResponseWriter, r *http.Request, moderate func(ctx context.Context, id string) (*domain.Comment, error)) {
	id, ok := httputil.ParseUUID(w, "comment id", chi.URLParam(r, "commentId"))
	if !ok {
		return
	}

	comment, err := moderate(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: comment})
}

// DeleteComment handles DELETE /api/v1/admin/comments/{commentId}
func (h *AdminHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, "comment id", chi.URLParam(r, "commentId"))
	if !ok {
		return
	}

	if err := h.comments.AdminDeleteComment(r.Context(), id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListSellers handles GET /api/v1/admin/sellers?confirmed=bool. The
// confirmed parameter defaults to false, the moderation queue.
func (h *AdminHandler) ListSellers(w http.ResponseWriter, r *http.Request) {
	confirmed := false
	if raw := r.URL.Query().Get("confirmed"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			writeInvalidParameter(w, "confirmed", raw)
			return
		}
		confirmed = v
	}

	sellers, err := h.sellers.ListSellersByConfirmation(r.Context(), confirmed)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: nonNil(sellers)})
}

// ConfirmSeller handles PATCH /api/v1/admin/sellers/{sellerId}/confirm
func (h *AdminHandler) ConfirmSeller(w http.ResponseWriter, r *http.Request) {
	h.sellerAction(w, r, h.sellers.ConfirmSeller)
}

// DeclineSeller handles PATCH /api/v1/admin/sellers/{sellerId}/decline
func (h *AdminHandler) DeclineSeller(w http.ResponseWriter, r *http.Request) {
	h.sellerAction(w, r, h.sellers.DeclineSeller)
}

// DeleteSeller handles DELETE /api/v1/admin/sellers/{sellerId}
func (h *AdminHandler) DeleteSeller(w http.ResponseWriter, r *http.Request) {
	h.sellerAction(w, r, h.sellers.DeleteSeller)
}

func (h *AdminHandler) sellerAction(w http.ResponseWriter, r *http.Request, action func(ctx context.Context, id string) error) {
	id, ok := httputil.ParseUUID(w, "seller id", chi.URLParam(r, "sellerId"))
	if !ok {
		return
	}

	if err := action(r.Context(), id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ClearTopSellers handles DELETE /api/v1/admin/cache/top-sellers
func (h *AdminHandler) ClearTopSellers(w http.ResponseWriter, r *http.Request) {
	if err := h.topSellers.Clear(r.Context()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
