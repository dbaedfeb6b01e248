package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/sellerhub/internal/service"
	"github.com/utafrali/sellerhub/pkg/httputil"
)

// RatingHandler handles HTTP requests for seller ratings.
type RatingHandler struct {
	service *service.RatingService
	logger  *slog.Logger
}

// NewRatingHandler creates a new rating HTTP handler.
func NewRatingHandler(svc *service.RatingService, logger *slog.Logger) *RatingHandler {
	return &RatingHandler{
		service: svc,
		logger:  logger,
	}
}

// EvaluateRequest is the JSON body for rating a seller.
type EvaluateRequest struct {
	Mark int `json:"mark" validate:"required,min=1,max=10"`
}

// Evaluate handles POST /api/v1/sellers/{sellerId}/rating and returns the
// seller with its new aggregate rating.
func (h *RatingHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	sellerID, ok := httputil.ParseUUID(w, "seller id", chi.URLParam(r, "sellerId"))
	if !ok {
		return
	}

	var req EvaluateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	seller, err := h.service.Evaluate(r.Context(), actorFromRequest(r), sellerID, req.Mark)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: seller})
}
