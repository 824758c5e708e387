package handlers

import (
	"context"
	"net/http"

	"github.com/ototamirci/backend/internal/domain/entities"
)

// ReviewService is the review surface the review handler needs
type ReviewService interface {
	Submit(ctx context.Context, caller entities.Identity, shopID string, rating int, comment string) (*entities.Review, error)
	List(ctx context.Context, shopID string) (*entities.ShopReviews, error)
}

// ReviewHandler handles shop review requests
type ReviewHandler struct {
	service ReviewService
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(service ReviewService) *ReviewHandler {
	return &ReviewHandler{service: service}
}

type reviewRequest struct {
	Rating  *int   `json:"rating" validate:"required,gte=1,lte=5"`
	Comment string `json:"comment" validate:"max=2000"`
}

// ListReviews handles GET /api/reviews/{shopId}
func (h *ReviewHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	shopID, err := pathID(r, "shopId")
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	reviews, err := h.service.List(r.Context(), shopID)
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, reviews)
}

// SubmitReview handles POST /api/reviews/{shopId}. A repeat submission
// replaces the caller's earlier review.
func (h *ReviewHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	var req reviewRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, r, err)
		return
	}

	shopID, err := pathID(r, "shopId")
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	review, err := h.service.Submit(r.Context(), caller, shopID, *req.Rating, req.Comment)
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, review)
}
