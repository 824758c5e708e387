package services

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ototamirci/backend/internal/application/policy"
	"github.com/ototamirci/backend/internal/domain/entities"
	"github.com/ototamirci/backend/internal/domain/repositories"
	"github.com/ototamirci/backend/internal/infrastructure/observability"
	apperrors "github.com/ototamirci/backend/pkg/errors"
)

// ReviewService keeps each shop's rating consistent with its reviews
type ReviewService struct {
	reviewRepo repositories.ReviewRepository
	shopRepo   repositories.ShopRepository
	tx         repositories.Transactor
	metrics    *observability.Metrics
}

// NewReviewService creates a new review service
func NewReviewService(
	reviewRepo repositories.ReviewRepository,
	shopRepo repositories.ShopRepository,
	tx repositories.Transactor,
	metrics *observability.Metrics,
) *ReviewService {
	return &ReviewService{
		reviewRepo: reviewRepo,
		shopRepo:   shopRepo,
		tx:         tx,
		metrics:    metrics,
	}
}

// Submit creates or replaces the caller's review of a shop and recomputes the
// shop's rating in the same transaction. The shop row lock serializes
// concurrent submissions for one shop.
func (s *ReviewService) Submit(ctx context.Context, caller entities.Identity, shopID string, rating int, comment string) (*entities.Review, error) {
	if rating < entities.MinRating || rating > entities.MaxRating {
		return nil, apperrors.NewValidationError("rating must be between 1 and 5")
	}
	if err := policy.Authorize(caller, policy.ActionReviewSubmit, policy.Resource{}); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	review := &entities.Review{
		ID:        uuid.New().String(),
		ShopID:    shopID,
		UserID:    caller.UserID,
		Rating:    rating,
		Comment:   strings.TrimSpace(comment),
		CreatedAt: now,
		UpdatedAt: now,
	}

	var stored *entities.Review
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.shopRepo.LockForUpdate(ctx, shopID); err != nil {
			return err
		}

		var err error
		stored, err = s.reviewRepo.Upsert(ctx, review)
		if err != nil {
			return err
		}

		stats, err := s.reviewRepo.Stats(ctx, shopID)
		if err != nil {
			return err
		}

		return s.shopRepo.SetRating(ctx, shopID, RoundRating(stats.Sum, stats.Count), stats.Count)
	})
	if err != nil {
		return nil, err
	}

	observability.RecordReviewSubmission(ctx, s.metrics, rating)
	return stored, nil
}

// List returns a shop's reviews newest first with their average and count
func (s *ReviewService) List(ctx context.Context, shopID string) (*entities.ShopReviews, error) {
	if _, err := s.shopRepo.GetByID(ctx, shopID); err != nil {
		return nil, err
	}

	reviews, err := s.reviewRepo.ListByShop(ctx, shopID)
	if err != nil {
		return nil, err
	}

	sum := 0
	for _, review := range reviews {
		sum += review.Rating
	}

	return &entities.ShopReviews{
		Reviews:       reviews,
		AverageRating: RoundRating(sum, len(reviews)),
		ReviewCount:   len(reviews),
	}, nil
}

// RoundRating returns the mean rating rounded to two decimals, 0 for no reviews
func RoundRating(sum, count int) float64 {
	if count <= 0 {
		return 0
	}
	return math.Round(float64(sum)/float64(count)*100) / 100
}
