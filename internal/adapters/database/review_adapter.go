package database

import (
	"context"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/ototamirci/backend/internal/domain/entities"
	"github.com/ototamirci/backend/internal/domain/repositories"
	"github.com/ototamirci/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/ototamirci/backend/pkg/errors"
)

var reviewColumns = []any{
	"id", "shop_id", "user_id", "rating", "comment", "created_at", "updated_at",
}

// ReviewAdapter implements the ReviewRepository interface
type ReviewAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewReviewAdapter creates a new review adapter
func NewReviewAdapter(client *postgres.Client) repositories.ReviewRepository {
	return &ReviewAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Upsert inserts the review or overwrites rating and comment of the existing
// (shop, user) row. The original id and created_at are kept on update.
func (a *ReviewAdapter) Upsert(ctx context.Context, review *entities.Review) (*entities.Review, error) {
	record := goqu.Record{
		"id":         review.ID,
		"shop_id":    review.ShopID,
		"user_id":    review.UserID,
		"rating":     review.Rating,
		"comment":    review.Comment,
		"created_at": review.CreatedAt,
		"updated_at": review.UpdatedAt,
	}

	query, args, err := a.db.Insert("reviews").
		Rows(record).
		OnConflict(goqu.DoUpdate("shop_id, user_id", goqu.Record{
			"rating":     goqu.L("EXCLUDED.rating"),
			"comment":    goqu.L("EXCLUDED.comment"),
			"updated_at": goqu.L("EXCLUDED.updated_at"),
		})).
		Returning(reviewColumns...).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build upsert query", err)
	}

	stored := &entities.Review{}
	err = a.client.Executor(ctx).QueryRowContext(ctx, query, args...).Scan(
		&stored.ID,
		&stored.ShopID,
		&stored.UserID,
		&stored.Rating,
		&stored.Comment,
		&stored.CreatedAt,
		&stored.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("shop with id %s not found", review.ShopID))
		}
		return nil, apperrors.NewInternalError("failed to save review", err)
	}

	return stored, nil
}

// Stats returns the sum and count of a shop's ratings
func (a *ReviewAdapter) Stats(ctx context.Context, shopID string) (entities.RatingStats, error) {
	query, args, err := a.db.Select(
		goqu.COALESCE(goqu.SUM("rating"), 0),
		goqu.COUNT("*"),
	).From("reviews").
		Where(goqu.Ex{"shop_id": shopID}).
		ToSQL()
	if err != nil {
		return entities.RatingStats{}, apperrors.NewInternalError("failed to build stats query", err)
	}

	var sum, count int64
	if err := a.client.Executor(ctx).QueryRowContext(ctx, query, args...).Scan(&sum, &count); err != nil {
		return entities.RatingStats{}, apperrors.NewInternalError("failed to aggregate reviews", err)
	}

	return entities.RatingStats{Sum: int(sum), Count: int(count)}, nil
}

// ListByShop retrieves a shop's reviews newest first with reviewer names
func (a *ReviewAdapter) ListByShop(ctx context.Context, shopID string) ([]*entities.Review, error) {
	query, args, err := a.db.Select(
		goqu.I("r.id"), goqu.I("r.shop_id"), goqu.I("r.user_id"), goqu.I("r.rating"),
		goqu.I("r.comment"), goqu.I("r.created_at"), goqu.I("r.updated_at"),
		goqu.I("u.name"),
	).From(goqu.T("reviews").As("r")).
		InnerJoin(goqu.T("users").As("u"), goqu.On(goqu.I("u.id").Eq(goqu.I("r.user_id")))).
		Where(goqu.Ex{"r.shop_id": shopID}).
		Order(goqu.I("r.created_at").Desc(), goqu.I("r.id").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.Executor(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list reviews", err)
	}
	defer rows.Close()

	reviews := []*entities.Review{}
	for rows.Next() {
		review := &entities.Review{}
		err := rows.Scan(
			&review.ID,
			&review.ShopID,
			&review.UserID,
			&review.Rating,
			&review.Comment,
			&review.CreatedAt,
			&review.UpdatedAt,
			&review.UserName,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan review", err)
		}
		reviews = append(reviews, review)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating reviews", err)
	}

	return reviews, nil
}
