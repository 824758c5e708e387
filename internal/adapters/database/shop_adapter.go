package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/lib/pq"
	"github.com/ototamirci/backend/internal/domain/entities"
	"github.com/ototamirci/backend/internal/domain/repositories"
	"github.com/ototamirci/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/ototamirci/backend/pkg/errors"
)

// categoriesAgg collects a shop's categories in insertion order, '{}' when none
var categoriesAgg = goqu.L(
	"COALESCE(array_agg(sc.category ORDER BY sc.position) FILTER (WHERE sc.category IS NOT NULL), '{}')",
).As("categories")

var shopColumns = []any{
	goqu.I("s.id"), goqu.I("s.owner_id"), goqu.I("s.name"),
	goqu.I("s.latitude"), goqu.I("s.longitude"), goqu.I("s.address"),
	goqu.I("s.phone"), goqu.I("s.image_url"), goqu.I("s.working_hours"),
	goqu.I("s.geohash"), goqu.I("s.rating"), goqu.I("s.review_count"),
	goqu.I("s.is_open"), goqu.I("s.created_at"), goqu.I("s.updated_at"),
	categoriesAgg,
}

// ShopAdapter implements the ShopRepository interface
type ShopAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewShopAdapter creates a new shop adapter
func NewShopAdapter(client *postgres.Client) repositories.ShopRepository {
	return &ShopAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create inserts the shop row and its categories atomically
func (a *ShopAdapter) Create(ctx context.Context, shop *entities.Shop) error {
	record := goqu.Record{
		"id":            shop.ID,
		"owner_id":      shop.OwnerID,
		"name":          shop.Name,
		"latitude":      shop.Location.Latitude,
		"longitude":     shop.Location.Longitude,
		"address":       shop.Address,
		"phone":         shop.Phone,
		"image_url":     shop.ImageURL,
		"working_hours": nullJSON(shop.WorkingHours),
		"geohash":       shop.Geohash,
		"rating":        shop.Rating,
		"review_count":  shop.ReviewCount,
		"is_open":       shop.IsOpen,
		"created_at":    shop.CreatedAt,
		"updated_at":    shop.UpdatedAt,
	}

	query, args, err := a.db.Insert("shops").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	return a.client.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := a.client.Executor(ctx).ExecContext(ctx, query, args...); err != nil {
			if isUniqueViolation(err) {
				return apperrors.NewConflictError("mechanic already has a shop")
			}
			if isForeignKeyViolation(err) {
				return apperrors.NewNotFoundError("owner not found")
			}
			return apperrors.NewInternalError("failed to create shop", err)
		}
		return a.insertCategories(ctx, shop.ID, shop.Categories)
	})
}

// GetByID retrieves a shop and its categories
func (a *ShopAdapter) GetByID(ctx context.Context, id string) (*entities.Shop, error) {
	return a.getOne(ctx, goqu.Ex{"s.id": id}, fmt.Sprintf("shop with id %s not found", id))
}

// GetByOwner retrieves the shop owned by a mechanic
func (a *ShopAdapter) GetByOwner(ctx context.Context, ownerID string) (*entities.Shop, error) {
	return a.getOne(ctx, goqu.Ex{"s.owner_id": ownerID}, "shop not found for owner")
}

func (a *ShopAdapter) getOne(ctx context.Context, where goqu.Ex, notFound string) (*entities.Shop, error) {
	query, args, err := a.selectShops().Where(where).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	shop, err := scanShop(a.client.Executor(ctx).QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(notFound)
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get shop", err)
	}

	return shop, nil
}

// Update applies the owner-editable fields. Rating and review count are never written here.
func (a *ShopAdapter) Update(ctx context.Context, id string, update entities.ShopUpdate) (*entities.Shop, error) {
	record := goqu.Record{"updated_at": time.Now().UTC()}
	if update.Name != nil {
		record["name"] = *update.Name
	}
	if update.Address != nil {
		record["address"] = *update.Address
	}
	if update.Phone != nil {
		record["phone"] = *update.Phone
	}
	if update.ImageURL != nil {
		record["image_url"] = *update.ImageURL
	}
	if update.WorkingHours != nil {
		record["working_hours"] = nullJSON(update.WorkingHours)
	}

	query, args, err := a.db.Update("shops").Set(record).Where(goqu.Ex{"id": id}).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build update query", err)
	}

	err = a.client.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := a.execAffectingOne(ctx, query, args, id); err != nil {
			return err
		}
		if !update.ReplaceCategories {
			return nil
		}

		del, delArgs, err := a.db.Delete("shop_categories").Where(goqu.Ex{"shop_id": id}).ToSQL()
		if err != nil {
			return apperrors.NewInternalError("failed to build delete query", err)
		}
		if _, err := a.client.Executor(ctx).ExecContext(ctx, del, delArgs...); err != nil {
			return apperrors.NewInternalError("failed to clear shop categories", err)
		}
		return a.insertCategories(ctx, id, update.Categories)
	})
	if err != nil {
		return nil, err
	}

	return a.GetByID(ctx, id)
}

// SetOpen toggles whether the shop accepts appointments
func (a *ShopAdapter) SetOpen(ctx context.Context, id string, isOpen bool) (*entities.Shop, error) {
	query, args, err := a.db.Update("shops").
		Set(goqu.Record{"is_open": isOpen, "updated_at": time.Now().UTC()}).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build update query", err)
	}

	if err := a.execAffectingOne(ctx, query, args, id); err != nil {
		return nil, err
	}

	return a.GetByID(ctx, id)
}

// Delete removes a shop; categories, reviews and appointments cascade
func (a *ShopAdapter) Delete(ctx context.Context, id string) error {
	query, args, err := a.db.Delete("shops").Where(goqu.Ex{"id": id}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	return a.execAffectingOne(ctx, query, args, id)
}

// FindCandidates returns shops inside the filter's box carrying its category
func (a *ShopAdapter) FindCandidates(ctx context.Context, filter repositories.CandidateFilter) ([]*entities.Shop, error) {
	ds := a.selectShops()

	if filter.Box != nil {
		ds = ds.Where(goqu.I("s.latitude").Between(exp.NewRangeVal(filter.Box.MinLat, filter.Box.MaxLat)))
		if !filter.Box.FullLongitude() {
			ds = ds.Where(goqu.I("s.longitude").Between(exp.NewRangeVal(filter.Box.MinLng, filter.Box.MaxLng)))
		}
	}

	if filter.Category != "" {
		ds = ds.Where(goqu.L(
			"EXISTS (SELECT 1 FROM shop_categories f WHERE f.shop_id = s.id AND f.category = ?)",
			filter.Category,
		))
	}

	query, args, err := ds.Order(goqu.I("s.id").Asc()).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.Executor(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to search shops", err)
	}
	defer rows.Close()

	shops := []*entities.Shop{}
	for rows.Next() {
		shop, err := scanShop(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan shop", err)
		}
		shops = append(shops, shop)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating shops", err)
	}

	return shops, nil
}

// LockForUpdate takes a row lock on the shop inside the caller's transaction
func (a *ShopAdapter) LockForUpdate(ctx context.Context, id string) error {
	query, args, err := a.db.Select("id").
		From("shops").
		Where(goqu.Ex{"id": id}).
		ForUpdate(exp.Wait).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build lock query", err)
	}

	var locked string
	err = a.client.Executor(ctx).QueryRowContext(ctx, query, args...).Scan(&locked)
	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.NewNotFoundError(fmt.Sprintf("shop with id %s not found", id))
	}
	if err != nil {
		return apperrors.NewInternalError("failed to lock shop", err)
	}

	return nil
}

// SetRating stores the derived rating aggregate
func (a *ShopAdapter) SetRating(ctx context.Context, id string, rating float64, reviewCount int) error {
	query, args, err := a.db.Update("shops").
		Set(goqu.Record{"rating": rating, "review_count": reviewCount}).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	return a.execAffectingOne(ctx, query, args, id)
}

func (a *ShopAdapter) selectShops() *goqu.SelectDataset {
	return a.db.Select(shopColumns...).
		From(goqu.T("shops").As("s")).
		LeftJoin(
			goqu.T("shop_categories").As("sc"),
			goqu.On(goqu.I("sc.shop_id").Eq(goqu.I("s.id"))),
		).
		GroupBy(goqu.I("s.id"))
}

func (a *ShopAdapter) insertCategories(ctx context.Context, shopID string, categories []string) error {
	if len(categories) == 0 {
		return nil
	}

	rows := make([]any, 0, len(categories))
	for i, category := range categories {
		rows = append(rows, goqu.Record{"shop_id": shopID, "category": category, "position": i})
	}

	query, args, err := a.db.Insert("shop_categories").Rows(rows...).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build category insert query", err)
	}

	if _, err := a.client.Executor(ctx).ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to save shop categories", err)
	}
	return nil
}

func (a *ShopAdapter) execAffectingOne(ctx context.Context, query string, args []any, id string) error {
	result, err := a.client.Executor(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update shop", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}

	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("shop with id %s not found", id))
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanShop(row rowScanner) (*entities.Shop, error) {
	shop := &entities.Shop{}
	var workingHours []byte
	var categories pq.StringArray
	err := row.Scan(
		&shop.ID,
		&shop.OwnerID,
		&shop.Name,
		&shop.Location.Latitude,
		&shop.Location.Longitude,
		&shop.Address,
		&shop.Phone,
		&shop.ImageURL,
		&workingHours,
		&shop.Geohash,
		&shop.Rating,
		&shop.ReviewCount,
		&shop.IsOpen,
		&shop.CreatedAt,
		&shop.UpdatedAt,
		&categories,
	)
	if err != nil {
		return nil, err
	}
	if len(workingHours) > 0 {
		shop.WorkingHours = workingHours
	}
	shop.Categories = []string(categories)
	if shop.Categories == nil {
		shop.Categories = []string{}
	}
	return shop, nil
}

// nullJSON stores absent JSON as NULL rather than an empty string
func nullJSON(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}
