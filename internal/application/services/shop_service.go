package services

import (
	"cmp"
	"context"
	"encoding/json"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ototamirci/backend/internal/application/policy"
	"github.com/ototamirci/backend/internal/domain/entities"
	"github.com/ototamirci/backend/internal/domain/repositories"
	"github.com/ototamirci/backend/internal/infrastructure/observability"
	apperrors "github.com/ototamirci/backend/pkg/errors"
	"github.com/ototamirci/backend/pkg/geo"
	"github.com/ototamirci/backend/pkg/utils"
)

// NearbyQuery is a proximity search request
type NearbyQuery struct {
	Latitude  float64
	Longitude float64
	RadiusKm  float64
	// Category, when set, must equal one of a shop's categories exactly
	Category string
}

// ShopInput carries the fields needed to open a shop
type ShopInput struct {
	Name         string
	Latitude     float64
	Longitude    float64
	Address      string
	Phone        string
	ImageURL     string
	WorkingHours json.RawMessage
	Categories   []string
}

// ShopService handles shop discovery and owner management
type ShopService struct {
	repo    repositories.ShopRepository
	metrics *observability.Metrics
}

// NewShopService creates a new shop service
func NewShopService(repo repositories.ShopRepository, metrics *observability.Metrics) *ShopService {
	return &ShopService{
		repo:    repo,
		metrics: metrics,
	}
}

// SearchNearby returns every shop strictly closer than the radius, nearest
// first. The repository only narrows the scan; exact distances are computed
// here so the result matches a full scan.
func (s *ShopService) SearchNearby(ctx context.Context, q NearbyQuery) ([]*entities.NearbyShop, error) {
	if !(q.RadiusKm > 0) {
		return []*entities.NearbyShop{}, nil
	}
	if math.IsInf(q.RadiusKm, 1) {
		return nil, apperrors.NewValidationError("radius must be finite")
	}

	center := geo.Point{Latitude: q.Latitude, Longitude: q.Longitude}
	if !center.Valid() {
		return nil, apperrors.NewValidationError("valid latitude and longitude are required")
	}

	box := geo.BoundingBox(center, q.RadiusKm)
	candidates, err := s.repo.FindCandidates(ctx, repositories.CandidateFilter{
		Box:      &box,
		Category: q.Category,
	})
	if err != nil {
		return nil, err
	}

	results := make([]*entities.NearbyShop, 0, len(candidates))
	for _, shop := range candidates {
		distance := geo.Distance(center, geo.Point{
			Latitude:  shop.Location.Latitude,
			Longitude: shop.Location.Longitude,
		})
		if distance < q.RadiusKm {
			results = append(results, &entities.NearbyShop{Shop: shop, DistanceKm: distance})
		}
	}

	slices.SortFunc(results, func(a, b *entities.NearbyShop) int {
		if c := cmp.Compare(a.DistanceKm, b.DistanceKm); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})

	observability.RecordNearbySearch(ctx, s.metrics, q.Category, len(results))
	return results, nil
}

// GetShop retrieves a shop with its categories
func (s *ShopService) GetShop(ctx context.Context, id string) (*entities.Shop, error) {
	return s.repo.GetByID(ctx, id)
}

// CreateShop opens the caller's shop. A mechanic owns at most one.
func (s *ShopService) CreateShop(ctx context.Context, caller entities.Identity, input ShopInput) (*entities.Shop, error) {
	if err := policy.Authorize(caller, policy.ActionShopCreate, policy.Resource{}); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByOwner(ctx, caller.UserID)
	if err == nil && existing != nil {
		return nil, apperrors.NewConflictError("mechanic already has a shop")
	}
	if err != nil && !apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
		return nil, err
	}

	shop, err := NewShop(caller.UserID, input, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, shop); err != nil {
		return nil, err
	}

	return shop, nil
}

// UpdateShop applies an owner edit. Categories are replaced when present.
func (s *ShopService) UpdateShop(ctx context.Context, caller entities.Identity, id string, update entities.ShopUpdate) (*entities.Shop, error) {
	if err := s.authorizeOwner(ctx, caller, id, policy.ActionShopUpdate); err != nil {
		return nil, err
	}

	if update.ReplaceCategories {
		update.Categories = utils.NormalizeCategories(update.Categories)
	}

	return s.repo.Update(ctx, id, update)
}

// SetAvailability toggles whether the shop accepts appointments
func (s *ShopService) SetAvailability(ctx context.Context, caller entities.Identity, id string, isOpen bool) (*entities.Shop, error) {
	if err := s.authorizeOwner(ctx, caller, id, policy.ActionShopAvailability); err != nil {
		return nil, err
	}

	return s.repo.SetOpen(ctx, id, isOpen)
}

// DeleteShop removes the caller's shop
func (s *ShopService) DeleteShop(ctx context.Context, caller entities.Identity, id string) error {
	if err := s.authorizeOwner(ctx, caller, id, policy.ActionShopDelete); err != nil {
		return err
	}

	return s.repo.Delete(ctx, id)
}

func (s *ShopService) authorizeOwner(ctx context.Context, caller entities.Identity, id string, action policy.Action) error {
	shop, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return policy.Authorize(caller, action, policy.Resource{ShopOwnerID: shop.OwnerID})
}

// NewShop validates input and builds a new open shop with zero rating
func NewShop(ownerID string, input ShopInput, now time.Time) (*entities.Shop, error) {
	location := geo.Point{Latitude: input.Latitude, Longitude: input.Longitude}
	if !location.Valid() {
		return nil, apperrors.NewValidationError("latitude must be within [-90, 90] and longitude within [-180, 180]")
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.NewValidationError("shop name is required")
	}

	return &entities.Shop{
		ID:           uuid.New().String(),
		OwnerID:      ownerID,
		Name:         strings.TrimSpace(input.Name),
		Location:     entities.Location{Latitude: input.Latitude, Longitude: input.Longitude},
		Address:      strings.TrimSpace(input.Address),
		Phone:        strings.TrimSpace(input.Phone),
		ImageURL:     input.ImageURL,
		WorkingHours: input.WorkingHours,
		Geohash:      geo.Geohash(location, geo.ShopGeohashPrecision),
		Rating:       0,
		ReviewCount:  0,
		IsOpen:       true,
		Categories:   utils.NormalizeCategories(input.Categories),
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}
