package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mybnb/service-booking/internal/domain"
	listingDomain "github.com/mybnb/service-booking/internal/domain/listing"
)

// ListingModel is the GORM model for the listings table.
type ListingModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	HostID      uuid.UUID `gorm:"type:uuid;index;not null"`
	Name        string    `gorm:"not null;size:200"`
	Location    string    `gorm:"not null;size:200"`
	Description string    `gorm:"size:2000"`
	PriceCents  int64     `gorm:"not null"`
	Rating      float64   `gorm:"not null;default:0"`
	ImageURL    string    `gorm:"size:500"`
	Latitude    float64   `gorm:""`
	Longitude   float64   `gorm:""`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (ListingModel) TableName() string {
	return "listings"
}

// GormListingRepository is the GORM-based implementation of the listing
// repository.
type GormListingRepository struct {
	db *gorm.DB
}

// NewGormListingRepository creates a new GormListingRepository.
func NewGormListingRepository(db *gorm.DB) *GormListingRepository {
	return &GormListingRepository{db: db}
}

// FindByID retrieves a listing by its unique identifier.
func (r *GormListingRepository) FindByID(ctx context.Context, id uuid.UUID) (*listingDomain.Listing, error) {
	var model ListingModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("listing", id.String())
		}
		return nil, fmt.Errorf("failed to find listing by ID: %w", err)
	}
	return toDomainListing(&model), nil
}

// FindByIDs retrieves the listings matching the given ids. Missing ids are
// skipped, not errors.
func (r *GormListingRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*listingDomain.Listing, error) {
	if len(ids) == 0 {
		return []*listingDomain.Listing{}, nil
	}

	var models []ListingModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find listings by IDs: %w", err)
	}
	return toDomainListings(models), nil
}

// FindByHostID retrieves the listings owned by a host, newest first.
func (r *GormListingRepository) FindByHostID(ctx context.Context, hostID uuid.UUID) ([]*listingDomain.Listing, error) {
	var models []ListingModel
	err := r.db.WithContext(ctx).
		Where("host_id = ?", hostID).
		Order("created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find host listings: %w", err)
	}
	return toDomainListings(models), nil
}

// List returns one page of the catalog, newest first, with the total count.
func (r *GormListingRepository) List(ctx context.Context, page, limit int) ([]*listingDomain.Listing, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&ListingModel{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count listings: %w", err)
	}

	var models []ListingModel
	offset := (page - 1) * limit
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list listings: %w", err)
	}
	return toDomainListings(models), total, nil
}

// ListingIDsOwnedBy returns just the ids of the host's listings.
func (r *GormListingRepository) ListingIDsOwnedBy(ctx context.Context, hostID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&ListingModel{}).
		Where("host_id = ?", hostID).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list host listing IDs: %w", err)
	}
	return ids, nil
}

// Save persists a new listing.
func (r *GormListingRepository) Save(ctx context.Context, l *listingDomain.Listing) error {
	model := toListingModel(l)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save listing: %w", err)
	}
	return nil
}

// Update persists changes to an existing listing.
func (r *GormListingRepository) Update(ctx context.Context, l *listingDomain.Listing) error {
	model := toListingModel(l)
	result := r.db.WithContext(ctx).
		Model(&ListingModel{}).
		Where("id = ?", l.ID()).
		Updates(model)
	if result.Error != nil {
		return fmt.Errorf("failed to update listing: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("listing", l.ID().String())
	}
	return nil
}

// Delete removes a listing.
func (r *GormListingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&ListingModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete listing: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("listing", id.String())
	}
	return nil
}

func toListingModel(l *listingDomain.Listing) *ListingModel {
	return &ListingModel{
		ID:          l.ID(),
		HostID:      l.HostID(),
		Name:        l.Name(),
		Location:    l.Location(),
		Description: l.Description(),
		PriceCents:  l.PriceCents(),
		Rating:      l.Rating(),
		ImageURL:    l.ImageURL(),
		Latitude:    l.Latitude(),
		Longitude:   l.Longitude(),
		CreatedAt:   l.CreatedAt(),
		UpdatedAt:   l.UpdatedAt(),
	}
}

func toDomainListing(model *ListingModel) *listingDomain.Listing {
	return listingDomain.Reconstruct(
		model.ID,
		model.HostID,
		model.Name,
		model.Location,
		model.Description,
		model.PriceCents,
		model.Rating,
		model.ImageURL,
		model.Latitude,
		model.Longitude,
		model.CreatedAt,
		model.UpdatedAt,
	)
}

func toDomainListings(models []ListingModel) []*listingDomain.Listing {
	out := make([]*listingDomain.Listing, len(models))
	for i := range models {
		out[i] = toDomainListing(&models[i])
	}
	return out
}
