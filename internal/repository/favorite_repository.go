package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mybnb/service-booking/internal/domain/favorite"
)

// FavoriteModel is the GORM model for the favorites table. The composite
// primary key makes (guest, listing) unique.
type FavoriteModel struct {
	GuestID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	ListingID uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (FavoriteModel) TableName() string {
	return "favorites"
}

// GormFavoriteRepository is the GORM-based implementation of the favorite
// repository.
type GormFavoriteRepository struct {
	db *gorm.DB
}

// NewGormFavoriteRepository creates a new GormFavoriteRepository.
func NewGormFavoriteRepository(db *gorm.DB) *GormFavoriteRepository {
	return &GormFavoriteRepository{db: db}
}

// Add saves the favorite, reporting whether it already existed. Conflicts on
// the composite key are ignored rather than raised.
func (r *GormFavoriteRepository) Add(ctx context.Context, fav favorite.Favorite) (bool, error) {
	model := FavoriteModel{
		GuestID:   fav.GuestID,
		ListingID: fav.ListingID,
		CreatedAt: fav.CreatedAt,
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model)
	if result.Error != nil {
		return false, fmt.Errorf("failed to add favorite: %w", result.Error)
	}
	return result.RowsAffected == 0, nil
}

// Remove deletes the favorite, reporting whether it existed.
func (r *GormFavoriteRepository) Remove(ctx context.Context, guestID, listingID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("guest_id = ? AND listing_id = ?", guestID, listingID).
		Delete(&FavoriteModel{})
	if result.Error != nil {
		return false, fmt.Errorf("failed to remove favorite: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// ListingIDsByGuest returns the listing ids the guest has saved, newest first.
func (r *GormFavoriteRepository) ListingIDsByGuest(ctx context.Context, guestID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&FavoriteModel{}).
		Where("guest_id = ?", guestID).
		Order("created_at DESC").
		Pluck("listing_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	return ids, nil
}

// DeleteByGuest removes all of the guest's favorites.
func (r *GormFavoriteRepository) DeleteByGuest(ctx context.Context, guestID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("guest_id = ?", guestID).
		Delete(&FavoriteModel{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete guest favorites: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// DeleteByListing removes the listing from every guest's favorites.
func (r *GormFavoriteRepository) DeleteByListing(ctx context.Context, listingID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("listing_id = ?", listingID).
		Delete(&FavoriteModel{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete listing favorites: %w", result.Error)
	}
	return result.RowsAffected, nil
}
