package repository

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/mybnb/service-booking/internal/domain"
	"github.com/mybnb/service-booking/internal/domain/reservation"
)

// exclusionViolation is the SQLSTATE raised when the reservations exclusion
// constraint rejects an overlapping range.
const exclusionViolation = "23P01"

// ReservationModel is the GORM model for the reservations table.
type ReservationModel struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ListingID  uuid.UUID       `gorm:"type:uuid;index;not null"`
	GuestID    uuid.UUID       `gorm:"type:uuid;index;not null"`
	GuestName  string          `gorm:"not null;size:120"`
	GuestAge   int             `gorm:"not null"`
	GuestEmail string          `gorm:"not null;size:254"`
	CheckIn    time.Time       `gorm:"type:date;not null"`
	CheckOut   time.Time       `gorm:"type:date;not null"`
	Review     json.RawMessage `gorm:"type:jsonb"`
	CreatedAt  time.Time       `gorm:"not null"`
	UpdatedAt  time.Time       `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (ReservationModel) TableName() string {
	return "reservations"
}

// GormReservationRepository is the GORM-based implementation of the
// reservation ledger.
type GormReservationRepository struct {
	db *gorm.DB
}

// NewGormReservationRepository creates a new GormReservationRepository.
func NewGormReservationRepository(db *gorm.DB) *GormReservationRepository {
	return &GormReservationRepository{db: db}
}

// FindByID retrieves a reservation by its unique identifier.
func (r *GormReservationRepository) FindByID(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	var model ReservationModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("reservation", id.String())
		}
		return nil, fmt.Errorf("failed to find reservation by ID: %w", err)
	}
	return toDomainReservation(&model)
}

// FindOverlapping returns any reservation on the listing whose [check_in,
// check_out) range intersects the given one. Half-open semantics: a stay
// ending on the day another begins does not overlap.
func (r *GormReservationRepository) FindOverlapping(ctx context.Context, listingID uuid.UUID, checkIn, checkOut time.Time) (*reservation.Reservation, error) {
	var model ReservationModel
	err := r.db.WithContext(ctx).
		Where("listing_id = ? AND check_in < ? AND check_out > ?", listingID, checkOut, checkIn).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query overlapping reservations: %w", err)
	}
	return toDomainReservation(&model)
}

// Create runs the overlap check and the insert in one transaction, serialized
// per listing by an advisory lock. The exclusion constraint on the table
// backstops the lock, so two committed reservations can never overlap.
func (r *GormReservationRepository) Create(ctx context.Context, res *reservation.Reservation) error {
	model, err := toReservationModel(res)
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SELECT pg_advisory_xact_lock(?)", listingLockKey(res.ListingID())).Error; err != nil {
			return fmt.Errorf("failed to acquire listing lock: %w", err)
		}

		var count int64
		err := tx.Model(&ReservationModel{}).
			Where("listing_id = ? AND check_in < ? AND check_out > ?", res.ListingID(), res.CheckOut(), res.CheckIn()).
			Count(&count).Error
		if err != nil {
			return fmt.Errorf("failed to check for overlapping reservations: %w", err)
		}
		if count > 0 {
			return domain.NewConflictError("selected dates are already booked")
		}

		if err := tx.Create(model).Error; err != nil {
			if isExclusionViolation(err) {
				return domain.NewConflictError("selected dates are already booked")
			}
			return fmt.Errorf("failed to create reservation: %w", err)
		}
		return nil
	})
}

// DeleteByIDAndGuest hard-deletes the reservation iff it is owned by guestID.
func (r *GormReservationRepository) DeleteByIDAndGuest(ctx context.Context, id, guestID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND guest_id = ?", id, guestID).
		Delete(&ReservationModel{})
	if result.Error != nil {
		return false, fmt.Errorf("failed to delete reservation: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// UpdateReview attaches or overwrites the review sub-record.
func (r *GormReservationRepository) UpdateReview(ctx context.Context, res *reservation.Reservation) error {
	review, err := marshalReview(res.Review())
	if err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&ReservationModel{}).
		Where("id = ?", res.ID()).
		Updates(map[string]interface{}{
			"review":     review,
			"updated_at": res.UpdatedAt(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update review: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("reservation", res.ID().String())
	}
	return nil
}

// ListByGuest returns all reservations for a guest, soonest check-in first.
func (r *GormReservationRepository) ListByGuest(ctx context.Context, guestID uuid.UUID) ([]*reservation.Reservation, error) {
	var models []ReservationModel
	err := r.db.WithContext(ctx).
		Where("guest_id = ?", guestID).
		Order("check_in ASC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list guest reservations: %w", err)
	}
	return toDomainReservations(models)
}

// ListByListingIDs returns all reservations across the given listings.
func (r *GormReservationRepository) ListByListingIDs(ctx context.Context, listingIDs []uuid.UUID) ([]*reservation.Reservation, error) {
	if len(listingIDs) == 0 {
		return []*reservation.Reservation{}, nil
	}

	var models []ReservationModel
	err := r.db.WithContext(ctx).
		Where("listing_id IN ?", listingIDs).
		Order("check_in ASC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list listing reservations: %w", err)
	}
	return toDomainReservations(models)
}

// ListReviewedByListing returns the listing's reviewed reservations, newest
// stay first.
func (r *GormReservationRepository) ListReviewedByListing(ctx context.Context, listingID uuid.UUID) ([]*reservation.Reservation, error) {
	var models []ReservationModel
	err := r.db.WithContext(ctx).
		Where("listing_id = ? AND review IS NOT NULL", listingID).
		Order("check_out DESC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list reviewed reservations: %w", err)
	}
	return toDomainReservations(models)
}

// DeleteByGuest removes every reservation owned by the guest.
func (r *GormReservationRepository) DeleteByGuest(ctx context.Context, guestID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("guest_id = ?", guestID).
		Delete(&ReservationModel{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete guest reservations: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// DeleteByListing removes every reservation on the listing.
func (r *GormReservationRepository) DeleteByListing(ctx context.Context, listingID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("listing_id = ?", listingID).
		Delete(&ReservationModel{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete listing reservations: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// listingLockKey derives the advisory lock key for a listing from the first
// eight bytes of its UUID.
func listingLockKey(listingID uuid.UUID) int64 {
	return int64(binary.BigEndian.Uint64(listingID[:8]))
}

func isExclusionViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == exclusionViolation
}

func marshalReview(review *reservation.Review) (json.RawMessage, error) {
	if review == nil {
		return nil, nil
	}
	data, err := json.Marshal(review)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal review: %w", err)
	}
	return data, nil
}

func toReservationModel(res *reservation.Reservation) (*ReservationModel, error) {
	review, err := marshalReview(res.Review())
	if err != nil {
		return nil, err
	}
	return &ReservationModel{
		ID:         res.ID(),
		ListingID:  res.ListingID(),
		GuestID:    res.GuestID(),
		GuestName:  res.GuestName(),
		GuestAge:   res.GuestAge(),
		GuestEmail: res.GuestEmail(),
		CheckIn:    res.CheckIn(),
		CheckOut:   res.CheckOut(),
		Review:     review,
		CreatedAt:  res.CreatedAt(),
		UpdatedAt:  res.UpdatedAt(),
	}, nil
}

func toDomainReservation(model *ReservationModel) (*reservation.Reservation, error) {
	var review *reservation.Review
	if len(model.Review) > 0 {
		review = &reservation.Review{}
		if err := json.Unmarshal(model.Review, review); err != nil {
			return nil, fmt.Errorf("failed to unmarshal review: %w", err)
		}
	}

	return reservation.Reconstruct(
		model.ID,
		model.ListingID,
		model.GuestID,
		model.GuestName,
		model.GuestAge,
		model.GuestEmail,
		reservation.Day(model.CheckIn),
		reservation.Day(model.CheckOut),
		review,
		model.CreatedAt,
		model.UpdatedAt,
	), nil
}

func toDomainReservations(models []ReservationModel) ([]*reservation.Reservation, error) {
	out := make([]*reservation.Reservation, len(models))
	for i := range models {
		res, err := toDomainReservation(&models[i])
		if err != nil {
			return nil, err
		}
		out[i] = res
	}
	return out, nil
}
