package listing

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines persistence operations for listings.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Listing, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*Listing, error)
	FindByHostID(ctx context.Context, hostID uuid.UUID) ([]*Listing, error)
	List(ctx context.Context, page, limit int) ([]*Listing, int64, error)
	ListingIDsOwnedBy(ctx context.Context, hostID uuid.UUID) ([]uuid.UUID, error)
	Save(ctx context.Context, l *Listing) error
	Update(ctx context.Context, l *Listing) error
	Delete(ctx context.Context, id uuid.UUID) error
}
