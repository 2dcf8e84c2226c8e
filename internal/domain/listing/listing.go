package listing

import (
	"time"

	"github.com/google/uuid"

	"github.com/mybnb/service-booking/internal/domain"
)

// Listing is the aggregate root for a property a host offers for booking.
// Image storage is external; only the resulting URL is kept here.
type Listing struct {
	id          uuid.UUID
	hostID      uuid.UUID
	name        string
	location    string
	description string
	priceCents  int64
	rating      float64
	imageURL    string
	latitude    float64
	longitude   float64
	createdAt   time.Time
	updatedAt   time.Time
}

// New creates a validated listing owned by the given host.
func New(
	hostID uuid.UUID,
	name, location, description string,
	priceCents int64,
	rating float64,
	imageURL string,
	latitude, longitude float64,
) (*Listing, error) {
	if hostID == uuid.Nil {
		return nil, domain.NewValidationError("host ID is required")
	}
	if name == "" {
		return nil, domain.NewValidationError("listing name is required")
	}
	if location == "" {
		return nil, domain.NewValidationError("location is required")
	}
	if priceCents <= 0 {
		return nil, domain.NewValidationError("price must be positive")
	}
	if rating < 0 || rating > 5 {
		return nil, domain.NewValidationError("rating must be between 0 and 5")
	}

	now := time.Now().UTC()
	return &Listing{
		id:          uuid.New(),
		hostID:      hostID,
		name:        name,
		location:    location,
		description: description,
		priceCents:  priceCents,
		rating:      rating,
		imageURL:    imageURL,
		latitude:    latitude,
		longitude:   longitude,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// Reconstruct rebuilds a Listing from persistence data (no validation).
func Reconstruct(
	id, hostID uuid.UUID,
	name, location, description string,
	priceCents int64,
	rating float64,
	imageURL string,
	latitude, longitude float64,
	createdAt, updatedAt time.Time,
) *Listing {
	return &Listing{
		id:          id,
		hostID:      hostID,
		name:        name,
		location:    location,
		description: description,
		priceCents:  priceCents,
		rating:      rating,
		imageURL:    imageURL,
		latitude:    latitude,
		longitude:   longitude,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

// --- Getters ---

func (l *Listing) ID() uuid.UUID        { return l.id }
func (l *Listing) HostID() uuid.UUID    { return l.hostID }
func (l *Listing) Name() string         { return l.name }
func (l *Listing) Location() string     { return l.location }
func (l *Listing) Description() string  { return l.description }
func (l *Listing) PriceCents() int64    { return l.priceCents }
func (l *Listing) Rating() float64      { return l.rating }
func (l *Listing) ImageURL() string     { return l.imageURL }
func (l *Listing) Latitude() float64    { return l.latitude }
func (l *Listing) Longitude() float64   { return l.longitude }
func (l *Listing) CreatedAt() time.Time { return l.createdAt }
func (l *Listing) UpdatedAt() time.Time { return l.updatedAt }

// --- Behavior ---

// IsOwnedBy checks if the listing belongs to the given host.
func (l *Listing) IsOwnedBy(hostID uuid.UUID) bool {
	return l.hostID == hostID
}

// Update applies partial updates to the listing.
func (l *Listing) Update(
	name, location, description string,
	priceCents int64,
	rating float64,
	imageURL string,
	latitude, longitude float64,
) {
	if name != "" {
		l.name = name
	}
	if location != "" {
		l.location = location
	}
	if description != "" {
		l.description = description
	}
	if priceCents > 0 {
		l.priceCents = priceCents
	}
	if rating > 0 {
		l.rating = rating
	}
	if imageURL != "" {
		l.imageURL = imageURL
	}
	if latitude != 0 {
		l.latitude = latitude
	}
	if longitude != 0 {
		l.longitude = longitude
	}
	l.updatedAt = time.Now().UTC()
}
