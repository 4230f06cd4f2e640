//go:build unit || e2e

package builder

import (
	"time"

	dombooking "fleetbook/internal/domain/booking"
	reqdto "fleetbook/internal/handler/dto/request"
	"fleetbook/internal/usecase/queries"
	"fleetbook/internal/usecase/shared"

	"github.com/google/uuid"
)

type BookingBuilder struct {
	ID          uuid.UUID
	RenterID    uuid.UUID
	RenterEmail string
	VehicleID   uuid.UUID
	VehicleName string
	StartsAt    time.Time
	EndsAt      time.Time
	Status      string
	PriceCents  int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func NewBookingBuilder() *BookingBuilder {
	now := time.Now().Truncate(time.Second)
	start := now.Add(24 * time.Hour)
	return &BookingBuilder{
		ID:          uuid.New(),
		RenterID:    uuid.New(),
		RenterEmail: "renter@example.com",
		VehicleID:   uuid.New(),
		VehicleName: "Test Van",
		StartsAt:    start,
		EndsAt:      start.Add(2 * time.Hour),
		Status:      "pending",
		PriceCents:  5000,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (b *BookingBuilder) With(mutate func(*BookingBuilder)) *BookingBuilder {
	mutate(b)
	return b
}

// Build methods
func (b *BookingBuilder) BuildDomain() (*dombooking.Booking, error) {
	iv, err := dombooking.NewInterval(b.StartsAt, b.EndsAt)
	if err != nil {
		return nil, err
	}

	price, err := dombooking.NewMoney(b.PriceCents)
	if err != nil {
		return nil, err
	}

	status, err := dombooking.NewStatus(b.Status)
	if err != nil {
		return nil, err
	}

	return dombooking.ReconstructBooking(
		b.ID, b.RenterID, b.VehicleID,
		iv, price, status,
		b.CreatedAt, b.UpdatedAt,
	), nil
}

func (b *BookingBuilder) BuildInterval() (dombooking.Interval, error) {
	return dombooking.NewInterval(b.StartsAt, b.EndsAt)
}

func (b *BookingBuilder) BuildCreateRequestDTO() reqdto.CreateBookingRequest {
	return reqdto.CreateBookingRequest{
		VehicleID: b.VehicleID,
		StartsAt:  b.StartsAt,
		EndsAt:    b.EndsAt,
	}
}

func (b *BookingBuilder) BuildUpdateRequestDTO() reqdto.UpdateBookingRequest {
	vehicleID := b.VehicleID
	startsAt := b.StartsAt
	endsAt := b.EndsAt
	return reqdto.UpdateBookingRequest{
		VehicleID: &vehicleID,
		StartsAt:  &startsAt,
		EndsAt:    &endsAt,
	}
}

func (b *BookingBuilder) BuildView() *queries.BookingView {
	return &queries.BookingView{
		ID:          b.ID,
		VehicleID:   b.VehicleID,
		VehicleName: b.VehicleName,
		RenterID:    b.RenterID,
		RenterEmail: b.RenterEmail,
		StartsAt:    b.StartsAt,
		EndsAt:      b.EndsAt,
		Status:      b.Status,
		PriceCents:  b.PriceCents,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

func (b *BookingBuilder) BuildListItem() *queries.BookingListItem {
	return &queries.BookingListItem{
		ID:          b.ID,
		VehicleID:   b.VehicleID,
		VehicleName: b.VehicleName,
		RenterID:    b.RenterID,
		StartsAt:    b.StartsAt,
		EndsAt:      b.EndsAt,
		Status:      b.Status,
		PriceCents:  b.PriceCents,
		CreatedAt:   b.CreatedAt,
	}
}

func (b *BookingBuilder) BuildSnapshot() *shared.BookingSnapshot {
	return &shared.BookingSnapshot{
		ID:        b.ID,
		RenterID:  b.RenterID,
		VehicleID: b.VehicleID,
		StartsAt:  b.StartsAt,
		EndsAt:    b.EndsAt,
		Status:    b.Status,
	}
}

func (b *BookingBuilder) BuildConflict() shared.BookingConflict {
	return shared.BookingConflict{
		ID:       b.ID,
		StartsAt: b.StartsAt,
		EndsAt:   b.EndsAt,
		Status:   b.Status,
	}
}

// Fluent builder methods
func (b *BookingBuilder) WithID(id uuid.UUID) *BookingBuilder {
	b.ID = id
	return b
}

func (b *BookingBuilder) WithRenterID(renterID uuid.UUID) *BookingBuilder {
	b.RenterID = renterID
	return b
}

func (b *BookingBuilder) WithVehicleID(vehicleID uuid.UUID) *BookingBuilder {
	b.VehicleID = vehicleID
	return b
}

func (b *BookingBuilder) WithInterval(start, end time.Time) *BookingBuilder {
	b.StartsAt = start
	b.EndsAt = end
	return b
}

func (b *BookingBuilder) WithPriceCents(cents int64) *BookingBuilder {
	b.PriceCents = cents
	return b
}

func (b *BookingBuilder) WithCreatedAt(createdAt time.Time) *BookingBuilder {
	b.CreatedAt = createdAt
	return b
}

func (b *BookingBuilder) AsPending() *BookingBuilder {
	b.Status = "pending"
	return b
}

func (b *BookingBuilder) AsConfirmed() *BookingBuilder {
	b.Status = "confirmed"
	return b
}

func (b *BookingBuilder) AsCanceled() *BookingBuilder {
	b.Status = "canceled"
	return b
}

func (b *BookingBuilder) AsCompleted() *BookingBuilder {
	b.Status = "completed"
	return b
}
