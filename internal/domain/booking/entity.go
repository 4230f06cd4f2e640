package booking

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidTransition = errors.New("invalid state transition")

// Booking is the central aggregate. It is never hard-deleted: cancellation
// is a status transition and the record stays on the books.
type Booking struct {
	id        uuid.UUID
	renterID  uuid.UUID
	vehicleID uuid.UUID
	interval  Interval
	price     Money
	status    Status
	createdAt time.Time
	updatedAt time.Time
}

// NewBooking creates a PENDING booking. The caller has already verified
// availability and computed the price; the past-start rule applies here
// because it is a creation-time rule only.
func NewBooking(renterID, vehicleID uuid.UUID, iv Interval, price Money, now time.Time) (*Booking, error) {
	if err := iv.ValidateNotInPast(now); err != nil {
		return nil, err
	}

	return &Booking{
		id:        uuid.New(),
		renterID:  renterID,
		vehicleID: vehicleID,
		interval:  iv,
		price:     price,
		status:    StatusPending,
	}, nil
}

func ReconstructBooking(
	id, renterID, vehicleID uuid.UUID,
	iv Interval,
	price Money,
	status Status,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:        id,
		renterID:  renterID,
		vehicleID: vehicleID,
		interval:  iv,
		price:     price,
		status:    status,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (b *Booking) transitionTo(next Status) error {
	if !b.status.CanTransitionTo(next) {
		return ErrInvalidTransition
	}
	b.status = next
	return nil
}

func (b *Booking) Confirm() error {
	return b.transitionTo(StatusConfirmed)
}

func (b *Booking) Cancel() error {
	return b.transitionTo(StatusCanceled)
}

func (b *Booking) Complete() error {
	return b.transitionTo(StatusCompleted)
}

// Reschedule replaces vehicle and/or interval. Vehicle reassignment is only
// allowed while PENDING; interval changes also while CONFIRMED. The caller
// re-checks availability and recomputes the price afterwards.
func (b *Booking) Reschedule(vehicleID uuid.UUID, iv Interval) error {
	if b.status.IsTerminal() {
		return ErrInvalidTransition
	}
	if vehicleID != b.vehicleID && b.status != StatusPending {
		return ErrInvalidTransition
	}
	b.vehicleID = vehicleID
	b.interval = iv
	return nil
}

// Reprice overwrites the total; used after any vehicle/interval change.
func (b *Booking) Reprice(price Money) {
	b.price = price
}

func (b *Booking) IsActive() bool {
	return b.status.IsActive()
}

func (b *Booking) ID() uuid.UUID        { return b.id }
func (b *Booking) RenterID() uuid.UUID  { return b.renterID }
func (b *Booking) VehicleID() uuid.UUID { return b.vehicleID }
func (b *Booking) Interval() Interval   { return b.interval }
func (b *Booking) Price() Money         { return b.price }
func (b *Booking) Status() Status       { return b.status }
func (b *Booking) CreatedAt() time.Time { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time { return b.updatedAt }
