package request

import (
	"time"

	"fleetbook/internal/domain/booking"

	"github.com/google/uuid"
)

type CreateBookingRequest struct {
	VehicleID uuid.UUID `json:"vehicle_id" binding:"required"`
	StartsAt  time.Time `json:"starts_at" binding:"required"`
	EndsAt    time.Time `json:"ends_at" binding:"required"`
}

func (r CreateBookingRequest) ToInterval() (booking.Interval, error) {
	return booking.NewInterval(r.StartsAt, r.EndsAt)
}

// UpdateBookingRequest patches booking details. Omitted fields keep their
// current values; vehicle and interval changes trigger an availability
// re-check and a reprice. Renters may only patch status, and only to
// canceled on their own booking; other fields are staff/admin.
type UpdateBookingRequest struct {
	VehicleID *uuid.UUID `json:"vehicle_id,omitempty"`
	StartsAt  *time.Time `json:"starts_at,omitempty"`
	EndsAt    *time.Time `json:"ends_at,omitempty"`
	Status    *string    `json:"status,omitempty"`
}

func (r UpdateBookingRequest) IsEmpty() bool {
	return r.VehicleID == nil && r.StartsAt == nil && r.EndsAt == nil && r.Status == nil
}

// HasDetailChanges reports whether the patch touches anything beyond status.
func (r UpdateBookingRequest) HasDetailChanges() bool {
	return r.VehicleID != nil || r.StartsAt != nil || r.EndsAt != nil
}

type ListBookingsQuery struct {
	VehicleID *uuid.UUID `form:"vehicle_id"`
	RenterID  *uuid.UUID `form:"renter_id"`
	Status    *string    `form:"status"`
	Limit     int        `form:"limit"`
	After     string     `form:"after"`
}

type AvailabilityQuery struct {
	From time.Time `form:"from" binding:"required" time_format:"2006-01-02T15:04:05Z07:00"`
	To   time.Time `form:"to" binding:"required" time_format:"2006-01-02T15:04:05Z07:00"`
}

func (q AvailabilityQuery) ToInterval() (booking.Interval, error) {
	return booking.NewInterval(q.From, q.To)
}
