package shared

import (
	"time"

	"github.com/google/uuid"
)

// Write-side snapshots keep the command layer off the read-side view types.

type VehicleSnapshot struct {
	ID              uuid.UUID
	Name            string
	HourlyRateCents int64
}

type BookingSnapshot struct {
	ID        uuid.UUID
	RenterID  uuid.UUID
	VehicleID uuid.UUID
	StartsAt  time.Time
	EndsAt    time.Time
	Status    string
}

// BookingConflict is one overlapping active booking, surfaced to callers so
// the UI can explain an availability failure.
type BookingConflict struct {
	ID       uuid.UUID `json:"id"`
	StartsAt time.Time `json:"startsAt"`
	EndsAt   time.Time `json:"endsAt"`
	Status   string    `json:"status"`
}

type UserSnapshot struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Role         string
	IsActive     bool
}

// Payment record statuses as stored on the payments table.
const (
	PaymentStatusPending   = "pending"
	PaymentStatusSucceeded = "succeeded"
	PaymentStatusFailed    = "failed"
	PaymentStatusRefunded  = "refunded"
)
