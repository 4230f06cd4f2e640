package shared

import (
	"context"
	"time"

	"fleetbook/internal/domain/booking"
	"fleetbook/internal/infra/db"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithDB: Single query operations using implicit transactions
	WithDB(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error
	// CommandReads: Direct access to command reads for validation outside transactions
	CommandReads() CommandReads
}

type Tx interface {
	Bookings() BookingRepository
	Payments() PaymentRepository
	Notifications() NotificationRepository
	Users() UserRepository
	Reads() CommandReads

	// LockVehicle serializes the check-then-write sequence per vehicle.
	// The lock is transaction-scoped and released on commit/rollback.
	LockVehicle(ctx context.Context, vehicleID uuid.UUID) error

	DB() db.DBTX
}

type CommandReads interface {
	VehicleByID(ctx context.Context, id uuid.UUID) (*VehicleSnapshot, error)
	BookingByID(ctx context.Context, id uuid.UUID) (*BookingSnapshot, error)
	OverlappingBookings(ctx context.Context, vehicleID uuid.UUID, iv booking.Interval, excludeID *uuid.UUID) ([]BookingConflict, error)
	UserByEmail(ctx context.Context, email string) (*UserSnapshot, error)
}

type BookingRepository interface {
	Create(ctx context.Context, b *booking.Booking) (uuid.UUID, error)
	Update(ctx context.Context, b *booking.Booking) error
	// FindByIDForUpdate takes the row lock that serializes direct API
	// transitions against webhook-driven ones.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
	FindByTransactionRefForUpdate(ctx context.Context, transactionRef string) (*booking.Booking, error)
	FindOverlapping(ctx context.Context, vehicleID uuid.UUID, iv booking.Interval, excludeID *uuid.UUID) ([]BookingConflict, error)
}

type PaymentRepository interface {
	CreateIntent(ctx context.Context, bookingID uuid.UUID, transactionRef string, amountCents int64) error
	UpdateStatusByRef(ctx context.Context, transactionRef, status string) error
}

type NotificationRepository interface {
	CreateJob(ctx context.Context, kind, topic string, payload []byte, runAt time.Time) error
}

type UserRepository interface {
	UpdateLastLogin(ctx context.Context, userID uuid.UUID) error
}
