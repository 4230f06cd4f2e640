package queries

import (
	"context"
	"time"

	"fleetbook/internal/domain/booking"
	"fleetbook/internal/domain/user"
	"fleetbook/internal/infra"
	"fleetbook/internal/pkg/errs"
	"fleetbook/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrBookingNotFound = errs.New("booking not found")
	ErrVehicleNotFound = errs.New("vehicle not found")
	ErrForbidden       = errs.New("operation not permitted")
	ErrInvalidCursor   = errs.New("invalid pagination cursor")
	ErrQueryFailed     = errs.New("query failed")
)

type BookingQueries interface {
	GetByID(ctx context.Context, actor user.Actor, id uuid.UUID) (*BookingView, error)
	// GetByIDSystem bypasses authorization for internal read-after-write.
	GetByIDSystem(ctx context.Context, id uuid.UUID) (*BookingView, error)
	List(ctx context.Context, actor user.Actor, filter BookingFilter, after *Cursor, limit int) ([]*BookingListItem, *Cursor, error)
	CheckAvailability(ctx context.Context, vehicleID uuid.UUID, iv booking.Interval) (*AvailabilityResult, error)
}

type AvailabilityResult struct {
	Available bool                     `json:"available"`
	Conflicts []shared.BookingConflict `json:"conflicts"`
}

type BookingViewRepo interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
	FindPage(ctx context.Context, filter BookingFilter, afterCreatedAt *time.Time, afterID *uuid.UUID, limit int32) ([]*BookingListItem, error)
}

type bookingQueriesImpl struct {
	repo BookingViewRepo
	uow  shared.UnitOfWork
}

func NewBookingQueries(repo BookingViewRepo, uow shared.UnitOfWork) BookingQueries {
	return &bookingQueriesImpl{repo: repo, uow: uow}
}

func (q *bookingQueriesImpl) GetByID(ctx context.Context, actor user.Actor, id uuid.UUID) (*BookingView, error) {
	view, err := q.repo.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, errs.Mark(err, ErrQueryFailed)
	}

	if !booking.Allows(actor.Role, booking.OpView, actor.Owns(view.RenterID)) {
		// Hide existence from actors who cannot see the booking.
		return nil, ErrBookingNotFound
	}

	return view, nil
}

func (q *bookingQueriesImpl) GetByIDSystem(ctx context.Context, id uuid.UUID) (*BookingView, error) {
	view, err := q.repo.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, errs.Mark(err, ErrQueryFailed)
	}
	return view, nil
}

// List scopes results server-side: customers always see their own bookings
// only, whatever renter filter they send. Pagination is keyset on
// (created_at, id) so pages stay stable under concurrent inserts.
func (q *bookingQueriesImpl) List(ctx context.Context, actor user.Actor, filter BookingFilter, after *Cursor, limit int) ([]*BookingListItem, *Cursor, error) {
	if !actor.Role.IsStaff() {
		filter.RenterID = &actor.ID
	}

	limit = ValidateLimit(limit)

	var (
		afterCreatedAt *time.Time
		afterID        *uuid.UUID
	)
	if after != nil && after.After != "" {
		t, id, err := DecodeAfterCursor(after.After)
		if err != nil {
			return nil, nil, errs.Mark(err, ErrInvalidCursor)
		}
		afterCreatedAt = &t
		afterID = &id
	}

	// Fetch one extra row to know whether a next page exists.
	items, err := q.repo.FindPage(ctx, filter, afterCreatedAt, afterID, int32(limit)+1)
	if err != nil {
		return nil, nil, errs.Mark(err, ErrQueryFailed)
	}

	var next *Cursor
	if len(items) > limit {
		items = items[:limit]
		last := items[len(items)-1]
		next = &Cursor{After: EncodeAfterCursor(last.CreatedAt, last.ID)}
	}

	return items, next, nil
}

func (q *bookingQueriesImpl) CheckAvailability(ctx context.Context, vehicleID uuid.UUID, iv booking.Interval) (*AvailabilityResult, error) {
	reads := q.uow.CommandReads()

	if _, err := reads.VehicleByID(ctx, vehicleID); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrVehicleNotFound
		}
		return nil, errs.Mark(err, ErrQueryFailed)
	}

	conflicts, err := reads.OverlappingBookings(ctx, vehicleID, iv, nil)
	if err != nil {
		return nil, errs.Mark(err, ErrQueryFailed)
	}

	return &AvailabilityResult{
		Available: len(conflicts) == 0,
		Conflicts: conflicts,
	}, nil
}
