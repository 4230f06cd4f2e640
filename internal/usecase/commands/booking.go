package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"fleetbook/internal/domain/booking"
	"fleetbook/internal/domain/user"
	reqdto "fleetbook/internal/handler/dto/request"
	"fleetbook/internal/infra"
	"fleetbook/internal/pkg/clock"
	"fleetbook/internal/pkg/errs"
	"fleetbook/internal/usecase/queries"
	"fleetbook/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrBookingNotFound        = errs.New("booking not found")
	ErrVehicleNotFound        = errs.New("vehicle not found")
	ErrForbidden              = errs.New("operation not permitted")
	ErrInvalidInterval        = errs.New("invalid booking interval")
	ErrVehicleUnavailable     = errs.New("vehicle unavailable for the requested interval")
	ErrInvalidStateTransition = errs.New("invalid booking state transition")
	ErrBookingNotFinished     = errs.New("booking cannot be completed before its end time")
	ErrEmptyUpdate            = errs.New("no updatable fields in request")
	ErrDomainValidation       = errs.New("domain validation error")
	ErrDatabaseOperation      = errs.New("database operation failed")
)

// ConflictError reports which active bookings blocked the requested
// interval, so clients can render the collision instead of guessing.
type ConflictError struct {
	Conflicts []shared.BookingConflict
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("vehicle unavailable: %d conflicting booking(s)", len(e.Conflicts))
}

func (e *ConflictError) Unwrap() error {
	return ErrVehicleUnavailable
}

type BookingCommands interface {
	Create(ctx context.Context, actor user.Actor, req reqdto.CreateBookingRequest) (*queries.BookingView, error)
	Update(ctx context.Context, actor user.Actor, id uuid.UUID, req reqdto.UpdateBookingRequest) (*queries.BookingView, error)
	Cancel(ctx context.Context, actor user.Actor, id uuid.UUID) error
	Confirm(ctx context.Context, actor user.Actor, id uuid.UUID) error
	Complete(ctx context.Context, actor user.Actor, id uuid.UUID) error
}

type bookingCommandsImpl struct {
	uow            shared.UnitOfWork
	bookingQueries queries.BookingQueries
	clock          clock.Clock
}

func NewBookingCommands(uow shared.UnitOfWork, bookingQueries queries.BookingQueries, clk clock.Clock) BookingCommands {
	return &bookingCommandsImpl{
		uow:            uow,
		bookingQueries: bookingQueries,
		clock:          clk,
	}
}

// Create reserves a vehicle for the requested interval. The availability
// check and the insert run under a per-vehicle advisory lock inside one
// transaction, so two requests for the same vehicle serialize; the bookings
// exclusion constraint backstops anything that slips through.
func (c *bookingCommandsImpl) Create(ctx context.Context, actor user.Actor, req reqdto.CreateBookingRequest) (*queries.BookingView, error) {
	if !booking.Allows(actor.Role, booking.OpCreate, true) {
		return nil, ErrForbidden
	}

	iv, err := req.ToInterval()
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidInterval)
	}

	var bookingID uuid.UUID
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.LockVehicle(ctx, req.VehicleID); err != nil {
			return errs.Mark(err, ErrDatabaseOperation)
		}

		vehicle, err := tx.Reads().VehicleByID(ctx, req.VehicleID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrVehicleNotFound
			}
			return errs.Mark(err, ErrDatabaseOperation)
		}

		conflicts, err := tx.Reads().OverlappingBookings(ctx, req.VehicleID, iv, nil)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperation)
		}
		if len(conflicts) > 0 {
			return &ConflictError{Conflicts: conflicts}
		}

		price, err := booking.PriceCents(iv, vehicle.HourlyRateCents)
		if err != nil {
			return errs.Mark(err, ErrDomainValidation)
		}

		entity, err := booking.NewBooking(actor.ID, req.VehicleID, iv, price, c.clock.Now())
		if err != nil {
			return errs.Mark(err, ErrInvalidInterval)
		}

		bookingID, err = tx.Bookings().Create(ctx, entity)
		if err != nil {
			if infra.IsKind(err, infra.KindConflict) {
				return &ConflictError{}
			}
			if infra.IsKind(err, infra.KindForeignKeyViolated) {
				return ErrVehicleNotFound
			}
			return errs.Mark(err, ErrDatabaseOperation)
		}

		c.enqueueNotification(ctx, tx, "booking_created", bookingID)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return c.bookingQueries.GetByIDSystem(ctx, bookingID)
}

// statusPatchOps maps a requested status to the operation whose policy
// gates it, so a status-only patch is authorized exactly like the
// dedicated endpoint for the same transition.
var statusPatchOps = map[booking.Status]struct {
	op    booking.Operation
	topic string
}{
	booking.StatusCanceled:  {booking.OpCancel, "booking_canceled"},
	booking.StatusConfirmed: {booking.OpConfirm, "booking_confirmed"},
	booking.StatusCompleted: {booking.OpComplete, "booking_completed"},
}

// Update patches vehicle, interval and/or status on a non-terminal booking.
// A merged interval is re-checked for availability (excluding the booking
// itself) and the price recomputed from the target vehicle's rate. Renters
// can only patch status, and only to canceled on their own booking.
func (c *bookingCommandsImpl) Update(ctx context.Context, actor user.Actor, id uuid.UUID, req reqdto.UpdateBookingRequest) (*queries.BookingView, error) {
	if req.IsEmpty() {
		return nil, ErrEmptyUpdate
	}

	var targetStatus *booking.Status
	if req.Status != nil {
		st, err := booking.NewStatus(*req.Status)
		if err != nil {
			return nil, errs.Mark(err, ErrInvalidStateTransition)
		}
		targetStatus = &st
	}

	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		entity, err := tx.Bookings().FindByIDForUpdate(ctx, id)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrBookingNotFound
			}
			return errs.Mark(err, ErrDatabaseOperation)
		}

		owns := actor.Owns(entity.RenterID())
		op := booking.OpUpdateDetails
		if !req.HasDetailChanges() && targetStatus != nil {
			if gate, ok := statusPatchOps[*targetStatus]; ok {
				op = gate.op
			}
		}
		if !booking.Allows(actor.Role, op, owns) {
			return ErrForbidden
		}

		topic := "booking_updated"

		if req.HasDetailChanges() {
			vehicleID := entity.VehicleID()
			if req.VehicleID != nil {
				vehicleID = *req.VehicleID
			}
			start := entity.Interval().Start()
			if req.StartsAt != nil {
				start = *req.StartsAt
			}
			end := entity.Interval().End()
			if req.EndsAt != nil {
				end = *req.EndsAt
			}

			iv, err := booking.NewInterval(start, end)
			if err != nil {
				return errs.Mark(err, ErrInvalidInterval)
			}

			if err := entity.Reschedule(vehicleID, iv); err != nil {
				return errs.Mark(err, ErrInvalidStateTransition)
			}

			if err := tx.LockVehicle(ctx, vehicleID); err != nil {
				return errs.Mark(err, ErrDatabaseOperation)
			}

			vehicle, err := tx.Reads().VehicleByID(ctx, vehicleID)
			if err != nil {
				if infra.IsKind(err, infra.KindNotFound) {
					return ErrVehicleNotFound
				}
				return errs.Mark(err, ErrDatabaseOperation)
			}

			excludeID := entity.ID()
			conflicts, err := tx.Reads().OverlappingBookings(ctx, vehicleID, iv, &excludeID)
			if err != nil {
				return errs.Mark(err, ErrDatabaseOperation)
			}
			if len(conflicts) > 0 {
				return &ConflictError{Conflicts: conflicts}
			}

			price, err := booking.PriceCents(iv, vehicle.HourlyRateCents)
			if err != nil {
				return errs.Mark(err, ErrDomainValidation)
			}
			entity.Reprice(price)
		}

		if targetStatus != nil {
			if err := c.applyStatus(entity, *targetStatus); err != nil {
				return err
			}
			if gate, ok := statusPatchOps[*targetStatus]; ok {
				topic = gate.topic
			}
		}

		if err := tx.Bookings().Update(ctx, entity); err != nil {
			if infra.IsKind(err, infra.KindConflict) {
				return &ConflictError{}
			}
			return errs.Mark(err, ErrDatabaseOperation)
		}

		c.enqueueNotification(ctx, tx, topic, id)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return c.bookingQueries.GetByIDSystem(ctx, id)
}

func (c *bookingCommandsImpl) applyStatus(entity *booking.Booking, target booking.Status) error {
	var err error
	switch target {
	case booking.StatusCanceled:
		err = entity.Cancel()
	case booking.StatusConfirmed:
		err = entity.Confirm()
	case booking.StatusCompleted:
		if c.clock.Now().Before(entity.Interval().End()) {
			return ErrBookingNotFinished
		}
		err = entity.Complete()
	default:
		err = booking.ErrInvalidTransition
	}
	if err != nil {
		if errors.Is(err, booking.ErrInvalidTransition) {
			return ErrInvalidStateTransition
		}
		return err
	}
	return nil
}

func (c *bookingCommandsImpl) Cancel(ctx context.Context, actor user.Actor, id uuid.UUID) error {
	return c.transition(ctx, actor, id, booking.OpCancel, "booking_canceled", func(b *booking.Booking) error {
		return b.Cancel()
	})
}

func (c *bookingCommandsImpl) Confirm(ctx context.Context, actor user.Actor, id uuid.UUID) error {
	return c.transition(ctx, actor, id, booking.OpConfirm, "booking_confirmed", func(b *booking.Booking) error {
		return b.Confirm()
	})
}

func (c *bookingCommandsImpl) Complete(ctx context.Context, actor user.Actor, id uuid.UUID) error {
	return c.transition(ctx, actor, id, booking.OpComplete, "booking_completed", func(b *booking.Booking) error {
		if c.clock.Now().Before(b.Interval().End()) {
			return ErrBookingNotFinished
		}
		return b.Complete()
	})
}

// transition applies one state-machine step under a row lock so direct API
// transitions and webhook-driven ones serialize on the same booking.
func (c *bookingCommandsImpl) transition(
	ctx context.Context,
	actor user.Actor,
	id uuid.UUID,
	op booking.Operation,
	topic string,
	apply func(b *booking.Booking) error,
) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		entity, err := tx.Bookings().FindByIDForUpdate(ctx, id)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrBookingNotFound
			}
			return errs.Mark(err, ErrDatabaseOperation)
		}

		if !booking.Allows(actor.Role, op, actor.Owns(entity.RenterID())) {
			return ErrForbidden
		}

		if err := apply(entity); err != nil {
			if errors.Is(err, booking.ErrInvalidTransition) {
				return ErrInvalidStateTransition
			}
			return err
		}

		if err := tx.Bookings().Update(ctx, entity); err != nil {
			return errs.Mark(err, ErrDatabaseOperation)
		}

		c.enqueueNotification(ctx, tx, topic, id)
		return nil
	})
}

// enqueueNotification records an outbox job in the same transaction. A
// failed enqueue is logged and swallowed: notification delivery must never
// take a booking write down with it.
func (c *bookingCommandsImpl) enqueueNotification(ctx context.Context, tx shared.Tx, topic string, bookingID uuid.UUID) {
	payload, err := json.Marshal(map[string]any{
		"booking_id": bookingID,
		"type":       topic,
	})
	if err != nil {
		slog.Warn("failed to build notification payload", "topic", topic, "booking_id", bookingID)
		return
	}

	if err := tx.Notifications().CreateJob(ctx, "email", topic, payload, c.clock.Now()); err != nil {
		slog.Warn("failed to enqueue notification job", "topic", topic, "booking_id", bookingID, "error", err.Error())
	}
}
