package commands

import (
	"context"
	"encoding/json"
	"log/slog"

	"fleetbook/internal/domain/booking"
	reqdto "fleetbook/internal/handler/dto/request"
	"fleetbook/internal/infra"
	"fleetbook/internal/pkg/clock"
	"fleetbook/internal/pkg/errs"
	"fleetbook/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrPaymentNotFound   = errs.New("payment not found")
	ErrMissingBookingRef = errs.New("event metadata missing booking reference")
)

const (
	eventPaymentIntentCreated = "payment_intent.created"
	eventPaymentSucceeded     = "payment.succeeded"
	eventPaymentFailed        = "payment.failed"
	eventRefundCreated        = "refund.created"
)

type PaymentCommands interface {
	HandleEvent(ctx context.Context, req reqdto.PaymentWebhookRequest) error
}

type paymentCommandsImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewPaymentCommands(uow shared.UnitOfWork, clk clock.Clock) PaymentCommands {
	return &paymentCommandsImpl{uow: uow, clock: clk}
}

// HandleEvent routes one provider event. Unknown event types are logged and
// acknowledged: the provider retries on non-2xx, and retrying an event we
// will never handle is pure noise.
func (p *paymentCommandsImpl) HandleEvent(ctx context.Context, req reqdto.PaymentWebhookRequest) error {
	switch req.Type {
	case eventPaymentIntentCreated:
		return p.handleIntentCreated(ctx, req.Data)
	case eventPaymentSucceeded:
		return p.handleSucceeded(ctx, req.Data)
	case eventPaymentFailed:
		return p.handleFailed(ctx, req.Data)
	case eventRefundCreated:
		return p.handleRefundCreated(ctx, req.Data)
	default:
		slog.Info("ignoring unhandled payment event", "type", req.Type, "event_id", req.EventID)
		return nil
	}
}

// handleIntentCreated links a provider transaction to a booking. Duplicate
// deliveries hit the unique transaction_ref and are treated as success.
func (p *paymentCommandsImpl) handleIntentCreated(ctx context.Context, data reqdto.PaymentEventData) error {
	rawID, ok := data.BookingID()
	if !ok {
		return ErrMissingBookingRef
	}
	bookingID, err := uuid.Parse(rawID)
	if err != nil {
		return errs.Mark(err, ErrMissingBookingRef)
	}

	return p.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if _, err := tx.Reads().BookingByID(ctx, bookingID); err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrBookingNotFound
			}
			return errs.Mark(err, ErrDatabaseOperation)
		}

		err := tx.Payments().CreateIntent(ctx, bookingID, data.TransactionRef, data.AmountCents)
		if err != nil {
			if infra.IsKind(err, infra.KindDuplicateKey) {
				slog.Info("payment intent already recorded", "transaction_ref", data.TransactionRef)
				return nil
			}
			return errs.Mark(err, ErrDatabaseOperation)
		}
		return nil
	})
}

// handleSucceeded confirms the linked booking. The booking row lock makes
// redelivered events and racing staff actions serialize; a booking that is
// already CONFIRMED makes the event a no-op success.
func (p *paymentCommandsImpl) handleSucceeded(ctx context.Context, data reqdto.PaymentEventData) error {
	return p.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		entity, err := tx.Bookings().FindByTransactionRefForUpdate(ctx, data.TransactionRef)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrPaymentNotFound
			}
			return errs.Mark(err, ErrDatabaseOperation)
		}

		if err := tx.Payments().UpdateStatusByRef(ctx, data.TransactionRef, shared.PaymentStatusSucceeded); err != nil {
			return errs.Mark(err, ErrDatabaseOperation)
		}

		if entity.Status() == booking.StatusConfirmed {
			slog.Info("booking already confirmed, treating event as replay",
				"booking_id", entity.ID(), "transaction_ref", data.TransactionRef)
			return nil
		}

		if err := entity.Confirm(); err != nil {
			// Payment landed on a canceled or completed booking; that needs
			// a human, not a retry loop. Acknowledge the event so the
			// provider stops redelivering, keep the recorded payment status,
			// and leave the booking for staff to resolve.
			slog.Error("payment succeeded for non-confirmable booking",
				"booking_id", entity.ID(), "status", entity.Status().String(),
				"transaction_ref", data.TransactionRef)
			return nil
		}

		if err := tx.Bookings().Update(ctx, entity); err != nil {
			return errs.Mark(err, ErrDatabaseOperation)
		}

		p.enqueueNotification(ctx, tx, "booking_confirmed", entity.ID())
		return nil
	})
}

// handleFailed marks the payment failed. The booking stays PENDING so the
// renter can retry payment; expiry of stale pending bookings is a separate
// concern.
func (p *paymentCommandsImpl) handleFailed(ctx context.Context, data reqdto.PaymentEventData) error {
	return p.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		err := tx.Payments().UpdateStatusByRef(ctx, data.TransactionRef, shared.PaymentStatusFailed)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrPaymentNotFound
			}
			return errs.Mark(err, ErrDatabaseOperation)
		}
		return nil
	})
}

// handleRefundCreated records the refund without touching the booking:
// refunds do not cancel bookings, they only flag them for staff review.
func (p *paymentCommandsImpl) handleRefundCreated(ctx context.Context, data reqdto.PaymentEventData) error {
	return p.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		err := tx.Payments().UpdateStatusByRef(ctx, data.TransactionRef, shared.PaymentStatusRefunded)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrPaymentNotFound
			}
			return errs.Mark(err, ErrDatabaseOperation)
		}

		slog.Warn("refund recorded, booking left untouched for staff review",
			"transaction_ref", data.TransactionRef)
		return nil
	})
}

func (p *paymentCommandsImpl) enqueueNotification(ctx context.Context, tx shared.Tx, topic string, bookingID uuid.UUID) {
	payload, err := json.Marshal(map[string]any{
		"booking_id": bookingID,
		"type":       topic,
	})
	if err != nil {
		slog.Warn("failed to build notification payload", "topic", topic, "booking_id", bookingID)
		return
	}

	if err := tx.Notifications().CreateJob(ctx, "email", topic, payload, p.clock.Now()); err != nil {
		slog.Warn("failed to enqueue notification job", "topic", topic, "booking_id", bookingID, "error", err.Error())
	}
}
