package repository

import (
	"context"

	"fleetbook/internal/infra"
	"fleetbook/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type PaymentRepository struct {
	db db.DBTX
}

func NewPaymentRepository(dbtx db.DBTX) *PaymentRepository {
	return &PaymentRepository{db: dbtx}
}

// CreateIntent records the provider's transaction ref against a booking at
// payment-intent creation time. transaction_ref is unique: replays of the
// same intent event surface as KindDuplicateKey.
func (r *PaymentRepository) CreateIntent(ctx context.Context, bookingID uuid.UUID, transactionRef string, amountCents int64) error {
	const q = `
		INSERT INTO payments (id, booking_id, transaction_ref, amount_cents, status)
		VALUES ($1, $2, $3, $4, 'pending')`

	_, err := r.db.Exec(ctx, q, uuid.New(), bookingID, transactionRef, amountCents)
	if err != nil {
		return wrapBookingWriteErr("failed to create payment intent", err)
	}

	return nil
}

func (r *PaymentRepository) UpdateStatusByRef(ctx context.Context, transactionRef, status string) error {
	const q = `
		UPDATE payments
		SET status = $2, updated_at = now()
		WHERE transaction_ref = $1`

	tag, err := r.db.Exec(ctx, q, transactionRef, status)
	if err != nil {
		return infra.WrapRepoErr("failed to update payment status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("payment not found", pgx.ErrNoRows, infra.KindNotFound)
	}

	return nil
}
