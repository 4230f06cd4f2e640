package repository

import (
	"context"
	"errors"

	"fleetbook/internal/domain/booking"
	"fleetbook/internal/infra"
	"fleetbook/internal/infra/db"
	"fleetbook/internal/pkg/pgconv"
	"fleetbook/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

const (
	pgErrCodeUniqueViolation    = "23505"
	pgErrCodeForeignKeyViolated = "23503"
	pgErrCodeExclusionViolation = "23P01"
)

type BookingRepository struct {
	db db.DBTX
}

func NewBookingRepository(dbtx db.DBTX) *BookingRepository {
	return &BookingRepository{db: dbtx}
}

func (r *BookingRepository) Create(ctx context.Context, b *booking.Booking) (uuid.UUID, error) {
	const q = `
		INSERT INTO bookings (id, renter_id, vehicle_id, starts_at, ends_at, price_cents, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	var id uuid.UUID
	err := r.db.QueryRow(ctx, q,
		b.ID(), b.RenterID(), b.VehicleID(),
		b.Interval().Start(), b.Interval().End(),
		b.Price().Cents(), b.Status().String(),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, wrapBookingWriteErr("failed to create booking", err)
	}

	return id, nil
}

func (r *BookingRepository) Update(ctx context.Context, b *booking.Booking) error {
	const q = `
		UPDATE bookings
		SET vehicle_id = $2, starts_at = $3, ends_at = $4, price_cents = $5, status = $6, updated_at = now()
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, q,
		b.ID(), b.VehicleID(),
		b.Interval().Start(), b.Interval().End(),
		b.Price().Cents(), b.Status().String(),
	)
	if err != nil {
		return wrapBookingWriteErr("failed to update booking", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("booking not found", pgx.ErrNoRows, infra.KindNotFound)
	}

	return nil
}

func (r *BookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	const q = `
		SELECT id, renter_id, vehicle_id, starts_at, ends_at, price_cents, status, created_at, updated_at
		FROM bookings
		WHERE id = $1`

	return r.scanBooking(r.db.QueryRow(ctx, q, id))
}

func (r *BookingRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	const q = `
		SELECT id, renter_id, vehicle_id, starts_at, ends_at, price_cents, status, created_at, updated_at
		FROM bookings
		WHERE id = $1
		FOR UPDATE`

	return r.scanBooking(r.db.QueryRow(ctx, q, id))
}

func (r *BookingRepository) FindByTransactionRefForUpdate(ctx context.Context, transactionRef string) (*booking.Booking, error) {
	const q = `
		SELECT b.id, b.renter_id, b.vehicle_id, b.starts_at, b.ends_at, b.price_cents, b.status, b.created_at, b.updated_at
		FROM bookings b
		JOIN payments p ON p.booking_id = b.id
		WHERE p.transaction_ref = $1
		FOR UPDATE OF b`

	return r.scanBooking(r.db.QueryRow(ctx, q, transactionRef))
}

func (r *BookingRepository) FindOverlapping(ctx context.Context, vehicleID uuid.UUID, iv booking.Interval, excludeID *uuid.UUID) ([]shared.BookingConflict, error) {
	const q = `
		SELECT id, starts_at, ends_at, status
		FROM bookings
		WHERE vehicle_id = $1
		  AND status IN ('pending', 'confirmed')
		  AND starts_at <= $3
		  AND ends_at >= $2
		  AND ($4::uuid IS NULL OR id <> $4)
		ORDER BY starts_at`

	rows, err := r.db.Query(ctx, q, vehicleID, iv.Start(), iv.End(), pgconv.UUIDPtrToPgtype(excludeID))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to scan overlapping bookings", err)
	}
	defer rows.Close()

	var conflicts []shared.BookingConflict
	for rows.Next() {
		var c shared.BookingConflict
		if err := rows.Scan(&c.ID, &c.StartsAt, &c.EndsAt, &c.Status); err != nil {
			return nil, infra.WrapRepoErr("failed to scan conflict row", err)
		}
		conflicts = append(conflicts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read conflict rows", err)
	}

	return conflicts, nil
}

func (r *BookingRepository) scanBooking(row pgx.Row) (*booking.Booking, error) {
	var (
		id, renterID, vehicleID uuid.UUID
		startsAt, endsAt        pgtype.Timestamptz
		priceCents              int64
		status                  string
		createdAt, updatedAt    pgtype.Timestamptz
	)

	err := row.Scan(&id, &renterID, &vehicleID, &startsAt, &endsAt, &priceCents, &status, &createdAt, &updatedAt)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to scan booking", err)
	}

	iv, err := booking.NewInterval(startsAt.Time, endsAt.Time)
	if err != nil {
		return nil, infra.WrapRepoErr("stored booking has invalid interval", err)
	}
	price, err := booking.NewMoney(priceCents)
	if err != nil {
		return nil, infra.WrapRepoErr("stored booking has invalid price", err)
	}
	st, err := booking.NewStatus(status)
	if err != nil {
		return nil, infra.WrapRepoErr("stored booking has invalid status", err)
	}

	return booking.ReconstructBooking(id, renterID, vehicleID, iv, price, st, createdAt.Time, updatedAt.Time), nil
}

func wrapBookingWriteErr(msg string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgErrCodeExclusionViolation:
			return infra.WrapRepoErr(msg, err, infra.KindConflict)
		case pgErrCodeUniqueViolation:
			return infra.WrapRepoErr(msg, err, infra.KindDuplicateKey)
		case pgErrCodeForeignKeyViolated:
			return infra.WrapRepoErr(msg, err, infra.KindForeignKeyViolated)
		}
	}
	return infra.WrapRepoErr(msg, err)
}
