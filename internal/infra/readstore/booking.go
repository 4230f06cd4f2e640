package readstore

import (
	"context"
	"time"

	"fleetbook/internal/infra"
	"fleetbook/internal/infra/db"
	"fleetbook/internal/pkg/pgconv"
	"fleetbook/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type BookingReadStore struct {
	db db.DBTX
}

func NewBookingReadStore(dbtx db.DBTX) *BookingReadStore {
	return &BookingReadStore{db: dbtx}
}

func (r *BookingReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.BookingView, error) {
	const q = `
		SELECT b.id, b.vehicle_id, v.name, b.renter_id, u.email,
		       b.starts_at, b.ends_at, b.status, b.price_cents, b.created_at, b.updated_at
		FROM bookings b
		JOIN vehicles v ON v.id = b.vehicle_id
		JOIN users u ON u.id = b.renter_id
		WHERE b.id = $1`

	var (
		view             queries.BookingView
		startsAt, endsAt pgtype.Timestamptz
		created, updated pgtype.Timestamptz
	)
	err := r.db.QueryRow(ctx, q, id).Scan(
		&view.ID, &view.VehicleID, &view.VehicleName, &view.RenterID, &view.RenterEmail,
		&startsAt, &endsAt, &view.Status, &view.PriceCents, &created, &updated,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking by ID", err)
	}

	view.StartsAt = pgconv.TimeFromPgtype(startsAt)
	view.EndsAt = pgconv.TimeFromPgtype(endsAt)
	view.CreatedAt = pgconv.TimeFromPgtype(created)
	view.UpdatedAt = pgconv.TimeFromPgtype(updated)
	return &view, nil
}

// FindPage returns bookings newest-first with (created_at, id) keyset
// pagination. A nil afterCreatedAt means the first page.
func (r *BookingReadStore) FindPage(
	ctx context.Context,
	filter queries.BookingFilter,
	afterCreatedAt *time.Time,
	afterID *uuid.UUID,
	limit int32,
) ([]*queries.BookingListItem, error) {
	const q = `
		SELECT b.id, b.vehicle_id, v.name, b.renter_id,
		       b.starts_at, b.ends_at, b.status, b.price_cents, b.created_at
		FROM bookings b
		JOIN vehicles v ON v.id = b.vehicle_id
		WHERE ($1::uuid IS NULL OR b.renter_id = $1)
		  AND ($2::uuid IS NULL OR b.vehicle_id = $2)
		  AND ($3::text IS NULL OR b.status = $3)
		  AND ($4::timestamptz IS NULL OR (b.created_at, b.id) < ($4, $5))
		ORDER BY b.created_at DESC, b.id DESC
		LIMIT $6`

	var afterTime pgtype.Timestamptz
	if afterCreatedAt != nil {
		afterTime = pgconv.TimeToPgtype(*afterCreatedAt)
	}

	rows, err := r.db.Query(ctx, q,
		pgconv.UUIDPtrToPgtype(filter.RenterID),
		pgconv.UUIDPtrToPgtype(filter.VehicleID),
		pgconv.StringPtrToPgtype(filter.Status),
		afterTime,
		pgconv.UUIDPtrToPgtype(afterID),
		limit,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list bookings", err)
	}
	defer rows.Close()

	items, err := scanListItems(rows)
	if err != nil {
		return nil, err
	}
	return items, nil
}

func scanListItems(rows pgx.Rows) ([]*queries.BookingListItem, error) {
	var items []*queries.BookingListItem
	for rows.Next() {
		var (
			item             queries.BookingListItem
			startsAt, endsAt pgtype.Timestamptz
			created          pgtype.Timestamptz
		)
		err := rows.Scan(
			&item.ID, &item.VehicleID, &item.VehicleName, &item.RenterID,
			&startsAt, &endsAt, &item.Status, &item.PriceCents, &created,
		)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking row", err)
		}
		item.StartsAt = pgconv.TimeFromPgtype(startsAt)
		item.EndsAt = pgconv.TimeFromPgtype(endsAt)
		item.CreatedAt = pgconv.TimeFromPgtype(created)
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read booking rows", err)
	}
	return items, nil
}
