package repository

import (
	"context"

	"fleetbook/internal/infra"
	"fleetbook/internal/infra/db"
	"fleetbook/internal/pkg/pgconv"
	"fleetbook/internal/usecase/shared"

	"github.com/google/uuid"
)

type VehicleRepository struct {
	db db.DBTX
}

func NewVehicleRepository(dbtx db.DBTX) *VehicleRepository {
	return &VehicleRepository{db: dbtx}
}

func (r *VehicleRepository) FindByID(ctx context.Context, id uuid.UUID) (*shared.VehicleSnapshot, error) {
	const q = `
		SELECT id, name, hourly_rate_cents
		FROM vehicles
		WHERE id = $1`

	var snap shared.VehicleSnapshot
	err := r.db.QueryRow(ctx, q, id).Scan(&snap.ID, &snap.Name, &snap.HourlyRateCents)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("vehicle not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find vehicle by ID", err)
	}

	return &snap, nil
}
