//go:build unit || e2e

package builder

import (
	"fleetbook/internal/usecase/queries"
	"fleetbook/internal/usecase/shared"

	"github.com/google/uuid"
)

type VehicleBuilder struct {
	ID              uuid.UUID
	Name            string
	HourlyRateCents int64
}

func NewVehicleBuilder() *VehicleBuilder {
	return &VehicleBuilder{
		ID:              uuid.New(),
		Name:            "Test Van",
		HourlyRateCents: 2500,
	}
}

func (v *VehicleBuilder) With(mutate func(*VehicleBuilder)) *VehicleBuilder {
	mutate(v)
	return v
}

func (v *VehicleBuilder) BuildSnapshot() *shared.VehicleSnapshot {
	return &shared.VehicleSnapshot{
		ID:              v.ID,
		Name:            v.Name,
		HourlyRateCents: v.HourlyRateCents,
	}
}

func (v *VehicleBuilder) BuildView() *queries.VehicleView {
	return &queries.VehicleView{
		ID:              v.ID,
		Name:            v.Name,
		HourlyRateCents: v.HourlyRateCents,
	}
}

// Fluent builder methods
func (v *VehicleBuilder) WithID(id uuid.UUID) *VehicleBuilder {
	v.ID = id
	return v
}

func (v *VehicleBuilder) WithName(name string) *VehicleBuilder {
	v.Name = name
	return v
}

func (v *VehicleBuilder) WithHourlyRateCents(cents int64) *VehicleBuilder {
	v.HourlyRateCents = cents
	return v
}
