package vehicle

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrEmptyVehicleName = errors.New("vehicle name cannot be empty")
	ErrNegativeRate     = errors.New("hourly rate cannot be negative")
)

// Vehicle is a read-only snapshot of the fleet catalog. The booking core
// never mutates vehicles; it only needs the hourly rate for pricing.
type Vehicle struct {
	id              uuid.UUID
	name            string
	hourlyRateCents int64
}

func NewVehicle(id uuid.UUID, name string, hourlyRateCents int64) (*Vehicle, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyVehicleName
	}
	if hourlyRateCents < 0 {
		return nil, ErrNegativeRate
	}
	return &Vehicle{
		id:              id,
		name:            name,
		hourlyRateCents: hourlyRateCents,
	}, nil
}

func (v *Vehicle) ID() uuid.UUID          { return v.id }
func (v *Vehicle) Name() string           { return v.name }
func (v *Vehicle) HourlyRateCents() int64 { return v.hourlyRateCents }
