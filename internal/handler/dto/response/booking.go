package response

import (
	"time"

	"fleetbook/internal/usecase/queries"
	"fleetbook/internal/usecase/shared"

	"github.com/google/uuid"
)

type BookingResponse struct {
	ID          uuid.UUID `json:"id"`
	VehicleID   uuid.UUID `json:"vehicleId"`
	VehicleName string    `json:"vehicleName"`
	RenterID    uuid.UUID `json:"renterId"`
	RenterEmail string    `json:"renterEmail"`
	StartsAt    time.Time `json:"startsAt"`
	EndsAt      time.Time `json:"endsAt"`
	Status      string    `json:"status"`
	PriceCents  int64     `json:"priceCents"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type BookingListItemResponse struct {
	ID          uuid.UUID `json:"id"`
	VehicleID   uuid.UUID `json:"vehicleId"`
	VehicleName string    `json:"vehicleName"`
	RenterID    uuid.UUID `json:"renterId"`
	StartsAt    time.Time `json:"startsAt"`
	EndsAt      time.Time `json:"endsAt"`
	Status      string    `json:"status"`
	PriceCents  int64     `json:"priceCents"`
	CreatedAt   time.Time `json:"createdAt"`
}

type BookingListResponse struct {
	Items      []*BookingListItemResponse `json:"items"`
	NextCursor *string                    `json:"nextCursor,omitempty"`
}

type ConflictResponse struct {
	ID       uuid.UUID `json:"id"`
	StartsAt time.Time `json:"startsAt"`
	EndsAt   time.Time `json:"endsAt"`
	Status   string    `json:"status"`
}

type AvailabilityResponse struct {
	Available bool               `json:"available"`
	Conflicts []ConflictResponse `json:"conflicts"`
}

func FromBookingView(rm *queries.BookingView) *BookingResponse {
	return &BookingResponse{
		ID:          rm.ID,
		VehicleID:   rm.VehicleID,
		VehicleName: rm.VehicleName,
		RenterID:    rm.RenterID,
		RenterEmail: rm.RenterEmail,
		StartsAt:    rm.StartsAt,
		EndsAt:      rm.EndsAt,
		Status:      rm.Status,
		PriceCents:  rm.PriceCents,
		CreatedAt:   rm.CreatedAt,
		UpdatedAt:   rm.UpdatedAt,
	}
}

func FromBookingListItem(rm *queries.BookingListItem) *BookingListItemResponse {
	return &BookingListItemResponse{
		ID:          rm.ID,
		VehicleID:   rm.VehicleID,
		VehicleName: rm.VehicleName,
		RenterID:    rm.RenterID,
		StartsAt:    rm.StartsAt,
		EndsAt:      rm.EndsAt,
		Status:      rm.Status,
		PriceCents:  rm.PriceCents,
		CreatedAt:   rm.CreatedAt,
	}
}

func FromBookingList(items []*queries.BookingListItem, next *queries.Cursor) *BookingListResponse {
	resp := &BookingListResponse{
		Items: make([]*BookingListItemResponse, len(items)),
	}
	for i, item := range items {
		resp.Items[i] = FromBookingListItem(item)
	}
	if next != nil {
		resp.NextCursor = &next.After
	}
	return resp
}

func FromConflicts(conflicts []shared.BookingConflict) []ConflictResponse {
	out := make([]ConflictResponse, len(conflicts))
	for i, c := range conflicts {
		out[i] = ConflictResponse{
			ID:       c.ID,
			StartsAt: c.StartsAt,
			EndsAt:   c.EndsAt,
			Status:   c.Status,
		}
	}
	return out
}

func FromAvailability(result *queries.AvailabilityResult) *AvailabilityResponse {
	return &AvailabilityResponse{
		Available: result.Available,
		Conflicts: FromConflicts(result.Conflicts),
	}
}
