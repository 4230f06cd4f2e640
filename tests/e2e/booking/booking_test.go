//go:build e2e

package booking_test

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	nethttptest "net/http/httptest"
	"sync"
	"testing"
	"time"

	"fleetbook/internal/domain/user"
	"fleetbook/internal/handler/dto/request"
	"fleetbook/internal/handler/dto/response"
	"fleetbook/tests/common/authtest"
	"fleetbook/tests/common/builder"
	"fleetbook/tests/common/dbtest"
	"fleetbook/tests/common/httptest"
	"fleetbook/tests/e2e"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	bookingsURL     = "/api/bookings"
	availabilityURL = "/api/vehicles/%s/availability?from=%s&to=%s"
	webhookURL      = "/api/webhooks/payment"
)

type BookingSuite struct {
	e2e.SharedSuite
}

func TestBookingSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(BookingSuite))
}

func (s *BookingSuite) createBooking(t *testing.T, token string, vehicleID uuid.UUID, startsAt, endsAt time.Time) *response.BookingResponse {
	t.Helper()

	reqBody := request.CreateBookingRequest{
		VehicleID: vehicleID,
		StartsAt:  startsAt,
		EndsAt:    endsAt,
	}
	w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL, reqBody, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created response.BookingResponse
	require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &created))
	require.NotEqual(t, uuid.Nil, created.ID)
	return &created
}

func (s *BookingSuite) signWebhook(body []byte) string {
	mac := hmac.New(sha256.New, []byte(s.Config.Webhook.PaymentSecret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func (s *BookingSuite) sendWebhook(t *testing.T, eventType, transactionRef string, amountCents int64, bookingID *uuid.UUID) *nethttptest.ResponseRecorder {
	t.Helper()

	data := map[string]any{
		"transaction_ref": transactionRef,
		"amount_cents":    amountCents,
	}
	if bookingID != nil {
		data["metadata"] = map[string]string{"booking_id": bookingID.String()}
	}
	body, err := json.Marshal(map[string]any{
		"event_id": uuid.New().String(),
		"type":     eventType,
		"data":     data,
	})
	require.NoError(t, err)

	return httptest.PerformSignedRequest(t, s.Router, http.MethodPost, webhookURL, body, s.signWebhook(body))
}

// =============================================================================
// TestCreateBooking - Booking creation API tests
// =============================================================================

func (s *BookingSuite) TestCreateBooking() {
	s.Run("Normal case: Customer can create a booking and price is derived from the rate", func() {
		t := s.T()

		dbtest.CreateTestUser(t, s.DB, "renter@example.com", string(user.RoleCustomer))
		vehicleID := dbtest.CreateTestVehicle(t, s.DB, "Cargo Van", 2500)
		token := authtest.LoginUser(t, s.Router, "renter@example.com", "password123")

		startsAt := time.Now().Add(24 * time.Hour).Truncate(time.Second)
		created := s.createBooking(t, token, vehicleID, startsAt, startsAt.Add(2*time.Hour))

		expected := &response.BookingResponse{
			VehicleID:   vehicleID,
			VehicleName: "Cargo Van",
			RenterEmail: "renter@example.com",
			Status:      "pending",
			PriceCents:  5000, // 2h * 2500
		}

		opts := []cmp.Option{
			cmpopts.IgnoreFields(response.BookingResponse{}, "ID", "RenterID", "StartsAt", "EndsAt", "CreatedAt", "UpdatedAt"),
		}
		if diff := cmp.Diff(expected, created, opts...); diff != "" {
			t.Errorf("Booking response mismatch (-want +got):\n%s", diff)
		}
	})

	s.Run("Normal case: Partial hours are billed as a full hour", func() {
		t := s.T()

		dbtest.CreateTestUser(t, s.DB, "renter@example.com", string(user.RoleCustomer))
		vehicleID := dbtest.CreateTestVehicle(t, s.DB, "Cargo Van", 2000)
		token := authtest.LoginUser(t, s.Router, "renter@example.com", "password123")

		startsAt := time.Now().Add(24 * time.Hour).Truncate(time.Second)
		created := s.createBooking(t, token, vehicleID, startsAt, startsAt.Add(90*time.Minute))
		require.Equal(t, int64(4000), created.PriceCents, "1.5h should bill as 2 full hours")
	})

	s.Run("Error case: Overlapping interval is rejected with the blocking bookings", func() {
		t := s.T()

		dbtest.CreateTestUser(t, s.DB, "first@example.com", string(user.RoleCustomer))
		dbtest.CreateTestUser(t, s.DB, "second@example.com", string(user.RoleCustomer))
		vehicleID := dbtest.CreateTestVehicle(t, s.DB, "Cargo Van", 2500)

		firstToken := authtest.LoginUser(t, s.Router, "first@example.com", "password123")
		secondToken := authtest.LoginUser(t, s.Router, "second@example.com", "password123")

		startsAt := time.Now().Add(24 * time.Hour).Truncate(time.Second)
		existing := s.createBooking(t, firstToken, vehicleID, startsAt, startsAt.Add(2*time.Hour))

		reqBody := request.CreateBookingRequest{
			VehicleID: vehicleID,
			StartsAt:  startsAt.Add(time.Hour),
			EndsAt:    startsAt.Add(3 * time.Hour),
		}
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL, reqBody, secondToken)
		require.Equal(t, http.StatusConflict, w.Code, w.Body.String())

		var body struct {
			Error     string                      `json:"error"`
			Conflicts []response.ConflictResponse `json:"conflicts"`
		}
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &body))
		require.Len(t, body.Conflicts, 1)
		require.Equal(t, existing.ID, body.Conflicts[0].ID)
	})

	s.Run("Error case: Shared boundary instant conflicts", func() {
		t := s.T()

		dbtest.CreateTestUser(t, s.DB, "renter@example.com", string(user.RoleCustomer))
		vehicleID := dbtest.CreateTestVehicle(t, s.DB, "Cargo Van", 2500)
		token := authtest.LoginUser(t, s.Router, "renter@example.com", "password123")

		startsAt := time.Now().Add(24 * time.Hour).Truncate(time.Second)
		s.createBooking(t, token, vehicleID, startsAt, startsAt.Add(2*time.Hour))

		// New booking starting exactly when the previous one ends
		reqBody := request.CreateBookingRequest{
			VehicleID: vehicleID,
			StartsAt:  startsAt.Add(2 * time.Hour),
			EndsAt:    startsAt.Add(4 * time.Hour),
		}
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL, reqBody, token)
		require.Equal(t, http.StatusConflict, w.Code, "touching boundaries should conflict")
	})

	s.Run("Normal case: Disjoint interval on the same vehicle succeeds", func() {
		t := s.T()

		dbtest.CreateTestUser(t, s.DB, "renter@example.com", string(user.RoleCustomer))
		vehicleID := dbtest.CreateTestVehicle(t, s.DB, "Cargo Van", 2500)
		token := authtest.LoginUser(t, s.Router, "renter@example.com", "password123")

		startsAt := time.Now().Add(24 * time.Hour).Truncate(time.Second)
		s.createBooking(t, token, vehicleID, startsAt, startsAt.Add(2*time.Hour))
		s.createBooking(t, token, vehicleID, startsAt.Add(2*time.Hour+time.Second), startsAt.Add(4*time.Hour))
	})

	s.Run("Error case: Canceled bookings do not block the window", func() {
		t := s.T()

		dbtest.CreateTestUser(t, s.DB, "renter@example.com", string(user.RoleCustomer))
		vehicleID := dbtest.CreateTestVehicle(t, s.DB, "Cargo Van", 2500)
		token := authtest.LoginUser(t, s.Router, "renter@example.com", "password123")

		startsAt := time.Now().Add(24 * time.Hour).Truncate(time.Second)
		existing := s.createBooking(t, token, vehicleID, startsAt, startsAt.Add(2*time.Hour))

		w := httptest.PerformRequest(t, s.Router, http.MethodPost,
			bookingsURL+"/"+existing.ID.String()+"/cancel", nil, token)
		require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

		s.createBooking(t, token, vehicleID, startsAt, startsAt.Add(2*time.Hour))
	})

	s.Run("Concurrency: exactly one of simultaneous identical creates wins", func() {
		t := s.T()

		dbtest.CreateTestUser(t, s.DB, "renter@example.com", string(user.RoleCustomer))
		vehicleID := dbtest.CreateTestVehicle(t, s.DB, "Cargo Van", 2500)
		token := authtest.LoginUser(t, s.Router, "renter@example.com", "password123")

		startsAt := time.Now().Add(24 * time.Hour).Truncate(time.Second)
		body, err := json.Marshal(request.CreateBookingRequest{
			VehicleID: vehicleID,
			StartsAt:  startsAt,
			EndsAt:    startsAt.Add(2 * time.Hour),
		})
		require.NoError(t, err)

		// 同一区間への同時作成リクエストを一斉に発射する
		const attempts = 8
		codes := make(chan int, attempts)
		var release sync.WaitGroup
		release.Add(1)
		var wg sync.WaitGroup
		for range attempts {
			wg.Add(1)
			go func() {
				defer wg.Done()
				release.Wait()

				req := nethttptest.NewRequest(http.MethodPost, bookingsURL, bytes.NewReader(body))
				req.Header.Set("Content-Type", "application/json")
				req.Header.Set("Authorization", "Bearer "+token)
				w := nethttptest.NewRecorder()
				s.Router.ServeHTTP(w, req)
				codes <- w.Code
			}()
		}
		release.Done()
		wg.Wait()
		close(codes)

		created, conflicted := 0, 0
		for code := range codes {
			switch code {
			case http.StatusCreated:
				created++
			case http.StatusConflict:
				conflicted++
			default:
				t.Errorf("unexpected status %d from concurrent create", code)
			}
		}
		require.Equal(t, 1, created, "exactly one create must win")
		require.Equal(t, attempts-1, conflicted, "all losers must see a conflict")

		var active int
		err = s.DB.QueryRow(t.Context(),
			"SELECT count(*) FROM bookings WHERE vehicle_id = $1 AND status IN ('pending','confirmed')",
			vehicleID).Scan(&active)
		require.NoError(t, err)
		require.Equal(t, 1, active, "only one active booking may exist for the window")
	})

	s.Run("Error case: Unknown vehicle returns 404", func() {
		t := s.T()

		dbtest.CreateTestUser(t, s.DB, "renter@example.com", string(user.RoleCustomer))
		token := authtest.LoginUser(t, s.Router, "renter@example.com", "password123")

		reqBody := builder.NewBookingBuilder().WithVehicleID(uuid.New()).BuildCreateRequestDTO()
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL, reqBody, token)
		require.Equal(t, http.StatusNotFound, w.Code)
	})

	s.Run("Auth test - Unauthorized when not logged in", func() {
		t := s.T()

		reqBody := builder.NewBookingBuilder().BuildCreateRequestDTO()
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL, reqBody, "")
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

// =============================================================================
// TestBookingLifecycle - Webhook confirmation and state transitions
// =============================================================================

func (s *BookingSuite) TestBookingLifecycle() {
	s.Run("Normal case: Signed payment webhook confirms the booking", func() {
		t := s.T()

		dbtest.CreateTestUser(t, s.DB, "renter@example.com", string(user.RoleCustomer))
		vehicleID := dbtest.CreateTestVehicle(t, s.DB, "Cargo Van", 2500)
		token := authtest.LoginUser(t, s.Router, "renter@example.com", "password123")

		startsAt := time.Now().Add(24 * time.Hour).Truncate(time.Second)
		created := s.createBooking(t, token, vehicleID, startsAt, startsAt.Add(2*time.Hour))

		ref := "txn_" + created.ID.String()
		w := s.sendWebhook(t, "payment_intent.created", ref, created.PriceCents, &created.ID)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = s.sendWebhook(t, "payment.succeeded", ref, created.PriceCents, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		gw := httptest.PerformRequest(t, s.Router, http.MethodGet, bookingsURL+"/"+created.ID.String(), nil, token)
		require.Equal(t, http.StatusOK, gw.Code)
		var view response.BookingResponse
		require.NoError(t, httptest.DecodeResponseBody(t, gw.Body, &view))
		require.Equal(t, "confirmed", view.Status)
	})

	s.Run("Normal case: Replayed success event is acknowledged without side effects", func() {
		t := s.T()

		dbtest.CreateTestUser(t, s.DB, "renter@example.com", string(user.RoleCustomer))
		vehicleID := dbtest.CreateTestVehicle(t, s.DB, "Cargo Van", 2500)
		token := authtest.LoginUser(t, s.Router, "renter@example.com", "password123")

		startsAt := time.Now().Add(24 * time.Hour).Truncate(time.Second)
		created := s.createBooking(t, token, vehicleID, startsAt, startsAt.Add(2*time.Hour))

		ref := "txn_" + created.ID.String()
		require.Equal(t, http.StatusOK, s.sendWebhook(t, "payment_intent.created", ref, created.PriceCents, &created.ID).Code)
		require.Equal(t, http.StatusOK, s.sendWebhook(t, "payment.succeeded", ref, created.PriceCents, nil).Code)
		// 同一イベントの再送はべき等に処理される
		require.Equal(t, http.StatusOK, s.sendWebhook(t, "payment.succeeded", ref, created.PriceCents, nil).Code)

		gw := httptest.PerformRequest(t, s.Router, http.MethodGet, bookingsURL+"/"+created.ID.String(), nil, token)
		var view response.BookingResponse
		require.NoError(t, httptest.DecodeResponseBody(t, gw.Body, &view))
		require.Equal(t, "confirmed", view.Status)
	})

	s.Run("Error case: Unsigned webhook is rejected", func() {
		t := s.T()

		body := []byte(`{"event_id":"evt_1","type":"payment.succeeded","data":{"transaction_ref":"txn_x","amount_cents":1}}`)
		w := httptest.PerformSignedRequest(t, s.Router, http.MethodPost, webhookURL, body, "")
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})

	s.Run("Normal case: Staff can confirm and customer cannot", func() {
		t := s.T()

		dbtest.CreateTestUser(t, s.DB, "renter@example.com", string(user.RoleCustomer))
		vehicleID := dbtest.CreateTestVehicle(t, s.DB, "Cargo Van", 2500)
		customerToken := authtest.LoginUser(t, s.Router, "renter@example.com", "password123")
		staffToken := authtest.LoginUser(t, s.Router, "staff@example.com", "password123")

		startsAt := time.Now().Add(24 * time.Hour).Truncate(time.Second)
		created := s.createBooking(t, customerToken, vehicleID, startsAt, startsAt.Add(2*time.Hour))
		confirmURL := bookingsURL + "/" + created.ID.String() + "/confirm"

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, confirmURL, nil, customerToken)
		require.Equal(t, http.StatusForbidden, w.Code, "customers must not confirm bookings")

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, confirmURL, nil, staffToken)
		require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())
	})

	s.Run("Error case: Completing before the end time is rejected", func() {
		t := s.T()

		dbtest.CreateTestUser(t, s.DB, "renter@example.com", string(user.RoleCustomer))
		vehicleID := dbtest.CreateTestVehicle(t, s.DB, "Cargo Van", 2500)
		customerToken := authtest.LoginUser(t, s.Router, "renter@example.com", "password123")
		staffToken := authtest.LoginUser(t, s.Router, "staff@example.com", "password123")

		startsAt := time.Now().Add(24 * time.Hour).Truncate(time.Second)
		created := s.createBooking(t, customerToken, vehicleID, startsAt, startsAt.Add(2*time.Hour))

		confirmURL := bookingsURL + "/" + created.ID.String() + "/confirm"
		require.Equal(t, http.StatusNoContent,
			httptest.PerformRequest(t, s.Router, http.MethodPost, confirmURL, nil, staffToken).Code)

		completeURL := bookingsURL + "/" + created.ID.String() + "/complete"
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, completeURL, nil, staffToken)
		require.Equal(t, http.StatusConflict, w.Code, "booking end time is still in the future")
	})

	s.Run("Normal case: Renter cancels via a status-only patch", func() {
		t := s.T()

		dbtest.CreateTestUser(t, s.DB, "renter@example.com", string(user.RoleCustomer))
		vehicleID := dbtest.CreateTestVehicle(t, s.DB, "Cargo Van", 2500)
		token := authtest.LoginUser(t, s.Router, "renter@example.com", "password123")

		startsAt := time.Now().Add(24 * time.Hour).Truncate(time.Second)
		created := s.createBooking(t, token, vehicleID, startsAt, startsAt.Add(2*time.Hour))

		status := "canceled"
		patch := request.UpdateBookingRequest{Status: &status}
		w := httptest.PerformRequest(t, s.Router, http.MethodPatch,
			bookingsURL+"/"+created.ID.String(), patch, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var view response.BookingResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &view))
		require.Equal(t, "canceled", view.Status)

		// 日程変更を含むパッチは借主には許可されない
		newStart := startsAt.Add(6 * time.Hour)
		w = httptest.PerformRequest(t, s.Router, http.MethodPatch,
			bookingsURL+"/"+created.ID.String(),
			request.UpdateBookingRequest{StartsAt: &newStart}, token)
		require.Equal(t, http.StatusForbidden, w.Code)
	})

	s.Run("Error case: Cancel is terminal", func() {
		t := s.T()

		dbtest.CreateTestUser(t, s.DB, "renter@example.com", string(user.RoleCustomer))
		vehicleID := dbtest.CreateTestVehicle(t, s.DB, "Cargo Van", 2500)
		token := authtest.LoginUser(t, s.Router, "renter@example.com", "password123")
		staffToken := authtest.LoginUser(t, s.Router, "staff@example.com", "password123")

		startsAt := time.Now().Add(24 * time.Hour).Truncate(time.Second)
		created := s.createBooking(t, token, vehicleID, startsAt, startsAt.Add(2*time.Hour))

		cancelURL := bookingsURL + "/" + created.ID.String() + "/cancel"
		require.Equal(t, http.StatusNoContent,
			httptest.PerformRequest(t, s.Router, http.MethodPost, cancelURL, nil, token).Code)

		confirmURL := bookingsURL + "/" + created.ID.String() + "/confirm"
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, confirmURL, nil, staffToken)
		require.Equal(t, http.StatusConflict, w.Code, "canceled bookings cannot be confirmed")
	})
}

// =============================================================================
// TestListBookings - Role-scoped listing API tests
// =============================================================================

func (s *BookingSuite) TestListBookings() {
	s.Run("Normal case: Customers only see their own bookings", func() {
		t := s.T()

		dbtest.CreateTestUser(t, s.DB, "alice@example.com", string(user.RoleCustomer))
		dbtest.CreateTestUser(t, s.DB, "bob@example.com", string(user.RoleCustomer))
		vehicleID := dbtest.CreateTestVehicle(t, s.DB, "Cargo Van", 2500)

		aliceToken := authtest.LoginUser(t, s.Router, "alice@example.com", "password123")
		bobToken := authtest.LoginUser(t, s.Router, "bob@example.com", "password123")

		startsAt := time.Now().Add(24 * time.Hour).Truncate(time.Second)
		aliceBooking := s.createBooking(t, aliceToken, vehicleID, startsAt, startsAt.Add(time.Hour))
		s.createBooking(t, bobToken, vehicleID, startsAt.Add(2*time.Hour), startsAt.Add(3*time.Hour))

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, bookingsURL, nil, aliceToken)
		require.Equal(t, http.StatusOK, w.Code)

		var list response.BookingListResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &list))
		require.Len(t, list.Items, 1)
		require.Equal(t, aliceBooking.ID, list.Items[0].ID)
	})

	s.Run("Normal case: Staff see all bookings with cursor pagination", func() {
		t := s.T()

		dbtest.CreateTestUser(t, s.DB, "alice@example.com", string(user.RoleCustomer))
		vehicleID := dbtest.CreateTestVehicle(t, s.DB, "Cargo Van", 2500)

		aliceToken := authtest.LoginUser(t, s.Router, "alice@example.com", "password123")
		staffToken := authtest.LoginUser(t, s.Router, "staff@example.com", "password123")

		startsAt := time.Now().Add(24 * time.Hour).Truncate(time.Second)
		for i := range 3 {
			offset := time.Duration(i*2) * time.Hour
			s.createBooking(t, aliceToken, vehicleID, startsAt.Add(offset), startsAt.Add(offset+time.Hour))
		}

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, bookingsURL+"?limit=2", nil, staffToken)
		require.Equal(t, http.StatusOK, w.Code)

		var page1 response.BookingListResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &page1))
		require.Len(t, page1.Items, 2)
		require.NotNil(t, page1.NextCursor)

		w = httptest.PerformRequest(t, s.Router, http.MethodGet,
			bookingsURL+"?limit=2&after="+*page1.NextCursor, nil, staffToken)
		require.Equal(t, http.StatusOK, w.Code)

		var page2 response.BookingListResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &page2))
		require.Len(t, page2.Items, 1)
		require.Nil(t, page2.NextCursor)

		seen := map[uuid.UUID]bool{}
		for _, item := range append(page1.Items, page2.Items...) {
			require.False(t, seen[item.ID], "pages must not overlap")
			seen[item.ID] = true
		}
	})

	s.Run("Normal case: Customer cannot read another customer's booking", func() {
		t := s.T()

		dbtest.CreateTestUser(t, s.DB, "alice@example.com", string(user.RoleCustomer))
		dbtest.CreateTestUser(t, s.DB, "bob@example.com", string(user.RoleCustomer))
		vehicleID := dbtest.CreateTestVehicle(t, s.DB, "Cargo Van", 2500)

		aliceToken := authtest.LoginUser(t, s.Router, "alice@example.com", "password123")
		bobToken := authtest.LoginUser(t, s.Router, "bob@example.com", "password123")

		startsAt := time.Now().Add(24 * time.Hour).Truncate(time.Second)
		aliceBooking := s.createBooking(t, aliceToken, vehicleID, startsAt, startsAt.Add(time.Hour))

		w := httptest.PerformRequest(t, s.Router, http.MethodGet,
			bookingsURL+"/"+aliceBooking.ID.String(), nil, bobToken)
		require.Equal(t, http.StatusNotFound, w.Code, "foreign bookings must look nonexistent")
	})
}

// =============================================================================
// TestCheckAvailability - Vehicle availability API tests
// =============================================================================

func (s *BookingSuite) TestCheckAvailability() {
	s.Run("Normal case: Free window reports available", func() {
		t := s.T()

		dbtest.CreateTestUser(t, s.DB, "renter@example.com", string(user.RoleCustomer))
		vehicleID := dbtest.CreateTestVehicle(t, s.DB, "Cargo Van", 2500)
		token := authtest.LoginUser(t, s.Router, "renter@example.com", "password123")

		startsAt := time.Now().Add(24 * time.Hour).Truncate(time.Second)
		url := fmt.Sprintf(availabilityURL, vehicleID.String(),
			startsAt.UTC().Format(time.RFC3339), startsAt.Add(2*time.Hour).UTC().Format(time.RFC3339))
		w := httptest.PerformRequest(t, s.Router, http.MethodGet, url, nil, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var res response.AvailabilityResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &res))
		require.True(t, res.Available)
		require.Empty(t, res.Conflicts)
	})

	s.Run("Normal case: Occupied window lists the blocking booking", func() {
		t := s.T()

		renterID := dbtest.CreateTestUser(t, s.DB, "renter@example.com", string(user.RoleCustomer))
		vehicleID := dbtest.CreateTestVehicle(t, s.DB, "Cargo Van", 2500)
		token := authtest.LoginUser(t, s.Router, "renter@example.com", "password123")

		startsAt := time.Now().Add(24 * time.Hour).Truncate(time.Second)
		existingID := dbtest.CreateTestBooking(t, s.DB, renterID, vehicleID,
			startsAt, startsAt.Add(2*time.Hour), "confirmed", 5000)

		url := fmt.Sprintf(availabilityURL, vehicleID.String(),
			startsAt.Add(time.Hour).UTC().Format(time.RFC3339), startsAt.Add(3*time.Hour).UTC().Format(time.RFC3339))
		w := httptest.PerformRequest(t, s.Router, http.MethodGet, url, nil, token)
		require.Equal(t, http.StatusOK, w.Code)

		var res response.AvailabilityResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &res))
		require.False(t, res.Available)
		require.Len(t, res.Conflicts, 1)
		require.Equal(t, existingID, res.Conflicts[0].ID)
		require.Equal(t, "confirmed", res.Conflicts[0].Status)
	})
}
