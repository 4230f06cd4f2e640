//go:build unit

package queries_test

import (
	"context"
	"testing"
	"time"

	"fleetbook/internal/domain/user"
	"fleetbook/internal/infra"
	"fleetbook/internal/usecase/queries"
	"fleetbook/internal/usecase/shared"
	"fleetbook/tests/common/builder"
	sharedmock "fleetbook/tests/mock/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// fakeBookingViewRepo records the page request so tests can assert the
// server-side scoping that List applies before hitting storage.
type fakeBookingViewRepo struct {
	views map[uuid.UUID]*queries.BookingView
	page  []*queries.BookingListItem

	gotFilter queries.BookingFilter
	gotAfter  *time.Time
	gotLimit  int32
}

func (f *fakeBookingViewRepo) FindByID(_ context.Context, id uuid.UUID) (*queries.BookingView, error) {
	v, ok := f.views[id]
	if !ok {
		return nil, infra.WrapRepoErr("booking not found", pgx.ErrNoRows, infra.KindNotFound)
	}
	return v, nil
}

func (f *fakeBookingViewRepo) FindPage(_ context.Context, filter queries.BookingFilter, afterCreatedAt *time.Time, _ *uuid.UUID, limit int32) ([]*queries.BookingListItem, error) {
	f.gotFilter = filter
	f.gotAfter = afterCreatedAt
	f.gotLimit = limit

	if int32(len(f.page)) > limit {
		return f.page[:limit], nil
	}
	return f.page, nil
}

func TestBookingQueriesGetByID(t *testing.T) {
	renterID := uuid.New()
	view := builder.NewBookingBuilder().WithRenterID(renterID).BuildView()
	repo := &fakeBookingViewRepo{views: map[uuid.UUID]*queries.BookingView{view.ID: view}}
	q := queries.NewBookingQueries(repo, nil)

	t.Run("owner can view", func(t *testing.T) {
		actor := user.Actor{ID: renterID, Role: user.RoleCustomer}
		got, err := q.GetByID(context.Background(), actor, view.ID)
		require.NoError(t, err)
		assert.Equal(t, view.ID, got.ID)
	})

	t.Run("staff can view any booking", func(t *testing.T) {
		actor := user.Actor{ID: uuid.New(), Role: user.RoleStaff}
		got, err := q.GetByID(context.Background(), actor, view.ID)
		require.NoError(t, err)
		assert.Equal(t, view.ID, got.ID)
	})

	t.Run("other customer gets not found, not forbidden", func(t *testing.T) {
		actor := user.Actor{ID: uuid.New(), Role: user.RoleCustomer}
		_, err := q.GetByID(context.Background(), actor, view.ID)
		assert.ErrorIs(t, err, queries.ErrBookingNotFound)
	})

	t.Run("missing booking", func(t *testing.T) {
		actor := user.Actor{ID: renterID, Role: user.RoleCustomer}
		_, err := q.GetByID(context.Background(), actor, uuid.New())
		assert.ErrorIs(t, err, queries.ErrBookingNotFound)
	})
}

func TestBookingQueriesList(t *testing.T) {
	t.Run("customer filter is forced to own bookings", func(t *testing.T) {
		actor := user.Actor{ID: uuid.New(), Role: user.RoleCustomer}
		otherRenter := uuid.New()
		repo := &fakeBookingViewRepo{}
		q := queries.NewBookingQueries(repo, nil)

		_, _, err := q.List(context.Background(), actor, queries.BookingFilter{RenterID: &otherRenter}, nil, 10)
		require.NoError(t, err)

		require.NotNil(t, repo.gotFilter.RenterID)
		assert.Equal(t, actor.ID, *repo.gotFilter.RenterID)
	})

	t.Run("staff filter passes through", func(t *testing.T) {
		actor := user.Actor{ID: uuid.New(), Role: user.RoleStaff}
		renterID := uuid.New()
		repo := &fakeBookingViewRepo{}
		q := queries.NewBookingQueries(repo, nil)

		_, _, err := q.List(context.Background(), actor, queries.BookingFilter{RenterID: &renterID}, nil, 10)
		require.NoError(t, err)

		require.NotNil(t, repo.gotFilter.RenterID)
		assert.Equal(t, renterID, *repo.gotFilter.RenterID)
	})

	t.Run("full page emits next cursor", func(t *testing.T) {
		actor := user.Actor{ID: uuid.New(), Role: user.RoleStaff}
		page := make([]*queries.BookingListItem, 3)
		for i := range page {
			page[i] = builder.NewBookingBuilder().
				WithCreatedAt(time.Now().Add(-time.Duration(i) * time.Minute)).
				BuildListItem()
		}
		repo := &fakeBookingViewRepo{page: page}
		q := queries.NewBookingQueries(repo, nil)

		items, next, err := q.List(context.Background(), actor, queries.BookingFilter{}, nil, 2)
		require.NoError(t, err)

		assert.Equal(t, int32(3), repo.gotLimit, "fetches one extra row to detect the next page")
		assert.Len(t, items, 2)
		require.NotNil(t, next)

		gotTime, gotID, err := queries.DecodeAfterCursor(next.After)
		require.NoError(t, err)
		assert.Equal(t, items[1].ID, gotID)
		assert.Equal(t, items[1].CreatedAt.UnixMicro(), gotTime.UnixMicro())
	})

	t.Run("short page has no next cursor", func(t *testing.T) {
		actor := user.Actor{ID: uuid.New(), Role: user.RoleStaff}
		repo := &fakeBookingViewRepo{page: []*queries.BookingListItem{builder.NewBookingBuilder().BuildListItem()}}
		q := queries.NewBookingQueries(repo, nil)

		items, next, err := q.List(context.Background(), actor, queries.BookingFilter{}, nil, 10)
		require.NoError(t, err)
		assert.Len(t, items, 1)
		assert.Nil(t, next)
	})

	t.Run("invalid cursor", func(t *testing.T) {
		actor := user.Actor{ID: uuid.New(), Role: user.RoleStaff}
		q := queries.NewBookingQueries(&fakeBookingViewRepo{}, nil)

		_, _, err := q.List(context.Background(), actor, queries.BookingFilter{}, &queries.Cursor{After: "broken"}, 10)
		assert.ErrorIs(t, err, queries.ErrInvalidCursor)
	})
}

func TestBookingQueriesCheckAvailability(t *testing.T) {
	vehicle := builder.NewVehicleBuilder()
	iv, err := builder.NewBookingBuilder().BuildInterval()
	require.NoError(t, err)

	newUoW := func(t *testing.T) (*sharedmock.MockUnitOfWork, *sharedmock.MockCommandReads) {
		ctrl := gomock.NewController(t)
		uow := sharedmock.NewMockUnitOfWork(ctrl)
		reads := sharedmock.NewMockCommandReads(ctrl)
		uow.EXPECT().CommandReads().Return(reads)
		return uow, reads
	}

	t.Run("no conflicts", func(t *testing.T) {
		uow, reads := newUoW(t)
		reads.EXPECT().VehicleByID(gomock.Any(), vehicle.ID).Return(vehicle.BuildSnapshot(), nil)
		reads.EXPECT().OverlappingBookings(gomock.Any(), vehicle.ID, iv, gomock.Nil()).Return(nil, nil)

		q := queries.NewBookingQueries(&fakeBookingViewRepo{}, uow)
		result, err := q.CheckAvailability(context.Background(), vehicle.ID, iv)
		require.NoError(t, err)
		assert.True(t, result.Available)
		assert.Empty(t, result.Conflicts)
	})

	t.Run("conflicts reported", func(t *testing.T) {
		conflict := builder.NewBookingBuilder().AsConfirmed().BuildConflict()
		uow, reads := newUoW(t)
		reads.EXPECT().VehicleByID(gomock.Any(), vehicle.ID).Return(vehicle.BuildSnapshot(), nil)
		reads.EXPECT().OverlappingBookings(gomock.Any(), vehicle.ID, iv, gomock.Nil()).
			Return([]shared.BookingConflict{conflict}, nil)

		q := queries.NewBookingQueries(&fakeBookingViewRepo{}, uow)
		result, err := q.CheckAvailability(context.Background(), vehicle.ID, iv)
		require.NoError(t, err)
		assert.False(t, result.Available)
		assert.Equal(t, []shared.BookingConflict{conflict}, result.Conflicts)
	})

	t.Run("unknown vehicle", func(t *testing.T) {
		uow, reads := newUoW(t)
		reads.EXPECT().VehicleByID(gomock.Any(), vehicle.ID).
			Return(nil, infra.WrapRepoErr("vehicle not found", pgx.ErrNoRows, infra.KindNotFound))

		q := queries.NewBookingQueries(&fakeBookingViewRepo{}, uow)
		_, err := q.CheckAvailability(context.Background(), vehicle.ID, iv)
		assert.ErrorIs(t, err, queries.ErrVehicleNotFound)
	})
}
