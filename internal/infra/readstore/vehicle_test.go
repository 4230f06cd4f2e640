//go:build unit

package readstore_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"fleetbook/internal/infra"
	"fleetbook/internal/infra/readstore"
	"fleetbook/internal/usecase/queries"
	"fleetbook/tests/common/builder"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRow / fakeDBTX stand in for the pool on paths that do hit the
// database. The cache-hit tests pass a nil DBTX on purpose: touching it
// would panic and fail the test, which is exactly the guarantee we want.
type fakeRow struct {
	view *queries.VehicleView
	err  error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*uuid.UUID)) = r.view.ID
	*(dest[1].(*string)) = r.view.Name
	*(dest[2].(*int64)) = r.view.HourlyRateCents
	return nil
}

type fakeDBTX struct {
	row fakeRow
}

func (f *fakeDBTX) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (f *fakeDBTX) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, nil
}

func (f *fakeDBTX) QueryRow(context.Context, string, ...any) pgx.Row {
	return f.row
}

func TestVehicleReadStoreFindByID(t *testing.T) {
	ctx := context.Background()
	ttl := 5 * time.Minute

	t.Run("cache hit skips the database", func(t *testing.T) {
		view := builder.NewVehicleBuilder().BuildView()
		cached, err := json.Marshal(view)
		require.NoError(t, err)

		client, mock := redismock.NewClientMock()
		mock.ExpectGet("vehicle:" + view.ID.String()).SetVal(string(cached))

		store := readstore.NewVehicleReadStore(nil, client, ttl)
		got, err := store.FindByID(ctx, view.ID)
		require.NoError(t, err)
		assert.Equal(t, view.Name, got.Name)
		assert.Equal(t, view.HourlyRateCents, got.HourlyRateCents)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("cache miss falls through and fills the cache", func(t *testing.T) {
		view := builder.NewVehicleBuilder().BuildView()
		data, err := json.Marshal(view)
		require.NoError(t, err)

		client, mock := redismock.NewClientMock()
		mock.ExpectGet("vehicle:" + view.ID.String()).RedisNil()
		mock.ExpectSet("vehicle:"+view.ID.String(), data, ttl).SetVal("OK")

		store := readstore.NewVehicleReadStore(&fakeDBTX{row: fakeRow{view: view}}, client, ttl)
		got, err := store.FindByID(ctx, view.ID)
		require.NoError(t, err)
		assert.Equal(t, view.ID, got.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("corrupt cache entry is ignored", func(t *testing.T) {
		view := builder.NewVehicleBuilder().BuildView()
		data, err := json.Marshal(view)
		require.NoError(t, err)

		client, mock := redismock.NewClientMock()
		mock.ExpectGet("vehicle:" + view.ID.String()).SetVal("{not json")
		mock.ExpectSet("vehicle:"+view.ID.String(), data, ttl).SetVal("OK")

		store := readstore.NewVehicleReadStore(&fakeDBTX{row: fakeRow{view: view}}, client, ttl)
		got, err := store.FindByID(ctx, view.ID)
		require.NoError(t, err)
		assert.Equal(t, view.ID, got.ID)
	})

	t.Run("nil client disables caching", func(t *testing.T) {
		view := builder.NewVehicleBuilder().BuildView()

		store := readstore.NewVehicleReadStore(&fakeDBTX{row: fakeRow{view: view}}, nil, ttl)
		got, err := store.FindByID(ctx, view.ID)
		require.NoError(t, err)
		assert.Equal(t, view.ID, got.ID)
	})

	t.Run("unknown vehicle maps to not found", func(t *testing.T) {
		store := readstore.NewVehicleReadStore(&fakeDBTX{row: fakeRow{err: pgx.ErrNoRows}}, nil, ttl)
		_, err := store.FindByID(ctx, uuid.New())
		assert.True(t, infra.IsKind(err, infra.KindNotFound))
	})
}
