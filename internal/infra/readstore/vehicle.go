package readstore

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"fleetbook/internal/infra"
	"fleetbook/internal/infra/db"
	"fleetbook/internal/pkg/pgconv"
	"fleetbook/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// VehicleReadStore reads the fleet catalog. Rates change rarely and are
// read on every availability check, so a cache-aside layer sits in front
// when a redis client is configured; a nil client disables caching.
type VehicleReadStore struct {
	db    db.DBTX
	cache *redis.Client
	ttl   time.Duration
}

func NewVehicleReadStore(dbtx db.DBTX, cache *redis.Client, ttl time.Duration) *VehicleReadStore {
	return &VehicleReadStore{
		db:    dbtx,
		cache: cache,
		ttl:   ttl,
	}
}

func (r *VehicleReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.VehicleView, error) {
	if view := r.fromCache(ctx, id); view != nil {
		return view, nil
	}

	const q = `SELECT id, name, hourly_rate_cents FROM vehicles WHERE id = $1`

	var view queries.VehicleView
	err := r.db.QueryRow(ctx, q, id).Scan(&view.ID, &view.Name, &view.HourlyRateCents)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("vehicle not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find vehicle by ID", err)
	}

	r.toCache(ctx, &view)
	return &view, nil
}

func cacheKey(id uuid.UUID) string {
	return "vehicle:" + id.String()
}

func (r *VehicleReadStore) fromCache(ctx context.Context, id uuid.UUID) *queries.VehicleView {
	if r.cache == nil {
		return nil
	}

	data, err := r.cache.Get(ctx, cacheKey(id)).Bytes()
	if err != nil {
		if err != redis.Nil {
			slog.Warn("vehicle cache read failed", "vehicle_id", id, "error", err.Error())
		}
		return nil
	}

	var view queries.VehicleView
	if err := json.Unmarshal(data, &view); err != nil {
		slog.Warn("vehicle cache entry corrupt, ignoring", "vehicle_id", id)
		return nil
	}
	return &view
}

func (r *VehicleReadStore) toCache(ctx context.Context, view *queries.VehicleView) {
	if r.cache == nil {
		return
	}

	data, err := json.Marshal(view)
	if err != nil {
		return
	}
	if err := r.cache.Set(ctx, cacheKey(view.ID), data, r.ttl).Err(); err != nil {
		slog.Warn("vehicle cache write failed", "vehicle_id", view.ID, "error", err.Error())
	}
}
