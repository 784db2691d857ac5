// README: Presence store backed by Redis GEO and Postgres snapshots.
package presence

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"courier/internal/types"
)

const driverGeoKey = "presence:drivers"

type Store struct {
	db    *pgxpool.Pool
	redis *redis.Client
}

func NewStore(db *pgxpool.Pool, redis *redis.Client) *Store {
	return &Store{db: db, redis: redis}
}

func (s *Store) SetPosition(ctx context.Context, id types.ID, pos types.Point) error {
	if s == nil || s.redis == nil {
		return nil
	}
	return s.redis.GeoAdd(ctx, driverGeoKey, &redis.GeoLocation{
		Name:      string(id),
		Longitude: pos.Lng,
		Latitude:  pos.Lat,
	}).Err()
}

func (s *Store) RemovePosition(ctx context.Context, id types.ID) error {
	if s == nil || s.redis == nil {
		return nil
	}
	return s.redis.ZRem(ctx, driverGeoKey, string(id)).Err()
}

func (s *Store) SetStatus(ctx context.Context, id types.ID, status Status) error {
	if s == nil || s.db == nil {
		return nil
	}
	_, err := s.db.Exec(ctx, `
		UPDATE drivers
		SET status = $1, last_position_update = NOW()
		WHERE id = $2`,
		string(status), string(id),
	)
	return err
}

func (s *Store) AppendSnapshot(ctx context.Context, id types.ID, pos types.Point, recordedAt time.Time) error {
	if s == nil || s.db == nil {
		return nil
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO position_snapshots (driver_id, lat, lng, recorded_at)
		VALUES ($1, $2, $3, $4)`,
		string(id), pos.Lat, pos.Lng, recordedAt,
	)
	return err
}
