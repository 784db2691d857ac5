// README: Delivery store backed by PostgreSQL.
package delivery

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"courier/internal/types"
)

var ErrNotFound = errors.New("order not found")

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) Create(ctx context.Context, o *Order) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO orders (
			id, reference, driver_id, client_name, client_phone,
			pickup_address, delivery_address,
			pickup_lat, pickup_lng, dropoff_lat, dropoff_lng,
			delivery_type, price, currency, distance_km,
			status, status_version, notes, package_description,
			created_at, accepted_at
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7,
			$8, $9, $10, $11,
			$12, $13, $14, $15,
			$16, $17, $18, $19,
			$20, $21
		)`,
		string(o.ID), o.Reference, string(o.DriverID), o.ClientName, o.ClientPhone,
		o.PickupAddress, o.DeliveryAddress,
		o.Pickup.Lat, o.Pickup.Lng, o.Dropoff.Lat, o.Dropoff.Lng,
		string(o.DeliveryType), o.Price.Amount, o.Price.Currency, o.DistanceKm,
		string(o.Status), o.StatusVersion, o.Notes, o.PackageDesc,
		o.CreatedAt, o.AcceptedAt,
	)
	return err
}

func (s *Store) Get(ctx context.Context, id types.ID) (*Order, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, reference, driver_id, client_name, client_phone,
		       pickup_address, delivery_address,
		       pickup_lat, pickup_lng, dropoff_lat, dropoff_lng,
		       delivery_type, price, currency, distance_km,
		       status, status_version, notes, package_description,
		       proof_photo_url, signature_url,
		       created_at, accepted_at, dispatched_at, in_progress_at,
		       delivered_at, cancelled_at, cancellation_reason
		FROM orders
		WHERE id = $1`, string(id),
	)

	var o Order
	var proofURL, signatureURL, cancelReason sql.NullString
	var acceptedAt, dispatchedAt, inProgressAt, deliveredAt, cancelledAt sql.NullTime

	err := row.Scan(
		&o.ID, &o.Reference, &o.DriverID, &o.ClientName, &o.ClientPhone,
		&o.PickupAddress, &o.DeliveryAddress,
		&o.Pickup.Lat, &o.Pickup.Lng, &o.Dropoff.Lat, &o.Dropoff.Lng,
		&o.DeliveryType, &o.Price.Amount, &o.Price.Currency, &o.DistanceKm,
		&o.Status, &o.StatusVersion, &o.Notes, &o.PackageDesc,
		&proofURL, &signatureURL,
		&o.CreatedAt, &acceptedAt, &dispatchedAt, &inProgressAt,
		&deliveredAt, &cancelledAt, &cancelReason,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	o.ProofPhotoURL = proofURL.String
	o.SignatureURL = signatureURL.String
	o.CancelReason = cancelReason.String
	o.AcceptedAt = toTimePtr(acceptedAt)
	o.DispatchedAt = toTimePtr(dispatchedAt)
	o.InProgressAt = toTimePtr(inProgressAt)
	o.DeliveredAt = toTimePtr(deliveredAt)
	o.CancelledAt = toTimePtr(cancelledAt)
	return &o, nil
}

// UpdateStatus applies an optimistic status transition; returns false when
// another writer got there first.
func (s *Store) UpdateStatus(ctx context.Context, o *Order, from Status, version int) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE orders
		SET status = $1,
		    status_version = status_version + 1,
		    proof_photo_url = COALESCE(NULLIF($2, ''), proof_photo_url),
		    signature_url = COALESCE(NULLIF($3, ''), signature_url),
		    cancellation_reason = COALESCE(NULLIF($4, ''), cancellation_reason),
		    dispatched_at = CASE WHEN $1 = 'dispatched' THEN NOW() ELSE dispatched_at END,
		    in_progress_at = CASE WHEN $1 = 'in_progress' THEN NOW() ELSE in_progress_at END,
		    delivered_at = CASE WHEN $1 = 'delivered' THEN NOW() ELSE delivered_at END,
		    cancelled_at = CASE WHEN $1 = 'cancelled' THEN NOW() ELSE cancelled_at END
		WHERE id = $5 AND status = $6 AND status_version = $7`,
		string(o.Status),
		o.ProofPhotoURL,
		o.SignatureURL,
		o.CancelReason,
		string(o.ID),
		string(from),
		version,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *Store) AppendEvent(ctx context.Context, e *Event) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO order_state_events (
			order_id, from_status, to_status, actor_type, actor_id, created_at
		) VALUES ($1, $2, $3, $4, $5, $6)`,
		string(e.OrderID), string(e.FromStatus), string(e.ToStatus),
		e.ActorType, toStringPtr(e.ActorID), e.CreatedAt,
	)
	return err
}

func (s *Store) ListByDriver(ctx context.Context, driverID types.ID, limit int) ([]Order, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(ctx, `
		SELECT id, reference, status, price, currency, distance_km,
		       pickup_address, delivery_address, delivery_type, created_at
		FROM orders
		WHERE driver_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, string(driverID), limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(
			&o.ID, &o.Reference, &o.Status, &o.Price.Amount, &o.Price.Currency,
			&o.DistanceKm, &o.PickupAddress, &o.DeliveryAddress, &o.DeliveryType,
			&o.CreatedAt,
		); err != nil {
			return nil, err
		}
		o.DriverID = driverID
		out = append(out, o)
	}
	return out, rows.Err()
}

// DailyStats aggregates a driver's completed work for one calendar day.
type DailyStats struct {
	Day             time.Time
	CompletedOrders int
	TotalEarnings   types.Money
	TotalDistanceKm float64
}

func (s *Store) DailyStatsByDriver(ctx context.Context, driverID types.ID, day time.Time) (DailyStats, error) {
	stats := DailyStats{Day: day, TotalEarnings: types.Money{Currency: "EUR"}}
	row := s.db.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(SUM(price), 0), COALESCE(SUM(distance_km), 0)
		FROM orders
		WHERE driver_id = $1
		  AND status = 'delivered'
		  AND delivered_at >= $2::date
		  AND delivered_at < $2::date + INTERVAL '1 day'`,
		string(driverID), day,
	)
	if err := row.Scan(&stats.CompletedOrders, &stats.TotalEarnings.Amount, &stats.TotalDistanceKm); err != nil {
		return DailyStats{}, err
	}
	return stats, nil
}

func toStringPtr(v *types.ID) *string {
	if v == nil {
		return nil
	}
	s := string(*v)
	return &s
}

func toTimePtr(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time
	return &t
}
