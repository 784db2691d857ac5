// README: Profile store backed by PostgreSQL.
package profile

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"courier/internal/types"
)

var ErrNotFound = errors.New("driver not found")

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) GetDriver(ctx context.Context, id types.ID) (*Driver, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, first_name, last_name, email, phone,
		       vehicle_type, vehicle_plate, avatar_url, push_token,
		       created_at, updated_at
		FROM drivers
		WHERE id = $1`, string(id),
	)
	var d Driver
	var vehicleType, vehiclePlate, avatarURL, pushToken sql.NullString
	err := row.Scan(
		&d.ID, &d.FirstName, &d.LastName, &d.Email, &d.Phone,
		&vehicleType, &vehiclePlate, &avatarURL, &pushToken,
		&d.CreatedAt, &d.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	d.VehicleType = vehicleType.String
	d.VehiclePlate = vehiclePlate.String
	d.AvatarURL = avatarURL.String
	d.PushToken = pushToken.String
	return &d, nil
}

func (s *Store) UpdateDriver(ctx context.Context, d *Driver) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE drivers
		SET first_name = $1, last_name = $2, phone = $3,
		    avatar_url = NULLIF($4, ''), push_token = NULLIF($5, ''),
		    updated_at = NOW()
		WHERE id = $6`,
		d.FirstName, d.LastName, d.Phone, d.AvatarURL, d.PushToken, string(d.ID),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) ListDocuments(ctx context.Context, driverID types.ID) ([]Document, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, driver_id, document_type, file_url, expiry_date,
		       status, uploaded_at, reviewed_at, rejection_reason
		FROM driver_documents
		WHERE driver_id = $1
		ORDER BY uploaded_at DESC`, string(driverID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		var doc Document
		var expiry, reviewed sql.NullTime
		var reason sql.NullString
		if err := rows.Scan(
			&doc.ID, &doc.DriverID, &doc.Type, &doc.FileURL, &expiry,
			&doc.Status, &doc.UploadedAt, &reviewed, &reason,
		); err != nil {
			return nil, err
		}
		doc.ExpiryDate = nullableTime(expiry)
		doc.ReviewedAt = nullableTime(reviewed)
		doc.RejectionReason = reason.String
		out = append(out, doc)
	}
	return out, rows.Err()
}

func (s *Store) AddDocument(ctx context.Context, doc *Document) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO driver_documents (
			id, driver_id, document_type, file_url, expiry_date, status, uploaded_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		string(doc.ID), string(doc.DriverID), string(doc.Type),
		doc.FileURL, doc.ExpiryDate, string(doc.Status), doc.UploadedAt,
	)
	return err
}

func (s *Store) ListVehicles(ctx context.Context, driverID types.ID) ([]Vehicle, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, driver_id, brand, model, plate_number, type,
		       color, status, is_primary, created_at
		FROM vehicles
		WHERE driver_id = $1
		ORDER BY is_primary DESC, created_at DESC`, string(driverID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Vehicle
	for rows.Next() {
		var v Vehicle
		var color sql.NullString
		if err := rows.Scan(
			&v.ID, &v.DriverID, &v.Brand, &v.Model, &v.PlateNumber, &v.Type,
			&color, &v.Status, &v.IsPrimary, &v.CreatedAt,
		); err != nil {
			return nil, err
		}
		v.Color = color.String
		out = append(out, v)
	}
	return out, rows.Err()
}

func (s *Store) AddVehicle(ctx context.Context, v *Vehicle) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO vehicles (
			id, driver_id, brand, model, plate_number, type,
			color, status, is_primary, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		string(v.ID), string(v.DriverID), v.Brand, v.Model, v.PlateNumber,
		string(v.Type), v.Color, string(v.Status), v.IsPrimary, v.CreatedAt,
	)
	return err
}

// SetPrimaryVehicle makes one vehicle primary and demotes the others in a
// single transaction, keeping the single-primary invariant.
func (s *Store) SetPrimaryVehicle(ctx context.Context, driverID, vehicleID types.ID) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `
		UPDATE vehicles SET is_primary = FALSE
		WHERE driver_id = $1`, string(driverID),
	); err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, `
		UPDATE vehicles SET is_primary = TRUE
		WHERE id = $1 AND driver_id = $2`, string(vehicleID), string(driverID),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return tx.Commit(ctx)
}

func nullableTime(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time
	return &t
}
