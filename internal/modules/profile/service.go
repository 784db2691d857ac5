// README: Profile service for driver record, documents, and vehicles.
package profile

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"courier/internal/types"
)

var ErrBadRequest = errors.New("bad request")

type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Driver, error) {
	return s.store.GetDriver(ctx, id)
}

type UpdateCommand struct {
	FirstName string
	LastName  string
	Phone     string
	AvatarURL string
	PushToken string
}

func (s *Service) Update(ctx context.Context, id types.ID, cmd UpdateCommand) (*Driver, error) {
	if cmd.FirstName == "" || cmd.LastName == "" {
		return nil, ErrBadRequest
	}
	d := &Driver{
		ID:        id,
		FirstName: cmd.FirstName,
		LastName:  cmd.LastName,
		Phone:     cmd.Phone,
		AvatarURL: cmd.AvatarURL,
		PushToken: cmd.PushToken,
	}
	if err := s.store.UpdateDriver(ctx, d); err != nil {
		return nil, err
	}
	return s.store.GetDriver(ctx, id)
}

func (s *Service) Documents(ctx context.Context, driverID types.ID) ([]Document, error) {
	return s.store.ListDocuments(ctx, driverID)
}

// SubmitDocument registers an uploaded document; review happens backoffice-side.
func (s *Service) SubmitDocument(ctx context.Context, driverID types.ID, docType DocumentType, fileURL string, expiry *time.Time) (Document, error) {
	if fileURL == "" {
		return Document{}, ErrBadRequest
	}
	switch docType {
	case DocLicense, DocRegistration, DocInsurance, DocIdentity:
	default:
		return Document{}, ErrBadRequest
	}
	doc := Document{
		ID:         newID(),
		DriverID:   driverID,
		Type:       docType,
		FileURL:    fileURL,
		ExpiryDate: expiry,
		Status:     DocPending,
		UploadedAt: time.Now(),
	}
	if err := s.store.AddDocument(ctx, &doc); err != nil {
		return Document{}, err
	}
	return doc, nil
}

func (s *Service) Vehicles(ctx context.Context, driverID types.ID) ([]Vehicle, error) {
	return s.store.ListVehicles(ctx, driverID)
}

type VehicleCommand struct {
	Brand       string
	Model       string
	PlateNumber string
	Type        VehicleType
	Color       string
}

func (s *Service) AddVehicle(ctx context.Context, driverID types.ID, cmd VehicleCommand) (Vehicle, error) {
	if cmd.Brand == "" || cmd.PlateNumber == "" {
		return Vehicle{}, ErrBadRequest
	}
	switch cmd.Type {
	case VehicleScooter, VehicleMoto, VehicleCar, VehicleBike:
	default:
		return Vehicle{}, ErrBadRequest
	}
	v := Vehicle{
		ID:          newID(),
		DriverID:    driverID,
		Brand:       cmd.Brand,
		Model:       cmd.Model,
		PlateNumber: cmd.PlateNumber,
		Type:        cmd.Type,
		Color:       cmd.Color,
		Status:      VehicleActive,
		CreatedAt:   time.Now(),
	}
	if err := s.store.AddVehicle(ctx, &v); err != nil {
		return Vehicle{}, err
	}
	return v, nil
}

func (s *Service) SetPrimary(ctx context.Context, driverID, vehicleID types.ID) error {
	return s.store.SetPrimaryVehicle(ctx, driverID, vehicleID)
}

func newID() types.ID {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return types.ID(hex.EncodeToString(b[:]))
}
