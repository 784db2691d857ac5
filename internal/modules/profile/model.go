// README: Driver profile, document, and vehicle definitions.
package profile

import (
	"time"

	"courier/internal/types"
)

type Driver struct {
	ID          types.ID
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	VehicleType string
	VehiclePlate string
	AvatarURL   string
	PushToken   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type DocumentType string

const (
	DocLicense      DocumentType = "license"
	DocRegistration DocumentType = "registration"
	DocInsurance    DocumentType = "insurance"
	DocIdentity     DocumentType = "identity"
)

type DocumentStatus string

const (
	DocPending  DocumentStatus = "pending"
	DocApproved DocumentStatus = "approved"
	DocRejected DocumentStatus = "rejected"
	DocExpired  DocumentStatus = "expired"
)

type Document struct {
	ID              types.ID
	DriverID        types.ID
	Type            DocumentType
	FileURL         string
	ExpiryDate      *time.Time
	Status          DocumentStatus
	UploadedAt      time.Time
	ReviewedAt      *time.Time
	RejectionReason string
}

type VehicleType string

const (
	VehicleScooter VehicleType = "scooter"
	VehicleMoto    VehicleType = "moto"
	VehicleCar     VehicleType = "car"
	VehicleBike    VehicleType = "bike"
)

type VehicleStatus string

const (
	VehicleActive      VehicleStatus = "active"
	VehicleInactive    VehicleStatus = "inactive"
	VehicleMaintenance VehicleStatus = "maintenance"
)

type Vehicle struct {
	ID          types.ID
	DriverID    types.ID
	Brand       string
	Model       string
	PlateNumber string
	Type        VehicleType
	Color       string
	Status      VehicleStatus
	IsPrimary   bool
	CreatedAt   time.Time
}
