// README: Profile service validation tests.
package profile

import (
	"context"
	"testing"
)

func TestUpdateRequiresName(t *testing.T) {
	svc := NewService(nil)
	cases := []UpdateCommand{
		{FirstName: "", LastName: "Martin"},
		{FirstName: "Julien", LastName: ""},
		{},
	}
	for _, cmd := range cases {
		if _, err := svc.Update(context.Background(), "d1", cmd); err != ErrBadRequest {
			t.Errorf("Update(%+v): expected ErrBadRequest, got %v", cmd, err)
		}
	}
}

func TestSubmitDocumentValidation(t *testing.T) {
	svc := NewService(nil)
	ctx := context.Background()

	if _, err := svc.SubmitDocument(ctx, "d1", DocLicense, "", nil); err != ErrBadRequest {
		t.Errorf("empty file url: expected ErrBadRequest, got %v", err)
	}
	if _, err := svc.SubmitDocument(ctx, "d1", "passport", "https://cdn.example.com/doc.pdf", nil); err != ErrBadRequest {
		t.Errorf("unknown type: expected ErrBadRequest, got %v", err)
	}
}

func TestAddVehicleValidation(t *testing.T) {
	svc := NewService(nil)
	ctx := context.Background()

	if _, err := svc.AddVehicle(ctx, "d1", VehicleCommand{Brand: "Yamaha", Type: VehicleMoto}); err != ErrBadRequest {
		t.Errorf("missing plate: expected ErrBadRequest, got %v", err)
	}
	if _, err := svc.AddVehicle(ctx, "d1", VehicleCommand{Brand: "Yamaha", PlateNumber: "AB-123-CD", Type: "truck"}); err != ErrBadRequest {
		t.Errorf("unknown type: expected ErrBadRequest, got %v", err)
	}
}
