package authz

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/meinhoongagan/therapy-booking/apperr"
	"github.com/meinhoongagan/therapy-booking/models"
)

func loaderFor(resources map[uuid.UUID]Owned) (Loader, *int) {
	calls := 0
	return func(_ context.Context, id uuid.UUID) (Owned, error) {
		calls++
		r, ok := resources[id]
		if !ok {
			return nil, apperr.NotFound("resource %s not found", id)
		}
		return r, nil
	}, &calls
}

func TestAuthorize_AdminBypassesLookup(t *testing.T) {
	gate := NewGate(zap.NewNop())
	load, calls := loaderFor(nil)

	err := gate.Authorize(context.Background(), Principal{ID: uuid.New(), Role: models.RoleAdmin}, uuid.New(), load)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *calls != 0 {
		t.Fatalf("admin check should not load the resource, got %d calls", *calls)
	}
}

func TestAuthorize_AppointmentOwner(t *testing.T) {
	gate := NewGate(zap.NewNop())
	owner, stranger := uuid.New(), uuid.New()
	appt := &models.Appointment{ID: uuid.New(), Users: []models.AppointmentUser{{UserID: owner}}}
	load, _ := loaderFor(map[uuid.UUID]Owned{appt.ID: appt})

	if err := gate.Authorize(context.Background(), Principal{ID: owner, Role: models.RoleUser}, appt.ID, load); err != nil {
		t.Fatalf("owner should be allowed: %v", err)
	}
	err := gate.Authorize(context.Background(), Principal{ID: stranger, Role: models.RoleUser}, appt.ID, load)
	if !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestAuthorize_SelfRecord(t *testing.T) {
	gate := NewGate(zap.NewNop())
	user := &models.User{ID: uuid.New()}
	load, _ := loaderFor(map[uuid.UUID]Owned{user.ID: user})

	if err := gate.Authorize(context.Background(), Principal{ID: user.ID, Role: models.RoleGuest}, user.ID, load); err != nil {
		t.Fatalf("user should be allowed on own record: %v", err)
	}
}

func TestAuthorize_MissingResource(t *testing.T) {
	gate := NewGate(zap.NewNop())
	load, _ := loaderFor(nil)

	err := gate.Authorize(context.Background(), Principal{ID: uuid.New(), Role: models.RoleUser}, uuid.New(), load)
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
