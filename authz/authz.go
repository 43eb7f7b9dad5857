package authz

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/meinhoongagan/therapy-booking/apperr"
	"github.com/meinhoongagan/therapy-booking/models"
)

// Principal is the authenticated actor extracted from a verified token.
type Principal struct {
	ID   uuid.UUID
	Role models.Role
}

func (p Principal) IsAdmin() bool { return p.Role == models.RoleAdmin }

// Owned is implemented by every resource the gate can protect. Appointments
// answer with their assigned users, users with their own id.
type Owned interface {
	OwnerIDs() []uuid.UUID
}

// Loader fetches the resource under check. It must return an apperr NotFound
// error when the id does not exist.
type Loader func(ctx context.Context, id uuid.UUID) (Owned, error)

type Gate struct {
	log *zap.Logger
}

func NewGate(log *zap.Logger) *Gate {
	return &Gate{log: log}
}

// Authorize allows admins unconditionally; everyone else must appear among the
// resource's owners.
func (g *Gate) Authorize(ctx context.Context, p Principal, resourceID uuid.UUID, load Loader) error {
	if p.IsAdmin() {
		return nil
	}

	resource, err := load(ctx, resourceID)
	if err != nil {
		return err
	}

	for _, owner := range resource.OwnerIDs() {
		if owner == p.ID {
			return nil
		}
	}

	g.log.Info("access denied",
		zap.String("principal_id", p.ID.String()),
		zap.String("role", string(p.Role)),
		zap.String("resource_id", resourceID.String()),
	)
	return apperr.Forbidden("access denied")
}
