package db

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/meinhoongagan/therapy-booking/models"
)

// noOverlapSQL backs the create-time conflict check: two non-cancelled rows of the
// same therapy and date may not share any instant of [start_time, end_time).
const noOverlapSQL = `
DO $$
BEGIN
	IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'appointments_no_overlap') THEN
		ALTER TABLE appointments ADD CONSTRAINT appointments_no_overlap
		EXCLUDE USING gist (
			therapy_id WITH =,
			date WITH =,
			tstzrange(start_time, end_time, '[)') WITH &&
		) WHERE (status <> 'CANCELLED');
	END IF;
END
$$;`

const intervalCheckSQL = `
DO $$
BEGIN
	IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'appointments_end_after_start') THEN
		ALTER TABLE appointments ADD CONSTRAINT appointments_end_after_start CHECK (end_time > start_time);
	END IF;
END
$$;`

func Migrate(db *gorm.DB, log *zap.Logger) error {
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS btree_gist").Error; err != nil {
		return fmt.Errorf("failed to enable btree_gist: %w", err)
	}

	err := db.AutoMigrate(
		&models.User{},
		&models.Therapy{},
		&models.Advice{},
		&models.Service{},
		&models.Resource{},
		&models.Appointment{},
		&models.AppointmentUser{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	for _, stmt := range []string{intervalCheckSQL, noOverlapSQL} {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to add appointment constraints: %w", err)
		}
	}

	log.Info("migrations applied successfully")
	return nil
}
