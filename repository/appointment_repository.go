package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/meinhoongagan/therapy-booking/apperr"
	"github.com/meinhoongagan/therapy-booking/models"
)

// IAppointmentRepository is the persistence surface the appointment service needs.
type IAppointmentRepository interface {
	FindAll(ctx context.Context) ([]models.Appointment, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Appointment, error)
	FindByUser(ctx context.Context, userID uuid.UUID) ([]models.Appointment, error)
	// FindByTherapyAndDate locks the returned rows when called inside Transaction.
	FindByTherapyAndDate(ctx context.Context, therapyID uuid.UUID, date time.Time) ([]models.Appointment, error)
	// FindByStatusEndingBefore locks the returned rows when called inside Transaction.
	FindByStatusEndingBefore(ctx context.Context, status models.AppointmentStatus, before time.Time) ([]models.Appointment, error)
	Create(ctx context.Context, appointment *models.Appointment) error
	Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
	SetStatus(ctx context.Context, ids []uuid.UUID, status models.AppointmentStatus) (int64, error)
	LinkExists(ctx context.Context, appointmentID, userID uuid.UUID) (bool, error)
	CreateLink(ctx context.Context, link *models.AppointmentUser) error
	DeleteLinks(ctx context.Context, appointmentID uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	Transaction(ctx context.Context, fn func(repo IAppointmentRepository) error) error
}

type AppointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

func (r *AppointmentRepository) withRelations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Therapy", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "title")
		}).
		Preload("Users", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at")
		}).
		Preload("Users.User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name", "email")
		})
}

func (r *AppointmentRepository) FindAll(ctx context.Context) ([]models.Appointment, error) {
	var appointments []models.Appointment
	if err := r.withRelations(ctx).Order("date, start_time").Find(&appointments).Error; err != nil {
		return nil, translate(err, "appointments")
	}
	return appointments, nil
}

func (r *AppointmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Appointment, error) {
	var appointment models.Appointment
	err := r.withRelations(ctx).First(&appointment, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("appointment %s not found", id)
	}
	if err != nil {
		return nil, translate(err, "appointment")
	}
	return &appointment, nil
}

func (r *AppointmentRepository) byUser(ctx context.Context, userID uuid.UUID) *gorm.DB {
	linked := r.db.Model(&models.AppointmentUser{}).Select("appointment_id").Where("user_id = ?", userID)
	return r.withRelations(ctx).Where("id IN (?)", linked).Order("date, start_time")
}

func (r *AppointmentRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]models.Appointment, error) {
	var appointments []models.Appointment
	if err := r.byUser(ctx, userID).Find(&appointments).Error; err != nil {
		return nil, translate(err, "appointments")
	}
	return appointments, nil
}

func (r *AppointmentRepository) locked(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"})
}

func (r *AppointmentRepository) byTherapyAndDate(ctx context.Context, therapyID uuid.UUID, date time.Time) *gorm.DB {
	return r.locked(ctx).Where("therapy_id = ? AND date = ?", therapyID, date)
}

func (r *AppointmentRepository) FindByTherapyAndDate(ctx context.Context, therapyID uuid.UUID, date time.Time) ([]models.Appointment, error) {
	var appointments []models.Appointment
	if err := r.byTherapyAndDate(ctx, therapyID, date).Find(&appointments).Error; err != nil {
		return nil, translate(err, "appointments")
	}
	return appointments, nil
}

func (r *AppointmentRepository) byStatusEndingBefore(ctx context.Context, status models.AppointmentStatus, before time.Time) *gorm.DB {
	return r.locked(ctx).Where("status = ? AND end_time < ?", status, before)
}

func (r *AppointmentRepository) FindByStatusEndingBefore(ctx context.Context, status models.AppointmentStatus, before time.Time) ([]models.Appointment, error) {
	var appointments []models.Appointment
	if err := r.byStatusEndingBefore(ctx, status, before).Find(&appointments).Error; err != nil {
		return nil, translate(err, "appointments")
	}
	return appointments, nil
}

func (r *AppointmentRepository) Create(ctx context.Context, appointment *models.Appointment) error {
	return translate(r.db.WithContext(ctx).Create(appointment).Error, "appointment")
}

func (r *AppointmentRepository) Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).Model(&models.Appointment{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return translate(res.Error, "appointment")
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("appointment %s not found", id)
	}
	return nil
}

func (r *AppointmentRepository) SetStatus(ctx context.Context, ids []uuid.UUID, status models.AppointmentStatus) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Model(&models.Appointment{}).Where("id IN ?", ids).Update("status", status)
	if res.Error != nil {
		return 0, translate(res.Error, "appointments")
	}
	return res.RowsAffected, nil
}

func (r *AppointmentRepository) LinkExists(ctx context.Context, appointmentID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.AppointmentUser{}).
		Where("appointment_id = ? AND user_id = ?", appointmentID, userID).
		Count(&count).Error
	if err != nil {
		return false, translate(err, "appointment user")
	}
	return count > 0, nil
}

func (r *AppointmentRepository) CreateLink(ctx context.Context, link *models.AppointmentUser) error {
	return translate(r.db.WithContext(ctx).Create(link).Error, "appointment user")
}

func (r *AppointmentRepository) DeleteLinks(ctx context.Context, appointmentID uuid.UUID) error {
	err := r.db.WithContext(ctx).Where("appointment_id = ?", appointmentID).Delete(&models.AppointmentUser{}).Error
	return translate(err, "appointment users")
}

func (r *AppointmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.Appointment{}, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error, "appointment")
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("appointment %s not found", id)
	}
	return nil
}

func (r *AppointmentRepository) Transaction(ctx context.Context, fn func(repo IAppointmentRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&AppointmentRepository{db: tx})
	})
}

var _ IAppointmentRepository = (*AppointmentRepository)(nil)
