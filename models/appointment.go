package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppointmentStatus string

const (
	StatusAvailable AppointmentStatus = "AVAILABLE"
	StatusPending   AppointmentStatus = "PENDING"
	StatusOccupied  AppointmentStatus = "OCCUPIED"
	StatusCompleted AppointmentStatus = "COMPLETED"
	StatusCancelled AppointmentStatus = "CANCELLED"
)

// DefaultStatus is assigned on create when the caller does not supply one.
const DefaultStatus = StatusPending

func (s AppointmentStatus) Valid() bool {
	switch s {
	case StatusAvailable, StatusPending, StatusOccupied, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

type Appointment struct {
	ID         uuid.UUID         `json:"id" gorm:"type:uuid;primaryKey"`
	Date       time.Time         `json:"date" gorm:"type:date;not null;index:idx_appointments_therapy_date,priority:2"`
	StartTime  time.Time         `json:"startTime" gorm:"not null"`
	EndTime    time.Time         `json:"endTime" gorm:"not null;index"`
	Status     AppointmentStatus `json:"status" gorm:"type:varchar(16);not null;index"`
	TherapyID  uuid.UUID         `json:"therapyId" gorm:"type:uuid;not null;index:idx_appointments_therapy_date,priority:1"`
	Therapy    *Therapy          `json:"therapy,omitempty" gorm:"foreignKey:TherapyID"`
	Notes      *string           `json:"notes"`
	AdminNotes *string           `json:"adminNotes"`
	Users      []AppointmentUser `json:"users" gorm:"foreignKey:AppointmentID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time         `json:"createdAt"`
	UpdatedAt  time.Time         `json:"updatedAt"`
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Status == "" {
		a.Status = DefaultStatus
	}
	return nil
}

// OwnerIDs lists the users assigned to the appointment.
func (a *Appointment) OwnerIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(a.Users))
	for _, u := range a.Users {
		ids = append(ids, u.UserID)
	}
	return ids
}

// AppointmentUser links a user to a booked appointment.
type AppointmentUser struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	AppointmentID uuid.UUID `json:"appointmentId" gorm:"type:uuid;not null;uniqueIndex:idx_appointment_user"`
	UserID        uuid.UUID `json:"userId" gorm:"type:uuid;not null;uniqueIndex:idx_appointment_user;index"`
	User          *User     `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Approved      bool      `json:"approved" gorm:"default:false"`
	CreatedAt     time.Time `json:"createdAt"`
}

func (l *AppointmentUser) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
