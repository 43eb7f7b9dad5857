package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           uuid.UUID         `json:"id" gorm:"type:uuid;primaryKey"`
	Name         string            `json:"name" gorm:"not null"`
	Email        string            `json:"email" gorm:"uniqueIndex;not null"`
	Password     string            `json:"-"`
	Role         Role              `json:"role" gorm:"type:varchar(8);not null;default:GUEST"`
	Approved     bool              `json:"approved" gorm:"default:false"`
	Message      *string           `json:"message,omitempty"`
	Avatar       *string           `json:"avatar,omitempty"`
	Appointments []AppointmentUser `json:"appointments,omitempty" gorm:"foreignKey:UserID"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Role == "" {
		u.Role = RoleGuest
	}
	return nil
}

// OwnerIDs is the user itself: self-service endpoints compare against the record's own id.
func (u *User) OwnerIDs() []uuid.UUID {
	return []uuid.UUID{u.ID}
}
