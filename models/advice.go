package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Advice is editorial content attached to a therapy.
type Advice struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Title       string    `json:"title" gorm:"size:30;not null"`
	Description string    `json:"description" gorm:"not null"`
	Content     string    `json:"content" gorm:"not null"`
	Image       string    `json:"image"`
	TherapyID   uuid.UUID `json:"therapyId" gorm:"type:uuid;not null;index"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (a *Advice) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
