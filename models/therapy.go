package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Therapy struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Title       string    `json:"title" gorm:"size:30;not null"`
	Description string    `json:"description" gorm:"not null"`
	Content     string    `json:"content" gorm:"not null"`
	Image       string    `json:"image"`
	Advices     []Advice  `json:"advices,omitempty" gorm:"foreignKey:TherapyID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (t *Therapy) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
