package entity

import (
	"time"

	"github.com/google/uuid"
)

type ResearchSession struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Title     string
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	IsDeleted bool
}
