package entity

import (
	"time"

	"github.com/google/uuid"
)

type Bill struct {
	Id                uuid.UUID `gorm:"type:uuid;primaryKey"`
	Identifier        string
	Title             string
	Jurisdiction      string
	Year              int
	SessionIdentifier string
	Status            []string
	FullTextURL       string
	CreatedAt         time.Time
	UpdatedAt         *time.Time
	DeletedAt         *time.Time
	IsDeleted         bool
}
