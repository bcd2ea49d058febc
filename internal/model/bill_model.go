package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Bill struct {
	Id                uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Identifier        string         `gorm:"type:varchar(64);not null;index"` // e.g. "H.B. 123"
	Title             string         `gorm:"type:text;not null"`
	Jurisdiction      string         `gorm:"type:varchar(64);not null;index"` // state name or "Federal"
	Year              int            `gorm:"not null;index"`
	SessionIdentifier string         `gorm:"type:varchar(64)"`
	Status            datatypes.JSON `gorm:"type:jsonb"` // ordered status history, e.g. ["Introduced","Passed House"]
	FullTextURL       string         `gorm:"type:text"`
	CreatedAt         time.Time      `gorm:"autoCreateTime"`
	UpdatedAt         time.Time      `gorm:"autoUpdateTime"`
	DeletedAt         gorm.DeletedAt `gorm:"index"`
}

func (Bill) TableName() string {
	return "bills"
}
