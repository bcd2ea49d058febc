package entity

import (
	"time"

	"github.com/google/uuid"
)

type BillChunk struct {
	Id         uuid.UUID `gorm:"type:uuid;primaryKey"`
	BillId     uuid.UUID `gorm:"type:uuid;index"`
	ChunkIndex int
	ChunkText  string
	Embedding  []float32
	CreatedAt  time.Time
	UpdatedAt  *time.Time
	DeletedAt  *time.Time
	IsDeleted  bool
}
