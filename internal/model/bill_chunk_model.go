package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type BillChunk struct {
	Id             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	BillId         uuid.UUID       `gorm:"type:uuid;not null;index"`
	ChunkIndex     int             `gorm:"not null;default:0"` // 0-based position within the bill text
	ChunkText      string          `gorm:"type:text"`
	EmbeddingValue pgvector.Vector `gorm:"type:vector(1536)"` // text-embedding-3-small uses 1536 dimensions
	CreatedAt      time.Time       `gorm:"autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime"`
	DeletedAt      gorm.DeletedAt  `gorm:"index"`
}

func (BillChunk) TableName() string {
	return "bill_chunks"
}
