package mapper

import (
	"time"

	"bill-research-be/internal/entity"
	"bill-research-be/internal/model"

	"github.com/pgvector/pgvector-go"
)

type BillChunkMapper struct{}

func NewBillChunkMapper() *BillChunkMapper {
	return &BillChunkMapper{}
}

func (m *BillChunkMapper) ToEntity(c *model.BillChunk) *entity.BillChunk {
	if c == nil {
		return nil
	}

	var deletedAt *time.Time
	if c.DeletedAt.Valid {
		t := c.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !c.UpdatedAt.IsZero() {
		t := c.UpdatedAt
		updatedAt = &t
	}

	return &entity.BillChunk{
		Id:         c.Id,
		BillId:     c.BillId,
		ChunkIndex: c.ChunkIndex,
		ChunkText:  c.ChunkText,
		Embedding:  c.EmbeddingValue.Slice(),
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  updatedAt,
		DeletedAt:  deletedAt,
		IsDeleted:  c.DeletedAt.Valid,
	}
}

func (m *BillChunkMapper) ToModel(c *entity.BillChunk) *model.BillChunk {
	if c == nil {
		return nil
	}

	mod := &model.BillChunk{
		Id:             c.Id,
		BillId:         c.BillId,
		ChunkIndex:     c.ChunkIndex,
		ChunkText:      c.ChunkText,
		EmbeddingValue: pgvector.NewVector(c.Embedding),
		CreatedAt:      c.CreatedAt,
	}
	if c.UpdatedAt != nil {
		mod.UpdatedAt = *c.UpdatedAt
	}
	return mod
}
