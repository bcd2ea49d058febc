package contract

import (
	"context"

	"bill-research-be/internal/entity"
	"bill-research-be/internal/repository/specification"

	"github.com/google/uuid"
)

// ScoredBillChunk pairs a chunk with its cosine similarity to a query vector
type ScoredBillChunk struct {
	Chunk      *entity.BillChunk
	Similarity float64
}

// ChunkSearchFilter narrows similarity search to exact metadata matches on
// the owning bill. Zero-value fields apply no constraint.
type ChunkSearchFilter struct {
	BillIdentifier string
	Years          []int
	Jurisdiction   string
}

func (f ChunkSearchFilter) IsZero() bool {
	return f.BillIdentifier == "" && len(f.Years) == 0 && f.Jurisdiction == ""
}

type BillChunkRepository interface {
	Create(ctx context.Context, chunk *entity.BillChunk) error
	CreateBulk(ctx context.Context, chunks []*entity.BillChunk) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.BillChunk, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	DeleteByBillId(ctx context.Context, billId uuid.UUID) error

	// FindByBillIdOrdered returns every chunk of a bill ordered by
	// chunk_index ascending. Reconstruction depends on this order.
	FindByBillIdOrdered(ctx context.Context, billId uuid.UUID) ([]*entity.BillChunk, error)

	// SearchSimilarWithScore runs a pgvector cosine similarity search,
	// optionally constrained by exact-match bill metadata filters.
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, filter ChunkSearchFilter) ([]*ScoredBillChunk, error)
}
