package implementation

import (
	"context"

	"bill-research-be/internal/entity"
	"bill-research-be/internal/mapper"
	"bill-research-be/internal/model"
	"bill-research-be/internal/repository/contract"
	"bill-research-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type BillChunkRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.BillChunkMapper
}

func NewBillChunkRepository(db *gorm.DB) contract.BillChunkRepository {
	return &BillChunkRepositoryImpl{
		db:     db,
		mapper: mapper.NewBillChunkMapper(),
	}
}

func (r *BillChunkRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *BillChunkRepositoryImpl) Create(ctx context.Context, chunk *entity.BillChunk) error {
	m := r.mapper.ToModel(chunk)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*chunk = *r.mapper.ToEntity(m)
	return nil
}

func (r *BillChunkRepositoryImpl) CreateBulk(ctx context.Context, chunks []*entity.BillChunk) error {
	if len(chunks) == 0 {
		return nil
	}
	models := make([]*model.BillChunk, len(chunks))
	for i, c := range chunks {
		models[i] = r.mapper.ToModel(c)
	}
	return r.db.WithContext(ctx).CreateInBatches(models, 100).Error
}

func (r *BillChunkRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.BillChunk, error) {
	var models []*model.BillChunk
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.BillChunk, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *BillChunkRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.BillChunk{}).Count(&count).Error
	return count, err
}

func (r *BillChunkRepositoryImpl) DeleteByBillId(ctx context.Context, billId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("bill_id = ?", billId).Delete(&model.BillChunk{}).Error
}

// FindByBillIdOrdered returns the bill's chunks in chunk_index order.
// Full-text reconstruction concatenates in exactly this order.
func (r *BillChunkRepositoryImpl) FindByBillIdOrdered(ctx context.Context, billId uuid.UUID) ([]*entity.BillChunk, error) {
	var models []*model.BillChunk
	err := r.db.WithContext(ctx).
		Where("bill_id = ?", billId).
		Order("chunk_index ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	entities := make([]*entity.BillChunk, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

// SearchSimilarWithScore returns chunks with similarity scores.
// Metadata filters are exact-match constraints on the joined bills table;
// a filter that matches nothing legitimately yields an empty result.
func (r *BillChunkRepositoryImpl) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, filter contract.ChunkSearchFilter) ([]*contract.ScoredBillChunk, error) {
	if limit <= 0 {
		limit = 5
	}

	// Cosine distance in pgvector is: 1 - cosine_similarity
	// So we compute: 1 - (embedding_value <=> query_vector) = cosine_similarity
	type result struct {
		model.BillChunk
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	query := r.db.WithContext(ctx).
		Table("bill_chunks").
		Select("bill_chunks.*, 1 - (embedding_value <=> ?) as similarity", queryVector).
		Joins("JOIN bills ON bills.id = bill_chunks.bill_id").
		Where("bill_chunks.deleted_at IS NULL").
		Where("bills.deleted_at IS NULL")

	if filter.Jurisdiction != "" {
		query = query.Where("bills.jurisdiction = ?", filter.Jurisdiction)
	}
	if len(filter.Years) > 0 {
		query = query.Where("bills.year IN ?", filter.Years)
	}
	if filter.BillIdentifier != "" {
		query = query.Where("bills.identifier = ?", filter.BillIdentifier)
	}

	err := query.
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredBillChunk, len(results))
	for i, res := range results {
		scored[i] = &contract.ScoredBillChunk{
			Chunk:      r.mapper.ToEntity(&res.BillChunk),
			Similarity: res.Similarity,
		}
	}
	return scored, nil
}
