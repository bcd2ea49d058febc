package implementation

import (
	"context"
	"errors"

	"bill-research-be/internal/entity"
	"bill-research-be/internal/mapper"
	"bill-research-be/internal/model"
	"bill-research-be/internal/repository/contract"
	"bill-research-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BillRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.BillMapper
}

func NewBillRepository(db *gorm.DB) contract.BillRepository {
	return &BillRepositoryImpl{
		db:     db,
		mapper: mapper.NewBillMapper(),
	}
}

func (r *BillRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *BillRepositoryImpl) Create(ctx context.Context, bill *entity.Bill) error {
	m := r.mapper.ToModel(bill)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*bill = *r.mapper.ToEntity(m)
	return nil
}

func (r *BillRepositoryImpl) CreateBulk(ctx context.Context, bills []*entity.Bill) error {
	if len(bills) == 0 {
		return nil
	}
	models := make([]*model.Bill, len(bills))
	for i, b := range bills {
		models[i] = r.mapper.ToModel(b)
	}
	return r.db.WithContext(ctx).CreateInBatches(models, 100).Error
}

func (r *BillRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Bill, error) {
	var m model.Bill
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *BillRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Bill, error) {
	var models []*model.Bill
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Bill, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *BillRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.Bill{}).Count(&count).Error
	return count, err
}

func (r *BillRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Bill{}, id).Error
}
