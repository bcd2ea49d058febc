package contract

import (
	"context"

	"bill-research-be/internal/entity"
	"bill-research-be/internal/repository/specification"

	"github.com/google/uuid"
)

type BillRepository interface {
	Create(ctx context.Context, bill *entity.Bill) error
	CreateBulk(ctx context.Context, bills []*entity.Bill) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Bill, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Bill, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
