package contract

import (
	"context"

	"bill-research-be/internal/entity"
	"bill-research-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ResearchSessionRepository interface {
	Create(ctx context.Context, session *entity.ResearchSession) error
	Update(ctx context.Context, session *entity.ResearchSession) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ResearchSession, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ResearchSession, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type ChatMessageRepository interface {
	Create(ctx context.Context, message *entity.ChatMessage) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error)
	DeleteBySessionId(ctx context.Context, sessionId uuid.UUID) error
}
