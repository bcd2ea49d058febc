package unitofwork

import (
	"context"

	"bill-research-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	BillRepository() contract.BillRepository
	BillChunkRepository() contract.BillChunkRepository
	ResearchSessionRepository() contract.ResearchSessionRepository
	ChatMessageRepository() contract.ChatMessageRepository
}

type RepositoryFactory interface {
	NewUnitOfWork(ctx context.Context) UnitOfWork
}
