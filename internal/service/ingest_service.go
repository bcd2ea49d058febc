package service

import (
	"context"
	"fmt"
	"time"

	"bill-research-be/internal/dto"
	"bill-research-be/internal/entity"
	"bill-research-be/internal/repository/specification"
	"bill-research-be/internal/repository/unitofwork"
	"bill-research-be/pkg/embedding"
	"bill-research-be/pkg/textsplit"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IIngestService interface {
	IngestBill(ctx context.Context, request *dto.IngestBillRequest) (*dto.IngestBillResponse, error)
	GetAllBills(ctx context.Context) ([]*dto.GetBillResponse, error)
	DeleteBill(ctx context.Context, billId uuid.UUID) error
}

type ingestService struct {
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
	chunkSize         int
	chunkOverlap      int
}

func NewIngestService(uowFactory unitofwork.RepositoryFactory, embeddingProvider embedding.EmbeddingProvider) IIngestService {
	return &ingestService{
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		chunkSize:         textsplit.DefaultChunkSize,
		chunkOverlap:      textsplit.DefaultOverlap,
	}
}

// IngestBill stores a bill and its embedded chunks. Embedding happens
// before the transaction opens so a slow provider never holds a database
// transaction.
func (is *ingestService) IngestBill(ctx context.Context, request *dto.IngestBillRequest) (*dto.IngestBillResponse, error) {
	uow := is.uowFactory.NewUnitOfWork(ctx)

	existing, err := uow.BillRepository().FindOne(ctx,
		specification.ByIdentifier{Identifier: request.Identifier},
		specification.ByJurisdiction{Jurisdiction: request.Jurisdiction},
	)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fiber.NewError(fiber.StatusConflict,
			fmt.Sprintf("bill %s (%s) already ingested", request.Identifier, request.Jurisdiction))
	}

	now := time.Now()
	bill := entity.Bill{
		Id:                uuid.New(),
		Identifier:        request.Identifier,
		Title:             request.Title,
		Jurisdiction:      request.Jurisdiction,
		Year:              request.Year,
		SessionIdentifier: request.SessionIdentifier,
		Status:            request.Status,
		FullTextURL:       request.FullTextURL,
		CreatedAt:         now,
	}

	pieces := textsplit.Split(textsplit.Normalize(request.FullText), is.chunkSize, is.chunkOverlap)
	chunks := make([]*entity.BillChunk, 0, len(pieces))
	for idx, piece := range pieces {
		embeddingRes, err := is.embeddingProvider.Generate(piece, "RETRIEVAL_DOCUMENT")
		if err != nil {
			return nil, fmt.Errorf("embedding chunk %d of %s: %w", idx, request.Identifier, err)
		}
		chunks = append(chunks, &entity.BillChunk{
			Id:         uuid.New(),
			BillId:     bill.Id,
			ChunkIndex: idx,
			ChunkText:  piece,
			Embedding:  embeddingRes.Embedding.Values,
			CreatedAt:  now,
		})
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.BillRepository().Create(ctx, &bill); err != nil {
		return nil, err
	}
	if err := uow.BillChunkRepository().CreateBulk(ctx, chunks); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	return &dto.IngestBillResponse{
		Id:         bill.Id,
		Identifier: bill.Identifier,
		ChunkCount: len(chunks),
	}, nil
}

func (is *ingestService) GetAllBills(ctx context.Context) ([]*dto.GetBillResponse, error) {
	uow := is.uowFactory.NewUnitOfWork(ctx)

	bills, err := uow.BillRepository().FindAll(ctx,
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	response := make([]*dto.GetBillResponse, 0, len(bills))
	for _, b := range bills {
		response = append(response, &dto.GetBillResponse{
			Id:                b.Id,
			Identifier:        b.Identifier,
			Title:             b.Title,
			Jurisdiction:      b.Jurisdiction,
			Year:              b.Year,
			SessionIdentifier: b.SessionIdentifier,
			Status:            b.Status,
			FullTextURL:       b.FullTextURL,
			CreatedAt:         b.CreatedAt,
		})
	}

	return response, nil
}

func (is *ingestService) DeleteBill(ctx context.Context, billId uuid.UUID) error {
	uow := is.uowFactory.NewUnitOfWork(ctx)

	bill, err := uow.BillRepository().FindOne(ctx, specification.ByID{ID: billId})
	if err != nil {
		return err
	}
	if bill == nil {
		return fiber.NewError(fiber.StatusNotFound, "bill not found")
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.BillChunkRepository().DeleteByBillId(ctx, billId); err != nil {
		return err
	}
	if err := uow.BillRepository().Delete(ctx, billId); err != nil {
		return err
	}

	return uow.Commit()
}
