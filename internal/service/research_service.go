package service

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"time"

	"bill-research-be/internal/constant"
	"bill-research-be/internal/dto"
	"bill-research-be/internal/entity"
	"bill-research-be/internal/repository/specification"
	"bill-research-be/internal/repository/unitofwork"
	"bill-research-be/pkg/llm"
	"bill-research-be/pkg/research/executor"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const sessionTitleMaxLen = 80

// ResearchPipeline is the subset of the pipeline executor the service
// depends on.
type ResearchPipeline interface {
	Run(ctx context.Context, messages []llm.Message) (*executor.Result, error)
}

type IResearchService interface {
	CreateSession(ctx context.Context) (*dto.CreateSessionResponse, error)
	GetAllSessions(ctx context.Context) ([]*dto.GetAllSessionsResponse, error)
	GetChatHistory(ctx context.Context, sessionId uuid.UUID) ([]*dto.GetChatHistoryResponse, error)
	SendResearch(ctx context.Context, request *dto.SendResearchRequest) (*dto.SendResearchResponse, error)
	DeleteSession(ctx context.Context, request *dto.DeleteSessionRequest) error
}

type researchService struct {
	uowFactory unitofwork.RepositoryFactory
	pipeline   ResearchPipeline
	logger     *log.Logger
}

func NewResearchService(uowFactory unitofwork.RepositoryFactory, pipeline ResearchPipeline) IResearchService {
	return &researchService{
		uowFactory: uowFactory,
		pipeline:   pipeline,
		logger:     initPipelineLogger(),
	}
}

func initPipelineLogger() *log.Logger {
	logPath := filepath.Join(".", "logs", "research_pipeline.log")
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		log.Printf("Failed to create logs directory: %v", err)
	}
	file, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return log.New(os.Stdout, "[RESEARCH] ", log.LstdFlags)
	}
	return log.New(file, "", log.LstdFlags)
}

func (rs *researchService) CreateSession(ctx context.Context) (*dto.CreateSessionResponse, error) {
	uow := rs.uowFactory.NewUnitOfWork(ctx)
	now := time.Now()

	session := entity.ResearchSession{
		Id:        uuid.New(),
		Title:     constant.ResearchSessionDefaultTitle,
		CreatedAt: now,
	}

	greeting := entity.ChatMessage{
		Id:                uuid.New(),
		Chat:              constant.ResearchGreeting,
		Role:              constant.ChatMessageRoleModel,
		ResearchSessionId: session.Id,
		CreatedAt:         now,
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.ResearchSessionRepository().Create(ctx, &session); err != nil {
		return nil, err
	}
	if err := uow.ChatMessageRepository().Create(ctx, &greeting); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	return &dto.CreateSessionResponse{Id: session.Id}, nil
}

func (rs *researchService) GetAllSessions(ctx context.Context) ([]*dto.GetAllSessionsResponse, error) {
	uow := rs.uowFactory.NewUnitOfWork(ctx)

	sessions, err := uow.ResearchSessionRepository().FindAll(ctx,
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	response := make([]*dto.GetAllSessionsResponse, 0, len(sessions))
	for _, s := range sessions {
		response = append(response, &dto.GetAllSessionsResponse{
			Id:        s.Id,
			Title:     s.Title,
			CreatedAt: s.CreatedAt,
			UpdatedAt: s.UpdatedAt,
		})
	}

	return response, nil
}

func (rs *researchService) GetChatHistory(ctx context.Context, sessionId uuid.UUID) ([]*dto.GetChatHistoryResponse, error) {
	uow := rs.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.ResearchSessionRepository().FindOne(ctx, specification.ByID{ID: sessionId})
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "research session not found")
	}

	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByResearchSessionID{ResearchSessionID: sessionId},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	response := make([]*dto.GetChatHistoryResponse, 0, len(messages))
	for _, m := range messages {
		response = append(response, &dto.GetChatHistoryResponse{
			Id:        m.Id,
			Role:      m.Role,
			Chat:      m.Chat,
			CreatedAt: m.CreatedAt,
		})
	}

	return response, nil
}

// SendResearch runs the full pipeline for one question and persists both
// sides of the exchange. The pipeline call happens outside the write
// transaction so a slow run never holds a database transaction open.
func (rs *researchService) SendResearch(ctx context.Context, request *dto.SendResearchRequest) (*dto.SendResearchResponse, error) {
	uow := rs.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.ResearchSessionRepository().FindOne(ctx, specification.ByID{ID: request.ResearchSessionId})
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "research session not found")
	}

	history, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByResearchSessionID{ResearchSessionID: session.Id},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	conversation := toLLMMessages(history)
	conversation = append(conversation, llm.Message{Role: "user", Content: request.Question})

	rs.logger.Printf("[SESSION %s] Question: %s", session.Id, request.Question)
	result, err := rs.pipeline.Run(ctx, conversation)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	userMessage := entity.ChatMessage{
		Id:                uuid.New(),
		Chat:              request.Question,
		Role:              constant.ChatMessageRoleUser,
		ResearchSessionId: session.Id,
		CreatedAt:         now,
	}
	replyMessage := entity.ChatMessage{
		Id:                uuid.New(),
		Chat:              result.Report,
		Role:              constant.ChatMessageRoleModel,
		ResearchSessionId: session.Id,
		CreatedAt:         now.Add(1 * time.Second),
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.ChatMessageRepository().Create(ctx, &userMessage); err != nil {
		return nil, err
	}
	if err := uow.ChatMessageRepository().Create(ctx, &replyMessage); err != nil {
		return nil, err
	}

	// First question names the session.
	if session.Title == constant.ResearchSessionDefaultTitle {
		session.Title = truncateTitle(request.Question)
		session.UpdatedAt = &now
		if err := uow.ResearchSessionRepository().Update(ctx, session); err != nil {
			return nil, err
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	return &dto.SendResearchResponse{
		ResearchSessionId: session.Id,
		Title:             session.Title,
		Sent: &dto.SendResearchResponseChat{
			Id:        userMessage.Id,
			Chat:      userMessage.Chat,
			Role:      userMessage.Role,
			CreatedAt: userMessage.CreatedAt,
		},
		Reply: &dto.SendResearchResponseChat{
			Id:        replyMessage.Id,
			Chat:      replyMessage.Chat,
			Role:      replyMessage.Role,
			CreatedAt: replyMessage.CreatedAt,
		},
		BillCards: toBillCardDTOs(result.BillCards),
	}, nil
}

func (rs *researchService) DeleteSession(ctx context.Context, request *dto.DeleteSessionRequest) error {
	uow := rs.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.ResearchSessionRepository().FindOne(ctx, specification.ByID{ID: request.ResearchSessionId})
	if err != nil {
		return err
	}
	if session == nil {
		return fiber.NewError(fiber.StatusNotFound, "research session not found")
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.ChatMessageRepository().DeleteBySessionId(ctx, session.Id); err != nil {
		return err
	}
	if err := uow.ResearchSessionRepository().Delete(ctx, session.Id); err != nil {
		return err
	}

	return uow.Commit()
}

// toLLMMessages maps stored roles onto the provider's role vocabulary.
func toLLMMessages(messages []*entity.ChatMessage) []llm.Message {
	out := make([]llm.Message, 0, len(messages))
	for _, m := range messages {
		role := "user"
		if m.Role == constant.ChatMessageRoleModel {
			role = "assistant"
		} else if m.Role == constant.ChatMessageRoleSystem {
			role = "system"
		}
		out = append(out, llm.Message{Role: role, Content: m.Chat})
	}
	return out
}

func toBillCardDTOs(cards []executor.BillCard) []dto.BillCardDTO {
	out := make([]dto.BillCardDTO, 0, len(cards))
	for _, c := range cards {
		out = append(out, dto.BillCardDTO{
			BillId:          c.BillID,
			Identifier:      c.Identifier,
			Title:           c.Title,
			Jurisdiction:    c.Jurisdiction,
			OneLineSummary:  c.OneLineSummary,
			SourceURL:       c.SourceURL,
			SimilarityScore: c.SimilarityScore,
		})
	}
	return out
}

func truncateTitle(s string) string {
	if len(s) <= sessionTitleMaxLen {
		return s
	}
	return s[:sessionTitleMaxLen] + "..."
}
